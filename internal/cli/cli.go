package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/semmy-space/cargo-credential-netrc/internal/config"
	"github.com/semmy-space/cargo-credential-netrc/internal/credential"
	"github.com/semmy-space/cargo-credential-netrc/internal/netrc"
	"github.com/semmy-space/cargo-credential-netrc/internal/provider"
	"github.com/semmy-space/cargo-credential-netrc/internal/template"
)

// CLI is the root command structure. The provider has no subcommands:
// Cargo launches the binary with the flags configured in the
// credential-provider entry and then speaks the protocol over
// stdin/stdout.
type CLI struct {
	Format      string           `help:"Token format template rendered with the matched netrc entry. Variables: {{login}}, {{account}}, {{password}}." short:"f" placeholder:"TEMPLATE" env:"CARGO_NETRC_FORMAT"`
	Netrc       string           `help:"Path to the netrc file." type:"path" env:"NETRC"`
	Cache       string           `help:"Cache policy advertised on successful responses." default:"" enum:"session,never," env:"CARGO_NETRC_CACHE"`
	CargoPlugin bool             `help:"Appended by Cargo when launching the provider." hidden:""`
	Version     kong.VersionFlag `help:"Show version information"`
}

// options are the effective provider settings after merging flags with
// the config file.
type options struct {
	format string
	netrc  string
	cache  string
}

// resolveOptions merges each setting: CLI flag > config file > default.
func (c *CLI) resolveOptions(cfg *config.Config) (options, error) {
	opts := options{
		format: c.Format,
		netrc:  c.Netrc,
		cache:  c.Cache,
	}

	if opts.format == "" {
		opts.format = cfg.Format
	}
	if opts.netrc == "" {
		opts.netrc = cfg.Netrc
	}
	if opts.netrc == "" {
		opts.netrc = config.DefaultNetrcPath()
	}
	if opts.cache == "" {
		opts.cache = cfg.Cache
	}
	if opts.cache == "" {
		opts.cache = provider.CacheSession
	}
	if opts.cache != provider.CacheSession && opts.cache != provider.CacheNever {
		return options{}, NewCLIError(ExitUsage, fmt.Sprintf("invalid cache policy %q", opts.cache)).
			WithHint("Valid cache policies: session, never")
	}

	return opts, nil
}

// Run wires the store, resolver and protocol handler together and speaks
// the protocol over the process's standard streams.
func (c *CLI) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return NewCLIError(ExitConfig, err.Error())
	}

	opts, err := c.resolveOptions(cfg)
	if err != nil {
		return err
	}

	if !c.CargoPlugin {
		return NewCLIError(ExitUsage, "cargo-credential-netrc is a Cargo credential provider, not meant to be run directly").
			WithHint(`Configure it in your Cargo config, e.g. credential-provider = ["cargo-credential-netrc", "--format", "Bearer {{password}}"]`)
	}

	if opts.format == "" {
		return NewCLIError(ExitUsage, "no token format configured").
			WithHint(`Pass --format, e.g. --format "Bearer {{password}}"`)
	}

	resolver := credential.NewResolver(opts.netrc, opts.format)
	handler := provider.New(resolver, opts.cache)

	if err := handler.Run(os.Stdin, os.Stdout); err != nil {
		return asCLIError(err)
	}
	return nil
}

// asCLIError maps handler failures onto exit codes. The structured wire
// response already carried the details; the exit code mirrors it.
func asCLIError(err error) *CLIError {
	var noCreds *credential.NoCredentialsError
	if errors.As(err, &noCreds) {
		return NewCLIError(ExitNotFound, err.Error()).
			WithHint(fmt.Sprintf("Add a 'machine %s' entry to your netrc file", noCreds.Host))
	}

	var syntaxErr *template.SyntaxError
	var unknownVar *template.UnknownVariableError
	var missingField *template.MissingFieldError
	if errors.As(err, &syntaxErr) || errors.As(err, &unknownVar) || errors.As(err, &missingField) {
		return NewCLIError(ExitTemplate, err.Error())
	}

	var malformed *provider.MalformedRequestError
	var unsupportedAction *provider.UnsupportedActionError
	var unsupportedURL *provider.UnsupportedURLError
	if errors.As(err, &malformed) || errors.As(err, &unsupportedAction) || errors.As(err, &unsupportedURL) {
		return NewCLIError(ExitProtocol, err.Error())
	}

	var loadErr *netrc.LoadError
	if errors.As(err, &loadErr) {
		return NewCLIError(ExitConfig, err.Error()).
			WithHint("Check the netrc file path, or point --netrc at the right file")
	}

	return NewCLIError(ExitGeneral, err.Error())
}
