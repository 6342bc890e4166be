package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/semmy-space/cargo-credential-netrc/internal/cli"
)

var (
	version = "dev"
)

func main() {
	// Parse CLI
	cliInstance := &cli.CLI{}
	ctx := kong.Parse(cliInstance,
		kong.Name("cargo-credential-netrc"),
		kong.Description("Cargo credential provider that resolves registry tokens from your netrc file"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	// Run the provider with proper exit codes. Diagnostics go to stderr;
	// stdout belongs to the credential protocol.
	err := ctx.Run()
	if err != nil {
		if cliErr, ok := err.(*cli.CLIError); ok {
			fmt.Fprintf(os.Stderr, "error: %s\n", cliErr.Message)
			if cliErr.Hint != "" {
				fmt.Fprintf(os.Stderr, "hint: %s\n", cliErr.Hint)
			}
			os.Exit(cliErr.ExitCode)
		}
		// Unknown error
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(cli.ExitGeneral)
	}
}
