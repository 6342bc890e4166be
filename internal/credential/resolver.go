// Package credential turns a registry host into a rendered token by
// combining the netrc store with the configured token format.
package credential

import (
	"fmt"

	"github.com/semmy-space/cargo-credential-netrc/internal/netrc"
	"github.com/semmy-space/cargo-credential-netrc/internal/template"
)

// NoCredentialsError reports that the netrc file has no entry for the
// requested host.
type NoCredentialsError struct {
	Host string
}

func (e *NoCredentialsError) Error() string {
	return fmt.Sprintf("no netrc entry for machine %q", e.Host)
}

// Resolver resolves hosts against the netrc file using a fixed token
// format. The format is provider-level configuration, not per-request
// input. Both the netrc file and the compiled format are loaded at most
// once per process, on first use, so their failures still reach the host
// as structured protocol errors instead of killing the process before
// the handshake.
type Resolver struct {
	netrcPath string
	format    string

	loaded  bool
	store   *netrc.Store
	loadErr error

	compiled bool
	tpl      *template.Template
	tplErr   error
}

// NewResolver creates a resolver over the netrc file at netrcPath using
// the given token format.
func NewResolver(netrcPath, format string) *Resolver {
	return &Resolver{netrcPath: netrcPath, format: format}
}

func (r *Resolver) load() (*netrc.Store, error) {
	if !r.loaded {
		r.store, r.loadErr = netrc.Load(r.netrcPath)
		r.loaded = true
	}
	return r.store, r.loadErr
}

func (r *Resolver) compile() (*template.Template, error) {
	if !r.compiled {
		r.tpl, r.tplErr = template.Parse(r.format)
		if r.tplErr != nil {
			r.tplErr = fmt.Errorf("invalid token format: %w", r.tplErr)
		}
		r.compiled = true
	}
	return r.tpl, r.tplErr
}

// Resolve looks up host and renders the token format with the matched
// entry's fields. Absent account/password fields substitute as empty
// strings, except that a format referencing {{password}} fails when the
// entry has none: a registry token minted without its password would be
// silently unusable. Failures are deterministic; nothing is retried.
func (r *Resolver) Resolve(host string) (string, error) {
	store, err := r.load()
	if err != nil {
		return "", err
	}

	record, ok := store.Lookup(host)
	if !ok {
		return "", &NoCredentialsError{Host: host}
	}

	tpl, err := r.compile()
	if err != nil {
		return "", err
	}

	vars := template.Variables{
		Login:    record.Login,
		Account:  record.Account,
		Password: record.Password,
	}

	token, err := tpl.Render(vars, "password")
	if err != nil {
		return "", fmt.Errorf("failed to render token: %w", err)
	}

	return token, nil
}
