// Package provider implements the Cargo credential-provider protocol: a
// hello line followed by one JSON request per stdin line, answered with
// one JSON response per stdout line.
package provider

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/semmy-space/cargo-credential-netrc/internal/credential"
)

// Resolver produces a token for a registry host.
type Resolver interface {
	Resolve(host string) (string, error)
}

// MalformedRequestError reports a request the provider could not decode or
// that is missing required fields.
type MalformedRequestError struct {
	Reason string
}

func (e *MalformedRequestError) Error() string {
	return "malformed credential request: " + e.Reason
}

// UnsupportedActionError reports a request kind this read-only provider
// does not implement (login, logout, ...).
type UnsupportedActionError struct {
	Kind string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action %q: this provider only supports credential retrieval", e.Kind)
}

// UnsupportedURLError reports an index URL without a usable host.
type UnsupportedURLError struct {
	IndexURL string
}

func (e *UnsupportedURLError) Error() string {
	return fmt.Sprintf("registry index URL %q has no host", e.IndexURL)
}

// Handler runs the request/response loop against an injected resolver.
type Handler struct {
	resolver Resolver
	cache    string
}

// New creates a Handler. cache is the cache policy advertised on
// successful responses (CacheSession or CacheNever).
func New(resolver Resolver, cache string) *Handler {
	return &Handler{resolver: resolver, cache: cache}
}

// Run speaks the protocol over in/out until in reaches EOF. Every decoded
// request gets exactly one response line, Ok or Err; an undecodable line
// also ends the loop, since the stream can no longer be trusted. The
// returned error is the final exchange's failure (nil when it succeeded),
// so the process exit code mirrors the last thing put on the wire.
func (h *Handler) Run(in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)

	// Advertise supported protocol versions before reading anything.
	if err := enc.Encode(hello{V: []int{protocolVersion}}); err != nil {
		return fmt.Errorf("failed to write hello: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write hello: %w", err)
	}

	var lastErr error
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			// A fixed reason: echoing the decode error would quote
			// fragments of whatever the host put on the line.
			perr := &MalformedRequestError{Reason: "invalid JSON"}
			if werr := h.respond(enc, w, "", perr); werr != nil {
				return werr
			}
			return perr
		}

		token, err := h.handle(&req)
		if werr := h.respond(enc, w, token, err); werr != nil {
			return werr
		}
		lastErr = err
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read credential request: %w", err)
	}

	return lastErr
}

// handle processes one decoded request and returns the rendered token.
func (h *Handler) handle(req *Request) (string, error) {
	if req.V != protocolVersion {
		return "", &MalformedRequestError{Reason: fmt.Sprintf("unsupported protocol version %d", req.V)}
	}

	if req.Kind != KindGet {
		return "", &UnsupportedActionError{Kind: req.Kind}
	}

	if req.Registry.IndexURL == "" {
		return "", &MalformedRequestError{Reason: "request has no registry index URL"}
	}

	host, err := registryHost(req.Registry.IndexURL)
	if err != nil {
		return "", err
	}

	return h.resolver.Resolve(host)
}

// respond writes the single response line for an exchange and flushes it.
// token is used when err is nil; otherwise err is mapped to its wire
// representation.
func (h *Handler) respond(enc *json.Encoder, w *bufio.Writer, token string, err error) error {
	var resp response
	if err != nil {
		resp.Err = wireErrorFor(err)
	} else {
		resp.Ok = &getSuccess{
			Kind:                 KindGet,
			Token:                token,
			Cache:                h.cache,
			OperationIndependent: true,
		}
	}

	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to write credential response: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write credential response: %w", err)
	}
	return nil
}

// wireErrorFor maps an internal failure to the protocol's error kinds.
// The mapping is total: anything without a dedicated kind becomes "other"
// with a message. Messages name the failure but never credential values.
func wireErrorFor(err error) *wireError {
	var notFound *credential.NoCredentialsError
	if errors.As(err, &notFound) {
		return &wireError{Kind: errNotFound}
	}

	var badURL *UnsupportedURLError
	if errors.As(err, &badURL) {
		return &wireError{Kind: errURLNotSupported}
	}

	var unsupported *UnsupportedActionError
	if errors.As(err, &unsupported) {
		return &wireError{Kind: errOperationNotSupported}
	}

	return &wireError{Kind: errOther, Message: err.Error()}
}

// registryHost extracts the lookup host from a registry index URL. Sparse
// registry URLs (sparse+https://...) parse as-is, the sparse+ prefix
// simply being part of the scheme. The host is lowercased so lookups are
// predictable regardless of how the URL was written.
func registryHost(indexURL string) (string, error) {
	u, err := url.Parse(indexURL)
	if err != nil || u.Host == "" {
		return "", &UnsupportedURLError{IndexURL: indexURL}
	}

	return strings.ToLower(u.Hostname()), nil
}
