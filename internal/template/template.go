// Package template implements the token format language: plain text with
// {{login}}, {{account}} and {{password}} references. It is deliberately
// just variable substitution - no conditionals, loops or helpers.
package template

import (
	"fmt"
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// variableNames is the closed set of names a template may reference.
var variableNames = map[string]bool{
	"login":    true,
	"account":  true,
	"password": true,
}

// Variables holds the values substituted into a template. Absent optional
// netrc fields are represented as empty strings.
type Variables struct {
	Login    string
	Account  string
	Password string
}

// SyntaxError reports an unterminated variable reference.
type SyntaxError struct {
	Offset int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unterminated variable reference at offset %d", e.Offset)
}

// UnknownVariableError reports a reference to a name outside the supported
// variable set.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown template variable %q (supported: login, account, password)", e.Name)
}

// MissingFieldError reports a referenced variable that the matched netrc
// entry does not provide, where the caller declared it required.
type MissingFieldError struct {
	Name string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("netrc entry has no %s, but the token format requires one", e.Name)
}

// segment is one parsed piece of a template: either literal text or a
// single variable reference.
type segment struct {
	literal  string
	variable string // non-empty means variable reference
}

// Template is a compiled token format, ready for rendering.
type Template struct {
	segments []segment
}

// Parse compiles a format string. References may pad the name with spaces
// ({{ login }} is accepted) and a backslash escapes a literal open
// delimiter (\{{). Unterminated references and unknown variable names are
// rejected here, before any credential is touched.
func Parse(format string) (*Template, error) {
	var segs []segment
	var lit strings.Builder

	rest := format
	for len(rest) > 0 {
		i := strings.Index(rest, openDelim)
		if i < 0 {
			lit.WriteString(rest)
			break
		}

		// Escaped delimiter: emit "{{" literally.
		if i > 0 && rest[i-1] == '\\' {
			lit.WriteString(rest[:i-1])
			lit.WriteString(openDelim)
			rest = rest[i+len(openDelim):]
			continue
		}

		lit.WriteString(rest[:i])
		rest = rest[i+len(openDelim):]

		j := strings.Index(rest, closeDelim)
		if j < 0 {
			return nil, &SyntaxError{Offset: len(format) - len(rest) - len(openDelim)}
		}

		name := strings.TrimSpace(rest[:j])
		if !variableNames[name] {
			return nil, &UnknownVariableError{Name: name}
		}

		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
		segs = append(segs, segment{variable: name})
		rest = rest[j+len(closeDelim):]
	}

	if lit.Len() > 0 {
		segs = append(segs, segment{literal: lit.String()})
	}

	return &Template{segments: segs}, nil
}

// References reports whether the template uses the named variable.
func (t *Template) References(name string) bool {
	for _, seg := range t.segments {
		if seg.variable == name {
			return true
		}
	}
	return false
}

// Render substitutes vars into the template. Literal text is preserved
// byte-for-byte and values are inserted verbatim. A referenced variable
// whose value is empty renders as an empty string, unless its name is
// listed in required, in which case rendering fails with
// MissingFieldError. Rendering is pure: identical inputs always produce
// identical output.
func (t *Template) Render(vars Variables, required ...string) (string, error) {
	var out strings.Builder

	for _, seg := range t.segments {
		if seg.variable == "" {
			out.WriteString(seg.literal)
			continue
		}

		value := vars.value(seg.variable)
		if value == "" {
			for _, name := range required {
				if name == seg.variable {
					return "", &MissingFieldError{Name: name}
				}
			}
		}
		out.WriteString(value)
	}

	return out.String(), nil
}

func (v Variables) value(name string) string {
	switch name {
	case "login":
		return v.Login
	case "account":
		return v.Account
	case "password":
		return v.Password
	}
	return ""
}
