package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semmy-space/cargo-credential-netrc/internal/config"
)

func TestResolveOptions(t *testing.T) {
	tests := []struct {
		name     string
		cli      CLI
		cfg      config.Config
		expected options
	}{
		{
			name:     "flags win over config file",
			cli:      CLI{Format: "Bearer {{password}}", Netrc: "/flag/netrc", Cache: "never"},
			cfg:      config.Config{Format: "{{login}}", Netrc: "/cfg/netrc", Cache: "session"},
			expected: options{format: "Bearer {{password}}", netrc: "/flag/netrc", cache: "never"},
		},
		{
			name:     "config file fills unset flags",
			cli:      CLI{},
			cfg:      config.Config{Format: "{{login}}:{{password}}", Netrc: "/cfg/netrc", Cache: "never"},
			expected: options{format: "{{login}}:{{password}}", netrc: "/cfg/netrc", cache: "never"},
		},
		{
			name:     "defaults fill everything else",
			cli:      CLI{Format: "t"},
			cfg:      config.Config{},
			expected: options{format: "t", netrc: config.DefaultNetrcPath(), cache: "session"},
		},
		{
			name:     "mixed sources per setting",
			cli:      CLI{Netrc: "/flag/netrc"},
			cfg:      config.Config{Format: "{{login}}"},
			expected: options{format: "{{login}}", netrc: "/flag/netrc", cache: "session"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := tt.cli.resolveOptions(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts)
		})
	}
}

func TestResolveOptionsInvalidCache(t *testing.T) {
	t.Run("from config file", func(t *testing.T) {
		cli := CLI{Format: "t"}
		_, err := cli.resolveOptions(&config.Config{Cache: "forever"})

		require.Error(t, err)
		cliErr, ok := err.(*CLIError)
		require.True(t, ok)
		assert.Equal(t, ExitUsage, cliErr.ExitCode)
		assert.Contains(t, cliErr.Message, "forever")
	})

	t.Run("valid policies pass", func(t *testing.T) {
		for _, cache := range []string{"session", "never"} {
			cli := CLI{Format: "t", Cache: cache}
			opts, err := cli.resolveOptions(&config.Config{})
			require.NoError(t, err)
			assert.Equal(t, cache, opts.cache)
		}
	})
}
