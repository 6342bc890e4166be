package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Config holds optional provider defaults. Every field can be overridden
// by the corresponding command-line flag; the file exists so users can
// avoid repeating --format in each credential-provider entry.
type Config struct {
	// Format is the default token format template.
	Format string `json:"format,omitempty"`
	// Netrc overrides the netrc file location.
	Netrc string `json:"netrc,omitempty"`
	// Cache is the cache policy advertised on successful responses
	// ("session" or "never").
	Cache string `json:"cache,omitempty"`
}

// Load reads the config file from the XDG path. A missing file is not an
// error and yields a zero-value config; a malformed file is, since it was
// written deliberately.
func Load() (*Config, error) {
	return loadFrom(ConfigPath())
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return &cfg, nil
}

// DefaultNetrcPath returns the conventional netrc location for this
// platform: ~/.netrc, or ~/_netrc on Windows.
func DefaultNetrcPath() string {
	name := ".netrc"
	if runtime.GOOS == "windows" {
		name = "_netrc"
	}
	return filepath.Join(xdg.Home, name)
}
