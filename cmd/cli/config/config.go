package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	appconfig "github.com/crucial707/changelog-browser/internal/config"
)

// EnvDataURL overrides the data location for the CLI and the servers alike.
const EnvDataURL = "CHANGELOG_DATA_URL"

// EnvDebounce overrides the quiet period of interactive search.
const EnvDebounce = "SEARCH_DEBOUNCE"

// DefaultDebounce is the quiet period of interactive search.
const DefaultDebounce = 300 * time.Millisecond

// envSettings are the environment overrides shared with the servers.
type envSettings struct {
	DataURL  string        `env:"CHANGELOG_DATA_URL"`
	Debounce time.Duration `env:"SEARCH_DEBOUNCE"`
}

// Settings is the resolved CLI configuration.
type Settings struct {
	DataURL  string
	Debounce time.Duration
	Profile  string
}

type profile struct {
	DataURL  string `yaml:"data_url"`
	Debounce string `yaml:"debounce"`
}

// configFile is ~/.changelog/config.yaml. Either the flat fields or a named
// profile may be used; the active profile wins over the flat fields.
type configFile struct {
	DataURL       string             `yaml:"data_url"`
	Debounce      string             `yaml:"debounce"`
	ActiveProfile string             `yaml:"active_profile"`
	Profiles      map[string]profile `yaml:"profiles"`
}

// Path returns the config file location, or "" when there is no home dir.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".changelog", "config.yaml")
}

// Resolve merges, highest first: the --url flag (when set), the environment
// (CHANGELOG_DATA_URL, SEARCH_DEBOUNCE), the config file, then the built-in
// defaults. profileName selects a profile; empty uses active_profile, then
// "default". A malformed file or environment value is skipped and reported in
// the error; the returned Settings are usable either way.
func Resolve(flagURL, profileName string) (Settings, error) {
	s := Settings{DataURL: appconfig.DefaultDataURL, Debounce: DefaultDebounce}
	var errs []error

	cfg, ok, err := readFile(Path())
	if err != nil {
		errs = append(errs, err)
	}
	if ok {
		url, debounce := cfg.DataURL, cfg.Debounce
		name := profileName
		if name == "" {
			name = cfg.ActiveProfile
		}
		if name == "" {
			name = "default"
		}
		if p, ok := cfg.Profiles[name]; ok {
			s.Profile = name
			if p.DataURL != "" {
				url = p.DataURL
			}
			if p.Debounce != "" {
				debounce = p.Debounce
			}
		}
		if url != "" {
			s.DataURL = url
		}
		if debounce != "" {
			if d, err := time.ParseDuration(debounce); err == nil && d >= 0 {
				s.Debounce = d
			} else {
				errs = append(errs, fmt.Errorf("config debounce %q: must be a non-negative duration", debounce))
			}
		}
	}

	var e envSettings
	if err := env.Parse(&e); err != nil {
		errs = append(errs, fmt.Errorf("parse environment (%s, %s): %w", EnvDataURL, EnvDebounce, err))
	} else {
		if e.DataURL != "" {
			s.DataURL = e.DataURL
		}
		if os.Getenv(EnvDebounce) != "" {
			if e.Debounce >= 0 {
				s.Debounce = e.Debounce
			} else {
				errs = append(errs, fmt.Errorf("%s %v: must not be negative", EnvDebounce, e.Debounce))
			}
		}
	}

	if flagURL != "" {
		s.DataURL = flagURL
	}
	return s, errors.Join(errs...)
}

// readFile loads the config file. A missing file is not an error.
func readFile(path string) (configFile, bool, error) {
	var cfg configFile
	if path == "" {
		return cfg, false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, false, nil
	}
	if err != nil {
		return cfg, false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return configFile{}, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, true, nil
}
