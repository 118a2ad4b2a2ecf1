// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/shopdesk/internal/domain"
)

// EnvPrefix is the prefix of environment overrides, e.g. SHOPDESK_LOG_LEVEL.
const EnvPrefix = "shopdesk"

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files and the environment.
type Loader struct {
	dataDir       string // Path to .shopdesk directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/shopdesk)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Precedence: default ← global file ← data-dir file ← environment.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	if l.globalConfDir != "" {
		global, err := l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		global.applyTo(cfg)
	}

	local, err := l.loadFile(filepath.Join(l.dataDir, domain.ConfigFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	local.applyTo(cfg)

	env, err := loadEnv()
	if err != nil {
		return nil, err
	}
	env.applyTo(cfg)

	sort.Strings(cfg.Warnings)
	return cfg, nil
}

// LoadGlobal returns the defaults overlaid with the global file only.
// Returns os.ErrNotExist if there is no global file.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	global, err := l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
	if err != nil {
		return nil, err
	}
	cfg := domain.NewDefaultConfig()
	global.applyTo(cfg)
	return cfg, nil
}

// fileConfig holds the values a single source sets. Nil means unset.
// Fields are ordered to minimize memory padding.
type fileConfig struct {
	StorePath     *string
	BusyTimeoutMS *int
	LogLevel      *string
	ServerAddr    *string
	BestEffort    *bool
	Warnings      []string
}

// applyTo overlays the values set in fc onto cfg. A nil fc changes nothing.
func (fc *fileConfig) applyTo(cfg *domain.Config) {
	if fc == nil {
		return
	}
	if fc.StorePath != nil {
		cfg.Store.Path = *fc.StorePath
	}
	if fc.BusyTimeoutMS != nil {
		cfg.Store.BusyTimeoutMS = *fc.BusyTimeoutMS
	}
	if fc.LogLevel != nil {
		cfg.Log.Level = *fc.LogLevel
	}
	if fc.ServerAddr != nil {
		cfg.Server.Addr = *fc.ServerAddr
	}
	if fc.BestEffort != nil {
		cfg.Derive.BestEffort = *fc.BestEffort
	}
	cfg.Warnings = append(cfg.Warnings, fc.Warnings...)
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToFileConfig(raw), nil
}

// convertRawToFileConfig converts the raw map and collects warnings for
// keys it does not know.
func convertRawToFileConfig(raw map[string]any) *fileConfig {
	res := &fileConfig{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		switch section {
		case "store":
			for k, v := range m {
				switch k {
				case "path":
					if s, ok := v.(string); ok {
						res.StorePath = &s
					}
				case "busy_timeout_ms":
					if n, ok := v.(int64); ok {
						res.BusyTimeoutMS = domain.Ptr(int(n))
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [store]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.LogLevel = &s
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		case "server":
			for k, v := range m {
				switch k {
				case "addr":
					if s, ok := v.(string); ok {
						res.ServerAddr = &s
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [server]: %s", k))
				}
			}
		case "derive":
			for k, v := range m {
				switch k {
				case "best_effort":
					if b, ok := v.(bool); ok {
						res.BestEffort = &b
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [derive]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// envOverrides are read from SHOPDESK_* variables.
type envOverrides struct {
	StorePath     *string `envconfig:"STORE_PATH"`
	BusyTimeoutMS *int    `envconfig:"STORE_BUSY_TIMEOUT_MS"`
	LogLevel      *string `envconfig:"LOG_LEVEL"`
	ServerAddr    *string `envconfig:"SERVER_ADDR"`
	BestEffort    *bool   `envconfig:"DERIVE_BEST_EFFORT"`
}

func loadEnv() (*fileConfig, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &fileConfig{
		StorePath:     env.StorePath,
		BusyTimeoutMS: env.BusyTimeoutMS,
		LogLevel:      env.LogLevel,
		ServerAddr:    env.ServerAddr,
		BestEffort:    env.BestEffort,
	}, nil
}
