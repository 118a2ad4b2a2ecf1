package domain

import (
	"bytes"
	"fmt"
	"text/template"
)

// Config represents the application configuration.
type Config struct {
	Store    StoreConfig  // [store] settings
	Server   ServerConfig // [server] settings
	Log      LogConfig    // [log] settings
	Warnings []string     // Unknown keys found while loading
	Derive   DeriveConfig // [derive] settings
}

// StoreConfig holds database settings from the [store] section.
type StoreConfig struct {
	Path          string // Database file, relative paths resolve against the data dir
	BusyTimeoutMS int    // SQLite busy timeout in milliseconds
}

// ServerConfig holds HTTP API settings from the [server] section.
type ServerConfig struct {
	Addr string // Listen address
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error
}

// DeriveConfig holds task derivation settings from the [derive] section.
type DeriveConfig struct {
	// BestEffort keeps an order or item mutation committed when task
	// derivation fails afterwards. When false the failure is returned to
	// the caller (the mutation itself is still committed).
	BestEffort bool
}

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultStorePath     = "shopdesk.db"
	DefaultBusyTimeoutMS = 5000
	DefaultServerAddr    = "127.0.0.1:8080"
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:          DefaultStorePath,
			BusyTimeoutMS: DefaultBusyTimeoutMS,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Derive: DeriveConfig{
			BestEffort: true,
		},
	}
}

const configTemplateContent = `# shopdesk configuration

[store]
# SQLite database file (relative to the data directory)
path = "<<.Store.Path>>"
busy_timeout_ms = <<.Store.BusyTimeoutMS>>

[log]
# debug, info, warn, error
level = "<<.Log.Level>>"

[server]
addr = "<<.Server.Addr>>"

[derive]
# Keep orders and items when task derivation fails afterwards
best_effort = <<.Derive.BestEffort>>
`

// RenderConfigTemplate renders cfg as a commented TOML file.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
