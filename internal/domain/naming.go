package domain

import (
	"path/filepath"
)

// Directory and file names for shopdesk.
const (
	AppDirName     = "shopdesk"    // Global config directory name
	DataDirName    = ".shopdesk"   // Data directory created by 'shopdesk init'
	ConfigFileName = "config.toml" // Config file name
)

// DataDir returns the data directory under root.
func DataDir(root string) string {
	return filepath.Join(root, DataDirName)
}

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// DatabasePath resolves the configured database path against the data dir.
func DatabasePath(dataDir, configured string) string {
	if configured == "" {
		configured = DefaultStorePath
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(dataDir, configured)
}

// OrderLogPath returns the path to the log file of an order.
func OrderLogPath(dataDir, orderID string) string {
	return filepath.Join(dataDir, "logs", "order-"+orderID+".log")
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "shopdesk.log")
}

// ShortID returns the first 8 characters of an ID for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
