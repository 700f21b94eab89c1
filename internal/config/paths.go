package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// GetScriptFetchDir returns the per-user config root based on OS conventions.
func GetScriptFetchDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(appData, "ScriptFetch")
	case "darwin": //MacOS
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "ScriptFetch")
	default: //Linux
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, _ := os.UserHomeDir()
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, "ScriptFetch")
	}
}

// GetRuntimeDir returns the directory for runtime files (lock).
// Linux: $XDG_RUNTIME_DIR/ScriptFetch or fallback to GetStateDir() if unset
// macOS: $TMPDIR/ScriptFetch-runtime
// Windows: %TEMP%/ScriptFetch
func GetRuntimeDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.TempDir(), "ScriptFetch")
	case "darwin":
		return filepath.Join(os.TempDir(), "ScriptFetch-runtime")
	default: // Linux
		runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
		if runtimeDir != "" {
			return filepath.Join(runtimeDir, "ScriptFetch")
		}
		// Fallback to state dir if XDG_RUNTIME_DIR is not set (e.g. docker, headless)
		return GetStateDir()
	}
}

// GetDefaultOutputDir returns the fixed local root scripts are saved under.
// Windows keeps the historical C:\atmystic.pl location.
func GetDefaultOutputDir() string {
	if runtime.GOOS == "windows" {
		return `C:\atmystic.pl`
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "atmystic.pl"
	}
	return filepath.Join(home, "atmystic.pl")
}

// GetStateDir returns the directory for persistent state (history DB).
func GetStateDir() string {
	return filepath.Join(GetScriptFetchDir(), "state")
}

// GetLogsDir returns the directory for logs.
func GetLogsDir() string {
	return filepath.Join(GetScriptFetchDir(), "logs")
}

// GetSettingsPath returns the location of settings.yaml.
func GetSettingsPath() string {
	return filepath.Join(GetScriptFetchDir(), "settings.yaml")
}

// GetHistoryDBPath returns the location of the fetch history database.
func GetHistoryDBPath() string {
	return filepath.Join(GetStateDir(), "scriptfetch.db")
}

// EnsureDirs creates all required directories.
func EnsureDirs() error {
	dirs := []string{GetScriptFetchDir(), GetStateDir(), GetLogsDir(), GetRuntimeDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
