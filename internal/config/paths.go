package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultOutputDir is where fetched images land, relative to the working directory.
const DefaultOutputDir = "Fetched_Images"

const appDirName = "ImageFetch"

// GetImageFetchDir returns the per-user config root based on OS conventions.
func GetImageFetchDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(appData, appDirName)
	case "darwin": //MacOS
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", appDirName)
	default: //Linux
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, _ := os.UserHomeDir()
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, appDirName)
	}
}

// GetRuntimeDir returns the directory for runtime files (locks).
// Linux: $XDG_RUNTIME_DIR/ImageFetch or fallback to GetStateDir() if unset
// macOS: $TMPDIR/ImageFetch-runtime
// Windows: %TEMP%/ImageFetch
func GetRuntimeDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.TempDir(), appDirName)
	case "darwin":
		return filepath.Join(os.TempDir(), appDirName+"-runtime")
	default: // Linux
		runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
		if runtimeDir != "" {
			return filepath.Join(runtimeDir, appDirName)
		}
		// headless shells and containers often leave XDG_RUNTIME_DIR unset
		return GetStateDir()
	}
}

// GetStateDir returns the directory for persistent state (history DB).
func GetStateDir() string {
	return filepath.Join(GetImageFetchDir(), "state")
}

// GetLogsDir returns the directory for debug logs.
func GetLogsDir() string {
	return filepath.Join(GetImageFetchDir(), "logs")
}

// GetSettingsPath returns the location of the optional settings file.
func GetSettingsPath() string {
	return filepath.Join(GetImageFetchDir(), "settings.yaml")
}

// GetHistoryPath returns the SQLite database used for fetch history.
func GetHistoryPath() string {
	return filepath.Join(GetStateDir(), "history.db")
}

// GetLockPath returns the lock file guarding filename resolution.
func GetLockPath() string {
	return filepath.Join(GetRuntimeDir(), "fetch.lock")
}

// EnsureDirs creates all required application directories.
func EnsureDirs() error {
	dirs := []string{GetImageFetchDir(), GetStateDir(), GetLogsDir(), GetRuntimeDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
