package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// File and directory names
	ConfigFileName     = "config.yml"
	AppDirName         = "skinstudio"
	DefaultVehiclesDir = "vehicles"
	DefaultDataDir     = "data"

	// Log levels
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	DefaultLogLevel = LogLevelInfo

	// Update check sources
	DefaultVersionURLWindows    = "https://raw.githubusercontent.com/BeamSkin-Studio/BeamSkin-Studio-Beta/main/version.txt"
	DefaultVersionURLLinux      = "https://raw.githubusercontent.com/BeamSkin-Studio/BeamSkin-Studio-Linux-Beta/main/version.txt"
	DefaultRepositoryURLWindows = "https://github.com/BeamSkin-Studio/BeamSkin-Studio-Beta"
	DefaultRepositoryURLLinux   = "https://github.com/BeamSkin-Studio/BeamSkin-Studio-Linux-Beta"
)

// DefaultConfigPath returns the per-user config file location, falling back
// to the working directory when no user config dir is known.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(dir, AppDirName, ConfigFileName)
}

// DefaultModsPath returns the BeamNG.drive user mods folder for the
// current platform.
func DefaultModsPath() string {
	return modsPathFor(runtime.GOOS, os.Getenv("LOCALAPPDATA"), homeDir())
}

func modsPathFor(goos, localAppData, home string) string {
	if goos == "windows" {
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(localAppData, "BeamNG", "BeamNG.drive", "current", "mods")
	}
	return filepath.Join(home, ".local", "share", "BeamNG", "BeamNG.drive", "current", "mods")
}

// DefaultUpdateURLs returns the version file and repository page for the
// current platform's release channel.
func DefaultUpdateURLs() (versionURL, repositoryURL string) {
	if runtime.GOOS == "windows" {
		return DefaultVersionURLWindows, DefaultRepositoryURLWindows
	}
	return DefaultVersionURLLinux, DefaultRepositoryURLLinux
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
