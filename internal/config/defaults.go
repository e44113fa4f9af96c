package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/ekisa-team/ttsform/internal/envvar"
)

const (
	defaultHTTPPort = 8080
	defaultGRPCPort = 9090
)

// DefaultConfigPath returns the default path for the TTSFORM config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "ttsform", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "ttsform")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "ttsform")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "ttsform")
		}
		return filepath.Join(home, ".config", "ttsform")
	}
}

// DefaultHTTPPort returns the HTTP port from the environment, or 8080.
func DefaultHTTPPort() int {
	return portFromEnv(envvar.TTSFormServerHTTPPort, defaultHTTPPort)
}

// DefaultGRPCPort returns the gRPC port from the environment, or 9090.
func DefaultGRPCPort() int {
	return portFromEnv(envvar.TTSFormServerGRPCPort, defaultGRPCPort)
}

func portFromEnv(key string, fallback int) int {
	port, err := strconv.Atoi(os.Getenv(key))
	if err != nil || port <= 0 || port > 65535 {
		return fallback
	}
	return port
}
