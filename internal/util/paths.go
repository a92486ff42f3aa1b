package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DataDir holds the record cache, the lock file and the log.
func DataDir(app string) string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, app)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", app)
	}
	return filepath.Join(home, ".local", "share", app)
}

// ConfigDir holds config.yaml.
func ConfigDir(app string) string {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, app)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", app)
	}
	return filepath.Join(home, ".config", app)
}

// ReportsDir is where record sheets are written.
func ReportsDir(app string) string {
	return filepath.Join(DocumentsDir(), strings.ToUpper(app))
}

func DocumentsDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DOCUMENTS_DIR")); base != "" {
		return expandHome(base)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	configPath := filepath.Join(home, ".config", "user-dirs.dirs")
	if data, err := os.ReadFile(configPath); err == nil {
		if dir := parseUserDir(string(data), "XDG_DOCUMENTS_DIR"); dir != "" {
			return expandHome(dir)
		}
	}
	return filepath.Join(home, "Documents")
}

// EnsureDir creates dir with owner-only permissions.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

func parseUserDir(data, key string) string {
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}
		value, ok := strings.CutPrefix(line, key+"=")
		if !ok {
			continue
		}
		return strings.Trim(value, "\"")
	}
	return ""
}

func expandHome(path string) string {
	if !strings.Contains(path, "$HOME") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return strings.ReplaceAll(path, "$HOME", "")
	}
	return strings.ReplaceAll(path, "$HOME", home)
}
