package discovery

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DirName    = ".tamagotchi"
	ConfigName = "config.toml"
)

// FindConfig walks up from startDir looking for .tamagotchi/config.toml.
func FindConfig(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		path := filepath.Join(dir, DirName, ConfigName)
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false, nil
}

// GlobalConfigPath is the config used when no project config is found.
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DirName, ConfigName)
}

// Resolve picks the config path: explicit wins, then the nearest project
// config, then the global one.
func Resolve(explicit, startDir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return "", err
	}
	if ok {
		return path, nil
	}
	return GlobalConfigPath(), nil
}
