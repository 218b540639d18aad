package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethgrid/tamagotchi/internal/config"
	"github.com/sethgrid/tamagotchi/internal/discovery"
	"github.com/sethgrid/tamagotchi/internal/ledger"
)

// ErrExists is returned by Init when a pet already lives in the directory.
var ErrExists = errors.New("pet already initialized")

func LoadConfig(path string) (config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return config.Parse(data)
}

func SaveConfig(cfg config.Config, path string) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// LedgerPath resolves the ledger state file named by cfg against the
// directory holding the config file.
func LedgerPath(configPath string, cfg config.Config) string {
	p := cfg.Ledger.StatePath
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// LedgerFile is a ledger.Store kept in a TOML file.
type LedgerFile struct {
	Path string
}

func (f LedgerFile) Load() (ledger.State, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return ledger.State{}, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var state ledger.State
	if err := toml.Unmarshal(data, &state); err != nil {
		return ledger.State{}, fmt.Errorf("failed to parse ledger file: %w", err)
	}
	return state, nil
}

func (f LedgerFile) Save(state ledger.State) error {
	data, err := toml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger state: %w", err)
	}
	return writeFile(f.Path, data)
}

// Init creates baseDir/.tamagotchi with a default config and a freshly fed
// ledger. It refuses to overwrite an existing pet unless force is set.
func Init(baseDir, name string, now time.Time, force bool) (string, error) {
	dir := filepath.Join(baseDir, discovery.DirName)
	configPath := filepath.Join(dir, discovery.ConfigName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return "", fmt.Errorf("%s: %w", configPath, ErrExists)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create pet directory: %w", err)
	}

	cfg := config.Default()
	if name != "" {
		cfg.Pet.Name = name
	}
	if err := SaveConfig(cfg, configPath); err != nil {
		return "", err
	}

	state := ledger.NewState(now)
	if err := (LedgerFile{Path: LedgerPath(configPath, cfg)}).Save(state); err != nil {
		return "", err
	}
	return configPath, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
