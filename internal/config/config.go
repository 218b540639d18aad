// Package config defines the tamagotchi.toml schema and its defaults.
package config

import (
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethgrid/tamagotchi/internal/anim"
	"github.com/sethgrid/tamagotchi/internal/pet"
)

const (
	Version = "1.0"

	DefaultName            = "fox"
	DefaultAmount          = 10
	DefaultRefreshInterval = 10 * time.Second
	DefaultAddr            = "localhost:8420"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultScaleX          = 4.0
	DefaultScaleY          = 8.0
)

// Duration is a time.Duration written as "300ms" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// Animation is one animation preset. Loops of 0 or -1 means forever.
type Animation struct {
	Duration Duration    `toml:"duration"`
	Loops    int         `toml:"loops"`
	Speeds   anim.Speeds `toml:"speeds"`
}

func (a Animation) Preset() anim.Preset {
	return anim.Preset{Duration: a.Duration.Duration, Loops: a.Loops, Speeds: a.Speeds}
}

type Spread struct {
	MinX float64 `toml:"minX"`
	MaxX float64 `toml:"maxX"`
	MinY float64 `toml:"minY"`
	MaxY float64 `toml:"maxY"`
	Z    float64 `toml:"z"`
}

type Pet struct {
	Name      string  `toml:"name"`
	FPS       int     `toml:"fps"`
	Mode      string  `toml:"mode"`
	HomeX     float64 `toml:"homeX"`
	HomeY     float64 `toml:"homeY"`
	BatchSize int     `toml:"batchSize"`
	Spread    Spread  `toml:"spread"`
}

type Animations struct {
	Float  Animation `toml:"float"`
	Feed   Animation `toml:"feed"`
	Reward Animation `toml:"reward"`
}

type Ledger struct {
	// StatePath is relative to the config file unless absolute.
	StatePath       string   `toml:"statePath"`
	Amount          int      `toml:"amount"`
	RefreshInterval Duration `toml:"refreshInterval"`
}

type Server struct {
	Addr   string   `toml:"addr"`
	Assets []string `toml:"assets"`
}

type Term struct {
	ScaleX float64 `toml:"scaleX"`
	ScaleY float64 `toml:"scaleY"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Version    string     `toml:"version"`
	Pet        Pet        `toml:"pet"`
	Animations Animations `toml:"animations"`
	Ledger     Ledger     `toml:"ledger"`
	Server     Server     `toml:"server"`
	Term       Term       `toml:"term"`
	Log        Log        `toml:"log"`
}

// Default returns the stock configuration.
func Default() Config {
	opts := pet.DefaultOptions()
	return Config{
		Version: Version,
		Pet: Pet{
			Name:      DefaultName,
			FPS:       opts.FPS,
			Mode:      string(opts.Mode),
			BatchSize: opts.BatchSize,
			Spread: Spread{
				MinX: opts.Spread.MinX,
				MaxX: opts.Spread.MaxX,
				MinY: opts.Spread.MinY,
				MaxY: opts.Spread.MaxY,
				Z:    opts.Spread.Z,
			},
		},
		Animations: Animations{
			Float:  fromPreset(opts.Float),
			Feed:   fromPreset(opts.Feed),
			Reward: fromPreset(opts.Reward),
		},
		Ledger: Ledger{
			StatePath:       "ledger.toml",
			Amount:          DefaultAmount,
			RefreshInterval: Duration{DefaultRefreshInterval},
		},
		Server: Server{
			Addr:   DefaultAddr,
			Assets: []string{"fox", "heart"},
		},
		Term: Term{ScaleX: DefaultScaleX, ScaleY: DefaultScaleY},
		Log:  Log{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

func fromPreset(p anim.Preset) Animation {
	return Animation{Duration: Duration{p.Duration}, Loops: p.Loops, Speeds: p.Speeds}
}

// Parse decodes data on top of Default, so missing keys keep their defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes cfg as TOML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c Config) Validate() error {
	if c.Pet.FPS <= 0 {
		return fmt.Errorf("pet.fps must be positive, got %d", c.Pet.FPS)
	}
	switch pet.Mode(c.Pet.Mode) {
	case pet.ModeExclusive, pet.ModeConcurrent:
	default:
		return fmt.Errorf("pet.mode must be %q or %q, got %q", pet.ModeExclusive, pet.ModeConcurrent, c.Pet.Mode)
	}
	if c.Pet.BatchSize < 0 {
		return fmt.Errorf("pet.batchSize must not be negative, got %d", c.Pet.BatchSize)
	}
	if c.Pet.Spread.MaxX < c.Pet.Spread.MinX || c.Pet.Spread.MaxY < c.Pet.Spread.MinY {
		return fmt.Errorf("pet.spread max must not be below min")
	}
	for name, a := range map[string]Animation{
		"float":  c.Animations.Float,
		"feed":   c.Animations.Feed,
		"reward": c.Animations.Reward,
	} {
		if a.Duration.Duration < 0 {
			return fmt.Errorf("animations.%s.duration must not be negative", name)
		}
	}
	if c.Ledger.Amount <= 0 {
		return fmt.Errorf("ledger.amount must be positive, got %d", c.Ledger.Amount)
	}
	return nil
}

// PetOptions converts the [pet] and [animations] sections.
func (c Config) PetOptions() pet.Options {
	s := c.Pet.Spread
	return pet.Options{
		FPS:       c.Pet.FPS,
		Mode:      pet.Mode(c.Pet.Mode),
		Float:     c.Animations.Float.Preset(),
		Feed:      c.Animations.Feed.Preset(),
		Reward:    c.Animations.Reward.Preset(),
		BatchSize: c.Pet.BatchSize,
		Spread:    pet.Spread{MinX: s.MinX, MaxX: s.MaxX, MinY: s.MinY, MaxY: s.MaxY, Z: s.Z},
	}
}

// Preset looks up an animation by name.
func (c Config) Preset(name string) (anim.Preset, bool) {
	switch name {
	case "float":
		return c.Animations.Float.Preset(), true
	case "feed":
		return c.Animations.Feed.Preset(), true
	case "reward":
		return c.Animations.Reward.Preset(), true
	}
	return anim.Preset{}, false
}
