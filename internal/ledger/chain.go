package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/sethgrid/tamagotchi/internal/logger"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAllowedFeedTimespan = time.Hour
	DefaultTotalSaturationTime = 4 * time.Hour
	DefaultExchangeRate        = 1
)

// State is the persisted contract state of a local chain.
type State struct {
	LastFed time.Time `toml:"lastFed"`
	// Timespans are whole seconds, as the contracts store them.
	AllowedFeedTimespan int64 `toml:"allowedFeedTimespan"`
	TotalSaturationTime int64 `toml:"totalSaturationTime"`
	FoodBalance         int   `toml:"foodBalance"`
	ExchangeRate        int   `toml:"exchangeRate"`
	TotalRaised         int   `toml:"totalRaised"`
}

// NewState returns the state of a freshly created pet fed at now.
func NewState(now time.Time) State {
	return State{
		LastFed:             now,
		AllowedFeedTimespan: int64(DefaultAllowedFeedTimespan / time.Second),
		TotalSaturationTime: int64(DefaultTotalSaturationTime / time.Second),
		ExchangeRate:        DefaultExchangeRate,
	}
}

func (s State) allowed() time.Duration {
	return time.Duration(s.AllowedFeedTimespan) * time.Second
}

func (s State) total() time.Duration {
	return time.Duration(s.TotalSaturationTime) * time.Second
}

// Starved reports whether the saturation window has run out.
func (s State) Starved(now time.Time) bool {
	return now.After(s.LastFed.Add(s.total()))
}

// CanBeFed reports whether the feeding window is open.
func (s State) CanBeFed(now time.Time) bool {
	return now.After(s.LastFed.Add(s.allowed())) && now.Before(s.LastFed.Add(s.total()))
}

// Store persists chain state.
type Store interface {
	Load() (State, error)
	Save(State) error
}

// MemoryStore keeps state in memory.
type MemoryStore struct {
	mu    sync.Mutex
	state State
}

func NewMemoryStore(s State) *MemoryStore {
	return &MemoryStore{state: s}
}

func (m *MemoryStore) Load() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *MemoryStore) Save(s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	return nil
}

// LocalChain is an offline Chain that applies the pet and market contract
// rules to state kept in a Store.
type LocalChain struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

func NewLocalChain(store Store, now func() time.Time) *LocalChain {
	if now == nil {
		now = time.Now
	}
	return &LocalChain{store: store, now: now}
}

func (c *LocalChain) PetInfo(ctx context.Context) (PetInfo, error) {
	s, err := c.load(ctx)
	if err != nil {
		return PetInfo{}, err
	}
	return PetInfo{AllowedFeedTimespan: s.allowed(), TotalSaturationTime: s.total()}, nil
}

func (c *LocalChain) LastFed(ctx context.Context) (time.Time, error) {
	s, err := c.load(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return s.LastFed, nil
}

func (c *LocalChain) Balance(ctx context.Context) (int, error) {
	s, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	return s.FoodBalance, nil
}

// BuyFood pays amount and credits amount*exchangeRate food.
func (c *LocalChain) BuyFood(ctx context.Context, amount int) error {
	return c.update(ctx, func(s *State) error {
		rate := s.ExchangeRate
		if rate <= 0 {
			rate = DefaultExchangeRate
		}
		s.FoodBalance += amount * rate
		s.TotalRaised += amount
		return nil
	})
}

// SendFood spends amount food on the pet if the feeding window is open.
func (c *LocalChain) SendFood(ctx context.Context, amount int) error {
	return c.update(ctx, func(s *State) error {
		now := c.now()
		if s.Starved(now) {
			return ErrPetStarved
		}
		if !s.CanBeFed(now) {
			return ErrNotFeedingTime
		}
		if s.FoodBalance < amount {
			return ErrInsufficientFood
		}
		s.FoodBalance -= amount
		s.LastFed = now
		logger.Log.WithFields(logrus.Fields{
			"amount":  amount,
			"balance": s.FoodBalance,
		}).Info("pet fed")
		return nil
	})
}

func (c *LocalChain) load(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Load()
}

func (c *LocalChain) update(ctx context.Context, fn func(*State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.store.Load()
	if err != nil {
		return err
	}
	if err := fn(&s); err != nil {
		return err
	}
	return c.store.Save(s)
}
