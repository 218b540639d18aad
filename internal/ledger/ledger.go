// Package ledger is the pet's view of the food economy: saturation derived
// from the last feeding time, the food token balance, buying and feeding.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrNotFeedingTime is returned when the pet was fed too recently.
	ErrNotFeedingTime = errors.New("not feeding time yet")
	// ErrPetStarved is returned when the saturation window has passed.
	ErrPetStarved = errors.New("pet has starved")
	// ErrInsufficientFood is returned when the balance cannot cover a feeding.
	ErrInsufficientFood = errors.New("insufficient food balance")
)

// Ledger is what the host needs from the chain.
type Ledger interface {
	SaturationPercentage(ctx context.Context) (int, error)
	FoodBalance(ctx context.Context) (int, error)
	BuyFood(ctx context.Context, amount int) error
	SendFood(ctx context.Context, amount int) error
}

// PetInfo are the pet contract's fixed parameters.
type PetInfo struct {
	AllowedFeedTimespan time.Duration
	TotalSaturationTime time.Duration
}

// Chain is the raw contract surface a Client is built on.
type Chain interface {
	PetInfo(ctx context.Context) (PetInfo, error)
	LastFed(ctx context.Context) (time.Time, error)
	Balance(ctx context.Context) (int, error)
	BuyFood(ctx context.Context, amount int) error
	SendFood(ctx context.Context, amount int) error
}

// Client implements Ledger on top of a Chain.
type Client struct {
	chain Chain
	info  PetInfo
	now   func() time.Time
}

// Open fetches the pet parameters once and returns a ready client. now may be
// nil to use the wall clock.
func Open(ctx context.Context, chain Chain, now func() time.Time) (*Client, error) {
	info, err := chain.PetInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query pet info: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &Client{chain: chain, info: info, now: now}, nil
}

func (c *Client) Info() PetInfo {
	return c.info
}

func (c *Client) SaturationPercentage(ctx context.Context) (int, error) {
	lastFed, err := c.chain.LastFed(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query last fed: %w", err)
	}
	return Saturation(lastFed, c.now(), c.info.TotalSaturationTime), nil
}

func (c *Client) FoodBalance(ctx context.Context) (int, error) {
	bal, err := c.chain.Balance(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query food balance: %w", err)
	}
	return bal, nil
}

func (c *Client) BuyFood(ctx context.Context, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("invalid food amount %d", amount)
	}
	if err := c.chain.BuyFood(ctx, amount); err != nil {
		return fmt.Errorf("failed to buy food: %w", err)
	}
	return nil
}

func (c *Client) SendFood(ctx context.Context, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("invalid food amount %d", amount)
	}
	if err := c.chain.SendFood(ctx, amount); err != nil {
		return fmt.Errorf("failed to send food: %w", err)
	}
	return nil
}

// Saturation is the fullness percentage: 100 right after feeding, falling
// linearly to 0 once total has elapsed.
func Saturation(lastFed, now time.Time, total time.Duration) int {
	if total <= 0 {
		return 0
	}
	elapsed := now.Sub(lastFed)
	spent := math.Max(float64(elapsed)/float64(total)*100, 0)
	pct := int(math.Ceil(100 - spent))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
