// Package session runs one pet against its ledger: it turns user actions
// into ledger calls and animations and keeps the status line current.
//
// Everything except the ledger calls happens on the goroutine that calls
// Tick. Ledger calls run in the background and their results are applied on
// the next Tick.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethgrid/tamagotchi/internal/clock"
	"github.com/sethgrid/tamagotchi/internal/conditions"
	"github.com/sethgrid/tamagotchi/internal/ledger"
	"github.com/sethgrid/tamagotchi/internal/logger"
	"github.com/sethgrid/tamagotchi/internal/pet"
	"github.com/sethgrid/tamagotchi/internal/render"
	"github.com/sirupsen/logrus"
)

const (
	MsgFeeding      = "Feeding pet..."
	MsgBuying       = "Buying food..."
	MsgNotFeedTime  = "It's not feeding time yet."
	MsgStarved      = "Your pet has starved."
	MsgNoFood       = "Not enough food. Buy some first."
	MsgBuyFailed    = "Could not buy food."
	feedingFor      = 3 * time.Second
	buyingFor       = 2 * time.Second
	failureFor      = 3 * time.Second
	DefaultAmount   = 10
	DefaultInterval = 10 * time.Second
)

type Options struct {
	HomeX, HomeY float64
	// Amount of food bought or sent per action.
	Amount          int
	RefreshInterval time.Duration
	Clock           clock.Provider
}

func (o Options) withDefaults() Options {
	if o.Amount <= 0 {
		o.Amount = DefaultAmount
	}
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = DefaultInterval
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	return o
}

// Status is what the host shows next to the pet.
type Status struct {
	Phase      string `json:"phase"`
	Saturation int    `json:"saturation"`
	Balance    int    `json:"balance"`
	Mood       string `json:"mood"`
	Message    string `json:"message,omitempty"`
	Icons      int    `json:"icons"`
	// Synced is false until the first ledger refresh lands.
	Synced bool `json:"synced"`
}

type op int

const (
	opRefresh op = iota
	opFeed
	opBuy
)

type result struct {
	op         op
	saturation int
	balance    int
	err        error
}

type Session struct {
	ctx    context.Context
	pet    *pet.Pet
	ledger ledger.Ledger
	opts   Options

	results  chan result
	inflight sync.WaitGroup

	saturation int
	balance    int
	synced     bool

	message      string
	messageUntil time.Time

	refreshing  bool
	nextRefresh time.Time
	ticks       uint64
}

// New creates the pet and schedules an immediate ledger refresh.
func New(ctx context.Context, loader render.Loader, l ledger.Ledger, petOpts pet.Options, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		ctx:     ctx,
		pet:     pet.New(ctx, loader, opts.HomeX, opts.HomeY, petOpts),
		ledger:  l,
		opts:    opts,
		results: make(chan result, 16),
	}
}

// Tick applies finished ledger calls, expires the message, kicks off a
// refresh when one is due and advances the pet by one frame.
func (s *Session) Tick() {
drain:
	for {
		select {
		case r := <-s.results:
			s.apply(r)
		default:
			break drain
		}
	}

	now := s.opts.Clock.Now()
	if s.message != "" && !now.Before(s.messageUntil) {
		s.message = ""
	}
	if !s.refreshing && !now.Before(s.nextRefresh) {
		s.refresh()
	}

	s.pet.Tick()
	s.ticks++
}

// Feed sends food to the pet. The feed animation plays once the ledger
// accepts it.
func (s *Session) Feed() {
	s.say(MsgFeeding, feedingFor)
	s.run(opFeed, func(ctx context.Context) error {
		return s.ledger.SendFood(ctx, s.opts.Amount)
	})
}

// Buy purchases food with tokens.
func (s *Session) Buy() {
	s.say(MsgBuying, buyingFor)
	s.run(opBuy, func(ctx context.Context) error {
		return s.ledger.BuyFood(ctx, s.opts.Amount)
	})
}

// Treat plays the feed animation without touching the ledger.
func (s *Session) Treat() bool {
	return s.pet.Feed()
}

// Retune applies new animation presets to the running pet.
func (s *Session) Retune(opts pet.Options) {
	s.pet.Retune(opts)
	logger.Log.WithFields(logrus.Fields{"mode": s.pet.Mode()}).Info("animations retuned")
}

// Refresh schedules a ledger refresh on the next Tick.
func (s *Session) Refresh() {
	s.nextRefresh = time.Time{}
}

// Wait blocks until every background ledger call has posted its result.
func (s *Session) Wait() {
	s.inflight.Wait()
}

// Close releases the pet and its icons. Pending ledger calls still finish.
func (s *Session) Close() {
	s.pet.Close()
}

func (s *Session) Pet() *pet.Pet {
	return s.pet
}

func (s *Session) Ticks() uint64 {
	return s.ticks
}

func (s *Session) Status() Status {
	st := conditions.DeriveStatus(s.saturation, s.message)
	mood := conditions.FormatConditions(st.AllOrdered)
	if !s.synced {
		mood = "unknown"
	}
	return Status{
		Phase:      s.pet.Phase().String(),
		Saturation: s.saturation,
		Balance:    s.balance,
		Mood:       mood,
		Message:    s.message,
		Icons:      len(s.pet.Icons()),
		Synced:     s.synced,
	}
}

// Conditions returns the pet's current conditions, highest priority first.
func (s *Session) Conditions() []conditions.Condition {
	if !s.synced {
		return nil
	}
	return conditions.DeriveStatus(s.saturation, s.message).AllOrdered
}

func (s *Session) say(msg string, d time.Duration) {
	s.message = msg
	s.messageUntil = s.opts.Clock.Now().Add(d)
}

func (s *Session) refresh() {
	s.refreshing = true
	s.nextRefresh = s.opts.Clock.Now().Add(s.opts.RefreshInterval)
	s.post(func(ctx context.Context) result {
		sat, err := s.ledger.SaturationPercentage(ctx)
		if err != nil {
			return result{op: opRefresh, err: err}
		}
		bal, err := s.ledger.FoodBalance(ctx)
		return result{op: opRefresh, saturation: sat, balance: bal, err: err}
	})
}

func (s *Session) run(o op, call func(ctx context.Context) error) {
	s.post(func(ctx context.Context) result {
		return result{op: o, err: call(ctx)}
	})
}

func (s *Session) post(call func(ctx context.Context) result) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		r := call(s.ctx)
		select {
		case s.results <- r:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) apply(r result) {
	switch r.op {
	case opRefresh:
		s.refreshing = false
		if r.err != nil {
			logger.Log.WithError(r.err).Warn("ledger refresh failed")
			return
		}
		s.saturation, s.balance, s.synced = r.saturation, r.balance, true

	case opFeed:
		if r.err != nil {
			logger.Log.WithError(r.err).Info("feeding rejected")
			s.say(feedFailure(r.err), failureFor)
			return
		}
		s.pet.Feed()
		s.Refresh()

	case opBuy:
		if r.err != nil {
			logger.Log.WithError(r.err).Warn("buying food failed")
			s.say(MsgBuyFailed, failureFor)
			return
		}
		s.Refresh()
	}
}

func feedFailure(err error) string {
	switch {
	case errors.Is(err, ledger.ErrPetStarved):
		return MsgStarved
	case errors.Is(err, ledger.ErrInsufficientFood):
		return MsgNoFood
	default:
		return MsgNotFeedTime
	}
}
