// Package server streams the scene to browsers over websockets and takes
// their feed, buy and treat actions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/sethgrid/tamagotchi/internal/clock"
	"github.com/sethgrid/tamagotchi/internal/health"
	"github.com/sethgrid/tamagotchi/internal/logger"
	"github.com/sethgrid/tamagotchi/internal/scene"
	"github.com/sethgrid/tamagotchi/internal/session"
	"github.com/sirupsen/logrus"
)

const (
	ActionFeed  = "feed"
	ActionBuy   = "buy"
	ActionTreat = "treat"
)

// Frame is one broadcast of the scene.
type Frame struct {
	Type   string         `json:"type"`
	Tick   uint64         `json:"tick"`
	Nodes  []scene.Node   `json:"nodes"`
	Status session.Status `json:"status"`
}

type Server struct {
	Addr    string
	Version string
	FPS     int
	Clock   clock.Provider

	hub     *Hub
	actions chan string

	mu       sync.RWMutex
	last     Frame
	lastTick time.Time
}

func New(addr, version string, fps int) *Server {
	return &Server{
		Addr:    addr,
		Version: version,
		FPS:     fps,
		Clock:   clock.Real{},
		hub:     NewHub(),
		actions: make(chan string, 16),
	}
}

func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/status", enableCORS(s.handleStatus))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	return mux
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithFields(logrus.Fields{"addr": s.Addr}).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Step runs one frame on the tick goroutine: queued actions, the session
// tick, then a broadcast of the scene.
func (s *Server) Step(sess *session.Session, sc *scene.Scene) {
	s.Apply(sess)
	sess.Tick()
	s.Publish(Frame{
		Type:   "frame",
		Tick:   sess.Ticks(),
		Nodes:  sc.Snapshot(),
		Status: sess.Status(),
	})
}

// Apply hands queued browser actions to the session.
func (s *Server) Apply(sess *session.Session) {
	for {
		select {
		case a := <-s.actions:
			switch a {
			case ActionFeed:
				sess.Feed()
			case ActionBuy:
				sess.Buy()
			case ActionTreat:
				sess.Treat()
			}
		default:
			return
		}
	}
}

func (s *Server) Publish(f Frame) {
	s.mu.Lock()
	s.last = f
	s.lastTick = s.Clock.Now()
	s.mu.Unlock()

	s.hub.Broadcast(f)
}

func (s *Server) enqueue(action string) {
	switch action {
	case ActionFeed, ActionBuy, ActionTreat:
	default:
		logger.Log.WithFields(logrus.Fields{"action": action}).Warn("unknown action")
		return
	}
	select {
	case s.actions <- action:
	default:
		logger.Log.WithFields(logrus.Fields{"action": action}).Warn("action queue full, dropping")
	}
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next(w, r)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := newClient(s, conn)
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	report := health.Compute(s.last.Tick, s.lastTick, s.Clock.Now(), s.FPS)
	s.mu.RUnlock()

	code := http.StatusOK
	if report.Status == health.StateStalled {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, report)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	body := struct {
		Tick    uint64         `json:"tick"`
		Clients int            `json:"clients"`
		Status  session.Status `json:"status"`
	}{s.last.Tick, s.hub.Count(), s.last.Status}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.Version})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Debug("failed to write response")
	}
}
