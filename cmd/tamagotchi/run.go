package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sethgrid/tamagotchi/internal/clock"
	"github.com/sethgrid/tamagotchi/internal/config"
	"github.com/sethgrid/tamagotchi/internal/logger"
	"github.com/sethgrid/tamagotchi/internal/scene"
	"github.com/sethgrid/tamagotchi/internal/server"
	"github.com/sethgrid/tamagotchi/internal/session"
	"github.com/sethgrid/tamagotchi/internal/storage"
	"github.com/sethgrid/tamagotchi/internal/term"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func addWatchFlag(fs *pflag.FlagSet) {
	fs.Bool("watch", false, "Reload animation tuning when config.toml changes")
}

// reloader wraps a session so config changes are applied on the tick
// goroutine.
type reloader struct {
	*session.Session
	path    string
	watcher *config.Watcher
}

func newReloader(sess *session.Session, path string, watch bool) (*reloader, error) {
	r := &reloader{Session: sess, path: path}
	if !watch {
		return r, nil
	}
	w, err := config.NewWatcher(path)
	if err != nil {
		return nil, fmt.Errorf("failed to watch config: %w", err)
	}
	r.watcher = w
	return r, nil
}

func (r *reloader) Tick() {
	r.poll()
	r.Session.Tick()
}

// poll applies a pending config change, if any.
func (r *reloader) poll() {
	if r.watcher == nil {
		return
	}
	select {
	case _, ok := <-r.watcher.Events:
		if ok {
			r.reload()
		}
	default:
	}
}

func (r *reloader) reload() {
	cfg, err := storage.LoadConfig(r.path)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"path": r.path}).WithError(err).Warn("config reload failed, keeping current tuning")
		return
	}
	r.Retune(cfg.PetOptions())
}

func (r *reloader) Close() {
	if r.watcher != nil {
		if err := r.watcher.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close config watcher")
		}
	}
	r.Session.Close()
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream the pet to browsers over websockets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		e, err := loadEnv(ctx)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = e.cfg.Server.Addr
		}
		watch, _ := cmd.Flags().GetBool("watch")

		sc := scene.New(e.cfg.Server.Assets)
		sess := session.New(ctx, sc, e.ledger, e.cfg.PetOptions(), e.sessionOptions())
		host, err := newReloader(sess, e.configPath, watch)
		if err != nil {
			sess.Close()
			return err
		}
		defer host.Close()

		srv := server.New(addr, Version, e.cfg.Pet.FPS)
		return serveLoop(ctx, srv, e.cfg.Pet.FPS, func() {
			host.poll()
			srv.Step(sess, sc)
		})
	},
}

// serveLoop runs srv and the frame loop until ctx is done or the server
// stops on its own, in which case the loop is stopped too.
func serveLoop(ctx context.Context, srv *server.Server, fps int, step func()) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		err := srv.Run(ctx)
		cancel()
		errCh <- err
	}()

	loopErr := clock.Loop(ctx, fps, step)
	cancel()
	if err := <-errCh; err != nil {
		return fmt.Errorf("failed to serve on %s: %w", srv.Addr, err)
	}
	if errors.Is(loopErr, context.Canceled) {
		return nil
	}
	return loopErr
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr from config)")
	addWatchFlag(serveCmd.Flags())
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play with the pet in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		e, err := loadEnv(ctx)
		if err != nil {
			return err
		}
		watch, _ := cmd.Flags().GetBool("watch")

		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		defer screen.Fini()

		// The terminal owns stderr while playing.
		logFile, err := os.OpenFile(filepath.Join(filepath.Dir(e.configPath), "play.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			logger.Log.SetOutput(io.Discard)
		} else {
			defer logFile.Close()
			logger.Log.SetOutput(logFile)
		}

		r := term.NewRenderer(e.cfg.Term.ScaleX, e.cfg.Term.ScaleY)
		sess := session.New(ctx, r, e.ledger, e.cfg.PetOptions(), e.sessionOptions())
		host, err := newReloader(sess, e.configPath, watch)
		if err != nil {
			sess.Close()
			return err
		}
		defer host.Close()

		err = term.Run(ctx, screen, r, host, clock.Interval(e.cfg.Pet.FPS))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	addWatchFlag(playCmd.Flags())
}
