package main

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sethgrid/tamagotchi/internal/server"
)

func runServeLoop(t *testing.T, ctx context.Context, addr string, steps *atomic.Int64) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- serveLoop(ctx, server.New(addr, Version, 60), 60, func() { steps.Add(1) })
	}()
	return done
}

func TestServeLoopStopsWhenListenFails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	var steps atomic.Int64
	done := runServeLoop(t, context.Background(), ln.Addr().String(), &steps)

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("serveLoop returned nil on a busy address")
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("serveLoop still running after listen on %s failed", ln.Addr())
	}
}

func TestServeLoopCleanShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var steps atomic.Int64
	done := runServeLoop(t, ctx, "127.0.0.1:0", &steps)

	deadline := time.Now().Add(2 * time.Second)
	for steps.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("frame loop never ticked")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serveLoop = %v, want nil after cancel", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("serveLoop did not stop after cancel")
	}
}
