package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperengineering/ayurcare/internal/config"
	"github.com/hyperengineering/ayurcare/internal/mail"
	"github.com/hyperengineering/ayurcare/internal/store"
	"github.com/hyperengineering/ayurcare/internal/worker"
)

// logCapture captures slog output for testing
type logCapture struct {
	mu      sync.Mutex
	entries []map[string]any
}

func (c *logCapture) handler() slog.Handler {
	return slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug})
}

func (c *logCapture) Write(p []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var entry map[string]any
	if err := json.Unmarshal(p, &entry); err == nil {
		c.entries = append(c.entries, entry)
	}
	return len(p), nil
}

func (c *logCapture) hasMessage(msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if m, ok := e["msg"].(string); ok && m == msg {
			return true
		}
	}
	return false
}

// TestStartWorker_LaunchesGoroutineAndTracksCompletion tests the startWorker helper
func TestStartWorker_LaunchesGoroutineAndTracksCompletion(t *testing.T) {
	capture := &logCapture{}
	oldDefault := slog.Default()
	slog.SetDefault(slog.New(capture.handler()))
	defer slog.SetDefault(oldDefault)

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	startWorker(ctx, &wg, "test-worker", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("worker function was not called")
	}

	cancel()
	wg.Wait()

	if !capture.hasMessage("worker started") {
		t.Error("expected 'worker started' log message")
	}
	if !capture.hasMessage("worker stopped") {
		t.Error("expected 'worker stopped' log message")
	}
}

// TestWorkerWaitGroupIntegration verifies workers are waited on during shutdown
func TestWorkerWaitGroupIntegration(t *testing.T) {
	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	workerCompleted := atomic.Bool{}
	startWorker(ctx, &wg, "slow-worker", func(ctx context.Context) {
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond) // Simulate cleanup work
		workerCompleted.Store(true)
	})

	cancel()
	wg.Wait()

	if !workerCompleted.Load() {
		t.Error("wg.Wait() returned before worker completed")
	}
}

// TestExpirySweeperStopsWithServer runs the real sweeper under startWorker
// and checks shutdown waits for it before the store closes.
func TestExpirySweeperStopsWithServer(t *testing.T) {
	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	sweeper := worker.NewExpirySweeper(db, time.Millisecond, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	startWorker(ctx, &wg, "expiry-sweeper", sweeper.Run)

	time.Sleep(10 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancellation")
	}

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, config.LogConfig{Level: "info", Format: "json"}).Info("hello")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("json format output = %q", buf.String())
	}

	buf.Reset()
	newLogger(&buf, config.LogConfig{Level: "info", Format: "text"}).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text format output = %q", buf.String())
	}

	buf.Reset()
	newLogger(&buf, config.LogConfig{Level: "warn"}).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
}

func TestNewMailSender(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	s, err := newMailSender(context.Background(), config.MailConfig{Mode: config.MailModeLog}, logger)
	if err != nil {
		t.Fatalf("log mode error = %v", err)
	}
	if _, ok := s.(*mail.LogSender); !ok {
		t.Errorf("log mode sender = %T, want *mail.LogSender", s)
	}

	if _, err := newMailSender(context.Background(), config.MailConfig{Mode: "carrier-pigeon"}, logger); err == nil {
		t.Error("unknown mode: expected error")
	}
}
