package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/ayurcare/internal/account"
	"github.com/hyperengineering/ayurcare/internal/api"
	"github.com/hyperengineering/ayurcare/internal/auth"
	"github.com/hyperengineering/ayurcare/internal/config"
	"github.com/hyperengineering/ayurcare/internal/mail"
	"github.com/hyperengineering/ayurcare/internal/remedy"
	"github.com/hyperengineering/ayurcare/internal/store"
	"github.com/hyperengineering/ayurcare/internal/web"
	"github.com/hyperengineering/ayurcare/internal/worker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:          "ayurcare",
	Short:        "AyurCare - health care web app and appointment API",
	SilenceUsage: true,
	RunE:         run,
	Version:      Version,
}

func init() {
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(appointmentCmd)
	rootCmd.AddCommand(calcCmd)
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("configuration loaded")

	// 3. Initialize logger
	logger := newLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)
	if config.IsDevMode() {
		slog.Warn("dev mode enabled, using built-in session secret")
	}

	// 4. Initialize store (migrations, WAL mode)
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	// 5. Initialize mail delivery and account flows
	mailer, err := newMailSender(ctx, cfg.Mail, logger)
	if err != nil {
		db.Close()
		return err
	}
	slog.Info("mail sender initialized", "mode", cfg.Mail.Mode)

	accounts := account.NewService(db, db, mailer, logger,
		account.WithCodeTTL(time.Duration(cfg.Reset.CodeTTL)))

	catalog, err := remedy.LoadCatalog()
	if err != nil {
		db.Close()
		return fmt.Errorf("load catalog: %w", err)
	}

	// 6. Initialize HTTP router
	tokens := auth.NewTokenIssuer(cfg.Session.Secret, time.Duration(cfg.Session.TTL))
	sessions := web.NewSessionManager(db, tokens, cfg.Session.CookieName, cfg.Session.SecureCookie, logger)
	site, err := web.NewSite(accounts, db, sessions, catalog, cfg.ShowResetCode(), logger)
	if err != nil {
		db.Close()
		return err
	}

	handler := api.NewHandler(db, catalog, cfg.Auth.APIKey, Version, logger)
	router := api.NewRouter(handler, site.Routes(), cfg.CORS.AllowedOrigins)
	slog.Info("router initialized", "api_key_required", cfg.Auth.APIKey != "")

	// 7. Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// 8. Background workers
	var wg sync.WaitGroup
	sweeper := worker.NewExpirySweeper(db, time.Duration(cfg.Worker.SweepInterval), logger)
	startWorker(ctx, &wg, "expiry-sweeper", sweeper.Run)

	// 9. Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	// 10. Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// 11. Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	// 11a. Stop HTTP server (drains in-flight requests)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// 11b. Wait for workers to complete
	wg.Wait()

	// 11c. Close store
	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newMailSender picks the reset-code delivery for the configured mode.
func newMailSender(ctx context.Context, cfg config.MailConfig, logger *slog.Logger) (mail.Sender, error) {
	switch cfg.Mode {
	case config.MailModeSES:
		sender, err := mail.NewSESSender(ctx, cfg.Region, cfg.From)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case config.MailModeLog, "":
		return mail.NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail mode %q", cfg.Mode)
	}
}

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
