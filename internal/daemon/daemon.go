package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/transforma-app/transforma/internal/api"
	"github.com/transforma-app/transforma/internal/app/scoring"
	"github.com/transforma-app/transforma/internal/domain"
	"github.com/transforma-app/transforma/internal/health"
	_ "github.com/transforma-app/transforma/internal/infra/metrics" // Register Prometheus metrics
	"github.com/transforma-app/transforma/internal/infra/sqlite"
)

// Daemon is the Transforma scoring runtime. It wires together the
// store, the scoring engine and the HTTP server.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Engine *scoring.Engine
	Streak *scoring.Tracker
	Notify *scoring.Notifier
	Server *api.Server
	Health *health.Checker
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Service.DataDir
	if dataDir == "" {
		dataDir = transformaHome()
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	tracker := scoring.NewTracker(db)
	notifier := scoring.NewNotifierWithPolicy(db, domain.NotificationPolicy{
		MaxPerDay:  cfg.Scoring.NotificationsPerDay,
		QuietStart: cfg.Scoring.QuietStart,
		QuietEnd:   cfg.Scoring.QuietEnd,
	})
	engine := scoring.NewEngine(db, tracker, notifier)

	// The daemon has no attached presentation layer; celebrations are
	// logged so operators can trace reward events end to end.
	engine.OnCelebration(func(c domain.Celebration) {
		log.Printf("[daemon] celebration %s: %s (%s, +%d)", c.Type, c.Title, c.Subtitle, c.Points)
	})

	srv := api.NewServer(db, engine, tracker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, dataDir)
	srv.SetHealthChecker(checker)

	return &Daemon{
		Config: cfg,
		DB:     db,
		Engine: engine,
		Streak: tracker,
		Notify: notifier,
		Server: srv,
		Health: checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Health checker runs for the daemon's lifetime.
	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal. In-flight score writes get the full
	// shutdown window — an abandoned write would mean a perceived but
	// unpersisted reward.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Transforma scoring engine serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
