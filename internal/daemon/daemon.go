package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codexa-learn/codexa/internal/api"
	"github.com/codexa-learn/codexa/internal/app/progression"
	"github.com/codexa-learn/codexa/internal/catalog"
	"github.com/codexa-learn/codexa/internal/health"
	_ "github.com/codexa-learn/codexa/internal/infra/metrics" // Register Prometheus metrics
	"github.com/codexa-learn/codexa/internal/infra/sqlite"
	"github.com/codexa-learn/codexa/internal/tutor"
)

// Daemon is the core Codexa runtime. It wires together all services.
type Daemon struct {
	Config   Config
	DB       *sqlite.DB
	Catalogs *catalog.Catalogs
	Engine   *progression.Engine
	Notifier *progression.Notifier
	Tutor    *tutor.Service
	Health   *health.Checker
	Server   *api.Server

	log    *logrus.Entry
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
	configureLogging(cfg.Logging)
	log := logrus.WithField("component", "daemon")

	storeDir := cfg.Store.Dir
	if storeDir == "" {
		storeDir = codexaHome()
	}
	db, err := sqlite.Open(storeDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	cats, err := catalog.Load()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load catalogs: %w", err)
	}

	eng, err := progression.NewEngine(cats, cfg.Rewards)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}

	notifier := progression.NewNotifierWithPolicy(db, cfg.Notifications.Policy())

	srv := api.NewServer(db, eng, cats, notifier)

	// Tutor backend (optional; everything else works without it)
	var tutorProbe health.TutorProbe
	var tutorSvc *tutor.Service
	if cfg.Tutor.Enabled {
		client := tutor.NewOllamaClient(cfg.Tutor.Addr, cfg.Tutor.Model)
		tutorSvc = tutor.NewService(client)
		tutorProbe = client
		srv.SetTutor(tutorSvc)
	} else {
		log.Info("tutor disabled in config")
	}

	// Read-aloud (optional; absent speech engine just hides the feature)
	if cfg.Speech.Enabled {
		speaker, err := tutor.NewLocalSpeaker(tutor.SpeechOptions{
			Voice: cfg.Speech.Voice,
			Rate:  cfg.Speech.Rate,
		})
		if err != nil {
			log.WithError(err).Warn("speech synthesis unavailable")
		} else {
			srv.SetSpeaker(speaker)
		}
	}

	checker := health.NewChecker(db, storeDir, tutorProbe)
	srv.SetHealthChecker(checker)

	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:   cfg,
		DB:       db,
		Catalogs: cats,
		Engine:   eng,
		Notifier: notifier,
		Tutor:    tutorSvc,
		Health:   checker,
		Server:   srv,
		log:      log,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // Long for quiz generation
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
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

	d.log.WithField("addr", addr).Info("codexa serving")
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}
	fmt.Printf("Codexa serving on http://%s\n", addr)

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

// configureLogging applies the logging config to the process logger.
func configureLogging(cfg LoggingConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err == nil {
			logrus.SetOutput(f)
		}
	}
}
