package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-school-directory/internal/config"
	httpapi "github.com/tbourn/go-school-directory/internal/http"
	"github.com/tbourn/go-school-directory/internal/media"
	"github.com/tbourn/go-school-directory/internal/observability"
	"github.com/tbourn/go-school-directory/internal/repo"
	"github.com/tbourn/go-school-directory/internal/services"
	"github.com/tbourn/go-school-directory/internal/supabase"
	"github.com/tbourn/go-school-directory/internal/sysutil"
)

const shutdownTimeout = 10 * time.Second

func setupLogging(cfg config.Config) {
	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// app holds the process resources shared by every request.
type app struct {
	db      *gorm.DB // nil with the hosted store
	service *services.SchoolService
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	return repo.Close(a.db)
}

// buildApp opens the configured record store and media relay and wires them
// into the school service.
func buildApp(cfg config.Config) (*app, error) {
	a := &app{}

	var sb *supabase.Client
	if cfg.StoreBackend == config.StoreSupabase || cfg.Media.Backend == config.MediaSupabase {
		sb = supabase.NewClient(cfg.Supabase, nil)
		if cfg.Supabase.KeySource == "NEXT_PUBLIC_SUPABASE_ANON_KEY" {
			log.Warn().Msg("supabase: using the anon key; inserts need a row-level security policy")
		}
	}

	var store services.RecordStore
	switch cfg.StoreBackend {
	case config.StoreSupabase:
		store = supabase.NewStore(sb, cfg.Supabase.Table)
	case config.StoreSQL:
		db, err := repo.Open(cfg.DB)
		if err != nil {
			return nil, err
		}
		a.db = db
		if cfg.OTEL.Enabled {
			if err := repo.EnableTracing(db); err != nil {
				_ = a.close()
				return nil, fmt.Errorf("gorm tracing: %w", err)
			}
		}
		if err := repo.AutoMigrate(db); err != nil {
			_ = a.close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		store = repo.NewSchoolStore(db)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	relay, err := media.New(cfg, sb)
	if err != nil {
		_ = a.close()
		return nil, err
	}

	var mr services.MediaRelay
	if relay != nil {
		mr = relay
	}
	a.service = services.NewSchoolService(store, mr, cfg.Media.FailurePolicy)
	return a, nil
}

func newServer(cfg config.Config, svc *services.SchoolService) *http.Server {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, svc, cfg)

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupOTel(ctx, cfg.OTEL, version, observability.BackendAttributes(cfg)...)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}

	a, err := buildApp(cfg)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return err
	}

	srv := newServer(cfg, a.service)
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.StoreBackend).
			Str("media", cfg.Media.Backend).
			Str("version", version).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var errs []error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
			errs = append(errs, fmt.Errorf("listen: %w", err))
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.close(); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	if err := shutdownTracing(sctx); err != nil {
		errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func runMigrate(cfg config.Config) error {
	if cfg.StoreBackend != config.StoreSQL {
		return fmt.Errorf("migrate needs STORE_BACKEND=%s, got %q", config.StoreSQL, cfg.StoreBackend)
	}
	db, err := repo.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close(db) }()

	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("driver", cfg.DB.Driver).Msg("schema up to date")
	return nil
}
