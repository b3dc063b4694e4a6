package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogledger/app/config"
	"blogledger/app/routes"
	"blogledger/app/services"

	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// App is a configured, not yet listening blog ledger server
type App struct {
	Server *http.Server
	close  []func() error
}

// NewApp opens the store and cache named by cfg and wires the HTTP router
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	recordCache, err := openCache(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open %s cache: %w", cfg.Cache.Backend, err)
	}

	service := services.NewBlogService(store, services.WithCache(recordCache))
	return &App{
		Server: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           routes.SetupRoutes(service),
			ReadHeaderTimeout: 10 * time.Second,
		},
		close: []func() error{recordCache.Close, store.Close},
	}, nil
}

// Close releases the cache and the store
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.close {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run serves until ctx is done, then drains in-flight requests
func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		log.WithField("addr", a.Server.Addr).Info("starting blog ledger server")
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// RunAppServer starts the blog ledger HTTP service and blocks until SIGINT or SIGTERM
func RunAppServer(args []string) int {
	fs := newFlagSet("serve")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("failed to start")
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Error("failed to close cleanly")
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.WithError(err).Error("server error")
		return 1
	}
	log.Info("server exited")
	return 0
}
