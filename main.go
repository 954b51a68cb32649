package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"svcs/internal/api"
	"svcs/internal/catalog"
	"svcs/internal/config"
	"svcs/internal/logging"
	"svcs/internal/middleware"
	"svcs/internal/parcel"
	"svcs/internal/watch"

	"github.com/dustin/go-humanize"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	// Initialize logger
	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger:", err)
	}
	defer logger.Sync()

	root, err := os.Getwd()
	if err != nil {
		logger.Fatal("failed to get working directory", zap.Error(err))
	}
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	// The server never writes commits, so the catalog stays closed here and
	// is opened read-only per request.
	p, err := parcel.New(root, parcel.Options{
		DirName:   cfg.RepoDir,
		CacheSize: cfg.Cache.Size,
		Logger:    logger.Logger,
	})
	if err != nil {
		logger.Fatal("failed to open repository", zap.Error(err))
	}

	handler := api.NewHandler(p, catalog.OnDemand{Dir: p.CatalogDir()}, logger)

	// Set up router
	mux := http.NewServeMux()
	handler.Routes(mux)

	// Apply middleware
	h := middleware.Stack(mux, logger)

	watcher, err := watch.New(p.Dir, []string{"log.txt", "index.txt"}, logger.Logger)
	if err != nil {
		logger.Fatal("failed to watch repository", zap.Error(err))
	}
	defer watcher.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.Run(ctx, handler.Invalidate)
	})

	g.Go(func() error {
		logger.Info("starting server",
			zap.String("address", addr),
			zap.String("repository", filepath.Join(p.Root, cfg.RepoDir)),
			zap.String("cache", humanize.Comma(int64(cfg.Cache.Size))+" files"))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
