package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clipvault/clipvault/internal/api"
	"github.com/clipvault/clipvault/internal/api/handler"
	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/downloader"
	"github.com/clipvault/clipvault/internal/library"
	"github.com/clipvault/clipvault/internal/registry"
	"github.com/clipvault/clipvault/internal/search"
	"github.com/clipvault/clipvault/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("clipvault %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting clipvault",
		"version", Version,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Ensure the download directory exists
	if err := os.MkdirAll(cfg.Storage.DownloadDir, 0755); err != nil {
		logger.Error("failed to create download directory", "error", err)
		os.Exit(1)
	}

	// Initialize dependencies
	jobs := registry.New()
	lib := library.New(cfg.Storage.DownloadDir)
	searchClient := search.NewClient(cfg.YouTube, logger)
	supervisor := downloader.NewSupervisor(cfg.Downloader, jobs, lib, logger)

	// Initialize services
	downloadSvc := service.NewDownloadService(jobs, lib, supervisor, logger)

	// Warn early when yt-dlp is missing rather than failing the first
	// download request.
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 10*time.Second)
	if version, err := supervisor.Version(probeCtx); err != nil {
		logger.Warn("yt-dlp not available, downloads will fail", "error", err)
	} else {
		logger.Info("yt-dlp available", "yt_dlp_version", version)
	}
	cancelProbe()

	if cfg.YouTube.APIKey == "" {
		logger.Warn("YOUTUBE_API_KEY not set, search requests will fail")
	}

	// Initialize handlers
	searchHandler := handler.NewSearchHandler(searchClient, logger)
	downloadHandler := handler.NewDownloadHandler(downloadSvc, logger)
	libraryHandler := handler.NewLibraryHandler(lib, logger)
	healthHandler := handler.NewHealthHandler(supervisor)

	// Setup router
	router := api.NewRouter(searchHandler, downloadHandler, libraryHandler, healthHandler, cfg.Storage.DownloadDir)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop accepting new requests
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Let in-flight yt-dlp processes finish writing their files
	supervisor.Wait()

	logger.Info("shutdown complete")
}
