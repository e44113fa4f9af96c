package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ekisa-team/ttsform/internal/audio"
	"github.com/ekisa-team/ttsform/internal/config"
	"github.com/ekisa-team/ttsform/internal/env"
	"github.com/ekisa-team/ttsform/internal/envvar"
	"github.com/ekisa-team/ttsform/internal/form"
	"github.com/ekisa-team/ttsform/internal/generation"
	"github.com/ekisa-team/ttsform/internal/logger"
	"github.com/ekisa-team/ttsform/internal/params"
	grpcserver "github.com/ekisa-team/ttsform/internal/server/grpc"
	httpserver "github.com/ekisa-team/ttsform/internal/server/http"
	"github.com/ekisa-team/ttsform/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	var (
		flagHTTPPort   = flag.Int("http-port", config.DefaultHTTPPort(), "HTTP port to listen on")
		flagGRPCPort   = flag.Int("grpc-port", config.DefaultGRPCPort(), "GRPC port to listen on")
		flagConfigPath = flag.String("config", path.Join(config.DefaultConfigPath(), "config.yaml"), "Path to config file")
		flagSchemaPath = flag.String("schema", "", "Path to schema file (embedded schema when empty)")
	)
	flag.Parse()

	environment := env.FromEnv()

	logFile := os.Getenv(envvar.TTSFormLogFile)
	if logFile == "" {
		logFile = "logs/ttsform.log"
	}

	slog.SetDefault(
		logger.New(environment,
			logger.WithLogToFile(environment.IsProduction()),
			logger.WithLogFile(logFile),
		),
	)

	if err := run(*flagHTTPPort, *flagGRPCPort, *flagConfigPath, *flagSchemaPath); err != nil {
		slog.Error("ttsform stopped", "error", err)
		os.Exit(1)
	}
}

func run(httpPort, grpcPort int, configPath, schemaPath string) error {
	speech := service.NewSpeech(service.WithLogger(logger.Component(slog.Default(), "speech")))
	defer speech.Close()

	// Set once the controller exists; reloads before that only rebuild the backends.
	var controller atomic.Pointer[generation.Controller]

	watcher, err := config.NewWatcher(configPath, schemaPath, func(cfg *config.Config, err error) {
		if err != nil {
			slog.Error("Failed to reload config", "error", err)
			return
		}

		b, err := speech.LoadFromConfig(cfg.Endpoint)
		if err != nil {
			slog.Error("Failed to load speech backend from config", "error", err)
			return
		}
		if c := controller.Load(); c != nil {
			c.SetBackend(b)
		}
	}, config.WithWatcherLogger(logger.Component(slog.Default(), "config")))
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	cfg := watcher.Snapshot()
	slog.Info("Config loaded successfully", "config", configPath, "schema", schemaPath)

	c, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	defaults := cfg.Defaults.Parameters()
	if err := defaults.Validate(c, true); err != nil {
		return fmt.Errorf("invalid defaults: %w", err)
	}

	// A reload may already have run since the watcher started; keep its backend.
	active, err := speech.Ensure(cfg.Endpoint)
	if err != nil {
		return err
	}

	audioOpts := []audio.Option{}
	if cfg.Audio.MaxBytes > 0 {
		audioOpts = append(audioOpts, audio.WithMaxBytes(cfg.Audio.MaxBytes))
	}
	store := audio.NewStore(audioOpts...)
	defer store.Close()

	ctrl := generation.NewController(active, store,
		generation.WithLogger(logger.Component(slog.Default(), "generation")),
	)
	controller.Store(ctrl)
	// Pick up a reload that finished before the controller was published.
	if latest, err := speech.Active(); err == nil {
		ctrl.SetBackend(latest)
	}
	f := form.New(params.NewStore(c, defaults), ctrl)
	defer f.Close()

	httpSrv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(httpPort)),
		Handler:           httpserver.NewRouter(f, store, httpserver.WithLogger(logger.Component(slog.Default(), "http"))),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	grpcLis, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(grpcPort)))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	grpcSrv := grpcserver.NewServer(logger.Component(slog.Default(), "grpc"))

	errCh := make(chan error, 2)

	go func() {
		slog.Info("Starting HTTP server", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		if err := grpcSrv.Serve(grpcLis); err != nil {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-quit:
		slog.Info("Shutting down", "signal", sig.String())
	case serveErr = <-errCh:
		slog.Error("Server failed, shutting down", "error", serveErr)
	}

	grpcSrv.SetServing(false)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	}
	grpcSrv.Shutdown(ctx)

	slog.Info("Servers stopped")
	return serveErr
}
