// Declutterd is the asset-organization daemon behind the panel.
//
// It serves project analysis, folder suggestions, organization templates
// and learning data over HTTP. State lives as JSON files in the state
// directory; configuration comes from a YAML file plus DECLUTTERD_*
// environment variables.
//
// Usage:
//
//	# Start with defaults
//	declutterd
//
//	# Custom config file
//	declutterd -config /etc/declutterd/config.yaml
//
//	# Configure via environment
//	DECLUTTERD_SERVER_PORT=9090 declutterd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/declutterlabs/declutterd/internal/catalog"
	"github.com/declutterlabs/declutterd/internal/config"
	"github.com/declutterlabs/declutterd/internal/events"
	"github.com/declutterlabs/declutterd/internal/httpapi"
	"github.com/declutterlabs/declutterd/internal/learning"
	"github.com/declutterlabs/declutterd/internal/logging"
	"github.com/declutterlabs/declutterd/internal/organizer"
	"github.com/declutterlabs/declutterd/internal/patterns"
	"github.com/declutterlabs/declutterd/internal/statestore"
	"github.com/declutterlabs/declutterd/internal/templates"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  declutterd           Start the daemon\n")
			fmt.Fprintf(os.Stderr, "  declutterd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("declutterd by Declutter Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run wires the engine together and blocks until the context is
// cancelled: config, logger, state stores, organizer service, HTTP
// server, plus the template watcher and the learning flush scheduler.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("starting declutterd",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	state, err := statestore.New(cfg.State.Dir)
	if err != nil {
		return fmt.Errorf("failed to open state directory: %w", err)
	}
	logger.Info("state directory ready", zap.String("dir", state.Dir()))

	tstore := templates.NewStore(state, logger)
	lstore := learning.NewStore(state, logger)
	bus := events.NewBus(0, logger)
	defer bus.Close()

	// The daemon serves the built-in sample project until a panel
	// pushes a real one through the API.
	cat := catalog.SampleProject()

	svc, err := organizer.NewService(&organizer.Config{
		Enabled:        cfg.Organizer.Enabled,
		MaxSuggestions: cfg.Organizer.MaxSuggestions,
	}, cat, patterns.Default(), tstore, lstore, bus, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize organizer: %w", err)
	}
	defer func() {
		_ = svc.Close()
	}()

	if cfg.Organizer.WatchTemplates {
		watcher, err := templates.NewWatcher(tstore, state, logger)
		if err != nil {
			logger.Warn("failed to create template watcher", zap.Error(err))
		} else if err := watcher.Start(ctx); err != nil {
			logger.Warn("failed to start template watcher", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	scheduler, err := learning.NewScheduler(lstore, logger,
		learning.WithInterval(cfg.Learning.FlushInterval))
	if err != nil {
		return fmt.Errorf("failed to create learning scheduler: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start learning scheduler: %w", err)
	}
	defer scheduler.Stop()

	srv, err := httpapi.NewServer(svc, logger, &httpapi.Config{
		Host: "localhost",
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
