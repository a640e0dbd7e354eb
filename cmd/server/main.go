package main

import (
	"context"
	"fmt"
	"minichat/internal"
	"minichat/moderation"
	"minichat/observability"
	"minichat/runtime"
	"minichat/runtime/workers"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the listener and background workers.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation (optional)
	// The censor runs on routed message bodies only; notices stay untouched.
	var moderator *moderation.Moderator
	if config.EnableModeration {
		data, err := moderation.LoadEmbedded()
		if err != nil {
			return exitRuntime, fmt.Errorf("censored words loading failed: %w", err)
		}
		logger.Info(fmt.Sprintf("%d censored words loaded [%s]",
			len(data.Words), strings.Join(data.Languages, ",")))

		m, err := moderation.NewModerator(data.Words, charReplacement)
		if err != nil {
			return exitRuntime, fmt.Errorf("moderator build failed: %w", err)
		}
		moderator = &m
	}

	// 3. Shared state & workers
	monitoring := observability.NewMonitoringManager()
	registry := runtime.NewRegistry(logger, monitoring)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := runtime.NewServer(address, registry, moderator, monitoring,
		config.BufferSize, config.ReadTimeout, config.WriteTimeout, logger)
	telemetry := workers.NewTelemetryWorker(logger, monitoring, config.MetricInterval)

	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(server, telemetry)

	// 4. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervised execution
	// Run blocks until the signal context is canceled and every worker,
	// the accept loop included, has finished.
	logger.Info("Starting chat relay", "address", address)
	sup.Run(ctx)

	logger.Info("Program stopped cleanly")
	return exitOK, nil
}
