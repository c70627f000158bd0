package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"creator-chat/api"
	"creator-chat/auth"
	"creator-chat/internal"
	"creator-chat/observability"
	"creator-chat/repositories"
	"creator-chat/runtime"
	"creator-chat/runtime/workers"
	"creator-chat/services"
	"creator-chat/sink"
	"creator-chat/ws"
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
// All 'defer' statements (like database cleanup) execute before the program exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := config.CharacterRune()
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Stores and runtime state
	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	pendingRepository := repositories.NewPendingRepository(db, logger)
	unreadRepository := repositories.NewUnreadRepository(db, logger)

	supervisor := workers.NewSupervisor(logger)
	registry := runtime.NewRegistry()
	membership := runtime.NewMembership()
	queue := runtime.NewOfflineQueue(logger, pendingRepository)
	unread := runtime.NewUnreadCounter(logger, unreadRepository)
	monitoring := observability.NewMonitoringManager()

	engine := runtime.NewEngine(logger, supervisor, registry, membership, queue,
		unread, monitoring, messageRepository, config.BufferSize,
		config.SinkTimeout, config.MetricInterval, charReplacement)
	engine.AddSinks(sink.NewDiskSink(messageRepository, logger))

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start the engine (dispatcher, moderation, fanout, telemetry)
	if err := engine.Start(ctx); err != nil {
		return exitRuntime, fmt.Errorf("engine start failed: %w", err)
	}

	// 6. HTTP server: socket endpoint plus the REST read side
	chatService := services.NewChatService(engine)
	var tokens *auth.TokenManager
	if config.AuthSecret != "" {
		tokens = auth.NewTokenManager(config.AuthSecret, config.AuthTokenDuration)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", ws.NewServer(logger, chatService, tokens, config.ConnectionBufferSize))
	api.NewHandler(logger, chatService).Register(mux)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for stop or error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Final cleanup (graceful shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	engine.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
