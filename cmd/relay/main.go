package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"room-relay/auth"
	"room-relay/internal"
	"room-relay/moderation"
	"room-relay/repositories"
	"room-relay/runtime"
	"room-relay/runtime/workers"
	"room-relay/server"
	"room-relay/services"
	"room-relay/transport"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a server failure.
// Deferred cleanups run before main exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	words := config.Words()
	if config.CensoredWordsDir != "" {
		dictionary, err := moderation.LoadDictionary(os.DirFS(config.CensoredWordsDir), ".")
		if err != nil {
			return exitConfig, fmt.Errorf("dictionary loading failed: %w", err)
		}
		logger.Info("Censored dictionary loaded",
			"words", len(dictionary.Words),
			"languages", dictionary.Languages)
		words = append(words, dictionary.Words...)
	}

	var censor runtime.Censor
	if len(words) > 0 {
		charReplacement, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			return exitConfig, err
		}
		moderator, err := moderation.NewModerator(words, charReplacement, logger)
		if err != nil {
			return exitConfig, fmt.Errorf("moderation setup failed: %w", err)
		}
		censor = moderator
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Engine under supervision
	engine := runtime.NewEngine(logger, runtime.NewState(censor), config.BufferSize, config.SinkTimeout)
	roomService := services.NewRoomService(logger, repositories.NewRoomRepository(db), engine)
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(logger, repositories.NewUserRepository(db), tokens)
	wsHandler := transport.NewHandler(logger, engine, roomService, transport.Options{
		SendBufferSize: config.ConnectionBufferSize,
		MaxMessageSize: config.MaxMessageSize,
	})

	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(engine)
	if config.MetricInterval > 0 {
		sup.Add(workers.NewHealthMonitoringWorker(logger, config.MetricInterval,
			workers.Gauge{Name: "engine_queue", Sample: engine.QueueLen},
			workers.Gauge{Name: "connections", Sample: wsHandler.Len},
		))
	}
	supervisorDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supervisorDone)
	}()

	// Rooms survive restarts, presence does not
	if _, err := roomService.Restore(ctx); err != nil {
		return exitRuntime, fmt.Errorf("room restore failed: %w", err)
	}

	// 4. HTTP server
	httpServer := &http.Server{
		Addr: config.Address(),
		Handler: server.NewRouter(server.Dependencies{
			Log:         logger,
			Rooms:       roomService,
			Accounts:    authService,
			Verifier:    tokens,
			RequireAuth: config.RequireAuth,
			ServeWs:     wsHandler.ServeWs,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 5. Wait for Stop or Error
	code := exitOK
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err = <-errChan:
		logger.Error("Server failed", "error", err)
		code = exitRuntime
	}

	// 6. Graceful shutdown: stop accepting, close websockets, then the engine
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("HTTP shutdown incomplete", "error", shutdownErr)
	}
	wsHandler.Close()
	engine.Stop()
	sup.Stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")

	return code, err
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}
