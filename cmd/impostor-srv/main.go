package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"

	"github.com/impostor-games/impostor/internal/cache/cachelru"
	"github.com/impostor-games/impostor/internal/database"
	roomdb "github.com/impostor-games/impostor/internal/database/room/database"
	"github.com/impostor-games/impostor/internal/impostor"
	"github.com/impostor-games/impostor/internal/impostor/game"
	"github.com/impostor-games/impostor/internal/impostor/words"
	"github.com/impostor-games/impostor/internal/logging"
	"github.com/impostor-games/impostor/internal/server"
	"github.com/impostor-games/impostor/internal/shutdown"
)

func main() {
	ctx, done := shutdown.New()
	defer done()

	logger := logging.FromContext(ctx)
	if err := realMain(ctx); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context) error {
	config := impostor.Config{}
	if err := envconfig.Process("", &config); err != nil {
		return fmt.Errorf("processing the config: %w", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if config.Oracle.APIKey == "" {
		_, _ = fmt.Fprintln(os.Stderr, "warning: IMPOSTOR_ORACLE_API_KEY is empty, round starts will fail")
	}

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}
	defer db.Close(ctx)

	roomCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	rooms := roomdb.New(db, roomCache)
	picker := words.NewPicker(words.NewClient(config.Oracle))
	manager := game.NewManager(rooms, picker, game.Config{
		StartCooldown: config.StartCooldown,
		PlayerTTL:     config.PlayerTTL,
	})

	srv, err := server.New(config.Port)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	handler := server.NewHandler(manager, config.Debug)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.ServeHTTP(ctx, &http.Server{Handler: handler.Engine()})
	})

	return group.Wait()
}
