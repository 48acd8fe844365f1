package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/playarena/backend/internal/api"
	"github.com/playarena/backend/internal/api/handlers"
	"github.com/playarena/backend/internal/config"
	"github.com/playarena/backend/internal/database"
	"github.com/playarena/backend/internal/migrations"
	"github.com/playarena/backend/internal/redisclient"
	"github.com/playarena/backend/internal/rooms"
	"github.com/playarena/backend/internal/storesync"
	"github.com/playarena/backend/internal/wallet"
	"github.com/playarena/backend/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// MOCK_MODE keeps player rows in the database but runs all bets and
	// settlements against an in-memory ledger
	var ledger wallet.Ledger
	if cfg.MockMode {
		mem := wallet.NewMemLedger()
		seedMockBalances(db, mem)
		ledger = mem
		log.Printf("[WALLET] mock mode enabled, balances are in-memory only")
	} else {
		ledger = wallet.NewSQLLedger(db)
	}

	rdb, err := redisclient.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()

	syncer := storesync.New(storesync.NewRedisKV(rdb), storesync.Options{
		Debounce:      time.Duration(cfg.SyncDebounceMs) * time.Millisecond,
		BulkBytes:     cfg.SyncBulkBytes,
		MaxBackoff:    time.Duration(cfg.OutboxMaxBackoffSecs) * time.Second,
		SweepEvery:    time.Duration(cfg.OutboxSweepSeconds) * time.Second,
		BatchPerSweep: cfg.OutboxBatchPerSweep,
	})
	syncer.Start(ctx)
	defer syncer.Close()

	hub := ws.NewHub()
	ws.StartRoomEventSubscriber(ctx, rdb, hub)

	storeOpts := rooms.Options{
		ShortCodeLength:  cfg.ShortCodeLength,
		ShortCodeRetries: cfg.ShortCodeRetries,
		MinBet:           cfg.MinBetAmount,
		MaxBet:           cfg.MaxBetAmount,
		OnUpdate: func(room *rooms.Room) {
			ws.PublishRoomUpdate(ctx, rdb, room)
		},
	}
	stores := handlers.Stores{}
	for _, game := range []rooms.Game{
		rooms.BattleGame{},
		rooms.RPSGame{},
		rooms.NiuniuGame{},
		rooms.UndercoverGame{},
		rooms.PasswordGame{},
	} {
		stores[game.Type()] = rooms.NewStore(game, syncer, ledger, storeOpts)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, db, cfg, stores, ledger, hub)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PlayArena server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedMockBalances copies the persisted balances into the in-memory ledger
// so mock mode starts from the same numbers the players last saw
func seedMockBalances(db *sqlx.DB, mem *wallet.MemLedger) {
	var rows []struct {
		Account string `db:"account"`
		Balance int    `db:"balance"`
	}
	if err := db.Select(&rows, `SELECT account, balance FROM players WHERE is_active`); err != nil {
		log.Printf("[WALLET] could not seed mock balances: %v", err)
		return
	}
	for _, r := range rows {
		mem.SetBalance(r.Account, r.Balance)
	}
	log.Printf("[WALLET] seeded %d mock balances", len(rows))
}
