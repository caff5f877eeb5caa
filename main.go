package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	auction "gift-auctions/internal/auctionService"
	bidding "gift-auctions/internal/bidService"
	"gift-auctions/internal/ledger"
	"gift-auctions/internal/locker"
	"gift-auctions/internal/scheduler"
	"gift-auctions/internal/server"
	"gift-auctions/internal/store"
	"gift-auctions/utils"
)

type config struct {
	addr         string
	mongoURI     string
	mongoDB      string
	tickInterval time.Duration
	lockTTL      time.Duration
}

func main() {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, cleanup := openStore(ctx, cfg)
	defer cleanup()

	// One identity per process instance; leases written by this process all
	// carry it.
	lock := locker.New(st, utils.GenerateID(), cfg.lockTTL)

	ledgerService := ledger.NewService(st)
	auctionService := auction.NewAuctionService(st, lock)
	biddingService := bidding.NewBiddingService(st, lock)

	roundScheduler := scheduler.NewRoundScheduler(auctionService, cfg.tickInterval)
	roundScheduler.Start()
	defer roundScheduler.Stop()

	router := server.SetupRouter(auctionService, biddingService, ledgerService)
	srv := &http.Server{Addr: cfg.addr, Handler: router}

	go func() {
		utils.Info("starting auction server", map[string]any{"addr": cfg.addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server failed", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("server shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openStore selects the backend: a MongoDB replica set when MONGODB_URI is
// set, the in-memory store otherwise (single-process dev mode).
func openStore(ctx context.Context, cfg config) (store.Store, func()) {
	if cfg.mongoURI == "" || cfg.mongoURI == "memory" {
		utils.Info("using in-memory store", nil)
		return store.NewMemoryStore(), func() {}
	}

	mongoStore, err := store.NewMongoStore(ctx, cfg.mongoURI, cfg.mongoDB)
	if err != nil {
		utils.Fatal("failed to connect to store", map[string]any{"error": err.Error()})
	}
	utils.Info("connected to mongodb", map[string]any{"database": cfg.mongoDB})
	return mongoStore, func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoStore.Disconnect(disconnectCtx); err != nil {
			utils.Error("failed to disconnect from store", map[string]any{"error": err.Error()})
		}
	}
}

// loadConfig reads configuration from env with sensible defaults.
func loadConfig() config {
	return config{
		addr:         ":" + envOr("PORT", "8080"),
		mongoURI:     os.Getenv("MONGODB_URI"),
		mongoDB:      envOr("MONGODB_DB", "gift-auctions"),
		tickInterval: envDurationMs("SCHEDULER_INTERVAL_MS", scheduler.DefaultInterval),
		lockTTL:      envDurationMs("LOCK_TTL_MS", locker.DefaultTTL),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationMs(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		utils.Warn("ignoring invalid duration env", map[string]any{"key": key, "value": raw})
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
