package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/GregMSThompson/goalaura-backend/internal/bootstrap"
	"github.com/GregMSThompson/goalaura-backend/internal/config"
	"github.com/GregMSThompson/goalaura-backend/internal/services"
	"github.com/GregMSThompson/goalaura-backend/internal/store"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// seed fills a Firestore project with demo profiles and ledgers. Point
// FIRESTORE_EMULATOR_HOST at an emulator to seed locally.
func main() {
	users := flag.Int("users", 50, "number of demo profiles")
	minTx := flag.Int("min-tx", 2, "minimum transactions per profile")
	maxTx := flag.Int("max-tx", 4, "maximum transactions per profile")
	randSeed := flag.Uint64("seed", 1, "random seed, for reproducible data")
	flag.Parse()

	cfg := config.New()
	log := logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	if cfg.ProjectID == "" {
		exitOnError("invalid configuration", errors.New("PROJECTID is required"), log)
	}

	ctx := logger.ToContext(context.Background(), log)
	fs, err := bootstrap.InitFirestore(ctx, cfg.ProjectID)
	exitOnError("firestore init failed", err, log)
	defer fs.Close()

	ustore := store.NewUserStore(fs)
	tstore := store.NewTransactionStore(fs)
	anserv := services.NewAnalyticsService(tstore)

	s := &seeder{
		users:   ustore,
		stats:   ustore,
		ledger:  services.NewLedgerService(tstore),
		savings: services.NewUserService(ustore, anserv),
		rng:     rand.New(rand.NewPCG(*randSeed, *randSeed)),
	}
	result, err := s.Run(ctx, seedOptions{Users: *users, MinTx: *minTx, MaxTx: *maxTx})
	if err != nil {
		fs.Close()
	}
	exitOnError("seed failed", err, log)
	log.Info("seed complete", "users", result.Users, "transactions", result.Transactions)
}
