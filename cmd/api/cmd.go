package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/bootstrap"
	"github.com/GregMSThompson/goalaura-backend/internal/config"
	"github.com/GregMSThompson/goalaura-backend/internal/crypto"
	"github.com/GregMSThompson/goalaura-backend/internal/handlers"
	"github.com/GregMSThompson/goalaura-backend/internal/response"
	"github.com/GregMSThompson/goalaura-backend/internal/router"
	"github.com/GregMSThompson/goalaura-backend/internal/services"
	"github.com/GregMSThompson/goalaura-backend/internal/store"
)

const shutdownTimeout = 15 * time.Second

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	if err != nil {
		bs.Close()
	}
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	peerTokens := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore)
	gstore := store.NewGoalStore(bs.Firestore)
	bstore := store.NewBankStore(bs.Firestore)
	sstore := store.NewPlaidSecretsStore(bs.SecretManager, cfg.ProjectID)

	// services
	roadmapPolicy := services.RoadmapPolicy{
		AchievableBelow:  cfg.AchievableBelow,
		ChallengingUpTo:  cfg.ChallengingUpTo,
		RealismThreshold: cfg.RealismThreshold,
	}
	peerPolicy := services.PeerPolicy{
		Limit:         cfg.PeerLimit,
		MinSimilarity: cfg.PeerMinSimilarity,
	}

	lserv := services.NewLedgerService(tstore)
	anserv := services.NewAnalyticsService(tstore)
	userv := services.NewUserService(ustore, anserv)
	aiserv := services.NewAIService(bs.VertexAdapter)
	peserv := services.NewPeerService(ustore, peerTokens, tstore, peerPolicy)
	cmserv := services.NewComparisonService(ustore, peerTokens, tstore, aiserv)
	rmserv := services.NewRoadmapService(ustore, aiserv, roadmapPolicy, cfg.AITimeout)
	goserv := services.NewGoalService(gstore, roadmapPolicy)
	plserv := services.NewPlaidService(bs.PlaidAdapter, bstore, tstore, sstore)
	bserv := services.NewBankService(bstore, tstore, sstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.UserSvc = userv
	deps.LedgerSvc = lserv
	deps.AnalyticsSvc = anserv
	deps.PeerSvc = peserv
	deps.ComparisonSvc = cmserv
	deps.RoadmapSvc = rmserv
	deps.GoalSvc = goserv
	deps.PlaidSvc = plserv
	deps.BankSvc = bserv

	// router
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		bs.Log.Info("server listening", "port", cfg.Port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	case <-ctx.Done():
		bs.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("graceful shutdown failed", "error", err)
		}
	}
}
