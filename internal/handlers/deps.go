package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/goalaura-backend/internal/middleware"
	"github.com/GregMSThompson/goalaura-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        middleware.TokenVerifier

	UserSvc       userService
	LedgerSvc     ledgerService
	AnalyticsSvc  analyticsService
	PeerSvc       peerService
	ComparisonSvc comparisonService
	RoadmapSvc    roadmapService
	GoalSvc       goalService
	PlaidSvc      plaidService
	BankSvc       bankService
}
