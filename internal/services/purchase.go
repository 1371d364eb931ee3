package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/money"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

const (
	workHoursPerMonth = 160.0
	workHoursPerDay   = 8.0
	workDaysPerWeek   = 5.0
	annualReturn      = 0.12
)

var projectionYears = []int{1, 5, 10}

var riskProfiles = map[string]bool{"low": true, "medium": true, "high": true}

// OpportunityCost prices a purchase in hours of work and in investment growth
// forgone. The AI message is optional; a plain summary replaces it when the
// call fails.
func (s *roadmapService) OpportunityCost(ctx context.Context, uid string, req dto.OpportunityCostRequest) (*models.OpportunityCost, error) {
	log := logger.FromContext(ctx)

	item := strings.TrimSpace(req.PurchaseItem)
	if item == "" {
		return nil, errs.NewFieldValidationError("purchaseItem", "purchaseItem is required")
	}
	if !(req.PurchaseCost > 0) || math.IsInf(req.PurchaseCost, 0) {
		return nil, errs.NewFieldValidationError("purchaseCost", "purchaseCost must be greater than 0")
	}

	profile, err := s.profile(ctx, uid)
	if err != nil {
		return nil, err
	}
	income, err := resolveIncome(req.MonthlyIncome, profile)
	if err != nil {
		return nil, err
	}

	oc := opportunityCost(item, req.PurchaseCost, income)

	narrativeReq := dto.OpportunityNarrativeRequest{
		PurchaseItem: oc.PurchaseItem,
		PurchaseCost: oc.PurchaseCost,
		HourlyWage:   oc.HourlyWage,
		HoursToWork:  oc.HoursToWork,
		DaysToWork:   oc.DaysToWork,
		WeeksToWork:  oc.WeeksToWork,
		AnnualReturn: oc.AnnualReturn,
	}
	for _, p := range oc.Projections {
		narrativeReq.FutureValues = append(narrativeReq.FutureValues, dto.FutureValueProjection{Years: p.Years, Value: p.FutureValue})
	}

	aiCtx, cancel := s.withAITimeout(ctx)
	msg, err := s.narrator.OpportunityNarrative(aiCtx, narrativeReq)
	cancel()
	if err != nil || strings.TrimSpace(msg) == "" {
		log.Warn("opportunity cost narrative unavailable", "error", err)
		msg = opportunitySummary(oc)
	}
	oc.Message = msg

	log.Info("opportunity cost computed", "hours_to_work", oc.HoursToWork)
	return &oc, nil
}

func opportunityCost(item string, cost, income float64) models.OpportunityCost {
	wage := income / workHoursPerMonth
	hours := cost / wage
	days := hours / workHoursPerDay

	oc := models.OpportunityCost{
		PurchaseItem: item,
		PurchaseCost: cost,
		HourlyWage:   wage,
		HoursToWork:  hours,
		DaysToWork:   days,
		WeeksToWork:  days / workDaysPerWeek,
		AnnualReturn: annualReturn,
		Projections:  make([]models.InvestmentProjection, 0, len(projectionYears)),
	}
	for _, years := range projectionYears {
		fv := cost * math.Pow(1+annualReturn, float64(years))
		oc.Projections = append(oc.Projections, models.InvestmentProjection{
			Years:       years,
			FutureValue: fv,
			Gain:        fv - cost,
		})
	}
	return oc
}

func opportunitySummary(oc models.OpportunityCost) string {
	inr := func(v float64) string { return money.FormatINR(money.FromFloat(v)) }

	var b strings.Builder
	fmt.Fprintf(&b, "%s costs %s, which is %.1f hours of work (%.1f working days, %.1f weeks).",
		oc.PurchaseItem, inr(oc.PurchaseCost), oc.HoursToWork, oc.DaysToWork, oc.WeeksToWork)
	fmt.Fprintf(&b, " Invested at %.0f%% a year it would grow to", oc.AnnualReturn*100)
	for i, p := range oc.Projections {
		sep := ","
		if i == 0 {
			sep = ""
		}
		fmt.Fprintf(&b, "%s %s after %d %s", sep, inr(p.FutureValue), p.Years, pluralYears(p.Years))
	}
	b.WriteString(".")
	return b.String()
}

func pluralYears(n int) string {
	if n == 1 {
		return "year"
	}
	return "years"
}

// Decide rates a spending dilemma against the caller's income, savings and
// risk appetite. AI failures are returned as is.
func (s *roadmapService) Decide(ctx context.Context, uid string, req dto.DecisionRequest) (*models.DecisionAdvice, error) {
	log := logger.FromContext(ctx)

	situation := strings.TrimSpace(req.Situation)
	if situation == "" {
		return nil, errs.NewFieldValidationError("situation", "situation is required")
	}
	risk := strings.ToLower(strings.TrimSpace(req.RiskProfile))
	if !riskProfiles[risk] {
		return nil, errs.NewFieldValidationError("riskProfile", "riskProfile must be low, medium or high")
	}
	if req.Savings != nil && (*req.Savings < 0 || math.IsNaN(*req.Savings) || math.IsInf(*req.Savings, 0)) {
		return nil, errs.NewFieldValidationError("savings", "savings cannot be negative")
	}

	profile, err := s.profile(ctx, uid)
	if err != nil {
		return nil, err
	}
	income, err := resolveIncome(req.MonthlyIncome, profile)
	if err != nil {
		return nil, err
	}

	savings := 0.0
	if req.Savings != nil {
		savings = *req.Savings
	} else if saved, err := money.Parse(profile.Stats.TotalSaved); err == nil {
		savings = saved.InexactFloat64()
	}

	aiCtx, cancel := s.withAITimeout(ctx)
	defer cancel()
	advice, err := s.narrator.DecisionTree(aiCtx, dto.DecisionTreeRequest{
		Situation:     situation,
		MonthlyIncome: income,
		Savings:       savings,
		RiskProfile:   risk,
	})
	if err != nil {
		log.Error("decision advice failed", "error", err)
		return nil, err
	}

	switch advice.DecisionRating {
	case models.DecisionSmart, models.DecisionNeutral, models.DecisionRisky:
	default:
		return nil, errs.NewUpstreamFormatError(aiServiceName, "unknown decision rating "+advice.DecisionRating)
	}
	advice.ConfidenceScore = max(0, min(100, advice.ConfidenceScore))

	log.Info("decision advice generated", "rating", advice.DecisionRating, "risk_profile", risk)
	return &advice, nil
}
