package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/money"
	"github.com/GregMSThompson/goalaura-backend/pkg/helpers"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

const (
	BandVeryAchievable = "very achievable"
	BandChallenging    = "challenging but doable"
	BandAmbitious      = "ambitious"
)

type roadmapNarrator interface {
	DreamNarrative(ctx context.Context, req dto.RoadmapNarrativeRequest) (dto.RoadmapNarrative, error)
	IncomeGrowth(ctx context.Context, req dto.IncomeGrowthRequest) (*models.IncomeGrowthReport, error)
	OpportunityNarrative(ctx context.Context, req dto.OpportunityNarrativeRequest) (string, error)
	DecisionTree(ctx context.Context, req dto.DecisionTreeRequest) (models.DecisionAdvice, error)
}

// RoadmapPolicy holds the saving-percentage thresholds. A plan is
// realistic while the percentage is at most RealismThreshold.
type RoadmapPolicy struct {
	AchievableBelow  float64
	ChallengingUpTo  float64
	RealismThreshold float64
}

type savingPlan struct {
	MonthlySaving    float64
	SavingPercentage float64
	IsRealistic      bool
	Band             string
}

func (p RoadmapPolicy) plan(budget, income float64, months int) savingPlan {
	saving := budget / float64(months)
	pct := saving / income * 100

	band := BandAmbitious
	switch {
	case pct < p.AchievableBelow:
		band = BandVeryAchievable
	case pct <= p.ChallengingUpTo:
		band = BandChallenging
	}

	return savingPlan{
		MonthlySaving:    saving,
		SavingPercentage: pct,
		IsRealistic:      pct <= p.RealismThreshold,
		Band:             band,
	}
}

type roadmapService struct {
	users     profileGetter
	narrator  roadmapNarrator
	policy    RoadmapPolicy
	aiTimeout time.Duration
}

func NewRoadmapService(users profileGetter, narrator roadmapNarrator, policy RoadmapPolicy, aiTimeout time.Duration) *roadmapService {
	return &roadmapService{
		users:     users,
		narrator:  narrator,
		policy:    policy,
		aiTimeout: aiTimeout,
	}
}

// Generate computes the saving plan for a dream and decorates it with the
// AI narrative. For unrealistic plans an income growth report is attached
// when the AI can produce one.
func (s *roadmapService) Generate(ctx context.Context, uid string, req dto.RoadmapRequest) (*models.Roadmap, error) {
	log := logger.FromContext(ctx)

	dream := strings.TrimSpace(req.DreamText)
	if dream == "" {
		return nil, errs.NewFieldValidationError("dreamText", "dreamText is required")
	}
	if !(req.EstimatedBudget > 0) {
		return nil, errs.NewFieldValidationError("estimatedBudget", "estimatedBudget must be greater than 0")
	}
	if req.TargetMonths < 1 {
		return nil, errs.NewFieldValidationError("targetMonths", "targetMonths must be at least 1")
	}

	profile, err := s.profile(ctx, uid)
	if err != nil {
		return nil, err
	}

	income, err := resolveIncome(req.MonthlyIncome, profile)
	if err != nil {
		return nil, err
	}

	plan := s.policy.plan(req.EstimatedBudget, income, req.TargetMonths)
	roadmap := &models.Roadmap{
		DreamText:        dream,
		EstimatedBudget:  req.EstimatedBudget,
		MonthlyIncome:    income,
		TargetMonths:     req.TargetMonths,
		MonthlySaving:    plan.MonthlySaving,
		SavingPercentage: plan.SavingPercentage,
		IsRealistic:      plan.IsRealistic,
		FeasibilityBand:  plan.Band,
	}

	aiCtx, cancel := s.withAITimeout(ctx)
	narrative, err := s.narrator.DreamNarrative(aiCtx, dto.RoadmapNarrativeRequest{
		DreamText:         dream,
		EstimatedBudget:   req.EstimatedBudget,
		UserMonthlyIncome: income,
		TargetMonths:      req.TargetMonths,
		MonthlySaving:     plan.MonthlySaving,
		SavingPercentage:  plan.SavingPercentage,
		IsRealistic:       plan.IsRealistic,
		Location:          profile.Location,
	})
	cancel()
	if err != nil {
		log.Error("roadmap narrative failed", "error", err)
		return nil, err
	}
	applyNarrative(roadmap, narrative)
	roadmap.FeasibilityScore = feasibilityScore(roadmap.SavingPercentage, roadmap.TargetMonths, roadmap.EstimatedCost, roadmap.BudgetGap)
	roadmap.RealityCheck = realityCheck(roadmap)

	if !plan.IsRealistic {
		roadmap.IncomeGrowth = s.incomeGrowth(ctx, income, profile, req)
	}

	log.Info("roadmap generated",
		"target_months", roadmap.TargetMonths,
		"saving_percentage", roadmap.SavingPercentage,
		"band", roadmap.FeasibilityBand,
		"income_growth", roadmap.IncomeGrowth != nil,
	)
	return roadmap, nil
}

// incomeGrowth never fails the roadmap; errors are logged and the report is
// left out.
func (s *roadmapService) incomeGrowth(ctx context.Context, income float64, profile *models.User, req dto.RoadmapRequest) *models.IncomeGrowthReport {
	aiCtx, cancel := s.withAITimeout(ctx)
	defer cancel()

	skills := req.CurrentSkills
	if skills == nil {
		skills = []string{}
	}
	report, err := s.narrator.IncomeGrowth(aiCtx, dto.IncomeGrowthRequest{
		CurrentIncome:     income,
		Profession:        profile.Occupation,
		YearsOfExperience: helpers.Value(req.YearsOfExperience),
		CurrentSkills:     skills,
		Location:          profile.Location,
	})
	if err != nil {
		logger.FromContext(ctx).Warn("income growth report unavailable", "error", err)
		return nil
	}
	return report
}

// profile loads the caller's profile. A missing profile is an empty one so
// request fields can still supply income.
func (s *roadmapService) profile(ctx context.Context, uid string) (*models.User, error) {
	profile, err := s.users.GetUser(ctx, uid)
	if err != nil {
		var notFound *errs.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		return &models.User{UID: uid}, nil
	}
	return profile, nil
}

func (s *roadmapService) withAITimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.aiTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.aiTimeout)
}

func resolveIncome(explicit *float64, profile *models.User) (float64, error) {
	if explicit != nil {
		if !(*explicit > 0) || math.IsInf(*explicit, 0) {
			return 0, errs.NewFieldValidationError("monthlyIncome", "monthlyIncome must be greater than 0")
		}
		return *explicit, nil
	}
	income, ok := profile.Income()
	if !ok || !income.IsPositive() {
		return 0, errs.NewFieldValidationError("monthlyIncome", "monthlyIncome is required; set it on your profile or in the request")
	}
	return income.InexactFloat64(), nil
}

func applyNarrative(r *models.Roadmap, n dto.RoadmapNarrative) {
	r.DreamType = n.DreamType
	r.EstimatedCost = n.EstimatedCost
	if r.EstimatedCost <= 0 {
		r.EstimatedCost = r.EstimatedBudget
	}
	r.BudgetGap = math.Max(0, r.EstimatedCost-r.EstimatedBudget)
	r.Milestones = n.Milestones
	r.Challenges = n.Challenges
	r.ProTips = n.ProTips
	r.Alternatives = n.Alternatives
}

// feasibilityScore starts at 10 and loses points for an underestimated
// budget, a heavy saving rate and a very short horizon. Result is 1..10.
func feasibilityScore(savingPct float64, months int, estimatedCost, budgetGap float64) int {
	score := 10

	if estimatedCost > 0 {
		switch gap := budgetGap / estimatedCost; {
		case gap > 0.5:
			score -= 4
		case gap > 0.2:
			score -= 2
		}
	}

	switch {
	case savingPct > 50:
		score -= 3
	case savingPct > 30:
		score -= 1
	}

	if months < 3 {
		score -= 2
	}

	return max(1, min(10, score))
}

func realityCheck(r *models.Roadmap) string {
	msg := fmt.Sprintf("Saving %s a month is %.1f%% of your income, which is %s.",
		money.FormatINR(money.FromFloat(r.MonthlySaving)), r.SavingPercentage, r.FeasibilityBand)
	if r.BudgetGap > 0 {
		msg += fmt.Sprintf(" The realistic cost is about %s more than your budget.",
			money.FormatINR(money.FromFloat(r.BudgetGap)))
	}
	return msg
}
