package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

type goalBookStore interface {
	Create(ctx context.Context, uid string, goal *models.Goal, deltas map[string]int) error
	List(ctx context.Context, uid string) ([]*models.Goal, error)
	Get(ctx context.Context, uid, goalID string) (*models.Goal, error)
	Transition(ctx context.Context, uid, goalID, from, to string, at time.Time, deltas map[string]int) (*models.Goal, error)
}

type goalService struct {
	goals    goalBookStore
	policy   RoadmapPolicy
	clockNow func() time.Time
	newID    func() string
}

func NewGoalService(goals goalBookStore, policy RoadmapPolicy) *goalService {
	return &goalService{
		goals:    goals,
		policy:   policy,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

// Save freezes an accepted roadmap as an active goal. The derived numbers
// are recomputed here so a client cannot store edited values.
func (s *goalService) Save(ctx context.Context, uid string, req dto.SaveGoalRequest) (*models.Goal, error) {
	log := logger.FromContext(ctx)

	r := req.Roadmap
	r.DreamText = strings.TrimSpace(r.DreamText)
	switch {
	case r.DreamText == "":
		return nil, errs.NewFieldValidationError("roadmap.dreamText", "dreamText is required")
	case !(r.EstimatedBudget > 0):
		return nil, errs.NewFieldValidationError("roadmap.estimatedBudget", "estimatedBudget must be greater than 0")
	case !(r.MonthlyIncome > 0):
		return nil, errs.NewFieldValidationError("roadmap.monthlyIncome", "monthlyIncome must be greater than 0")
	case r.TargetMonths < 1:
		return nil, errs.NewFieldValidationError("roadmap.targetMonths", "targetMonths must be at least 1")
	}

	plan := s.policy.plan(r.EstimatedBudget, r.MonthlyIncome, r.TargetMonths)
	r.MonthlySaving = plan.MonthlySaving
	r.SavingPercentage = plan.SavingPercentage
	r.IsRealistic = plan.IsRealistic
	r.FeasibilityBand = plan.Band
	applyNarrative(&r, dto.RoadmapNarrative{
		DreamType:     r.DreamType,
		EstimatedCost: r.EstimatedCost,
		Milestones:    r.Milestones,
		Challenges:    r.Challenges,
		ProTips:       r.ProTips,
		Alternatives:  r.Alternatives,
	})
	r.FeasibilityScore = feasibilityScore(r.SavingPercentage, r.TargetMonths, r.EstimatedCost, r.BudgetGap)
	r.RealityCheck = realityCheck(&r)

	now := s.clockNow().UTC()
	goal := &models.Goal{
		GoalID:    s.newID(),
		DreamText: r.DreamText,
		Status:    taxonomy.GoalActive,
		Roadmap:   r,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.goals.Create(ctx, uid, goal, map[string]int{models.FieldActiveGoals: 1}); err != nil {
		log.Error("failed to save goal", "error", err)
		return nil, err
	}

	log.Info("goal saved", "goal_id", goal.GoalID, "band", r.FeasibilityBand)
	return goal, nil
}

func (s *goalService) List(ctx context.Context, uid string) ([]*models.Goal, error) {
	return s.goals.List(ctx, uid)
}

// UpdateStatus only moves goals from active to completed. Asking for the
// status a goal already has returns it unchanged.
func (s *goalService) UpdateStatus(ctx context.Context, uid, goalID, status string) (*models.Goal, error) {
	log := logger.FromContext(ctx)

	if !taxonomy.IsGoalStatus(status) {
		return nil, errs.NewFieldValidationError("status", "status must be active or completed")
	}

	if status == taxonomy.GoalActive {
		goal, err := s.goals.Get(ctx, uid, goalID)
		if err != nil {
			return nil, err
		}
		if goal.Status != taxonomy.GoalActive {
			return nil, errs.NewFieldValidationError("status", "a completed goal cannot be reopened")
		}
		return goal, nil
	}

	goal, err := s.goals.Transition(ctx, uid, goalID, taxonomy.GoalActive, taxonomy.GoalCompleted, s.clockNow().UTC(), map[string]int{
		models.FieldActiveGoals:   -1,
		models.FieldGoalsAchieved: 1,
	})
	if err != nil {
		return nil, err
	}

	log.Info("goal status updated", "goal_id", goalID, "status", goal.Status)
	return goal, nil
}
