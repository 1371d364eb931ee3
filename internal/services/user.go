package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/money"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateUser(ctx context.Context, uid string, fields map[string]any) error
}

type userBalance interface {
	NetBalance(ctx context.Context, uid string) (float64, error)
}

type userService struct {
	Store    userUSStore
	balance  userBalance
	clockNow func() time.Time
}

func NewUserService(store userUSStore, balance userBalance) *userService {
	return &userService{
		Store:    store,
		balance:  balance,
		clockNow: time.Now,
	}
}

// Register creates the profile for a freshly authenticated identity. The
// financial fields stay empty until the profile is completed.
func (s *userService) Register(ctx context.Context, uid, email string, req dto.RegisterRequest) (*models.User, error) {
	// Get logger from context - already has uid, request_id, method, path
	log := logger.FromContext(ctx)

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, errs.NewFieldValidationError("fullName", "full name is required")
	}

	now := s.clockNow().UTC()
	user := &models.User{
		UID:      uid,
		Email:    email,
		FullName: fullName,
		Preferences: models.Preferences{
			Currency:             defaultCurrency,
			Language:             "en",
			Theme:                "light",
			ParticipateInCircles: true,
		},
		Notifications: models.Notifications{
			GoalMilestones:          true,
			SpendingAlerts:          true,
			SideHustleOpportunities: true,
			SocialCircleUpdates:     true,
			WeeklyReports:           true,
		},
		Stats: models.UserStats{
			TotalSaved:       money.FormatINR(money.FromFloat(0)),
			SideHustleIncome: money.FormatINR(money.FromFloat(0)),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.CreateUser(ctx, user); err != nil {
		log.Error("failed to create user in store", "error", err)
		return nil, err
	}

	log.Info("user registered", "full_name", fullName)
	log.Debug("user registered with full details", "user", user)
	return user, nil
}

func (s *userService) Get(ctx context.Context, uid string) (*models.User, error) {
	return s.Store.GetUser(ctx, uid)
}

// UpdateProfile applies the present fields. Monthly income is validated as a
// non-negative decimal and stored in canonical form.
func (s *userService) UpdateProfile(ctx context.Context, uid string, req dto.UpdateProfileRequest) (*models.User, error) {
	fields := map[string]any{}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, errs.NewFieldValidationError("fullName", "full name cannot be empty")
		}
		fields["fullName"] = name
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.DateOfBirth != nil {
		dob := strings.TrimSpace(*req.DateOfBirth)
		if dob != "" {
			if _, err := time.Parse(time.DateOnly, dob); err != nil {
				return nil, errs.NewFieldValidationError("dateOfBirth", "dateOfBirth must be YYYY-MM-DD")
			}
		}
		fields["dateOfBirth"] = dob
	}
	if req.Occupation != nil {
		fields["occupation"] = strings.TrimSpace(*req.Occupation)
	}
	if req.MonthlyIncome != nil {
		raw := strings.TrimSpace(*req.MonthlyIncome)
		if raw == "" {
			fields["monthlyIncome"] = ""
		} else {
			income, err := money.Parse(raw)
			if err != nil {
				return nil, errs.NewFieldValidationError("monthlyIncome", "monthly income must be a non-negative amount")
			}
			fields["monthlyIncome"] = money.Canonical(income)
		}
	}

	return s.apply(ctx, uid, fields, "profile updated")
}

func (s *userService) UpdatePreferences(ctx context.Context, uid string, req dto.UpdatePreferencesRequest) (*models.User, error) {
	fields := map[string]any{}
	if req.Currency != nil {
		fields["preferences.currency"] = normalizeCurrency(*req.Currency)
	}
	if req.Language != nil {
		fields["preferences.language"] = strings.TrimSpace(*req.Language)
	}
	if req.Theme != nil {
		fields["preferences.theme"] = strings.TrimSpace(*req.Theme)
	}
	if req.ShareUsageData != nil {
		fields["preferences.shareUsageData"] = *req.ShareUsageData
	}
	if req.ParticipateInCircles != nil {
		fields[models.FieldParticipateInCircles] = *req.ParticipateInCircles
	}
	return s.apply(ctx, uid, fields, "preferences updated")
}

func (s *userService) UpdateNotifications(ctx context.Context, uid string, req dto.UpdateNotificationsRequest) (*models.User, error) {
	fields := map[string]any{}
	setBool := func(path string, v *bool) {
		if v != nil {
			fields["notifications."+path] = *v
		}
	}
	setBool("goalMilestones", req.GoalMilestones)
	setBool("spendingAlerts", req.SpendingAlerts)
	setBool("sideHustleOpportunities", req.SideHustleOpportunities)
	setBool("socialCircleUpdates", req.SocialCircleUpdates)
	setBool("weeklyReports", req.WeeklyReports)
	setBool("marketingEmails", req.MarketingEmails)
	return s.apply(ctx, uid, fields, "notifications updated")
}

// RefreshSavings rewrites the cached totalSaved from the ledger net balance.
func (s *userService) RefreshSavings(ctx context.Context, uid string) (*models.User, error) {
	net, err := s.balance.NetBalance(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, uid, map[string]any{
		models.FieldTotalSaved: money.FormatINR(money.FromFloat(net)),
	}, "savings refreshed")
}

func (s *userService) apply(ctx context.Context, uid string, fields map[string]any, msg string) (*models.User, error) {
	log := logger.FromContext(ctx)

	if len(fields) == 0 {
		return nil, errs.NewValidationError("no fields to update")
	}
	if err := s.Store.UpdateUser(ctx, uid, fields); err != nil {
		log.Error("failed to update user", "error", err)
		return nil, err
	}

	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	log.Info(msg, "fields", paths)

	return s.Store.GetUser(ctx, uid)
}
