package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/pkg/helpers"
)

// stubUserStore applies dotted field paths onto an in-memory profile map.
type stubUserStore struct {
	users           map[string]*models.User
	createUserCalls int
	lastFields      map[string]any
	increments      []map[string]int
	err             error
}

func newStubUserStore(users ...*models.User) *stubUserStore {
	s := &stubUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		s.users[u.UID] = u
	}
	return s
}

func (s *stubUserStore) CreateUser(_ context.Context, user *models.User) error {
	s.createUserCalls++
	if s.err != nil {
		return s.err
	}
	if _, ok := s.users[user.UID]; ok {
		return errs.NewAlreadyExistsError("user already exists")
	}
	s.users[user.UID] = user
	return nil
}

func (s *stubUserStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	u, ok := s.users[uid]
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserStore) UpdateUser(_ context.Context, uid string, fields map[string]any) error {
	u, ok := s.users[uid]
	if !ok {
		return errs.NewNotFoundError("user not found")
	}
	s.lastFields = fields
	for path, v := range fields {
		switch path {
		case "fullName":
			u.FullName = v.(string)
		case "occupation":
			u.Occupation = v.(string)
		case "location":
			u.Location = v.(string)
		case "monthlyIncome":
			u.MonthlyIncome = v.(string)
		case models.FieldParticipateInCircles:
			u.Preferences.ParticipateInCircles = v.(bool)
		case models.FieldTotalSaved:
			u.Stats.TotalSaved = v.(string)
		}
	}
	return nil
}

func (s *stubUserStore) IncrementStats(_ context.Context, uid string, deltas map[string]int) error {
	s.increments = append(s.increments, deltas)
	return nil
}

func (s *stubUserStore) ListCircleCandidates(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range s.users {
		if u.Preferences.ParticipateInCircles {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

type stubBalance struct {
	net float64
	err error
}

func (s stubBalance) NetBalance(context.Context, string) (float64, error) { return s.net, s.err }

func TestUserServiceRegister(t *testing.T) {
	store := newStubUserStore()
	svc := NewUserService(store, stubBalance{})
	now := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	svc.clockNow = func() time.Time { return now }

	user, err := svc.Register(helpers.TestCtx(), "uid-123", "user@example.com", dto.RegisterRequest{FullName: " Jane Doe "})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if store.createUserCalls != 1 {
		t.Fatalf("CreateUser called %d times, want 1", store.createUserCalls)
	}
	if user.FullName != "Jane Doe" || user.Email != "user@example.com" {
		t.Fatalf("unexpected identity fields: %+v", user)
	}
	if !user.Preferences.ParticipateInCircles || user.Preferences.Currency != "INR" {
		t.Fatalf("unexpected preference defaults: %+v", user.Preferences)
	}
	if user.Stats.TotalSaved != "₹0" {
		t.Fatalf("totalSaved = %q", user.Stats.TotalSaved)
	}
	if user.MonthlyIncome != "" || user.Occupation != "" {
		t.Fatalf("financial fields should start empty")
	}
	if !user.CreatedAt.Equal(now) {
		t.Fatalf("createdAt = %v", user.CreatedAt)
	}

	_, err = svc.Register(helpers.TestCtx(), "uid-123", "user@example.com", dto.RegisterRequest{FullName: "Jane"})
	var exists *errs.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}
}

func TestUserServiceRegisterRequiresName(t *testing.T) {
	svc := NewUserService(newStubUserStore(), stubBalance{})
	_, err := svc.Register(helpers.TestCtx(), "uid", "e", dto.RegisterRequest{})
	var validation *errs.ValidationError
	if !errors.As(err, &validation) || validation.Field != "fullName" {
		t.Fatalf("expected fullName ValidationError, got %v", err)
	}
}

func TestUserServiceUpdateProfileIncome(t *testing.T) {
	store := newStubUserStore(&models.User{UID: "u1", FullName: "A"})
	svc := NewUserService(store, stubBalance{})

	user, err := svc.UpdateProfile(helpers.TestCtx(), "u1", dto.UpdateProfileRequest{
		Occupation:    helpers.Ptr(" Engineer "),
		MonthlyIncome: helpers.Ptr("₹1,25,000.50"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if user.MonthlyIncome != "125000.5" || user.Occupation != "Engineer" {
		t.Fatalf("unexpected profile: %+v", user)
	}

	for _, bad := range []string{"lots", "-100"} {
		_, err = svc.UpdateProfile(helpers.TestCtx(), "u1", dto.UpdateProfileRequest{MonthlyIncome: helpers.Ptr(bad)})
		var validation *errs.ValidationError
		if !errors.As(err, &validation) || validation.Field != "monthlyIncome" {
			t.Fatalf("income %q: expected ValidationError, got %v", bad, err)
		}
	}

	_, err = svc.UpdateProfile(helpers.TestCtx(), "u1", dto.UpdateProfileRequest{DateOfBirth: helpers.Ptr("02/03/1990")})
	var validation *errs.ValidationError
	if !errors.As(err, &validation) || validation.Field != "dateOfBirth" {
		t.Fatalf("expected dateOfBirth ValidationError, got %v", err)
	}

	_, err = svc.UpdateProfile(helpers.TestCtx(), "u1", dto.UpdateProfileRequest{})
	if !errors.As(err, &validation) {
		t.Fatalf("empty update should be a ValidationError, got %v", err)
	}
}

func TestUserServiceUpdatePreferencesAndNotifications(t *testing.T) {
	store := newStubUserStore(&models.User{UID: "u1", Preferences: models.Preferences{ParticipateInCircles: true}})
	svc := NewUserService(store, stubBalance{})

	user, err := svc.UpdatePreferences(helpers.TestCtx(), "u1", dto.UpdatePreferencesRequest{
		Currency:             helpers.Ptr("usd"),
		ParticipateInCircles: helpers.Ptr(false),
	})
	if err != nil {
		t.Fatalf("UpdatePreferences error: %v", err)
	}
	if user.Preferences.ParticipateInCircles {
		t.Fatalf("participateInCircles not cleared")
	}
	if store.lastFields["preferences.currency"] != "USD" {
		t.Fatalf("currency field = %v", store.lastFields["preferences.currency"])
	}

	if _, err := svc.UpdateNotifications(helpers.TestCtx(), "u1", dto.UpdateNotificationsRequest{
		WeeklyReports: helpers.Ptr(false),
	}); err != nil {
		t.Fatalf("UpdateNotifications error: %v", err)
	}
	if v, ok := store.lastFields["notifications.weeklyReports"]; !ok || v != false {
		t.Fatalf("notification fields = %v", store.lastFields)
	}
}

func TestUserServiceRefreshSavings(t *testing.T) {
	store := newStubUserStore(&models.User{UID: "u1"})
	svc := NewUserService(store, stubBalance{net: 125000.4})

	user, err := svc.RefreshSavings(helpers.TestCtx(), "u1")
	if err != nil {
		t.Fatalf("RefreshSavings error: %v", err)
	}
	if user.Stats.TotalSaved != "₹1,25,000" {
		t.Fatalf("totalSaved = %q", user.Stats.TotalSaved)
	}

	svc = NewUserService(store, stubBalance{err: errs.NewDatabaseError("query_transactions", "boom", nil)})
	if _, err := svc.RefreshSavings(helpers.TestCtx(), "u1"); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected balance error, got %v", err)
	}
}
