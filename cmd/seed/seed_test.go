package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
	"github.com/GregMSThompson/goalaura-backend/pkg/helpers"
)

type recordingStore struct {
	users     []*models.User
	increment map[string]map[string]int
	err       error
}

func (r *recordingStore) CreateUser(ctx context.Context, user *models.User) error {
	if r.err != nil {
		return r.err
	}
	r.users = append(r.users, user)
	return nil
}

func (r *recordingStore) IncrementStats(ctx context.Context, uid string, deltas map[string]int) error {
	if r.increment == nil {
		r.increment = map[string]map[string]int{}
	}
	r.increment[uid] = deltas
	return nil
}

type recordingLedger struct {
	rows map[string][]dto.CreateTransactionRequest
}

func (r *recordingLedger) Append(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	if r.rows == nil {
		r.rows = map[string][]dto.CreateTransactionRequest{}
	}
	r.rows[uid] = append(r.rows[uid], req)
	return &models.Transaction{}, nil
}

type recordingSavings struct{ refreshed []string }

func (r *recordingSavings) RefreshSavings(ctx context.Context, uid string) (*models.User, error) {
	r.refreshed = append(r.refreshed, uid)
	return &models.User{}, nil
}

func newTestSeeder(st *recordingStore, l *recordingLedger, sv *recordingSavings) *seeder {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &seeder{
		users:    st,
		stats:    st,
		ledger:   l,
		savings:  sv,
		rng:      rand.New(rand.NewPCG(7, 7)),
		clockNow: func() time.Time { return now },
	}
}

func TestSeederRun(t *testing.T) {
	st, l, sv := &recordingStore{}, &recordingLedger{}, &recordingSavings{}
	s := newTestSeeder(st, l, sv)

	result, err := s.Run(helpers.TestCtx(), seedOptions{Users: 5, MinTx: 2, MaxTx: 4})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.Users != 5 || len(st.users) != 5 || len(sv.refreshed) != 5 {
		t.Fatalf("result = %+v, users = %d, refreshed = %d", result, len(st.users), len(sv.refreshed))
	}

	total := 0
	for _, u := range st.users {
		rows := l.rows[u.UID]
		if len(rows) < 2 || len(rows) > 4 {
			t.Fatalf("%s has %d rows", u.UID, len(rows))
		}
		total += len(rows)
		if u.Preferences.Currency != "INR" || u.MonthlyIncome == "" || u.Occupation == "" {
			t.Fatalf("incomplete profile %+v", u)
		}
		for _, row := range rows {
			if *row.Amount < 100 || !taxonomy.IsCategory(row.Category) {
				t.Fatalf("bad row %+v", row)
			}
			if row.Type == taxonomy.TypeDeposit && row.Category != taxonomy.CategorySalary &&
				row.Category != taxonomy.CategoryFreelance && row.Category != taxonomy.CategoryInvestment {
				t.Fatalf("deposit with spending category %q", row.Category)
			}
		}
		if _, ok := st.increment[u.UID][models.FieldActiveGoals]; !ok {
			t.Fatalf("stats not incremented for %s", u.UID)
		}
	}
	if total != result.Transactions {
		t.Fatalf("transactions = %d, counted %d", result.Transactions, total)
	}
}

func TestSeederRejectsBadOptions(t *testing.T) {
	s := newTestSeeder(&recordingStore{}, &recordingLedger{}, &recordingSavings{})

	for _, opts := range []seedOptions{{Users: 0, MaxTx: 1}, {Users: 1, MinTx: 3, MaxTx: 2}} {
		_, err := s.Run(helpers.TestCtx(), opts)
		var validation *errs.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("opts %+v: expected ValidationError, got %v", opts, err)
		}
	}
}

func TestSeederStopsOnStoreError(t *testing.T) {
	boom := errors.New("firestore unavailable")
	s := newTestSeeder(&recordingStore{err: boom}, &recordingLedger{}, &recordingSavings{})

	result, err := s.Run(helpers.TestCtx(), seedOptions{Users: 3, MinTx: 1, MaxTx: 1})
	if !errors.Is(err, boom) || result.Users != 0 {
		t.Fatalf("result = %+v, err = %v", result, err)
	}
}
