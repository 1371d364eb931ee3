package services

import (
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
	"github.com/GregMSThompson/goalaura-backend/pkg/helpers"
)

func newTestAnalytics(store *fakeLedgerStore) *analyticsService {
	svc := NewAnalyticsService(store)
	svc.clockNow = func() time.Time { return ledgerNow }
	return svc
}

func TestAnalyticsSummarize(t *testing.T) {
	store := newFakeLedgerStore()
	store.add("u1",
		models.Transaction{TransactionID: "a", Amount: 1000, Type: taxonomy.TypeDeposit, Category: taxonomy.CategorySalary},
		models.Transaction{TransactionID: "b", Amount: 250.5, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryFood},
		models.Transaction{TransactionID: "c", Amount: 49.5, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryFood},
	)
	svc := newTestAnalytics(store)

	got, err := svc.Summarize(helpers.TestCtx(), "u1", dto.TransactionFilters{})
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	want := dto.TransactionSummary{TotalDeposits: 1000, TotalWithdrawals: 300, NetBalance: 700}
	if got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}

	got, err = svc.Summarize(helpers.TestCtx(), "u1", dto.TransactionFilters{Type: helpers.Ptr(taxonomy.TypeWithdrawal)})
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if got.TotalDeposits != 0 || got.NetBalance != -300 {
		t.Fatalf("filtered summary = %+v", got)
	}

	empty, err := svc.Summarize(helpers.TestCtx(), "nobody", dto.TransactionFilters{})
	if err != nil || empty != (dto.TransactionSummary{}) {
		t.Fatalf("empty ledger summary = %+v, %v", empty, err)
	}

	food, err := svc.Summarize(helpers.TestCtx(), "u1", dto.TransactionFilters{Category: helpers.Ptr("FOOD & DINING")})
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if food.TotalWithdrawals != 300 || food.NetBalance != -300 {
		t.Fatalf("category summary = %+v", food)
	}
}

func TestAnalyticsCategoryBreakdownOrdering(t *testing.T) {
	store := newFakeLedgerStore()
	store.add("u1",
		models.Transaction{TransactionID: "a", Amount: 300, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryFood},
		models.Transaction{TransactionID: "b", Amount: 200, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryFood},
		models.Transaction{TransactionID: "c", Amount: 500, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryBills},
		models.Transaction{TransactionID: "d", Amount: 900, Type: taxonomy.TypeDeposit, Category: taxonomy.CategorySalary},
	)
	svc := newTestAnalytics(store)

	got, err := svc.CategoryBreakdown(helpers.TestCtx(), "u1", nil, nil)
	if err != nil {
		t.Fatalf("CategoryBreakdown error: %v", err)
	}
	want := []dto.CategoryTotal{
		{Category: taxonomy.CategorySalary, Total: 900, Count: 1},
		{Category: taxonomy.CategoryBills, Total: 500, Count: 1},
		{Category: taxonomy.CategoryFood, Total: 500, Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("breakdown = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("breakdown[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAnalyticsStatsPeriod(t *testing.T) {
	store := newFakeLedgerStore()
	store.add("u1",
		models.Transaction{TransactionID: "new", Amount: 100, Type: taxonomy.TypeDeposit, Category: taxonomy.CategorySalary, CreatedAt: ledgerNow.AddDate(0, 0, -2)},
		models.Transaction{TransactionID: "old", Amount: 999, Type: taxonomy.TypeDeposit, Category: taxonomy.CategorySalary, CreatedAt: ledgerNow.AddDate(0, 0, -20)},
	)
	svc := newTestAnalytics(store)

	stats, err := svc.Stats(helpers.TestCtx(), "u1", "week")
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.TransactionCount != 1 || stats.Summary.TotalDeposits != 100 {
		t.Fatalf("week stats = %+v", stats)
	}
	if !stats.From.Equal(ledgerNow.AddDate(0, 0, -7)) {
		t.Fatalf("from = %v", stats.From)
	}

	stats, err = svc.Stats(helpers.TestCtx(), "u1", "month")
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.TransactionCount != 2 || stats.Summary.NetBalance != 1099 {
		t.Fatalf("month stats = %+v", stats)
	}

	_, err = svc.Stats(helpers.TestCtx(), "u1", "decade")
	var validation *errs.ValidationError
	if !errors.As(err, &validation) || validation.Field != "period" {
		t.Fatalf("expected period ValidationError, got %v", err)
	}
}

func TestAnalyticsStreamError(t *testing.T) {
	store := newFakeLedgerStore()
	store.queryErr = errs.NewDatabaseError("query_transactions", "boom", nil)
	svc := newTestAnalytics(store)

	_, err := svc.NetBalance(helpers.TestCtx(), "u1")
	var dbErr *errs.DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
}
