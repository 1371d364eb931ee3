package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
	"github.com/GregMSThompson/goalaura-backend/pkg/helpers"
)

type fakeNarrator struct {
	insight dto.ComparisonInsight
	err     error
	calls   int
	last    dto.ComparisonRequest
}

func (f *fakeNarrator) CompareUsers(_ context.Context, req dto.ComparisonRequest) (dto.ComparisonInsight, error) {
	f.calls++
	f.last = req
	return f.insight, f.err
}

func comparisonFixture() (*stubUserStore, *fakeLedgerStore) {
	users := newStubUserStore(
		circleUser("me", "Me", "Software Engineer", "40000", true),
		circleUser("a", "A", "software_engineer", "41000.6", true),
	)
	ledger := newFakeLedgerStore()
	ledger.add("me",
		models.Transaction{TransactionID: "1", Amount: 40000, Type: taxonomy.TypeDeposit, Category: taxonomy.CategorySalary, Description: "salary", CreatedAt: ledgerNow},
		models.Transaction{TransactionID: "2", Amount: 1500.5, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryFood, Description: "dinner, drinks", CreatedAt: ledgerNow.AddDate(0, 0, 1)},
	)
	ledger.add("a",
		models.Transaction{TransactionID: "3", Amount: 500, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryTravel, Description: "cab", CreatedAt: ledgerNow},
	)
	return users, ledger
}

func TestCompareBuildsRequest(t *testing.T) {
	users, ledger := comparisonFixture()
	narrator := &fakeNarrator{insight: dto.ComparisonInsight{Summary: "ok"}}
	svc := NewComparisonService(users, fakeTokens{}, ledger, narrator)

	insight, err := svc.Compare(helpers.TestCtx(), "me", "me|a")
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if insight.Summary != "ok" || narrator.calls != 1 {
		t.Fatalf("insight = %+v, calls = %d", insight, narrator.calls)
	}

	req := narrator.last
	if req.CurrentUserInfo != "SoftwareEngineer_40000_38500" {
		t.Fatalf("current user info = %q", req.CurrentUserInfo)
	}
	if req.OtherUserInfo != "softwareengineer_41001_-500" {
		t.Fatalf("other user info = %q", req.OtherUserInfo)
	}
	wantCSV := "category,amount,type,description\n" +
		"Food & Dining,1500.5,withdrawal,\"dinner, drinks\"\n" +
		"Salary,40000,deposit,salary\n"
	if req.CurrentUserTransactions != wantCSV {
		t.Fatalf("csv = %q, want %q", req.CurrentUserTransactions, wantCSV)
	}
	if !strings.HasPrefix(req.OtherUserTransactions, "category,amount,type,description\nTravel,500,") {
		t.Fatalf("peer csv = %q", req.OtherUserTransactions)
	}
}

func TestCompareEmptyHistoryStillHasHeader(t *testing.T) {
	users, _ := comparisonFixture()
	narrator := &fakeNarrator{}
	svc := NewComparisonService(users, fakeTokens{}, newFakeLedgerStore(), narrator)

	if _, err := svc.Compare(helpers.TestCtx(), "me", "me|a"); err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if narrator.last.OtherUserTransactions != "category,amount,type,description\n" {
		t.Fatalf("csv = %q", narrator.last.OtherUserTransactions)
	}
	if !strings.HasSuffix(narrator.last.CurrentUserInfo, "_0") {
		t.Fatalf("empty ledger savings should be 0: %q", narrator.last.CurrentUserInfo)
	}
}

func TestCompareUpstreamFailure(t *testing.T) {
	users, ledger := comparisonFixture()
	narrator := &fakeNarrator{err: errs.NewExternalServiceError("vertex", "generate content failed", true, errors.New("503"))}
	svc := NewComparisonService(users, fakeTokens{}, ledger, narrator)

	insight, err := svc.Compare(helpers.TestCtx(), "me", "me|a")
	var unavailable *errs.ComparisonUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ComparisonUnavailableError, got %v", err)
	}
	if narrator.calls != 1 {
		t.Fatalf("narrator called %d times, want exactly 1", narrator.calls)
	}
	if insight.Summary != "" || insight.Recommendations != nil {
		t.Fatalf("partial insight returned: %+v", insight)
	}
}

func TestCompareBadShapeIsUpstreamFormat(t *testing.T) {
	users, ledger := comparisonFixture()
	narrator := &fakeNarrator{err: errs.NewUpstreamFormatError("vertex", "response is missing peer_benchmark")}
	svc := NewComparisonService(users, fakeTokens{}, ledger, narrator)

	_, err := svc.Compare(helpers.TestCtx(), "me", "me|a")
	var upstream *errs.UpstreamFormatError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamFormatError, got %v", err)
	}
}

func TestCompareRejectsForeignToken(t *testing.T) {
	users, ledger := comparisonFixture()
	narrator := &fakeNarrator{}
	svc := NewComparisonService(users, fakeTokens{}, ledger, narrator)

	_, err := svc.Compare(helpers.TestCtx(), "me", "a|me")
	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if narrator.calls != 0 {
		t.Fatalf("narrator should not be called")
	}
}
