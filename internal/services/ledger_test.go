package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
	"github.com/GregMSThompson/goalaura-backend/pkg/helpers"
)

// fakeLedgerStore keeps transactions per uid in memory and applies the same
// filters and ordering as the Firestore store.
type fakeLedgerStore struct {
	byUser   map[string]map[string]*models.Transaction
	queryErr error
	queries  []dto.TransactionQuery
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{byUser: map[string]map[string]*models.Transaction{}}
}

func (f *fakeLedgerStore) add(uid string, txs ...models.Transaction) {
	if f.byUser[uid] == nil {
		f.byUser[uid] = map[string]*models.Transaction{}
	}
	for i := range txs {
		tx := txs[i]
		f.byUser[uid][tx.TransactionID] = &tx
	}
}

func (f *fakeLedgerStore) Create(ctx context.Context, uid string, tx *models.Transaction) error {
	if _, ok := f.byUser[uid][tx.TransactionID]; ok {
		return errs.NewAlreadyExistsError("transaction already exists")
	}
	f.add(uid, *tx)
	return nil
}

func (f *fakeLedgerStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	tx, ok := f.byUser[uid][transactionID]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	cp := *tx
	return &cp, nil
}

func (f *fakeLedgerStore) Update(ctx context.Context, uid string, tx *models.Transaction) error {
	if _, ok := f.byUser[uid][tx.TransactionID]; !ok {
		return errs.NewNotFoundError("transaction not found")
	}
	f.add(uid, *tx)
	return nil
}

func (f *fakeLedgerStore) Delete(ctx context.Context, uid, transactionID string) error {
	if _, ok := f.byUser[uid][transactionID]; !ok {
		return errs.NewNotFoundError("transaction not found")
	}
	delete(f.byUser[uid], transactionID)
	return nil
}

func (f *fakeLedgerStore) match(uid string, q dto.TransactionQuery) []*models.Transaction {
	var out []*models.Transaction
	for _, tx := range f.byUser[uid] {
		if q.Type != nil && tx.Type != *q.Type {
			continue
		}
		if q.Category != nil && tx.Category != *q.Category {
			continue
		}
		if q.BankID != nil && tx.BankID != *q.BankID {
			continue
		}
		if q.From != nil && tx.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && tx.CreatedAt.After(*q.To) {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].TransactionID < out[j].TransactionID
	})
	return out
}

func (f *fakeLedgerStore) Query(ctx context.Context, uid string, q dto.TransactionQuery) (<-chan *models.Transaction, <-chan error) {
	f.queries = append(f.queries, q)
	rows := f.match(uid, q)
	if q.Offset > 0 {
		if q.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[q.Offset:]
		}
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	txCh := make(chan *models.Transaction)
	errCh := make(chan error, 1)
	queryErr := f.queryErr
	go func() {
		defer close(txCh)
		defer close(errCh)
		for _, tx := range rows {
			txCh <- tx
		}
		if queryErr != nil {
			errCh <- queryErr
		}
	}()
	return txCh, errCh
}

func (f *fakeLedgerStore) Count(ctx context.Context, uid string, q dto.TransactionQuery) (int, error) {
	f.queries = append(f.queries, q)
	return len(f.match(uid, q)), nil
}

var ledgerNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestLedger(store *fakeLedgerStore) *ledgerService {
	svc := NewLedgerService(store)
	svc.clockNow = func() time.Time { return ledgerNow }
	n := 0
	svc.newID = func() string {
		n++
		return "tx-" + string(rune('a'+n-1))
	}
	return svc
}

func TestLedgerAppendStoresAbsoluteAmount(t *testing.T) {
	store := newFakeLedgerStore()
	svc := newTestLedger(store)

	tx, err := svc.Append(helpers.TestCtx(), "u1", dto.CreateTransactionRequest{
		Amount:      helpers.Ptr(-500.0),
		Type:        taxonomy.TypeWithdrawal,
		Description: "  groceries ",
		Currency:    "inr",
	})
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if tx.Amount != 500 {
		t.Fatalf("amount = %v, want 500", tx.Amount)
	}
	if tx.Category != taxonomy.CategoryOther {
		t.Fatalf("category = %q, want Other", tx.Category)
	}
	if tx.Currency != "INR" || tx.Status != taxonomy.StatusCompleted || tx.Source != taxonomy.SourceManual {
		t.Fatalf("unexpected defaults: %+v", tx)
	}
	if tx.Description != "groceries" {
		t.Fatalf("description not trimmed: %q", tx.Description)
	}
	if !tx.TransactionDate.Equal(ledgerNow) {
		t.Fatalf("transaction date should default to now, got %v", tx.TransactionDate)
	}
	if _, err := store.Get(context.Background(), "u1", tx.TransactionID); err != nil {
		t.Fatalf("transaction not stored: %v", err)
	}
}

func TestLedgerAppendValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.CreateTransactionRequest
		field string
	}{
		{"missing amount", dto.CreateTransactionRequest{Type: "deposit", Description: "x"}, "amount"},
		{"zero amount", dto.CreateTransactionRequest{Amount: helpers.Ptr(0.0), Type: "deposit", Description: "x"}, "amount"},
		{"bad type", dto.CreateTransactionRequest{Amount: helpers.Ptr(1.0), Type: "transfer", Description: "x"}, "type"},
		{"blank description", dto.CreateTransactionRequest{Amount: helpers.Ptr(1.0), Type: "deposit", Description: "  "}, "description"},
		{"bad status", dto.CreateTransactionRequest{Amount: helpers.Ptr(1.0), Type: "deposit", Description: "x", Status: "done"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestLedger(newFakeLedgerStore())
			_, err := svc.Append(helpers.TestCtx(), "u1", tt.req)
			var validation *errs.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validation.Field != tt.field {
				t.Fatalf("field = %q, want %q", validation.Field, tt.field)
			}
		})
	}
}

func TestLedgerListPaginatesAndSummarizes(t *testing.T) {
	store := newFakeLedgerStore()
	for i := 0; i < 12; i++ {
		typ := taxonomy.TypeDeposit
		if i%3 == 0 {
			typ = taxonomy.TypeWithdrawal
		}
		store.add("u1", models.Transaction{
			TransactionID: "t" + string(rune('a'+i)),
			Amount:        100,
			Type:          typ,
			Category:      taxonomy.CategoryOther,
			CreatedAt:     ledgerNow.Add(time.Duration(i) * time.Hour),
		})
	}
	store.add("u2", models.Transaction{TransactionID: "other", Amount: 999, Type: taxonomy.TypeDeposit, CreatedAt: ledgerNow})
	svc := newTestLedger(store)

	page, err := svc.List(helpers.TestCtx(), "u1", dto.ListTransactionsRequest{Page: 2, Limit: 5})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(page.Transactions) != 5 {
		t.Fatalf("page size = %d, want 5", len(page.Transactions))
	}
	// newest first: page 2 starts at the 6th newest, created at hour 6
	if page.Transactions[0].TransactionID != "tg" {
		t.Fatalf("first row on page 2 = %q, want tg", page.Transactions[0].TransactionID)
	}
	if page.Pagination != (dto.Pagination{Page: 2, Limit: 5, Total: 12, Pages: 3}) {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
	// 4 withdrawals (i = 0,3,6,9), 8 deposits
	want := dto.TransactionSummary{TotalDeposits: 800, TotalWithdrawals: 400, NetBalance: 400}
	if page.Summary != want {
		t.Fatalf("summary = %+v, want %+v", page.Summary, want)
	}
}

func TestLedgerListDefaultsAndFilters(t *testing.T) {
	store := newFakeLedgerStore()
	store.add("u1",
		models.Transaction{TransactionID: "a", Amount: 50, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryFood, CreatedAt: ledgerNow},
		models.Transaction{TransactionID: "b", Amount: 70, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryTravel, CreatedAt: ledgerNow},
	)
	svc := newTestLedger(store)

	page, err := svc.List(helpers.TestCtx(), "u1", dto.ListTransactionsRequest{
		Filters: dto.TransactionFilters{Category: helpers.Ptr(taxonomy.CategoryFood)},
		Limit:   1000,
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.Limit != maxPageSize {
		t.Fatalf("pagination defaults not applied: %+v", page.Pagination)
	}
	if len(page.Transactions) != 1 || page.Transactions[0].TransactionID != "a" {
		t.Fatalf("filter not applied: %+v", page.Transactions)
	}
	if page.Summary.NetBalance != -50 {
		t.Fatalf("net balance = %v, want -50", page.Summary.NetBalance)
	}

	empty, err := svc.List(helpers.TestCtx(), "nobody", dto.ListTransactionsRequest{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if empty.Transactions == nil || len(empty.Transactions) != 0 || empty.Summary != (dto.TransactionSummary{}) {
		t.Fatalf("empty ledger should give empty page, got %+v", empty)
	}

	_, err = svc.List(helpers.TestCtx(), "u1", dto.ListTransactionsRequest{
		Filters: dto.TransactionFilters{Category: helpers.Ptr("Crypto")},
	})
	var validation *errs.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for unknown category, got %v", err)
	}
}

func TestLedgerUpdate(t *testing.T) {
	store := newFakeLedgerStore()
	store.add("u1", models.Transaction{TransactionID: "a", Amount: 50, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryFood, Description: "lunch", Status: taxonomy.StatusCompleted})
	svc := newTestLedger(store)

	tx, err := svc.Update(helpers.TestCtx(), "u1", "a", dto.UpdateTransactionRequest{
		Amount:   helpers.Ptr(-75.0),
		Category: helpers.Ptr("mystery"),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if tx.Amount != 75 || tx.Category != taxonomy.CategoryOther || tx.Description != "lunch" {
		t.Fatalf("unexpected update result: %+v", tx)
	}
	if !tx.UpdatedAt.Equal(ledgerNow) {
		t.Fatalf("updatedAt not set")
	}

	_, err = svc.Update(helpers.TestCtx(), "u1", "a", dto.UpdateTransactionRequest{Amount: helpers.Ptr(0.0)})
	var validation *errs.ValidationError
	if !errors.As(err, &validation) || validation.Field != "amount" {
		t.Fatalf("expected amount ValidationError, got %v", err)
	}

	_, err = svc.Update(helpers.TestCtx(), "u2", "a", dto.UpdateTransactionRequest{Description: helpers.Ptr("x")})
	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("update by another user should be NotFound, got %v", err)
	}
}

func TestLedgerDeleteOwnership(t *testing.T) {
	store := newFakeLedgerStore()
	store.add("u1", models.Transaction{TransactionID: "a", Amount: 50, Type: taxonomy.TypeDeposit})
	svc := newTestLedger(store)

	var notFound *errs.NotFoundError
	if err := svc.Delete(helpers.TestCtx(), "u2", "a"); !errors.As(err, &notFound) {
		t.Fatalf("delete by another user should be NotFound, got %v", err)
	}
	if err := svc.Delete(helpers.TestCtx(), "u1", "a"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := svc.Get(helpers.TestCtx(), "u1", "a"); !errors.As(err, &notFound) {
		t.Fatalf("deleted transaction still readable: %v", err)
	}
}

func TestLedgerRecentLimits(t *testing.T) {
	store := newFakeLedgerStore()
	svc := newTestLedger(store)

	if _, err := svc.Recent(helpers.TestCtx(), "u1", 0); err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if _, err := svc.Recent(helpers.TestCtx(), "u1", 500); err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if got := store.queries[0].Limit; got != defaultRecentLimit {
		t.Fatalf("default limit = %d", got)
	}
	if got := store.queries[1].Limit; got != maxRecentLimit {
		t.Fatalf("capped limit = %d", got)
	}
}

func TestLedgerListCanonicalizesCategoryFilter(t *testing.T) {
	store := newFakeLedgerStore()
	store.add("u1",
		models.Transaction{TransactionID: "a", Amount: 50, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryFood, CreatedAt: ledgerNow},
		models.Transaction{TransactionID: "b", Amount: 70, Type: taxonomy.TypeWithdrawal, Category: taxonomy.CategoryTravel, CreatedAt: ledgerNow},
	)
	svc := newTestLedger(store)

	page, err := svc.List(helpers.TestCtx(), "u1", dto.ListTransactionsRequest{
		Filters: dto.TransactionFilters{Category: helpers.Ptr(" food & dining ")},
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(store.queries) != 3 {
		t.Fatalf("store saw %d queries, want 3", len(store.queries))
	}
	for i, q := range store.queries {
		if q.Category == nil || *q.Category != taxonomy.CategoryFood {
			t.Fatalf("query %d category = %v, want %q", i, q.Category, taxonomy.CategoryFood)
		}
	}
	if page.Pagination.Total != 1 || len(page.Transactions) != 1 || page.Summary.TotalWithdrawals != 50 {
		t.Fatalf("page = %+v", page)
	}
}
