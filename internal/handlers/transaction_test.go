package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
)

type stubLedgerService struct {
	appended *dto.CreateTransactionRequest
	listReq  *dto.ListTransactionsRequest
	page     dto.TransactionPage
	tx       *models.Transaction
	gotID    string
	limit    int
	err      error
}

func (s *stubLedgerService) Append(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	s.appended = &req
	return s.tx, s.err
}
func (s *stubLedgerService) List(ctx context.Context, uid string, req dto.ListTransactionsRequest) (dto.TransactionPage, error) {
	s.listReq = &req
	return s.page, s.err
}
func (s *stubLedgerService) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	s.gotID = transactionID
	return s.tx, s.err
}
func (s *stubLedgerService) Update(ctx context.Context, uid, transactionID string, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	s.gotID = transactionID
	return s.tx, s.err
}
func (s *stubLedgerService) Delete(ctx context.Context, uid, transactionID string) error {
	s.gotID = transactionID
	return s.err
}
func (s *stubLedgerService) Recent(ctx context.Context, uid string, limit int) ([]models.Transaction, error) {
	s.limit = limit
	return nil, s.err
}

type stubAnalyticsService struct {
	period   string
	from, to *time.Time
	err      error
}

func (s *stubAnalyticsService) Stats(ctx context.Context, uid, period string) (dto.TransactionStats, error) {
	s.period = period
	return dto.TransactionStats{Period: period}, s.err
}
func (s *stubAnalyticsService) CategoryBreakdown(ctx context.Context, uid string, from, to *time.Time) ([]dto.CategoryTotal, error) {
	s.from, s.to = from, to
	return []dto.CategoryTotal{{Category: "Food", Total: 500, Count: 1}}, s.err
}

func newTestTransactionRoutes(l *stubLedgerService, a *stubAnalyticsService) http.Handler {
	return NewTransactionHandlers(&Deps{
		ResponseHandler: newTestResponseHandler(),
		LedgerSvc:       l,
		AnalyticsSvc:    a,
	}).TransactionRoutes()
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(ctxWithUID(req.Context())))
	return rr
}

func TestCreateTransactionHandler(t *testing.T) {
	l := &stubLedgerService{tx: &models.Transaction{TransactionID: "tx-1", Amount: 500}}
	routes := newTestTransactionRoutes(l, &stubAnalyticsService{})

	rr := serve(routes, http.MethodPost, "/", `{"amount":-500,"type":"withdrawal","category":"Food","description":"Lunch"}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if l.appended == nil || l.appended.Amount == nil || *l.appended.Amount != -500 {
		t.Fatalf("append received %+v", l.appended)
	}
}

func TestCreateTransactionMalformedBody(t *testing.T) {
	l := &stubLedgerService{}
	routes := newTestTransactionRoutes(l, &stubAnalyticsService{})

	rr := serve(routes, http.MethodPost, "/", `{"amount":`)

	if rr.Code != http.StatusBadRequest || l.appended != nil {
		t.Fatalf("status = %d, appended = %+v", rr.Code, l.appended)
	}
}

func TestListTransactionsParsesQuery(t *testing.T) {
	l := &stubLedgerService{page: dto.TransactionPage{Pagination: dto.Pagination{Page: 2, Limit: 5}}}
	routes := newTestTransactionRoutes(l, &stubAnalyticsService{})

	rr := serve(routes, http.MethodGet, "/?type=deposit&category=Salary&startDate=2024-01-01&endDate=2024-01-31&page=2&limit=5", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	req := l.listReq
	if req == nil || req.Page != 2 || req.Limit != 5 {
		t.Fatalf("list request = %+v", req)
	}
	if req.Filters.Type == nil || *req.Filters.Type != "deposit" || req.Filters.Category == nil || *req.Filters.Category != "Salary" {
		t.Fatalf("filters = %+v", req.Filters)
	}
	wantEnd := time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC)
	if req.Filters.StartDate == nil || !req.Filters.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("startDate = %v", req.Filters.StartDate)
	}
	if req.Filters.EndDate == nil || !req.Filters.EndDate.Equal(wantEnd) {
		t.Fatalf("endDate = %v", req.Filters.EndDate)
	}
}

func TestListTransactionsBadQuery(t *testing.T) {
	tests := []struct {
		query string
		field string
	}{
		{"?page=two", "page"},
		{"?limit=x", "limit"},
		{"?startDate=yesterday", "startDate"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			l := &stubLedgerService{}
			rr := serve(newTestTransactionRoutes(l, &stubAnalyticsService{}), http.MethodGet, "/"+tt.query, "")

			if rr.Code != http.StatusBadRequest || l.listReq != nil {
				t.Fatalf("status = %d", rr.Code)
			}
			var body struct{ Field string }
			_ = json.Unmarshal(rr.Body.Bytes(), &body)
			if body.Field != tt.field {
				t.Fatalf("field = %q, want %q", body.Field, tt.field)
			}
		})
	}
}

func TestStatsDefaultsToMonth(t *testing.T) {
	a := &stubAnalyticsService{}
	routes := newTestTransactionRoutes(&stubLedgerService{}, a)

	rr := serve(routes, http.MethodGet, "/stats/summary", "")
	if rr.Code != http.StatusOK || a.period != "month" {
		t.Fatalf("status = %d, period = %q", rr.Code, a.period)
	}

	rr = serve(routes, http.MethodGet, "/stats/summary?period=year", "")
	if rr.Code != http.StatusOK || a.period != "year" {
		t.Fatalf("status = %d, period = %q", rr.Code, a.period)
	}
}

func TestStatsInvalidPeriod(t *testing.T) {
	a := &stubAnalyticsService{err: errs.NewFieldValidationError("period", "period must be week, month or year")}
	rr := serve(newTestTransactionRoutes(&stubLedgerService{}, a), http.MethodGet, "/stats/summary?period=decade", "")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestBreakdownAndRecentRoutes(t *testing.T) {
	l := &stubLedgerService{}
	a := &stubAnalyticsService{}
	routes := newTestTransactionRoutes(l, a)

	rr := serve(routes, http.MethodGet, "/breakdown?startDate=2024-03-01", "")
	if rr.Code != http.StatusOK || a.from == nil || a.to != nil {
		t.Fatalf("breakdown status = %d from=%v to=%v", rr.Code, a.from, a.to)
	}

	rr = serve(routes, http.MethodGet, "/recent?limit=7", "")
	if rr.Code != http.StatusOK || l.limit != 7 {
		t.Fatalf("recent status = %d limit=%d", rr.Code, l.limit)
	}
}

func TestTransactionByIDRoutes(t *testing.T) {
	l := &stubLedgerService{tx: &models.Transaction{TransactionID: "tx-9"}}
	routes := newTestTransactionRoutes(l, &stubAnalyticsService{})

	if rr := serve(routes, http.MethodGet, "/tx-9", ""); rr.Code != http.StatusOK || l.gotID != "tx-9" {
		t.Fatalf("get status = %d id=%q", rr.Code, l.gotID)
	}
	if rr := serve(routes, http.MethodPut, "/tx-8", `{"description":"Dinner"}`); rr.Code != http.StatusOK || l.gotID != "tx-8" {
		t.Fatalf("update status = %d id=%q", rr.Code, l.gotID)
	}
	if rr := serve(routes, http.MethodDelete, "/tx-7", ""); rr.Code != http.StatusOK || l.gotID != "tx-7" {
		t.Fatalf("delete status = %d id=%q", rr.Code, l.gotID)
	}

	l.err = errs.NewNotFoundError("transaction not found")
	if rr := serve(routes, http.MethodGet, "/missing", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rr.Code)
	}
}
