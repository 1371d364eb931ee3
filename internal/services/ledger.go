package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
	"github.com/GregMSThompson/goalaura-backend/pkg/helpers"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

const (
	defaultPageSize    = 10
	maxPageSize        = 100
	defaultRecentLimit = 5
	maxRecentLimit     = 50
	defaultCurrency    = "INR"
)

type ledgerStore interface {
	Create(ctx context.Context, uid string, tx *models.Transaction) error
	Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error)
	Update(ctx context.Context, uid string, tx *models.Transaction) error
	Delete(ctx context.Context, uid, transactionID string) error
	Query(ctx context.Context, uid string, q dto.TransactionQuery) (<-chan *models.Transaction, <-chan error)
	Count(ctx context.Context, uid string, q dto.TransactionQuery) (int, error)
}

type ledgerService struct {
	txs      ledgerStore
	clockNow func() time.Time
	newID    func() string
}

func NewLedgerService(txs ledgerStore) *ledgerService {
	return &ledgerService{
		txs:      txs,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

// Append records a manual transaction. The amount is stored as its absolute
// value; the direction lives in Type.
func (s *ledgerService) Append(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	log := logger.FromContext(ctx)

	if req.Amount == nil {
		return nil, errs.NewFieldValidationError("amount", "amount is required")
	}
	amount := math.Abs(*req.Amount)
	if amount == 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, errs.NewFieldValidationError("amount", "amount must be a non-zero number")
	}
	if !taxonomy.IsTransactionType(req.Type) {
		return nil, errs.NewFieldValidationError("type", "type must be deposit or withdrawal")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, errs.NewFieldValidationError("description", "description is required")
	}
	status := req.Status
	if status == "" {
		status = taxonomy.StatusCompleted
	}
	if !taxonomy.IsTransactionStatus(status) {
		return nil, errs.NewFieldValidationError("status", "status must be completed, pending or failed")
	}

	now := s.clockNow().UTC()
	occurred := now
	if req.TransactionDate != nil && !req.TransactionDate.IsZero() {
		occurred = req.TransactionDate.UTC()
	}

	tx := &models.Transaction{
		TransactionID:   s.newID(),
		Amount:          amount,
		Type:            req.Type,
		Category:        taxonomy.NormalizeCategory(req.Category),
		Description:     description,
		Currency:        normalizeCurrency(req.Currency),
		TransactionDate: occurred,
		Status:          status,
		Source:          taxonomy.SourceManual,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.txs.Create(ctx, uid, tx); err != nil {
		log.Error("failed to create transaction", "error", err)
		return nil, err
	}

	log.Info("transaction created", "transaction_id", tx.TransactionID, "type", tx.Type, "category", tx.Category)
	return tx, nil
}

// List returns one page of matching transactions together with the summary
// of every transaction that matches the filters.
func (s *ledgerService) List(ctx context.Context, uid string, req dto.ListTransactionsRequest) (dto.TransactionPage, error) {
	page := dto.TransactionPage{Transactions: []models.Transaction{}}

	pageNum := req.Page
	if pageNum < 1 {
		pageNum = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	filters, err := normalizeFilters(req.Filters)
	if err != nil {
		return page, err
	}

	q := filters.Query()
	total, err := s.txs.Count(ctx, uid, q)
	if err != nil {
		return page, err
	}

	summary, err := summarizeStream(s.txs.Query(ctx, uid, q))
	if err != nil {
		return page, err
	}

	pq := q
	pq.Offset = (pageNum - 1) * limit
	pq.Limit = limit
	txCh, errCh := s.txs.Query(ctx, uid, pq)
	if err := streamTransactions(txCh, errCh, func(tx *models.Transaction) error {
		page.Transactions = append(page.Transactions, *tx)
		return nil
	}); err != nil {
		return page, err
	}

	page.Summary = summary
	page.Pagination = dto.Pagination{
		Page:  pageNum,
		Limit: limit,
		Total: total,
		Pages: (total + limit - 1) / limit,
	}
	return page, nil
}

func (s *ledgerService) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	return s.txs.Get(ctx, uid, transactionID)
}

func (s *ledgerService) Update(ctx context.Context, uid, transactionID string, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	log := logger.FromContext(ctx)

	tx, err := s.txs.Get(ctx, uid, transactionID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		amount := math.Abs(*req.Amount)
		if amount == 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return nil, errs.NewFieldValidationError("amount", "amount must be a non-zero number")
		}
		tx.Amount = amount
	}
	if req.Type != nil {
		if !taxonomy.IsTransactionType(*req.Type) {
			return nil, errs.NewFieldValidationError("type", "type must be deposit or withdrawal")
		}
		tx.Type = *req.Type
	}
	if req.Category != nil {
		tx.Category = taxonomy.NormalizeCategory(*req.Category)
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, errs.NewFieldValidationError("description", "description cannot be empty")
		}
		tx.Description = description
	}
	if req.Currency != nil {
		tx.Currency = normalizeCurrency(*req.Currency)
	}
	if req.TransactionDate != nil && !req.TransactionDate.IsZero() {
		tx.TransactionDate = req.TransactionDate.UTC()
	}
	if req.Status != nil {
		if !taxonomy.IsTransactionStatus(*req.Status) {
			return nil, errs.NewFieldValidationError("status", "status must be completed, pending or failed")
		}
		tx.Status = *req.Status
	}
	tx.UpdatedAt = s.clockNow().UTC()

	if err := s.txs.Update(ctx, uid, tx); err != nil {
		log.Error("failed to update transaction", "transaction_id", transactionID, "error", err)
		return nil, err
	}
	log.Info("transaction updated", "transaction_id", transactionID)
	return tx, nil
}

func (s *ledgerService) Delete(ctx context.Context, uid, transactionID string) error {
	if err := s.txs.Delete(ctx, uid, transactionID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("transaction deleted", "transaction_id", transactionID)
	return nil
}

func (s *ledgerService) Recent(ctx context.Context, uid string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	out := make([]models.Transaction, 0, limit)
	txCh, errCh := s.txs.Query(ctx, uid, dto.TransactionQuery{Limit: limit})
	if err := streamTransactions(txCh, errCh, func(tx *models.Transaction) error {
		out = append(out, *tx)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeFilters validates f and rewrites the category to its stored
// spelling, since the store matches categories exactly.
func normalizeFilters(f dto.TransactionFilters) (dto.TransactionFilters, error) {
	if f.Type != nil && !taxonomy.IsTransactionType(*f.Type) {
		return f, errs.NewFieldValidationError("type", "type must be deposit or withdrawal")
	}
	if f.Category != nil {
		if !taxonomy.IsCategory(*f.Category) {
			return f, errs.NewFieldValidationError("category", "unknown category")
		}
		f.Category = helpers.Ptr(taxonomy.NormalizeCategory(*f.Category))
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, errs.NewFieldValidationError("endDate", "endDate is before startDate")
	}
	return f, nil
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return defaultCurrency
	}
	return c
}
