package services

import (
	"context"
	"sort"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
)

type transactionAnalyticsStore interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery) (<-chan *models.Transaction, <-chan error)
}

type analyticsService struct {
	txs      transactionAnalyticsStore
	clockNow func() time.Time
}

func NewAnalyticsService(txs transactionAnalyticsStore) *analyticsService {
	return &analyticsService{
		txs:      txs,
		clockNow: time.Now,
	}
}

// Summarize totals deposits and withdrawals over the filtered transactions.
func (s *analyticsService) Summarize(ctx context.Context, uid string, filters dto.TransactionFilters) (dto.TransactionSummary, error) {
	filters, err := normalizeFilters(filters)
	if err != nil {
		return dto.TransactionSummary{}, err
	}
	return summarizeStream(s.txs.Query(ctx, uid, filters.Query()))
}

// NetBalance is deposits minus withdrawals over the whole ledger.
func (s *analyticsService) NetBalance(ctx context.Context, uid string) (float64, error) {
	summary, err := summarizeStream(s.txs.Query(ctx, uid, dto.TransactionQuery{}))
	if err != nil {
		return 0, err
	}
	return summary.NetBalance, nil
}

func (s *analyticsService) CategoryBreakdown(ctx context.Context, uid string, from, to *time.Time) ([]dto.CategoryTotal, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, errs.NewFieldValidationError("endDate", "endDate is before startDate")
	}
	txCh, errCh := s.txs.Query(ctx, uid, dto.TransactionQuery{From: from, To: to})

	totals := map[string]*dto.CategoryTotal{}
	if err := streamTransactions(txCh, errCh, func(tx *models.Transaction) error {
		addToBreakdown(totals, tx)
		return nil
	}); err != nil {
		return nil, err
	}
	return mapBreakdownItems(totals), nil
}

// Stats summarizes the transactions created within the trailing period.
func (s *analyticsService) Stats(ctx context.Context, uid, period string) (dto.TransactionStats, error) {
	now := s.clockNow().UTC()
	var from time.Time
	switch period {
	case "week":
		from = now.AddDate(0, 0, -7)
	case "month":
		from = now.AddDate(0, -1, 0)
	case "year":
		from = now.AddDate(-1, 0, 0)
	default:
		return dto.TransactionStats{}, errs.NewFieldValidationError("period", "period must be week, month or year")
	}

	result := dto.TransactionStats{Period: period, From: from}
	txCh, errCh := s.txs.Query(ctx, uid, dto.TransactionQuery{From: &from})

	totals := map[string]*dto.CategoryTotal{}
	if err := streamTransactions(txCh, errCh, func(tx *models.Transaction) error {
		addToSummary(&result.Summary, tx)
		addToBreakdown(totals, tx)
		result.TransactionCount++
		return nil
	}); err != nil {
		return result, err
	}
	result.Summary.NetBalance = result.Summary.TotalDeposits - result.Summary.TotalWithdrawals
	result.CategoryBreakdown = mapBreakdownItems(totals)
	return result, nil
}

func summarizeStream(txCh <-chan *models.Transaction, errCh <-chan error) (dto.TransactionSummary, error) {
	var summary dto.TransactionSummary
	if err := streamTransactions(txCh, errCh, func(tx *models.Transaction) error {
		addToSummary(&summary, tx)
		return nil
	}); err != nil {
		return dto.TransactionSummary{}, err
	}
	summary.NetBalance = summary.TotalDeposits - summary.TotalWithdrawals
	return summary, nil
}

func addToSummary(summary *dto.TransactionSummary, tx *models.Transaction) {
	switch tx.Type {
	case taxonomy.TypeDeposit:
		summary.TotalDeposits += tx.Amount
	case taxonomy.TypeWithdrawal:
		summary.TotalWithdrawals += tx.Amount
	}
}

func addToBreakdown(items map[string]*dto.CategoryTotal, tx *models.Transaction) {
	key := taxonomy.NormalizeCategory(tx.Category)
	item, ok := items[key]
	if !ok {
		item = &dto.CategoryTotal{Category: key}
		items[key] = item
	}
	item.Total += tx.Amount
	item.Count++
}

// mapBreakdownItems orders categories by total, largest first, breaking
// ties by name.
func mapBreakdownItems(items map[string]*dto.CategoryTotal) []dto.CategoryTotal {
	out := make([]dto.CategoryTotal, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func streamTransactions(txCh <-chan *models.Transaction, errCh <-chan error, handle func(*models.Transaction) error) error {
	for txCh != nil || errCh != nil {
		select {
		case tx, ok := <-txCh:
			if !ok {
				txCh = nil
				continue
			}
			if handle == nil {
				continue
			}
			if err := handle(tx); err != nil {
				return err
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
