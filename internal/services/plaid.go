package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/pkg/helpers"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

// --- Dependencies (minimal interfaces scoped to this service) ---

// bankPSStore keeps the service decoupled from the concrete storage implementation.
type bankPSStore interface {
	Create(ctx context.Context, uid string, bank *models.Bank) error
	List(ctx context.Context, uid string) ([]*models.Bank, error)
	MarkSynced(ctx context.Context, uid, bankID string, at time.Time) error
}

// transactionPSStore is the minimal surface required for sync operations.
type transactionPSStore interface {
	UpsertBatch(ctx context.Context, uid string, txs []models.Transaction) error
	DeleteBatch(ctx context.Context, uid string, transactionIDs []string) error
	GetCursor(ctx context.Context, uid, bankID string) (string, error)
	SetCursor(ctx context.Context, uid, bankID, cursor string) error
}

// plaidTokenStore holds access tokens outside Firestore.
type plaidTokenStore interface {
	StorePlaidToken(ctx context.Context, uid, itemID, token string) error
	GetPlaidToken(ctx context.Context, uid, itemID string) (string, error)
}

// plaidClient is the Plaid SDK adapter surface used by this service.
type plaidClient interface {
	CreateLinkToken(ctx context.Context, uid string) (linkToken string, err error)
	ExchangePublicToken(ctx context.Context, publicToken string) (itemID string, accessToken string, err error)
	SyncTransactions(ctx context.Context, bankID string, accessToken string, cursor *string) (dto.PlaidSyncPage, error)
}

type plaidService struct {
	plaid    plaidClient
	banks    bankPSStore
	txs      transactionPSStore
	secrets  plaidTokenStore
	clockNow func() time.Time
}

func NewPlaidService(plaid plaidClient, banks bankPSStore, txs transactionPSStore, secrets plaidTokenStore) *plaidService {
	return &plaidService{
		plaid:    plaid,
		banks:    banks,
		txs:      txs,
		secrets:  secrets,
		clockNow: time.Now,
	}
}

func (s *plaidService) CreateLinkToken(ctx context.Context, uid string) (string, error) {
	linkToken, err := s.plaid.CreateLinkToken(ctx, uid)
	if err != nil {
		logger.FromContext(ctx).Error("failed to create link token", "error", err)
		return "", err
	}
	return linkToken, nil
}

// LinkBank exchanges the public token, keeps the access token in Secret
// Manager and records the bank under its Plaid item id.
func (s *plaidService) LinkBank(ctx context.Context, uid, publicToken, institutionName string) (*models.Bank, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(publicToken) == "" {
		return nil, errs.NewFieldValidationError("publicToken", "publicToken is required")
	}

	itemID, accessToken, err := s.plaid.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		log.Error("public token exchange failed", "error", err)
		return nil, err
	}
	if err := s.secrets.StorePlaidToken(ctx, uid, itemID, accessToken); err != nil {
		log.Error("failed to store plaid access token", "bank_id", itemID, "error", err)
		return nil, err
	}

	now := s.clockNow().UTC()
	bank := &models.Bank{
		BankID:      itemID,
		Institution: strings.TrimSpace(institutionName),
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.banks.Create(ctx, uid, bank); err != nil {
		return nil, err
	}

	log.Info("bank linked", "bank_id", itemID, "institution", bank.Institution)
	return bank, nil
}

// SyncTransactions pulls every page of /transactions/sync for each linked
// bank (or only bankID), upserting added and modified rows and deleting
// removed ones before the cursor is advanced.
func (s *plaidService) SyncTransactions(ctx context.Context, uid string, bankID *string) (dto.PlaidServiceSyncResult, error) {
	result := dto.PlaidServiceSyncResult{}
	log := logger.FromContext(ctx)

	banks, err := s.banks.List(ctx, uid)
	if err != nil {
		return result, err
	}

	banksToSync := len(banks)
	if bankID != nil {
		banksToSync = 1
	}
	log.Info("transaction sync started", "bank_count", banksToSync)

	found := bankID == nil
	for _, b := range banks {
		if bankID != nil && *bankID != b.BankID {
			continue
		}
		found = true

		token, err := s.secrets.GetPlaidToken(ctx, uid, b.BankID)
		if err != nil {
			log.Error("plaid access token unavailable", "bank_id", b.BankID, "error", err)
			return result, err
		}

		storedCursor, err := s.txs.GetCursor(ctx, uid, b.BankID)
		if err != nil {
			return result, err
		}
		var cursor *string
		if storedCursor != "" {
			cursor = &storedCursor
		}

		latestCursor := storedCursor
		hasMore := true
		for hasMore {
			page, err := s.plaid.SyncTransactions(ctx, b.BankID, token, cursor)
			if err != nil {
				log.Warn("bank sync failed", "bank_id", b.BankID, "error", err)
				return result, err
			}

			if len(page.Transactions) > 0 {
				if err := s.txs.UpsertBatch(ctx, uid, page.Transactions); err != nil {
					return result, err
				}
				result.TransactionsUpserted += len(page.Transactions)
			}
			if len(page.RemovedIDs) > 0 {
				if err := s.txs.DeleteBatch(ctx, uid, page.RemovedIDs); err != nil {
					return result, err
				}
				result.TransactionsRemoved += len(page.RemovedIDs)
			}

			latestCursor = page.Cursor
			cursor = &latestCursor
			hasMore = page.HasMore
		}

		if latestCursor != "" {
			if err := s.txs.SetCursor(ctx, uid, b.BankID, latestCursor); err != nil {
				return result, err
			}
		}
		if err := s.banks.MarkSynced(ctx, uid, b.BankID, s.clockNow().UTC()); err != nil {
			return result, err
		}

		result.BanksSynced++
		if bankID != nil {
			result.Cursor = helpers.Value(cursor)
			break
		}
	}
	if !found {
		return result, errs.NewNotFoundError("bank not found")
	}

	log.Info("transaction sync completed",
		"banks_synced", result.BanksSynced,
		"transactions_upserted", result.TransactionsUpserted,
		"transactions_removed", result.TransactionsRemoved,
	)
	return result, nil
}
