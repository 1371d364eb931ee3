package services

import (
	"context"

	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

type bankBSStore interface {
	List(ctx context.Context, uid string) ([]*models.Bank, error)
	Get(ctx context.Context, uid, bankID string) (*models.Bank, error)
	Delete(ctx context.Context, uid, bankID string) error
}

type transactionBSStore interface {
	DeleteByBank(ctx context.Context, uid, bankID string) error
	DeleteCursor(ctx context.Context, uid, bankID string) error
}

type secretBSStore interface {
	DeletePlaidToken(ctx context.Context, uid, itemID string) error
}

type bankService struct {
	banks   bankBSStore
	txs     transactionBSStore
	secrets secretBSStore
}

func NewBankService(banks bankBSStore, txs transactionBSStore, secrets secretBSStore) *bankService {
	return &bankService{
		banks:   banks,
		txs:     txs,
		secrets: secrets,
	}
}

func (s *bankService) ListBanks(ctx context.Context, uid string) ([]*models.Bank, error) {
	return s.banks.List(ctx, uid)
}

// DeleteBank removes imported transactions, the sync cursor and the access
// token before the bank document, so a failed run can be retried.
func (s *bankService) DeleteBank(ctx context.Context, uid, bankID string) error {
	log := logger.FromContext(ctx)

	if _, err := s.banks.Get(ctx, uid, bankID); err != nil {
		return err
	}
	if err := s.txs.DeleteByBank(ctx, uid, bankID); err != nil {
		log.Error("failed to delete bank transactions", "bank_id", bankID, "error", err)
		return err
	}
	if err := s.txs.DeleteCursor(ctx, uid, bankID); err != nil {
		return err
	}
	if err := s.secrets.DeletePlaidToken(ctx, uid, bankID); err != nil {
		log.Error("failed to delete plaid access token", "bank_id", bankID, "error", err)
		return err
	}
	if err := s.banks.Delete(ctx, uid, bankID); err != nil {
		return err
	}

	log.Info("bank deleted", "bank_id", bankID)
	return nil
}
