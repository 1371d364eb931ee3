package dto

import (
	"time"

	"github.com/GregMSThompson/goalaura-backend/internal/models"
)

// TransactionQuery is the store-level filter. Nil fields are not applied.
// From and To bound createdAt inclusively.
type TransactionQuery struct {
	Type     *string
	Category *string
	BankID   *string
	From     *time.Time
	To       *time.Time
	Offset   int
	Limit    int
}

type TransactionFilters struct {
	Type      *string
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (f TransactionFilters) Query() TransactionQuery {
	return TransactionQuery{
		Type:     f.Type,
		Category: f.Category,
		From:     f.StartDate,
		To:       f.EndDate,
	}
}

type CreateTransactionRequest struct {
	Amount          *float64   `json:"amount"`
	Type            string     `json:"type"`
	Category        string     `json:"category,omitempty"`
	Description     string     `json:"description"`
	Currency        string     `json:"currency,omitempty"`
	TransactionDate *time.Time `json:"transactionDate,omitempty"`
	Status          string     `json:"status,omitempty"`
}

type UpdateTransactionRequest struct {
	Amount          *float64   `json:"amount,omitempty"`
	Type            *string    `json:"type,omitempty"`
	Category        *string    `json:"category,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Currency        *string    `json:"currency,omitempty"`
	TransactionDate *time.Time `json:"transactionDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
}

type ListTransactionsRequest struct {
	Filters TransactionFilters
	Page    int
	Limit   int
}

type TransactionSummary struct {
	TotalDeposits    float64 `json:"totalDeposits"`
	TotalWithdrawals float64 `json:"totalWithdrawals"`
	NetBalance       float64 `json:"netBalance"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type TransactionPage struct {
	Transactions []models.Transaction `json:"transactions"`
	Summary      TransactionSummary   `json:"summary"`
	Pagination   Pagination           `json:"pagination"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

type TransactionStats struct {
	Period            string             `json:"period"`
	From              time.Time          `json:"from"`
	Summary           TransactionSummary `json:"summary"`
	TransactionCount  int                `json:"transactionCount"`
	CategoryBreakdown []CategoryTotal    `json:"categoryBreakdown"`
}

// PeerTransaction is the projection of a ledger row shared with a peer.
type PeerTransaction struct {
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
