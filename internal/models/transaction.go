package models

import (
	"time"
)

type Transaction struct {
	TransactionID   string    `firestore:"transactionId" json:"transactionId"` // doc ID; Plaid transaction_id for imports
	Amount          float64   `firestore:"amount" json:"amount"`               // always >= 0, direction is Type
	Type            string    `firestore:"type" json:"type"`
	Category        string    `firestore:"category" json:"category"`
	Description     string    `firestore:"description" json:"description"`
	Currency        string    `firestore:"currency" json:"currency"`
	TransactionDate time.Time `firestore:"transactionDate" json:"transactionDate"`
	Status          string    `firestore:"status" json:"status"`
	Source          string    `firestore:"source" json:"source"`
	BankID          string    `firestore:"bankId,omitempty" json:"bankId,omitempty"` // Plaid item_id
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updatedAt"`
}
