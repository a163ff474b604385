package models

import (
	"time"

	"gorm.io/gorm"
)

// TransactionType defines the type of wallet transaction
type TransactionType string

const (
	TransactionTypeCredit           TransactionType = "CREDIT"
	TransactionTypeDebit            TransactionType = "DEBIT"
	TransactionTypeRefund           TransactionType = "REFUND"
	TransactionTypeExpired          TransactionType = "EXPIRED"
	TransactionTypeRedeemedSpent    TransactionType = "REDEEMED_SPENT"
	TransactionTypeManualAdjustment TransactionType = "MANUAL_ADJUSTMENT"
)

// Reference tags linking a ledger row to the event that caused it.
const (
	ReferenceFirstPurchase = "FIRST_PURCHASE"
	ReferenceOrder         = "ORDER"
	ReferenceCart          = "CART"
	ReferenceManual        = "MANUAL"
	ReferenceExpired       = "EXPIRED"
)

// WalletTransaction is the append-only coin ledger. Rows are never mutated or
// deleted; corrections are made by inserting new rows (an EXPIRED row
// referencing the original CREDIT row's id, a REFUND row, and so on).
type WalletTransaction struct {
	gorm.Model
	WalletID        uint            `gorm:"not null;index" json:"walletId"`
	Amount          int64           `gorm:"not null" json:"amount"` // signed, sign encodes direction
	TransactionType TransactionType `gorm:"type:varchar(50);not null;index" json:"transactionType"`
	ReferenceType   string          `gorm:"type:varchar(50)" json:"referenceType"`
	ReferenceID     string          `gorm:"type:varchar(100);index" json:"referenceId"` // order id, credit row id, ...
	Description     string          `gorm:"type:text" json:"description"`

	// Set only on CREDIT rows; nil means the lot never expires.
	ExpiresAt *time.Time `gorm:"index" json:"expiresAt"`

	// Admin details (for manual adjustments)
	AdminID uint `gorm:"default:0" json:"adminId"`

	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
