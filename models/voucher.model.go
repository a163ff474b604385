package models

import (
	"time"

	"gorm.io/gorm"
)

// Voucher is a single-use, currency-valued code minted by a coin redemption.
// CurrentBalance starts equal to the discount computed from the redeemed
// coins and is drawn down as the voucher is consumed at checkout; a fully
// spent voucher is marked inactive.
type Voucher struct {
	gorm.Model
	Code           string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	InitialValue   float64    `gorm:"not null" json:"initialValue"`
	CurrentBalance float64    `gorm:"not null" json:"currentBalance"`
	IssuedTo       uint       `gorm:"not null;index" json:"issuedTo"` // user id
	IsActive       bool       `gorm:"default:true" json:"isActive"`
	ExpiryDate     *time.Time `json:"expiryDate"` // nil = indefinite
	LastUsed       *time.Time `json:"lastUsed"`
}

func (Voucher) TableName() string {
	return "vouchers"
}
