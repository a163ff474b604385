package models

import (
	"gorm.io/gorm"
)

// WalletSettings is the singleton reward/redemption policy record. It is
// seeded with defaults on first read and edited only through the admin
// settings endpoint.
// No column defaults here: zero values (expiry disabled, feature switched
// off) are meaningful, and the policy accessor seeds the initial record.
type WalletSettings struct {
	gorm.Model
	FirstPurchaseCoins  int64   `gorm:"not null" json:"firstPurchaseCoins"`
	CoinToCurrencyRatio float64 `gorm:"not null" json:"coinToCurrencyRatio"` // currency units per coin
	MinOrderValue       float64 `gorm:"not null" json:"minOrderValue"`
	MaxRedeemableCoins  int64   `gorm:"not null" json:"maxRedeemableCoins"` // per single redemption
	CoinExpiryDays      int     `gorm:"not null" json:"coinExpiryDays"`     // 0 = coins never expire
	MaxUsagePercentage  float64 `gorm:"not null" json:"maxUsagePercentage"` // cap on redemption as % of order value
	MinCartValue        float64 `gorm:"not null" json:"minCartValue"`

	// Comma-separated category allow-list; empty means unrestricted.
	ApplicableCategories string `gorm:"type:text" json:"applicableCategories"`

	IsEnabled bool `json:"isEnabled"`
}

func (WalletSettings) TableName() string {
	return "wallet_settings"
}
