package models

import (
	"gorm.io/gorm"
)

// Wallet holds a user's loyalty-coin balances. One row per user, created
// lazily on the first reward-relevant event.
//
// Balance counts spendable coins. RedeemedBalance counts coins that have been
// converted into active vouchers but not yet consumed at checkout. Both carry
// a database CHECK so no code path can persist a negative balance.
type Wallet struct {
	gorm.Model
	UserID           uint  `gorm:"not null;uniqueIndex" json:"userId"`
	Balance          int64 `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	RedeemedBalance  int64 `gorm:"not null;default:0;check:redeemed_balance >= 0" json:"redeemedBalance"`
	LifetimeEarned   int64 `gorm:"not null;default:0" json:"lifetimeEarned"`
	LifetimeRedeemed int64 `gorm:"not null;default:0" json:"lifetimeRedeemed"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
