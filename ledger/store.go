package ledger

import (
	"time"

	"coinwallet/models"
)

// Store mediates every write the engine makes against the wallet tables.
//
// WithinWallet is the atomic unit of work: it must hand fn a wallet row that
// is locked against concurrent units for the same user (created lazily if
// absent), and everything fn writes must commit or abort as a whole. Two
// concurrent redemptions against the same wallet must never both pass the
// balance check.
type Store interface {
	WithinWallet(userID uint, fn func(tx Tx) error) error

	// Wallet returns the user's wallet, creating it if absent.
	Wallet(userID uint) (*models.Wallet, error)

	// Transactions returns one page of the user's ledger, newest first,
	// optionally filtered by transaction type, plus the unpaged total.
	Transactions(userID uint, page, limit int, txnType string) ([]models.WalletTransaction, int64, error)

	// ExpirableCredits returns CREDIT rows whose expiry has passed and for
	// which no EXPIRED reversal row exists yet.
	ExpirableCredits(now time.Time) ([]ExpirableCredit, error)

	// Vouchers returns all vouchers issued to the user, active first.
	Vouchers(userID uint) ([]models.Voucher, error)
}

// Tx is the store's view inside one atomic unit of work. All reads and
// writes address the wallet that WithinWallet locked.
type Tx interface {
	// Wallet returns the locked wallet row. Mutate it and call SaveWallet
	// before the unit ends.
	Wallet() *models.Wallet
	SaveWallet() error

	// Insert appends a row to the ledger. WalletID is filled in by the store.
	Insert(txn *models.WalletTransaction) error

	// HasReferenceType reports whether any ledger row with the given
	// reference tag exists on this wallet.
	HasReferenceType(refType string) (bool, error)

	// HasExpiryReversal reports whether an EXPIRED row referencing the given
	// CREDIT row id exists on this wallet.
	HasExpiryReversal(creditID uint) (bool, error)

	CreateVoucher(v *models.Voucher) error
	VoucherCodeTaken(code string) (bool, error)

	// OpenVouchers returns the wallet owner's active vouchers with a
	// remaining balance, oldest first.
	OpenVouchers() ([]models.Voucher, error)
	SaveVoucher(v *models.Voucher) error
}

// ExpirableCredit is one expired CREDIT lot awaiting reversal.
type ExpirableCredit struct {
	TransactionID uint
	WalletID      uint
	UserID        uint
	Amount        int64
}
