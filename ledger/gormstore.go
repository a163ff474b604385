package ledger

import (
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coinwallet/models"
)

// GormStore implements Store on top of GORM. Atomicity comes from a database
// transaction plus a SELECT ... FOR UPDATE on the wallet row, acquired before
// the first balance read and held until commit.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// lockWallet loads the user's wallet row under a row lock, creating it first
// if absent. SQLite has no FOR UPDATE; it serializes writing transactions on
// its own, which gives the same per-wallet guarantee.
func (s *GormStore) lockWallet(dbtx *gorm.DB, userID uint) (*models.Wallet, error) {
	q := dbtx
	if dbtx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var wallet models.Wallet
	err := q.Where("user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{UserID: userID}
		if err := dbtx.Create(&wallet).Error; err != nil {
			// A concurrent unit may have created it first; the unique index
			// aborts this unit and the caller can retry.
			return nil, err
		}
		return &wallet, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *GormStore) WithinWallet(userID uint, fn func(tx Tx) error) error {
	return s.db.Transaction(func(dbtx *gorm.DB) error {
		wallet, err := s.lockWallet(dbtx, userID)
		if err != nil {
			return err
		}
		return fn(&gormTx{db: dbtx, wallet: wallet})
	})
}

func (s *GormStore) Wallet(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.Where("user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var created *models.Wallet
		err = s.WithinWallet(userID, func(tx Tx) error {
			created = tx.Wallet()
			return nil
		})
		return created, err
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *GormStore) Transactions(userID uint, page, limit int, txnType string) ([]models.WalletTransaction, int64, error) {
	wallet, err := s.Wallet(userID)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.WalletTransaction{}).Where("wallet_id = ?", wallet.ID)
	if txnType != "" {
		query = query.Where("transaction_type = ?", txnType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.WalletTransaction
	err = query.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&transactions).Error
	return transactions, total, err
}

func (s *GormStore) ExpirableCredits(now time.Time) ([]ExpirableCredit, error) {
	var credits []ExpirableCredit
	err := s.db.Model(&models.WalletTransaction{}).
		Select("wallet_transactions.id AS transaction_id, wallet_transactions.wallet_id, wallets.user_id, wallet_transactions.amount").
		Joins("JOIN wallets ON wallets.id = wallet_transactions.wallet_id").
		Where("wallet_transactions.transaction_type = ?", models.TransactionTypeCredit).
		Where("wallet_transactions.expires_at IS NOT NULL AND wallet_transactions.expires_at <= ?", now).
		Order("wallet_transactions.id").
		Scan(&credits).Error
	if err != nil {
		return nil, err
	}
	if len(credits) == 0 {
		return nil, nil
	}

	// Anti-join done in Go to stay dialect-neutral: drop credits that already
	// have an EXPIRED reversal row.
	var reversed []string
	err = s.db.Model(&models.WalletTransaction{}).
		Where("transaction_type = ?", models.TransactionTypeExpired).
		Pluck("reference_id", &reversed).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(reversed))
	for _, id := range reversed {
		seen[id] = struct{}{}
	}

	pending := credits[:0]
	for _, c := range credits {
		if _, ok := seen[strconv.FormatUint(uint64(c.TransactionID), 10)]; !ok {
			pending = append(pending, c)
		}
	}
	return pending, nil
}

func (s *GormStore) Vouchers(userID uint) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := s.db.
		Where("issued_to = ?", userID).
		Order("is_active DESC, created_at DESC").
		Find(&vouchers).Error
	return vouchers, err
}

type gormTx struct {
	db     *gorm.DB
	wallet *models.Wallet
}

func (t *gormTx) Wallet() *models.Wallet {
	return t.wallet
}

func (t *gormTx) SaveWallet() error {
	return t.db.Save(t.wallet).Error
}

func (t *gormTx) Insert(txn *models.WalletTransaction) error {
	txn.WalletID = t.wallet.ID
	return t.db.Create(txn).Error
}

func (t *gormTx) HasReferenceType(refType string) (bool, error) {
	var count int64
	err := t.db.Model(&models.WalletTransaction{}).
		Where("wallet_id = ? AND reference_type = ?", t.wallet.ID, refType).
		Count(&count).Error
	return count > 0, err
}

func (t *gormTx) HasExpiryReversal(creditID uint) (bool, error) {
	var count int64
	err := t.db.Model(&models.WalletTransaction{}).
		Where("wallet_id = ? AND transaction_type = ? AND reference_id = ?",
			t.wallet.ID, models.TransactionTypeExpired, strconv.FormatUint(uint64(creditID), 10)).
		Count(&count).Error
	return count > 0, err
}

func (t *gormTx) CreateVoucher(v *models.Voucher) error {
	return t.db.Create(v).Error
}

func (t *gormTx) VoucherCodeTaken(code string) (bool, error) {
	var count int64
	err := t.db.Model(&models.Voucher{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (t *gormTx) OpenVouchers() ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := t.db.
		Where("issued_to = ? AND is_active = ? AND current_balance > 0", t.wallet.UserID, true).
		Order("created_at ASC, id ASC").
		Find(&vouchers).Error
	return vouchers, err
}

func (t *gormTx) SaveVoucher(v *models.Voucher) error {
	return t.db.Save(v).Error
}
