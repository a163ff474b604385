// Package ledger implements the loyalty-coin wallet core: balances, the
// append-only transaction log, voucher issuance and the expiry sweep.
//
// Accounting model: the simplified bucket model, deliberately non-FIFO.
// Redemption moves coins from Balance into RedeemedBalance without retiring
// the CREDIT lots that earned them, and expiry reverses each CREDIT's full
// original amount with the wallet balance clamped at zero. CREDIT lots are
// therefore not consumed oldest-first and a partially spent lot still expires
// in full.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"coinwallet/models"
)

// Engine executes every ledger operation as one atomic unit of work against
// the store, validated against the current policy snapshot. It is safe for
// concurrent use; per-wallet serialization is the store's job.
type Engine struct {
	store  Store
	policy *Policy
}

func NewEngine(store Store, policy *Policy) *Engine {
	return &Engine{store: store, policy: policy}
}

// GetWallet returns the user's wallet, creating it on first touch.
func (e *Engine) GetWallet(userID uint) (*models.Wallet, error) {
	return e.store.Wallet(userID)
}

// GetTransactions returns one page of the user's ledger, newest first.
func (e *Engine) GetTransactions(userID uint, page, limit int, txnType string) ([]models.WalletTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return e.store.Transactions(userID, page, limit, txnType)
}

// GetVouchers returns all vouchers issued to the user, active first.
func (e *Engine) GetVouchers(userID uint) ([]models.Voucher, error) {
	return e.store.Vouchers(userID)
}

// Credit adds coins to the user's spendable balance. The lot expires
// CoinExpiryDays from now (never, when expiry is disabled).
func (e *Engine) Credit(userID uint, amount int64, refType, refID, description string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	snap, err := e.policy.Current()
	if err != nil {
		return nil, err
	}

	var wallet *models.Wallet
	err = e.store.WithinWallet(userID, func(tx Tx) error {
		if err := tx.Insert(&models.WalletTransaction{
			Amount:          amount,
			TransactionType: models.TransactionTypeCredit,
			ReferenceType:   refType,
			ReferenceID:     refID,
			Description:     description,
			ExpiresAt:       snap.CreditExpiry(time.Now()),
		}); err != nil {
			return err
		}

		w := tx.Wallet()
		w.Balance += amount
		w.LifetimeEarned += amount
		if err := tx.SaveWallet(); err != nil {
			return err
		}
		wallet = w
		return nil
	})
	return wallet, err
}

// FirstPurchaseReward credits the configured first-purchase bonus exactly
// once per user. It returns the coins credited: 0 means the reward was
// already granted or the feature is disabled, both of which are no-ops.
func (e *Engine) FirstPurchaseReward(userID uint, orderID string) (*models.Wallet, int64, error) {
	snap, err := e.policy.Current()
	if err != nil {
		return nil, 0, err
	}
	if !snap.IsEnabled || snap.FirstPurchaseCoins <= 0 {
		wallet, err := e.store.Wallet(userID)
		return wallet, 0, err
	}

	var wallet *models.Wallet
	var credited int64
	err = e.store.WithinWallet(userID, func(tx Tx) error {
		rewarded, err := tx.HasReferenceType(models.ReferenceFirstPurchase)
		if err != nil {
			return err
		}
		wallet = tx.Wallet()
		if rewarded {
			return nil
		}

		if err := tx.Insert(&models.WalletTransaction{
			Amount:          snap.FirstPurchaseCoins,
			TransactionType: models.TransactionTypeCredit,
			ReferenceType:   models.ReferenceFirstPurchase,
			ReferenceID:     orderID,
			Description:     "First purchase reward",
			ExpiresAt:       snap.CreditExpiry(time.Now()),
		}); err != nil {
			return err
		}

		wallet.Balance += snap.FirstPurchaseCoins
		wallet.LifetimeEarned += snap.FirstPurchaseCoins
		if err := tx.SaveWallet(); err != nil {
			return err
		}
		credited = snap.FirstPurchaseCoins
		return nil
	})
	return wallet, credited, err
}

// Refund re-adds coins that were spent on an order that has since been
// cancelled or returned. Lifetime counters are untouched: refunded coins were
// already counted when first earned.
func (e *Engine) Refund(userID uint, amount int64, refType, refID, description string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var wallet *models.Wallet
	err := e.store.WithinWallet(userID, func(tx Tx) error {
		if err := tx.Insert(&models.WalletTransaction{
			Amount:          amount,
			TransactionType: models.TransactionTypeRefund,
			ReferenceType:   refType,
			ReferenceID:     refID,
			Description:     description,
		}); err != nil {
			return err
		}

		w := tx.Wallet()
		w.Balance += amount
		if err := tx.SaveWallet(); err != nil {
			return err
		}
		wallet = w
		return nil
	})
	return wallet, err
}

// RedeemRequest carries one redemption attempt. OrderValue and Category are
// optional; when OrderValue is supplied the cart-level policy rules apply.
type RedeemRequest struct {
	UserID        uint
	Amount        int64
	ReferenceType string
	ReferenceID   string
	Description   string
	OrderValue    *float64
	Category      string
}

// RedeemResult is a successful redemption: the updated wallet, the currency
// discount the coins converted into, and the minted voucher.
type RedeemResult struct {
	Wallet         *models.Wallet
	DiscountAmount float64
	VoucherCode    string
}

// Redeem converts spendable coins into a single-use voucher. The balance
// check always runs against the locked wallet row, never cached settings, so
// two concurrent redemptions cannot jointly overdraw the wallet.
func (e *Engine) Redeem(req RedeemRequest) (*RedeemResult, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	snap, err := e.policy.Current()
	if err != nil {
		return nil, err
	}
	if !snap.IsEnabled {
		return nil, ErrFeatureDisabled
	}

	var result *RedeemResult
	err = e.store.WithinWallet(req.UserID, func(tx Tx) error {
		w := tx.Wallet()

		// Insufficient balance outranks the policy rules; it is checked
		// against the locked row, never a cached value.
		if req.Amount > w.Balance {
			return ErrInsufficientBalance
		}
		if req.Amount > snap.MaxRedeemableCoins {
			return ErrOverRedeemLimit
		}
		if req.OrderValue != nil {
			if *req.OrderValue < snap.MinCartValue {
				return ErrBelowMinCart
			}
			if req.Category != "" && !snap.CategoryAllowed(req.Category) {
				return ErrCategoryNotEligible
			}
			if snap.DiscountFor(req.Amount) > *req.OrderValue*snap.MaxUsagePercentage/100 {
				return ErrOverUsageCap
			}
		}

		if err := tx.Insert(&models.WalletTransaction{
			Amount:          -req.Amount,
			TransactionType: models.TransactionTypeDebit,
			ReferenceType:   req.ReferenceType,
			ReferenceID:     req.ReferenceID,
			Description:     req.Description,
		}); err != nil {
			return err
		}

		w.Balance -= req.Amount
		w.RedeemedBalance += req.Amount
		if err := tx.SaveWallet(); err != nil {
			return err
		}

		discount := snap.DiscountFor(req.Amount)
		voucher, err := issueVoucher(tx, req.UserID, discount)
		if err != nil {
			return err
		}

		result = &RedeemResult{
			Wallet:         w,
			DiscountAmount: discount,
			VoucherCode:    voucher.Code,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ManualAdjustment is the admin-only corrective entry. Positive amounts are a
// direct balance top-up without expiry; negative amounts debit the balance.
// The engine does not re-check the balance for negative adjustments: the
// caller must reject deductions exceeding the current balance before invoking
// this. The database floor on wallets.balance aborts anything that slips
// through.
func (e *Engine) ManualAdjustment(userID uint, amount int64, description string, adminID uint) (*models.Wallet, error) {
	if amount == 0 {
		return nil, ErrZeroAdjustment
	}

	var wallet *models.Wallet
	err := e.store.WithinWallet(userID, func(tx Tx) error {
		if err := tx.Insert(&models.WalletTransaction{
			Amount:          amount,
			TransactionType: models.TransactionTypeManualAdjustment,
			ReferenceType:   models.ReferenceManual,
			ReferenceID:     uuid.NewString(),
			Description:     description,
			AdminID:         adminID,
		}); err != nil {
			return err
		}

		w := tx.Wallet()
		w.Balance += amount
		if amount > 0 {
			w.LifetimeEarned += amount
		} else {
			w.LifetimeRedeemed += -amount
		}
		if err := tx.SaveWallet(); err != nil {
			return err
		}
		wallet = w
		return nil
	})
	return wallet, err
}

// SpendRedeemed consumes coins from the redeemed pool at checkout and draws
// down the user's open vouchers by the matching currency value, oldest first.
// A fully drained voucher is deactivated.
func (e *Engine) SpendRedeemed(userID uint, amount int64, orderID, description string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	snap, err := e.policy.Current()
	if err != nil {
		return nil, err
	}

	var wallet *models.Wallet
	err = e.store.WithinWallet(userID, func(tx Tx) error {
		w := tx.Wallet()
		if amount > w.RedeemedBalance {
			return ErrInsufficientRedeemed
		}

		if err := tx.Insert(&models.WalletTransaction{
			Amount:          -amount,
			TransactionType: models.TransactionTypeRedeemedSpent,
			ReferenceType:   models.ReferenceOrder,
			ReferenceID:     orderID,
			Description:     description,
		}); err != nil {
			return err
		}

		w.RedeemedBalance -= amount
		w.LifetimeRedeemed += amount
		if err := tx.SaveWallet(); err != nil {
			return err
		}

		if err := drawDownVouchers(tx, snap.DiscountFor(amount)); err != nil {
			return err
		}
		wallet = w
		return nil
	})
	return wallet, err
}

// drawDownVouchers reduces open voucher balances by the spent currency value.
func drawDownVouchers(tx Tx, value float64) error {
	if value <= 0 {
		return nil
	}
	vouchers, err := tx.OpenVouchers()
	if err != nil {
		return err
	}

	now := time.Now()
	remaining := value
	for i := range vouchers {
		if remaining <= 0 {
			break
		}
		v := &vouchers[i]

		take := v.CurrentBalance
		if take > remaining {
			take = remaining
		}
		v.CurrentBalance = round2(v.CurrentBalance - take)
		remaining = round2(remaining - take)
		v.LastUsed = &now
		if v.CurrentBalance <= 0 {
			v.CurrentBalance = 0
			v.IsActive = false
		}
		if err := tx.SaveVoucher(v); err != nil {
			return err
		}
	}
	return nil
}
