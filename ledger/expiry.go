package ledger

import (
	"log"
	"strconv"
	"time"

	"coinwallet/models"
)

// ProcessExpiredCoins reverses every CREDIT lot whose expiry has passed,
// exactly once, and returns the total coins expired. Each lot is reversed in
// its own atomic unit with a re-check under the wallet lock, so the sweep is
// idempotent and safe to re-run (or to run concurrently with itself). A
// failed lot is logged and skipped; the next sweep picks it up again.
func (e *Engine) ProcessExpiredCoins(now time.Time) (int64, error) {
	lots, err := e.store.ExpirableCredits(now)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, lot := range lots {
		expired, err := e.expireLot(lot)
		if err != nil {
			log.Printf("[EXPIRY-SWEEP] Failed to expire credit %d (wallet %d): %v", lot.TransactionID, lot.WalletID, err)
			continue
		}
		total += expired
	}
	return total, nil
}

func (e *Engine) expireLot(lot ExpirableCredit) (int64, error) {
	var expired int64
	err := e.store.WithinWallet(lot.UserID, func(tx Tx) error {
		done, err := tx.HasExpiryReversal(lot.TransactionID)
		if err != nil {
			return err
		}
		if done {
			return nil // another sweep got here first
		}

		if err := tx.Insert(&models.WalletTransaction{
			Amount:          -lot.Amount,
			TransactionType: models.TransactionTypeExpired,
			ReferenceType:   models.ReferenceExpired,
			ReferenceID:     strconv.FormatUint(uint64(lot.TransactionID), 10),
			Description:     "Coins expired",
		}); err != nil {
			return err
		}

		// The bucket model reverses the full original credit even when part
		// of it was already spent, so the balance is clamped at zero.
		w := tx.Wallet()
		w.Balance -= lot.Amount
		if w.Balance < 0 {
			w.Balance = 0
		}
		if err := tx.SaveWallet(); err != nil {
			return err
		}
		expired = lot.Amount
		return nil
	})
	return expired, err
}
