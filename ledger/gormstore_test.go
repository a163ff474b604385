package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinwallet/models"
)

func TestTransactionsPaginationAndFilter(t *testing.T) {
	engine, _ := newTestEngine(t, defaultTestSettings())

	for i := 0; i < 5; i++ {
		_, err := engine.Credit(7, 10, models.ReferenceOrder, "", "")
		require.NoError(t, err)
	}
	_, err := engine.Redeem(RedeemRequest{UserID: 7, Amount: 20})
	require.NoError(t, err)

	rows, total, err := engine.GetTransactions(7, 1, 4, "")
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Len(t, rows, 4)

	rows, total, err = engine.GetTransactions(7, 2, 4, "")
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Len(t, rows, 2)

	rows, total, err = engine.GetTransactions(7, 1, 10, string(models.TransactionTypeDebit))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.EqualValues(t, -20, rows[0].Amount)

	// Out-of-range inputs fall back to defaults instead of failing.
	rows, _, err = engine.GetTransactions(7, 0, -1, "")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestTransactionsAreScopedPerWallet(t *testing.T) {
	engine, _ := newTestEngine(t, defaultTestSettings())

	_, err := engine.Credit(1, 10, models.ReferenceOrder, "", "")
	require.NoError(t, err)
	_, err = engine.Credit(2, 20, models.ReferenceOrder, "", "")
	require.NoError(t, err)

	rows, total, err := engine.GetTransactions(1, 1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 10, rows[0].Amount)
}

func TestVouchersListedActiveFirst(t *testing.T) {
	engine, _ := newTestEngine(t, defaultTestSettings())

	_, err := engine.Credit(7, 100, models.ReferenceOrder, "", "")
	require.NoError(t, err)

	first, err := engine.Redeem(RedeemRequest{UserID: 7, Amount: 30})
	require.NoError(t, err)
	second, err := engine.Redeem(RedeemRequest{UserID: 7, Amount: 20})
	require.NoError(t, err)

	// Drain the first voucher so it deactivates.
	_, err = engine.SpendRedeemed(7, 30, "order-1", "")
	require.NoError(t, err)

	vouchers, err := engine.GetVouchers(7)
	require.NoError(t, err)
	require.Len(t, vouchers, 2)
	assert.Equal(t, second.VoucherCode, vouchers[0].Code)
	assert.True(t, vouchers[0].IsActive)
	assert.Equal(t, first.VoucherCode, vouchers[1].Code)
	assert.False(t, vouchers[1].IsActive)
}

func TestExpirableCreditsAntiJoin(t *testing.T) {
	engine, db := newTestEngine(t, defaultTestSettings())
	store := NewGormStore(db)

	_, err := engine.Credit(7, 40, models.ReferenceOrder, "o-1", "")
	require.NoError(t, err)
	_, err = engine.Credit(7, 60, models.ReferenceOrder, "o-2", "")
	require.NoError(t, err)
	backdateCredits(t, db, 1)

	lots, err := store.ExpirableCredits(time.Now())
	require.NoError(t, err)
	require.Len(t, lots, 2)

	// Reversing one lot removes only that lot from the next scan.
	_, err = engine.expireLot(lots[0])
	require.NoError(t, err)

	lots, err = store.ExpirableCredits(time.Now())
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.EqualValues(t, 60, lots[0].Amount)
}

func TestWithinWalletRollsBackAsAWhole(t *testing.T) {
	engine, db := newTestEngine(t, defaultTestSettings())
	store := NewGormStore(db)

	_, err := engine.Credit(7, 50, models.ReferenceOrder, "", "")
	require.NoError(t, err)

	boom := assert.AnError
	err = store.WithinWallet(7, func(tx Tx) error {
		w := tx.Wallet()
		w.Balance += 1000
		if err := tx.SaveWallet(); err != nil {
			return err
		}
		if err := tx.Insert(&models.WalletTransaction{
			Amount:          1000,
			TransactionType: models.TransactionTypeCredit,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Neither the balance update nor the ledger row survived.
	wallet, err := engine.GetWallet(7)
	require.NoError(t, err)
	assert.EqualValues(t, 50, wallet.Balance)

	var count int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
