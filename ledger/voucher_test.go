package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinwallet/models"
)

func TestGenerateVoucherCodeFormat(t *testing.T) {
	code, err := generateVoucherCode()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, voucherCodePrefix))
	assert.Len(t, code, len(voucherCodePrefix)+voucherCodeLength)
	for _, r := range strings.TrimPrefix(code, voucherCodePrefix) {
		assert.Contains(t, voucherAlphabet, string(r))
	}
}

func TestGenerateVoucherCodeIsRandom(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		code, err := generateVoucherCode()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s after %d draws", code, i)
		seen[code] = struct{}{}
	}
}

func TestRedemptionsMintDistinctVouchers(t *testing.T) {
	engine, db := newTestEngine(t, defaultTestSettings())

	_, err := engine.Credit(7, 100, models.ReferenceOrder, "", "")
	require.NoError(t, err)

	codes := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		result, err := engine.Redeem(RedeemRequest{UserID: 7, Amount: 10})
		require.NoError(t, err)
		_, dup := codes[result.VoucherCode]
		require.False(t, dup, "duplicate voucher code %s", result.VoucherCode)
		codes[result.VoucherCode] = struct{}{}
	}

	var count int64
	require.NoError(t, db.Model(&models.Voucher{}).Count(&count).Error)
	assert.EqualValues(t, 10, count)
}

func TestIssueVoucherPersistsWithinUnit(t *testing.T) {
	engine, db := newTestEngine(t, defaultTestSettings())
	store := NewGormStore(db)

	_, err := engine.Credit(7, 100, models.ReferenceOrder, "", "")
	require.NoError(t, err)

	var voucher *models.Voucher
	err = store.WithinWallet(7, func(tx Tx) error {
		voucher, err = issueVoucher(tx, 7, 25)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, voucher)
	assert.InDelta(t, 25.0, voucher.InitialValue, 0.001)
	assert.InDelta(t, 25.0, voucher.CurrentBalance, 0.001)
	assert.True(t, voucher.IsActive)

	taken := false
	err = store.WithinWallet(7, func(tx Tx) error {
		taken, err = tx.VoucherCodeTaken(voucher.Code)
		return err
	})
	require.NoError(t, err)
	assert.True(t, taken)
}
