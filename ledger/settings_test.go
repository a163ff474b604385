package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinwallet/models"
)

func TestPolicySeedsDefaultsOnFirstRead(t *testing.T) {
	db := newTestDB(t)
	policy := NewPolicy(db, time.Minute)

	snap, err := policy.Current()
	require.NoError(t, err)
	assert.EqualValues(t, 50, snap.FirstPurchaseCoins)
	assert.EqualValues(t, 500, snap.MaxRedeemableCoins)
	assert.Equal(t, 90, snap.CoinExpiryDays)
	assert.True(t, snap.IsEnabled)

	var count int64
	require.NoError(t, db.Model(&models.WalletSettings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPolicyUpdateValidation(t *testing.T) {
	db := newTestDB(t)
	policy := NewPolicy(db, time.Minute)

	_, err := policy.Update(SettingsUpdate{MaxUsagePercentage: 120})
	assert.Error(t, err)

	_, err = policy.Update(SettingsUpdate{FirstPurchaseCoins: -1})
	assert.Error(t, err)

	_, err = policy.Update(SettingsUpdate{CoinToCurrencyRatio: -0.5})
	assert.Error(t, err)

	// Nothing was persisted by the rejected updates.
	var count int64
	require.NoError(t, db.Model(&models.WalletSettings{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPolicyUpdateInvalidatesCache(t *testing.T) {
	db := newTestDB(t)
	policy := NewPolicy(db, time.Hour) // TTL long enough to pin the cache

	snap, err := policy.Current()
	require.NoError(t, err)
	assert.True(t, snap.IsEnabled)

	_, err = policy.Update(SettingsUpdate{
		FirstPurchaseCoins:  25,
		CoinToCurrencyRatio: 2,
		MaxRedeemableCoins:  100,
		CoinExpiryDays:      30,
		MaxUsagePercentage:  50,
		IsEnabled:           false,
	})
	require.NoError(t, err)

	snap, err = policy.Current()
	require.NoError(t, err)
	assert.False(t, snap.IsEnabled)
	assert.EqualValues(t, 25, snap.FirstPurchaseCoins)
	assert.InDelta(t, 2.0, snap.CoinToCurrencyRatio, 0.001)
}

func TestSnapshotCategoryAllowList(t *testing.T) {
	snap := newSnapshot(models.WalletSettings{ApplicableCategories: "Books, Electronics , home-decor"})

	assert.True(t, snap.CategoryAllowed("books"))
	assert.True(t, snap.CategoryAllowed("ELECTRONICS"))
	assert.True(t, snap.CategoryAllowed(" home-decor "))
	assert.False(t, snap.CategoryAllowed("toys"))

	// Empty allow-list admits everything.
	open := newSnapshot(models.WalletSettings{})
	assert.True(t, open.CategoryAllowed("anything"))

	// A list of only separators is still unrestricted.
	blank := newSnapshot(models.WalletSettings{ApplicableCategories: " , ,"})
	assert.True(t, blank.CategoryAllowed("anything"))
}

func TestSnapshotCreditExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	snap := newSnapshot(models.WalletSettings{CoinExpiryDays: 90})
	expiry := snap.CreditExpiry(now)
	require.NotNil(t, expiry)
	assert.Equal(t, now.AddDate(0, 0, 90), *expiry)

	eternal := newSnapshot(models.WalletSettings{CoinExpiryDays: 0})
	assert.Nil(t, eternal.CreditExpiry(now))
}

func TestSnapshotDiscountRounding(t *testing.T) {
	snap := newSnapshot(models.WalletSettings{CoinToCurrencyRatio: 0.333})

	assert.InDelta(t, 3.33, snap.DiscountFor(10), 0.0001)
	assert.InDelta(t, 0.33, snap.DiscountFor(1), 0.0001)
	assert.Zero(t, snap.DiscountFor(0))
}
