package ledger

import (
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"coinwallet/models"
)

// Snapshot is one consistent view of the reward policy. The category
// allow-list is parsed once per load so the engine never splits strings.
type Snapshot struct {
	models.WalletSettings
	categories map[string]struct{} // lowercased; nil when unrestricted
}

// CategoryAllowed reports whether the category passes the allow-list.
// Matching is case-insensitive; an empty allow-list admits everything.
func (s *Snapshot) CategoryAllowed(category string) bool {
	if len(s.categories) == 0 {
		return true
	}
	_, ok := s.categories[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

// CreditExpiry returns when a credit made now expires, or nil when coins
// never expire.
func (s *Snapshot) CreditExpiry(now time.Time) *time.Time {
	if s.CoinExpiryDays <= 0 {
		return nil
	}
	t := now.AddDate(0, 0, s.CoinExpiryDays)
	return &t
}

// DiscountFor converts coins to currency, rounded to 2 decimal places.
func (s *Snapshot) DiscountFor(coins int64) float64 {
	return round2(float64(coins) * s.CoinToCurrencyRatio)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SettingsUpdate is the admin-editable shape of the policy record.
type SettingsUpdate struct {
	FirstPurchaseCoins   int64   `json:"firstPurchaseCoins" validate:"gte=0"`
	CoinToCurrencyRatio  float64 `json:"coinToCurrencyRatio" validate:"gte=0"`
	MinOrderValue        float64 `json:"minOrderValue" validate:"gte=0"`
	MaxRedeemableCoins   int64   `json:"maxRedeemableCoins" validate:"gte=0"`
	CoinExpiryDays       int     `json:"coinExpiryDays" validate:"gte=0"`
	MaxUsagePercentage   float64 `json:"maxUsagePercentage" validate:"gte=0,lte=100"`
	MinCartValue         float64 `json:"minCartValue" validate:"gte=0"`
	ApplicableCategories string  `json:"applicableCategories"`
	IsEnabled            bool    `json:"isEnabled"`
}

var settingsValidate = validator.New()

// Policy is the read-through accessor over the singleton settings record.
// Reads are served from a short-TTL cache; Update writes through and
// invalidates, so a settings change is observed consistently by concurrent
// engine calls.
type Policy struct {
	db  *gorm.DB
	ttl time.Duration

	mu        sync.RWMutex
	snap      *Snapshot
	fetchedAt time.Time
}

func NewPolicy(db *gorm.DB, ttl time.Duration) *Policy {
	return &Policy{db: db, ttl: ttl}
}

// Current returns the policy snapshot, seeding the default record on first
// touch.
func (p *Policy) Current() (*Snapshot, error) {
	p.mu.RLock()
	if p.snap != nil && time.Since(p.fetchedAt) < p.ttl {
		snap := p.snap
		p.mu.RUnlock()
		return snap, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap != nil && time.Since(p.fetchedAt) < p.ttl {
		return p.snap, nil
	}

	var settings models.WalletSettings
	err := p.db.Order("id").First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.WalletSettings{
			FirstPurchaseCoins:  50,
			CoinToCurrencyRatio: 1,
			MaxRedeemableCoins:  500,
			CoinExpiryDays:      90,
			MaxUsagePercentage:  100,
			IsEnabled:           true,
		}
		err = p.db.Create(&settings).Error
	}
	if err != nil {
		return nil, err
	}

	p.snap = newSnapshot(settings)
	p.fetchedAt = time.Now()
	return p.snap, nil
}

// Update validates and persists new settings, then invalidates the cache.
// All numeric fields must be non-negative and MaxUsagePercentage within
// [0,100]; violations are rejected before any store access.
func (p *Policy) Update(in SettingsUpdate) (*models.WalletSettings, error) {
	if err := settingsValidate.Struct(in); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var settings models.WalletSettings
	err := p.db.Order("id").First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings.FirstPurchaseCoins = in.FirstPurchaseCoins
	settings.CoinToCurrencyRatio = in.CoinToCurrencyRatio
	settings.MinOrderValue = in.MinOrderValue
	settings.MaxRedeemableCoins = in.MaxRedeemableCoins
	settings.CoinExpiryDays = in.CoinExpiryDays
	settings.MaxUsagePercentage = in.MaxUsagePercentage
	settings.MinCartValue = in.MinCartValue
	settings.ApplicableCategories = in.ApplicableCategories
	settings.IsEnabled = in.IsEnabled

	if err := p.db.Save(&settings).Error; err != nil {
		return nil, err
	}

	p.snap = newSnapshot(settings)
	p.fetchedAt = time.Now()
	return &settings, nil
}

func newSnapshot(settings models.WalletSettings) *Snapshot {
	snap := &Snapshot{WalletSettings: settings}
	for _, c := range strings.Split(settings.ApplicableCategories, ",") {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if snap.categories == nil {
			snap.categories = make(map[string]struct{})
		}
		snap.categories[c] = struct{}{}
	}
	return snap
}
