package utils

import (
	"log"
	"time"

	"coinwallet/ledger"

	"github.com/robfig/cron/v3"
)

// InitializeExpiryScheduler sets up the daily coin expiry sweep
func InitializeExpiryScheduler(engine *ledger.Engine) {
	log.Println("[EXPIRY-SCHEDULER] Initializing coin expiry scheduler...")

	c := cron.New()

	// Run daily at 2 AM, well outside shopping peak hours
	c.AddFunc("0 2 * * *", func() {
		log.Println("[EXPIRY-SCHEDULER] Running daily coin expiry sweep...")
		expired, err := engine.ProcessExpiredCoins(time.Now())
		if err != nil {
			log.Printf("[EXPIRY-SCHEDULER] Sweep failed: %v", err)
			return
		}
		log.Printf("[EXPIRY-SCHEDULER] Sweep completed, %d coins expired", expired)
		if expired > 0 {
			NotifyOrderSystem("coins.expired", map[string]interface{}{"coinsExpired": expired})
		}
	})

	c.Start()
	log.Println("[EXPIRY-SCHEDULER] Coin expiry scheduler started - runs daily at 2 AM")
}
