package utils

import (
	"coinwallet/config"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

var webhookClient = resty.New().SetTimeout(5 * time.Second)

// NotifyOrderSystem posts a wallet event to the storefront's webhook so the
// order subsystem can react (show new vouchers, refresh coin balances).
// Fire-and-forget: failures are logged, never retried here.
func NotifyOrderSystem(event string, payload interface{}) {
	url := config.AppConfig.OrderWebhookURL
	if url == "" {
		return
	}

	resp, err := webhookClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event": event,
			"data":  payload,
		}).
		Post(url)
	if err != nil {
		log.Printf("[ORDER-WEBHOOK] Failed to deliver %s: %v", event, err)
		return
	}
	if resp.IsError() {
		log.Printf("[ORDER-WEBHOOK] %s rejected with status %d", event, resp.StatusCode())
	}
}
