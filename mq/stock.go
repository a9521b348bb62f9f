// Package mq moves stock-level events through Redis pub/sub so alerting
// happens off the request path.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"sparex/models"
	"sparex/notifications"
	"sparex/rdx"
)

const stockChannel = "stock-events"

// StockEvent describes a product's stock level after a change.
type StockEvent struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	PartNumber  string `json:"partNumber"`
	Stock       int    `json:"stock"`
	Threshold   int    `json:"threshold"`
}

// EmitStock publishes a stock change. Failures are logged; stock alerts
// are advisory and must never fail the order path.
func EmitStock(ctx context.Context, ev StockEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Println("stock event marshal:", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, stockChannel, data).Err(); err != nil {
		log.Println("stock event publish:", err)
	}
}

// StartStockAlertWorker subscribes to stock events and raises admin
// notifications when a product runs low or out. Blocks; run in a goroutine.
func StartStockAlertWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, stockChannel)
	ch := sub.Channel()

	log.Println("[StockAlertWorker] Listening for stock events...")

	for msg := range ch {
		var ev StockEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("[StockAlertWorker] Failed to parse event: %v", err)
			continue
		}

		threshold := ev.Threshold
		if threshold <= 0 {
			threshold = models.DefaultLowStockThreshold
		}

		data := models.NotificationData{
			ProductID:   ev.ProductID,
			ProductName: ev.ProductName,
			Stock:       ev.Stock,
		}

		switch {
		case ev.Stock <= 0:
			notifications.NotifyAdmins(ctx, models.NotifOutOfStock,
				"Product out of stock",
				fmt.Sprintf("%s (%s) is out of stock", ev.ProductName, ev.PartNumber),
				models.PriorityHigh, data)
		case ev.Stock <= threshold:
			notifications.NotifyAdmins(ctx, models.NotifLowStock,
				"Low stock warning",
				fmt.Sprintf("%s (%s) is down to %d units", ev.ProductName, ev.PartNumber, ev.Stock),
				models.PriorityMedium, data)
		}
	}
}
