package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/models"
	"sparex/mq"
	"sparex/notifications"
	"sparex/realtime"
	"sparex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type statusInput struct {
	Status            string `json:"status"`
	Note              string `json:"note"`
	TrackingNumber    string `json:"trackingNumber"`
	CourierPartner    string `json:"courierPartner"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// AdminUpdateStatus advances an order along the fulfilment chain.
// Cancellation goes through the transactional cancel path instead so
// stock is restored.
func AdminUpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input statusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Status == "" {
		utils.Error(w, apperr.BadRequest("Status is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		utils.Error(w, apperr.NotFound("Order not found"))
		return
	}

	if input.Status == models.OrderCancelled {
		cancelled, err := cancelOrder(ctx, &order, "Cancelled by store", true)
		if err != nil {
			utils.Error(w, err)
			return
		}
		utils.Success(w, http.StatusOK, "Order cancelled", cancelled)
		return
	}

	if !models.CanTransition(order.OrderStatus, input.Status) {
		utils.Error(w, apperr.BadRequest(fmt.Sprintf("Cannot move order from %s to %s", order.OrderStatus, input.Status)))
		return
	}

	order.AppendStatus(input.Status, input.Note)

	set := bson.M{
		"orderStatus":   order.OrderStatus,
		"statusHistory": order.StatusHistory,
		"updatedAt":     order.UpdatedAt,
	}
	if input.TrackingNumber != "" {
		set["trackingNumber"] = input.TrackingNumber
	}
	if input.CourierPartner != "" {
		set["courierPartner"] = input.CourierPartner
	}
	if est, err := time.Parse("2006-01-02", input.EstimatedDelivery); err == nil {
		set["estimatedDelivery"] = est
	}
	if input.Status == models.OrderDelivered {
		now := time.Now()
		order.DeliveredAt = &now
		set["deliveredAt"] = now

		// Invoice is generated lazily on delivery
		if order.InvoiceNumber == "" {
			order.InvoiceNumber = "INV-" + order.OrderNumber
			set["invoiceNumber"] = order.InvoiceNumber
		}
	}

	if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"orderId": orderID}, bson.M{"$set": set}); err != nil {
		utils.Error(w, err)
		return
	}

	if hub != nil {
		hub.EmitToUser(order.UserID, realtime.Event{Type: "order_status_updated", Data: utils.M{
			"orderId":     order.OrderID,
			"orderNumber": order.OrderNumber,
			"orderStatus": order.OrderStatus,
		}})
	}
	notifications.NotifyUser(ctx, order.UserID, models.NotifOrderStatusUpdated,
		"Order update",
		fmt.Sprintf("Order %s is now %s", order.OrderNumber, order.OrderStatus),
		models.PriorityMedium,
		models.NotificationData{OrderID: order.OrderID, OrderNumber: order.OrderNumber, OrderStatus: order.OrderStatus})

	utils.Success(w, http.StatusOK, "Order status updated", order)
}

// Cancel lets a customer cancel their own order while it is still
// cancellable.
func Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&input)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{
		"orderId": ps.ByName("orderid"),
		"userId":  utils.GetUserIDFromRequest(r),
	}).Decode(&order)
	if err != nil {
		utils.Error(w, apperr.NotFound("Order not found"))
		return
	}

	reason := input.Reason
	if reason == "" {
		reason = "Cancelled by customer"
	}

	cancelled, err := cancelOrder(ctx, &order, reason, false)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Order cancelled", cancelled)
}

// cancelOrder restores stock and marks the order cancelled inside one
// transaction, mirroring the decrement done at placement.
func cancelOrder(ctx context.Context, order *models.Order, reason string, byStore bool) (*models.Order, error) {
	if !order.IsCancellable() {
		return nil, apperr.BadRequest(fmt.Sprintf("A %s order cannot be cancelled", order.OrderStatus))
	}

	session, err := db.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	var changes []stockChange

	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		changes = changes[:0]

		// Re-read under the session so a concurrent transition loses
		var current models.Order
		if err := db.OrdersCollection.FindOne(sessCtx, bson.M{"orderId": order.OrderID}).Decode(&current); err != nil {
			return nil, apperr.NotFound("Order not found")
		}
		if !current.IsCancellable() {
			return nil, apperr.BadRequest(fmt.Sprintf("A %s order cannot be cancelled", current.OrderStatus))
		}

		for _, it := range current.Items {
			var p models.Product
			if err := db.ProductsCollection.FindOne(sessCtx, bson.M{"productId": it.ProductID}).Decode(&p); err != nil {
				// Product purged since placement; nothing to restore
				continue
			}
			restored := p.Stock + it.Quantity
			_, err := db.ProductsCollection.UpdateOne(sessCtx,
				bson.M{"productId": it.ProductID},
				bson.M{
					"$inc": bson.M{"stock": it.Quantity, "totalSales": -it.Quantity},
					"$set": bson.M{
						"stockStatus": models.StockStatusFor(restored, p.LowStockThreshold),
						"updatedAt":   time.Now(),
					},
				},
			)
			if err != nil {
				return nil, err
			}
			changes = append(changes, stockChange{product: p, left: restored})
		}

		now := time.Now()
		current.AppendStatus(models.OrderCancelled, reason)
		current.CancelledAt = &now
		current.CancellationReason = reason

		set := bson.M{
			"orderStatus":        current.OrderStatus,
			"statusHistory":      current.StatusHistory,
			"cancelledAt":        now,
			"cancellationReason": reason,
			"updatedAt":          now,
		}
		if current.PaymentStatus == models.PaymentCompleted {
			current.PaymentStatus = models.PaymentRefunded
			set["paymentStatus"] = models.PaymentRefunded

			if _, err := db.PaymentsCollection.UpdateOne(sessCtx,
				bson.M{"orderId": current.OrderID},
				bson.M{"$set": bson.M{
					"status": models.PaymentRefunded,
					"refundDetails": models.RefundDetails{
						Amount:      current.TotalAmount,
						Reason:      reason,
						ProcessedAt: &now,
					},
					"updatedAt": now,
				}},
			); err != nil {
				return nil, err
			}
		}

		if _, err := db.OrdersCollection.UpdateOne(sessCtx, bson.M{"orderId": current.OrderID}, bson.M{"$set": set}); err != nil {
			return nil, err
		}

		return &current, nil
	})
	if err != nil {
		return nil, err
	}

	cancelled := result.(*models.Order)

	if hub != nil {
		hub.EmitToUser(cancelled.UserID, realtime.Event{Type: "order_cancelled", Data: utils.M{
			"orderId":     cancelled.OrderID,
			"orderNumber": cancelled.OrderNumber,
			"reason":      reason,
		}})
	}
	title := "Order cancelled"
	if byStore {
		notifications.NotifyUser(ctx, cancelled.UserID, models.NotifOrderCancelled,
			title,
			fmt.Sprintf("Order %s was cancelled: %s", cancelled.OrderNumber, reason),
			models.PriorityHigh,
			models.NotificationData{OrderID: cancelled.OrderID, OrderNumber: cancelled.OrderNumber, Reason: reason})
	} else {
		notifications.NotifyAdmins(ctx, models.NotifOrderCancelled,
			title,
			fmt.Sprintf("Order %s was cancelled by the customer", cancelled.OrderNumber),
			models.PriorityMedium,
			models.NotificationData{OrderID: cancelled.OrderID, OrderNumber: cancelled.OrderNumber, Reason: reason})
	}

	for _, ch := range changes {
		mq.EmitStock(ctx, mq.StockEvent{
			ProductID:   ch.product.ProductID,
			ProductName: ch.product.Name,
			PartNumber:  ch.product.PartNumber,
			Stock:       ch.left,
			Threshold:   ch.product.LowStockThreshold,
		})
	}
	log.Printf("order %s cancelled: %s", cancelled.OrderNumber, reason)

	return cancelled, nil
}
