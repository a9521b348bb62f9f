// Package payments handles the gateway checkout handshake and payment
// records for orders.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sparex/apperr"
	"sparex/db"
	"sparex/models"
	"sparex/notifications"
	"sparex/realtime"
	"sparex/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var hub *realtime.Hub

// UseHub wires the websocket hub in at startup.
func UseHub(h *realtime.Hub) {
	hub = h
}

// CreateGatewayOrder opens a gateway checkout session for a pending
// online order and returns the gateway order id the client pays against.
func CreateGatewayOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.OrderID == "" {
		utils.Error(w, apperr.BadRequest("Order id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": input.OrderID, "userId": userID}).Decode(&order)
	if err != nil {
		utils.Error(w, apperr.NotFound("Order not found"))
		return
	}
	if order.PaymentMethod == models.MethodCOD {
		utils.Error(w, apperr.BadRequest("Cash on delivery orders are not paid online"))
		return
	}
	if order.PaymentStatus == models.PaymentCompleted {
		utils.Error(w, apperr.BadRequest("Order is already paid"))
		return
	}

	gatewayOrderID := "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	now := time.Now()

	if _, err := db.PaymentsCollection.UpdateOne(ctx,
		bson.M{"orderId": order.OrderID},
		bson.M{"$set": bson.M{"gatewayOrderId": gatewayOrderID, "updatedAt": now}},
	); err != nil {
		utils.Error(w, err)
		return
	}
	if _, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderId": order.OrderID},
		bson.M{"$set": bson.M{"paymentDetails.gatewayOrderId": gatewayOrderID, "updatedAt": now}},
	); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Gateway order created", utils.M{
		"gatewayOrderId": gatewayOrderID,
		"amount":         order.TotalAmount,
		"currency":       "INR",
		"orderNumber":    order.OrderNumber,
	})
}

type verifyInput struct {
	OrderID          string `json:"orderId"`
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	Signature        string `json:"signature"`
}

// Verify reconciles a gateway callback. A valid signature completes the
// payment and confirms the order; an invalid one marks both failed.
func Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input verifyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil ||
		input.OrderID == "" || input.GatewayOrderID == "" || input.GatewayPaymentID == "" || input.Signature == "" {
		utils.Error(w, apperr.BadRequest("orderId, gatewayOrderId, gatewayPaymentId and signature are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": input.OrderID, "userId": userID}).Decode(&order)
	if err != nil {
		utils.Error(w, apperr.NotFound("Order not found"))
		return
	}
	if order.PaymentStatus == models.PaymentCompleted {
		utils.Error(w, apperr.BadRequest("Order is already paid"))
		return
	}
	if order.PaymentDetails.GatewayOrderID != "" && order.PaymentDetails.GatewayOrderID != input.GatewayOrderID {
		utils.Error(w, apperr.BadRequest("Gateway order does not match this order"))
		return
	}

	now := time.Now()

	if !verifySignature(input.GatewayOrderID, input.GatewayPaymentID, input.Signature) {
		_, _ = db.PaymentsCollection.UpdateOne(ctx,
			bson.M{"orderId": order.OrderID},
			bson.M{"$set": bson.M{
				"status":        models.PaymentFailed,
				"failureReason": "Signature verification failed",
				"updatedAt":     now,
			}},
		)
		_, _ = db.OrdersCollection.UpdateOne(ctx,
			bson.M{"orderId": order.OrderID},
			bson.M{"$set": bson.M{"paymentStatus": models.PaymentFailed, "updatedAt": now}},
		)
		notifications.NotifyUser(ctx, userID, models.NotifPaymentFailed,
			"Payment failed",
			fmt.Sprintf("Payment for order %s could not be verified", order.OrderNumber),
			models.PriorityHigh,
			models.NotificationData{OrderID: order.OrderID, OrderNumber: order.OrderNumber, Reason: "Signature verification failed"})

		utils.Error(w, apperr.BadRequest("Signature verification failed"))
		return
	}

	if _, err := db.PaymentsCollection.UpdateOne(ctx,
		bson.M{"orderId": order.OrderID},
		bson.M{"$set": bson.M{
			"status":           models.PaymentCompleted,
			"gatewayOrderId":   input.GatewayOrderID,
			"gatewayPaymentId": input.GatewayPaymentID,
			"gatewaySignature": input.Signature,
			"transactionId":    input.GatewayPaymentID,
			"paidAt":           now,
			"updatedAt":        now,
		}},
	); err != nil {
		utils.Error(w, err)
		return
	}

	set := bson.M{
		"paymentStatus":                   models.PaymentCompleted,
		"paymentDetails.gatewayOrderId":   input.GatewayOrderID,
		"paymentDetails.gatewayPaymentId": input.GatewayPaymentID,
		"paymentDetails.signature":        input.Signature,
		"paymentDetails.paidAt":           now,
		"updatedAt":                       now,
	}
	push := bson.M{}
	if models.CanTransition(order.OrderStatus, models.OrderConfirmed) {
		set["orderStatus"] = models.OrderConfirmed
		push["statusHistory"] = models.StatusChange{
			Status:    models.OrderConfirmed,
			Timestamp: now,
			Note:      "Payment received",
		}
	}
	update := bson.M{"$set": set}
	if len(push) > 0 {
		update["$push"] = push
	}
	if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"orderId": order.OrderID}, update); err != nil {
		utils.Error(w, err)
		return
	}

	if hub != nil {
		hub.EmitToUser(userID, realtime.Event{Type: "payment_success", Data: utils.M{
			"orderId":     order.OrderID,
			"orderNumber": order.OrderNumber,
			"amount":      order.TotalAmount,
		}})
	}
	notifications.NotifyUser(ctx, userID, models.NotifPaymentSuccess,
		"Payment received",
		fmt.Sprintf("Payment of %.2f for order %s was successful", order.TotalAmount, order.OrderNumber),
		models.PriorityMedium,
		models.NotificationData{OrderID: order.OrderID, OrderNumber: order.OrderNumber, Amount: order.TotalAmount})
	notifications.NotifyAdmins(ctx, models.NotifPaymentSuccess,
		"Payment received",
		fmt.Sprintf("Order %s paid: %.2f", order.OrderNumber, order.TotalAmount),
		models.PriorityMedium,
		models.NotificationData{OrderID: order.OrderID, OrderNumber: order.OrderNumber, Amount: order.TotalAmount})

	utils.Success(w, http.StatusOK, "Payment verified", utils.M{
		"orderId":       order.OrderID,
		"orderNumber":   order.OrderNumber,
		"paymentStatus": models.PaymentCompleted,
	})
}

// RecordFailure lets the client report a checkout the gateway rejected
// or the customer abandoned.
func RecordFailure(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		OrderID string `json:"orderId"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.OrderID == "" {
		utils.Error(w, apperr.BadRequest("Order id is required"))
		return
	}
	if input.Reason == "" {
		input.Reason = "Payment failed at gateway"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": input.OrderID, "userId": userID}).Decode(&order)
	if err != nil {
		utils.Error(w, apperr.NotFound("Order not found"))
		return
	}
	if order.PaymentStatus == models.PaymentCompleted {
		utils.Error(w, apperr.BadRequest("Order is already paid"))
		return
	}

	now := time.Now()
	_, _ = db.PaymentsCollection.UpdateOne(ctx,
		bson.M{"orderId": order.OrderID},
		bson.M{"$set": bson.M{
			"status":        models.PaymentFailed,
			"failureReason": input.Reason,
			"updatedAt":     now,
		}},
	)
	_, _ = db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderId": order.OrderID},
		bson.M{"$set": bson.M{"paymentStatus": models.PaymentFailed, "updatedAt": now}},
	)

	notifications.NotifyUser(ctx, userID, models.NotifPaymentFailed,
		"Payment failed",
		fmt.Sprintf("Payment for order %s failed: %s", order.OrderNumber, input.Reason),
		models.PriorityHigh,
		models.NotificationData{OrderID: order.OrderID, OrderNumber: order.OrderNumber, Reason: input.Reason})

	utils.Success(w, http.StatusOK, "Payment failure recorded", nil)
}

// GetByOrder returns the payment record for one order.
func GetByOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payment models.Payment
	err := db.PaymentsCollection.FindOne(ctx, bson.M{"orderId": ps.ByName("orderid")}).Decode(&payment)
	if err != nil {
		utils.Error(w, apperr.NotFound("Payment not found"))
		return
	}

	role := utils.GetRoleFromRequest(r)
	if payment.UserID != utils.GetUserIDFromRequest(r) && role != "admin" && role != "superadmin" {
		utils.Error(w, apperr.Forbidden("You are not allowed to view this payment"))
		return
	}

	utils.Success(w, http.StatusOK, "Payment fetched", payment)
}

// MyHistory lists the caller's payments, newest first.
func MyHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, limit := utils.ParsePagination(r)
	filter := bson.M{"userId": utils.GetUserIDFromRequest(r)}

	total, err := db.PaymentsCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.Error(w, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := db.PaymentsCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer cur.Close(ctx)

	list := []models.Payment{}
	if err := cur.All(ctx, &list); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Paginated(w, "Payments fetched", list, utils.NewPagination(total, page, limit))
}

// AdminList serves the back-office payment table.
func AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	page, limit := utils.ParsePagination(r)

	filter := bson.M{}
	if status := q.Get("status"); status != "" {
		filter["status"] = status
	}
	if method := q.Get("method"); method != "" {
		filter["method"] = method
	}

	total, err := db.PaymentsCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.Error(w, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := db.PaymentsCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer cur.Close(ctx)

	list := []models.Payment{}
	if err := cur.All(ctx, &list); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Paginated(w, "Payments fetched", list, utils.NewPagination(total, page, limit))
}
