package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sparex/apperr"
	"sparex/cart"
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

var hub *realtime.Hub

// UseHub wires the websocket hub in at startup.
func UseHub(h *realtime.Hub) {
	hub = h
}

type placeInput struct {
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
}

// stockChange records a post-commit stock level for alerting.
type stockChange struct {
	product models.Product
	left    int
}

// Place converts the caller's cart into an order inside a multi-document
// transaction: stock is checked and decremented per line, the order and
// its payment record are created, and the cart is cleared. Any failure
// rolls everything back.
func Place(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input placeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, apperr.BadRequest("Invalid input"))
		return
	}
	if input.PaymentMethod != models.MethodCOD && input.PaymentMethod != models.MethodGateway {
		utils.Error(w, apperr.BadRequest("Payment method must be COD or Razorpay"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user); err != nil {
		utils.Error(w, apperr.NotFound("User not found"))
		return
	}

	addr := user.DefaultAddress()
	if input.AddressID != "" {
		addr = user.AddressByID(input.AddressID)
	}
	if addr == nil {
		utils.Error(w, apperr.BadRequest("A shipping address is required"))
		return
	}
	shipTo := models.ShippingAddress{
		Street:  addr.Street,
		City:    addr.City,
		State:   addr.State,
		Pincode: addr.Pincode,
		Phone:   addr.Phone,
	}
	if shipTo.Phone == "" {
		shipTo.Phone = user.Phone
	}

	session, err := db.Client.StartSession()
	if err != nil {
		utils.Error(w, err)
		return
	}
	defer session.EndSession(ctx)

	var changes []stockChange

	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		changes = changes[:0]

		var c models.Cart
		if err := db.CartsCollection.FindOne(sessCtx, bson.M{"userId": userID}).Decode(&c); err != nil || len(c.Items) == 0 {
			return nil, apperr.BadRequest("Cart is empty")
		}

		free, flat := cart.ShippingRates()
		c.Recompute(free, flat)

		items := make([]models.OrderItem, 0, len(c.Items))
		for _, it := range c.Items {
			var p models.Product
			err := db.ProductsCollection.FindOne(sessCtx, bson.M{"productId": it.ProductID}).Decode(&p)
			if err != nil {
				return nil, apperr.BadRequest(fmt.Sprintf("Product %s is no longer available", it.ProductID))
			}
			if !p.IsActive || p.IsDeleted {
				return nil, apperr.BadRequest(fmt.Sprintf("%s is no longer available", p.Name))
			}
			if p.Stock < it.Quantity {
				return nil, apperr.BadRequest(fmt.Sprintf("Insufficient stock for %s: %d left", p.Name, p.Stock))
			}

			// Conditional decrement guards against concurrent oversell;
			// a racing order makes ModifiedCount zero and aborts.
			left := p.Stock - it.Quantity
			res, err := db.ProductsCollection.UpdateOne(sessCtx,
				bson.M{"productId": p.ProductID, "stock": bson.M{"$gte": it.Quantity}},
				bson.M{
					"$inc": bson.M{"stock": -it.Quantity, "totalSales": it.Quantity},
					"$set": bson.M{
						"stockStatus": models.StockStatusFor(left, p.LowStockThreshold),
						"updatedAt":   time.Now(),
					},
				},
			)
			if err != nil {
				return nil, err
			}
			if res.ModifiedCount == 0 {
				return nil, apperr.BadRequest(fmt.Sprintf("Insufficient stock for %s", p.Name))
			}

			items = append(items, models.OrderItem{
				ProductID:  p.ProductID,
				Name:       p.Name,
				PartNumber: p.PartNumber,
				Quantity:   it.Quantity,
				Price:      it.Price,
				Subtotal:   it.Subtotal,
				Image:      p.FirstImageURL(),
			})
			changes = append(changes, stockChange{product: p, left: left})
		}

		orderNumber, err := nextOrderNumber(sessCtx)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		order := models.Order{
			OrderID:         utils.GenerateID("o", 12),
			OrderNumber:     orderNumber,
			UserID:          userID,
			Items:           items,
			ShippingAddress: shipTo,
			Subtotal:        c.Subtotal,
			Tax:             c.Tax,
			TaxPercentage:   c.TaxPercentage,
			ShippingCharges: c.ShippingCharges,
			TotalAmount:     c.TotalAmount,
			PaymentMethod:   input.PaymentMethod,
			PaymentStatus:   models.PaymentPending,
			OrderStatus:     models.OrderPlaced,
			StatusHistory: []models.StatusChange{
				{Status: models.OrderPlaced, Timestamp: now, Note: "Order placed"},
			},
			Notes:     input.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := db.OrdersCollection.InsertOne(sessCtx, order); err != nil {
			return nil, err
		}

		payment := models.Payment{
			PaymentID: utils.GenerateID("pay", 12),
			OrderID:   order.OrderID,
			UserID:    userID,
			Amount:    order.TotalAmount,
			Currency:  "INR",
			Method:    input.PaymentMethod,
			Status:    models.PaymentPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := db.PaymentsCollection.InsertOne(sessCtx, payment); err != nil {
			return nil, err
		}

		c.Items = []models.CartItem{}
		c.Recompute(free, flat)
		if _, err := db.CartsCollection.ReplaceOne(sessCtx, bson.M{"userId": userID}, c); err != nil {
			return nil, err
		}

		return &order, nil
	})
	if err != nil {
		utils.Error(w, err)
		return
	}

	order := result.(*models.Order)

	// Post-commit side effects are best effort
	if hub != nil {
		hub.EmitToUser(userID, realtime.Event{Type: "order_placed", Data: order})
		hub.EmitToAdmins(realtime.Event{Type: "new_order", Data: utils.M{
			"orderId":      order.OrderID,
			"orderNumber":  order.OrderNumber,
			"totalAmount":  order.TotalAmount,
			"customerName": user.Name,
		}})
	}
	notifications.NotifyUser(ctx, userID, models.NotifOrderPlaced,
		"Order placed",
		fmt.Sprintf("Your order %s has been placed", order.OrderNumber),
		models.PriorityMedium,
		models.NotificationData{OrderID: order.OrderID, OrderNumber: order.OrderNumber, Amount: order.TotalAmount})
	notifications.NotifyAdmins(ctx, models.NotifNewOrder,
		"New order received",
		fmt.Sprintf("Order %s for %.2f from %s", order.OrderNumber, order.TotalAmount, user.Name),
		models.PriorityHigh,
		models.NotificationData{OrderID: order.OrderID, OrderNumber: order.OrderNumber, Amount: order.TotalAmount, CustomerName: user.Name})

	for _, ch := range changes {
		mq.EmitStock(ctx, mq.StockEvent{
			ProductID:   ch.product.ProductID,
			ProductName: ch.product.Name,
			PartNumber:  ch.product.PartNumber,
			Stock:       ch.left,
			Threshold:   ch.product.LowStockThreshold,
		})
	}

	utils.Success(w, http.StatusCreated, "Order placed", order)
}
