package models

import "time"

// Notification recipients.
const (
	RecipientUser  = "User"
	RecipientAdmin = "Admin"
)

// Notification types.
const (
	NotifOrderPlaced        = "order_placed"
	NotifNewOrder           = "new_order"
	NotifOrderStatusUpdated = "order_status_updated"
	NotifOrderCancelled     = "order_cancelled"
	NotifPaymentSuccess     = "payment_success"
	NotifPaymentFailed      = "payment_failed"
	NotifLowStock           = "low_stock"
	NotifOutOfStock         = "out_of_stock"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// NotificationData is the closed set of fields a notification may carry.
// Consumers can rely on this shape instead of probing a free-form map.
type NotificationData struct {
	OrderID      string  `json:"orderId,omitempty" bson:"orderId,omitempty"`
	OrderNumber  string  `json:"orderNumber,omitempty" bson:"orderNumber,omitempty"`
	Amount       float64 `json:"amount,omitempty" bson:"amount,omitempty"`
	CustomerName string  `json:"customerName,omitempty" bson:"customerName,omitempty"`
	OrderStatus  string  `json:"orderStatus,omitempty" bson:"orderStatus,omitempty"`
	ProductID    string  `json:"productId,omitempty" bson:"productId,omitempty"`
	ProductName  string  `json:"productName,omitempty" bson:"productName,omitempty"`
	Stock        int     `json:"stock,omitempty" bson:"stock,omitempty"`
	Reason       string  `json:"reason,omitempty" bson:"reason,omitempty"`
}

type Notification struct {
	NotificationID string           `json:"notificationId" bson:"notificationId"`
	RecipientKind  string           `json:"recipientKind" bson:"recipientKind"`
	RecipientID    string           `json:"recipientId,omitempty" bson:"recipientId,omitempty"`
	Type           string           `json:"type" bson:"type"`
	Title          string           `json:"title" bson:"title"`
	Message        string           `json:"message" bson:"message"`
	Data           NotificationData `json:"data,omitempty" bson:"data,omitempty"`
	Priority       string           `json:"priority" bson:"priority"`
	IsRead         bool             `json:"isRead" bson:"isRead"`
	ReadAt         *time.Time       `json:"readAt,omitempty" bson:"readAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt" bson:"createdAt"`
}
