package models

import "time"

// Order lifecycle statuses.
const (
	OrderPlaced    = "Placed"
	OrderConfirmed = "Confirmed"
	OrderPacked    = "Packed"
	OrderShipped   = "Shipped"
	OrderDelivered = "Delivered"
	OrderCancelled = "Cancelled"
)

// Payment statuses shared by orders and payment records.
const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
	PaymentRefunded  = "Refunded"
)

// Payment methods.
const (
	MethodCOD     = "COD"
	MethodGateway = "Razorpay"
)

type OrderItem struct {
	ProductID  string  `json:"productId" bson:"productId"`
	Name       string  `json:"name" bson:"name"`
	PartNumber string  `json:"partNumber" bson:"partNumber"`
	Quantity   int     `json:"quantity" bson:"quantity"`
	Price      float64 `json:"price" bson:"price"`
	Subtotal   float64 `json:"subtotal" bson:"subtotal"`
	Image      string  `json:"image,omitempty" bson:"image,omitempty"`
}

type ShippingAddress struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
	Phone   string `json:"phone" bson:"phone"`
}

type StatusChange struct {
	Status    string    `json:"status" bson:"status"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
}

type PaymentDetails struct {
	GatewayOrderID   string     `json:"gatewayOrderId,omitempty" bson:"gatewayOrderId,omitempty"`
	GatewayPaymentID string     `json:"gatewayPaymentId,omitempty" bson:"gatewayPaymentId,omitempty"`
	Signature        string     `json:"signature,omitempty" bson:"signature,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

type Order struct {
	OrderID            string          `json:"orderId" bson:"orderId"`
	OrderNumber        string          `json:"orderNumber" bson:"orderNumber"`
	UserID             string          `json:"userId" bson:"userId"`
	Items              []OrderItem     `json:"items" bson:"items"`
	ShippingAddress    ShippingAddress `json:"shippingAddress" bson:"shippingAddress"`
	Subtotal           float64         `json:"subtotal" bson:"subtotal"`
	Tax                float64         `json:"tax" bson:"tax"`
	TaxPercentage      float64         `json:"taxPercentage" bson:"taxPercentage"`
	ShippingCharges    float64         `json:"shippingCharges" bson:"shippingCharges"`
	TotalAmount        float64         `json:"totalAmount" bson:"totalAmount"`
	PaymentMethod      string          `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus      string          `json:"paymentStatus" bson:"paymentStatus"`
	PaymentDetails     PaymentDetails  `json:"paymentDetails,omitempty" bson:"paymentDetails,omitempty"`
	OrderStatus        string          `json:"orderStatus" bson:"orderStatus"`
	StatusHistory      []StatusChange  `json:"statusHistory" bson:"statusHistory"`
	TrackingNumber     string          `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	CourierPartner     string          `json:"courierPartner,omitempty" bson:"courierPartner,omitempty"`
	EstimatedDelivery  *time.Time      `json:"estimatedDelivery,omitempty" bson:"estimatedDelivery,omitempty"`
	DeliveredAt        *time.Time      `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CancellationReason string          `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	InvoiceNumber      string          `json:"invoiceNumber,omitempty" bson:"invoiceNumber,omitempty"`
	InvoicePath        string          `json:"invoicePath,omitempty" bson:"invoicePath,omitempty"`
	Notes              string          `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt          time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// nextStatus holds the single forward step of the fulfilment chain.
var nextStatus = map[string]string{
	OrderPlaced:    OrderConfirmed,
	OrderConfirmed: OrderPacked,
	OrderPacked:    OrderShipped,
	OrderShipped:   OrderDelivered,
}

// IsTerminalStatus reports whether no further transitions are allowed.
func IsTerminalStatus(status string) bool {
	return status == OrderDelivered || status == OrderCancelled
}

// CanTransition reports whether an order may move from one status to
// another. Forward moves follow the fulfilment chain one step at a time;
// cancellation is allowed from any non-terminal status.
func CanTransition(from, to string) bool {
	if IsTerminalStatus(from) {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	return nextStatus[from] == to
}

// IsCancellable reports whether the order can still be cancelled.
func (o *Order) IsCancellable() bool {
	return !IsTerminalStatus(o.OrderStatus)
}

// AppendStatus records a status change in the audit trail.
func (o *Order) AppendStatus(status, note string) {
	o.OrderStatus = status
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Status:    status,
		Timestamp: time.Now(),
		Note:      note,
	})
	o.UpdatedAt = time.Now()
}
