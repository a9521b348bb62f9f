package models

import "time"

type RefundDetails struct {
	RefundID    string     `json:"refundId,omitempty" bson:"refundId,omitempty"`
	Amount      float64    `json:"amount,omitempty" bson:"amount,omitempty"`
	Reason      string     `json:"reason,omitempty" bson:"reason,omitempty"`
	ProcessedAt *time.Time `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
}

type Payment struct {
	PaymentID        string         `json:"paymentId" bson:"paymentId"`
	OrderID          string         `json:"orderId" bson:"orderId"`
	UserID           string         `json:"userId" bson:"userId"`
	Amount           float64        `json:"amount" bson:"amount"`
	Currency         string         `json:"currency" bson:"currency"`
	Method           string         `json:"method" bson:"method"`
	Status           string         `json:"status" bson:"status"`
	GatewayOrderID   string         `json:"gatewayOrderId,omitempty" bson:"gatewayOrderId,omitempty"`
	GatewayPaymentID string         `json:"gatewayPaymentId,omitempty" bson:"gatewayPaymentId,omitempty"`
	GatewaySignature string         `json:"gatewaySignature,omitempty" bson:"gatewaySignature,omitempty"`
	TransactionID    string         `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	PaidAt           *time.Time     `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	FailureReason    string         `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	RefundDetails    *RefundDetails `json:"refundDetails,omitempty" bson:"refundDetails,omitempty"`
	CreatedAt        time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt" bson:"updatedAt"`
}
