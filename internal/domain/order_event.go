package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderCreatedEvent struct {
	OrderID       uint64          `json:"orderId"`
	BuyerID       uint64          `json:"buyerId"`
	FarmerID      uint64          `json:"farmerId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	ItemCount     int             `json:"itemCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID   uint64      `json:"orderId"`
	BuyerID   uint64      `json:"buyerId"`
	FarmerID  uint64      `json:"farmerId"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ChangedBy Role        `json:"changedBy"`
	ChangedAt time.Time   `json:"changedAt"`
}
