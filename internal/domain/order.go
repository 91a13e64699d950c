package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentTelebirr       PaymentMethod = "telebirr"
	PaymentCBEBirr        PaymentMethod = "cbe_birr"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCashOnDelivery, PaymentTelebirr, PaymentCBEBirr, PaymentBankTransfer:
		return m, nil
	default:
		return "", Validationf("unsupported payment method %q", s)
	}
}

// Order belongs to exactly one buyer and one farmer. A checkout spanning
// several farmers produces one Order per farmer.
type Order struct {
	ID                  uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	BuyerID             uint64          `json:"buyerId" gorm:"not null;index"`
	FarmerID            uint64          `json:"farmerId" gorm:"not null;index"`
	TotalAmount         decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	Status              OrderStatus     `json:"status" gorm:"size:16;not null;default:'pending';index"`
	ShippingAddress     string          `json:"shippingAddress" gorm:"type:text;not null"`
	PhoneNumber         string          `json:"phoneNumber" gorm:"size:32;not null"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod" gorm:"size:32;not null"`
	SpecialInstructions string          `json:"specialInstructions" gorm:"type:text"`
	CreatedAt           time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt           time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
	Items               []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`

	FarmerName  string `json:"farmerName,omitempty" gorm:"-"`
	FarmerEmail string `json:"farmerEmail,omitempty" gorm:"-"`
	BuyerName   string `json:"buyerName,omitempty" gorm:"-"`
	BuyerEmail  string `json:"buyerEmail,omitempty" gorm:"-"`
}

// OrderItem is a price snapshot taken at checkout. It is never updated.
type OrderItem struct {
	ID         uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID    uint64          `json:"orderId" gorm:"not null;index"`
	ProductID  uint64          `json:"productId" gorm:"not null;index"`
	Quantity   int64           `json:"quantity" gorm:"not null"`
	PricePerKg decimal.Decimal `json:"pricePerKg" gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(12,2);not null"`
}

// ItemsTotal sums the snapshot totals. For any persisted order it equals
// TotalAmount.
func (o *Order) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.TotalPrice)
	}
	return sum
}
