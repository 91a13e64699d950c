package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one (user, product) row. Adding a product that is already in
// the cart raises its quantity.
type CartItem struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `json:"userId" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint64    `json:"productId" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int64     `json:"quantity" gorm:"not null"`
	AddedAt   time.Time `json:"addedAt" gorm:"autoCreateTime"`
}

// CartLine is a cart row joined with its product's current listing.
type CartLine struct {
	ID                uint64          `json:"id"`
	ProductID         uint64          `json:"productId"`
	Quantity          int64           `json:"quantity"`
	AddedAt           time.Time       `json:"addedAt"`
	Title             string          `json:"title"`
	Unit              string          `json:"unit"`
	PricePerKg        decimal.Decimal `json:"pricePerKg"`
	AvailableQuantity int64           `json:"availableQuantity"`
	FarmerID          uint64          `json:"farmerId"`
	FarmerName        string          `json:"farmerName"`
}

func (l CartLine) Total() decimal.Decimal {
	return l.PricePerKg.Mul(decimal.NewFromInt(l.Quantity))
}

type CartSummary struct {
	TotalItems  int64           `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type Cart struct {
	Items   []CartLine  `json:"items"`
	Summary CartSummary `json:"summary"`
}

// NewCart computes the summary over the given lines.
func NewCart(lines []CartLine) *Cart {
	total := decimal.Zero
	var count int64
	for _, l := range lines {
		count += l.Quantity
		total = total.Add(l.Total())
	}
	if lines == nil {
		lines = []CartLine{}
	}
	return &Cart{
		Items: lines,
		Summary: CartSummary{
			TotalItems:  count,
			TotalAmount: total.Round(2),
		},
	}
}
