package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CheckoutInput struct {
	ShippingAddress     string
	PhoneNumber         string
	PaymentMethod       string
	SpecialInstructions string
}

func (in CheckoutInput) Validate() (PaymentMethod, error) {
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return "", Validationf("shipping address is required")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return "", Validationf("phone number is required")
	}
	return ParsePaymentMethod(in.PaymentMethod)
}

// FarmerGroup is the slice of a cart that becomes one order.
type FarmerGroup struct {
	FarmerID uint64
	Lines    []CartLine
}

func (g FarmerGroup) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range g.Lines {
		sum = sum.Add(l.Total())
	}
	return sum.Round(2)
}

// SplitByFarmer partitions cart lines by owning farmer. Groups come out in the
// order each farmer first appears.
func SplitByFarmer(lines []CartLine) []FarmerGroup {
	index := make(map[uint64]int)
	var groups []FarmerGroup
	for _, l := range lines {
		i, ok := index[l.FarmerID]
		if !ok {
			i = len(groups)
			index[l.FarmerID] = i
			groups = append(groups, FarmerGroup{FarmerID: l.FarmerID})
		}
		groups[i].Lines = append(groups[i].Lines, l)
	}
	return groups
}

// NewOrder materializes the pending order and item snapshots for one group.
func (g FarmerGroup) NewOrder(buyerID uint64, in CheckoutInput, method PaymentMethod) *Order {
	items := make([]OrderItem, 0, len(g.Lines))
	for _, l := range g.Lines {
		items = append(items, OrderItem{
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			PricePerKg: l.PricePerKg,
			TotalPrice: l.Total().Round(2),
		})
	}
	return &Order{
		BuyerID:             buyerID,
		FarmerID:            g.FarmerID,
		TotalAmount:         g.Total(),
		Status:              StatusPending,
		ShippingAddress:     strings.TrimSpace(in.ShippingAddress),
		PhoneNumber:         strings.TrimSpace(in.PhoneNumber),
		PaymentMethod:       method,
		SpecialInstructions: strings.TrimSpace(in.SpecialInstructions),
		Items:               items,
	}
}
