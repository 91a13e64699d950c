package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductAvailable ProductStatus = "available"
	ProductSoldOut   ProductStatus = "sold_out"
	ProductInactive  ProductStatus = "inactive"
)

// Product is a farmer's listing. AvailableQuantity never goes below zero; the
// schema does not enforce it, the stock decrement does.
type Product struct {
	ID                uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	FarmerID          uint64          `json:"farmerId" gorm:"not null;index"`
	Title             string          `json:"title" gorm:"size:255;not null"`
	Description       string          `json:"description" gorm:"type:text"`
	Category          string          `json:"category" gorm:"size:100;index"`
	Unit              string          `json:"unit" gorm:"size:16;not null;default:'kg'"`
	PricePerKg        decimal.Decimal `json:"pricePerKg" gorm:"type:decimal(10,2);not null"`
	AvailableQuantity int64           `json:"availableQuantity" gorm:"not null"`
	Status            ProductStatus   `json:"status" gorm:"size:16;not null;default:'available';index"`
	Location          string          `json:"location" gorm:"size:255"`
	CreatedAt         time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

func ParseProductStatus(s string) (ProductStatus, error) {
	switch st := ProductStatus(s); st {
	case ProductAvailable, ProductSoldOut, ProductInactive:
		return st, nil
	default:
		return "", Validationf("unknown product status %q", s)
	}
}
