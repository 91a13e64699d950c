package http

import (
	"farmconnect/internal/domain"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Name  string `json:"name" binding:"max=255"`
	Phone string `json:"phone" binding:"max=32"`
	Role  string `json:"role" binding:"required"`
}

type AddToCartRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int64 `json:"quantity" binding:"required"`
}

type CheckoutRequest struct {
	ShippingAddress     string `json:"shippingAddress" binding:"required"`
	PhoneNumber         string `json:"phoneNumber" binding:"required,max=32"`
	PaymentMethod       string `json:"paymentMethod" binding:"required"`
	SpecialInstructions string `json:"specialInstructions"`
}

type CheckoutResponse struct {
	Message string         `json:"message"`
	Orders  []domain.Order `json:"orders"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateStatusResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type CreateProductRequest struct {
	Title             string          `json:"title" binding:"required,max=255"`
	Description       string          `json:"description"`
	Category          string          `json:"category" binding:"max=100"`
	Unit              string          `json:"unit" binding:"max=16"`
	Location          string          `json:"location" binding:"max=255"`
	PricePerKg        decimal.Decimal `json:"pricePerKg"`
	AvailableQuantity int64           `json:"availableQuantity" binding:"min=0"`
}

type UpdateProductRequest struct {
	Title             *string          `json:"title" binding:"omitempty,max=255"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category" binding:"omitempty,max=100"`
	Location          *string          `json:"location" binding:"omitempty,max=255"`
	PricePerKg        *decimal.Decimal `json:"pricePerKg"`
	AvailableQuantity *int64           `json:"availableQuantity" binding:"omitempty,min=0"`
	Status            *string          `json:"status"`
}
