package http

import (
	"net/http"

	"farmconnect/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, _ := currentUser(c)

	orders, err := h.orders.Checkout(c.Request.Context(), u.ID, domain.CheckoutInput{
		ShippingAddress:     req.ShippingAddress,
		PhoneNumber:         req.PhoneNumber,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.OrdersCreated.Add(float64(len(orders)))
	}
	c.JSON(http.StatusCreated, CheckoutResponse{
		Message: "orders created successfully",
		Orders:  orders,
	})
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	u, _ := currentUser(c)
	orders, err := h.orders.ListBuyerOrders(c.Request.Context(), u.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, _ := currentUser(c)
	order, err := h.orders.GetOrder(c.Request.Context(), u.ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateBuyerOrderStatus lets the buyer cancel a pending order.
func (h *Handler) UpdateBuyerOrderStatus(c *gin.Context) {
	h.updateStatus(c, domain.RoleBuyer)
}

func (h *Handler) ListFarmerOrders(c *gin.Context) {
	u, _ := currentUser(c)
	orders, err := h.orders.ListFarmerOrders(c.Request.Context(), u.ID, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) UpdateFarmerOrderStatus(c *gin.Context) {
	h.updateStatus(c, domain.RoleFarmer)
}

func (h *Handler) updateStatus(c *gin.Context, as domain.Role) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, _ := currentUser(c)

	var (
		order *domain.Order
		err   error
	)
	if as == domain.RoleFarmer {
		order, err = h.orders.UpdateStatusAsFarmer(c.Request.Context(), u.ID, id, req.Status)
	} else {
		order, err = h.orders.UpdateStatusAsBuyer(c.Request.Context(), u.ID, id, req.Status)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.Transitions.WithLabelValues(string(order.Status)).Inc()
	}
	c.JSON(http.StatusOK, UpdateStatusResponse{
		Message: "order status updated",
		Order:   order,
	})
}
