package http

import (
	"net/http"
	"strconv"

	"farmconnect/internal/repository"
	"farmconnect/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	products, err := h.products.ListAvailable(c.Request.Context(), repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ListMyProducts(c *gin.Context) {
	u, _ := currentUser(c)
	products, err := h.products.ListByFarmer(c.Request.Context(), u.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, _ := currentUser(c)
	p, err := h.products.Create(c.Request.Context(), u.ID, services.ProductInput{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Unit:              req.Unit,
		Location:          req.Location,
		PricePerKg:        req.PricePerKg,
		AvailableQuantity: req.AvailableQuantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, _ := currentUser(c)
	p, err := h.products.Update(c.Request.Context(), u.ID, id, services.ProductUpdate{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Location:          req.Location,
		PricePerKg:        req.PricePerKg,
		AvailableQuantity: req.AvailableQuantity,
		Status:            req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, _ := currentUser(c)
	if err := h.products.Deactivate(c.Request.Context(), u.ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product withdrawn"})
}
