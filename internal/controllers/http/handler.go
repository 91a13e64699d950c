package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/infra"
	"farmconnect/internal/metrics"
	"farmconnect/internal/ratelimit"
	"farmconnect/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Orders   *services.OrderService
	Carts    *services.CartService
	Products *services.ProductService
	Users    *services.UserService
}

type Handler struct {
	orders   *services.OrderService
	carts    *services.CartService
	products *services.ProductService
	users    *services.UserService
	verifier infra.TokenVerifier
	ready    func(ctx context.Context) error

	limiter ratelimit.Limiter
	metrics *metrics.ServerMetrics
}

// NewHandler wires the HTTP surface. ready backs /ready.
func NewHandler(s Services, verifier infra.TokenVerifier, ready func(ctx context.Context) error) *Handler {
	return &Handler{
		orders:   s.Orders,
		carts:    s.Carts,
		products: s.Products,
		users:    s.Users,
		verifier: verifier,
		ready:    ready,
	}
}

// SetLimiter enables per-client rate limiting on /api.
func (h *Handler) SetLimiter(l ratelimit.Limiter) {
	h.limiter = l
}

func (h *Handler) SetMetrics(m *metrics.ServerMetrics) {
	h.metrics = m
}

// Router builds the engine with the shared middleware chain and every route.
func (h *Handler) Router(corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), h.requestLogger())
	if h.metrics != nil {
		r.Use(h.observe())
	}
	r.Use(cors.New(corsConfig(corsOrigins)))
	h.RegisterRoutes(r)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", headerRequestID},
		ExposeHeaders:    []string{headerRequestID, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := r.Group("/api")

	// identity only: the local user does not exist yet
	api.POST("/auth/register", h.authenticateIdentity(), h.rateLimit(), h.Register)

	public := api.Group("", h.rateLimit())
	public.GET("/products", h.ListProducts)

	authed := api.Group("", h.authenticate(), h.rateLimit())
	authed.GET("/auth/me", h.Me)

	// static segments take precedence over :id
	authed.GET("/products/mine", Require(domain.ActionManageProducts), h.ListMyProducts)
	authed.POST("/products", Require(domain.ActionManageProducts), h.CreateProduct)
	authed.PUT("/products/:id", Require(domain.ActionManageProducts), h.UpdateProduct)
	authed.DELETE("/products/:id", Require(domain.ActionManageProducts), h.DeleteProduct)
	public.GET("/products/:id", h.GetProduct)

	cart := authed.Group("/cart", Require(domain.ActionManageCart))
	cart.GET("", h.GetCart)
	cart.POST("/add", h.AddToCart)
	cart.PUT("/update/:itemId", h.UpdateCartItem)
	cart.DELETE("/remove/:itemId", h.RemoveFromCart)
	cart.DELETE("/clear", h.ClearCart)

	orders := authed.Group("/orders")
	orders.POST("/checkout", Require(domain.ActionCheckout), h.Checkout)
	orders.GET("/my-orders", Require(domain.ActionViewOwnOrders), h.ListMyOrders)
	orders.GET("/farmer/orders", Require(domain.ActionManageFarmerOrders), h.ListFarmerOrders)
	orders.PUT("/farmer/:id/status", Require(domain.ActionManageFarmerOrders), h.UpdateFarmerOrderStatus)
	orders.GET("/:id", Require(domain.ActionViewOwnOrders), h.GetOrder)
	orders.PUT("/:id/status", Require(domain.ActionCancelOwnOrder), h.UpdateBuyerOrderStatus)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Ready(c *gin.Context) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			log.Printf("readiness check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// writeError maps domain errors onto HTTP statuses. Anything unclassified is
// logged and reported as a generic 500.
func writeError(c *gin.Context, err error) {
	var ite *domain.InvalidTransitionError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ite):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Printf("request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
