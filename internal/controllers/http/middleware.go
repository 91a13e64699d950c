package http

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"

	ctxRequestID = "request_id"
	ctxIdentity  = "identity"
	ctxUser      = "user"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		f := logging.Fields{
			RequestID:  c.GetString(ctxRequestID),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			Status:     c.Writer.Status(),
			DurationMS: time.Since(start).Milliseconds(),
		}
		if u, ok := currentUser(c); ok {
			f.UserID = u.ID
		}
		if len(c.Errors) > 0 {
			f.Error = c.Errors.String()
		}
		logging.Log(f)
	}
}

func (h *Handler) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		h.metrics.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		h.metrics.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// rateLimit counts per user once authenticated, per client IP otherwise.
// Limiter failures let the request through.
func (h *Handler) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.limiter == nil {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if u, ok := currentUser(c); ok {
			key = fmt.Sprintf("user:%d", u.ID)
		}
		d, err := h.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("rate limiter unavailable, allowing %s: %v", key, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			if h.metrics != nil {
				h.metrics.RateLimited.Inc()
			}
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// authenticateIdentity verifies the bearer token without requiring a local
// account.
func (h *Handler) authenticateIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := h.verify(c); !ok {
			return
		}
		c.Next()
	}
}

// authenticate verifies the bearer token and loads the local user.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.verify(c)
		if !ok {
			return
		}
		u, err := h.users.Resolve(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(ctxUser, u)
		c.Next()
	}
}

func (h *Handler) verify(c *gin.Context) (domain.Identity, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return domain.Identity{}, false
	}
	id, err := h.verifier.Verify(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return domain.Identity{}, false
	}
	c.Set(ctxIdentity, id)
	return id, true
}

// Require rejects users whose role may not perform the action.
func Require(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !u.Role.Can(action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role " + string(u.Role) + " may not " + string(action)})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}

func currentIdentity(c *gin.Context) domain.Identity {
	id, _ := c.Get(ctxIdentity)
	identity, _ := id.(domain.Identity)
	return identity
}
