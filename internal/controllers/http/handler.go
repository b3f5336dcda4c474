package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"shop-backend/internal/domain"
	"shop-backend/internal/repository"
	"shop-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type Handler struct {
	service  *services.OrderService
	products repository.ProductRepository
	rdb      *redis.Client
}

func NewHandler(s *services.OrderService, products repository.ProductRepository, rdb *redis.Client) *Handler {
	return &Handler{service: s, products: products, rdb: rdb}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:id", h.GetOrder)
	r.GET("/orders/status/:status", h.GetOrdersByStatus)
	r.POST("/orders/:id/verify", h.VerifyPayment)
	r.PATCH("/orders/:id/status", h.UpdateStatus)
	r.POST("/orders/:id/cancel", h.CancelOrder)
	r.GET("/products/:id", h.GetProduct)
}

// statusFor maps the service error taxonomy onto HTTP statuses. The typed
// errors carry enough context (product name, quantities, current status) to
// be returned verbatim.
func statusFor(err error) int {
	var (
		validation    *domain.ValidationError
		unavailable   *domain.ProductUnavailableError
		insufficient  *domain.InsufficientStockError
		notCancelable *domain.NotCancellableError
		transition    *domain.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.As(err, &insufficient), errors.As(err, &unavailable):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notCancelable), errors.As(err, &transition),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrPaymentPending),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.Place(c.Request.Context(), services.PlaceOrderRequest{
		Lines:          req.Lines,
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
		PaymentStatus:  domain.PaymentStatus(req.PaymentStatus),
		DeliveryCharge: req.DeliveryCharge,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.invalidateOrder(order.ID)
	for _, line := range order.Lines {
		if line.ProductID != nil {
			h.invalidateProduct(*line.ProductID)
		}
	}

	c.JSON(http.StatusCreated, CreateOrderResponse{ID: order.ID, Status: string(order.Status)})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	cacheKey := "order:" + c.Param("id")
	if h.rdb != nil {
		if b, err := h.rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var order domain.Order
			if json.Unmarshal([]byte(b), &order) == nil {
				c.JSON(http.StatusOK, order)
				return
			}
		}
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(order); err == nil {
			h.rdb.Set(c.Request.Context(), cacheKey, data, 10*time.Second)
		}
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetOrdersByStatus(c *gin.Context) {
	orders, err := h.service.GetOrdersByStatus(c.Request.Context(), domain.OrderStatus(c.Param("status")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.VerifyPayment(c.Request.Context(), id, services.VerifyDecision(req.Decision), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.invalidateOrder(order.ID)
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.invalidateOrder(order.ID)
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), id, domain.CancelActor(req.Actor), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.invalidateOrder(order.ID)
	for _, line := range order.Lines {
		if line.ProductID != nil {
			h.invalidateProduct(*line.ProductID)
		}
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	cacheKey := "product:" + c.Param("id")
	if h.rdb != nil {
		if b, err := h.rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var p domain.Product
			if json.Unmarshal([]byte(b), &p) == nil {
				c.JSON(http.StatusOK, p)
				return
			}
		}
	}

	p, err := h.products.FindByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrProductNotFound.Error()})
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(p); err == nil {
			h.rdb.Set(c.Request.Context(), cacheKey, data, time.Minute)
		}
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) invalidateOrder(id uint64) {
	if h.rdb != nil {
		h.rdb.Del(context.Background(), "order:"+strconv.FormatUint(id, 10))
	}
}

func (h *Handler) invalidateProduct(id uint64) {
	if h.rdb != nil {
		h.rdb.Del(context.Background(), "product:"+strconv.FormatUint(id, 10))
	}
}
