// Package http provides HTTP handlers for order management operations.
// Orders are created here by the storefront and settled asynchronously by the
// payment-notification reconciliation engine.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/etransfer/internal/httputil"
	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
	"github.com/orderdesk/etransfer/internal/orders/http/dto"
	ordersUseCase "github.com/orderdesk/etransfer/internal/orders/usecase"
	customValidation "github.com/orderdesk/etransfer/internal/validation"
)

// OrderHandler handles HTTP requests for order management operations.
type OrderHandler struct {
	orderUseCase ordersUseCase.OrderUseCase
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler with required dependencies.
func NewOrderHandler(orderUseCase ordersUseCase.OrderUseCase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
		logger:       logger,
	}
}

// CreateHandler creates a new order.
// POST /v1/orders
// Returns 201 Created with the persisted order.
func (h *OrderHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	order := req.ToDomain()
	if err := h.orderUseCase.Create(c.Request.Context(), order); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOrderToResponse(order))
}

// GetHandler retrieves an order by ID.
// GET /v1/orders/:id
// Returns 200 OK with the order.
func (h *OrderHandler) GetHandler(c *gin.Context) {
	id, err := parseOrderID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	order, err := h.orderUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderToResponse(order))
}

// ListHandler lists orders, most recent first.
// GET /v1/orders?status=&customer_email=&external_order_id=&offset=&limit=
// Returns 200 OK with a list of orders.
func (h *OrderHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := ordersDomain.OrderFilter{
		Status:          ordersDomain.NormalizeStatus(c.Query("status")),
		CustomerEmail:   c.Query("customer_email"),
		ExternalOrderID: c.Query("external_order_id"),
		Limit:           limit,
		Offset:          offset,
	}

	orders, err := h.orderUseCase.List(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrdersToListResponse(orders))
}

// UpdateStatusHandler transitions an order to a new status.
// PATCH /v1/orders/:id/status
// Returns 200 OK with the updated order. Transitioning to the current status
// is a no-op and still returns 200.
func (h *OrderHandler) UpdateStatusHandler(c *gin.Context) {
	id, err := parseOrderID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateOrderStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	order, _, _, err := h.orderUseCase.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderToResponse(order))
}

// DeleteHandler removes an order by ID.
// DELETE /v1/orders/:id
// Returns 204 No Content.
func (h *OrderHandler) DeleteHandler(c *gin.Context) {
	id, err := parseOrderID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.orderUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseOrderID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id: must be a positive integer")
	}
	return id, nil
}
