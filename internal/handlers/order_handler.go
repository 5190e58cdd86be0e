package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/hemant18-09/pharmacy/internal/domain"
	"github.com/hemant18-09/pharmacy/internal/service"
	"github.com/hemant18-09/pharmacy/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderHandler serves the prescription order endpoints
type OrderHandler struct {
	orders *service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// CreateOrder handles POST /pharmacy/orders
// @Summary      Register a new prescription order
// @Description  Registers a prescription order in NEW status. Patient name, doctor name and at least one medication line with a drug name are required.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string              false  "Request ID for idempotency (UUID)"
// @Param        request       body      CreateOrderRequest  true   "Order intake payload"
// @Success      201           {object}  OrderDetailResponse    "Order registered"
// @Failure      400           {object}  errors.StandardError   "Missing or invalid fields"
// @Failure      401           {object}  errors.StandardError   "Missing or invalid token"
// @Router       /pharmacy/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid order payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, errors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	deliveryMode, err := domain.ParseDeliveryMode(req.DeliveryMode)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError(err.Error(), "delivery_mode"))
		return
	}

	medications := make([]domain.Medication, 0, len(req.Medications))
	for _, med := range req.Medications {
		medications = append(medications, domain.Medication{
			DrugName:     med.DrugName,
			Strength:     med.Strength,
			Frequency:    med.Frequency,
			Duration:     med.Duration,
			Instructions: med.Instructions,
		})
	}

	order, err := h.orders.Create(c.Request.Context(), service.CreateOrderParams{
		PatientName:          req.PatientName,
		PatientAge:           req.PatientAge,
		PatientGender:        req.PatientGender,
		PatientContactID:     req.PatientContactID,
		DoctorName:           req.DoctorName,
		DoctorRegistrationID: req.DoctorRegistrationID,
		Medications:          medications,
		DeliveryMode:         deliveryMode,
	})
	if err != nil {
		h.respondOrderError(c, "", err)
		return
	}

	c.JSON(http.StatusCreated, toOrderDetail(order))
}

// ListOrders handles GET /pharmacy/orders
// @Summary      List prescription orders
// @Description  Returns order summaries sorted by creation time. An optional status filter restricts the result; an unknown status value is a validation error, while a known status with no matches yields an empty list.
// @Tags         orders
// @Produce      json
// @Param        status  query     string  false  "Filter by lifecycle status"  Enums(NEW, ACCEPTED, PREPARING, READY, PICKED_UP, DELIVERED, REJECTED)
// @Success      200     {array}   OrderSummaryResponse
// @Failure      400     {object}  errors.StandardError  "Unknown status value"
// @Router       /pharmacy/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var filter *domain.Status
	if raw, ok := c.GetQuery("status"); ok {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.NewValidationError(err.Error(), "status"))
			return
		}
		filter = &status
	}

	orders, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.respondOrderError(c, "", err)
		return
	}

	summaries := make([]OrderSummaryResponse, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, toOrderSummary(order))
	}
	c.JSON(http.StatusOK, summaries)
}

// GetOrder handles GET /pharmacy/orders/:id
// @Summary      Get a prescription order
// @Description  Returns the full order record including medication lines and lifecycle timestamps.
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"  example(RX-4F2A9C1B)
// @Success      200  {object}  OrderDetailResponse
// @Failure      404  {object}  errors.StandardError  "Order not found"
// @Router       /pharmacy/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.respondOrderError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, toOrderDetail(order))
}

// UpdateStatus handles PATCH /pharmacy/orders/:id/status
// @Summary      Advance an order through its lifecycle
// @Description  Applies a status transition. Re-applying the stored status is a no-op success; a transition the lifecycle does not allow is a conflict and leaves the order untouched.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string               false  "Request ID for idempotency (UUID)"
// @Param        id            path      string               true   "Order ID"  example(RX-4F2A9C1B)
// @Param        request       body      UpdateStatusRequest  true   "Target status"
// @Success      200           {object}  UpdateStatusResponse   "Status applied (or already held)"
// @Failure      400           {object}  errors.StandardError   "Unknown status value"
// @Failure      401           {object}  errors.StandardError   "Missing or invalid token"
// @Failure      404           {object}  errors.StandardError   "Order not found"
// @Failure      409           {object}  errors.StandardError   "Transition not allowed"
// @Router       /pharmacy/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.NewValidationError(err.Error(), "status"))
		return
	}

	order, changed, err := h.orders.UpdateStatus(c.Request.Context(), id, target)
	if err != nil {
		if stderrors.Is(err, domain.ErrInvalidTransition) {
			from := ""
			if order != nil {
				from = string(order.Status)
			}
			c.JSON(http.StatusConflict, errors.NewInvalidTransition(from, string(target)))
			return
		}
		h.respondOrderError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, UpdateStatusResponse{
		ID:        order.ID,
		Status:    string(order.Status),
		ColorCode: order.Status.Color(),
		Changed:   changed,
	})
}

func (h *OrderHandler) respondOrderError(c *gin.Context, id string, err error) {
	var verr *domain.ValidationError
	switch {
	case err == domain.ErrOrderNotFound:
		c.JSON(http.StatusNotFound, errors.NewOrderNotFound(id))
	case stderrors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errors.NewValidationError(verr.Message, verr.Field))
	default:
		h.logger.Error("Order request failed", zap.String("order_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("internal server error", err))
	}
}
