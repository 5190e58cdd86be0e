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

// InventoryHandler serves the stock ledger endpoints
type InventoryHandler struct {
	inventory *service.InventoryService
	logger    *zap.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventory *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// ListInventory handles GET /pharmacy/inventory
// @Summary      List inventory batches
// @Description  Returns every medicine batch sorted by expiry date (soonest first), each carrying its low-stock and expiring-soon flags computed at response time.
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  InventoryItemResponse
// @Router       /pharmacy/inventory [get]
func (h *InventoryHandler) ListInventory(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		h.respondInventoryError(c, "", err)
		return
	}

	responses := make([]InventoryItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toInventoryItem(item))
	}
	c.JSON(http.StatusOK, responses)
}

// AddItem handles POST /pharmacy/inventory/add
// @Summary      Add a medicine batch
// @Description  Registers a new batch. Drug name, strength, batch number and a parsable expiry date are required; quantity and threshold must not be negative. The expiry date accepts RFC 3339 or YYYY-MM-DD.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string          false  "Request ID for idempotency (UUID)"
// @Param        request       body      AddItemRequest  true   "Batch payload"
// @Success      201           {object}  InventoryItemResponse  "Batch registered"
// @Failure      400           {object}  errors.StandardError   "Missing or invalid fields"
// @Failure      401           {object}  errors.StandardError   "Missing or invalid token"
// @Router       /pharmacy/inventory/add [post]
func (h *InventoryHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid inventory payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, errors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	status, err := h.inventory.Add(c.Request.Context(), service.AddItemParams{
		DrugName:    req.DrugName,
		Strength:    req.Strength,
		Quantity:    req.Quantity,
		ExpiryDate:  req.ExpiryDate,
		BatchNumber: req.BatchNumber,
		Threshold:   req.Threshold,
	})
	if err != nil {
		h.respondInventoryError(c, "", err)
		return
	}

	c.JSON(http.StatusCreated, toInventoryItem(status))
}

// UpdateStock handles POST /pharmacy/inventory/update
// @Summary      Overwrite an item's stock count
// @Description  Sets the absolute stock count for a batch. Negative quantities are rejected and leave the stored count untouched.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string              false  "Request ID for idempotency (UUID)"
// @Param        request       body      UpdateStockRequest  true   "Absolute stock count"
// @Success      200           {object}  InventoryItemResponse
// @Failure      400           {object}  errors.StandardError  "Negative quantity"
// @Failure      401           {object}  errors.StandardError  "Missing or invalid token"
// @Failure      404           {object}  errors.StandardError  "Item not found"
// @Router       /pharmacy/inventory/update [post]
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	status, err := h.inventory.SetQuantity(c.Request.Context(), req.ItemID, req.Quantity)
	if err != nil {
		h.respondInventoryError(c, req.ItemID, err)
		return
	}

	c.JSON(http.StatusOK, toInventoryItem(status))
}

// AdjustStock handles POST /pharmacy/inventory/adjust
// @Summary      Adjust an item's stock count
// @Description  Applies a signed delta to a batch's stock count. An adjustment that would take the count below zero is rejected and leaves the stored count untouched.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string              false  "Request ID for idempotency (UUID)"
// @Param        request       body      AdjustStockRequest  true   "Signed stock delta"
// @Success      200           {object}  InventoryItemResponse
// @Failure      400           {object}  errors.StandardError  "Insufficient stock"
// @Failure      401           {object}  errors.StandardError  "Missing or invalid token"
// @Failure      404           {object}  errors.StandardError  "Item not found"
// @Router       /pharmacy/inventory/adjust [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	status, err := h.inventory.AdjustQuantity(c.Request.Context(), req.ItemID, req.Delta)
	if err != nil {
		h.respondInventoryError(c, req.ItemID, err)
		return
	}

	c.JSON(http.StatusOK, toInventoryItem(status))
}

// DeleteItem handles DELETE /pharmacy/inventory/:id
// @Summary      Delete a medicine batch
// @Description  Removes a batch permanently. Repeating the delete reports the item as not found.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string  false  "Request ID for idempotency (UUID)"
// @Param        id            path      string  true   "Item ID (UUID)"  example(550e8400-e29b-41d4-a716-446655440000)
// @Success      200           {object}  SuccessResponse       "Batch deleted"
// @Failure      401           {object}  errors.StandardError  "Missing or invalid token"
// @Failure      404           {object}  errors.StandardError  "Item not found"
// @Router       /pharmacy/inventory/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id := c.Param("id")

	if err := h.inventory.Delete(c.Request.Context(), id); err != nil {
		h.respondInventoryError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "item deleted successfully"})
}

func (h *InventoryHandler) respondInventoryError(c *gin.Context, id string, err error) {
	var verr *domain.ValidationError
	switch {
	case err == domain.ErrItemNotFound:
		c.JSON(http.StatusNotFound, errors.NewItemNotFound(id))
	case err == domain.ErrNegativeQuantity:
		c.JSON(http.StatusBadRequest, errors.NewValidationError(err.Error(), "quantity"))
	case err == domain.ErrInsufficientStock:
		c.JSON(http.StatusBadRequest, errors.NewValidationError(err.Error(), "delta"))
	case stderrors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errors.NewValidationError(verr.Message, verr.Field))
	default:
		h.logger.Error("Inventory request failed", zap.String("item_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("internal server error", err))
	}
}
