package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-service/middlewares"
	"shop-service/models"
	"shop-service/utils"
)

func (h *Handlers) ListOrders(c *gin.Context) {
	defer func() {
		middlewares.RecordOrderOperation("list", c.Writer.Status() < 400)
	}()

	page := utils.ParsePagination(c.Query("limit"), c.Query("offset"))
	withItems := c.Query("with_items") == "true"

	orders, err := h.Orders.ListOrders(c.Request.Context(), page.Limit, page.Offset, withItems)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "limit": page.Limit, "offset": page.Offset})
}

func (h *Handlers) GetOrder(c *gin.Context) {
	defer func() {
		middlewares.RecordOrderOperation("get", c.Writer.Status() < 400)
	}()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := h.Orders.GetOrder(c.Request.Context(), id, c.Query("with_items") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handlers) GetOrdersByIDs(c *gin.Context) {
	var req struct {
		OrderIDs  []uuid.UUID `json:"order_ids" binding:"required"`
		WithItems bool        `json:"with_items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.Orders.GetManyOrders(c.Request.Context(), req.OrderIDs, req.WithItems)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handlers) CreateOrder(c *gin.Context) {
	defer func() {
		middlewares.RecordOrderOperation("create", c.Writer.Status() < 400)
	}()

	var req models.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
	h.publishOrderEvent(order.ID, "created")
}

// CreateOrderWithProducts creates the full order aggregate. Product
// resolution, the order insert and every association run in one
// transaction; a missing product fails everything.
func (h *Handlers) CreateOrderWithProducts(c *gin.Context) {
	defer func() {
		middlewares.RecordOrderOperation("create_with_products", c.Writer.Status() < 400)
	}()

	var req models.OrderCreateWithProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.CreateOrderWithProducts(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
	h.publishOrderEvent(order.ID, "created")
}

func (h *Handlers) UpdateOrder(c *gin.Context) {
	h.updateOrderScalar(c, false)
}

func (h *Handlers) PatchOrder(c *gin.Context) {
	h.updateOrderScalar(c, true)
}

func (h *Handlers) updateOrderScalar(c *gin.Context, partial bool) {
	defer func() {
		middlewares.RecordOrderOperation("update", c.Writer.Status() < 400)
	}()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req models.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := models.OrderPatch{
		SetUserID:    !partial || req.UserID != nil,
		UserID:       req.UserID,
		SetPromoCode: !partial || req.PromoCode != nil,
		PromoCode:    req.PromoCode,
	}

	order, err := h.Orders.UpdateOrder(c.Request.Context(), id, patch, partial)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
	h.publishOrderEvent(order.ID, "updated")
}

// PatchOrderWithProducts reconciles the order's line items against the
// patch. Items named in the patch are updated or added; the rest stay.
func (h *Handlers) PatchOrderWithProducts(c *gin.Context) {
	defer func() {
		middlewares.RecordOrderOperation("update_with_products", c.Writer.Status() < 400)
	}()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		UserID    *uuid.UUID              `json:"user_id"`
		PromoCode *string                 `json:"promo_code"`
		Products  []models.OrderItemPatch `json:"products_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := models.OrderPatch{
		SetUserID:    req.UserID != nil,
		UserID:       req.UserID,
		SetPromoCode: req.PromoCode != nil,
		PromoCode:    req.PromoCode,
		Items:        req.Products,
	}

	order, err := h.Orders.UpdateOrderWithProducts(c.Request.Context(), id, patch, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
	h.publishOrderEvent(order.ID, "updated")
}

func (h *Handlers) DeleteOrder(c *gin.Context) {
	defer func() {
		middlewares.RecordOrderOperation("delete", c.Writer.Status() < 400)
	}()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	if err := h.Orders.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
	h.publishOrderEvent(id, "deleted")
}

// publishOrderEvent runs after the transaction committed and the
// response was written; a broker failure is logged, never surfaced.
func (h *Handlers) publishOrderEvent(orderID uuid.UUID, eventType string) {
	if h.RMQ == nil {
		return
	}
	event := models.OrderEvent{
		OrderID:  orderID,
		Type:     eventType,
		Occurred: time.Now().UTC(),
	}
	if err := h.RMQ.PublishOrderEvent(event, 5); err != nil {
		log.Printf("Failed to publish order %s event: %v", eventType, err)
	}
}
