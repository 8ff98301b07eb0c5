package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"brewmenu/middlewares"
	"brewmenu/realtime"
	"brewmenu/repository"
	"brewmenu/services"
	"brewmenu/utils"
)

var errNotFound = errors.New("not found")

type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{Service: service}
}

// CreateOrder -> POST /orders, turns a submitted cart into an order.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.Submit(req)
	if err != nil {
		middlewares.RecordOrderOperation("submit", "error")
		if errors.Is(err, services.ErrEmptyOrder) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	middlewares.RecordOrderOperation("submit", "success")
	realtime.BroadcastOrderChange(order)
	utils.RespondOrder(c, http.StatusOK, order)
}

// GetAllOrders -> list orders newest first with table and items, for staff.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Service.List()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondOrders(c, http.StatusOK, orders)
}

// GetOrderByID -> detail of one order, nested items and table.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := parseID(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.Get(id)
	if err != nil {
		oc.respondServiceError(c, err)
		return
	}
	utils.RespondOrder(c, http.StatusOK, order)
}

// UpdateOrder -> staff PATCH of status / payment fields.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, err := parseID(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var upd services.OrderUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.Update(id, upd)
	if err != nil {
		middlewares.RecordOrderOperation("update", "error")
		oc.respondServiceError(c, err)
		return
	}

	middlewares.RecordOrderOperation("update", "success")
	realtime.BroadcastOrderChange(order)
	utils.RespondOrder(c, http.StatusOK, order)
}

// DeleteOrder -> soft cancel; the row stays with status=cancelled.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := parseID(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.Cancel(id)
	if err != nil {
		middlewares.RecordOrderOperation("cancel", "error")
		oc.respondServiceError(c, err)
		return
	}

	middlewares.RecordOrderOperation("cancel", "success")
	realtime.BroadcastOrderChange(order)
	utils.RespondOrder(c, http.StatusOK, order)
}

// UpdateOrderItem -> kitchen advances one line (pending -> cooking -> ready
// -> served); order-level status rolls forward with the lines.
func (oc *OrderController) UpdateOrderItem(c *gin.Context) {
	orderID, err := parseID(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	itemID, err := parseID(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.UpdateItemStatus(orderID, itemID, body.Status)
	if err != nil {
		oc.respondServiceError(c, err)
		return
	}

	realtime.BroadcastOrderChange(order)
	utils.RespondOrder(c, http.StatusOK, order)
}

func (oc *OrderController) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, errNotFound)
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
