package handler

import (
	"net/http"

	"medifind/internal/dto"
	"medifind/internal/middleware"
	"medifind/internal/model"
	"medifind/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PlaceOrderRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.orderService.PlaceOrder(ctx, middleware.UserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListUserOrders(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}

	order, err := h.orderService.GetOrder(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}

	var req dto.UpdateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.orderService.UpdateStatus(ctx, middleware.UserID(c), orderID, model.OrderStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListStoreOrders(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := paramID(c, "storeId")
	if !ok {
		return badRequest(c, "Invalid store ID")
	}

	orders, err := h.orderService.ListStoreOrders(ctx, middleware.UserID(c), storeID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, orders)
}
