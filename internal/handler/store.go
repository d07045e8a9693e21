package handler

import (
	"net/http"

	"medifind/internal/dto"
	"medifind/internal/middleware"
	"medifind/internal/service"

	"github.com/labstack/echo/v4"
)

type StoreHandler struct {
	catalogService   service.CatalogService
	inventoryService service.InventoryService
}

func NewStoreHandler(catalogService service.CatalogService, inventoryService service.InventoryService) *StoreHandler {
	return &StoreHandler{
		catalogService:   catalogService,
		inventoryService: inventoryService,
	}
}

func (h *StoreHandler) ListStores(c echo.Context) error {
	ctx := c.Request().Context()

	stores, err := h.catalogService.ListStores(ctx, c.QueryParam("query"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, stores)
}

func (h *StoreHandler) GetStore(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := paramID(c, "storeId")
	if !ok {
		return badRequest(c, "Invalid store ID")
	}

	store, err := h.catalogService.GetStore(ctx, storeID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, store)
}

func (h *StoreHandler) GetInventory(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := paramID(c, "storeId")
	if !ok {
		return badRequest(c, "Invalid store ID")
	}

	inventory, err := h.catalogService.StoreInventory(ctx, storeID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, inventory)
}

func (h *StoreHandler) GetInventoryItem(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := paramID(c, "storeId")
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	medicationID, ok := paramID(c, "medicationId")
	if !ok {
		return badRequest(c, "Invalid ID")
	}

	item, err := h.catalogService.InventoryItem(ctx, storeID, medicationID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *StoreHandler) Restock(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := paramID(c, "storeId")
	if !ok {
		return badRequest(c, "Invalid store ID")
	}

	var req dto.RestockRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	item, err := h.inventoryService.Restock(ctx, middleware.UserID(c), storeID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, item)
}
