package handler

import (
	"net/http"

	"medifind/internal/service"

	"github.com/labstack/echo/v4"
)

type MedicationHandler struct {
	catalogService service.CatalogService
}

func NewMedicationHandler(catalogService service.CatalogService) *MedicationHandler {
	return &MedicationHandler{
		catalogService: catalogService,
	}
}

func (h *MedicationHandler) ListMedications(c echo.Context) error {
	ctx := c.Request().Context()

	medications, err := h.catalogService.ListMedications(ctx, c.QueryParam("query"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, medications)
}

func (h *MedicationHandler) GetMedication(c echo.Context) error {
	ctx := c.Request().Context()

	medicationID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid medication ID")
	}

	medication, err := h.catalogService.GetMedication(ctx, medicationID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, medication)
}
