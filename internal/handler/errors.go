package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medifind/internal/dto"
	"medifind/internal/service"

	"github.com/labstack/echo/v4"
)

// respondError maps service errors onto status codes. Anything unknown becomes
// an opaque 500; the cause stays on the HTTPError for the request logger.
func respondError(c echo.Context, err error) error {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		stockErr      *service.InsufficientStockError
		priceErr      *service.PriceMismatchError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: validationErr.Message,
			Errors:  validationErr.Fields,
		})
	case errors.As(err, &notFoundErr):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: notFoundErr.Message})
	case errors.As(err, &stockErr):
		return c.JSON(http.StatusBadRequest, dto.InsufficientStockResponse{
			Message:      stockErr.Error(),
			MedicationID: stockErr.MedicationID,
			Available:    stockErr.Available,
			Requested:    stockErr.Requested,
		})
	case errors.As(err, &priceErr):
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Message: priceErr.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Forbidden"})
	case errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	}

	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

func paramID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: message})
}

// bind decodes the body and runs the struct validator registered on echo.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return &service.ValidationError{Message: "Invalid input", Fields: map[string]string{"body": "malformed json"}}
	}
	return c.Validate(req)
}
