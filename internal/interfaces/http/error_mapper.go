package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/aerostock/aerostock-api/internal/application/dto"
	"github.com/aerostock/aerostock-api/internal/domain"
)

// writeDomainError traduce la taxonomía de errores del dominio a HTTP.
// Todos los handlers pasan por aquí: un sentinel nuevo se mapea una sola vez.
func writeDomainError(c *fiber.Ctx, err error) error {
	// Stock insuficiente lleva el faltante en el cuerpo para que la UI pueda
	// sugerir ajustar la cantidad.
	var insufficientErr *domain.InsufficientStockError
	if errors.As(err, &insufficientErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   insufficientErr.Error(),
			Shortfall: insufficientErr.Shortfall(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PERMISSION_DENIED", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrItemNotAvailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ITEM_NOT_AVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrReservationState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STATE_ERROR", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateRequestNumber):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_REQUEST_NUMBER", Message: err.Error()})
	case errors.Is(err, domain.ErrGenerationFailure):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "GENERATION_FAILURE", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()})
	case errors.Is(err, domain.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ITEM_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrVoucherNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "VOUCHER_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
