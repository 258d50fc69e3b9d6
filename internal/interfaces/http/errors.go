package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// respondDomainError traduce los errores de dominio a respuestas HTTP.
// Los errores tipados del ledger (stock insuficiente, stock negativo) llevan
// detalle estructurado; los centinelas se traducen a códigos estables.
func respondDomainError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		available := insufficient.Available
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   "stock insuficiente",
			Available: &available,
		})
	}
	var negative *domain.NegativeStockError
	if errors.As(err, &negative) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "CONFLICT",
			Message: "la operación dejaría stock negativo",
		})
	}
	switch {
	case errors.Is(err, domain.ErrLocationRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "LOCATION_REQUIRED",
			Message: "el repuesto maneja stock por ubicación: indique la ubicación",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el registro ya existe"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la operación entra en conflicto con el estado actual"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// requestUsername identifica al usuario para el log de actividad.
// Sin autenticación en esta API, se toma del header y cae a "system".
func requestUsername(c *fiber.Ctx) string {
	if u := c.Get("X-Username"); u != "" {
		return u
	}
	return "system"
}
