package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// PartLocationHandler maneja la asignación de repuestos a ubicaciones.
type PartLocationHandler struct {
	uc *catalog.AllocationUseCase
}

// NewPartLocationHandler construye el handler.
func NewPartLocationHandler(uc *catalog.AllocationUseCase) *PartLocationHandler {
	return &PartLocationHandler{uc: uc}
}

// Allocate godoc
// @Summary      Asignar repuesto a ubicación
// @Description  Crea la fila de stock en cero. La primera asignación pasa el
//
//	repuesto a modo de stock por ubicación.
//
// @Tags         part-locations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocatePartLocationRequest  true  "part_id, location_id, min_stock_level opcional"
// @Success      201   {object}  dto.PartLocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/part-locations [post]
func (h *PartLocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocatePartLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pl, err := h.uc.Allocate(c.Context(), requestUsername(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pl)
}

// SetThreshold godoc
// @Summary      Cambiar umbral de reorden
// @Tags         part-locations
// @Accept       json
// @Param        body  body  dto.SetThresholdRequest  true  "part_id, location_id, min_stock_level"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/part-locations/threshold [put]
func (h *PartLocationHandler) SetThreshold(c *fiber.Ctx) error {
	var in dto.SetThresholdRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetThreshold(in); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Deallocate godoc
// @Summary      Quitar asignación de repuesto a ubicación
// @Description  Solo se permite con cantidad en cero; con stock devuelve 409.
// @Tags         part-locations
// @Param        part_id      query  string  true  "ID del repuesto"
// @Param        location_id  query  string  true  "ID de la ubicación"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/part-locations [delete]
func (h *PartLocationHandler) Deallocate(c *fiber.Ctx) error {
	partID := c.Query("part_id")
	locationID := c.Query("location_id")
	if partID == "" || locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "part_id y location_id son obligatorios"})
	}
	if err := h.uc.Deallocate(requestUsername(c), partID, locationID); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
