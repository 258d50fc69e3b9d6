package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// LocationHandler maneja las peticiones HTTP de ubicaciones.
type LocationHandler struct {
	uc         *catalog.LocationUseCase
	allocation *catalog.AllocationUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *catalog.LocationUseCase, allocation *catalog.AllocationUseCase) *LocationHandler {
	return &LocationHandler{uc: uc, allocation: allocation}
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "Nombre y descripción"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	location, err := h.uc.Create(requestUsername(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List()
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "locations": list})
}

// Delete godoc
// @Summary      Eliminar ubicación
// @Description  Se rechaza con 409 si la ubicación todavía tiene stock.
// @Tags         locations
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(requestUsername(c), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stock godoc
// @Summary      Stock asignado a la ubicación
// @Tags         locations
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {array}  dto.PartLocationResponse
// @Router       /api/locations/{id}/stock [get]
func (h *LocationHandler) Stock(c *fiber.Ctx) error {
	list, err := h.allocation.ListByLocation(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "stock": list})
}
