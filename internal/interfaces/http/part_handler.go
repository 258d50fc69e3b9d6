package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// PartHandler maneja las peticiones HTTP del catálogo de repuestos.
type PartHandler struct {
	uc *catalog.PartUseCase
}

// NewPartHandler construye el handler.
func NewPartHandler(uc *catalog.PartUseCase) *PartHandler {
	return &PartHandler{uc: uc}
}

// Create godoc
// @Summary      Crear repuesto
// @Tags         parts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartRequest  true  "Datos del repuesto"
// @Success      201   {object}  dto.PartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/parts [post]
func (h *PartHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	part, err := h.uc.Create(requestUsername(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(part)
}

// List godoc
// @Summary      Listar repuestos
// @Tags         parts
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Param        search    query  string  false  "Buscar por nombre"
// @Success      200  {array}  dto.PartResponse
// @Router       /api/parts [get]
func (h *PartHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Query("category"), c.Query("search"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "parts": list})
}

// GetByID godoc
// @Summary      Obtener repuesto por ID
// @Tags         parts
// @Produce      json
// @Param        id  path  string  true  "ID del repuesto"
// @Success      200  {object}  dto.PartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [get]
func (h *PartHandler) GetByID(c *fiber.Ctx) error {
	part, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if part == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "repuesto no encontrado"})
	}
	return c.JSON(part)
}

// Update godoc
// @Summary      Actualizar campos descriptivos del repuesto
// @Description  El stock no se edita por aquí: solo lo mutan compras, ventas y traslados.
// @Tags         parts
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del repuesto"
// @Param        body  body  dto.UpdatePartRequest  true  "Campos a actualizar"
// @Success      200  {object}  dto.PartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [put]
func (h *PartHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	part, err := h.uc.Update(requestUsername(c), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(part)
}

// Delete godoc
// @Summary      Eliminar repuesto
// @Description  Elimina también su stock por ubicación y su historial de traslados.
// @Tags         parts
// @Param        id  path  string  true  "ID del repuesto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [delete]
func (h *PartHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(requestUsername(c), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StockByLocation godoc
// @Summary      Stock del repuesto por ubicación
// @Tags         parts
// @Produce      json
// @Param        id  path  string  true  "ID del repuesto"
// @Success      200  {array}  dto.PartLocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/locations [get]
func (h *PartHandler) StockByLocation(c *fiber.Ctx) error {
	list, err := h.uc.StockByLocation(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "locations": list})
}
