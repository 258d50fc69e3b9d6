package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	uc *sales.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock y persiste la venta en la misma transacción.
//
//	Si el repuesto maneja stock por ubicación, location_id es obligatorio.
//
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Datos de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.Create(c.Context(), requestUsername(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        customer_id  query  string  false  "Filtrar por cliente"
// @Param        from         query  string  false  "Desde (RFC 3339)"
// @Param        to           query  string  false  "Hasta (RFC 3339)"
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.SaleFilter{CustomerID: c.Query("customer_id")}
	var ok bool
	if filter.From, ok = parseTimeQuery(c, "from"); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'from' inválida"})
	}
	if filter.To, ok = parseTimeQuery(c, "to"); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'to' inválida"})
	}

	list, err := h.uc.List(filter, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "sales": list})
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if sale == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	}
	return c.JSON(sale)
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Restaura el stock vendido en la misma transacción que borra la venta.
// @Tags         sales
// @Param        id  path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), requestUsername(c), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseTimeQuery parsea un query param RFC 3339 opcional. ok=false solo si
// viene con formato inválido.
func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
