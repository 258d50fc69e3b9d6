package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/purchases"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// PurchaseHandler maneja las peticiones HTTP de compras.
type PurchaseHandler struct {
	uc *purchases.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchases.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar compra
// @Description  Ingresa stock y persiste la compra en la misma transacción.
//
//	location_id indica la ubicación de destino; omitirlo solo es
//	válido para repuestos sin stock por ubicación.
//
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Datos de la compra"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	purchase, err := h.uc.Create(c.Context(), requestUsername(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(purchase)
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Produce      json
// @Param        part_id  query  string  false  "Filtrar por repuesto"
// @Param        from     query  string  false  "Desde (RFC 3339)"
// @Param        to       query  string  false  "Hasta (RFC 3339)"
// @Success      200  {array}  dto.PurchaseResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.PurchaseFilter{PartID: c.Query("part_id")}
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
	return c.JSON(fiber.Map{"total": len(list), "purchases": list})
}

// GetByID godoc
// @Summary      Obtener compra por ID
// @Tags         purchases
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	purchase, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if purchase == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "compra no encontrada"})
	}
	return c.JSON(purchase)
}

// Delete godoc
// @Summary      Eliminar compra
// @Description  Retira el stock recibido en la misma transacción que borra la
//
//	compra. Si el stock ya se consumió devuelve 409.
//
// @Tags         purchases
// @Param        id  path  string  true  "ID de la compra"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), requestUsername(c), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
