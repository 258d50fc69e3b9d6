package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/transfers"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TransferHandler maneja las peticiones HTTP de traslados entre ubicaciones.
type TransferHandler struct {
	uc *transfers.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfers.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Mueve la cantidad de origen a destino y registra el traslado,
//
//	todo en una transacción. La cantidad total del repuesto no cambia.
//
// @Tags         stock-transfers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "part_id, from_location_id, to_location_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.uc.Create(c.Context(), requestUsername(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(transfer)
}

// List godoc
// @Summary      Listar traslados
// @Tags         stock-transfers
// @Produce      json
// @Param        part_id           query  string  false  "Filtrar por repuesto"
// @Param        from_location_id  query  string  false  "Filtrar por origen"
// @Param        to_location_id    query  string  false  "Filtrar por destino"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/stock-transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.TransferFilter{
		PartID:         c.Query("part_id"),
		FromLocationID: c.Query("from_location_id"),
		ToLocationID:   c.Query("to_location_id"),
	}
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
	return c.JSON(fiber.Map{"total": len(list), "transfers": list})
}

// Delete godoc
// @Summary      (No permitido) Eliminar traslado
// @Description  El log de traslados es inmutable: un traslado erróneo se
//
//	corrige registrando el traslado inverso.
//
// @Tags         stock-transfers
// @Param        id  path  string  true  "ID del traslado"
// @Failure      405  {object}  dto.ErrorResponse
// @Router       /api/stock-transfers/{id} [delete]
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.ErrorResponse{
		Code:    "METHOD_NOT_ALLOWED",
		Message: "los traslados no se eliminan: registre el traslado inverso",
	})
}
