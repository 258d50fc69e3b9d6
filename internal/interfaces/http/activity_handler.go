package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// ActivityHandler expone el log de actividad (solo lectura).
type ActivityHandler struct {
	recorder *activity.Recorder
}

// NewActivityHandler construye el handler.
func NewActivityHandler(recorder *activity.Recorder) *ActivityHandler {
	return &ActivityHandler{recorder: recorder}
}

// List godoc
// @Summary      Listar actividad reciente
// @Tags         activity
// @Produce      json
// @Success      200  {array}  dto.ActivityLogResponse
// @Router       /api/activity-logs [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	entries, err := h.recorder.List(page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	list := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, e := range entries {
		list = append(list, dto.ActivityLogResponse{
			ID:         e.ID,
			Username:   e.Username,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			EntityName: e.EntityName,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(list), "logs": list})
}
