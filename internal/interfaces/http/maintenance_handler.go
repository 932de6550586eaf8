package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aerostock/aerostock-api/internal/application/dto"
	"github.com/aerostock/aerostock-api/internal/application/usecase"
)

// MaintenanceHandler maneja el calendario de mantenimiento (protegido).
type MaintenanceHandler struct {
	uc *usecase.MaintenanceUseCase
}

// NewMaintenanceHandler construye el handler.
func NewMaintenanceHandler(uc *usecase.MaintenanceUseCase) *MaintenanceHandler {
	return &MaintenanceHandler{uc: uc}
}

// Schedule godoc
// @Summary      Programar mantenimiento de un artículo
// @Tags         maintenance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaintenanceRequest  true  "Datos del evento"
// @Success      201   {object}  dto.MaintenanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/maintenance [post]
func (h *MaintenanceHandler) Schedule(c *fiber.Ctx) error {
	var in dto.CreateMaintenanceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id es requerido"})
	}
	out, err := h.uc.Schedule(GetActor(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar evento de mantenimiento
// @Tags         maintenance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del evento"
// @Param        body  body  dto.UpdateMaintenanceRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.MaintenanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/maintenance/{id} [put]
func (h *MaintenanceHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateMaintenanceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(GetActor(c), id, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar evento programado
// @Tags         maintenance
// @Security     Bearer
// @Param        id   path  string  true  "ID del evento"
// @Success      204  "Sin contenido"
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/maintenance/{id} [delete]
func (h *MaintenanceHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(GetActor(c), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByRange godoc
// @Summary      Listar eventos por rango de fechas (calendario)
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Inicio (RFC3339 o 2006-01-02)"
// @Param        to    query  string  true  "Fin (RFC3339 o 2006-01-02)"
// @Success      200   {array}  dto.MaintenanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/maintenance [get]
func (h *MaintenanceHandler) ListByRange(c *fiber.Ctx) error {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido"})
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido"})
	}
	out, err := h.uc.ListByRange(from, to)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ListByItem godoc
// @Summary      Historial de mantenimiento de un artículo
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del artículo"
// @Success      200     {array}  dto.MaintenanceResponse
// @Router       /api/items/{itemId}/maintenance [get]
func (h *MaintenanceHandler) ListByItem(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "itemId es requerido"})
	}
	out, err := h.uc.ListByItem(itemID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// parseDate acepta RFC3339 o fecha simple 2006-01-02.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
