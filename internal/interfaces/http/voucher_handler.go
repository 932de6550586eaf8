package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/aerostock/aerostock-api/internal/application/dto"
	"github.com/aerostock/aerostock-api/internal/application/voucher"
	"github.com/aerostock/aerostock-api/internal/domain/entity"
)

// VoucherHandler maneja las peticiones HTTP del ciclo de vida de vales (protegido).
type VoucherHandler struct {
	workflow *voucher.WorkflowUseCase
	queries  *voucher.QueryUseCase
	pdf      *voucher.PDFUseCase
}

// NewVoucherHandler construye el handler.
func NewVoucherHandler(workflow *voucher.WorkflowUseCase, queries *voucher.QueryUseCase, pdf *voucher.PDFUseCase) *VoucherHandler {
	return &VoucherHandler{workflow: workflow, queries: queries, pdf: pdf}
}

// Create godoc
// @Summary      Crear vale de material
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVoucherRequest  true  "Datos del vale"
// @Success      201   {object}  dto.VoucherResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vouchers [post]
func (h *VoucherHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVoucherRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := voucher.CreateInput{
		Type:               in.Type,
		ProjectName:        in.ProjectName,
		ExpectedReturnDate: in.ExpectedReturnDate,
		Notes:              in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, voucher.LineInput{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	out, err := h.workflow.Create(c.UserContext(), GetActor(c), input)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toVoucherResponse(out))
}

// List godoc
// @Summary      Listar vales visibles para el actor
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.VoucherResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/vouchers [get]
func (h *VoucherHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	vouchers, err := h.queries.ListForActor(GetActor(c), limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		out = append(out, *toVoucherResponse(v))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener vale por ID
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vale"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id} [get]
func (h *VoucherHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	v, err := h.queries.GetForActor(GetActor(c), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toVoucherResponse(v))
}

// Approve godoc
// @Summary      Aprobar vale (reserva el material de los retiros)
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vale"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/approve [post]
func (h *VoucherHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.workflow.Approve)
}

// Reject godoc
// @Summary      Rechazar vale
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vale"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/reject [post]
func (h *VoucherHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.workflow.Reject)
}

// Issue godoc
// @Summary      Emitir el material de un vale aprobado
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vale"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/issue [post]
func (h *VoucherHandler) Issue(c *fiber.Ctx) error {
	return h.transition(c, h.workflow.Issue)
}

// Complete godoc
// @Summary      Completar vale emitido (registra la entrada del material)
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del vale"
// @Param        body  body  dto.CompleteVoucherRequest  false  "Fecha real de devolución"
// @Success      200   {object}  dto.VoucherResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/complete [post]
func (h *VoucherHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.CompleteVoucherRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.workflow.Complete(c.UserContext(), GetActor(c), id, in.ActualReturnDate)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toVoucherResponse(out))
}

// PDF godoc
// @Summary      Descargar el vale en PDF
// @Tags         vouchers
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del vale"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/pdf [get]
func (h *VoucherHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	data, err := h.pdf.GeneratePDF(c.UserContext(), GetActor(c), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="vale.pdf"`)
	return c.Send(data)
}

// transition factoriza approve/reject/issue: mismo contrato HTTP, distinta operación.
func (h *VoucherHandler) transition(
	c *fiber.Ctx,
	op func(ctx context.Context, actor entity.Actor, voucherID string) (*entity.Voucher, error),
) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := op(c.UserContext(), GetActor(c), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toVoucherResponse(out))
}

// toVoucherResponse arma la representación pública de un vale.
func toVoucherResponse(v *entity.Voucher) *dto.VoucherResponse {
	if v == nil {
		return nil
	}
	out := &dto.VoucherResponse{
		ID:                 v.ID,
		RequestNumber:      v.RequestNumber,
		Type:               v.Type,
		Status:             v.Status,
		RequestedBy:        dto.ActorRefDTO{ID: v.RequestedBy.ID, Name: v.RequestedBy.Name, Role: v.RequestedBy.Role},
		ApprovedBy:         toActorRefDTO(v.ApprovedBy),
		IssuedBy:           toActorRefDTO(v.IssuedBy),
		CompletedBy:        toActorRefDTO(v.CompletedBy),
		ProjectName:        v.ProjectName,
		RequestDate:        v.RequestDate,
		ApprovalDate:       v.ApprovalDate,
		IssueDate:          v.IssueDate,
		ExpectedReturnDate: v.ExpectedReturnDate,
		ActualReturnDate:   v.ActualReturnDate,
		Notes:              v.Notes,
	}
	for _, l := range v.Lines {
		out.Lines = append(out.Lines, dto.VoucherLineResponse{
			ItemID:        l.ItemID,
			Quantity:      l.Quantity,
			ReservationID: l.ReservationID,
		})
	}
	return out
}

func toActorRefDTO(a *entity.ActorRef) *dto.ActorRefDTO {
	if a == nil {
		return nil
	}
	return &dto.ActorRefDTO{ID: a.ID, Name: a.Name, Role: a.Role}
}
