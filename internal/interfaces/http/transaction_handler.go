package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/sales"
)

// TransactionHandler maneja las peticiones HTTP de ventas.
type TransactionHandler struct {
	create  *sales.CreateTransactionUseCase
	status  *sales.UpdateStatusUseCase
	receipt *sales.ReceiptUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(
	create *sales.CreateTransactionUseCase,
	status *sales.UpdateStatusUseCase,
	receipt *sales.ReceiptUseCase,
) *TransactionHandler {
	return &TransactionHandler{create: create, status: status, receipt: receipt}
}

// Create godoc
// @Summary      Crear venta (descuenta stock y registra visita, atómico)
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "Venta"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.create.CreateTransaction(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID con sus líneas
// @Tags         transactions
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.create.GetTransaction(c.Context(), pathParam(c, "id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas (más reciente primero)
// @Tags         transactions
// @Produce      json
// @Param        status  query  string  false  "pending | paid | cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.TransactionResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.create.ListTransactions(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de pago (anular restituye stock, reactivar lo descuenta)
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/status [patch]
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if _, err := h.status.UpdateStatus(c.Context(), pathParam(c, "id"), in.Status); err != nil {
		return domainError(c, err)
	}
	return h.GetByID(c)
}

// AddNotes godoc
// @Summary      Actualizar las notas de una venta
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.AddNotesRequest  true  "Notas"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/notes [patch]
func (h *TransactionHandler) AddNotes(c *fiber.Ctx) error {
	var in dto.AddNotesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if _, err := h.status.AddNotes(c.Context(), pathParam(c, "id"), in.Notes); err != nil {
		return domainError(c, err)
	}
	return h.GetByID(c)
}

// Receipt godoc
// @Summary      Descargar el recibo de la venta en PDF
// @Tags         transactions
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/receipt [get]
func (h *TransactionHandler) Receipt(c *fiber.Ctx) error {
	id := pathParam(c, "id")
	pdfBytes, err := h.receipt.GenerateReceipt(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="recibo-`+id+`.pdf"`)
	return c.Send(pdfBytes)
}
