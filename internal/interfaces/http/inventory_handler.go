package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del Ledger de inventario.
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// CreateMovement godoc
// @Summary      Registrar movimiento de stock (entrada o salida)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, err := h.ledger.ApplyMovement(c.Context(), inventory.MovementInput{
		MedicineID:  in.MedicineID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementToResponse(movement))
}

// ListMovements godoc
// @Summary      Listar movimientos de stock (más reciente primero)
// @Tags         inventory
// @Produce      json
// @Param        medicine_id  query  string  false  "Filtrar por medicamento"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.ledger.ListMovements(c.Context(), c.Query("medicine_id"), limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]*dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, movementToResponse(m))
	}
	return c.JSON(out)
}

// AdjustStock godoc
// @Summary      Fijar el stock en un valor absoluto (registra el delta como movimiento)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        medicineId  path  string  true  "ID del medicamento"
// @Param        body        body  dto.AdjustStockRequest  true  "Nuevo stock"
// @Success      200  {object}  dto.MedicineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{medicineId} [put]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	medicineID := pathParam(c, "medicineId")
	if err := h.ledger.AdjustStock(c.Context(), medicineID, in.Quantity, in.Notes); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"medicine_id": medicineID, "stock_quantity": in.Quantity})
}

func movementToResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:          m.ID,
		MedicineID:  m.MedicineID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		ReferenceID: m.ReferenceID,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}
