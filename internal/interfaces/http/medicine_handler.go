package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/usecase"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// MedicineHandler maneja las peticiones HTTP del catálogo de medicamentos.
// El stock no se edita por aquí: todo cambio de stock pasa por /api/inventory.
type MedicineHandler struct {
	uc *usecase.MedicineUseCase
}

// NewMedicineHandler construye el handler.
func NewMedicineHandler(uc *usecase.MedicineUseCase) *MedicineHandler {
	return &MedicineHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar medicamento
// @Tags         medicines
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMedicineRequest  true  "Datos del medicamento"
// @Success      201   {object}  dto.MedicineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/medicines [post]
func (h *MedicineHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMedicineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	medicine, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(medicineToResponse(medicine))
}

// GetByID godoc
// @Summary      Obtener medicamento por ID
// @Tags         medicines
// @Produce      json
// @Param        id   path  string  true  "ID del medicamento"
// @Success      200  {object}  dto.MedicineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [get]
func (h *MedicineHandler) GetByID(c *fiber.Ctx) error {
	medicine, err := h.uc.GetByID(c.Context(), pathParam(c, "id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(medicineToResponse(medicine))
}

// List godoc
// @Summary      Listar medicamentos
// @Tags         medicines
// @Produce      json
// @Param        low_stock  query  bool  false  "Solo stock <= mínimo"
// @Param        limit      query  int   false  "Límite"  default(20)
// @Param        offset     query  int   false  "Offset"  default(0)
// @Success      200        {array}  dto.MedicineResponse
// @Router       /api/medicines [get]
func (h *MedicineHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.Context(), c.QueryBool("low_stock", false), limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]*dto.MedicineResponse, 0, len(list))
	for _, m := range list {
		out = append(out, medicineToResponse(m))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar medicamento (sin stock)
// @Tags         medicines
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del medicamento"
// @Param        body  body  dto.UpdateMedicineRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.MedicineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [put]
func (h *MedicineHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMedicineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	medicine, err := h.uc.Update(c.Context(), pathParam(c, "id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(medicineToResponse(medicine))
}

// Delete godoc
// @Summary      Eliminar medicamento (solo sin ventas; borra su historial)
// @Tags         medicines
// @Param        id  path  string  true  "ID del medicamento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [delete]
func (h *MedicineHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), pathParam(c, "id")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func medicineToResponse(m *entity.Medicine) *dto.MedicineResponse {
	resp := &dto.MedicineResponse{
		ID:            m.ID,
		Name:          m.Name,
		Unit:          m.Unit,
		Price:         m.Price,
		StockQuantity: m.StockQuantity,
		MinimumStock:  m.MinimumStock,
		LowStock:      m.StockQuantity <= m.MinimumStock,
		Supplier:      m.Supplier,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.ExpiryDate != nil {
		resp.ExpiryDate = m.ExpiryDate.Format("2006-01-02")
	}
	return resp
}
