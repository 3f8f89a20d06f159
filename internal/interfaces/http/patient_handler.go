package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/usecase"
	"github.com/jhoicas/Clinica-api/internal/application/visits"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// PatientHandler maneja las peticiones HTTP de pacientes y sus visitas.
type PatientHandler struct {
	uc     *usecase.PatientUseCase
	visits *visits.RecorderUseCase
}

// NewPatientHandler construye el handler.
func NewPatientHandler(uc *usecase.PatientUseCase, visitsUC *visits.RecorderUseCase) *PatientHandler {
	return &PatientHandler{uc: uc, visits: visitsUC}
}

// Create godoc
// @Summary      Registrar paciente
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePatientRequest  true  "Datos del paciente"
// @Success      201   {object}  dto.PatientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/patients [post]
func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePatientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	patient, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(patientToResponse(patient))
}

// GetByID godoc
// @Summary      Obtener paciente por ID
// @Tags         patients
// @Produce      json
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.PatientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/patients/{id} [get]
func (h *PatientHandler) GetByID(c *fiber.Ctx) error {
	patient, err := h.uc.GetByID(c.Context(), pathParam(c, "id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(patientToResponse(patient))
}

// List godoc
// @Summary      Listar pacientes
// @Tags         patients
// @Produce      json
// @Param        search  query  string  false  "Buscar por nombre"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.PatientResponse
// @Router       /api/patients [get]
func (h *PatientHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.Context(), c.Query("search"), limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]*dto.PatientResponse, 0, len(list))
	for _, p := range list {
		out = append(out, patientToResponse(p))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar paciente
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del paciente"
// @Param        body  body  dto.UpdatePatientRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.PatientResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/patients/{id} [put]
func (h *PatientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePatientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	patient, err := h.uc.Update(c.Context(), pathParam(c, "id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(patientToResponse(patient))
}

// Delete godoc
// @Summary      Eliminar paciente (solo sin transacciones ni visitas)
// @Tags         patients
// @Param        id  path  string  true  "ID del paciente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/patients/{id} [delete]
func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), pathParam(c, "id")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordVisit godoc
// @Summary      Registrar visita clínica
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del paciente"
// @Param        body  body  dto.RecordVisitRequest  true  "Datos de la visita"
// @Success      201   {object}  dto.VisitResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/patients/{id}/visits [post]
func (h *PatientHandler) RecordVisit(c *fiber.Ctx) error {
	var in dto.RecordVisitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	visit, err := h.visits.RecordVisit(c.Context(), pathParam(c, "id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(visitToResponse(visit))
}

// ListVisits godoc
// @Summary      Historial de visitas del paciente
// @Tags         patients
// @Produce      json
// @Param        id      path   string  true   "ID del paciente"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.VisitResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/patients/{id}/visits [get]
func (h *PatientHandler) ListVisits(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.visits.ListByPatient(c.Context(), pathParam(c, "id"), limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]*dto.VisitResponse, 0, len(list))
	for _, v := range list {
		out = append(out, visitToResponse(v))
	}
	return c.JSON(out)
}

func patientToResponse(p *entity.Patient) *dto.PatientResponse {
	resp := &dto.PatientResponse{
		ID:        p.ID,
		Name:      p.Name,
		Gender:    p.Gender,
		Phone:     p.Phone,
		Address:   p.Address,
		Allergies: p.Allergies,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.BirthDate != nil {
		resp.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return resp
}

func visitToResponse(v *entity.Visit) *dto.VisitResponse {
	return &dto.VisitResponse{
		ID:            v.ID,
		PatientID:     v.PatientID,
		TransactionID: v.TransactionID,
		VisitDate:     v.VisitDate,
		Diagnosis:     v.Diagnosis,
		Treatment:     v.Treatment,
		Notes:         v.Notes,
		CreatedAt:     v.CreatedAt,
	}
}
