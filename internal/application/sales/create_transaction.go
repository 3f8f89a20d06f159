package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// CreateTransactionUseCase crea una venta y descuenta el inventario en una sola
// transacción: cabecera, líneas con precio congelado, movimientos de salida y
// visita clínica, todo o nada.
type CreateTransactionUseCase struct {
	txRunner        SalesTxRunner
	ledger          Ledger
	visits          VisitRecorder
	patientRepo     repository.PatientRepository
	serviceRepo     repository.ServiceRepository
	medicineRepo    repository.MedicineRepository
	transactionRepo repository.TransactionRepository
}

// NewCreateTransactionUseCase construye el caso de uso.
func NewCreateTransactionUseCase(
	txRunner SalesTxRunner,
	ledger Ledger,
	visits VisitRecorder,
	patientRepo repository.PatientRepository,
	serviceRepo repository.ServiceRepository,
	medicineRepo repository.MedicineRepository,
	transactionRepo repository.TransactionRepository,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		txRunner:        txRunner,
		ledger:          ledger,
		visits:          visits,
		patientRepo:     patientRepo,
		serviceRepo:     serviceRepo,
		medicineRepo:    medicineRepo,
		transactionRepo: transactionRepo,
	}
}

// CreateTransaction valida la venta, calcula el total y persiste cabecera,
// líneas, salidas de stock y visita dentro de una transacción de BD.
//
// Validaciones (cualquier fallo deja la BD intacta):
//   - paciente inexistente                  -> domain.ErrPatientNotFound
//   - servicio inexistente                  -> domain.ErrNotFound
//   - servicio inactivo                     -> domain.ErrServiceInactive
//   - medicamento inexistente               -> domain.ErrNotFound
//   - cantidad solicitada mayor al stock    -> domain.ErrInsufficientStock
//   - venta sin líneas, cantidad <= 0,
//     método o estado de pago desconocidos  -> domain.ErrInvalidInput
func (uc *CreateTransactionUseCase) CreateTransaction(ctx context.Context, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if in.PatientID == "" || !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	status := in.PaymentStatus
	if status == "" {
		status = entity.PaymentStatusPending
	}
	if !entity.ValidPaymentStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Services) == 0 && len(in.Medicines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Validar paciente
	patient, err := uc.patientRepo.GetByID(in.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrPatientNotFound
	}

	// Validar servicios y medicamentos (fuera de la tx, solo lectura).
	// Los precios leídos aquí son el snapshot que queda congelado en las líneas.
	servicesByID := make(map[string]*entity.Service)
	for _, item := range in.Services {
		if item.ServiceID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		svc, err := uc.serviceRepo.GetByID(item.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, domain.ErrNotFound
		}
		if !svc.IsActive {
			return nil, domain.ErrServiceInactive
		}
		servicesByID[item.ServiceID] = svc
	}
	medicinesByID := make(map[string]*entity.Medicine)
	for _, item := range in.Medicines {
		if item.MedicineID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		med, err := uc.medicineRepo.GetByID(item.MedicineID)
		if err != nil {
			return nil, err
		}
		if med == nil {
			return nil, domain.ErrNotFound
		}
		if item.Quantity > med.StockQuantity {
			return nil, domain.ErrInsufficientStock
		}
		medicinesByID[item.MedicineID] = med
	}

	now := time.Now()
	txID := uuid.New().String() // referencia de los movimientos de stock (ReferenceID)

	var header *entity.Transaction
	var serviceItems []*entity.TransactionService
	var medicineItems []*entity.TransactionMedicine

	err = uc.txRunner.RunSales(ctx, func(
		movRepo repository.StockMovementRepository,
		medicineRepo repository.MedicineRepository,
		txRepo repository.TransactionRepository,
		visitRepo repository.VisitRepository,
	) error {
		// 1) Total = servicios + medicamentos, a precio de catálogo actual
		total := decimal.Zero
		for _, item := range in.Services {
			svc := servicesByID[item.ServiceID]
			total = total.Add(svc.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		for _, item := range in.Medicines {
			med := medicinesByID[item.MedicineID]
			total = total.Add(med.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		// 2) Cabecera
		header = &entity.Transaction{
			ID:            txID,
			PatientID:     in.PatientID,
			TotalAmount:   total,
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: status,
			Notes:         in.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := txRepo.Create(header); err != nil {
			return err
		}

		// 3) Líneas de servicio con snapshot de precio
		for _, item := range in.Services {
			svc := servicesByID[item.ServiceID]
			line := &entity.TransactionService{
				ID:            uuid.New().String(),
				TransactionID: txID,
				ServiceID:     item.ServiceID,
				Quantity:      item.Quantity,
				UnitPrice:     svc.Price,
				Total:         svc.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			}
			if err := txRepo.CreateServiceItem(line); err != nil {
				return err
			}
			serviceItems = append(serviceItems, line)
		}

		// 4) Líneas de medicamento + salida de stock vía Ledger.
		// El Ledger vuelve a verificar el stock con la fila bloqueada; si otro
		// caller ganó la carrera, retorna ErrInsufficientStock y todo se revierte.
		for _, item := range in.Medicines {
			med := medicinesByID[item.MedicineID]
			line := &entity.TransactionMedicine{
				ID:            uuid.New().String(),
				TransactionID: txID,
				MedicineID:    item.MedicineID,
				Quantity:      item.Quantity,
				UnitPrice:     med.Price,
				Total:         med.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			}
			if err := txRepo.CreateMedicineItem(line); err != nil {
				return err
			}
			medicineItems = append(medicineItems, line)
			if _, err := uc.ledger.ApplyMovementInTx(movRepo, medicineRepo, inventory.MovementInput{
				MedicineID:  item.MedicineID,
				Type:        entity.MovementTypeOut,
				Quantity:    item.Quantity,
				ReferenceID: txID,
				Notes:       fmt.Sprintf("vendido en transacción #%s", txID),
			}, now); err != nil {
				return err
			}
		}

		// 5) Visita clínica ligada a la venta; si falla, se revierte la venta completa
		if _, err := uc.visits.RecordVisitInTx(visitRepo, in.PatientID, txID, now); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.toResponse(header, patient.Name, serviceItems, medicineItems), nil
}

// GetTransaction obtiene una transacción por ID con sus líneas.
func (uc *CreateTransactionUseCase) GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	header, err := uc.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, domain.ErrNotFound
	}
	serviceItems, err := uc.transactionRepo.GetServiceItems(id)
	if err != nil {
		return nil, err
	}
	medicineItems, err := uc.transactionRepo.GetMedicineItems(id)
	if err != nil {
		return nil, err
	}
	patientName := ""
	if patient, _ := uc.patientRepo.GetByID(header.PatientID); patient != nil {
		patientName = patient.Name
	}
	return uc.toResponse(header, patientName, serviceItems, medicineItems), nil
}

// ListTransactions lista transacciones, más reciente primero. status vacío = todas.
func (uc *CreateTransactionUseCase) ListTransactions(ctx context.Context, status string, limit, offset int) ([]*dto.TransactionResponse, error) {
	if status != "" && !entity.ValidPaymentStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	headers, err := uc.transactionRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.TransactionResponse, 0, len(headers))
	for _, h := range headers {
		resp := uc.toResponse(h, "", nil, nil)
		list = append(list, resp)
	}
	return list, nil
}

func (uc *CreateTransactionUseCase) toResponse(
	header *entity.Transaction,
	patientName string,
	serviceItems []*entity.TransactionService,
	medicineItems []*entity.TransactionMedicine,
) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:            header.ID,
		PatientID:     header.PatientID,
		PatientName:   patientName,
		TotalAmount:   header.TotalAmount,
		PaymentMethod: header.PaymentMethod,
		PaymentStatus: header.PaymentStatus,
		Notes:         header.Notes,
		Services:      make([]dto.TransactionServiceResponse, 0, len(serviceItems)),
		Medicines:     make([]dto.TransactionMedicineResponse, 0, len(medicineItems)),
		CreatedAt:     header.CreatedAt,
		UpdatedAt:     header.UpdatedAt,
	}
	for _, item := range serviceItems {
		name := ""
		if svc, _ := uc.serviceRepo.GetByID(item.ServiceID); svc != nil {
			name = svc.Name
		}
		resp.Services = append(resp.Services, dto.TransactionServiceResponse{
			ID:        item.ID,
			ServiceID: item.ServiceID,
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}
	for _, item := range medicineItems {
		name := ""
		if med, _ := uc.medicineRepo.GetByID(item.MedicineID); med != nil {
			name = med.Name
		}
		resp.Medicines = append(resp.Medicines, dto.TransactionMedicineResponse{
			ID:         item.ID,
			MedicineID: item.MedicineID,
			Name:       name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Total:      item.Total,
		})
	}
	return resp
}
