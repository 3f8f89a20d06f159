package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// ReceiptLine línea del recibo ya resuelta (nombre incluido), lista para imprimir.
type ReceiptLine struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// ReceiptInfo datos de la clínica que encabezan y cierran el recibo.
// Salen de la tabla settings.
type ReceiptInfo struct {
	ClinicName     string
	ClinicAddress  string
	ClinicPhone    string
	ReceiptFooter  string
	CurrencySymbol string
}

// ReceiptPDFGenerator puerto de generación del recibo en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		tx *entity.Transaction,
		patient *entity.Patient,
		lines []ReceiptLine,
		info ReceiptInfo,
	) ([]byte, error)
}

// ReceiptUseCase arma el recibo de una venta: cabecera, líneas con nombres
// resueltos y datos de la clínica, y delega el render al generador PDF.
type ReceiptUseCase struct {
	transactionRepo repository.TransactionRepository
	patientRepo     repository.PatientRepository
	serviceRepo     repository.ServiceRepository
	medicineRepo    repository.MedicineRepository
	settingRepo     repository.SettingRepository
	generator       ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	transactionRepo repository.TransactionRepository,
	patientRepo repository.PatientRepository,
	serviceRepo repository.ServiceRepository,
	medicineRepo repository.MedicineRepository,
	settingRepo repository.SettingRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		transactionRepo: transactionRepo,
		patientRepo:     patientRepo,
		serviceRepo:     serviceRepo,
		medicineRepo:    medicineRepo,
		settingRepo:     settingRepo,
		generator:       generator,
	}
}

// GenerateReceipt genera el PDF del recibo de la transacción.
// Los precios impresos son los snapshots de las líneas, no los del catálogo.
// Una venta anulada no tiene recibo: ErrConflict.
func (uc *ReceiptUseCase) GenerateReceipt(ctx context.Context, transactionID string) ([]byte, error) {
	header, err := uc.transactionRepo.GetByID(transactionID)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, domain.ErrNotFound
	}
	if header.PaymentStatus == entity.PaymentStatusCancelled {
		return nil, domain.ErrConflict
	}
	patient, err := uc.patientRepo.GetByID(header.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrPatientNotFound
	}

	serviceItems, err := uc.transactionRepo.GetServiceItems(transactionID)
	if err != nil {
		return nil, err
	}
	medicineItems, err := uc.transactionRepo.GetMedicineItems(transactionID)
	if err != nil {
		return nil, err
	}

	lines := make([]ReceiptLine, 0, len(serviceItems)+len(medicineItems))
	for _, item := range serviceItems {
		name := item.ServiceID
		if svc, _ := uc.serviceRepo.GetByID(item.ServiceID); svc != nil {
			name = svc.Name
		}
		lines = append(lines, ReceiptLine{
			Description: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}
	for _, item := range medicineItems {
		name := item.MedicineID
		if med, _ := uc.medicineRepo.GetByID(item.MedicineID); med != nil {
			name = med.Name
		}
		lines = append(lines, ReceiptLine{
			Description: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	info := uc.receiptInfo()
	return uc.generator.GenerateReceiptPDF(ctx, header, patient, lines, info)
}

// receiptInfo lee los settings del recibo; si falta alguno, usa el default.
func (uc *ReceiptUseCase) receiptInfo() ReceiptInfo {
	defaults := entity.DefaultSettings()
	get := func(key string) string {
		if st, err := uc.settingRepo.Get(key); err == nil && st != nil {
			return st.Value
		}
		return defaults[key]
	}
	return ReceiptInfo{
		ClinicName:     get(entity.SettingClinicName),
		ClinicAddress:  get(entity.SettingClinicAddress),
		ClinicPhone:    get(entity.SettingClinicPhone),
		ReceiptFooter:  get(entity.SettingReceiptFooter),
		CurrencySymbol: get(entity.SettingCurrency),
	}
}
