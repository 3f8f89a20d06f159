package repository

import "github.com/jhoicas/Clinica-api/internal/domain/entity"

// TransactionRepository define el puerto de persistencia para Transaction y
// sus líneas. Las líneas son inmutables: solo se insertan al crear la venta.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	CreateServiceItem(item *entity.TransactionService) error
	CreateMedicineItem(item *entity.TransactionMedicine) error
	GetByID(id string) (*entity.Transaction, error)
	// Update persiste payment_status, notes y updated_at de la cabecera.
	Update(tx *entity.Transaction) error
	// List paginado, más reciente primero; status vacío = todas.
	List(status string, limit, offset int) ([]*entity.Transaction, error)
	GetServiceItems(transactionID string) ([]*entity.TransactionService, error)
	GetMedicineItems(transactionID string) ([]*entity.TransactionMedicine, error)
	CountByPatient(patientID string) (int, error)
	CountByMedicine(medicineID string) (int, error)
	CountByService(serviceID string) (int, error)
}
