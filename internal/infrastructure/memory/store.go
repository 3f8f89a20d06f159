// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Lo usan los tests y el modo demo: mismo contrato que postgres,
// sin base de datos.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/application/sales"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*Store)(nil)
	_ sales.SalesTxRunner = (*Store)(nil)
)

// Store guarda todo el estado en memoria. Las "transacciones" de los runners
// se implementan con snapshot: se copia el estado completo antes de ejecutar
// la función y se restaura si retorna error.
type Store struct {
	mu sync.Mutex
	// runMu serializa los runners entre sí, igual que lo haría el bloqueo de
	// filas en postgres.
	runMu sync.Mutex

	patients      map[string]entity.Patient
	medicines     map[string]entity.Medicine
	services      map[string]entity.Service
	transactions  map[string]entity.Transaction
	serviceItems  []entity.TransactionService
	medicineItems []entity.TransactionMedicine
	movements     []entity.StockMovement
	visits        []entity.Visit
	settings      map[string]entity.Setting
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		patients:     map[string]entity.Patient{},
		medicines:    map[string]entity.Medicine{},
		services:     map[string]entity.Service{},
		transactions: map[string]entity.Transaction{},
		settings:     map[string]entity.Setting{},
	}
}

type snapshot struct {
	patients      map[string]entity.Patient
	medicines     map[string]entity.Medicine
	services      map[string]entity.Service
	transactions  map[string]entity.Transaction
	serviceItems  []entity.TransactionService
	medicineItems []entity.TransactionMedicine
	movements     []entity.StockMovement
	visits        []entity.Visit
	settings      map[string]entity.Setting
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		patients:      copyMap(s.patients),
		medicines:     copyMap(s.medicines),
		services:      copyMap(s.services),
		transactions:  copyMap(s.transactions),
		serviceItems:  append([]entity.TransactionService(nil), s.serviceItems...),
		medicineItems: append([]entity.TransactionMedicine(nil), s.medicineItems...),
		movements:     append([]entity.StockMovement(nil), s.movements...),
		visits:        append([]entity.Visit(nil), s.visits...),
		settings:      copyMap(s.settings),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = snap.patients
	s.medicines = snap.medicines
	s.services = snap.services
	s.transactions = snap.transactions
	s.serviceItems = snap.serviceItems
	s.medicineItems = snap.medicineItems
	s.movements = snap.movements
	s.visits = snap.visits
	s.settings = snap.settings
}

// Run ejecuta fn con semántica transaccional: si retorna error, el estado
// vuelve al snapshot previo. Satisface inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	medicineRepo repository.MedicineRepository,
) error) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	snap := s.snapshot()
	if err := fn(s.StockMovements(), s.Medicines()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunSales ejecuta fn con semántica transaccional sobre los repositorios de
// venta. Satisface sales.SalesTxRunner.
func (s *Store) RunSales(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	medicineRepo repository.MedicineRepository,
	txRepo repository.TransactionRepository,
	visitRepo repository.VisitRepository,
) error) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	snap := s.snapshot()
	if err := fn(s.StockMovements(), s.Medicines(), s.Transactions(), s.Visits()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// ── Repositorios ──────────────────────────────────────────────────────────

// Patients devuelve la vista PatientRepository del store.
func (s *Store) Patients() repository.PatientRepository { return &patientRepo{s} }

// Medicines devuelve la vista MedicineRepository del store.
func (s *Store) Medicines() repository.MedicineRepository { return &medicineRepo{s} }

// Services devuelve la vista ServiceRepository del store.
func (s *Store) Services() repository.ServiceRepository { return &serviceRepo{s} }

// StockMovements devuelve la vista StockMovementRepository del store.
func (s *Store) StockMovements() repository.StockMovementRepository { return &movementRepo{s} }

// Transactions devuelve la vista TransactionRepository del store.
func (s *Store) Transactions() repository.TransactionRepository { return &transactionRepo{s} }

// Visits devuelve la vista VisitRepository del store.
func (s *Store) Visits() repository.VisitRepository { return &visitRepo{s} }

// Settings devuelve la vista SettingRepository del store.
func (s *Store) Settings() repository.SettingRepository { return &settingRepo{s} }

// Analytics devuelve la vista AnalyticsRepository del store.
func (s *Store) Analytics() repository.AnalyticsRepository { return &analyticsRepo{s} }

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ── Patient ───────────────────────────────────────────────────────────────

type patientRepo struct{ s *Store }

func (r *patientRepo) Create(patient *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.patients[patient.ID] = *patient
	return nil
}

func (r *patientRepo) GetByID(id string) (*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.patients[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *patientRepo) List(search string, limit, offset int) ([]*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Patient
	for _, p := range r.s.patients {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *patientRepo) Update(patient *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.patients[patient.ID] = *patient
	return nil
}

func (r *patientRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.patients, id)
	return nil
}

// ── Medicine ──────────────────────────────────────────────────────────────

type medicineRepo struct{ s *Store }

func (r *medicineRepo) Create(medicine *entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.medicines[medicine.ID] = *medicine
	return nil
}

func (r *medicineRepo) GetByID(id string) (*entity.Medicine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medicines[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// GetForUpdate no bloquea nada: runMu ya serializa los runners.
func (r *medicineRepo) GetForUpdate(id string) (*entity.Medicine, error) {
	return r.GetByID(id)
}

func (r *medicineRepo) List(lowStockOnly bool, limit, offset int) ([]*entity.Medicine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Medicine
	for _, m := range r.s.medicines {
		if lowStockOnly && m.StockQuantity > m.MinimumStock {
			continue
		}
		m := m
		list = append(list, &m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *medicineRepo) Update(medicine *entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.medicines[medicine.ID]
	if ok {
		// El stock solo lo toca UpdateStock.
		medicine.StockQuantity = current.StockQuantity
	}
	r.s.medicines[medicine.ID] = *medicine
	return nil
}

func (r *medicineRepo) UpdateStock(id string, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medicines[id]
	if !ok {
		return nil
	}
	m.StockQuantity = quantity
	m.UpdatedAt = time.Now()
	r.s.medicines[id] = m
	return nil
}

func (r *medicineRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.medicines, id)
	return nil
}

// ── Service ───────────────────────────────────────────────────────────────

type serviceRepo struct{ s *Store }

func (r *serviceRepo) Create(service *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services[service.ID] = *service
	return nil
}

func (r *serviceRepo) GetByID(id string) (*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, nil
	}
	return &svc, nil
}

func (r *serviceRepo) List(activeOnly bool, limit, offset int) ([]*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Service
	for _, svc := range r.s.services {
		if activeOnly && !svc.IsActive {
			continue
		}
		svc := svc
		list = append(list, &svc)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *serviceRepo) Update(service *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services[service.ID] = *service
	return nil
}

func (r *serviceRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.services, id)
	return nil
}

// ── StockMovement ─────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

// List devuelve los movimientos en orden inverso de inserción (más reciente
// primero), como el ORDER BY created_at DESC de postgres.
func (r *movementRepo) List(medicineID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if medicineID != "" && m.MedicineID != medicineID {
			continue
		}
		list = append(list, &m)
	}
	return paginate(list, limit, offset), nil
}

func (r *movementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ReferenceID == referenceID {
			m := m
			list = append(list, &m)
		}
	}
	return list, nil
}

func (r *movementRepo) DeleteByMedicine(medicineID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.movements[:0]
	for _, m := range r.s.movements {
		if m.MedicineID != medicineID {
			kept = append(kept, m)
		}
	}
	r.s.movements = kept
	return nil
}

// ── Transaction ───────────────────────────────────────────────────────────

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(tx *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transactions[tx.ID] = *tx
	return nil
}

func (r *transactionRepo) CreateServiceItem(item *entity.TransactionService) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.serviceItems = append(r.s.serviceItems, *item)
	return nil
}

func (r *transactionRepo) CreateMedicineItem(item *entity.TransactionMedicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.medicineItems = append(r.s.medicineItems, *item)
	return nil
}

func (r *transactionRepo) GetByID(id string) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *transactionRepo) Update(tx *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.transactions[tx.ID]
	if !ok {
		return nil
	}
	current.PaymentStatus = tx.PaymentStatus
	current.Notes = tx.Notes
	current.UpdatedAt = tx.UpdatedAt
	r.s.transactions[tx.ID] = current
	return nil
}

func (r *transactionRepo) List(status string, limit, offset int) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Transaction
	for _, t := range r.s.transactions {
		if status != "" && t.PaymentStatus != status {
			continue
		}
		t := t
		list = append(list, &t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *transactionRepo) GetServiceItems(transactionID string) ([]*entity.TransactionService, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.TransactionService
	for _, item := range r.s.serviceItems {
		if item.TransactionID == transactionID {
			item := item
			list = append(list, &item)
		}
	}
	return list, nil
}

func (r *transactionRepo) GetMedicineItems(transactionID string) ([]*entity.TransactionMedicine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.TransactionMedicine
	for _, item := range r.s.medicineItems {
		if item.TransactionID == transactionID {
			item := item
			list = append(list, &item)
		}
	}
	return list, nil
}

func (r *transactionRepo) CountByPatient(patientID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, t := range r.s.transactions {
		if t.PatientID == patientID {
			n++
		}
	}
	return n, nil
}

func (r *transactionRepo) CountByMedicine(medicineID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, item := range r.s.medicineItems {
		if item.MedicineID == medicineID {
			n++
		}
	}
	return n, nil
}

func (r *transactionRepo) CountByService(serviceID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, item := range r.s.serviceItems {
		if item.ServiceID == serviceID {
			n++
		}
	}
	return n, nil
}

// ── Visit ─────────────────────────────────────────────────────────────────

type visitRepo struct{ s *Store }

func (r *visitRepo) Create(visit *entity.Visit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if visit.ID == "" {
		visit.ID = uuid.New().String()
	}
	r.s.visits = append(r.s.visits, *visit)
	return nil
}

func (r *visitRepo) ListByPatient(patientID string, limit, offset int) ([]*entity.Visit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Visit
	for i := len(r.s.visits) - 1; i >= 0; i-- {
		v := r.s.visits[i]
		if v.PatientID == patientID {
			list = append(list, &v)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].VisitDate.After(list[j].VisitDate) })
	return paginate(list, limit, offset), nil
}

func (r *visitRepo) CountByPatient(patientID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, v := range r.s.visits {
		if v.PatientID == patientID {
			n++
		}
	}
	return n, nil
}

// ── Setting ───────────────────────────────────────────────────────────────

type settingRepo struct{ s *Store }

func (r *settingRepo) Get(key string) (*entity.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.settings[key]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *settingRepo) List() ([]*entity.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Setting
	for _, st := range r.s.settings {
		st := st
		list = append(list, &st)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list, nil
}

func (r *settingRepo) Upsert(setting *entity.Setting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settings[setting.Key] = *setting
	return nil
}

func (r *settingRepo) InsertIfAbsent(setting *entity.Setting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.settings[setting.Key]; !ok {
		r.s.settings[setting.Key] = *setting
	}
	return nil
}

// ── Analytics ─────────────────────────────────────────────────────────────

type analyticsRepo struct{ s *Store }

func (r *analyticsRepo) GetSalesMetrics(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	revenue := decimal.Zero
	count := 0
	for _, t := range r.s.transactions {
		if t.PaymentStatus != entity.PaymentStatusPaid {
			continue
		}
		if t.CreatedAt.Before(from) || !t.CreatedAt.Before(to) {
			continue
		}
		revenue = revenue.Add(t.TotalAmount)
		count++
	}
	return revenue, count, nil
}

func (r *analyticsRepo) GetTopServices(ctx context.Context, from, to time.Time, limit int) ([]repository.TopService, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	agg := map[string]*repository.TopService{}
	for _, item := range r.s.serviceItems {
		t, ok := r.s.transactions[item.TransactionID]
		if !ok || t.PaymentStatus != entity.PaymentStatusPaid {
			continue
		}
		if t.CreatedAt.Before(from) || !t.CreatedAt.Before(to) {
			continue
		}
		ts, ok := agg[item.ServiceID]
		if !ok {
			ts = &repository.TopService{ServiceID: item.ServiceID, Revenue: decimal.Zero}
			if svc, ok := r.s.services[item.ServiceID]; ok {
				ts.Name = svc.Name
			}
			agg[item.ServiceID] = ts
		}
		ts.Quantity += item.Quantity
		ts.Revenue = ts.Revenue.Add(item.Total)
	}
	var list []repository.TopService
	for _, ts := range agg {
		list = append(list, *ts)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Revenue.GreaterThan(list[j].Revenue) })
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *analyticsRepo) CountPatients(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.patients), nil
}

func (r *analyticsRepo) ListLowStock(ctx context.Context, limit int) ([]*entity.Medicine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Medicine
	for _, m := range r.s.medicines {
		if m.StockQuantity <= m.MinimumStock {
			m := m
			list = append(list, &m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StockQuantity < list[j].StockQuantity })
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}
