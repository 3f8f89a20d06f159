package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Clinica-api/internal/application/inventory"
	"github.com/jhoicas/Clinica-api/internal/application/sales"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner y sales.SalesTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.SalesTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos de inventario atados a
// la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	medicineRepo repository.MedicineRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	medicineRepo := NewMedicineRepository(tx)

	if err := fn(movRepo, medicineRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSales inicia una transacción con los repos de inventario, ventas y visitas
// (para CreateTransaction y UpdateStatus).
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	medicineRepo repository.MedicineRepository,
	txRepo repository.TransactionRepository,
	visitRepo repository.VisitRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	medicineRepo := NewMedicineRepository(tx)
	txRepo := NewTransactionRepository(tx)
	visitRepo := NewVisitRepository(tx)

	if err := fn(movRepo, medicineRepo, txRepo, visitRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
