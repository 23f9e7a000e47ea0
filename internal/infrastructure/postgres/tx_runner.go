package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cfl-agro/cfl-back/internal/application/fletes"
	"github.com/cfl-agro/cfl-back/internal/application/folios"
)

// Ensure TxRunner implements fletes.TxRunner and folios.TxRunner.
var _ fletes.TxRunner = (*TxRunner)(nil)
var _ folios.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos de fletes atados a la
// tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx fletes.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := fletes.Repos{
		Cabeceras:    NewCabeceraFleteRepository(tx),
		Detalles:     NewDetalleFleteRepository(tx),
		Links:        NewFleteSapEntregaRepository(tx),
		Entregas:     NewSapEntregaRepository(tx),
		Moviles:      NewMovilRepository(tx),
		Folios:       NewFolioRepository(tx),
		TiposFlete:   NewTipoFleteRepository(tx),
		CentrosCosto: NewCentroCostoRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunFolios inicia una transacción con los repos que usa el asignador de folios.
func (r *TxRunner) RunFolios(ctx context.Context, fn func(tx folios.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := folios.Repos{
		Cabeceras:    NewCabeceraFleteRepository(tx),
		Folios:       NewFolioRepository(tx),
		Temporadas:   NewTemporadaRepository(tx),
		CentrosCosto: NewCentroCostoRepository(tx),
		Links:        NewFleteSapEntregaRepository(tx),
		Entregas:     NewSapEntregaRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
