package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cfl-agro/cfl-back/internal/domain"
	"github.com/cfl-agro/cfl-back/internal/domain/entity"
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

var _ repository.FleteSapEntregaRepository = (*FleteSapEntregaRepo)(nil)

// FleteSapEntregaRepo implementación del puerto del vínculo cabecera↔entrega.
type FleteSapEntregaRepo struct {
	q Querier
}

// NewFleteSapEntregaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFleteSapEntregaRepository(q Querier) *FleteSapEntregaRepo {
	return &FleteSapEntregaRepo{q: q}
}

// ExistePorEntrega informa si la entrega ya respalda una cabecera.
func (r *FleteSapEntregaRepo) ExistePorEntrega(ctx context.Context, idSapEntrega int64) (bool, error) {
	var existe bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM cfl_flete_sap_entrega WHERE id_sap_entrega = $1)`,
		idSapEntrega,
	).Scan(&existe)
	if err != nil {
		return false, fmt.Errorf("existe vínculo: %w", err)
	}
	return existe, nil
}

// Crear inserta el vínculo. El índice único sobre id_sap_entrega garantiza
// una cabecera a lo más por entrega; la carrera se reporta como conflicto.
func (r *FleteSapEntregaRepo) Crear(ctx context.Context, link *entity.FleteSapEntrega) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO cfl_flete_sap_entrega (id_cabecera_flete, id_sap_entrega, origen_datos, tipo_relacion, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id_flete_sap`,
		link.IDCabecera, link.IDSapEntrega, link.OrigenDatos, link.TipoRelacion,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrEntregaYaAsociada
		}
		return 0, fmt.Errorf("insert vínculo: %w", err)
	}
	return id, nil
}

// ObtenerPorCabecera devuelve el vínculo de la cabecera. nil si no tiene.
func (r *FleteSapEntregaRepo) ObtenerPorCabecera(ctx context.Context, idCabecera int64) (*entity.FleteSapEntrega, error) {
	var l entity.FleteSapEntrega
	err := r.q.QueryRow(ctx, `
		SELECT id_flete_sap, id_cabecera_flete, id_sap_entrega, origen_datos, tipo_relacion, created_at
		FROM cfl_flete_sap_entrega
		WHERE id_cabecera_flete = $1`, idCabecera,
	).Scan(&l.ID, &l.IDCabecera, &l.IDSapEntrega, &l.OrigenDatos, &l.TipoRelacion, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vínculo: %w", err)
	}
	return &l, nil
}
