package postgres

import (
	"context"
	"fmt"

	"github.com/cfl-agro/cfl-back/internal/domain/entity"
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

var _ repository.DetalleFleteRepository = (*DetalleFleteRepo)(nil)

// DetalleFleteRepo implementación del puerto sobre PostgreSQL (usable con pool o tx).
type DetalleFleteRepo struct {
	q Querier
}

// NewDetalleFleteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDetalleFleteRepository(q Querier) *DetalleFleteRepo {
	return &DetalleFleteRepo{q: q}
}

// InsertarVarios inserta las líneas de una cabecera en orden.
func (r *DetalleFleteRepo) InsertarVarios(ctx context.Context, idCabecera int64, detalles []entity.DetalleFlete) error {
	query := `
		INSERT INTO cfl_detalle_flete (
			id_cabecera_flete, id_especie, material, descripcion, cantidad, unidad, peso, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7, now())`
	for i := range detalles {
		d := &detalles[i]
		_, err := r.q.Exec(ctx, query,
			idCabecera, d.IDEspecie, d.Material, d.Descripcion, d.Cantidad, d.Unidad, d.Peso,
		)
		if err != nil {
			return fmt.Errorf("insert detalle: %w", err)
		}
	}
	return nil
}

// EliminarPorCabecera borra todas las líneas de la cabecera.
func (r *DetalleFleteRepo) EliminarPorCabecera(ctx context.Context, idCabecera int64) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM cfl_detalle_flete WHERE id_cabecera_flete = $1`, idCabecera)
	if err != nil {
		return fmt.Errorf("delete detalles: %w", err)
	}
	return nil
}

// ListarPorCabecera devuelve las líneas de la cabecera en orden de inserción.
func (r *DetalleFleteRepo) ListarPorCabecera(ctx context.Context, idCabecera int64) ([]entity.DetalleFlete, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id_detalle_flete, id_cabecera_flete, id_especie, material, descripcion,
		       cantidad, unidad, peso, created_at
		FROM cfl_detalle_flete
		WHERE id_cabecera_flete = $1
		ORDER BY id_detalle_flete ASC`, idCabecera)
	if err != nil {
		return nil, fmt.Errorf("listar detalles: %w", err)
	}
	defer rows.Close()

	var out []entity.DetalleFlete
	for rows.Next() {
		var d entity.DetalleFlete
		if err := rows.Scan(
			&d.ID, &d.IDCabecera, &d.IDEspecie, &d.Material, &d.Descripcion,
			&d.Cantidad, &d.Unidad, &d.Peso, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan detalle: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ContarPorCabecera cuenta las líneas de la cabecera.
func (r *DetalleFleteRepo) ContarPorCabecera(ctx context.Context, idCabecera int64) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM cfl_detalle_flete WHERE id_cabecera_flete = $1`, idCabecera,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("contar detalles: %w", err)
	}
	return total, nil
}
