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

var _ repository.FolioRepository = (*FolioRepo)(nil)
var _ repository.TemporadaRepository = (*TemporadaRepo)(nil)

// FolioRepo implementación del puerto de folios sobre PostgreSQL.
type FolioRepo struct {
	q Querier
}

// NewFolioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFolioRepository(q Querier) *FolioRepo {
	return &FolioRepo{q: q}
}

const columnasFolio = `
	id_folio, id_centro_costo, id_temporada, folio_numero, periodo_desde,
	periodo_hasta, estado, bloqueado, fecha_cierre, resultado_cuadratura,
	resumen_cuadratura, created_at, updated_at`

func escanearFolio(row pgx.Row) (*entity.Folio, error) {
	var f entity.Folio
	err := row.Scan(
		&f.ID, &f.IDCentroCosto, &f.IDTemporada, &f.FolioNumero, &f.PeriodoDesde,
		&f.PeriodoHasta, &f.Estado, &f.Bloqueado, &f.FechaCierre, &f.ResultadoCuadratura,
		&f.ResumenCuadratura, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Obtener busca el folio por id. nil si no existe.
func (r *FolioRepo) Obtener(ctx context.Context, id int64) (*entity.Folio, error) {
	f, err := escanearFolio(r.q.QueryRow(ctx,
		`SELECT`+columnasFolio+` FROM cfl_folio WHERE id_folio = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get folio: %w", err)
	}
	return f, nil
}

// ObtenerParaActualizar bloquea la fila del folio dentro de la tx.
func (r *FolioRepo) ObtenerParaActualizar(ctx context.Context, id int64) (*entity.Folio, error) {
	f, err := escanearFolio(r.q.QueryRow(ctx,
		`SELECT`+columnasFolio+` FROM cfl_folio WHERE id_folio = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock folio: %w", err)
	}
	return f, nil
}

// Crear inserta el folio. El índice único (temporada, centro, número) corta
// la carrera de numeración residual como conflicto.
func (r *FolioRepo) Crear(ctx context.Context, f *entity.Folio) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO cfl_folio (
			id_centro_costo, id_temporada, folio_numero, periodo_desde, periodo_hasta,
			estado, bloqueado, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7, now(), now())
		RETURNING id_folio`,
		f.IDCentroCosto, f.IDTemporada, f.FolioNumero, f.PeriodoDesde, f.PeriodoHasta,
		f.Estado, f.Bloqueado,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert folio: %w", err)
	}
	return id, nil
}

// ObtenerDefault devuelve el folio reservado "0" de la combinación
// (temporada, centro de costo). nil si no existe.
func (r *FolioRepo) ObtenerDefault(ctx context.Context, idTemporada, idCentroCosto int64) (*entity.Folio, error) {
	f, err := escanearFolio(r.q.QueryRow(ctx,
		`SELECT`+columnasFolio+` FROM cfl_folio
		 WHERE id_temporada = $1 AND id_centro_costo = $2 AND folio_numero = '0'`,
		idTemporada, idCentroCosto))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get folio default: %w", err)
	}
	return f, nil
}

// MaxNumero devuelve el mayor folio_numero numérico de la combinación.
// Se asume el centro de costo ya bloqueado (BloquearParaAsignacion): el
// agregado no admite FOR UPDATE propio.
func (r *FolioRepo) MaxNumero(ctx context.Context, idTemporada, idCentroCosto int64) (int64, error) {
	var max int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(folio_numero::bigint), 0)
		FROM cfl_folio
		WHERE id_temporada = $1 AND id_centro_costo = $2 AND folio_numero ~ '^[0-9]+$'`,
		idTemporada, idCentroCosto,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max folio numero: %w", err)
	}
	return max, nil
}

// TemporadaRepo implementación del puerto de temporadas.
type TemporadaRepo struct {
	q Querier
}

// NewTemporadaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTemporadaRepository(q Querier) *TemporadaRepo {
	return &TemporadaRepo{q: q}
}

// Abierta resuelve la temporada vigente: prefiere una no cerrada, si no la
// más reciente por fecha de inicio. nil cuando la tabla está vacía.
func (r *TemporadaRepo) Abierta(ctx context.Context) (*entity.Temporada, error) {
	var t entity.Temporada
	err := r.q.QueryRow(ctx, `
		SELECT id_temporada, codigo, nombre, fecha_inicio, fecha_fin, activa, cerrada
		FROM cfl_temporada
		ORDER BY cerrada ASC, fecha_inicio DESC
		LIMIT 1`,
	).Scan(&t.ID, &t.Codigo, &t.Nombre, &t.FechaInicio, &t.FechaFin, &t.Activa, &t.Cerrada)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get temporada abierta: %w", err)
	}
	return &t, nil
}
