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

var _ repository.TipoFleteRepository = (*TipoFleteRepo)(nil)
var _ repository.CentroCostoRepository = (*CentroCostoRepo)(nil)
var _ repository.MovilRepository = (*MovilRepo)(nil)

// TipoFleteRepo implementación del puerto de tipos de flete.
type TipoFleteRepo struct {
	q Querier
}

// NewTipoFleteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTipoFleteRepository(q Querier) *TipoFleteRepo {
	return &TipoFleteRepo{q: q}
}

// Obtener busca el tipo de flete por id. nil si no existe.
func (r *TipoFleteRepo) Obtener(ctx context.Context, id int64) (*entity.TipoFlete, error) {
	var tf entity.TipoFlete
	err := r.q.QueryRow(ctx, `
		SELECT id_tipo_flete, sap_codigo, nombre, id_centro_costo, activo
		FROM cfl_tipo_flete WHERE id_tipo_flete = $1`, id,
	).Scan(&tf.ID, &tf.SapCodigo, &tf.Nombre, &tf.IDCentroCosto, &tf.Activo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tipo flete: %w", err)
	}
	return &tf, nil
}

// PorSapCodigo busca por código SAP, prefiriendo el registro activo.
func (r *TipoFleteRepo) PorSapCodigo(ctx context.Context, sapCodigo string) (*entity.TipoFlete, error) {
	var tf entity.TipoFlete
	err := r.q.QueryRow(ctx, `
		SELECT id_tipo_flete, sap_codigo, nombre, id_centro_costo, activo
		FROM cfl_tipo_flete
		WHERE sap_codigo = $1
		ORDER BY activo DESC, id_tipo_flete ASC
		LIMIT 1`, sapCodigo,
	).Scan(&tf.ID, &tf.SapCodigo, &tf.Nombre, &tf.IDCentroCosto, &tf.Activo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tipo flete por codigo: %w", err)
	}
	return &tf, nil
}

// CentroCostoRepo implementación del puerto de centros de costo.
type CentroCostoRepo struct {
	q Querier
}

// NewCentroCostoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCentroCostoRepository(q Querier) *CentroCostoRepo {
	return &CentroCostoRepo{q: q}
}

// Obtener busca el centro de costo por id. nil si no existe.
func (r *CentroCostoRepo) Obtener(ctx context.Context, id int64) (*entity.CentroCosto, error) {
	var cc entity.CentroCosto
	err := r.q.QueryRow(ctx, `
		SELECT id_centro_costo, sap_codigo, nombre, activo
		FROM cfl_centro_costo WHERE id_centro_costo = $1`, id,
	).Scan(&cc.ID, &cc.SapCodigo, &cc.Nombre, &cc.Activo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get centro costo: %w", err)
	}
	return &cc, nil
}

// PorSapCodigo busca por código SAP, prefiriendo el registro activo.
func (r *CentroCostoRepo) PorSapCodigo(ctx context.Context, sapCodigo string) (*entity.CentroCosto, error) {
	var cc entity.CentroCosto
	err := r.q.QueryRow(ctx, `
		SELECT id_centro_costo, sap_codigo, nombre, activo
		FROM cfl_centro_costo
		WHERE sap_codigo = $1
		ORDER BY activo DESC, id_centro_costo ASC
		LIMIT 1`, sapCodigo,
	).Scan(&cc.ID, &cc.SapCodigo, &cc.Nombre, &cc.Activo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get centro costo por codigo: %w", err)
	}
	return &cc, nil
}

// BloquearParaAsignacion toma el write-lock de la fila del centro de costo.
// Serializa la numeración de folios de ese centro dentro de la tx vigente.
func (r *CentroCostoRepo) BloquearParaAsignacion(ctx context.Context, id int64) error {
	var encontrado int64
	err := r.q.QueryRow(ctx,
		`SELECT id_centro_costo FROM cfl_centro_costo WHERE id_centro_costo = $1 FOR UPDATE`, id,
	).Scan(&encontrado)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("centro de costo %d: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("lock centro costo: %w", err)
	}
	return nil
}

// MovilRepo implementación del puerto de móviles.
type MovilRepo struct {
	q Querier
}

// NewMovilRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovilRepository(q Querier) *MovilRepo {
	return &MovilRepo{q: q}
}

// BuscarPorTriple busca el móvil exacto de la tupla, prefiriendo uno activo.
func (r *MovilRepo) BuscarPorTriple(ctx context.Context, idEmpresa, idChofer, idCamion int64) (*entity.Movil, error) {
	var m entity.Movil
	err := r.q.QueryRow(ctx, `
		SELECT id_movil, id_empresa, id_chofer, id_camion, activo
		FROM cfl_movil
		WHERE id_empresa = $1 AND id_chofer = $2 AND id_camion = $3
		ORDER BY activo DESC, id_movil ASC
		LIMIT 1`, idEmpresa, idChofer, idCamion,
	).Scan(&m.ID, &m.IDEmpresa, &m.IDChofer, &m.IDCamion, &m.Activo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movil: %w", err)
	}
	return &m, nil
}

// Crear inserta el móvil. La tupla es única; una carrera con otra creación
// de la misma tupla se reporta como duplicado.
func (r *MovilRepo) Crear(ctx context.Context, m *entity.Movil) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO cfl_movil (id_empresa, id_chofer, id_camion, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id_movil`,
		m.IDEmpresa, m.IDChofer, m.IDCamion, m.Activo,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert movil: %w", err)
	}
	return id, nil
}
