package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cfl-agro/cfl-back/internal/domain"
	"github.com/cfl-agro/cfl-back/internal/domain/entity"
	"github.com/cfl-agro/cfl-back/internal/domain/flete"
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

var _ repository.CabeceraFleteRepository = (*CabeceraFleteRepo)(nil)

// CabeceraFleteRepo implementación del puerto sobre PostgreSQL (usable con pool o tx).
type CabeceraFleteRepo struct {
	q Querier
}

// NewCabeceraFleteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCabeceraFleteRepository(q Querier) *CabeceraFleteRepo {
	return &CabeceraFleteRepo{q: q}
}

const columnasCabecera = `
	c.id_cabecera_flete, c.id_detalle_viaje, c.id_folio,
	c.sap_numero_entrega_sugerido, c.sap_codigo_tipo_flete_sugerido,
	c.sap_centro_costo_sugerido, c.sap_cuenta_mayor_sugerida, c.cuenta_mayor_final,
	c.tipo_movimiento, c.estado, c.fecha_salida, c.hora_salida, c.monto_aplicado,
	c.id_movil, c.id_tarifa, c.observaciones, c.id_usuario_creador,
	c.id_tipo_flete, c.id_centro_costo_final, c.created_at, c.updated_at`

func escanearCabecera(row pgx.Row) (*entity.CabeceraFlete, error) {
	var c entity.CabeceraFlete
	var estado string
	err := row.Scan(
		&c.ID, &c.IDDetalleViaje, &c.IDFolio,
		&c.SapNumeroEntregaSugerido, &c.SapCodigoTipoFleteSug,
		&c.SapCentroCostoSug, &c.SapCuentaMayorSug, &c.CuentaMayorFinal,
		&c.TipoMovimiento, &estado, &c.FechaSalida, &c.HoraSalida, &c.MontoAplicado,
		&c.IDMovil, &c.IDTarifa, &c.Observaciones, &c.IDUsuarioCreador,
		&c.IDTipoFlete, &c.IDCentroCostoFinal, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Estado = flete.Estado(estado)
	return &c, nil
}

// Crear inserta la cabecera y devuelve su id.
func (r *CabeceraFleteRepo) Crear(ctx context.Context, c *entity.CabeceraFlete) (int64, error) {
	query := `
		INSERT INTO cfl_cabecera_flete (
			id_detalle_viaje, id_folio, sap_numero_entrega_sugerido,
			sap_codigo_tipo_flete_sugerido, sap_centro_costo_sugerido,
			sap_cuenta_mayor_sugerida, cuenta_mayor_final, tipo_movimiento, estado,
			fecha_salida, hora_salida, monto_aplicado, id_movil, id_tarifa,
			observaciones, id_usuario_creador, id_tipo_flete, id_centro_costo_final,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18, now(), now())
		RETURNING id_cabecera_flete`
	var id int64
	err := r.q.QueryRow(ctx, query,
		c.IDDetalleViaje, c.IDFolio, c.SapNumeroEntregaSugerido,
		c.SapCodigoTipoFleteSug, c.SapCentroCostoSug,
		c.SapCuentaMayorSug, c.CuentaMayorFinal, c.TipoMovimiento, string(c.Estado),
		c.FechaSalida, c.HoraSalida, c.MontoAplicado, c.IDMovil, c.IDTarifa,
		c.Observaciones, c.IDUsuarioCreador, c.IDTipoFlete, c.IDCentroCostoFinal,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrConflict
		}
		return 0, fmt.Errorf("insert cabecera: %w", err)
	}
	return id, nil
}

// Obtener busca la cabecera por id. nil si no existe.
func (r *CabeceraFleteRepo) Obtener(ctx context.Context, id int64) (*entity.CabeceraFlete, error) {
	query := `SELECT` + columnasCabecera + ` FROM cfl_cabecera_flete c WHERE c.id_cabecera_flete = $1`
	c, err := escanearCabecera(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cabecera: %w", err)
	}
	return c, nil
}

// ObtenerParaActualizar bloquea la fila dentro de la tx vigente.
func (r *CabeceraFleteRepo) ObtenerParaActualizar(ctx context.Context, id int64) (*entity.CabeceraFlete, error) {
	query := `SELECT` + columnasCabecera + ` FROM cfl_cabecera_flete c WHERE c.id_cabecera_flete = $1 FOR UPDATE`
	c, err := escanearCabecera(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock cabecera: %w", err)
	}
	return c, nil
}

// Actualizar reemplaza todos los campos mutables de la cabecera.
func (r *CabeceraFleteRepo) Actualizar(ctx context.Context, c *entity.CabeceraFlete) error {
	query := `
		UPDATE cfl_cabecera_flete SET
			id_detalle_viaje = $2, id_folio = $3, sap_numero_entrega_sugerido = $4,
			sap_codigo_tipo_flete_sugerido = $5, sap_centro_costo_sugerido = $6,
			sap_cuenta_mayor_sugerida = $7, cuenta_mayor_final = $8,
			tipo_movimiento = $9, estado = $10, fecha_salida = $11, hora_salida = $12,
			monto_aplicado = $13, id_movil = $14, id_tarifa = $15, observaciones = $16,
			id_tipo_flete = $17, id_centro_costo_final = $18, updated_at = now()
		WHERE id_cabecera_flete = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.IDDetalleViaje, c.IDFolio, c.SapNumeroEntregaSugerido,
		c.SapCodigoTipoFleteSug, c.SapCentroCostoSug,
		c.SapCuentaMayorSug, c.CuentaMayorFinal,
		c.TipoMovimiento, string(c.Estado), c.FechaSalida, c.HoraSalida,
		c.MontoAplicado, c.IDMovil, c.IDTarifa, c.Observaciones,
		c.IDTipoFlete, c.IDCentroCostoFinal,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update cabecera: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ActualizarEstado cambia solo el estado.
func (r *CabeceraFleteRepo) ActualizarEstado(ctx context.Context, id int64, estado flete.Estado, now time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE cfl_cabecera_flete SET estado = $2, updated_at = $3 WHERE id_cabecera_flete = $1`,
		id, string(estado), now,
	)
	if err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AsignarFolio fija folio y estado en un solo UPDATE.
func (r *CabeceraFleteRepo) AsignarFolio(ctx context.Context, id int64, idFolio int64, estado flete.Estado, now time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE cfl_cabecera_flete SET id_folio = $2, estado = $3, updated_at = $4 WHERE id_cabecera_flete = $1`,
		id, idFolio, string(estado), now,
	)
	if err != nil {
		return fmt.Errorf("asignar folio: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const columnasAnotadas = columnasCabecera + `,
	tf.nombre AS tipo_flete_nombre, cc.nombre AS centro_costo_nombre,
	e.id_sap_entrega, e.sap_numero_entrega, e.source_system, e.sap_guia_remision,
	e.sap_empresa_transporte, e.sap_nombre_chofer, e.sap_patente, e.sap_carro,
	COUNT(*) OVER() AS total`

const joinsAnotados = `
	FROM cfl_cabecera_flete c
	LEFT JOIN cfl_tipo_flete tf ON tf.id_tipo_flete = c.id_tipo_flete
	LEFT JOIN cfl_centro_costo cc ON cc.id_centro_costo = c.id_centro_costo_final
	LEFT JOIN cfl_flete_sap_entrega l ON l.id_cabecera_flete = c.id_cabecera_flete
	LEFT JOIN vw_sap_likp_current e ON e.id_sap_entrega = l.id_sap_entrega`

func escanearAnotada(rows pgx.Rows) (*repository.CabeceraConEntrega, int64, error) {
	var f repository.CabeceraConEntrega
	var estado string
	var total int64
	c := &f.Cabecera
	err := rows.Scan(
		&c.ID, &c.IDDetalleViaje, &c.IDFolio,
		&c.SapNumeroEntregaSugerido, &c.SapCodigoTipoFleteSug,
		&c.SapCentroCostoSug, &c.SapCuentaMayorSug, &c.CuentaMayorFinal,
		&c.TipoMovimiento, &estado, &c.FechaSalida, &c.HoraSalida, &c.MontoAplicado,
		&c.IDMovil, &c.IDTarifa, &c.Observaciones, &c.IDUsuarioCreador,
		&c.IDTipoFlete, &c.IDCentroCostoFinal, &c.CreatedAt, &c.UpdatedAt,
		&f.TipoFleteNombre, &f.CentroCostoNombre,
		&f.IDSapEntrega, &f.SapNumeroEntrega, &f.SourceSystem, &f.SapGuiaRemision,
		&f.SapEmpresaTransporte, &f.SapNombreChofer, &f.SapPatente, &f.SapCarro,
		&total,
	)
	if err != nil {
		return nil, 0, err
	}
	c.Estado = flete.Estado(estado)
	return &f, total, nil
}

// ListarCompletosSinFolio lista cabeceras listas para asignación: estado
// COMPLETADO (o el filtrado) y sin folio real (sin folio, o en el folio "0").
func (r *CabeceraFleteRepo) ListarCompletosSinFolio(ctx context.Context, filtro repository.FiltroCompletosSinFolio) ([]*repository.CabeceraConEntrega, int64, error) {
	estado := string(flete.EstadoCompletado)
	if filtro.Estado != nil {
		estado = string(*filtro.Estado)
	}
	query := `SELECT` + columnasAnotadas + joinsAnotados + `
	LEFT JOIN cfl_folio fo ON fo.id_folio = c.id_folio
	WHERE c.estado = $1 AND (c.id_folio IS NULL OR fo.folio_numero = '0')
	ORDER BY COALESCE(c.fecha_salida, c.updated_at::date) DESC, c.id_cabecera_flete DESC
	LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(ctx, query, estado, filtro.Limit, filtro.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listar completos sin folio: %w", err)
	}
	defer rows.Close()
	return recolectarAnotadas(rows)
}

// ListarPorFolio devuelve las cabeceras actualmente asignadas a un folio.
func (r *CabeceraFleteRepo) ListarPorFolio(ctx context.Context, idFolio int64, limit, offset int) ([]*repository.CabeceraConEntrega, int64, error) {
	query := `SELECT` + columnasAnotadas + joinsAnotados + `
	WHERE c.id_folio = $1
	ORDER BY COALESCE(c.fecha_salida, c.updated_at::date) DESC, c.id_cabecera_flete DESC
	LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(ctx, query, idFolio, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listar por folio: %w", err)
	}
	defer rows.Close()
	return recolectarAnotadas(rows)
}

func recolectarAnotadas(rows pgx.Rows) ([]*repository.CabeceraConEntrega, int64, error) {
	var out []*repository.CabeceraConEntrega
	var total int64
	for rows.Next() {
		f, t, err := escanearAnotada(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan cabecera anotada: %w", err)
		}
		total = t
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ObtenerPorNumeroEntrega busca la cabecera vinculada a una entrega SAP por
// su número de entrega. nil cuando no hay vínculo.
func (r *CabeceraFleteRepo) ObtenerPorNumeroEntrega(ctx context.Context, sapNumeroEntrega string) (*entity.CabeceraFlete, error) {
	query := `SELECT` + columnasCabecera + `
	FROM cfl_cabecera_flete c
	INNER JOIN cfl_flete_sap_entrega l ON l.id_cabecera_flete = c.id_cabecera_flete
	INNER JOIN vw_sap_likp_current e ON e.id_sap_entrega = l.id_sap_entrega
	WHERE e.sap_numero_entrega = $1`
	c, err := escanearCabecera(r.q.QueryRow(ctx, query, sapNumeroEntrega))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cabecera por entrega: %w", err)
	}
	return c, nil
}
