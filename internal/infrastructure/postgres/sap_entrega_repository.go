package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cfl-agro/cfl-back/internal/domain/entity"
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

var _ repository.SapEntregaRepository = (*SapEntregaRepo)(nil)

// SapEntregaRepo implementación del puerto de lectura del staging SAP.
// Trabaja sobre vw_sap_likp_current (fila vigente por entrega) y deduplica
// las posiciones LIPS con la regla "current-preferred".
type SapEntregaRepo struct {
	q Querier
}

// NewSapEntregaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSapEntregaRepository(q Querier) *SapEntregaRepo {
	return &SapEntregaRepo{q: q}
}

const columnasEntrega = `
	e.id_sap_entrega, e.sap_numero_entrega, e.source_system, e.sap_referencia,
	e.sap_guia_remision, e.sap_codigo_tipo_flete, e.sap_centro_costo,
	e.sap_cuenta_mayor, e.sap_fecha_salida, e.sap_hora_salida,
	e.sap_empresa_transporte, e.sap_nombre_chofer, e.sap_patente, e.sap_carro,
	e.sap_peso_total, e.sap_peso_neto, e.last_seen_at, e.updated_at`

func destinosEntrega(e *entity.SapEntrega) []any {
	return []any{
		&e.ID, &e.SapNumeroEntrega, &e.SourceSystem, &e.SapReferencia,
		&e.SapGuiaRemision, &e.SapCodigoTipoFlete, &e.SapCentroCosto,
		&e.SapCuentaMayor, &e.SapFechaSalida, &e.SapHoraSalida,
		&e.SapEmpresaTransporte, &e.SapNombreChofer, &e.SapPatente, &e.SapCarro,
		&e.SapPesoTotal, &e.SapPesoNeto, &e.LastSeenAt, &e.UpdatedAt,
	}
}

// Obtener busca la entrega vigente por id. nil si no existe.
func (r *SapEntregaRepo) Obtener(ctx context.Context, id int64) (*entity.SapEntrega, error) {
	var e entity.SapEntrega
	err := r.q.QueryRow(ctx,
		`SELECT`+columnasEntrega+` FROM vw_sap_likp_current e WHERE e.id_sap_entrega = $1`, id,
	).Scan(destinosEntrega(&e)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entrega: %w", err)
	}
	return &e, nil
}

// PorNumero busca la entrega vigente por número de entrega. nil si no existe.
func (r *SapEntregaRepo) PorNumero(ctx context.Context, sapNumeroEntrega string) (*entity.SapEntrega, error) {
	var e entity.SapEntrega
	err := r.q.QueryRow(ctx,
		`SELECT`+columnasEntrega+` FROM vw_sap_likp_current e WHERE e.sap_numero_entrega = $1`,
		sapNumeroEntrega,
	).Scan(destinosEntrega(&e)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entrega por numero: %w", err)
	}
	return &e, nil
}

// lipsCurrent deduplica las líneas LIPS: entre filas que comparten
// (source_system, entrega, posición) gana la que tiene posición superior no
// nula, desempatando por extracción y raw_id más recientes.
const lipsCurrent = `
	SELECT DISTINCT ON (source_system, sap_numero_entrega, sap_posicion)
		source_system, sap_numero_entrega, sap_posicion, sap_material,
		sap_denominacion_material, sap_cantidad_entregada, sap_unidad_peso,
		sap_centro, sap_almacen, sap_posicion_superior, sap_lote
	FROM cfl_sap_lips_raw
	WHERE row_status = 'ACTIVE'
	ORDER BY source_system, sap_numero_entrega, sap_posicion,
		(sap_posicion_superior IS NOT NULL) DESC, extracted_at DESC, raw_id DESC`

// Candidatos lista entregas vigentes sin cabecera, anotadas con los totales
// de posiciones y la resolución de tipo de flete / centro de costo.
func (r *SapEntregaRepo) Candidatos(ctx context.Context, f repository.FiltroCandidatos) ([]*repository.CandidatoEntrega, int64, error) {
	// Un candidato siempre está "Detectado"; cualquier otro filtro de estado
	// no puede tener coincidencias.
	if f.Estado != nil && !strings.EqualFold(strings.TrimSpace(*f.Estado), "Detectado") {
		return nil, 0, nil
	}

	where := []string{"l.id_flete_sap IS NULL"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ID != nil {
		where = append(where, "e.id_sap_entrega = "+arg(*f.ID))
	}
	if f.Search != nil {
		p := arg("%" + *f.Search + "%")
		where = append(where, fmt.Sprintf(`(
			e.sap_numero_entrega ILIKE %[1]s OR e.sap_referencia ILIKE %[1]s OR
			e.sap_empresa_transporte ILIKE %[1]s OR e.sap_nombre_chofer ILIKE %[1]s OR
			e.sap_patente ILIKE %[1]s)`, p))
	}
	if f.SourceSystem != nil {
		where = append(where, "e.source_system = "+arg(*f.SourceSystem))
	}
	if f.FechaDesde != nil {
		where = append(where, "e.sap_fecha_salida >= "+arg(*f.FechaDesde))
	}
	if f.FechaHasta != nil {
		where = append(where, "e.sap_fecha_salida <= "+arg(*f.FechaHasta))
	}

	query := `
	WITH lips AS (` + lipsCurrent + `),
	agg AS (
		SELECT source_system, sap_numero_entrega,
			COUNT(*) AS posiciones_total,
			COALESCE(SUM(sap_cantidad_entregada), 0) AS cantidad_entregada_total
		FROM lips
		GROUP BY source_system, sap_numero_entrega
	)
	SELECT` + columnasEntrega + `,
		COALESCE(a.posiciones_total, 0),
		COALESCE(a.cantidad_entregada_total, 0),
		tf.id_tipo_flete, tf.nombre,
		COALESCE(cc.id_centro_costo, tf.id_centro_costo) AS id_centro_costo_final,
		COUNT(*) OVER() AS total
	FROM vw_sap_likp_current e
	LEFT JOIN cfl_flete_sap_entrega l ON l.id_sap_entrega = e.id_sap_entrega
	LEFT JOIN agg a
		ON a.source_system = e.source_system AND a.sap_numero_entrega = e.sap_numero_entrega
	LEFT JOIN LATERAL (
		SELECT id_tipo_flete, nombre, id_centro_costo
		FROM cfl_tipo_flete
		WHERE sap_codigo = e.sap_codigo_tipo_flete
		ORDER BY activo DESC, id_tipo_flete ASC
		LIMIT 1
	) tf ON true
	LEFT JOIN LATERAL (
		SELECT id_centro_costo
		FROM cfl_centro_costo
		WHERE sap_codigo = e.sap_centro_costo
		ORDER BY activo DESC, id_centro_costo ASC
		LIMIT 1
	) cc ON true
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY COALESCE(e.sap_fecha_salida, e.updated_at::date) DESC, e.id_sap_entrega DESC
	LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listar candidatos: %w", err)
	}
	defer rows.Close()

	var out []*repository.CandidatoEntrega
	var total int64
	for rows.Next() {
		var c repository.CandidatoEntrega
		destinos := destinosEntrega(&c.Entrega)
		destinos = append(destinos,
			&c.PosicionesTotal, &c.CantidadEntregadaTotal,
			&c.IDTipoFlete, &c.TipoFleteNombre, &c.IDCentroCostoFinal,
			&total,
		)
		if err := rows.Scan(destinos...); err != nil {
			return nil, 0, fmt.Errorf("scan candidato: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Posiciones devuelve las líneas deduplicadas de una entrega en orden de posición.
func (r *SapEntregaRepo) Posiciones(ctx context.Context, sourceSystem, sapNumeroEntrega string) ([]entity.SapPosicion, error) {
	query := `
	WITH lips AS (` + lipsCurrent + `)
	SELECT sap_posicion, sap_material, sap_denominacion_material,
		sap_cantidad_entregada, sap_unidad_peso, sap_centro, sap_almacen,
		sap_posicion_superior, sap_lote
	FROM lips
	WHERE source_system = $1 AND sap_numero_entrega = $2
	ORDER BY sap_posicion ASC`

	rows, err := r.q.Query(ctx, query, sourceSystem, sapNumeroEntrega)
	if err != nil {
		return nil, fmt.Errorf("listar posiciones: %w", err)
	}
	defer rows.Close()

	var out []entity.SapPosicion
	for rows.Next() {
		var p entity.SapPosicion
		if err := rows.Scan(
			&p.SapPosicion, &p.SapMaterial, &p.SapDenominacionMaterial,
			&p.SapCantidadEntregada, &p.SapUnidadPeso, &p.SapCentro, &p.SapAlmacen,
			&p.SapPosicionSuperior, &p.SapLote,
		); err != nil {
			return nil, fmt.Errorf("scan posicion: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Resumen cuenta entregas vigentes totales, asociadas y sin cabecera.
func (r *SapEntregaRepo) Resumen(ctx context.Context) (*repository.ResumenEntregas, error) {
	var res repository.ResumenEntregas
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE l.id_flete_sap IS NOT NULL),
			COUNT(*) FILTER (WHERE l.id_flete_sap IS NULL)
		FROM vw_sap_likp_current e
		LEFT JOIN cfl_flete_sap_entrega l ON l.id_sap_entrega = e.id_sap_entrega`,
	).Scan(&res.TotalEntregas, &res.TotalAsociadas, &res.TotalSinCabecera)
	if err != nil {
		return nil, fmt.Errorf("resumen entregas: %w", err)
	}
	return &res, nil
}
