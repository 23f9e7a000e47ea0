package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SapEntrega es un registro de staging proveniente de SAP, a la espera de
// conciliación con una cabecera de flete. De solo lectura para este sistema:
// el proceso de extracción que lo alimenta es externo.
type SapEntrega struct {
	ID               int64
	SapNumeroEntrega string
	SourceSystem     string
	LastSeenAt       time.Time
	UpdatedAt        time.Time

	// Campos reportados por el proveedor (vista LIKP "current"); nil cuando
	// la extracción aún no los trae.
	SapReferencia        *string
	SapGuiaRemision      *string
	SapCodigoTipoFlete   *string
	SapCentroCosto       *string
	SapCuentaMayor       *string
	SapFechaSalida       *time.Time
	SapHoraSalida        *string
	SapEmpresaTransporte *string
	SapNombreChofer      *string
	SapPatente           *string
	SapCarro             *string
	SapPesoTotal         *decimal.Decimal
	SapPesoNeto          *decimal.Decimal
}

// SapPosicion es una línea de entrega SAP ya deduplicada con la regla
// "current-preferred": entre filas que comparten (source_system, entrega,
// posición) gana la que tiene posición superior no nula, desempatando por
// extracted_at y raw_id más recientes.
type SapPosicion struct {
	SapPosicion             int
	SapMaterial             *string
	SapDenominacionMaterial *string
	SapCantidadEntregada    *decimal.Decimal
	SapUnidadPeso           *string
	SapCentro               *string
	SapAlmacen              *string
	SapPosicionSuperior     *int
	SapLote                 *string
}
