package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cfl-agro/cfl-back/internal/domain/flete"
)

// Tipos de movimiento de una cabecera de flete.
const (
	MovimientoPush = "PUSH" // despacho de salida
	MovimientoPull = "PULL" // viaje de retorno
)

// CabeceraFlete es un movimiento de flete. Entidad central del sistema:
// nunca se borra físicamente, solo transiciona a ANULADO.
type CabeceraFlete struct {
	ID                       int64
	IDDetalleViaje           *int64
	IDFolio                  *int64 // nil o 0 = sin folio
	SapNumeroEntregaSugerido *string
	SapCodigoTipoFleteSug    *string
	SapCentroCostoSug        *string
	SapCuentaMayorSug        *string
	CuentaMayorFinal         *string
	TipoMovimiento           string // PUSH | PULL
	Estado                   flete.Estado
	FechaSalida              time.Time
	HoraSalida               string // HH:MM:SS
	MontoAplicado            decimal.Decimal
	IDMovil                  *int64
	IDTarifa                 *int64
	Observaciones            *string
	IDUsuarioCreador         *int64
	IDTipoFlete              int64
	IDCentroCostoFinal       int64
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// DetalleFlete es una línea de una cabecera. Propiedad exclusiva de la
// cabecera: en actualizaciones se reemplazan todas (delete + insert), no
// se calculan diferencias.
type DetalleFlete struct {
	ID          int64
	IDCabecera  int64
	IDEspecie   *int64
	Material    *string
	Descripcion *string
	Cantidad    *decimal.Decimal
	Unidad      *string
	Peso        *decimal.Decimal
	CreatedAt   time.Time
}

// FleteSapEntrega vincula una cabecera con su entrega SAP de origen.
// Se crea una vez, al crear la cabecera, y no se actualiza jamás.
// Una entrega SAP respalda a lo más una cabecera.
type FleteSapEntrega struct {
	ID           int64
	IDCabecera   int64
	IDSapEntrega int64
	OrigenDatos  string // sistema de origen (ej. SAP-PRD)
	TipoRelacion string // siempre PRINCIPAL
	CreatedAt    time.Time
}

// RelacionPrincipal es el único tipo de relación cabecera↔entrega soportado.
const RelacionPrincipal = "PRINCIPAL"
