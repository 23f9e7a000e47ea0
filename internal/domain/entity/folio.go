package entity

import "time"

// Estados de folio. Solo un folio ABIERTO acepta cambios de asignación.
const (
	FolioAbierto  = "ABIERTO"
	FolioEnCierre = "EN_CIERRE"
	FolioCerrado  = "CERRADO"
)

// NumeroFolioDefault es el número reservado del folio "sin asignar" de cada
// (temporada, centro de costo). Es inmutable e imborrable.
const NumeroFolioDefault = "0"

// Folio es el balde contable que agrupa cabeceras de flete para facturación.
// FolioNumero es texto pero ordenable numéricamente; único por
// (temporada, centro de costo).
type Folio struct {
	ID                  int64
	IDCentroCosto       int64
	IDTemporada         int64
	FolioNumero         string
	PeriodoDesde        *time.Time
	PeriodoHasta        *time.Time
	Estado              string
	Bloqueado           bool
	FechaCierre         *time.Time
	ResultadoCuadratura *string
	ResumenCuadratura   *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EsDefault informa si este folio es el balde reservado "0".
func (f *Folio) EsDefault() bool {
	return f.FolioNumero == NumeroFolioDefault
}

// AceptaAsignaciones informa si el folio admite (re)asignación de cabeceras.
func (f *Folio) AceptaAsignaciones() bool {
	return f.Estado == FolioAbierto && !f.Bloqueado
}

// Temporada es el período campañal al que pertenecen los folios.
type Temporada struct {
	ID          int64
	Codigo      string
	Nombre      string
	FechaInicio time.Time
	FechaFin    time.Time
	Activa      bool
	Cerrada     bool
}
