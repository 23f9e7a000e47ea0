// Package flete contiene la máquina de estados del ciclo de vida de una
// cabecera de flete. Es lógica pura: sin SQL, sin HTTP, sin relojes.
package flete

import "strings"

// Estado es el estado canónico de una cabecera de flete.
type Estado string

const (
	EstadoEnRevision    Estado = "EN_REVISION"    // incompleta, en revisión
	EstadoCompletado    Estado = "COMPLETADO"     // completa, lista para folio
	EstadoAsignadoFolio Estado = "ASIGNADO_FOLIO" // asignada a un folio real
	EstadoFacturado     Estado = "FACTURADO"      // facturada, terminal
	EstadoAnulado       Estado = "ANULADO"        // anulada, terminal
)

// ParseEstado normaliza un string crudo al estado canónico.
// Acepta las grafías legadas del sistema anterior (Completo, Validado, Cerrado)
// una sola vez, en el borde; aguas abajo solo circulan valores canónicos.
// Devuelve ("", false) para valores que no se reconocen.
func ParseEstado(raw string) (Estado, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(EstadoEnRevision):
		return EstadoEnRevision, true
	case string(EstadoCompletado), "COMPLETO":
		return EstadoCompletado, true
	case string(EstadoAsignadoFolio), "VALIDADO":
		return EstadoAsignadoFolio, true
	case string(EstadoFacturado), "CERRADO":
		return EstadoFacturado, true
	case string(EstadoAnulado):
		return EstadoAnulado, true
	default:
		return "", false
	}
}

// Insumos son los hechos desde los que se deriva el estado de una cabecera.
type Insumos struct {
	EstadoSolicitado  Estado // estado pedido por el caller ("" = ninguno)
	TieneFolioReal    bool   // id_folio apunta a un folio cuyo número no es "0"
	TieneTipoFlete    bool
	TieneCentroCosto  bool
	TieneDetalleViaje bool
	TieneMovil        bool
	TieneTarifa       bool
	TieneDetalles     bool // al menos una línea de detalle
}

// Derivar calcula el estado canónico de una cabecera. Función pura:
// mismas entradas, mismo resultado.
//
// Precedencia: ANULADO > FACTURADO > folio real > completitud > EN_REVISION.
func Derivar(in Insumos) Estado {
	switch in.EstadoSolicitado {
	case EstadoAnulado:
		return EstadoAnulado
	case EstadoFacturado:
		return EstadoFacturado
	}
	if in.TieneFolioReal {
		return EstadoAsignadoFolio
	}
	if in.TieneTipoFlete && in.TieneCentroCosto && in.TieneDetalleViaje &&
		in.TieneMovil && in.TieneTarifa && in.TieneDetalles {
		return EstadoCompletado
	}
	return EstadoEnRevision
}

// PuedeAnular indica si una cabecera en el estado dado admite anulación.
// Solo FACTURADO la rechaza.
func PuedeAnular(actual Estado) bool {
	return actual != EstadoFacturado
}

// ElegibleParaFolio indica si una cabecera puede entrar a una asignación de
// folio: COMPLETADO siempre; ASIGNADO_FOLIO solo si hoy está en el folio
// por defecto ("0").
func ElegibleParaFolio(actual Estado, enFolioDefault bool) bool {
	if actual == EstadoCompletado {
		return true
	}
	return actual == EstadoAsignadoFolio && enFolioDefault
}
