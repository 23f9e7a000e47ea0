package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrEntregaYaAsociada = errors.New("la entrega SAP ya se encuentra asociada a una cabecera de flete")
	ErrFolioBloqueado    = errors.New("el folio está bloqueado")
	ErrFolioNoAbierto    = errors.New("el folio no está en estado ABIERTO")
	ErrFleteFacturado    = errors.New("la cabecera ya está facturada")
	ErrSinTemporada      = errors.New("no existe una temporada abierta")
)
