package dto

// AsignarFolioRequest asigna un folio existente a un lote de cabeceras.
type AsignarFolioRequest struct {
	IDFolio          int64   `json:"id_folio" validate:"required,gt=0"`
	IDsCabeceraFlete []int64 `json:"ids_cabecera_flete" validate:"required,min=1,dive,gt=0"`
}

// AsignarNuevoFolioRequest crea un folio nuevo y asigna el lote.
type AsignarNuevoFolioRequest struct {
	IDsCabeceraFlete []int64 `json:"ids_cabecera_flete" validate:"required,min=1,dive,gt=0"`
}

// CabeceraInvalida es el motivo por el que una cabecera no entra al lote.
type CabeceraInvalida struct {
	IDCabeceraFlete int64  `json:"id_cabecera_flete"`
	Reason          string `json:"reason"`
}

// AsignacionResultado es la respuesta de una asignación de folio.
type AsignacionResultado struct {
	IDFolio     int64  `json:"id_folio"`
	FolioNumero string `json:"folio_numero,omitempty"`
	Updated     int    `json:"updated"`
}

// AsignarSapRequest asigna un movimiento individual por número de entrega SAP.
type AsignarSapRequest struct {
	SapNumeroEntrega string `json:"sap_numero_entrega" validate:"required"`
}

// DesasignarRequest devuelve un movimiento al folio por defecto.
type DesasignarRequest struct {
	SapNumeroEntrega string `json:"sap_numero_entrega" validate:"required"`
}
