package dto

import "github.com/shopspring/decimal"

// CandidatoDTO es una entrega SAP sin cabecera con su información de
// derivabilidad. Un candidato siempre reporta estado "Detectado": mientras no
// exista cabecera no hay otro estado posible.
type CandidatoDTO struct {
	IDSapEntrega     int64   `json:"id_sap_entrega"`
	SapNumeroEntrega string  `json:"sap_numero_entrega"`
	SourceSystem     string  `json:"source_system"`
	SapReferencia    *string `json:"sap_referencia"`
	SapGuiaRemision  *string `json:"sap_guia_remision"`

	SapCodigoTipoFlete   *string          `json:"sap_codigo_tipo_flete"`
	SapCentroCosto       *string          `json:"sap_centro_costo"`
	SapCuentaMayor       *string          `json:"sap_cuenta_mayor"`
	SapFechaSalida       *string          `json:"sap_fecha_salida"`
	SapHoraSalida        *string          `json:"sap_hora_salida"`
	SapEmpresaTransporte *string          `json:"sap_empresa_transporte"`
	SapNombreChofer      *string          `json:"sap_nombre_chofer"`
	SapPatente           *string          `json:"sap_patente"`
	SapCarro             *string          `json:"sap_carro"`
	SapPesoTotal         *decimal.Decimal `json:"sap_peso_total"`
	SapPesoNeto          *decimal.Decimal `json:"sap_peso_neto"`

	PosicionesTotal        int64           `json:"posiciones_total"`
	CantidadEntregadaTotal decimal.Decimal `json:"cantidad_entregada_total"`

	IDTipoFlete        *int64  `json:"id_tipo_flete"`
	TipoFleteNombre    *string `json:"tipo_flete_nombre"`
	IDCentroCostoFinal *int64  `json:"id_centro_costo_final"`

	Estado          string  `json:"estado"`
	PuedeIngresar   bool    `json:"puede_ingresar"`
	MotivoNoIngreso *string `json:"motivo_no_ingreso"`

	LastSeenAt string `json:"last_seen_at"`
	UpdatedAt  string `json:"updated_at"`
}

// PosicionDTO es una línea de entrega deduplicada.
type PosicionDTO struct {
	SapPosicion             int              `json:"sap_posicion"`
	SapMaterial             *string          `json:"sap_material"`
	SapDenominacionMaterial *string          `json:"sap_denominacion_material"`
	SapCantidadEntregada    *decimal.Decimal `json:"sap_cantidad_entregada"`
	SapUnidadPeso           *string          `json:"sap_unidad_peso"`
	SapCentro               *string          `json:"sap_centro"`
	SapAlmacen              *string          `json:"sap_almacen"`
	SapPosicionSuperior     *int             `json:"sap_posicion_superior"`
	SapLote                 *string          `json:"sap_lote"`
}

// DetalleCandidatoDTO agrupa cabecera y posiciones de un candidato.
type DetalleCandidatoDTO struct {
	Cabecera   CandidatoDTO  `json:"cabecera"`
	Posiciones []PosicionDTO `json:"posiciones"`
}

// FiltrosNoIngresados son los query params del listado de candidatos.
type FiltrosNoIngresados struct {
	PageRequest
	Search       string `query:"search"`
	SourceSystem string `query:"source_system"`
	FechaDesde   string `query:"fecha_desde"`
	FechaHasta   string `query:"fecha_hasta"`
	Estado       string `query:"estado"`
}
