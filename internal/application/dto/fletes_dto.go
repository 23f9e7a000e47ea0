package dto

import "github.com/shopspring/decimal"

// CabeceraRequest es el cuerpo de creación/actualización de una cabecera.
// Los campos requeridos se validan por tags; fecha/hora y tipo_movimiento
// tienen además validación semántica aguas abajo.
type CabeceraRequest struct {
	IDDetalleViaje *int64           `json:"id_detalle_viaje"`
	IDFolio        *int64           `json:"id_folio"`
	IDTipoFlete    int64            `json:"id_tipo_flete" validate:"required,gt=0"`
	IDCentroCosto  int64            `json:"id_centro_costo_final" validate:"required,gt=0"`
	TipoMovimiento string           `json:"tipo_movimiento"`
	Estado         string           `json:"estado"`
	FechaSalida    string           `json:"fecha_salida" validate:"required"`
	HoraSalida     string           `json:"hora_salida" validate:"required"`
	MontoAplicado  *decimal.Decimal `json:"monto_aplicado"`

	// Móvil: o un id explícito, o la tupla completa para resolver/crear.
	IDMovil   *int64 `json:"id_movil"`
	IDEmpresa *int64 `json:"id_empresa"`
	IDChofer  *int64 `json:"id_chofer"`
	IDCamion  *int64 `json:"id_camion"`

	IDTarifa         *int64  `json:"id_tarifa"`
	CuentaMayorFinal *string `json:"cuenta_mayor_final"`
	Observaciones    *string `json:"observaciones"`
	IDUsuarioCreador *int64  `json:"id_usuario_creador"`

	SapNumeroEntregaSugerido *string `json:"sap_numero_entrega_sugerido"`
	SapCodigoTipoFleteSug    *string `json:"sap_codigo_tipo_flete_sugerido"`
	SapCentroCostoSug        *string `json:"sap_centro_costo_sugerido"`
	SapCuentaMayorSug        *string `json:"sap_cuenta_mayor_sugerida"`
}

// DetalleRequest es una línea del cuerpo de creación/actualización.
type DetalleRequest struct {
	IDEspecie   *int64           `json:"id_especie"`
	Material    *string          `json:"material"`
	Descripcion *string          `json:"descripcion"`
	Cantidad    *decimal.Decimal `json:"cantidad"`
	Unidad      *string          `json:"unidad"`
	Peso        *decimal.Decimal `json:"peso"`
}

// FleteRequest agrupa cabecera y detalles.
type FleteRequest struct {
	Cabecera CabeceraRequest  `json:"cabecera"`
	Detalles []DetalleRequest `json:"detalles"`
}

// CabeceraDTO es la representación de salida de una cabecera.
type CabeceraDTO struct {
	IDCabeceraFlete    int64           `json:"id_cabecera_flete"`
	IDDetalleViaje     *int64          `json:"id_detalle_viaje"`
	IDFolio            *int64          `json:"id_folio"`
	TipoMovimiento     string          `json:"tipo_movimiento"`
	Estado             string          `json:"estado"`
	FechaSalida        string          `json:"fecha_salida"`
	HoraSalida         string          `json:"hora_salida"`
	MontoAplicado      decimal.Decimal `json:"monto_aplicado"`
	CuentaMayorFinal   *string         `json:"cuenta_mayor_final"`
	IDMovil            *int64          `json:"id_movil"`
	IDTarifa           *int64          `json:"id_tarifa"`
	Observaciones      *string         `json:"observaciones"`
	IDTipoFlete        int64           `json:"id_tipo_flete"`
	IDCentroCostoFinal int64           `json:"id_centro_costo_final"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

// DetalleDTO es la representación de salida de una línea.
type DetalleDTO struct {
	IDDetalleFlete  int64            `json:"id_detalle_flete"`
	IDCabeceraFlete int64            `json:"id_cabecera_flete"`
	IDEspecie       *int64           `json:"id_especie"`
	Material        *string          `json:"material"`
	Descripcion     *string          `json:"descripcion"`
	Cantidad        *decimal.Decimal `json:"cantidad"`
	Unidad          *string          `json:"unidad"`
	Peso            *decimal.Decimal `json:"peso"`
	CreatedAt       string           `json:"created_at"`
}

// FleteDTO agrupa cabecera y detalles de salida.
type FleteDTO struct {
	Cabecera CabeceraDTO  `json:"cabecera"`
	Detalles []DetalleDTO `json:"detalles"`
}

// CompletoSinFolioDTO es una fila del listado "completos sin folio",
// anotada con el estado derivado y los datos SAP vinculados.
type CompletoSinFolioDTO struct {
	IDCabeceraFlete    int64           `json:"id_cabecera_flete"`
	IDFolio            *int64          `json:"id_folio"`
	Estado             string          `json:"estado"`
	TipoMovimiento     string          `json:"tipo_movimiento"`
	FechaSalida        string          `json:"fecha_salida"`
	HoraSalida         string          `json:"hora_salida"`
	MontoAplicado      decimal.Decimal `json:"monto_aplicado"`
	Observaciones      *string         `json:"observaciones"`
	IDTipoFlete        int64           `json:"id_tipo_flete"`
	TipoFleteNombre    *string         `json:"tipo_flete_nombre"`
	IDCentroCostoFinal int64           `json:"id_centro_costo_final"`
	CentroCostoNombre  *string         `json:"centro_costo_final_nombre"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`

	IDSapEntrega         *int64  `json:"id_sap_entrega"`
	SapNumeroEntrega     *string `json:"sap_numero_entrega"`
	SourceSystem         *string `json:"source_system"`
	SapGuiaRemision      *string `json:"sap_guia_remision"`
	SapEmpresaTransporte *string `json:"sap_empresa_transporte"`
	SapNombreChofer      *string `json:"sap_nombre_chofer"`
	SapPatente           *string `json:"sap_patente"`
	SapCarro             *string `json:"sap_carro"`
}
