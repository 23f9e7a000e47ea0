// Package mantenedores implementa el CRUD genérico de tablas de referencia,
// dirigido por una tabla de descriptores en vez de un handler por entidad.
package mantenedores

// Descriptor describe un mantenedor: tabla, columnas visibles y reglas de
// creación/actualización. El gateway SQL lo interpreta; nunca se construye
// desde entrada del usuario.
type Descriptor struct {
	Clave     string
	Titulo    string
	Tabla     string
	Alias     string
	IDColumna string
	// From reemplaza al FROM por defecto cuando el listado necesita joins.
	From             string
	OrderBy          string
	ListColumns      []string
	CreateRequired   []string
	CreateOptional   []string
	UpdateAllowed    []string
	TimestampCreated string
	TimestampUpdated string
	// SoftDeleteColumn, cuando está, convierte el DELETE en un apagado lógico.
	SoftDeleteColumn string
}

// ClaveFolios identifica al mantenedor de folios, el único con reglas extra:
// el folio "0" de cada (temporada, centro de costo) es inmutable.
const ClaveFolios = "folios"

var registro = []Descriptor{
	{
		Clave:     "temporadas",
		Titulo:    "Temporadas",
		Tabla:     "cfl_temporada",
		Alias:     "t",
		IDColumna: "id_temporada",
		OrderBy:   "t.fecha_inicio DESC",
		ListColumns: []string{
			"t.id_temporada", "t.codigo", "t.nombre", "t.fecha_inicio", "t.fecha_fin",
			"t.activa", "t.cerrada", "t.fecha_cierre", "t.id_usuario_cierre",
			"t.observacion_cierre", "t.created_at", "t.updated_at",
		},
		CreateRequired:   []string{"codigo", "nombre", "fecha_inicio", "fecha_fin"},
		CreateOptional:   []string{"activa", "cerrada", "fecha_cierre", "id_usuario_cierre", "observacion_cierre"},
		UpdateAllowed:    []string{"codigo", "nombre", "fecha_inicio", "fecha_fin", "activa", "cerrada", "fecha_cierre", "id_usuario_cierre", "observacion_cierre"},
		TimestampCreated: "created_at",
		TimestampUpdated: "updated_at",
		SoftDeleteColumn: "activa",
	},
	{
		Clave:            "centros-costo",
		Titulo:           "Centros de Costo",
		Tabla:            "cfl_centro_costo",
		Alias:            "t",
		IDColumna:        "id_centro_costo",
		OrderBy:          "t.nombre ASC",
		ListColumns:      []string{"t.id_centro_costo", "t.sap_codigo", "t.nombre", "t.activo"},
		CreateRequired:   []string{"sap_codigo", "nombre"},
		CreateOptional:   []string{"activo"},
		UpdateAllowed:    []string{"sap_codigo", "nombre", "activo"},
		SoftDeleteColumn: "activo",
	},
	{
		Clave:     "tipos-flete",
		Titulo:    "Tipos de Flete",
		Tabla:     "cfl_tipo_flete",
		Alias:     "t",
		IDColumna: "id_tipo_flete",
		From:      "cfl_tipo_flete t INNER JOIN cfl_centro_costo cc ON cc.id_centro_costo = t.id_centro_costo",
		OrderBy:   "t.nombre ASC",
		ListColumns: []string{
			"t.id_tipo_flete", "t.sap_codigo", "t.nombre", "t.activo", "t.id_centro_costo",
			"cc.sap_codigo AS centro_costo_sap_codigo", "cc.nombre AS centro_costo_nombre",
		},
		CreateRequired:   []string{"sap_codigo", "nombre", "id_centro_costo"},
		CreateOptional:   []string{"activo"},
		UpdateAllowed:    []string{"sap_codigo", "nombre", "id_centro_costo", "activo"},
		SoftDeleteColumn: "activo",
	},
	{
		Clave:            "detalles-viaje",
		Titulo:           "Detalles de Viaje",
		Tabla:            "cfl_detalle_viaje",
		Alias:            "t",
		IDColumna:        "id_detalle_viaje",
		OrderBy:          "t.descripcion ASC",
		ListColumns:      []string{"t.id_detalle_viaje", "t.descripcion", "t.observacion", "t.activo"},
		CreateRequired:   []string{"descripcion"},
		CreateOptional:   []string{"observacion", "activo"},
		UpdateAllowed:    []string{"descripcion", "observacion", "activo"},
		SoftDeleteColumn: "activo",
	},
	{
		Clave:          "especies",
		Titulo:         "Especies",
		Tabla:          "cfl_especie",
		Alias:          "t",
		IDColumna:      "id_especie",
		OrderBy:        "t.glosa ASC",
		ListColumns:    []string{"t.id_especie", "t.glosa"},
		CreateRequired: []string{"glosa"},
		UpdateAllowed:  []string{"glosa"},
	},
	{
		Clave:            "nodos",
		Titulo:           "Nodos Logisticos",
		Tabla:            "cfl_nodo_logistico",
		Alias:            "t",
		IDColumna:        "id_nodo",
		OrderBy:          "t.nombre ASC",
		ListColumns:      []string{"t.id_nodo", "t.nombre", "t.region", "t.comuna", "t.ciudad", "t.calle", "t.activo"},
		CreateRequired:   []string{"nombre", "region", "comuna", "ciudad", "calle"},
		CreateOptional:   []string{"activo"},
		UpdateAllowed:    []string{"nombre", "region", "comuna", "ciudad", "calle", "activo"},
		SoftDeleteColumn: "activo",
	},
	{
		Clave:     "rutas",
		Titulo:    "Rutas",
		Tabla:     "cfl_ruta",
		Alias:     "t",
		IDColumna: "id_ruta",
		From: "cfl_ruta t INNER JOIN cfl_nodo_logistico no_ ON no_.id_nodo = t.id_origen_nodo " +
			"INNER JOIN cfl_nodo_logistico nd ON nd.id_nodo = t.id_destino_nodo",
		OrderBy: "t.nombre_ruta ASC",
		ListColumns: []string{
			"t.id_ruta", "t.id_origen_nodo", "no_.nombre AS origen_nombre",
			"t.id_destino_nodo", "nd.nombre AS destino_nombre", "t.nombre_ruta",
			"t.distancia_km", "t.activo", "t.created_at", "t.updated_at",
		},
		CreateRequired:   []string{"id_origen_nodo", "id_destino_nodo", "nombre_ruta"},
		CreateOptional:   []string{"distancia_km", "activo"},
		UpdateAllowed:    []string{"id_origen_nodo", "id_destino_nodo", "nombre_ruta", "distancia_km", "activo"},
		TimestampCreated: "created_at",
		TimestampUpdated: "updated_at",
		SoftDeleteColumn: "activo",
	},
	{
		Clave:     "tipos-camion",
		Titulo:    "Tipos de Camion",
		Tabla:     "cfl_tipo_camion",
		Alias:     "t",
		IDColumna: "id_tipo_camion",
		OrderBy:   "t.nombre ASC",
		ListColumns: []string{
			"t.id_tipo_camion", "t.nombre", "t.categoria", "t.capacidad_kg",
			"t.requiere_temperatura", "t.descripcion", "t.activo",
		},
		CreateRequired:   []string{"nombre", "categoria", "capacidad_kg", "requiere_temperatura"},
		CreateOptional:   []string{"descripcion", "activo"},
		UpdateAllowed:    []string{"nombre", "categoria", "capacidad_kg", "requiere_temperatura", "descripcion", "activo"},
		SoftDeleteColumn: "activo",
	},
	{
		Clave:     "camiones",
		Titulo:    "Camiones",
		Tabla:     "cfl_camion",
		Alias:     "t",
		IDColumna: "id_camion",
		From:      "cfl_camion t INNER JOIN cfl_tipo_camion tc ON tc.id_tipo_camion = t.id_tipo_camion",
		OrderBy:   "t.sap_patente ASC, t.sap_carro ASC",
		ListColumns: []string{
			"t.id_camion", "t.id_tipo_camion", "tc.nombre AS tipo_camion_nombre",
			"t.sap_patente", "t.sap_carro", "t.activo", "t.created_at", "t.updated_at",
		},
		CreateRequired:   []string{"id_tipo_camion", "sap_patente", "sap_carro"},
		CreateOptional:   []string{"activo"},
		UpdateAllowed:    []string{"id_tipo_camion", "sap_patente", "sap_carro", "activo"},
		TimestampCreated: "created_at",
		TimestampUpdated: "updated_at",
		SoftDeleteColumn: "activo",
	},
	{
		Clave:     "empresas-transporte",
		Titulo:    "Empresas de Transporte",
		Tabla:     "cfl_empresa_transporte",
		Alias:     "t",
		IDColumna: "id_empresa",
		OrderBy:   "t.razon_social ASC",
		ListColumns: []string{
			"t.id_empresa", "t.sap_codigo", "t.rut", "t.razon_social", "t.nombre_rep",
			"t.correo", "t.telefono", "t.activo", "t.created_at", "t.updated_at",
		},
		CreateRequired:   []string{"rut"},
		CreateOptional:   []string{"sap_codigo", "razon_social", "nombre_rep", "correo", "telefono", "activo"},
		UpdateAllowed:    []string{"sap_codigo", "rut", "razon_social", "nombre_rep", "correo", "telefono", "activo"},
		TimestampCreated: "created_at",
		TimestampUpdated: "updated_at",
		SoftDeleteColumn: "activo",
	},
	{
		Clave:            "choferes",
		Titulo:           "Choferes",
		Tabla:            "cfl_chofer",
		Alias:            "t",
		IDColumna:        "id_chofer",
		OrderBy:          "t.sap_nombre ASC",
		ListColumns:      []string{"t.id_chofer", "t.sap_id_fiscal", "t.sap_nombre", "t.telefono", "t.activo"},
		CreateRequired:   []string{"sap_id_fiscal", "sap_nombre"},
		CreateOptional:   []string{"telefono", "activo"},
		UpdateAllowed:    []string{"sap_id_fiscal", "sap_nombre", "telefono", "activo"},
		SoftDeleteColumn: "activo",
	},
	{
		Clave:     "tarifas",
		Titulo:    "Tarifas",
		Tabla:     "cfl_tarifa",
		Alias:     "t",
		IDColumna: "id_tarifa",
		From: "cfl_tarifa t INNER JOIN cfl_tipo_camion tc ON tc.id_tipo_camion = t.id_tipo_camion " +
			"INNER JOIN cfl_temporada tp ON tp.id_temporada = t.id_temporada " +
			"INNER JOIN cfl_ruta r ON r.id_ruta = t.id_ruta " +
			"INNER JOIN cfl_nodo_logistico no_ ON no_.id_nodo = r.id_origen_nodo " +
			"INNER JOIN cfl_nodo_logistico nd ON nd.id_nodo = r.id_destino_nodo",
		OrderBy: "t.id_tarifa DESC",
		ListColumns: []string{
			"t.id_tarifa", "t.id_tipo_camion", "tc.nombre AS tipo_camion_nombre",
			"t.id_temporada", "tp.codigo AS temporada_codigo", "t.id_ruta", "r.nombre_ruta",
			"no_.nombre AS ruta_origen_nombre", "nd.nombre AS ruta_destino_nombre",
			"t.vigencia_desde", "t.vigencia_hasta", "t.prioridad", "t.regla", "t.moneda",
			"t.monto_fijo", "t.activo", "t.created_at", "t.updated_at",
		},
		CreateRequired:   []string{"id_tipo_camion", "id_temporada", "id_ruta", "vigencia_desde", "prioridad", "regla", "moneda", "monto_fijo"},
		CreateOptional:   []string{"vigencia_hasta", "activo"},
		UpdateAllowed:    []string{"id_tipo_camion", "id_temporada", "id_ruta", "vigencia_desde", "vigencia_hasta", "prioridad", "regla", "moneda", "monto_fijo", "activo"},
		TimestampCreated: "created_at",
		TimestampUpdated: "updated_at",
		SoftDeleteColumn: "activo",
	},
	{
		Clave:          "cuentas-mayor",
		Titulo:         "Cuentas Mayores",
		Tabla:          "cfl_cuenta_mayor",
		Alias:          "t",
		IDColumna:      "id_cuenta_mayor",
		OrderBy:        "t.codigo ASC",
		ListColumns:    []string{"t.id_cuenta_mayor", "t.codigo", "t.glosa"},
		CreateRequired: []string{"codigo", "glosa"},
		UpdateAllowed:  []string{"codigo", "glosa"},
	},
	{
		Clave:     ClaveFolios,
		Titulo:    "Folios",
		Tabla:     "cfl_folio",
		Alias:     "t",
		IDColumna: "id_folio",
		From: "cfl_folio t INNER JOIN cfl_temporada tp ON tp.id_temporada = t.id_temporada " +
			"INNER JOIN cfl_centro_costo cc ON cc.id_centro_costo = t.id_centro_costo",
		OrderBy: "t.created_at DESC",
		ListColumns: []string{
			"t.id_folio", "t.id_centro_costo", "cc.sap_codigo AS centro_costo_sap_codigo",
			"cc.nombre AS centro_costo_nombre", "t.id_temporada", "tp.codigo AS temporada_codigo",
			"t.folio_numero", "t.periodo_desde", "t.periodo_hasta", "t.estado", "t.bloqueado",
			"t.fecha_cierre", "t.resultado_cuadratura", "t.resumen_cuadratura",
			"t.created_at", "t.updated_at",
		},
		CreateRequired:   []string{"id_centro_costo", "id_temporada", "folio_numero", "estado"},
		CreateOptional:   []string{"periodo_desde", "periodo_hasta", "bloqueado", "fecha_cierre", "resultado_cuadratura", "resumen_cuadratura"},
		UpdateAllowed:    []string{"id_centro_costo", "id_temporada", "folio_numero", "periodo_desde", "periodo_hasta", "estado", "bloqueado", "fecha_cierre", "resultado_cuadratura", "resumen_cuadratura"},
		TimestampCreated: "created_at",
		TimestampUpdated: "updated_at",
	},
	{
		Clave:     "usuarios",
		Titulo:    "Usuarios",
		Tabla:     "cfl_usuario",
		Alias:     "t",
		IDColumna: "id_usuario",
		OrderBy:   "t.username ASC",
		ListColumns: []string{
			"t.id_usuario", "t.username", "t.email", "t.nombre", "t.apellido",
			"t.activo", "t.ultimo_login", "t.created_at", "t.updated_at",
		},
		CreateRequired:   []string{"username", "email", "password_hash"},
		CreateOptional:   []string{"nombre", "apellido", "activo"},
		UpdateAllowed:    []string{"username", "email", "password_hash", "nombre", "apellido", "activo", "ultimo_login"},
		TimestampCreated: "created_at",
		TimestampUpdated: "updated_at",
		SoftDeleteColumn: "activo",
	},
}

// Registro devuelve los descriptores en orden de presentación estable.
func Registro() []Descriptor {
	return registro
}

// Buscar resuelve un descriptor por su clave de ruta.
func Buscar(clave string) (Descriptor, bool) {
	for _, d := range registro {
		if d.Clave == clave {
			return d, true
		}
	}
	return Descriptor{}, false
}
