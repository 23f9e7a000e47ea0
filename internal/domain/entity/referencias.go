package entity

// TipoFlete clasifica el flete y aporta el centro de costo por defecto
// cuando el código SAP de centro de costo no resuelve.
type TipoFlete struct {
	ID            int64
	SapCodigo     string
	Nombre        string
	IDCentroCosto *int64
	Activo        bool
}

// CentroCosto es la unidad contable a la que se imputa el flete.
type CentroCosto struct {
	ID        int64
	SapCodigo string
	Nombre    string
	Activo    bool
}

// Movil es la tupla (empresa de transporte, chofer, camión), única por esa
// tupla. Se crea perezosamente cuando una cabecera referencia una combinación
// aún no registrada.
type Movil struct {
	ID        int64
	IDEmpresa int64
	IDChofer  int64
	IDCamion  int64
	Activo    bool
}
