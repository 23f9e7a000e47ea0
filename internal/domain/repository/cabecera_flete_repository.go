package repository

import (
	"context"
	"time"

	"github.com/cfl-agro/cfl-back/internal/domain/entity"
	"github.com/cfl-agro/cfl-back/internal/domain/flete"
)

// FiltroCompletosSinFolio filtra el listado de cabeceras listas para folio.
type FiltroCompletosSinFolio struct {
	Estado *flete.Estado
	Limit  int
	Offset int
}

// CabeceraFleteRepository define el puerto de persistencia de cabeceras.
type CabeceraFleteRepository interface {
	Crear(ctx context.Context, c *entity.CabeceraFlete) (int64, error)
	Obtener(ctx context.Context, id int64) (*entity.CabeceraFlete, error)
	// ObtenerParaActualizar bloquea la fila (SELECT FOR UPDATE) dentro de la tx.
	ObtenerParaActualizar(ctx context.Context, id int64) (*entity.CabeceraFlete, error)
	Actualizar(ctx context.Context, c *entity.CabeceraFlete) error
	ActualizarEstado(ctx context.Context, id int64, estado flete.Estado, now time.Time) error
	// AsignarFolio fija folio y estado en un solo UPDATE.
	AsignarFolio(ctx context.Context, id int64, idFolio int64, estado flete.Estado, now time.Time) error
	// ListarCompletosSinFolio devuelve cabeceras COMPLETADO sin folio real,
	// anotadas con los datos SAP vinculados, más el total sin paginar.
	ListarCompletosSinFolio(ctx context.Context, f FiltroCompletosSinFolio) ([]*CabeceraConEntrega, int64, error)
	// ListarPorFolio devuelve las cabeceras actualmente asignadas a un folio.
	ListarPorFolio(ctx context.Context, idFolio int64, limit, offset int) ([]*CabeceraConEntrega, int64, error)
	// ObtenerPorNumeroEntrega busca la cabecera vinculada a una entrega SAP
	// por número de entrega. nil cuando no hay vínculo.
	ObtenerPorNumeroEntrega(ctx context.Context, sapNumeroEntrega string) (*entity.CabeceraFlete, error)
}

// CabeceraConEntrega es una cabecera anotada con la entrega SAP vinculada
// (para listados de dashboard y movimientos de folio).
type CabeceraConEntrega struct {
	Cabecera entity.CabeceraFlete

	TipoFleteNombre   *string
	CentroCostoNombre *string

	IDSapEntrega         *int64
	SapNumeroEntrega     *string
	SourceSystem         *string
	SapGuiaRemision      *string
	SapEmpresaTransporte *string
	SapNombreChofer      *string
	SapPatente           *string
	SapCarro             *string
}

// DetalleFleteRepository define el puerto de persistencia de líneas de flete.
// Las líneas se reemplazan al por mayor en cada actualización de cabecera.
type DetalleFleteRepository interface {
	InsertarVarios(ctx context.Context, idCabecera int64, detalles []entity.DetalleFlete) error
	EliminarPorCabecera(ctx context.Context, idCabecera int64) error
	ListarPorCabecera(ctx context.Context, idCabecera int64) ([]entity.DetalleFlete, error)
	ContarPorCabecera(ctx context.Context, idCabecera int64) (int64, error)
}

// FleteSapEntregaRepository define el puerto del vínculo cabecera↔entrega.
type FleteSapEntregaRepository interface {
	ExistePorEntrega(ctx context.Context, idSapEntrega int64) (bool, error)
	Crear(ctx context.Context, link *entity.FleteSapEntrega) (int64, error)
	ObtenerPorCabecera(ctx context.Context, idCabecera int64) (*entity.FleteSapEntrega, error)
}
