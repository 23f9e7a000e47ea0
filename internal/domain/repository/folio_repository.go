package repository

import (
	"context"

	"github.com/cfl-agro/cfl-back/internal/domain/entity"
)

// FolioRepository define el puerto de persistencia de folios.
type FolioRepository interface {
	Obtener(ctx context.Context, id int64) (*entity.Folio, error)
	// ObtenerParaActualizar bloquea la fila del folio dentro de la tx.
	ObtenerParaActualizar(ctx context.Context, id int64) (*entity.Folio, error)
	Crear(ctx context.Context, f *entity.Folio) (int64, error)
	// ObtenerDefault devuelve el folio reservado "0" de la combinación
	// (temporada, centro de costo). nil si no existe.
	ObtenerDefault(ctx context.Context, idTemporada, idCentroCosto int64) (*entity.Folio, error)
	// MaxNumero devuelve el mayor folio_numero numérico de la combinación
	// (temporada, centro de costo). Debe ejecutarse con el centro de costo ya
	// bloqueado (BloquearCentroCosto) para serializar la numeración.
	MaxNumero(ctx context.Context, idTemporada, idCentroCosto int64) (int64, error)
}

// TemporadaRepository define el puerto de temporadas.
type TemporadaRepository interface {
	// Abierta resuelve la temporada vigente: prefiere una no cerrada, si no
	// la más reciente por fecha de inicio. nil cuando no hay ninguna.
	Abierta(ctx context.Context) (*entity.Temporada, error)
}

// TipoFleteRepository define el puerto de tipos de flete.
type TipoFleteRepository interface {
	Obtener(ctx context.Context, id int64) (*entity.TipoFlete, error)
	// PorSapCodigo busca por código SAP, prefiriendo el registro activo.
	PorSapCodigo(ctx context.Context, sapCodigo string) (*entity.TipoFlete, error)
}

// CentroCostoRepository define el puerto de centros de costo.
type CentroCostoRepository interface {
	Obtener(ctx context.Context, id int64) (*entity.CentroCosto, error)
	PorSapCodigo(ctx context.Context, sapCodigo string) (*entity.CentroCosto, error)
	// BloquearParaAsignacion toma el write-lock de la fila del centro de costo
	// dentro de la tx vigente. Serializa la numeración de folios de ese centro;
	// asignaciones de centros distintos no se bloquean entre sí.
	BloquearParaAsignacion(ctx context.Context, id int64) error
}

// MovilRepository define el puerto de móviles (empresa+chofer+camión).
type MovilRepository interface {
	// BuscarPorTriple busca el móvil exacto de la tupla, prefiriendo uno
	// activo. nil cuando la combinación no está registrada.
	BuscarPorTriple(ctx context.Context, idEmpresa, idChofer, idCamion int64) (*entity.Movil, error)
	Crear(ctx context.Context, m *entity.Movil) (int64, error)
}
