package fletes

import (
	"context"

	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

// Repos agrupa los repositorios que participan de una transacción de fletes.
// La infraestructura los entrega atados a la misma tx.
type Repos struct {
	Cabeceras    repository.CabeceraFleteRepository
	Detalles     repository.DetalleFleteRepository
	Links        repository.FleteSapEntregaRepository
	Entregas     repository.SapEntregaRepository
	Moviles      repository.MovilRepository
	Folios       repository.FolioRepository
	TiposFlete   repository.TipoFleteRepository
	CentrosCosto repository.CentroCostoRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si devuelve nil,
// rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}
