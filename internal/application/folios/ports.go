package folios

import (
	"context"

	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

// Repos agrupa los repositorios que participan de una transacción de folios.
type Repos struct {
	Cabeceras    repository.CabeceraFleteRepository
	Folios       repository.FolioRepository
	Temporadas   repository.TemporadaRepository
	CentrosCosto repository.CentroCostoRepository
	Links        repository.FleteSapEntregaRepository
	Entregas     repository.SapEntregaRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si devuelve nil,
// rollback en caso contrario.
type TxRunner interface {
	RunFolios(ctx context.Context, fn func(tx Repos) error) error
}
