package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cfl-agro/cfl-back/internal/domain/entity"
)

// FiltroCandidatos filtra el listado de entregas SAP sin cabecera.
type FiltroCandidatos struct {
	ID           *int64  // restringe a una entrega puntual (vista de detalle)
	Search       *string // substring case-insensitive sobre número, referencia, empresa, chofer y patente
	SourceSystem *string
	FechaDesde   *time.Time
	FechaHasta   *time.Time
	Estado       *string
	Limit        int
	Offset       int
}

// CandidatoEntrega es una entrega SAP sin cabecera, anotada con la
// información de derivabilidad que calcula el motor de conciliación.
type CandidatoEntrega struct {
	Entrega entity.SapEntrega

	PosicionesTotal        int64
	CantidadEntregadaTotal decimal.Decimal

	IDTipoFlete        *int64
	TipoFleteNombre    *string
	IDCentroCostoFinal *int64
}

// SapEntregaRepository define el puerto de lectura del staging SAP.
// Solo lectura: las filas llegan por un proceso de extracción externo.
type SapEntregaRepository interface {
	Obtener(ctx context.Context, id int64) (*entity.SapEntrega, error)
	PorNumero(ctx context.Context, sapNumeroEntrega string) (*entity.SapEntrega, error)
	// Candidatos lista entregas sin vínculo a cabecera, con el total sin paginar.
	Candidatos(ctx context.Context, f FiltroCandidatos) ([]*CandidatoEntrega, int64, error)
	// Posiciones devuelve las líneas deduplicadas (current-preferred) en orden.
	Posiciones(ctx context.Context, sourceSystem, sapNumeroEntrega string) ([]entity.SapPosicion, error)
	// Resumen cuenta entregas totales, asociadas y sin cabecera.
	Resumen(ctx context.Context) (*ResumenEntregas, error)
}

// ResumenEntregas son los contadores del dashboard de conciliación.
type ResumenEntregas struct {
	TotalEntregas    int64 `json:"total_entregas"`
	TotalAsociadas   int64 `json:"total_asociadas"`
	TotalSinCabecera int64 `json:"total_sin_cabecera"`
}
