// Package conciliacion implementa el motor de consultas de conciliación:
// detecta entregas SAP sin cabecera de flete y anota cada candidato con la
// información necesaria para decidir su ingreso. Solo lectura.
package conciliacion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cfl-agro/cfl-back/internal/application/dto"
	"github.com/cfl-agro/cfl-back/internal/domain"
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

// EstadoDetectado es el único estado que reporta un candidato: mientras no
// exista cabecera no hay otro estado posible.
const EstadoDetectado = "Detectado"

// UseCase consulta candidatos de conciliación.
type UseCase struct {
	entregas repository.SapEntregaRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(entregas repository.SapEntregaRepository) *UseCase {
	return &UseCase{entregas: entregas}
}

// ListarNoIngresados devuelve la página de entregas sin cabecera con sus
// anotaciones de derivabilidad y la paginación.
func (uc *UseCase) ListarNoIngresados(ctx context.Context, in dto.FiltrosNoIngresados) ([]dto.CandidatoDTO, dto.Pagination, error) {
	in.Normalizar()

	filtro := repository.FiltroCandidatos{
		Search:       nullable(in.Search),
		SourceSystem: nullable(in.SourceSystem),
		Estado:       nullable(in.Estado),
		Limit:        in.PageSize,
		Offset:       in.Offset(),
	}
	var err error
	if filtro.FechaDesde, err = parseFechaOpcional(in.FechaDesde); err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("fecha_desde: %w", domain.ErrInvalidInput)
	}
	if filtro.FechaHasta, err = parseFechaOpcional(in.FechaHasta); err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("fecha_hasta: %w", domain.ErrInvalidInput)
	}

	candidatos, total, err := uc.entregas.Candidatos(ctx, filtro)
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	out := make([]dto.CandidatoDTO, 0, len(candidatos))
	for _, c := range candidatos {
		out = append(out, Anotar(c))
	}
	return out, dto.NewPagination(in.PageRequest, total), nil
}

// DetalleNoIngresado devuelve cabecera y posiciones deduplicadas de un
// candidato. Reutiliza la consulta de candidatos filtrada por id para que la
// anotación de derivabilidad coincida con la del listado.
func (uc *UseCase) DetalleNoIngresado(ctx context.Context, idSapEntrega int64) (*dto.DetalleCandidatoDTO, error) {
	candidatos, _, err := uc.entregas.Candidatos(ctx, repository.FiltroCandidatos{
		ID:    &idSapEntrega,
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(candidatos) == 0 {
		return nil, domain.ErrNotFound
	}
	candidato := candidatos[0]

	posiciones, err := uc.entregas.Posiciones(ctx, candidato.Entrega.SourceSystem, candidato.Entrega.SapNumeroEntrega)
	if err != nil {
		return nil, err
	}

	det := &dto.DetalleCandidatoDTO{
		Cabecera:   Anotar(candidato),
		Posiciones: make([]dto.PosicionDTO, 0, len(posiciones)),
	}
	for _, p := range posiciones {
		det.Posiciones = append(det.Posiciones, dto.PosicionDTO{
			SapPosicion:             p.SapPosicion,
			SapMaterial:             p.SapMaterial,
			SapDenominacionMaterial: p.SapDenominacionMaterial,
			SapCantidadEntregada:    p.SapCantidadEntregada,
			SapUnidadPeso:           p.SapUnidadPeso,
			SapCentro:               p.SapCentro,
			SapAlmacen:              p.SapAlmacen,
			SapPosicionSuperior:     p.SapPosicionSuperior,
			SapLote:                 p.SapLote,
		})
	}
	return det, nil
}

// Resumen devuelve los contadores globales de conciliación.
func (uc *UseCase) Resumen(ctx context.Context) (*repository.ResumenEntregas, error) {
	return uc.entregas.Resumen(ctx)
}

// Anotar calcula puede_ingresar y motivo_no_ingreso de un candidato.
// El motivo es la primera condición no cumplida, en este orden: tipo de
// flete resuelto, centro de costo resuelto, fecha de salida, hora de salida.
func Anotar(c *repository.CandidatoEntrega) dto.CandidatoDTO {
	e := c.Entrega
	out := dto.CandidatoDTO{
		IDSapEntrega:           e.ID,
		SapNumeroEntrega:       e.SapNumeroEntrega,
		SourceSystem:           e.SourceSystem,
		SapReferencia:          e.SapReferencia,
		SapGuiaRemision:        e.SapGuiaRemision,
		SapCodigoTipoFlete:     e.SapCodigoTipoFlete,
		SapCentroCosto:         e.SapCentroCosto,
		SapCuentaMayor:         e.SapCuentaMayor,
		SapHoraSalida:          e.SapHoraSalida,
		SapEmpresaTransporte:   e.SapEmpresaTransporte,
		SapNombreChofer:        e.SapNombreChofer,
		SapPatente:             e.SapPatente,
		SapCarro:               e.SapCarro,
		SapPesoTotal:           e.SapPesoTotal,
		SapPesoNeto:            e.SapPesoNeto,
		PosicionesTotal:        c.PosicionesTotal,
		CantidadEntregadaTotal: c.CantidadEntregadaTotal,
		IDTipoFlete:            c.IDTipoFlete,
		TipoFleteNombre:        c.TipoFleteNombre,
		IDCentroCostoFinal:     c.IDCentroCostoFinal,
		Estado:                 EstadoDetectado,
		LastSeenAt:             e.LastSeenAt.Format(time.RFC3339),
		UpdatedAt:              e.UpdatedAt.Format(time.RFC3339),
	}
	if e.SapFechaSalida != nil {
		iso := e.SapFechaSalida.Format("2006-01-02")
		out.SapFechaSalida = &iso
	}

	switch {
	case c.IDTipoFlete == nil:
		out.MotivoNoIngreso = motivo(
			"Falta configurar Tipo de Flete para sap_codigo_tipo_flete=%s",
			e.SapCodigoTipoFlete,
		)
	case c.IDCentroCostoFinal == nil:
		out.MotivoNoIngreso = motivo(
			"No se pudo resolver Centro de Costo (sap_centro_costo=%s)",
			e.SapCentroCosto,
		)
	case e.SapFechaSalida == nil:
		out.MotivoNoIngreso = motivoFijo("Falta sap_fecha_salida")
	case e.SapHoraSalida == nil:
		out.MotivoNoIngreso = motivoFijo("Falta sap_hora_salida")
	default:
		out.PuedeIngresar = true
	}
	return out
}

func motivo(format string, valor *string) *string {
	mostrado := "(NULL)"
	if valor != nil && strings.TrimSpace(*valor) != "" {
		mostrado = strings.TrimSpace(*valor)
	}
	s := fmt.Sprintf(format, mostrado)
	return &s
}

func motivoFijo(s string) *string { return &s }

func nullable(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseFechaOpcional(s string) (*time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
