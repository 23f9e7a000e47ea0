// Package folios implementa el asignador de folios: numeración secuencial
// por (temporada, centro de costo), asignación por lotes todo-o-nada y
// movimientos individuales por entrega SAP.
package folios

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cfl-agro/cfl-back/internal/application/dto"
	"github.com/cfl-agro/cfl-back/internal/domain"
	"github.com/cfl-agro/cfl-back/internal/domain/entity"
	"github.com/cfl-agro/cfl-back/internal/domain/flete"
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

// ElegibilidadError lista las cabeceras que impiden una asignación por lote.
// Nada se escribe cuando al menos una cabecera es inválida.
type ElegibilidadError struct {
	Invalidas []dto.CabeceraInvalida
}

func (e *ElegibilidadError) Error() string {
	return fmt.Sprintf("%d cabecera(s) no elegibles para asignación de folio", len(e.Invalidas))
}

// CentrosDistintosError indica que el lote mezcla centros de costo.
type CentrosDistintosError struct {
	CentrosCosto []int64
}

func (e *CentrosDistintosError) Error() string {
	return "todas las cabeceras del lote deben compartir centro de costo"
}

// UseCase orquesta la asignación de folios.
type UseCase struct {
	tx        TxRunner
	cabeceras repository.CabeceraFleteRepository
	folios    repository.FolioRepository
}

// NewUseCase construye el caso de uso. Los repos sueltos sirven lecturas
// fuera de transacción.
func NewUseCase(tx TxRunner, cabeceras repository.CabeceraFleteRepository, folios repository.FolioRepository) *UseCase {
	return &UseCase{tx: tx, cabeceras: cabeceras, folios: folios}
}

// CrearYAsignar crea un folio nuevo para el centro de costo del lote y le
// asigna todas las cabeceras. La numeración se serializa con el write-lock
// de la fila del centro de costo; el índice único sobre
// (temporada, centro, número) respalda la carrera residual.
func (uc *UseCase) CrearYAsignar(ctx context.Context, in dto.AsignarNuevoFolioRequest) (*dto.AsignacionResultado, error) {
	var out *dto.AsignacionResultado
	err := uc.tx.RunFolios(ctx, func(tx Repos) error {
		lote, err := cargarLote(ctx, tx, in.IDsCabeceraFlete)
		if err != nil {
			return err
		}

		idCentro, err := centroUnico(lote)
		if err != nil {
			return err
		}
		if err := validarElegibilidad(ctx, tx, lote, 0); err != nil {
			return err
		}

		temporada, err := tx.Temporadas.Abierta(ctx)
		if err != nil {
			return err
		}
		if temporada == nil {
			return domain.ErrSinTemporada
		}

		// Serializa la numeración de este centro de costo.
		if err := tx.CentrosCosto.BloquearParaAsignacion(ctx, idCentro); err != nil {
			return err
		}
		max, err := tx.Folios.MaxNumero(ctx, temporada.ID, idCentro)
		if err != nil {
			return err
		}

		desde, hasta := periodo(lote)
		folio := &entity.Folio{
			IDCentroCosto: idCentro,
			IDTemporada:   temporada.ID,
			FolioNumero:   strconv.FormatInt(max+1, 10),
			PeriodoDesde:  &desde,
			PeriodoHasta:  &hasta,
			Estado:        entity.FolioAbierto,
			Bloqueado:     false,
		}
		idFolio, err := tx.Folios.Crear(ctx, folio)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, c := range lote {
			if err := tx.Cabeceras.AsignarFolio(ctx, c.ID, idFolio, flete.EstadoAsignadoFolio, now); err != nil {
				return err
			}
		}
		out = &dto.AsignacionResultado{IDFolio: idFolio, FolioNumero: folio.FolioNumero, Updated: len(lote)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AsignarExistente asigna el lote a un folio ya creado. Valida todo antes de
// escribir nada; destino "0" devuelve las cabeceras a COMPLETADO.
func (uc *UseCase) AsignarExistente(ctx context.Context, in dto.AsignarFolioRequest) (*dto.AsignacionResultado, error) {
	var out *dto.AsignacionResultado
	err := uc.tx.RunFolios(ctx, func(tx Repos) error {
		folio, err := folioAsignable(ctx, tx, in.IDFolio)
		if err != nil {
			return err
		}

		lote, err := cargarLote(ctx, tx, in.IDsCabeceraFlete)
		if err != nil {
			return err
		}
		var invalidas []dto.CabeceraInvalida
		for _, c := range lote {
			if c.IDCentroCostoFinal != folio.IDCentroCosto {
				invalidas = append(invalidas, dto.CabeceraInvalida{
					IDCabeceraFlete: c.ID,
					Reason:          "pertenece a otro centro de costo",
				})
			}
		}
		if len(invalidas) > 0 {
			return &ElegibilidadError{Invalidas: invalidas}
		}
		if err := validarElegibilidad(ctx, tx, lote, folio.ID); err != nil {
			return err
		}

		destino := flete.EstadoAsignadoFolio
		if folio.EsDefault() {
			destino = flete.EstadoCompletado
		}
		now := time.Now()
		for _, c := range lote {
			if err := tx.Cabeceras.AsignarFolio(ctx, c.ID, folio.ID, destino, now); err != nil {
				return err
			}
		}
		out = &dto.AsignacionResultado{IDFolio: folio.ID, FolioNumero: folio.FolioNumero, Updated: len(lote)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AsignarPorEntrega mueve la cabecera vinculada a una entrega SAP hacia un
// folio real. El destino debe estar ABIERTO y no ser el folio "0".
func (uc *UseCase) AsignarPorEntrega(ctx context.Context, idFolio int64, sapNumeroEntrega string) (*dto.AsignacionResultado, error) {
	var out *dto.AsignacionResultado
	err := uc.tx.RunFolios(ctx, func(tx Repos) error {
		folio, err := folioAsignable(ctx, tx, idFolio)
		if err != nil {
			return err
		}
		if folio.EsDefault() {
			return fmt.Errorf("el folio por defecto no admite asignación directa: %w", domain.ErrConflict)
		}

		c, err := cabeceraPorEntrega(ctx, tx, sapNumeroEntrega)
		if err != nil {
			return err
		}
		if c.Estado == flete.EstadoAnulado || c.Estado == flete.EstadoFacturado {
			return &ElegibilidadError{Invalidas: []dto.CabeceraInvalida{{
				IDCabeceraFlete: c.ID,
				Reason:          fmt.Sprintf("estado %s no admite reasignación", c.Estado),
			}}}
		}

		if err := tx.Cabeceras.AsignarFolio(ctx, c.ID, folio.ID, flete.EstadoAsignadoFolio, time.Now()); err != nil {
			return err
		}
		out = &dto.AsignacionResultado{IDFolio: folio.ID, FolioNumero: folio.FolioNumero, Updated: 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Desasignar devuelve la cabecera vinculada a una entrega SAP al folio por
// defecto de su misma (temporada, centro de costo). La entrega debe estar
// actualmente en el folio indicado.
func (uc *UseCase) Desasignar(ctx context.Context, idFolio int64, sapNumeroEntrega string) (*dto.AsignacionResultado, error) {
	var out *dto.AsignacionResultado
	err := uc.tx.RunFolios(ctx, func(tx Repos) error {
		c, err := cabeceraPorEntrega(ctx, tx, sapNumeroEntrega)
		if err != nil {
			return err
		}
		if c.IDFolio == nil || *c.IDFolio == 0 {
			return fmt.Errorf("la cabecera no tiene folio asignado: %w", domain.ErrConflict)
		}
		if *c.IDFolio != idFolio {
			return fmt.Errorf("la entrega no pertenece al folio %d: %w", idFolio, domain.ErrConflict)
		}

		origen, err := tx.Folios.ObtenerParaActualizar(ctx, *c.IDFolio)
		if err != nil {
			return err
		}
		if origen == nil {
			return fmt.Errorf("folio %d: %w", *c.IDFolio, domain.ErrNotFound)
		}
		if origen.Bloqueado {
			return domain.ErrFolioBloqueado
		}
		if origen.Estado != entity.FolioAbierto {
			return domain.ErrFolioNoAbierto
		}

		porDefecto, err := tx.Folios.ObtenerDefault(ctx, origen.IDTemporada, origen.IDCentroCosto)
		if err != nil {
			return err
		}
		if porDefecto == nil {
			return fmt.Errorf("folio por defecto de la combinación (temporada %d, centro %d): %w",
				origen.IDTemporada, origen.IDCentroCosto, domain.ErrNotFound)
		}

		destino := flete.EstadoAsignadoFolio
		if porDefecto.EsDefault() {
			destino = flete.EstadoCompletado
		}
		if err := tx.Cabeceras.AsignarFolio(ctx, c.ID, porDefecto.ID, destino, time.Now()); err != nil {
			return err
		}
		out = &dto.AsignacionResultado{IDFolio: porDefecto.ID, FolioNumero: porDefecto.FolioNumero, Updated: 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Movimientos lista las cabeceras actualmente asignadas a un folio.
func (uc *UseCase) Movimientos(ctx context.Context, idFolio int64, page dto.PageRequest) ([]dto.CompletoSinFolioDTO, dto.Pagination, error) {
	page.Normalizar()

	folio, err := uc.folios.Obtener(ctx, idFolio)
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	if folio == nil {
		return nil, dto.Pagination{}, fmt.Errorf("folio %d: %w", idFolio, domain.ErrNotFound)
	}

	filas, total, err := uc.cabeceras.ListarPorFolio(ctx, idFolio, page.PageSize, page.Offset())
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	out := make([]dto.CompletoSinFolioDTO, 0, len(filas))
	for _, f := range filas {
		out = append(out, armarMovimiento(f))
	}
	return out, dto.NewPagination(page, total), nil
}

// cargarLote trae y bloquea todas las cabeceras del lote. Cualquier id
// inexistente invalida el lote completo.
func cargarLote(ctx context.Context, tx Repos, ids []int64) ([]*entity.CabeceraFlete, error) {
	lote := make([]*entity.CabeceraFlete, 0, len(ids))
	var invalidas []dto.CabeceraInvalida
	for _, id := range ids {
		c, err := tx.Cabeceras.ObtenerParaActualizar(ctx, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			invalidas = append(invalidas, dto.CabeceraInvalida{IDCabeceraFlete: id, Reason: "no existe"})
			continue
		}
		lote = append(lote, c)
	}
	if len(invalidas) > 0 {
		return nil, &ElegibilidadError{Invalidas: invalidas}
	}
	return lote, nil
}

func centroUnico(lote []*entity.CabeceraFlete) (int64, error) {
	vistos := make(map[int64]struct{})
	distintos := make([]int64, 0, 1)
	for _, c := range lote {
		if _, ok := vistos[c.IDCentroCostoFinal]; !ok {
			vistos[c.IDCentroCostoFinal] = struct{}{}
			distintos = append(distintos, c.IDCentroCostoFinal)
		}
	}
	if len(distintos) != 1 {
		return 0, &CentrosDistintosError{CentrosCosto: distintos}
	}
	return distintos[0], nil
}

// validarElegibilidad revisa cada cabecera del lote contra la máquina de
// estados: COMPLETADO, o ASIGNADO_FOLIO mientras esté en el folio "0".
// Una cabecera que ya está en el folio destino se reasigna sin objeción:
// idFolioDestino en cero desactiva la exención (folio nuevo, aún sin id).
func validarElegibilidad(ctx context.Context, tx Repos, lote []*entity.CabeceraFlete, idFolioDestino int64) error {
	cacheFolios := make(map[int64]*entity.Folio)
	var invalidas []dto.CabeceraInvalida
	for _, c := range lote {
		if idFolioDestino != 0 && c.IDFolio != nil && *c.IDFolio == idFolioDestino {
			continue
		}
		enDefault := false
		if c.IDFolio != nil && *c.IDFolio > 0 {
			f, ok := cacheFolios[*c.IDFolio]
			if !ok {
				var err error
				f, err = tx.Folios.Obtener(ctx, *c.IDFolio)
				if err != nil {
					return err
				}
				cacheFolios[*c.IDFolio] = f
			}
			enDefault = f != nil && f.EsDefault()
		} else {
			// Sin folio equivale a estar en el balde por defecto.
			enDefault = true
		}
		if !flete.ElegibleParaFolio(c.Estado, enDefault) {
			invalidas = append(invalidas, dto.CabeceraInvalida{
				IDCabeceraFlete: c.ID,
				Reason:          fmt.Sprintf("estado %s no es elegible", c.Estado),
			})
		}
	}
	if len(invalidas) > 0 {
		return &ElegibilidadError{Invalidas: invalidas}
	}
	return nil
}

// folioAsignable bloquea el folio y verifica que admita asignaciones.
func folioAsignable(ctx context.Context, tx Repos, idFolio int64) (*entity.Folio, error) {
	folio, err := tx.Folios.ObtenerParaActualizar(ctx, idFolio)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, fmt.Errorf("folio %d: %w", idFolio, domain.ErrNotFound)
	}
	if folio.Bloqueado {
		return nil, domain.ErrFolioBloqueado
	}
	if folio.Estado != entity.FolioAbierto {
		return nil, domain.ErrFolioNoAbierto
	}
	return folio, nil
}

func cabeceraPorEntrega(ctx context.Context, tx Repos, sapNumeroEntrega string) (*entity.CabeceraFlete, error) {
	c, err := tx.Cabeceras.ObtenerPorNumeroEntrega(ctx, sapNumeroEntrega)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("entrega %s sin cabecera vinculada: %w", sapNumeroEntrega, domain.ErrNotFound)
	}
	return c, nil
}

func periodo(lote []*entity.CabeceraFlete) (desde, hasta time.Time) {
	desde, hasta = lote[0].FechaSalida, lote[0].FechaSalida
	for _, c := range lote[1:] {
		if c.FechaSalida.Before(desde) {
			desde = c.FechaSalida
		}
		if c.FechaSalida.After(hasta) {
			hasta = c.FechaSalida
		}
	}
	return desde, hasta
}

func armarMovimiento(f *repository.CabeceraConEntrega) dto.CompletoSinFolioDTO {
	c := f.Cabecera
	return dto.CompletoSinFolioDTO{
		IDCabeceraFlete:      c.ID,
		IDFolio:              c.IDFolio,
		Estado:               string(c.Estado),
		TipoMovimiento:       c.TipoMovimiento,
		FechaSalida:          c.FechaSalida.Format("2006-01-02"),
		HoraSalida:           c.HoraSalida,
		MontoAplicado:        c.MontoAplicado,
		Observaciones:        c.Observaciones,
		IDTipoFlete:          c.IDTipoFlete,
		TipoFleteNombre:      f.TipoFleteNombre,
		IDCentroCostoFinal:   c.IDCentroCostoFinal,
		CentroCostoNombre:    f.CentroCostoNombre,
		CreatedAt:            c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            c.UpdatedAt.Format(time.RFC3339),
		IDSapEntrega:         f.IDSapEntrega,
		SapNumeroEntrega:     f.SapNumeroEntrega,
		SourceSystem:         f.SourceSystem,
		SapGuiaRemision:      f.SapGuiaRemision,
		SapEmpresaTransporte: f.SapEmpresaTransporte,
		SapNombreChofer:      f.SapNombreChofer,
		SapPatente:           f.SapPatente,
		SapCarro:             f.SapCarro,
	}
}
