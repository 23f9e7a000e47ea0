package folios

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfl-agro/cfl-back/internal/application/dto"
	"github.com/cfl-agro/cfl-back/internal/domain"
	"github.com/cfl-agro/cfl-back/internal/domain/entity"
	"github.com/cfl-agro/cfl-back/internal/domain/flete"
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

// --- stubs ---

type asignacion struct {
	idCabecera int64
	idFolio    int64
	estado     flete.Estado
}

type stubCabeceras struct {
	filas        map[int64]*entity.CabeceraFlete
	porEntrega   map[string]*entity.CabeceraFlete
	asignaciones []asignacion
}

func (s *stubCabeceras) Crear(_ context.Context, _ *entity.CabeceraFlete) (int64, error) {
	return 0, nil
}

func (s *stubCabeceras) Obtener(_ context.Context, id int64) (*entity.CabeceraFlete, error) {
	return s.filas[id], nil
}

func (s *stubCabeceras) ObtenerParaActualizar(ctx context.Context, id int64) (*entity.CabeceraFlete, error) {
	return s.Obtener(ctx, id)
}

func (s *stubCabeceras) Actualizar(_ context.Context, _ *entity.CabeceraFlete) error { return nil }

func (s *stubCabeceras) ActualizarEstado(_ context.Context, id int64, estado flete.Estado, _ time.Time) error {
	s.filas[id].Estado = estado
	return nil
}

func (s *stubCabeceras) AsignarFolio(_ context.Context, id, idFolio int64, estado flete.Estado, _ time.Time) error {
	s.asignaciones = append(s.asignaciones, asignacion{idCabecera: id, idFolio: idFolio, estado: estado})
	s.filas[id].IDFolio = &idFolio
	s.filas[id].Estado = estado
	return nil
}

func (s *stubCabeceras) ListarCompletosSinFolio(_ context.Context, _ repository.FiltroCompletosSinFolio) ([]*repository.CabeceraConEntrega, int64, error) {
	return nil, 0, nil
}

func (s *stubCabeceras) ListarPorFolio(_ context.Context, idFolio int64, _, _ int) ([]*repository.CabeceraConEntrega, int64, error) {
	var out []*repository.CabeceraConEntrega
	for _, c := range s.filas {
		if c.IDFolio != nil && *c.IDFolio == idFolio {
			out = append(out, &repository.CabeceraConEntrega{Cabecera: *c})
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubCabeceras) ObtenerPorNumeroEntrega(_ context.Context, numero string) (*entity.CabeceraFlete, error) {
	return s.porEntrega[numero], nil
}

type stubFolios struct {
	filas      map[int64]*entity.Folio
	porDefecto *entity.Folio
	maxNumero  int64
	creados    []*entity.Folio
	nextID     int64
}

func (s *stubFolios) Obtener(_ context.Context, id int64) (*entity.Folio, error) {
	return s.filas[id], nil
}

func (s *stubFolios) ObtenerParaActualizar(ctx context.Context, id int64) (*entity.Folio, error) {
	return s.Obtener(ctx, id)
}

func (s *stubFolios) Crear(_ context.Context, f *entity.Folio) (int64, error) {
	s.nextID++
	copia := *f
	copia.ID = s.nextID
	s.filas[s.nextID] = &copia
	s.creados = append(s.creados, &copia)
	return s.nextID, nil
}

func (s *stubFolios) ObtenerDefault(_ context.Context, _, _ int64) (*entity.Folio, error) {
	return s.porDefecto, nil
}

func (s *stubFolios) MaxNumero(_ context.Context, _, _ int64) (int64, error) {
	return s.maxNumero, nil
}

type stubTemporadas struct {
	abierta *entity.Temporada
}

func (s *stubTemporadas) Abierta(_ context.Context) (*entity.Temporada, error) {
	return s.abierta, nil
}

type stubCentros struct {
	bloqueados []int64
}

func (s *stubCentros) Obtener(_ context.Context, _ int64) (*entity.CentroCosto, error) {
	return nil, nil
}

func (s *stubCentros) PorSapCodigo(_ context.Context, _ string) (*entity.CentroCosto, error) {
	return nil, nil
}

func (s *stubCentros) BloquearParaAsignacion(_ context.Context, id int64) error {
	s.bloqueados = append(s.bloqueados, id)
	return nil
}

type stubTx struct {
	repos Repos
}

func (s *stubTx) RunFolios(_ context.Context, fn func(tx Repos) error) error {
	return fn(s.repos)
}

type entorno struct {
	uc         *UseCase
	cabeceras  *stubCabeceras
	folios     *stubFolios
	temporadas *stubTemporadas
	centros    *stubCentros
}

func nuevoEntorno() *entorno {
	e := &entorno{
		cabeceras: &stubCabeceras{
			filas:      map[int64]*entity.CabeceraFlete{},
			porEntrega: map[string]*entity.CabeceraFlete{},
		},
		folios:     &stubFolios{filas: map[int64]*entity.Folio{}, nextID: 1000},
		temporadas: &stubTemporadas{abierta: &entity.Temporada{ID: 3, Codigo: "2026"}},
		centros:    &stubCentros{},
	}
	tx := &stubTx{repos: Repos{
		Cabeceras:    e.cabeceras,
		Folios:       e.folios,
		Temporadas:   e.temporadas,
		CentrosCosto: e.centros,
	}}
	e.uc = NewUseCase(tx, e.cabeceras, e.folios)
	return e
}

func (e *entorno) conCabecera(id, centro int64, estado flete.Estado, fecha string) *entity.CabeceraFlete {
	t, _ := time.Parse("2006-01-02", fecha)
	c := &entity.CabeceraFlete{ID: id, IDCentroCostoFinal: centro, Estado: estado, FechaSalida: t}
	e.cabeceras.filas[id] = c
	return c
}

// --- tests ---

func TestCrearYAsignarNumeraSecuencialmente(t *testing.T) {
	e := nuevoEntorno()
	e.folios.maxNumero = 7
	e.conCabecera(1, 10, flete.EstadoCompletado, "2026-03-10")
	e.conCabecera(2, 10, flete.EstadoCompletado, "2026-03-05")

	out, err := e.uc.CrearYAsignar(context.Background(), dto.AsignarNuevoFolioRequest{
		IDsCabeceraFlete: []int64{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "8", out.FolioNumero)
	assert.Equal(t, 2, out.Updated)
	assert.Equal(t, []int64{10}, e.centros.bloqueados)

	require.Len(t, e.folios.creados, 1)
	creado := e.folios.creados[0]
	assert.Equal(t, int64(3), creado.IDTemporada)
	assert.Equal(t, int64(10), creado.IDCentroCosto)
	assert.Equal(t, entity.FolioAbierto, creado.Estado)
	assert.False(t, creado.Bloqueado)
	assert.Equal(t, "2026-03-05", creado.PeriodoDesde.Format("2006-01-02"))
	assert.Equal(t, "2026-03-10", creado.PeriodoHasta.Format("2006-01-02"))

	require.Len(t, e.cabeceras.asignaciones, 2)
	for _, a := range e.cabeceras.asignaciones {
		assert.Equal(t, out.IDFolio, a.idFolio)
		assert.Equal(t, flete.EstadoAsignadoFolio, a.estado)
	}
}

func TestCrearYAsignarCentrosMezclados(t *testing.T) {
	e := nuevoEntorno()
	e.conCabecera(1, 10, flete.EstadoCompletado, "2026-03-10")
	e.conCabecera(2, 20, flete.EstadoCompletado, "2026-03-10")

	_, err := e.uc.CrearYAsignar(context.Background(), dto.AsignarNuevoFolioRequest{
		IDsCabeceraFlete: []int64{1, 2},
	})
	var mezcla *CentrosDistintosError
	require.ErrorAs(t, err, &mezcla)
	assert.ElementsMatch(t, []int64{10, 20}, mezcla.CentrosCosto)
	assert.Empty(t, e.cabeceras.asignaciones)
	assert.Empty(t, e.folios.creados)
}

func TestCrearYAsignarLoteTodoONada(t *testing.T) {
	e := nuevoEntorno()
	e.conCabecera(1, 10, flete.EstadoCompletado, "2026-03-10")
	e.conCabecera(2, 10, flete.EstadoEnRevision, "2026-03-10")

	_, err := e.uc.CrearYAsignar(context.Background(), dto.AsignarNuevoFolioRequest{
		IDsCabeceraFlete: []int64{1, 2},
	})
	var eleg *ElegibilidadError
	require.ErrorAs(t, err, &eleg)
	require.Len(t, eleg.Invalidas, 1)
	assert.Equal(t, int64(2), eleg.Invalidas[0].IDCabeceraFlete)
	assert.Empty(t, e.cabeceras.asignaciones)
}

func TestCrearYAsignarCabeceraInexistente(t *testing.T) {
	e := nuevoEntorno()
	e.conCabecera(1, 10, flete.EstadoCompletado, "2026-03-10")

	_, err := e.uc.CrearYAsignar(context.Background(), dto.AsignarNuevoFolioRequest{
		IDsCabeceraFlete: []int64{1, 999},
	})
	var eleg *ElegibilidadError
	require.ErrorAs(t, err, &eleg)
	assert.Equal(t, "no existe", eleg.Invalidas[0].Reason)
}

func TestCrearYAsignarSinTemporada(t *testing.T) {
	e := nuevoEntorno()
	e.temporadas.abierta = nil
	e.conCabecera(1, 10, flete.EstadoCompletado, "2026-03-10")

	_, err := e.uc.CrearYAsignar(context.Background(), dto.AsignarNuevoFolioRequest{
		IDsCabeceraFlete: []int64{1},
	})
	assert.ErrorIs(t, err, domain.ErrSinTemporada)
}

func TestCrearYAsignarElegibleDesdeFolioDefault(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[50] = &entity.Folio{ID: 50, FolioNumero: "0", Estado: entity.FolioAbierto}
	c := e.conCabecera(1, 10, flete.EstadoAsignadoFolio, "2026-03-10")
	idFolio := int64(50)
	c.IDFolio = &idFolio

	out, err := e.uc.CrearYAsignar(context.Background(), dto.AsignarNuevoFolioRequest{
		IDsCabeceraFlete: []int64{1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Updated)
}

func TestAsignarExistenteFolioNoExiste(t *testing.T) {
	e := nuevoEntorno()

	_, err := e.uc.AsignarExistente(context.Background(), dto.AsignarFolioRequest{
		IDFolio: 404, IDsCabeceraFlete: []int64{1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAsignarExistenteFolioBloqueado(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[5] = &entity.Folio{ID: 5, FolioNumero: "3", Estado: entity.FolioAbierto, Bloqueado: true}

	_, err := e.uc.AsignarExistente(context.Background(), dto.AsignarFolioRequest{
		IDFolio: 5, IDsCabeceraFlete: []int64{1},
	})
	assert.ErrorIs(t, err, domain.ErrFolioBloqueado)
}

func TestAsignarExistenteFolioNoAbierto(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[5] = &entity.Folio{ID: 5, FolioNumero: "3", Estado: entity.FolioCerrado}

	_, err := e.uc.AsignarExistente(context.Background(), dto.AsignarFolioRequest{
		IDFolio: 5, IDsCabeceraFlete: []int64{1},
	})
	assert.ErrorIs(t, err, domain.ErrFolioNoAbierto)
}

func TestAsignarExistenteCentroAjeno(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[5] = &entity.Folio{ID: 5, IDCentroCosto: 10, FolioNumero: "3", Estado: entity.FolioAbierto}
	e.conCabecera(1, 20, flete.EstadoCompletado, "2026-03-10")

	_, err := e.uc.AsignarExistente(context.Background(), dto.AsignarFolioRequest{
		IDFolio: 5, IDsCabeceraFlete: []int64{1},
	})
	var eleg *ElegibilidadError
	require.ErrorAs(t, err, &eleg)
	assert.Equal(t, "pertenece a otro centro de costo", eleg.Invalidas[0].Reason)
	assert.Empty(t, e.cabeceras.asignaciones)
}

func TestAsignarExistenteReasignaCabeceraYaEnElFolio(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[7] = &entity.Folio{ID: 7, IDCentroCosto: 10, FolioNumero: "3", Estado: entity.FolioAbierto}
	e.conCabecera(101, 10, flete.EstadoCompletado, "2026-03-10")
	c := e.conCabecera(102, 10, flete.EstadoAsignadoFolio, "2026-03-11")
	idFolio := int64(7)
	c.IDFolio = &idFolio

	out, err := e.uc.AsignarExistente(context.Background(), dto.AsignarFolioRequest{
		IDFolio: 7, IDsCabeceraFlete: []int64{101, 102},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Updated)
	require.Len(t, e.cabeceras.asignaciones, 2)
	for _, a := range e.cabeceras.asignaciones {
		assert.Equal(t, int64(7), a.idFolio)
		assert.Equal(t, flete.EstadoAsignadoFolio, a.estado)
	}
}

func TestAsignarExistenteDefaultVuelveACompletado(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[5] = &entity.Folio{ID: 5, IDCentroCosto: 10, FolioNumero: "0", Estado: entity.FolioAbierto}
	e.conCabecera(1, 10, flete.EstadoCompletado, "2026-03-10")

	out, err := e.uc.AsignarExistente(context.Background(), dto.AsignarFolioRequest{
		IDFolio: 5, IDsCabeceraFlete: []int64{1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Updated)
	require.Len(t, e.cabeceras.asignaciones, 1)
	assert.Equal(t, flete.EstadoCompletado, e.cabeceras.asignaciones[0].estado)
}

func TestAsignarPorEntrega(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[5] = &entity.Folio{ID: 5, IDCentroCosto: 10, FolioNumero: "3", Estado: entity.FolioAbierto}
	c := e.conCabecera(1, 10, flete.EstadoCompletado, "2026-03-10")
	e.cabeceras.porEntrega["8000123456"] = c

	out, err := e.uc.AsignarPorEntrega(context.Background(), 5, "8000123456")
	require.NoError(t, err)
	assert.Equal(t, 1, out.Updated)
	assert.Equal(t, flete.EstadoAsignadoFolio, e.cabeceras.asignaciones[0].estado)
}

func TestAsignarPorEntregaFolioDefault(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[5] = &entity.Folio{ID: 5, FolioNumero: "0", Estado: entity.FolioAbierto}

	_, err := e.uc.AsignarPorEntrega(context.Background(), 5, "8000123456")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAsignarPorEntregaCabeceraAnulada(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[5] = &entity.Folio{ID: 5, FolioNumero: "3", Estado: entity.FolioAbierto}
	c := e.conCabecera(1, 10, flete.EstadoAnulado, "2026-03-10")
	e.cabeceras.porEntrega["8000123456"] = c

	_, err := e.uc.AsignarPorEntrega(context.Background(), 5, "8000123456")
	var eleg *ElegibilidadError
	require.ErrorAs(t, err, &eleg)
}

func TestDesasignarVuelveAlFolioDefault(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[5] = &entity.Folio{ID: 5, IDCentroCosto: 10, IDTemporada: 3, FolioNumero: "3", Estado: entity.FolioAbierto}
	e.folios.porDefecto = &entity.Folio{ID: 2, IDCentroCosto: 10, IDTemporada: 3, FolioNumero: "0", Estado: entity.FolioAbierto}
	c := e.conCabecera(1, 10, flete.EstadoAsignadoFolio, "2026-03-10")
	idFolio := int64(5)
	c.IDFolio = &idFolio
	e.cabeceras.porEntrega["8000123456"] = c

	out, err := e.uc.Desasignar(context.Background(), 5, "8000123456")
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.IDFolio)
	require.Len(t, e.cabeceras.asignaciones, 1)
	assert.Equal(t, flete.EstadoCompletado, e.cabeceras.asignaciones[0].estado)
}

func TestDesasignarSinFolio(t *testing.T) {
	e := nuevoEntorno()
	c := e.conCabecera(1, 10, flete.EstadoCompletado, "2026-03-10")
	e.cabeceras.porEntrega["8000123456"] = c

	_, err := e.uc.Desasignar(context.Background(), 5, "8000123456")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDesasignarEntregaDeOtroFolio(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[5] = &entity.Folio{ID: 5, FolioNumero: "3", Estado: entity.FolioAbierto}
	c := e.conCabecera(1, 10, flete.EstadoAsignadoFolio, "2026-03-10")
	idFolio := int64(9)
	c.IDFolio = &idFolio
	e.cabeceras.porEntrega["8000123456"] = c

	_, err := e.uc.Desasignar(context.Background(), 5, "8000123456")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDesasignarFolioOrigenCerrado(t *testing.T) {
	e := nuevoEntorno()
	e.folios.filas[5] = &entity.Folio{ID: 5, FolioNumero: "3", Estado: entity.FolioCerrado}
	c := e.conCabecera(1, 10, flete.EstadoAsignadoFolio, "2026-03-10")
	idFolio := int64(5)
	c.IDFolio = &idFolio
	e.cabeceras.porEntrega["8000123456"] = c

	_, err := e.uc.Desasignar(context.Background(), 5, "8000123456")
	assert.ErrorIs(t, err, domain.ErrFolioNoAbierto)
}

func TestMovimientosFolioNoExiste(t *testing.T) {
	e := nuevoEntorno()

	_, _, err := e.uc.Movimientos(context.Background(), 404, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
