package fletes

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfl-agro/cfl-back/internal/application/dto"
	"github.com/cfl-agro/cfl-back/internal/domain"
	"github.com/cfl-agro/cfl-back/internal/domain/entity"
	"github.com/cfl-agro/cfl-back/internal/domain/flete"
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

// --- stubs ---

type stubCabeceras struct {
	filas  map[int64]*entity.CabeceraFlete
	nextID int64
}

func newStubCabeceras() *stubCabeceras {
	return &stubCabeceras{filas: map[int64]*entity.CabeceraFlete{}, nextID: 100}
}

func (s *stubCabeceras) Crear(_ context.Context, c *entity.CabeceraFlete) (int64, error) {
	s.nextID++
	copia := *c
	copia.ID = s.nextID
	s.filas[s.nextID] = &copia
	return s.nextID, nil
}

func (s *stubCabeceras) Obtener(_ context.Context, id int64) (*entity.CabeceraFlete, error) {
	return s.filas[id], nil
}

func (s *stubCabeceras) ObtenerParaActualizar(ctx context.Context, id int64) (*entity.CabeceraFlete, error) {
	return s.Obtener(ctx, id)
}

func (s *stubCabeceras) Actualizar(_ context.Context, c *entity.CabeceraFlete) error {
	copia := *c
	s.filas[c.ID] = &copia
	return nil
}

func (s *stubCabeceras) ActualizarEstado(_ context.Context, id int64, estado flete.Estado, _ time.Time) error {
	s.filas[id].Estado = estado
	return nil
}

func (s *stubCabeceras) AsignarFolio(_ context.Context, id, idFolio int64, estado flete.Estado, _ time.Time) error {
	s.filas[id].IDFolio = &idFolio
	s.filas[id].Estado = estado
	return nil
}

func (s *stubCabeceras) ListarCompletosSinFolio(_ context.Context, _ repository.FiltroCompletosSinFolio) ([]*repository.CabeceraConEntrega, int64, error) {
	return nil, 0, nil
}

func (s *stubCabeceras) ListarPorFolio(_ context.Context, _ int64, _, _ int) ([]*repository.CabeceraConEntrega, int64, error) {
	return nil, 0, nil
}

func (s *stubCabeceras) ObtenerPorNumeroEntrega(_ context.Context, _ string) (*entity.CabeceraFlete, error) {
	return nil, nil
}

type stubDetalles struct {
	porCabecera map[int64][]entity.DetalleFlete
	eliminados  int
}

func newStubDetalles() *stubDetalles {
	return &stubDetalles{porCabecera: map[int64][]entity.DetalleFlete{}}
}

func (s *stubDetalles) InsertarVarios(_ context.Context, idCabecera int64, det []entity.DetalleFlete) error {
	s.porCabecera[idCabecera] = append(s.porCabecera[idCabecera], det...)
	return nil
}

func (s *stubDetalles) EliminarPorCabecera(_ context.Context, idCabecera int64) error {
	s.eliminados += len(s.porCabecera[idCabecera])
	delete(s.porCabecera, idCabecera)
	return nil
}

func (s *stubDetalles) ListarPorCabecera(_ context.Context, idCabecera int64) ([]entity.DetalleFlete, error) {
	return s.porCabecera[idCabecera], nil
}

func (s *stubDetalles) ContarPorCabecera(_ context.Context, idCabecera int64) (int64, error) {
	return int64(len(s.porCabecera[idCabecera])), nil
}

type stubLinks struct {
	porEntrega map[int64]*entity.FleteSapEntrega
}

func newStubLinks() *stubLinks {
	return &stubLinks{porEntrega: map[int64]*entity.FleteSapEntrega{}}
}

func (s *stubLinks) ExistePorEntrega(_ context.Context, idSapEntrega int64) (bool, error) {
	_, ok := s.porEntrega[idSapEntrega]
	return ok, nil
}

func (s *stubLinks) Crear(_ context.Context, l *entity.FleteSapEntrega) (int64, error) {
	copia := *l
	copia.ID = int64(len(s.porEntrega) + 1)
	s.porEntrega[l.IDSapEntrega] = &copia
	return copia.ID, nil
}

func (s *stubLinks) ObtenerPorCabecera(_ context.Context, idCabecera int64) (*entity.FleteSapEntrega, error) {
	for _, l := range s.porEntrega {
		if l.IDCabecera == idCabecera {
			return l, nil
		}
	}
	return nil, nil
}

type stubEntregas struct {
	filas map[int64]*entity.SapEntrega
}

func (s *stubEntregas) Obtener(_ context.Context, id int64) (*entity.SapEntrega, error) {
	return s.filas[id], nil
}

func (s *stubEntregas) PorNumero(_ context.Context, numero string) (*entity.SapEntrega, error) {
	for _, e := range s.filas {
		if e.SapNumeroEntrega == numero {
			return e, nil
		}
	}
	return nil, nil
}

func (s *stubEntregas) Candidatos(_ context.Context, _ repository.FiltroCandidatos) ([]*repository.CandidatoEntrega, int64, error) {
	return nil, 0, nil
}

func (s *stubEntregas) Posiciones(_ context.Context, _, _ string) ([]entity.SapPosicion, error) {
	return nil, nil
}

func (s *stubEntregas) Resumen(_ context.Context) (*repository.ResumenEntregas, error) {
	return nil, nil
}

type stubMoviles struct {
	existentes []entity.Movil
	creados    []entity.Movil
}

func (s *stubMoviles) BuscarPorTriple(_ context.Context, idEmpresa, idChofer, idCamion int64) (*entity.Movil, error) {
	for i := range s.existentes {
		m := s.existentes[i]
		if m.IDEmpresa == idEmpresa && m.IDChofer == idChofer && m.IDCamion == idCamion {
			return &m, nil
		}
	}
	return nil, nil
}

func (s *stubMoviles) Crear(_ context.Context, m *entity.Movil) (int64, error) {
	copia := *m
	copia.ID = int64(900 + len(s.creados))
	s.creados = append(s.creados, copia)
	return copia.ID, nil
}

type stubFolios struct {
	filas map[int64]*entity.Folio
}

func (s *stubFolios) Obtener(_ context.Context, id int64) (*entity.Folio, error) {
	return s.filas[id], nil
}

func (s *stubFolios) ObtenerParaActualizar(ctx context.Context, id int64) (*entity.Folio, error) {
	return s.Obtener(ctx, id)
}

func (s *stubFolios) Crear(_ context.Context, f *entity.Folio) (int64, error) { return f.ID, nil }

func (s *stubFolios) ObtenerDefault(_ context.Context, _, _ int64) (*entity.Folio, error) {
	return nil, nil
}

func (s *stubFolios) MaxNumero(_ context.Context, _, _ int64) (int64, error) { return 0, nil }

type stubTiposFlete struct {
	porCodigo map[string]*entity.TipoFlete
}

func (s *stubTiposFlete) Obtener(_ context.Context, id int64) (*entity.TipoFlete, error) {
	for _, tf := range s.porCodigo {
		if tf.ID == id {
			return tf, nil
		}
	}
	return nil, nil
}

func (s *stubTiposFlete) PorSapCodigo(_ context.Context, codigo string) (*entity.TipoFlete, error) {
	return s.porCodigo[codigo], nil
}

type stubCentrosCosto struct {
	porCodigo map[string]*entity.CentroCosto
}

func (s *stubCentrosCosto) Obtener(_ context.Context, id int64) (*entity.CentroCosto, error) {
	for _, cc := range s.porCodigo {
		if cc.ID == id {
			return cc, nil
		}
	}
	return nil, nil
}

func (s *stubCentrosCosto) PorSapCodigo(_ context.Context, codigo string) (*entity.CentroCosto, error) {
	return s.porCodigo[codigo], nil
}

func (s *stubCentrosCosto) BloquearParaAsignacion(_ context.Context, _ int64) error { return nil }

type stubTx struct {
	repos Repos
}

func (s *stubTx) Run(_ context.Context, fn func(tx Repos) error) error {
	return fn(s.repos)
}

type entorno struct {
	uc        *UseCase
	cabeceras *stubCabeceras
	detalles  *stubDetalles
	links     *stubLinks
	entregas  *stubEntregas
	moviles   *stubMoviles
}

func nuevoEntorno() *entorno {
	e := &entorno{
		cabeceras: newStubCabeceras(),
		detalles:  newStubDetalles(),
		links:     newStubLinks(),
		entregas:  &stubEntregas{filas: map[int64]*entity.SapEntrega{}},
		moviles:   &stubMoviles{},
	}
	tx := &stubTx{repos: Repos{
		Cabeceras:    e.cabeceras,
		Detalles:     e.detalles,
		Links:        e.links,
		Entregas:     e.entregas,
		Moviles:      e.moviles,
		Folios:       &stubFolios{filas: map[int64]*entity.Folio{}},
		TiposFlete:   &stubTiposFlete{porCodigo: map[string]*entity.TipoFlete{}},
		CentrosCosto: &stubCentrosCosto{porCodigo: map[string]*entity.CentroCosto{}},
	}}
	e.uc = NewUseCase(tx, e.cabeceras, e.detalles)
	return e
}

func (e *entorno) tiposFlete() *stubTiposFlete {
	return e.uc.tx.(*stubTx).repos.TiposFlete.(*stubTiposFlete)
}

func (e *entorno) centrosCosto() *stubCentrosCosto {
	return e.uc.tx.(*stubTx).repos.CentrosCosto.(*stubCentrosCosto)
}

func int64Ptr(n int64) *int64 { return &n }
func strPtr(s string) *string { return &s }

func requestBase() dto.FleteRequest {
	return dto.FleteRequest{
		Cabecera: dto.CabeceraRequest{
			IDTipoFlete:   4,
			IDCentroCosto: 7,
			FechaSalida:   "2026-03-14",
			HoraSalida:    "08:30",
		},
	}
}

// --- tests ---

func TestCrearManualIncompletaQuedaEnRevision(t *testing.T) {
	e := nuevoEntorno()

	out, err := e.uc.CrearManual(context.Background(), requestBase())
	require.NoError(t, err)

	assert.Equal(t, string(flete.EstadoEnRevision), out.Cabecera.Estado)
	assert.Equal(t, "08:30:00", out.Cabecera.HoraSalida)
	assert.Equal(t, entity.MovimientoPush, out.Cabecera.TipoMovimiento)
	assert.Len(t, e.cabeceras.filas, 1)
}

func TestCrearManualCompletaQuedaCompletado(t *testing.T) {
	e := nuevoEntorno()

	in := requestBase()
	in.Cabecera.IDDetalleViaje = int64Ptr(1)
	in.Cabecera.IDMovil = int64Ptr(9)
	in.Cabecera.IDTarifa = int64Ptr(2)
	in.Detalles = []dto.DetalleRequest{{Material: strPtr("MAT-1")}}

	out, err := e.uc.CrearManual(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, string(flete.EstadoCompletado), out.Cabecera.Estado)
	require.Len(t, out.Detalles, 1)
	assert.Len(t, e.detalles.porCabecera[out.Cabecera.IDCabeceraFlete], 1)
}

func TestCrearManualTipoMovimiento(t *testing.T) {
	e := nuevoEntorno()

	in := requestBase()
	in.Cabecera.TipoMovimiento = "retorno"
	out, err := e.uc.CrearManual(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, entity.MovimientoPull, out.Cabecera.TipoMovimiento)

	in.Cabecera.TipoMovimiento = "LATERAL"
	_, err = e.uc.CrearManual(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrearManualFechaHoraInvalidas(t *testing.T) {
	e := nuevoEntorno()

	in := requestBase()
	in.Cabecera.FechaSalida = "14/03/2026"
	_, err := e.uc.CrearManual(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = requestBase()
	in.Cabecera.HoraSalida = "25:99"
	_, err = e.uc.CrearManual(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, e.cabeceras.filas)
}

func TestCrearManualResuelveMovilPorTupla(t *testing.T) {
	e := nuevoEntorno()
	e.moviles.existentes = []entity.Movil{{ID: 55, IDEmpresa: 1, IDChofer: 2, IDCamion: 3, Activo: true}}

	in := requestBase()
	in.Cabecera.IDEmpresa = int64Ptr(1)
	in.Cabecera.IDChofer = int64Ptr(2)
	in.Cabecera.IDCamion = int64Ptr(3)

	out, err := e.uc.CrearManual(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, out.Cabecera.IDMovil)
	assert.Equal(t, int64(55), *out.Cabecera.IDMovil)
	assert.Empty(t, e.moviles.creados)
}

func TestCrearManualCreaMovilPerezosamente(t *testing.T) {
	e := nuevoEntorno()

	in := requestBase()
	in.Cabecera.IDEmpresa = int64Ptr(1)
	in.Cabecera.IDChofer = int64Ptr(2)
	in.Cabecera.IDCamion = int64Ptr(3)

	out, err := e.uc.CrearManual(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, out.Cabecera.IDMovil)
	require.Len(t, e.moviles.creados, 1)
	assert.True(t, e.moviles.creados[0].Activo)
}

func TestCrearDesdeEntregaNoExiste(t *testing.T) {
	e := nuevoEntorno()

	_, err := e.uc.CrearDesdeEntrega(context.Background(), 999, requestBase())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCrearDesdeEntregaYaAsociada(t *testing.T) {
	e := nuevoEntorno()
	e.entregas.filas[10] = &entity.SapEntrega{ID: 10, SapNumeroEntrega: "8000123456", SourceSystem: "S4"}
	e.links.porEntrega[10] = &entity.FleteSapEntrega{IDCabecera: 1, IDSapEntrega: 10}

	_, err := e.uc.CrearDesdeEntrega(context.Background(), 10, requestBase())
	assert.ErrorIs(t, err, domain.ErrEntregaYaAsociada)
	assert.Empty(t, e.cabeceras.filas)
}

func TestCrearDesdeEntregaVincula(t *testing.T) {
	e := nuevoEntorno()
	e.entregas.filas[10] = &entity.SapEntrega{
		ID:               10,
		SapNumeroEntrega: "8000123456",
		SourceSystem:     "S4",
		SapCuentaMayor:   strPtr("510100"),
	}

	out, err := e.uc.CrearDesdeEntrega(context.Background(), 10, requestBase())
	require.NoError(t, err)

	link := e.links.porEntrega[10]
	require.NotNil(t, link)
	assert.Equal(t, out.Cabecera.IDCabeceraFlete, link.IDCabecera)
	assert.Equal(t, entity.RelacionPrincipal, link.TipoRelacion)
	assert.Equal(t, "S4", link.OrigenDatos)

	guardada := e.cabeceras.filas[out.Cabecera.IDCabeceraFlete]
	require.NotNil(t, guardada.SapNumeroEntregaSugerido)
	assert.Equal(t, "8000123456", *guardada.SapNumeroEntregaSugerido)
}

func TestIngresarDesdeEntregaDeriva(t *testing.T) {
	e := nuevoEntorno()
	fecha := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	e.entregas.filas[10] = &entity.SapEntrega{
		ID:                 10,
		SapNumeroEntrega:   "8000123456",
		SourceSystem:       "S4",
		SapCodigoTipoFlete: strPtr("Z01"),
		SapCentroCosto:     strPtr("CC-100"),
		SapFechaSalida:     &fecha,
		SapHoraSalida:      strPtr("08:30"),
		SapCuentaMayor:     strPtr("510100"),
	}
	e.tiposFlete().porCodigo["Z01"] = &entity.TipoFlete{ID: 4, SapCodigo: "Z01", Activo: true}
	e.centrosCosto().porCodigo["CC-100"] = &entity.CentroCosto{ID: 7, SapCodigo: "CC-100", Activo: true}

	out, err := e.uc.IngresarDesdeEntrega(context.Background(), 10, int64Ptr(42))
	require.NoError(t, err)

	assert.Equal(t, string(flete.EstadoEnRevision), out.Cabecera.Estado)
	assert.Equal(t, int64(4), out.Cabecera.IDTipoFlete)
	assert.Equal(t, int64(7), out.Cabecera.IDCentroCostoFinal)
	assert.Equal(t, "2026-03-14", out.Cabecera.FechaSalida)
	assert.Equal(t, "08:30:00", out.Cabecera.HoraSalida)
	require.NotNil(t, out.Cabecera.CuentaMayorFinal)
	assert.Equal(t, "510100", *out.Cabecera.CuentaMayorFinal)
	assert.NotNil(t, e.links.porEntrega[10])
}

func TestIngresarDesdeEntregaSinTipoFlete(t *testing.T) {
	e := nuevoEntorno()
	e.entregas.filas[10] = &entity.SapEntrega{
		ID:                 10,
		SapNumeroEntrega:   "8000123456",
		SourceSystem:       "S4",
		SapCodigoTipoFlete: strPtr("Z99"),
	}

	_, err := e.uc.IngresarDesdeEntrega(context.Background(), 10, nil)
	var noDeriv *NoDerivableError
	require.ErrorAs(t, err, &noDeriv)
	assert.Equal(t, "Falta configurar Tipo de Flete para sap_codigo_tipo_flete=Z99", noDeriv.Motivo)
	assert.Empty(t, e.cabeceras.filas)
}

func TestIngresarDesdeEntregaCentroCostoFallback(t *testing.T) {
	e := nuevoEntorno()
	e.entregas.filas[10] = &entity.SapEntrega{
		ID:                 10,
		SapNumeroEntrega:   "8000123456",
		SourceSystem:       "S4",
		SapCodigoTipoFlete: strPtr("Z01"),
		SapCentroCosto:     strPtr("CC-DESCONOCIDO"),
	}
	e.tiposFlete().porCodigo["Z01"] = &entity.TipoFlete{ID: 4, SapCodigo: "Z01", IDCentroCosto: int64Ptr(31), Activo: true}

	out, err := e.uc.IngresarDesdeEntrega(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(31), out.Cabecera.IDCentroCostoFinal)
}

func TestIngresarDesdeEntregaSinCentroCosto(t *testing.T) {
	e := nuevoEntorno()
	e.entregas.filas[10] = &entity.SapEntrega{
		ID:                 10,
		SapNumeroEntrega:   "8000123456",
		SourceSystem:       "S4",
		SapCodigoTipoFlete: strPtr("Z01"),
	}
	e.tiposFlete().porCodigo["Z01"] = &entity.TipoFlete{ID: 4, SapCodigo: "Z01", Activo: true}

	_, err := e.uc.IngresarDesdeEntrega(context.Background(), 10, nil)
	var noDeriv *NoDerivableError
	require.ErrorAs(t, err, &noDeriv)
	assert.Equal(t, "No se pudo resolver Centro de Costo (sap_centro_costo=(NULL))", noDeriv.Motivo)
}

func TestActualizarReemplazaDetalles(t *testing.T) {
	e := nuevoEntorno()
	creado, err := e.uc.CrearManual(context.Background(), dto.FleteRequest{
		Cabecera: requestBase().Cabecera,
		Detalles: []dto.DetalleRequest{{Material: strPtr("A")}, {Material: strPtr("B")}},
	})
	require.NoError(t, err)

	in := requestBase()
	in.Cabecera.Observaciones = strPtr("reprogramado")
	in.Detalles = []dto.DetalleRequest{{Material: strPtr("C"), Cantidad: decPtr("10")}}

	out, err := e.uc.Actualizar(context.Background(), creado.Cabecera.IDCabeceraFlete, in)
	require.NoError(t, err)

	assert.Equal(t, 2, e.detalles.eliminados)
	require.Len(t, out.Detalles, 1)
	assert.Equal(t, "C", *out.Detalles[0].Material)
	require.NotNil(t, out.Cabecera.Observaciones)
	assert.Equal(t, "reprogramado", *out.Cabecera.Observaciones)
}

func TestActualizarNoExiste(t *testing.T) {
	e := nuevoEntorno()

	_, err := e.uc.Actualizar(context.Background(), 404, requestBase())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActualizarConservaEstadoTerminal(t *testing.T) {
	e := nuevoEntorno()
	creado, err := e.uc.CrearManual(context.Background(), requestBase())
	require.NoError(t, err)
	id := creado.Cabecera.IDCabeceraFlete
	e.cabeceras.filas[id].Estado = flete.EstadoAnulado

	out, err := e.uc.Actualizar(context.Background(), id, requestBase())
	require.NoError(t, err)
	assert.Equal(t, string(flete.EstadoAnulado), out.Cabecera.Estado)
}

func TestAnular(t *testing.T) {
	e := nuevoEntorno()
	creado, err := e.uc.CrearManual(context.Background(), requestBase())
	require.NoError(t, err)
	id := creado.Cabecera.IDCabeceraFlete

	require.NoError(t, e.uc.Anular(context.Background(), id))
	assert.Equal(t, flete.EstadoAnulado, e.cabeceras.filas[id].Estado)

	// idempotente
	require.NoError(t, e.uc.Anular(context.Background(), id))
}

func TestAnularFacturadoConflicto(t *testing.T) {
	e := nuevoEntorno()
	creado, err := e.uc.CrearManual(context.Background(), requestBase())
	require.NoError(t, err)
	id := creado.Cabecera.IDCabeceraFlete
	e.cabeceras.filas[id].Estado = flete.EstadoFacturado

	err = e.uc.Anular(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrFleteFacturado)
	assert.Equal(t, flete.EstadoFacturado, e.cabeceras.filas[id].Estado)
}

func TestAnularNoExiste(t *testing.T) {
	e := nuevoEntorno()
	err := e.uc.Anular(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
