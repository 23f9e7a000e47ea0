package conciliacion

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
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

type stubEntregaRepo struct {
	candidatos   []*repository.CandidatoEntrega
	total        int64
	entrega      *entity.SapEntrega
	posiciones   []entity.SapPosicion
	resumen      *repository.ResumenEntregas
	ultimoFiltro repository.FiltroCandidatos
}

func (s *stubEntregaRepo) Obtener(_ context.Context, id int64) (*entity.SapEntrega, error) {
	if s.entrega != nil && s.entrega.ID == id {
		return s.entrega, nil
	}
	return nil, nil
}

func (s *stubEntregaRepo) PorNumero(_ context.Context, _ string) (*entity.SapEntrega, error) {
	return s.entrega, nil
}

func (s *stubEntregaRepo) Candidatos(_ context.Context, f repository.FiltroCandidatos) ([]*repository.CandidatoEntrega, int64, error) {
	s.ultimoFiltro = f
	return s.candidatos, s.total, nil
}

func (s *stubEntregaRepo) Posiciones(_ context.Context, _, _ string) ([]entity.SapPosicion, error) {
	return s.posiciones, nil
}

func (s *stubEntregaRepo) Resumen(_ context.Context) (*repository.ResumenEntregas, error) {
	return s.resumen, nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func entregaCompleta() entity.SapEntrega {
	fecha := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	return entity.SapEntrega{
		ID:                 10,
		SapNumeroEntrega:   "8000123456",
		SourceSystem:       "S4",
		SapCodigoTipoFlete: strPtr("Z01"),
		SapCentroCosto:     strPtr("CC-100"),
		SapFechaSalida:     &fecha,
		SapHoraSalida:      strPtr("08:30:00"),
		LastSeenAt:         time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		UpdatedAt:          time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestAnotarCandidatoIngresable(t *testing.T) {
	c := &repository.CandidatoEntrega{
		Entrega:                entregaCompleta(),
		PosicionesTotal:        3,
		CantidadEntregadaTotal: decimal.RequireFromString("1250.5"),
		IDTipoFlete:            intPtr(4),
		TipoFleteNombre:        strPtr("Flete Exportación"),
		IDCentroCostoFinal:     intPtr(7),
	}

	got := Anotar(c)

	assert.True(t, got.PuedeIngresar)
	assert.Nil(t, got.MotivoNoIngreso)
	assert.Equal(t, EstadoDetectado, got.Estado)
	require.NotNil(t, got.SapFechaSalida)
	assert.Equal(t, "2026-03-14", *got.SapFechaSalida)
	assert.Equal(t, int64(3), got.PosicionesTotal)
}

func TestAnotarMotivosEnOrden(t *testing.T) {
	tests := []struct {
		name   string
		mutar  func(c *repository.CandidatoEntrega)
		motivo string
	}{
		{
			name:   "tipo de flete sin configurar",
			mutar:  func(c *repository.CandidatoEntrega) { c.IDTipoFlete = nil },
			motivo: "Falta configurar Tipo de Flete para sap_codigo_tipo_flete=Z01",
		},
		{
			name: "tipo de flete sin código de origen",
			mutar: func(c *repository.CandidatoEntrega) {
				c.IDTipoFlete = nil
				c.Entrega.SapCodigoTipoFlete = nil
			},
			motivo: "Falta configurar Tipo de Flete para sap_codigo_tipo_flete=(NULL)",
		},
		{
			name:   "centro de costo sin resolver",
			mutar:  func(c *repository.CandidatoEntrega) { c.IDCentroCostoFinal = nil },
			motivo: "No se pudo resolver Centro de Costo (sap_centro_costo=CC-100)",
		},
		{
			name: "centro de costo con origen vacío",
			mutar: func(c *repository.CandidatoEntrega) {
				c.IDCentroCostoFinal = nil
				c.Entrega.SapCentroCosto = strPtr("  ")
			},
			motivo: "No se pudo resolver Centro de Costo (sap_centro_costo=(NULL))",
		},
		{
			name:   "falta fecha de salida",
			mutar:  func(c *repository.CandidatoEntrega) { c.Entrega.SapFechaSalida = nil },
			motivo: "Falta sap_fecha_salida",
		},
		{
			name:   "falta hora de salida",
			mutar:  func(c *repository.CandidatoEntrega) { c.Entrega.SapHoraSalida = nil },
			motivo: "Falta sap_hora_salida",
		},
		{
			name: "tipo de flete gana a fecha faltante",
			mutar: func(c *repository.CandidatoEntrega) {
				c.IDTipoFlete = nil
				c.Entrega.SapFechaSalida = nil
			},
			motivo: "Falta configurar Tipo de Flete para sap_codigo_tipo_flete=Z01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &repository.CandidatoEntrega{
				Entrega:            entregaCompleta(),
				IDTipoFlete:        intPtr(4),
				IDCentroCostoFinal: intPtr(7),
			}
			tt.mutar(c)

			got := Anotar(c)

			assert.False(t, got.PuedeIngresar)
			require.NotNil(t, got.MotivoNoIngreso)
			assert.Equal(t, tt.motivo, *got.MotivoNoIngreso)
		})
	}
}

func TestListarNoIngresadosNormalizaFiltros(t *testing.T) {
	repo := &stubEntregaRepo{
		candidatos: []*repository.CandidatoEntrega{
			{Entrega: entregaCompleta(), IDTipoFlete: intPtr(4), IDCentroCostoFinal: intPtr(7)},
		},
		total: 51,
	}
	uc := NewUseCase(repo)

	in := dto.FiltrosNoIngresados{
		PageRequest: dto.PageRequest{Page: 3, PageSize: 25},
		Search:      "  8000123 ",
		FechaDesde:  "2026-03-01",
	}
	items, pag, err := uc.ListarNoIngresados(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.True(t, items[0].PuedeIngresar)

	require.NotNil(t, repo.ultimoFiltro.Search)
	assert.Equal(t, "8000123", *repo.ultimoFiltro.Search)
	assert.Nil(t, repo.ultimoFiltro.SourceSystem)
	require.NotNil(t, repo.ultimoFiltro.FechaDesde)
	assert.Equal(t, 50, repo.ultimoFiltro.Offset)

	assert.Equal(t, int64(51), pag.Total)
	assert.Equal(t, int64(3), pag.TotalPages)
}

func TestListarNoIngresadosFechaInvalida(t *testing.T) {
	uc := NewUseCase(&stubEntregaRepo{})

	_, _, err := uc.ListarNoIngresados(context.Background(), dto.FiltrosNoIngresados{
		FechaDesde: "14-03-2026",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDetalleNoIngresado(t *testing.T) {
	repo := &stubEntregaRepo{
		candidatos: []*repository.CandidatoEntrega{{
			Entrega:            entregaCompleta(),
			PosicionesTotal:    2,
			IDTipoFlete:        intPtr(4),
			IDCentroCostoFinal: intPtr(7),
		}},
		posiciones: []entity.SapPosicion{
			{SapPosicion: 10, SapMaterial: strPtr("MAT-1")},
			{SapPosicion: 20, SapMaterial: strPtr("MAT-2")},
		},
	}
	uc := NewUseCase(repo)

	det, err := uc.DetalleNoIngresado(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "8000123456", det.Cabecera.SapNumeroEntrega)
	require.Len(t, det.Posiciones, 2)
	assert.Equal(t, 20, det.Posiciones[1].SapPosicion)

	// La cabecera del detalle lleva la misma anotación que el listado.
	assert.True(t, det.Cabecera.PuedeIngresar)
	assert.Nil(t, det.Cabecera.MotivoNoIngreso)
	assert.Equal(t, int64(2), det.Cabecera.PosicionesTotal)
	require.NotNil(t, repo.ultimoFiltro.ID)
	assert.Equal(t, int64(10), *repo.ultimoFiltro.ID)
}

func TestDetalleNoIngresadoNoExiste(t *testing.T) {
	uc := NewUseCase(&stubEntregaRepo{})

	_, err := uc.DetalleNoIngresado(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
