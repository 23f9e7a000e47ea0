// Package fletes implementa el constructor de cabeceras de flete: creación
// manual, creación desde entrega SAP, ingreso automático, actualización por
// reemplazo total y anulación.
package fletes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cfl-agro/cfl-back/internal/application/dto"
	"github.com/cfl-agro/cfl-back/internal/domain"
	"github.com/cfl-agro/cfl-back/internal/domain/entity"
	"github.com/cfl-agro/cfl-back/internal/domain/flete"
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

// NoDerivableError indica que una entrega SAP no alcanza para derivar una
// cabecera automáticamente. El handler lo traduce a 422.
type NoDerivableError struct {
	Motivo string
}

func (e *NoDerivableError) Error() string { return e.Motivo }

// UseCase orquesta el ciclo de vida de cabeceras de flete.
type UseCase struct {
	tx        TxRunner
	cabeceras repository.CabeceraFleteRepository
	detalles  repository.DetalleFleteRepository
}

// NewUseCase construye el caso de uso. Los repos sueltos se usan para
// lecturas fuera de transacción.
func NewUseCase(tx TxRunner, cabeceras repository.CabeceraFleteRepository, detalles repository.DetalleFleteRepository) *UseCase {
	return &UseCase{tx: tx, cabeceras: cabeceras, detalles: detalles}
}

// CrearManual crea una cabecera con sus líneas en una sola transacción.
func (uc *UseCase) CrearManual(ctx context.Context, in dto.FleteRequest) (*dto.FleteDTO, error) {
	base, err := cabeceraDesdeRequest(in.Cabecera)
	if err != nil {
		return nil, err
	}

	var out *dto.FleteDTO
	err = uc.tx.Run(ctx, func(tx Repos) error {
		out, err = uc.persistirNueva(ctx, tx, base, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CrearDesdeEntrega crea una cabecera respaldada por una entrega SAP. La
// entrega debe existir y no estar ya vinculada; ambas cosas se verifican
// dentro de la transacción, antes de cualquier escritura.
func (uc *UseCase) CrearDesdeEntrega(ctx context.Context, idSapEntrega int64, in dto.FleteRequest) (*dto.FleteDTO, error) {
	base, err := cabeceraDesdeRequest(in.Cabecera)
	if err != nil {
		return nil, err
	}

	var out *dto.FleteDTO
	err = uc.tx.Run(ctx, func(tx Repos) error {
		entrega, err := tx.Entregas.Obtener(ctx, idSapEntrega)
		if err != nil {
			return err
		}
		if entrega == nil {
			return fmt.Errorf("entrega SAP %d: %w", idSapEntrega, domain.ErrNotFound)
		}
		if err := verificarSinVinculo(ctx, tx, idSapEntrega); err != nil {
			return err
		}

		base.SapNumeroEntregaSugerido = &entrega.SapNumeroEntrega
		if base.SapCodigoTipoFleteSug == nil {
			base.SapCodigoTipoFleteSug = entrega.SapCodigoTipoFlete
		}
		if base.SapCentroCostoSug == nil {
			base.SapCentroCostoSug = entrega.SapCentroCosto
		}
		if base.SapCuentaMayorSug == nil {
			base.SapCuentaMayorSug = entrega.SapCuentaMayor
		}

		out, err = uc.persistirNueva(ctx, tx, base, in)
		if err != nil {
			return err
		}
		return vincular(ctx, tx, out.Cabecera.IDCabeceraFlete, entrega)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IngresarDesdeEntrega deriva una cabecera completa desde los datos SAP de la
// entrega, sin cuerpo del caller más allá del usuario creador.
func (uc *UseCase) IngresarDesdeEntrega(ctx context.Context, idSapEntrega int64, idUsuarioCreador *int64) (*dto.FleteDTO, error) {
	var out *dto.FleteDTO
	err := uc.tx.Run(ctx, func(tx Repos) error {
		entrega, err := tx.Entregas.Obtener(ctx, idSapEntrega)
		if err != nil {
			return err
		}
		if entrega == nil {
			return fmt.Errorf("entrega SAP %d: %w", idSapEntrega, domain.ErrNotFound)
		}
		if err := verificarSinVinculo(ctx, tx, idSapEntrega); err != nil {
			return err
		}

		tipoFlete, err := resolverTipoFlete(ctx, tx, entrega)
		if err != nil {
			return err
		}
		idCentroCosto, err := resolverCentroCosto(ctx, tx, entrega, tipoFlete)
		if err != nil {
			return err
		}

		now := time.Now()
		fecha := now.Truncate(24 * time.Hour)
		if entrega.SapFechaSalida != nil {
			fecha = *entrega.SapFechaSalida
		}
		hora := now.Format("15:04:05")
		if entrega.SapHoraSalida != nil {
			if h, err := normalizarHora(*entrega.SapHoraSalida); err == nil {
				hora = h
			}
		}

		c := &entity.CabeceraFlete{
			TipoMovimiento:           entity.MovimientoPush,
			FechaSalida:              fecha,
			HoraSalida:               hora,
			MontoAplicado:            decimal.Zero,
			IDTipoFlete:              tipoFlete.ID,
			IDCentroCostoFinal:       idCentroCosto,
			CuentaMayorFinal:         entrega.SapCuentaMayor,
			IDUsuarioCreador:         idUsuarioCreador,
			SapNumeroEntregaSugerido: &entrega.SapNumeroEntrega,
			SapCodigoTipoFleteSug:    entrega.SapCodigoTipoFlete,
			SapCentroCostoSug:        entrega.SapCentroCosto,
			SapCuentaMayorSug:        entrega.SapCuentaMayor,
		}
		c.Estado = flete.Derivar(flete.Insumos{
			TieneTipoFlete:   true,
			TieneCentroCosto: true,
		})

		id, err := tx.Cabeceras.Crear(ctx, c)
		if err != nil {
			return err
		}
		c.ID = id
		if err := vincular(ctx, tx, id, entrega); err != nil {
			return err
		}
		out = armarFleteDTO(c, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Actualizar reemplaza por completo una cabecera y sus líneas: las líneas
// anteriores se eliminan y se insertan las nuevas, sin calcular diferencias.
func (uc *UseCase) Actualizar(ctx context.Context, id int64, in dto.FleteRequest) (*dto.FleteDTO, error) {
	base, err := cabeceraDesdeRequest(in.Cabecera)
	if err != nil {
		return nil, err
	}

	var out *dto.FleteDTO
	err = uc.tx.Run(ctx, func(tx Repos) error {
		actual, err := tx.Cabeceras.ObtenerParaActualizar(ctx, id)
		if err != nil {
			return err
		}
		if actual == nil {
			return fmt.Errorf("cabecera %d: %w", id, domain.ErrNotFound)
		}

		base.ID = actual.ID
		base.CreatedAt = actual.CreatedAt
		if base.IDUsuarioCreador == nil {
			base.IDUsuarioCreador = actual.IDUsuarioCreador
		}
		// Los estados terminales no se pierden por omisión en el cuerpo.
		if in.Cabecera.Estado == "" &&
			(actual.Estado == flete.EstadoAnulado || actual.Estado == flete.EstadoFacturado) {
			base.Estado = actual.Estado
		}

		idMovil, err := resolverMovil(ctx, tx, in.Cabecera)
		if err != nil {
			return err
		}
		base.IDMovil = idMovil
		base.Estado, err = derivarEstado(ctx, tx, base, len(in.Detalles))
		if err != nil {
			return err
		}

		if err := tx.Cabeceras.Actualizar(ctx, base); err != nil {
			return err
		}
		if err := tx.Detalles.EliminarPorCabecera(ctx, id); err != nil {
			return err
		}
		nuevos := detallesDesdeRequest(id, in.Detalles)
		if len(nuevos) > 0 {
			if err := tx.Detalles.InsertarVarios(ctx, id, nuevos); err != nil {
				return err
			}
		}
		out = armarFleteDTO(base, nuevos)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Obtener devuelve cabecera y líneas ordenadas.
func (uc *UseCase) Obtener(ctx context.Context, id int64) (*dto.FleteDTO, error) {
	c, err := uc.cabeceras.Obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("cabecera %d: %w", id, domain.ErrNotFound)
	}
	det, err := uc.detalles.ListarPorCabecera(ctx, id)
	if err != nil {
		return nil, err
	}
	return armarFleteDTO(c, det), nil
}

// Anular transiciona la cabecera a ANULADO. Rechaza cabeceras FACTURADO sin
// mutar nada; anular dos veces es idempotente.
func (uc *UseCase) Anular(ctx context.Context, id int64) error {
	return uc.tx.Run(ctx, func(tx Repos) error {
		actual, err := tx.Cabeceras.ObtenerParaActualizar(ctx, id)
		if err != nil {
			return err
		}
		if actual == nil {
			return fmt.Errorf("cabecera %d: %w", id, domain.ErrNotFound)
		}
		if !flete.PuedeAnular(actual.Estado) {
			return domain.ErrFleteFacturado
		}
		if actual.Estado == flete.EstadoAnulado {
			return nil
		}
		return tx.Cabeceras.ActualizarEstado(ctx, id, flete.EstadoAnulado, time.Now())
	})
}

// ListarCompletosSinFolio lista cabeceras listas para asignación de folio.
func (uc *UseCase) ListarCompletosSinFolio(ctx context.Context, page dto.PageRequest, estado string) ([]dto.CompletoSinFolioDTO, dto.Pagination, error) {
	page.Normalizar()

	filtro := repository.FiltroCompletosSinFolio{Limit: page.PageSize, Offset: page.Offset()}
	if strings.TrimSpace(estado) != "" {
		est, ok := flete.ParseEstado(estado)
		if !ok {
			return nil, dto.Pagination{}, fmt.Errorf("estado %q: %w", estado, domain.ErrInvalidInput)
		}
		filtro.Estado = &est
	}

	filas, total, err := uc.cabeceras.ListarCompletosSinFolio(ctx, filtro)
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	out := make([]dto.CompletoSinFolioDTO, 0, len(filas))
	for _, f := range filas {
		out = append(out, armarCompletoSinFolio(f))
	}
	return out, dto.NewPagination(page, total), nil
}

// persistirNueva resuelve móvil y estado, inserta cabecera y líneas.
func (uc *UseCase) persistirNueva(ctx context.Context, tx Repos, c *entity.CabeceraFlete, in dto.FleteRequest) (*dto.FleteDTO, error) {
	idMovil, err := resolverMovil(ctx, tx, in.Cabecera)
	if err != nil {
		return nil, err
	}
	c.IDMovil = idMovil
	c.Estado, err = derivarEstado(ctx, tx, c, len(in.Detalles))
	if err != nil {
		return nil, err
	}

	id, err := tx.Cabeceras.Crear(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	detalles := detallesDesdeRequest(id, in.Detalles)
	if len(detalles) > 0 {
		if err := tx.Detalles.InsertarVarios(ctx, id, detalles); err != nil {
			return nil, err
		}
	}
	return armarFleteDTO(c, detalles), nil
}

func verificarSinVinculo(ctx context.Context, tx Repos, idSapEntrega int64) error {
	existe, err := tx.Links.ExistePorEntrega(ctx, idSapEntrega)
	if err != nil {
		return err
	}
	if existe {
		return domain.ErrEntregaYaAsociada
	}
	return nil
}

func vincular(ctx context.Context, tx Repos, idCabecera int64, entrega *entity.SapEntrega) error {
	_, err := tx.Links.Crear(ctx, &entity.FleteSapEntrega{
		IDCabecera:   idCabecera,
		IDSapEntrega: entrega.ID,
		OrigenDatos:  entrega.SourceSystem,
		TipoRelacion: entity.RelacionPrincipal,
	})
	return err
}

// resolverMovil elige el móvil: id explícito, o búsqueda por tupla
// (empresa, chofer, camión) con creación perezosa si no existe.
func resolverMovil(ctx context.Context, tx Repos, req dto.CabeceraRequest) (*int64, error) {
	if req.IDMovil != nil {
		return req.IDMovil, nil
	}
	if req.IDEmpresa == nil || req.IDChofer == nil || req.IDCamion == nil {
		return nil, nil
	}
	m, err := tx.Moviles.BuscarPorTriple(ctx, *req.IDEmpresa, *req.IDChofer, *req.IDCamion)
	if err != nil {
		return nil, err
	}
	if m != nil {
		return &m.ID, nil
	}
	id, err := tx.Moviles.Crear(ctx, &entity.Movil{
		IDEmpresa: *req.IDEmpresa,
		IDChofer:  *req.IDChofer,
		IDCamion:  *req.IDCamion,
		Activo:    true,
	})
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// derivarEstado corre la máquina de estados sobre los hechos de la cabecera.
func derivarEstado(ctx context.Context, tx Repos, c *entity.CabeceraFlete, nDetalles int) (flete.Estado, error) {
	folioReal := false
	if c.IDFolio != nil && *c.IDFolio > 0 {
		f, err := tx.Folios.Obtener(ctx, *c.IDFolio)
		if err != nil {
			return "", err
		}
		if f == nil {
			return "", fmt.Errorf("folio %d: %w", *c.IDFolio, domain.ErrNotFound)
		}
		folioReal = !f.EsDefault()
	}
	return flete.Derivar(flete.Insumos{
		EstadoSolicitado:  c.Estado,
		TieneFolioReal:    folioReal,
		TieneTipoFlete:    c.IDTipoFlete > 0,
		TieneCentroCosto:  c.IDCentroCostoFinal > 0,
		TieneDetalleViaje: c.IDDetalleViaje != nil,
		TieneMovil:        c.IDMovil != nil,
		TieneTarifa:       c.IDTarifa != nil,
		TieneDetalles:     nDetalles > 0,
	}), nil
}

func resolverTipoFlete(ctx context.Context, tx Repos, entrega *entity.SapEntrega) (*entity.TipoFlete, error) {
	if entrega.SapCodigoTipoFlete == nil || strings.TrimSpace(*entrega.SapCodigoTipoFlete) == "" {
		return nil, &NoDerivableError{Motivo: "Falta configurar Tipo de Flete para sap_codigo_tipo_flete=(NULL)"}
	}
	codigo := strings.TrimSpace(*entrega.SapCodigoTipoFlete)
	tf, err := tx.TiposFlete.PorSapCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	if tf == nil {
		return nil, &NoDerivableError{
			Motivo: fmt.Sprintf("Falta configurar Tipo de Flete para sap_codigo_tipo_flete=%s", codigo),
		}
	}
	return tf, nil
}

// resolverCentroCosto prueba el código SAP de la entrega y cae al centro de
// costo por defecto del tipo de flete.
func resolverCentroCosto(ctx context.Context, tx Repos, entrega *entity.SapEntrega, tf *entity.TipoFlete) (int64, error) {
	if entrega.SapCentroCosto != nil && strings.TrimSpace(*entrega.SapCentroCosto) != "" {
		cc, err := tx.CentrosCosto.PorSapCodigo(ctx, strings.TrimSpace(*entrega.SapCentroCosto))
		if err != nil {
			return 0, err
		}
		if cc != nil {
			return cc.ID, nil
		}
	}
	if tf.IDCentroCosto != nil {
		return *tf.IDCentroCosto, nil
	}
	mostrado := "(NULL)"
	if entrega.SapCentroCosto != nil && strings.TrimSpace(*entrega.SapCentroCosto) != "" {
		mostrado = strings.TrimSpace(*entrega.SapCentroCosto)
	}
	return 0, &NoDerivableError{
		Motivo: fmt.Sprintf("No se pudo resolver Centro de Costo (sap_centro_costo=%s)", mostrado),
	}
}

// cabeceraDesdeRequest valida y normaliza el cuerpo en una entidad sin
// persistir. Los campos requeridos ya pasaron por el validador estructural.
func cabeceraDesdeRequest(req dto.CabeceraRequest) (*entity.CabeceraFlete, error) {
	fecha, err := parseFecha(req.FechaSalida)
	if err != nil {
		return nil, fmt.Errorf("fecha_salida %q: %w", req.FechaSalida, domain.ErrInvalidInput)
	}
	hora, err := normalizarHora(req.HoraSalida)
	if err != nil {
		return nil, fmt.Errorf("hora_salida %q: %w", req.HoraSalida, domain.ErrInvalidInput)
	}
	tipoMov, err := normalizarTipoMovimiento(req.TipoMovimiento)
	if err != nil {
		return nil, err
	}

	var solicitado flete.Estado
	if strings.TrimSpace(req.Estado) != "" {
		est, ok := flete.ParseEstado(req.Estado)
		if !ok {
			return nil, fmt.Errorf("estado %q: %w", req.Estado, domain.ErrInvalidInput)
		}
		solicitado = est
	}

	monto := decimal.Zero
	if req.MontoAplicado != nil {
		monto = *req.MontoAplicado
	}
	return &entity.CabeceraFlete{
		IDDetalleViaje:           req.IDDetalleViaje,
		IDFolio:                  req.IDFolio,
		TipoMovimiento:           tipoMov,
		Estado:                   solicitado,
		FechaSalida:              fecha,
		HoraSalida:               hora,
		MontoAplicado:            monto,
		IDTarifa:                 req.IDTarifa,
		CuentaMayorFinal:         req.CuentaMayorFinal,
		Observaciones:            req.Observaciones,
		IDUsuarioCreador:         req.IDUsuarioCreador,
		IDTipoFlete:              req.IDTipoFlete,
		IDCentroCostoFinal:       req.IDCentroCosto,
		SapNumeroEntregaSugerido: req.SapNumeroEntregaSugerido,
		SapCodigoTipoFleteSug:    req.SapCodigoTipoFleteSug,
		SapCentroCostoSug:        req.SapCentroCostoSug,
		SapCuentaMayorSug:        req.SapCuentaMayorSug,
	}, nil
}

func detallesDesdeRequest(idCabecera int64, in []dto.DetalleRequest) []entity.DetalleFlete {
	out := make([]entity.DetalleFlete, 0, len(in))
	for _, d := range in {
		out = append(out, entity.DetalleFlete{
			IDCabecera:  idCabecera,
			IDEspecie:   d.IDEspecie,
			Material:    d.Material,
			Descripcion: d.Descripcion,
			Cantidad:    d.Cantidad,
			Unidad:      d.Unidad,
			Peso:        d.Peso,
		})
	}
	return out
}

// normalizarTipoMovimiento acepta PUSH/PULL y los sinónimos de pantalla.
// Vacío equivale a PUSH.
func normalizarTipoMovimiento(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", entity.MovimientoPush, "SALIDA", "DESPACHO":
		return entity.MovimientoPush, nil
	case entity.MovimientoPull, "RETORNO", "REGRESO":
		return entity.MovimientoPull, nil
	default:
		return "", fmt.Errorf("tipo_movimiento %q: %w", raw, domain.ErrInvalidInput)
	}
}

func parseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// normalizarHora acepta HH:MM y HH:MM:SS, devuelve siempre HH:MM:SS.
func normalizarHora(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format("15:04:05"), nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", err
	}
	return t.Format("15:04:05"), nil
}

func armarFleteDTO(c *entity.CabeceraFlete, det []entity.DetalleFlete) *dto.FleteDTO {
	out := &dto.FleteDTO{
		Cabecera: armarCabeceraDTO(c),
		Detalles: make([]dto.DetalleDTO, 0, len(det)),
	}
	for _, d := range det {
		out.Detalles = append(out.Detalles, dto.DetalleDTO{
			IDDetalleFlete:  d.ID,
			IDCabeceraFlete: d.IDCabecera,
			IDEspecie:       d.IDEspecie,
			Material:        d.Material,
			Descripcion:     d.Descripcion,
			Cantidad:        d.Cantidad,
			Unidad:          d.Unidad,
			Peso:            d.Peso,
			CreatedAt:       d.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

func armarCabeceraDTO(c *entity.CabeceraFlete) dto.CabeceraDTO {
	return dto.CabeceraDTO{
		IDCabeceraFlete:    c.ID,
		IDDetalleViaje:     c.IDDetalleViaje,
		IDFolio:            c.IDFolio,
		TipoMovimiento:     c.TipoMovimiento,
		Estado:             string(c.Estado),
		FechaSalida:        c.FechaSalida.Format("2006-01-02"),
		HoraSalida:         c.HoraSalida,
		MontoAplicado:      c.MontoAplicado,
		CuentaMayorFinal:   c.CuentaMayorFinal,
		IDMovil:            c.IDMovil,
		IDTarifa:           c.IDTarifa,
		Observaciones:      c.Observaciones,
		IDTipoFlete:        c.IDTipoFlete,
		IDCentroCostoFinal: c.IDCentroCostoFinal,
		CreatedAt:          c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          c.UpdatedAt.Format(time.RFC3339),
	}
}

func armarCompletoSinFolio(f *repository.CabeceraConEntrega) dto.CompletoSinFolioDTO {
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
		SapPatente:           f.SapPatente,
		SapCarro:             f.SapCarro,
		SapNombreChofer:      f.SapNombreChofer,
	}
}
