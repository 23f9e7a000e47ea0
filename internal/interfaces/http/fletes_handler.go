package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cfl-agro/cfl-back/internal/application/dto"
	"github.com/cfl-agro/cfl-back/internal/application/fletes"
	"github.com/cfl-agro/cfl-back/pkg/validate"
)

// FletesHandler maneja el ciclo de vida de cabeceras de flete.
type FletesHandler struct {
	uc  *fletes.UseCase
	val *validate.Validator
}

// NewFletesHandler construye el handler.
func NewFletesHandler(uc *fletes.UseCase, val *validate.Validator) *FletesHandler {
	return &FletesHandler{uc: uc, val: val}
}

func (h *FletesHandler) parsearFlete(c *fiber.Ctx) (*dto.FleteRequest, error) {
	var in dto.FleteRequest
	if err := c.BodyParser(&in); err != nil {
		return nil, errCuerpoInvalido
	}
	if err := h.val.Struct(in.Cabecera); err != nil {
		return nil, err
	}
	return &in, nil
}

// idUsuarioDesdePeticion toma el usuario creador del body o, en su defecto,
// de la cabecera de identidad.
func idUsuarioDesdePeticion(c *fiber.Ctx, deBody *int64) *int64 {
	if deBody != nil {
		return deBody
	}
	raw := strings.TrimSpace(c.Get("x-cfl-user-id"))
	if raw == "" {
		raw = strings.TrimSpace(c.Get("x-user-id"))
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
		return &id
	}
	return nil
}

// CrearManual godoc
// @Summary      Crear flete manual (sin entrega SAP)
// @Tags         fletes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FleteRequest  true  "Cabecera y detalles"
// @Success      201   {object}  dto.FleteDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/fletes/manual [post]
func (h *FletesHandler) CrearManual(c *fiber.Ctx) error {
	in, err := h.parsearFlete(c)
	if err != nil {
		return responderBadRequest(c, err)
	}
	in.Cabecera.IDUsuarioCreador = idUsuarioDesdePeticion(c, in.Cabecera.IDUsuarioCreador)
	out, err := h.uc.CrearManual(c.Context(), *in)
	if err != nil {
		return responderError(c, err)
	}
	return responderOK(c, fiber.StatusCreated, "Flete creado", out)
}

// CrearDesdeEntrega godoc
// @Summary      Crear flete a partir de una entrega SAP con datos manuales
// @Tags         fletes
// @Accept       json
// @Produce      json
// @Param        idSapEntrega  path  int               true  "ID de la entrega SAP"
// @Param        body          body  dto.FleteRequest  true  "Cabecera y detalles"
// @Success      201  {object}  dto.FleteDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/dashboard/fletes/no-ingresados/{idSapEntrega}/crear [post]
func (h *FletesHandler) CrearDesdeEntrega(c *fiber.Ctx) error {
	id, err := parseID(c, "idSapEntrega")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	in, err := h.parsearFlete(c)
	if err != nil {
		return responderBadRequest(c, err)
	}
	in.Cabecera.IDUsuarioCreador = idUsuarioDesdePeticion(c, in.Cabecera.IDUsuarioCreador)
	out, err := h.uc.CrearDesdeEntrega(c.Context(), id, *in)
	if err != nil {
		return responderError(c, err)
	}
	return responderOK(c, fiber.StatusCreated, "Flete creado desde entrega SAP", out)
}

// Ingresar godoc
// @Summary      Ingreso automático: deriva el flete desde los datos SAP
// @Tags         fletes
// @Produce      json
// @Param        idSapEntrega  path  int  true  "ID de la entrega SAP"
// @Success      201  {object}  dto.FleteDTO
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/dashboard/fletes/no-ingresados/{idSapEntrega}/ingresar [post]
func (h *FletesHandler) Ingresar(c *fiber.Ctx) error {
	id, err := parseID(c, "idSapEntrega")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	out, err := h.uc.IngresarDesdeEntrega(c.Context(), id, idUsuarioDesdePeticion(c, nil))
	if err != nil {
		return responderError(c, err)
	}
	return responderOK(c, fiber.StatusCreated, "Flete ingresado", out)
}

// Obtener godoc
// @Summary      Obtener flete por ID
// @Tags         fletes
// @Produce      json
// @Param        id  path  int  true  "ID de la cabecera"
// @Success      200  {object}  dto.FleteDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fletes/{id} [get]
func (h *FletesHandler) Obtener(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	out, err := h.uc.Obtener(c.Context(), id)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{"data": out})
}

// Actualizar godoc
// @Summary      Actualizar flete (reemplaza los detalles)
// @Tags         fletes
// @Accept       json
// @Produce      json
// @Param        id    path  int               true  "ID de la cabecera"
// @Param        body  body  dto.FleteRequest  true  "Cabecera y detalles"
// @Success      200  {object}  dto.FleteDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fletes/{id} [put]
func (h *FletesHandler) Actualizar(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	in, err := h.parsearFlete(c)
	if err != nil {
		return responderBadRequest(c, err)
	}
	out, err := h.uc.Actualizar(c.Context(), id, *in)
	if err != nil {
		return responderError(c, err)
	}
	return responderOK(c, fiber.StatusOK, "Flete actualizado", out)
}

// Anular godoc
// @Summary      Anular flete (terminal; rechazado si está facturado)
// @Tags         fletes
// @Produce      json
// @Param        id  path  int  true  "ID de la cabecera"
// @Success      200  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/dashboard/fletes/{id}/anular [post]
func (h *FletesHandler) Anular(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	if err := h.uc.Anular(c.Context(), id); err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Flete anulado"})
}

// CompletosSinFolio godoc
// @Summary      Listar fletes completados sin folio real
// @Tags         fletes
// @Produce      json
// @Param        page       query  int     false  "Página"
// @Param        page_size  query  int     false  "Tamaño de página"
// @Param        estado     query  string  false  "Filtro de estado"
// @Success      200  {array}  dto.CompletoSinFolioDTO
// @Router       /api/dashboard/fletes/completos-sin-folio [get]
func (h *FletesHandler) CompletosSinFolio(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "query params inválidos"})
	}
	data, pag, err := h.uc.ListarCompletosSinFolio(c.Context(), page, c.Query("estado"))
	if err != nil {
		return responderError(c, err)
	}
	return responderLista(c, data, pag)
}
