package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cfl-agro/cfl-back/internal/application/dto"
	"github.com/cfl-agro/cfl-back/internal/application/folios"
	"github.com/cfl-agro/cfl-back/pkg/validate"
)

// FoliosHandler maneja la asignación de folios a fletes.
type FoliosHandler struct {
	uc  *folios.UseCase
	val *validate.Validator
}

// NewFoliosHandler construye el handler.
func NewFoliosHandler(uc *folios.UseCase, val *validate.Validator) *FoliosHandler {
	return &FoliosHandler{uc: uc, val: val}
}

func parsearBody[T any](c *fiber.Ctx, val *validate.Validator) (*T, error) {
	var in T
	if err := c.BodyParser(&in); err != nil {
		return nil, errCuerpoInvalido
	}
	if err := val.Struct(in); err != nil {
		return nil, err
	}
	return &in, nil
}

// AsignarNuevo godoc
// @Summary      Crear folio correlativo y asignar el lote
// @Tags         folios
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AsignarNuevoFolioRequest  true  "IDs de cabecera"
// @Success      201  {object}  dto.AsignacionResultado
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/dashboard/folios/asignar-nuevo [post]
func (h *FoliosHandler) AsignarNuevo(c *fiber.Ctx) error {
	in, err := parsearBody[dto.AsignarNuevoFolioRequest](c, h.val)
	if err != nil {
		return responderBadRequest(c, err)
	}
	out, err := h.uc.CrearYAsignar(c.Context(), *in)
	if err != nil {
		return responderError(c, err)
	}
	return responderOK(c, fiber.StatusCreated, "Folio creado y asignado", out)
}

// Asignar godoc
// @Summary      Asignar un folio existente al lote
// @Tags         folios
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AsignarFolioRequest  true  "Folio e IDs de cabecera"
// @Success      200  {object}  dto.AsignacionResultado
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/dashboard/folios/asignar [post]
func (h *FoliosHandler) Asignar(c *fiber.Ctx) error {
	in, err := parsearBody[dto.AsignarFolioRequest](c, h.val)
	if err != nil {
		return responderBadRequest(c, err)
	}
	out, err := h.uc.AsignarExistente(c.Context(), *in)
	if err != nil {
		return responderError(c, err)
	}
	return responderOK(c, fiber.StatusOK, "Folio asignado", out)
}

// Movimientos godoc
// @Summary      Listar los fletes asignados a un folio
// @Tags         folios
// @Produce      json
// @Param        id  path  int  true  "ID del folio"
// @Success      200  {array}  dto.CompletoSinFolioDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/mantenedores/folios/{id}/movimientos [get]
func (h *FoliosHandler) Movimientos(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "query params inválidos"})
	}
	data, pag, err := h.uc.Movimientos(c.Context(), id, page)
	if err != nil {
		return responderError(c, err)
	}
	return responderLista(c, data, pag)
}

// AsignarSap godoc
// @Summary      Mover un flete (por entrega SAP) a un folio real
// @Tags         folios
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "ID del folio destino"
// @Param        body  body  dto.AsignarSapRequest true  "Número de entrega SAP"
// @Success      200  {object}  dto.AsignacionResultado
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/mantenedores/folios/{id}/asignar-sap [post]
func (h *FoliosHandler) AsignarSap(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	in, err := parsearBody[dto.AsignarSapRequest](c, h.val)
	if err != nil {
		return responderBadRequest(c, err)
	}
	out, err := h.uc.AsignarPorEntrega(c.Context(), id, in.SapNumeroEntrega)
	if err != nil {
		return responderError(c, err)
	}
	return responderOK(c, fiber.StatusOK, "Movimiento asignado al folio", out)
}

// Desasignar godoc
// @Summary      Devolver un flete (por entrega SAP) al folio por defecto
// @Tags         folios
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DesasignarRequest  true  "Número de entrega SAP"
// @Success      200  {object}  dto.AsignacionResultado
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/mantenedores/folios/{id}/desasignar [patch]
func (h *FoliosHandler) Desasignar(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	in, err := parsearBody[dto.DesasignarRequest](c, h.val)
	if err != nil {
		return responderBadRequest(c, err)
	}
	out, err := h.uc.Desasignar(c.Context(), id, in.SapNumeroEntrega)
	if err != nil {
		return responderError(c, err)
	}
	return responderOK(c, fiber.StatusOK, "Movimiento devuelto al folio por defecto", out)
}
