package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cfl-agro/cfl-back/internal/application/dto"
	"github.com/cfl-agro/cfl-back/internal/application/fletes"
	"github.com/cfl-agro/cfl-back/internal/application/folios"
	"github.com/cfl-agro/cfl-back/internal/application/mantenedores"
	"github.com/cfl-agro/cfl-back/internal/domain"
	"github.com/cfl-agro/cfl-back/pkg/validate"
)

var errCuerpoInvalido = errors.New("cuerpo inválido")

// responderError traduce errores de aplicación/dominio a HTTP. Los handlers
// delegan aquí todo lo que no sea parsing del request.
func responderError(c *fiber.Ctx, err error) error {
	var faltan *mantenedores.FaltanCamposError
	if errors.As(err, &faltan) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:         "Faltan campos requeridos",
			MissingFields: faltan.Campos,
		})
	}

	var noDerivable *fletes.NoDerivableError
	if errors.As(err, &noDerivable) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: noDerivable.Motivo,
		})
	}

	var elegibilidad *folios.ElegibilidadError
	if errors.As(err, &elegibilidad) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":        "Hay fletes no elegibles para asignación de folio",
			"invalid_rows": elegibilidad.Invalidas,
		})
	}

	var centros *folios.CentrosDistintosError
	if errors.As(err, &centros) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":         centros.Error(),
			"centros_costo": centros.CentrosCosto,
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSinTemporada):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrEntregaYaAsociada),
		errors.Is(err, domain.ErrFolioBloqueado),
		errors.Is(err, domain.ErrFolioNoAbierto),
		errors.Is(err, domain.ErrFleteFacturado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: "error interno del servidor",
	})
}

// responderBadRequest responde 400: con missing_fields si el error viene del
// validador, con el mensaje plano si no.
func responderBadRequest(c *fiber.Ctx, err error) error {
	if campos := validate.Campos(err); len(campos) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:         "Faltan campos requeridos",
			MissingFields: campos,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
}

// responderLista envuelve un listado paginado.
func responderLista(c *fiber.Ctx, data any, pag dto.Pagination) error {
	return c.JSON(fiber.Map{"data": data, "pagination": pag})
}

// responderOK envuelve una respuesta con mensaje.
func responderOK(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{"message": message, "data": data})
}

// parseID lee un parámetro de ruta numérico positivo.
func parseID(c *fiber.Ctx, nombre string) (int64, error) {
	id, err := c.ParamsInt(nombre)
	if err != nil || id <= 0 {
		return 0, errors.New(nombre + " inválido")
	}
	return int64(id), nil
}
