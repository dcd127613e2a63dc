package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/pkg/validator"
)

// errorMapping asocia un error de dominio a su status y código HTTP.
type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: se usa el primer error que coincide con errors.Is.
var errorMappings = []errorMapping{
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNegativeStock, fiber.StatusConflict, "NEGATIVE_STOCK"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrExternalService, fiber.StatusBadGateway, "EXTERNAL_SERVICE"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError traduce err a una respuesta dto.ErrorResponse. Los errores no mapeados son 500.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("http: error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// parseBody decodifica el JSON del body y aplica las reglas `validate` del DTO.
// Devuelve false si ya escribió la respuesta de error.
func parseBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(out); len(errs) > 0 {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Message(errs)})
	}
	return true, nil
}

// requireParam devuelve el parámetro de ruta o escribe 400 MISSING_ID.
func requireParam(c *fiber.Ctx, name string) (string, bool, error) {
	v := strings.TrimSpace(c.Params(name))
	if v == "" {
		return "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: name + " es requerido"})
	}
	return v, true, nil
}
