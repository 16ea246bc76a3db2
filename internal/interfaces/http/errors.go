package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/domain"
)

var validate = validator.New()

// errorStatus traduce un error de dominio a status HTTP y código de respuesta.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "CONFLICT"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// writeError responde con dto.ErrorResponse. Los errores internos se registran y
// se devuelven con un mensaje genérico.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// parseBody decodifica el cuerpo JSON y aplica las reglas `validate` del DTO.
// Cualquier fallo se devuelve envuelto en domain.ErrInvalidInput.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return invalidInput("cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return invalidInput("campo inválido: " + verrs[0].Field())
		}
		return invalidInput("cuerpo inválido")
	}
	return nil
}

// parsePage lee limit/offset del query string con los valores por defecto de dto.PageRequest.
func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, invalidInput("paginación inválida")
	}
	page.DefaultPage()
	if err := validate.Struct(page); err != nil {
		return page, invalidInput("paginación inválida")
	}
	return page, nil
}

type inputError struct{ msg string }

func (e inputError) Error() string { return e.msg }

func (e inputError) Unwrap() error { return domain.ErrInvalidInput }

func invalidInput(msg string) error {
	return inputError{msg: msg}
}
