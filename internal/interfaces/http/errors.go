package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// Códigos de error devueltos en dto.ErrorResponse.
const (
	CodeValidation          = "VALIDATION"
	CodeAuthFailed          = "AUTH_FAILED"
	CodeLoginRequired       = "LOGIN_REQUIRED"
	CodeNotFound            = "NOT_FOUND"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeReferentialConflict = "REFERENTIAL_CONFLICT"
	CodeDuplicate           = "DUPLICATE"
	CodeInvalidBody         = "INVALID_BODY"
	CodeSessionUnavailable  = "SESSION_UNAVAILABLE"
	CodeInternal            = "INTERNAL"
)

const (
	loginURL          = "/api/auth/login"
	msgLoginRequired  = "necesita iniciar sesión para acceder a esta página"
	msgInternal       = "error interno, intente más tarde"
	msgInvalidBody    = "cuerpo inválido"
	msgAuthFailed     = "login o contraseña inválidos"
	msgConflictDelete = "no es posible eliminar un producto que tiene histórico de movimientos"
)

// ErrorWriter traduce los errores de dominio a status y dto.ErrorResponse.
// Los errores de almacenamiento muestran el texto original sólo en development.
type ErrorWriter struct {
	log          *logger.Logger
	exposeDetail bool
}

// NewErrorWriter construye el traductor de errores. exposeDetail se activa sólo en development.
func NewErrorWriter(log *logger.Logger, exposeDetail bool) ErrorWriter {
	if log == nil {
		log = logger.Nop()
	}
	return ErrorWriter{log: log, exposeDetail: exposeDetail}
}

func (w ErrorWriter) write(c *fiber.Ctx, err error) error {
	status, code, msg := w.classify(err)
	if status == fiber.StatusInternalServerError {
		w.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	}
	return fail(c, status, code, msg)
}

func (w ErrorWriter) classify(err error) (int, string, string) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, CodeInsufficientStock, stockErr.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, CodeValidation, userMessage(err, domain.ErrInvalidInput)
	case errors.Is(err, domain.ErrAuthFailed):
		return fiber.StatusUnauthorized, CodeAuthFailed, msgAuthFailed
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, CodeLoginRequired, msgLoginRequired
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, domain.ErrReferentialConflict):
		return fiber.StatusConflict, CodeReferentialConflict, msgConflictDelete
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, CodeDuplicate, err.Error()
	}
	if w.exposeDetail {
		return fiber.StatusInternalServerError, CodeInternal, err.Error()
	}
	return fiber.StatusInternalServerError, CodeInternal, msgInternal
}

// userMessage quita el prefijo del sentinel ("entrada inválida: ...").
func userMessage(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	return msg
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	body := dto.ErrorResponse{
		Code:    code,
		Message: msg,
		Notices: []dto.Notice{{Level: dto.NoticeDanger, Message: msg}},
	}
	if code == CodeLoginRequired {
		body.LoginURL = loginURL
		body.Notices = []dto.Notice{{Level: dto.NoticeWarning, Message: msg}}
	}
	return c.Status(status).JSON(body)
}
