package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// Locals keys de la sesión en Fiber.
const (
	LocalSession = "session"
	LocalUserID  = "user_id"
)

// sessionIdentifier lo implementa *auth.AuthUseCase.
type sessionIdentifier interface {
	Identify(ctx context.Context, token string) (*auth.Session, error)
}

// AuthMiddleware exige una sesión válida. El token llega como Bearer o en la cookie cookieName.
//
// Comportamiento:
//   - 401 LOGIN_REQUIRED → sin token, token inválido, expirado o revocado.
//   - 503 SESSION_UNAVAILABLE → no se pudo consultar el almacén de sesiones.
func AuthMiddleware(identifier sessionIdentifier, cookieName string, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFrom(c, cookieName)
		if token == "" {
			return fail(c, fiber.StatusUnauthorized, CodeLoginRequired, msgLoginRequired)
		}
		s, err := identifier.Identify(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return fail(c, fiber.StatusUnauthorized, CodeLoginRequired, msgLoginRequired)
			}
			log.Error().Err(err).Msg("no se pudo verificar la sesión")
			return fail(c, fiber.StatusServiceUnavailable, CodeSessionUnavailable, "no se pudo verificar la sesión, intente más tarde")
		}
		c.Locals(LocalSession, s)
		c.Locals(LocalUserID, s.UserID)
		return c.Next()
	}
}

// tokenFrom prefiere el header Authorization; si no viene, usa la cookie de sesión.
func tokenFrom(c *fiber.Ctx, cookieName string) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	return c.Cookies(cookieName)
}

// GetSession devuelve la sesión del contexto (después del middleware de auth), nil si no hay.
func GetSession(c *fiber.Ctx) *auth.Session {
	s, _ := c.Locals(LocalSession).(*auth.Session)
	return s
}

// GetUserID devuelve el UserID del contexto, 0 si no hay sesión.
func GetUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}
