package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/dto"
)

// AuthHandler maneja login, logout y la identidad de la sesión.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	cookieName   string
	secureCookie bool
	errs         ErrorWriter
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookieName string, secureCookie bool, errs ErrorWriter) *AuthHandler {
	return &AuthHandler{uc: uc, cookieName: cookieName, secureCookie: secureCookie, errs: errs}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "login, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, msgInvalidBody)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    out.Token,
		Path:     "/",
		Expires:  out.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	out.Notices = []dto.Notice{{Level: dto.NoticeSuccess, Message: "bienvenido, " + out.User.Name}}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetSession(c)); err != nil {
		return h.errs.write(c, err)
	}
	c.ClearCookie(h.cookieName)
	msg := "sesión cerrada"
	return c.JSON(dto.MessageResponse{
		Message: msg,
		Notices: []dto.Notice{{Level: dto.NoticeSuccess, Message: msg}},
	})
}

// Me godoc
// @Summary      Usuario de la sesión
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	s := GetSession(c)
	return c.JSON(dto.UserResponse{ID: s.UserID, Name: s.DisplayName})
}
