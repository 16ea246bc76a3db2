package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Retail-api/internal/application/auth"
	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenant"
	"github.com/jhoicas/Retail-api/internal/application/usecase"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/infrastructure/metrics"
)

// AuthHandler maneja login, sesión, logout y selección de tenant.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	clientUC *usecase.ClientUseCase
	cookies  CookieConfig
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, clientUC *usecase.ClientUseCase, cookies CookieConfig, m *metrics.Metrics, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, clientUC: clientUC, cookies: cookies, metrics: m, log: log}
}

func authError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.AuthErrorResponse{Success: false, Error: msg})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.AuthErrorResponse
// @Failure      401   {object}  dto.AuthErrorResponse
// @Failure      403   {object}  dto.AuthErrorResponse
// @Failure      429   {object}  dto.AuthErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		h.metrics.LoginAttempt(metrics.ResultRejected)
		return authError(c, fiber.StatusBadRequest, "email y password son requeridos")
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.metrics.LoginAttempt(metrics.ResultRejected)
			return authError(c, fiber.StatusUnauthorized, "credenciales inválidas")
		case errors.Is(err, domain.ErrForbidden):
			h.metrics.LoginAttempt(metrics.ResultRejected)
			return authError(c, fiber.StatusForbidden, "cuenta inactiva")
		}
		h.metrics.LoginAttempt(metrics.ResultError)
		h.log.Error().Err(err).Msg("login")
		return authError(c, fiber.StatusInternalServerError, "error interno")
	}
	h.metrics.LoginAttempt(metrics.ResultOK)
	setAuthCookie(c, h.cookies, out.Token)
	h.log.Info().Str("user_id", out.User.ID).Str("role", out.User.Role).Msg("login")
	return c.JSON(out)
}

// Session godoc
// @Summary      Sesión actual
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.AuthErrorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	user := h.uc.Resolve(c.UserContext(), credential(c))
	if user == nil {
		return authError(c, fiber.StatusUnauthorized, "no autenticado")
	}
	return c.JSON(dto.SessionResponse{
		Success:  true,
		User:     *auth.ToUserResponse(user),
		ClientID: tenant.EffectiveTenant(user, c.Cookies(CookieSelectedClient)),
	})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearCookie(c, h.cookies, CookieAuthToken, true)
	clearCookie(c, h.cookies, CookieSelectedClient, false)
	return c.JSON(fiber.Map{"success": true})
}

// SelectClient godoc
// @Summary      Elegir tenant de trabajo (super admin)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectClientRequest  true  "clientId; vacío limpia la selección"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/select-client [post]
func (h *AuthHandler) SelectClient(c *fiber.Ctx) error {
	var in dto.SelectClientRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	if in.ClientID == "" {
		clearCookie(c, h.cookies, CookieSelectedClient, false)
		return c.JSON(fiber.Map{"success": true, "clientId": ""})
	}
	client, err := h.clientUC.GetByID(c.UserContext(), in.ClientID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	setSelectedClientCookie(c, h.cookies, client.ID)
	return c.JSON(fiber.Map{"success": true, "clientId": client.ID})
}
