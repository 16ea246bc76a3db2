package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Retail-api/internal/application/auth"
	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenant"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// Nombres de cookies y keys de Locals.
const (
	CookieAuthToken      = "auth-token"
	CookieSelectedClient = "selectedClient"

	LocalPrincipal = "principal"
)

// CookieConfig atributos de los cookies de sesión.
type CookieConfig struct {
	Secure               bool
	AuthMaxAge           time.Duration
	SelectedClientMaxAge time.Duration
}

// credential extrae la credencial de sesión: cookie auth-token o, en su defecto, Bearer.
func credential(c *fiber.Ctx) string {
	if tok := c.Cookies(CookieAuthToken); tok != "" {
		return tok
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireSession resuelve el usuario actual y lo deja en c.Locals(LocalPrincipal).
// Sin sesión válida responde 401.
func RequireSession(uc *auth.AuthUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := uc.Resolve(c.UserContext(), credential(c))
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión inválida o expirada"})
		}
		c.Locals(LocalPrincipal, user)
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados (después de RequireSession).
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetPrincipal(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		for _, r := range roles {
			if user.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permisos para esta operación"})
	}
}

// RequireSuperAdmin atajo de RequireRole(entity.RoleSuperAdmin).
func RequireSuperAdmin() fiber.Handler {
	return RequireRole(entity.RoleSuperAdmin)
}

// GetPrincipal devuelve el usuario resuelto por RequireSession (nil si no hay).
func GetPrincipal(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalPrincipal).(*entity.User)
	return u
}

// GetUserID id del usuario actual ("" si no hay sesión).
func GetUserID(c *fiber.Ctx) string {
	if u := GetPrincipal(c); u != nil {
		return u.ID
	}
	return ""
}

// resolveScope deriva el alcance de la petición. override es el clientId explícito
// (body o query); si está vacío se usa el cookie selectedClient.
func resolveScope(c *fiber.Ctx, scopes *tenant.Resolver, override string, policy tenant.ScopePolicy) (tenant.Scope, error) {
	if strings.TrimSpace(override) == "" {
		override = c.Cookies(CookieSelectedClient)
	}
	return scopes.Resolve(c.UserContext(), GetPrincipal(c), override, policy)
}

func setAuthCookie(c *fiber.Ctx, cfg CookieConfig, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieAuthToken,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.AuthMaxAge.Seconds()),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func setSelectedClientCookie(c *fiber.Ctx, cfg CookieConfig, clientID string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieSelectedClient,
		Value:    clientID,
		Path:     "/",
		MaxAge:   int(cfg.SelectedClientMaxAge.Seconds()),
		Secure:   cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearCookie(c *fiber.Ctx, cfg CookieConfig, name string, httpOnly bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   cfg.Secure,
		HTTPOnly: httpOnly,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
