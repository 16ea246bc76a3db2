package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Retail-api/internal/application/auth"
	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenant"
	"github.com/jhoicas/Retail-api/internal/application/usecase"
)

// UserHandler administración de usuarios.
type UserHandler struct {
	accountUC *usecase.AccountUseCase
	authUC    *auth.AuthUseCase
	scopes    *tenant.Resolver
	log       zerolog.Logger
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(accountUC *usecase.AccountUseCase, authUC *auth.AuthUseCase, scopes *tenant.Resolver, log zerolog.Logger) *UserHandler {
	return &UserHandler{accountUC: accountUC, authUC: authUC, scopes: scopes, log: log}
}

// ToggleStatus godoc
// @Summary      Activar / desactivar usuario (super admin)
// @Description  adminId debe ser el usuario de la sesión. Un usuario desactivado pierde la sesión en su siguiente petición.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ToggleStatusRequest  true  "userId y adminId"
// @Success      200   {object}  dto.ToggleStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/toggle-status [post]
func (h *UserHandler) ToggleStatus(c *fiber.Ctx) error {
	var in dto.ToggleStatusRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	if in.AdminID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "adminId no corresponde a la sesión"})
	}
	out, err := h.accountUC.ToggleUserActive(c.UserContext(), in.AdminID, in.UserID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Param        clientId  query  string  false  "tenant (solo super admin)"
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	scope, err := resolveScope(c, h.scopes, c.Query("clientId"), tenant.ScopeAllowGlobal)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.accountUC.ListUsers(c.UserContext(), scope, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario (super admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "email, password, rol y tenant"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.authUC.RegisterUser(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
