// Package tenant deriva el tenant efectivo de cada petición.
//
// Toda lectura o escritura sobre datos de un tenant pasa por Resolve. Un id de tenant
// enviado por el cliente nunca se usa directamente: solo un super admin puede
// suplantar otro tenant. El resultado no se cachea entre peticiones.
package tenant

import (
	"context"
	"strings"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// ScopePolicy qué hacer cuando no hay tenant efectivo (super admin sin tenant ni override).
type ScopePolicy int

const (
	// ScopeRequireTenant rechaza la operación con domain.ErrInvalidInput.
	ScopeRequireTenant ScopePolicy = iota
	// ScopeAllowGlobal permite una vista sobre todos los tenants.
	ScopeAllowGlobal
)

func (p ScopePolicy) String() string {
	if p == ScopeAllowGlobal {
		return "allow_global"
	}
	return "require_tenant"
}

// Scope alcance aplicado a las consultas de la petición.
type Scope struct {
	ClientID string
	Global   bool
}

// Allows informa si un recurso del tenant clientID es visible con este alcance.
func (s Scope) Allows(clientID string) bool {
	return s.Global || (s.ClientID != "" && s.ClientID == clientID)
}

// FilterClientID id de tenant a usar como filtro de consulta ("" = todos).
func (s Scope) FilterClientID() string {
	if s.Global {
		return ""
	}
	return s.ClientID
}

// EffectiveTenant devuelve el tenant efectivo ("" = ninguno).
// Solo un super admin con override explícito obtiene el override; cualquier otro caso
// devuelve el tenant propio del usuario.
func EffectiveTenant(principal *entity.User, override string) string {
	if principal == nil {
		return ""
	}
	override = strings.TrimSpace(override)
	if principal.IsSuperAdmin() && override != "" {
		return override
	}
	return principal.ClientID
}

// Resolve aplica EffectiveTenant y la política del endpoint.
func Resolve(principal *entity.User, override string, policy ScopePolicy) (Scope, error) {
	if principal == nil {
		return Scope{}, domain.ErrUnauthorized
	}
	clientID := EffectiveTenant(principal, override)
	if clientID != "" {
		return Scope{ClientID: clientID}, nil
	}
	if !principal.IsSuperAdmin() {
		// Usuario regular sin tenant: cuenta mal configurada, nunca vista global.
		return Scope{}, domain.ErrForbidden
	}
	if policy == ScopeAllowGlobal {
		return Scope{Global: true}, nil
	}
	return Scope{}, domain.ErrInvalidInput
}

// ClientChecker informa si un tenant existe.
type ClientChecker interface {
	Exists(ctx context.Context, clientID string) (bool, error)
}

// Resolver aplica Resolve y además exige que el tenant suplantado por un super admin
// exista. El tenant propio del usuario no se vuelve a consultar.
type Resolver struct {
	clients ClientChecker
}

// NewResolver construye el resolver sobre el catálogo de tenants.
func NewResolver(clients ClientChecker) *Resolver {
	return &Resolver{clients: clients}
}

// Resolve como la función Resolve; domain.ErrNotFound si el override apunta a un
// tenant inexistente.
func (r *Resolver) Resolve(ctx context.Context, principal *entity.User, override string, policy ScopePolicy) (Scope, error) {
	scope, err := Resolve(principal, override, policy)
	if err != nil {
		return Scope{}, err
	}
	if scope.Global || scope.ClientID == principal.ClientID {
		return scope, nil
	}
	ok, err := r.clients.Exists(ctx, scope.ClientID)
	if err != nil {
		return Scope{}, err
	}
	if !ok {
		return Scope{}, domain.ErrNotFound
	}
	return scope, nil
}
