package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSales      = "sales"
	RoleViewer     = "viewer"
)

// ValidRole informa si r pertenece a la enumeración de roles.
func ValidRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleViewer:
		return true
	}
	return false
}

// User representa un usuario del sistema. ClientID vacío solo es válido para super admins
// que operan de forma global.
type User struct {
	ID              string
	ClientID        string
	Email           string
	PasswordHash    string // bcrypt hash, nunca plano en dominio después de persistir
	Name            string
	Role            string
	IsActive        bool
	StatusChangedBy string
	StatusChangedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsSuperAdmin informa si el usuario tiene el rol super_admin. Seguro con receptor nil.
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleSuperAdmin
}
