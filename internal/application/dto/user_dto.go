package dto

import "time"

// LoginRequest entrada para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"clientId,omitempty"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Role            string     `json:"role"`
	IsSuperAdmin    bool       `json:"isSuperAdmin"`
	IsActive        bool       `json:"isActive"`
	StatusChangedBy string     `json:"statusChangedBy,omitempty"`
	StatusChangedAt *time.Time `json:"statusChangedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// LoginResponse salida del login; el token también viaja en el cookie auth-token.
type LoginResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// SessionResponse salida de GET /api/auth/session.
// ClientID es el tenant efectivo de la petición ("" si un super admin no eligió ninguno).
type SessionResponse struct {
	Success  bool         `json:"success"`
	User     UserResponse `json:"user"`
	ClientID string       `json:"clientId,omitempty"`
}

// AuthErrorResponse cuerpo de error de los endpoints de auth.
type AuthErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SelectClientRequest entrada para POST /api/auth/select-client. Vacío limpia la selección.
type SelectClientRequest struct {
	ClientID string `json:"clientId" validate:"omitempty,max=64"`
}

// ToggleStatusRequest entrada para POST /api/users/toggle-status.
type ToggleStatusRequest struct {
	UserID  string `json:"userId" validate:"required,max=64"`
	AdminID string `json:"adminId" validate:"required,max=64"`
}

// ToggleStatusResponse resultado del cambio de estado.
type ToggleStatusResponse struct {
	Success  bool   `json:"success"`
	IsActive bool   `json:"isActive"`
	Email    string `json:"email"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en el caso de uso).
// ClientID es obligatorio salvo para super_admin.
type CreateUserRequest struct {
	ClientID string `json:"clientId" validate:"omitempty,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"required,oneof=super_admin admin manager sales viewer"`
}
