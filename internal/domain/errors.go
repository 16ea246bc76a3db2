package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Mapeo HTTP: ErrUnauthorized 401 (sin identidad válida), ErrForbidden 403 (identidad
// válida sin privilegio), ErrNotFound 404, ErrInvalidInput 400, ErrConflict y
// ErrDuplicate 409. Cualquier otro error es interno (500).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)
