package repository

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas devuelven (nil, nil) cuando el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	// FindByEmail compara el email sin distinguir mayúsculas/minúsculas.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// ListByClient lista usuarios de un tenant; clientID vacío lista todos.
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.User, error)
}
