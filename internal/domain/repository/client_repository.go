package repository

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client (tenant).
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
}
