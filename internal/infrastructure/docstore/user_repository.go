package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type userDocument struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"clientId"`
	Email           string     `json:"email"`
	EmailNormalized string     `json:"emailNormalized"`
	PasswordHash    string     `json:"passwordHash"`
	Name            string     `json:"name"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"isActive"`
	StatusChangedBy string     `json:"statusChangedBy,omitempty"`
	StatusChangedAt *time.Time `json:"statusChangedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// UserRepo implementación de UserRepository sobre el document store.
type UserRepo struct {
	store repository.DocumentStore
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(store repository.DocumentStore) *UserRepo {
	return &UserRepo{store: store}
}

// Create persiste un nuevo usuario. Devuelve domain.ErrEmailAlreadyExists si el email ya existe.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	existing, err := r.FindByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	raw, err := encode(toUserDocument(user))
	if err != nil {
		return err
	}
	_, err = r.store.Execute(ctx, repository.CollectionUsers, repository.Operation{Verb: repository.VerbInsertOne, Document: raw})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if id == "" {
		return nil, nil
	}
	var d userDocument
	ok, err := findOne(ctx, r.store, repository.CollectionUsers, repository.Filter{"id": id}, &d)
	if err != nil || !ok {
		return nil, err
	}
	return d.toEntity(), nil
}

// FindByEmail obtiene un usuario por email normalizado; (nil, nil) si no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return nil, nil
	}
	var d userDocument
	ok, err := findOne(ctx, r.store, repository.CollectionUsers, repository.Filter{"emailNormalized": normalized}, &d)
	if err != nil || !ok {
		return nil, err
	}
	return d.toEntity(), nil
}

// Update reemplaza el documento del usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	raw, err := encode(toUserDocument(user))
	if err != nil {
		return err
	}
	res, err := r.store.Execute(ctx, repository.CollectionUsers, repository.Operation{
		Verb:     repository.VerbUpdateOne,
		Filter:   repository.Filter{"id": user.ID},
		Document: raw,
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.Matched == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListByClient lista usuarios por tenant con paginación.
func (r *UserRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.User, error) {
	docs, err := find[userDocument](ctx, r.store, repository.CollectionUsers, clientFilter(clientID), limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.User, 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toEntity())
	}
	return list, nil
}

func toUserDocument(u *entity.User) userDocument {
	return userDocument{
		ID:              u.ID,
		ClientID:        u.ClientID,
		Email:           u.Email,
		EmailNormalized: NormalizeEmail(u.Email),
		PasswordHash:    u.PasswordHash,
		Name:            u.Name,
		Role:            u.Role,
		IsActive:        u.IsActive,
		StatusChangedBy: u.StatusChangedBy,
		StatusChangedAt: u.StatusChangedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:              d.ID,
		ClientID:        d.ClientID,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		Name:            d.Name,
		Role:            d.Role,
		IsActive:        d.IsActive,
		StatusChangedBy: d.StatusChangedBy,
		StatusChangedAt: d.StatusChangedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
