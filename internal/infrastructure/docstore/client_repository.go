package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

type clientDocument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"taxId,omitempty"`
	Email     string    `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientRepo implementación de ClientRepository sobre el document store.
type ClientRepo struct {
	store repository.DocumentStore
}

// NewClientRepository construye el adaptador.
func NewClientRepository(store repository.DocumentStore) *ClientRepo {
	return &ClientRepo{store: store}
}

// Create persiste un tenant.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	raw, err := encode(clientDocument{
		ID: c.ID, Name: c.Name, TaxID: c.TaxID, Email: c.Email, Status: c.Status,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	})
	if err != nil {
		return err
	}
	if _, err := r.store.Execute(ctx, repository.CollectionClients, repository.Operation{Verb: repository.VerbInsertOne, Document: raw}); err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por ID; (nil, nil) si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	if id == "" {
		return nil, nil
	}
	var d clientDocument
	ok, err := findOne(ctx, r.store, repository.CollectionClients, repository.Filter{"id": id}, &d)
	if err != nil || !ok {
		return nil, err
	}
	return d.toEntity(), nil
}

// List lista tenants con paginación.
func (r *ClientRepo) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	docs, err := find[clientDocument](ctx, r.store, repository.CollectionClients, nil, limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Client, 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toEntity())
	}
	return list, nil
}

func (d *clientDocument) toEntity() *entity.Client {
	return &entity.Client{
		ID: d.ID, Name: d.Name, TaxID: d.TaxID, Email: d.Email, Status: d.Status,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}
