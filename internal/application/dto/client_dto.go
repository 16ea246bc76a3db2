package dto

import "time"

// ClientResponse salida de un tenant.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"taxId,omitempty"`
	Email     string    `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientListResponse lista paginada de tenants.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CreateClientRequest entrada para crear un tenant.
type CreateClientRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	TaxID string `json:"taxId" validate:"omitempty,max=20"`
	Email string `json:"email" validate:"omitempty,email"`
}
