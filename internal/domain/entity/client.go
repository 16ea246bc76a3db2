package entity

import "time"

// Estados de Client.
const (
	ClientStatusActive    = "active"
	ClientStatusSuspended = "suspended"
)

// Client representa una organización/tenant del sistema. Todos los datos de negocio
// (facturas, clientes finales, ventas) pertenecen a exactamente un Client.
type Client struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
