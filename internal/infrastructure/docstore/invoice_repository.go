package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

type itemDocument struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type paymentDocument struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method,omitempty"`
	Note       string          `json:"note,omitempty"`
	ReceivedBy string          `json:"receivedBy,omitempty"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

type invoiceDocument struct {
	ID                 string            `json:"id"`
	ClientID           string            `json:"clientId"`
	Number             string            `json:"number"`
	CustomerName       string            `json:"customerName"`
	Items              []itemDocument    `json:"items"`
	TotalProductAmount decimal.Decimal   `json:"totalProductAmount"`
	RemainingAmount    decimal.Decimal   `json:"remainingAmount"`
	PaymentStatus      string            `json:"paymentStatus"`
	AdditionalPayment  []paymentDocument `json:"additionalPayment"`
	Version            int64             `json:"version"`
	CreatedBy          string            `json:"createdBy,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// InvoiceRepo implementación de InvoiceRepository sobre el document store.
type InvoiceRepo struct {
	store repository.DocumentStore
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(store repository.DocumentStore) *InvoiceRepo {
	return &InvoiceRepo{store: store}
}

// Create persiste la factura con versión 1 si no trae una.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.Version == 0 {
		inv.Version = 1
	}
	raw, err := encode(toInvoiceDocument(inv))
	if err != nil {
		return err
	}
	if _, err := r.store.Execute(ctx, repository.CollectionInvoices, repository.Operation{Verb: repository.VerbInsertOne, Document: raw}); err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if id == "" {
		return nil, nil
	}
	var d invoiceDocument
	ok, err := findOne(ctx, r.store, repository.CollectionInvoices, repository.Filter{"id": id}, &d)
	if err != nil || !ok {
		return nil, err
	}
	return d.toEntity(), nil
}

// ListByClient lista facturas de un tenant (o todas con clientID vacío).
func (r *InvoiceRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Invoice, error) {
	docs, err := find[invoiceDocument](ctx, r.store, repository.CollectionInvoices, clientFilter(clientID), limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Invoice, 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toEntity())
	}
	return list, nil
}

// Replace escritura condicional: solo reemplaza si la versión almacenada es expectedVersion.
func (r *InvoiceRepo) Replace(ctx context.Context, inv *entity.Invoice, expectedVersion int64) error {
	next := *inv
	next.Version = expectedVersion + 1
	raw, err := encode(toInvoiceDocument(&next))
	if err != nil {
		return err
	}
	res, err := r.store.Execute(ctx, repository.CollectionInvoices, repository.Operation{
		Verb:     repository.VerbUpdateOne,
		Filter:   repository.Filter{"id": inv.ID, "version": expectedVersion},
		Document: raw,
	})
	if err != nil {
		return fmt.Errorf("replace invoice: %w", err)
	}
	if res.Matched == 0 {
		current, err := r.GetByID(ctx, inv.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	inv.Version = next.Version
	return nil
}

func toInvoiceDocument(inv *entity.Invoice) invoiceDocument {
	items := make([]itemDocument, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, itemDocument{
			Description: it.Description,
			Category:    it.Category,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	payments := make([]paymentDocument, 0, len(inv.AdditionalPayment))
	for _, p := range inv.AdditionalPayment {
		payments = append(payments, paymentDocument{
			ID:         p.ID,
			Amount:     p.Amount,
			Method:     p.Method,
			Note:       p.Note,
			ReceivedBy: p.ReceivedBy,
			ReceivedAt: p.ReceivedAt,
		})
	}
	return invoiceDocument{
		ID:                 inv.ID,
		ClientID:           inv.ClientID,
		Number:             inv.Number,
		CustomerName:       inv.CustomerName,
		Items:              items,
		TotalProductAmount: inv.TotalProductAmount,
		RemainingAmount:    inv.RemainingAmount,
		PaymentStatus:      inv.PaymentStatus,
		AdditionalPayment:  payments,
		Version:            inv.Version,
		CreatedBy:          inv.CreatedBy,
		CreatedAt:          inv.CreatedAt,
		UpdatedAt:          inv.UpdatedAt,
	}
}

func (d *invoiceDocument) toEntity() *entity.Invoice {
	inv := &entity.Invoice{
		ID:                 d.ID,
		ClientID:           d.ClientID,
		Number:             d.Number,
		CustomerName:       d.CustomerName,
		TotalProductAmount: d.TotalProductAmount,
		RemainingAmount:    d.RemainingAmount,
		PaymentStatus:      d.PaymentStatus,
		Version:            d.Version,
		CreatedBy:          d.CreatedBy,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	for _, it := range d.Items {
		inv.Items = append(inv.Items, entity.InvoiceItem{
			Description: it.Description,
			Category:    it.Category,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	for _, p := range d.AdditionalPayment {
		inv.AdditionalPayment = append(inv.AdditionalPayment, entity.Payment{
			ID:         p.ID,
			Amount:     p.Amount,
			Method:     p.Method,
			Note:       p.Note,
			ReceivedBy: p.ReceivedBy,
			ReceivedAt: p.ReceivedAt,
		})
	}
	return inv
}
