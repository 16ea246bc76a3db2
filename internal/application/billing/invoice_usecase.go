package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenant"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/domain/ledger"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

// InvoiceUseCase alta y consulta de facturas.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	invalidator SeriesInvalidator
	recorder    Recorder
	now         func() time.Time
	log         zerolog.Logger
}

// NewInvoiceUseCase construye el caso de uso. invalidator y recorder pueden ser nil.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository, invalidator SeriesInvalidator, recorder Recorder, log zerolog.Logger) *InvoiceUseCase {
	if invalidator == nil {
		invalidator = nopInvalidator{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		invalidator: invalidator,
		recorder:    recorder,
		now:         time.Now,
		log:         log,
	}
}

// CreateInvoice crea la factura del tenant del alcance. El total se fija aquí (suma de líneas)
// y no cambia después. InitialPayment, si viene, se registra como primer abono.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, scope tenant.Scope, actorID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if scope.Global || scope.ClientID == "" {
		return nil, fmt.Errorf("se requiere un tenant: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.CustomerName) == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	items := make([]entity.InvoiceItem, 0, len(in.Items))
	total := decimal.Zero
	for _, it := range in.Items {
		if strings.TrimSpace(it.Description) == "" || !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lineTotal := it.Quantity.Mul(it.UnitPrice)
		total = total.Add(lineTotal)
		items = append(items, entity.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Category:    strings.TrimSpace(it.Category),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   lineTotal,
		})
	}

	id := uuid.New().String()
	number := strings.TrimSpace(in.Number)
	if number == "" {
		number = "F-" + strings.ToUpper(id[:8])
	}
	inv := ledger.Open(entity.Invoice{
		ID:                 id,
		ClientID:           scope.ClientID,
		Number:             number,
		CustomerName:       strings.TrimSpace(in.CustomerName),
		Items:              items,
		TotalProductAmount: total,
		CreatedBy:          actorID,
		CreatedAt:          now,
		UpdatedAt:          now,
	})

	if in.InitialPayment != nil && !in.InitialPayment.IsZero() {
		var err error
		inv, err = ledger.Apply(inv, entity.Payment{
			ID:         uuid.New().String(),
			Amount:     *in.InitialPayment,
			Method:     in.PaymentMethod,
			ReceivedBy: actorID,
			ReceivedAt: now,
		})
		if err != nil {
			uc.recorder.LedgerOp(opCreate, resultOf(err))
			return nil, err
		}
	}

	if err := uc.invoiceRepo.Create(ctx, &inv); err != nil {
		uc.recorder.LedgerOp(opCreate, resultOf(err))
		return nil, err
	}
	uc.recorder.LedgerOp(opCreate, resultOK)
	uc.invalidator.InvalidateTenant(ctx, inv.ClientID)

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("client_id", inv.ClientID).
		Str("total", inv.TotalProductAmount.String()).
		Msg("factura creada")

	out := ToInvoiceResponse(&inv)
	return &out, nil
}

// GetInvoice obtiene una factura visible en el alcance. Fuera del alcance es ErrNotFound.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, scope tenant.Scope, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || !scope.Allows(inv.ClientID) {
		return nil, domain.ErrNotFound
	}
	out := ToInvoiceResponse(inv)
	return &out, nil
}

// ListInvoices lista las facturas del alcance (todas si es global).
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, scope tenant.Scope, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.ListByClient(ctx, scope.FilterClientID(), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, ToInvoiceResponse(inv))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
