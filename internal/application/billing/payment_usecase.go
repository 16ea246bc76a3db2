package billing

import (
	"context"
	"errors"
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

// PaymentUseCase registra y revierte abonos. Cada mutación toma el lock de la factura,
// lee, calcula con el ledger y persiste de forma condicional sobre la versión leída.
type PaymentUseCase struct {
	invoiceRepo repository.InvoiceRepository
	locker      InvoiceLocker
	recorder    Recorder
	now         func() time.Time
	log         zerolog.Logger
}

// NewPaymentUseCase construye el caso de uso. recorder puede ser nil.
func NewPaymentUseCase(invoiceRepo repository.InvoiceRepository, locker InvoiceLocker, recorder Recorder, log zerolog.Logger) *PaymentUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &PaymentUseCase{
		invoiceRepo: invoiceRepo,
		locker:      locker,
		recorder:    recorder,
		now:         time.Now,
		log:         log,
	}
}

// ApplyPayment agrega un abono a la factura.
func (uc *PaymentUseCase) ApplyPayment(ctx context.Context, scope tenant.Scope, actorID, invoiceID string, in dto.ApplyPaymentRequest) (*dto.ApplyPaymentResponse, error) {
	payment := entity.Payment{
		ID:         uuid.New().String(),
		Amount:     in.Amount,
		Method:     in.Method,
		Note:       in.Note,
		ReceivedBy: actorID,
		ReceivedAt: uc.now(),
	}
	inv, err := uc.mutate(ctx, scope, opApply, invoiceID, func(current entity.Invoice) (entity.Invoice, error) {
		return ledger.Apply(current, payment)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ApplyPaymentResponse{
		Message:            "Pago registrado correctamente",
		Payment:            toPaymentResponse(payment),
		NewRemainingAmount: inv.RemainingAmount,
		PaymentStatus:      inv.PaymentStatus,
		Invoice:            ToInvoiceResponse(inv),
	}, nil
}

// RevertPaymentAt revierte el abono en la posición index de la lista actual.
func (uc *PaymentUseCase) RevertPaymentAt(ctx context.Context, scope tenant.Scope, invoiceID string, index int) (*dto.RevertPaymentResponse, error) {
	var reverted decimal.Decimal
	inv, err := uc.mutate(ctx, scope, opRevertIndex, invoiceID, func(current entity.Invoice) (entity.Invoice, error) {
		out, amount, err := ledger.RevertAt(current, index)
		reverted = amount
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return revertResponse(inv, reverted), nil
}

// RevertPaymentByID revierte el abono identificado por su id estable.
func (uc *PaymentUseCase) RevertPaymentByID(ctx context.Context, scope tenant.Scope, invoiceID, paymentID string) (*dto.RevertPaymentResponse, error) {
	var reverted decimal.Decimal
	inv, err := uc.mutate(ctx, scope, opRevertID, invoiceID, func(current entity.Invoice) (entity.Invoice, error) {
		out, amount, err := ledger.RevertByID(current, paymentID)
		reverted = amount
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return revertResponse(inv, reverted), nil
}

func revertResponse(inv *entity.Invoice, reverted decimal.Decimal) *dto.RevertPaymentResponse {
	return &dto.RevertPaymentResponse{
		Message:            "Pago revertido correctamente",
		RevertedAmount:     reverted,
		NewRemainingAmount: inv.RemainingAmount,
		PaymentStatus:      inv.PaymentStatus,
		Invoice:            ToInvoiceResponse(inv),
	}
}

// mutate lock -> lectura -> ledger -> escritura condicional. Un error de validación no escribe nada.
func (uc *PaymentUseCase) mutate(
	ctx context.Context,
	scope tenant.Scope,
	op, invoiceID string,
	fn func(entity.Invoice) (entity.Invoice, error),
) (inv *entity.Invoice, err error) {
	defer func() { uc.recorder.LedgerOp(op, resultOf(err)) }()

	if invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	unlock, err := uc.locker.Lock(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if current == nil || !scope.Allows(current.ClientID) {
		return nil, domain.ErrNotFound
	}

	next, err := fn(*current)
	if err != nil {
		if errors.Is(err, ledger.ErrInvariantViolation) {
			uc.log.Error().Err(err).Str("invoice_id", invoiceID).Str("operation", op).Msg("factura almacenada inconsistente")
		}
		return nil, err
	}
	next.UpdatedAt = uc.now()

	if err := uc.invoiceRepo.Replace(ctx, &next, current.Version); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.log.Warn().Str("invoice_id", invoiceID).Int64("version", current.Version).Msg("escritura concurrente detectada")
		}
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", invoiceID).
		Str("operation", op).
		Str("remaining", next.RemainingAmount.String()).
		Str("status", next.PaymentStatus).
		Int64("version", next.Version).
		Msg("abonos actualizados")
	return &next, nil
}
