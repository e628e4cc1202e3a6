package usecase

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/invoicedash/internal/domain"
	"github.com/totegamma/invoicedash/internal/validation"
)

var tracer = otel.Tracer("usecase")

const (
	msgCreateMissing  = "Missing Fields. Failed to Create Invoice."
	msgUpdateMissing  = "Missing Fields. Failed to Update Invoice."
	msgCreateDatabase = "Database Error: Failed to Create Invoice."
	msgUpdateDatabase = "Database Error: Failed to Update Invoice."
	msgDeleteDatabase = "Database Error: Failed to Delete Invoice."
)

// InvoiceUsecase runs the invoice mutations: validate, convert the amount,
// persist one statement, invalidate the listing, navigate.
type InvoiceUsecase struct {
	repo        InvoiceRepository
	invalidator RouteInvalidator
	now         func() time.Time
}

func NewInvoiceUsecase(repo InvoiceRepository, invalidator RouteInvalidator) *InvoiceUsecase {
	return &InvoiceUsecase{
		repo:        repo,
		invalidator: invalidator,
		now:         time.Now,
	}
}

func (uc *InvoiceUsecase) Create(ctx context.Context, form url.Values) Outcome {
	ctx, span := tracer.Start(ctx, "Invoice.Usecase.Create")
	defer span.End()

	input, state := validation.ParseInvoiceForm(form)
	if state != nil {
		state.Message = msgCreateMissing
		return Failure{State: *state}
	}

	draft := domain.InvoiceDraft{
		CustomerID:  input.CustomerID,
		AmountCents: domain.ToCents(input.Amount),
		Status:      domain.InvoiceStatus(input.Status),
		Date:        uc.now().UTC().Format("2006-01-02"),
	}

	if err := uc.repo.Create(ctx, draft); err != nil {
		span.RecordError(err)
		logDatabaseError(ctx, "create", err)
		return Failure{State: domain.FormState{Message: msgCreateDatabase}}
	}

	uc.invalidator.Revalidate(ctx, domain.InvoicesListPath)
	return Redirect{To: domain.InvoicesListPath}
}

// Update replaces customer, amount and status of invoice id. The id is not
// part of the form. Concurrent updates are last-writer-wins.
func (uc *InvoiceUsecase) Update(ctx context.Context, id string, form url.Values) Outcome {
	ctx, span := tracer.Start(ctx, "Invoice.Usecase.Update")
	defer span.End()
	span.SetAttributes(attribute.String("InvoiceId", id))

	input, state := validation.ParseInvoiceForm(form)
	if state != nil {
		state.Message = msgUpdateMissing
		return Failure{State: *state}
	}

	draft := domain.InvoiceDraft{
		CustomerID:  input.CustomerID,
		AmountCents: domain.ToCents(input.Amount),
		Status:      domain.InvoiceStatus(input.Status),
	}

	affected, err := uc.repo.Update(ctx, id, draft)
	if err != nil {
		span.RecordError(err)
		logDatabaseError(ctx, "update", err)
		return Failure{State: domain.FormState{Message: msgUpdateDatabase}}
	}
	if affected == 0 {
		slog.InfoContext(
			ctx, "Update matched no invoice",
			slog.String("invoiceId", id),
			slog.String("module", "invoice"),
		)
	}

	uc.invalidator.Revalidate(ctx, domain.InvoicesListPath)
	return Redirect{To: domain.InvoicesListPath}
}

// Delete removes invoice id. It is called from the listing itself, so it
// only invalidates and does not navigate. A missing id is a no-op.
func (uc *InvoiceUsecase) Delete(ctx context.Context, id string) Outcome {
	ctx, span := tracer.Start(ctx, "Invoice.Usecase.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("InvoiceId", id))

	affected, err := uc.repo.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		logDatabaseError(ctx, "delete", err)
		return Failure{State: domain.FormState{Message: msgDeleteDatabase}}
	}
	if affected == 0 {
		slog.DebugContext(
			ctx, "Delete matched no invoice",
			slog.String("invoiceId", id),
			slog.String("module", "invoice"),
		)
	}

	uc.invalidator.Revalidate(ctx, domain.InvoicesListPath)
	return Done{}
}

func logDatabaseError(ctx context.Context, op string, err error) {
	slog.ErrorContext(
		ctx, "Invoice mutation failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
		slog.String("module", "invoice"),
	)
}
