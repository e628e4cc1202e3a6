package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/totegamma/invoicedash/internal/domain"
	"github.com/totegamma/invoicedash/internal/infra/cache"
	"github.com/totegamma/invoicedash/internal/metrics"
)

// InvoicePage is one rendered page of the invoices listing.
type InvoicePage struct {
	Query      string              `json:"query"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Invoices   []domain.InvoiceRow `json:"invoices"`
}

// Overview is the dashboard landing data.
type Overview struct {
	Cards   domain.CardSummary `json:"cards"`
	Revenue []domain.Revenue   `json:"revenue"`
}

// EditInvoice is what the edit form needs.
type EditInvoice struct {
	Invoice   domain.InvoiceForm      `json:"invoice"`
	Customers []domain.CustomerOption `json:"customers"`
}

type DashboardUsecase struct {
	invoices  InvoiceReader
	customers CustomerReader
	cache     cache.RouteCache
}

func NewDashboardUsecase(invoices InvoiceReader, customers CustomerReader, routeCache cache.RouteCache) *DashboardUsecase {
	return &DashboardUsecase{
		invoices:  invoices,
		customers: customers,
		cache:     routeCache,
	}
}

// Invoices renders a listing page as JSON, served from the route cache
// until a mutation invalidates the listing.
func (uc *DashboardUsecase) Invoices(ctx context.Context, query string, page int) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Dashboard.Usecase.Invoices")
	defer span.End()

	if page < 1 {
		page = 1
	}
	variant := url.Values{"query": {query}, "page": {strconv.Itoa(page)}}.Encode()

	// the generation is read before the rows so an invalidation that lands
	// mid render leaves this payload under a generation nobody reads
	var generation int64
	if uc.cache != nil {
		payload, gen, ok := uc.cache.Get(ctx, domain.InvoicesListPath, variant)
		generation = gen
		metrics.RecordCacheLookup(ok)
		if ok {
			return payload, nil
		}
	}

	rows, err := uc.invoices.List(ctx, query, page)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	pages, err := uc.invoices.Pages(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	payload, err := json.Marshal(InvoicePage{
		Query:      query,
		Page:       page,
		TotalPages: pages,
		Invoices:   rows,
	})
	if err != nil {
		return nil, errors.Wrap(err, "render invoices")
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, domain.InvoicesListPath, generation, variant, payload); err != nil {
			slog.WarnContext(
				ctx, "Failed to cache route",
				slog.String("route", domain.InvoicesListPath),
				slog.String("error", err.Error()),
				slog.String("module", "cache"),
			)
		}
	}
	return payload, nil
}

func (uc *DashboardUsecase) EditInvoice(ctx context.Context, id string) (EditInvoice, error) {
	inv, err := uc.invoices.Get(ctx, id)
	if err != nil {
		return EditInvoice{}, err
	}
	customers, err := uc.customers.Options(ctx)
	if err != nil {
		return EditInvoice{}, err
	}
	return EditInvoice{
		Invoice: domain.InvoiceForm{
			ID:         inv.ID,
			CustomerID: inv.CustomerID,
			Amount:     domain.FromCents(inv.Amount),
			Status:     inv.Status,
		},
		Customers: customers,
	}, nil
}

func (uc *DashboardUsecase) Customers(ctx context.Context) ([]domain.CustomerOption, error) {
	return uc.customers.Options(ctx)
}

func (uc *DashboardUsecase) Overview(ctx context.Context) (Overview, error) {
	cards, err := uc.invoices.Summary(ctx)
	if err != nil {
		return Overview{}, err
	}
	revenue, err := uc.customers.Revenue(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Overview{Cards: cards, Revenue: revenue}, nil
}
