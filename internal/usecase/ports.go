package usecase

import (
	"context"
	"net/url"

	"github.com/totegamma/invoicedash/internal/domain"
)

// InvoiceRepository executes single-statement invoice mutations.
type InvoiceRepository interface {
	Create(ctx context.Context, draft domain.InvoiceDraft) error
	Update(ctx context.Context, id string, draft domain.InvoiceDraft) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// InvoiceReader backs the dashboard's read views.
type InvoiceReader interface {
	Get(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, query string, page int) ([]domain.InvoiceRow, error)
	Pages(ctx context.Context, query string) (int, error)
	Summary(ctx context.Context) (domain.CardSummary, error)
}

// CustomerReader lists customers and seeded revenue.
type CustomerReader interface {
	Options(ctx context.Context) ([]domain.CustomerOption, error)
	Revenue(ctx context.Context) ([]domain.Revenue, error)
}

// RouteInvalidator marks a route's cached render stale.
type RouteInvalidator interface {
	Revalidate(ctx context.Context, route string)
}

// CredentialsProvider verifies submitted credentials and issues sessions.
type CredentialsProvider interface {
	Authorize(ctx context.Context, form url.Values) (*domain.User, error)
	IssueSession(ctx context.Context, user *domain.User) (string, error)
}
