package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/totegamma/invoicedash/internal/domain"
	"github.com/totegamma/invoicedash/internal/infra/database"
	"github.com/totegamma/invoicedash/internal/infra/database/models"
)

const dateLayout = "2006-01-02"

type InvoiceRepository struct {
	provider database.Provider
}

func NewInvoiceRepository(provider database.Provider) *InvoiceRepository {
	return &InvoiceRepository{provider: provider}
}

// isInvoiceID reports whether id can name a row at all. Anything else would
// fail the uuid cast in postgres, so it is treated as a row that is not there.
func isInvoiceID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *InvoiceRepository) Create(ctx context.Context, draft domain.InvoiceDraft) error {
	return r.provider.WithConn(ctx, func(db *gorm.DB) error {
		err := db.Exec(
			"INSERT INTO invoices (customer_id, amount, status, date) VALUES (?, ?, ?, ?)",
			draft.CustomerID, draft.AmountCents, string(draft.Status), draft.Date,
		).Error
		return errors.Wrap(err, "insert invoice")
	})
}

// Update reports the number of rows changed; zero means the id did not exist.
func (r *InvoiceRepository) Update(ctx context.Context, id string, draft domain.InvoiceDraft) (int64, error) {
	if !isInvoiceID(id) {
		return 0, nil
	}
	var affected int64
	err := r.provider.WithConn(ctx, func(db *gorm.DB) error {
		result := db.Exec(
			"UPDATE invoices SET customer_id = ?, amount = ?, status = ? WHERE id = ?",
			draft.CustomerID, draft.AmountCents, string(draft.Status), id,
		)
		if result.Error != nil {
			return errors.Wrap(result.Error, "update invoice")
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) (int64, error) {
	if !isInvoiceID(id) {
		return 0, nil
	}
	var affected int64
	err := r.provider.WithConn(ctx, func(db *gorm.DB) error {
		result := db.Exec("DELETE FROM invoices WHERE id = ?", id)
		if result.Error != nil {
			return errors.Wrap(result.Error, "delete invoice")
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}

func (r *InvoiceRepository) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	if !isInvoiceID(id) {
		return nil, domain.NotFoundError{Resource: "invoice"}
	}
	var rows []models.Invoice
	err := r.provider.WithConn(ctx, func(db *gorm.DB) error {
		return db.Raw(
			"SELECT id, customer_id, amount, status, date FROM invoices WHERE id = ?", id,
		).Scan(&rows).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "get invoice")
	}
	if len(rows) == 0 {
		return nil, domain.NotFoundError{Resource: "invoice"}
	}

	inv := rows[0]
	return &domain.Invoice{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Amount:     inv.Amount,
		Status:     domain.InvoiceStatus(inv.Status),
		Date:       inv.Date.Format(dateLayout),
	}, nil
}

const filteredInvoicesWhere = `
FROM invoices
JOIN customers ON invoices.customer_id = customers.id
WHERE customers.name ILIKE @q
   OR customers.email ILIKE @q
   OR invoices.amount::text ILIKE @q
   OR invoices.date::text ILIKE @q
   OR invoices.status ILIKE @q`

// List returns one page (1-based) of invoices matching query, newest first.
func (r *InvoiceRepository) List(ctx context.Context, query string, page int) ([]domain.InvoiceRow, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * domain.InvoicesPerPage

	var rows []models.InvoiceRow
	err := r.provider.WithConn(ctx, func(db *gorm.DB) error {
		return db.Raw(
			`SELECT invoices.id, invoices.amount, invoices.date, invoices.status,
       customers.name, customers.email, customers.image_url`+filteredInvoicesWhere+`
ORDER BY invoices.date DESC
LIMIT @limit OFFSET @offset`,
			sql.Named("q", likePattern(query)),
			sql.Named("limit", domain.InvoicesPerPage),
			sql.Named("offset", offset),
		).Scan(&rows).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "list invoices")
	}

	result := make([]domain.InvoiceRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.InvoiceRow{
			ID:       row.ID,
			Amount:   row.Amount,
			Date:     row.Date.Format(dateLayout),
			Status:   domain.InvoiceStatus(row.Status),
			Name:     row.Name,
			Email:    row.Email,
			ImageURL: row.ImageURL,
		})
	}
	return result, nil
}

// Pages returns how many listing pages query spans.
func (r *InvoiceRepository) Pages(ctx context.Context, query string) (int, error) {
	var count int64
	err := r.provider.WithConn(ctx, func(db *gorm.DB) error {
		return db.Raw("SELECT COUNT(*)"+filteredInvoicesWhere, sql.Named("q", likePattern(query))).
			Scan(&count).Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "count invoices")
	}
	return int((count + domain.InvoicesPerPage - 1) / domain.InvoicesPerPage), nil
}

func (r *InvoiceRepository) Summary(ctx context.Context) (domain.CardSummary, error) {
	var summary domain.CardSummary
	err := r.provider.WithConn(ctx, func(db *gorm.DB) error {
		if err := db.Raw("SELECT COUNT(*) FROM invoices").Scan(&summary.InvoiceCount).Error; err != nil {
			return err
		}
		if err := db.Raw("SELECT COUNT(*) FROM customers").Scan(&summary.CustomerCount).Error; err != nil {
			return err
		}
		var totals struct {
			Paid    int64
			Pending int64
		}
		err := db.Raw(`SELECT
  COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS paid,
  COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending
FROM invoices`).Scan(&totals).Error
		if err != nil {
			return err
		}
		summary.TotalPaid = totals.Paid
		summary.TotalPending = totals.Pending
		return nil
	})
	if err != nil {
		return domain.CardSummary{}, errors.Wrap(err, "invoice summary")
	}
	return summary, nil
}

func likePattern(query string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(query) + "%"
}
