package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/totegamma/invoicedash/internal/domain"
	"github.com/totegamma/invoicedash/internal/infra/database"
)

func newMockProvider(t *testing.T) (database.Provider, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return database.NewPoolProvider(db), mock
}

func TestInvoiceCreate(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewInvoiceRepository(provider)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoices (customer_id, amount, status, date)")).
		WithArgs("cust-1", int64(1999), "pending", "2026-10-16").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), domain.InvoiceDraft{
		CustomerID:  "cust-1",
		AmountCents: 1999,
		Status:      domain.InvoiceStatusPending,
		Date:        "2026-10-16",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInvoiceCreateFailure(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewInvoiceRepository(provider)

	fk := errors.New("violates foreign key constraint")
	mock.ExpectExec("INSERT INTO invoices").WillReturnError(fk)

	err := repo.Create(context.Background(), domain.InvoiceDraft{CustomerID: "missing", AmountCents: 1, Status: "paid"})
	if !errors.Is(err, fk) {
		t.Fatalf("expected wrapped fk error, got %v", err)
	}
}

const (
	invoiceID = "3958dc9e-712f-4377-85e9-fec4b6a6442a"
	missingID = "3958dc9e-742f-4377-85e9-fec4b6a6442a"
)

func TestInvoiceUpdate(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewInvoiceRepository(provider)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE invoices SET customer_id = $1, amount = $2, status = $3 WHERE id = $4")).
		WithArgs("cust-2", int64(500), "paid", invoiceID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Update(context.Background(), invoiceID, domain.InvoiceDraft{
		CustomerID:  "cust-2",
		AmountCents: 500,
		Status:      domain.InvoiceStatusPaid,
	})
	if err != nil || n != 1 {
		t.Fatalf("update: n=%d err=%v", n, err)
	}
}

func TestInvoiceDeleteMissingIsNoop(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewInvoiceRepository(provider)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM invoices WHERE id = $1")).
		WithArgs(missingID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.Delete(context.Background(), missingID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected zero rows, got %d", n)
	}
}

func TestInvoiceGet(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewInvoiceRepository(provider)

	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, customer_id, amount, status, date FROM invoices").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "amount", "status", "date"}).
			AddRow(invoiceID, "cust-1", int64(15795), "pending", date))

	inv, err := repo.Get(context.Background(), invoiceID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inv.Amount != 15795 || inv.Date != "2026-10-01" || inv.Status != domain.InvoiceStatusPending {
		t.Fatalf("unexpected invoice %+v", inv)
	}

	mock.ExpectQuery("SELECT id, customer_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "amount", "status", "date"}))
	_, err = repo.Get(context.Background(), missingID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInvoiceMalformedIDSkipsQuery(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewInvoiceRepository(provider)
	ctx := context.Background()

	for _, id := range []string{"nope", "", "1 OR 1=1", "3958dc9e-712f-4377-85e9-fec4b6a6442", "urn:uuid:3958dc9e-712f-4377-85e9-fec4b6a6442a"} {
		n, err := repo.Delete(ctx, id)
		if err != nil || n != 0 {
			t.Fatalf("delete %q: n=%d err=%v", id, n, err)
		}
		n, err = repo.Update(ctx, id, domain.InvoiceDraft{CustomerID: "cust-1", AmountCents: 1, Status: domain.InvoiceStatusPaid})
		if err != nil || n != 0 {
			t.Fatalf("update %q: n=%d err=%v", id, n, err)
		}
		if _, err := repo.Get(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("get %q: expected not found, got %v", id, err)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statement should reach the database: %v", err)
	}
}

func TestInvoiceList(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewInvoiceRepository(provider)

	date := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT invoices.id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "date", "status", "name", "email", "image_url"}).
			AddRow("inv-1", int64(100), date, "paid", "Lee Robinson", "lee@robinson.com", "/customers/lee.png"))

	rows, err := repo.List(context.Background(), "lee", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Lee Robinson" || rows[0].ImageURL != "/customers/lee.png" || rows[0].Date != "2026-09-30" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestInvoicePages(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewInvoiceRepository(provider)

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(13)))

	pages, err := repo.Pages(context.Background(), "")
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
}

func TestLikePatternEscapes(t *testing.T) {
	if got := likePattern(`50%_off\`); got != `%50\%\_off\\%` {
		t.Fatalf("got %s", got)
	}
}

func TestGetUser(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewUserRepository(provider)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password FROM users WHERE email = $1")).
		WithArgs("user@nextmail.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow("u1", "User", "user@nextmail.com", "$2a$10$hash"))

	u, err := repo.GetUser(context.Background(), "user@nextmail.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u == nil || u.ID != "u1" || u.Password != "$2a$10$hash" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestGetUserNone(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewUserRepository(provider)

	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}))

	u, err := repo.GetUser(context.Background(), "ghost@nextmail.com")
	if err != nil || u != nil {
		t.Fatalf("expected nil user and nil error, got %+v %v", u, err)
	}
}

func TestGetUserStoreFailure(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewUserRepository(provider)

	down := errors.New("connection refused")
	mock.ExpectQuery("FROM users").WillReturnError(down)

	_, err := repo.GetUser(context.Background(), "user@nextmail.com")
	if !errors.Is(err, domain.ErrFetchUser) {
		t.Fatalf("expected ErrFetchUser, got %v", err)
	}
	if !errors.Is(err, down) {
		t.Fatalf("cause should be kept, got %v", err)
	}
}

func TestCustomerOptions(t *testing.T) {
	provider, mock := newMockProvider(t)
	repo := NewCustomerRepository(provider)

	mock.ExpectQuery("SELECT id, name FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("c1", "Amy Burns").AddRow("c2", "Balazs Orban"))

	opts, err := repo.Options(context.Background())
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(opts) != 2 || opts[1].Name != "Balazs Orban" {
		t.Fatalf("unexpected options %+v", opts)
	}
}
