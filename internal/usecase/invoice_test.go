package usecase

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/totegamma/invoicedash/internal/domain"
)

type mockInvoiceRepo struct {
	created  []domain.InvoiceDraft
	updated  map[string]domain.InvoiceDraft
	deleted  []string
	affected int64
	err      error
}

func (m *mockInvoiceRepo) Create(ctx context.Context, draft domain.InvoiceDraft) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, draft)
	return nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, id string, draft domain.InvoiceDraft) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.updated == nil {
		m.updated = map[string]domain.InvoiceDraft{}
	}
	m.updated[id] = draft
	return m.affected, nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.deleted = append(m.deleted, id)
	return m.affected, nil
}

func (m *mockInvoiceRepo) calls() int {
	return len(m.created) + len(m.updated) + len(m.deleted)
}

type mockInvalidator struct {
	routes []string
}

func (m *mockInvalidator) Revalidate(ctx context.Context, route string) {
	m.routes = append(m.routes, route)
}

func newInvoiceUsecase(repo *mockInvoiceRepo, inv *mockInvalidator) *InvoiceUsecase {
	uc := NewInvoiceUsecase(repo, inv)
	uc.now = func() time.Time { return time.Date(2026, 10, 16, 23, 30, 0, 0, time.UTC) }
	return uc
}

func invoiceForm(customerID, amount, status string) url.Values {
	return url.Values{"customerId": {customerID}, "amount": {amount}, "status": {status}}
}

func TestInvoiceCreate(t *testing.T) {
	repo := &mockInvoiceRepo{}
	inv := &mockInvalidator{}
	uc := newInvoiceUsecase(repo, inv)

	out := uc.Create(context.Background(), invoiceForm("cust-1", "157.95", "pending"))

	redirect, ok := out.(Redirect)
	if !ok || redirect.To != "/dashboard/invoices" {
		t.Fatalf("expected redirect to listing, got %#v", out)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.created))
	}
	got := repo.created[0]
	if got.AmountCents != 15795 || got.CustomerID != "cust-1" || got.Status != domain.InvoiceStatusPending {
		t.Fatalf("unexpected draft %+v", got)
	}
	if got.Date != "2026-10-16" {
		t.Fatalf("expected date from clock, got %s", got.Date)
	}
	if len(inv.routes) != 1 || inv.routes[0] != "/dashboard/invoices" {
		t.Fatalf("expected listing invalidated, got %v", inv.routes)
	}
}

func TestInvoiceCreateAmountsInCents(t *testing.T) {
	cases := map[string]int64{
		"0.01":   1,
		"0.29":   29,
		"1.1":    110,
		"19.99":  1999,
		"100":    10000,
		"4.35":   435,
		"1234.5": 123450,
	}
	for amount, want := range cases {
		repo := &mockInvoiceRepo{}
		uc := newInvoiceUsecase(repo, &mockInvalidator{})

		uc.Create(context.Background(), invoiceForm("c", amount, "paid"))
		if len(repo.created) != 1 || repo.created[0].AmountCents != want {
			t.Fatalf("amount %s: expected %d cents, got %+v", amount, want, repo.created)
		}
	}
}

func TestInvoiceCreateRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []string{"0", "-5", "-0.01", ""} {
		repo := &mockInvoiceRepo{}
		inv := &mockInvalidator{}
		uc := newInvoiceUsecase(repo, inv)

		out := uc.Create(context.Background(), invoiceForm("c", amount, "paid"))

		failure, ok := out.(Failure)
		if !ok {
			t.Fatalf("amount %q: expected failure, got %#v", amount, out)
		}
		if len(failure.State.Errors["amount"]) == 0 {
			t.Fatalf("amount %q: expected amount field error", amount)
		}
		if failure.State.Message != "Missing Fields. Failed to Create Invoice." {
			t.Fatalf("unexpected message %q", failure.State.Message)
		}
		if repo.calls() != 0 || len(inv.routes) != 0 {
			t.Fatalf("amount %q: nothing should be persisted or invalidated", amount)
		}
	}
}

func TestInvoiceUpdateRejectsBadStatus(t *testing.T) {
	for _, status := range []string{"", "overdue", "Paid"} {
		repo := &mockInvoiceRepo{}
		uc := newInvoiceUsecase(repo, &mockInvalidator{})

		out := uc.Update(context.Background(), "inv-1", invoiceForm("c", "10", status))

		failure, ok := out.(Failure)
		if !ok || len(failure.State.Errors["status"]) == 0 {
			t.Fatalf("status %q: expected status field error, got %#v", status, out)
		}
		if repo.calls() != 0 {
			t.Fatalf("status %q: no persistence expected", status)
		}
	}
}

func TestInvoiceCreateDatabaseFailure(t *testing.T) {
	repo := &mockInvoiceRepo{err: errors.New("connection refused")}
	inv := &mockInvalidator{}
	uc := newInvoiceUsecase(repo, inv)

	out := uc.Create(context.Background(), invoiceForm("c", "10", "paid"))

	failure, ok := out.(Failure)
	if !ok {
		t.Fatalf("expected failure, got %#v", out)
	}
	if failure.State.Message != "Database Error: Failed to Create Invoice." {
		t.Fatalf("unexpected message %q", failure.State.Message)
	}
	if len(failure.State.Errors) != 0 {
		t.Fatalf("database failure carries no field errors, got %v", failure.State.Errors)
	}
	if len(inv.routes) != 0 {
		t.Fatalf("failed mutation must not invalidate")
	}
}

func TestInvoiceUpdate(t *testing.T) {
	repo := &mockInvoiceRepo{affected: 1}
	inv := &mockInvalidator{}
	uc := newInvoiceUsecase(repo, inv)

	form := invoiceForm("cust-2", "20.50", "paid")
	form.Set("id", "ignored")
	out := uc.Update(context.Background(), "inv-1", form)

	if r, ok := out.(Redirect); !ok || r.To != "/dashboard/invoices" {
		t.Fatalf("expected redirect, got %#v", out)
	}
	draft, ok := repo.updated["inv-1"]
	if !ok {
		t.Fatalf("expected update of inv-1, got %v", repo.updated)
	}
	if draft.AmountCents != 2050 || draft.Status != domain.InvoiceStatusPaid || draft.Date != "" {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if len(inv.routes) != 1 {
		t.Fatalf("expected invalidation")
	}
}

func TestInvoiceUpdateDatabaseFailure(t *testing.T) {
	repo := &mockInvoiceRepo{err: errors.New("deadlock")}
	uc := newInvoiceUsecase(repo, &mockInvalidator{})

	out := uc.Update(context.Background(), "inv-1", invoiceForm("c", "1", "paid"))
	failure, ok := out.(Failure)
	if !ok || failure.State.Message != "Database Error: Failed to Update Invoice." {
		t.Fatalf("unexpected outcome %#v", out)
	}
}

func TestInvoiceDelete(t *testing.T) {
	repo := &mockInvoiceRepo{affected: 1}
	inv := &mockInvalidator{}
	uc := newInvoiceUsecase(repo, inv)

	out := uc.Delete(context.Background(), "inv-1")

	if _, ok := out.(Done); !ok {
		t.Fatalf("delete should not navigate, got %#v", out)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "inv-1" {
		t.Fatalf("unexpected deletes %v", repo.deleted)
	}
	if len(inv.routes) != 1 || inv.routes[0] != "/dashboard/invoices" {
		t.Fatalf("expected listing invalidated")
	}
}

func TestInvoiceDeleteMissingIsNoop(t *testing.T) {
	repo := &mockInvoiceRepo{affected: 0}
	uc := newInvoiceUsecase(repo, &mockInvalidator{})

	if _, ok := uc.Delete(context.Background(), "does-not-exist").(Done); !ok {
		t.Fatalf("deleting a missing invoice should be a no-op")
	}
}

func TestInvoiceDeleteDatabaseFailure(t *testing.T) {
	repo := &mockInvoiceRepo{err: errors.New("timeout")}
	inv := &mockInvalidator{}
	uc := newInvoiceUsecase(repo, inv)

	failure, ok := uc.Delete(context.Background(), "inv-1").(Failure)
	if !ok || failure.State.Message != "Database Error: Failed to Delete Invoice." {
		t.Fatalf("expected delete failure state")
	}
	if len(inv.routes) != 0 {
		t.Fatalf("failed delete must not invalidate")
	}
}
