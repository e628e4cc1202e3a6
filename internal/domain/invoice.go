package domain

// InvoiceStatus is the settlement state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// Invoice is a stored invoice. Amount is in cents.
type Invoice struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customerId"`
	Amount     int64         `json:"amount"`
	Status     InvoiceStatus `json:"status"`
	Date       string        `json:"date"`
}

// InvoiceDraft is what the mutation pipeline persists for create and update.
type InvoiceDraft struct {
	CustomerID  string
	AmountCents int64
	Status      InvoiceStatus
	Date        string
}

// InvoiceRow is a listing row joined with its customer.
type InvoiceRow struct {
	ID       string        `json:"id"`
	Amount   int64         `json:"amount"`
	Date     string        `json:"date"`
	Status   InvoiceStatus `json:"status"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	ImageURL string        `json:"imageUrl"`
}

// InvoiceForm is the edit form view of an invoice, amount in dollars.
type InvoiceForm struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customerId"`
	Amount     string        `json:"amount"`
	Status     InvoiceStatus `json:"status"`
}

// Customer is read-only from the dashboard's perspective.
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl"`
}

type CustomerOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Revenue is a seed-only monthly aggregate.
type Revenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

// CardSummary backs the dashboard overview cards. Totals are in cents.
type CardSummary struct {
	InvoiceCount  int64 `json:"invoiceCount"`
	CustomerCount int64 `json:"customerCount"`
	TotalPaid     int64 `json:"totalPaid"`
	TotalPending  int64 `json:"totalPending"`
}
