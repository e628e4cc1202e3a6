package domain

const (
	SessionCtxKey = "dash-session"
	RequestIDKey  = "dash-requestId"
)

const (
	SessionCookieName = "dash-session"
	CallbackURLParam  = "callbackUrl"
)

// Fixed navigation targets.
const (
	LoginPath        = "/login"
	DashboardPath    = "/dashboard"
	InvoicesListPath = "/dashboard/invoices"
)

const InvoicesPerPage = 6

// MaxAmountCents is the largest value the invoices.amount INT column holds.
const MaxAmountCents = 1<<31 - 1
