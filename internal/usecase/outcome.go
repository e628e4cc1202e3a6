package usecase

import "github.com/totegamma/invoicedash/internal/domain"

// Outcome is the result of a mutation. Navigation is one of its variants,
// never an error.
type Outcome interface {
	isOutcome()
}

// Redirect means the mutation applied and the caller should navigate.
type Redirect struct {
	To string
}

// Done means the mutation applied and no navigation follows.
type Done struct{}

// Failure means nothing was applied; State is shown on the form.
type Failure struct {
	State domain.FormState
}

func (Redirect) isOutcome() {}
func (Done) isOutcome()     {}
func (Failure) isOutcome()  {}
