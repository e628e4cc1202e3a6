// Package validation turns raw submitted form values into typed input or a
// domain.FormState listing every failing field.
package validation

import (
	"errors"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/totegamma/invoicedash/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	return v
}

// messages maps field.tag to the text shown under the input.
var messages = map[string]string{
	"customerId.required": "Please select a customer.",
	"amount.gt":           "Please enter an amount greater than $0.",
	"status.oneof":        "Please select an invoice status.",
	"email.required":      "Please enter your email address.",
	"email.email":         "Please enter a valid email address.",
	"password.min":        "Password must be at least 6 characters.",
}

// plainNumber is the accepted amount text: optional sign, digits, optional
// fraction. Exponent notation is refused so parsing stays bounded.
var plainNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

const maxNumberLength = 32

const (
	msgNotANumber     = "Expected number, received nan"
	msgAmountTooLarge = "Amount is too large."
)

// InvoiceInput is the validated create/update shape. Id and date are not part
// of it: the id travels out-of-band and the date is derived at create time.
type InvoiceInput struct {
	CustomerID string          `form:"customerId" validate:"required"`
	Amount     decimal.Decimal `form:"amount" validate:"gt=0"`
	Status     string          `form:"status" validate:"oneof=pending paid"`
}

// Credentials is the validated sign-in shape.
type Credentials struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"min=6"`
}

// ParseInvoiceForm coerces and checks the invoice form. On failure the
// returned state carries field errors only; callers add the summary message.
func ParseInvoiceForm(raw url.Values) (InvoiceInput, *domain.FormState) {
	state := &domain.FormState{}

	input := InvoiceInput{
		CustomerID: strings.TrimSpace(raw.Get("customerId")),
		Status:     raw.Get("status"),
	}

	amount, ok := coerceNumber(raw.Get("amount"))
	if !ok {
		state.AddError("amount", msgNotANumber)
	}
	input.Amount = amount

	collect(state, validate.Struct(input), func(field string) bool {
		// a coercion failure already explains the amount
		return field == "amount" && !ok
	})

	if ok && amount.IsPositive() {
		switch {
		case domain.ExceedsMaxAmount(amount):
			state.AddError("amount", msgAmountTooLarge)
		case domain.ToCents(amount) < 1:
			// positive but rounds away to nothing
			state.AddError("amount", messages["amount.gt"])
		}
	}

	if state.HasErrors() {
		return InvoiceInput{}, state
	}
	return input, nil
}

// ParseCredentials checks the sign-in form shape.
func ParseCredentials(raw url.Values) (Credentials, *domain.FormState) {
	state := &domain.FormState{}

	creds := Credentials{
		Email:    strings.TrimSpace(raw.Get("email")),
		Password: raw.Get("password"),
	}

	collect(state, validate.Struct(creds), nil)

	if state.HasErrors() {
		return Credentials{}, state
	}
	return creds, nil
}

// coerceNumber mirrors a numeric coercion of form text: blank becomes zero,
// anything unparsable is rejected.
func coerceNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	if len(s) > maxNumberLength || !plainNumber.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func collect(state *domain.FormState, err error, skip func(field string) bool) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		state.Message = err.Error()
		return
	}
	for _, fe := range verrs {
		field := fe.Field()
		if skip != nil && skip(field) {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		state.AddError(field, msg)
	}
}
