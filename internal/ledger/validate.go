package ledger

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"

	"github.com/ig-gor95/finsplit-sub001/internal/model"
	"github.com/ig-gor95/finsplit-sub001/internal/normalize"
)

// ValidationError describes a transaction that cannot be stored.
type ValidationError struct {
	Rule        string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Description)
}

var hundred = decimal.NewFromInt(100)

// Validate checks a parsed transaction before it is written to the ledger.
func Validate(t model.NormalizedTransaction) []ValidationError {
	var errs []ValidationError

	if !t.Amount.IsPositive() {
		errs = append(errs, ValidationError{
			Rule:        "amount",
			Description: fmt.Sprintf("amount %s must be positive", t.Amount.String()),
		})
	}

	// Money is stored with two decimal places.
	if !t.Amount.Mul(hundred).Equal(t.Amount.Mul(hundred).Floor()) {
		errs = append(errs, ValidationError{
			Rule:        "amount",
			Description: fmt.Sprintf("amount %s has more than 2 decimal places", t.Amount.String()),
		})
	}

	if t.DocumentDate.IsZero() {
		errs = append(errs, ValidationError{Rule: "document date", Description: "missing"})
	}

	if !normalize.IsCurrencyCode(t.Currency) {
		errs = append(errs, ValidationError{
			Rule:        "currency",
			Description: fmt.Sprintf("%q is not a 3-letter currency code", t.Currency),
		})
	}

	if t.ExternalID == "" {
		errs = append(errs, ValidationError{Rule: "external id", Description: "missing"})
	}

	return errs
}

// validationError folds Validate's result into one error, or nil.
func validationError(t model.NormalizedTransaction) error {
	var merr *multierror.Error
	for _, e := range Validate(t) {
		merr = multierror.Append(merr, e)
	}
	if merr == nil {
		return nil
	}
	merr.ErrorFormat = func(errs []error) string {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return strings.Join(msgs, "; ")
	}
	return merr
}
