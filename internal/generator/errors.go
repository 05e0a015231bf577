package generator

import (
	"errors"
	"fmt"
)

// BudgetError reports that the backtracking search visited more states than
// the configured step budget allows. The property table is fully restored
// before the error propagates; no partial frame list is returned.
type BudgetError struct {
	// Steps is the number of search states visited when the budget tripped.
	Steps int

	// Limit is the configured budget.
	Limit int
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	return fmt.Sprintf("step budget exceeded: visited %d states (limit %d)", e.Steps, e.Limit)
}

// IsBudgetError reports whether err is (or wraps) a BudgetError.
func IsBudgetError(err error) bool {
	var be *BudgetError
	return errors.As(err, &be)
}
