package utils

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrorRecordNotFound = errors.New("record not found")

// Sentinel errors let callers branch on specific business failures.
var (
	// ErrDuplicateVoucherNumber: full number already used for this
	// distributor+type. The caller must resupply a different sequence.
	ErrDuplicateVoucherNumber = errors.New("duplicate voucher number")

	// ErrInvalidStateTransition: cancel-on-draft, cancel-on-cancelled,
	// edit-on-confirmed.
	ErrInvalidStateTransition = errors.New("invalid voucher state transition")

	ErrZeroQuantityLine       = errors.New("line quantity cannot be zero")
	ErrMissingVoucherNumber   = errors.New("voucher number is required")
	ErrEmptyPostingSet        = errors.New("voucher has no ledger postings")
	ErrMissingDebitOrCredit   = errors.New("either debit or credit must have value")
	ErrDebitAndCreditTogether = errors.New("a posting cannot carry both debit and credit")
)

// ValidationError wraps a sentinel error with human-readable details.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UnbalancedError reports a debit/credit mismatch beyond currency precision.
// Delta is sum(debit) - sum(credit).
type UnbalancedError struct {
	Delta decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("unbalanced postings: debits differ from credits by %s", e.Delta.String())
}
