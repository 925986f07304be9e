// Package store defines the durable ledger behind the conversation flows:
// people and their committed loan/payment transactions.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fiado/internal/dateutils"

	"github.com/shopspring/decimal"

	"fiado/internal/models"
)

// MinNameLength is the minimum accepted length for a person's name.
const MinNameLength = 3

var (
	// ErrNotFound is returned when a person id does not exist.
	ErrNotFound = errors.New("person not found")
	// ErrDuplicateName is returned when a person name is already taken.
	ErrDuplicateName = errors.New("person name already exists")
	// ErrInvalidDate is returned by add-operations when the date argument
	// is not a valid ISO calendar date.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrInvalidAmount is returned by add-operations for non-positive amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidName is returned when a person name is too short.
	ErrInvalidName = fmt.Errorf("name must have at least %d characters", MinNameLength)
)

// LedgerStore is the persistence collaborator consumed by the conversation
// engine and the reporting commands. Add-operations are atomic: a
// transaction row is either fully written or not written at all.
type LedgerStore interface {
	AddPerson(ctx context.Context, name string) (models.Person, error)
	ListPeople(ctx context.Context) ([]models.Person, error)
	GetPerson(ctx context.Context, id string) (models.Person, error)
	RenamePerson(ctx context.Context, id, newName string) (models.Person, error)
	RemovePerson(ctx context.Context, id string) error

	AddLoan(ctx context.Context, personID string, amount decimal.Decimal, isoDate, description string) (models.Transaction, error)
	AddPayment(ctx context.Context, personID string, amount decimal.Decimal, isoDate, description string) (models.Transaction, error)

	// GetTransactions returns the person's loans and payments, in
	// insertion order within each slice.
	GetTransactions(ctx context.Context, personID string) (loans, payments []models.Transaction, err error)
}

// ValidateName normalizes and checks a person name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// ValidateTransaction checks the invariants every store enforces before
// writing a transaction row.
func ValidateTransaction(amount decimal.Decimal, isoDate string) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if _, err := dateutils.ParseISO(isoDate); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, isoDate)
	}
	return nil
}
