// Package models defines the core domain types shared across the application.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the direction of a transaction: money lent out or money
// received back.
type Kind string

const (
	// KindLoan is an amount the owner extended to a person.
	KindLoan Kind = "emprestimo"
	// KindPayment is an amount received back from a person.
	KindPayment Kind = "pagamento"
)

// Valid reports whether k is one of the two supported kinds.
func (k Kind) Valid() bool {
	return k == KindLoan || k == KindPayment
}

// Label returns the capitalized kind name, used as the default transaction
// description when the user gives none.
func (k Kind) Label() string {
	s := string(k)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Person is someone the owner tracks debts for. Names are unique.
type Person struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Transaction is a committed ledger row. Immutable once stored.
type Transaction struct {
	ID          string          `yaml:"id" json:"id"`
	PersonID    string          `yaml:"person_id" json:"person_id"`
	Kind        Kind            `yaml:"kind" json:"kind"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Date        string          `yaml:"date" json:"date"` // ISO YYYY-MM-DD
	Description string          `yaml:"description" json:"description"`
	Seq         int64           `yaml:"seq" json:"seq"` // insertion order, assigned by the store
	CreatedAt   time.Time       `yaml:"created_at" json:"created_at"`
}

// Candidate is an extracted, not-yet-confirmed transaction. It lives only
// inside a conversation session and is discarded on cancel or re-edit.
type Candidate struct {
	Kind        Kind
	Amount      decimal.Decimal
	Date        string // ISO YYYY-MM-DD, already normalized
	Description string
}
