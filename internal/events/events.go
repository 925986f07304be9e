// Package events publishes committed-transaction events for downstream
// consumers (audit trails, notifications). Publishing is best-effort and
// never blocks or fails a commit.
package events

import (
	"context"

	"fiado/internal/models"
)

// TransactionRecorded is emitted after a transaction is durably stored.
type TransactionRecorded struct {
	TransactionID string `json:"transaction_id"`
	PersonID      string `json:"person_id"`
	PersonName    string `json:"person_name"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Description   string `json:"description"`
}

// Publisher delivers transaction events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, event TransactionRecorded) error
	Close() error
}

// NewTransactionRecorded builds the event payload for a stored transaction.
func NewTransactionRecorded(tx models.Transaction, person models.Person) TransactionRecorded {
	return TransactionRecorded{
		TransactionID: tx.ID,
		PersonID:      tx.PersonID,
		PersonName:    person.Name,
		Kind:          string(tx.Kind),
		Amount:        tx.Amount.StringFixed(2),
		Date:          tx.Date,
		Description:   tx.Description,
	}
}

// Noop is the publisher used when no event sink is configured.
type Noop struct{}

func (Noop) Publish(context.Context, TransactionRecorded) error { return nil }
func (Noop) Close() error                                       { return nil }

var _ Publisher = Noop{}
