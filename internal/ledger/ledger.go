// Package ledger computes balances and builds itemized statements from a
// person's committed transactions.
package ledger

import (
	"fmt"
	"sort"

	"fiado/internal/models"

	"github.com/shopspring/decimal"
)

// Statement is a person's financial summary: itemized loans and payments
// ordered ascending by date (ties broken by insertion order) plus totals.
type Statement struct {
	Person        models.Person
	Loans         []models.Transaction
	Payments      []models.Transaction
	TotalLoans    decimal.Decimal
	TotalPayments decimal.Decimal
	Balance       decimal.Decimal
}

// Build assembles a statement. Input slices are not mutated.
func Build(person models.Person, loans, payments []models.Transaction) Statement {
	st := Statement{
		Person:        person,
		Loans:         sortedByDate(loans),
		Payments:      sortedByDate(payments),
		TotalLoans:    sum(loans),
		TotalPayments: sum(payments),
	}
	st.Balance = st.TotalLoans.Sub(st.TotalPayments)
	return st
}

// Balance returns sum(loans) - sum(payments). Positive means the person
// owes the owner; negative means the owner owes the person.
func Balance(loans, payments []models.Transaction) decimal.Decimal {
	return sum(loans).Sub(sum(payments))
}

// Verdict renders the balance interpretation line shown to the user.
func (s Statement) Verdict() string {
	switch {
	case s.Balance.IsPositive():
		return fmt.Sprintf("%s deve R$ %s", s.Person.Name, s.Balance.StringFixed(2))
	case s.Balance.IsNegative():
		return fmt.Sprintf("Voce tem um credito de R$ %s com %s", s.Balance.Abs().StringFixed(2), s.Person.Name)
	default:
		return fmt.Sprintf("Nao ha saldo pendente para %s. Quite!", s.Person.Name)
	}
}

func sum(txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

func sortedByDate(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}
