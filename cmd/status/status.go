// Package status handles the balance report command
package status

import (
	"github.com/spf13/cobra"

	"fiado/cmd/root"
	"fiado/internal/ledger"
)

// Cmd represents the status command
var Cmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show a person's itemized statement and balance",
	Args:  cobra.ExactArgs(1),
	RunE:  statusFunc,
}

func statusFunc(cmd *cobra.Command, args []string) error {
	id, err := root.FindPersonByName(cmd, args[0])
	if err != nil {
		return err
	}
	person, err := root.Ledger.GetPerson(cmd.Context(), id)
	if err != nil {
		return err
	}
	loans, payments, err := root.Ledger.GetTransactions(cmd.Context(), id)
	if err != nil {
		return err
	}

	st := ledger.Build(person, loans, payments)

	cmd.Printf("Situacao de %s\n\n", person.Name)

	cmd.Println("Emprestimos:")
	if len(st.Loans) == 0 {
		cmd.Println("  (nenhum)")
	}
	for _, tx := range st.Loans {
		cmd.Printf("  %s  R$ %s  %s\n", tx.Date, tx.Amount.StringFixed(2), tx.Description)
	}

	cmd.Println("Pagamentos:")
	if len(st.Payments) == 0 {
		cmd.Println("  (nenhum)")
	}
	for _, tx := range st.Payments {
		cmd.Printf("  %s  R$ %s  %s\n", tx.Date, tx.Amount.StringFixed(2), tx.Description)
	}

	cmd.Printf("\nTotal emprestado: R$ %s\n", st.TotalLoans.StringFixed(2))
	cmd.Printf("Total pago:       R$ %s\n", st.TotalPayments.StringFixed(2))
	cmd.Println(st.Verdict())
	return nil
}
