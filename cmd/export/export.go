// Package export handles the CSV export command
package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"fiado/cmd/root"
	"fiado/internal/export"
	"fiado/internal/ledger"
)

var output string

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a person's statement to CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  exportFunc,
}

func exportFunc(cmd *cobra.Command, args []string) error {
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

	out := output
	if out == "" {
		out = fmt.Sprintf("%s.csv", person.Name)
	}
	if err := export.WriteStatementToCSV(ledger.Build(person, loans, payments), out); err != nil {
		return err
	}
	root.Log.Infof("Extrato de %s exportado para %s", person.Name, out)
	return nil
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (defaults to <name>.csv)")
}
