// Package people handles person registration commands
package people

import (
	"github.com/spf13/cobra"

	"fiado/cmd/root"
)

// Cmd represents the people command
var Cmd = &cobra.Command{
	Use:   "people",
	Short: "Manage the people you track debts for",
	Long:  `Add, list, rename and remove people. Every transaction belongs to a registered person.`,
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := root.Ledger.AddPerson(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		root.Log.Infof("Pessoa %s cadastrada", p.Name)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered people",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		people, err := root.Ledger.ListPeople(cmd.Context())
		if err != nil {
			return err
		}
		if len(people) == 0 {
			cmd.Println("Nenhuma pessoa cadastrada.")
			return nil
		}
		for _, p := range people {
			cmd.Printf("- %s\n", p.Name)
		}
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a person",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := root.FindPersonByName(cmd, args[0])
		if err != nil {
			return err
		}
		p, err := root.Ledger.RenamePerson(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}
		root.Log.Infof("Pessoa renomeada para %s", p.Name)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a person and all their transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := root.FindPersonByName(cmd, args[0])
		if err != nil {
			return err
		}
		if err := root.Ledger.RemovePerson(cmd.Context(), id); err != nil {
			return err
		}
		root.Log.Infof("Pessoa %s removida", args[0])
		return nil
	},
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(renameCmd)
	Cmd.AddCommand(removeCmd)
}
