package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a key",
	Long: `Delete a key from the selected namespace. Deleting an absent key is
a no-op.

Example:
  pebblebin delete -n heights John`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := openNamespace(cmd)
		if err != nil {
			return err
		}

		if err := ns.Remove(args[0]); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}

		fmt.Printf("deleted %q from namespace %q\n", args[0], ns.Label())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
