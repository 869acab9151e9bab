package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of a namespace",
	Long: `List every entry of the selected namespace in ascending key order.

Example:
  pebblebin list -n heights`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := openNamespace(cmd)
		if err != nil {
			return err
		}
		keysOnly, _ := cmd.Flags().GetBool("keys")

		it := ns.Iter()
		defer it.Close()

		n := 0
		for it.Next() {
			if it.Err() != nil {
				fmt.Fprintf(os.Stderr, "skipping corrupt record: %v\n", it.Err())
				continue
			}
			if keysOnly {
				fmt.Printf("%s\n", it.Key())
			} else {
				fmt.Printf("%s\t%s\n", it.Key(), it.Value())
			}
			n++
		}
		if err := it.Err(); err != nil {
			return fmt.Errorf("list failed: %w", err)
		}

		fmt.Fprintf(os.Stderr, "%d entries in namespace %q\n", n, ns.Label())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("keys", false, "Print keys only")
}
