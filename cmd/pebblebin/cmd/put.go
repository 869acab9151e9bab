package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Put a key-value pair",
	Long: `Store a key-value pair in the selected namespace, overwriting any
previous value.

Example:
  pebblebin put -n heights John 175`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := openNamespace(cmd)
		if err != nil {
			return err
		}

		if err := ns.Insert(args[0], []byte(args[1])); err != nil {
			return fmt.Errorf("put failed: %w", err)
		}

		fmt.Printf("put %q into namespace %q\n", args[0], ns.Label())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
