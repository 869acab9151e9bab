package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the value for a key",
	Long: `Get the value stored under a key in the selected namespace.

Example:
  pebblebin get -n heights John`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := openNamespace(cmd)
		if err != nil {
			return err
		}

		value, found, err := ns.Get(args[0])
		if err != nil {
			return fmt.Errorf("get failed: %w", err)
		}
		if !found {
			return fmt.Errorf("key %q not found in namespace %q", args[0], ns.Label())
		}

		fmt.Printf("%s\n", value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
