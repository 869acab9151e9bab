package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/binlabs/pebblebin/pkg/codec"
	"github.com/binlabs/pebblebin/pkg/namespace"
)

type dbKey struct{}

// dbHandle opens the database lazily. Commands that resolve their data
// directory from more than the flag (serve also consults the config file)
// adjust path before first use.
type dbHandle struct {
	path string
	once sync.Once
	db   *namespace.DB
	err  error
}

func (h *dbHandle) open() (*namespace.DB, error) {
	h.once.Do(func() {
		if h.db, h.err = namespace.Open(h.path); h.err != nil {
			h.err = fmt.Errorf("failed to open database: %w", h.err)
		}
	})
	return h.db, h.err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pebblebin",
	Short: "pebblebin - typed namespaces over a pebble store",
	Long: `pebblebin multiplexes independent logical tables ("namespaces") onto
one pebble database through collision-free key prefixes.

Commands address a namespace by label; nested namespaces use dotted labels
such as "users.active".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		cmd.SetContext(context.WithValue(cmd.Context(), dbKey{}, &dbHandle{path: dataDir}))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if h, ok := cmd.Context().Value(dbKey{}).(*dbHandle); ok && h.db != nil {
			return h.db.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the store")
	rootCmd.PersistentFlags().StringP("namespace", "n", "default", "Namespace label (dotted for nesting)")
}

// handleFrom pulls the lazy database handle out of the command context.
func handleFrom(cmd *cobra.Command) (*dbHandle, error) {
	h, ok := cmd.Context().Value(dbKey{}).(*dbHandle)
	if !ok {
		return nil, fmt.Errorf("database not found in command context")
	}
	return h, nil
}

// dbFrom opens (on first call) and returns the database.
func dbFrom(cmd *cobra.Command) (*namespace.DB, error) {
	h, err := handleFrom(cmd)
	if err != nil {
		return nil, err
	}
	return h.open()
}

// openNamespace resolves the --namespace flag to a string->bytes namespace,
// walking groups for dotted labels.
func openNamespace(cmd *cobra.Command) (*namespace.Namespace[string, []byte], error) {
	db, err := dbFrom(cmd)
	if err != nil {
		return nil, err
	}
	label, _ := cmd.Flags().GetString("namespace")

	parts := strings.Split(label, ".")
	if len(parts) == 1 {
		return namespace.Create(db, label, codec.String(), codec.Bytes())
	}

	group, err := db.CreateGroup(parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1 : len(parts)-1] {
		if group, err = group.CreateGroup(part); err != nil {
			return nil, err
		}
	}
	return namespace.CreateIn(group, parts[len(parts)-1], codec.String(), codec.Bytes())
}
