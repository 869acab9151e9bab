package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/binlabs/pebblebin/pkg/api"
	"github.com/binlabs/pebblebin/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the pebblebin REST API server.

Settings come from flags, falling back to the config file — including the
data directory — and then to the PEBBLEBIN_API_KEY environment variable
(a .env file is honored).

Examples:
  pebblebin serve --api-key=mysecretkey --port=8080
  pebblebin serve --config=./pebblebin.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Optional; a missing .env is not an error.
		_ = godotenv.Load()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.APIKey == "" {
			return fmt.Errorf("an API key is required (--api-key, config file or PEBBLEBIN_API_KEY)")
		}

		h, err := handleFrom(cmd)
		if err != nil {
			return err
		}
		h.path = cfg.DataDir
		db, err := h.open()
		if err != nil {
			return err
		}

		return api.StartServer(db, api.ServerConfig{
			Bind:   cfg.Bind,
			Port:   cfg.Port,
			APIKey: cfg.APIKey,
		})
	},
}

// resolveConfig merges defaults, the config file and explicit flags, in
// rising precedence. The data directory is part of the merge; the --data-dir
// flag wins only when actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" && config.ConfigExists(config.GetDefaultConfigPath()) {
		configPath = config.GetDefaultConfigPath()
	}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cfg.DataDir == "" {
		cfg.DataDir = config.DefaultConfig().DataDir
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("bind") {
		cfg.Bind, _ = cmd.Flags().GetString("bind")
	}
	if apiKey, _ := cmd.Flags().GetString("api-key"); apiKey != "" {
		cfg.APIKey = apiKey
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("PEBBLEBIN_API_KEY")
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key protecting the /api/v1 routes")
	serveCmd.Flags().String("config", "", "Path to a config file")
}
