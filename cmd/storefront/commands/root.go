package commands

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	svccfg "github.com/Skotchmaster/storefront/internal/config"
)

var (
	envFile  string
	dbURL    string
	dbDriver string
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront catalog and order service",
	Long: `Storefront serves the product catalog, wishlists, reviews, orders and the
admin dashboard over HTTP.

Configuration comes from the environment (optionally loaded from a .env file);
--db and --driver override DATABASE_URL and DATABASE_DRIVER.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load env file %s: %w", envFile, err)
			}
			return nil
		}
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (default: ./.env when present)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database URL or SQLite path, overrides DATABASE_URL")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Database driver (postgres|sqlite), overrides DATABASE_DRIVER")

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadConfig reads the environment and applies the command line overrides.
func loadConfig() svccfg.ServiceConfig {
	cfg := svccfg.Load()
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if dbDriver != "" {
		cfg.DatabaseDriver = dbDriver
	}
	return cfg
}
