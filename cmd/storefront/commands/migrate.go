package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and the default administrator",
	Long: `Create or update the database schema, create the default administrator when
none exists and, with --seed, fill an empty catalog with the demo products.

Examples:
  storefront migrate --driver sqlite --db storefront.db --seed
  storefront migrate --env-file deploy/.env`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Seed demo products into an empty catalog")
}

func runMigrate(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := loadConfig()
	if err := cfg.ValidateDB(); err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "cmd", "migrate")
	slog.SetDefault(logger)
	ctx = logging.IntoContext(ctx, logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer pkgdb.Close(db)

	b, err := openBackends(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer b.close()

	a := newApp(cfg, db, b)
	return a.bootstrap(ctx, migrateSeed)
}

// bootstrap migrates the schema, makes sure an administrator exists and optionally seeds the catalog.
func (a *app) bootstrap(ctx context.Context, seed bool) error {
	l := logging.FromContext(ctx)

	if err := a.repo.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	l.Info("schema_migrated")

	created, err := a.auth.EnsureAdmin(ctx, a.cfg.AdminUsername, a.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if created {
		l.Info("admin_created", "username", a.cfg.AdminUsername)
	}

	if seed {
		n, err := a.admin.SeedCatalog(ctx)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		l.Info("seed_done", "products", n)
	}
	return nil
}
