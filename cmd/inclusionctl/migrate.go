package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inclusion-engine/internal/app"
	"inclusion-engine/internal/database/migration"
	"inclusion-engine/internal/database/seeder"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect SQL migrations",
	}

	var dir string
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "Migrations directory (default DB_MIGRATIONS_DIR)")

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Apply pending migrations, then seed when DB_RUN_SEEDERS is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.session()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			if err := migrationRunner(c, dir).Run(ctx, c.DB.SQLDB()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if !c.Config.Database.RunSeeders {
				return nil
			}
			return seeder.Runner{Seeders: seeder.Defaults(), Log: c.Log}.Run(ctx, c.DB)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.session()
			if err != nil {
				return err
			}
			defer c.Close()

			states, err := migrationRunner(c, dir).Status(cmd.Context(), c.DB.SQLDB())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range states {
				mark := "pending"
				if s.Applied {
					mark = "applied"
				}
				fmt.Fprintf(out, "V%d\t%s\t%s\n", s.Version, s.Name, mark)
			}
			return nil
		},
	})
	return cmd
}

func migrationRunner(c *app.Container, dir string) migration.Runner {
	if dir == "" {
		dir = c.Config.Database.MigrationsDir
	}
	return migration.Runner{Dir: dir, Log: c.Log}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default skill, impediment and aid catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.session()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := (seeder.Runner{Seeders: seeder.Defaults(), Log: c.Log}).Run(ctx, c.DB); err != nil {
				return err
			}
			// Catalog reads are cached; drop them so the new rows are visible.
			return errors.Join(c.SISCatalog.Invalidate(ctx), c.AidCatalog.Invalidate(ctx))
		},
	}
}
