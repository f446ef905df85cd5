package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/banshee-data/disaster-response/internal/db"
)

func newMigrateCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the run-history schema of a database",
	}
	cmd.AddCommand(
		migrateAction(out, "up", "Apply all pending migrations", func(d *db.DB) error {
			return d.MigrateUp(db.MigrationsFS())
		}),
		migrateAction(out, "down", "Roll back the most recent migration", func(d *db.DB) error {
			return d.MigrateDown(db.MigrationsFS())
		}),
		migrateAction(out, "status", "Show the applied and latest migration versions", nil),
	)
	return cmd
}

// migrateAction builds a "migrate <name> DATABASE" command that runs apply
// and then prints the schema status. A nil apply only prints the status.
func migrateAction(out io.Writer, name, short string, apply func(*db.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " DATABASE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Migrations manage the schema, so skip the automatic upgrade in NewDB.
			database, err := db.OpenDB(args[0])
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			if apply != nil {
				if err := apply(database); err != nil {
					return err
				}
			}
			return printMigrateStatus(out, database)
		},
	}
}

func printMigrateStatus(out io.Writer, database *db.DB) error {
	version, dirty, err := database.MigrateVersion(db.MigrationsFS())
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	latest, err := db.GetLatestMigrationVersion(db.MigrationsFS())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Current version: %d\nLatest version: %d\nDirty: %v\n", version, latest, dirty)
	if dirty {
		fmt.Fprintln(out, "WARNING: a migration failed mid-execution; inspect the database before retrying.")
	}
	return nil
}
