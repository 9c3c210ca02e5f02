package cmd

import (
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "apply the embedded sql migrations for the configured driver",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest applied migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateRollback {
		version, err := db.Rollback(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("rolled back, schema now at version %d\n", version)
		return nil
	}

	version, err := db.Migrate(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("schema at version %d\n", version)
	return nil
}
