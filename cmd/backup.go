package cmd

import (
	"time"

	"github.com/frahmantamala/travel-expense/internal/backup"
	"github.com/frahmantamala/travel-expense/pkg/logger"
	"github.com/spf13/cobra"
)

var backupOut string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a consistent copy of the sqlite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		out := backupOut
		if out == "" {
			out = backup.FileName(time.Now())
		}

		svc := backup.NewService(db.SQL, db.Driver, cfg.App.BackupDir, logger.LoggerWrapper())
		if err := svc.WriteTo(cmd.Context(), out); err != nil {
			return err
		}

		cmd.Printf("backup written to %s\n", out)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVarP(&backupOut, "out", "o", "", "output file (default expenses_backup_<timestamp>.db)")
}
