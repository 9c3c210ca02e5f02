package cmd

import (
	"github.com/frahmantamala/travel-expense/internal/reference"
	refRepository "github.com/frahmantamala/travel-expense/internal/reference/repository"
	"github.com/frahmantamala/travel-expense/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the reference data",
	Long: `Insert the default categories, payment methods, currencies with their
rates to the configured base currency, and countries. Existing rows are
left untouched, so running it again is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := db.Migrate(ctx); err != nil {
			return err
		}

		svc := reference.NewService(refRepository.New(db.Gorm), logger.LoggerWrapper())
		if err := svc.Seed(ctx, cfg.App.BaseCurrency); err != nil {
			return err
		}
		if err := svc.VerifyBaseCurrency(ctx, cfg.App.BaseCurrency); err != nil {
			return err
		}

		cmd.Printf("reference data seeded relative to %s\n", cfg.App.BaseCurrency)
		return nil
	},
}
