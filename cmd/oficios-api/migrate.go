package main

import (
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()
		defer zap.S().Info("Db migrated")

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		return nil
	},
}
