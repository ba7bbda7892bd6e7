package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"realty_hub/internal/config"
	"realty_hub/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, _, err := bootstrap()
			if err != nil {
				return err
			}
			st := store.New(db)
			defer st.Close()

			if err := config.Migrate(db); err != nil {
				return err
			}
			logrus.Info("✅ Database migrated")
			return nil
		},
	}
}
