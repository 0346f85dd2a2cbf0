package migrate

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/orbitarch/orbitarch-service-go/log"
	"github.com/orbitarch/orbitarch-service-go/pkg/config"
	dbmigrate "github.com/orbitarch/orbitarch-service-go/pkg/db/migrate"
	"github.com/orbitarch/orbitarch-service-go/pkg/utils"
)

var down bool

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "creates or updates the debris reference schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration()
		},
	}
	cmd.Flags().BoolVar(&down,
		"down",
		false,
		"reverts all migrations (drops the debris table)")
	return cmd
}

func startMigration() error {
	if _, err := config.SetupLogger(); err != nil {
		return err
	}
	if err := waitForDB(); err != nil {
		log.Error("database not ready", log.ErrorField(err))
		return err
	}
	if down {
		log.Info("Reverting migrations")
		return dbmigrate.DropDB(config.DB)
	}
	log.Info("Applying migrations")
	if err := dbmigrate.MigrateDB(config.DB); err != nil {
		log.Error("migration failed", log.ErrorField(err))
		return err
	}
	log.Info("Schema is up to date")
	return nil
}

func waitForDB() error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if postgresAddr == "" {
		return nil
	}
	return utils.WaitForTCP(postgresAddr, timeout)
}
