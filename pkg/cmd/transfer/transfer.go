package transfer

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orbitarch/orbitarch-service-go/log"
	"github.com/orbitarch/orbitarch-service-go/pkg/config"
	dbmigrate "github.com/orbitarch/orbitarch-service-go/pkg/db/migrate"
	"github.com/orbitarch/orbitarch-service-go/pkg/db/postgres"
	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
	"github.com/orbitarch/orbitarch-service-go/pkg/utils"
)

var (
	sheet      string
	runMigrate bool
)

func NewTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer file",
		Short: "imports a csv, xlsx or yaml debris table into the reference database",
		Long: `Replaces the content of the debris table in the database given by --db.
The row order of the file is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transfer(cmd, args[0])
		},
	}
	cmd.Flags().StringVar(&sheet,
		"sheet",
		"",
		"worksheet of xlsx files (default is the first one)")
	cmd.Flags().BoolVar(&runMigrate,
		"migrate",
		false,
		"apply migrations before the import")
	return cmd
}

func transfer(cmd *cobra.Command, source string) error {
	logger, err := config.SetupLogger()
	if err != nil {
		return err
	}
	if debris.IsPostgresSource(source) {
		return fmt.Errorf("%w: source must be a file", debris.ErrUnsupportedSource)
	}
	ctx := cmd.Context()
	table, err := debris.Load(ctx, source, debris.WithSheet(sheet))
	if err != nil {
		return err
	}

	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		timeout = 60 * time.Second
	}
	if addr := utils.ExtractFromDBURL(config.DB); addr != "" {
		if err := utils.WaitForTCP(addr, timeout); err != nil {
			return err
		}
	}
	if runMigrate {
		if err := dbmigrate.MigrateDB(config.DB); err != nil {
			return err
		}
	}

	pool, err := postgres.InitWithURL(ctx, config.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := debris.WritePostgres(ctx, pool, table.Records())
	if err != nil {
		logger.Error("transfer failed", log.ErrorField(err))
		return err
	}
	logger.Info("debris table transferred",
		log.String("source", source),
		log.Int64("records", n))
	return nil
}
