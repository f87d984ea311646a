package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gmn-dev/dispatch/pkg/runtime/terminal/export"
	"github.com/gmn-dev/dispatch/pkg/server"
	"github.com/gmn-dev/dispatch/pkg/services/archive"
	"github.com/gmn-dev/dispatch/pkg/services/commission"
	"github.com/gmn-dev/dispatch/pkg/services/config"
	"github.com/gmn-dev/dispatch/pkg/services/income"
	"github.com/gmn-dev/dispatch/pkg/store/duckdb"
	duckdbcost "github.com/gmn-dev/dispatch/pkg/store/duckdb/cost"
	duckdbtechnician "github.com/gmn-dev/dispatch/pkg/store/duckdb/technician"
	duckdbworkorder "github.com/gmn-dev/dispatch/pkg/store/duckdb/workorder"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the dispatch web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file (optional, DISPATCH_* environment variables override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	loc, err := settings.Location()
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: settings.DB.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}
	}()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to open %s: %w", settings.DB.Path, err)
	}

	workOrderStore, err := duckdbworkorder.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create work order store: %w", err)
	}
	costStore, err := duckdbcost.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create cost store: %w", err)
	}
	technicianStore, err := duckdbtechnician.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create technician store: %w", err)
	}

	if settings.Auth.Token == "" {
		logger.Warn().Msg("auth.token is empty, /api/v1 is open")
	}
	logger.Info().
		Str("db", settings.DB.Path).
		Str("timezone", loc.String()).
		Msg("configuration loaded")

	commissionService := commission.NewService(workOrderStore, costStore, commission.DefaultTiers)

	if settings.Archive.Bucket != "" {
		client, err := export.NewS3Client(ctx, settings.Archive.Region)
		if err != nil {
			return err
		}
		runner := archive.NewRunner(
			commissionService,
			export.NewS3Archiver(client, settings.Archive.Bucket, settings.Archive.Prefix),
			archive.RunnerConfig{Location: loc},
		)

		runCtx, cancel := context.WithCancel(ctx)
		go runner.Run(runCtx)
		defer func() {
			cancel()
			<-runner.Done()
		}()
		logger.Info().Str("bucket", settings.Archive.Bucket).Msg("monthly report archive enabled")
	}

	api := server.NewWebAPI(server.Config{
		Addr:            settings.Addr(),
		ShutdownTimeout: settings.Server.ShutdownTimeout,
		AuthToken:       settings.Auth.Token,
		Location:        loc,
		Dependencies: server.Dependencies{
			WorkOrders:  workOrderStore,
			Costs:       costStore,
			Technicians: technicianStore,
			Commission:  commissionService,
			Income:      income.NewService(workOrderStore, costStore),
			Logger:      logger,
		},
	})

	return api.Start()
}
