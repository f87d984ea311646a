package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/runtime/terminal/export"
	"github.com/gmn-dev/dispatch/pkg/services/commission"
	"github.com/gmn-dev/dispatch/pkg/store/snapshot"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ArchiverFactory builds the archive target for --s3-bucket.
type ArchiverFactory func(ctx context.Context, bucket, prefix, region string) (Archiver, error)

type Archiver interface {
	Archive(ctx context.Context, report *domain.CommissionReport) (string, error)
}

type ReportCmd struct {
	snapshotPath string
	month        string
	timezone     string
	xlsxPath     string
	bucket       string
	prefix       string
	region       string

	tiers    commission.TierTable
	reporter *export.Reporter
	archiver ArchiverFactory
	now      func() time.Time
}

func NewReportCmd(tiers commission.TierTable, reporter *export.Reporter, archiver ArchiverFactory) *cobra.Command {
	rc := &ReportCmd{
		tiers:    tiers,
		reporter: reporter,
		archiver: archiver,
		now:      time.Now,
	}
	return rc.command()
}

func (rc *ReportCmd) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the commission report for a month from a snapshot file",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.snapshotPath, "snapshot", "", "Path to a YAML or JSON snapshot of work orders and costs")
	cmd.Flags().StringVar(&rc.month, "month", "", "Month to report on as YYYY-MM (default is the current month)")
	cmd.Flags().StringVar(&rc.timezone, "tz", "Local", "Time zone the month is bucketed in")
	cmd.Flags().StringVar(&rc.xlsxPath, "xlsx", "", "Also write the report to this .xlsx file")
	cmd.Flags().StringVar(&rc.bucket, "s3-bucket", "", "Archive the report workbook to this S3 bucket")
	cmd.Flags().StringVar(&rc.prefix, "s3-prefix", "commission", "Key prefix for archived reports")
	cmd.Flags().StringVar(&rc.region, "s3-region", "", "AWS region for the archive bucket")

	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()
	logger := zerolog.Ctx(ctx)

	loc, err := time.LoadLocation(rc.timezone)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", rc.timezone, err)
	}

	month := commission.CurrentMonth(rc.now().In(loc))
	if rc.month != "" {
		month, err = commission.ParseMonth(rc.month, loc)
		if err != nil {
			return err
		}
	}

	snap, err := snapshot.Load(rc.snapshotPath, loc)
	if err != nil {
		return err
	}
	logger.Debug().
		Int("work_orders", len(snap.WorkOrders)).
		Int("costs", len(snap.Costs)).
		Msg("snapshot loaded")

	report := rc.tiers.Compute(month, snap.WorkOrders, snap.Costs)
	if err := rc.reporter.Handle(report); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	if rc.xlsxPath != "" {
		if err := writeXLSX(rc.xlsxPath, report); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nWorkbook written to %s\n", rc.xlsxPath)
	}

	if rc.bucket != "" {
		archiver, err := rc.archiver(ctx, rc.bucket, rc.prefix, rc.region)
		if err != nil {
			return fmt.Errorf("failed to set up archive: %w", err)
		}
		key, err := archiver.Archive(ctx, report)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Archived to s3://%s/%s\n", rc.bucket, key)
	}

	return nil
}

func writeXLSX(path string, report *domain.CommissionReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.NewXLSXWriter().Write(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
