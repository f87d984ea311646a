package terminal

import (
	"context"
	"io"
	"os"

	"github.com/gmn-dev/dispatch/pkg/runtime/terminal/commands"
	"github.com/gmn-dev/dispatch/pkg/runtime/terminal/export"
	"github.com/gmn-dev/dispatch/pkg/services/commission"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	tiers    commission.TierTable
	reporter *export.Reporter
	archiver commands.ArchiverFactory
	logger   zerolog.Logger
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Tiers    commission.TierTable
	Output   io.Writer
	Archiver commands.ArchiverFactory
	Logger   *zerolog.Logger
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if len(opts.Tiers) == 0 {
		opts.Tiers = commission.DefaultTiers
	}
	if opts.Archiver == nil {
		opts.Archiver = S3ArchiverFactory
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	cli := &CLI{
		tiers:    opts.Tiers,
		reporter: export.NewReporter(opts.Output),
		archiver: opts.Archiver,
		logger:   logger,
	}

	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(cli.logger.WithContext(ctx))
}

// SetArgs overrides os.Args, mostly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "commission",
		Short:         "Technician commission reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.AddCommand(commands.NewReportCmd(cli.tiers, cli.reporter, cli.archiver))
	cmd.AddCommand(commands.NewTiersCmd(cli.tiers, export.NewTierReporter(out)))

	return cmd
}

// S3ArchiverFactory archives to S3 using the default AWS credential chain.
func S3ArchiverFactory(ctx context.Context, bucket, prefix, region string) (commands.Archiver, error) {
	client, err := export.NewS3Client(ctx, region)
	if err != nil {
		return nil, err
	}
	return export.NewS3Archiver(client, bucket, prefix), nil
}
