package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/grc-scanner/pkg/runtime/bootstrap"
	"github.com/de-tools/grc-scanner/pkg/runtime/terminal/commands"
	"github.com/de-tools/grc-scanner/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	factory  bootstrap.HandlerFactory
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Factory bootstrap.HandlerFactory
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Factory == nil {
		opts.Factory = bootstrap.NewScanHandler
	}

	cli := &CLI{
		factory:  opts.Factory,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

// Execute runs the command line; ctx carries the process logger.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) ExecuteWithArgs(ctx context.Context, args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grc",
		Short:         "AWS governance, risk and compliance scanner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewScanCmd(cli.factory, cli.reporter))
	cmd.AddCommand(commands.NewControlsCmd(cli.reporter))
	cmd.AddCommand(commands.NewProfilesCmd(cli.reporter))

	return cmd
}
