package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/grc-scanner/pkg/handlers/scan"
	"github.com/de-tools/grc-scanner/pkg/runtime/bootstrap"
	"github.com/de-tools/grc-scanner/pkg/runtime/terminal/export"
	"github.com/de-tools/grc-scanner/pkg/services/config"
	"github.com/spf13/cobra"
)

type ScanCmd struct {
	configPath string
	profile    string
	region     string
	bucket     string
	localDir   string
	checkers   []string
	parallel   bool
	noUpload   bool
	timeout    time.Duration

	factory  bootstrap.HandlerFactory
	reporter *export.Reporter
}

func NewScanCmd(factory bootstrap.HandlerFactory, reporter *export.Reporter) *cobra.Command {
	sc := &ScanCmd{factory: factory, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a compliance scan against the current AWS account",
		RunE:  sc.run,
	}

	cmd.Flags().StringVarP(&sc.configPath, "config", "c", "", "Path to a scanner config file (yaml, toml or json)")
	cmd.Flags().StringVar(&sc.profile, "profile", "", "AWS shared config profile")
	cmd.Flags().StringVar(&sc.region, "region", "", "Fallback AWS region when neither AWS_REGION nor the profile sets one")
	cmd.Flags().StringVar(&sc.bucket, "bucket", "", "S3 bucket receiving the combined report")
	cmd.Flags().StringVar(&sc.localDir, "output-dir", "", "Directory for local report files")
	cmd.Flags().StringSliceVar(&sc.checkers, "checkers", nil, "Checkers to run (iam, s3, ec2, cloudtrail)")
	cmd.Flags().BoolVar(&sc.parallel, "parallel", false, "Run checkers concurrently")
	cmd.Flags().BoolVar(&sc.noUpload, "no-upload", false, "Skip the S3 upload and only write local files")
	cmd.Flags().DurationVar(&sc.timeout, "timeout", 10*time.Minute, "Maximum scan duration")

	return cmd
}

// applyFlags overlays explicitly set flags on the loaded configuration.
func (sc *ScanCmd) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.AWS.Profile = sc.profile
	}
	if flags.Changed("region") {
		cfg.AWS.Region = sc.region
	}
	if flags.Changed("bucket") {
		cfg.Report.Bucket = sc.bucket
	}
	if flags.Changed("output-dir") {
		cfg.Report.LocalDir = sc.localDir
	}
	if flags.Changed("checkers") {
		cfg.Scan.Checkers = sc.checkers
	}
	if flags.Changed("parallel") {
		cfg.Scan.Parallel = sc.parallel
	}
	if sc.noUpload {
		cfg.Report.Bucket = ""
		cfg.Report.Local = true
	}
	return cfg.Validate()
}

func (sc *ScanCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(sc.configPath)
	if err != nil {
		return err
	}
	if err := sc.applyFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), sc.timeout)
	defer cancel()

	handler, err := sc.factory(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to set up scanner: %w", err)
	}

	outcome, err := handler.Execute(ctx, scan.Invocation{})
	if outcome != nil {
		if rerr := sc.reporter.Handle(outcome.Report); rerr != nil {
			return fmt.Errorf("failed to print report: %w", rerr)
		}
		if outcome.Result != nil {
			for _, o := range outcome.Result.Failed() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s sink: %v\n", o.Sink, o.Err)
			}
			if outcome.Result.Location != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", outcome.Result.Location)
			}
		}
	}
	return err
}
