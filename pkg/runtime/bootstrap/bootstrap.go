package bootstrap

import (
	"context"
	"fmt"
	"io"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/grc-scanner/pkg/handlers/scan"
	"github.com/de-tools/grc-scanner/pkg/services/checks"
	"github.com/de-tools/grc-scanner/pkg/services/checks/cloudtrail"
	"github.com/de-tools/grc-scanner/pkg/services/checks/ec2"
	"github.com/de-tools/grc-scanner/pkg/services/checks/iam"
	checks3 "github.com/de-tools/grc-scanner/pkg/services/checks/s3"
	"github.com/de-tools/grc-scanner/pkg/services/compliance"
	"github.com/de-tools/grc-scanner/pkg/services/config"
	"github.com/de-tools/grc-scanner/pkg/services/identity"
	"github.com/de-tools/grc-scanner/pkg/store/report"
	"github.com/rs/zerolog"
)

// HandlerFactory builds a scan handler from the scanner configuration
type HandlerFactory func(ctx context.Context, cfg *config.Config) (*scan.Handler, error)

// NewCheckerRegistry registers every checker in merge order.
func NewCheckerRegistry() (checks.Registry, error) {
	registry := checks.NewRegistry()
	factories := []struct {
		name    string
		factory checks.Factory
	}{
		{checks.CheckerIAM, iam.New},
		{checks.CheckerS3, checks3.New},
		{checks.CheckerEC2, ec2.New},
		{checks.CheckerCloudTrail, cloudtrail.New},
	}
	for _, f := range factories {
		if err := registry.Register(f.name, f.factory); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// NewLogger creates the process logger; level names follow zerolog (debug, info, warn, ...).
func NewLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// NewScanHandler loads AWS credentials and wires checkers, scanner, sinks and identity lookup.
func NewScanHandler(ctx context.Context, cfg *config.Config) (*scan.Handler, error) {
	logger := zerolog.Ctx(ctx)

	awsCfg, err := config.LoadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}

	handler, err := NewScanHandlerWithAWS(awsCfg, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("profile", cfg.AWS.Profile).
		Str("region", awsCfg.Region).
		Strs("checkers", cfg.Scan.Checkers).
		Str("bucket", cfg.Report.Bucket).
		Msg("scanner configured")
	return handler, nil
}

func NewScanHandlerWithAWS(awsCfg awssdk.Config, cfg *config.Config) (*scan.Handler, error) {
	registry, err := NewCheckerRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to register checkers: %w", err)
	}
	checkers, err := registry.Create(awsCfg, cfg.Scan.Checkers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkers: %w", err)
	}

	scanner, err := compliance.NewScanner(compliance.Options{Parallel: cfg.Scan.Parallel}, checkers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	sinks, err := report.DefaultSinks(s3.NewFromConfig(awsCfg), cfg.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to configure report sinks: %w", err)
	}
	emitter, err := report.NewEmitter(cfg.Report.Prefix, sinks...)
	if err != nil {
		return nil, fmt.Errorf("no report destination configured: %w", err)
	}

	return scan.NewHandler(scanner, emitter, identity.NewResolver(awsCfg), awsCfg.Region), nil
}
