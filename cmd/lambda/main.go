package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/de-tools/grc-scanner/pkg/models/api"
	"github.com/de-tools/grc-scanner/pkg/runtime/bootstrap"
	"github.com/de-tools/grc-scanner/pkg/services/config"
	"github.com/rs/zerolog"
)

func main() {
	fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("GRC_CONFIG_FILE"))
	if err != nil {
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger, err := bootstrap.NewLogger(os.Stdout, cfg.Log.Level)
	if err != nil {
		fallback.Fatal().Err(err).Msg("failed to create logger")
	}
	ctx := logger.WithContext(context.Background())

	handler, err := bootstrap.NewScanHandler(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up scanner")
	}

	lambda.Start(func(ctx context.Context, event json.RawMessage) (api.ScanResponse, error) {
		return handler.HandleLambda(logger.WithContext(ctx), event)
	})
}
