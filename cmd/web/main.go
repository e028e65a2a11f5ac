package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/de-tools/grc-scanner/pkg/runtime/bootstrap"
	"github.com/de-tools/grc-scanner/pkg/server"
	"github.com/de-tools/grc-scanner/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgPath         string
	addr            string
	shutdownTimeout time.Duration
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the GRC scanner",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a scanner config file (defaults and GRC_* environment variables apply without one)")
	rootCmd.Flags().StringVar(&addr, "addr", "",
		"Listen address (default is SERVER_HOST:SERVER_PORT from the environment or .env file)")
	rootCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second,
		"Time allowed for in-flight requests on shutdown")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger, err := bootstrap.NewLogger(os.Stdout, cfg.Log.Level)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())

	handler, err := bootstrap.NewScanHandler(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to set up scanner: %w", err)
	}

	if addr == "" {
		host := os.Getenv("SERVER_HOST")
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			logger.Error().Msgf("Missing server configuration from .env file")
			os.Exit(1)
		}
		addr = net.JoinHostPort(host, port)
	}

	api := server.NewWebAPI(server.Config{
		Addr:            addr,
		ShutdownTimeout: shutdownTimeout,
		Dependencies: server.Dependencies{
			Scan:   handler,
			Logger: logger,
		},
	})
	return api.Start()
}
