package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/grc-scanner/pkg/runtime/bootstrap"
	"github.com/de-tools/grc-scanner/pkg/runtime/terminal"
)

func main() {
	level := os.Getenv("GRC_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger, err := bootstrap.NewLogger(os.Stderr, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli := terminal.NewCLI(terminal.Options{
		Factory: bootstrap.NewScanHandler,
		Output:  os.Stdout,
	})

	if err := cli.Execute(logger.WithContext(context.Background())); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
