package report

import (
	"github.com/de-tools/grc-scanner/pkg/services/checks"
	"github.com/de-tools/grc-scanner/pkg/services/config"
)

// DefaultSinks wires the S3 sink when a bucket is configured and, outside Lambda, the local
// file sinks when local output is enabled.
func DefaultSinks(client PutObjectAPI, cfg config.ReportConfig) ([]Sink, error) {
	var sinks []Sink
	if cfg.Bucket != "" {
		s3Sink, err := NewS3Sink(client, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s3Sink)
	}

	if cfg.Local && !checks.InLambda() {
		sinks = append(sinks, NewFileSink(cfg.LocalDir), NewCheckerFilesSink(cfg.LocalDir))
	}
	return sinks, nil
}
