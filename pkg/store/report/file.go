package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/grc-scanner/pkg/services/checks"
)

type fileSink struct {
	dir string
}

// NewFileSink writes the combined report under dir, mirroring the object key.
func NewFileSink(dir string) Sink {
	return &fileSink{dir: dir}
}

func (s *fileSink) Name() string {
	return "file"
}

func (s *fileSink) Primary() bool {
	return false
}

func (s *fileSink) Write(_ context.Context, doc *Document) (string, error) {
	target := filepath.Join(s.dir, filepath.FromSlash(doc.Key))
	if err := writeFile(target, doc.Body); err != nil {
		return "", err
	}
	return target, nil
}

type checkerFilesSink struct {
	dir string
}

// NewCheckerFilesSink writes one <checker>_compliance_report.json per checker that produced a report.
func NewCheckerFilesSink(dir string) Sink {
	return &checkerFilesSink{dir: dir}
}

func (s *checkerFilesSink) Name() string {
	return "checker-files"
}

func (s *checkerFilesSink) Primary() bool {
	return false
}

func (s *checkerFilesSink) Write(_ context.Context, doc *Document) (string, error) {
	for _, name := range checks.DefaultOrder {
		individual := doc.Report.IndividualReports[name]
		if individual == nil {
			continue
		}

		body, err := json.MarshalIndent(individual, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to serialize %s report: %w", name, err)
		}
		if err := writeFile(filepath.Join(s.dir, CheckerFileName(name)), body); err != nil {
			return "", err
		}
	}
	return s.dir, nil
}

func CheckerFileName(checker string) string {
	return checker + "_compliance_report.json"
}

func writeFile(target string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}
