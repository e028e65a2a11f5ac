package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.AWS.Profile)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, 3, cfg.AWS.MaxAttempts)
	assert.Equal(t, "grc-compliance-reports", cfg.Report.Bucket)
	assert.Equal(t, "reports", cfg.Report.Prefix)
	assert.Equal(t, ".", cfg.Report.LocalDir)
	assert.True(t, cfg.Report.Local)
	assert.False(t, cfg.Scan.Parallel)
	assert.Equal(t, []string{"iam", "s3", "ec2", "cloudtrail"}, cfg.Scan.Checkers)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeFile(t, t.TempDir(), "grc.yaml", `
aws:
  profile: audit
  region: eu-west-1
report:
  bucket: audit-reports
  local: false
scan:
  parallel: true
  checkers: [iam, cloudtrail]
`)
	t.Setenv("GRC_REPORT_BUCKET", "env-reports")
	t.Setenv("GRC_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "audit", cfg.AWS.Profile)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "env-reports", cfg.Report.Bucket)
	assert.False(t, cfg.Report.Local)
	assert.True(t, cfg.Scan.Parallel)
	assert.Equal(t, []string{"iam", "cloudtrail"}, cfg.Scan.Checkers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown checker", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "grc.yaml", "scan:\n  checkers: [iam, rds]\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, `unknown checker "rds"`)
	})

	t.Run("max attempts", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "grc.yaml", "aws:\n  max_attempts: 0\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "aws.max_attempts")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}
