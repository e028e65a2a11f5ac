package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sharedConfig = `[default]
region = us-east-1

[profile audit]
region = eu-west-1
role_arn = arn:aws:iam::123456789012:role/audit
source_profile = default
`

const sharedCredentials = `[default]
aws_access_key_id = AKIAEXAMPLE
aws_secret_access_key = secret

[ci]
aws_access_key_id = AKIACI
aws_secret_access_key = secret
`

func TestRegistry_GetProfiles(t *testing.T) {
	dir := t.TempDir()
	reg, err := NewRegistry(
		writeFile(t, dir, "config", sharedConfig),
		writeFile(t, dir, "credentials", sharedCredentials),
	)
	require.NoError(t, err)

	profiles, err := reg.GetProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.ConfigProfile{
		{Name: "audit", Source: domain.ProfileSourceConfig, Region: "eu-west-1"},
		{Name: "ci", Source: domain.ProfileSourceCredentials},
		{Name: "default", Source: domain.ProfileSourceConfig, Region: "us-east-1"},
	}, profiles)

	p, err := reg.GetProfile(context.Background(), "audit")
	require.NoError(t, err)
	assert.Equal(t, "config:audit", p.String())

	_, err = reg.GetProfile(context.Background(), "missing")
	assert.EqualError(t, err, "profile missing not found")
}

func TestRegistry_MissingFilesAreEmpty(t *testing.T) {
	dir := t.TempDir()
	reg, err := NewRegistry(filepath.Join(dir, "config"), filepath.Join(dir, "credentials"))
	require.NoError(t, err)

	profiles, err := reg.GetProfiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestDefaultPaths_EnvironmentOverrides(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/tmp/aws-config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/tmp/aws-credentials")

	configPath, credentialsPath, err := DefaultPaths()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/aws-config", configPath)
	assert.Equal(t, "/tmp/aws-credentials", credentialsPath)
}
