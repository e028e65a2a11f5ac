package checks

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name string
}

func (s stubChecker) Name() string { return s.name }

func (s stubChecker) Run(context.Context) (*domain.CheckerReport, error) {
	return &domain.CheckerReport{Checker: s.name}, nil
}

func stubFactory(name string) Factory {
	return func(awssdk.Config) Checker { return stubChecker{name: name} }
}

func TestRegistry_Register(t *testing.T) {
	t.Run("rejects empty name", func(t *testing.T) {
		r := NewRegistry()
		assert.Error(t, r.Register("", stubFactory("x")))
	})

	t.Run("rejects nil factory", func(t *testing.T) {
		r := NewRegistry()
		assert.Error(t, r.Register("iam", nil))
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register("iam", stubFactory("iam")))
		assert.Error(t, r.Register("iam", stubFactory("iam")))
	})
}

func TestRegistry_Create(t *testing.T) {
	r := NewRegistry()
	for _, name := range DefaultOrder {
		require.NoError(t, r.Register(name, stubFactory(name)))
	}

	t.Run("all in registration order", func(t *testing.T) {
		checkers, err := r.Create(awssdk.Config{})
		require.NoError(t, err)

		var names []string
		for _, c := range checkers {
			names = append(names, c.Name())
		}
		assert.Equal(t, DefaultOrder, names)
	})

	t.Run("subset follows registration order", func(t *testing.T) {
		checkers, err := r.Create(awssdk.Config{}, CheckerCloudTrail, CheckerIAM)
		require.NoError(t, err)
		require.Len(t, checkers, 2)
		assert.Equal(t, CheckerIAM, checkers[0].Name())
		assert.Equal(t, CheckerCloudTrail, checkers[1].Name())
	})

	t.Run("unknown checker", func(t *testing.T) {
		_, err := r.Create(awssdk.Config{}, "gcs")
		assert.Error(t, err)
	})

	t.Run("duplicate request", func(t *testing.T) {
		_, err := r.Create(awssdk.Config{}, CheckerS3, CheckerS3)
		assert.Error(t, err)
	})

	assert.Equal(t, DefaultOrder, r.ListCheckers())
}

func TestCatalog_ControlsHaveFrameworks(t *testing.T) {
	for _, c := range Catalog() {
		assert.NotEmpty(t, c.Frameworks, c.ID)
		assert.Contains(t, c.Frameworks, c.PrimaryFramework, c.ID)
		assert.Contains(t, DefaultOrder, c.Checker, c.ID)
	}
}
