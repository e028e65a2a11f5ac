package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const configProfilePrefix = "profile "

// Registry lists AWS profiles declared in the shared config and credentials files
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.ConfigProfile, error)
	GetProfile(ctx context.Context, name string) (*domain.ConfigProfile, error)
}

type cfgRegistry struct {
	config      *ini.File
	credentials *ini.File
}

// DefaultPaths returns the shared config and credentials locations, honouring
// AWS_CONFIG_FILE and AWS_SHARED_CREDENTIALS_FILE.
func DefaultPaths() (string, string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	configPath := filepath.Join(home, ".aws", "config")
	if p := os.Getenv("AWS_CONFIG_FILE"); p != "" {
		configPath = p
	}
	credentialsPath := filepath.Join(home, ".aws", "credentials")
	if p := os.Getenv("AWS_SHARED_CREDENTIALS_FILE"); p != "" {
		credentialsPath = p
	}
	return configPath, credentialsPath, nil
}

// NewRegistry loads both files; a missing file is treated as empty.
func NewRegistry(configPath, credentialsPath string) (Registry, error) {
	cfg, err := ini.LooseLoad(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}
	creds, err := ini.LooseLoad(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", credentialsPath, err)
	}
	return &cfgRegistry{config: cfg, credentials: creds}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]domain.ConfigProfile, error) {
	byName := make(map[string]domain.ConfigProfile)

	for _, section := range cr.config.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		name := profileName(strings.TrimPrefix(section.Name(), configProfilePrefix))
		byName[name] = domain.ConfigProfile{
			Name:   name,
			Source: domain.ProfileSourceConfig,
			Region: section.Key("region").String(),
		}
	}

	for _, section := range cr.credentials.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		name := profileName(section.Name())
		if _, exists := byName[name]; exists {
			continue
		}
		byName[name] = domain.ConfigProfile{
			Name:   name,
			Source: domain.ProfileSourceCredentials,
		}
	}

	profiles := make([]domain.ConfigProfile, 0, len(byName))
	for _, p := range byName {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// profileName maps the ini default section back to the SDK's "default" profile.
func profileName(section string) string {
	if strings.EqualFold(section, ini.DefaultSection) {
		return "default"
	}
	return section
}

func (cr *cfgRegistry) GetProfile(ctx context.Context, name string) (*domain.ConfigProfile, error) {
	profiles, err := cr.GetProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile %s not found", name)
}
