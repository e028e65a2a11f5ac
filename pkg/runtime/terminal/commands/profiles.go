package commands

import (
	"fmt"

	"github.com/de-tools/grc-scanner/pkg/runtime/terminal/export"
	"github.com/de-tools/grc-scanner/pkg/services/config"
	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	configPath      string
	credentialsPath string
	reporter        *export.Reporter
}

func NewProfilesCmd(reporter *export.Reporter) *cobra.Command {
	pc := &ProfilesCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List AWS profiles from the shared config files",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.configPath, "aws-config", "", "Path to the AWS config file (default is $HOME/.aws/config)")
	cmd.Flags().StringVar(&pc.credentialsPath, "aws-credentials", "", "Path to the AWS credentials file (default is $HOME/.aws/credentials)")

	return cmd
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	configPath, credentialsPath := pc.configPath, pc.credentialsPath
	if configPath == "" || credentialsPath == "" {
		defConfig, defCredentials, err := config.DefaultPaths()
		if err != nil {
			return err
		}
		if configPath == "" {
			configPath = defConfig
		}
		if credentialsPath == "" {
			credentialsPath = defCredentials
		}
	}

	registry, err := config.NewRegistry(configPath, credentialsPath)
	if err != nil {
		return fmt.Errorf("failed to create profile registry: %w", err)
	}

	profiles, err := registry.GetProfiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	return pc.reporter.Profiles(profiles)
}
