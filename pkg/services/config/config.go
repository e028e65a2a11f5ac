package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/de-tools/grc-scanner/pkg/services/checks"
	"github.com/spf13/viper"
)

const EnvPrefix = "GRC"

type AWSConfig struct {
	Profile     string `mapstructure:"profile"`
	Region      string `mapstructure:"region"`
	MaxAttempts int    `mapstructure:"max_attempts"`
}

type ReportConfig struct {
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	LocalDir string `mapstructure:"local_dir"`
	Local    bool   `mapstructure:"local"`
}

type ScanConfig struct {
	Parallel bool     `mapstructure:"parallel"`
	Checkers []string `mapstructure:"checkers"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	AWS    AWSConfig    `mapstructure:"aws"`
	Report ReportConfig `mapstructure:"report"`
	Scan   ScanConfig   `mapstructure:"scan"`
	Log    LogConfig    `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.region", DefaultRegion)
	v.SetDefault("aws.max_attempts", 3)
	v.SetDefault("report.bucket", "grc-compliance-reports")
	v.SetDefault("report.prefix", "reports")
	v.SetDefault("report.local_dir", ".")
	v.SetDefault("report.local", true)
	v.SetDefault("scan.parallel", false)
	v.SetDefault("scan.checkers", checks.DefaultOrder)
	v.SetDefault("log.level", "info")
}

// Load reads the optional config file at path and overlays GRC_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scanner config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.AWS.MaxAttempts < 1 {
		return fmt.Errorf("aws.max_attempts must be at least 1, got %d", c.AWS.MaxAttempts)
	}
	if len(c.Scan.Checkers) == 0 {
		return fmt.Errorf("scan.checkers must name at least one checker")
	}
	for _, name := range c.Scan.Checkers {
		if !slices.Contains(checks.DefaultOrder, name) {
			return fmt.Errorf("unknown checker %q in scan.checkers", name)
		}
	}
	return nil
}
