package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "dosely"
	configFile = "config.yaml"
	envPrefix  = "DOSELY"

	SourceDB          = "db"
	SourceTaskwarrior = "taskwarrior"
	SourceOrg         = "org"
)

type Config struct {
	Calendar   string            `mapstructure:"calendar" yaml:"calendar"`
	Database   string            `mapstructure:"database" yaml:"database"`
	Medication string            `mapstructure:"medication" yaml:"medication"`
	Owner      string            `mapstructure:"owner" yaml:"owner"`
	Timezone   string            `mapstructure:"timezone" yaml:"timezone,omitempty"`
	Catalog    string            `mapstructure:"catalog" yaml:"catalog,omitempty"`
	Source     string            `mapstructure:"source" yaml:"source"`
	OrgFiles   []string          `mapstructure:"org_files" yaml:"org_files,omitempty"`
	Listen     string            `mapstructure:"listen" yaml:"listen"`
	Colors     map[string]string `mapstructure:"colors" yaml:"colors,omitempty"`
}

// Dir is the application directory holding config, credentials, token,
// event index and the default SQLite database. DOSELY_HOME overrides it.
func Dir() (string, error) {
	if dir := os.Getenv(envPrefix + "_HOME"); dir != "" {
		return dir, nil
	}
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func defaults(v *viper.Viper, dir string) {
	owner := os.Getenv("USER")
	if owner == "" {
		owner = "me"
	}
	v.SetDefault("calendar", "primary")
	v.SetDefault("database", "sqlite://"+filepath.Join(dir, "dosely.db"))
	v.SetDefault("medication", "CONCERTA")
	v.SetDefault("owner", owner)
	v.SetDefault("timezone", "")
	v.SetDefault("catalog", "")
	v.SetDefault("source", SourceDB)
	v.SetDefault("org_files", []string{})
	v.SetDefault("listen", ":8080")
	v.SetDefault("colors", map[string]string{})
}

// Load reads path (the default config file when empty), layering DOSELY_*
// environment variables over the file and the file over the defaults. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = filepath.Join(dir, configFile)
	}

	v := viper.New()
	defaults(v, dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceDB, SourceTaskwarrior, SourceOrg:
	default:
		return fmt.Errorf("unknown task source %q (want %s, %s or %s)", c.Source, SourceDB, SourceTaskwarrior, SourceOrg)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone, falling back to the machine's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Save writes cfg as YAML to path, or to the default config file when empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
