package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"docsync/es"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the docsync configuration.
type Config struct {
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`

	// DefaultIndexSettings apply to resources that define no settings.
	DefaultIndexSettings map[string]any `mapstructure:"default_index_settings"`

	Postgres PostgresConfig `mapstructure:"postgres"`
	Log      LogConfig      `mapstructure:"log"`

	ResourcesPath string `mapstructure:"resources_path"`
	BatchSize     int    `mapstructure:"batch_size"`
}

type ElasticsearchConfig struct {
	Hosts    []string `mapstructure:"hosts"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	APIKey   string   `mapstructure:"api_key"`

	SSLVerification *bool  `mapstructure:"ssl_verification"`
	CACert          string `mapstructure:"ca_cert"`
	SniffOnStart    *bool  `mapstructure:"sniff_on_start"`
	Retries         *int   `mapstructure:"retries"`
	Endpoint        string `mapstructure:"endpoint"`
	Refresh         string `mapstructure:"refresh"`

	Logging  *bool  `mapstructure:"logging"`
	LogPath  string `mapstructure:"log_path"`
	LogLevel string `mapstructure:"log_level"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

const envPrefix = "DOCSYNC"

func setDefaults(v *viper.Viper) {
	v.SetDefault("elasticsearch.hosts", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("elasticsearch.api_key", "")
	v.SetDefault("elasticsearch.endpoint", "")
	v.SetDefault("elasticsearch.refresh", "")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("resources_path", "resources.yml")
	v.SetDefault("batch_size", 500)
}

// Keys without a default are unknown to viper until bound, and Unmarshal
// would skip their environment variables.
var envOnlyKeys = []string{
	"elasticsearch.ssl_verification",
	"elasticsearch.ca_cert",
	"elasticsearch.sniff_on_start",
	"elasticsearch.retries",
	"elasticsearch.logging",
	"elasticsearch.log_path",
	"elasticsearch.log_level",
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads the config file at path, or docsync.yaml in the working
// directory when path is empty. DOCSYNC_* environment variables override file
// values, e.g. DOCSYNC_ELASTICSEARCH_HOSTS.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("docsync")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Elasticsearch.Hosts) == 0 {
		return fmt.Errorf("elasticsearch.hosts is required")
	}
	for i, h := range c.Elasticsearch.Hosts {
		if strings.TrimSpace(h) == "" {
			return fmt.Errorf("elasticsearch.hosts[%d] is empty", i)
		}
	}
	if c.Elasticsearch.Retries != nil && *c.Elasticsearch.Retries < 0 {
		return fmt.Errorf("elasticsearch.retries must not be negative, got %d", *c.Elasticsearch.Retries)
	}
	switch c.Elasticsearch.Refresh {
	case "", "true", "false", "wait_for":
	default:
		return fmt.Errorf("elasticsearch.refresh must be true, false or wait_for, got %q", c.Elasticsearch.Refresh)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative, got %d", c.BatchSize)
	}
	if c.ResourcesPath == "" {
		return fmt.Errorf("resources_path is required")
	}
	return nil
}

// ClientConfig maps the elasticsearch section onto es.Config. log is used as
// the client logger unless a log_path is configured.
func (c *Config) ClientConfig(log *zap.Logger) (es.Config, error) {
	e := c.Elasticsearch

	cfg := es.Config{
		Hosts:           e.Hosts,
		Username:        e.Username,
		Password:        e.Password,
		APIKey:          e.APIKey,
		SSLVerification: e.SSLVerification,
		SniffOnStart:    e.SniffOnStart,
		Retries:         e.Retries,
		Endpoint:        e.Endpoint,
		Refresh:         e.Refresh,
		Logging:         e.Logging,
		LogPath:         e.LogPath,
		LogLevel:        e.LogLevel,
	}

	if e.CACert != "" {
		b, err := os.ReadFile(e.CACert)
		if err != nil {
			return es.Config{}, fmt.Errorf("read ca_cert: %w", err)
		}
		cfg.CACert = b
	}

	if e.LogPath == "" {
		cfg.LogObject = log
	}
	return cfg, nil
}
