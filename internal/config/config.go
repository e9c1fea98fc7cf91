// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Crawl CrawlConfig `yaml:"crawl" mapstructure:"crawl"`
	Mail  MailConfig  `yaml:"mail" mapstructure:"mail"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// CrawlConfig configures the SEC listing crawl.
type CrawlConfig struct {
	BaseURL           string `yaml:"base_url" mapstructure:"base_url"`
	MaxPages          int    `yaml:"max_pages" mapstructure:"max_pages"`
	RequestIntervalMs int    `yaml:"request_interval_ms" mapstructure:"request_interval_ms"`
}

// MailConfig configures the SMTP report sender.
type MailConfig struct {
	Host       string   `yaml:"host" mapstructure:"host"`
	Port       int      `yaml:"port" mapstructure:"port"`
	Username   string   `yaml:"username" mapstructure:"username"`
	Password   string   `yaml:"password" mapstructure:"password"`
	From       string   `yaml:"from" mapstructure:"from"`
	Recipients []string `yaml:"recipients" mapstructure:"recipients"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FILING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("crawl.base_url", "https://market.sec.or.th")
	v.SetDefault("crawl.max_pages", 34)
	v.SetDefault("crawl.request_interval_ms", 800)
	v.SetDefault("mail.port", 587)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration required by the given command
// scope is present. It runs before any work starts, so a misconfigured
// invocation fails without touching the network.
func (c *Config) Validate(scope string) error {
	switch scope {
	case "mail":
		if c.Mail.Host == "" || c.Mail.Username == "" || c.Mail.Password == "" || c.Mail.From == "" {
			return eris.New("config: mail.host, mail.username, mail.password, and mail.from are required to send email")
		}
		if len(c.Mail.Recipients) == 0 {
			return eris.New("config: mail.recipients must list at least one address")
		}
	case "crawl":
		if c.Crawl.MaxPages <= 0 {
			return eris.New("config: crawl.max_pages must be positive")
		}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
