// Package config loads the settings shared by the bot, the HTTP server and the indexer
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds every setting of the three binaries
type Config struct {
	HTTP struct {
		Addr           string   `mapstructure:"addr"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		TimeoutSec     int      `mapstructure:"timeout_sec"`
	} `mapstructure:"http"`
	Telegram struct {
		Token string `mapstructure:"token"`
	} `mapstructure:"telegram"`
	OpenAI struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"openai"`
	Model struct {
		Path       string  `mapstructure:"path"`
		ScalerPath string  `mapstructure:"scaler_path"`
		ScoreMin   float64 `mapstructure:"score_min"`
		ScoreMax   float64 `mapstructure:"score_max"`
	} `mapstructure:"model"`
	Feed struct {
		Path     string `mapstructure:"path"`
		ImageDir string `mapstructure:"image_dir"`
	} `mapstructure:"feed"`
	Logbook struct {
		CSVPath string `mapstructure:"csv_path"`
		DBPath  string `mapstructure:"db_path"`
	} `mapstructure:"logbook"`
	Insights struct {
		Path      string `mapstructure:"path"`
		BatchSize int    `mapstructure:"batch_size"`
	} `mapstructure:"insights"`
	Indexer struct {
		Schedule string `mapstructure:"schedule"`
	} `mapstructure:"indexer"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   string `mapstructure:"file"`
	} `mapstructure:"log"`
}

// legacyEnv are the variable names older deployments already set
var legacyEnv = map[string]string{
	"telegram.token": "TELEGRAM_BOT_TOKEN",
	"openai.api_key": "OPENAI_API_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.timeout_sec", 30)
	v.SetDefault("telegram.token", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("model.path", "models/aquahealth_anomaly_model.json")
	v.SetDefault("model.scaler_path", "models/aquahealth_feature_scaler.json")
	v.SetDefault("model.score_min", -0.1)
	v.SetDefault("model.score_max", 0.1)
	v.SetDefault("feed.path", "data/oceanwatchfeed.csv")
	v.SetDefault("feed.image_dir", "images")
	v.SetDefault("logbook.csv_path", "data/logbook.csv")
	v.SetDefault("logbook.db_path", "data/logbook.db")
	v.SetDefault("insights.path", "data/oceanwatchfeed_with_insights.csv")
	v.SetDefault("insights.batch_size", 20)
	v.SetDefault("indexer.schedule", "@hourly")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
}

// Load reads the configuration. path names an explicit config file; when it is
// empty, config.yaml is looked up in the working directory and /etc/aquahealth
// and a missing file is not an error. Environment variables prefixed with
// AQUAHEALTH_ override the file, e.g. AQUAHEALTH_FEED_PATH for feed.path.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/aquahealth/")
	}

	v.SetEnvPrefix("AQUAHEALTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, "AQUAHEALTH_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", legacy, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file; defaults and env vars only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var problems []string
	if c.Model.Path == "" || c.Model.ScalerPath == "" {
		problems = append(problems, "model.path and model.scaler_path are required")
	}
	if c.Model.ScoreMin > c.Model.ScoreMax {
		problems = append(problems, fmt.Sprintf("model.score_min %g is above model.score_max %g", c.Model.ScoreMin, c.Model.ScoreMax))
	}
	if c.Feed.Path == "" {
		problems = append(problems, "feed.path is required")
	}
	if c.Insights.BatchSize < 0 {
		problems = append(problems, fmt.Sprintf("insights.batch_size %d is negative", c.Insights.BatchSize))
	}
	if c.HTTP.TimeoutSec < 0 {
		problems = append(problems, fmt.Sprintf("http.timeout_sec %d is negative", c.HTTP.TimeoutSec))
	}
	if _, err := cron.ParseStandard(c.Indexer.Schedule); err != nil {
		problems = append(problems, fmt.Sprintf("indexer.schedule %q: %v", c.Indexer.Schedule, err))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be console or json", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
