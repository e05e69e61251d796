package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Explore ExploreConfig `yaml:"explore" mapstructure:"explore"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the workbook and controls snapshot caching.
type DataConfig struct {
	// Source is a .xlsx path, a .zip of CSVs, a directory of CSVs, or an
	// http(s)/ftp URL to either file.
	Source        string       `yaml:"source" mapstructure:"source"`
	ColumnsFile   string       `yaml:"columns_file" mapstructure:"columns_file"`
	CacheTTLHours int          `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	NoCache       bool         `yaml:"no_cache" mapstructure:"no_cache"`
	Sheets        SheetsConfig `yaml:"sheets" mapstructure:"sheets"`
}

// CacheTTL returns the snapshot lifetime.
func (d DataConfig) CacheTTL() time.Duration {
	return time.Duration(d.CacheTTLHours) * time.Hour
}

// SheetsConfig overrides the sheet-name keywords per record set.
type SheetsConfig struct {
	Teams     []string `yaml:"teams" mapstructure:"teams"`
	Players   []string `yaml:"players" mapstructure:"players"`
	Transfers []string `yaml:"transfers" mapstructure:"transfers"`
}

// StoreConfig configures the snapshot cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// FetchConfig configures remote workbook downloads.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries     int     `yaml:"retries" mapstructure:"retries"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerHost float64 `yaml:"rate_per_host" mapstructure:"rate_per_host"`
	MaxMB       int     `yaml:"max_mb" mapstructure:"max_mb"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port               int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins     []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

// ExploreConfig holds result sizing for tables, boards and compare.
type ExploreConfig struct {
	PageSize        int `yaml:"page_size" mapstructure:"page_size"`
	LeaderboardSize int `yaml:"leaderboard_size" mapstructure:"leaderboard_size"`
	CompareLimit    int `yaml:"compare_limit" mapstructure:"compare_limit"`
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
	v.SetEnvPrefix("NCAA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.source", "data/ncaa.xlsx")
	v.SetDefault("data.columns_file", "")
	v.SetDefault("data.cache_ttl_hours", 24)
	v.SetDefault("data.no_cache", false)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "ncaa-cache.db")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.retries", 3)
	v.SetDefault("fetch.user_agent", "ncaa-explorer/1.0")
	v.SetDefault("fetch.rate_per_host", 5.0)
	v.SetDefault("fetch.max_mb", 64)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout_secs", 30)
	v.SetDefault("explore.page_size", 50)
	v.SetDefault("explore.leaderboard_size", 10)
	v.SetDefault("explore.compare_limit", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the settings a command needs. mode is "serve" for the HTTP
// API; any other mode validates the shared data and store settings only.
func (c *Config) Validate(mode string) error {
	var problems []string

	if strings.TrimSpace(c.Data.Source) == "" {
		problems = append(problems, "data.source is required")
	}
	if c.Data.CacheTTLHours < 0 {
		problems = append(problems, "data.cache_ttl_hours must be >= 0")
	}
	if !c.Data.NoCache {
		switch c.Store.Driver {
		case "sqlite", "postgres":
			if c.Store.DatabaseURL == "" {
				problems = append(problems, "store.database_url is required")
			}
		default:
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
	}
	if c.Fetch.MaxMB <= 0 {
		problems = append(problems, "fetch.max_mb must be > 0")
	}
	if c.Explore.PageSize <= 0 {
		problems = append(problems, "explore.page_size must be > 0")
	}
	if c.Explore.LeaderboardSize <= 0 {
		problems = append(problems, "explore.leaderboard_size must be > 0")
	}
	if c.Explore.CompareLimit < 2 {
		problems = append(problems, "explore.compare_limit must be >= 2")
	}

	if mode == "serve" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
		if c.Server.RequestTimeoutSecs <= 0 {
			problems = append(problems, "server.request_timeout_secs must be > 0")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
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
