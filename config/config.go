package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"github.com/joho/godotenv"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/env"
	"go-micro.dev/v4/config/source/file"
)

const (
	DefaultFile = "config.toml"
	// EnvPrefix 环境变量前缀，如 NEWSAGG_MAXTASKS=32
	EnvPrefix = "NEWSAGG"
)

type Config struct {
	LogLevel    string   `json:"loglevel"`
	LogFile     string   `json:"logfile"`
	MaxFeeds    int      `json:"maxfeeds"`
	MaxTasks    int      `json:"maxtasks"`
	MaxPerHost  int      `json:"maxperhost"`
	Timeout     int      `json:"timeout"` // 秒，0 表示不超时
	UserAgent   string   `json:"useragent"`
	Proxies     []string `json:"proxies"`
	MetricsAddr string   `json:"metricsaddr"`
	Reload      bool     `json:"reload"`
}

func Default() Config {
	return Config{
		LogLevel:   "INFO",
		MaxFeeds:   8,
		MaxTasks:   64,
		MaxPerHost: 12,
	}
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c Config) Validate() error {
	if c.MaxFeeds < 1 || c.MaxTasks < 1 || c.MaxPerHost < 1 {
		return fmt.Errorf("config: maxfeeds, maxtasks and maxperhost must be positive, got %d/%d/%d",
			c.MaxFeeds, c.MaxTasks, c.MaxPerHost)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %d", c.Timeout)
	}
	return nil
}

// Load reads path, or ./config.toml when path is empty, then environment
// variables prefixed with NEWSAGG_, including those from a .env file. Later
// sources win. A missing default file is not an error; a missing explicit
// path is.
func Load(path string) (Config, error) {
	c := Default()
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, fmt.Errorf("load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		dir, err := os.Getwd()
		if err != nil {
			return c, err
		}
		path = filepath.Join(dir, DefaultFile)
	}
	var sources []source.Source
	enc := toml.NewEncoder()
	if _, err := os.Stat(path); err == nil {
		sources = append(sources, file.NewSource(
			file.WithPath(path),
			source.WithEncoder(enc),
		))
	} else if explicit {
		return c, fmt.Errorf("config file: %w", err)
	}
	sources = append(sources, env.NewSource(env.WithStrippedPrefix(EnvPrefix)))

	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return c, err
	}
	defer cfg.Close()
	if err := cfg.Load(sources...); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Scan(&c); err != nil {
		return c, fmt.Errorf("scan config: %w", err)
	}

	return c, c.Validate()
}
