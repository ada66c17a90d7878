package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can say "1s" or "900ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Indicators holds the window lengths and RSI thresholds.
type Indicators struct {
	ShortWindow  int     `yaml:"short_window"`
	MediumWindow int     `yaml:"medium_window"`
	LongWindow   int     `yaml:"long_window"`
	RSIWindow    int     `yaml:"rsi_window"`
	Overbought   float64 `yaml:"overbought"`
	Oversold     float64 `yaml:"oversold"`
	Midpoint     float64 `yaml:"midpoint"`
}

// MaxWindow returns the longest configured window.
func (i Indicators) MaxWindow() int {
	max := i.ShortWindow
	for _, w := range []int{i.MediumWindow, i.LongWindow, i.RSIWindow} {
		if w > max {
			max = w
		}
	}
	return max
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Listen   string `yaml:"listen"`
		Password string `yaml:"password"`
	} `yaml:"server"`
	DataSource struct {
		Symbol         string `yaml:"symbol"`
		SampleInterval string `yaml:"sample_interval"`
		Lookback       string `yaml:"lookback"`
		Retention      int    `yaml:"retention"`
	} `yaml:"data_source"`
	Indicators Indicators `yaml:"indicators"`
	Refresh    struct {
		Interval Duration `yaml:"interval"`
		CacheTTL Duration `yaml:"cache_ttl"`
	} `yaml:"refresh"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STOCK_APP_PASSWORD"); v != "" {
		cfg.Server.Password = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("TICKER_SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Refresh.Interval = Duration(d)
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("RETENTION_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.Retention = n
		}
	}

	// Defaults
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8501"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "AAPL"
	}
	if cfg.DataSource.SampleInterval == "" {
		cfg.DataSource.SampleInterval = "1m"
	}
	if cfg.DataSource.Lookback == "" {
		cfg.DataSource.Lookback = "5d"
	}
	if cfg.DataSource.Retention == 0 {
		cfg.DataSource.Retention = 150
	}
	if cfg.Indicators.ShortWindow == 0 {
		cfg.Indicators.ShortWindow = 5
	}
	if cfg.Indicators.MediumWindow == 0 {
		cfg.Indicators.MediumWindow = 8
	}
	if cfg.Indicators.LongWindow == 0 {
		cfg.Indicators.LongWindow = 13
	}
	if cfg.Indicators.RSIWindow == 0 {
		cfg.Indicators.RSIWindow = 14
	}
	if cfg.Indicators.Overbought == 0 {
		cfg.Indicators.Overbought = 70
	}
	if cfg.Indicators.Oversold == 0 {
		cfg.Indicators.Oversold = 30
	}
	if cfg.Indicators.Midpoint == 0 {
		cfg.Indicators.Midpoint = 50
	}
	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = Duration(time.Second)
	}
	if cfg.Refresh.CacheTTL == 0 {
		cfg.Refresh.CacheTTL = Duration(900 * time.Millisecond)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and the indicator
// invariants hold. A config with a misordered RSI ladder would silently
// misclassify, so it is rejected here instead.
func (c *Config) Validate() error {
	if c.Server.Password == "" {
		return fmt.Errorf("server.password is required (or STOCK_APP_PASSWORD)")
	}
	i := c.Indicators
	for name, w := range map[string]int{
		"short_window":  i.ShortWindow,
		"medium_window": i.MediumWindow,
		"long_window":   i.LongWindow,
		"rsi_window":    i.RSIWindow,
	} {
		if w < 1 {
			return fmt.Errorf("indicators.%s must be >= 1", name)
		}
	}
	if !(i.ShortWindow < i.MediumWindow && i.MediumWindow < i.LongWindow) {
		return fmt.Errorf("indicator windows must satisfy short < medium < long, got %d/%d/%d",
			i.ShortWindow, i.MediumWindow, i.LongWindow)
	}
	if !(i.Oversold < i.Midpoint && i.Midpoint < i.Overbought) {
		return fmt.Errorf("rsi thresholds must satisfy oversold < midpoint < overbought, got %.0f/%.0f/%.0f",
			i.Oversold, i.Midpoint, i.Overbought)
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive")
	}
	if c.DataSource.Retention < 1 {
		return fmt.Errorf("data_source.retention must be >= 1")
	}
	return nil
}
