package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	libconfig "metrotram/backend/libs/config"
)

const (
	defaultBoardURL  = "http://tranviaonline.metrotenerife.com/#paneles"
	defaultTokenFile = "token"
	defaultUserAgent = "metrotram-bot/1.0"
)

// Config defines tram-bot configuration.
type Config struct {
	Telegram struct {
		Token              string `yaml:"token" env:"TELEGRAM_TOKEN"`
		TokenFile          string `yaml:"tokenFile" env:"TELEGRAM_TOKEN_FILE"`
		PollTimeoutSeconds int    `yaml:"pollTimeoutSeconds" env:"TELEGRAM_POLL_TIMEOUT" validate:"gte=0"`
		Debug              bool   `yaml:"debug" env:"TELEGRAM_DEBUG"`
		Enabled            bool   `yaml:"enabled" env:"TELEGRAM_ENABLED"`
	} `yaml:"telegram"`
	Board struct {
		URL            string `yaml:"url" env:"BOARD_URL" validate:"required,url"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" env:"BOARD_TIMEOUT" validate:"gte=0"`
		UserAgent      string `yaml:"userAgent" env:"BOARD_USER_AGENT"`
	} `yaml:"board"`
	HTTP struct {
		Port    string `yaml:"port" env:"TRAM_HTTP_PORT"`
		Enabled bool   `yaml:"enabled" env:"TRAM_HTTP_ENABLED"`
	} `yaml:"http"`
	WebSocket struct {
		RefreshSeconds      int `yaml:"refreshSeconds" env:"TRAM_WS_REFRESH" validate:"gte=0"`
		PingIntervalSeconds int `yaml:"pingIntervalSeconds" env:"TRAM_WS_PING_INTERVAL" validate:"gte=0"`
		WriteTimeoutSeconds int `yaml:"writeTimeoutSeconds" env:"TRAM_WS_WRITE_TIMEOUT" validate:"gte=0"`
	} `yaml:"websocket"`
	Redis struct {
		Addr       string `yaml:"addr" env:"TRAM_REDIS_ADDR" validate:"omitempty,hostname_port"`
		Password   string `yaml:"password" env:"TRAM_REDIS_PASSWORD"`
		DB         int    `yaml:"db" env:"TRAM_REDIS_DB" validate:"gte=0"`
		TTLSeconds int    `yaml:"ttlSeconds" env:"TRAM_REDIS_TTL" validate:"gte=0"`
	} `yaml:"redis"`
}

// Load configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.Telegram.TokenFile = defaultTokenFile
	cfg.Telegram.PollTimeoutSeconds = 60
	cfg.Telegram.Enabled = true
	cfg.Board.URL = defaultBoardURL
	cfg.Board.TimeoutSeconds = 10
	cfg.Board.UserAgent = defaultUserAgent
	cfg.HTTP.Port = "8080"
	cfg.HTTP.Enabled = true
	cfg.WebSocket.RefreshSeconds = 30
	cfg.WebSocket.PingIntervalSeconds = 30
	cfg.WebSocket.WriteTimeoutSeconds = 10
	cfg.Redis.TTLSeconds = int((30 * 24 * time.Hour).Seconds())

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if err := cfg.resolveToken(); err != nil {
		return nil, err
	}
	if !cfg.Telegram.Enabled && !cfg.HTTP.Enabled {
		return nil, errors.New("config: telegram and http both disabled")
	}
	return cfg, nil
}

// resolveToken falls back to the token file when no token was configured.
func (c *Config) resolveToken() error {
	c.Telegram.Token = strings.TrimSpace(c.Telegram.Token)
	if c.Telegram.Token != "" || !c.Telegram.Enabled {
		return nil
	}

	path := strings.TrimSpace(c.Telegram.TokenFile)
	if path == "" {
		return errors.New("config: telegram token required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.New("config: telegram token required")
		}
		return fmt.Errorf("config: read token file: %w", err)
	}
	c.Telegram.Token = strings.TrimSpace(string(data))
	if c.Telegram.Token == "" {
		return fmt.Errorf("config: token file %s is empty", path)
	}
	return nil
}

// HTTPAddress returns :port style; a value that already holds a host is kept.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// BoardTimeout returns the upstream fetch timeout.
func (c *Config) BoardTimeout() time.Duration {
	return seconds(c.Board.TimeoutSeconds, 10*time.Second)
}

// RefreshInterval returns how often live boards are re-fetched.
func (c *Config) RefreshInterval() time.Duration {
	return seconds(c.WebSocket.RefreshSeconds, 30*time.Second)
}

// PingInterval returns websocket keep-alive period.
func (c *Config) PingInterval() time.Duration {
	return seconds(c.WebSocket.PingIntervalSeconds, 30*time.Second)
}

// WriteTimeout returns websocket write deadline.
func (c *Config) WriteTimeout() time.Duration {
	return seconds(c.WebSocket.WriteTimeoutSeconds, 10*time.Second)
}

// SessionTTL returns how long redis keeps a session.
func (c *Config) SessionTTL() time.Duration {
	return seconds(c.Redis.TTLSeconds, 30*24*time.Hour)
}

func seconds(v int, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return time.Duration(v) * time.Second
}
