package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yaml"

type JWTConfig struct {
	Secret              string        `yaml:"secret"`
	AccessExpires       time.Duration `yaml:"access_expires"`
	RefreshExpires      time.Duration `yaml:"refresh_expires"`
	DenylistEnabled     *bool         `yaml:"denylist_enabled"`
	DenylistTokenChecks []string      `yaml:"denylist_token_checks"`
	// при false refresh-токен уходит без user-claims
	RefreshEmbedsClaims *bool `yaml:"refresh_embeds_claims"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type MobizonConfig struct {
	APIKey   string `yaml:"api_key"`
	SenderID string `yaml:"sender_id"`
	DryRun   bool   `yaml:"dry_run"`
}

type CodesConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	PurgeAfter time.Duration `yaml:"purge_after"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN          string        `yaml:"url"`
		StoreTimeout time.Duration `yaml:"store_timeout"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	JWT     JWTConfig     `yaml:"jwt"`
	Redis   RedisConfig   `yaml:"redis"`
	Codes   CodesConfig   `yaml:"codes"`
	Mobizon MobizonConfig `yaml:"mobizon"`
}

// LoadConfig читает config/config.yaml (или SHOPAUTH_CONFIG) и падает при ошибке.
func LoadConfig() *Config {
	path := strings.TrimSpace(os.Getenv("SHOPAUTH_CONFIG"))
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := Load(path)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// секреты и адреса можно переопределить из окружения
func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		c.JWT.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		c.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_ADDR")); v != "" {
		c.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("SMTP_PASSWORD")); v != "" {
		c.Email.SMTPPassword = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.StoreTimeout <= 0 {
		c.Database.StoreTimeout = 5 * time.Second
	}
	if c.JWT.AccessExpires == 0 {
		c.JWT.AccessExpires = 15 * time.Minute
	}
	if c.JWT.RefreshExpires == 0 {
		c.JWT.RefreshExpires = 30 * 24 * time.Hour
	}
	if len(c.JWT.DenylistTokenChecks) == 0 {
		c.JWT.DenylistTokenChecks = []string{"access", "refresh"}
	}
	if c.JWT.DenylistEnabled == nil {
		t := true
		c.JWT.DenylistEnabled = &t
	}
	if c.JWT.RefreshEmbedsClaims == nil {
		t := true
		c.JWT.RefreshEmbedsClaims = &t
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "denylist:"
	}
	if c.Codes.TTL == 0 {
		c.Codes.TTL = 2 * time.Minute
	}
	if c.Codes.PurgeAfter == 0 {
		c.Codes.PurgeAfter = 24 * time.Hour
	}
}

func (c *Config) Validate() error {
	// HMAC-SHA256: ключ не короче 32 байт
	if len(c.JWT.Secret) < 32 {
		return errors.New("jwt.secret must be at least 32 bytes")
	}
	if c.JWT.AccessExpires < 0 || c.JWT.RefreshExpires < 0 {
		return errors.New("jwt token lifetimes must be positive")
	}
	if c.JWT.AccessExpires > c.JWT.RefreshExpires {
		return errors.New("jwt.access_expires must not exceed jwt.refresh_expires")
	}
	if c.Codes.TTL < 0 || c.Codes.PurgeAfter < 0 {
		return errors.New("codes durations must be positive")
	}
	for _, t := range c.JWT.DenylistTokenChecks {
		if t != "access" && t != "refresh" {
			return fmt.Errorf("jwt.denylist_token_checks: unknown token type %q", t)
		}
	}
	return nil
}
