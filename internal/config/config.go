package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"` // public base used to build return/cancel URLs
}

type AdminConfig struct {
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type QueueConfig struct {
	Name    string `yaml:"name"`    // settlement channel name
	Worker  bool   `yaml:"worker"`  // run a standing consumer loop
	Workers int    `yaml:"workers"` // consumer goroutines when worker=true
}

type PayPalConfig struct {
	ClientID     string  `yaml:"client_id"`
	ClientSecret string  `yaml:"client_secret"`
	Sandbox      bool    `yaml:"sandbox"`
	USDRate      float64 `yaml:"usd_rate"` // VND per USD quoting divisor
}

type VNPayConfig struct {
	TmnCode    string `yaml:"tmn_code"`
	HashSecret string `yaml:"hash_secret"`
	PayURL     string `yaml:"pay_url"`
}

type PaymentConfig struct {
	PayPal PayPalConfig `yaml:"paypal"`
	VNPay  VNPayConfig  `yaml:"vnpay"`
}

type SecurityConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Admin    AdminConfig    `yaml:"admin"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Queue    QueueConfig    `yaml:"queue"`
	Payment  PaymentConfig  `yaml:"payment"`
	Security SecurityConfig `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the yaml file, applies defaults and validates the minimum
// set of required values.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Admin.Port <= 0 {
		cfg.Admin.Port = 9090
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Queue.Name == "" {
		cfg.Queue.Name = "settlements"
	}
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 1
	}
	if cfg.Payment.PayPal.USDRate <= 0 {
		// Fixed VND->USD quoting divisor; an approximation, not live FX.
		cfg.Payment.PayPal.USDRate = 25000
	}
	if cfg.Payment.VNPay.PayURL == "" {
		cfg.Payment.VNPay.PayURL = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Server.BaseURL == "" {
		return nil, errors.New("server.base_url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
