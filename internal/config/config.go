package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env       string   `yaml:"env"`
	Port      string   `yaml:"port"`
	ClientURL string   `yaml:"client_url"`
	CORS      []string `yaml:"cors_origins"`
}

type JWTCfg struct {
	Secret          string        `yaml:"secret"`
	AccessTTL       time.Duration `yaml:"access_ttl"`
	RegistrationTTL time.Duration `yaml:"registration_ttl"`
}

type MailCfg struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type ImageHostCfg struct {
	UploadURL    string `yaml:"upload_url"`
	UploadPreset string `yaml:"upload_preset"`
	DefaultImage string `yaml:"default_image"`
}

type Config struct {
	App       AppCfg       `yaml:"app"`
	Database  struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	JWT       JWTCfg       `yaml:"jwt"`
	Mail      MailCfg      `yaml:"mail"`
	ImageHost ImageHostCfg `yaml:"imagehost"`
}

// Load reads the yaml config and overlays secrets from the environment, so a
// checked-in config.yaml never has to carry credentials. A missing file is
// fine; env alone can configure everything.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		_ = godotenv.Load()
	}

	cfg := &Config{}
	cfg.App.Env = "development"
	cfg.App.Port = "8080"
	cfg.JWT.AccessTTL = 24 * time.Hour
	cfg.JWT.RegistrationTTL = time.Hour

	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	overlay(&cfg.App.Env, "APP_ENV")
	overlay(&cfg.App.Port, "PORT")
	overlay(&cfg.App.ClientURL, "CLIENT_URL")
	overlay(&cfg.Database.URL, "DATABASE_URL")
	overlay(&cfg.Redis.URL, "REDIS_URL")
	overlay(&cfg.JWT.Secret, "JWT_SECRET")
	overlay(&cfg.Mail.APIKey, "MAIL_API_KEY")
	overlay(&cfg.Mail.FromEmail, "MAIL_FROM_EMAIL")
	overlay(&cfg.Mail.FromName, "MAIL_FROM_NAME")
	overlay(&cfg.ImageHost.UploadURL, "IMAGEHOST_UPLOAD_URL")
	overlay(&cfg.ImageHost.UploadPreset, "IMAGEHOST_UPLOAD_PRESET")
	overlay(&cfg.ImageHost.DefaultImage, "IMAGEHOST_DEFAULT_IMAGE")

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}

	return cfg, nil
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
