package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Downloader DownloaderConfig `yaml:"downloader"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"3001"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"5m"`
}

// StorageConfig holds filesystem storage configuration.
type StorageConfig struct {
	DownloadDir string `yaml:"download_dir" envconfig:"DOWNLOAD_DIR" default:"./downloaded_videos"`
}

// YouTubeConfig holds search provider configuration. An empty APIKey is
// allowed at startup; search requests fail until one is configured.
type YouTubeConfig struct {
	APIKey  string        `yaml:"api_key" envconfig:"YOUTUBE_API_KEY"`
	BaseURL string        `yaml:"base_url" envconfig:"YOUTUBE_API_BASE" default:"https://www.googleapis.com/youtube/v3"`
	Timeout time.Duration `yaml:"timeout" envconfig:"YOUTUBE_TIMEOUT" default:"10s"`
}

// DownloaderConfig holds yt-dlp invocation configuration.
type DownloaderConfig struct {
	Binary string `yaml:"binary" envconfig:"YTDLP_BINARY" default:"yt-dlp"`
	Format string `yaml:"format" envconfig:"YTDLP_FORMAT" default:"best[ext=mp4]/best"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Storage.DownloadDir == "" {
		return fmt.Errorf("DOWNLOAD_DIR is required")
	}
	if c.Downloader.Binary == "" {
		return fmt.Errorf("YTDLP_BINARY is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT %d out of range", c.Server.Port)
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
