package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures provider credentials, fetch limits, classification settings,
// and the verdict cache location.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Provider    ProviderConfig    `yaml:"provider"`
	Classify    ClassifyConfig    `yaml:"classify"`
	Cache       CacheConfig       `yaml:"cache"`
	Server      ServerConfig      `yaml:"server"`
}

type CredentialsConfig struct {
	// Content-retrieval API key. If empty, read from env EXA_API_KEY.
	ExaAPIKey string `yaml:"exaApiKey"`
	// Classification API key. If empty, read from env GEMINI_API_KEY.
	GeminiAPIKey string `yaml:"geminiApiKey"`
}

type ProviderConfig struct {
	// Provider API base URL; empty selects the hosted endpoint.
	BaseURL string `yaml:"baseUrl"`
	// Max posts fetched per analysis (search results requested).
	MaxPosts int `yaml:"maxPosts"`
	// Domains the post search is restricted to.
	Domains []string `yaml:"domains"`
}

type ClassifyConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

type CacheConfig struct {
	DBPath string `yaml:"dbPath"`
	// Verdicts older than this many hours are re-computed. 0 disables expiry.
	TTLHours int `yaml:"ttlHours"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metricsAddr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Provider: ProviderConfig{
			MaxPosts: 10,
			Domains:  []string{"x.com", "twitter.com"},
		},
		Classify: ClassifyConfig{Model: "gemini-1.5-flash", Temperature: 0.4},
		Cache:    CacheConfig{DBPath: "./toxicheck.db", TTLHours: 24},
		Server:   ServerConfig{Addr: ":8080", MetricsAddr: ""},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Credentials.ExaAPIKey == "" {
		c.Credentials.ExaAPIKey = os.Getenv("EXA_API_KEY")
	}
	if c.Credentials.GeminiAPIKey == "" {
		c.Credentials.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
