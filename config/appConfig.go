// Package config loads service settings and opens the MongoDB connection.
//
// Settings are layered: built-in defaults, then an optional YAML file
// (CONFIG_PATH or config.yaml), then environment variables. A .env file in
// the working directory is loaded into the environment first.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"

	ConfigPathEnvVar  = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
)

type Config struct {
	Port        string `koanf:"port"`
	Environment string `koanf:"environment"`

	StoreBackend      string        `koanf:"store_backend"`
	MongoURL          string        `koanf:"mongodb_url"`
	DBName            string        `koanf:"db_name"`
	DBTimeout         time.Duration `koanf:"db_timeout"`
	MongoTransactions bool          `koanf:"mongo_transactions"`

	JWTSecret  string        `koanf:"jwt_secret"`
	JWTTTL     time.Duration `koanf:"jwt_ttl"`
	AdminEmail string        `koanf:"admin_email"`

	FrontendURL string   `koanf:"frontend_url"`
	CORSOrigins []string `koanf:"cors_origins"`

	UploadDir      string `koanf:"upload_dir"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes"`
	ImageStore     string `koanf:"image_store"`
	S3Bucket       string `koanf:"s3_bucket"`
	S3Region       string `koanf:"s3_region"`
	S3PublicURL    string `koanf:"s3_public_url"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

func defaultConfig() Config {
	return Config{
		Port:              "8000",
		Environment:       "development",
		StoreBackend:      StoreMongo,
		DBName:            "cityfoodexplorer",
		DBTimeout:         10 * time.Second,
		MongoTransactions: false,
		JWTTTL:            time.Hour,
		CORSOrigins:       []string{"http://localhost:3000"},
		UploadDir:         "uploads",
		MaxUploadBytes:    5 << 20,
		ImageStore:        ImageStoreLocal,
		LogLevel:          "info",
		LogFormat:         "json",
		RateLimitRPS:      5,
		RateLimitBurst:    10,
	}
}

// LoadEnvFile loads .env into the process environment. A missing file is
// not an error.
func LoadEnvFile(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load builds the Config from defaults, the optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// PORT -> port, MONGODB_URL -> mongodb_url
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.applyLegacyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyLegacyEnv honours the variable names older deployments used.
func (c *Config) applyLegacyEnv() {
	if c.MongoURL == "" {
		c.MongoURL = os.Getenv("DB")
	}
	if c.JWTSecret == "" {
		c.JWTSecret = os.Getenv("SECRET_KEY")
	}
	if c.FrontendURL != "" && !contains(c.CORSOrigins, c.FrontendURL) {
		c.CORSOrigins = append(c.CORSOrigins, c.FrontendURL)
	}
}

func (c *Config) Validate() error {
	var problems []string

	if c.Port == "" {
		problems = append(problems, "PORT must not be empty")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is not set")
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, "JWT_TTL must be positive")
	}

	switch c.StoreBackend {
	case StoreMongo:
		if c.MongoURL == "" {
			problems = append(problems, "MONGODB_URL is not set")
		}
	case StoreMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORE_BACKEND %q is not one of mongo, memory", c.StoreBackend))
	}

	switch c.ImageStore {
	case ImageStoreLocal:
		if c.UploadDir == "" {
			problems = append(problems, "UPLOAD_DIR must not be empty")
		}
	case ImageStoreS3:
		if c.S3Bucket == "" {
			problems = append(problems, "S3_BUCKET is required when IMAGE_STORE=s3")
		}
	default:
		problems = append(problems, fmt.Sprintf("IMAGE_STORE %q is not one of local, s3", c.ImageStore))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
