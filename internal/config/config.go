package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAppVersion      = "1.0.0"
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "apartments.db"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultCloudFolder     = "apartments"
	defaultUploadDir       = "./uploads"
	defaultUploadURLBase   = "/static/uploads"
	defaultShutdownTimeout = "10s"
	defaultDebug           = "false"

	ImageStoreCloudinary = "cloudinary"
	ImageStoreLocal      = "local"
)

type Config struct {
	AppEnv          string
	AppDebug        bool
	AppVersion      string
	HTTPAddr        string
	DatabaseURL     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	ImageStore string
	Cloudinary CloudinaryConfig
	Upload     UploadConfig
}

type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Configured reports whether enough credentials are present to talk to Cloudinary.
func (c CloudinaryConfig) Configured() bool {
	if c.URL != "" {
		return true
	}
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type UploadConfig struct {
	Dir     string
	URLBase string
}

// Load reads the process environment. Call godotenv.Load first to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.AppDebug = parseBoolEnv("APP_DEBUG", defaultDebug)
	cfg.AppVersion = strings.TrimSpace(getEnv("APP_VERSION", defaultAppVersion))
	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))
	cfg.LogFormat = strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat))
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	cfg.Cloudinary = CloudinaryConfig{
		URL:       strings.TrimSpace(os.Getenv("CLOUDINARY_URL")),
		CloudName: strings.TrimSpace(os.Getenv("CLOUDINARY_CLOUD_NAME")),
		APIKey:    strings.TrimSpace(os.Getenv("CLOUDINARY_API_KEY")),
		APISecret: strings.TrimSpace(os.Getenv("CLOUDINARY_API_SECRET")),
		Folder:    strings.Trim(strings.TrimSpace(getEnv("CLOUDINARY_FOLDER", defaultCloudFolder)), "/"),
	}
	cfg.Upload = UploadConfig{
		Dir:     strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir)),
		URLBase: strings.TrimRight(strings.TrimSpace(getEnv("UPLOAD_URL_BASE", defaultUploadURLBase)), "/"),
	}

	cfg.ImageStore = strings.ToLower(strings.TrimSpace(os.Getenv("IMAGE_STORE")))
	if cfg.ImageStore == "" {
		cfg.ImageStore = ImageStoreLocal
		if cfg.Cloudinary.Configured() {
			cfg.ImageStore = ImageStoreCloudinary
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}

	switch cfg.ImageStore {
	case ImageStoreCloudinary:
		if !cfg.Cloudinary.Configured() {
			return fmt.Errorf("IMAGE_STORE=cloudinary requires CLOUDINARY_URL or CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	case ImageStoreLocal:
		if cfg.Upload.Dir == "" {
			return fmt.Errorf("UPLOAD_DIR must not be empty when IMAGE_STORE=local")
		}
		if cfg.Upload.URLBase == "" {
			return fmt.Errorf("UPLOAD_URL_BASE must not be empty when IMAGE_STORE=local")
		}
	default:
		return fmt.Errorf("IMAGE_STORE must be one of: cloudinary, local")
	}

	if isProdLike(cfg.AppEnv) {
		if cfg.AppDebug {
			return fmt.Errorf("in prod/release APP_DEBUG must be false")
		}
		if cfg.ImageStore != ImageStoreCloudinary {
			return fmt.Errorf("in prod/release IMAGE_STORE must be cloudinary")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
