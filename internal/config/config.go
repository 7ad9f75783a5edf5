package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	// Admin is the single shared back-office credential.
	Admin struct {
		Email        string `mapstructure:"email"`
		Password     string `mapstructure:"password"`
		PasswordHash string `mapstructure:"password_hash"`
		TOTPSecret   string `mapstructure:"totp_secret"`
		MaxAttempts  int    `mapstructure:"max_attempts"`
	} `mapstructure:"admin"`

	Mail struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		FromName string `mapstructure:"from_name"`
	} `mapstructure:"mail"`

	Brand BrandConfig `mapstructure:"brand"`

	Scheduler struct {
		Enabled           bool   `mapstructure:"enabled"`
		Spec              string `mapstructure:"spec"`
		ResetAfterMinutes int    `mapstructure:"reset_after_minutes"`
	} `mapstructure:"scheduler"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Archive ArchiveConfig `mapstructure:"archive"`

	Import struct {
		MaxUploadMB int `mapstructure:"max_upload_mb"`
	} `mapstructure:"import"`
}

type BrandConfig struct {
	Name         string `mapstructure:"name"`
	SupportEmail string `mapstructure:"support_email"`
	Phone        string `mapstructure:"phone"`
	Timezone     string `mapstructure:"timezone"`
}

// ArchiveConfig points at an S3-compatible bucket (AWS, R2, MinIO).
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	cfg, err := load("configs/config.yaml")
	if err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET not found in environment or config file")
	}
	if cfg.Admin.Email == "" || (cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "") {
		log.Printf("[Config] Admin credential not configured, admin login is disabled")
	}

	return cfg
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "shop-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "shop_db")
	v.SetDefault("admin.max_attempts", 5)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("brand.name", "SANT CORPORATION")
	v.SetDefault("brand.support_email", "support@santcorporation.com")
	v.SetDefault("brand.phone", "+1 (555) 123-4567")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.spec", "@every 1m")
	v.SetDefault("scheduler.reset_after_minutes", 60)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("archive.region", "auto")
	v.SetDefault("archive.prefix", "orders")
	v.SetDefault("import.max_upload_mb", 10)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// applyEnv overrides file values with the flat environment variable names
// deployments already use.
func applyEnv(cfg *Config) {
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}

	setString(&cfg.Admin.Email, "ADMIN_EMAIL")
	setString(&cfg.Admin.Password, "ADMIN_PASS")
	setString(&cfg.Admin.PasswordHash, "ADMIN_PASS_HASH")
	setString(&cfg.Admin.TOTPSecret, "ADMIN_TOTP_SECRET")

	setString(&cfg.Mail.User, "EMAIL_USER")
	setString(&cfg.Mail.Password, "EMAIL_PASS")
	setString(&cfg.Mail.Host, "SMTP_HOST")
	setInt(&cfg.Mail.Port, "SMTP_PORT")
	if cfg.Mail.User != "" && cfg.Mail.Password != "" {
		cfg.Mail.Enabled = true
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = cfg.Brand.Name
	}

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.Archive.Endpoint, "ARCHIVE_ENDPOINT")
	setString(&cfg.Archive.Region, "ARCHIVE_REGION")
	setString(&cfg.Archive.Bucket, "ARCHIVE_BUCKET")
	setString(&cfg.Archive.AccessKey, "ARCHIVE_ACCESS_KEY")
	setString(&cfg.Archive.SecretKey, "ARCHIVE_SECRET_KEY")
	if enabled := os.Getenv("ARCHIVE_ENABLED"); enabled != "" {
		cfg.Archive.Enabled = strings.EqualFold(enabled, "true") || enabled == "1"
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
