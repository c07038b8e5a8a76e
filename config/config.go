package configs

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	MailBackendConsole  = "console"
	MailBackendKafka    = "kafka"
	MailBackendSendGrid = "sendgrid"
)

type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Course        CourseConfig        `yaml:"course"`
	Storage       StorageConfig       `yaml:"storage"`
	Returns       ReturnsConfig       `yaml:"returns"`
	Mail          MailConfig          `yaml:"mail"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	DB            DBConfig            `yaml:"db"`
	ArchiveMirror ArchiveMirrorConfig `yaml:"archive_mirror"`
	Log           LogConfig           `yaml:"log"`
}

type HTTPConfig struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"5m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type CourseConfig struct {
	Name              string `yaml:"name" env:"COURSE_NAME" env-default:"course"`
	EmailDomain       string `yaml:"email_domain" env:"COURSE_EMAIL_DOMAIN"`
	SubmissionAddress string `yaml:"submission_address" env:"COURSE_SUBMISSION_ADDRESS"`
	RosterPath        string `yaml:"roster_path" env:"COURSE_ROSTER_PATH" env-default:"course/roster.csv"`
	CatalogPath       string `yaml:"catalog_path" env:"COURSE_CATALOG_PATH" env-default:"course/catalog.yaml"`
	FileExtension     string `yaml:"file_extension" env:"COURSE_FILE_EXTENSION" env-default:".ipynb"`
}

type StorageConfig struct {
	InboxDir   string `yaml:"inbox_dir" env:"STORAGE_INBOX_DIR" env-default:"data/inbox"`
	ActiveDir  string `yaml:"active_dir" env:"STORAGE_ACTIVE_DIR" env-default:"data/assignments"`
	ArchiveDir string `yaml:"archive_dir" env:"STORAGE_ARCHIVE_DIR" env-default:"data/archive"`
}

type ReturnsConfig struct {
	Pacing time.Duration `yaml:"pacing" env:"RETURNS_PACING" env-default:"1s"`
}

type MailConfig struct {
	Backend       string        `yaml:"backend" env:"MAIL_BACKEND" env-default:"console"`
	FromName      string        `yaml:"from_name" env:"MAIL_FROM_NAME"`
	FromAddress   string        `yaml:"from_address" env:"MAIL_FROM_ADDRESS"`
	SendGridKey   string        `yaml:"sendgrid_key" env:"SENDGRID_API_KEY"` //nolint:gosec // config struct, not hardcoded cred
	SendGridHost  string        `yaml:"sendgrid_host" env:"SENDGRID_HOST"`
	RetryAttempts int           `yaml:"retry_attempts" env:"MAIL_RETRY_ATTEMPTS" env-default:"3"`
	RetryDelay    time.Duration `yaml:"retry_delay" env:"MAIL_RETRY_DELAY" env-default:"500ms"`
}

type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic        string        `yaml:"topic" env:"KAFKA_TOPIC" env-default:"coursework-notifications"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"KAFKA_WRITE_TIMEOUT" env-default:"10s"`
}

type DBConfig struct {
	Enabled        bool   `yaml:"enabled" env:"DB_ENABLED" env-default:"false"`
	Host           string `yaml:"host" env:"DB_HOST"`
	Port           int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User           string `yaml:"user" env:"DB_USER"`
	Password       string `yaml:"password" env:"DB_PASSWORD"` //nolint:gosec // config struct, not hardcoded cred
	DBName         string `yaml:"dbname" env:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" env:"DB_SSL_MODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"DB_MIGRATIONS_PATH" env-default:"file://migrations"`
}

type ArchiveMirrorConfig struct {
	Enabled         bool   `yaml:"enabled" env:"ARCHIVE_MIRROR_ENABLED" env-default:"false"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"` //nolint:gosec // config struct, not hardcoded cred
	Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
	Prefix          string `yaml:"prefix" env:"S3_PREFIX"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

// Load reads the config file found by getConfigPath, or only the
// environment when there is none.
func Load() (*Config, error) {
	return LoadFrom(getConfigPath())
}

func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from env: %w", err)
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	possiblePaths := []string{
		"config/config.yaml",
		"/etc/coursework-service/config.yaml",
		"./config.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "config.yaml"
}

func validateConfig(cfg *Config) error {
	if cfg.HTTP.Address == "" {
		return fmt.Errorf("HTTP address must be set")
	}

	if cfg.Course.RosterPath == "" || cfg.Course.CatalogPath == "" {
		return fmt.Errorf("course roster and catalog paths must be set")
	}

	if cfg.Storage.InboxDir == "" || cfg.Storage.ActiveDir == "" || cfg.Storage.ArchiveDir == "" {
		return fmt.Errorf("storage directories must be set")
	}

	if cfg.Returns.Pacing < 0 {
		return fmt.Errorf("returns pacing must not be negative")
	}

	switch cfg.Mail.Backend {
	case MailBackendConsole:
	case MailBackendKafka:
		if len(cfg.Kafka.Brokers) == 0 {
			return fmt.Errorf("at least one Kafka broker must be specified")
		}
	case MailBackendSendGrid:
		if cfg.Mail.SendGridKey == "" || cfg.Mail.FromAddress == "" {
			return fmt.Errorf("sendgrid key and from address must be specified")
		}
	default:
		return fmt.Errorf("unknown mail backend %q", cfg.Mail.Backend)
	}

	if cfg.DB.Enabled && (cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.DBName == "") {
		return fmt.Errorf("database configuration is incomplete")
	}

	if cfg.ArchiveMirror.Enabled && cfg.ArchiveMirror.Bucket == "" {
		return fmt.Errorf("archive mirror bucket must be specified")
	}

	return nil
}
