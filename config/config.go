package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Game     GameConfig     `yaml:"game"`
	Storage  StorageConfig  `yaml:"storage"`
	DB       DBConfig       `yaml:"db"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	S3       S3Config       `yaml:"s3"`
	Auth     AuthConfig     `yaml:"auth"`
	LogLevel string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

type ServerConfig struct {
	HTTPPort       string   `yaml:"http_port" env:"HTTP_PORT" env-default:"8080"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`
}

// GameConfig holds the tunables of the quiz loop.
type GameConfig struct {
	SessionDuration time.Duration `yaml:"session_duration" env:"SESSION_DURATION" env-default:"30s"`
	RearmDelay      time.Duration `yaml:"rearm_delay" env:"REARM_DELAY" env-default:"1500ms"`
	RewardPoints    int           `yaml:"reward_points" env:"REWARD_POINTS" env-default:"10"`
	QuestionsFile   string        `yaml:"questions_file" env:"QUESTIONS_FILE"`
	QuestionsBucket string        `yaml:"questions_bucket" env:"QUESTIONS_S3_BUCKET"`
	QuestionsObject string        `yaml:"questions_object" env:"QUESTIONS_S3_OBJECT" env-default:"questions.yaml"`
}

type StorageConfig struct {
	// Driver is one of memory, redis, postgres, sqlite.
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"learning-timer.db"`
}

type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"postgres"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"learning"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"learning_password"`
	DBName   string `yaml:"db_name" env:"DB_NAME" env-default:"learning"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSLMODE" env-default:"disable"`
}

type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"redis"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host" env:"RABBITMQ_HOST"`
	Port     string `yaml:"port" env:"RABBITMQ_PORT" env-default:"5672"`
	User     string `yaml:"user" env:"RABBITMQ_USER" env-default:"guest"`
	Password string `yaml:"password" env:"RABBITMQ_PASSWORD" env-default:"guest"`
	Queue    string `yaml:"queue" env:"RABBITMQ_QUEUE" env-default:"learning.progress"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"minio:9000"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	UseSSL    bool   `yaml:"use_ssl" env:"S3_USE_SSL" env-default:"false"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

// Load reads the YAML file at CONFIG_PATH when set and overlays environment variables.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load that exits the process on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
