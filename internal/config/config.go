package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type UPIConfig struct {
	Env          string `yaml:"env" env:"UPI_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	UPIDB        `yaml:"upi_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	Sweeper      `yaml:"sweeper"`
	Audit        `yaml:"audit"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type UPIDB struct {
	Dsn string `yaml:"dsn" env:"UPI_DB_DSN"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"upi-order-events"`
}

type Sweeper struct {
	Interval   time.Duration `yaml:"interval" env-default:"1m"`
	BatchLimit int32         `yaml:"batch_limit" env-default:"500"`
}

type Audit struct {
	RetentionDays   int           `yaml:"retention_days" env-default:"90"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env-default:"24h"`
	RetryQueueSize  int           `yaml:"retry_queue_size" env-default:"1024"`
	RetryDrainEvery time.Duration `yaml:"retry_drain_every" env-default:"5s"`
}

func MustLoad() *UPIConfig {

	// .env is optional, real deployments inject variables directly
	_ = godotenv.Load()

	configPath := os.Getenv("UPI_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("UPI_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg UPIConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
