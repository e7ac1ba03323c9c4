package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"backoffice"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address         string `envconfig:"BACKOFFICE_ADDRESS" default:":3443"`
	MetricsAddress  string `envconfig:"BACKOFFICE_METRICS_ADDRESS" default:":8080"`
	BaseUrl         string `envconfig:"BACKOFFICE_BASE_URL" default:"https://localhost:3443"`
	LogLevel        string `envconfig:"BACKOFFICE_LOG_LEVEL" default:"info"`
	MigrationFolder string `envconfig:"BACKOFFICE_MIGRATIONS_FOLDER" default:""`

	// Background sweep cadence; both sweeps are idempotent so the exact
	// period is not load-bearing.
	ExpirySweepInterval  time.Duration `envconfig:"BACKOFFICE_EXPIRY_SWEEP_INTERVAL" default:"15m"`
	BucketRepairInterval time.Duration `envconfig:"BACKOFFICE_BUCKET_REPAIR_INTERVAL" default:"30m"`

	Kafka kafkaConfig
}

type kafkaConfig struct {
	Brokers  []string `envconfig:"BACKOFFICE_KAFKA_BROKERS" default:""`
	Topic    string   `envconfig:"BACKOFFICE_KAFKA_TOPIC" default:""`
	ClientID string   `envconfig:"BACKOFFICE_KAFKA_CLIENT_ID" default:"backoffice-api"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault builds a config without consulting the environment; tests use
// it with an in-memory sqlite store.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{Type: "sqlite", Name: "file::memory:?cache=shared"},
		Service:  &svcConfig{LogLevel: "info"},
	}
}
