package config

import (
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
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"esteira_oficios"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address                 string `envconfig:"OFICIOS_ADDRESS" default:":3443"`
	MetricsAddress          string `envconfig:"OFICIOS_METRICS_ADDRESS" default:":8080"`
	BaseUrl                 string `envconfig:"OFICIOS_BASE_URL" default:"https://localhost:3443"`
	LogLevel                string `envconfig:"OFICIOS_LOG_LEVEL" default:"info"`
	MailRelayUrl            string `envconfig:"OFICIOS_MAIL_RELAY_URL" default:"http://localhost:8025"`
	MailRelaySender         string `envconfig:"OFICIOS_MAIL_RELAY_SENDER" default:""`
	ClassifierUrl           string `envconfig:"OFICIOS_CLASSIFIER_URL" default:"http://localhost:8000"`
	ClassifierModel         string `envconfig:"OFICIOS_CLASSIFIER_MODEL" default:"gpt-4o"`
	ValidationSweepInterval string `envconfig:"OFICIOS_VALIDATION_SWEEP_INTERVAL" default:""`
	ValidationSweepLimit    int    `envconfig:"OFICIOS_VALIDATION_SWEEP_LIMIT" default:"50"`
	Auth                    Auth
}

type Auth struct {
	TokenSigningKey string `envconfig:"OFICIOS_TOKEN_SIGNING_KEY" default:""`
	TokenTTL        string `envconfig:"OFICIOS_TOKEN_TTL" default:"8h"`
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

// NewDefault returns a config without reading the environment. Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: "file::memory:?cache=shared",
		},
		Service: &svcConfig{
			Address:         ":3443",
			MetricsAddress:  ":8080",
			LogLevel:        "debug",
			ClassifierModel: "gpt-4o",
			Auth: Auth{
				TokenSigningKey: "insecure-test-key",
				TokenTTL:        "8h",
			},
		},
	}
}
