package config

import (
	"github.com/rs/zerolog"

	"github.com/pkg/errors"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const MsgFailedToReadConfiguration = "failed to read configuration"

var ErrFailedToReadConfiguration = errors.New(MsgFailedToReadConfiguration)

const (
	FileStorage   = "file"
	MemoryStorage = "memory"
)

type Configuration struct {
	APIPort         uint16        `envconfig:"API_PORT" default:"3001"`
	ApplicationName string        `envconfig:"APPLICATION_NAME" default:"logviewer"`
	LogsFile        string        `envconfig:"LOGS_FILE" default:"logs.json"`
	StorageBackend  string        `envconfig:"STORAGE_BACKEND" default:"file"`
	StrictStorage   bool          `envconfig:"STRICT_STORAGE" default:"false"`
	SeedSampleData  bool          `envconfig:"SEED_SAMPLE_DATA" default:"false"`
	PermittedOrigin string        `envconfig:"PERMITTED_ORIGIN_URL" default:"*"`
	Development     bool          `envconfig:"DEVELOPMENT" default:"false"`
	EnableMetrics   bool          `envconfig:"ENABLE_METRICS" default:"true"`
	LogLevel        zerolog.Level `envconfig:"LOG_LEVEL" default:"1"`
}

func ReadConfiguration() (Configuration, error) {
	var config Configuration
	err := envconfig.Process("", &config)
	if err != nil {
		err = errors.Wrap(err, MsgFailedToReadConfiguration)
		log.Error().Err(err).Msgf("%s\n", ErrFailedToReadConfiguration)
		return config, err
	}
	return config, nil
}
