package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/blutspende/logviewer"
	"github.com/blutspende/logviewer/config"
	"github.com/rs/zerolog/log"
)

func main() {
	configuration, err := config.ReadConfiguration()
	if err != nil {
		os.Exit(1)
	}
	logviewer.ConfigureLogger(configuration.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, &configuration); err != nil {
		log.Fatal().Err(err).Msg(logviewer.ApiFailedToStartMsg)
	}
}

// run wires storage, service and API and serves until ctx is cancelled.
func run(ctx context.Context, configuration *config.Configuration) error {
	logRepository, err := logviewer.NewLogRepository(configuration)
	if err != nil {
		return err
	}

	if configuration.SeedSampleData {
		if _, err = logviewer.SeedSampleLogs(ctx, logRepository); err != nil {
			log.Error().Err(err).Msg("Seeding sample logs failed")
			return err
		}
	}

	logService := logviewer.NewLogService(logRepository)
	api := logviewer.NewAPI(configuration, logService, logviewer.NewLogValidator())

	log.Info().
		Uint16("port", configuration.APIPort).
		Str("storage", configuration.StorageBackend).
		Str("file", configuration.LogsFile).
		Msg("Starting log viewer")

	return api.Run(ctx)
}
