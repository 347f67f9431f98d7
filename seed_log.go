package logviewer

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SampleLogs is the demo data written by SeedSampleLogs.
var SampleLogs = []LogEntry{
	{
		ID:         "sample-1",
		Level:      Info,
		Message:    "Application started successfully",
		ResourceID: "app-server-001",
		Timestamp:  "2024-01-15T10:00:00.000Z",
		TraceID:    "trace-123456",
		SpanID:     "span-001",
		Commit:     "abc123def",
	},
	{
		ID:         "sample-2",
		Level:      Warning,
		Message:    "High memory usage detected",
		ResourceID: "monitoring-001",
		Timestamp:  "2024-01-15T10:05:00.000Z",
		TraceID:    "trace-123457",
		SpanID:     "span-002",
		Commit:     "def456ghi",
	},
	{
		ID:         "sample-3",
		Level:      Error,
		Message:    "Database connection failed",
		ResourceID: "db-service-001",
		Timestamp:  "2024-01-15T10:10:00.000Z",
		TraceID:    "trace-123458",
		SpanID:     "span-003",
		Commit:     "ghi789jkl",
	},
	{
		ID:         "sample-4",
		Level:      Debug,
		Message:    "Processing user request",
		ResourceID: "api-gateway-001",
		Timestamp:  "2024-01-15T10:15:00.000Z",
		TraceID:    "trace-123459",
		SpanID:     "span-004",
		Commit:     "jkl012mno",
	},
}

// storageProber is implemented by repositories that can tell whether durable storage was ever written.
type storageProber interface {
	Exists() (bool, error)
}

// SeedSampleLogs writes SampleLogs when no collection exists yet. It reports whether anything was written.
// An existing file is never touched, even when it holds an empty or unreadable collection.
func SeedSampleLogs(ctx context.Context, logRepository LogRepository) (bool, error) {
	if prober, ok := logRepository.(storageProber); ok {
		exists, err := prober.Exists()
		if err != nil {
			log.Error().Err(err).Msg(msgSeedSampleLogsFailed)
			return false, ErrSeedSampleLogsFailed
		}
		if exists {
			log.Info().Msg("Log data file already exists, skipping sample data")
			return false, nil
		}
	}

	logs, err := logRepository.LoadLogs(ctx)
	if err != nil {
		return false, err
	}
	if len(logs) > 0 {
		log.Info().Int("count", len(logs)).Msg("Log collection is not empty, skipping sample data")
		return false, nil
	}

	if err = logRepository.SaveLogs(ctx, SampleLogs); err != nil {
		return false, err
	}
	log.Info().Int("count", len(SampleLogs)).Msg("Sample log data created")
	return true, nil
}
