package logviewer

import (
	"context"
	"sync"

	"github.com/blutspende/logviewer/metrics"
	"github.com/blutspende/logviewer/utils"
	"github.com/rs/zerolog/log"
)

type LogService interface {
	CreateLog(ctx context.Context, draft LogEntryDraft) (LogEntry, error)
	GetLogs(ctx context.Context, filter LogFilter) ([]LogEntry, error)
	DeleteLog(ctx context.Context, id string) (LogEntry, error)
	DeleteAllLogs(ctx context.Context) error
}

// logService serialises every load-mutate-save cycle through one mutex so concurrent
// requests inside this process cannot overwrite each other's changes.
type logService struct {
	logRepository LogRepository
	mutex         sync.Mutex
}

func NewLogService(logRepository LogRepository) LogService {
	log.Trace().Msg("Creating new log service")
	return &logService{
		logRepository: logRepository,
	}
}

func (s *logService) CreateLog(ctx context.Context, draft LogEntryDraft) (LogEntry, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	logs, err := s.logRepository.LoadLogs(ctx)
	if err != nil {
		return LogEntry{}, err
	}

	entry := draft.toLogEntry(s.logRepository.GenerateID())
	logs = append(logs, entry)
	if err = s.logRepository.SaveLogs(ctx, logs); err != nil {
		return LogEntry{}, err
	}

	metrics.LogsCreatedTotal.Inc()
	log.Debug().Str("id", entry.ID).Str("logLevel", string(entry.Level)).Msg("Log created")
	return entry, nil
}

func (s *logService) GetLogs(ctx context.Context, filter LogFilter) ([]LogEntry, error) {
	s.mutex.Lock()
	logs, err := s.logRepository.LoadLogs(ctx)
	s.mutex.Unlock()
	if err != nil {
		return nil, err
	}

	log.Trace().Interface("filter", filter).Int("total", len(logs)).Msg("Filtering logs")
	return ApplyLogFilter(logs, filter), nil
}

func (s *logService) DeleteLog(ctx context.Context, id string) (LogEntry, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	logs, err := s.logRepository.LoadLogs(ctx)
	if err != nil {
		return LogEntry{}, err
	}

	index := -1
	for i := range logs {
		if logs[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return LogEntry{}, ErrLogNotFound
	}

	deleted := logs[index]
	if err = s.logRepository.SaveLogs(ctx, utils.RemoveIndex(logs, index)); err != nil {
		return LogEntry{}, err
	}

	metrics.LogsDeletedTotal.Inc()
	log.Debug().Str("id", id).Msg("Log deleted")
	return deleted, nil
}

func (s *logService) DeleteAllLogs(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.logRepository.SaveLogs(ctx, []LogEntry{}); err != nil {
		return err
	}

	log.Debug().Msg("All logs cleared")
	return nil
}
