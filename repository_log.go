package logviewer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/blutspende/logviewer/config"
	"github.com/blutspende/logviewer/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LogRepository owns the persisted log collection. Implementations keep no state between calls
// that callers could observe: LoadLogs always returns the current durable state.
type LogRepository interface {
	LoadLogs(ctx context.Context) ([]LogEntry, error)
	SaveLogs(ctx context.Context, logs []LogEntry) error
	GenerateID() string
}

func NewLogRepository(configuration *config.Configuration) (LogRepository, error) {
	switch configuration.StorageBackend {
	case config.FileStorage, "":
		return NewFileLogRepository(configuration.LogsFile, configuration.StrictStorage), nil
	case config.MemoryStorage:
		return NewMemoryLogRepository(), nil
	}
	log.Error().Str("backend", configuration.StorageBackend).Msg(msgUnknownStorageType)
	return nil, errors.Wrap(ErrUnknownStorageType, configuration.StorageBackend)
}

type fileLogRepository struct {
	path   string
	strict bool
}

func NewFileLogRepository(path string, strict bool) LogRepository {
	log.Trace().Str("path", path).Msg("Creating new file log repository")
	return &fileLogRepository{
		path:   path,
		strict: strict,
	}
}

func (r *fileLogRepository) LoadLogs(ctx context.Context) ([]LogEntry, error) {
	log.Trace().Str("path", r.path).Msg("Loading logs")
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			metrics.StoreOperation(metrics.OperationLoad, metrics.StatusOK)
			return []LogEntry{}, nil
		}
		metrics.StoreOperation(metrics.OperationLoad, metrics.StatusError)
		log.Error().Err(err).Str("path", r.path).Msg(msgLoadLogsFailed)
		return nil, ErrLoadLogsFailed
	}

	logs, err := decodeLogs(data)
	if err != nil {
		metrics.StoreOperation(metrics.OperationLoad, metrics.StatusCorrupted)
		if r.strict {
			log.Error().Err(err).Str("path", r.path).Msg(msgStorageCorrupted)
			return nil, ErrStorageCorrupted
		}
		log.Warn().Err(err).Str("path", r.path).Msg(msgStorageCorrupted + ", treating it as empty")
		return []LogEntry{}, nil
	}

	metrics.StoreOperation(metrics.OperationLoad, metrics.StatusOK)
	return logs, nil
}

func (r *fileLogRepository) SaveLogs(ctx context.Context, logs []LogEntry) error {
	log.Trace().Str("path", r.path).Int("count", len(logs)).Msg("Saving logs")
	data, err := encodeLogs(logs)
	if err != nil {
		metrics.StoreOperation(metrics.OperationSave, metrics.StatusError)
		log.Error().Err(err).Msg(msgSaveLogsFailed)
		return ErrSaveLogsFailed
	}

	if err = writeFileReplacing(r.path, data); err != nil {
		metrics.StoreOperation(metrics.OperationSave, metrics.StatusError)
		log.Error().Err(err).Str("path", r.path).Msg(msgSaveLogsFailed)
		return ErrSaveLogsFailed
	}

	metrics.StoreOperation(metrics.OperationSave, metrics.StatusOK)
	return nil
}

func (r *fileLogRepository) GenerateID() string {
	return generateLogID()
}

// Exists reports whether the data file has been written before.
func (r *fileLogRepository) Exists() (bool, error) {
	_, err := os.Stat(r.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// writeFileReplacing writes next to the target and renames over it, so readers never see a half written file.
func writeFileReplacing(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var errTrailingData = errors.New("unexpected data after log collection")

func decodeLogs(data []byte) ([]LogEntry, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var logs []LogEntry
	if err := decoder.Decode(&logs); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	if logs == nil {
		logs = []LogEntry{}
	}
	return logs, nil
}

func encodeLogs(logs []LogEntry) ([]byte, error) {
	if logs == nil {
		logs = []LogEntry{}
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(logs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// generateLogID combines a millisecond timestamp with random bits (UUIDv7).
func generateLogID() string {
	id, err := uuid.NewV7()
	if err != nil {
		log.Warn().Err(err).Msg("Generating time ordered log ID failed, falling back to random ID")
		return uuid.NewString()
	}
	return id.String()
}

type memoryLogRepository struct {
	mutex *sync.Mutex
	logs  []LogEntry
}

func NewMemoryLogRepository() LogRepository {
	log.Trace().Msg("Creating new memory log repository")
	return &memoryLogRepository{
		mutex: &sync.Mutex{},
		logs:  []LogEntry{},
	}
}

func (r *memoryLogRepository) LoadLogs(ctx context.Context) ([]LogEntry, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	metrics.StoreOperation(metrics.OperationLoad, metrics.StatusOK)
	return copyLogs(r.logs), nil
}

func (r *memoryLogRepository) SaveLogs(ctx context.Context, logs []LogEntry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.logs = copyLogs(logs)
	metrics.StoreOperation(metrics.OperationSave, metrics.StatusOK)
	return nil
}

func (r *memoryLogRepository) GenerateID() string {
	return generateLogID()
}

// copyLogs deep-copies entries including their metadata, so callers never share maps with the store.
func copyLogs(logs []LogEntry) []LogEntry {
	out := make([]LogEntry, len(logs))
	for i, entry := range logs {
		if entry.Metadata != nil {
			entry.Metadata = copyMetadataValue(entry.Metadata).(map[string]interface{})
		}
		out[i] = entry
	}
	return out
}

func copyMetadataValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		copied := make(map[string]interface{}, len(typed))
		for key, item := range typed {
			copied[key] = copyMetadataValue(item)
		}
		return copied
	case []interface{}:
		copied := make([]interface{}, len(typed))
		for i, item := range typed {
			copied[i] = copyMetadataValue(item)
		}
		return copied
	}
	return value
}
