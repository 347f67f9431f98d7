package logviewer

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

type failingLogRepository struct {
	loadErr error
	saveErr error
	saved   int
}

func (r *failingLogRepository) LoadLogs(ctx context.Context) ([]LogEntry, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return []LogEntry{sampleLogEntry("existing")}, nil
}

func (r *failingLogRepository) SaveLogs(ctx context.Context, logs []LogEntry) error {
	r.saved++
	return r.saveErr
}

func (r *failingLogRepository) GenerateID() string {
	return "generated"
}

func sampleDraft(message string) LogEntryDraft {
	return LogEntryDraft{
		Level:      Warning,
		Message:    message,
		ResourceID: "monitoring-001",
		Timestamp:  "2024-01-15T10:05:00.000Z",
		TraceID:    "trace-123457",
		SpanID:     "span-002",
		Commit:     "def456ghi",
	}
}

func TestCreateLogAssignsIDAndPersists(t *testing.T) {
	repo := NewFileLogRepository(filepath.Join(t.TempDir(), "logs.json"), false)
	logService := NewLogService(repo)

	created, err := logService.CreateLog(context.Background(), sampleDraft("High memory usage detected"))
	assert.Nil(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, Warning, created.Level)

	logs, err := logService.GetLogs(context.Background(), LogFilter{})
	assert.Nil(t, err)
	assert.Equal(t, []LogEntry{created}, logs)
}

func TestCreateLogAppendsInOrder(t *testing.T) {
	repo := NewMemoryLogRepository()
	logService := NewLogService(repo)

	first, _ := logService.CreateLog(context.Background(), sampleDraft("first"))
	second, _ := logService.CreateLog(context.Background(), sampleDraft("second"))

	stored, err := repo.LoadLogs(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, logIDs(stored))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDeleteLogRemovesExactlyOne(t *testing.T) {
	repo := NewMemoryLogRepository()
	_ = repo.SaveLogs(context.Background(), []LogEntry{sampleLogEntry("a"), sampleLogEntry("b"), sampleLogEntry("c")})
	logService := NewLogService(repo)

	deleted, err := logService.DeleteLog(context.Background(), "b")
	assert.Nil(t, err)
	assert.Equal(t, "b", deleted.ID)

	stored, _ := repo.LoadLogs(context.Background())
	assert.Equal(t, []string{"a", "c"}, logIDs(stored))

	_, err = logService.DeleteLog(context.Background(), "b")
	assert.ErrorIs(t, err, ErrLogNotFound)

	stored, _ = repo.LoadLogs(context.Background())
	assert.Equal(t, []string{"a", "c"}, logIDs(stored))
}

func TestDeleteAllLogs(t *testing.T) {
	repo := NewMemoryLogRepository()
	_ = repo.SaveLogs(context.Background(), []LogEntry{sampleLogEntry("a"), sampleLogEntry("b")})
	logService := NewLogService(repo)

	assert.Nil(t, logService.DeleteAllLogs(context.Background()))
	assert.Nil(t, logService.DeleteAllLogs(context.Background()))

	logs, err := logService.GetLogs(context.Background(), LogFilter{})
	assert.Nil(t, err)
	assert.Len(t, logs, 0)
}

func TestGetLogsAppliesFilter(t *testing.T) {
	repo := NewMemoryLogRepository()
	_ = repo.SaveLogs(context.Background(), filterFixture())
	logService := NewLogService(repo)

	logs, err := logService.GetLogs(context.Background(), LogFilter{Levels: []LogLevel{Info, Debug}})
	assert.Nil(t, err)
	assert.Equal(t, []string{"4", "1"}, logIDs(logs))
}

func TestConcurrentCreatesKeepEveryEntry(t *testing.T) {
	repo := NewFileLogRepository(filepath.Join(t.TempDir(), "logs.json"), true)
	logService := NewLogService(repo)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := logService.CreateLog(context.Background(), sampleDraft("concurrent"))
			assert.Nil(t, err)
		}()
	}
	wg.Wait()

	logs, err := repo.LoadLogs(context.Background())
	assert.Nil(t, err)
	assert.Len(t, logs, 25)
}

func TestServicePropagatesStorageErrors(t *testing.T) {
	repo := &failingLogRepository{loadErr: ErrStorageCorrupted}
	logService := NewLogService(repo)

	_, err := logService.CreateLog(context.Background(), sampleDraft("m"))
	assert.ErrorIs(t, err, ErrStorageCorrupted)
	_, err = logService.GetLogs(context.Background(), LogFilter{})
	assert.ErrorIs(t, err, ErrStorageCorrupted)
	_, err = logService.DeleteLog(context.Background(), "existing")
	assert.ErrorIs(t, err, ErrStorageCorrupted)
	assert.Equal(t, 0, repo.saved)

	repo = &failingLogRepository{saveErr: ErrSaveLogsFailed}
	logService = NewLogService(repo)

	_, err = logService.CreateLog(context.Background(), sampleDraft("m"))
	assert.ErrorIs(t, err, ErrSaveLogsFailed)
	_, err = logService.DeleteLog(context.Background(), "existing")
	assert.ErrorIs(t, err, ErrSaveLogsFailed)
	assert.ErrorIs(t, logService.DeleteAllLogs(context.Background()), ErrSaveLogsFailed)
}

func TestCreateLogWritesEntryLevelUnderOwnKey(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	defer func() { log.Logger = previous }()

	_, err := NewLogService(NewMemoryLogRepository()).CreateLog(context.Background(), LogEntryDraft{
		Level:      Error,
		Message:    "Database connection failed",
		ResourceID: "db-service-001",
		Timestamp:  "2024-01-15T10:10:00.000Z",
		TraceID:    "trace-123458",
		SpanID:     "span-003",
		Commit:     "ghi789jkl",
	})
	assert.Nil(t, err)

	var line map[string]interface{}
	var rawLine []byte
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var candidate map[string]interface{}
		if json.Unmarshal(raw, &candidate) == nil && candidate["message"] == "Log created" {
			line, rawLine = candidate, raw
		}
	}
	if assert.NotNil(t, line) {
		assert.Equal(t, "debug", line["level"])
		assert.Equal(t, "error", line["logLevel"])
		assert.Equal(t, 1, bytes.Count(rawLine, []byte(`"level":`)))
	}
}
