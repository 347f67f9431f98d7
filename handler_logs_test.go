package logviewer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blutspende/logviewer/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestConfiguration() *config.Configuration {
	return &config.Configuration{
		APIPort:         3001,
		ApplicationName: "Log Viewer API Test",
		StorageBackend:  config.MemoryStorage,
		PermittedOrigin: "*",
		EnableMetrics:   true,
		LogLevel:        zerolog.InfoLevel,
	}
}

func newTestAPI(logRepository LogRepository) *api {
	return newAPI(gin.New(), newTestConfiguration(), NewLogService(logRepository), NewLogValidator())
}

func performRequest(engine http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(method, target, bytes.NewBuffer(body))
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	responseRecorder := httptest.NewRecorder()
	engine.ServeHTTP(responseRecorder, request)
	return responseRecorder
}

func TestCreateLogHandler(t *testing.T) {
	repo := NewMemoryLogRepository()
	api := newTestAPI(repo)

	response := performRequest(api.engine, http.MethodPost, "/logs", []byte(validLogBody))

	assert.Equal(t, http.StatusCreated, response.Code)
	var body createLogResponseTO
	assert.Nil(t, decodeWithNumbers(response.Body.Bytes(), &body))
	assert.Equal(t, "Log added", body.Message)
	assert.NotEmpty(t, body.Log.ID)
	assert.Equal(t, Error, body.Log.Level)
	assert.Equal(t, "2024-01-15T10:10:00.000Z", body.Log.Timestamp)

	assert.Equal(t, json.Number("3"), body.Log.Metadata["retries"])

	stored, _ := repo.LoadLogs(context.Background())
	assert.Equal(t, []LogEntry{body.Log}, stored)
}

func TestCreateLogHandlerKeepsEmptyMetadata(t *testing.T) {
	repo := NewMemoryLogRepository()
	api := newTestAPI(repo)

	response := performRequest(api.engine, http.MethodPost, "/logs", []byte(`{"level":"info","message":"m","resourceId":"r","timestamp":"2024-01-15T10:00:00Z","traceId":"t","spanId":"s","commit":"c","metadata":{}}`))

	assert.Equal(t, http.StatusCreated, response.Code)
	var body struct {
		Log map[string]interface{} `json:"log"`
	}
	assert.Nil(t, json.Unmarshal(response.Body.Bytes(), &body))
	assert.Contains(t, body.Log, "metadata")
	assert.Equal(t, map[string]interface{}{}, body.Log["metadata"])

	stored, _ := repo.LoadLogs(context.Background())
	if assert.Len(t, stored, 1) {
		assert.NotNil(t, stored[0].Metadata)
		assert.Len(t, stored[0].Metadata, 0)
	}
}

func TestCreateLogHandlerOmitsAbsentMetadata(t *testing.T) {
	api := newTestAPI(NewMemoryLogRepository())

	response := performRequest(api.engine, http.MethodPost, "/logs", []byte(`{"level":"info","message":"m","resourceId":"r","timestamp":"2024-01-15T10:00:00Z","traceId":"t","spanId":"s","commit":"c"}`))

	assert.Equal(t, http.StatusCreated, response.Code)
	assert.NotContains(t, response.Body.String(), "metadata")
}

func decodeWithNumbers(data []byte, v interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder.Decode(v)
}

func TestCreateLogHandlerRejectsInvalidLevel(t *testing.T) {
	repo := NewMemoryLogRepository()
	_ = repo.SaveLogs(context.Background(), []LogEntry{sampleLogEntry("a")})
	api := newTestAPI(repo)

	response := performRequest(api.engine, http.MethodPost, "/logs", []byte(`{"level":"critical","message":"m","resourceId":"r","timestamp":"2024-01-15T10:00:00Z","traceId":"t","spanId":"s","commit":"c"}`))

	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.JSONEq(t, `{"error":"\"level\" must be one of [info, warning, error, debug]"}`, response.Body.String())

	stored, _ := repo.LoadLogs(context.Background())
	assert.Equal(t, []string{"a"}, logIDs(stored))
}

func TestCreateLogHandlerRejectsMalformedBody(t *testing.T) {
	api := newTestAPI(NewMemoryLogRepository())

	response := performRequest(api.engine, http.MethodPost, "/logs", []byte(`{"level":`))

	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.JSONEq(t, `{"error":"can't not bind request body!"}`, response.Body.String())
}

func TestCreateLogHandlerStorageFailure(t *testing.T) {
	api := newTestAPI(&failingLogRepository{saveErr: ErrSaveLogsFailed})

	response := performRequest(api.engine, http.MethodPost, "/logs", []byte(validLogBody))

	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.JSONEq(t, `{"error":"Unexpected error."}`, response.Body.String())
}

func TestGetLogsHandler(t *testing.T) {
	repo := NewMemoryLogRepository()
	_ = repo.SaveLogs(context.Background(), filterFixture())
	api := newTestAPI(repo)

	response := performRequest(api.engine, http.MethodGet, "/logs", nil)
	assert.Equal(t, http.StatusOK, response.Code)
	var logs []LogEntry
	assert.Nil(t, json.Unmarshal(response.Body.Bytes(), &logs))
	assert.Equal(t, []string{"4", "3", "2", "1"}, logIDs(logs))

	response = performRequest(api.engine, http.MethodGet, "/logs?level=error,warning&commit=c-2", nil)
	assert.Equal(t, http.StatusOK, response.Code)
	logs = nil
	assert.Nil(t, json.Unmarshal(response.Body.Bytes(), &logs))
	assert.Equal(t, []string{"2"}, logIDs(logs))

	response = performRequest(api.engine, http.MethodGet, "/logs?level=info&level=debug", nil)
	logs = nil
	assert.Nil(t, json.Unmarshal(response.Body.Bytes(), &logs))
	assert.Equal(t, []string{"4", "1"}, logIDs(logs))

	response = performRequest(api.engine, http.MethodGet, "/logs?message=MEMORY&timestamp_start=2024-01-15T10:05:00.000Z&timestamp_end=2024-01-15T10:05:00.000Z", nil)
	logs = nil
	assert.Nil(t, json.Unmarshal(response.Body.Bytes(), &logs))
	assert.Equal(t, []string{"2"}, logIDs(logs))
}

func TestGetLogsHandlerEmptyCollection(t *testing.T) {
	api := newTestAPI(NewMemoryLogRepository())

	response := performRequest(api.engine, http.MethodGet, "/logs", nil)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "[]", response.Body.String())
}

func TestGetLogsHandlerStorageFailure(t *testing.T) {
	api := newTestAPI(&failingLogRepository{loadErr: ErrStorageCorrupted})

	response := performRequest(api.engine, http.MethodGet, "/logs", nil)

	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.JSONEq(t, `{"error":"Unexpected error."}`, response.Body.String())
}

func TestDeleteLogHandler(t *testing.T) {
	repo := NewMemoryLogRepository()
	_ = repo.SaveLogs(context.Background(), []LogEntry{sampleLogEntry("a"), sampleLogEntry("b")})
	api := newTestAPI(repo)

	response := performRequest(api.engine, http.MethodDelete, "/logs/a", nil)
	assert.Equal(t, http.StatusOK, response.Code)
	var body deleteLogResponseTO
	assert.Nil(t, json.Unmarshal(response.Body.Bytes(), &body))
	assert.Equal(t, "Log deleted", body.Message)
	assert.Equal(t, sampleLogEntry("a"), body.DeletedLog)

	response = performRequest(api.engine, http.MethodDelete, "/logs/a", nil)
	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.JSONEq(t, `{"error":"Log not found"}`, response.Body.String())

	stored, _ := repo.LoadLogs(context.Background())
	assert.Equal(t, []string{"b"}, logIDs(stored))
}

func TestDeleteAllLogsHandler(t *testing.T) {
	repo := NewMemoryLogRepository()
	_ = repo.SaveLogs(context.Background(), filterFixture())
	api := newTestAPI(repo)

	response := performRequest(api.engine, http.MethodDelete, "/logs", nil)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"message":"All logs cleared"}`, response.Body.String())
	stored, _ := repo.LoadLogs(context.Background())
	assert.Len(t, stored, 0)
}

func TestCorsPreflight(t *testing.T) {
	api := newTestAPI(NewMemoryLogRepository())

	request, _ := http.NewRequest(http.MethodOptions, "/logs", nil)
	request.Header.Set("Origin", "http://localhost:3000")
	request.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	responseRecorder := httptest.NewRecorder()
	api.engine.ServeHTTP(responseRecorder, request)

	assert.Equal(t, http.StatusNoContent, responseRecorder.Code)
	assert.Equal(t, "*", responseRecorder.Header().Get("Access-Control-Allow-Origin"))
}
