package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/blutspende/logviewer"
	"github.com/blutspende/logviewer/middleware"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	MsgLogViewerRequestFailed = "log viewer request failed"
	msgBaseURLMissing         = "base url of the log viewer must be set"
)

var (
	ErrLogViewerRequestFailed = errors.New(MsgLogViewerRequestFailed)
	ErrBaseURLMissing         = errors.New(msgBaseURLMissing)
)

// ResponseError is a non-success answer of the log viewer API.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e ResponseError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// Is lets callers match a 404 answer against logviewer.ErrLogNotFound.
func (e ResponseError) Is(target error) bool {
	return target == logviewer.ErrLogNotFound && e.StatusCode == http.StatusNotFound
}

type LogViewerClient interface {
	FetchLogs(ctx context.Context, filter logviewer.LogFilter) ([]logviewer.LogEntry, error)
	CreateLog(ctx context.Context, draft logviewer.LogEntryDraft) (logviewer.LogEntry, error)
	DeleteLog(ctx context.Context, id string) (logviewer.LogEntry, error)
	ClearAllLogs(ctx context.Context) error
}

type logViewerClient struct {
	client  *resty.Client
	baseURL string
}

type createLogResponseTO struct {
	Message string             `json:"message"`
	Log     logviewer.LogEntry `json:"log"`
}

type deleteLogResponseTO struct {
	Message    string             `json:"message"`
	DeletedLog logviewer.LogEntry `json:"deletedLog"`
}

func NewLogViewerClient(baseURL string, restyClient *resty.Client) (LogViewerClient, error) {
	if baseURL == "" {
		return nil, ErrBaseURLMissing
	}

	return &logViewerClient{
		client:  restyClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// FetchLogs lists the entries matching filter, most recent first.
func (c *logViewerClient) FetchLogs(ctx context.Context, filter logviewer.LogFilter) ([]logviewer.LogEntry, error) {
	logs := make([]logviewer.LogEntry, 0)
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(filterToQuery(filter)).
		SetResult(&logs).
		Get(c.baseURL + "/logs")
	if err = checkResponse(resp, err, http.StatusOK); err != nil {
		return nil, err
	}

	return logs, nil
}

func (c *logViewerClient) CreateLog(ctx context.Context, draft logviewer.LogEntryDraft) (logviewer.LogEntry, error) {
	var response createLogResponseTO
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(draft).
		SetResult(&response).
		Post(c.baseURL + "/logs")
	if err = checkResponse(resp, err, http.StatusCreated); err != nil {
		return logviewer.LogEntry{}, err
	}

	return response.Log, nil
}

func (c *logViewerClient) DeleteLog(ctx context.Context, id string) (logviewer.LogEntry, error) {
	var response deleteLogResponseTO
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&response).
		Delete(c.baseURL + "/logs/{id}")
	if err = checkResponse(resp, err, http.StatusOK); err != nil {
		return logviewer.LogEntry{}, err
	}

	return response.DeletedLog, nil
}

func (c *logViewerClient) ClearAllLogs(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Delete(c.baseURL + "/logs")
	return checkResponse(resp, err, http.StatusOK)
}

func filterToQuery(filter logviewer.LogFilter) url.Values {
	query := url.Values{}
	if len(filter.Levels) > 0 {
		levels := make([]string, len(filter.Levels))
		for i, level := range filter.Levels {
			levels[i] = string(level)
		}
		query.Set("level", strings.Join(levels, ","))
	}
	optional := map[string]string{
		"message":         filter.Message,
		"resourceId":      filter.ResourceID,
		"traceId":         filter.TraceID,
		"spanId":          filter.SpanID,
		"commit":          filter.Commit,
		"timestamp_start": filter.TimestampStart,
		"timestamp_end":   filter.TimestampEnd,
	}
	for key, value := range optional {
		if value != "" {
			query.Set(key, value)
		}
	}
	return query
}

func checkResponse(resp *resty.Response, err error, expectedStatus int) error {
	if err != nil {
		log.Error().Err(err).Msg(MsgLogViewerRequestFailed)
		return errors.Wrap(ErrLogViewerRequestFailed, err.Error())
	}
	if resp.StatusCode() == expectedStatus {
		return nil
	}

	clientError := middleware.ClientError{}
	if jsonErr := json.Unmarshal(resp.Body(), &clientError); jsonErr != nil || clientError.Error == "" {
		clientError.Error = http.StatusText(resp.StatusCode())
	}
	log.Debug().Int("status", resp.StatusCode()).Str("error", clientError.Error).Msg(MsgLogViewerRequestFailed)
	return ResponseError{
		StatusCode: resp.StatusCode(),
		Message:    clientError.Error,
	}
}
