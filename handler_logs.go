package logviewer

import (
	"net/http"

	"github.com/blutspende/logviewer/middleware"
	"github.com/blutspende/logviewer/utils"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type createLogResponseTO struct {
	Message string   `json:"message"`
	Log     LogEntry `json:"log"`
}

type deleteLogResponseTO struct {
	Message    string   `json:"message"`
	DeletedLog LogEntry `json:"deletedLog"`
}

type messageResponseTO struct {
	Message string `json:"message"`
}

// Create log
// @Summary Create a log entry
// @Description Validates the body, assigns an ID and appends the entry to the collection
// @Tags Logs
// @Accept json
// @Produce json
// @Param LogEntry body LogEntryDraft true "Log entry without id"
// @Success 201 {object} createLogResponseTO
// @Failure 400 {object} middleware.ClientError
// @Router /logs [POST]
func (api *api) CreateLog(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		log.Error().Err(err).Msg("Create log failed! Can't read request body!")
		c.AbortWithStatusJSON(http.StatusBadRequest, middleware.NewClientError(msgInvalidRequestBody))
		return
	}

	draft, err := api.logValidator.Validate(body)
	if err != nil {
		var validationError ValidationError
		if errors.As(err, &validationError) {
			log.Debug().Str("field", validationError.Field).Msg(validationError.Reason)
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.NewClientError(validationError.Reason))
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, middleware.NewClientError(msgInvalidRequestBody))
		return
	}

	entry, err := api.logService.CreateLog(c, draft)
	if err != nil {
		api.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createLogResponseTO{
		Message: LogAddedMsg,
		Log:     entry,
	})
}

// Get logs
// @Summary List log entries
// @Description Returns the entries matching every supplied filter, most recent first
// @Tags Logs
// @Produce json
// @Param level query string false "Comma separated levels"
// @Param message query string false "Case-insensitive substring of the message"
// @Param resourceId query string false "Exact resource ID"
// @Param traceId query string false "Exact trace ID"
// @Param spanId query string false "Exact span ID"
// @Param commit query string false "Exact commit"
// @Param timestamp_start query string false "Inclusive lower bound (ISO-8601)"
// @Param timestamp_end query string false "Inclusive upper bound (ISO-8601)"
// @Success 200 {array} LogEntry
// @Router /logs [GET]
func (api *api) GetLogs(c *gin.Context) {
	logs, err := api.logService.GetLogs(c, parseLogFilter(c))
	if err != nil {
		api.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// Delete log
// @Summary Delete one log entry
// @Tags Logs
// @Produce json
// @Param id path string true "Log ID"
// @Success 200 {object} deleteLogResponseTO
// @Failure 404 {object} middleware.ClientError
// @Router /logs/{id} [DELETE]
func (api *api) DeleteLog(c *gin.Context) {
	deleted, err := api.logService.DeleteLog(c, c.Param("id"))
	if err != nil {
		api.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, deleteLogResponseTO{
		Message:    LogDeletedMsg,
		DeletedLog: deleted,
	})
}

// Delete all logs
// @Summary Clear the log collection
// @Tags Logs
// @Produce json
// @Success 200 {object} messageResponseTO
// @Router /logs [DELETE]
func (api *api) DeleteAllLogs(c *gin.Context) {
	if err := api.logService.DeleteAllLogs(c); err != nil {
		api.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponseTO{Message: AllLogsClearedMsg})
}

func (api *api) abortWithServiceError(c *gin.Context, err error) {
	if errors.Is(err, ErrLogNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, middleware.NewClientError(LogNotFoundMsg))
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg(InternalServerError)
	c.AbortWithStatusJSON(http.StatusInternalServerError, middleware.NewClientError(InternalServerError))
}

// parseLogFilter reads the listing criteria. A single level parameter is split on commas,
// repeated level parameters are taken as given.
func parseLogFilter(c *gin.Context) LogFilter {
	var levels []LogLevel
	levelParams := c.QueryArray("level")
	if len(levelParams) == 1 {
		levelParams = utils.SplitNonEmpty(levelParams[0], ",")
	}
	for _, level := range levelParams {
		if level != "" {
			levels = append(levels, LogLevel(level))
		}
	}

	return LogFilter{
		Levels:         levels,
		Message:        c.Query("message"),
		ResourceID:     c.Query("resourceId"),
		TraceID:        c.Query("traceId"),
		SpanID:         c.Query("spanId"),
		Commit:         c.Query("commit"),
		TimestampStart: c.Query("timestamp_start"),
		TimestampEnd:   c.Query("timestamp_end"),
	}
}
