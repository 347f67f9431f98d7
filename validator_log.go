package logviewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/blutspende/logviewer/utils"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalidRequestBody = "can't not bind request body!"

	tagRequired = "required"
	tagOneOf    = "oneof"
	tagISO8601  = "iso8601"
)

var ErrInvalidRequestBody = errors.New(msgInvalidRequestBody)

type fieldRule struct {
	name string
	tag  string
}

// Schema order decides which violation is reported first.
var logEntryFieldRules = []fieldRule{
	{name: "level", tag: tagOneOf + "=" + utils.JoinAsString(LogLevels, " ")},
	{name: "message", tag: tagRequired},
	{name: "resourceId", tag: tagRequired},
	{name: "timestamp", tag: tagRequired + "," + tagISO8601},
	{name: "traceId", tag: tagRequired},
	{name: "spanId", tag: tagRequired},
	{name: "commit", tag: tagRequired},
}

const metadataField = "metadata"

type LogValidator interface {
	Validate(body []byte) (LogEntryDraft, error)
}

type logValidator struct {
	validate *validator.Validate
}

func NewLogValidator() LogValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation(tagISO8601, isISO8601); err != nil {
		log.Panic().Err(err).Msg("registering iso8601 validation failed")
	}
	return &logValidator{
		validate: validate,
	}
}

func isISO8601(fl validator.FieldLevel) bool {
	_, err := utils.ParseISO8601(fl.Field().String())
	return err == nil
}

// Validate checks a raw create payload and returns a fully typed draft. On failure the error is a
// ValidationError for the first violated rule, or ErrInvalidRequestBody when the body is not JSON.
func (v *logValidator) Validate(body []byte) (LogEntryDraft, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		log.Debug().Err(err).Msg(msgInvalidRequestBody)
		return LogEntryDraft{}, ErrInvalidRequestBody
	}

	candidate, ok := raw.(map[string]interface{})
	if !ok {
		return LogEntryDraft{}, newValidationError("value", "must be of type object")
	}

	values := make(map[string]string, len(logEntryFieldRules))
	for _, rule := range logEntryFieldRules {
		value, err := v.validateField(candidate, rule)
		if err != nil {
			return LogEntryDraft{}, err
		}
		values[rule.name] = value
	}

	var metadata map[string]interface{}
	if rawMetadata, present := candidate[metadataField]; present {
		metadata, ok = rawMetadata.(map[string]interface{})
		if !ok {
			return LogEntryDraft{}, newValidationError(metadataField, "must be of type object")
		}
	}

	if unknown := firstUnknownKey(candidate); unknown != "" {
		return LogEntryDraft{}, newValidationError(unknown, "is not allowed")
	}

	return LogEntryDraft{
		Level:      LogLevel(values["level"]),
		Message:    values["message"],
		ResourceID: values["resourceId"],
		Timestamp:  values["timestamp"],
		TraceID:    values["traceId"],
		SpanID:     values["spanId"],
		Commit:     values["commit"],
		Metadata:   metadata,
	}, nil
}

func (v *logValidator) validateField(candidate map[string]interface{}, rule fieldRule) (string, error) {
	rawValue, present := candidate[rule.name]
	if !present {
		return "", newValidationError(rule.name, "is required")
	}

	value, isString := rawValue.(string)
	// enumerations report any foreign value, strings included, as outside the allowed set
	if !isString && rule.name != "level" {
		return "", newValidationError(rule.name, "must be a string")
	}

	err := v.validate.Var(value, rule.tag)
	if err == nil {
		return value, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		log.Error().Err(err).Str("field", rule.name).Msg("unexpected validation failure")
		return "", newValidationError(rule.name, "is invalid")
	}

	switch validationErrors[0].Tag() {
	case tagRequired:
		return "", newValidationError(rule.name, "is not allowed to be empty")
	case tagOneOf:
		return "", newValidationError(rule.name, fmt.Sprintf("must be one of [%s]", utils.JoinAsString(LogLevels, ", ")))
	case tagISO8601:
		return "", newValidationError(rule.name, "must be in ISO 8601 date format")
	}
	return "", newValidationError(rule.name, "is invalid")
}

func firstUnknownKey(candidate map[string]interface{}) string {
	keys := make([]string, 0, len(candidate))
	for key := range candidate {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key == metadataField {
			continue
		}
		known := false
		for _, rule := range logEntryFieldRules {
			if rule.name == key {
				known = true
				break
			}
		}
		if !known {
			return key
		}
	}
	return ""
}

func newValidationError(field, reason string) ValidationError {
	return ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("%q %s", field, reason),
	}
}
