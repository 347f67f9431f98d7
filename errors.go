package logviewer

import (
	"github.com/pkg/errors"
)

const (
	ApiStartMsg           = "API server logviewer has been started"
	ApiFailedToStartMsg   = "Failed to start API server logviewer"
	ApiEndedGracefullyMsg = "API server logviewer ended gracefully"

	InternalServerError = "Unexpected error."
	LogNotFoundMsg      = "Log not found"
	LogAddedMsg         = "Log added"
	LogDeletedMsg       = "Log deleted"
	AllLogsClearedMsg   = "All logs cleared"

	msgLoadLogsFailed       = "load logs failed"
	msgSaveLogsFailed       = "save logs failed"
	msgStorageCorrupted     = "persisted log collection is corrupted"
	msgUnknownStorageType   = "unknown storage backend"
	msgSeedSampleLogsFailed = "seed sample logs failed"
)

var (
	ErrLogNotFound          = errors.New(LogNotFoundMsg)
	ErrLoadLogsFailed       = errors.New(msgLoadLogsFailed)
	ErrSaveLogsFailed       = errors.New(msgSaveLogsFailed)
	ErrStorageCorrupted     = errors.New(msgStorageCorrupted)
	ErrUnknownStorageType   = errors.New(msgUnknownStorageType)
	ErrSeedSampleLogsFailed = errors.New(msgSeedSampleLogsFailed)
)

// ValidationError names the first field of a create payload that broke the schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}
