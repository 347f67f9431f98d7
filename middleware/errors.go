package middleware

// ClientError is the body of every non 2xx response.
type ClientError struct {
	Error string `json:"error"`
}

func NewClientError(message string) ClientError {
	return ClientError{Error: message}
}
