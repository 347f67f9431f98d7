package clients

import (
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 10 * time.Second

// NewRestyClient builds the shared HTTP client of the command line tools.
func NewRestyClient(insecureSkipVerify bool, logLevel zerolog.Level) *resty.Client {
	client := resty.New().
		SetTimeout(defaultRequestTimeout).
		OnBeforeRequest(configureRequest(logLevel))

	if insecureSkipVerify {
		client = client.SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})
	}

	return client
}

func configureRequest(logLevel zerolog.Level) resty.RequestMiddleware {
	return func(client *resty.Client, request *resty.Request) error {
		if logLevel <= zerolog.DebugLevel {
			request.EnableTrace()
		}
		return nil
	}
}
