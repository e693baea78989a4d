package mailgun

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	mg "github.com/mailgun/mailgun-go/v4"
	"go.opentelemetry.io/otel/attribute"
)

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mailgun: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("mailgun: %d %s", e.StatusCode, e.Message)
}

// translate turns the SDK's status errors into *APIError and wraps the rest
// with the operation name.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var unexpected *mg.UnexpectedResponseError
	if errors.As(err, &unexpected) {
		return &APIError{StatusCode: unexpected.Actual, Message: errorMessage(unexpected.Data)}
	}
	return fmt.Errorf("mailgun: %s: %w", op, err)
}

func statusAttr(err error) []attribute.KeyValue {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return []attribute.KeyValue{attribute.Int("http.response.status_code", apiErr.StatusCode)}
	}
	return nil
}

type errorResponse struct {
	Message string `json:"message"`
}

// errorMessage extracts the provider's message from an error body.
func errorMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		return er.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
