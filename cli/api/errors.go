package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/liora-cosmetic/liora/pkg/listctl"
)

var (
	// ErrUnauthorized marks 401 and 403 responses
	ErrUnauthorized = errors.New("authentication required: run 'liora auth login'")
	// ErrUnexpectedPayload marks responses that are not a recognized list envelope
	ErrUnexpectedPayload = errors.New("unexpected response payload")
)

// responseError maps a transport failure or non-2xx response to a list error.
// It returns nil for successful responses.
func responseError(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &listctl.NetworkError{Op: op, Timeout: isTimeoutError(err), Cause: err}
	}
	if resp == nil || resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	code := resp.StatusCode()
	msg := parseAPIError(resp)
	var cause error
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		cause = ErrUnauthorized
		if msg != "" {
			cause = fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
	case code == http.StatusTooManyRequests:
		if ra := strings.TrimSpace(resp.Header().Get("Retry-After")); ra != "" {
			cause = fmt.Errorf("rate limit exceeded: retry after %s", ra)
		} else {
			cause = errors.New("rate limit exceeded: please retry later")
		}
	case msg != "":
		cause = errors.New(msg)
	}
	return &listctl.NetworkError{
		Op:      op,
		Status:  code,
		Timeout: code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout,
		Cause:   cause,
	}
}

// parseAPIError extracts the message of an error envelope, if any
func parseAPIError(resp *resty.Response) string {
	body := resp.Body()
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Error   string          `json:"error"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	message := strings.TrimSpace(envelope.Message)
	if message == "" {
		message = strings.TrimSpace(envelope.Error)
	}
	if message == "" {
		return ""
	}
	if len(envelope.Details) == 0 || string(envelope.Details) == "null" {
		return message
	}
	var details string
	if err := json.Unmarshal(envelope.Details, &details); err == nil && strings.TrimSpace(details) != "" {
		return fmt.Sprintf("%s: %s", message, strings.TrimSpace(details))
	}
	return message
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
