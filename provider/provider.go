package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// HTTPClient is the subset of *http.Client the upstream clients need.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	ErrUnexpectedStatus  = errors.New("unexpected upstream status")
	ErrUnavailable       = errors.New("upstream unavailable")
	ErrTimeout           = errors.New("upstream timed out")
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// StatusError reports a non-2xx answer from an upstream.
type StatusError struct {
	Upstream   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Upstream, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

const maxErrorBody = 512

func get(ctx context.Context, client HTTPClient, upstream, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, transportError(upstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(upstream, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{Upstream: upstream, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// transportError classifies a failed round trip. A cancelled caller context is
// not an upstream fault and is returned without a classification.
func transportError(upstream string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()):
		return fmt.Errorf("%s: %w: %w", upstream, ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", upstream, err)
	default:
		return fmt.Errorf("%s: %w: %w", upstream, ErrUnavailable, err)
	}
}
