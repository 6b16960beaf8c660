package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const DefaultFetchTimeout = 10 * time.Second

// HTTP fetches the identifier document with a GET request.
type HTTP struct {
	URL     string
	Timeout time.Duration
}

func NewHTTP(url string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTP{URL: url, Timeout: timeout}
}

func (h *HTTP) String() string { return "remote document " + h.URL }

func (h *HTTP) FetchIdentifiers(ctx context.Context) ([]string, error) {
	timeout := h.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, context.DeadlineExceeded)
	}

	agent := fiber.Get(h.URL).Timeout(timeout)
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, err)
	}
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", h.URL, code)
	}

	ids, err := ParseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.URL, err)
	}
	return ids, nil
}
