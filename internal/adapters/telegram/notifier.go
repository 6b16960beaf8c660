// Package telegram delivers notifications through the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultAPIURL  = "https://api.telegram.org"
	DefaultTimeout = 5 * time.Second
)

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Notifier posts messages to a single chat. It never retries.
type Notifier struct {
	apiURL  string
	token   string
	chatID  string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Notifier. An empty apiURL selects the public Bot API.
func New(apiURL, token, chatID string, timeout time.Duration, logger *slog.Logger) *Notifier {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		apiURL:  strings.TrimRight(apiURL, "/"),
		token:   token,
		chatID:  chatID,
		timeout: timeout,
		logger:  logger,
	}
}

// Notify sends text to the configured chat.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	timeout := n.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return fmt.Errorf("send telegram message: %w", context.DeadlineExceeded)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.token)
	agent := fiber.Post(url).
		Timeout(timeout).
		JSON(sendMessageRequest{ChatID: n.chatID, Text: text})
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	var resp apiResponse
	code, _, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		return fmt.Errorf("send telegram message: %w", errors.Join(errs...))
	}
	if code < 200 || code > 299 || !resp.OK {
		return fmt.Errorf("send telegram message: status %d: %s", code, resp.Description)
	}

	n.logger.Info("Telegram message sent.", "text", text)
	return nil
}

// LogOnly stands in for Notifier when no credentials are configured.
type LogOnly struct {
	logger *slog.Logger
}

func NewLogOnly(logger *slog.Logger) *LogOnly {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogOnly{logger: logger}
}

func (l *LogOnly) Notify(ctx context.Context, text string) error {
	l.logger.Warn("Notifications disabled, message not sent.", "text", text)
	return nil
}
