package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/melih/healthwatch/internal/core/ports"
)

// Source is a NameSource with a printable description.
type Source interface {
	ports.NameSource
	fmt.Stringer
}

// Fallback prefers a local document and falls back to a remote one.
// Read failures are reported through the notifier.
type Fallback struct {
	local    Source
	remote   Source
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewFallback builds the chain. Either source may be nil.
func NewFallback(local, remote Source, notifier ports.Notifier, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{local: local, remote: remote, notifier: notifier, logger: logger}
}

func (f *Fallback) FetchIdentifiers(ctx context.Context) ([]string, error) {
	if f.local != nil {
		ids, err := f.local.FetchIdentifiers(ctx)
		switch {
		case errors.Is(err, ErrSourceUnavailable):
			f.logger.Debug("Local container list not present.", "source", f.local.String())
		case err != nil:
			f.report(ctx, fmt.Sprintf("Error reading %s: %v", f.local, err))
		case len(ids) == 0:
			f.logger.Warn("Local container list is empty, falling back to remote.", "source", f.local.String())
		default:
			f.logger.Debug("Using container list.", "source", f.local.String(), "count", len(ids))
			return ids, nil
		}
	}

	if f.remote == nil {
		return nil, errors.New("no container list available and no remote source configured")
	}
	ids, err := f.remote.FetchIdentifiers(ctx)
	if err != nil {
		f.report(ctx, fmt.Sprintf("Error fetching %s: %v", f.remote, err))
		return nil, err
	}
	f.logger.Debug("Using container list.", "source", f.remote.String(), "count", len(ids))
	return ids, nil
}

func (f *Fallback) report(ctx context.Context, msg string) {
	f.logger.Error(msg)
	if f.notifier == nil {
		return
	}
	if err := f.notifier.Notify(ctx, msg); err != nil {
		f.logger.Error("Failed to send notification.", "err", err)
	}
}
