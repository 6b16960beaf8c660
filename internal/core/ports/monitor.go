package ports

import (
	"context"

	"github.com/melih/healthwatch/internal/core/domain"
)

// NameSource resolves the ordered list of container identifiers to watch.
// Implementations report their own fetch failures to the operator; the
// monitor treats an error or an empty list as "no targets this cycle".
type NameSource interface {
	FetchIdentifiers(ctx context.Context) ([]string, error)
}

// Inspector queries the container runtime for a single container.
// It returns domain.ErrContainerNotFound (possibly wrapped) for unknown
// identifiers; any other error is treated as transient.
type Inspector interface {
	Inspect(ctx context.Context, id string) (domain.HealthResult, error)
}

// Notifier delivers a text message to the operator. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// StateStore persists the snapshot between runs.
type StateStore interface {
	// Load returns the persisted snapshot. A missing store yields an empty
	// snapshot and no error.
	Load(ctx context.Context) (domain.Snapshot, error)
	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snapshot domain.Snapshot) error
}
