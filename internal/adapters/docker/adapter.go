package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/melih/healthwatch/internal/core/domain"
)

// engineAPI is the subset of the Docker client the adapter needs.
type engineAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	Close() error
}

// Adapter implements ports.Inspector using the Docker SDK.
type Adapter struct {
	cli engineAPI
}

// NewAdapter creates a new Docker adapter instance from the environment
// (DOCKER_HOST and friends).
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli}, nil
}

// Ping checks that the Docker daemon answers within timeout.
func (a *Adapter) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := a.cli.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach docker daemon: %w", err)
	}
	return nil
}

// Inspect returns the health check status and lifecycle status of a
// container by name or ID.
func (a *Adapter) Inspect(ctx context.Context, id string) (domain.HealthResult, error) {
	info, err := a.cli.ContainerInspect(ctx, id)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return domain.HealthResult{}, fmt.Errorf("inspect container %q: %w", id, domain.ErrContainerNotFound)
		}
		return domain.HealthResult{}, fmt.Errorf("inspect container %q: %w", id, err)
	}
	if info.ContainerJSONBase == nil || info.State == nil {
		return domain.HealthResult{}, fmt.Errorf("inspect container %q: response has no state", id)
	}

	res := domain.HealthResult{Status: info.State.Status}
	if info.State.Health != nil {
		res.Health = info.State.Health.Status
	}
	return res, nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.cli.Close()
}
