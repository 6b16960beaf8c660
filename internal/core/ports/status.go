package ports

import "github.com/melih/healthwatch/internal/core/domain"

// StatusReader exposes the result of the last completed cycle.
type StatusReader interface {
	Status() domain.Status
}
