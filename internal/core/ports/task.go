package ports

import (
	"context"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
)

// GroupTask transforms the sources of one asset group into its destination.
//
//go:generate mockgen -source=task.go -destination=mocks/mock_task.go -package=mocks
type GroupTask interface {
	// Group returns the asset group the task serves.
	Group() domain.AssetGroup
	// Run processes the group. since is the start of the last successful run of the
	// group (zero on the first run); incremental tasks skip files not modified after it.
	Run(ctx context.Context, since time.Time) error
}
