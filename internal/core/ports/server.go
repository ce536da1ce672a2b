package ports

import "context"

// DevServer serves a destination tree to browsers and pushes live-reload signals to them.
//
//go:generate mockgen -source=server.go -destination=mocks/mock_server.go -package=mocks
type DevServer interface {
	Reloader
	// Serve listens on addr and serves the files below root until ctx is cancelled.
	Serve(ctx context.Context, addr, root string) error
}
