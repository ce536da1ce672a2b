package ports

import "time"

// Renderer presents task progress to the user.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnTaskStart is called when a task span starts.
	OnTaskStart(spanID, name string, startTime time.Time)
	// OnTaskComplete is called when a task span ends. err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
