package devserver

import "go.trai.ch/kiln/internal/core/ports"

var _ ports.Reloader = NopReloader{}

// NopReloader drops reload signals. Tasks use it when no server is running.
type NopReloader struct{}

// Reload does nothing.
func (NopReloader) Reload() {}

// Inject does nothing.
func (NopReloader) Inject(...string) {}
