// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/ports"
)

// messager describes an error that can report its own message without the chain.
// zerr.Error provides it together with Metadata.
type messager interface {
	Message() string
}

type metadataCarrier interface {
	Metadata() map[string]any
}

// ErrorEntry is one layer of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger *slog.Logger
	mu     sync.RWMutex
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a new Logger writing pretty output to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		logger: slog.New(NewPrettyHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

// SetOutput updates the logger's output destination.
// If w is nil, os.Stderr is used as the default.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(NewPrettyHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain and metadata.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries walks the error chain. zerr layers contribute their own message and
// metadata; the first foreign error contributes its full text and ends the walk.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}

		entry := ErrorEntry{Message: m.Message()}
		if mc, ok := current.(metadataCarrier); ok {
			entry.Metadata = mc.Metadata()
		}
		entries = append(entries, entry)
		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders entries as the main error followed by an indented
// "Caused by" list. Metadata keys are printed sorted below their message.
func formatErrorEntries(entries []ErrorEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		var lead, indent string
		if i == 0 {
			lead, indent = "Error: ", "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			lead, indent = "    → ", "      "
		}

		lines = append(lines, lead+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}

		keys := make([]string, 0, len(entry.Metadata))
		for k := range entry.Metadata {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, entry.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}
