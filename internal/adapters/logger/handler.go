package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

// PrettyHandler is a custom slog.Handler that produces human-readable,
// colored output using the shared UI components.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	return &PrettyHandler{
		out:   output.New(w),
		level: levelVar,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record. The first line of the message carries the level marker, the
// level colour and the attributes; further lines, such as the causes of an error, are
// dimmed below it.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	marker, color := levelStyle(r.Level)

	head, rest, _ := strings.Cut(r.Message, "\n")
	if marker != "" {
		head = marker + " " + head
	}

	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrParts = append(attrParts, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	})
	if len(attrParts) > 0 {
		head += " " + strings.Join(attrParts, " ")
	}

	var sb strings.Builder
	sb.WriteString(h.out.String(head).Foreground(color).String())
	sb.WriteByte('\n')
	if rest != "" {
		dim := termenv.RGBColor(string(style.Slate))
		for line := range strings.SplitSeq(rest, "\n") {
			sb.WriteString(h.out.String(line).Foreground(dim).String())
			sb.WriteByte('\n')
		}
	}

	_, err := h.out.WriteString(sb.String())
	return err
}

// levelStyle returns the marker and colour of a level.
func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	case level >= slog.LevelInfo:
		return "", termenv.RGBColor(string(style.Slate))
	default:
		return style.Arrow, termenv.RGBColor(string(style.Slate))
	}
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// formatAttr formats a single attribute for output.
// If a group is set, the key is prefixed with the group name.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
