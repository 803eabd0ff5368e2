// Package logger provides colored slog handlers for terminal output.
//
// Warnings render yellow, errors render red, and informational messages
// about persistence and loading render green so state-changing operations
// stand out in a scrolling log.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// highlightWords marks info-level messages worth highlighting. A message
// containing any of these (case-insensitive) renders green.
var highlightWords = []string{"persist", "load", "sav"}

var (
	greenText  = color.New(color.FgGreen)
	yellowText = color.New(color.FgYellow)
	redText    = color.New(color.FgRed)
)

// ColorHandler is a slog.Handler that writes human-readable colored log
// lines to a terminal.
type ColorHandler struct {
	out    io.Writer
	level  slog.Leveler
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

// NewColorHandler creates a new ColorHandler writing to w.
func NewColorHandler(w io.Writer, level slog.Leveler) *ColorHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ColorHandler{
		out:   w,
		level: level,
		mu:    &sync.Mutex{},
	}
}

// NewLogger creates a logger backed by a ColorHandler writing to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewColorHandler(w, level))
}

// NewDefaultLogger creates a logger writing colored output to stderr.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return NewLogger(os.Stderr, level)
}

// Enabled implements slog.Handler
func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler
func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !r.Time.IsZero() {
		b.WriteString(r.Time.Format("15:04:05"))
		b.WriteByte(' ')
	}

	c := h.colorFor(r.Level, r.Message)
	writeColored(&b, c, fmt.Sprintf("%-5s", r.Level.String()))
	b.WriteByte(' ')
	writeColored(&b, c, r.Message)

	for _, a := range h.attrs {
		appendAttr(&b, a, "")
	}
	prefix := h.groupPrefix()
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, a, prefix)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// WithAttrs implements slog.Handler
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = append([]slog.Attr{}, h.attrs...)
	prefix := h.groupPrefix()
	for _, a := range attrs {
		a.Key = prefix + a.Key
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

// WithGroup implements slog.Handler
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string{}, h.groups...), name)
	return &h2
}

func (h *ColorHandler) colorFor(level slog.Level, msg string) *color.Color {
	switch {
	case level >= slog.LevelError:
		return redText
	case level >= slog.LevelWarn:
		return yellowText
	case level >= slog.LevelInfo && containsHighlightWord(msg):
		return greenText
	default:
		return nil
	}
}

func (h *ColorHandler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func appendAttr(b *strings.Builder, a slog.Attr, prefix string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := prefix + a.Key
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			appendAttr(b, ga, key+".")
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(formatValue(a.Value))
}

func containsHighlightWord(msg string) bool {
	lower := strings.ToLower(msg)
	for _, w := range highlightWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func writeColored(b *strings.Builder, c *color.Color, s string) {
	if c == nil {
		b.WriteString(s)
		return
	}
	b.WriteString(c.Sprint(s))
}

func formatValue(v slog.Value) string {
	s := v.String()
	if strings.ContainsAny(s, " \t=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
