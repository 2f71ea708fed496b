package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogEntry represents a single log message with metadata
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// LogBuffer keeps the latest log entries in a fixed size ring. It is safe
// for concurrent use.
type LogBuffer struct {
	mu     sync.RWMutex
	ring   []LogEntry
	next   int
	filled int
}

func NewLogBuffer(capacity int) *LogBuffer {
	return &LogBuffer{ring: make([]LogEntry, capacity)}
}

// Add stores entry, overwriting the oldest one once the ring is full.
func (lb *LogBuffer) Add(entry LogEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.ring[lb.next] = entry
	lb.next = (lb.next + 1) % len(lb.ring)
	lb.filled = min(lb.filled+1, len(lb.ring))
}

// Recent returns up to maxCount entries at or above level, newest first.
func (lb *LogBuffer) Recent(maxCount int, level slog.Level) []LogEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	out := make([]LogEntry, 0, min(maxCount, lb.filled))
	pos := lb.next
	for seen := 0; seen < lb.filled && len(out) < maxCount; seen++ {
		pos = (pos - 1 + len(lb.ring)) % len(lb.ring)
		if e := lb.ring[pos]; e.Level >= level {
			out = append(out, e)
		}
	}
	return out
}

func (lb *LogBuffer) Len() int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.filled
}

// LogBufferHandler is a slog.Handler feeding a LogBuffer. Attributes are
// flattened into the message text as key=value pairs.
type LogBufferHandler struct {
	buffer *LogBuffer
	level  slog.Leveler
	prefix string
	group  string
}

func NewLogBufferHandler(buffer *LogBuffer, level slog.Leveler) *LogBufferHandler {
	return &LogBufferHandler{
		buffer: buffer,
		level:  level,
	}
}

func (h *LogBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LogBufferHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(record.Message)
	b.WriteString(h.prefix)

	record.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, a)
		return true
	})

	h.buffer.Add(LogEntry{
		Time:    record.Time,
		Level:   record.Level,
		Message: b.String(),
	})
	return nil
}

func (h *LogBufferHandler) writeAttr(b *strings.Builder, a slog.Attr) {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value)
}

// WithAttrs returns a handler that appends attrs to every message.
func (h *LogBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, a := range attrs {
		h.writeAttr(&b, a)
	}
	clone := *h
	clone.prefix = b.String()
	return &clone
}

// WithGroup returns a handler that qualifies attribute keys with name.
func (h *LogBufferHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

var levelLabels = map[slog.Level]string{
	slog.LevelDebug: "DBG",
	slog.LevelInfo:  "INF",
	slog.LevelWarn:  "WRN",
	slog.LevelError: "ERR",
}

// FormatLogEntry renders an entry as one line of the log pane.
func FormatLogEntry(entry LogEntry) string {
	label, ok := levelLabels[entry.Level]
	if !ok {
		label = "???"
	}
	return fmt.Sprintf("%s [%s] %s", entry.Time.Format(time.TimeOnly), label, entry.Message)
}
