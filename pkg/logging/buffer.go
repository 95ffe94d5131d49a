package logging

import (
	"strings"
	"sync"
)

// DefaultCaptureLines is how many lines GlobalLogCapture keeps.
const DefaultCaptureLines = 100

// LogCaptureWriter is a thread-safe writer that keeps the most recent lines
// in a ring.
type LogCaptureWriter struct {
	mu    sync.RWMutex
	lines []string
	next  int
	full  bool
}

// GlobalLogCapture is the singleton instance for capturing logs.
var GlobalLogCapture = NewLogCaptureWriter(DefaultCaptureLines)

// NewLogCaptureWriter keeps up to size lines.
func NewLogCaptureWriter(size int) *LogCaptureWriter {
	if size < 1 {
		size = 1
	}
	return &LogCaptureWriter{lines: make([]string, size)}
}

// Write implements io.Writer. Every call is one line.
func (w *LogCaptureWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines[w.next] = strings.TrimRight(string(p), "\n")
	w.next = (w.next + 1) % len(w.lines)
	if w.next == 0 {
		w.full = true
	}
	return len(p), nil
}

// GetLastLine returns the most recent log line.
func (w *LogCaptureWriter) GetLastLine() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := w.next - 1
	if i < 0 {
		if !w.full {
			return ""
		}
		i = len(w.lines) - 1
	}
	return w.lines[i]
}

// Tail returns up to n of the most recent lines, oldest first.
func (w *LogCaptureWriter) Tail(n int) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	count := w.next
	if w.full {
		count = len(w.lines)
	}
	if n <= 0 || n > count {
		n = count
	}
	out := make([]string, 0, n)
	for i := count - n; i < count; i++ {
		idx := i
		if w.full {
			idx = (w.next + i) % len(w.lines)
		}
		out = append(out, w.lines[idx])
	}
	return out
}
