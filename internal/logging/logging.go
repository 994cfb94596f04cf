// Package logging appends errors and trace events to one shared log file as
// JSON lines, so a run of main and its pop-out processes can be read back as
// a single interleaved stream.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "gridscope.log"

var (
	mu      sync.Mutex
	tracing bool
	logPath = defaultLogFile
)

type entry struct {
	Time    time.Time   `json:"time"`
	Event   string      `json:"event"`
	Error   string      `json:"error,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Error appends err to the shared log. Nil is a no-op.
func Error(err error) {
	if err == nil {
		return
	}
	write(entry{Time: time.Now().UTC(), Event: "error", Error: err.Error()})
}

// SetTraceEnabled toggles emission of trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	tracing = enabled
	mu.Unlock()
}

// Trace appends a structured entry when tracing is enabled.
func Trace(event string, payload interface{}) {
	mu.Lock()
	enabled := tracing
	mu.Unlock()
	if !enabled {
		return
	}
	write(entry{Time: time.Now().UTC(), Event: event, Payload: payload})
}

// Configure sets the log destination. Blank falls back to the default path;
// missing directories are created.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// write opens, appends, and closes per entry. Pop-out processes share the
// file, so holding it open would interleave partial lines.
func write(e entry) {
	mu.Lock()
	path := logPath
	mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(e); err != nil {
		fmt.Fprintf(os.Stderr, "log encoding failed: %v\n", err)
	}
}
