package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// CompactEmitter collapses per-file progress into one status line that is
// rewritten in place. Everything else, such as warnings, errors and the
// run summary, is printed through next after the status line is cleared.
type CompactEmitter struct {
	dst  io.Writer
	next EventEmitter

	mu         sync.Mutex
	activeLine string
	seen       int
}

func NewCompactEmitter(dst io.Writer, next EventEmitter) *CompactEmitter {
	return &CompactEmitter{dst: dst, next: next}
}

func (e *CompactEmitter) Emit(event Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if event.Level == LevelInfo && isProgressEvent(event.Event) {
		e.seen++
		return e.renderStatusLocked(event.Message)
	}

	if err := e.clearActiveLineLocked(); err != nil {
		return err
	}
	return e.next.Emit(event)
}

func isProgressEvent(name EventName) bool {
	switch name {
	case EventFileOrganized, EventFileDuplicate, EventSidecarDeleted, EventFileSkipped, EventDirRemoved:
		return true
	}
	return false
}

func (e *CompactEmitter) renderStatusLocked(message string) error {
	status := fmt.Sprintf("[%d] %s", e.seen, truncateStatus(message, 100))
	if status == e.activeLine {
		return nil
	}
	e.activeLine = status
	_, err := fmt.Fprintf(e.dst, "\r\033[2K%s", status)
	return err
}

func (e *CompactEmitter) clearActiveLineLocked() error {
	if e.activeLine == "" {
		return nil
	}
	e.activeLine = ""
	_, err := fmt.Fprint(e.dst, "\r\033[2K")
	return err
}

func truncateStatus(line string, limit int) string {
	line = strings.TrimSpace(line)
	runes := []rune(line)
	if len(runes) <= limit {
		return line
	}
	return string(runes[:limit-3]) + "..."
}
