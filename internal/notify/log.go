package notify

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// LogNotifier records notifications as JSON lines and keeps a bounded recent
// history the UI can poll.
type LogNotifier struct {
	mu     sync.Mutex
	enc    *json.Encoder
	recent []Notification
	keep   int
}

// NewLogNotifier writes one JSON object per notification to w and retains the
// last keep notifications in memory.
func NewLogNotifier(w io.Writer, keep int) *LogNotifier {
	if keep <= 0 {
		keep = 20
	}
	return &LogNotifier{enc: json.NewEncoder(w), keep: keep}
}

func (n *LogNotifier) Success(title, message string) {
	n.emit(Notification{Level: LevelSuccess, Title: title, Message: message})
}

func (n *LogNotifier) Failure(title, message string) {
	n.emit(Notification{Level: LevelError, Title: title, Message: message})
}

func (n *LogNotifier) Warning(title, message string) {
	n.emit(Notification{Level: LevelWarning, Title: title, Message: message})
}

// Recent returns the retained notifications, newest last.
func (n *LogNotifier) Recent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.recent))
	copy(out, n.recent)
	return out
}

func (n *LogNotifier) emit(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_ = n.enc.Encode(map[string]any{
		"ts":      time.Now().UTC().Format(time.RFC3339),
		"level":   note.Level,
		"title":   note.Title,
		"message": note.Message,
	})

	n.recent = append(n.recent, note)
	if len(n.recent) > n.keep {
		n.recent = n.recent[len(n.recent)-n.keep:]
	}
}
