// Package notify is the user-facing notification boundary. Controller-level
// outcomes (success, failure, attention warnings) are funneled through a
// Notifier instead of raw errors so the UI always shows a uniform message.
package notify

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notification is a single user-facing message.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier surfaces notifications to the user.
type Notifier interface {
	Success(title, message string)
	Failure(title, message string)
	Warning(title, message string)
}
