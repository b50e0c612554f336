package toast

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Level is the toast severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Toast is a single user-facing notification.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier receives toasts for display. Implementations must be safe
// for concurrent use; several gateway calls may notify at once.
type Notifier interface {
	Notify(ctx context.Context, t Toast)
}

// Success builds a success-level toast.
func Success(message string) Toast {
	return newToast(LevelSuccess, message)
}

// Error builds an error-level toast.
func Error(message string) Toast {
	return newToast(LevelError, message)
}

// Info builds an info-level toast.
func Info(message string) Toast {
	return newToast(LevelInfo, message)
}

func newToast(level Level, message string) Toast {
	return Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
}
