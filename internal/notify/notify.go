// Package notify carries short user-facing messages, the cli counterpart of
// toast notifications.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notification struct {
	Level       Level  `json:"level" yaml:"level"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type Notifier interface {
	Notify(n Notification)
}

func Error(n Notifier, title, description string) {
	n.Notify(Notification{Level: LevelError, Title: title, Description: description})
}

func Success(n Notifier, title, description string) {
	n.Notify(Notification{Level: LevelSuccess, Title: title, Description: description})
}

func Info(n Notifier, title, description string) {
	n.Notify(Notification{Level: LevelInfo, Title: title, Description: description})
}

// LogNotifier writes notifications to the cli logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(n Notification) {
	fields := []zap.Field{zap.String("title", n.Title)}
	if n.Description != "" {
		fields = append(fields, zap.String("description", n.Description))
	}

	switch n.Level {
	case LevelError:
		l.logger.Error("notification", fields...)
	default:
		l.logger.Info("notification", fields...)
	}
}

// Collector keeps notifications in memory. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

func (c *Collector) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
}

// Drain returns the collected notifications and forgets them.
func (c *Collector) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.items
	c.items = nil
	return items
}

// Multi fans a notification out to every notifier.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(Notification) {}
