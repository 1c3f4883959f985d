// Package notify implements the process-wide toast queue used by list views.
//
// Toasts are appended, never edited. Each toast carries its own dismiss
// deadline; several may be visible at once.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/liora-cosmetic/liora/pkg/logger"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const (
	// DefaultErrorTimeout applies to error and warning toasts
	DefaultErrorTimeout = 5 * time.Second
	// DefaultInfoTimeout applies to info and success toasts
	DefaultInfoTimeout = 3 * time.Second
)

// Notification is a single toast
type Notification struct {
	Seq       uint64    `json:"seq"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier accepts toasts. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(level Level, message string)
}

// Queue is an append-only toast log with auto-dismiss
type Queue struct {
	mu           sync.Mutex
	entries      []Notification
	seq          uint64
	errorTimeout time.Duration
	infoTimeout  time.Duration
	now          func() time.Time
	onPush       func(Notification)
}

type Option func(*Queue)

// WithTimeouts overrides the dismiss timeouts
func WithTimeouts(errorTimeout, infoTimeout time.Duration) Option {
	return func(q *Queue) {
		if errorTimeout > 0 {
			q.errorTimeout = errorTimeout
		}
		if infoTimeout > 0 {
			q.infoTimeout = infoTimeout
		}
	}
}

// WithClock injects the time source
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

// WithOnPush registers a hook invoked after each append, outside the lock
func WithOnPush(fn func(Notification)) Option {
	return func(q *Queue) {
		q.onPush = fn
	}
}

func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		errorTimeout: DefaultErrorTimeout,
		infoTimeout:  DefaultInfoTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Notify appends a toast using the level's dismiss timeout
func (q *Queue) Notify(level Level, message string) {
	timeout := q.infoTimeout
	if level == LevelError || level == LevelWarning {
		timeout = q.errorTimeout
	}
	q.NotifyFor(level, message, timeout)
}

// NotifyFor appends a toast with an explicit dismiss timeout
func (q *Queue) NotifyFor(level Level, message string, timeout time.Duration) Notification {
	q.mu.Lock()
	q.seq++
	now := q.now()
	n := Notification{
		Seq:       q.seq,
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(timeout),
	}
	q.entries = append(q.entries, n)
	hook := q.onPush
	q.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return n
}

// Visible returns the toasts not yet dismissed, oldest first
func (q *Queue) Visible() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	var out []Notification
	for _, n := range q.entries {
		if now.Before(n.ExpiresAt) {
			out = append(out, n)
		}
	}
	return out
}

// History returns every toast ever appended
func (q *Queue) History() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.entries))
	copy(out, q.entries)
	return out
}

// NextExpiry returns the earliest pending dismiss deadline, if any
func (q *Queue) NextExpiry() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	var next time.Time
	found := false
	for _, n := range q.entries {
		if !now.Before(n.ExpiresAt) {
			continue
		}
		if !found || n.ExpiresAt.Before(next) {
			next = n.ExpiresAt
			found = true
		}
	}
	return next, found
}

// LogNotifier forwards toasts to the structured logger, for JSON mode
type LogNotifier struct {
	ctx context.Context
}

func NewLogNotifier(ctx context.Context) *LogNotifier {
	return &LogNotifier{ctx: ctx}
}

func (n *LogNotifier) Notify(level Level, message string) {
	log := logger.FromContext(n.ctx)
	switch level {
	case LevelError:
		log.Error(message)
	case LevelWarning:
		log.Warn(message)
	default:
		log.Info(message)
	}
}

// Multi fans a toast out to several notifiers
type Multi []Notifier

func (m Multi) Notify(level Level, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(level, message)
		}
	}
}

// Discard drops every toast
type Discard struct{}

func (Discard) Notify(Level, string) {}
