// Package notify carries user-facing outcome messages from actions to
// whatever presents them. Producers never block on presentation.
//
// Every notification belongs to the recipient attached to the producing
// context with WithRecipient, so two admins never see each other's results.
package notify

import (
	"context"
	"sync"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

func Success(msg string) Notification {
	return Notification{Severity: SeveritySuccess, Message: msg, At: time.Now()}
}

func Warning(msg string) Notification {
	return Notification{Severity: SeverityWarning, Message: msg, At: time.Now()}
}

// Error wraps err's message unchanged.
func Error(err error) Notification {
	return Notification{Severity: SeverityError, Message: err.Error(), At: time.Now()}
}

type recipientKey struct{}

// WithRecipient returns a context whose notifications are addressed to id.
func WithRecipient(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, recipientKey{}, id)
}

// Recipient returns the recipient attached to ctx, or "" when none is.
func Recipient(ctx context.Context) string {
	id, _ := ctx.Value(recipientKey{}).(string)
	return id
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(context.Context, Notification) {}

// Buffer keeps the most recent notifications of each recipient in memory
// until that recipient drains them.
type Buffer struct {
	mu    sync.Mutex
	items map[string][]Notification
	max   int
}

// NewBuffer creates a buffer holding at most max notifications; older ones
// are dropped first.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = 50
	}
	return &Buffer{max: max, items: make(map[string][]Notification)}
}

func (b *Buffer) Notify(ctx context.Context, n Notification) {
	id := Recipient(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	items := append(b.items[id], n)
	if len(items) > b.max {
		items = items[len(items)-b.max:]
	}
	b.items[id] = items
}

// Drain returns and clears the notifications of recipient, oldest first.
func (b *Buffer) Drain(recipient string) []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items[recipient]
	delete(b.items, recipient)
	return out
}

// Last returns the most recent notification of recipient, if any.
func (b *Buffer) Last(recipient string) (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.items[recipient]
	if len(items) == 0 {
		return Notification{}, false
	}
	return items[len(items)-1], true
}

// Func adapts a function to Notifier.
type Func func(context.Context, Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }
