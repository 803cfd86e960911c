// Package notify holds transient user notifications (toasts). Producers push
// and forget; shells read the active ones and render them until they expire.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/procat-editor/internal/pkg/clock"
)

// DefaultTTL is how long a notification stays active.
const DefaultTTL = 3 * time.Second

// Kind distinguishes the conditions a notification reports.
type Kind string

const (
	KindFetchFailed     Kind = "fetch_failed"
	KindNoChanges       Kind = "no_changes"
	KindUpdateSucceeded Kind = "update_succeeded"
	KindUpdateRejected  Kind = "update_rejected"
	KindUpdateFailed    Kind = "update_failed"
)

var messages = map[Kind]string{
	KindFetchFailed:     "Error fetching products!",
	KindNoChanges:       "No changes detected!",
	KindUpdateSucceeded: "Products updated successfully!",
	KindUpdateRejected:  "Failed to update products. Please try again.",
	KindUpdateFailed:    "Error: Unable to update products.",
}

// Message returns the default text for k.
func (k Kind) Message() string {
	return messages[k]
}

// IsError reports whether k reports a failure.
func (k Kind) IsError() bool {
	switch k {
	case KindFetchFailed, KindUpdateRejected, KindUpdateFailed:
		return true
	}
	return false
}

// Notification is one transient message.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Error     bool      `json:"error"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Queue stores notifications until they expire. Safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	clock clock.Clock
	ttl   time.Duration
	items []Notification
}

// NewQueue creates a queue. A non-positive ttl uses DefaultTTL.
func NewQueue(clk clock.Clock, ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{clock: clk, ttl: ttl}
}

// Push adds a notification of kind k with its default message.
func (q *Queue) Push(k Kind) Notification {
	return q.PushMessage(k, k.Message())
}

// PushMessage adds a notification with a custom message.
func (q *Queue) PushMessage(k Kind, message string) Notification {
	now := q.clock.Now()
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      k,
		Message:   message,
		Error:     k.IsError(),
		CreatedAt: now,
		ExpiresAt: now.Add(q.ttl),
	}

	q.mu.Lock()
	q.prune(now)
	q.items = append(q.items, n)
	q.mu.Unlock()
	return n
}

// Active returns unexpired notifications, oldest first.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.prune(q.clock.Now())
	return append([]Notification(nil), q.items...)
}

// Latest returns the newest unexpired notification.
func (q *Queue) Latest() (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.prune(q.clock.Now())
	if len(q.items) == 0 {
		return Notification{}, false
	}
	return q.items[len(q.items)-1], true
}

// Dismiss removes a notification before it expires.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

func (q *Queue) prune(now time.Time) {
	keep := q.items[:0]
	for _, n := range q.items {
		if now.Before(n.ExpiresAt) {
			keep = append(keep, n)
		}
	}
	q.items = keep
}
