package notify

import (
	"time"

	"github.com/google/uuid"
)

// DisplayDuration is how long an in-app notification stays on screen.
const DisplayDuration = 5 * time.Second

// Queue shows in-app notifications one at a time. It is driven by the UI
// goroutine and is not safe for concurrent use.
type Queue struct {
	pending []Notification
	current *Notification
}

// Push enqueues n. It reports true when n became the visible notification,
// in which case the caller should schedule Expire after DisplayDuration.
func (q *Queue) Push(n Notification) bool {
	if q.current == nil {
		q.current = &n
		return true
	}

	q.pending = append(q.pending, n)
	return false
}

// Current returns the visible notification.
func (q *Queue) Current() (Notification, bool) {
	if q.current == nil {
		return Notification{}, false
	}
	return *q.current, true
}

// Expire hides the notification with id if it is visible and promotes the next one.
// It returns the newly visible notification, if any.
func (q *Queue) Expire(id uuid.UUID) (Notification, bool) {
	if q.current == nil || q.current.ID != id {
		return Notification{}, false
	}

	q.current = nil
	if len(q.pending) == 0 {
		return Notification{}, false
	}

	next := q.pending[0]
	q.pending = q.pending[1:]
	q.current = &next
	return next, true
}

// Len returns the number of notifications waiting behind the visible one.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Clear drops everything.
func (q *Queue) Clear() {
	q.pending = nil
	q.current = nil
}
