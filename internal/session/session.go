// Package session keeps per-conversation state: the order the customer is
// asking about and the exchanges so far.
package session

import (
	"context"
	"time"
)

// Exchange is one customer message and the reply it received.
type Exchange struct {
	ID        string    `json:"id"`
	Customer  string    `json:"customer"`
	Assistant string    `json:"assistant"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	ID        string     `json:"id"`
	OrderID   string     `json:"order_id,omitempty"`
	History   []Exchange `json:"history"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Recent returns up to n of the latest exchanges, oldest first.
func (s *Session) Recent(n int) []Exchange {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

func (s *Session) clone() *Session {
	c := *s
	c.History = append([]Exchange(nil), s.History...)
	return &c
}

// Store owns session state. Implementations return copies, so callers may
// read a Session without holding any lock.
type Store interface {
	// GetOrCreate returns the session for id, creating an empty one if needed.
	GetOrCreate(ctx context.Context, id string) (*Session, error)
	// Get returns the session for id, or nil if it was never created.
	Get(ctx context.Context, id string) (*Session, error)
	// SetOrder replaces the session's order reference.
	SetOrder(ctx context.Context, id, orderID string) error
	// Append adds an exchange to the end of the session's history.
	Append(ctx context.Context, id string, ex Exchange) error
	Close() error
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, History: []Exchange{}, CreatedAt: now, UpdatedAt: now}
}

// appendCapped appends ex and drops the oldest exchanges beyond limit. limit <= 0 means unbounded.
func appendCapped(history []Exchange, ex Exchange, limit int) []Exchange {
	history = append(history, ex)
	if limit > 0 && len(history) > limit {
		history = append([]Exchange(nil), history[len(history)-limit:]...)
	}
	return history
}
