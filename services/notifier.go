// services/notifier.go - In-process unlock notification fan-out
package services

import (
	"sync"
	"time"
)

// UnlockNotification is pushed to connected clients when a player unlocks
// an achievement.
type UnlockNotification struct {
	UserID     string    `json:"user_id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	Points     int       `json:"points"`
	QuizSlug   string    `json:"quiz_slug"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// UnlockNotifier fans unlock events out to per-user subscriber channels.
// Slow or gone subscribers are skipped, never blocked on.
type UnlockNotifier struct {
	mu   sync.RWMutex
	subs map[string]map[chan UnlockNotification]struct{}
}

func NewUnlockNotifier() *UnlockNotifier {
	return &UnlockNotifier{
		subs: make(map[string]map[chan UnlockNotification]struct{}),
	}
}

// Subscribe registers a channel for one user's unlock events.
func (n *UnlockNotifier) Subscribe(userID string) chan UnlockNotification {
	ch := make(chan UnlockNotification, 8)

	n.mu.Lock()
	if n.subs[userID] == nil {
		n.subs[userID] = make(map[chan UnlockNotification]struct{})
	}
	n.subs[userID][ch] = struct{}{}
	n.mu.Unlock()

	return ch
}

// Unsubscribe removes and closes a previously subscribed channel.
func (n *UnlockNotifier) Unsubscribe(userID string, ch chan UnlockNotification) {
	n.mu.Lock()
	if set, ok := n.subs[userID]; ok {
		if _, ok := set[ch]; ok {
			delete(set, ch)
			close(ch)
		}
		if len(set) == 0 {
			delete(n.subs, userID)
		}
	}
	n.mu.Unlock()
}

// Publish delivers a notification to all of the user's subscribers.
func (n *UnlockNotifier) Publish(note UnlockNotification) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.subs[note.UserID] {
		select {
		case ch <- note:
		default:
			// subscriber buffer full, drop rather than stall the engine
		}
	}
}
