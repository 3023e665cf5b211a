// handlers/live.go - websocket unlock feed
package handlers

import (
	"github.com/gofiber/websocket/v2"
)

// UnlockFeed streams unlock notifications to the connected player until
// the client hangs up. Note delivery is best effort; the achievements
// endpoint is the authoritative record.
func UnlockFeed(conn *websocket.Conn) {
	defer conn.Close()

	userID, _ := conn.Locals("userId").(string)
	if userID == "" {
		return
	}

	ch := unlockNotifier.Subscribe(userID)
	defer unlockNotifier.Unsubscribe(userID, ch)

	// Drain the read side so we notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case note, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(note); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
