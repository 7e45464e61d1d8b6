package handler

import "github.com/dukerupert/pantrybot/internal/websocket"

// Publisher delivers change notifications to a user's open connections.
type Publisher interface {
	Publish(userID int64, msg websocket.Message)
}

func publish(p Publisher, userID int64, entity, action string, id int64) {
	if p == nil {
		return
	}
	p.Publish(userID, websocket.NewMessage(entity, action, id))
}
