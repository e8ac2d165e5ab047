package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	sub  Subscriber
}

type inbound struct {
	Action   string `json:"action"`
	MemberID string `json:"member_id"`
}

type ack struct {
	Room string `json:"room"`
}

type rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("realtime.read: unexpected close", "user_id", c.sub.UserID, "err", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.reply(c, Message{Event: "error", Data: rejection{Code: "invalid_message", Message: "message must be json"}})
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *client) handle(ctx context.Context, msg inbound) {
	switch msg.Action {
	case "join-admin-room":
		if !c.sub.IsStaff() {
			c.reject("forbidden", "admin room requires admin or treasurer role")
			return
		}
		c.joined(AdminRoom)
	case "join-user-room":
		memberID := strings.TrimSpace(msg.MemberID)
		if memberID == "" {
			c.reject("invalid_message", "member_id is required")
			return
		}
		if !c.sub.IsStaff() {
			if c.hub.auth == nil {
				c.reject("forbidden", "not allowed to follow this member")
				return
			}
			allowed, err := c.hub.auth.CanFollowMember(ctx, c.sub.UserID, memberID)
			if err != nil {
				c.hub.log.InternalError("realtime.join: authorize member room failed", err, "user_id", c.sub.UserID, "member_id", memberID)
				c.reject("internal_error", "could not verify membership")
				return
			}
			if !allowed {
				c.reject("forbidden", "not allowed to follow this member")
				return
			}
		}
		c.joined(UserRoom(memberID))
	default:
		c.reject("unknown_action", "unknown action")
	}
}

func (c *client) joined(room string) {
	if c.hub.join(c, room) {
		c.hub.reply(c, Message{Event: "joined", Data: ack{Room: room}})
	}
}

func (c *client) reject(code, message string) {
	c.hub.reply(c, Message{Event: "error", Data: rejection{Code: code, Message: message}})
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
