package realtime

import (
	"encoding/json"
	"fmt"
	"strings"
)

const AdminRoom = "admin-room"

func UserRoom(memberID string) string {
	return "user-" + memberID
}

// Change identifies one row change published by the database triggers. The
// payload carries keys only; clients refetch the rows they care about.
type Change struct {
	Table    string `json:"table"`
	Type     string `json:"type"`
	ID       string `json:"id"`
	MemberID string `json:"member_id,omitempty"`
}

func ParseChange(payload string) (Change, error) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return Change{}, fmt.Errorf("decode change: %w", err)
	}
	change.Table = strings.TrimSpace(change.Table)
	if change.Table == "" {
		return Change{}, fmt.Errorf("decode change: missing table")
	}
	return change, nil
}

func (c Change) deleted() bool {
	return strings.EqualFold(c.Type, "DELETE")
}

type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type Delivery struct {
	Room    string
	Message Message
}

var dashboardKinds = map[string]string{
	"payments":  "payment",
	"donations": "donation",
	"expenses":  "expense",
}

// Route maps a row change to the rooms and events it fans out to.
func Route(change Change) []Delivery {
	deliveries := []Delivery{{
		Room:    AdminRoom,
		Message: Message{Event: change.Table + ":changed", Data: change},
	}}

	switch change.Table {
	case "payments":
		if change.MemberID != "" && !change.deleted() {
			deliveries = append(deliveries, Delivery{
				Room:    UserRoom(change.MemberID),
				Message: Message{Event: "payment:received", Data: change},
			})
		}
	case "reminders":
		if change.MemberID != "" && !change.deleted() {
			deliveries = append(deliveries, Delivery{
				Room:    UserRoom(change.MemberID),
				Message: Message{Event: "reminder:notification", Data: change},
			})
		}
	case "members":
		if change.ID != "" {
			deliveries = append(deliveries, Delivery{
				Room:    UserRoom(change.ID),
				Message: Message{Event: "member:update", Data: change},
			})
		}
	}

	if kind, ok := dashboardKinds[change.Table]; ok {
		deliveries = append(deliveries, Delivery{
			Room:    AdminRoom,
			Message: Message{Event: "dashboard:update", Data: map[string]any{"type": kind, "data": change}},
		})
	}
	return deliveries
}
