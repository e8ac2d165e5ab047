package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dues-app-go/pkg/logger"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestParseChange(t *testing.T) {
	change, err := ParseChange(`{"table":"payments","type":"INSERT","id":"p1","member_id":"m1"}`)
	require.NoError(t, err)
	require.Equal(t, Change{Table: "payments", Type: "INSERT", ID: "p1", MemberID: "m1"}, change)

	change, err = ParseChange(`{"table":"members","type":"UPDATE","id":"m1","member_id":null}`)
	require.NoError(t, err)
	require.Empty(t, change.MemberID)

	_, err = ParseChange(`{"type":"INSERT"}`)
	require.Error(t, err)
	_, err = ParseChange(`not json`)
	require.Error(t, err)
}

func events(deliveries []Delivery) []string {
	result := make([]string, 0, len(deliveries))
	for _, d := range deliveries {
		result = append(result, d.Room+" "+d.Message.Event)
	}
	return result
}

func TestRoutePayment(t *testing.T) {
	change := Change{Table: "payments", Type: "INSERT", ID: "p1", MemberID: "m1"}
	require.Equal(t, []string{
		"admin-room payments:changed",
		"user-m1 payment:received",
		"admin-room dashboard:update",
	}, events(Route(change)))
}

func TestRoutePaymentDelete(t *testing.T) {
	change := Change{Table: "payments", Type: "DELETE", ID: "p1", MemberID: "m1"}
	require.Equal(t, []string{
		"admin-room payments:changed",
		"admin-room dashboard:update",
	}, events(Route(change)))
}

func TestRouteOtherTables(t *testing.T) {
	require.Equal(t, []string{"admin-room donations:changed", "admin-room dashboard:update"},
		events(Route(Change{Table: "donations", Type: "INSERT", ID: "d1"})))
	require.Equal(t, []string{"admin-room reminders:changed", "user-m2 reminder:notification"},
		events(Route(Change{Table: "reminders", Type: "INSERT", ID: "r1", MemberID: "m2"})))
	require.Equal(t, []string{"admin-room members:changed", "user-m3 member:update"},
		events(Route(Change{Table: "members", Type: "UPDATE", ID: "m3"})))
}

type allowList map[string]string

func (a allowList) CanFollowMember(_ context.Context, userID, memberID string) (bool, error) {
	return a[userID] == memberID, nil
}

func startHub(t *testing.T, hub *Hub, sub Subscriber) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, sub)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
}

func receive(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubAdminRoomBroadcast(t *testing.T) {
	hub := NewHub(allowList{}, nil, logger.Discard())
	conn := startHub(t, hub, Subscriber{UserID: "u1", Role: "treasurer"})

	send(t, conn, `{"action":"join-admin-room"}`)
	msg := receive(t, conn)
	require.Equal(t, "joined", msg["event"])
	require.Equal(t, 1, hub.RoomSize(AdminRoom))

	hub.Publish(Change{Table: "expenses", Type: "INSERT", ID: "e1"})
	require.Equal(t, "expenses:changed", receive(t, conn)["event"])
	require.Equal(t, "dashboard:update", receive(t, conn)["event"])
}

func TestHubMemberCannotJoinAdminRoom(t *testing.T) {
	hub := NewHub(allowList{}, nil, logger.Discard())
	conn := startHub(t, hub, Subscriber{UserID: "u2", Role: "member"})

	send(t, conn, `{"action":"join-admin-room"}`)
	msg := receive(t, conn)
	require.Equal(t, "error", msg["event"])
	require.Equal(t, 0, hub.RoomSize(AdminRoom))
}

func TestHubUserRoomAuthorization(t *testing.T) {
	hub := NewHub(allowList{"u3": "m3"}, nil, logger.Discard())
	conn := startHub(t, hub, Subscriber{UserID: "u3", Role: "member"})

	send(t, conn, `{"action":"join-user-room","member_id":"m4"}`)
	require.Equal(t, "error", receive(t, conn)["event"])

	send(t, conn, `{"action":"join-user-room","member_id":"m3"}`)
	require.Equal(t, "joined", receive(t, conn)["event"])

	hub.Publish(Change{Table: "payments", Type: "INSERT", ID: "p9", MemberID: "m3"})
	require.Equal(t, "payment:received", receive(t, conn)["event"])
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub(nil, nil, logger.Discard())
	slow := &client{hub: hub, send: make(chan []byte, 1), sub: Subscriber{UserID: "slow"}}
	hub.add(slow)
	require.True(t, hub.join(slow, AdminRoom))

	require.Equal(t, 1, hub.Broadcast(AdminRoom, Message{Event: "first"}))
	require.Equal(t, 0, hub.Broadcast(AdminRoom, Message{Event: "second"}))
	require.Equal(t, 0, hub.ClientCount())
	require.Equal(t, 0, hub.RoomSize(AdminRoom))

	_, open := <-slow.send
	require.True(t, open)
	_, open = <-slow.send
	require.False(t, open)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:5173"})
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	require.True(t, check(r))

	r.Header.Set("Origin", "http://localhost:5173")
	require.True(t, check(r))

	r.Header.Set("Origin", "http://evil.example")
	require.False(t, check(r))
}
