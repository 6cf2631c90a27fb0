package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"edushareqa/internal/testutil"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (http.Handler, *Service, *Hub) {
	t.Helper()
	db := testutil.NewDB(t, &Notification{})
	hub := NewHub(nil, nil)
	s := NewService(NewRepository(db), hub, nil)

	r, protected := testutil.NewRouter()
	RegisterRoutes(protected, NewHandler(s, hub))
	return r, s, hub
}

func TestNotificationEndpoints(t *testing.T) {
	r, s, _ := setupTestRouter(t)
	student := testutil.As(5, "STUDENT")
	require.NoError(t, s.NotifyAnswered(context.Background(), 5, 1, 1, "first"))
	require.NoError(t, s.NotifyAnswered(context.Background(), 5, 2, 2, "second"))

	rr := testutil.DoJSON(r, student, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list ListResponse
	testutil.Decode(t, rr, &list)
	assert.Equal(t, int64(2), list.Total)
	assert.Equal(t, int64(2), list.UnreadCount)
	require.Len(t, list.Items, 2)

	rr = testutil.DoJSON(r, student, http.MethodPatch,
		"/api/notifications/"+strconv.FormatInt(list.Items[0].ID, 10)+"/read", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = testutil.DoJSON(r, testutil.As(6, "STUDENT"), http.MethodPatch,
		"/api/notifications/"+strconv.FormatInt(list.Items[1].ID, 10)+"/read", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = testutil.DoJSON(r, student, http.MethodGet, "/api/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var count struct {
		Count int64 `json:"count"`
	}
	testutil.Decode(t, rr, &count)
	assert.Equal(t, int64(1), count.Count)

	rr = testutil.DoJSON(r, student, http.MethodPost, "/api/notifications/read-all", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = testutil.DoJSON(r, testutil.Caller{}, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStream_PushesNotifications(t *testing.T) {
	r, s, hub := setupTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	header := http.Header{}
	header.Set("X-Test-User-ID", "9")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/notifications"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	readEvent := func() map[string]any {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev map[string]any
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	}

	hello := readEvent()
	assert.Equal(t, EventUnreadCount, hello["type"])
	assert.Equal(t, 1, hub.Connected(9))

	require.NoError(t, s.NotifyAnswered(context.Background(), 9, 4, 8, "pushed"))
	ev := readEvent()
	assert.Equal(t, EventNotification, ev["type"])
	payload := ev["payload"].(map[string]any)
	assert.Equal(t, float64(9), payload["userId"])
	assert.Equal(t, "ANSWER", payload["type"])
}

func TestHub_PushWithoutConnectionsIsNoop(t *testing.T) {
	hub := NewHub([]string{"http://localhost:5173"}, nil)
	hub.Push(1, Event{Type: EventNotification})
	assert.Zero(t, hub.Connected(1))
}
