package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/infra/auth"
)

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) HandleEvent(ev domain.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return true
}

func (r *recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// serve starts a websocket server that checks the auth frame, answers with
// authReply and then writes frames before closing normally.
func serve(t *testing.T, authReply string, frames ...string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		assert.NotEmpty(t, r.URL.Query().Get("client_request_id"))

		ws, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer ws.Close()

		var frame authFrame
		if !assert.NoError(t, ws.ReadJSON(&frame)) {
			return
		}
		assert.Equal(t, "tok", frame.Token)
		assert.Equal(t, "alice", frame.UserDetails.ID)

		_ = ws.WriteMessage(websocket.TextMessage, []byte(authReply))
		for _, f := range frames {
			_ = ws.WriteMessage(websocket.TextMessage, []byte(f))
		}
		_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		// wait for the client to close its side
		_, _, _ = ws.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func testOptions(url string) Options {
	return Options{
		URL:    url,
		APIKey: "key",
		UserID: "alice",
		Tokens: auth.NewStaticTokenProvider("tok"),
	}
}

func TestConn_DispatchesKnownEvents(t *testing.T) {
	url := serve(t, `{"type":"connection.ok","connection_id":"conn-1"}`,
		`{"type":"health.check"}`,
		`{"type":"activity.added","fid":"user:alice","created_at":1714564800123456789,"activity":{"id":"a1","created_at":1714564800123456789}}`,
		`{"type":"something.new","fid":"user:alice"}`,
		`not json`,
		`{"type":"comment.deleted","fid":"user:alice","comment":{"id":"c1","object_id":"a1"}}`,
	)

	conn, err := Dial(context.Background(), testOptions(url))
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "conn-1", conn.ConnectionID())

	rec := &recorder{}
	require.NoError(t, conn.Run(context.Background(), rec))

	events := rec.Events()
	require.Len(t, events, 2)
	added, ok := events[0].(domain.ActivityAddedEvent)
	require.True(t, ok, "got %T", events[0])
	assert.Equal(t, "a1", added.Activity.ID)
	assert.Equal(t, "user:alice", added.FeedID())
	assert.True(t, added.Activity.CreatedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 123000000, time.UTC)))
	assert.Equal(t, domain.EventCommentDeleted, events[1].EventType())
}

func TestConn_AuthRejected(t *testing.T) {
	url := serve(t, `{"type":"connection.error","error":{"code":40,"message":"token expired"}}`)

	_, err := Dial(context.Background(), testOptions(url))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Contains(t, err.Error(), "token expired")
}

func TestConn_RunStopsOnContextCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		var frame authFrame
		_ = ws.ReadJSON(&frame)
		_ = ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"connection.ok","connection_id":"c"}`))
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	opts := testOptions("ws" + strings.TrimPrefix(srv.URL, "http"))
	conn, err := Dial(context.Background(), opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- conn.Run(ctx, &recorder{}) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
