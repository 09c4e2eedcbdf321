package live

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/harmonline/model"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcast(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	assert.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	sent := model.LiveUpdate{
		Pitches: []model.NamedPitch{{Pitch: 0, Name: "C"}, {Pitch: 4, Name: "E"}},
		Chord:   "C",
	}
	require.NoError(t, hub.Broadcast(sent))

	var got model.LiveUpdate
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, sent, got)

	// late joiners start from the latest update
	late := dial(t, srv)
	var replay model.LiveUpdate
	require.NoError(t, late.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, late.ReadJSON(&replay))
	assert.Equal(t, "C", replay.Chord)
}

func TestClientDisconnectIsDropped(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	assert.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
}
