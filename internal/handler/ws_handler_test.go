package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notes-api/internal/logging"
	"notes-api/internal/service"
	"notes-api/internal/websocket"

	"github.com/gorilla/mux"
	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventServer(t *testing.T) (*httptest.Server, *websocket.Manager) {
	t.Helper()
	log := logging.Discard()

	manager := websocket.NewManager(websocket.Options{
		MaxClients: 10,
		WriteWait:  time.Second,
		PongWait:   time.Minute,
		PingPeriod: 50 * time.Second,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Run(ctx)

	repo := newMemoryNoteRepo()
	svc := service.NewNoteService(repo, log, service.WithPublisher(manager))

	r := mux.NewRouter()
	RegisterRoutes(r, NewNoteHandler(svc, log), NewHealthHandler(repo, log), NewWebSocketHandler(manager, 1024, 1024, log))

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, manager
}

func dial(t *testing.T, srv *httptest.Server, manager *websocket.Manager, want int) *ws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return manager.ClientCount() == want }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *ws.Conn) websocket.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg websocket.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWebSocket_ReceivesNoteEvents(t *testing.T) {
	srv, manager := newEventServer(t)
	conn := dial(t, srv, manager, 1)

	resp, err := http.Post(srv.URL+"/notes", "application/json", strings.NewReader(`{"title":"live"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	msg := readMessage(t, conn)
	assert.Equal(t, websocket.TypeNoteCreated, msg.Type)

	var payload websocket.NotePayload
	require.NoError(t, msg.UnmarshalPayload(&payload))
	require.NotNil(t, payload.Note)
	assert.Equal(t, payload.ID, payload.Note.ID)
	assert.Equal(t, "live", *payload.Note.Title)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/notes/"+payload.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	msg = readMessage(t, conn)
	assert.Equal(t, websocket.TypeNoteDeleted, msg.Type)
}

func TestWebSocket_PingPong(t *testing.T) {
	srv, manager := newEventServer(t)
	conn := dial(t, srv, manager, 1)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))

	msg := readMessage(t, conn)
	assert.Equal(t, websocket.TypePong, msg.Type)
}

func TestWebSocket_DisconnectUnregisters(t *testing.T) {
	srv, manager := newEventServer(t)
	conn := dial(t, srv, manager, 1)

	conn.Close()
	assert.Eventually(t, func() bool { return manager.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
