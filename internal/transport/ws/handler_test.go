package ws

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"kartlobby/internal/domain"
	"kartlobby/internal/lobby"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// dialTest opens a raw websocket connection to the handler under test
func dialTest(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) *domain.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	ev, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return ev
}

func writeEvent(t *testing.T, conn *websocket.Conn, ev *domain.Event) {
	t.Helper()
	data, err := EncodeEvent(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestHandler_AdmissionOverWire(t *testing.T) {
	logger := testLogger()
	hub := NewHub(logger)
	defer hub.Close()

	srv := lobby.CreateServer(lobby.ServerConfig{
		ServerName:    "wire-test",
		DataVersion:   1,
		MinPlayers:    1,
		MaxPlayers:    4,
		MaxVotingTime: 30 * time.Second,
		DefaultTrack:  "oval",
		DefaultLaps:   3,
	}, domain.NewGameSetup(), hub, logger)
	defer srv.Shutdown()
	srv.Setup()

	ts := httptest.NewServer(NewHandler(hub, logger))
	defer ts.Close()

	conn := dialTest(t, ts.URL)
	writeEvent(t, conn, domain.NewEvent(domain.EventConnectionRequested,
		&domain.ConnectionRequestPayload{PlayerName: "ann", DataVersion: 1}))

	accepted := readEvent(t, conn)
	if accepted.Type != domain.EventConnectionAccepted {
		t.Fatalf("first reply = %s, want %s", accepted.Type, domain.EventConnectionAccepted)
	}
	payload := accepted.Payload.(*domain.ConnectionAcceptedPayload)
	if payload.PeerID != 1 {
		t.Errorf("assigned peer id = %d, want 1", payload.PeerID)
	}

	info := readEvent(t, conn)
	if info.Type != domain.EventServerInfo {
		t.Fatalf("second reply = %s, want %s", info.Type, domain.EventServerInfo)
	}
	if info.Payload.(*domain.ServerInfoPayload).ServerName != "wire-test" {
		t.Error("server info must carry the configured name")
	}

	roster := readEvent(t, conn)
	if roster.Type != domain.EventUpdatePlayerList {
		t.Fatalf("third reply = %s, want %s", roster.Type, domain.EventUpdatePlayerList)
	}

	// Undecodable frames are dropped without killing the connection
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"NOT_AN_EVENT"}`))

	writeEvent(t, conn, domain.NewEvent(domain.EventRequestBegin, nil))
	begin := readEvent(t, conn)
	if begin.Type != domain.EventStartSelection {
		t.Fatalf("reply = %s, want %s", begin.Type, domain.EventStartSelection)
	}

	writeEvent(t, conn, domain.NewEvent(domain.EventVote,
		&domain.VotePayload{PlayerName: "ann", TrackID: "volcano", Laps: 2}))
	relayed := readEvent(t, conn)
	if relayed.Type != domain.EventVote {
		t.Fatalf("reply = %s, want the relayed vote", relayed.Type)
	}

	if srv.VoteCount() != 1 {
		t.Errorf("VoteCount() = %d, want 1", srv.VoteCount())
	}
}
