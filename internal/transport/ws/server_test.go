package ws

import (
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"cultivar.farm/internal/gen"
	"cultivar.farm/internal/protocol"
	"cultivar.farm/internal/sim/catalogs"
	"cultivar.farm/internal/sim/world"
)

func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find repo root from %s", dir)
		}
		dir = parent
	}
}

func newTestServer(t *testing.T) (*Server, *world.World) {
	t.Helper()
	cats, err := catalogs.Load(filepath.Join(findRepoRoot(t), "configs"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	w, err := world.New(world.Config{
		Seed:           7,
		StartingFields: []string{"hex-0-0", "hex-0-1", "hex-1-0"},
	}, cats)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	g := gen.NewFailover(nil, gen.NewFallback(world.SeededRNG(8)), nil)
	return NewServer(w, g, log.New(io.Discard, "", 0)), w
}

func dialTestServer(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func recvRaw(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return b
}

func recvType(t *testing.T, conn *websocket.Conn, wantType string, out any) {
	t.Helper()
	b := recvRaw(t, conn)
	base, err := protocol.DecodeBase(b)
	if err != nil {
		t.Fatalf("decode base: %v", err)
	}
	if base.Type != wantType {
		t.Fatalf("message type=%s want %s (payload %s)", base.Type, wantType, b)
	}
	if err := json.Unmarshal(b, out); err != nil {
		t.Fatalf("decode %s: %v", wantType, err)
	}
}

func handshakeClient(t *testing.T, conn *websocket.Conn) protocol.WelcomeMsg {
	t.Helper()
	send(t, conn, protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      "ws-test",
	})
	var welcome protocol.WelcomeMsg
	recvType(t, conn, protocol.TypeWelcome, &welcome)
	var state protocol.StateMsg
	recvType(t, conn, protocol.TypeState, &state)
	return welcome
}

func TestHandshakeWelcomeAndInitialState(t *testing.T) {
	s, _ := newTestServer(t)
	conn := dialTestServer(t, s)

	welcome := handshakeClient(t, conn)
	if welcome.SessionID == "" {
		t.Fatal("welcome must carry a session id")
	}
	if welcome.FarmParams.Seed != 7 {
		t.Fatalf("seed=%d want 7", welcome.FarmParams.Seed)
	}
	if welcome.Catalogs.Plants.Count != 5 || welcome.Catalogs.Items.Count != 10 {
		t.Fatalf("catalog counts=%+v", welcome.Catalogs)
	}
	if welcome.Catalogs.Plants.Digest == "" {
		t.Fatal("welcome must carry catalog digests")
	}
}

func TestHandshakeRejectsBadVersion(t *testing.T) {
	s, _ := newTestServer(t)
	conn := dialTestServer(t, s)

	send(t, conn, protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: "0.9",
		ClientName:      "ws-test",
	})
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("server must close the connection on version mismatch")
	}
}

func TestActPlantSuccess(t *testing.T) {
	s, w := newTestServer(t)
	conn := dialTestServer(t, s)
	handshakeClient(t, conn)

	send(t, conn, protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              "req-1",
		Action:          "PLANT",
		FieldID:         "hex-0-0",
		CropID:          "wheat",
	})

	var res protocol.ResultMsg
	recvType(t, conn, protocol.TypeResult, &res)
	if !res.OK || res.AckFor != "req-1" {
		t.Fatalf("result=%+v want ok ack for req-1", res)
	}

	var state protocol.StateMsg
	recvType(t, conn, protocol.TypeState, &state)
	planted := false
	for _, f := range state.Fields {
		if f.ID == "hex-0-0" && f.Crop != nil && f.Crop.ID == "wheat" {
			planted = true
		}
	}
	if !planted {
		t.Fatalf("state does not show wheat on hex-0-0: %+v", state.Fields)
	}

	if f, ok := w.Field("hex-0-0"); !ok || f.Plant == nil {
		t.Fatal("world state does not show the planted crop")
	}
}

func TestActErrorCarriesDomainCode(t *testing.T) {
	s, _ := newTestServer(t)
	conn := dialTestServer(t, s)
	handshakeClient(t, conn)

	send(t, conn, protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              "req-2",
		Action:          "PLANT",
		FieldID:         "hex-0-0",
		CropID:          "kudzu",
	})

	var res protocol.ResultMsg
	recvType(t, conn, protocol.TypeResult, &res)
	if res.OK || res.Code != protocol.ErrUnknownCrop {
		t.Fatalf("result=%+v want %s", res, protocol.ErrUnknownCrop)
	}
	var state protocol.StateMsg
	recvType(t, conn, protocol.TypeState, &state)
}

func TestActUnknownAction(t *testing.T) {
	s, _ := newTestServer(t)
	conn := dialTestServer(t, s)
	handshakeClient(t, conn)

	send(t, conn, protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              "req-3",
		Action:          "TELEPORT",
	})

	var res protocol.ResultMsg
	recvType(t, conn, protocol.TypeResult, &res)
	if res.OK || res.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("result=%+v want %s", res, protocol.ErrProtoBadRequest)
	}
	var state protocol.StateMsg
	recvType(t, conn, protocol.TypeState, &state)
}

func TestActBadVersionRejected(t *testing.T) {
	s, _ := newTestServer(t)
	conn := dialTestServer(t, s)
	handshakeClient(t, conn)

	send(t, conn, protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: "0.9",
		ID:              "req-4",
		Action:          "PLANT",
	})

	var res protocol.ResultMsg
	recvType(t, conn, protocol.TypeResult, &res)
	if res.OK || res.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("result=%+v want proto error", res)
	}
}

func TestAdvanceMovesTimeAndFiresHook(t *testing.T) {
	s, _ := newTestServer(t)
	hooked := 0
	s.OnAdvance = func(w *world.World) { hooked++ }

	conn := dialTestServer(t, s)
	handshakeClient(t, conn)

	send(t, conn, protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              "req-5",
		Action:          "ADVANCE",
		Days:            3,
	})

	var res protocol.ResultMsg
	recvType(t, conn, protocol.TypeResult, &res)
	if !res.OK {
		t.Fatalf("advance result=%+v", res)
	}
	var state protocol.StateMsg
	recvType(t, conn, protocol.TypeState, &state)
	if state.Day != 4 {
		t.Fatalf("day=%d want 4 after advancing 3", state.Day)
	}
	if hooked != 1 {
		t.Fatalf("OnAdvance calls=%d want 1", hooked)
	}
}
