package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arbor-ui/arbor/pkg/protocol"
	"github.com/arbor-ui/arbor/pkg/rendertree"
)

func dialLive(t *testing.T, ts *httptest.Server, root string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live/" + root
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readPacket(t *testing.T, conn *websocket.Conn) *protocol.Packet {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	pkt, err := protocol.DecodePacket(data)
	if err != nil {
		t.Fatalf("DecodePacket: %v", err)
	}
	return pkt
}

func sendControl(t *testing.T, conn *websocket.Conn, cm *protocol.ControlMessage) {
	t.Helper()
	pkt := protocol.NewPacket(protocol.PacketControl, protocol.EncodeControl(cm))
	if err := conn.WriteMessage(websocket.BinaryMessage, pkt.Encode()); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
}

func TestLiveInitialRender(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil).Handler())
	defer ts.Close()

	conn := dialLive(t, ts, "home")
	pkt := readPacket(t, conn)
	if pkt.Type != protocol.PacketRenderTree {
		t.Fatalf("Type = %v, want RenderTree", pkt.Type)
	}

	frames, err := protocol.DecodeFrames(protocol.NewDecoder(pkt.Payload))
	if err != nil {
		t.Fatalf("DecodeFrames: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("len(frames) = %d, want 3", len(frames))
	}
	if frames[0].Kind != rendertree.KindElement || frames[0].SubtreeLength != 3 {
		t.Errorf("frame 0 = %v, want Element len=3", frames[0])
	}
}

func TestLiveRefresh(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil).Handler())
	defer ts.Close()

	conn := dialLive(t, ts, "home")
	readPacket(t, conn) // initial render

	sendControl(t, conn, &protocol.ControlMessage{Type: protocol.ControlRefresh})
	pkt := readPacket(t, conn)
	if pkt.Type != protocol.PacketRenderTree {
		t.Errorf("Type = %v, want RenderTree", pkt.Type)
	}
}

func TestLivePingPong(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil).Handler())
	defer ts.Close()

	conn := dialLive(t, ts, "home")
	readPacket(t, conn) // initial render

	sendControl(t, conn, &protocol.ControlMessage{Type: protocol.ControlPing, Timestamp: 777})
	pkt := readPacket(t, conn)
	if pkt.Type != protocol.PacketControl {
		t.Fatalf("Type = %v, want Control", pkt.Type)
	}
	cm, err := protocol.DecodeControl(pkt.Payload)
	if err != nil {
		t.Fatalf("DecodeControl: %v", err)
	}
	if cm.Type != protocol.ControlPong || cm.Timestamp != 777 {
		t.Errorf("got %+v, want Pong echoing 777", cm)
	}
}

func TestLiveRenderFailureIsFatal(t *testing.T) {
	s := New(nil)
	s.Register("bad", func(ctx context.Context, b *rendertree.Builder) error {
		return b.CloseElement()
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialLive(t, ts, "bad")
	pkt := readPacket(t, conn)
	if pkt.Type != protocol.PacketError {
		t.Fatalf("Type = %v, want Error", pkt.Type)
	}
	em, err := protocol.DecodeErrorMessage(pkt.Payload)
	if err != nil {
		t.Fatalf("DecodeErrorMessage: %v", err)
	}
	if em.Code != protocol.ErrRenderFailed || !em.Fatal {
		t.Errorf("got %+v, want fatal RenderFailed", em)
	}
}

func TestLiveOversizedTreeReportedNotTruncated(t *testing.T) {
	// A root can legally produce more frames than fit one packet; the
	// client must get a fatal error packet, never a wrapped length
	// header with a truncated frame sequence.
	s := New(nil)
	s.Register("huge", func(ctx context.Context, b *rendertree.Builder) error {
		b.OpenElement(0, "ul")
		for i := 0; i < 6000; i++ {
			b.AddText(i+1, "aaaaaaaaaaaaaaaa")
		}
		return b.CloseElement()
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialLive(t, ts, "huge")
	pkt := readPacket(t, conn)
	if pkt.Type != protocol.PacketError {
		t.Fatalf("Type = %v, want Error", pkt.Type)
	}
	em, err := protocol.DecodeErrorMessage(pkt.Payload)
	if err != nil {
		t.Fatalf("DecodeErrorMessage: %v", err)
	}
	if em.Code != protocol.ErrServerError || !em.Fatal {
		t.Errorf("got %+v, want fatal ServerError", em)
	}
}

func TestLiveUnknownRoot(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live/nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded for unknown root")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Errorf("response = %v, want 404", resp)
	}
}

func TestLiveConnectionsAreIndependent(t *testing.T) {
	// Two clients on the same root get separate builders, so
	// interleaved refreshes never corrupt each other's sequences.
	ts := httptest.NewServer(newTestServer(nil).Handler())
	defer ts.Close()

	a := dialLive(t, ts, "home")
	b := dialLive(t, ts, "home")
	readPacket(t, a)
	readPacket(t, b)

	sendControl(t, a, &protocol.ControlMessage{Type: protocol.ControlRefresh})
	sendControl(t, b, &protocol.ControlMessage{Type: protocol.ControlRefresh})

	for _, conn := range []*websocket.Conn{a, b} {
		pkt := readPacket(t, conn)
		frames, err := protocol.DecodeFrames(protocol.NewDecoder(pkt.Payload))
		if err != nil {
			t.Fatalf("DecodeFrames: %v", err)
		}
		if len(frames) != 3 {
			t.Errorf("len(frames) = %d, want 3", len(frames))
		}
	}
}
