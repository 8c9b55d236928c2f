package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/arbor-ui/arbor/pkg/protocol"
	"github.com/arbor-ui/arbor/pkg/rendertree"
)

// liveConn is one WebSocket client. It owns a private builder, reused
// across passes with Clear, so connections never contend on builder
// state.
type liveConn struct {
	server  *Server
	conn    *websocket.Conn
	root    string
	render  RenderFunc
	builder *rendertree.Builder

	writeMu sync.Mutex
}

// handleLive upgrades the connection, sends the initial render, and
// serves refresh requests until the client goes away.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	root := chi.URLParam(r, "root")
	fn, ok := s.lookup(root)
	if !ok {
		http.Error(w, "unknown root: "+root, http.StatusNotFound)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  s.config.ReadBufferSize,
		WriteBufferSize: s.config.WriteBufferSize,
		CheckOrigin:     s.config.CheckOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "root", root, "error", err)
		return
	}
	defer conn.Close()

	lc := &liveConn{
		server:  s,
		conn:    conn,
		root:    root,
		render:  fn,
		builder: rendertree.NewBuilder(),
	}
	s.logger.Info("client connected", "root", root, "remote", conn.RemoteAddr())

	if err := lc.renderAndSend(r.Context()); err != nil {
		return
	}
	lc.readLoop(r.Context())
	s.logger.Info("client disconnected", "root", root, "remote", conn.RemoteAddr())
}

// readLoop consumes client packets until the connection closes.
func (lc *liveConn) readLoop(ctx context.Context) {
	for {
		msgType, data, err := lc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				lc.server.logger.Error("read error", "root", lc.root, "error", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		pkt, err := protocol.DecodePacket(data)
		if err != nil {
			lc.sendError(protocol.ErrInvalidPacket, "malformed packet", false)
			continue
		}

		switch pkt.Type {
		case protocol.PacketControl:
			if done := lc.handleControl(ctx, pkt.Payload); done {
				return
			}
		default:
			lc.server.logger.Debug("ignoring packet", "type", pkt.Type)
		}
	}
}

// handleControl processes one control message. It reports true when the
// connection should end.
func (lc *liveConn) handleControl(ctx context.Context, payload []byte) bool {
	cm, err := protocol.DecodeControl(payload)
	if err != nil {
		lc.sendError(protocol.ErrInvalidPacket, "malformed control message", false)
		return false
	}

	switch cm.Type {
	case protocol.ControlPing:
		lc.sendPacket(protocol.NewPacket(protocol.PacketControl, protocol.EncodeControl(&protocol.ControlMessage{
			Type:      protocol.ControlPong,
			Timestamp: cm.Timestamp,
		})))
	case protocol.ControlRefresh:
		if err := lc.renderAndSend(ctx); err != nil {
			return true
		}
	case protocol.ControlClose:
		lc.server.logger.Info("client closing", "root", lc.root, "reason", cm.Reason)
		return true
	}
	return false
}

// renderAndSend runs a pass on the connection's builder and streams the
// encoded sequence. A render failure is reported to the client as a
// fatal error packet.
func (lc *liveConn) renderAndSend(ctx context.Context) error {
	frames, err := lc.server.runPass(ctx, lc.root, lc.render, lc.builder)
	if err != nil {
		lc.sendError(protocol.ErrRenderFailed, err.Error(), true)
		return err
	}

	pkt, err := protocol.EncodeRenderTreePacket(frames)
	if err != nil {
		lc.server.logger.Error("encode failed", "root", lc.root, "error", err)
		lc.sendError(protocol.ErrServerError, err.Error(), true)
		return err
	}
	return lc.sendPacket(pkt)
}

// sendPacket writes one packet under the write lock and deadline.
func (lc *liveConn) sendPacket(pkt *protocol.Packet) error {
	lc.writeMu.Lock()
	defer lc.writeMu.Unlock()

	lc.conn.SetWriteDeadline(time.Now().Add(lc.server.config.WriteTimeout))
	if err := lc.conn.WriteMessage(websocket.BinaryMessage, pkt.Encode()); err != nil {
		lc.server.logger.Error("write error", "root", lc.root, "error", err)
		return err
	}
	return nil
}

func (lc *liveConn) sendError(code protocol.ErrorCode, msg string, fatal bool) {
	payload := protocol.EncodeErrorMessage(&protocol.ErrorMessage{
		Code:    code,
		Message: msg,
		Fatal:   fatal,
	})
	lc.sendPacket(protocol.NewPacket(protocol.PacketError, payload))
}
