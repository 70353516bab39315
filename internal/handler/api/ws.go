package api

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"onchainiq/internal/domain/models"
	"onchainiq/internal/usecase"
	xhttp "onchainiq/pkg/http"
	xlogger "onchainiq/pkg/logger"
)

const (
	wsMaxMessage = 256 << 10
	wsWriteWait  = 10 * time.Second
)

// wsInbound is a client frame: {"type":"chat","messages":[...]} starts a
// turn, {"type":"abort"} stops the running one.
type wsInbound struct {
	Type     string               `json:"type"`
	Messages []models.ChatMessage `json:"messages"`
}

// wsConn serialises writes; gorilla allows one concurrent writer.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) send(ev chatEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.conn.WriteJSON(ev)
}

// wsSession tracks the single running turn of one socket.
type wsSession struct {
	mu      sync.Mutex
	busy    bool
	current *usecase.Stream
}

// begin claims the socket for a new turn. It fails while one is running.
func (s *wsSession) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *wsSession) attach(st *usecase.Stream) {
	s.mu.Lock()
	s.current = st
	s.mu.Unlock()
}

// end releases the socket. Called before the final frame of a turn so the
// client may start the next one as soon as it sees it.
func (s *wsSession) end() {
	s.mu.Lock()
	s.busy = false
	s.current = nil
	s.mu.Unlock()
}

func (s *wsSession) abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		_ = s.current.Close()
	}
}

// ChatWS runs chat turns over a WebSocket, one at a time. A chat frame that
// arrives during a turn is refused with ERR_BUSY. Closing the socket aborts
// the running turn.
func (h *AIHandler) ChatWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	ws := &wsConn{conn: conn}
	sess := &wsSession{}
	turns := make(chan []models.ChatMessage, 1)

	go func() {
		defer cancel()
		for {
			var in wsInbound
			if err := conn.ReadJSON(&in); err != nil {
				return
			}
			switch in.Type {
			case "abort":
				sess.abort()
			case "chat":
				if !sess.begin() {
					_ = ws.send(chatEvent{Type: "error", Code: "ERR_BUSY", Message: "a reply is already streaming"})
					break
				}
				turns <- in.Messages
			default:
				_ = ws.send(chatEvent{Type: "error", Code: "ERR_BAD_REQUEST", Message: "unknown frame type"})
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msgs := <-turns:
			if err := h.wsTurn(ctx, ws, sess, msgs); err != nil {
				h.logger.Debug("websocket write failed", xlogger.Error(err))
				return nil
			}
		}
	}
}

func (h *AIHandler) wsTurn(ctx context.Context, ws *wsConn, sess *wsSession, msgs []models.ChatMessage) error {
	defer sess.end()
	final := func(ev chatEvent) error {
		sess.end()
		return ws.send(ev)
	}

	req := &models.ChatRequest{Messages: msgs}
	if verr := xhttp.ValidateStruct(ctx, req); verr != nil {
		return final(chatEvent{Type: "error", Code: "ERR_BAD_REQUEST", Message: verr[0].Message})
	}

	s, err := h.chat.Chat(ctx, req.Messages)
	if err != nil {
		h.logger.Error("chat usecase error", xlogger.Error(err))
		return final(errorEvent(err))
	}
	sess.attach(s)
	defer s.Close()

	for {
		frag, err := s.Recv()
		switch {
		case errors.Is(err, io.EOF):
			return final(doneEvent(s))
		case err != nil:
			return final(errorEvent(err))
		}
		if err := ws.send(textEvent(frag)); err != nil {
			return err
		}
	}
}
