package algo

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

// WebsocketTransport speaks to a remote host. Each websocket text message
// may carry one or more newline-separated host messages; each WriteLine is
// sent as its own message.
type WebsocketTransport struct {
	conn   *websocket.Conn
	lines  chan readResult
	mu     sync.Mutex
	closed bool
}

// DialWebsocket connects to a host. The token, when set, is passed as the
// token query parameter since browsers and most hosts cannot read custom
// headers on the upgrade request.
func DialWebsocket(ctx context.Context, hostURL, token string) (*WebsocketTransport, error) {
	u, err := url.Parse(hostURL)
	if err != nil {
		return nil, fmt.Errorf("parse host URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ws dial: %w", err)
	}
	conn.SetReadLimit(maxLineSize)

	t := &WebsocketTransport{
		conn:  conn,
		lines: make(chan readResult, 16),
	}
	go t.readLoop()
	return t, nil
}

func (t *WebsocketTransport) readLoop() {
	defer close(t.lines)
	for {
		_, msg, err := t.conn.ReadMessage()
		if err != nil {
			t.mu.Lock()
			closed := t.closed
			t.mu.Unlock()
			if !closed && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("WS read error")
				t.lines <- readResult{err: fmt.Errorf("ws read: %w", err)}
			}
			return
		}
		for _, line := range bytes.Split(msg, []byte("\n")) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			t.lines <- readResult{line: line}
		}
	}
}

// ReadLine returns the next host message. A normal close reads as io.EOF; a
// dropped connection returns the read error.
func (t *WebsocketTransport) ReadLine(ctx context.Context) ([]byte, error) {
	return receive(ctx, t.lines)
}

// WriteLine sends one message.
func (t *WebsocketTransport) WriteLine(line []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return t.conn.WriteMessage(websocket.TextMessage, line)
}

// Close sends a normal close frame and closes the connection.
func (t *WebsocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return t.conn.Close()
}
