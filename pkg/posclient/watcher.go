package posclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/baancha/pos/pkg/theme"
)

// wsEvent mirrors the server's broadcast envelope.
type wsEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ThemeWatcher keeps a terminal's theme state in sync with the server by
// listening for theme broadcasts on the event socket.
type ThemeWatcher struct {
	serverURL string
	token     string
	state     *theme.State
}

func NewThemeWatcher(serverURL, token string, state *theme.State) *ThemeWatcher {
	return &ThemeWatcher{serverURL: serverURL, token: token, state: state}
}

// Run dials the socket and applies theme updates until the connection drops
// or the context is cancelled. Reconnection policy belongs to the caller.
func (w *ThemeWatcher) Run(ctx context.Context) error {
	conn, err := w.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	// The closer must not outlive this run: a read error below ends the run
	// while the context may stay live for the whole session.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read event: %w", err)
		}

		// WritePump batches queued events newline-separated into one frame.
		for _, line := range strings.Split(string(message), "\n") {
			if line == "" {
				continue
			}
			w.handle([]byte(line))
		}
	}
}

func (w *ThemeWatcher) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(w.serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"token": {w.token}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial event socket: %w", err)
	}
	return conn, nil
}

func (w *ThemeWatcher) handle(message []byte) {
	var event wsEvent
	if err := json.Unmarshal(message, &event); err != nil {
		log.Printf("ERROR: decode event: %v", err)
		return
	}
	if event.Type != "theme.updated" {
		return
	}

	var payload theme.Payload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		log.Printf("ERROR: decode theme payload: %v", err)
		return
	}
	w.state.Apply(payload)
}
