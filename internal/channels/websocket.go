package channels

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/starkbot/starkbot/internal/bus"
	"github.com/starkbot/starkbot/internal/config"
	"github.com/starkbot/starkbot/internal/latency"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// inboundFrame is one request from a WebSocket client.
type inboundFrame struct {
	Type       string `json:"type"` // "command"
	ID         string `json:"id,omitempty"`
	Command    string `json:"command,omitempty"`
	Input      string `json:"input"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName,omitempty"`
}

// outboundFrame is one message back to a WebSocket client. ID echoes the
// originating request so clients can correlate chunked responses.
type outboundFrame struct {
	Type string `json:"type"` // reply | deferred | edit | followup | typing
	ID   string `json:"id,omitempty"`
	Text string `json:"text,omitempty"`
}

// WebSocketChannel serves a local WebSocket gateway speaking JSON frames.
type WebSocketChannel struct {
	BaseChannel
	port       int
	dispatcher Dispatcher
	lat        *latency.Window
	log        *log.Logger
	onReady    func()

	srv   *http.Server
	mu    sync.Mutex
	addr  string
	conns map[*wsConn]bool
}

// NewWebSocketChannel creates a WebSocketChannel.
func NewWebSocketChannel(cfg config.WebSocketConfig, d Dispatcher, lat *latency.Window, logger *log.Logger, onReady func()) *WebSocketChannel {
	return &WebSocketChannel{
		BaseChannel: BaseChannel{ChannelName: string(bus.PlatformWebSocket)},
		port:        cfg.Port,
		dispatcher:  d,
		lat:         lat,
		log:         logger.WithPrefix("websocket"),
		onReady:     onReady,
		conns:       make(map[*wsConn]bool),
	}
}

func (w *WebSocketChannel) Name() string { return w.ChannelName }

// Addr returns the bound listen address, empty before Start.
func (w *WebSocketChannel) Addr() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addr
}

// Start listens for WebSocket clients until ctx is cancelled.
func (w *WebSocketChannel) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(rw http.ResponseWriter, r *http.Request) {
		w.handleWS(ctx, rw, r)
	})

	addr := fmt.Sprintf("127.0.0.1:%d", w.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("websocket listen on %s: %w", addr, err)
	}

	w.srv = &http.Server{Handler: mux}
	w.mu.Lock()
	w.addr = ln.Addr().String()
	w.mu.Unlock()
	w.setRunning(true)
	defer w.setRunning(false)
	w.log.Info("WebSocket gateway listening", "url", "ws://"+ln.Addr().String()+"/ws")
	if w.onReady != nil {
		w.onReady()
	}

	go func() {
		<-ctx.Done()
		w.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		w.srv.Shutdown(shutdownCtx)
	}()

	if err := w.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts down the gateway.
func (w *WebSocketChannel) Stop() error {
	w.setRunning(false)
	w.closeAll()
	if w.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return w.srv.Shutdown(ctx)
	}
	return nil
}

func (w *WebSocketChannel) handleWS(ctx context.Context, rw http.ResponseWriter, r *http.Request) {
	raw, err := wsUpgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	conn := &wsConn{Conn: raw}

	w.mu.Lock()
	w.conns[conn] = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		delete(w.conns, conn)
		w.mu.Unlock()
		conn.Close()
	}()

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.log.Debug("WebSocket read error", "error", err)
			}
			return
		}
		if frame.Type != "command" {
			continue
		}
		if !w.IsAllowed(frame.SenderID) {
			continue
		}

		name := frame.Command
		input := frame.Input
		if name == "" {
			name, input = ParseCommand(frame.Input)
		}

		i := bus.NewInteraction(bus.PlatformWebSocket, name, input,
			&wsResponder{conn: conn, id: frame.ID, lat: w.lat})
		i.SenderID = frame.SenderID
		i.SenderName = frame.SenderName
		i.MessageID = frame.ID

		go w.dispatcher.Dispatch(ctx, i)
	}
}

func (w *WebSocketChannel) closeAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for c := range w.conns {
		c.WriteCloseSafe(websocket.CloseGoingAway, "server shutdown")
		c.Close()
		delete(w.conns, c)
	}
}

// wsConn wraps a websocket.Conn with a write mutex so concurrent
// interactions on one connection never interleave frames.
type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) WriteJSONSafe(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(v)
}

func (c *wsConn) WriteCloseSafe(code int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text))
}

// wsResponder carries one interaction's replies back over its socket.
type wsResponder struct {
	conn *wsConn
	id   string
	lat  *latency.Window
}

func (r *wsResponder) send(frame outboundFrame) error {
	frame.ID = r.id
	return r.lat.Observe(func() error {
		return r.conn.WriteJSONSafe(frame)
	})
}

func (r *wsResponder) Reply(_ context.Context, text string) error {
	return r.send(outboundFrame{Type: "reply", Text: text})
}

func (r *wsResponder) Defer(_ context.Context) error {
	return r.send(outboundFrame{Type: "deferred"})
}

func (r *wsResponder) EditReply(_ context.Context, text string) error {
	return r.send(outboundFrame{Type: "edit", Text: text})
}

func (r *wsResponder) FollowUp(_ context.Context, text string) error {
	return r.send(outboundFrame{Type: "followup", Text: text})
}

func (r *wsResponder) Typing(_ context.Context) error {
	// Typing frames are advisory; do not skew the RTT window.
	return r.conn.WriteJSONSafe(outboundFrame{Type: "typing", ID: r.id})
}
