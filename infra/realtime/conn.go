// Package realtime reads push events from the feeds websocket and hands them
// to the state engine. It does not reconnect: when the connection drops, Run
// returns and the caller decides what to do.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/CrestNiraj12/feedmirror/decode"
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/infra/auth"
)

const (
	typeConnectionOK    = "connection.ok"
	typeConnectionError = "connection.error"
	typeHealthCheck     = "health.check"
)

type Settings struct {
	HandshakeTimeout time.Duration
	AuthTimeout      time.Duration
	PingTimeout      time.Duration
	WriteTimeout     time.Duration
	ReadTimeout      time.Duration
}

func DefaultSettings() *Settings {
	return &Settings{
		HandshakeTimeout: 5 * time.Second,
		AuthTimeout:      5 * time.Second,
		PingTimeout:      25 * time.Second,
		WriteTimeout:     5 * time.Second,
		ReadTimeout:      60 * time.Second,
	}
}

// Handler receives decoded events. *feeds.Client satisfies it.
type Handler interface {
	HandleEvent(domain.Event) bool
}

type Options struct {
	URL      string // e.g. "wss://feeds.example.com/connect"
	APIKey   string
	UserID   string
	Tokens   auth.TokenProvider
	Decoder  *decode.Registry
	Logger   *slog.Logger
	Settings *Settings
}

// Conn is one authenticated websocket connection.
type Conn struct {
	ws           *websocket.Conn
	decoder      *decode.Registry
	logger       *slog.Logger
	settings     *Settings
	connectionID string

	writeMu sync.Mutex
}

type authFrame struct {
	Token       string      `json:"token"`
	UserDetails userDetails `json:"user_details"`
}

type userDetails struct {
	ID string `json:"id"`
}

type controlFrame struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connection_id,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
	Error        *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Dial opens the websocket and authenticates it.
func Dial(ctx context.Context, opts Options) (*Conn, error) {
	settings := opts.Settings
	if settings == nil {
		settings = DefaultSettings()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	decoder := opts.Decoder
	if decoder == nil {
		decoder = decode.NewRegistry()
	}

	token, err := opts.Tokens.AccessToken()
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	requestID := uuid.NewString()
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing websocket url: %w", err)
	}
	q := u.Query()
	if opts.APIKey != "" {
		q.Set("api_key", opts.APIKey)
	}
	q.Set("stream-auth-type", "jwt")
	q.Set("X-Stream-Client", "feedmirror")
	q.Set("client_request_id", requestID)
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: settings.HandshakeTimeout,
	}
	ws, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", opts.URL, err)
	}

	c := &Conn{
		ws:       ws,
		decoder:  decoder,
		logger:   logger,
		settings: settings,
	}
	if err := c.authenticate(token, opts.UserID); err != nil {
		ws.Close()
		return nil, err
	}
	logger.Info("websocket connected", "connection_id", c.connectionID, "request_id", requestID)
	return c, nil
}

func (c *Conn) authenticate(token, userID string) error {
	if err := c.writeJSON(authFrame{Token: token, UserDetails: userDetails{ID: userID}}, c.settings.AuthTimeout); err != nil {
		return fmt.Errorf("sending auth: %w", err)
	}

	c.ws.SetReadDeadline(time.Now().Add(c.settings.AuthTimeout))
	_, message, err := c.ws.ReadMessage()
	if err != nil {
		return fmt.Errorf("reading auth response: %w", err)
	}
	var frame controlFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		return fmt.Errorf("%w: auth response: %v", domain.ErrDecode, err)
	}
	switch frame.Type {
	case typeConnectionOK:
		c.connectionID = frame.ConnectionID
		return nil
	case typeConnectionError:
		msg := "connection rejected"
		if frame.Error != nil {
			msg = frame.Error.Message
		}
		return fmt.Errorf("%s: %w", msg, domain.ErrUnauthorized)
	default:
		return fmt.Errorf("unexpected auth response %q", frame.Type)
	}
}

// ConnectionID is the id the server assigned to this connection.
func (c *Conn) ConnectionID() string { return c.connectionID }

// Run reads events and passes them to h until ctx is done or the connection
// fails. A normal close by the server returns nil.
func (c *Conn) Run(ctx context.Context, h Handler) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-runCtx.Done()
		c.ws.Close()
	}()
	go c.ping(runCtx)

	for {
		c.ws.SetReadDeadline(time.Now().Add(c.settings.ReadTimeout))
		messageType, message, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info("websocket closed by server")
				return nil
			}
			return fmt.Errorf("reading websocket: %w", err)
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.dispatch(message, h)
	}
}

func (c *Conn) dispatch(message []byte, h Handler) {
	var frame controlFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		c.logger.Warn("malformed websocket frame", "error", err)
		return
	}
	switch frame.Type {
	case typeHealthCheck, typeConnectionOK:
		return
	}

	ev, err := c.decoder.Event(message)
	if errors.Is(err, domain.ErrUnknownEvent) {
		c.logger.Debug("unknown event ignored", "type", frame.Type)
		return
	}
	if err != nil {
		c.logger.Warn("event decode failed", "type", frame.Type, "error", err)
		return
	}
	h.HandleEvent(ev)
}

func (c *Conn) ping(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.settings.PingTimeout):
			frame := controlFrame{Type: typeHealthCheck, ClientID: c.connectionID}
			if err := c.writeJSON(frame, c.settings.WriteTimeout); err != nil {
				c.logger.Debug("health check failed", "error", err)
				return
			}
		}
	}
}

func (c *Conn) writeJSON(v any, timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(timeout))
	return c.ws.WriteJSON(v)
}

// Close sends a close frame and closes the connection.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(c.settings.WriteTimeout))
	c.writeMu.Unlock()
	return c.ws.Close()
}
