package connection

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Errors
var (
	ErrNotConnected        = errors.New("not connected")
	ErrStaleConnection     = errors.New("connection stale (no ping)")
	ErrAlreadyClosed       = errors.New("already closed")
	ErrConnectionExhausted = errors.New("connection lost: reconnect attempts exhausted")
)

// State is the lifecycle state of the managed connection.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw text frame
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// NoticeKind classifies a connection notice.
type NoticeKind int

const (
	// NoticeOpen is emitted when a connection attempt succeeds.
	NoticeOpen NoticeKind = iota
	// NoticeReconnecting is emitted when a reconnect has been scheduled.
	NoticeReconnecting
	// NoticeExhausted is emitted once the retry budget is spent. Terminal.
	NoticeExhausted
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeOpen:
		return "open"
	case NoticeReconnecting:
		return "reconnecting"
	case NoticeExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("notice(%d)", int(k))
}

// Notice reports a connection state change to the caller.
type Notice struct {
	Kind    NoticeKind
	Attempt int   // Reconnect attempt number (NoticeReconnecting only)
	Err     error // Cause (nil for NoticeOpen)
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL              string        // WebSocket URL (e.g., ws://localhost:8080/ws)
	HandshakeTimeout time.Duration // Dial handshake timeout
	PingInterval     time.Duration // Interval between keepalive pings
	PingTimeout      time.Duration // Max time without ping/pong before considering connection stale
	WriteTimeout     time.Duration // Write deadline for sends
	BufferSize       int           // Message channel buffer size
	UserAgent        string        // Sent on the handshake request when set
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     30 * time.Second,
		PingTimeout:      90 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       256,
	}
}

// ManagerConfig configures the Connection Manager.
type ManagerConfig struct {
	Client            ClientConfig  // Per-connection settings; Client.URL is the endpoint
	MaxRetries        int           // Reconnect attempts per failure streak
	ReconnectDelay    time.Duration // Flat delay before each reconnect
	MessageBufferSize int           // Initial capacity of the inbound queue
	NoticeBufferSize  int           // Buffer size for the notices channel
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Client:            DefaultClientConfig(),
		MaxRetries:        5,
		ReconnectDelay:    time.Second,
		MessageBufferSize: 64,
		NoticeBufferSize:  32,
	}
}

// Endpoint derives the socket URL from the page URL the client was
// pointed at: http becomes ws, https becomes wss, and the path is /ws.
// A bare host[:port] is treated as http.
func Endpoint(pageURL string) (string, error) {
	raw := strings.TrimSpace(pageURL)
	if raw == "" {
		return "", errors.New("empty server url")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server url %q has no host", pageURL)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = "/ws"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return u.String(), nil
}
