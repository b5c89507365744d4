package router

import (
	"errors"

	"github.com/rickgao/newsdesk/internal/connection"
	"github.com/rickgao/newsdesk/internal/model"
)

var (
	// ErrEmptyResult is returned when the server answers with no data.
	ErrEmptyResult = errors.New("empty result")

	// ErrRateLimited is returned when an outbound request exceeds the rate limit.
	ErrRateLimited = errors.New("rate limited")
)

// User-visible notices.
const (
	MsgProcessingError = "Error processing server response"
	MsgNoArticles      = "No news articles found"
	MsgNotConnected    = "Not connected to server. Attempting to reconnect..."
	MsgConnectionLost  = "Connection lost. Use /reconnect to try again."
	MsgSendFailed      = "Failed to send request. Please try again."
	MsgRateLimited     = "Too many requests. Please wait a moment."
)

// RenderSink displays dispatcher output. Implementations must be safe for
// concurrent use: inbound frames and connection notices are delivered from
// separate goroutines.
type RenderSink interface {
	RenderFact(text string)
	RenderNewsList(articles []model.Article)
	RenderError(message string)
	RenderVerdict(v model.Verdict)
}

// ErrorClearer is implemented by sinks that can dismiss the current error.
type ErrorClearer interface {
	ClearError()
}

// StatusSink is implemented by sinks that show transient connection status.
type StatusSink interface {
	RenderStatus(message string)
}

// Sender is the outbound side of the connection.
type Sender interface {
	Send(data []byte) error
	Connect()
}

// Source yields inbound frames. Pop blocks and returns false once closed.
type Source interface {
	Pop() (connection.TimestampedMessage, bool)
}

// RouterConfig holds configuration for the Message Router.
type RouterConfig struct {
	// Outbound token bucket. RatePerSecond <= 0 disables limiting.
	RatePerSecond float64 // Default: 2
	Burst         int     // Default: 5
}

// DefaultRouterConfig returns default configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RatePerSecond: 2,
		Burst:         5,
	}
}

// RouterStats contains runtime statistics.
type RouterStats struct {
	MessagesReceived int64
	MessagesRouted   int64
	ParseErrors      int64
	UnknownMessages  int64
	EmptyResults     int64
	Sent             int64
	SendFailures     int64
	RateLimited      int64
}
