package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/rickgao/newsdesk/internal/connection"
	"github.com/rickgao/newsdesk/internal/envelope"
	"github.com/rickgao/newsdesk/internal/model"
)

// Router routes inbound envelopes to a RenderSink and outbound user actions
// to the connection.
type Router interface {
	// Start consumes frames from src and notices until src is closed or
	// ctx is cancelled.
	Start(ctx context.Context, src Source, notices <-chan connection.Notice) error

	// Stop waits for the routing goroutines. Close src first so a blocked
	// Pop can return.
	Stop(ctx context.Context) error

	// HandleMessage routes a single inbound frame.
	HandleMessage(data []byte) error

	// HandleNotice reacts to a connection notice.
	HandleNotice(n connection.Notice)

	// Submit classifies and sends user-composed text.
	Submit(text string) error

	// RequestNews asks the server for articles in category.
	RequestNews(category string) error

	// RequestFact asks the server for a random fact.
	RequestFact() error

	// Stats returns current router statistics.
	Stats() RouterStats
}

// router is the internal implementation.
type router struct {
	cfg     RouterConfig
	sender  Sender
	sink    RenderSink
	limiter *rate.Limiter
	logger  *slog.Logger

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu              sync.RWMutex
	received        int64
	routed          int64
	parseErrors     int64
	unknownMessages int64
	emptyResults    int64
	sent            int64
	sendFailures    int64
	rateLimited     int64
}

// NewRouter creates a new Message Router.
func NewRouter(cfg RouterConfig, sender Sender, sink RenderSink, logger *slog.Logger) Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := &router{
		cfg:    cfg,
		sender: sender,
		sink:   sink,
		logger: logger,
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return r
}

// Start begins routing.
func (r *router) Start(ctx context.Context, src Source, notices <-chan connection.Notice) error {
	if r.ctx != nil {
		return fmt.Errorf("message router already started")
	}
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(2)
	go r.messageLoop(src)
	go r.noticeLoop(notices)

	r.logger.Info("message router started",
		"rate_per_second", r.cfg.RatePerSecond,
		"burst", r.cfg.Burst,
	)

	return nil
}

// Stop gracefully shuts down the router.
func (r *router) Stop(ctx context.Context) error {
	r.logger.Info("stopping message router")

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("message router stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("message router stop timed out")
		return ctx.Err()
	}
}

// Stats returns current statistics.
func (r *router) Stats() RouterStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RouterStats{
		MessagesReceived: r.received,
		MessagesRouted:   r.routed,
		ParseErrors:      r.parseErrors,
		UnknownMessages:  r.unknownMessages,
		EmptyResults:     r.emptyResults,
		Sent:             r.sent,
		SendFailures:     r.sendFailures,
		RateLimited:      r.rateLimited,
	}
}

// messageLoop drains src until it is closed or the router stops.
func (r *router) messageLoop(src Source) {
	defer r.wg.Done()

	for {
		msg, ok := src.Pop()
		if !ok {
			r.logger.Info("input queue closed")
			return
		}
		if r.ctx.Err() != nil {
			return
		}
		r.HandleMessage(msg.Data)
	}
}

// noticeLoop forwards connection notices.
func (r *router) noticeLoop(notices <-chan connection.Notice) {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case n, ok := <-notices:
			if !ok {
				return
			}
			r.HandleNotice(n)
		}
	}
}

// HandleMessage parses and routes a single frame. The returned error is
// informational: malformed frames and empty results have already been
// reported to the sink.
func (r *router) HandleMessage(data []byte) error {
	r.count(&r.received)

	msg, err := envelope.Decode(data)
	if err != nil {
		r.logger.Warn("failed to parse message", "error", err)
		r.count(&r.parseErrors)
		r.sink.RenderError(MsgProcessingError)
		return err
	}

	switch m := msg.(type) {
	case envelope.Fact:
		r.sink.RenderFact(m.Text)

	case envelope.News:
		if len(m.Articles) == 0 {
			r.count(&r.emptyResults)
			r.sink.RenderError(MsgNoArticles)
			return ErrEmptyResult
		}
		articles := make([]model.Article, len(m.Articles))
		for i, a := range m.Articles {
			articles[i] = a.WithDefaults()
		}
		r.sink.RenderNewsList(articles)

	case envelope.Error:
		r.sink.RenderError(m.Message)

	case envelope.Verdict:
		r.sink.RenderVerdict(m.Verdict)

	case envelope.Unknown:
		r.logger.Debug("skipping message type", "type", m.Type)
		r.count(&r.unknownMessages)
		return nil
	}

	r.count(&r.routed)
	return nil
}

// HandleNotice reacts to connection lifecycle changes.
func (r *router) HandleNotice(n connection.Notice) {
	switch n.Kind {
	case connection.NoticeOpen:
		if c, ok := r.sink.(ErrorClearer); ok {
			c.ClearError()
		}

	case connection.NoticeReconnecting:
		r.logger.Info("reconnecting", "attempt", n.Attempt, "error", n.Err)
		if s, ok := r.sink.(StatusSink); ok {
			s.RenderStatus(fmt.Sprintf("Reconnecting... attempt %d", n.Attempt))
		}

	case connection.NoticeExhausted:
		r.logger.Error("connection lost", "error", n.Err)
		r.sink.RenderError(MsgConnectionLost)
	}
}

// Submit classifies and sends user-composed text. Blank text is ignored.
func (r *router) Submit(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return r.send(Classify(text))
}

// RequestNews asks for articles in category.
func (r *router) RequestNews(category string) error {
	if err := r.send(envelope.NewsRequest{Category: category}); err != nil {
		return err
	}
	if c, ok := r.sink.(ErrorClearer); ok {
		c.ClearError()
	}
	return nil
}

// RequestFact asks for a fact.
func (r *router) RequestFact() error {
	return r.send(envelope.FactRequest{})
}

// send encodes msg and writes it. Failures are reported to the sink and
// returned; nothing is queued.
func (r *router) send(msg envelope.Outbound) error {
	if r.limiter != nil && !r.limiter.Allow() {
		r.count(&r.rateLimited)
		r.sink.RenderError(MsgRateLimited)
		return ErrRateLimited
	}

	data, err := envelope.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Kind(), err)
	}

	if err := r.sender.Send(data); err != nil {
		r.count(&r.sendFailures)
		if errors.Is(err, connection.ErrNotConnected) {
			r.logger.Warn("send while not connected", "type", msg.Kind())
			r.sink.RenderError(MsgNotConnected)
			r.sender.Connect()
		} else {
			r.logger.Warn("send failed", "type", msg.Kind(), "error", err)
			r.sink.RenderError(MsgSendFailed)
		}
		return fmt.Errorf("send %s: %w", msg.Kind(), err)
	}

	r.logger.Debug("message sent", "type", msg.Kind())
	r.count(&r.sent)
	return nil
}

func (r *router) count(n *int64) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}
