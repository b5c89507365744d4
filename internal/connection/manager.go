package connection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Dialer opens a connected Client. The default dials with NewClient.
type Dialer func(ctx context.Context, cfg ClientConfig, logger *slog.Logger) (Client, error)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithDialer replaces the WebSocket dialer.
func WithDialer(d Dialer) ManagerOption {
	return func(m *Manager) {
		m.dial = d
	}
}

// ManagerStats provides statistics about the connection manager.
type ManagerStats struct {
	State       State
	Retries     int
	Attempts    int64 // Dial attempts since start
	Connects    int64 // Successful dials since start
	Queue       QueueStats
	ConnectedAt time.Time
}

// Manager owns the single logical connection to the news server.
//
// All state (current client, state, retry count, pending timer) is guarded
// by mu. Transport callbacks run on goroutines but only touch state through
// the locked helpers below, so there is a single writer at any time.
type Manager struct {
	cfg    ManagerConfig
	dial   Dialer
	logger *slog.Logger

	inbound *Queue[TimestampedMessage]
	notices chan Notice

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       State
	retries     int
	client      Client
	gen         uint64 // Incremented per attempt; stale results are discarded
	timer       *time.Timer
	stopped     bool
	attempts    int64
	connects    int64
	connectedAt time.Time
}

// NewManager creates a new Connection Manager. cfg.Client.URL must be set.
func NewManager(cfg ManagerConfig, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.NoticeBufferSize < 1 {
		cfg.NoticeBufferSize = 1
	}

	m := &Manager{
		cfg:     cfg,
		dial:    dialWebSocket,
		logger:  logger,
		inbound: NewQueue[TimestampedMessage](cfg.MessageBufferSize),
		notices: make(chan Notice, cfg.NoticeBufferSize),
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// dialWebSocket is the default Dialer.
func dialWebSocket(ctx context.Context, cfg ClientConfig, logger *slog.Logger) (Client, error) {
	c := NewClient(cfg, logger)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Start binds the manager to ctx and makes the first connection attempt.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.ctx != nil {
		m.mu.Unlock()
		return fmt.Errorf("connection manager already started")
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	m.logger.Info("connection manager started",
		"url", m.cfg.Client.URL,
		"max_retries", m.cfg.MaxRetries,
		"reconnect_delay", m.cfg.ReconnectDelay,
	)

	m.Connect()
	return nil
}

// Stop closes the connection, cancels pending work and closes the output
// queue and notices channel.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	m.stopTimer()
	client := m.client
	m.client = nil
	m.state = StateClosed
	m.mu.Unlock()

	m.logger.Info("stopping connection manager")

	if m.cancel != nil {
		m.cancel()
	}
	if client != nil {
		client.Close()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("connection manager stop timed out")
		err = ctx.Err()
	}

	// Notices are only emitted under mu while not stopped, so closing is safe
	// even if a goroutine is still winding down.
	m.inbound.Close()
	close(m.notices)

	m.logger.Info("connection manager stopped")
	return err
}

// Connect starts a connection attempt unless one is open or in flight.
// It never blocks; the outcome is reported through Notices().
func (m *Manager) Connect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil || m.stopped {
		m.logger.Debug("connect ignored", "started", m.ctx != nil, "stopped", m.stopped)
		return
	}

	switch m.state {
	case StateOpen:
		m.logger.Debug("already connected")
		return
	case StateConnecting:
		m.logger.Debug("connection attempt already in flight")
		return
	}

	// A manual connect supersedes a scheduled one.
	m.stopTimer()

	m.state = StateConnecting
	m.gen++
	m.attempts++
	gen := m.gen

	m.logger.Info("connecting", "url", m.cfg.Client.URL, "retry", m.retries)

	m.wg.Add(1)
	go m.attempt(gen)
}

// Reset clears the retry budget and connects. This is the manual recovery
// path after ErrConnectionExhausted.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.retries = 0
	m.mu.Unlock()

	m.Connect()
}

// Send writes one text frame. It returns ErrNotConnected and transmits
// nothing unless the state is Open.
func (m *Manager) Send(data []byte) error {
	m.mu.Lock()
	if m.state != StateOpen || m.client == nil {
		state := m.state
		m.mu.Unlock()
		m.logger.Debug("send refused", "state", state)
		return ErrNotConnected
	}
	client := m.client
	m.mu.Unlock()

	if err := client.Send(data); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Retries returns the retry count of the current failure streak.
func (m *Manager) Retries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retries
}

// Messages returns the inbound frame queue. It is closed by Stop.
func (m *Manager) Messages() *Queue[TimestampedMessage] {
	return m.inbound
}

// Notices returns the channel of connection notices. It is closed by Stop.
func (m *Manager) Notices() <-chan Notice {
	return m.notices
}

// Stats returns current statistics.
func (m *Manager) Stats() ManagerStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ManagerStats{
		State:       m.state,
		Retries:     m.retries,
		Attempts:    m.attempts,
		Connects:    m.connects,
		Queue:       m.inbound.Stats(),
		ConnectedAt: m.connectedAt,
	}
}

// attempt dials once and records the outcome.
func (m *Manager) attempt(gen uint64) {
	defer m.wg.Done()

	cfg := m.cfg.Client
	client, err := m.dial(m.ctx, cfg, m.logger.With("gen", gen))

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || gen != m.gen {
		if client != nil {
			client.Close()
		}
		return
	}

	if err != nil {
		m.logger.Warn("connection attempt failed", "error", err)
		m.down(err)
		return
	}

	m.client = client
	m.state = StateOpen
	m.retries = 0
	m.connects++
	m.connectedAt = time.Now()

	m.logger.Info("connected", "url", cfg.URL)

	m.wg.Add(1)
	go m.pump(client, gen)

	m.emit(Notice{Kind: NoticeOpen})
}

// pump moves frames from the client into the inbound queue until the
// client fails or the manager stops.
func (m *Manager) pump(client Client, gen uint64) {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case msg := <-client.Messages():
			m.inbound.Push(msg)
		case err := <-client.Errors():
			client.Close()

			m.mu.Lock()
			if !m.stopped && gen == m.gen && m.client == client {
				m.logger.Warn("connection closed", "error", err)
				m.client = nil
				m.down(err)
			}
			m.mu.Unlock()
			return
		}
	}
}

// down records a failed attempt or a lost connection and either schedules
// a reconnect or gives up. Must be called with mu held.
func (m *Manager) down(cause error) {
	m.state = StateClosed

	if m.retries < m.cfg.MaxRetries {
		m.retries++
		attempt := m.retries

		m.logger.Info("reconnecting",
			"attempt", attempt,
			"max_retries", m.cfg.MaxRetries,
			"delay", m.cfg.ReconnectDelay,
		)

		m.stopTimer()
		m.timer = time.AfterFunc(m.cfg.ReconnectDelay, m.Connect)
		m.emit(Notice{Kind: NoticeReconnecting, Attempt: attempt, Err: cause})
		return
	}

	m.logger.Error("reconnect attempts exhausted",
		"max_retries", m.cfg.MaxRetries,
		"error", cause,
	)
	m.emit(Notice{Kind: NoticeExhausted, Err: fmt.Errorf("%w: %v", ErrConnectionExhausted, cause)})
}

// emit delivers a notice without blocking. Must be called with mu held.
func (m *Manager) emit(n Notice) {
	select {
	case m.notices <- n:
	default:
		m.logger.Warn("notice buffer full, dropping notice", "kind", n.Kind)
	}
}

// stopTimer cancels a scheduled reconnect. Must be called with mu held.
func (m *Manager) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
