// Package connection implements the Connection Manager.
//
// The Connection Manager:
//   - Owns a single logical WebSocket connection to <page-host>/ws
//   - Tracks state (Idle, Connecting, Open, Closed) under one mutex
//   - Reconnects on failure with a fixed delay, up to MaxRetries times,
//     then reports ErrConnectionExhausted and stops
//   - Refuses to send unless Open (ErrNotConnected)
//   - Queues inbound frames for the Message Router without dropping them
package connection
