// Package listener provides a Postgres LISTEN/NOTIFY consumer that keeps the
// league service fresh. It holds a dedicated pgx connection (not from the
// pool) listening on the `result_changed` channel, fed by the results table
// trigger.
//
// Every event drops the affected group's snapshot and cached responses, so
// results written by another process (or another API replica) show up on
// the next request.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	Channel          = "result_changed"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// ResultEvent is the JSON payload from pg_notify('result_changed', ...).
type ResultEvent struct {
	GroupID   string `json:"group_id"`
	MatchID   string `json:"match_id"`
	Op        string `json:"op"`
	Timestamp int64  `json:"ts"`
}

// Invalidator drops state derived from a group. *league.Service satisfies it.
type Invalidator interface {
	Invalidate(groupID string)
}

// Start opens a dedicated connection and listens on the result_changed
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, target Invalidator, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, target, logger)
		if ctx.Err() != nil {
			logger.Info("Result listener stopped (context cancelled)")
			return
		}

		logger.Error("Result listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		// Anything written while disconnected was missed.
		target.Invalidate("")

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, target Invalidator, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+Channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", Channel, err)
	}
	logger.Info("Result listener connected", "channel", Channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		Handle(notification.Payload, target, logger)
	}
}

// Handle applies one notification payload. A payload that cannot be parsed
// drops everything rather than risk serving a stale table.
func Handle(payload string, target Invalidator, logger *slog.Logger) {
	var event ResultEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		logger.Warn("Failed to parse result event", "payload", payload, "error", err)
		target.Invalidate("")
		return
	}

	logger.Info("Result event received",
		"group_id", event.GroupID,
		"match_id", event.MatchID,
		"op", event.Op)
	target.Invalidate(event.GroupID)
}
