package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/pinmap/internal/models"
	"github.com/nats-io/nats.go"
)

// Conn is the part of *nats.Conn used by NATSFeed.
type Conn interface {
	Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error)
	Publish(subject string, data []byte) error
	Drain() error
}

// permissionMessage is the payload of "<prefix>.permission".
type permissionMessage struct {
	Status models.AuthorizationStatus `json:"status"`
}

// positionMessage is the payload of "<prefix>.position".
type positionMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NATSFeed is a Feed driven by device events published on NATS subjects.
// Permission prompts are requested by publishing on "<prefix>.permission.request".
type NATSFeed struct {
	*Feed

	conn   Conn
	prefix string
	log    *slog.Logger
}

// Connect dials the NATS server with reconnects enabled.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("pinmap-location"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return conn, nil
}

// NewNATSFeed subscribes to the permission and position subjects under prefix.
func NewNATSFeed(conn Conn, prefix string, log *slog.Logger) (*NATSFeed, error) {
	feed := &NATSFeed{
		Feed:   NewFeed(log),
		conn:   conn,
		prefix: prefix,
		log:    log,
	}
	feed.SetPermissionRequester(feed.publishPermissionRequest)

	if _, err := conn.Subscribe(prefix+".permission", feed.handlePermission); err != nil {
		return nil, fmt.Errorf("subscribe to permission events: %w", err)
	}
	if _, err := conn.Subscribe(prefix+".position", feed.handlePosition); err != nil {
		return nil, fmt.Errorf("subscribe to position events: %w", err)
	}

	return feed, nil
}

func (n *NATSFeed) handlePermission(msg *nats.Msg) {
	var payload permissionMessage
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		n.log.Error("Malformed permission event", "subject", msg.Subject, "error", err)
		return
	}

	n.PushPermission(payload.Status)
}

func (n *NATSFeed) handlePosition(msg *nats.Msg) {
	var payload positionMessage
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		n.log.Error("Malformed position event", "subject", msg.Subject, "error", err)
		return
	}

	coord := models.Coordinates{Latitude: payload.Latitude, Longitude: payload.Longitude}
	if err := n.PushPosition(coord); err != nil {
		n.log.Error("Invalid position event", "subject", msg.Subject, "error", err)
	}
}

func (n *NATSFeed) publishPermissionRequest(ctx context.Context) error {
	subject := n.prefix + ".permission.request"
	if err := n.conn.Publish(subject, []byte("{}")); err != nil {
		return fmt.Errorf("publish permission request: %w", err)
	}

	n.log.DebugContext(ctx, "Permission request published", "subject", subject)

	return nil
}

// Close drains the connection, which also removes the subscriptions.
func (n *NATSFeed) Close() error {
	return n.conn.Drain()
}
