// mqtt.go - Publishes course lifecycle events to an MQTT broker

package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang" // MQTT client
)

// Course lifecycle events. Each is published to "<prefix>/<event>".
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

const (
	connectTimeout = 5 * time.Second
	qos            = 1 // At least once
)

// CourseEvent is the payload published after a successful course write.
type CourseEvent struct {
	Event    string `json:"event"`
	CourseID uint   `json:"courseId"`
	UserID   uint   `json:"userId"`
}

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Client is a Publisher backed by a paho MQTT connection.
type Client struct {
	conn paho.Client
}

// Connect dials broker (e.g. "tcp://localhost:1883") and returns a connected client.
func Connect(broker, clientID string) (*Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	conn := paho.NewClient(opts)
	token := conn.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.New("mqtt: connect timed out")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Publish encodes payload as JSON (strings and byte slices are sent as-is) and
// waits for the broker to acknowledge it or for ctx to end.
func (c *Client) Publish(ctx context.Context, topic string, payload any) error {
	var body []byte
	switch p := payload.(type) {
	case []byte:
		body = p
	case string:
		body = []byte(p)
	default:
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("mqtt: encode payload: %w", err)
		}
	}

	token := c.conn.Publish(topic, qos, false, body)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects, giving in-flight messages a moment to drain.
func (c *Client) Close() {
	c.conn.Disconnect(250)
}

// Noop is the Publisher used when no broker is configured.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(context.Context, string, any) error { return nil }

// Topic joins a prefix and an event name.
func Topic(prefix, event string) string {
	if prefix == "" {
		return event
	}
	return prefix + "/" + event
}
