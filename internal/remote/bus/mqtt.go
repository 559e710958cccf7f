// Package bus provides the concrete message-bus client behind the
// remote.Bus interface. The teacher's own go.mod carries no pub/sub
// client — the pack's domain is a Tether-style agent, and
// original_source/src/remote_control/mod.rs shows the original wraps a
// TetherAgent (itself an MQTT client) — so paho.mqtt.golang is adopted
// here as the concrete, ecosystem-standard MQTT client implementing that
// same role (see DESIGN.md for the justification required of any
// dependency not already present in the teacher).
package bus

import (
	"context"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Client adapts paho's MQTT client to remote.Bus.
type Client struct {
	opts *mqtt.ClientOptions
	conn mqtt.Client
}

// New constructs a Client configured to connect to host (e.g.
// "tcp://localhost:1883") with the given client id.
func New(host, clientID string) *Client {
	opts := mqtt.NewClientOptions().
		AddBroker(host).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)
	return &Client{opts: opts}
}

// Connect dials the broker. It never retries beyond paho's own
// auto-reconnect; the core treats a disconnected bus as an absence of
// messages (spec.md §7) rather than a fatal condition.
func (c *Client) Connect(ctx context.Context) error {
	c.conn = mqtt.NewClient(c.opts)
	token := c.conn.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("connect to message bus: timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to message bus: %w", err)
	}
	log.Printf("[bus] connected")
	return nil
}

// Disconnect closes the connection, waiting up to 250ms to flush.
func (c *Client) Disconnect() {
	if c.conn != nil {
		c.conn.Disconnect(250)
	}
}

// Subscribe registers handler for topic at the given QoS.
func (c *Client) Subscribe(topic string, qos byte, handler func(payload []byte)) error {
	token := c.conn.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Payload())
	})
	token.Wait()
	return token.Error()
}

// Publish sends payload on topic at the given QoS.
func (c *Client) Publish(topic string, qos byte, payload []byte) error {
	token := c.conn.Publish(topic, qos, false, payload)
	token.Wait()
	return token.Error()
}
