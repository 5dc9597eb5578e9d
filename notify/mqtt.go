package notify

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes notification payloads at QoS 1.
type MQTT struct {
	client publisher
}

// NewMQTT connects to broker and keeps the session alive with auto-reconnect.
func NewMQTT(broker, clientID, username, password string) (*MQTT, mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	if username != "" {
		opts.SetUsername(username)
	}
	if password != "" {
		opts.SetPassword(password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("connect to MQTT broker: %w", token.Error())
	}
	return &MQTT{client: client}, client, nil
}

// TripEventsTopic is where events of one trip are published.
func TripEventsTopic(tripID uint) string {
	return fmt.Sprintf("fleet/trips/%d/events", tripID)
}

func (m *MQTT) Notify(ctx context.Context, n Notification) error {
	if n.Topic == "" {
		return nil
	}
	token := m.client.Publish(n.Topic, 1, false, n.Payload)

	wait := 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		wait = time.Until(deadline)
	}
	if !token.WaitTimeout(wait) {
		return fmt.Errorf("publish to %s: timed out", n.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", n.Topic, err)
	}
	return nil
}
