package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Notifier tells playback devices to re-resolve their content after a
// publish. Delivery is fire-and-forget at QoS 1.
type Notifier struct {
	client paho.Client
}

func NewNotifier(brokerURL, clientID string) (*Notifier, error) {
	opts := paho.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	return &Notifier{client: client}, nil
}

func (n *Notifier) NotifyRefresh(deviceToken string) {
	topic := fmt.Sprintf("monitor/%s/refresh", deviceToken)
	token := n.client.Publish(topic, 1, false, `{"event":"refresh"}`)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Warn().Err(token.Error()).Str("topic", topic).Msg("failed to publish refresh")
		}
	}()
}

func (n *Notifier) Close() {
	n.client.Disconnect(250)
}
