// Package mqtt bridges the line protocol over an MQTT broker so host
// tooling can reach a controller without a local serial port.
package mqtt

import (
	"net/url"
	"strings"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// Queue wraps an MQTT client with a topic prefix.
type Queue struct {
	Client      paho.Client
	TopicPrefix string
}

// ClientOptionsFromURL creates ClientOptions from a broker URL of the
// form mqtt://host:port/prefix?client-id=x. Without an explicit
// client-id the machine id is used so reconnects keep a stable session.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	server := "tcp"
	if u.Scheme != "" && u.Scheme != "mqtt" {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := strings.TrimPrefix(u.Path, "/")

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}

	clientID := u.Query().Get("client-id")
	if clientID == "" {
		if id, err := machineid.ID(); err == nil {
			clientID = "braille-" + id
		}
	}
	if clientID != "" {
		opts.SetClientID(clientID)
	}

	return opts, topicPrefix, nil
}

// NewQueueFromURL creates a connected-ready Queue from a broker URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Queue{Client: paho.NewClient(opts), TopicPrefix: topicPrefix}, nil
}

// Connect connects the client and waits for the handshake.
func (q *Queue) Connect() error {
	token := q.Client.Connect()
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

func (q *Queue) topic(name string) string {
	if q.TopicPrefix == "" {
		return name
	}
	return q.TopicPrefix + "/" + name
}

// Sub subscribes a topic under the prefix.
func (q *Queue) Sub(name string, handler Handler) error {
	token := q.Client.Subscribe(q.topic(name), 0, func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	return token.Error()
}

// Pub publishes a payload to a topic under the prefix.
func (q *Queue) Pub(name string, payload []byte) error {
	token := q.Client.Publish(q.topic(name), 0, false, payload)
	token.Wait()
	return token.Error()
}
