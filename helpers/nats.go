package helpers

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"
)

// Publisher sends events on NATS. A publisher without
// connection drops every message
type Publisher struct {
	conn *nats.Conn
}

// InitNATS starts a new NATS connection. An empty url
// or a failed connection returns a disabled publisher
func InitNATS(url string) *Publisher {
	if url == "" {
		return &Publisher{}
	}

	connection, err := nats.Connect(url, nats.Name("nido"))
	if err != nil {
		log.Printf("Cannot connect to %v: %v", url, err)
		return &Publisher{}
	}

	return &Publisher{conn: connection}
}

// Publish allows publishing message on NATS
func (p *Publisher) Publish(subject string, message any) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("(Publish) Cannot encode message for %v: %v", subject, err)
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		log.Printf("(Publish) Failed to send message to %v, got error: %v", subject, err)
	}
}

// Close drains pending messages and closes the connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// NotificationSubject is the subject a user listens on
// to receive notifications
func NotificationSubject(user string) string {
	return "notifications." + user
}

// AuthSubject is the subject carrying auth-state changes of a user
func AuthSubject(user string) string {
	return "auth." + user
}
