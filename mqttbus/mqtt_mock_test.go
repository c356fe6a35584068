package mqttbus

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type mockClient struct {
	mu           sync.Mutex
	published    []mockMsg
	handlers     map[string]mqtt.MessageHandler
	unsubscribed []string
	err          error
	stall        bool
}

func newMockClient() *mockClient {
	return &mockClient{handlers: make(map[string]mqtt.MessageHandler)}
}

func (c *mockClient) token() mqtt.Token {
	return mockToken{err: c.err, stall: c.stall}
}

func (c *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil && !c.stall {
		c.published = append(c.published, mockMsg{topic: topic, payload: payload.([]byte), qos: qos})
	}
	return c.token()
}

func (c *mockClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil && !c.stall {
		c.handlers[topic] = callback
	}
	return c.token()
}

func (c *mockClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, topic := range topics {
		delete(c.handlers, topic)
	}
	c.unsubscribed = append(c.unsubscribed, topics...)
	return mockToken{}
}

// inject delivers payload as if the broker had sent it.
func (c *mockClient) inject(topic string, payload []byte) bool {
	c.mu.Lock()
	handler, ok := c.handlers[topic]
	c.mu.Unlock()
	if ok {
		handler(nil, mockMsg{topic: topic, payload: payload})
	}
	return ok
}

func (c *mockClient) subscribed(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.handlers[topic]
	return ok
}

type mockToken struct {
	err   error
	stall bool
}

func (tok mockToken) Wait() bool                     { return !tok.stall }
func (tok mockToken) WaitTimeout(time.Duration) bool { return !tok.stall }
func (tok mockToken) Error() error                   { return tok.err }
func (tok mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if !tok.stall {
		close(ch)
	}
	return ch
}

type mockMsg struct {
	topic   string
	payload []byte
	qos     byte
}

func (msg mockMsg) Ack()              {}
func (msg mockMsg) Duplicate() bool   { return false }
func (msg mockMsg) MessageID() uint16 { return 0 }
func (msg mockMsg) Payload() []byte   { return msg.payload }
func (msg mockMsg) Qos() byte         { return msg.qos }
func (msg mockMsg) Retained() bool    { return false }
func (msg mockMsg) Topic() string     { return msg.topic }
