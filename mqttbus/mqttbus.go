// Package mqttbus carries ROS 2 payloads over an MQTT broker. Each topic
// key maps to the MQTT topic of the same name and payloads are sent as is.
package mqttbus

import (
	"context"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/edwinhayes/zteleop/ros"
)

const (
	defaultTimeout = 2 * time.Second
	defaultDepth   = 10
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("mqtt transport closed")

// Client is the part of mqtt.Client the transport needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
}

type Options struct {
	Broker   string
	ClientID string
	QoS      byte
	// Timeout bounds every broker round trip.
	Timeout time.Duration
	// Depth is the number of payloads buffered per subscriber.
	Depth int
}

func (o *Options) setDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Depth <= 0 {
		o.Depth = defaultDepth
	}
}

// Transport implements ros.Transport on an MQTT client. Several local
// subscribers of one topic share a single broker subscription.
type Transport struct {
	client     Client
	disconnect func()
	opts       Options
	logger     *logrus.Entry

	mu     sync.Mutex
	subs   map[string]map[chan []byte]struct{}
	closed bool
}

var _ ros.Transport = (*Transport)(nil)

// New wraps a connected client.
func New(client Client, opts Options, logger *logrus.Entry) *Transport {
	opts.setDefaults()
	if logger == nil {
		logger = ros.NewLogger("mqttbus")
	}
	return &Transport{
		client: client,
		opts:   opts,
		logger: logger.WithField("broker", opts.Broker),
		subs:   make(map[string]map[chan []byte]struct{}),
	}
}

// Dial connects to opts.Broker.
func Dial(opts Options, logger *logrus.Entry) (*Transport, error) {
	opts.setDefaults()
	if logger == nil {
		logger = ros.NewLogger("mqttbus")
	}
	pahoLog := logger.WithField("module", "paho")
	mqtt.CRITICAL = pahoLog
	mqtt.ERROR = pahoLog

	mopt := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(opts.Timeout).
		SetKeepAlive(opts.Timeout * 5).
		SetPingTimeout(opts.Timeout).
		SetWriteTimeout(opts.Timeout).
		SetOrderMatters(false)
	client := mqtt.NewClient(mopt)

	t := New(client, opts, logger)
	if err := t.tokenWait(client.Connect(), "connect"); err != nil {
		return nil, err
	}
	t.disconnect = func() {
		client.Disconnect(uint(opts.Timeout / time.Millisecond))
	}
	t.logger.Info("connected")
	return t, nil
}

func (t *Transport) tokenWait(tok mqtt.Token, tag string) error {
	if !tok.WaitTimeout(t.opts.Timeout) {
		return errors.Errorf("mqtt %s timeout", tag)
	}
	if err := tok.Error(); err != nil {
		return errors.Wrapf(err, "mqtt %s", tag)
	}
	return nil
}

func (t *Transport) Publish(topic string, payload []byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return t.tokenWait(t.client.Publish(topic, t.opts.QoS, false, payload), "publish "+topic)
}

func (t *Transport) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	if t.subs[topic] == nil {
		tok := t.client.Subscribe(topic, t.opts.QoS, func(_ mqtt.Client, msg mqtt.Message) {
			t.deliver(topic, msg.Payload())
		})
		if err := t.tokenWait(tok, "subscribe "+topic); err != nil {
			return nil, err
		}
		t.subs[topic] = make(map[chan []byte]struct{})
		t.logger.Debugf("subscribed %s", topic)
	}
	ch := make(chan []byte, t.opts.Depth)
	t.subs[topic][ch] = struct{}{}

	go func() {
		<-ctx.Done()
		t.unsubscribe(topic, ch)
	}()
	return ch, nil
}

func (t *Transport) deliver(topic string, payload []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ch := range t.subs[topic] {
		msg := make([]byte, len(payload))
		copy(msg, payload)
		select {
		case ch <- msg:
		default:
			t.logger.Warnf("subscriber of %s is behind, dropping payload", topic)
		}
	}
}

func (t *Transport) unsubscribe(topic string, ch chan []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	chans, ok := t.subs[topic]
	if !ok {
		return
	}
	if _, ok := chans[ch]; !ok {
		return
	}
	delete(chans, ch)
	close(ch)
	if len(chans) > 0 {
		return
	}
	delete(t.subs, topic)
	if err := t.tokenWait(t.client.Unsubscribe(topic), "unsubscribe "+topic); err != nil {
		t.logger.WithError(err).Warn("unsubscribe failed")
	}
}

// Close ends all subscription streams and disconnects a client created by
// Dial.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	topics := make([]string, 0, len(t.subs))
	for topic, chans := range t.subs {
		for ch := range chans {
			close(ch)
		}
		topics = append(topics, topic)
	}
	t.subs = make(map[string]map[chan []byte]struct{})

	var err error
	if len(topics) > 0 {
		err = t.tokenWait(t.client.Unsubscribe(topics...), "unsubscribe")
	}
	if t.disconnect != nil {
		t.disconnect()
	}
	return err
}
