package ros

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/edwinhayes/zteleop/cdr"
)

type messagePtr[T any] interface {
	*T
	Message
}

// SubscriberOption configures Subscribe.
type SubscriberOption func(*subscriberConfig)

type subscriberConfig struct {
	logger     *logrus.Entry
	decodeOpts []cdr.Option
}

// WithLogger sets the logger used by the subscription goroutine.
func WithLogger(logger *logrus.Entry) SubscriberOption {
	return func(c *subscriberConfig) {
		c.logger = logger
	}
}

// WithDecodeOptions passes options to every cdr.NewDecoder call, e.g.
// cdr.Strict().
func WithDecodeOptions(opts ...cdr.Option) SubscriberOption {
	return func(c *subscriberConfig) {
		c.decodeOpts = append(c.decodeOpts, opts...)
	}
}

// Subscriber owns the goroutine that decodes one topic.
// The goroutine is the only reader of the payload stream; the callback
// runs on it, one message at a time.
type Subscriber struct {
	topic    string
	cancel   context.CancelFunc
	done     chan struct{}
	received atomic.Uint64
	dropped  atomic.Uint64
}

// Subscribe decodes every payload arriving on topic into a new T and
// passes it to callback. Payloads that fail to decode are logged and
// dropped. The subscription ends when ctx is done or Shutdown is called.
func Subscribe[T any, PT messagePtr[T]](ctx context.Context, transport Transport, topic string, callback func(*T), opts ...SubscriberOption) (*Subscriber, error) {
	var config subscriberConfig
	for _, opt := range opts {
		opt(&config)
	}
	logger := moduleLogger(config.logger, "subscriber").WithField("topic", topic)

	subCtx, cancel := context.WithCancel(ctx)
	stream, err := transport.Subscribe(subCtx, topic)
	if err != nil {
		cancel()
		return nil, errors.Wrapf(err, "subscribe %s", topic)
	}

	sub := &Subscriber{
		topic:  topic,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go sub.start(subCtx, stream, logger, func(payload []byte) error {
		var msg T
		if err := Decode(payload, PT(&msg), config.decodeOpts...); err != nil {
			return err
		}
		callback(&msg)
		return nil
	})
	return sub, nil
}

func (sub *Subscriber) start(ctx context.Context, stream <-chan []byte, logger *logrus.Entry, handle func([]byte) error) {
	logger.Debug("subscriber goroutine started")
	defer func() {
		logger.Debug("subscriber goroutine exit")
		sub.cancel()
		close(sub.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-stream:
			if !ok {
				logger.Debug("payload stream closed")
				return
			}
			if err := handle(payload); err != nil {
				sub.dropped.Add(1)
				logger.WithError(err).Errorf("dropping %d byte payload", len(payload))
				continue
			}
			sub.received.Add(1)
		}
	}
}

func (sub *Subscriber) Topic() string {
	return sub.topic
}

// Received counts messages delivered to the callback.
func (sub *Subscriber) Received() uint64 {
	return sub.received.Load()
}

// Dropped counts payloads that could not be decoded.
func (sub *Subscriber) Dropped() uint64 {
	return sub.dropped.Load()
}

// Done is closed once the subscription goroutine has exited.
func (sub *Subscriber) Done() <-chan struct{} {
	return sub.done
}

// Shutdown stops the subscription and waits for its goroutine.
func (sub *Subscriber) Shutdown() {
	sub.cancel()
	<-sub.done
}
