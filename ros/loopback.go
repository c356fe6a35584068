package ros

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrTransportClosed is returned by a Loopback after Close.
var ErrTransportClosed = errors.New("transport closed")

// Loopback is an in-process Transport. Every payload published on a topic
// is copied to each current subscriber of exactly that topic. Subscribers
// that fall behind by more than their buffer lose messages rather than
// block publishers.
type Loopback struct {
	mu     sync.RWMutex
	subs   map[string]map[chan []byte]struct{}
	depth  int
	closed bool
}

// NewLoopback returns a Loopback whose subscriber channels buffer depth
// payloads.
func NewLoopback(depth int) *Loopback {
	if depth <= 0 {
		depth = 10
	}
	return &Loopback{
		subs:  make(map[string]map[chan []byte]struct{}),
		depth: depth,
	}
}

func (l *Loopback) Publish(topic string, payload []byte) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrTransportClosed
	}
	for ch := range l.subs[topic] {
		msg := make([]byte, len(payload))
		copy(msg, payload)
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

func (l *Loopback) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrTransportClosed
	}
	ch := make(chan []byte, l.depth)
	if l.subs[topic] == nil {
		l.subs[topic] = make(map[chan []byte]struct{})
	}
	l.subs[topic][ch] = struct{}{}

	go func() {
		<-ctx.Done()
		l.unsubscribe(topic, ch)
	}()
	return ch, nil
}

func (l *Loopback) unsubscribe(topic string, ch chan []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.subs[topic][ch]; !ok {
		return
	}
	delete(l.subs[topic], ch)
	if len(l.subs[topic]) == 0 {
		delete(l.subs, topic)
	}
	close(ch)
}

// NumSubscribers returns the number of live subscriptions on topic.
func (l *Loopback) NumSubscribers(topic string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs[topic])
}

// Close ends every subscription stream. Later calls fail with
// ErrTransportClosed.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	for topic, chans := range l.subs {
		for ch := range chans {
			close(ch)
		}
		delete(l.subs, topic)
	}
	return nil
}
