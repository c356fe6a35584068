package ros

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinhayes/zteleop/cdr"
)

const waitTimeout = 2 * time.Second

func TestLoopbackFanOut(t *testing.T) {
	bus := NewLoopback(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := bus.Subscribe(ctx, "zbot/cmd_vel")
	require.NoError(t, err)
	b, err := bus.Subscribe(ctx, "zbot/cmd_vel")
	require.NoError(t, err)
	other, err := bus.Subscribe(ctx, "zbot/battery_state")
	require.NoError(t, err)
	assert.Equal(t, 2, bus.NumSubscribers("zbot/cmd_vel"))

	payload := []byte{1, 2, 3}
	require.NoError(t, bus.Publish("zbot/cmd_vel", payload))
	payload[0] = 9

	for _, ch := range []<-chan []byte{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, []byte{1, 2, 3}, got, "subscribers get their own copy")
		case <-time.After(waitTimeout):
			t.Fatal("payload not delivered")
		}
	}
	select {
	case got := <-other:
		t.Fatalf("unexpected delivery on other topic: %v", got)
	default:
	}
}

func TestLoopbackUnsubscribeOnCancel(t *testing.T) {
	bus := NewLoopback(1)
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, "t")
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(waitTimeout):
		t.Fatal("channel not closed after cancel")
	}
	assert.Equal(t, 0, bus.NumSubscribers("t"))
	assert.NoError(t, bus.Publish("t", []byte{1}))
}

func TestLoopbackDropsWhenFull(t *testing.T) {
	bus := NewLoopback(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Subscribe(ctx, "t")
	require.NoError(t, err)

	require.NoError(t, bus.Publish("t", []byte{1}))
	require.NoError(t, bus.Publish("t", []byte{2}))
	assert.Equal(t, []byte{1}, <-ch)
	select {
	case got := <-ch:
		t.Fatalf("expected drop, got %v", got)
	default:
	}
}

func TestLoopbackClose(t *testing.T) {
	bus := NewLoopback(1)
	ch, err := bus.Subscribe(context.Background(), "t")
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	_, ok := <-ch
	assert.False(t, ok)
	assert.ErrorIs(t, bus.Publish("t", nil), ErrTransportClosed)
	_, err = bus.Subscribe(context.Background(), "t")
	assert.ErrorIs(t, err, ErrTransportClosed)
	assert.NoError(t, bus.Close())
}

func TestPublishSubscribe(t *testing.T) {
	bus := NewLoopback(10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Time, 1)
	sub, err := Subscribe(ctx, bus, "clock", func(msg *Time) {
		got <- *msg
	}, WithLogger(DiscardLogger()))
	require.NoError(t, err)
	defer sub.Shutdown()
	assert.Equal(t, "clock", sub.Topic())

	pub := NewPublisher(bus, "clock", DiscardLogger())
	assert.Equal(t, "clock", pub.Topic())
	sent := NewTime(-5, 42)
	require.NoError(t, pub.Publish(&sent))

	select {
	case msg := <-got:
		assert.Equal(t, sent, msg)
	case <-time.After(waitTimeout):
		t.Fatal("message not delivered")
	}
	assert.Equal(t, uint64(1), sub.Received())
}

func TestSubscriberDropsUndecodable(t *testing.T) {
	bus := NewLoopback(10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Time, 2)
	sub, err := Subscribe(ctx, bus, "clock", func(msg *Time) {
		got <- *msg
	}, WithLogger(DiscardLogger()), WithDecodeOptions(cdr.Strict()))
	require.NoError(t, err)

	// truncated, then big-endian header rejected in strict mode, then valid
	require.NoError(t, bus.Publish("clock", []byte{0x00, 0x01, 0x00, 0x00, 1}))
	require.NoError(t, bus.Publish("clock", []byte{0x00, 0x00, 0x00, 0x00, 0, 0, 0, 1, 0, 0, 0, 2}))
	valid, err := Encode(&Time{temporal{7, 8}})
	require.NoError(t, err)
	require.NoError(t, bus.Publish("clock", valid))

	select {
	case msg := <-got:
		assert.Equal(t, NewTime(7, 8), msg)
	case <-time.After(waitTimeout):
		t.Fatal("valid message not delivered")
	}
	sub.Shutdown()
	assert.Equal(t, uint64(2), sub.Dropped())
	assert.Equal(t, uint64(1), sub.Received())

	select {
	case <-sub.Done():
	default:
		t.Fatal("Done not closed after Shutdown")
	}
}

func TestSubscriberEndsWithStream(t *testing.T) {
	bus := NewLoopback(1)
	sub, err := Subscribe(context.Background(), bus, "clock", func(*Time) {}, WithLogger(DiscardLogger()))
	require.NoError(t, err)
	require.NoError(t, bus.Close())
	select {
	case <-sub.Done():
	case <-time.After(waitTimeout):
		t.Fatal("subscriber did not stop when the stream closed")
	}
}

type failingTransport struct {
	err error
}

func (f failingTransport) Publish(string, []byte) error { return f.err }
func (f failingTransport) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, f.err
}

func TestPublishFailure(t *testing.T) {
	cause := errors.New("link down")
	pub := NewPublisher(failingTransport{cause}, "cmd_vel", DiscardLogger())
	msg := NewTime(1, 1)
	err := pub.Publish(&msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublishFailure)
	assert.ErrorIs(t, err, cause)

	var pubErr *PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, "cmd_vel", pubErr.Topic)
	assert.Equal(t, "publish on cmd_vel: link down", err.Error())

	_, err = Subscribe(context.Background(), failingTransport{cause}, "x", func(*Time) {})
	assert.ErrorIs(t, err, cause)
}

func TestDecodeWrapsKind(t *testing.T) {
	var msg Duration
	err := Decode([]byte{0x00, 0x01, 0x00, 0x00, 1, 0, 0, 0}, &msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, cdr.ErrBufferUnderrun)
	assert.Contains(t, err.Error(), DurationTypeName)
}
