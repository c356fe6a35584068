package ros

import (
	"context"
	"fmt"
)

// Transport is the publish/subscribe messaging layer messages travel on.
// Implementations must be safe for concurrent use.
type Transport interface {
	// Publish sends payload on topic. Delivery is best effort.
	Publish(topic string, payload []byte) error
	// Subscribe returns a channel of payloads arriving on topic. The
	// channel is closed once ctx is done or the transport shuts down.
	// Re-subscribe to restart a closed stream.
	Subscribe(ctx context.Context, topic string) (<-chan []byte, error)
}

// PublishError is a transport failure while publishing.
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish on %s: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Is matches any *PublishError, so errors.Is(err, ErrPublishFailure) holds
// for every transport failure.
func (e *PublishError) Is(target error) bool {
	_, ok := target.(*PublishError)
	return ok
}

// ErrPublishFailure matches every *PublishError.
var ErrPublishFailure = &PublishError{}
