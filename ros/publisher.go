package ros

import (
	"encoding/hex"

	"github.com/sirupsen/logrus"
)

// Publisher encodes messages and hands them to a transport topic.
type Publisher struct {
	transport Transport
	topic     string
	logger    *logrus.Entry
}

func NewPublisher(transport Transport, topic string, logger *logrus.Entry) *Publisher {
	return &Publisher{
		transport: transport,
		topic:     topic,
		logger:    moduleLogger(logger, "publisher").WithField("topic", topic),
	}
}

func (pub *Publisher) Topic() string {
	return pub.topic
}

// Publish encodes msg and sends it. Encoding failures are returned as is;
// transport failures are returned as *PublishError.
func (pub *Publisher) Publish(msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	if pub.logger.Logger.IsLevelEnabled(logrus.DebugLevel) {
		pub.logger.Debugf("publish %s %s", msg.TypeName(), hex.EncodeToString(data))
	}
	if err := pub.transport.Publish(pub.topic, data); err != nil {
		return &PublishError{Topic: pub.topic, Err: err}
	}
	return nil
}
