package ros

import (
	"github.com/pkg/errors"

	"github.com/edwinhayes/zteleop/cdr"
)

// Message is implemented by every ROS 2 message type carried over the
// transport.
type Message interface {
	// TypeName returns the DDS type name, e.g. "std_msgs::msg::dds_::Header_".
	TypeName() string
	cdr.Marshaler
	cdr.Unmarshaler
}

// Encode serializes msg into a complete CDR payload.
func Encode(msg Message) ([]byte, error) {
	data, err := cdr.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", msg.TypeName())
	}
	return data, nil
}

// Decode deserializes a complete CDR payload into msg.
func Decode(data []byte, msg Message, opts ...cdr.Option) error {
	if err := cdr.Unmarshal(data, msg, opts...); err != nil {
		return errors.Wrapf(err, "decode %s", msg.TypeName())
	}
	return nil
}
