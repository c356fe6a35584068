// Package std_msgs holds the std_msgs types used by the teleop session.
package std_msgs

import (
	"github.com/pkg/errors"

	"github.com/edwinhayes/zteleop/cdr"
	"github.com/edwinhayes/zteleop/ros"
)

const HeaderTypeName = "std_msgs::msg::dds_::Header_"

// Header is the stamp and coordinate frame carried by most messages.
type Header struct {
	Stamp   ros.Time
	FrameID string
}

func (m *Header) TypeName() string {
	return HeaderTypeName
}

func (m *Header) Serialize(e *cdr.Encoder) error {
	if err := m.Stamp.Serialize(e); err != nil {
		return errors.Wrap(err, "stamp")
	}
	if err := e.WriteString(m.FrameID); err != nil {
		return errors.Wrap(err, "frame_id")
	}
	return nil
}

func (m *Header) Deserialize(d *cdr.Decoder) error {
	if err := m.Stamp.Deserialize(d); err != nil {
		return errors.Wrap(err, "stamp")
	}
	var err error
	if m.FrameID, err = d.ReadString(); err != nil {
		return errors.Wrap(err, "frame_id")
	}
	return nil
}
