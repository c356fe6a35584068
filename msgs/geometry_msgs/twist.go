// Package geometry_msgs holds the velocity command types.
package geometry_msgs

import (
	"github.com/pkg/errors"

	"github.com/edwinhayes/zteleop/cdr"
)

const (
	Vector3TypeName = "geometry_msgs::msg::dds_::Vector3_"
	TwistTypeName   = "geometry_msgs::msg::dds_::Twist_"
)

type Vector3 struct {
	X float64
	Y float64
	Z float64
}

func (m *Vector3) TypeName() string {
	return Vector3TypeName
}

// IsZero reports whether all three components are exactly zero.
func (m Vector3) IsZero() bool {
	return m.X == 0 && m.Y == 0 && m.Z == 0
}

func (m *Vector3) Serialize(e *cdr.Encoder) error {
	for _, v := range [...]float64{m.X, m.Y, m.Z} {
		if err := e.WriteFloat64(v); err != nil {
			return err
		}
	}
	return nil
}

func (m *Vector3) Deserialize(d *cdr.Decoder) error {
	for _, field := range [...]*float64{&m.X, &m.Y, &m.Z} {
		v, err := d.ReadFloat64()
		if err != nil {
			return err
		}
		*field = v
	}
	return nil
}

// Twist is a velocity command: linear in m/s, angular in rad/s.
type Twist struct {
	Linear  Vector3
	Angular Vector3
}

func (m *Twist) TypeName() string {
	return TwistTypeName
}

// IsStopped reports whether the command moves nothing.
func (m Twist) IsStopped() bool {
	return m.Linear.IsZero() && m.Angular.IsZero()
}

func (m *Twist) Serialize(e *cdr.Encoder) error {
	if err := m.Linear.Serialize(e); err != nil {
		return errors.Wrap(err, "linear")
	}
	if err := m.Angular.Serialize(e); err != nil {
		return errors.Wrap(err, "angular")
	}
	return nil
}

func (m *Twist) Deserialize(d *cdr.Decoder) error {
	if err := m.Linear.Deserialize(d); err != nil {
		return errors.Wrap(err, "linear")
	}
	if err := m.Angular.Deserialize(d); err != nil {
		return errors.Wrap(err, "angular")
	}
	return nil
}
