// Package irobot_create_msgs holds the Create 3 base messages: audio
// notes and the dock action goal.
package irobot_create_msgs

import (
	"time"

	"github.com/pkg/errors"

	"github.com/edwinhayes/zteleop/cdr"
	"github.com/edwinhayes/zteleop/msgs/std_msgs"
	"github.com/edwinhayes/zteleop/ros"
)

const (
	AudioNoteTypeName       = "irobot_create_msgs::msg::dds_::AudioNote_"
	AudioNoteVectorTypeName = "irobot_create_msgs::msg::dds_::AudioNoteVector_"
)

// AudioNote is one tone: a frequency in Hz played for at most MaxRuntime.
type AudioNote struct {
	Frequency  uint16
	MaxRuntime ros.Duration
}

func NewAudioNote(frequency uint16, runtime time.Duration) AudioNote {
	return AudioNote{Frequency: frequency, MaxRuntime: ros.DurationOf(runtime)}
}

func (m *AudioNote) TypeName() string {
	return AudioNoteTypeName
}

func (m *AudioNote) Serialize(e *cdr.Encoder) error {
	if err := e.WriteUint16(m.Frequency); err != nil {
		return errors.Wrap(err, "frequency")
	}
	if err := m.MaxRuntime.Serialize(e); err != nil {
		return errors.Wrap(err, "max_runtime")
	}
	return nil
}

func (m *AudioNote) Deserialize(d *cdr.Decoder) error {
	var err error
	if m.Frequency, err = d.ReadUint16(); err != nil {
		return errors.Wrap(err, "frequency")
	}
	if err = m.MaxRuntime.Deserialize(d); err != nil {
		return errors.Wrap(err, "max_runtime")
	}
	return nil
}

// AudioNoteVector is a tune. With Append set the robot queues it after the
// tune currently playing instead of replacing it.
type AudioNoteVector struct {
	Header std_msgs.Header
	Notes  []AudioNote
	Append bool
}

func (m *AudioNoteVector) TypeName() string {
	return AudioNoteVectorTypeName
}

func (m *AudioNoteVector) Serialize(e *cdr.Encoder) error {
	if err := m.Header.Serialize(e); err != nil {
		return errors.Wrap(err, "header")
	}
	if err := e.WriteSequenceLength(len(m.Notes)); err != nil {
		return errors.Wrap(err, "notes")
	}
	for i := range m.Notes {
		if err := m.Notes[i].Serialize(e); err != nil {
			return errors.Wrapf(err, "notes[%d]", i)
		}
	}
	if err := e.WriteBool(m.Append); err != nil {
		return errors.Wrap(err, "append")
	}
	return nil
}

func (m *AudioNoteVector) Deserialize(d *cdr.Decoder) error {
	if err := m.Header.Deserialize(d); err != nil {
		return errors.Wrap(err, "header")
	}
	n, err := d.ReadSequenceLength()
	if err != nil {
		return errors.Wrap(err, "notes")
	}
	m.Notes = nil
	if n > 0 {
		m.Notes = make([]AudioNote, n)
	}
	for i := range m.Notes {
		if err := m.Notes[i].Deserialize(d); err != nil {
			return errors.Wrapf(err, "notes[%d]", i)
		}
	}
	if m.Append, err = d.ReadBool(); err != nil {
		return errors.Wrap(err, "append")
	}
	return nil
}
