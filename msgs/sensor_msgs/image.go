package sensor_msgs

import (
	"github.com/pkg/errors"

	"github.com/edwinhayes/zteleop/cdr"
	"github.com/edwinhayes/zteleop/msgs/std_msgs"
)

const ImageTypeName = "sensor_msgs::msg::dds_::Image_"

// EncodingRGB8 is three bytes per pixel, red first.
const EncodingRGB8 = "rgb8"

// Image is an uncompressed camera frame.
type Image struct {
	Header      std_msgs.Header
	Height      uint32
	Width       uint32
	Encoding    string
	IsBigendian uint8
	Step        uint32
	Data        []byte
}

func (m *Image) TypeName() string {
	return ImageTypeName
}

func (m *Image) Serialize(e *cdr.Encoder) error {
	if err := m.Header.Serialize(e); err != nil {
		return errors.Wrap(err, "header")
	}
	if err := e.WriteUint32(m.Height); err != nil {
		return errors.Wrap(err, "height")
	}
	if err := e.WriteUint32(m.Width); err != nil {
		return errors.Wrap(err, "width")
	}
	if err := e.WriteString(m.Encoding); err != nil {
		return errors.Wrap(err, "encoding")
	}
	if err := e.WriteUint8(m.IsBigendian); err != nil {
		return errors.Wrap(err, "is_bigendian")
	}
	if err := e.WriteUint32(m.Step); err != nil {
		return errors.Wrap(err, "step")
	}
	if err := e.WriteBytes(m.Data); err != nil {
		return errors.Wrap(err, "data")
	}
	return nil
}

func (m *Image) Deserialize(d *cdr.Decoder) error {
	if err := m.Header.Deserialize(d); err != nil {
		return errors.Wrap(err, "header")
	}
	var err error
	if m.Height, err = d.ReadUint32(); err != nil {
		return errors.Wrap(err, "height")
	}
	if m.Width, err = d.ReadUint32(); err != nil {
		return errors.Wrap(err, "width")
	}
	if m.Encoding, err = d.ReadString(); err != nil {
		return errors.Wrap(err, "encoding")
	}
	if m.IsBigendian, err = d.ReadUint8(); err != nil {
		return errors.Wrap(err, "is_bigendian")
	}
	if m.Step, err = d.ReadUint32(); err != nil {
		return errors.Wrap(err, "step")
	}
	if m.Data, err = d.ReadBytes(); err != nil {
		return errors.Wrap(err, "data")
	}
	return nil
}

// RGB is one packed pixel.
type RGB struct {
	R, G, B uint8
}

// Pixels interprets Data as packed RGB8, row-major with no row padding.
// It fails if Data holds fewer than Height*Width*3 bytes; extra bytes are
// ignored.
func (m *Image) Pixels() ([]RGB, error) {
	need := uint64(m.Height) * uint64(m.Width) * 3
	if uint64(len(m.Data)) < need {
		return nil, errors.Errorf("image %dx%d needs %d bytes, have %d", m.Width, m.Height, need, len(m.Data))
	}
	pixels := make([]RGB, need/3)
	for i := range pixels {
		p := m.Data[3*i : 3*i+3]
		pixels[i] = RGB{R: p[0], G: p[1], B: p[2]}
	}
	return pixels, nil
}

// At returns the pixel in column x of row y.
func (m *Image) At(x, y int) (RGB, bool) {
	if x < 0 || y < 0 || uint64(x) >= uint64(m.Width) || uint64(y) >= uint64(m.Height) {
		return RGB{}, false
	}
	// x and y are below 2^32, so the offset fits in a uint64
	i := 3 * (uint64(y)*uint64(m.Width) + uint64(x))
	if i+3 > uint64(len(m.Data)) {
		return RGB{}, false
	}
	return RGB{R: m.Data[i], G: m.Data[i+1], B: m.Data[i+2]}, true
}
