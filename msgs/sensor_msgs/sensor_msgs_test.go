package sensor_msgs

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinhayes/zteleop/cdr"
	"github.com/edwinhayes/zteleop/msgs/std_msgs"
	"github.com/edwinhayes/zteleop/ros"
)

type stream struct {
	b []byte
}

func (s *stream) u32(v uint32) *stream {
	s.b = binary.LittleEndian.AppendUint32(s.b, v)
	return s
}

func (s *stream) f32(v float32) *stream {
	return s.u32(math.Float32bits(v))
}

func (s *stream) raw(v ...byte) *stream {
	s.b = append(s.b, v...)
	return s
}

func (s *stream) str(v string) *stream {
	s.b = append(s.b, v...)
	return s
}

func batteryStream() []byte {
	s := &stream{b: []byte{0x00, 0x01, 0x00, 0x00}}
	s.u32(12).u32(500)  // stamp
	s.u32(5).str("base").raw(0, 0, 0, 0) // frame_id + pad to 4
	s.f32(15.2).f32(31.5).f32(-0.8).f32(1.9).f32(2.6).f32(2.6).f32(0.73)
	s.raw(PowerSupplyStatusDischarging, 0, 0, 1)
	s.u32(2).f32(3.8).f32(3.9) // cell_voltage
	s.u32(0)                   // cell_temperature
	s.u32(0)                   // location
	s.u32(7).str("SN-123").raw(0)
	return s.b
}

func expectedBattery() BatteryState {
	return BatteryState{
		Header:            std_msgs.Header{Stamp: ros.NewTime(12, 500), FrameID: "base"},
		Voltage:           15.2,
		Temperature:       31.5,
		Current:           -0.8,
		Charge:            1.9,
		Capacity:          2.6,
		DesignCapacity:    2.6,
		Percentage:        0.73,
		PowerSupplyStatus: PowerSupplyStatusDischarging,
		Present:           true,
		CellVoltage:       []float32{3.8, 3.9},
		SerialNumber:      "SN-123",
	}
}

var cmpBattery = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmp.AllowUnexported(ros.Time{}),
}

func TestBatteryDecodeStream(t *testing.T) {
	var got BatteryState
	require.NoError(t, ros.Decode(batteryStream(), &got))
	if diff := cmp.Diff(expectedBattery(), got, cmpBattery...); diff != "" {
		t.Errorf("decoded battery mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, got.CellVoltage, 2)
	assert.Nil(t, got.CellTemperature)
	assert.Equal(t, 73, got.PercentageInt())
}

func TestBatteryEncodeMatchesStream(t *testing.T) {
	msg := expectedBattery()
	data, err := ros.Encode(&msg)
	require.NoError(t, err)
	assert.Equal(t, batteryStream(), data)
}

func TestBatteryRejectsHugeCellCount(t *testing.T) {
	data := batteryStream()
	// cell_voltage length sits after header(4) stamp(8) frame_id(12) floats(28) bytes(4)
	binary.LittleEndian.PutUint32(data[4+8+12+28+4:], 1<<20)

	var got BatteryState
	err := ros.Decode(data, &got)
	require.Error(t, err)
	assert.ErrorIs(t, err, cdr.ErrBufferUnderrun)
	assert.Contains(t, err.Error(), "cell_voltage")
}

func TestBatteryJSON(t *testing.T) {
	msg := expectedBattery()
	msg.Temperature = float32(math.NaN())
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"temperature":"nan"`)
	assert.Contains(t, string(data), `"percentage":0.73`)
	assert.Contains(t, string(data), `"cell_voltage":[3.8,3.9]`)
	assert.Contains(t, string(data), `"frame_id":"base"`)
}

func TestImageRoundTrip(t *testing.T) {
	msg := Image{
		Header:   std_msgs.Header{Stamp: ros.NewTime(3, 4), FrameID: "oakd_rgb_camera_optical_frame"},
		Height:   2,
		Width:    2,
		Encoding: EncodingRGB8,
		Step:     6,
		Data: []byte{
			255, 0, 0, 0, 255, 0,
			0, 0, 255, 10, 20, 30,
		},
	}
	data, err := ros.Encode(&msg)
	require.NoError(t, err)

	var got Image
	require.NoError(t, ros.Decode(data, &got))
	if diff := cmp.Diff(msg, got, cmpBattery...); diff != "" {
		t.Errorf("image mismatch (-want +got):\n%s", diff)
	}

	pixels, err := got.Pixels()
	require.NoError(t, err)
	assert.Equal(t, []RGB{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {10, 20, 30}}, pixels)

	px, ok := got.At(1, 1)
	assert.True(t, ok)
	assert.Equal(t, RGB{10, 20, 30}, px)
	_, ok = got.At(2, 0)
	assert.False(t, ok)
}

func TestImagePixelsShortData(t *testing.T) {
	img := Image{Height: 2, Width: 2, Data: make([]byte, 11)}
	_, err := img.Pixels()
	assert.Error(t, err)
	_, ok := img.At(1, 1)
	assert.False(t, ok)

	empty := Image{}
	pixels, err := empty.Pixels()
	require.NoError(t, err)
	assert.Empty(t, pixels)
}

func TestImageEmptyData(t *testing.T) {
	msg := Image{Encoding: EncodingRGB8}
	data, err := ros.Encode(&msg)
	require.NoError(t, err)

	var got Image
	require.NoError(t, ros.Decode(data, &got))
	assert.Nil(t, got.Data)
	assert.Equal(t, EncodingRGB8, got.Encoding)
}

func rawStamp(sec int32, nsec uint32) ros.Time {
	var stamp ros.Time
	stamp.Sec = sec
	stamp.NanoSec = nsec
	return stamp
}

func TestBatteryBoundaryRoundTrip(t *testing.T) {
	nan := float32(math.NaN())
	cases := map[string]BatteryState{
		"zero": {},
		"unknowns": {
			Header:          std_msgs.Header{Stamp: rawStamp(-1, 0)},
			Voltage:         nan,
			Temperature:     nan,
			Current:         -1,
			Charge:          nan,
			Capacity:        nan,
			DesignCapacity:  nan,
			Percentage:      nan,
			CellVoltage:     []float32{},
			CellTemperature: []float32{},
			Location:        "",
			SerialNumber:    "",
		},
		"max": {
			Header:                std_msgs.Header{Stamp: rawStamp(math.MaxInt32, math.MaxUint32), FrameID: "battery"},
			Voltage:               math.MaxFloat32,
			Current:               -math.MaxFloat32,
			Percentage:            1,
			PowerSupplyStatus:     math.MaxUint8,
			PowerSupplyHealth:     math.MaxUint8,
			PowerSupplyTechnology: math.MaxUint8,
			Present:               true,
			CellVoltage:           []float32{nan, 0, -1},
			CellTemperature:       []float32{float32(math.Inf(1))},
			Location:              "slot0",
			SerialNumber:          "x",
		},
	}
	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := ros.Encode(&msg)
			require.NoError(t, err)
			var got BatteryState
			require.NoError(t, ros.Decode(data, &got))
			if diff := cmp.Diff(msg, got, append(cmpBattery, cmpopts.EquateNaNs())...); diff != "" {
				t.Errorf("battery mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImageBoundaryRoundTrip(t *testing.T) {
	cases := map[string]Image{
		"zero": {},
		"max": {
			Header:      std_msgs.Header{Stamp: rawStamp(math.MaxInt32, math.MaxUint32), FrameID: "oakd"},
			Height:      math.MaxUint32,
			Width:       math.MaxUint32,
			Encoding:    EncodingRGB8,
			IsBigendian: math.MaxUint8,
			Step:        math.MaxUint32,
			Data:        make([]byte, 12),
		},
		"negative stamp": {Header: std_msgs.Header{Stamp: rawStamp(-1, 0)}, Encoding: "mono8", Data: []byte{}},
	}
	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := ros.Encode(&msg)
			require.NoError(t, err)
			var got Image
			require.NoError(t, ros.Decode(data, &got))
			if diff := cmp.Diff(msg, got, cmpBattery...); diff != "" {
				t.Errorf("image mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImageHugeDimensions(t *testing.T) {
	for _, dim := range []uint32{math.MaxUint32, 2000000000} {
		img := Image{Height: dim, Width: dim, Data: make([]byte, 12)}
		_, err := img.Pixels()
		assert.Error(t, err, "%d", dim)

		_, ok := img.At(int(dim-1), int(dim-1))
		assert.False(t, ok)
		px, ok := img.At(3, 0)
		assert.True(t, ok)
		assert.Equal(t, RGB{}, px)
		_, ok = img.At(4, 0)
		assert.False(t, ok)
	}
}
