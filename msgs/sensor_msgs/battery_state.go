// Package sensor_msgs holds the battery and camera messages a robot
// publishes.
package sensor_msgs

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/edwinhayes/zteleop/cdr"
	"github.com/edwinhayes/zteleop/msgs/std_msgs"
	"github.com/edwinhayes/zteleop/ros"
)

const BatteryStateTypeName = "sensor_msgs::msg::dds_::BatteryState_"

const (
	PowerSupplyStatusUnknown     uint8 = 0
	PowerSupplyStatusCharging    uint8 = 1
	PowerSupplyStatusDischarging uint8 = 2
	PowerSupplyStatusNotCharging uint8 = 3
	PowerSupplyStatusFull        uint8 = 4
)

// BatteryState reports the robot power supply. Unmeasured quantities are
// NaN. Percentage is a fraction in [0, 1].
type BatteryState struct {
	Header                std_msgs.Header
	Voltage               float32
	Temperature           float32
	Current               float32
	Charge                float32
	Capacity              float32
	DesignCapacity        float32
	Percentage            float32
	PowerSupplyStatus     uint8
	PowerSupplyHealth     uint8
	PowerSupplyTechnology uint8
	Present               bool
	CellVoltage           []float32
	CellTemperature       []float32
	Location              string
	SerialNumber          string
}

func (m *BatteryState) TypeName() string {
	return BatteryStateTypeName
}

// PercentageInt returns the charge level as a whole percentage, truncated.
func (m *BatteryState) PercentageInt() int {
	return int(m.Percentage * 100)
}

func (m *BatteryState) floats() []*float32 {
	return []*float32{
		&m.Voltage, &m.Temperature, &m.Current, &m.Charge,
		&m.Capacity, &m.DesignCapacity, &m.Percentage,
	}
}

var batteryFloatNames = []string{
	"voltage", "temperature", "current", "charge",
	"capacity", "design_capacity", "percentage",
}

func (m *BatteryState) Serialize(e *cdr.Encoder) error {
	if err := m.Header.Serialize(e); err != nil {
		return errors.Wrap(err, "header")
	}
	for i, f := range m.floats() {
		if err := e.WriteFloat32(*f); err != nil {
			return errors.Wrap(err, batteryFloatNames[i])
		}
	}
	if err := e.WriteUint8(m.PowerSupplyStatus); err != nil {
		return errors.Wrap(err, "power_supply_status")
	}
	if err := e.WriteUint8(m.PowerSupplyHealth); err != nil {
		return errors.Wrap(err, "power_supply_health")
	}
	if err := e.WriteUint8(m.PowerSupplyTechnology); err != nil {
		return errors.Wrap(err, "power_supply_technology")
	}
	if err := e.WriteBool(m.Present); err != nil {
		return errors.Wrap(err, "present")
	}
	if err := e.WriteFloat32s(m.CellVoltage); err != nil {
		return errors.Wrap(err, "cell_voltage")
	}
	if err := e.WriteFloat32s(m.CellTemperature); err != nil {
		return errors.Wrap(err, "cell_temperature")
	}
	if err := e.WriteString(m.Location); err != nil {
		return errors.Wrap(err, "location")
	}
	if err := e.WriteString(m.SerialNumber); err != nil {
		return errors.Wrap(err, "serial_number")
	}
	return nil
}

func (m *BatteryState) Deserialize(d *cdr.Decoder) error {
	if err := m.Header.Deserialize(d); err != nil {
		return errors.Wrap(err, "header")
	}
	var err error
	for i, f := range m.floats() {
		if *f, err = d.ReadFloat32(); err != nil {
			return errors.Wrap(err, batteryFloatNames[i])
		}
	}
	if m.PowerSupplyStatus, err = d.ReadUint8(); err != nil {
		return errors.Wrap(err, "power_supply_status")
	}
	if m.PowerSupplyHealth, err = d.ReadUint8(); err != nil {
		return errors.Wrap(err, "power_supply_health")
	}
	if m.PowerSupplyTechnology, err = d.ReadUint8(); err != nil {
		return errors.Wrap(err, "power_supply_technology")
	}
	if m.Present, err = d.ReadBool(); err != nil {
		return errors.Wrap(err, "present")
	}
	if m.CellVoltage, err = d.ReadFloat32s(); err != nil {
		return errors.Wrap(err, "cell_voltage")
	}
	if m.CellTemperature, err = d.ReadFloat32s(); err != nil {
		return errors.Wrap(err, "cell_temperature")
	}
	if m.Location, err = d.ReadString(); err != nil {
		return errors.Wrap(err, "location")
	}
	if m.SerialNumber, err = d.ReadString(); err != nil {
		return errors.Wrap(err, "serial_number")
	}
	return nil
}

type batteryStateJSON struct {
	FrameID               string            `json:"frame_id"`
	Stamp                 float64           `json:"stamp"`
	Voltage               ros.JsonFloat32   `json:"voltage"`
	Temperature           ros.JsonFloat32   `json:"temperature"`
	Current               ros.JsonFloat32   `json:"current"`
	Charge                ros.JsonFloat32   `json:"charge"`
	Capacity              ros.JsonFloat32   `json:"capacity"`
	DesignCapacity        ros.JsonFloat32   `json:"design_capacity"`
	Percentage            ros.JsonFloat32   `json:"percentage"`
	PowerSupplyStatus     uint8             `json:"power_supply_status"`
	PowerSupplyHealth     uint8             `json:"power_supply_health"`
	PowerSupplyTechnology uint8             `json:"power_supply_technology"`
	Present               bool              `json:"present"`
	CellVoltage           []ros.JsonFloat32 `json:"cell_voltage"`
	CellTemperature       []ros.JsonFloat32 `json:"cell_temperature"`
	Location              string            `json:"location"`
	SerialNumber          string            `json:"serial_number"`
}

func jsonFloats(v []float32) []ros.JsonFloat32 {
	out := make([]ros.JsonFloat32, len(v))
	for i, f := range v {
		out[i] = ros.JsonFloat32{F: f}
	}
	return out
}

// MarshalJSON renders the state for logs. NaN fields become "nan".
func (m BatteryState) MarshalJSON() ([]byte, error) {
	return json.Marshal(batteryStateJSON{
		FrameID:               m.Header.FrameID,
		Stamp:                 m.Header.Stamp.ToSec(),
		Voltage:               ros.JsonFloat32{F: m.Voltage},
		Temperature:           ros.JsonFloat32{F: m.Temperature},
		Current:               ros.JsonFloat32{F: m.Current},
		Charge:                ros.JsonFloat32{F: m.Charge},
		Capacity:              ros.JsonFloat32{F: m.Capacity},
		DesignCapacity:        ros.JsonFloat32{F: m.DesignCapacity},
		Percentage:            ros.JsonFloat32{F: m.Percentage},
		PowerSupplyStatus:     m.PowerSupplyStatus,
		PowerSupplyHealth:     m.PowerSupplyHealth,
		PowerSupplyTechnology: m.PowerSupplyTechnology,
		Present:               m.Present,
		CellVoltage:           jsonFloats(m.CellVoltage),
		CellTemperature:       jsonFloats(m.CellTemperature),
		Location:              m.Location,
		SerialNumber:          m.SerialNumber,
	})
}
