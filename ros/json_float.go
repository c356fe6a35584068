package ros

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// JsonFloat32 is a float32 that survives JSON encoding when it is NaN or
// infinite. Battery fields the robot does not measure are reported as NaN.
type JsonFloat32 struct {
	F float32
}

// JsonFloat64 is the float64 counterpart of JsonFloat32.
type JsonFloat64 struct {
	F float64
}

func marshalFloat(f float64, bitSize int) ([]byte, error) {
	switch {
	case math.IsNaN(f):
		return json.Marshal("nan")
	case math.IsInf(f, 1):
		return json.Marshal("+inf")
	case math.IsInf(f, -1):
		return json.Marshal("-inf")
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, bitSize)), nil
}

func unmarshalFloat(data []byte) (float64, error) {
	if len(data) >= 2 && data[0] == '"' {
		s, err := jsonparser.ParseString(data[1 : len(data)-1])
		if err != nil {
			return 0, errors.Wrap(err, "float string")
		}
		switch s {
		case "nan":
			return math.NaN(), nil
		case "+inf", "inf":
			return math.Inf(1), nil
		case "-inf":
			return math.Inf(-1), nil
		}
		return 0, errors.Errorf("invalid float string %q", s)
	}
	f, err := jsonparser.ParseFloat(data)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid float %q", data)
	}
	return f, nil
}

func (f JsonFloat32) String() string {
	return strconv.FormatFloat(float64(f.F), 'f', 5, 32)
}

func (f JsonFloat32) MarshalJSON() ([]byte, error) {
	return marshalFloat(float64(f.F), 32)
}

func (f *JsonFloat32) UnmarshalJSON(data []byte) error {
	v, err := unmarshalFloat(data)
	if err != nil {
		return err
	}
	f.F = float32(v)
	return nil
}

func (f JsonFloat64) String() string {
	return strconv.FormatFloat(f.F, 'f', 5, 64)
}

func (f JsonFloat64) MarshalJSON() ([]byte, error) {
	return marshalFloat(f.F, 64)
}

func (f *JsonFloat64) UnmarshalJSON(data []byte) error {
	v, err := unmarshalFloat(data)
	if err != nil {
		return err
	}
	f.F = v
	return nil
}
