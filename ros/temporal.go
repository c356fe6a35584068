package ros

import (
	"math"

	"github.com/edwinhayes/zteleop/cdr"
)

const secondInNanosecond = 1000000000

func normalizeTemporal(sec int64, nsec int64) (int32, uint32) {
	if nsec >= secondInNanosecond {
		sec += nsec / secondInNanosecond
		nsec = nsec % secondInNanosecond
	} else if nsec < 0 {
		sec += nsec/secondInNanosecond - 1
		nsec = nsec%secondInNanosecond + secondInNanosecond
		if nsec == secondInNanosecond {
			sec++
			nsec = 0
		}
	}

	if sec < math.MinInt32 || sec > math.MaxInt32 {
		panic("Time is out of range")
	}

	return int32(sec), uint32(nsec)
}

func cmpInt64(lhs, rhs int64) int {
	var result int
	if lhs > rhs {
		result = 1
	} else if lhs < rhs {
		result = -1
	} else {
		result = 0
	}
	return result
}

// temporal is the {sec, nanosec} pair shared by builtin_interfaces Time
// and Duration. Both have the same wire layout.
type temporal struct {
	Sec     int32
	NanoSec uint32
}

func (t *temporal) IsZero() bool {
	return t.Sec == 0 && t.NanoSec == 0
}

func (t *temporal) ToSec() float64 {
	return float64(t.Sec) + float64(t.NanoSec)*1e-9
}

func (t *temporal) ToNSec() int64 {
	return int64(t.Sec)*secondInNanosecond + int64(t.NanoSec)
}

func (t *temporal) FromSec(sec float64) {
	t.FromNSec(int64(math.Round(sec * 1e9)))
}

func (t *temporal) FromNSec(nsec int64) {
	t.Sec, t.NanoSec = normalizeTemporal(0, nsec)
}

func (t *temporal) Normalize() {
	t.Sec, t.NanoSec = normalizeTemporal(int64(t.Sec), int64(t.NanoSec))
}

func (t *temporal) Serialize(e *cdr.Encoder) error {
	if err := e.WriteInt32(t.Sec); err != nil {
		return err
	}
	return e.WriteUint32(t.NanoSec)
}

func (t *temporal) Deserialize(d *cdr.Decoder) error {
	var err error
	if t.Sec, err = d.ReadInt32(); err != nil {
		return err
	}
	t.NanoSec, err = d.ReadUint32()
	return err
}
