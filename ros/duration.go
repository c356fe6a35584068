package ros

import (
	"time"
)

const DurationTypeName = "builtin_interfaces::msg::dds_::Duration_"

// Duration is builtin_interfaces/Duration.
type Duration struct {
	temporal
}

// NewDuration instantiates a new Duration item with given sec and nsec integers
func NewDuration(sec int32, nsec uint32) Duration {
	s, ns := normalizeTemporal(int64(sec), int64(nsec))
	return Duration{temporal{s, ns}}
}

// DurationOf converts a Go duration.
func DurationOf(d time.Duration) Duration {
	var r Duration
	r.FromNSec(d.Nanoseconds())
	return r
}

// GoDuration converts to a Go duration.
func (d Duration) GoDuration() time.Duration {
	return time.Duration(d.ToNSec())
}

func (d *Duration) TypeName() string {
	return DurationTypeName
}

// Add function for adding two durations together
func (d *Duration) Add(other Duration) Duration {
	sec, nsec := normalizeTemporal(int64(d.Sec)+int64(other.Sec),
		int64(d.NanoSec)+int64(other.NanoSec))
	return Duration{temporal{sec, nsec}}
}

// Sub function for subtracting a duration from another
func (d *Duration) Sub(other Duration) Duration {
	sec, nsec := normalizeTemporal(int64(d.Sec)-int64(other.Sec),
		int64(d.NanoSec)-int64(other.NanoSec))
	return Duration{temporal{sec, nsec}}
}

// Cmp function to compare two durations
func (d *Duration) Cmp(other Duration) int {
	return cmpInt64(d.ToNSec(), other.ToNSec())
}
