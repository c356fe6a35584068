package ros

import (
	gotime "time"
)

const TimeTypeName = "builtin_interfaces::msg::dds_::Time_"

// Time is builtin_interfaces/Time: seconds and nanoseconds since the epoch.
type Time struct {
	temporal
}

// NewTime creates a Time from seconds and nanoseconds, carrying nanosecond
// overflow into seconds.
func NewTime(sec int32, nsec uint32) Time {
	s, ns := normalizeTemporal(int64(sec), int64(nsec))
	return Time{temporal{s, ns}}
}

// Now returns the current wall clock time.
func Now() Time {
	return TimeOf(gotime.Now())
}

// TimeOf converts a Go time.
func TimeOf(t gotime.Time) Time {
	var r Time
	r.FromNSec(t.UnixNano())
	return r
}

// GoTime converts to a Go time.
func (t Time) GoTime() gotime.Time {
	return gotime.Unix(int64(t.Sec), int64(t.NanoSec))
}

func (t *Time) TypeName() string {
	return TimeTypeName
}

// Diff returns difference of two Time objects as a Duration
func (t *Time) Diff(from Time) Duration {
	sec, nsec := normalizeTemporal(int64(t.Sec)-int64(from.Sec),
		int64(t.NanoSec)-int64(from.NanoSec))
	return Duration{temporal{sec, nsec}}
}

// Add returns sum of Time and Duration given
func (t *Time) Add(d Duration) Time {
	sec, nsec := normalizeTemporal(int64(t.Sec)+int64(d.Sec),
		int64(t.NanoSec)+int64(d.NanoSec))
	return Time{temporal{sec, nsec}}
}

// Sub returns subtraction of Time and Duration given
func (t *Time) Sub(d Duration) Time {
	sec, nsec := normalizeTemporal(int64(t.Sec)-int64(d.Sec),
		int64(t.NanoSec)-int64(d.NanoSec))
	return Time{temporal{sec, nsec}}
}

// Cmp returns int comparison of two Time objects
func (t *Time) Cmp(other Time) int {
	return cmpInt64(t.ToNSec(), other.ToNSec())
}
