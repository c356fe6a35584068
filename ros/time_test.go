package ros

import (
	"testing"
	"time"
)

func TestNewTime(t *testing.T) {
	t1 := NewTime(1, 2)
	if t1.Sec != 1 {
		t.Fail()
	}
	if t1.NanoSec != 2 {
		t.Fail()
	}
}

func TestNewTimeCarries(t *testing.T) {
	t1 := NewTime(1, 2500000000)
	if t1.Sec != 3 || t1.NanoSec != 500000000 {
		t.Error(t1.Sec, t1.NanoSec)
	}
}

func TestTimeAdd(t *testing.T) {
	var t1 Time
	t1.FromNSec(500000000)

	var d Duration
	d.FromNSec(800000000)

	t2 := t1.Add(d)
	if t2.Sec != 1 {
		t.Error(t2.Sec)
	}
	if t2.NanoSec != 300000000 {
		t.Error(t2.NanoSec)
	}
}

func TestTimeSub(t *testing.T) {
	var t1 Time
	t1.FromNSec(1300000000)

	var d Duration
	d.FromNSec(500000000)

	t2 := t1.Sub(d)
	if t2.Sec != 0 {
		t.Error(t2.Sec)
	}
	if t2.NanoSec != 800000000 {
		t.Error(t2.NanoSec)
	}
}

func TestTimeDiff(t *testing.T) {
	var t1, t2 Time
	t1.FromNSec(1300000000)
	t2.FromNSec(500000000)

	d := t1.Diff(t2)
	if d.Sec != 0 {
		t.Error(d.Sec)
	}
	if d.NanoSec != 800000000 {
		t.Error(d.NanoSec)
	}
}

func TestTimeCmp(t *testing.T) {
	t1 := NewTime(1, 0)
	t2 := NewTime(0, 999999999)
	if t1.Cmp(t2) != 1 || t2.Cmp(t1) != -1 || t1.Cmp(t1) != 0 {
		t.Fail()
	}
}

func TestTimeGo(t *testing.T) {
	goTime := time.Unix(1700000000, 123456789)
	t1 := TimeOf(goTime)
	if t1.Sec != 1700000000 || t1.NanoSec != 123456789 {
		t.Error(t1.Sec, t1.NanoSec)
	}
	if !t1.GoTime().Equal(goTime) {
		t.Error(t1.GoTime())
	}
}

func TestNow(t *testing.T) {
	before := time.Now()
	now := Now()
	if now.GoTime().Before(before.Truncate(time.Second)) {
		t.Error(now.GoTime(), before)
	}
}
