package ros

import (
	"context"
	"time"
)

// Rate keeps a loop running at a fixed cycle time. Cycles that overrun
// are not made up: the next cycle starts from the scheduled boundary.
type Rate struct {
	actualCycleTime   time.Duration
	expectedCycleTime time.Duration
	start             time.Time
}

func NewRate(frequency float64) Rate {
	expectedCycleTime := time.Duration(float64(time.Second) / frequency)
	return CycleTime(expectedCycleTime)
}

func CycleTime(d time.Duration) Rate {
	var actualCycleTime time.Duration
	start := time.Now()
	return Rate{actualCycleTime, d, start}
}

func (r *Rate) CycleTime() time.Duration {
	return r.actualCycleTime
}

func (r *Rate) ExpectedCycleTime() time.Duration {
	return r.expectedCycleTime
}

func (r *Rate) Reset() {
	r.actualCycleTime = 0
	r.start = time.Now()
}

// Sleep blocks until the end of the current cycle or until ctx is done,
// in which case it returns ctx.Err().
func (r *Rate) Sleep(ctx context.Context) error {
	diff := time.Since(r.start)
	var remaining time.Duration
	if r.expectedCycleTime >= diff {
		remaining = r.expectedCycleTime - diff
	}
	if remaining > 0 {
		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now()
	r.actualCycleTime = now.Sub(r.start)
	r.start = r.start.Add(r.expectedCycleTime)
	if now.Sub(r.start) > r.expectedCycleTime {
		// fell more than a cycle behind, resynchronise instead of bursting
		r.start = now
	}
	return nil
}
