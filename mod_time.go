package portals

import (
	"time"
)

// maxFixedSteps caps the catch-up after a long frame.
const maxFixedSteps = 8

type Time struct {
	Time    time.Time
	Dt      time.Duration
	FixedDt time.Duration
	Frame   uint64

	accumulator time.Duration
}

// advance moves the clock by dt and returns how many fixed steps elapsed.
func (t *Time) advance(dt time.Duration) int {
	t.Dt = dt
	t.Time = t.Time.Add(dt)
	t.Frame++

	if t.FixedDt <= 0 {
		return 1
	}
	t.accumulator += dt
	steps := 0
	for t.accumulator >= t.FixedDt && steps < maxFixedSteps {
		t.accumulator -= t.FixedDt
		steps++
	}
	if steps == maxFixedSteps {
		t.accumulator = 0
	}
	return steps
}

// Alpha is the fraction of a fixed step left in the accumulator.
func (t *Time) Alpha() float32 {
	if t.FixedDt <= 0 {
		return 0
	}
	return float32(t.accumulator) / float32(t.FixedDt)
}

type TimeModule struct {
	FixedStep time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time:    time.Now(),
		FixedDt: mod.FixedStep,
	})
}
