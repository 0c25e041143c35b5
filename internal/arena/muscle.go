package arena

// MuscleState is the actuation state of one instantiated muscle.
type MuscleState int

const (
	Contracted MuscleState = iota
	Extended
)

func (s MuscleState) String() string {
	if s == Contracted {
		return "contracted"
	}
	return "extended"
}

// muscleClock alternates a muscle between its contracted and extended target
// lengths. The transition fires once the delay of the current state has
// elapsed since the last toggle; a negative delay pins the muscle in its
// current state forever.
type muscleClock struct {
	spec       MuscleSpec
	state      MuscleState
	lastToggle float64
}

func newMuscleClock(spec MuscleSpec, now float64) *muscleClock {
	return &muscleClock{spec: spec, state: Contracted, lastToggle: now}
}

func (c *muscleClock) update(now float64) {
	for {
		delay := c.spec.ContractDelay
		if c.state == Extended {
			delay = c.spec.ExtendDelay
		}
		if delay < 0 {
			return
		}
		if now-c.lastToggle < delay {
			return
		}
		if delay == 0 {
			// Zero delay toggles once per update instead of spinning.
			c.lastToggle = now
			c.toggle()
			return
		}
		c.lastToggle += delay
		c.toggle()
	}
}

func (c *muscleClock) toggle() {
	if c.state == Contracted {
		c.state = Extended
	} else {
		c.state = Contracted
	}
}

func (c *muscleClock) targetLength() float64 {
	if c.state == Contracted {
		return c.spec.ContractedLength
	}
	return c.spec.ExtendedLength
}
