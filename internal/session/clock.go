package session

import "time"

// Clock turns frame callbacks into step sizes measured on the wall clock.
// Reset it whenever simulation resumes so the pause is not replayed.
type Clock struct {
	now     func() time.Time
	last    time.Time
	started bool
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Reset() {
	c.last = c.now()
	c.started = true
}

// Delta returns seconds since the previous call or Reset. The first call
// returns zero.
func (c *Clock) Delta() float64 {
	t := c.now()
	if !c.started {
		c.last = t
		c.started = true
		return 0
	}
	d := t.Sub(c.last).Seconds()
	c.last = t
	if d < 0 {
		return 0
	}
	return d
}
