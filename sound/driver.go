package sound

import "time"

// Ticker is advanced once per frame by a Driver.
type Ticker interface {
	Tick(dt time.Duration)
}

// Driver advances its tickers in registration order. Fades and deadlines are
// driven by accumulated dt, so results do not depend on the frame rate.
type Driver struct {
	tickers []Ticker
	elapsed time.Duration
	frames  int
}

func NewDriver(tickers ...Ticker) *Driver {
	d := &Driver{}
	for _, t := range tickers {
		d.Add(t)
	}
	return d
}

func (d *Driver) Add(t Ticker) {
	if t == nil {
		return
	}
	d.tickers = append(d.tickers, t)
}

func (d *Driver) Tick(dt time.Duration) {
	dt = max(dt, 0)
	d.elapsed += dt
	d.frames++
	for _, t := range d.tickers {
		t.Tick(dt)
	}
}

// Elapsed is the total time the driver has been advanced by.
func (d *Driver) Elapsed() time.Duration {
	return d.elapsed
}

func (d *Driver) Frames() int {
	return d.frames
}
