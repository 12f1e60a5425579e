package sound

import "time"

// Engine is the single audio service of an application: one Crossfader for
// music, one Pool for effects and the Driver that advances both. Build it
// once at startup and pass it to whatever needs to make noise.
type Engine struct {
	music   *Crossfader
	effects *Pool
	driver  *Driver
}

// NewEngine wires the services around b. When b is itself a Ticker it is
// advanced first on every tick, ahead of the fades and deadlines.
func NewEngine(b Backend, cfg Config) *Engine {
	e := &Engine{
		music:   NewCrossfader(b, cfg),
		effects: NewPool(b, cfg),
		driver:  NewDriver(),
	}
	if t, ok := b.(Ticker); ok {
		e.driver.Add(t)
	}
	e.driver.Add(e.music)
	e.driver.Add(e.effects)
	return e
}

func (e *Engine) Music() *Crossfader {
	return e.music
}

func (e *Engine) Effects() *Pool {
	return e.effects
}

func (e *Engine) Driver() *Driver {
	return e.driver
}

func (e *Engine) Tick(dt time.Duration) {
	e.driver.Tick(dt)
}
