// Package particle simulates confetti: bursts of pooled 2D particles with
// gravity, side-wall bounce, spin and a fade at the end of their life.
package particle

import (
	"math"
	"math/rand"
	"time"

	"go-match/internal/layout"
	"go-match/internal/sched"
)

// Emitter owns an arena of particle records addressed by index. Free
// indices sit on a stack; active indices are kept in emission order. An index
// is always in exactly one of the two.
type Emitter struct {
	cfg  Config
	rng  *rand.Rand
	view layout.Viewport

	tasks     *sched.Scheduler
	ownsTasks bool

	particles []Particle
	free      []int
	active    []int
}

// NewEmitter builds an emitter simulating inside view's design area. Repeated
// bursts are scheduled on tasks; when tasks is nil the emitter keeps its own
// scheduler and advances it from Update. A nil rng is seeded from the clock.
func NewEmitter(cfg Config, view layout.Viewport, tasks *sched.Scheduler, rng *rand.Rand) *Emitter {
	cfg = cfg.normalize()
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Emitter{
		cfg:   cfg,
		rng:   rng,
		view:  view,
		tasks: tasks,
	}
	if e.tasks == nil {
		e.tasks = sched.New()
		e.ownsTasks = true
	}

	e.particles = make([]Particle, cfg.InitialPool)
	e.free = make([]int, 0, cfg.InitialPool)
	for i := cfg.InitialPool - 1; i >= 0; i-- {
		e.particles[i].Sprite = e.pickSprite()
		e.free = append(e.free, i)
	}
	return e
}

// Config returns the normalized configuration in use.
func (e *Emitter) Config() Config {
	return e.cfg
}

// SetBounce toggles side-wall bounce.
func (e *Emitter) SetBounce(on bool) {
	e.cfg.Bounce = on
}

// SetViewport updates the container mapping after a display resize.
func (e *Emitter) SetViewport(v layout.Viewport) {
	e.view = v
}

// Viewport returns the container mapping.
func (e *Emitter) Viewport() layout.Viewport {
	return e.view
}

func (e *Emitter) pickSprite() Sprite {
	return Sprite{
		Glyph: e.cfg.Glyphs[e.rng.Intn(len(e.cfg.Glyphs))],
		Color: e.cfg.Colors[e.rng.Intn(len(e.cfg.Colors))],
	}
}

// acquire pops a free record, growing the arena when the stack is empty.
func (e *Emitter) acquire() int {
	if n := len(e.free); n > 0 {
		idx := e.free[n-1]
		e.free = e.free[:n-1]
		return idx
	}
	e.particles = append(e.particles, Particle{Sprite: e.pickSprite()})
	return len(e.particles) - 1
}

func (e *Emitter) release(idx int) {
	p := &e.particles[idx]
	p.Active = false
	p.Opacity = 0
	e.free = append(e.free, idx)
}

func (e *Emitter) direction(fullCircle bool) float64 {
	if fullCircle {
		return e.rng.Float64() * 360
	}
	half := e.cfg.AngleSpread / 2
	return e.cfg.BaseAngle - half + e.rng.Float64()*e.cfg.AngleSpread
}

// EmitBurst spawns count particles at origin (container space). Directions
// are uniform over the full circle or over the configured spread around the
// base angle.
func (e *Emitter) EmitBurst(count int, origin layout.Point, fullCircle bool) {
	for i := 0; i < count; i++ {
		idx := e.acquire()
		p := &e.particles[idx]

		rad := e.direction(fullCircle) * math.Pi / 180
		speed := e.cfg.Speed.Sample(e.rng)
		*p = Particle{
			Pos:          origin,
			Vel:          layout.Point{X: math.Cos(rad) * speed, Y: -math.Sin(rad) * speed},
			Rotation:     e.rng.Float64() * 360,
			Spin:         e.cfg.Spin.Sample(e.rng),
			Size:         e.cfg.Size.Sample(e.rng),
			Lifetime:     e.cfg.Lifetime.Sample(e.rng),
			StartOpacity: e.cfg.StartOpacity,
			Opacity:      e.cfg.StartOpacity,
			Sprite:       e.pickSprite(),
			Active:       true,
		}
		if p.Lifetime <= 0 {
			p.Lifetime = e.cfg.Lifetime.Max
		}
		e.active = append(e.active, idx)
	}
}

// EmitRepeatedBursts fires BurstRepeat bursts BurstInterval apart without
// blocking. The first burst is emitted before it returns.
func (e *Emitter) EmitRepeatedBursts(origin layout.Point, fullCircle bool) {
	e.tasks.Repeat(e.cfg.BurstRepeat, e.cfg.BurstInterval, func(int) {
		e.EmitBurst(e.cfg.BurstCount, origin, fullCircle)
	})
}

// PlayCentered bursts from the middle of the container in every direction.
func (e *Emitter) PlayCentered() {
	d := e.view.Design
	e.EmitRepeatedBursts(layout.Point{X: d.W / 2, Y: d.H / 2}, true)
}

// PlayAt bursts from a display coordinate using the directional spread.
func (e *Emitter) PlayAt(screen layout.Point) {
	e.EmitRepeatedBursts(e.view.ScreenToLocal(screen), false)
}

// Update advances every active particle by dt seconds. Motion and bounce are
// resolved before lifetime and fade for each particle.
func (e *Emitter) Update(dt float64) {
	if e.ownsTasks {
		e.tasks.Advance(dt)
	}
	if dt <= 0 {
		return
	}

	width := e.view.Design.W
	kept := e.active[:0]
	for _, idx := range e.active {
		p := &e.particles[idx]

		p.Vel.Y += e.cfg.Gravity * dt
		p.Pos.X += p.Vel.X * dt
		p.Pos.Y += p.Vel.Y * dt

		if e.cfg.Bounce && width > 0 {
			if p.Pos.X < 0 {
				p.Pos.X = 0
				p.Vel.X = -p.Vel.X * e.cfg.BounceDamping
			} else if p.Pos.X > width {
				p.Pos.X = width
				p.Vel.X = -p.Vel.X * e.cfg.BounceDamping
			}
		}

		p.Rotation += p.Spin * dt
		p.Elapsed += dt
		if p.Elapsed >= p.Lifetime {
			e.release(idx)
			continue
		}
		p.Opacity = p.StartOpacity * Fade(p.Elapsed, p.Lifetime, e.cfg.FadeTail)
		kept = append(kept, idx)
	}
	e.active = kept
}

// Clear returns every active particle to the pool.
func (e *Emitter) Clear() {
	for _, idx := range e.active {
		e.release(idx)
	}
	e.active = e.active[:0]
}

// Active returns copies of the live particles in emission order.
func (e *Emitter) Active() []Particle {
	out := make([]Particle, 0, len(e.active))
	for _, idx := range e.active {
		out = append(out, e.particles[idx])
	}
	return out
}

// ActiveCount is the number of live particles.
func (e *Emitter) ActiveCount() int {
	return len(e.active)
}

// PoolSize is the number of free records waiting for reuse.
func (e *Emitter) PoolSize() int {
	return len(e.free)
}

// Capacity is the arena size. It only ever grows.
func (e *Emitter) Capacity() int {
	return len(e.particles)
}
