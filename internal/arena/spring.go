package arena

import (
	"fmt"
	"math"

	"creatura/internal/model"
)

// SpringArena is the built-in reference simulation: enabled nodes become
// point masses with ground contact and friction, enabled muscles become
// damped springs whose rest length follows the muscle clock. It is entirely
// deterministic given a genome and a step sequence.
var _ Arena = (*SpringArena)(nil)

type SpringArena struct {
	cfg        SpringConfig
	nextHandle Handle
	creatures  map[Handle]*creature
}

// SpringConfig tunes the reference integrator.
type SpringConfig struct {
	Gravity      float64
	GroundY      float64
	StepDT       float64
	Damping      float64
	SpringScale  float64
	SpawnSpacing float64
}

// DefaultSpringConfig keeps creatures on a ground plane at y=0 with a fixed
// 4ms integration step.
func DefaultSpringConfig() SpringConfig {
	return SpringConfig{
		Gravity:      -9.81,
		GroundY:      0,
		StepDT:       0.004,
		Damping:      0.35,
		SpringScale:  40,
		SpawnSpacing: 1.2,
	}
}

type body struct {
	spec NodeSpec
	pos  Vec2
	vel  Vec2
}

type creature struct {
	desc    Descriptor
	bodies  []body
	byIndex map[int]int
	clocks  []*muscleClock
	time    float64
	maxX    float64
}

// NewSpringArena builds an empty arena with the given configuration.
func NewSpringArena(cfg SpringConfig) (*SpringArena, error) {
	if cfg.StepDT <= 0 {
		return nil, fmt.Errorf("step dt must be > 0, got %g", cfg.StepDT)
	}
	if cfg.SpringScale <= 0 {
		return nil, fmt.Errorf("spring scale must be > 0, got %g", cfg.SpringScale)
	}
	return &SpringArena{cfg: cfg, creatures: map[Handle]*creature{}}, nil
}

func (a *SpringArena) Instantiate(genome model.Genome, origin Vec2, group int) (Handle, error) {
	desc, err := Describe(genome, group)
	if err != nil {
		return 0, err
	}

	c := &creature{
		desc:    desc,
		bodies:  make([]body, len(desc.Nodes)),
		byIndex: make(map[int]int, len(desc.Nodes)),
		maxX:    math.Inf(-1),
	}
	// Nodes spawn on a ring around the origin so no two start coincident;
	// the layout is a function of node order only.
	for i, spec := range desc.Nodes {
		angle := 2 * math.Pi * float64(i) / float64(len(desc.Nodes))
		c.bodies[i] = body{
			spec: spec,
			pos: Vec2{
				X: origin.X + a.cfg.SpawnSpacing*math.Cos(angle),
				Y: origin.Y + a.cfg.SpawnSpacing*(1.1+math.Sin(angle)),
			},
		}
		c.byIndex[spec.Index] = i
	}
	for _, spec := range desc.Muscles {
		c.clocks = append(c.clocks, newMuscleClock(spec, 0))
	}
	c.trackDisplacement()

	a.nextHandle++
	h := a.nextHandle
	a.creatures[h] = c
	return h, nil
}

func (a *SpringArena) Advance(h Handle, now float64) error {
	c, ok := a.creatures[h]
	if !ok {
		return fmt.Errorf("unknown arena handle: %d", h)
	}
	for c.time < now {
		dt := a.cfg.StepDT
		if remaining := now - c.time; remaining < dt {
			dt = remaining
		}
		a.step(c, dt)
		c.time += dt
	}
	return nil
}

func (a *SpringArena) Displacement(h Handle) (float64, error) {
	c, ok := a.creatures[h]
	if !ok {
		return 0, fmt.Errorf("unknown arena handle: %d", h)
	}
	return c.maxX, nil
}

func (a *SpringArena) Retire(h Handle) error {
	if _, ok := a.creatures[h]; !ok {
		return fmt.Errorf("unknown arena handle: %d", h)
	}
	delete(a.creatures, h)
	return nil
}

func (a *SpringArena) step(c *creature, dt float64) {
	forces := make([]Vec2, len(c.bodies))

	for i := range c.bodies {
		forces[i].Y += a.cfg.Gravity
	}

	for m, spec := range c.desc.Muscles {
		clock := c.clocks[m]
		clock.update(c.time)
		rest := clock.targetLength()

		ia := c.byIndex[spec.BodyA]
		ib := c.byIndex[spec.BodyB]
		dx := c.bodies[ib].pos.X - c.bodies[ia].pos.X
		dy := c.bodies[ib].pos.Y - c.bodies[ia].pos.Y
		dist := math.Hypot(dx, dy)
		if dist < 1e-9 {
			continue
		}
		k := a.cfg.SpringScale * spec.Stiffness
		magnitude := k * (dist - rest)
		fx := magnitude * dx / dist
		fy := magnitude * dy / dist
		forces[ia].X += fx
		forces[ia].Y += fy
		forces[ib].X -= fx
		forces[ib].Y -= fy
	}

	for i := range c.bodies {
		b := &c.bodies[i]
		b.vel.X += forces[i].X * dt
		b.vel.Y += forces[i].Y * dt
		b.vel.X *= 1 - a.cfg.Damping*dt
		b.vel.Y *= 1 - a.cfg.Damping*dt
		b.pos.X += b.vel.X * dt
		b.pos.Y += b.vel.Y * dt

		floor := a.cfg.GroundY + b.spec.Radius
		if b.pos.Y < floor {
			b.pos.Y = floor
			if b.vel.Y < 0 {
				b.vel.Y = 0
			}
			// Ground friction opposes horizontal motion; static friction
			// pins slow bodies in place.
			if math.Abs(b.vel.X) < b.spec.StaticFriction*0.5 {
				b.vel.X = 0
			} else {
				b.vel.X *= 1 - clampFriction(b.spec.Friction)*dt*10
			}
		}
	}

	c.trackDisplacement()
}

func (c *creature) trackDisplacement() {
	for i := range c.bodies {
		if x := c.bodies[i].pos.X; x > c.maxX {
			c.maxX = x
		}
	}
}

func clampFriction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
