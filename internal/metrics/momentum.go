package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// MomentumDrift is the largest |P(t) - P(0)| relative to the total
// momentum magnitude scale sum(m_i |v_i|) at the first row.
type MomentumDrift struct {
	name     string
	initial  [3]float64
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(x dynamo.State, masses dynamo.Masses, t float64) {
	p := physics.Momentum(x, masses)

	if m.samples == 0 {
		m.initial = p
		for i, mass := range masses {
			v := x.Velocity(i)
			m.scale += mass * math.Sqrt(v[0]*v[0]+v[1]*v[1]+v[2]*v[2])
		}
	}
	m.samples++

	if m.scale == 0 {
		return
	}
	d := norm3(sub3(p, m.initial)) / m.scale
	m.maxDrift = math.Max(m.maxDrift, d)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = [3]float64{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}

// CenterOfMassDrift is the largest distance (AU) between the barycentre and
// the straight line it should follow given its initial velocity.
type CenterOfMassDrift struct {
	name     string
	origin   [3]float64
	velocity [3]float64
	t0       float64
	maxDrift float64
	samples  int
}

func NewCenterOfMassDrift() *CenterOfMassDrift {
	return &CenterOfMassDrift{name: "com_drift"}
}

func (c *CenterOfMassDrift) Name() string { return c.name }

func (c *CenterOfMassDrift) Observe(x dynamo.State, masses dynamo.Masses, t float64) {
	com := physics.CenterOfMass(x, masses)

	if c.samples == 0 {
		c.origin = com
		c.t0 = t
		p := physics.Momentum(x, masses)
		total := masses.Total()
		for k := range p {
			c.velocity[k] = p[k] / total
		}
	}
	c.samples++

	dt := t - c.t0
	var expected [3]float64
	for k := range expected {
		expected[k] = c.origin[k] + c.velocity[k]*dt
	}
	c.maxDrift = math.Max(c.maxDrift, norm3(sub3(com, expected)))
}

func (c *CenterOfMassDrift) Value() float64 { return c.maxDrift }

func (c *CenterOfMassDrift) Reset() {
	c.origin = [3]float64{}
	c.velocity = [3]float64{}
	c.t0 = 0
	c.maxDrift = 0
	c.samples = 0
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func norm3(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}
