package shapes

import "github.com/golang/geo/r3"

// Contacts is the result of Separate: up to MaxContacts witness points with
// an outward direction (from the first operand toward the second) and a
// penetration depth each.
type Contacts struct {
	Position    []r3.Vector
	Direction   []r3.Vector
	Penetration []float64
	MaxContacts int
}

// N reports the number of contacts actually populated.
func (c Contacts) N() int { return len(c.Position) }

func newContacts(maxContacts int) *Contacts {
	if maxContacts <= 0 {
		maxContacts = 1
	}
	return &Contacts{MaxContacts: maxContacts}
}

func (c *Contacts) add(pos, dir r3.Vector, depth float64) {
	if len(c.Position) >= c.MaxContacts {
		return
	}
	c.Position = append(c.Position, pos)
	c.Direction = append(c.Direction, dir)
	c.Penetration = append(c.Penetration, depth)
}

// flip returns a copy with every direction negated, used when a table entry
// was registered for the swapped shape ordering.
func (c *Contacts) flip() *Contacts {
	out := &Contacts{MaxContacts: c.MaxContacts}
	out.Position = append(out.Position, c.Position...)
	out.Penetration = append(out.Penetration, c.Penetration...)
	for _, d := range c.Direction {
		out.Direction = append(out.Direction, d.Mul(-1))
	}
	return out
}
