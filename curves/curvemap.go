package curves

import (
	"fmt"
)

// CurveMap is an insertion-ordered collection of curves keyed by id. The
// curves' combined degrees of freedom form the solver's parameter vector,
// partitioned by named subsets.
type CurveMap struct {
	order  []string
	curves map[string]*Curve
}

// NewCurveMap returns an empty map.
func NewCurveMap() *CurveMap {
	return &CurveMap{curves: make(map[string]*Curve)}
}

// Add inserts a curve, keeping insertion order. Re-adding an id replaces
// the curve in place.
func (m *CurveMap) Add(c *Curve) {
	if _, ok := m.curves[c.ID()]; !ok {
		m.order = append(m.order, c.ID())
	}
	m.curves[c.ID()] = c
}

// Get returns the curve with the given id.
func (m *CurveMap) Get(id string) (*Curve, error) {
	c, ok := m.curves[id]
	if !ok {
		return nil, fmt.Errorf("%w: curve %s", ErrLookup, id)
	}
	return c, nil
}

// Len returns the number of curves.
func (m *CurveMap) Len() int { return len(m.order) }

// IDs returns the curve ids in insertion order.
func (m *CurveMap) IDs() []string {
	return append([]string(nil), m.order...)
}

// DOFs concatenates the degrees of freedom of the named curves in map
// insertion order.
func (m *CurveMap) DOFs(subset []string) []float64 {
	in := subsetSet(subset)
	var out []float64
	for _, id := range m.order {
		if _, ok := in[id]; ok {
			out = append(out, m.curves[id].AllDOFs()...)
		}
	}
	return out
}

// SetDOFs distributes a flat parameter vector back onto the named curves
// in map insertion order.
func (m *CurveMap) SetDOFs(subset []string, dofs []float64) error {
	in := subsetSet(subset)
	i := 0
	for _, id := range m.order {
		if _, ok := in[id]; !ok {
			continue
		}
		c := m.curves[id]
		j := i + c.DOFCount()
		if j > len(dofs) {
			return fmt.Errorf("%w: dof vector of length %d too short for curves %v", ErrInvariant, len(dofs), subset)
		}
		if err := c.SetAllDOFs(dofs[i:j]); err != nil {
			return err
		}
		i = j
	}
	if i != len(dofs) {
		return fmt.Errorf("%w: dof vector of length %d does not match curves %v (consumed %d)", ErrInvariant, len(dofs), subset, i)
	}
	return nil
}

// Clone deep-copies the map and every curve in it.
func (m *CurveMap) Clone() *CurveMap {
	out := NewCurveMap()
	for _, id := range m.order {
		out.Add(m.curves[id].Clone())
	}
	return out
}

func subsetSet(subset []string) map[string]struct{} {
	in := make(map[string]struct{}, len(subset))
	for _, id := range subset {
		in[id] = struct{}{}
	}
	return in
}
