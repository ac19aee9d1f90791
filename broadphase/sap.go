package broadphase

import "sort"

// NumAxes is the number of sweep axes; the broad phase always prunes on all
// three world axes.
const NumAxes = 3

// Pair is an unordered candidate pair with A < B.
type Pair struct {
	A, B uint64
}

func makePair(a, b uint64) Pair {
	if a > b {
		a, b = b, a
	}

	return Pair{A: a, B: b}
}

type endpoint struct {
	value float64
	id    uint64
	isMax bool
}

// SAP is a sweep-and-prune broad phase over registered interval boxes.
// It is owned by a single collision context and is not safe for concurrent
// use, matching the single-writer model of the rest of the toolkit.
type SAP struct {
	bounds    map[uint64][NumAxes][2]float64
	endpoints [NumAxes][]endpoint
	sizeHint  int
}

// New returns an empty broad phase. sizeHint pre-sizes the list of active
// intervals kept during sweeps; zero or negative picks a small default.
func New(sizeHint int) *SAP {
	if sizeHint <= 0 {
		sizeHint = 64
	}

	return &SAP{
		bounds:   make(map[uint64][NumAxes][2]float64),
		sizeHint: sizeHint,
	}
}

// Len reports the number of registered boxes.
func (s *SAP) Len() int { return len(s.bounds) }

// Add registers a box under id with the given per-axis [min,max] intervals.
func (s *SAP) Add(id uint64, intervals [NumAxes][2]float64) error {
	if _, exists := s.bounds[id]; exists {
		return ErrDuplicateID
	}
	s.bounds[id] = intervals
	for axis := 0; axis < NumAxes; axis++ {
		s.endpoints[axis] = append(s.endpoints[axis],
			endpoint{value: intervals[axis][0], id: id, isMax: false},
			endpoint{value: intervals[axis][1], id: id, isMax: true},
		)
		repairAxis(s.endpoints[axis])
	}

	return nil
}

// Update re-reads id's intervals. Endpoint lists stay nearly sorted under
// coherent motion, so the repair is close to linear.
func (s *SAP) Update(id uint64, intervals [NumAxes][2]float64) error {
	if _, exists := s.bounds[id]; !exists {
		return ErrUnknownID
	}
	s.bounds[id] = intervals
	for axis := 0; axis < NumAxes; axis++ {
		eps := s.endpoints[axis]
		for i := range eps {
			if eps[i].id != id {
				continue
			}
			if eps[i].isMax {
				eps[i].value = intervals[axis][1]
			} else {
				eps[i].value = intervals[axis][0]
			}
		}
		repairAxis(eps)
	}

	return nil
}

// Remove drops id from every axis list.
func (s *SAP) Remove(id uint64) error {
	if _, exists := s.bounds[id]; !exists {
		return ErrUnknownID
	}
	delete(s.bounds, id)
	for axis := 0; axis < NumAxes; axis++ {
		eps := s.endpoints[axis][:0]
		for _, e := range s.endpoints[axis] {
			if e.id != id {
				eps = append(eps, e)
			}
		}
		s.endpoints[axis] = eps
	}

	return nil
}

// Pairs sweeps the first axis and reports every pair overlapping on all
// axes. Returning false from fn stops the sweep early. Each pair is
// reported once, with A < B.
func (s *SAP) Pairs(fn func(a, b uint64) bool) {
	active := make([]uint64, 0, s.sizeHint)
	for _, e := range s.endpoints[0] {
		if e.isMax {
			for i, id := range active {
				if id == e.id {
					active = append(active[:i], active[i+1:]...)
					break
				}
			}
			continue
		}
		for _, other := range active {
			if s.overlapAllAxes(e.id, other) {
				p := makePair(e.id, other)
				if !fn(p.A, p.B) {
					return
				}
			}
		}
		active = append(active, e.id)
	}
}

// overlapAllAxes rechecks axes 1..n from the bounds map; the sweep already
// established overlap on axis 0.
func (s *SAP) overlapAllAxes(a, b uint64) bool {
	ba, bb := s.bounds[a], s.bounds[b]
	for axis := 1; axis < NumAxes; axis++ {
		if ba[axis][1] < bb[axis][0] || bb[axis][1] < ba[axis][0] {
			return false
		}
	}

	return true
}

// repairAxis restores sorted order. Endpoint lists are nearly sorted after
// an update, where insertion repair is O(n); a fresh Add may land anywhere,
// which insertion handles too, just with a longer shift.
func repairAxis(eps []endpoint) {
	if !sort.SliceIsSorted(eps, func(i, j int) bool { return less(eps[i], eps[j]) }) {
		insertionSort(eps)
	}
}

// less orders endpoints by value, breaking ties min-before-max so touching
// intervals count as overlapping.
func less(a, b endpoint) bool {
	if a.value != b.value {
		return a.value < b.value
	}

	return !a.isMax && b.isMax
}

func insertionSort(eps []endpoint) {
	for i := 1; i < len(eps); i++ {
		e := eps[i]
		j := i - 1
		for j >= 0 && less(e, eps[j]) {
			eps[j+1] = eps[j]
			j--
		}
		eps[j+1] = e
	}
}
