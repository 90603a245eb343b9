package value

import "sort"

// TimeSamples is a time-indexed series of values. Times and Values run in
// parallel; a sample whose value holds Block represents an authored None.
type TimeSamples struct {
	Times  []float64
	Values []Value
}

// Len returns the number of samples.
func (ts TimeSamples) Len() int { return len(ts.Times) }

// Empty reports whether the series has no samples.
func (ts TimeSamples) Empty() bool { return len(ts.Times) == 0 }

// Add appends a sample. Callers append in time order; Get assumes the
// times are ascending and does not sort the series.
func (ts *TimeSamples) Add(t float64, v Value) {
	ts.Times = append(ts.Times, t)
	ts.Values = append(ts.Values, v)
}

// Get returns the value at time t using held (nearest-previous)
// interpolation. Blocked samples yield (zero Value, false). Lookups outside
// the sampled range clamp to the first or last sample.
func (ts TimeSamples) Get(t float64) (Value, bool) {
	if ts.Empty() || len(ts.Times) != len(ts.Values) {
		return Value{}, false
	}

	idx := sort.SearchFloat64s(ts.Times, t)
	if idx >= len(ts.Times) {
		idx = len(ts.Times) - 1
	} else if ts.Times[idx] > t && idx > 0 {
		idx--
	}

	v := ts.Values[idx]
	if _, blocked := As[Block](v); blocked {
		return Value{}, false
	}
	return v, true
}
