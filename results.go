package contains

// Results is an ordered sequence of containment results, one per input point.
type Results struct {
	values []bool
}

// NewResults returns an empty `Results` instance with room for 'capacity' values.
func NewResults(capacity int) *Results {

	r := &Results{
		values: make([]bool, 0, capacity),
	}

	return r
}

func (r *Results) Append(v bool) {
	r.values = append(r.values, v)
}

func (r *Results) Len() int {
	return len(r.values)
}

// Values returns a copy of the results in point order.
func (r *Results) Values() []bool {

	values := make([]bool, len(r.values))
	copy(values, r.values)

	return values
}

// Count returns the number of points that were contained by at least one geometry.
func (r *Results) Count() int {

	count := 0

	for _, v := range r.values {
		if v {
			count += 1
		}
	}

	return count
}

// Equal reports whether 'r' and 'other' hold the same values in the same order.
func (r *Results) Equal(other *Results) bool {

	if r.Len() != other.Len() {
		return false
	}

	for i, v := range r.values {
		if other.values[i] != v {
			return false
		}
	}

	return true
}
