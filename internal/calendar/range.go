package calendar

// Range is an inclusive span of calendar days. A nil bound is open.
type Range struct {
	Start *Day
	End   *Day
}

// Open reports whether neither bound is set.
func (r Range) Open() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether d lies within the range, bounds included.
func (r Range) Contains(d Day) bool {
	if r.Start != nil && d.Before(*r.Start) {
		return false
	}
	if r.End != nil && d.After(*r.End) {
		return false
	}
	return true
}

// ParseRange builds a range from two optional "YYYY-MM-DD" strings. Empty or
// unreadable bounds are left open.
func ParseRange(from, to string) Range {
	var r Range
	if d, ok := ParseDay(from); ok {
		r.Start = &d
	}
	if d, ok := ParseDay(to); ok {
		r.End = &d
	}
	return r
}
