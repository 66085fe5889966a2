package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a money value. The API is loose about numeric fields, so numbers
// and numeric strings decode as-is and anything else decodes as zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount(looseFloat(data))
	return nil
}

// Float returns the amount as float64 with NaN and infinities flattened to zero.
func (a Amount) Float() float64 {
	return finite(float64(a))
}

// Count is a non-negative integer that also accepts a JSON array, in which
// case it holds the array length. Event attendees arrive either way.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	*c = 0

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		*c = Count(len(list))
		return nil
	}

	if f := looseFloat(data); f > 0 {
		*c = Count(f)
	}
	return nil
}

func (c Count) Int() int {
	if c < 0 {
		return 0
	}
	return int(c)
}

func looseFloat(data []byte) float64 {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0
	}

	switch v := raw.(type) {
	case float64:
		return finite(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return finite(f)
	default:
		return 0
	}
}

// looseString accepts a JSON string or number and returns it as text.
func looseString(data []byte) string {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ""
	}

	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
