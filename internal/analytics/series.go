// Package analytics holds the retail forecasting and inventory computations.
// Every function here is pure: no I/O, no shared state.
package analytics

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"time"
)

// DateLayout is the calendar date format used at the boundary.
const DateLayout = "2006-01-02"

// Point is a single dated observation.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is a date-ordered sequence of points with unique dates.
type Series struct {
	points []Point
}

// NewSeries validates and orders points by date ascending. Input order is
// not trusted; equal dates are rejected rather than merged.
func NewSeries(points []Point) (Series, error) {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for i, p := range sorted {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return Series{}, newError(KindInvalidParameter, "value on %s is not finite", p.Date.Format(DateLayout))
		}
		if i > 0 && sorted[i-1].Date.Equal(p.Date) {
			return Series{}, newError(KindInvalidParameter, "duplicate date %s", p.Date.Format(DateLayout))
		}
	}

	return Series{points: sorted}, nil
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.points)
}

// Points returns a copy of the ordered observations.
func (s Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Values returns the observation values in date order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.points))
	for i, p := range s.points {
		values[i] = p.Value
	}
	return values
}

// Dates returns the observation dates in order.
func (s Series) Dates() []time.Time {
	dates := make([]time.Time, len(s.points))
	for i, p := range s.points {
		dates[i] = p.Date
	}
	return dates
}

// LastDate returns the most recent observation date.
func (s Series) LastDate() time.Time {
	if len(s.points) == 0 {
		return time.Time{}
	}
	return s.points[len(s.points)-1].Date
}

// NullFloat is a number that may be undefined. Undefined values marshal
// to JSON null, never to 0.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a defined NullFloat, or an undefined one when v is not finite.
func Float(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Float64: v, Valid: true}
}

// Null is the undefined marker.
func Null() NullFloat {
	return NullFloat{}
}

// Ptr returns nil for undefined values.
func (n NullFloat) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NullFloat{Float64: v, Valid: true}
	return nil
}
