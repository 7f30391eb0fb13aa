package analytics

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// dailySeries builds consecutive daily points starting at 2024-01-01.
func dailySeries(t *testing.T, values ...float64) Series {
	t.Helper()
	start := day("2024-01-01")
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Date: start.AddDate(0, 0, i), Value: v}
	}
	s, err := NewSeries(points)
	require.NoError(t, err)
	return s
}

func TestNewSeriesSortsByDate(t *testing.T) {
	s, err := NewSeries([]Point{
		{Date: day("2024-03-01"), Value: 3},
		{Date: day("2024-01-01"), Value: 1},
		{Date: day("2024-02-01"), Value: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, s.Values())
	assert.Equal(t, day("2024-03-01"), s.LastDate())
}

func TestNewSeriesRejectsDuplicateDates(t *testing.T) {
	_, err := NewSeries([]Point{
		{Date: day("2024-01-01"), Value: 1},
		{Date: day("2024-01-01"), Value: 2},
	})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestNewSeriesRejectsNonFinite(t *testing.T) {
	_, err := NewSeries([]Point{{Date: day("2024-01-01"), Value: math.Inf(1)}})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestNewSeriesDoesNotAliasInput(t *testing.T) {
	points := []Point{{Date: day("2024-01-02"), Value: 2}, {Date: day("2024-01-01"), Value: 1}}
	_, err := NewSeries(points)
	require.NoError(t, err)
	assert.Equal(t, 2.0, points[0].Value)
}

func TestNullFloatJSON(t *testing.T) {
	values := []NullFloat{Null(), Float(1.5), Float(math.NaN()), Float(0)}

	data, err := json.Marshal(values)
	require.NoError(t, err)
	assert.JSONEq(t, `[null, 1.5, null, 0]`, string(data))

	var decoded []NullFloat
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []NullFloat{Null(), Float(1.5), Null(), Float(0)}, decoded)
}

func TestNullFloatPtr(t *testing.T) {
	assert.Nil(t, Null().Ptr())
	require.NotNil(t, Float(2).Ptr())
	assert.Equal(t, 2.0, *Float(2).Ptr())
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(newError(KindEmptyInventory, "x"))
	assert.True(t, ok)
	assert.Equal(t, KindEmptyInventory, kind)

	_, ok = KindOf(assert.AnError)
	assert.False(t, ok)
}
