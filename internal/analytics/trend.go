package analytics

import "time"

// Default trailing windows for the trend averages.
const (
	DefaultShortWindow = 7
	DefaultLongWindow  = 30
)

// TrendOptions configures AnalyzeTrend. Zero values fall back to 7 and 30.
type TrendOptions struct {
	ShortWindow int
	LongWindow  int
}

// TrendPoint is one row of a trend analysis.
type TrendPoint struct {
	Date     time.Time
	Observed float64
	ShortMA  NullFloat
	LongMA   NullFloat
	Growth   NullFloat // percent change from the previous observation
}

// TrendResult has one point per input observation, in date order.
type TrendResult struct {
	ShortWindow int
	LongWindow  int
	Points      []TrendPoint
}

// AnalyzeTrend computes trailing moving averages and period-over-period
// growth. Growth after a zero observation is undefined rather than infinite.
func AnalyzeTrend(series Series, opts TrendOptions) (*TrendResult, error) {
	short, long := opts.ShortWindow, opts.LongWindow
	if short == 0 {
		short = DefaultShortWindow
	}
	if long == 0 {
		long = DefaultLongWindow
	}
	if short < 1 || long < 1 {
		return nil, newError(KindInvalidParameter, "moving average windows must be positive, got %d and %d", short, long)
	}

	values := series.Values()
	shortMA := MovingAverage(values, short)
	longMA := MovingAverage(values, long)
	growth := PercentChange(values)

	points := make([]TrendPoint, len(values))
	for i, p := range series.points {
		points[i] = TrendPoint{
			Date:     p.Date,
			Observed: p.Value,
			ShortMA:  shortMA[i],
			LongMA:   longMA[i],
			Growth:   growth[i],
		}
	}

	return &TrendResult{ShortWindow: short, LongWindow: long, Points: points}, nil
}

// MovingAverage returns the trailing mean over window values ending at each
// index. The first window-1 entries are undefined.
func MovingAverage(values []float64, window int) []NullFloat {
	out := make([]NullFloat, len(values))
	if window < 1 {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		for _, v := range values[i-window+1 : i+1] {
			sum += v
		}
		out[i] = Float(sum / float64(window))
	}
	return out
}

// PercentChange returns 100*(v[i]-v[i-1])/v[i-1]; undefined at index 0
// and wherever the previous value is zero.
func PercentChange(values []float64) []NullFloat {
	out := make([]NullFloat, len(values))
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		out[i] = Float(100 * (values[i] - prev) / prev)
	}
	return out
}
