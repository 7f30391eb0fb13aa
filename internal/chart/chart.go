// Package chart renders forecast and trend line charts as PNG.
package chart

import (
	"strconv"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics"
	"github.com/pkg/errors"
	charts "github.com/vicanso/go-charts/v2"
)

const (
	width  = 1000
	height = 600
)

// RenderForecast draws the observed history followed by the projection. The
// projection line starts at the last observation so the two lines join.
func RenderForecast(title string, history analytics.Series, forecast *analytics.ForecastResult) ([]byte, error) {
	if history.Len() == 0 || forecast == nil || len(forecast.Points) == 0 {
		return nil, errors.New("nothing to plot")
	}

	n := history.Len()
	total := n + len(forecast.Points)
	labels := make([]string, 0, total)
	observed := make([]float64, total)
	projected := make([]float64, total)

	for i, p := range history.Points() {
		labels = append(labels, p.Date.Format(analytics.DateLayout))
		observed[i] = p.Value
		projected[i] = charts.GetNullValue()
	}
	projected[n-1] = observed[n-1]
	for i, p := range forecast.Points {
		labels = append(labels, p.Date.Format(analytics.DateLayout))
		observed[n+i] = charts.GetNullValue()
		projected[n+i] = p.Value
	}

	return render(title, labels, []string{"sales", "forecast"}, [][]float64{observed, projected})
}

// RenderTrend draws sales with both moving averages. Undefined averages are
// left as gaps.
func RenderTrend(title string, trend *analytics.TrendResult) ([]byte, error) {
	if trend == nil || len(trend.Points) == 0 {
		return nil, errors.New("nothing to plot")
	}

	n := len(trend.Points)
	labels := make([]string, n)
	sales := make([]float64, n)
	short := make([]float64, n)
	long := make([]float64, n)
	for i, p := range trend.Points {
		labels[i] = p.Date.Format(analytics.DateLayout)
		sales[i] = p.Observed
		short[i] = valueOrGap(p.ShortMA)
		long[i] = valueOrGap(p.LongMA)
	}

	names := []string{
		"sales",
		"ma " + strconv.Itoa(trend.ShortWindow),
		"ma " + strconv.Itoa(trend.LongWindow),
	}
	return render(title, labels, names, [][]float64{sales, short, long})
}

func render(title string, labels, names []string, values [][]float64) ([]byte, error) {
	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: splitNumber(len(labels)),
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: names,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render chart")
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate chart bytes")
	}
	return buf, nil
}

func valueOrGap(v analytics.NullFloat) float64 {
	if !v.Valid {
		return charts.GetNullValue()
	}
	return v.Float64
}

func splitNumber(n int) int {
	if n > 30 {
		return 6
	}
	split := n / 3
	if split < 3 {
		split = 3
	}
	return split
}
