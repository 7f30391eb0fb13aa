package analytics

import (
	"errors"
	"time"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics/arima"
)

const (
	// ForecastSpacingDays is the fixed distance between projected dates,
	// independent of the spacing of the input.
	ForecastSpacingDays = 30

	// MinForecastObservations is the shortest history Forecast accepts.
	MinForecastObservations = 3
)

// ForecastOrder is the model fitted by Forecast.
var ForecastOrder = arima.Order{P: 1, D: 1, Q: 1}

// ForecastPoint is one projected value.
type ForecastPoint struct {
	Date  time.Time
	Value float64
}

// ModelSummary describes the fitted ARIMA(1,1,1) model.
type ModelSummary struct {
	Order  arima.Order `json:"order"`
	Phi    float64     `json:"phi"`
	Theta  float64     `json:"theta"`
	Sigma2 float64     `json:"sigma2"`
	SSE    float64     `json:"sse"`
	AIC    NullFloat   `json:"aic"`
	NObs   int         `json:"n_obs"`
}

// ForecastResult holds horizon projected points in date order.
type ForecastResult struct {
	Points []ForecastPoint
	Model  ModelSummary
}

// Dates returns the projected dates.
func (r *ForecastResult) Dates() []time.Time {
	dates := make([]time.Time, len(r.Points))
	for i, p := range r.Points {
		dates[i] = p.Date
	}
	return dates
}

// Values returns the projected values.
func (r *ForecastResult) Values() []float64 {
	values := make([]float64, len(r.Points))
	for i, p := range r.Points {
		values[i] = p.Value
	}
	return values
}

// Forecast fits ARIMA(1,1,1) by conditional least squares and projects
// horizon points spaced ForecastSpacingDays apart from the last observation.
func Forecast(series Series, horizon int) (*ForecastResult, error) {
	if horizon < 1 {
		return nil, newError(KindInvalidParameter, "horizon must be positive, got %d", horizon)
	}
	if series.Len() < MinForecastObservations {
		return nil, newError(KindInsufficientData, "forecast needs at least %d observations, got %d", MinForecastObservations, series.Len())
	}

	model := arima.New(ForecastOrder.P, ForecastOrder.D, ForecastOrder.Q)
	if err := model.Fit(series.Values()); err != nil {
		return nil, fitError(err)
	}

	values, err := model.Predict(horizon)
	if err != nil {
		return nil, fitError(err)
	}

	last := series.LastDate()
	points := make([]ForecastPoint, horizon)
	for i, v := range values {
		points[i] = ForecastPoint{
			Date:  last.AddDate(0, 0, ForecastSpacingDays*(i+1)),
			Value: v,
		}
	}

	return &ForecastResult{
		Points: points,
		Model: ModelSummary{
			Order:  model.Order,
			Phi:    model.ARCoeffs[0],
			Theta:  model.MACoeffs[0],
			Sigma2: model.Sigma2,
			SSE:    model.SSE,
			AIC:    Float(model.AIC),
			NObs:   model.NObs(),
		},
	}, nil
}

func fitError(err error) error {
	switch {
	case errors.Is(err, arima.ErrInsufficientData):
		return newError(KindInsufficientData, "%v", err)
	case errors.Is(err, arima.ErrDegenerateSeries):
		return newError(KindNonConvergence, "cannot estimate a flat series: %v", err)
	default:
		return newError(KindNonConvergence, "%v", err)
	}
}
