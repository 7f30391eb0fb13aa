// Package arima fits ARIMA(p,d,q) models by conditional sum of squares.
package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientData = errors.New("insufficient observations for model order")
	ErrDegenerateSeries = errors.New("differenced series is identically zero")
	ErrNonFinite        = errors.New("estimation produced non-finite values")
	ErrNotFitted        = errors.New("model must be fitted before prediction")
)

const (
	maxIterations  = 500
	maxEvaluations = 4000

	// coeffBound keeps phi and theta off the unit circle even when the
	// optimiser drives the raw parameter far enough for tanh to round to 1.
	coeffBound = 0.99
)

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int `json:"p"` // AR order
	D int `json:"d"` // differencing order
	Q int `json:"q"` // MA order
}

// Model is an ARIMA model without a constant term.
type Model struct {
	Order    Order
	ARCoeffs []float64 // phi
	MACoeffs []float64 // theta
	SSE      float64
	Sigma2   float64 // residual variance
	AIC      float64

	fitted    bool
	levels    [][]float64 // levels[k] is the input differenced k times
	residuals []float64
}

// New creates an unfitted model with the given order.
func New(p, d, q int) *Model {
	return &Model{
		Order:    Order{P: p, D: d, Q: q},
		ARCoeffs: make([]float64, p),
		MACoeffs: make([]float64, q),
	}
}

// MinObservations is the smallest input length Fit accepts.
func (o Order) MinObservations() int {
	lags := o.P
	if o.Q > lags {
		lags = o.Q
	}
	return o.D + lags + 1
}

// Fit estimates the coefficients from values ordered oldest first.
func (m *Model) Fit(values []float64) error {
	if m.Order.P < 0 || m.Order.D < 0 || m.Order.Q < 0 {
		return fmt.Errorf("invalid order %+v", m.Order)
	}
	if len(values) < m.Order.MinObservations() {
		return fmt.Errorf("%w: need %d, got %d", ErrInsufficientData, m.Order.MinObservations(), len(values))
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFinite
		}
	}

	levels := make([][]float64, 0, m.Order.D+1)
	current := append([]float64(nil), values...)
	levels = append(levels, current)
	for i := 0; i < m.Order.D; i++ {
		current = diff(current)
		levels = append(levels, current)
	}
	w := levels[len(levels)-1]

	if sumSquares(w) == 0 {
		return ErrDegenerateSeries
	}

	p, q := m.Order.P, m.Order.Q
	if p+q == 0 {
		m.residuals = append([]float64(nil), w...)
		m.finish(levels, sumSquares(w), len(w))
		return nil
	}

	x0 := make([]float64, p+q)
	if p > 0 {
		x0[0] = math.Atanh(clamp(lag1Autocorrelation(w), -0.9, 0.9) / coeffBound)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			sse, _ := m.css(w, x)
			return sse
		},
	}
	settings := &optimize.Settings{
		MajorIterations: maxIterations,
		FuncEvaluations: maxEvaluations,
	}

	// Iteration limits surface as an error alongside a usable best point.
	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if result == nil {
		return fmt.Errorf("%w: %v", ErrNonFinite, err)
	}

	for i, v := range result.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFinite
		}
		if i < p {
			m.ARCoeffs[i] = bounded(v)
		} else {
			m.MACoeffs[i-p] = bounded(v)
		}
	}

	sse, count := m.css(w, result.X)
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return ErrNonFinite
	}
	m.finish(levels, sse, count)
	return nil
}

// css returns the conditional sum of squares for unconstrained params x and
// stores the residuals on the model. Coefficients map through bounded.
func (m *Model) css(w []float64, x []float64) (float64, int) {
	p, q := m.Order.P, m.Order.Q
	n := len(w)

	phi := make([]float64, p)
	for i := range phi {
		phi[i] = bounded(x[i])
	}
	theta := make([]float64, q)
	for i := range theta {
		theta[i] = bounded(x[p+i])
	}

	residuals := make([]float64, n)
	sse := 0.0
	count := 0
	for t := p; t < n; t++ {
		pred := 0.0
		for i := 0; i < p; i++ {
			pred += phi[i] * w[t-i-1]
		}
		for j := 0; j < q && t-j-1 >= 0; j++ {
			pred += theta[j] * residuals[t-j-1]
		}
		residuals[t] = w[t] - pred
		sse += residuals[t] * residuals[t]
		count++
	}

	m.residuals = residuals
	return sse, count
}

func (m *Model) finish(levels [][]float64, sse float64, count int) {
	m.levels = levels
	m.SSE = sse
	if count > 0 {
		m.Sigma2 = sse / float64(count)
	}

	k := float64(m.Order.P + m.Order.Q)
	if m.Sigma2 > 0 && count > 0 {
		m.AIC = float64(count)*math.Log(m.Sigma2) + 2*k
	} else {
		m.AIC = math.Inf(-1)
	}
	m.fitted = true
}

// Predict projects steps values ahead on the original scale. Future
// innovations are taken as zero.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	p, q := m.Order.P, m.Order.Q
	w := m.levels[len(m.levels)-1]
	n := len(w)

	extW := make([]float64, n+steps)
	copy(extW, w)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := 0.0
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.ARCoeffs[i] * extW[t-i-1]
		}
		for j := 0; j < q && t-j-1 >= 0 && t-j-1 < n; j++ {
			pred += m.MACoeffs[j] * m.residuals[t-j-1]
		}
		extW[t] = pred
	}

	forecasts := append([]float64(nil), extW[n:]...)
	for k := len(m.levels) - 2; k >= 0; k-- {
		level := m.levels[k]
		last := level[len(level)-1]
		for j := range forecasts {
			if j == 0 {
				forecasts[j] += last
			} else {
				forecasts[j] += forecasts[j-1]
			}
		}
	}

	for _, v := range forecasts {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
	}
	return forecasts, nil
}

// Residuals returns the in-sample residuals on the differenced scale.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.residuals...)
}

// FittedValues returns the one-step-ahead in-sample predictions on the
// original scale. The first D+P observations have no prediction, so the
// result is aligned with the last NObs()-D-P inputs.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	values := m.levels[0]
	skip := m.Order.D + m.Order.P
	if skip > len(values) {
		return []float64{}
	}

	fitted := make([]float64, 0, len(values)-skip)
	for t := skip; t < len(values); t++ {
		fitted = append(fitted, values[t]-m.residuals[t-m.Order.D])
	}
	return fitted
}

// NObs returns the number of observations the model was fitted on.
func (m *Model) NObs() int {
	if !m.fitted {
		return 0
	}
	return len(m.levels[0])
}

func diff(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

func sumSquares(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v * v
	}
	return s
}

func lag1Autocorrelation(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}
	mean := stat.Mean(values, nil)
	num, den := 0.0, 0.0
	for i, v := range values {
		d := v - mean
		den += d * d
		if i > 0 {
			num += d * (values[i-1] - mean)
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// bounded maps an unconstrained parameter into (-coeffBound, coeffBound).
func bounded(x float64) float64 {
	return coeffBound * math.Tanh(x)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
