package arima

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// geometricIncrements builds a series whose first differences halve each step,
// i.e. an exact ARIMA(1,1,0) path with phi = 0.5.
func geometricIncrements(start, firstStep float64, n int) []float64 {
	values := make([]float64, n)
	values[0] = start
	step := firstStep
	for i := 1; i < n; i++ {
		values[i] = values[i-1] + step
		step *= 0.5
	}
	return values
}

func TestNewARIMA(t *testing.T) {
	model := New(1, 1, 1)

	assert.Equal(t, Order{P: 1, D: 1, Q: 1}, model.Order)
	assert.Len(t, model.ARCoeffs, 1)
	assert.Len(t, model.MACoeffs, 1)
	assert.Equal(t, 3, model.Order.MinObservations())
}

func TestFitInsufficientData(t *testing.T) {
	model := New(1, 1, 1)

	err := model.Fit([]float64{10, 12})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFitDegenerateSeries(t *testing.T) {
	model := New(1, 1, 1)

	err := model.Fit([]float64{5, 5, 5, 5, 5})
	assert.ErrorIs(t, err, ErrDegenerateSeries)
}

func TestFitRejectsNonFinite(t *testing.T) {
	model := New(1, 1, 1)

	err := model.Fit([]float64{1, math.NaN(), 3, 4})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestFitRecoversARCoefficient(t *testing.T) {
	values := geometricIncrements(100, 16, 12)
	model := New(1, 1, 1)

	require.NoError(t, model.Fit(values))

	assert.InDelta(t, 0.5, model.ARCoeffs[0], 0.05)
	assert.InDelta(t, 0.0, model.SSE, 1e-3)
	assert.Equal(t, len(values), model.NObs())
	assert.Len(t, model.Residuals(), len(values)-1)

	fitted := model.FittedValues()
	require.Len(t, fitted, len(values)-2)
	for i, v := range fitted {
		assert.InDelta(t, values[i+2], v, 0.05)
	}
}

func TestPredictContinuesProcess(t *testing.T) {
	values := geometricIncrements(100, 16, 12)
	model := New(1, 1, 0)
	require.NoError(t, model.Fit(values))

	forecasts, err := model.Predict(3)
	require.NoError(t, err)
	require.Len(t, forecasts, 3)

	last := values[len(values)-1]
	lastStep := values[len(values)-1] - values[len(values)-2]
	expected := last + lastStep*0.5
	assert.InDelta(t, expected, forecasts[0], 0.01)
	assert.InDelta(t, expected+lastStep*0.25, forecasts[1], 0.01)
}

func TestPredictMinimalSeries(t *testing.T) {
	model := New(1, 1, 1)
	require.NoError(t, model.Fit([]float64{100, 110, 125}))

	forecasts, err := model.Predict(12)
	require.NoError(t, err)
	require.Len(t, forecasts, 12)
	for _, f := range forecasts {
		assert.False(t, math.IsNaN(f) || math.IsInf(f, 0))
	}
	assert.LessOrEqual(t, math.Abs(model.ARCoeffs[0]), coeffBound)
	assert.LessOrEqual(t, math.Abs(model.MACoeffs[0]), coeffBound)

	// increments decay once phi is off the unit root
	assert.Less(t, math.Abs(forecasts[11]-forecasts[10]), math.Abs(forecasts[1]-forecasts[0]))
}

func TestBoundedStaysInsideUnitCircle(t *testing.T) {
	for _, x := range []float64{-1e6, -40, -19, 0, 19, 40, 1e6} {
		v := bounded(x)
		assert.Less(t, math.Abs(v), 1.0, "x=%v", x)
	}
	assert.InDelta(t, 0.5, bounded(math.Atanh(0.5/coeffBound)), 1e-12)
}

func TestFittedValuesBeforeFit(t *testing.T) {
	assert.Nil(t, New(1, 1, 1).FittedValues())
}

func TestPredictBeforeFit(t *testing.T) {
	_, err := New(1, 1, 1).Predict(3)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestPredictRejectsZeroSteps(t *testing.T) {
	model := New(1, 1, 1)
	require.NoError(t, model.Fit([]float64{1, 3, 2, 5, 4}))

	_, err := model.Predict(0)
	assert.Error(t, err)
}

func TestPredictIntegratesSecondDifference(t *testing.T) {
	// Quadratic growth: second differences are constant 2, so an AR(1)
	// on the twice-differenced series settles near phi = 1.
	values := []float64{0, 1, 4, 9, 16, 25, 36, 49}
	model := New(1, 2, 0)
	require.NoError(t, model.Fit(values))

	forecasts, err := model.Predict(1)
	require.NoError(t, err)
	assert.InDelta(t, 64, forecasts[0], 0.5)
}
