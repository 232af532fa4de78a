package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Holt is a fitted additive-trend exponential smoothing model.
type Holt struct {
	Alpha float64 // level smoothing, in [0, 1]
	Beta  float64 // trend smoothing, in [0, 1]
	Level float64 // level after the last observation
	Trend float64 // trend after the last observation
	SSE   float64 // sum of squared one-step-ahead errors
}

const (
	startAlpha = 0.5
	startBeta  = 0.1
)

// smooth runs the Holt recursions over y with the given parameters.
// The initial state is level = y[0], trend = y[1] - y[0]; len(y) must be >= 2.
func smooth(y []float64, alpha, beta float64) (level, trend, sse float64) {
	level = y[0]
	trend = y[1] - y[0]
	for t := 1; t < len(y); t++ {
		e := y[t] - (level + trend)
		sse += e * e
		prev := level
		level = alpha*y[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prev) + (1-beta)*trend
	}
	return level, trend, sse
}

func logistic(u float64) float64 { return 1 / (1 + math.Exp(-u)) }

func logit(p float64) float64 { return math.Log(p / (1 - p)) }

// FitHolt selects alpha and beta by minimising the one-step-ahead squared
// error with Nelder-Mead. Parameters are searched in logit space so every
// candidate stays inside (0, 1).
func FitHolt(y []float64) (*Holt, error) {
	if len(y) < 2 {
		return nil, fail(ErrInsufficientData, fmt.Sprintf("got %d", len(y)))
	}
	if floats.HasNaN(y) {
		return nil, fail(ErrNonFinitePrices, "NaN price")
	}
	for i, v := range y {
		if math.IsInf(v, 0) {
			return nil, fail(ErrNonFinitePrices, fmt.Sprintf("infinite price at index %d", i))
		}
	}

	n := float64(len(y) - 1)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			_, _, sse := smooth(y, logistic(x[0]), logistic(x[1]))
			return sse / n
		},
	}
	x0 := []float64{logit(startAlpha), logit(startBeta)}
	if v := problem.Func(x0); math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fail(ErrFitDidNotConverge, "objective is not finite at the start point")
	}

	settings := &optimize.Settings{
		MajorIterations: 2000,
		FuncEvaluations: 10000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-10,
			Iterations: 50,
		},
	}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{SimplexSize: 0.5})
	if err != nil {
		return nil, fail(ErrFitDidNotConverge, err.Error())
	}
	if result == nil || len(result.X) != 2 {
		return nil, fail(ErrFitDidNotConverge, "optimizer returned no location")
	}

	h := &Holt{Alpha: logistic(result.X[0]), Beta: logistic(result.X[1])}
	h.Level, h.Trend, h.SSE = smooth(y, h.Alpha, h.Beta)
	if !isFinite(h.Level) || !isFinite(h.Trend) || !isFinite(h.SSE) {
		return nil, fail(ErrFitDidNotConverge, "fitted state is not finite")
	}
	return h, nil
}

// Predict returns the h-step-ahead forecasts level + k*trend for k = 1..steps.
func (h *Holt) Predict(steps int) []float64 {
	if steps <= 0 {
		return []float64{}
	}
	out := make([]float64, steps)
	for k := range out {
		out[k] = h.Level + float64(k+1)*h.Trend
	}
	return out
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
