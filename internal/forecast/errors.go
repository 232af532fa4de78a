package forecast

import "errors"

// Failure kinds returned by Forecast. Use errors.Is to classify a *FitError.
var (
	ErrInvalidHorizon    = errors.New("horizon must not be negative")
	ErrInsufficientData  = errors.New("at least two observations are required")
	ErrNonFinitePrices   = errors.New("prices must be finite numbers")
	ErrFitDidNotConverge = errors.New("model fit did not converge")
)

// FitError is the typed failure of a forecast computation.
type FitError struct {
	Kind   error
	Detail string
}

func (e *FitError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *FitError) Unwrap() error { return e.Kind }

func fail(kind error, detail string) *FitError {
	return &FitError{Kind: kind, Detail: detail}
}
