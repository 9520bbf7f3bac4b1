package ml

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centres each feature on its mean and divides by its
// population standard deviation. Constant features get a scale of 1.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler learns per-column mean and scale from rows.
func FitScaler(rows [][]float64) (StandardScaler, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return StandardScaler{}, errors.New("scaler: no data")
	}

	width := len(rows[0])
	s := StandardScaler{Mean: make([]float64, width), Scale: make([]float64, width)}
	col := make([]float64, len(rows))
	for j := 0; j < width; j++ {
		for i, r := range rows {
			col[i] = r[j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		s.Mean[j] = mean
		s.Scale[j] = math.Sqrt(variance)
		if s.Scale[j] == 0 || math.IsNaN(s.Scale[j]) {
			s.Scale[j] = 1
		}
	}
	return s, nil
}

// Width is the number of features the scaler was fitted on.
func (s StandardScaler) Width() int { return len(s.Mean) }

// Transform returns a standardized copy of rows.
func (s StandardScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = make([]float64, len(r))
		for j, v := range r {
			out[i][j] = (v - s.Mean[j]) / s.Scale[j]
		}
	}
	return out
}
