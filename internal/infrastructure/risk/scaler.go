package risk

import "gonum.org/v1/gonum/stat"

// StandardScaler centers features to zero mean and unit variance using the
// statistics of the training split. Inference must apply the same transform.
type StandardScaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

func FitScaler(samples [][]float64) *StandardScaler {
	if len(samples) == 0 {
		return &StandardScaler{}
	}
	dim := len(samples[0])
	scaler := &StandardScaler{
		Means: make([]float64, dim),
		Stds:  make([]float64, dim),
	}
	column := make([]float64, len(samples))
	for j := 0; j < dim; j++ {
		for i, sample := range samples {
			column[i] = sample[j]
		}
		scaler.Means[j] = stat.Mean(column, nil)
		scaler.Stds[j] = stat.PopStdDev(column, nil)
		if scaler.Stds[j] == 0 {
			// Constant feature: leave it centered but unscaled.
			scaler.Stds[j] = 1
		}
	}
	return scaler
}

func (s *StandardScaler) Transform(features []float64) []float64 {
	out := make([]float64, len(features))
	for i := range features {
		out[i] = (features[i] - s.Means[i]) / s.Stds[i]
	}
	return out
}
