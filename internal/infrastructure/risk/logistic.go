package risk

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogisticModel is a binary logistic classifier over scaled features.
type LogisticModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// PredictProba returns the probability of the high-risk class.
func (m *LogisticModel) PredictProba(features []float64) float64 {
	return sigmoid(floats.Dot(m.Weights, features) + m.Bias)
}

// FitLogistic runs full-batch gradient descent. Deterministic for a fixed
// input order.
func FitLogistic(samples [][]float64, labels []float64, epochs int, learningRate float64) *LogisticModel {
	dim := 0
	if len(samples) > 0 {
		dim = len(samples[0])
	}
	model := &LogisticModel{Weights: make([]float64, dim)}
	n := float64(len(samples))
	if n == 0 {
		return model
	}

	grad := make([]float64, dim)
	for epoch := 0; epoch < epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64
		for i, x := range samples {
			diff := model.PredictProba(x) - labels[i]
			for j := range x {
				grad[j] += diff * x[j]
			}
			gradBias += diff
		}
		for j := range model.Weights {
			model.Weights[j] -= learningRate * grad[j] / n
		}
		model.Bias -= learningRate * gradBias / n
	}
	return model
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
