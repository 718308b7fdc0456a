package risk

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// featureSpecs fixes the model feature layout and the synthetic training
// distributions. The distribution means double as the defaults for
// parameters missing from a report, so inference never feeds zeros.
type featureSpec struct {
	name  string
	mu    float64
	sigma float64
}

var featureSpecs = []featureSpec{
	{"Hemoglobin", 14.0, 2.0},
	{"WBC", 7.5, 2.0},
	{"RBC", 4.7, 0.5},
	{"Platelets", 300.0, 100.0},
	{"Glucose", 90.0, 20.0},
	{"Cholesterol", 180.0, 50.0},
	{"HDL", 50.0, 15.0},
	{"LDL", 100.0, 40.0},
	{"Triglycerides", 120.0, 60.0},
}

func FeatureOrder() []string {
	names := make([]string, len(featureSpecs))
	for i, spec := range featureSpecs {
		names[i] = spec.name
	}
	return names
}

func featureDefault(name string) (float64, bool) {
	for _, spec := range featureSpecs {
		if spec.name == name {
			return spec.mu, true
		}
	}
	return 0, false
}

type TrainConfig struct {
	Samples      int
	Seed         uint64
	TestFraction float64
	Epochs       int
	LearningRate float64
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Samples:      1000,
		Seed:         42,
		TestFraction: 0.2,
		Epochs:       400,
		LearningRate: 0.5,
	}
}

type TrainSummary struct {
	Samples        int
	TriggerCount   int
	PositiveLabels int
	Accuracy       float64
}

// Train draws synthetic blood panels from the fixed per-parameter normal
// distributions, labels the batch, fits the scaler on the training split and
// the classifier on the scaled split, and reports held-out accuracy.
//
// The label is deliberately batch-level: one shared label, set when more than
// two samples in the whole batch trigger any threshold rule, broadcast to
// every sample. This reproduces the reference behavior; with a fixed seed the
// fit is a degenerate single-class problem and converges to predicting that
// class.
func Train(cfg TrainConfig) (*Artifact, *TrainSummary, error) {
	def := DefaultTrainConfig()
	if cfg.Samples <= 0 {
		cfg.Samples = def.Samples
	}
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = def.TestFraction
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = def.Epochs
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = def.LearningRate
	}

	samples := drawSamples(cfg.Samples, cfg.Seed)

	triggerCount := 0
	for _, row := range samples {
		if sampleTriggers(row) {
			triggerCount++
		}
	}
	sharedLabel := 0.0
	if triggerCount > 2 {
		sharedLabel = 1.0
	}
	labels := make([]float64, len(samples))
	for i := range labels {
		labels[i] = sharedLabel
	}

	trainX, trainY, testX, testY := split(samples, labels, cfg.TestFraction, cfg.Seed)

	scaler := FitScaler(trainX)
	scaled := make([][]float64, len(trainX))
	for i, x := range trainX {
		scaled[i] = scaler.Transform(x)
	}
	model := FitLogistic(scaled, trainY, cfg.Epochs, cfg.LearningRate)

	evalX, evalY := testX, testY
	if len(evalX) == 0 {
		evalX, evalY = trainX, trainY
	}
	correct := 0
	for i, x := range evalX {
		predicted := 0.0
		if model.PredictProba(scaler.Transform(x)) >= 0.5 {
			predicted = 1.0
		}
		if predicted == evalY[i] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(evalX))

	artifact := &Artifact{
		FeatureOrder: FeatureOrder(),
		Model:        *model,
		Scaler:       *scaler,
		Trained:      true,
		TrainedAt:    time.Now().UTC(),
		Accuracy:     accuracy,
	}
	summary := &TrainSummary{
		Samples:        cfg.Samples,
		TriggerCount:   triggerCount,
		PositiveLabels: int(sharedLabel) * cfg.Samples,
		Accuracy:       accuracy,
	}
	return artifact, summary, nil
}

// drawSamples fills one column per feature from a shared seeded source, so a
// given (samples, seed) pair always produces the same panel matrix.
func drawSamples(n int, seed uint64) [][]float64 {
	src := rand.NewSource(seed)
	dim := len(featureSpecs)

	columns := make([][]float64, dim)
	for j, spec := range featureSpecs {
		dist := distuv.Normal{Mu: spec.mu, Sigma: spec.sigma, Src: src}
		column := make([]float64, n)
		for i := range column {
			column[i] = dist.Rand()
		}
		columns[j] = column
	}

	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, dim)
		for j := range columns {
			row[j] = columns[j][i]
		}
		rows[i] = row
	}
	return rows
}

// sampleTriggers applies the six threshold rules to one raw sample.
// Feature layout follows featureSpecs.
func sampleTriggers(row []float64) bool {
	hemoglobin := row[0]
	wbc := row[1]
	glucose := row[4]
	cholesterol := row[5]

	return hemoglobin < 12 || hemoglobin > 16 ||
		wbc < 4 || wbc > 11 ||
		glucose > 100 ||
		cholesterol > 200
}

func split(samples [][]float64, labels []float64, testFraction float64, seed uint64) (trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) {
	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(len(samples))

	testN := int(float64(len(samples)) * testFraction)
	for i, idx := range perm {
		if i < testN {
			testX = append(testX, samples[idx])
			testY = append(testY, labels[idx])
			continue
		}
		trainX = append(trainX, samples[idx])
		trainY = append(trainY, labels[idx])
	}
	return trainX, trainY, testX, testY
}
