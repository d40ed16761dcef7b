/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package estimator

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"foresight/ml-prediction-service/pkg/dto/ml_model"
)

// Estimator is the trainable capability behind a prediction model. The
// registry owns one per trained model; nothing outside the registry and
// the trainer ever touches it.
type Estimator interface {
	Fit(samples []ml_model.TrainingSample) error
	// Predict returns one value for scalar estimators and a probability
	// vector for classifiers.
	Predict(features []float64) ([]float64, error)
	// Evaluate returns a loss: mean absolute error for scalar output,
	// disagreement rate for classifiers.
	Evaluate(samples []ml_model.TrainingSample) (float64, error)
	Save(filePath string) error
	Load(filePath string) error
}

const (
	defaultEpochs       = 50
	defaultLearningRate = 0.01
	defaultHiddenUnits  = 8
)

// NewEstimator builds the estimator variant for a model family: a
// Recurrent unit for timeseries, a Sequential dense net otherwise.
func NewEstimator(family ml_model.ModelFamily, cfg ml_model.ModelConfig) (Estimator, error) {
	switch family {
	case ml_model.FamilyTimeseries:
		return NewRecurrent(cfg), nil
	case ml_model.FamilyRegression:
		return NewSequential(cfg, 1), nil
	case ml_model.FamilyClassification:
		if len(cfg.Classes) == 0 {
			return nil, errors.New("classification estimator requires class ranges")
		}
		return NewSequential(cfg, len(cfg.Classes)), nil
	default:
		return nil, fmt.Errorf("unknown model family %s", family)
	}
}

func hyperOrDefaults(hyper ml_model.HyperParameters) (epochs int, learningRate float64, hiddenUnits int) {
	epochs = hyper.Epochs
	if epochs <= 0 {
		epochs = defaultEpochs
	}
	learningRate = hyper.LearningRate
	if learningRate <= 0 {
		learningRate = defaultLearningRate
	}
	hiddenUnits = hyper.HiddenUnits
	if hiddenUnits <= 0 {
		hiddenUnits = defaultHiddenUnits
	}
	return
}

func saveWeights(filePath string, weights interface{}) error {
	payload, err := json.Marshal(weights)
	if err != nil {
		return errors.Wrap(err, "marshalling estimator weights")
	}
	if err = os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return errors.Wrapf(err, "creating model directory for %s", filePath)
	}
	if err = os.WriteFile(filePath, payload, 0o644); err != nil {
		return errors.Wrapf(err, "writing estimator weights to %s", filePath)
	}
	return nil
}

func loadWeights(filePath string, weights interface{}) error {
	payload, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "reading estimator weights from %s", filePath)
	}
	if err = json.Unmarshal(payload, weights); err != nil {
		return errors.Wrapf(err, "parsing estimator weights from %s", filePath)
	}
	return nil
}

// scaler holds per-dimension normalization parameters learned during Fit.
type scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func fitScaler(samples []ml_model.TrainingSample) scaler {
	n := len(samples[0].Features)
	sc := scaler{Mean: make([]float64, n), Std: make([]float64, n)}
	for _, s := range samples {
		for i, v := range s.Features {
			sc.Mean[i] += v
		}
	}
	for i := range sc.Mean {
		sc.Mean[i] /= float64(len(samples))
	}
	for _, s := range samples {
		for i, v := range s.Features {
			d := v - sc.Mean[i]
			sc.Std[i] += d * d
		}
	}
	for i := range sc.Std {
		sc.Std[i] = math.Sqrt(sc.Std[i] / float64(len(samples)))
		if sc.Std[i] == 0 {
			sc.Std[i] = 1
		}
	}
	return sc
}

func (sc scaler) transform(features []float64) []float64 {
	scaled := make([]float64, len(features))
	for i, v := range features {
		scaled[i] = (v - sc.Mean[i]) / sc.Std[i]
	}
	return scaled
}

func randomWeights(rows, cols int, rng *rand.Rand) [][]float64 {
	scale := 1.0 / math.Sqrt(float64(cols))
	weights := make([][]float64, rows)
	for i := range weights {
		weights[i] = make([]float64, cols)
		for j := range weights[i] {
			weights[i][j] = (rng.Float64()*2 - 1) * scale
		}
	}
	return weights
}
