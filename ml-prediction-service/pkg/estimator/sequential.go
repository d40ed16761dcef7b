/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package estimator

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"foresight/ml-prediction-service/pkg/dto/ml_model"
)

// Sequential is a single-hidden-layer dense network trained by plain SGD.
// One scalar output for regression, a softmax probability vector for
// classification. Samples are visited in input order so a fit is
// reproducible for the same sample sequence.
type Sequential struct {
	hyper     ml_model.HyperParameters
	outputDim int
	weights   sequentialWeights
	fitted    bool
}

type sequentialWeights struct {
	InputDim    int         `json:"inputDim"`
	HiddenUnits int         `json:"hiddenUnits"`
	OutputDim   int         `json:"outputDim"`
	W1          [][]float64 `json:"w1"`
	B1          []float64   `json:"b1"`
	W2          [][]float64 `json:"w2"`
	B2          []float64   `json:"b2"`
	Features    scaler      `json:"featureScaler"`
	TargetMean  float64     `json:"targetMean"`
	TargetStd   float64     `json:"targetStd"`
}

func NewSequential(cfg ml_model.ModelConfig, outputDim int) *Sequential {
	seq := new(Sequential)
	seq.hyper = cfg.Hyper
	seq.outputDim = outputDim
	return seq
}

func (seq *Sequential) isClassifier() bool {
	return seq.outputDim > 1
}

func (seq *Sequential) Fit(samples []ml_model.TrainingSample) error {
	if len(samples) == 0 {
		return errors.New("no training samples")
	}
	epochs, learningRate, hiddenUnits := hyperOrDefaults(seq.hyper)
	inputDim := len(samples[0].Features)

	rng := rand.New(rand.NewSource(1))
	w := sequentialWeights{
		InputDim:    inputDim,
		HiddenUnits: hiddenUnits,
		OutputDim:   seq.outputDim,
		W1:          randomWeights(hiddenUnits, inputDim, rng),
		B1:          make([]float64, hiddenUnits),
		W2:          randomWeights(seq.outputDim, hiddenUnits, rng),
		B2:          make([]float64, seq.outputDim),
		Features:    fitScaler(samples),
		TargetStd:   1,
	}

	if !seq.isClassifier() {
		for _, s := range samples {
			w.TargetMean += s.Target
		}
		w.TargetMean /= float64(len(samples))
		for _, s := range samples {
			d := s.Target - w.TargetMean
			w.TargetStd += d * d
		}
		w.TargetStd = math.Sqrt(w.TargetStd / float64(len(samples)))
		if w.TargetStd == 0 {
			w.TargetStd = 1
		}
	}

	for epoch := 0; epoch < epochs; epoch++ {
		for _, s := range samples {
			x := w.Features.transform(s.Features)
			hidden, output := w.forward(x)

			// output-layer gradient
			outGrad := make([]float64, seq.outputDim)
			if seq.isClassifier() {
				probs := softmax(output)
				for k := range outGrad {
					outGrad[k] = probs[k]
				}
				target := int(s.Target)
				if target >= 0 && target < seq.outputDim {
					outGrad[target] -= 1
				}
			} else {
				outGrad[0] = output[0] - (s.Target-w.TargetMean)/w.TargetStd
			}

			// hidden-layer gradient through tanh
			hiddenGrad := make([]float64, w.HiddenUnits)
			for j := 0; j < w.HiddenUnits; j++ {
				var sum float64
				for k := 0; k < seq.outputDim; k++ {
					sum += outGrad[k] * w.W2[k][j]
				}
				hiddenGrad[j] = sum * (1 - hidden[j]*hidden[j])
			}

			for k := 0; k < seq.outputDim; k++ {
				for j := 0; j < w.HiddenUnits; j++ {
					w.W2[k][j] -= learningRate * outGrad[k] * hidden[j]
				}
				w.B2[k] -= learningRate * outGrad[k]
			}
			for j := 0; j < w.HiddenUnits; j++ {
				for i := 0; i < inputDim; i++ {
					w.W1[j][i] -= learningRate * hiddenGrad[j] * x[i]
				}
				w.B1[j] -= learningRate * hiddenGrad[j]
			}
		}
	}

	seq.weights = w
	seq.fitted = true
	return nil
}

func (w *sequentialWeights) forward(x []float64) (hidden []float64, output []float64) {
	hidden = make([]float64, w.HiddenUnits)
	for j := 0; j < w.HiddenUnits; j++ {
		sum := w.B1[j]
		for i := range x {
			sum += w.W1[j][i] * x[i]
		}
		hidden[j] = math.Tanh(sum)
	}
	output = make([]float64, w.OutputDim)
	for k := 0; k < w.OutputDim; k++ {
		sum := w.B2[k]
		for j := 0; j < w.HiddenUnits; j++ {
			sum += w.W2[k][j] * hidden[j]
		}
		output[k] = sum
	}
	return hidden, output
}

func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func (seq *Sequential) Predict(features []float64) ([]float64, error) {
	if !seq.fitted {
		return nil, errors.New("estimator is not fitted")
	}
	if len(features) != seq.weights.InputDim {
		return nil, errors.Errorf("expected %d features, got %d", seq.weights.InputDim, len(features))
	}
	_, output := seq.weights.forward(seq.weights.Features.transform(features))
	if seq.isClassifier() {
		return softmax(output), nil
	}
	return []float64{output[0]*seq.weights.TargetStd + seq.weights.TargetMean}, nil
}

func (seq *Sequential) Evaluate(samples []ml_model.TrainingSample) (float64, error) {
	if !seq.fitted {
		return 0, errors.New("estimator is not fitted")
	}
	if len(samples) == 0 {
		return 0, nil
	}
	var loss float64
	for _, s := range samples {
		output, err := seq.Predict(s.Features)
		if err != nil {
			return 0, err
		}
		if seq.isClassifier() {
			if argmax(output) != int(s.Target) {
				loss++
			}
		} else {
			loss += math.Abs(output[0] - s.Target)
		}
	}
	return loss / float64(len(samples)), nil
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func (seq *Sequential) Save(filePath string) error {
	if !seq.fitted {
		return errors.New("estimator is not fitted")
	}
	return saveWeights(filePath, &seq.weights)
}

func (seq *Sequential) Load(filePath string) error {
	if err := loadWeights(filePath, &seq.weights); err != nil {
		return err
	}
	seq.outputDim = seq.weights.OutputDim
	seq.fitted = true
	return nil
}
