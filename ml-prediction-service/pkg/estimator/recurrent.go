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

// Recurrent is a small recurrent unit for windowed timeseries input: the
// window values are fed one at a time through a tanh state, and a linear
// readout of the final state produces the next value. Gradients are
// truncated at the last step, which is enough for the short windows the
// forecasting engine uses.
type Recurrent struct {
	hyper   ml_model.HyperParameters
	weights recurrentWeights
	fitted  bool
}

type recurrentWeights struct {
	WindowSize  int         `json:"windowSize"`
	HiddenUnits int         `json:"hiddenUnits"`
	Wx          []float64   `json:"wx"`
	Wh          [][]float64 `json:"wh"`
	Bh          []float64   `json:"bh"`
	Wo          []float64   `json:"wo"`
	Bo          float64     `json:"bo"`
	ValueMean   float64     `json:"valueMean"`
	ValueStd    float64     `json:"valueStd"`
}

func NewRecurrent(cfg ml_model.ModelConfig) *Recurrent {
	rec := new(Recurrent)
	rec.hyper = cfg.Hyper
	return rec
}

func (rec *Recurrent) Fit(samples []ml_model.TrainingSample) error {
	if len(samples) == 0 {
		return errors.New("no training samples")
	}
	epochs, learningRate, hiddenUnits := hyperOrDefaults(rec.hyper)
	windowSize := len(samples[0].Features)

	// One shared scale for window values and target; they are the same metric.
	var mean, std float64
	var count float64
	for _, s := range samples {
		for _, v := range s.Features {
			mean += v
			count++
		}
		mean += s.Target
		count++
	}
	mean /= count
	for _, s := range samples {
		for _, v := range s.Features {
			std += (v - mean) * (v - mean)
		}
		std += (s.Target - mean) * (s.Target - mean)
	}
	std = math.Sqrt(std / count)
	if std == 0 {
		std = 1
	}

	rng := rand.New(rand.NewSource(1))
	w := recurrentWeights{
		WindowSize:  windowSize,
		HiddenUnits: hiddenUnits,
		Wx:          randomWeights(1, hiddenUnits, rng)[0],
		Wh:          randomWeights(hiddenUnits, hiddenUnits, rng),
		Bh:          make([]float64, hiddenUnits),
		Wo:          randomWeights(1, hiddenUnits, rng)[0],
		ValueMean:   mean,
		ValueStd:    std,
	}

	for epoch := 0; epoch < epochs; epoch++ {
		for _, s := range samples {
			states, final := w.forward(s.Features)
			target := (s.Target - mean) / std
			outGrad := final - target

			// readout layer
			last := states[len(states)-1]
			prev := make([]float64, hiddenUnits)
			if len(states) > 1 {
				copy(prev, states[len(states)-2])
			}
			lastInput := (s.Features[windowSize-1] - mean) / std

			for j := 0; j < hiddenUnits; j++ {
				stateGrad := outGrad * w.Wo[j] * (1 - last[j]*last[j])
				w.Wo[j] -= learningRate * outGrad * last[j]
				w.Wx[j] -= learningRate * stateGrad * lastInput
				for k := 0; k < hiddenUnits; k++ {
					w.Wh[j][k] -= learningRate * stateGrad * prev[k]
				}
				w.Bh[j] -= learningRate * stateGrad
			}
			w.Bo -= learningRate * outGrad
		}
	}

	rec.weights = w
	rec.fitted = true
	return nil
}

// forward runs the window through the unit, returning every hidden state
// and the normalized readout.
func (w *recurrentWeights) forward(window []float64) ([][]float64, float64) {
	states := make([][]float64, 0, len(window))
	state := make([]float64, w.HiddenUnits)
	for _, raw := range window {
		x := (raw - w.ValueMean) / w.ValueStd
		next := make([]float64, w.HiddenUnits)
		for j := 0; j < w.HiddenUnits; j++ {
			sum := w.Bh[j] + w.Wx[j]*x
			for k := 0; k < w.HiddenUnits; k++ {
				sum += w.Wh[j][k] * state[k]
			}
			next[j] = math.Tanh(sum)
		}
		state = next
		states = append(states, state)
	}
	output := w.Bo
	for j := 0; j < w.HiddenUnits; j++ {
		output += w.Wo[j] * state[j]
	}
	return states, output
}

func (rec *Recurrent) Predict(features []float64) ([]float64, error) {
	if !rec.fitted {
		return nil, errors.New("estimator is not fitted")
	}
	if len(features) != rec.weights.WindowSize {
		return nil, errors.Errorf("expected window of %d values, got %d", rec.weights.WindowSize, len(features))
	}
	_, output := rec.weights.forward(features)
	return []float64{output*rec.weights.ValueStd + rec.weights.ValueMean}, nil
}

func (rec *Recurrent) Evaluate(samples []ml_model.TrainingSample) (float64, error) {
	if !rec.fitted {
		return 0, errors.New("estimator is not fitted")
	}
	if len(samples) == 0 {
		return 0, nil
	}
	var loss float64
	for _, s := range samples {
		output, err := rec.Predict(s.Features)
		if err != nil {
			return 0, err
		}
		loss += math.Abs(output[0] - s.Target)
	}
	return loss / float64(len(samples)), nil
}

func (rec *Recurrent) Save(filePath string) error {
	if !rec.fitted {
		return errors.New("estimator is not fitted")
	}
	return saveWeights(filePath, &rec.weights)
}

func (rec *Recurrent) Load(filePath string) error {
	if err := loadWeights(filePath, &rec.weights); err != nil {
		return err
	}
	rec.fitted = true
	return nil
}
