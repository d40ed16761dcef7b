/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package training

import (
	"fmt"
	"sort"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/hashicorp/go-multierror"

	foresightErrors "foresight/common/errors"
	"foresight/ml-prediction-service/pkg/dto/data"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
)

// TrainingDataPipelineInterface converts raw metric observations into the
// typed training samples a model family expects.
type TrainingDataPipelineInterface interface {
	BuildSamples(
		family ml_model.ModelFamily,
		cfg ml_model.ModelConfig,
		metricData map[string][]data.Observation,
	) ([]ml_model.TrainingSample, foresightErrors.ForesightError)
}

type TrainingDataPipeline struct {
	lc logger.LoggingClient
}

func NewTrainingDataPipeline(lc logger.LoggingClient) TrainingDataPipelineInterface {
	pipeline := TrainingDataPipeline{lc: lc}
	return &pipeline
}

func (pipeline *TrainingDataPipeline) BuildSamples(
	family ml_model.ModelFamily,
	cfg ml_model.ModelConfig,
	metricData map[string][]data.Observation,
) ([]ml_model.TrainingSample, foresightErrors.ForesightError) {
	switch family {
	case ml_model.FamilyTimeseries:
		return pipeline.buildTimeseriesSamples(cfg, metricData)
	case ml_model.FamilyRegression:
		return pipeline.buildRegressionSamples(cfg, metricData, false)
	case ml_model.FamilyClassification:
		return pipeline.buildRegressionSamples(cfg, metricData, true)
	default:
		return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeConfig,
			fmt.Sprintf("unknown model family %s", family))
	}
}

func (pipeline *TrainingDataPipeline) buildTimeseriesSamples(
	cfg ml_model.ModelConfig,
	metricData map[string][]data.Observation,
) ([]ml_model.TrainingSample, foresightErrors.ForesightError) {
	if cfg.TargetMetric == "" {
		return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeConfig,
			"timeseries model config is missing targetMetric")
	}
	if cfg.WindowSize <= 0 {
		return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeConfig,
			"timeseries model config requires a positive windowSize")
	}
	observations, ok := metricData[cfg.TargetMetric]
	if !ok {
		return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeConfig,
			fmt.Sprintf("no observations for target metric %s", cfg.TargetMetric))
	}

	sorted := make([]data.Observation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	windowSize := cfg.WindowSize
	sampleCount := len(sorted) - windowSize - 1
	if sampleCount < 0 {
		sampleCount = 0
	}
	samples := make([]ml_model.TrainingSample, 0, sampleCount)
	for i := 0; i < sampleCount; i++ {
		features := make([]float64, windowSize)
		for j := 0; j < windowSize; j++ {
			features[j] = sorted[i+j].Value
		}
		samples = append(samples, ml_model.TrainingSample{
			Features: features,
			Target:   sorted[i+windowSize].Value,
		})
	}
	return samples, nil
}

func (pipeline *TrainingDataPipeline) buildRegressionSamples(
	cfg ml_model.ModelConfig,
	metricData map[string][]data.Observation,
	classify bool,
) ([]ml_model.TrainingSample, foresightErrors.ForesightError) {
	if err := pipeline.validateFeatureConfig(cfg, metricData, classify); err != nil {
		return nil, err
	}

	targetObservations := metricData[cfg.TargetMetric]
	samples := make([]ml_model.TrainingSample, 0, len(targetObservations))
	for _, targetObs := range targetObservations {
		features := make([]float64, len(cfg.FeatureMetrics))
		for i, featureMetric := range cfg.FeatureMetrics {
			features[i] = nearestObservation(metricData[featureMetric], targetObs.Timestamp).Value
		}

		target := targetObs.Value
		if classify {
			classIndex, matched := classIndexFor(cfg.Classes, targetObs.Value)
			if !matched {
				// value outside every class range; drop silently
				continue
			}
			target = float64(classIndex)
		}
		samples = append(samples, ml_model.TrainingSample{Features: features, Target: target})
	}
	return samples, nil
}

func (pipeline *TrainingDataPipeline) validateFeatureConfig(
	cfg ml_model.ModelConfig,
	metricData map[string][]data.Observation,
	classify bool,
) foresightErrors.ForesightError {
	var errs *multierror.Error
	if len(cfg.FeatureMetrics) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("featureMetrics is missing or empty"))
	}
	if cfg.TargetMetric == "" {
		errs = multierror.Append(errs, fmt.Errorf("targetMetric is missing"))
	}
	if classify && len(cfg.Classes) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("classes is missing or empty"))
	}
	if errs.ErrorOrNil() == nil {
		if _, ok := metricData[cfg.TargetMetric]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("no observations for target metric %s", cfg.TargetMetric))
		}
		for _, featureMetric := range cfg.FeatureMetrics {
			if observations, ok := metricData[featureMetric]; !ok || len(observations) == 0 {
				errs = multierror.Append(errs, fmt.Errorf("no observations for feature metric %s", featureMetric))
			}
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		pipeline.lc.Errorf("invalid training data configuration: %v", err)
		return foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeConfig, err.Error())
	}
	return nil
}

// nearestObservation picks the observation whose timestamp is closest to
// the reference; ties keep the earlier entry in input order.
func nearestObservation(observations []data.Observation, reference int64) data.Observation {
	nearest := observations[0]
	nearestDistance := absInt64(observations[0].Timestamp - reference)
	for _, obs := range observations[1:] {
		distance := absInt64(obs.Timestamp - reference)
		if distance < nearestDistance {
			nearest = obs
			nearestDistance = distance
		}
	}
	return nearest
}

func classIndexFor(classes []ml_model.ClassRange, value float64) (int, bool) {
	for i, class := range classes {
		if value >= class.Min && value <= class.Max {
			return i, true
		}
	}
	return 0, false
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
