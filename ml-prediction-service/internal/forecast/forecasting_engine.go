/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package forecast

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"golang.org/x/exp/slices"

	"foresight/common/cache"
	foresightErrors "foresight/common/errors"
	"foresight/common/telemetry"
	"foresight/ml-prediction-service/internal/registry"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
	"foresight/ml-prediction-service/pkg/metricsource"
)

const (
	// resultCacheTTL bounds how long a prediction sequence is served
	// verbatim before it is recomputed.
	resultCacheTTL = time.Hour

	// featureLookbackSecs is how far back to look for the latest raw value
	// of a feature metric when the caller supplied no context (7 days).
	featureLookbackSecs = int64(7 * 24 * 3600)

	defaultConfidence = 0.5
	stepInterval      = 24 * time.Hour
)

type ForecastingEngineInterface interface {
	Predict(modelId string, metric string, horizon string, context map[string]float64) ([]ml_model.PredictionResult, foresightErrors.ForesightError)
}

type ForecastingEngine struct {
	registry     registry.ModelRegistryInterface
	metricSource metricsource.MetricSource
	resultCache  cache.Cache
	telemetry    *telemetry.Telemetry
	lc           logger.LoggingClient
	now          func() time.Time
}

func NewForecastingEngine(
	modelRegistry registry.ModelRegistryInterface,
	metricSource metricsource.MetricSource,
	resultCache cache.Cache,
	serviceTelemetry *telemetry.Telemetry,
	lc logger.LoggingClient,
) *ForecastingEngine {
	engine := ForecastingEngine{
		registry:     modelRegistry,
		metricSource: metricSource,
		resultCache:  resultCache,
		telemetry:    serviceTelemetry,
		lc:           lc,
		now:          time.Now,
	}
	return &engine
}

// Predict resolves input features for the model and metric, then produces
// one dated prediction per horizon step. Identical requests within the
// cache TTL get the first computation's results verbatim.
func (engine *ForecastingEngine) Predict(
	modelId string,
	metric string,
	horizon string,
	context map[string]float64,
) ([]ml_model.PredictionResult, foresightErrors.ForesightError) {
	lc := engine.lc

	model, err := engine.registry.GetModel(modelId)
	if err != nil {
		return nil, err
	}

	if !model.Trained {
		lc.Infof("model %s untrained, training before first prediction", modelId)
		if trained := engine.registry.TrainModel(modelId); !trained {
			engine.telemetry.TrainingsFailed.Inc(1)
			return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeTrainingFailed,
				fmt.Sprintf("model %s could not be trained", modelId))
		}
		engine.telemetry.TrainingsCompleted.Inc(1)
		if model, err = engine.registry.GetModel(modelId); err != nil {
			return nil, err
		}
	}

	if !slices.Contains(model.TargetMetrics, metric) {
		return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeUnsupportedMetric,
			fmt.Sprintf("metric %s is not a target of model %s", metric, modelId))
	}

	parsedHorizon, err := ParseHorizon(horizon)
	if err != nil {
		return nil, err
	}

	cacheKey := buildPredictionCacheKey(modelId, metric, horizon, context)
	if cached, hit := engine.resultCache.Get(cacheKey); hit {
		var results []ml_model.PredictionResult
		if unmarshalErr := json.Unmarshal([]byte(cached), &results); unmarshalErr == nil {
			engine.telemetry.PredictionCacheHits.Inc(1)
			return results, nil
		}
		lc.Warnf("dropping unreadable cached predictions for key %s", cacheKey)
		engine.resultCache.Delete(cacheKey)
	}

	var results []ml_model.PredictionResult
	switch model.Family {
	case ml_model.FamilyTimeseries:
		results, err = engine.predictTimeseries(model, metric, parsedHorizon)
	case ml_model.FamilyRegression:
		results, err = engine.predictRegression(model, metric, parsedHorizon, context)
	case ml_model.FamilyClassification:
		results, err = engine.predictClassification(model, metric, parsedHorizon, context)
	default:
		err = foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeConfig,
			fmt.Sprintf("model %s has unknown family %s", modelId, model.Family))
	}
	if err != nil {
		lc.Errorf("prediction failed for model %s, metric %s, horizon %s: %v", modelId, metric, horizon, err)
		return nil, err
	}

	if payload, marshalErr := json.Marshal(results); marshalErr == nil {
		engine.resultCache.Set(cacheKey, string(payload), resultCacheTTL)
	}
	engine.telemetry.PredictionsServed.Inc(int64(len(results)))
	return results, nil
}

// predictTimeseries walks the horizon one day at a time, feeding each
// prediction back into the window for the next step.
func (engine *ForecastingEngine) predictTimeseries(
	model ml_model.ModelSnapshot,
	metric string,
	horizon Horizon,
) ([]ml_model.PredictionResult, foresightErrors.ForesightError) {
	windowSize := model.Config.WindowSize
	now := engine.now()

	// query twice the window to tolerate gaps, keep the most recent points
	lookbackSecs := int64(2*windowSize) * 24 * 3600
	observations, err := engine.metricSource.GetMetricData(metric, now.Unix()-lookbackSecs, now.Unix())
	if err != nil {
		return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeServerError,
			fmt.Sprintf("could not fetch observations for metric %s: %v", metric, err))
	}
	if len(observations) < windowSize {
		return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeInsufficientData,
			fmt.Sprintf("metric %s has %d observations, window needs %d", metric, len(observations), windowSize))
	}

	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Timestamp > observations[j].Timestamp
	})
	recent := observations[:windowSize]

	window := make([]float64, windowSize)
	for i, obs := range recent {
		window[windowSize-1-i] = obs.Value
	}
	rawInput := slices.Clone(window)

	steps := horizon.Steps()
	results := make([]ml_model.PredictionResult, 0, steps)
	for step := 0; step < steps; step++ {
		output, runErr := engine.registry.RunEstimator(model.Id, window)
		if runErr != nil {
			return nil, runErr
		}
		predicted := output[0]

		results = append(results, ml_model.PredictionResult{
			ModelId:      model.Id,
			ModelName:    model.Name,
			ModelFamily:  model.Family,
			ModelVersion: model.Version,
			Timestamp:    now.Add(time.Duration(step+1) * stepInterval).Unix(),
			Metric:       metric,
			Value:        predicted,
			Confidence:   confidenceFor(model),
			Horizon:      horizon.String(),
			Metadata: map[string]interface{}{
				"rawInput": rawInput,
				"step":     step + 1,
			},
		})

		window = append(window[1:], predicted)
	}
	return results, nil
}

func (engine *ForecastingEngine) predictRegression(
	model ml_model.ModelSnapshot,
	metric string,
	horizon Horizon,
	context map[string]float64,
) ([]ml_model.PredictionResult, foresightErrors.ForesightError) {
	features, rawInput, err := engine.resolveFeatures(model, context)
	if err != nil {
		return nil, err
	}

	output, runErr := engine.registry.RunEstimator(model.Id, features)
	if runErr != nil {
		return nil, runErr
	}

	result := ml_model.PredictionResult{
		ModelId:      model.Id,
		ModelName:    model.Name,
		ModelFamily:  model.Family,
		ModelVersion: model.Version,
		Timestamp:    engine.now().Add(horizon.Duration()).Unix(),
		Metric:       metric,
		Value:        output[0],
		Confidence:   confidenceFor(model),
		Horizon:      horizon.String(),
		Metadata:     map[string]interface{}{"rawInput": rawInput},
	}
	return []ml_model.PredictionResult{result}, nil
}

func (engine *ForecastingEngine) predictClassification(
	model ml_model.ModelSnapshot,
	metric string,
	horizon Horizon,
	context map[string]float64,
) ([]ml_model.PredictionResult, foresightErrors.ForesightError) {
	features, rawInput, err := engine.resolveFeatures(model, context)
	if err != nil {
		return nil, err
	}

	probabilities, runErr := engine.registry.RunEstimator(model.Id, features)
	if runErr != nil {
		return nil, runErr
	}

	// first-seen index wins ties under strict > comparison
	winner := 0
	for i, p := range probabilities {
		if p > probabilities[winner] {
			winner = i
		}
	}
	class := model.Config.Classes[winner]

	result := ml_model.PredictionResult{
		ModelId:      model.Id,
		ModelName:    model.Name,
		ModelFamily:  model.Family,
		ModelVersion: model.Version,
		Timestamp:    engine.now().Add(horizon.Duration()).Unix(),
		Metric:       metric,
		Value:        (class.Min + class.Max) / 2,
		Confidence:   probabilities[winner],
		Horizon:      horizon.String(),
		Metadata: map[string]interface{}{
			"rawInput":      rawInput,
			"classIndex":    winner,
			"className":     class.Name,
			"probabilities": probabilities,
		},
	}
	return []ml_model.PredictionResult{result}, nil
}

// resolveFeatures builds the feature vector for regression and
// classification models: explicit context values win, otherwise the most
// recent raw observation is used.
func (engine *ForecastingEngine) resolveFeatures(
	model ml_model.ModelSnapshot,
	context map[string]float64,
) ([]float64, map[string]float64, foresightErrors.ForesightError) {
	featureMetrics := model.Config.FeatureMetrics
	features := make([]float64, len(featureMetrics))
	rawInput := make(map[string]float64, len(featureMetrics))

	for i, featureMetric := range featureMetrics {
		if value, supplied := context[featureMetric]; supplied {
			features[i] = value
			rawInput[featureMetric] = value
			continue
		}
		latest, found, err := engine.metricSource.LatestObservation(featureMetric, featureLookbackSecs)
		if err != nil {
			return nil, nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeServerError,
				fmt.Sprintf("could not fetch latest value of %s: %v", featureMetric, err))
		}
		if !found {
			return nil, nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeInsufficientData,
				fmt.Sprintf("no recent observation for feature metric %s", featureMetric))
		}
		features[i] = latest.Value
		rawInput[featureMetric] = latest.Value
	}
	return features, rawInput, nil
}

func confidenceFor(model ml_model.ModelSnapshot) float64 {
	if model.Accuracy != nil {
		return *model.Accuracy
	}
	return defaultConfidence
}

// buildPredictionCacheKey includes the serialized context so predictions
// with different explicit features never collide. json.Marshal emits map
// keys in sorted order, keeping the key deterministic.
func buildPredictionCacheKey(modelId, metric, horizon string, context map[string]float64) string {
	contextJSON := "{}"
	if len(context) > 0 {
		if payload, err := json.Marshal(context); err == nil {
			contextJSON = string(payload)
		}
	}
	return fmt.Sprintf("prediction|%s|%s|%s|%s", modelId, metric, horizon, contextJSON)
}
