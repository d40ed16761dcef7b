/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package forecast

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foresight/common/cache"
	foresightErrors "foresight/common/errors"
	"foresight/common/telemetry"
	mockMetricSource "foresight/mocks/foresight/ml-prediction-service/metricsource"
	mockRegistry "foresight/mocks/foresight/ml-prediction-service/registry"
	"foresight/ml-prediction-service/pkg/dto/data"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
)

type engineFixture struct {
	engine       *ForecastingEngine
	registry     *mockRegistry.MockModelRegistry
	metricSource *mockMetricSource.MockMetricSource
	now          time.Time
}

func newEngineFixture() *engineFixture {
	lc := logger.NewMockClient()
	f := &engineFixture{
		registry:     &mockRegistry.MockModelRegistry{},
		metricSource: &mockMetricSource.MockMetricSource{},
		now:          time.Unix(1700000000, 0),
	}
	f.engine = NewForecastingEngine(f.registry, f.metricSource,
		cache.NewMemCache(time.Hour), telemetry.NewTelemetry("test", lc), lc)
	f.engine.now = func() time.Time { return f.now }
	return f
}

func timeseriesSnapshot(accuracy float64) ml_model.ModelSnapshot {
	return ml_model.ModelSnapshot{
		Id:            "ts1",
		Name:          "cpu-forecast",
		Family:        ml_model.FamilyTimeseries,
		Version:       "1.0",
		TargetMetrics: []string{"cpu"},
		Config:        ml_model.ModelConfig{TargetMetric: "cpu", WindowSize: 3},
		Trained:       true,
		Accuracy:      &accuracy,
	}
}

func regressionSnapshot() ml_model.ModelSnapshot {
	return ml_model.ModelSnapshot{
		Id:            "m1",
		Name:          "latency-from-cpu",
		Family:        ml_model.FamilyRegression,
		Version:       "1.0",
		TargetMetrics: []string{"latency"},
		Config: ml_model.ModelConfig{
			FeatureMetrics: []string{"cpu", "memory"},
			TargetMetric:   "latency",
		},
		Trained: true,
	}
}

func TestPredict_ModelNotFound(t *testing.T) {
	f := newEngineFixture()
	f.registry.On("GetModel", "missing").Return(nil,
		foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeNotFound, "model missing not found"))

	_, err := f.engine.Predict("missing", "cpu", "1d", nil)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(foresightErrors.ErrorTypeNotFound))
}

func TestPredict_TrainsUntrainedModelOnce(t *testing.T) {
	f := newEngineFixture()
	untrained := timeseriesSnapshot(0.9)
	untrained.Trained = false

	f.registry.On("GetModel", "ts1").Return(untrained, nil).Once()
	f.registry.On("TrainModel", "ts1").Return(false).Once()

	_, err := f.engine.Predict("ts1", "cpu", "1d", nil)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(foresightErrors.ErrorTypeTrainingFailed))
	f.registry.AssertExpectations(t)
}

func TestPredict_UnsupportedMetric(t *testing.T) {
	f := newEngineFixture()
	f.registry.On("GetModel", "ts1").Return(timeseriesSnapshot(0.9), nil)

	_, err := f.engine.Predict("ts1", "disk", "1d", nil)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(foresightErrors.ErrorTypeUnsupportedMetric))
}

func TestPredict_InvalidHorizon(t *testing.T) {
	f := newEngineFixture()
	f.registry.On("GetModel", "ts1").Return(timeseriesSnapshot(0.9), nil)

	_, err := f.engine.Predict("ts1", "cpu", "d7", nil)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(foresightErrors.ErrorTypeInvalidHorizon))
}

func TestPredict_Timeseries(t *testing.T) {
	f := newEngineFixture()
	f.registry.On("GetModel", "ts1").Return(timeseriesSnapshot(0.9), nil)

	observations := []data.Observation{
		{Timestamp: f.now.Unix() - 400, Value: 10},
		{Timestamp: f.now.Unix() - 300, Value: 20},
		{Timestamp: f.now.Unix() - 200, Value: 30},
		{Timestamp: f.now.Unix() - 100, Value: 40},
	}
	f.metricSource.On("GetMetricData", "cpu", mock.Anything, mock.Anything).Return(observations, nil)
	// first step sees the three most recent observations in ascending order
	f.registry.On("RunEstimator", "ts1", []float64{20, 30, 40}).Return([]float64{50}, nil).Once()
	// second step slides the window over its own prediction
	f.registry.On("RunEstimator", "ts1", []float64{30, 40, 50}).Return([]float64{60}, nil).Once()

	results, err := f.engine.Predict("ts1", "cpu", "2d", nil)
	require.Nil(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 50.0, results[0].Value)
	assert.Equal(t, 60.0, results[1].Value)
	assert.Equal(t, 0.9, results[0].Confidence)
	assert.Equal(t, "2d", results[0].Horizon)
	assert.Equal(t, f.now.Add(24*time.Hour).Unix(), results[0].Timestamp)
	assert.Equal(t, f.now.Add(48*time.Hour).Unix(), results[1].Timestamp)
	f.registry.AssertExpectations(t)
}

func TestPredict_Timeseries_InsufficientData(t *testing.T) {
	f := newEngineFixture()
	f.registry.On("GetModel", "ts1").Return(timeseriesSnapshot(0.9), nil)
	f.metricSource.On("GetMetricData", "cpu", mock.Anything, mock.Anything).
		Return([]data.Observation{{Timestamp: 100, Value: 1}}, nil)

	_, err := f.engine.Predict("ts1", "cpu", "1d", nil)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(foresightErrors.ErrorTypeInsufficientData))
}

func TestPredict_CacheHitReturnsVerbatim(t *testing.T) {
	f := newEngineFixture()
	f.registry.On("GetModel", "ts1").Return(timeseriesSnapshot(0.9), nil)
	f.metricSource.On("GetMetricData", "cpu", mock.Anything, mock.Anything).Return([]data.Observation{
		{Timestamp: 100, Value: 10}, {Timestamp: 200, Value: 20}, {Timestamp: 300, Value: 30},
	}, nil)
	f.registry.On("RunEstimator", "ts1", mock.Anything).Return([]float64{42}, nil)

	first, err := f.engine.Predict("ts1", "cpu", "1d", nil)
	require.Nil(t, err)

	second, err := f.engine.Predict("ts1", "cpu", "1d", nil)
	require.Nil(t, err)

	firstJSON, marshalErr := json.Marshal(first)
	require.NoError(t, marshalErr)
	secondJSON, marshalErr := json.Marshal(second)
	require.NoError(t, marshalErr)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))

	// the estimator only ran for the first call
	f.registry.AssertNumberOfCalls(t, "RunEstimator", 1)
}

func TestPredict_Regression_ContextOverridesMetricSource(t *testing.T) {
	f := newEngineFixture()
	f.registry.On("GetModel", "m1").Return(regressionSnapshot(), nil)
	f.metricSource.On("LatestObservation", "memory", mock.Anything).
		Return(data.Observation{Timestamp: f.now.Unix(), Value: 512}, true, nil)
	f.registry.On("RunEstimator", "m1", []float64{75, 512}).Return([]float64{120}, nil)

	results, err := f.engine.Predict("m1", "latency", "1d", map[string]float64{"cpu": 75})
	require.Nil(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 120.0, results[0].Value)
	// accuracy is unset on this snapshot so the default confidence applies
	assert.Equal(t, 0.5, results[0].Confidence)
	assert.Equal(t, f.now.Add(24*time.Hour).Unix(), results[0].Timestamp)

	rawInput := results[0].Metadata["rawInput"].(map[string]float64)
	assert.Equal(t, 75.0, rawInput["cpu"])
	f.metricSource.AssertNotCalled(t, "LatestObservation", "cpu", mock.Anything)
}

func TestPredict_Regression_NoRecentObservation(t *testing.T) {
	f := newEngineFixture()
	f.registry.On("GetModel", "m1").Return(regressionSnapshot(), nil)
	f.metricSource.On("LatestObservation", "cpu", mock.Anything).
		Return(data.Observation{}, false, nil)

	_, err := f.engine.Predict("m1", "latency", "1d", nil)
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(foresightErrors.ErrorTypeInsufficientData))
}

func TestPredict_Classification(t *testing.T) {
	f := newEngineFixture()
	snapshot := ml_model.ModelSnapshot{
		Id:            "c1",
		Name:          "health-class",
		Family:        ml_model.FamilyClassification,
		TargetMetrics: []string{"health"},
		Config: ml_model.ModelConfig{
			FeatureMetrics: []string{"cpu"},
			TargetMetric:   "health",
			Classes: []ml_model.ClassRange{
				{Name: "ok", Min: 0, Max: 50},
				{Name: "degraded", Min: 50, Max: 100},
			},
		},
		Trained: true,
	}
	f.registry.On("GetModel", "c1").Return(snapshot, nil)
	f.registry.On("RunEstimator", "c1", []float64{80}).Return([]float64{0.3, 0.7}, nil)

	results, err := f.engine.Predict("c1", "health", "1d", map[string]float64{"cpu": 80})
	require.Nil(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, 75.0, results[0].Value) // midpoint of degraded
	assert.Equal(t, 0.7, results[0].Confidence)
	assert.Equal(t, "degraded", results[0].Metadata["className"])
	assert.Equal(t, 1, results[0].Metadata["classIndex"])
}

func TestPredict_Classification_TieKeepsFirstClass(t *testing.T) {
	f := newEngineFixture()
	snapshot := ml_model.ModelSnapshot{
		Id:            "c1",
		Name:          "health-class",
		Family:        ml_model.FamilyClassification,
		TargetMetrics: []string{"health"},
		Config: ml_model.ModelConfig{
			FeatureMetrics: []string{"cpu"},
			TargetMetric:   "health",
			Classes: []ml_model.ClassRange{
				{Name: "ok", Min: 0, Max: 50},
				{Name: "degraded", Min: 50, Max: 100},
			},
		},
		Trained: true,
	}
	f.registry.On("GetModel", "c1").Return(snapshot, nil)
	f.registry.On("RunEstimator", "c1", mock.Anything).Return([]float64{0.5, 0.5}, nil)

	results, err := f.engine.Predict("c1", "health", "1d", map[string]float64{"cpu": 10})
	require.Nil(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ok", results[0].Metadata["className"])
}

func TestBuildPredictionCacheKey(t *testing.T) {
	withoutContext := buildPredictionCacheKey("m1", "cpu", "1d", nil)
	assert.Equal(t, "prediction|m1|cpu|1d|{}", withoutContext)

	withContext := buildPredictionCacheKey("m1", "cpu", "1d", map[string]float64{"cpu": 75})
	assert.NotEqual(t, withoutContext, withContext)
	// identical context maps produce identical keys
	assert.Equal(t, withContext, buildPredictionCacheKey("m1", "cpu", "1d", map[string]float64{"cpu": 75}))
}
