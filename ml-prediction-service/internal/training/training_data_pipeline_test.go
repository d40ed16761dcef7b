/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package training

import (
	"testing"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foresight/ml-prediction-service/pkg/dto/data"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
)

func newPipeline() TrainingDataPipelineInterface {
	return NewTrainingDataPipeline(logger.NewMockClient())
}

func TestBuildTimeseriesSamples(t *testing.T) {
	pipeline := newPipeline()
	cfg := ml_model.ModelConfig{TargetMetric: "cpu", WindowSize: 2}
	metricData := map[string][]data.Observation{
		// out of order on purpose; the pipeline sorts by timestamp
		"cpu": {
			{Timestamp: 300, Value: 30},
			{Timestamp: 100, Value: 10},
			{Timestamp: 200, Value: 20},
			{Timestamp: 400, Value: 40},
			{Timestamp: 500, Value: 50},
		},
	}

	samples, err := pipeline.BuildSamples(ml_model.FamilyTimeseries, cfg, metricData)
	require.Nil(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, []float64{10, 20}, samples[0].Features)
	assert.Equal(t, 30.0, samples[0].Target)
	assert.Equal(t, []float64{20, 30}, samples[1].Features)
	assert.Equal(t, 40.0, samples[1].Target)
}

func TestBuildTimeseriesSamples_TooFewObservations(t *testing.T) {
	pipeline := newPipeline()
	cfg := ml_model.ModelConfig{TargetMetric: "cpu", WindowSize: 4}
	metricData := map[string][]data.Observation{
		"cpu": {{Timestamp: 100, Value: 10}, {Timestamp: 200, Value: 20}},
	}

	samples, err := pipeline.BuildSamples(ml_model.FamilyTimeseries, cfg, metricData)
	require.Nil(t, err)
	assert.Empty(t, samples)
}

func TestBuildTimeseriesSamples_MissingConfig(t *testing.T) {
	pipeline := newPipeline()

	_, err := pipeline.BuildSamples(ml_model.FamilyTimeseries, ml_model.ModelConfig{WindowSize: 2}, nil)
	require.NotNil(t, err)

	_, err = pipeline.BuildSamples(ml_model.FamilyTimeseries, ml_model.ModelConfig{TargetMetric: "cpu"}, nil)
	require.NotNil(t, err)
}

func TestBuildRegressionSamples_NearestNeighborJoin(t *testing.T) {
	pipeline := newPipeline()
	cfg := ml_model.ModelConfig{FeatureMetrics: []string{"cpu"}, TargetMetric: "latency"}
	metricData := map[string][]data.Observation{
		"cpu":     {{Timestamp: 100, Value: 10}, {Timestamp: 200, Value: 20}},
		"latency": {{Timestamp: 100, Value: 5}, {Timestamp: 200, Value: 15}},
	}

	samples, err := pipeline.BuildSamples(ml_model.FamilyRegression, cfg, metricData)
	require.Nil(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, []float64{10}, samples[0].Features)
	assert.Equal(t, 5.0, samples[0].Target)
	assert.Equal(t, []float64{20}, samples[1].Features)
	assert.Equal(t, 15.0, samples[1].Target)
}

func TestBuildRegressionSamples_TieKeepsEarlierObservation(t *testing.T) {
	pipeline := newPipeline()
	cfg := ml_model.ModelConfig{FeatureMetrics: []string{"cpu"}, TargetMetric: "latency"}
	metricData := map[string][]data.Observation{
		// both cpu observations are 50s away from the target timestamp
		"cpu":     {{Timestamp: 100, Value: 10}, {Timestamp: 200, Value: 20}},
		"latency": {{Timestamp: 150, Value: 7}},
	}

	samples, err := pipeline.BuildSamples(ml_model.FamilyRegression, cfg, metricData)
	require.Nil(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, []float64{10}, samples[0].Features)
}

func TestBuildRegressionSamples_InvalidConfig(t *testing.T) {
	pipeline := newPipeline()
	cfg := ml_model.ModelConfig{}

	_, err := pipeline.BuildSamples(ml_model.FamilyRegression, cfg, map[string][]data.Observation{})
	require.NotNil(t, err)
	// both problems are reported at once
	assert.Contains(t, err.Message(), "featureMetrics")
	assert.Contains(t, err.Message(), "targetMetric")
}

func TestBuildClassificationSamples(t *testing.T) {
	pipeline := newPipeline()
	cfg := ml_model.ModelConfig{
		FeatureMetrics: []string{"cpu"},
		TargetMetric:   "health",
		Classes: []ml_model.ClassRange{
			{Name: "ok", Min: 0, Max: 50},
			{Name: "degraded", Min: 50, Max: 100},
		},
	}
	metricData := map[string][]data.Observation{
		"cpu": {{Timestamp: 100, Value: 10}, {Timestamp: 200, Value: 90}, {Timestamp: 300, Value: 99}},
		"health": {
			{Timestamp: 100, Value: 20},  // ok
			{Timestamp: 200, Value: 50},  // boundary, first matching class wins
			{Timestamp: 300, Value: 150}, // outside every range, dropped
		},
	}

	samples, err := pipeline.BuildSamples(ml_model.FamilyClassification, cfg, metricData)
	require.Nil(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 0.0, samples[0].Target)
	assert.Equal(t, 0.0, samples[1].Target)
}

func TestBuildSamples_UnknownFamily(t *testing.T) {
	pipeline := newPipeline()

	_, err := pipeline.BuildSamples("clustering", ml_model.ModelConfig{}, nil)
	require.NotNil(t, err)
}
