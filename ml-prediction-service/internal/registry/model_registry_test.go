/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package registry

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	foresightErrors "foresight/common/errors"
	mockDB "foresight/mocks/foresight/ml-prediction-service/db"
	mockMetricSource "foresight/mocks/foresight/ml-prediction-service/metricsource"
	mockTraining "foresight/ml-prediction-service/mocks/training"
	"foresight/ml-prediction-service/internal/training"
	"foresight/ml-prediction-service/pkg/dto/data"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
	"foresight/ml-prediction-service/pkg/estimator"
	"foresight/ml-prediction-service/pkg/storage"
)

func testDefinitions() []ml_model.PredictionModelDefinition {
	return []ml_model.PredictionModelDefinition{
		{
			Id:            "m1",
			Name:          "latency-from-cpu",
			Family:        ml_model.FamilyRegression,
			Version:       "1.0",
			TargetMetrics: []string{"latency"},
			Config: ml_model.ModelConfig{
				FeatureMetrics: []string{"cpu"},
				TargetMetric:   "latency",
			},
		},
		{
			Id:            "m2",
			Name:          "cpu-forecast",
			Family:        ml_model.FamilyTimeseries,
			Version:       "1.0",
			TargetMetrics: []string{"cpu"},
			Config:        ml_model.ModelConfig{TargetMetric: "cpu", WindowSize: 3},
		},
	}
}

type registryFixture struct {
	registry     *ModelRegistry
	trainer      *mockTraining.MockTrainer
	pipeline     *mockTraining.MockTrainingDataPipeline
	metricSource *mockMetricSource.MockMetricSource
	dbClient     *mockDB.MockMLDb
	baseDir      string
}

func newFixture(t *testing.T) *registryFixture {
	f := &registryFixture{
		trainer:      &mockTraining.MockTrainer{},
		pipeline:     &mockTraining.MockTrainingDataPipeline{},
		metricSource: &mockMetricSource.MockMetricSource{},
		dbClient:     &mockDB.MockMLDb{},
		baseDir:      t.TempDir(),
	}
	f.registry = NewModelRegistry(testDefinitions(), f.trainer, f.pipeline, f.metricSource,
		f.dbClient, f.baseDir, logger.NewMockClient())
	return f
}

func TestModelRegistry_ListModels(t *testing.T) {
	f := newFixture(t)

	snapshots := f.registry.ListModels()
	require.Len(t, snapshots, 2)
	// configuration order is preserved
	assert.Equal(t, "m1", snapshots[0].Id)
	assert.Equal(t, "m2", snapshots[1].Id)
	assert.False(t, snapshots[0].Trained)
	assert.Nil(t, snapshots[0].Accuracy)
}

func TestModelRegistry_GetModel_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.registry.GetModel("missing")
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(foresightErrors.ErrorTypeNotFound))
}

func TestModelRegistry_TrainModel(t *testing.T) {
	f := newFixture(t)

	metricData := map[string][]data.Observation{
		"cpu":     {{Timestamp: 100, Value: 10}},
		"latency": {{Timestamp: 100, Value: 5}},
	}
	samples := []ml_model.TrainingSample{{Features: []float64{10}, Target: 5}}
	accuracy := 0.9
	outcome := training.TrainingOutcome{
		Estimator:     stubArtifact(t),
		Accuracy:      accuracy,
		LastTrainedAt: time.Now().Unix(),
	}

	f.metricSource.On("GetMultiMetricData", []string{"cpu", "latency"}, mock.Anything, mock.Anything).
		Return(metricData, nil)
	f.pipeline.On("BuildSamples", ml_model.FamilyRegression, mock.Anything, metricData).
		Return(samples, nil)
	f.trainer.On("Train", mock.Anything, samples).Return(outcome, nil)

	require.True(t, f.registry.TrainModel("m1"))
	assert.True(t, f.registry.IsTrained("m1"))

	snapshot, err := f.registry.GetModel("m1")
	require.Nil(t, err)
	assert.True(t, snapshot.Trained)
	require.NotNil(t, snapshot.Accuracy)
	assert.Equal(t, accuracy, *snapshot.Accuracy)
}

func TestModelRegistry_TrainModel_PipelineFailure(t *testing.T) {
	f := newFixture(t)

	f.metricSource.On("GetMultiMetricData", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string][]data.Observation{}, nil)
	f.pipeline.On("BuildSamples", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeConfig, "bad config"))

	assert.False(t, f.registry.TrainModel("m1"))
	assert.False(t, f.registry.IsTrained("m1"))
	f.trainer.AssertNotCalled(t, "Train", mock.Anything, mock.Anything)
}

func TestModelRegistry_TrainModel_Unknown(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.registry.TrainModel("missing"))
}

func TestModelRegistry_TrainModel_CoalescesConcurrentCallers(t *testing.T) {
	f := newFixture(t)

	var trainCalls int32
	outcome := training.TrainingOutcome{
		Estimator:     stubArtifact(t),
		Accuracy:      0.8,
		LastTrainedAt: time.Now().Unix(),
	}

	f.metricSource.On("GetMultiMetricData", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string][]data.Observation{"cpu": {{Timestamp: 100, Value: 1}}}, nil)
	f.pipeline.On("BuildSamples", mock.Anything, mock.Anything, mock.Anything).
		Return([]ml_model.TrainingSample{{Features: []float64{1}, Target: 1}}, nil)
	f.trainer.On("Train", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			atomic.AddInt32(&trainCalls, 1)
			time.Sleep(100 * time.Millisecond)
		}).
		Return(outcome, nil)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			assert.True(t, f.registry.TrainModel("m2"))
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&trainCalls))
}

func TestModelRegistry_RunEstimator_Untrained(t *testing.T) {
	f := newFixture(t)

	_, err := f.registry.RunEstimator("m1", []float64{1})
	require.NotNil(t, err)
	assert.True(t, err.IsErrorType(foresightErrors.ErrorTypeTrainingFailed))
}

func TestModelRegistry_LoadTrainedModels(t *testing.T) {
	f := newFixture(t)
	lc := logger.NewMockClient()

	// persist a genuine artifact for m1
	artifact := stubArtifact(t)
	mlStorage := storage.NewMLStorage(f.baseDir, "m1", lc)
	require.NoError(t, artifact.Save(mlStorage.GetModelFileName()))

	accuracy := 0.75
	f.dbClient.On("GetTrainingMetadata", "m1").
		Return(ml_model.TrainingMetadata{ModelId: "m1", LastTrainedAt: 1700000000, Accuracy: &accuracy}, nil)
	f.dbClient.On("GetTrainingMetadata", "m2").
		Return(ml_model.TrainingMetadata{}, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeNotFound, "no metadata"))

	f.registry.LoadTrainedModels()

	assert.True(t, f.registry.IsTrained("m1"))
	assert.False(t, f.registry.IsTrained("m2"))

	snapshot, err := f.registry.GetModel("m1")
	require.Nil(t, err)
	assert.Equal(t, int64(1700000000), snapshot.LastTrainedAt)

	output, runErr := f.registry.RunEstimator("m1", []float64{3})
	require.Nil(t, runErr)
	assert.Len(t, output, 1)
}

func TestTrainingMetricsFor(t *testing.T) {
	definitions := testDefinitions()
	assert.Equal(t, []string{"cpu", "latency"}, trainingMetricsFor(definitions[0]))
	assert.Equal(t, []string{"cpu"}, trainingMetricsFor(definitions[1]))
}

// stubArtifact returns a fitted regression estimator usable as a stand-in
// trained artifact.
func stubArtifact(t *testing.T) estimator.Estimator {
	t.Helper()
	cfg := ml_model.ModelConfig{FeatureMetrics: []string{"cpu"}, TargetMetric: "latency",
		Hyper: ml_model.HyperParameters{Epochs: 20}}
	est, err := estimator.NewEstimator(ml_model.FamilyRegression, cfg)
	require.NoError(t, err)
	require.NoError(t, est.Fit([]ml_model.TrainingSample{
		{Features: []float64{1}, Target: 2},
		{Features: []float64{2}, Target: 4},
		{Features: []float64{3}, Target: 6},
	}))
	return est
}
