/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/singleflight"

	foresightErrors "foresight/common/errors"
	"foresight/ml-prediction-service/internal/training"
	redisDB "foresight/ml-prediction-service/pkg/db/redis"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
	"foresight/ml-prediction-service/pkg/estimator"
	"foresight/ml-prediction-service/pkg/metricsource"
	"foresight/ml-prediction-service/pkg/storage"
)

// trainingLookbackSecs bounds how far back the registry pulls metric data
// when it trains a model (30 days).
const trainingLookbackSecs = int64(30 * 24 * 3600)

type ModelRegistryInterface interface {
	LoadTrainedModels()
	ListModels() []ml_model.ModelSnapshot
	GetModel(modelId string) (ml_model.ModelSnapshot, foresightErrors.ForesightError)
	// TrainModel reports whether the model ended up trained. Failures are
	// logged, never propagated.
	TrainModel(modelId string) bool
	IsTrained(modelId string) bool
	// RunEstimator executes the trained artifact in place; the artifact
	// itself never leaves the registry.
	RunEstimator(modelId string, features []float64) ([]float64, foresightErrors.ForesightError)
}

// predictionModel is a definition plus its mutable training state.
type predictionModel struct {
	definition    ml_model.PredictionModelDefinition
	artifact      estimator.Estimator
	lastTrainedAt int64
	accuracy      *float64
}

type ModelRegistry struct {
	mutex               sync.RWMutex
	models              map[string]*predictionModel
	order               []string
	trainer             training.TrainerInterface
	pipeline            training.TrainingDataPipelineInterface
	metricSource        metricsource.MetricSource
	dbClient            redisDB.MLDbInterface
	modelStorageBaseDir string
	trainGroup          singleflight.Group
	lc                  logger.LoggingClient
}

func NewModelRegistry(
	definitions []ml_model.PredictionModelDefinition,
	trainer training.TrainerInterface,
	pipeline training.TrainingDataPipelineInterface,
	metricSource metricsource.MetricSource,
	dbClient redisDB.MLDbInterface,
	modelStorageBaseDir string,
	lc logger.LoggingClient,
) *ModelRegistry {
	registry := ModelRegistry{
		models:              make(map[string]*predictionModel),
		trainer:             trainer,
		pipeline:            pipeline,
		metricSource:        metricSource,
		dbClient:            dbClient,
		modelStorageBaseDir: modelStorageBaseDir,
		lc:                  lc,
	}
	for _, definition := range definitions {
		if _, exists := registry.models[definition.Id]; exists {
			lc.Warnf("duplicate model id %s in configuration, keeping the first definition", definition.Id)
			continue
		}
		registry.models[definition.Id] = &predictionModel{definition: definition}
		registry.order = append(registry.order, definition.Id)
	}
	return &registry
}

// LoadTrainedModels restores persisted artifacts and metadata at startup.
// A missing or unreadable artifact leaves the model untrained; it will be
// trained again on first use.
func (registry *ModelRegistry) LoadTrainedModels() {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	for _, modelId := range registry.order {
		model := registry.models[modelId]

		metadata, err := registry.dbClient.GetTrainingMetadata(modelId)
		if err != nil {
			if !err.IsErrorType(foresightErrors.ErrorTypeNotFound) {
				registry.lc.Warnf("could not load training metadata for model %s: %v", modelId, err)
			}
			continue
		}

		mlStorage := storage.NewMLStorage(registry.modelStorageBaseDir, modelId, registry.lc)
		modelFile := mlStorage.GetModelFileName()
		if !mlStorage.FileExists(modelFile) {
			registry.lc.Warnf("model %s has training metadata but no artifact at %s, will retrain on demand",
				modelId, modelFile)
			continue
		}

		artifact, buildErr := estimator.NewEstimator(model.definition.Family, model.definition.Config)
		if buildErr != nil {
			registry.lc.Errorf("could not build estimator for model %s: %v", modelId, buildErr)
			continue
		}
		if loadErr := artifact.Load(modelFile); loadErr != nil {
			registry.lc.Warnf("could not load artifact for model %s, will retrain on demand: %v", modelId, loadErr)
			continue
		}

		model.artifact = artifact
		model.lastTrainedAt = metadata.LastTrainedAt
		model.accuracy = metadata.Accuracy
		registry.lc.Infof("restored trained model %s (trained at %d)", modelId, metadata.LastTrainedAt)
	}
}

func (registry *ModelRegistry) ListModels() []ml_model.ModelSnapshot {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	snapshots := make([]ml_model.ModelSnapshot, 0, len(registry.order))
	for _, modelId := range registry.order {
		snapshots = append(snapshots, registry.snapshotLocked(registry.models[modelId]))
	}
	return snapshots
}

func (registry *ModelRegistry) GetModel(modelId string) (ml_model.ModelSnapshot, foresightErrors.ForesightError) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	model, exists := registry.models[modelId]
	if !exists {
		return ml_model.ModelSnapshot{}, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeNotFound,
			fmt.Sprintf("model %s not found", modelId))
	}
	return registry.snapshotLocked(model), nil
}

func (registry *ModelRegistry) IsTrained(modelId string) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	model, exists := registry.models[modelId]
	return exists && model.artifact != nil
}

// TrainModel trains a model from fresh metric data. Concurrent callers for
// the same model share one training run.
func (registry *ModelRegistry) TrainModel(modelId string) bool {
	trained, _, _ := registry.trainGroup.Do(modelId, func() (interface{}, error) {
		return registry.trainModel(modelId), nil
	})
	return trained.(bool)
}

func (registry *ModelRegistry) trainModel(modelId string) bool {
	registry.mutex.RLock()
	model, exists := registry.models[modelId]
	registry.mutex.RUnlock()
	if !exists {
		registry.lc.Errorf("cannot train unknown model %s", modelId)
		return false
	}
	definition := model.definition

	end := time.Now().Unix()
	metricData, err := registry.metricSource.GetMultiMetricData(
		trainingMetricsFor(definition), end-trainingLookbackSecs, end)
	if err != nil {
		registry.lc.Errorf("could not fetch training data for model %s: %v", modelId, err)
		return false
	}

	samples, pipelineErr := registry.pipeline.BuildSamples(definition.Family, definition.Config, metricData)
	if pipelineErr != nil {
		registry.lc.Errorf("could not build training samples for model %s: %v", modelId, pipelineErr)
		return false
	}

	outcome, trainErr := registry.trainer.Train(definition, samples)
	if trainErr != nil {
		registry.lc.Errorf("training failed for model %s: %v", modelId, trainErr)
		return false
	}

	registry.mutex.Lock()
	model.artifact = outcome.Estimator
	model.lastTrainedAt = outcome.LastTrainedAt
	model.accuracy = &outcome.Accuracy
	registry.mutex.Unlock()
	return true
}

func (registry *ModelRegistry) RunEstimator(modelId string, features []float64) ([]float64, foresightErrors.ForesightError) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	model, exists := registry.models[modelId]
	if !exists {
		return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeNotFound,
			fmt.Sprintf("model %s not found", modelId))
	}
	if model.artifact == nil {
		return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeTrainingFailed,
			fmt.Sprintf("model %s has no trained artifact", modelId))
	}
	output, err := model.artifact.Predict(features)
	if err != nil {
		registry.lc.Errorf("prediction failed for model %s: %v", modelId, err)
		return nil, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeServerError,
			fmt.Sprintf("prediction failed for model %s", modelId))
	}
	return output, nil
}

func (registry *ModelRegistry) snapshotLocked(model *predictionModel) ml_model.ModelSnapshot {
	definition := model.definition
	return ml_model.ModelSnapshot{
		Id:            definition.Id,
		Name:          definition.Name,
		Family:        definition.Family,
		Version:       definition.Version,
		TargetMetrics: slices.Clone(definition.TargetMetrics),
		Config:        definition.Config,
		Trained:       model.artifact != nil,
		LastTrainedAt: model.lastTrainedAt,
		Accuracy:      model.accuracy,
	}
}

// trainingMetricsFor lists every metric a model family needs to learn from.
func trainingMetricsFor(definition ml_model.PredictionModelDefinition) []string {
	cfg := definition.Config
	if definition.Family == ml_model.FamilyTimeseries {
		return []string{cfg.TargetMetric}
	}
	metrics := slices.Clone(cfg.FeatureMetrics)
	if cfg.TargetMetric != "" && !slices.Contains(metrics, cfg.TargetMetric) {
		metrics = append(metrics, cfg.TargetMetric)
	}
	return metrics
}
