/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package training

import (
	"fmt"
	"math"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"

	foresightErrors "foresight/common/errors"
	redisDB "foresight/ml-prediction-service/pkg/db/redis"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
	"foresight/ml-prediction-service/pkg/estimator"
	"foresight/ml-prediction-service/pkg/storage"
)

const trainSplitRatio = 0.8

// TrainingOutcome is what a completed training run hands back to the
// registry: the fitted estimator plus the metadata that was persisted.
type TrainingOutcome struct {
	Estimator     estimator.Estimator
	Accuracy      float64
	LastTrainedAt int64
}

type TrainerInterface interface {
	Train(definition ml_model.PredictionModelDefinition, samples []ml_model.TrainingSample) (TrainingOutcome, foresightErrors.ForesightError)
}

type Trainer struct {
	dbClient            redisDB.MLDbInterface
	modelStorageBaseDir string
	lc                  logger.LoggingClient
}

func NewTrainer(dbClient redisDB.MLDbInterface, modelStorageBaseDir string, lc logger.LoggingClient) TrainerInterface {
	trainer := Trainer{
		dbClient:            dbClient,
		modelStorageBaseDir: modelStorageBaseDir,
		lc:                  lc,
	}
	return &trainer
}

// Train fits an estimator on the leading 80% of the samples, scores it on
// the trailing 20%, then persists the artifact and training metadata under
// a distributed lock so concurrent instances never interleave writes.
func (trainer *Trainer) Train(
	definition ml_model.PredictionModelDefinition,
	samples []ml_model.TrainingSample,
) (TrainingOutcome, foresightErrors.ForesightError) {
	lc := trainer.lc
	var outcome TrainingOutcome

	if len(samples) == 0 {
		return outcome, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeInsufficientData,
			fmt.Sprintf("no training samples for model %s", definition.Id))
	}

	trainSet, validationSet := splitSamples(samples)

	est, err := estimator.NewEstimator(definition.Family, definition.Config)
	if err != nil {
		lc.Errorf("could not build estimator for model %s: %v", definition.Id, err)
		return outcome, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeConfig, err.Error())
	}

	startedAt := time.Now()
	if err = est.Fit(trainSet); err != nil {
		lc.Errorf("training failed for model %s: %v", definition.Id, err)
		return outcome, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeTrainingFailed,
			fmt.Sprintf("training failed for model %s", definition.Id))
	}

	accuracy := trainer.computeAccuracy(definition, est, validationSet)
	lc.Infof("model %s trained on %d samples in %s, accuracy %.4f",
		definition.Id, len(trainSet), time.Since(startedAt), accuracy)

	trainedAt, persistErr := trainer.persist(definition.Id, est, accuracy)
	if persistErr != nil {
		return outcome, persistErr
	}

	outcome = TrainingOutcome{Estimator: est, Accuracy: accuracy, LastTrainedAt: trainedAt}
	return outcome, nil
}

// splitSamples keeps sample order so runs stay reproducible. Tiny data
// sets train on everything and skip validation.
func splitSamples(samples []ml_model.TrainingSample) (trainSet, validationSet []ml_model.TrainingSample) {
	splitIndex := int(float64(len(samples)) * trainSplitRatio)
	if splitIndex == 0 {
		splitIndex = len(samples)
	}
	return samples[:splitIndex], samples[splitIndex:]
}

func (trainer *Trainer) computeAccuracy(
	definition ml_model.PredictionModelDefinition,
	est estimator.Estimator,
	validationSet []ml_model.TrainingSample,
) float64 {
	if len(validationSet) == 0 {
		// nothing to score against, report the neutral confidence value
		return 0.5
	}
	loss, err := est.Evaluate(validationSet)
	if err != nil {
		trainer.lc.Warnf("evaluation failed for model %s, reporting zero accuracy: %v", definition.Id, err)
		return 0
	}

	var accuracy float64
	if definition.Family == ml_model.FamilyClassification {
		accuracy = 1 - loss
	} else {
		maxTarget := 0.0
		for _, sample := range validationSet {
			maxTarget = math.Max(maxTarget, math.Abs(sample.Target))
		}
		if maxTarget == 0 {
			return 0
		}
		accuracy = 1 - loss/maxTarget
	}
	return math.Min(1, math.Max(0, accuracy))
}

func (trainer *Trainer) persist(
	modelId string,
	est estimator.Estimator,
	accuracy float64,
) (int64, foresightErrors.ForesightError) {
	lc := trainer.lc

	unlock, lockErr := trainer.dbClient.AcquireTrainingLock(modelId)
	if lockErr != nil {
		return 0, lockErr
	}
	defer unlock()

	mlStorage := storage.NewMLStorage(trainer.modelStorageBaseDir, modelId, lc)
	if err := est.Save(mlStorage.GetModelFileName()); err != nil {
		lc.Errorf("could not persist artifact for model %s: %v", modelId, err)
		return 0, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeTrainingFailed,
			fmt.Sprintf("could not persist artifact for model %s", modelId))
	}

	trainedAt := time.Now().Unix()
	metadata := ml_model.TrainingMetadata{
		ModelId:       modelId,
		LastTrainedAt: trainedAt,
		Accuracy:      &accuracy,
	}
	if err := trainer.dbClient.SaveTrainingMetadata(metadata); err != nil {
		return 0, err
	}
	return trainedAt, nil
}
