/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package redis

import (
	"encoding/json"
	"errors"
	"fmt"

	"foresight/common/db"
	redis2 "foresight/common/db/redis"
	foresightErrors "foresight/common/errors"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
	"foresight/ml-prediction-service/pkg/dto/rule"
)

// db.MLPredictionModel|modelId -> training metadata
// db.MLRecommendRule          -> all rule keys
// db.MLRecommendRule|ruleId   -> rule definition
type MLDbInterface interface {
	SaveTrainingMetadata(metadata ml_model.TrainingMetadata) foresightErrors.ForesightError
	GetTrainingMetadata(modelId string) (ml_model.TrainingMetadata, foresightErrors.ForesightError)

	AddRule(r rule.RecommendationRule) foresightErrors.ForesightError
	UpdateRule(r rule.RecommendationRule) foresightErrors.ForesightError
	GetRule(ruleId string) (rule.RecommendationRule, foresightErrors.ForesightError)
	GetAllRules() ([]rule.RecommendationRule, foresightErrors.ForesightError)
	DeleteRule(ruleId string) foresightErrors.ForesightError

	AcquireTrainingLock(modelId string) (UnlockFunc, foresightErrors.ForesightError)
}

type UnlockFunc func()

type MLDbClient struct {
	client *redis2.DBClient
}

func NewMLDbClient(client *redis2.DBClient) MLDbInterface {
	dbClient := MLDbClient{client: client}
	return &dbClient
}

func buildModelKey(modelId string) string {
	return db.MLPredictionModel + "|" + modelId
}

func buildRuleKey(ruleId string) string {
	return db.MLRecommendRule + "|" + ruleId
}

func (dbClient *MLDbClient) SaveTrainingMetadata(metadata ml_model.TrainingMetadata) foresightErrors.ForesightError {
	lc := dbClient.client.Logger

	conn := dbClient.client.Pool.Get()
	defer conn.Close()

	errorMessage := fmt.Sprintf("Error saving training metadata for model %s", metadata.ModelId)

	m, err := json.Marshal(metadata)
	if err != nil {
		lc.Errorf("Error marshalling training metadata: %v", err)
		return foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeServerError, errorMessage)
	}

	if _, err = conn.Do("SET", buildModelKey(metadata.ModelId), m); err != nil {
		lc.Errorf("Error while saving training metadata in db: %v", err)
		return foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeDBError, errorMessage)
	}
	return nil
}

func (dbClient *MLDbClient) GetTrainingMetadata(modelId string) (ml_model.TrainingMetadata, foresightErrors.ForesightError) {
	lc := dbClient.client.Logger

	conn := dbClient.client.Pool.Get()
	defer conn.Close()

	var metadata ml_model.TrainingMetadata
	err := redis2.GetObjectById(conn, buildModelKey(modelId), &metadata)
	if errors.Is(err, db.ErrNotFound) {
		return metadata, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeNotFound,
			fmt.Sprintf("No training metadata for model %s", modelId))
	}
	if err != nil {
		lc.Errorf("Error while getting training metadata for model %s: %v", modelId, err)
		return metadata, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeDBError,
			fmt.Sprintf("Error getting training metadata for model %s", modelId))
	}
	return metadata, nil
}

func (dbClient *MLDbClient) AddRule(r rule.RecommendationRule) foresightErrors.ForesightError {
	lc := dbClient.client.Logger

	conn := dbClient.client.Pool.Get()
	defer conn.Close()

	errorMessage := fmt.Sprintf("Error saving recommendation rule %s", r.Id)

	m, err := json.Marshal(r)
	if err != nil {
		lc.Errorf("Error marshalling rule: %v", err)
		return foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeServerError, errorMessage)
	}

	ruleKey := buildRuleKey(r.Id)
	_ = conn.Send("MULTI")
	_ = conn.Send("SET", ruleKey, m)
	_ = conn.Send("SADD", db.MLRecommendRule, ruleKey)
	if _, err = conn.Do("EXEC"); err != nil {
		lc.Errorf("Error while saving recommendation rule in db: %v", err)
		return foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeDBError, errorMessage)
	}
	return nil
}

func (dbClient *MLDbClient) UpdateRule(r rule.RecommendationRule) foresightErrors.ForesightError {
	if _, err := dbClient.GetRule(r.Id); err != nil {
		return err
	}
	return dbClient.AddRule(r)
}

func (dbClient *MLDbClient) GetRule(ruleId string) (rule.RecommendationRule, foresightErrors.ForesightError) {
	lc := dbClient.client.Logger

	conn := dbClient.client.Pool.Get()
	defer conn.Close()

	var r rule.RecommendationRule
	err := redis2.GetObjectById(conn, buildRuleKey(ruleId), &r)
	if errors.Is(err, db.ErrNotFound) {
		return r, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeNotFound,
			fmt.Sprintf("Rule %s not found", ruleId))
	}
	if err != nil {
		lc.Errorf("Error while getting rule %s: %v", ruleId, err)
		return r, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeDBError,
			fmt.Sprintf("Error getting rule %s", ruleId))
	}
	return r, nil
}

func (dbClient *MLDbClient) GetAllRules() ([]rule.RecommendationRule, foresightErrors.ForesightError) {
	lc := dbClient.client.Logger

	errorMessage := "Error getting recommendation rules"

	conn := dbClient.client.Pool.Get()
	defer conn.Close()

	objects, err := redis2.GetObjectsByValue(conn, db.MLRecommendRule)
	if err != nil {
		lc.Errorf("Error while getting rules: %v", err)
		return make([]rule.RecommendationRule, 0), foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeDBError, errorMessage)
	}

	rules := make([]rule.RecommendationRule, 0, len(objects))
	for _, object := range objects {
		if object == nil {
			continue
		}
		var r rule.RecommendationRule
		if err = json.Unmarshal(object, &r); err != nil {
			lc.Errorf("%s: Error while unmarshaling object: %v", errorMessage, err)
			return make([]rule.RecommendationRule, 0), foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeServerError, errorMessage)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (dbClient *MLDbClient) DeleteRule(ruleId string) foresightErrors.ForesightError {
	lc := dbClient.client.Logger

	conn := dbClient.client.Pool.Get()
	defer conn.Close()

	ruleKey := buildRuleKey(ruleId)
	_ = conn.Send("MULTI")
	_ = conn.Send("DEL", ruleKey)
	_ = conn.Send("SREM", db.MLRecommendRule, ruleKey)
	if _, err := conn.Do("EXEC"); err != nil {
		lc.Errorf("Error while deleting rule %s: %v", ruleId, err)
		return foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeDBError,
			fmt.Sprintf("Error deleting rule %s", ruleId))
	}
	return nil
}

// AcquireTrainingLock serializes artifact/metadata persistence for a model
// across service instances.
func (dbClient *MLDbClient) AcquireTrainingLock(modelId string) (UnlockFunc, foresightErrors.ForesightError) {
	mutex, err := dbClient.client.AcquireRedisLock("training_lock|" + modelId)
	if err != nil {
		return nil, err
	}
	return func() { _, _ = mutex.Unlock() }, nil
}
