package db

import (
	"github.com/stretchr/testify/mock"

	foresightErrors "foresight/common/errors"
	redisDB "foresight/ml-prediction-service/pkg/db/redis"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
	"foresight/ml-prediction-service/pkg/dto/rule"
)

// MockMLDb is a mock implementation for the MLDbInterface
type MockMLDb struct {
	mock.Mock
}

func (m *MockMLDb) SaveTrainingMetadata(metadata ml_model.TrainingMetadata) foresightErrors.ForesightError {
	args := m.Called(metadata)
	if args.Get(0) != nil {
		return args.Get(0).(foresightErrors.ForesightError)
	}
	return nil
}

func (m *MockMLDb) GetTrainingMetadata(modelId string) (ml_model.TrainingMetadata, foresightErrors.ForesightError) {
	args := m.Called(modelId)
	var metadata ml_model.TrainingMetadata
	if args.Get(0) != nil {
		metadata = args.Get(0).(ml_model.TrainingMetadata)
	}
	if args.Get(1) != nil {
		return metadata, args.Get(1).(foresightErrors.ForesightError)
	}
	return metadata, nil
}

func (m *MockMLDb) AddRule(r rule.RecommendationRule) foresightErrors.ForesightError {
	args := m.Called(r)
	if args.Get(0) != nil {
		return args.Get(0).(foresightErrors.ForesightError)
	}
	return nil
}

func (m *MockMLDb) UpdateRule(r rule.RecommendationRule) foresightErrors.ForesightError {
	args := m.Called(r)
	if args.Get(0) != nil {
		return args.Get(0).(foresightErrors.ForesightError)
	}
	return nil
}

func (m *MockMLDb) GetRule(ruleId string) (rule.RecommendationRule, foresightErrors.ForesightError) {
	args := m.Called(ruleId)
	var r rule.RecommendationRule
	if args.Get(0) != nil {
		r = args.Get(0).(rule.RecommendationRule)
	}
	if args.Get(1) != nil {
		return r, args.Get(1).(foresightErrors.ForesightError)
	}
	return r, nil
}

func (m *MockMLDb) GetAllRules() ([]rule.RecommendationRule, foresightErrors.ForesightError) {
	args := m.Called()
	var rules []rule.RecommendationRule
	if args.Get(0) != nil {
		rules = args.Get(0).([]rule.RecommendationRule)
	}
	if args.Get(1) != nil {
		return rules, args.Get(1).(foresightErrors.ForesightError)
	}
	return rules, nil
}

func (m *MockMLDb) DeleteRule(ruleId string) foresightErrors.ForesightError {
	args := m.Called(ruleId)
	if args.Get(0) != nil {
		return args.Get(0).(foresightErrors.ForesightError)
	}
	return nil
}

func (m *MockMLDb) AcquireTrainingLock(modelId string) (redisDB.UnlockFunc, foresightErrors.ForesightError) {
	args := m.Called(modelId)
	var unlock redisDB.UnlockFunc
	if args.Get(0) != nil {
		unlock = args.Get(0).(redisDB.UnlockFunc)
	}
	if args.Get(1) != nil {
		return unlock, args.Get(1).(foresightErrors.ForesightError)
	}
	return unlock, nil
}
