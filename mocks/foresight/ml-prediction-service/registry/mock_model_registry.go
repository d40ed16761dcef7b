package registry

import (
	"github.com/stretchr/testify/mock"

	foresightErrors "foresight/common/errors"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
)

// MockModelRegistry is a mock implementation for the ModelRegistryInterface
type MockModelRegistry struct {
	mock.Mock
}

func (m *MockModelRegistry) LoadTrainedModels() {
	m.Called()
}

func (m *MockModelRegistry) ListModels() []ml_model.ModelSnapshot {
	args := m.Called()
	var snapshots []ml_model.ModelSnapshot
	if args.Get(0) != nil {
		snapshots = args.Get(0).([]ml_model.ModelSnapshot)
	}
	return snapshots
}

func (m *MockModelRegistry) GetModel(modelId string) (ml_model.ModelSnapshot, foresightErrors.ForesightError) {
	args := m.Called(modelId)
	var snapshot ml_model.ModelSnapshot
	if args.Get(0) != nil {
		snapshot = args.Get(0).(ml_model.ModelSnapshot)
	}
	if args.Get(1) != nil {
		return snapshot, args.Get(1).(foresightErrors.ForesightError)
	}
	return snapshot, nil
}

func (m *MockModelRegistry) TrainModel(modelId string) bool {
	args := m.Called(modelId)
	return args.Bool(0)
}

func (m *MockModelRegistry) IsTrained(modelId string) bool {
	args := m.Called(modelId)
	return args.Bool(0)
}

func (m *MockModelRegistry) RunEstimator(modelId string, features []float64) ([]float64, foresightErrors.ForesightError) {
	args := m.Called(modelId, features)
	var output []float64
	if args.Get(0) != nil {
		output = args.Get(0).([]float64)
	}
	if args.Get(1) != nil {
		return output, args.Get(1).(foresightErrors.ForesightError)
	}
	return output, nil
}
