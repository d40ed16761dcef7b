package training

import (
	"github.com/stretchr/testify/mock"

	foresightErrors "foresight/common/errors"
	"foresight/ml-prediction-service/internal/training"
	"foresight/ml-prediction-service/pkg/dto/data"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
)

// MockTrainer is a mock implementation for the TrainerInterface
type MockTrainer struct {
	mock.Mock
}

func (m *MockTrainer) Train(definition ml_model.PredictionModelDefinition, samples []ml_model.TrainingSample) (training.TrainingOutcome, foresightErrors.ForesightError) {
	args := m.Called(definition, samples)
	var outcome training.TrainingOutcome
	if args.Get(0) != nil {
		outcome = args.Get(0).(training.TrainingOutcome)
	}
	if args.Get(1) != nil {
		return outcome, args.Get(1).(foresightErrors.ForesightError)
	}
	return outcome, nil
}

// MockTrainingDataPipeline is a mock implementation for the TrainingDataPipelineInterface
type MockTrainingDataPipeline struct {
	mock.Mock
}

func (m *MockTrainingDataPipeline) BuildSamples(
	family ml_model.ModelFamily,
	cfg ml_model.ModelConfig,
	metricData map[string][]data.Observation,
) ([]ml_model.TrainingSample, foresightErrors.ForesightError) {
	args := m.Called(family, cfg, metricData)
	var samples []ml_model.TrainingSample
	if args.Get(0) != nil {
		samples = args.Get(0).([]ml_model.TrainingSample)
	}
	if args.Get(1) != nil {
		return samples, args.Get(1).(foresightErrors.ForesightError)
	}
	return samples, nil
}
