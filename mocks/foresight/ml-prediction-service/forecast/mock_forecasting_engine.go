package forecast

import (
	"github.com/stretchr/testify/mock"

	foresightErrors "foresight/common/errors"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
)

// MockForecastingEngine is a mock implementation for the ForecastingEngineInterface
type MockForecastingEngine struct {
	mock.Mock
}

func (m *MockForecastingEngine) Predict(modelId string, metric string, horizon string, context map[string]float64) ([]ml_model.PredictionResult, foresightErrors.ForesightError) {
	args := m.Called(modelId, metric, horizon, context)
	var results []ml_model.PredictionResult
	if args.Get(0) != nil {
		results = args.Get(0).([]ml_model.PredictionResult)
	}
	if args.Get(1) != nil {
		return results, args.Get(1).(foresightErrors.ForesightError)
	}
	return results, nil
}
