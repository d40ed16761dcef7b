package metricsource

import (
	"github.com/stretchr/testify/mock"

	"foresight/ml-prediction-service/pkg/dto/data"
)

// MockMetricSource is a mock implementation for the MetricSource interface
type MockMetricSource struct {
	mock.Mock
}

func (m *MockMetricSource) GetMetricData(metric string, start int64, end int64) ([]data.Observation, error) {
	args := m.Called(metric, start, end)
	var observations []data.Observation
	if args.Get(0) != nil {
		observations = args.Get(0).([]data.Observation)
	}
	return observations, args.Error(1)
}

func (m *MockMetricSource) GetMultiMetricData(metrics []string, start int64, end int64) (map[string][]data.Observation, error) {
	args := m.Called(metrics, start, end)
	var byMetric map[string][]data.Observation
	if args.Get(0) != nil {
		byMetric = args.Get(0).(map[string][]data.Observation)
	}
	return byMetric, args.Error(1)
}

func (m *MockMetricSource) LatestObservation(metric string, lookbackSecs int64) (data.Observation, bool, error) {
	args := m.Called(metric, lookbackSecs)
	var latest data.Observation
	if args.Get(0) != nil {
		latest = args.Get(0).(data.Observation)
	}
	return latest, args.Bool(1), args.Error(2)
}
