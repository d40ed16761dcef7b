package recommendation

import (
	"github.com/stretchr/testify/mock"

	foresightErrors "foresight/common/errors"
	"foresight/ml-prediction-service/pkg/dto/rule"
)

// MockRuleEngine is a mock implementation for the RuleEngineInterface
type MockRuleEngine struct {
	mock.Mock
}

func (m *MockRuleEngine) LoadRules() {
	m.Called()
}

func (m *MockRuleEngine) ListRules() []rule.RecommendationRule {
	args := m.Called()
	var rules []rule.RecommendationRule
	if args.Get(0) != nil {
		rules = args.Get(0).([]rule.RecommendationRule)
	}
	return rules
}

func (m *MockRuleEngine) GetRule(ruleId string) (rule.RecommendationRule, foresightErrors.ForesightError) {
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

func (m *MockRuleEngine) AddRule(r rule.RecommendationRule) (rule.RecommendationRule, foresightErrors.ForesightError) {
	args := m.Called(r)
	var added rule.RecommendationRule
	if args.Get(0) != nil {
		added = args.Get(0).(rule.RecommendationRule)
	}
	if args.Get(1) != nil {
		return added, args.Get(1).(foresightErrors.ForesightError)
	}
	return added, nil
}

func (m *MockRuleEngine) UpdateRule(ruleId string, r rule.RecommendationRule) (rule.RecommendationRule, foresightErrors.ForesightError) {
	args := m.Called(ruleId, r)
	var updated rule.RecommendationRule
	if args.Get(0) != nil {
		updated = args.Get(0).(rule.RecommendationRule)
	}
	if args.Get(1) != nil {
		return updated, args.Get(1).(foresightErrors.ForesightError)
	}
	return updated, nil
}

func (m *MockRuleEngine) DeleteRule(ruleId string) bool {
	args := m.Called(ruleId)
	return args.Bool(0)
}

func (m *MockRuleEngine) GenerateRecommendations(tags []string) []rule.Recommendation {
	args := m.Called(tags)
	var recommendations []rule.Recommendation
	if args.Get(0) != nil {
		recommendations = args.Get(0).([]rule.Recommendation)
	}
	return recommendations
}

func (m *MockRuleEngine) GetRecommendationsForMetric(metric string) []rule.Recommendation {
	args := m.Called(metric)
	var recommendations []rule.Recommendation
	if args.Get(0) != nil {
		recommendations = args.Get(0).([]rule.Recommendation)
	}
	return recommendations
}

func (m *MockRuleEngine) GetRecommendationsByTags(tags []string) []rule.Recommendation {
	args := m.Called(tags)
	var recommendations []rule.Recommendation
	if args.Get(0) != nil {
		recommendations = args.Get(0).([]rule.Recommendation)
	}
	return recommendations
}

func (m *MockRuleEngine) GetTopRecommendations(limit int) []rule.Recommendation {
	args := m.Called(limit)
	var recommendations []rule.Recommendation
	if args.Get(0) != nil {
		recommendations = args.Get(0).([]rule.Recommendation)
	}
	return recommendations
}
