/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package recommendation

import (
	"fmt"
	"math"

	tdigest "github.com/caio/go-tdigest/v4"
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"foresight/ml-prediction-service/pkg/dto/data"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
	"foresight/ml-prediction-service/pkg/dto/rule"
)

// rawValueLookbackSecs bounds the "most recent raw value" reads done by
// the trend and anomaly evaluators (7 days).
const rawValueLookbackSecs = int64(7 * 24 * 3600)

var defaultTemplates = map[rule.RuleKind][2]string{
	rule.KindThreshold: {
		"Predicted {{metric}} of {{value}} crosses threshold {{threshold}}",
		"Review capacity for {{metric}} before {{horizon}} elapses",
	},
	rule.KindTrend: {
		"{{metric}} is trending {{direction}} by {{percentChange}}% over {{period}} days",
		"Investigate the driver behind the {{metric}} trend",
	},
	rule.KindAnomaly: {
		"{{metric}} value {{value}} deviates {{zScore}} standard deviations from its {{period}}-day mean {{mean}}",
		"Check {{metric}} for an unusual event",
	},
	rule.KindComparison: {
		"Predicted {{metric}} vs {{compareMetric}}: ratio {{ratio}}, difference {{difference}}",
		"Rebalance {{metric}} against {{compareMetric}}",
	},
}

func (engine *RuleEngine) evaluateRule(r rule.RecommendationRule) ([]rule.Recommendation, error) {
	switch r.Kind {
	case rule.KindThreshold:
		return engine.evaluateThreshold(r)
	case rule.KindTrend:
		return engine.evaluateTrend(r)
	case rule.KindAnomaly:
		return engine.evaluateAnomaly(r)
	case rule.KindComparison:
		return engine.evaluateComparison(r)
	default:
		return nil, fmt.Errorf("rule %s has unknown kind %s", r.Id, r.Kind)
	}
}

func (engine *RuleEngine) evaluateThreshold(r rule.RecommendationRule) ([]rule.Recommendation, error) {
	threshold, err := requiredFloatParam(r, "threshold")
	if err != nil {
		return nil, err
	}
	operator, err := requiredStringParam(r, "operator")
	if err != nil {
		return nil, err
	}
	modelId, err := requiredStringParam(r, "modelId")
	if err != nil {
		return nil, err
	}
	horizon, err := requiredStringParam(r, "horizon")
	if err != nil {
		return nil, err
	}

	predictions, predictErr := engine.forecaster.Predict(modelId, r.Metric, horizon, nil)
	if predictErr != nil {
		return nil, predictErr
	}

	var recommendations []rule.Recommendation
	for _, prediction := range predictions {
		holds, cmpErr := compareValues(prediction.Value, operator, threshold)
		if cmpErr != nil {
			return nil, cmpErr
		}
		if !holds {
			continue
		}
		variables := map[string]interface{}{
			"metric":    r.Metric,
			"value":     prediction.Value,
			"threshold": threshold,
			"operator":  operator,
			"horizon":   horizon,
		}
		recommendations = append(recommendations, engine.buildRecommendation(r, variables, rule.Recommendation{
			Metric:     r.Metric,
			Timestamp:  prediction.Timestamp,
			Value:      prediction.Value,
			Threshold:  &threshold,
			Confidence: prediction.Confidence,
			Metadata: map[string]interface{}{
				"prediction": prediction,
				"parameters": r.Parameters,
			},
		}))
	}
	return recommendations, nil
}

func (engine *RuleEngine) evaluateTrend(r rule.RecommendationRule) ([]rule.Recommendation, error) {
	direction, err := requiredStringParam(r, "direction")
	if err != nil {
		return nil, err
	}
	if direction != "up" && direction != "down" {
		return nil, fmt.Errorf("rule %s: direction must be up or down, got %q", r.Id, direction)
	}
	minChange, err := requiredFloatParam(r, "minChange")
	if err != nil {
		return nil, err
	}
	period, err := requiredIntParam(r, "period")
	if err != nil {
		return nil, err
	}
	modelId, err := requiredStringParam(r, "modelId")
	if err != nil {
		return nil, err
	}

	nearTerm, predictErr := engine.forecaster.Predict(modelId, r.Metric, "1d", nil)
	if predictErr != nil {
		return nil, predictErr
	}
	farTerm, predictErr := engine.forecaster.Predict(modelId, r.Metric, fmt.Sprintf("%dd", period), nil)
	if predictErr != nil {
		return nil, predictErr
	}
	if len(farTerm) == 0 {
		return nil, nil
	}

	latest, found, obsErr := engine.metricSource.LatestObservation(r.Metric, rawValueLookbackSecs)
	if obsErr != nil {
		return nil, obsErr
	}
	if !found || latest.Value == 0 {
		return nil, nil
	}

	future := farTerm[len(farTerm)-1]
	percentChange := (future.Value - latest.Value) / latest.Value * 100

	triggered := (direction == "up" && percentChange >= minChange) ||
		(direction == "down" && percentChange <= -minChange)
	if !triggered {
		return nil, nil
	}

	variables := map[string]interface{}{
		"metric":        r.Metric,
		"direction":     direction,
		"percentChange": percentChange,
		"period":        period,
		"current":       latest.Value,
		"future":        future.Value,
	}
	recommendation := engine.buildRecommendation(r, variables, rule.Recommendation{
		Metric:     r.Metric,
		Timestamp:  future.Timestamp,
		Value:      future.Value,
		Confidence: future.Confidence,
		Metadata: map[string]interface{}{
			"current":        latest.Value,
			"percentChange":  percentChange,
			"nearTerm":       nearTerm,
			"farPrediction":  future,
			"parameters":     r.Parameters,
		},
	})
	return []rule.Recommendation{recommendation}, nil
}

func (engine *RuleEngine) evaluateAnomaly(r rule.RecommendationRule) ([]rule.Recommendation, error) {
	deviationThreshold, err := requiredFloatParam(r, "deviationThreshold")
	if err != nil {
		return nil, err
	}
	period, err := requiredIntParam(r, "period")
	if err != nil {
		return nil, err
	}

	end := engine.now().Unix()
	observations, obsErr := engine.metricSource.GetMetricData(r.Metric, end-int64(period)*24*3600, end)
	if obsErr != nil {
		return nil, obsErr
	}
	if len(observations) < 2 {
		return nil, nil
	}

	mean, stdDev := populationStats(observations)
	if stdDev == 0 {
		// constant series, a z-score is undefined
		return nil, nil
	}

	current := observations[0]
	for _, obs := range observations[1:] {
		if obs.Timestamp > current.Timestamp {
			current = obs
		}
	}
	zScore := math.Abs(current.Value-mean) / stdDev
	if zScore < deviationThreshold {
		return nil, nil
	}

	digest, digestErr := tdigest.New()
	if digestErr == nil {
		for _, obs := range observations {
			_ = digest.Add(obs.Value)
		}
	}

	variables := map[string]interface{}{
		"metric": r.Metric,
		"value":  current.Value,
		"zScore": zScore,
		"mean":   mean,
		"stdDev": stdDev,
		"period": period,
	}
	metadata := map[string]interface{}{
		"mean":       mean,
		"stdDev":     stdDev,
		"zScore":     zScore,
		"parameters": r.Parameters,
	}
	if digestErr == nil {
		metadata["median"] = digest.Quantile(0.5)
	}
	recommendation := engine.buildRecommendation(r, variables, rule.Recommendation{
		Metric:     r.Metric,
		Timestamp:  current.Timestamp,
		Value:      current.Value,
		Confidence: 1 - deviationThreshold/zScore,
		Metadata:   metadata,
	})
	return []rule.Recommendation{recommendation}, nil
}

func (engine *RuleEngine) evaluateComparison(r rule.RecommendationRule) ([]rule.Recommendation, error) {
	compareMetric, err := requiredStringParam(r, "compareMetric")
	if err != nil {
		return nil, err
	}
	operator, err := requiredStringParam(r, "operator")
	if err != nil {
		return nil, err
	}
	threshold, err := requiredFloatParam(r, "threshold")
	if err != nil {
		return nil, err
	}
	modelId, err := requiredStringParam(r, "modelId")
	if err != nil {
		return nil, err
	}
	horizon, err := requiredStringParam(r, "horizon")
	if err != nil {
		return nil, err
	}

	predictions, predictErr := engine.forecaster.Predict(modelId, r.Metric, horizon, nil)
	if predictErr != nil {
		return nil, predictErr
	}
	comparePredictions, predictErr := engine.forecaster.Predict(modelId, compareMetric, horizon, nil)
	if predictErr != nil {
		return nil, predictErr
	}

	compareByTimestamp := make(map[int64]ml_model.PredictionResult, len(comparePredictions))
	for _, prediction := range comparePredictions {
		compareByTimestamp[prediction.Timestamp] = prediction
	}

	var recommendations []rule.Recommendation
	for _, prediction := range predictions {
		counterpart, matched := compareByTimestamp[prediction.Timestamp]
		if !matched {
			continue
		}
		difference := prediction.Value - counterpart.Value
		var ratio float64
		if counterpart.Value != 0 {
			ratio = prediction.Value / counterpart.Value
		}

		var holds bool
		switch operator {
		case "ratio>":
			// a ratio against zero is undefined, skip the pair
			if counterpart.Value == 0 {
				continue
			}
			holds = ratio > threshold
		case "ratio<":
			if counterpart.Value == 0 {
				continue
			}
			holds = ratio < threshold
		case "diff>":
			holds = difference > threshold
		case "diff<":
			holds = difference < threshold
		default:
			return nil, fmt.Errorf("rule %s has unknown comparison operator %q", r.Id, operator)
		}
		if !holds {
			continue
		}

		variables := map[string]interface{}{
			"metric":        r.Metric,
			"compareMetric": compareMetric,
			"ratio":         ratio,
			"difference":    difference,
			"threshold":     threshold,
		}
		recommendations = append(recommendations, engine.buildRecommendation(r, variables, rule.Recommendation{
			Metric:     r.Metric,
			Timestamp:  prediction.Timestamp,
			Value:      prediction.Value,
			Threshold:  &threshold,
			Confidence: math.Min(prediction.Confidence, counterpart.Confidence),
			Metadata: map[string]interface{}{
				"prediction":        prediction,
				"comparePrediction": counterpart,
				"ratio":             ratio,
				"difference":        difference,
				"parameters":        r.Parameters,
			},
		}))
	}
	return recommendations, nil
}

// buildRecommendation fills in the rule-derived fields and renders the
// message and suggestion templates.
func (engine *RuleEngine) buildRecommendation(
	r rule.RecommendationRule,
	variables map[string]interface{},
	base rule.Recommendation,
) rule.Recommendation {
	messageTemplate := optionalStringParam(r, "messageTemplate", defaultTemplates[r.Kind][0])
	suggestionTemplate := optionalStringParam(r, "suggestionTemplate", defaultTemplates[r.Kind][1])

	base.Id = uuid.NewString()
	base.RuleId = r.Id
	base.RuleName = r.Name
	base.Kind = r.Kind
	base.Priority = r.Priority
	base.Tags = r.Tags
	base.Message = renderTemplate(messageTemplate, variables)
	base.Suggestion = renderTemplate(suggestionTemplate, variables)
	return base
}

func compareValues(value float64, operator string, threshold float64) (bool, error) {
	switch operator {
	case ">":
		return value > threshold, nil
	case ">=":
		return value >= threshold, nil
	case "<":
		return value < threshold, nil
	case "<=":
		return value <= threshold, nil
	case "==":
		return value == threshold, nil
	case "!=":
		return value != threshold, nil
	default:
		return false, fmt.Errorf("unknown operator %q", operator)
	}
}

func populationStats(observations []data.Observation) (mean float64, stdDev float64) {
	for _, obs := range observations {
		mean += obs.Value
	}
	mean /= float64(len(observations))
	for _, obs := range observations {
		d := obs.Value - mean
		stdDev += d * d
	}
	stdDev = math.Sqrt(stdDev / float64(len(observations)))
	return mean, stdDev
}

func requiredFloatParam(r rule.RecommendationRule, name string) (float64, error) {
	raw, exists := r.Parameters[name]
	if !exists {
		return 0, fmt.Errorf("rule %s is missing parameter %s", r.Id, name)
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("rule %s parameter %s: %v", r.Id, name, err)
	}
	return value, nil
}

func requiredIntParam(r rule.RecommendationRule, name string) (int, error) {
	raw, exists := r.Parameters[name]
	if !exists {
		return 0, fmt.Errorf("rule %s is missing parameter %s", r.Id, name)
	}
	value, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("rule %s parameter %s: %v", r.Id, name, err)
	}
	return value, nil
}

func requiredStringParam(r rule.RecommendationRule, name string) (string, error) {
	raw, exists := r.Parameters[name]
	if !exists {
		return "", fmt.Errorf("rule %s is missing parameter %s", r.Id, name)
	}
	value, err := cast.ToStringE(raw)
	if err != nil || value == "" {
		return "", fmt.Errorf("rule %s parameter %s must be a non-empty string", r.Id, name)
	}
	return value, nil
}

func optionalStringParam(r rule.RecommendationRule, name string, fallback string) string {
	raw, exists := r.Parameters[name]
	if !exists {
		return fallback
	}
	value, err := cast.ToStringE(raw)
	if err != nil || value == "" {
		return fallback
	}
	return value
}
