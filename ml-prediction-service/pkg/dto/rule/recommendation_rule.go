/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package rule

type RuleKind string

const (
	KindThreshold  RuleKind = "threshold"
	KindTrend      RuleKind = "trend"
	KindAnomaly    RuleKind = "anomaly"
	KindComparison RuleKind = "comparison"
)

// RecommendationRule is an operator-configured rule evaluated against
// forecasts and/or raw metrics. Parameters are kind-specific:
//
//	threshold:  threshold, operator (> >= < <= == !=), modelId, horizon
//	trend:      direction (up|down), minChange, period, modelId
//	anomaly:    deviationThreshold, period
//	comparison: compareMetric, operator (ratio> ratio< diff> diff<), threshold, modelId, horizon
type RecommendationRule struct {
	Id          string                 `json:"id"`
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description"`
	Kind        RuleKind               `json:"kind" validate:"required,oneof=threshold trend anomaly comparison"`
	Metric      string                 `json:"metric" validate:"required"`
	Parameters  map[string]interface{} `json:"parameters" validate:"required"`
	Enabled     bool                   `json:"enabled"`
	Priority    int                    `json:"priority"`
	Tags        []string               `json:"tags,omitempty"`
}

// HasAnyTag reports whether the rule carries at least one of the given tags.
func (r RecommendationRule) HasAnyTag(tags []string) bool {
	for _, wanted := range tags {
		for _, tag := range r.Tags {
			if tag == wanted {
				return true
			}
		}
	}
	return false
}

// Recommendation is one ranked, human-readable finding produced by the
// rule engine. Metadata echoes the triggering predictions and parameters.
type Recommendation struct {
	Id         string                 `json:"id"`
	RuleId     string                 `json:"ruleId"`
	RuleName   string                 `json:"ruleName"`
	Kind       RuleKind               `json:"kind"`
	Metric     string                 `json:"metric"`
	Timestamp  int64                  `json:"timestamp"`
	Value      float64                `json:"value"`
	Threshold  *float64               `json:"threshold,omitempty"`
	Confidence float64                `json:"confidence"`
	Message    string                 `json:"message"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Priority   int                    `json:"priority"`
	Tags       []string               `json:"tags,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
