/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package recommendation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/go-playground/validator/v10"
	"github.com/lithammer/shortuuid/v3"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"foresight/common/cache"
	foresightErrors "foresight/common/errors"
	"foresight/common/telemetry"
	"foresight/ml-prediction-service/internal/forecast"
	redisDB "foresight/ml-prediction-service/pkg/db/redis"
	"foresight/ml-prediction-service/pkg/dto/rule"
	"foresight/ml-prediction-service/pkg/metricsource"
)

const recommendationCacheTTL = time.Hour

type RuleEngineInterface interface {
	LoadRules()
	ListRules() []rule.RecommendationRule
	GetRule(ruleId string) (rule.RecommendationRule, foresightErrors.ForesightError)
	AddRule(r rule.RecommendationRule) (rule.RecommendationRule, foresightErrors.ForesightError)
	UpdateRule(ruleId string, r rule.RecommendationRule) (rule.RecommendationRule, foresightErrors.ForesightError)
	// DeleteRule reports whether a rule was actually removed.
	DeleteRule(ruleId string) bool

	// GenerateRecommendations never fails; rules that cannot be evaluated
	// contribute nothing.
	GenerateRecommendations(tags []string) []rule.Recommendation
	GetRecommendationsForMetric(metric string) []rule.Recommendation
	GetRecommendationsByTags(tags []string) []rule.Recommendation
	GetTopRecommendations(limit int) []rule.Recommendation
}

type RuleEngine struct {
	rulesMutex   sync.RWMutex
	rules        []rule.RecommendationRule
	forecaster   forecast.ForecastingEngineInterface
	metricSource metricsource.MetricSource
	resultCache  cache.Cache
	dbClient     redisDB.MLDbInterface
	telemetry    *telemetry.Telemetry
	validate     *validator.Validate
	lc           logger.LoggingClient
	now          func() time.Time
}

func NewRuleEngine(
	forecaster forecast.ForecastingEngineInterface,
	metricSource metricsource.MetricSource,
	resultCache cache.Cache,
	dbClient redisDB.MLDbInterface,
	serviceTelemetry *telemetry.Telemetry,
	lc logger.LoggingClient,
) *RuleEngine {
	engine := RuleEngine{
		forecaster:   forecaster,
		metricSource: metricSource,
		resultCache:  resultCache,
		dbClient:     dbClient,
		telemetry:    serviceTelemetry,
		validate:     validator.New(),
		lc:           lc,
		now:          time.Now,
	}
	return &engine
}

// LoadRules restores persisted rules at startup. A failed load leaves the
// engine empty; rules can still be added at runtime.
func (engine *RuleEngine) LoadRules() {
	rules, err := engine.dbClient.GetAllRules()
	if err != nil {
		engine.lc.Warnf("could not load recommendation rules: %v", err)
		return
	}
	// persisted order is undefined, keep the collection stable by name
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })

	engine.rulesMutex.Lock()
	engine.rules = rules
	engine.rulesMutex.Unlock()
	engine.lc.Infof("loaded %d recommendation rules", len(rules))
}

func (engine *RuleEngine) ListRules() []rule.RecommendationRule {
	engine.rulesMutex.RLock()
	defer engine.rulesMutex.RUnlock()
	return slices.Clone(engine.rules)
}

func (engine *RuleEngine) GetRule(ruleId string) (rule.RecommendationRule, foresightErrors.ForesightError) {
	engine.rulesMutex.RLock()
	defer engine.rulesMutex.RUnlock()

	for _, r := range engine.rules {
		if r.Id == ruleId {
			return r, nil
		}
	}
	return rule.RecommendationRule{}, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeNotFound,
		fmt.Sprintf("rule %s not found", ruleId))
}

func (engine *RuleEngine) AddRule(r rule.RecommendationRule) (rule.RecommendationRule, foresightErrors.ForesightError) {
	if err := engine.validate.Struct(r); err != nil {
		return rule.RecommendationRule{}, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeBadRequest,
			fmt.Sprintf("invalid rule: %v", err))
	}
	if r.Id == "" {
		r.Id = shortuuid.New()
	}

	engine.rulesMutex.Lock()
	defer engine.rulesMutex.Unlock()

	for _, existing := range engine.rules {
		if existing.Id == r.Id {
			return rule.RecommendationRule{}, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeConflict,
				fmt.Sprintf("rule %s already exists", r.Id))
		}
	}
	if err := engine.dbClient.AddRule(r); err != nil {
		return rule.RecommendationRule{}, err
	}
	engine.rules = append(engine.rules, r)
	return r, nil
}

// UpdateRule replaces the stored rule wholesale, keeping the path id.
func (engine *RuleEngine) UpdateRule(ruleId string, r rule.RecommendationRule) (rule.RecommendationRule, foresightErrors.ForesightError) {
	r.Id = ruleId
	if err := engine.validate.Struct(r); err != nil {
		return rule.RecommendationRule{}, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeBadRequest,
			fmt.Sprintf("invalid rule: %v", err))
	}

	engine.rulesMutex.Lock()
	defer engine.rulesMutex.Unlock()

	for i, existing := range engine.rules {
		if existing.Id != ruleId {
			continue
		}
		if err := engine.dbClient.UpdateRule(r); err != nil {
			return rule.RecommendationRule{}, err
		}
		engine.rules[i] = r
		return r, nil
	}
	return rule.RecommendationRule{}, foresightErrors.NewCommonForesightError(foresightErrors.ErrorTypeNotFound,
		fmt.Sprintf("rule %s not found", ruleId))
}

func (engine *RuleEngine) DeleteRule(ruleId string) bool {
	engine.rulesMutex.Lock()
	defer engine.rulesMutex.Unlock()

	for i, existing := range engine.rules {
		if existing.Id != ruleId {
			continue
		}
		if err := engine.dbClient.DeleteRule(ruleId); err != nil {
			engine.lc.Errorf("could not delete rule %s: %v", ruleId, err)
			return false
		}
		engine.rules = append(engine.rules[:i], engine.rules[i+1:]...)
		return true
	}
	return false
}

// GenerateRecommendations evaluates every enabled rule (optionally
// filtered by tags) concurrently, then ranks the combined output by
// priority. Partial results beat no results, so evaluator failures are
// logged and skipped.
func (engine *RuleEngine) GenerateRecommendations(tags []string) []rule.Recommendation {
	cacheKey := buildRecommendationCacheKey(tags)
	if cached, hit := engine.resultCache.Get(cacheKey); hit {
		var recommendations []rule.Recommendation
		if err := json.Unmarshal([]byte(cached), &recommendations); err == nil {
			return recommendations
		}
		engine.resultCache.Delete(cacheKey)
	}

	selected := engine.selectRules(tags)

	// evaluation fans out, but output slots keep rule order so the final
	// priority sort stays deterministic
	perRule := make([][]rule.Recommendation, len(selected))
	var group errgroup.Group
	for i, r := range selected {
		group.Go(func() error {
			recommendations, err := engine.evaluateRule(r)
			if err != nil {
				engine.telemetry.RuleFailures.Inc(1)
				engine.lc.Errorf("rule %s (%s) evaluation failed for metric %s: %v", r.Id, r.Name, r.Metric, err)
				return nil
			}
			perRule[i] = recommendations
			return nil
		})
	}
	_ = group.Wait()

	var recommendations []rule.Recommendation
	for _, batch := range perRule {
		recommendations = append(recommendations, batch...)
	}
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority > recommendations[j].Priority
	})
	if recommendations == nil {
		recommendations = []rule.Recommendation{}
	}

	if payload, err := json.Marshal(recommendations); err == nil {
		engine.resultCache.Set(cacheKey, string(payload), recommendationCacheTTL)
	}
	engine.telemetry.RecommendationsGenerated.Inc(int64(len(recommendations)))
	return recommendations
}

func (engine *RuleEngine) GetRecommendationsForMetric(metric string) []rule.Recommendation {
	all := engine.GenerateRecommendations(nil)
	filtered := make([]rule.Recommendation, 0, len(all))
	for _, recommendation := range all {
		if recommendation.Metric == metric {
			filtered = append(filtered, recommendation)
		}
	}
	return filtered
}

func (engine *RuleEngine) GetRecommendationsByTags(tags []string) []rule.Recommendation {
	return engine.GenerateRecommendations(tags)
}

func (engine *RuleEngine) GetTopRecommendations(limit int) []rule.Recommendation {
	all := engine.GenerateRecommendations(nil)
	if limit < 0 {
		limit = 0
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func (engine *RuleEngine) selectRules(tags []string) []rule.RecommendationRule {
	engine.rulesMutex.RLock()
	defer engine.rulesMutex.RUnlock()

	selected := make([]rule.RecommendationRule, 0, len(engine.rules))
	for _, r := range engine.rules {
		if !r.Enabled {
			continue
		}
		if len(tags) > 0 && !r.HasAnyTag(tags) {
			continue
		}
		selected = append(selected, r)
	}
	return selected
}

func buildRecommendationCacheKey(tags []string) string {
	if len(tags) == 0 {
		return "recommendations|all"
	}
	sorted := slices.Clone(tags)
	sort.Strings(sorted)
	return "recommendations|" + strings.Join(sorted, ",")
}
