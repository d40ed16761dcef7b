/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/labstack/echo/v4"

	"foresight/ml-prediction-service/internal/forecast"
	"foresight/ml-prediction-service/internal/recommendation"
	"foresight/ml-prediction-service/internal/registry"
)

const (
	BasePath = "/api/v3/ml_prediction"

	ModelsPath     = BasePath + "/models"
	ModelByIdPath  = ModelsPath + "/:modelId"
	TrainModelPath = ModelByIdPath + "/train"
	PredictPath    = ModelByIdPath + "/predict"

	RulesPath    = BasePath + "/rules"
	RuleByIdPath = RulesPath + "/:ruleId"

	RecommendationsPath         = BasePath + "/recommendations"
	RecommendationsByMetricPath = RecommendationsPath + "/metric/:metric"
	TopRecommendationsPath      = RecommendationsPath + "/top"
)

type Router struct {
	echo          *echo.Echo
	modelRegistry registry.ModelRegistryInterface
	forecaster    forecast.ForecastingEngineInterface
	ruleEngine    recommendation.RuleEngineInterface
	lc            logger.LoggingClient
}

func NewRouter(
	e *echo.Echo,
	modelRegistry registry.ModelRegistryInterface,
	forecaster forecast.ForecastingEngineInterface,
	ruleEngine recommendation.RuleEngineInterface,
	lc logger.LoggingClient,
) *Router {
	r := Router{
		echo:          e,
		modelRegistry: modelRegistry,
		forecaster:    forecaster,
		ruleEngine:    ruleEngine,
		lc:            lc,
	}
	return &r
}

func (r *Router) LoadRestRoutes() {
	r.addModelRoutes()
	r.addRuleRoutes()
	r.addRecommendationRoutes()
}

func (r *Router) addModelRoutes() {
	r.echo.GET(ModelsPath, func(c echo.Context) error {
		return toEchoError(r.getModels(c))
	})
	r.echo.GET(ModelByIdPath, func(c echo.Context) error {
		return toEchoError(r.getModel(c))
	})
	r.echo.POST(TrainModelPath, func(c echo.Context) error {
		return toEchoError(r.trainModel(c))
	})
	r.echo.POST(PredictPath, func(c echo.Context) error {
		return toEchoError(r.predict(c))
	})
}

func (r *Router) addRuleRoutes() {
	r.echo.GET(RulesPath, func(c echo.Context) error {
		return toEchoError(r.getRules(c))
	})
	r.echo.GET(RuleByIdPath, func(c echo.Context) error {
		return toEchoError(r.getRule(c))
	})
	r.echo.POST(RulesPath, func(c echo.Context) error {
		return toEchoError(r.addRule(c))
	})
	r.echo.PUT(RuleByIdPath, func(c echo.Context) error {
		return toEchoError(r.updateRule(c))
	})
	r.echo.DELETE(RuleByIdPath, func(c echo.Context) error {
		return toEchoError(r.deleteRule(c))
	})
}

func (r *Router) addRecommendationRoutes() {
	r.echo.GET(RecommendationsPath, func(c echo.Context) error {
		return toEchoError(r.getRecommendations(c))
	})
	r.echo.GET(RecommendationsByMetricPath, func(c echo.Context) error {
		return toEchoError(r.getRecommendationsForMetric(c))
	})
	r.echo.GET(TopRecommendationsPath, func(c echo.Context) error {
		return toEchoError(r.getTopRecommendations(c))
	})
}

// toEchoError keeps the handlers' typed *echo.HTTPError signature while
// satisfying echo's plain error HandlerFunc contract.
func toEchoError(err *echo.HTTPError) error {
	if err == nil {
		return nil
	}
	return err
}
