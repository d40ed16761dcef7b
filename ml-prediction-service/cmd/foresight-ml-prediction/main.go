/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"foresight/common/cache"
	"foresight/common/client"
	redisClient "foresight/common/db/redis"
	"foresight/common/service"
	"foresight/common/telemetry"
	"foresight/ml-prediction-service/internal/forecast"
	"foresight/ml-prediction-service/internal/recommendation"
	"foresight/ml-prediction-service/internal/registry"
	"foresight/ml-prediction-service/internal/router"
	"foresight/ml-prediction-service/internal/training"
	redisDB "foresight/ml-prediction-service/pkg/db/redis"
	appConfig "foresight/ml-prediction-service/pkg/dto/config"
	"foresight/ml-prediction-service/pkg/metricsource"
)

func main() {
	configFile := flag.String("config", "res/configuration.toml", "path to the service configuration file")
	flag.Parse()

	lc := logger.NewClient(client.ForesightMLPredictionServiceKey, "INFO")

	cfg := appConfig.NewMLPredictionConfig()
	if err := cfg.LoadFromFile(*configFile, lc); err != nil {
		lc.Errorf("starting with default configuration: %v", err)
	}
	lc = logger.NewClient(client.ForesightMLPredictionServiceKey, cfg.LogLevel)

	dbClient := redisClient.NewDBClient(&cfg.Redis, lc)
	defer dbClient.CloseSession()

	mlDbClient := redisDB.NewMLDbClient(dbClient)
	resultCache := cache.NewMemCache(time.Duration(cfg.ResultCacheTTLSecs) * time.Second)
	serviceTelemetry := telemetry.NewTelemetry(client.ForesightMLPredictionServiceName, lc)

	dataStoreProvider := service.NewDefaultDataStoreProvider(cfg.MetricStoreURL)
	metricSource := metricsource.NewMetricStoreClient(dataStoreProvider, &http.Client{Timeout: 30 * time.Second}, lc)

	pipeline := training.NewTrainingDataPipeline(lc)
	trainer := training.NewTrainer(mlDbClient, cfg.ModelStorageDir, lc)
	modelRegistry := registry.NewModelRegistry(cfg.Models, trainer, pipeline, metricSource,
		mlDbClient, cfg.ModelStorageDir, lc)
	modelRegistry.LoadTrainedModels()

	forecaster := forecast.NewForecastingEngine(modelRegistry, metricSource, resultCache, serviceTelemetry, lc)

	ruleEngine := recommendation.NewRuleEngine(forecaster, metricSource, resultCache,
		mlDbClient, serviceTelemetry, lc)
	ruleEngine.LoadRules()

	stopTelemetry := make(chan struct{})
	serviceTelemetry.Run(time.Duration(cfg.MetricReportIntervalSecs)*time.Second, stopTelemetry)
	defer close(stopTelemetry)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	restRouter := router.NewRouter(e, modelRegistry, forecaster, ruleEngine, lc)
	restRouter.LoadRestRoutes()

	go func() {
		address := fmt.Sprintf(":%d", cfg.ServicePort)
		lc.Infof("%s listening on %s", client.ForesightMLPredictionServiceName, address)
		if serveErr := e.Start(address); serveErr != nil && serveErr != http.ErrServerClosed {
			lc.Errorf("http server stopped: %v", serveErr)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	lc.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
		lc.Errorf("error during shutdown: %v", shutdownErr)
	}
}
