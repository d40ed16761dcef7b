/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"os"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pelletier/go-toml"

	"foresight/common/db"
	"foresight/ml-prediction-service/pkg/dto/ml_model"
)

// MLPredictionConfig: configuration for the ML prediction service.
type MLPredictionConfig struct {
	ServicePort              int    `toml:"ServicePort"`
	LogLevel                 string `toml:"LogLevel"`
	MetricStoreURL           string `toml:"MetricStoreURL"`
	ModelStorageDir          string `toml:"ModelStorageDir"`
	ResultCacheTTLSecs       int64  `toml:"ResultCacheTTLSecs"`
	MetricReportIntervalSecs int64  `toml:"MetricReportIntervalSecs"`

	Redis db.DatabaseConfig `toml:"Redis"`

	Models []ml_model.PredictionModelDefinition `toml:"Models"`
}

func NewMLPredictionConfig() *MLPredictionConfig {
	cfg := new(MLPredictionConfig)
	cfg.ServicePort = 48096
	cfg.LogLevel = "INFO"
	cfg.MetricStoreURL = "http://foresight-victoria-metrics:8428/api/v1"
	cfg.ModelStorageDir = "/tmp/foresight/models"
	cfg.ResultCacheTTLSecs = 3600
	cfg.MetricReportIntervalSecs = 300
	cfg.Redis.RedisHost = "localhost"
	cfg.Redis.RedisPort = "6379"
	return cfg
}

// LoadFromFile overlays the TOML configuration file on the defaults and
// then applies environment overrides for deployment-specific settings.
func (cfg *MLPredictionConfig) LoadFromFile(configFile string, lc logger.LoggingClient) error {
	tree, err := toml.LoadFile(configFile)
	if err != nil {
		lc.Errorf("error reading configuration file %s: %v", configFile, err)
		return err
	}
	if err = tree.Unmarshal(cfg); err != nil {
		lc.Errorf("error parsing configuration file %s: %v", configFile, err)
		return err
	}

	cfg.applyEnvOverrides()

	lc.Infof("MetricStoreURL : %s", cfg.MetricStoreURL)
	lc.Infof("ModelStorageDir : %s", cfg.ModelStorageDir)
	lc.Infof("RedisHost : %s, RedisPort : %s", cfg.Redis.RedisHost, cfg.Redis.RedisPort)
	lc.Infof("configured models : %d", len(cfg.Models))
	return nil
}

func (cfg *MLPredictionConfig) applyEnvOverrides() {
	if v := os.Getenv("METRIC_STORE_URL"); v != "" {
		cfg.MetricStoreURL = v
	}
	if v := os.Getenv("MODEL_STORAGE_DIR"); v != "" {
		cfg.ModelStorageDir = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.RedisHost = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		cfg.Redis.RedisPort = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.RedisPassword = v
	}
}
