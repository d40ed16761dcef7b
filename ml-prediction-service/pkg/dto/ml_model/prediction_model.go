/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package ml_model

type ModelFamily string

const (
	FamilyTimeseries     ModelFamily = "timeseries"
	FamilyRegression     ModelFamily = "regression"
	FamilyClassification ModelFamily = "classification"
)

// ClassRange maps a continuous target value onto a class. Ranges are
// checked in declaration order and the first match wins, so an exact
// boundary value belongs to the earlier class.
type ClassRange struct {
	Name string  `json:"name" validate:"required"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type HyperParameters struct {
	Epochs       int     `json:"epochs,omitempty"`
	BatchSize    int     `json:"batchSize,omitempty"`
	LearningRate float64 `json:"learningRate,omitempty"`
	HiddenUnits  int     `json:"hiddenUnits,omitempty"`
	Layers       int     `json:"layers,omitempty"`
}

// ModelConfig carries the family-specific parameters of a prediction model.
type ModelConfig struct {
	WindowSize     int             `json:"windowSize,omitempty"`
	FeatureMetrics []string        `json:"featureMetrics,omitempty"`
	TargetMetric   string          `json:"targetMetric,omitempty"`
	Classes        []ClassRange    `json:"classes,omitempty"`
	Hyper          HyperParameters `json:"hyperParameters,omitempty"`
}

// PredictionModelDefinition is the static, operator-supplied part of a model.
// The registry turns each definition into a live PredictionModel at startup.
type PredictionModelDefinition struct {
	Id            string      `json:"id" validate:"required" toml:"Id"`
	Name          string      `json:"name" validate:"required" toml:"Name"`
	Family        ModelFamily `json:"family" validate:"required,oneof=timeseries regression classification" toml:"Family"`
	Version       string      `json:"version" toml:"Version"`
	TargetMetrics []string    `json:"targetMetrics" validate:"required,min=1" toml:"TargetMetrics"`
	Config        ModelConfig `json:"config" toml:"Config"`
}

// ModelSnapshot is the externally visible view of a PredictionModel. The
// trained artifact never leaves the registry.
type ModelSnapshot struct {
	Id            string      `json:"id"`
	Name          string      `json:"name"`
	Family        ModelFamily `json:"family"`
	Version       string      `json:"version"`
	TargetMetrics []string    `json:"targetMetrics"`
	Config        ModelConfig `json:"config"`
	Trained       bool        `json:"trained"`
	LastTrainedAt int64       `json:"lastTrainedAt,omitempty"`
	Accuracy      *float64    `json:"accuracy,omitempty"`
}

// TrainingMetadata is the per-model training state persisted in redis.
type TrainingMetadata struct {
	ModelId       string   `json:"modelId"`
	LastTrainedAt int64    `json:"lastTrainedAt"`
	Accuracy      *float64 `json:"accuracy,omitempty"`
}

// TrainingSample is one (features, target) pair produced by the training
// data pipeline. For classification the target holds the class index.
type TrainingSample struct {
	Features []float64
	Target   float64
}

// PredictionResult is one dated prediction. Immutable once created.
type PredictionResult struct {
	ModelId      string                 `json:"modelId"`
	ModelName    string                 `json:"modelName"`
	ModelFamily  ModelFamily            `json:"modelFamily"`
	ModelVersion string                 `json:"modelVersion"`
	Timestamp    int64                  `json:"timestamp"`
	Metric       string                 `json:"metric"`
	Value        float64                `json:"value"`
	Confidence   float64                `json:"confidence"`
	Horizon      string                 `json:"horizon"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}
