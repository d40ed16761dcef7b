/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package db

import (
	"errors"
)

const (
	// ML related redis storage keys
	MLPredictionModel = "fs:ml:model"
	MLRecommendRule   = "fs:ml:rule"
)

var (
	ErrNotFound = errors.New("Item not found")
)

type DatabaseConfig struct {
	RedisHost     string
	RedisPort     string
	RedisName     string
	RedisUsername string
	RedisPassword string
}

func NewDatabaseConfig() *DatabaseConfig {
	dbConfig := new(DatabaseConfig)
	return dbConfig
}
