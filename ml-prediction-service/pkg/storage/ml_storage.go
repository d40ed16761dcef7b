/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package storage

import (
	"os"
	"path/filepath"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"
)

const modelFileName = "model.json"

// MLStorageInterface resolves where a model's trained artifact lives on
// the local filesystem.
type MLStorageInterface interface {
	GetModelDir() string
	GetModelFileName() string
	FileExists(filename string) bool
	EnsureModelDir() error
	RemoveModel() error
}

type MLStorage struct {
	baseLocalDirectory string
	modelId            string
	lc                 logger.LoggingClient
}

func NewMLStorage(baseLocalDirectory string, modelId string, lc logger.LoggingClient) MLStorageInterface {
	mlStorage := MLStorage{
		baseLocalDirectory: baseLocalDirectory,
		modelId:            modelId,
		lc:                 lc,
	}
	return &mlStorage
}

func (mlStorage *MLStorage) GetModelDir() string {
	return filepath.Join(mlStorage.baseLocalDirectory, mlStorage.modelId)
}

func (mlStorage *MLStorage) GetModelFileName() string {
	return filepath.Join(mlStorage.GetModelDir(), modelFileName)
}

func (mlStorage *MLStorage) FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	if err != nil {
		mlStorage.lc.Warnf("could not stat %s: %v", filename, err)
		return false
	}
	return !info.IsDir()
}

func (mlStorage *MLStorage) EnsureModelDir() error {
	if err := os.MkdirAll(mlStorage.GetModelDir(), 0o755); err != nil {
		return errors.Wrapf(err, "creating model directory %s", mlStorage.GetModelDir())
	}
	return nil
}

func (mlStorage *MLStorage) RemoveModel() error {
	if err := os.RemoveAll(mlStorage.GetModelDir()); err != nil {
		return errors.Wrapf(err, "removing model directory %s", mlStorage.GetModelDir())
	}
	return nil
}
