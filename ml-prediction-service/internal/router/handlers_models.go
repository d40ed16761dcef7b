/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

type predictRequest struct {
	Metric  string             `json:"metric"`
	Horizon string             `json:"horizon"`
	Context map[string]float64 `json:"context,omitempty"`
}

type trainModelResponse struct {
	ModelId string `json:"modelId"`
	Trained bool   `json:"trained"`
}

func (r *Router) getModels(c echo.Context) *echo.HTTPError {
	_ = c.JSON(http.StatusOK, r.modelRegistry.ListModels())
	return nil
}

func (r *Router) getModel(c echo.Context) *echo.HTTPError {
	modelId := c.Param("modelId")

	snapshot, err := r.modelRegistry.GetModel(modelId)
	if err != nil {
		return err.ConvertToHTTPError()
	}
	_ = c.JSON(http.StatusOK, snapshot)
	return nil
}

func (r *Router) trainModel(c echo.Context) *echo.HTTPError {
	modelId := c.Param("modelId")
	r.lc.Infof("Request to train model %s", modelId)

	if _, err := r.modelRegistry.GetModel(modelId); err != nil {
		return err.ConvertToHTTPError()
	}

	trained := r.modelRegistry.TrainModel(modelId)
	_ = c.JSON(http.StatusOK, trainModelResponse{ModelId: modelId, Trained: trained})
	return nil
}

func (r *Router) predict(c echo.Context) *echo.HTTPError {
	modelId := c.Param("modelId")

	var request predictRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&request); err != nil {
		r.lc.Errorf("Failed to decode predict request body: %v", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Error parsing request body")
	}
	if request.Metric == "" || request.Horizon == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "metric and horizon are required")
	}

	results, err := r.forecaster.Predict(modelId, request.Metric, request.Horizon, request.Context)
	if err != nil {
		return err.ConvertToHTTPError()
	}
	_ = c.JSON(http.StatusOK, results)
	return nil
}
