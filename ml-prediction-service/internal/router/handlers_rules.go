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

	"foresight/ml-prediction-service/pkg/dto/rule"
)

func (r *Router) getRules(c echo.Context) *echo.HTTPError {
	_ = c.JSON(http.StatusOK, r.ruleEngine.ListRules())
	return nil
}

func (r *Router) getRule(c echo.Context) *echo.HTTPError {
	ruleId := c.Param("ruleId")

	found, err := r.ruleEngine.GetRule(ruleId)
	if err != nil {
		return err.ConvertToHTTPError()
	}
	_ = c.JSON(http.StatusOK, found)
	return nil
}

func (r *Router) addRule(c echo.Context) *echo.HTTPError {
	var newRule rule.RecommendationRule
	if err := json.NewDecoder(c.Request().Body).Decode(&newRule); err != nil {
		r.lc.Errorf("Failed to decode rule body: %v", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Error parsing request body")
	}

	added, err := r.ruleEngine.AddRule(newRule)
	if err != nil {
		return err.ConvertToHTTPError()
	}
	r.lc.Infof("Added recommendation rule %s (%s)", added.Id, added.Name)
	_ = c.JSON(http.StatusCreated, added)
	return nil
}

func (r *Router) updateRule(c echo.Context) *echo.HTTPError {
	ruleId := c.Param("ruleId")

	var updatedRule rule.RecommendationRule
	if err := json.NewDecoder(c.Request().Body).Decode(&updatedRule); err != nil {
		r.lc.Errorf("Failed to decode rule body: %v", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Error parsing request body")
	}

	updated, err := r.ruleEngine.UpdateRule(ruleId, updatedRule)
	if err != nil {
		return err.ConvertToHTTPError()
	}
	_ = c.JSON(http.StatusOK, updated)
	return nil
}

func (r *Router) deleteRule(c echo.Context) *echo.HTTPError {
	ruleId := c.Param("ruleId")

	if !r.ruleEngine.DeleteRule(ruleId) {
		return echo.NewHTTPError(http.StatusNotFound, "Rule "+ruleId+" not found")
	}
	r.lc.Infof("Deleted recommendation rule %s", ruleId)
	_ = c.NoContent(http.StatusNoContent)
	return nil
}
