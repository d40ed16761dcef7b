/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

const defaultTopLimit = 10

func (r *Router) getRecommendations(c echo.Context) *echo.HTTPError {
	var tags []string
	if rawTags := c.QueryParam("tags"); rawTags != "" {
		tags = strings.Split(rawTags, ",")
	}
	_ = c.JSON(http.StatusOK, r.ruleEngine.GenerateRecommendations(tags))
	return nil
}

func (r *Router) getRecommendationsForMetric(c echo.Context) *echo.HTTPError {
	metric := c.Param("metric")
	_ = c.JSON(http.StatusOK, r.ruleEngine.GetRecommendationsForMetric(metric))
	return nil
}

func (r *Router) getTopRecommendations(c echo.Context) *echo.HTTPError {
	limit := defaultTopLimit
	if rawLimit := c.QueryParam("limit"); rawLimit != "" {
		parsed, err := cast.ToIntE(rawLimit)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = parsed
	}
	_ = c.JSON(http.StatusOK, r.ruleEngine.GetTopRecommendations(limit))
	return nil
}
