/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package data

// Observation is a single time-stamped metric value. Timestamp is unix
// seconds; ordering is up to the consumer.
type Observation struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// TimeSeriesResponse matches the query_range payload of a
// Prometheus-compatible metric store.
type TimeSeriesResponse struct {
	Status string         `json:"status"`
	Data   TimeSeriesData `json:"data"`
}

type TimeSeriesData struct {
	ResultType string             `json:"resultType"`
	Result     []TimeSeriesResult `json:"result"`
}

type TimeSeriesResult struct {
	Metric map[string]string `json:"metric"`
	// Each element is [unixSeconds, "value"]
	Values [][]interface{} `json:"values"`
}
