/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package metricsource

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/jellydator/ttlcache/v3"
	"github.com/spf13/cast"

	"foresight/common/client"
	"foresight/common/service"
	"foresight/ml-prediction-service/pkg/dto/data"
)

const (
	defaultStepSecs       int64 = 60
	latestValueCacheTTL         = 30 * time.Second
	maxRetryElapsedTime         = 15 * time.Second
)

// MetricSource supplies time-stamped observations for named metrics.
// Chronology of the returned sequence is unspecified; callers sort.
type MetricSource interface {
	GetMetricData(metric string, start int64, end int64) ([]data.Observation, error)
	GetMultiMetricData(metrics []string, start int64, end int64) (map[string][]data.Observation, error)
	LatestObservation(metric string, lookbackSecs int64) (data.Observation, bool, error)
}

// MetricStoreClient reads a Prometheus-compatible metric store through its
// query_range API.
type MetricStoreClient struct {
	dataStoreProvider service.DataStoreProvider
	httpClient        client.HTTPClient
	lc                logger.LoggingClient
	stepSecs          int64
	latestCache       *ttlcache.Cache[string, data.Observation]
}

func NewMetricStoreClient(dataStoreProvider service.DataStoreProvider, httpClient client.HTTPClient, lc logger.LoggingClient) *MetricStoreClient {
	msc := new(MetricStoreClient)
	msc.dataStoreProvider = dataStoreProvider
	msc.httpClient = httpClient
	msc.lc = lc
	msc.stepSecs = defaultStepSecs
	msc.latestCache = ttlcache.New[string, data.Observation](
		ttlcache.WithTTL[string, data.Observation](latestValueCacheTTL),
	)
	go msc.latestCache.Start()
	return msc
}

func (msc *MetricStoreClient) GetMetricData(metric string, start int64, end int64) ([]data.Observation, error) {
	byMetric, err := msc.queryRange(buildMetricQuery([]string{metric}), start, end)
	if err != nil {
		return nil, err
	}
	return byMetric[metric], nil
}

func (msc *MetricStoreClient) GetMultiMetricData(metrics []string, start int64, end int64) (map[string][]data.Observation, error) {
	return msc.queryRange(buildMetricQuery(metrics), start, end)
}

// LatestObservation returns the most recent observation for a metric over
// the given lookback window. Results are memoized briefly so that rule
// fan-out does not hammer the store for the same metric and window.
func (msc *MetricStoreClient) LatestObservation(metric string, lookbackSecs int64) (data.Observation, bool, error) {
	cacheKey := fmt.Sprintf("%s|%d", metric, lookbackSecs)
	if entry := msc.latestCache.Get(cacheKey); entry != nil {
		return entry.Value(), true, nil
	}

	end := time.Now().Unix()
	observations, err := msc.GetMetricData(metric, end-lookbackSecs, end)
	if err != nil {
		return data.Observation{}, false, err
	}
	if len(observations) == 0 {
		return data.Observation{}, false, nil
	}
	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Timestamp < observations[j].Timestamp
	})
	latest := observations[len(observations)-1]
	msc.latestCache.Set(cacheKey, latest, ttlcache.DefaultTTL)
	return latest, true, nil
}

// Builds the instant-vector selector without time range or base URL
func buildMetricQuery(metricNames []string) string {
	query := "{"
	query += " __name__=~\"" + strings.Join(metricNames, "|") + "\""
	query += "}"
	return query
}

func (msc *MetricStoreClient) queryRange(query string, start int64, end int64) (map[string][]data.Observation, error) {
	iotUrl := msc.dataStoreProvider.GetDataURL() + "/query_range"

	request, err := http.NewRequest("GET", iotUrl, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-type", "application/json")
	msc.dataStoreProvider.SetAuthHeader(request)
	q := request.URL.Query()
	q.Add("query", query)
	q.Add("step", strconv.FormatInt(msc.stepSecs, 10))
	q.Add("start", strconv.FormatInt(start, 10))
	q.Add("end", strconv.FormatInt(end, 10))
	request.URL.RawQuery = q.Encode()

	var timeSeriesResponse data.TimeSeriesResponse
	fetch := func() error {
		resp, err := msc.httpClient.Do(request)
		if err != nil {
			msc.lc.Errorf("error fetching data from data provider: error: %v", err)
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			msc.lc.Errorf("http status not 200 while fetching data: http Status: %d", resp.StatusCode)
			return fmt.Errorf("failed to fetch data, http status: %s", resp.Status)
		}
		if err = json.NewDecoder(resp.Body).Decode(&timeSeriesResponse); err != nil {
			msc.lc.Errorf("error decoding the body error: %v", err)
			return err
		}
		if timeSeriesResponse.Status == "error" {
			return fmt.Errorf("metric store reported query error for %s", query)
		}
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.MaxElapsedTime = maxRetryElapsedTime
	if err = backoff.Retry(fetch, expBackoff); err != nil {
		return nil, err
	}

	byMetric := make(map[string][]data.Observation)
	for _, result := range timeSeriesResponse.Data.Result {
		metricName := result.Metric["__name__"]
		for _, pair := range result.Values {
			if len(pair) != 2 {
				continue
			}
			ts, err := cast.ToInt64E(pair[0])
			if err != nil {
				// query_range timestamps may come back as float seconds
				tsFloat, floatErr := cast.ToFloat64E(pair[0])
				if floatErr != nil {
					msc.lc.Warnf("skipping sample with unusable timestamp %v for metric %s", pair[0], metricName)
					continue
				}
				ts = int64(tsFloat)
			}
			value, err := cast.ToFloat64E(pair[1])
			if err != nil {
				msc.lc.Warnf("skipping non-numeric sample %v for metric %s", pair[1], metricName)
				continue
			}
			byMetric[metricName] = append(byMetric[metricName], data.Observation{Timestamp: ts, Value: value})
		}
	}
	return byMetric, nil
}
