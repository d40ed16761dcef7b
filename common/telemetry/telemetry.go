/*******************************************************************************
* Contributors: BMC Software, Inc. - BMC Helix Edge
*
* (c) Copyright 2020-2025 BMC Software, Inc.
*******************************************************************************/

package telemetry

import (
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	gometrics "github.com/rcrowley/go-metrics"
)

// Telemetry keeps the service counters in a go-metrics registry and
// periodically reports them through the logging client.
type Telemetry struct {
	PredictionsServed        gometrics.Counter
	PredictionCacheHits      gometrics.Counter
	TrainingsCompleted       gometrics.Counter
	TrainingsFailed          gometrics.Counter
	RecommendationsGenerated gometrics.Counter
	RuleFailures             gometrics.Counter

	registry    gometrics.Registry
	serviceName string
	lc          logger.LoggingClient
}

func NewTelemetry(serviceName string, lc logger.LoggingClient) *Telemetry {
	telemetry := Telemetry{}
	telemetry.registry = gometrics.NewRegistry()
	telemetry.serviceName = serviceName
	telemetry.lc = lc

	telemetry.PredictionsServed = gometrics.NewCounter()
	telemetry.PredictionCacheHits = gometrics.NewCounter()
	telemetry.TrainingsCompleted = gometrics.NewCounter()
	telemetry.TrainingsFailed = gometrics.NewCounter()
	telemetry.RecommendationsGenerated = gometrics.NewCounter()
	telemetry.RuleFailures = gometrics.NewCounter()

	_ = telemetry.registry.Register(PredictionsServedCount, telemetry.PredictionsServed)
	_ = telemetry.registry.Register(PredictionCacheHitsCount, telemetry.PredictionCacheHits)
	_ = telemetry.registry.Register(TrainingsCompletedCount, telemetry.TrainingsCompleted)
	_ = telemetry.registry.Register(TrainingsFailedCount, telemetry.TrainingsFailed)
	_ = telemetry.registry.Register(RecommendationsGeneratedCount, telemetry.RecommendationsGenerated)
	_ = telemetry.registry.Register(RuleFailuresCount, telemetry.RuleFailures)

	return &telemetry
}

// Run reports the counter values on the given interval until the stop
// channel is closed.
func (t *Telemetry) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.report()
			case <-stop:
				return
			}
		}
	}()
}

func (t *Telemetry) report() {
	t.registry.Each(func(name string, metric interface{}) {
		counter, ok := metric.(gometrics.Counter)
		if !ok {
			return
		}
		t.lc.Debugf("telemetry %s %s=%d", t.serviceName, name, counter.Count())
	})
}
