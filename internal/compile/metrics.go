// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package compile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/oops"

	"github.com/patrickcd/dilemma/internal/resolver"
)

// Metrics for compiled-expression evaluation, grounded on
// internal/access/policy/metrics.go's promauto.NewHistogram/NewCounterVec
// pattern. Recorded at the CompiledExpression/Cache layer rather than
// inside internal/eval.Eval itself, keeping the evaluator's hot inner loop
// free of Prometheus label-matching overhead — the same split the teacher
// draws between policy.Compiler/Cache and dsl.evalCondition.
var (
	evaluateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dilemma_evaluate_duration_seconds",
		Help:    "Histogram of dilemma expression evaluation latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dilemma_evaluations_total",
		Help: "Total number of dilemma expression evaluations",
	}, []string{"resolver", "outcome"})

	parseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dilemma_parse_errors_total",
		Help: "Total number of dilemma expression parse errors",
	}, []string{"category"})

	compiledCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dilemma_compiled_cache_size",
		Help: "Current number of entries in the compiled-expression cache",
	})
)

// recordEvaluation records latency and outcome for one Evaluate call.
func recordEvaluation(d time.Duration, reg *resolver.Registry, err error) {
	evaluateDuration.Observe(d.Seconds())

	resolverName := "none"
	if reg != nil {
		if def := reg.Default(); def != nil {
			resolverName = def.Name()
		}
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	evaluationsTotal.WithLabelValues(resolverName, outcome).Inc()
}

// recordParseError records a Compile-time parse failure, categorized by
// the error's oops code when available.
func recordParseError(err error) {
	category := "unknown"
	if oopsErr, ok := oops.AsOops(err); ok {
		category = oopsErr.Code()
	}
	parseErrorsTotal.WithLabelValues(category).Inc()
}

// recordCacheSize updates the compiled-expression cache size gauge.
func recordCacheSize(n int) {
	compiledCacheSize.Set(float64(n))
}
