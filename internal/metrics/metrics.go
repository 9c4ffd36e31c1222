// Package metrics holds the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotaDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "platelog",
			Name:      "quota_decisions_total",
			Help:      "Quota check outcomes.",
		},
		[]string{"result"},
	)

	MergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "platelog",
			Name:      "account_merges_total",
			Help:      "Guest-to-account merge attempts.",
		},
		[]string{"result"},
	)

	EntriesMergedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "platelog",
			Name:      "entries_merged_total",
			Help:      "Diary entries whose ownership patch succeeded.",
		},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "platelog",
			Name:      "entry_analyses_total",
			Help:      "AI analysis attempts.",
		},
		[]string{"result"},
	)
)
