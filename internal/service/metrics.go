package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// chatTurns counts handled turns by path (greeting, ranked, llm_error)
	chatTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_chat_turns_total",
		Help: "Total chat turns by path",
	}, []string{"path"})

	// chatDuration tracks end-to-end turn latency
	chatDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_chat_turn_duration_seconds",
		Help:    "Chat turn duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
	})

	// llmFailures counts LLM errors by provider
	llmFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_llm_failures_total",
		Help: "Total LLM generation failures by provider",
	}, []string{"provider"})

	// rankedResults tracks the number of properties returned per ranking
	rankedResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_ranked_results",
		Help:    "Number of properties returned per ranking",
		Buckets: []float64{0, 1, 2, 3, 4},
	})

	// placesLookups counts nearby-place lookups by outcome
	placesLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_places_lookups_total",
		Help: "Total nearby-place lookups by outcome",
	}, []string{"outcome"})

	// catalogReloads counts catalog loads by outcome
	catalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_catalog_reloads_total",
		Help: "Total catalog reloads by outcome",
	}, []string{"outcome"})

	catalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "assistant_catalog_properties",
		Help: "Number of properties in the current catalog",
	})
)
