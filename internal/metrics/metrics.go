package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hxweather_generations_total",
		Help: "Generation attempts by endpoint and outcome (succeeded, empty, failed).",
	}, []string{"endpoint", "outcome"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hxweather_generation_duration_seconds",
		Help:    "Time from prompt submission until the streamed reply is fully consumed.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
	}, []string{"endpoint"})

	PromptChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hxweather_prompt_chars",
		Help:    "Size of composed prompts in bytes.",
		Buckets: prometheus.ExponentialBuckets(512, 2, 8),
	})

	FragmentChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hxweather_fragment_chars",
		Help:    "Size of generated HTML fragments in bytes.",
		Buckets: prometheus.ExponentialBuckets(1024, 2, 8),
	})

	MissingCityTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hxweather_missing_city_total",
		Help: "City submissions rejected before calling the model.",
	})
)
