package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rankingRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisor_ranking_requests_total",
		Help: "Number of ranking computations performed (cache misses).",
	})

	rankingCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisor_ranking_cache_hits_total",
		Help: "Number of ranking requests served from the cache.",
	})

	rankingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_ranking_duration_seconds",
		Help:    "Wall time of one personalized ranking computation.",
		Buckets: prometheus.DefBuckets,
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "status"})
)
