package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// mazesGenerated counts generated mazes by strategy
	mazesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maze_generated_total",
		Help: "Total mazes generated by strategy",
	}, []string{"strategy"})

	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maze_generation_duration_seconds",
		Help:    "Maze generation duration",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"strategy"})

	// solves counts solve requests by result
	// Labels: "solved", "cached", "malformed", "canceled"
	solves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maze_solves_total",
		Help: "Total solve requests by result",
	}, []string{"result"})

	solveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "maze_solve_duration_seconds",
		Help:    "Solver run duration",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	solvePathLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "maze_solve_path_length",
		Help:    "Number of moves in solved paths",
		Buckets: prometheus.ExponentialBuckets(1, 2, 16),
	})

	mazesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "maze_sessions_active",
		Help: "Mazes currently held in memory",
	})
)
