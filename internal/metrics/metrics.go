// Package metrics exposes Prometheus counters for the engine's hot paths.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GamesProcessed counts regular-season game results folded into the season
	GamesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "league_games_processed_total",
		Help: "Regular season game results processed.",
	})

	// PlayoffGamesProcessed counts recorded postseason games
	PlayoffGamesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "league_playoff_games_processed_total",
		Help: "Postseason game results processed.",
	})

	// SchedulesGenerated counts schedule generation runs
	SchedulesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "league_schedules_generated_total",
		Help: "Season schedules generated.",
	})

	// HTTPRequests counts API requests by path and status class
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "league_http_requests_total",
		Help: "HTTP requests served, labeled by path and status class.",
	}, []string{"path", "status"})
)

// Handler returns the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
