package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/sandlotsim/league-engine/internal/analytics"
	"github.com/sandlotsim/league-engine/internal/config"
	"github.com/sandlotsim/league-engine/internal/handlers"
	"github.com/sandlotsim/league-engine/internal/logger"
	"github.com/sandlotsim/league-engine/internal/metrics"
	"github.com/sandlotsim/league-engine/internal/mocks"
	"github.com/sandlotsim/league-engine/internal/pubsub"
	"github.com/sandlotsim/league-engine/internal/store"
)

var (
	cfg       *config.Config
	dataStore store.SeasonStore
	sink      analytics.Sink
)

func main() {
	// Initialize logger first
	logger.Init()

	logger.Info("Starting league engine")

	cfg = config.Load()

	// Initialize storage
	var err error
	dataStore, err = store.New(cfg.DBDriver, cfg.SQLitePath, cfg.PostgresDSN)
	if err != nil {
		logger.Error("Failed to initialize store", "driver", cfg.DBDriver, "error", err)
		log.Fatalf("Failed to initialize store: %v", err)
	}
	switch cfg.DBDriver {
	case "", "memory":
		logger.Info("Using in-memory season store")
	case "sqlite":
		logger.Info("Connected to SQLite database", "file", cfg.SQLitePath)
	case "postgres":
		logger.Info("Connected to Postgres database")
	}

	// Initialize pub/sub (NATS JetStream, or embedded NATS for local development)
	var upstream pubsub.Upstream
	if cfg.IsProduction() {
		natsURL := cfg.NATSURL
		if natsURL == "" {
			natsURL = "nats://localhost:4222"
		}
		logger.Info("Using NATS JetStream for production")
		upstream, err = pubsub.NewNATSUpstream(natsURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		logger.Info("Connected to NATS", "url", natsURL)
	} else {
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = cfg.NATSSubject
		embedded, err := pubsub.NewEmbeddedNATSUpstream(opts)
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		upstream = embedded
		logger.Info("Embedded NATS server ready", "url", embedded.GetServerURL())
	}
	bus := pubsub.NewWithUpstream(upstream)

	// Initialize the analytics sink (ClickHouse when enabled, mock in development)
	if cfg.ClickHouseEnabled {
		chSink, err := analytics.NewClickHouseSink(
			cfg.ClickHouseAddr, cfg.ClickHouseDatabase, cfg.ClickHouseUser, cfg.ClickHousePassword)
		if err != nil {
			logger.Error("Failed to initialize ClickHouse", "error", err, "address", cfg.ClickHouseAddr)
			log.Fatalf("Failed to initialize ClickHouse: %v", err)
		}
		sink = chSink
		logger.Info("Connected to ClickHouse", "address", cfg.ClickHouseAddr, "database", cfg.ClickHouseDatabase)
	} else if !cfg.IsProduction() {
		sink = mocks.NewMockAnalyticsSink()
	} else {
		logger.Info("Analytics sink not configured")
	}

	// Set up HTTP routes
	mux := http.NewServeMux()

	api := handlers.NewAPIHandlers(dataStore, bus, sink,
		cfg.TargetGamesPerTeam, cfg.IntraDivisionWeight, cfg.ScheduleSeed)
	api.RegisterRoutes(mux)

	// Observability endpoints
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/healthz", livenessHandler) // Kubernetes liveness probe
	mux.HandleFunc("/readyz", readinessHandler) // Kubernetes readiness probe

	addr := "0.0.0.0:" + cfg.Port
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, countRequests(mux)); err != nil {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

// countRequests records per-path request counts with the response status class
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.HTTPRequests.WithLabelValues(r.URL.Path, statusClass(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE streaming working behind the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// healthHandler reports overall service health with per-dependency checks
func healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	// Check database connectivity
	if dataStore != nil {
		_, err := dataStore.GetTeams()
		if err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	// Check the analytics sink when one is configured
	if cfg != nil && cfg.ClickHouseEnabled && sink != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if _, err := sink.BattingSummary(ctx, "healthcheck"); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["clickhouse"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["clickhouse"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().Unix(),
	})
}

// livenessHandler handles Kubernetes liveness probes
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// readinessHandler handles Kubernetes readiness probes. Returns 200 once the
// store can serve reads.
func readinessHandler(w http.ResponseWriter, r *http.Request) {
	if dataStore != nil {
		if _, err := dataStore.GetTeams(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "not_ready",
				"reason":    "database_unavailable",
				"timestamp": time.Now().Unix(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
