// Package handlers exposes the season engine over HTTP. Handlers are thin:
// they load state from the store, call the pure engine packages, persist the
// result, and publish events.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/sandlotsim/league-engine/internal/analytics"
	"github.com/sandlotsim/league-engine/internal/leaders"
	"github.com/sandlotsim/league-engine/internal/logger"
	"github.com/sandlotsim/league-engine/internal/metrics"
	"github.com/sandlotsim/league-engine/internal/models"
	"github.com/sandlotsim/league-engine/internal/playoffs"
	"github.com/sandlotsim/league-engine/internal/pubsub"
	"github.com/sandlotsim/league-engine/internal/schedule"
	"github.com/sandlotsim/league-engine/internal/season"
	"github.com/sandlotsim/league-engine/internal/standings"
	"github.com/sandlotsim/league-engine/internal/store"
)

// APIHandlers holds the wired dependencies for all HTTP endpoints
type APIHandlers struct {
	store store.SeasonStore
	bus   *pubsub.Bus
	sink  analytics.Sink // nil when analytics is not configured

	targetGamesPerTeam  int
	intraDivisionWeight float64
	scheduleSeed        int64
}

// NewAPIHandlers creates handlers over the given store, event bus, and
// optional analytics sink
func NewAPIHandlers(st store.SeasonStore, bus *pubsub.Bus, sink analytics.Sink, targetGames int, weight float64, seed int64) *APIHandlers {
	return &APIHandlers{
		store:               st,
		bus:                 bus,
		sink:                sink,
		targetGamesPerTeam:  targetGames,
		intraDivisionWeight: weight,
		scheduleSeed:        seed,
	}
}

// GenerateSchedule builds a fresh regular-season schedule over the stored
// teams and replaces any existing one
func (h *APIHandlers) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := struct {
		Seed                *int64   `json:"seed"`
		TargetGamesPerTeam  *int     `json:"targetGamesPerTeam"`
		IntraDivisionWeight *float64 `json:"intraDivisionWeight"`
	}{}
	// An empty body means "use configured defaults"
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg := schedule.Config{
		TargetGamesPerTeam:  h.targetGamesPerTeam,
		IntraDivisionWeight: h.intraDivisionWeight,
	}
	if req.TargetGamesPerTeam != nil {
		cfg.TargetGamesPerTeam = *req.TargetGamesPerTeam
	}
	if req.IntraDivisionWeight != nil {
		cfg.IntraDivisionWeight = *req.IntraDivisionWeight
	}

	seed := h.scheduleSeed
	if req.Seed != nil {
		seed = *req.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	teams, err := h.store.GetTeams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	days, err := schedule.Generate(teams, rand.New(rand.NewSource(seed)), cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SaveSchedule(days); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	totalGames := 0
	for _, d := range days {
		totalGames += len(d.Games)
	}
	logger.Info("Generated schedule", "days", len(days), "games", totalGames, "seed", seed)
	metrics.SchedulesGenerated.Inc()
	h.bus.Publish(pubsub.ScheduleGeneratedEvent(len(days), totalGames))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(days)
}

// GetSchedule returns the schedule, optionally filtered by league and day
func (h *APIHandlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	league := models.LeagueID(r.URL.Query().Get("league"))

	day := 0
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid day parameter", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	days, err := h.store.GetSchedule(league, day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(days)
}

// SubmitGameResult folds one completed game into the season
func (h *APIHandlers) SubmitGameResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var result models.GameResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.loadSeasonState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	next, err := season.ApplyGameResult(st, result)
	if err != nil {
		logger.Warn("Rejected game result", "gameId", result.GameID, "day", result.Day, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.persistSeasonState(next, result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.GamesProcessed.Inc()
	h.bus.Publish(pubsub.GameResultEvent(result))
	h.bus.Publish(pubsub.StandingsUpdateEvent())

	if h.sink != nil {
		if err := h.sink.InsertBoxScore(r.Context(), result); err != nil {
			// Analytics is best effort, the season bookkeeping already landed
			logger.Warn("Analytics insert failed", "gameId", result.GameID, "error", err)
		}
	}

	remaining := season.RemainingGames(next.Days)
	if season.IsRegularSeasonComplete(next.Days) {
		total := 0
		for _, d := range next.Days {
			total += len(d.Games)
		}
		logger.Info("Regular season complete", "games", total)
		h.bus.Publish(pubsub.SeasonCompleteEvent(total))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":             true,
		"remainingGames": remaining,
	})
}

// GetStandings returns division standings computed from current records
func (h *APIHandlers) GetStandings(w http.ResponseWriter, r *http.Request) {
	teams, err := h.store.GetTeams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(standings.Compute(teams))
}

// GetBattingLeaders returns a batting leaderboard for one category
func (h *APIHandlers) GetBattingLeaders(w http.ResponseWriter, r *http.Request) {
	category := leaders.BattingCategory(r.URL.Query().Get("category"))
	if category == "" {
		category = leaders.BattingAVG
	}
	limit := queryLimit(r, 10)

	batting, err := h.store.GetBattingStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	teamGames, err := h.maxTeamGames()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	entries, err := leaders.BattingLeaders(batting, category, teamGames, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// GetPitchingLeaders returns a pitching leaderboard for one category
func (h *APIHandlers) GetPitchingLeaders(w http.ResponseWriter, r *http.Request) {
	category := leaders.PitchingCategory(r.URL.Query().Get("category"))
	if category == "" {
		category = leaders.PitchingERA
	}
	limit := queryLimit(r, 10)

	pitching, err := h.store.GetPitchingStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	teamGames, err := h.maxTeamGames()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	entries, err := leaders.PitchingLeaders(pitching, category, teamGames, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// GetTeamStats returns one team's aggregate season stats
func (h *APIHandlers) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	teams, err := h.store.GetTeams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var team *models.Team
	for i := range teams {
		if teams[i].ID == id {
			team = &teams[i]
			break
		}
	}
	if team == nil {
		http.Error(w, "Team not found", http.StatusNotFound)
		return
	}

	batting, err := h.store.GetBattingStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	pitching, err := h.store.GetPitchingStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	agg := leaders.ComputeTeamAggregateStats(id, batting, pitching, team.RunsScored, team.RunsAllowed, 0)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agg)
}

// SeedPlayoffs builds the postseason bracket from current standings
func (h *APIHandlers) SeedPlayoffs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days, err := h.store.GetSchedule("", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !season.IsRegularSeasonComplete(days) {
		http.Error(w, fmt.Sprintf("regular season incomplete, %d games remaining", season.RemainingGames(days)), http.StatusConflict)
		return
	}

	teams, err := h.store.GetTeams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	bracket, err := playoffs.BuildPostseason(standings.Compute(teams))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SaveBracket(bracket); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("Seeded playoffs", "alSeeds", len(bracket.AL.Seeds), "nlSeeds", len(bracket.NL.Seeds))
	h.bus.Publish(pubsub.PlayoffsSeededEvent(bracket))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bracket)
}

// GetBracket returns the current postseason bracket
func (h *APIHandlers) GetBracket(w http.ResponseWriter, r *http.Request) {
	bracket, err := h.store.GetBracket()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if bracket == nil {
		http.Error(w, "Playoffs not seeded", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bracket)
}

// GetNextPlayoffGame returns the next unplayed postseason game
func (h *APIHandlers) GetNextPlayoffGame(w http.ResponseWriter, r *http.Request) {
	bracket, err := h.store.GetBracket()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if bracket == nil {
		http.Error(w, "Playoffs not seeded", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	next := playoffs.Next(*bracket)
	if next == nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"complete":   true,
			"championId": bracket.WorldSeriesChampionID,
		})
		return
	}
	json.NewEncoder(w).Encode(next)
}

// RecordPlayoffResult records one postseason game and advances the bracket
func (h *APIHandlers) RecordPlayoffResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SeriesID   string `json:"seriesId"`
		GameNumber int    `json:"gameNumber"`
		HomeScore  int    `json:"homeScore"`
		AwayScore  int    `json:"awayScore"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bracket, err := h.store.GetBracket()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if bracket == nil {
		http.Error(w, "Playoffs not seeded", http.StatusNotFound)
		return
	}

	updated, err := playoffs.RecordGameResult(*bracket, req.SeriesID, req.GameNumber, req.HomeScore, req.AwayScore)
	if err != nil {
		logger.Warn("Rejected playoff result", "seriesId", req.SeriesID, "game", req.GameNumber, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SaveBracket(updated); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.PlayoffGamesProcessed.Inc()
	h.bus.Publish(pubsub.PlayoffGameEvent(req.SeriesID, req.GameNumber, req.HomeScore, req.AwayScore))
	if updated.WorldSeriesChampionID != "" && bracket.WorldSeriesChampionID == "" {
		logger.Info("World Series champion crowned", "teamId", updated.WorldSeriesChampionID)
		h.bus.Publish(pubsub.PlayoffChampionEvent(updated.WorldSeriesChampionID))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// ResetSeason wipes all season state and reseeds the default league
func (h *APIHandlers) ResetSeason(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.store.Reset(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("Season reset")
	h.bus.Publish(pubsub.StandingsUpdateEvent())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// GetBattingSummary returns the analytics-backed team batting summary
func (h *APIHandlers) GetBattingSummary(w http.ResponseWriter, r *http.Request) {
	if h.sink == nil {
		http.Error(w, "Analytics not configured", http.StatusServiceUnavailable)
		return
	}

	teamID := r.URL.Query().Get("team")
	if teamID == "" {
		http.Error(w, "Missing team parameter", http.StatusBadRequest)
		return
	}

	row, err := h.sink.BattingSummary(r.Context(), teamID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(row)
}

// EventsSSE provides Server-Sent Events for realtime updates
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan := h.bus.Subscribe()
	defer h.bus.Unsubscribe(eventChan)

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case event := <-eventChan:
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-time.After(30 * time.Second):
			// Keepalive ping
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}

// loadSeasonState assembles the full season snapshot from the store
func (h *APIHandlers) loadSeasonState() (season.State, error) {
	teams, err := h.store.GetTeams()
	if err != nil {
		return season.State{}, err
	}
	days, err := h.store.GetSchedule("", 0)
	if err != nil {
		return season.State{}, err
	}
	batting, err := h.store.GetBattingStats()
	if err != nil {
		return season.State{}, err
	}
	pitching, err := h.store.GetPitchingStats()
	if err != nil {
		return season.State{}, err
	}

	st := season.NewState(teams, days)
	st.Batting = batting
	st.Pitching = pitching
	return st, nil
}

// persistSeasonState writes an applied game back to the store
func (h *APIHandlers) persistSeasonState(st season.State, result models.GameResult) error {
	teams := make([]models.Team, 0, len(st.Teams))
	for _, t := range st.Teams {
		teams = append(teams, t)
	}
	if err := h.store.SaveTeams(teams); err != nil {
		return err
	}
	if err := h.store.MarkGameComplete(result.Day, result.GameID, result.HomeScore, result.AwayScore); err != nil {
		return err
	}
	if err := h.store.UpsertBattingStats(st.Batting); err != nil {
		return err
	}
	return h.store.UpsertPitchingStats(st.Pitching)
}

// maxTeamGames finds the most games any team has completed, the base for
// leaderboard qualification thresholds
func (h *APIHandlers) maxTeamGames() (int, error) {
	teams, err := h.store.GetTeams()
	if err != nil {
		return 0, err
	}
	max := 0
	for _, t := range teams {
		if g := t.Wins + t.Losses; g > max {
			max = g
		}
	}
	return max, nil
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}

// RegisterRoutes attaches every API endpoint to the mux
func (h *APIHandlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/schedule/generate", h.GenerateSchedule)
	mux.HandleFunc("/api/schedule", h.GetSchedule)
	mux.HandleFunc("/api/games/result", h.SubmitGameResult)
	mux.HandleFunc("/api/standings", h.GetStandings)
	mux.HandleFunc("/api/leaders/batting", h.GetBattingLeaders)
	mux.HandleFunc("/api/leaders/pitching", h.GetPitchingLeaders)
	mux.HandleFunc("/api/teams/stats", h.GetTeamStats)
	mux.HandleFunc("/api/playoffs/seed", h.SeedPlayoffs)
	mux.HandleFunc("/api/playoffs/bracket", h.GetBracket)
	mux.HandleFunc("/api/playoffs/next", h.GetNextPlayoffGame)
	mux.HandleFunc("/api/playoffs/result", h.RecordPlayoffResult)
	mux.HandleFunc("/api/season/reset", h.ResetSeason)
	mux.HandleFunc("/api/analytics/batting-summary", h.GetBattingSummary)
	mux.HandleFunc("/api/events", h.EventsSSE)
}
