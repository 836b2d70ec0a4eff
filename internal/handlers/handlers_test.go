package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sandlotsim/league-engine/internal/leaders"
	"github.com/sandlotsim/league-engine/internal/logger"
	"github.com/sandlotsim/league-engine/internal/mocks"
	"github.com/sandlotsim/league-engine/internal/models"
	"github.com/sandlotsim/league-engine/internal/pubsub"
	"github.com/sandlotsim/league-engine/internal/store"
)

func init() {
	logger.Init()
}

func newTestAPI() (*APIHandlers, *mocks.MockAnalyticsSink) {
	sink := mocks.NewMockAnalyticsSink()
	return NewAPIHandlers(store.NewMemoryStore(), pubsub.New(), sink, 6, 2.0, 42), sink
}

func doJSON(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func generateSchedule(t *testing.T, api *APIHandlers) []models.ScheduleDay {
	t.Helper()
	w := doJSON(api.GenerateSchedule, http.MethodPost, "/api/schedule/generate", `{"seed":7}`)
	if w.Code != http.StatusOK {
		t.Fatalf("generate returned %d: %s", w.Code, w.Body.String())
	}
	var days []models.ScheduleDay
	if err := json.NewDecoder(w.Body).Decode(&days); err != nil {
		t.Fatalf("failed to decode schedule: %v", err)
	}
	if len(days) == 0 {
		t.Fatal("generated empty schedule")
	}
	return days
}

func resultFor(g models.ScheduleGame, day, homeScore, awayScore int) models.GameResult {
	return models.GameResult{
		Day:        day,
		GameID:     g.ID,
		HomeTeamID: g.HomeTeamID,
		AwayTeamID: g.AwayTeamID,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
	}
}

func submitResult(t *testing.T, api *APIHandlers, result models.GameResult) {
	t.Helper()
	body, _ := json.Marshal(result)
	w := doJSON(api.SubmitGameResult, http.MethodPost, "/api/games/result", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("submit result for %s returned %d: %s", result.GameID, w.Code, w.Body.String())
	}
}

func TestGenerateScheduleAndRead(t *testing.T) {
	api, _ := newTestAPI()
	days := generateSchedule(t, api)

	total := 0
	for _, d := range days {
		for _, g := range d.Games {
			if g.ID == "" {
				t.Errorf("day %d has a game without an id", d.Day)
			}
			total++
		}
	}
	// 12 teams, 6 games each
	if total != 36 {
		t.Errorf("expected 36 games, got %d", total)
	}

	w := doJSON(api.GetSchedule, http.MethodGet, "/api/schedule?league=AL", "")
	if w.Code != http.StatusOK {
		t.Fatalf("schedule read returned %d", w.Code)
	}
	var alDays []models.ScheduleDay
	json.NewDecoder(w.Body).Decode(&alDays)
	for _, d := range alDays {
		for _, g := range d.Games {
			if g.League != models.LeagueAL {
				t.Errorf("league filter leaked %s game %s", g.League, g.ID)
			}
		}
	}

	w = doJSON(api.GetSchedule, http.MethodGet, "/api/schedule?day=1", "")
	var dayOne []models.ScheduleDay
	json.NewDecoder(w.Body).Decode(&dayOne)
	if len(dayOne) != 1 || dayOne[0].Day != 1 {
		t.Errorf("day filter returned %+v", dayOne)
	}

	w = doJSON(api.GetSchedule, http.MethodGet, "/api/schedule?day=zero", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad day parameter returned %d", w.Code)
	}
}

func TestGenerateScheduleMethodNotAllowed(t *testing.T) {
	api, _ := newTestAPI()
	w := doJSON(api.GenerateSchedule, http.MethodGet, "/api/schedule/generate", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestSubmitGameResultUpdatesSeason(t *testing.T) {
	api, sink := newTestAPI()
	days := generateSchedule(t, api)

	game := days[0].Games[0]
	result := resultFor(game, days[0].Day, 5, 3)
	result.BattingLines = []models.BattingLine{
		{PlayerID: "slugger", TeamID: game.HomeTeamID, AB: 4, H: 3, HR: 2, RBI: 4, R: 2},
	}
	result.PitchingLines = []models.PitchingLine{
		{PlayerID: "starter", TeamID: game.HomeTeamID, IP: 7.0, ER: 3, SO: 8, Decision: models.DecisionWin},
	}
	result.StarterIDs = []string{"starter"}

	body, _ := json.Marshal(result)
	w := doJSON(api.SubmitGameResult, http.MethodPost, "/api/games/result", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("submit returned %d: %s", w.Code, w.Body.String())
	}
	var ack struct {
		OK             bool `json:"ok"`
		RemainingGames int  `json:"remainingGames"`
	}
	json.NewDecoder(w.Body).Decode(&ack)
	if !ack.OK || ack.RemainingGames != 35 {
		t.Errorf("ack = %+v, want ok with 35 remaining", ack)
	}

	// Standings reflect the win
	w = doJSON(api.GetStandings, http.MethodGet, "/api/standings", "")
	var divisions []models.DivisionStandings
	json.NewDecoder(w.Body).Decode(&divisions)
	winners := 0
	for _, div := range divisions {
		for _, tm := range div.Teams {
			if tm.ID == game.HomeTeamID && tm.Wins == 1 && tm.Losses == 0 {
				winners++
			}
		}
	}
	if winners != 1 {
		t.Errorf("home team record not updated in standings")
	}

	// The slugger tops the HR leaderboard
	w = doJSON(api.GetBattingLeaders, http.MethodGet, "/api/leaders/batting?category=hr", "")
	var entries []leaders.Entry
	json.NewDecoder(w.Body).Decode(&entries)
	if len(entries) == 0 || entries[0].PlayerID != "slugger" || entries[0].Value != 2 {
		t.Errorf("hr leaderboard = %+v", entries)
	}

	// Box score reached the analytics sink
	if sink.InsertedCount() != 1 {
		t.Errorf("sink has %d box scores, want 1", sink.InsertedCount())
	}

	// Same game again is rejected
	w = doJSON(api.SubmitGameResult, http.MethodPost, "/api/games/result", string(body))
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate result returned %d", w.Code)
	}
}

func TestSubmitGameResultRejectsBadInput(t *testing.T) {
	api, _ := newTestAPI()
	generateSchedule(t, api)

	w := doJSON(api.SubmitGameResult, http.MethodPost, "/api/games/result", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body returned %d", w.Code)
	}

	w = doJSON(api.SubmitGameResult, http.MethodPost, "/api/games/result",
		`{"day":1,"gameId":"no-such-game","homeTeamId":"a","awayTeamId":"b","homeScore":2,"awayScore":1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown game returned %d", w.Code)
	}
}

func TestSeedPlayoffsRequiresCompleteSeason(t *testing.T) {
	api, _ := newTestAPI()
	generateSchedule(t, api)

	w := doJSON(api.SeedPlayoffs, http.MethodPost, "/api/playoffs/seed", "")
	if w.Code != http.StatusConflict {
		t.Errorf("seeding mid-season returned %d, want 409", w.Code)
	}
}

func TestGetTeamStats(t *testing.T) {
	api, _ := newTestAPI()

	w := doJSON(api.GetTeamStats, http.MethodGet, "/api/teams/stats", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing id returned %d", w.Code)
	}

	w = doJSON(api.GetTeamStats, http.MethodGet, "/api/teams/stats?id=nobody", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown team returned %d", w.Code)
	}

	w = doJSON(api.GetTeamStats, http.MethodGet, "/api/teams/stats?id=al-e-monarchs", "")
	if w.Code != http.StatusOK {
		t.Fatalf("team stats returned %d", w.Code)
	}
	var agg leaders.TeamAggregateStats
	json.NewDecoder(w.Body).Decode(&agg)
	if agg.TeamID != "al-e-monarchs" {
		t.Errorf("aggregate for wrong team: %+v", agg)
	}
}

func TestBattingSummaryWithoutSink(t *testing.T) {
	api := NewAPIHandlers(store.NewMemoryStore(), pubsub.New(), nil, 6, 2.0, 0)
	w := doJSON(api.GetBattingSummary, http.MethodGet, "/api/analytics/batting-summary?team=x", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a sink, got %d", w.Code)
	}
}

func TestBattingSummaryAggregates(t *testing.T) {
	api, _ := newTestAPI()
	days := generateSchedule(t, api)

	game := days[0].Games[0]
	result := resultFor(game, days[0].Day, 4, 1)
	result.BattingLines = []models.BattingLine{
		{PlayerID: "b1", TeamID: game.HomeTeamID, AB: 4, H: 2, HR: 1},
		{PlayerID: "b2", TeamID: game.HomeTeamID, AB: 4, H: 1},
	}
	submitResult(t, api, result)

	w := doJSON(api.GetBattingSummary, http.MethodGet, "/api/analytics/batting-summary?team="+game.HomeTeamID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("summary returned %d: %s", w.Code, w.Body.String())
	}
	var row struct {
		Games uint64 `json:"games"`
		AB    uint64 `json:"ab"`
		H     uint64 `json:"h"`
	}
	json.NewDecoder(w.Body).Decode(&row)
	if row.Games != 1 || row.AB != 8 || row.H != 3 {
		t.Errorf("summary row = %+v", row)
	}

	w = doJSON(api.GetBattingSummary, http.MethodGet, "/api/analytics/batting-summary", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing team parameter returned %d", w.Code)
	}
}

func TestBracketNotSeeded(t *testing.T) {
	api, _ := newTestAPI()

	if w := doJSON(api.GetBracket, http.MethodGet, "/api/playoffs/bracket", ""); w.Code != http.StatusNotFound {
		t.Errorf("bracket before seeding returned %d", w.Code)
	}
	if w := doJSON(api.GetNextPlayoffGame, http.MethodGet, "/api/playoffs/next", ""); w.Code != http.StatusNotFound {
		t.Errorf("next before seeding returned %d", w.Code)
	}
	w := doJSON(api.RecordPlayoffResult, http.MethodPost, "/api/playoffs/result",
		`{"seriesId":"al-wildcard-1","gameNumber":1,"homeScore":3,"awayScore":1}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("playoff result before seeding returned %d", w.Code)
	}
}

// TestFullSeasonToChampion drives an entire season through the API: schedule,
// every regular season game, seeding, and the complete postseason.
func TestFullSeasonToChampion(t *testing.T) {
	api, _ := newTestAPI()
	days := generateSchedule(t, api)

	for _, d := range days {
		for _, g := range d.Games {
			// Home team always wins, scores vary by slot for variety
			submitResult(t, api, resultFor(g, d.Day, 5, 3))
		}
	}

	w := doJSON(api.SeedPlayoffs, http.MethodPost, "/api/playoffs/seed", "")
	if w.Code != http.StatusOK {
		t.Fatalf("seeding returned %d: %s", w.Code, w.Body.String())
	}
	var bracket models.FullPlayoffBracket
	json.NewDecoder(w.Body).Decode(&bracket)
	if len(bracket.AL.Seeds) < 2 || len(bracket.NL.Seeds) < 2 {
		t.Fatalf("seeds missing: AL=%d NL=%d", len(bracket.AL.Seeds), len(bracket.NL.Seeds))
	}

	// Walk the postseason via next-game until a champion emerges
	for i := 0; i < 100; i++ {
		w = doJSON(api.GetNextPlayoffGame, http.MethodGet, "/api/playoffs/next", "")
		if w.Code != http.StatusOK {
			t.Fatalf("next game returned %d: %s", w.Code, w.Body.String())
		}
		var next struct {
			Complete   bool   `json:"complete"`
			ChampionID string `json:"championId"`
			SeriesID   string `json:"seriesId"`
			GameNumber int    `json:"gameNumber"`
		}
		json.NewDecoder(w.Body).Decode(&next)
		if next.Complete {
			if next.ChampionID == "" {
				t.Fatal("postseason complete without a champion")
			}
			return
		}

		body := fmt.Sprintf(`{"seriesId":%q,"gameNumber":%d,"homeScore":4,"awayScore":2}`,
			next.SeriesID, next.GameNumber)
		w = doJSON(api.RecordPlayoffResult, http.MethodPost, "/api/playoffs/result", body)
		if w.Code != http.StatusOK {
			t.Fatalf("playoff result for %s game %d returned %d: %s",
				next.SeriesID, next.GameNumber, w.Code, w.Body.String())
		}
	}
	t.Fatal("postseason did not finish within 100 games")
}

func TestRecordPlayoffResultRejectsBadSeries(t *testing.T) {
	api, _ := newTestAPI()
	days := generateSchedule(t, api)
	for _, d := range days {
		for _, g := range d.Games {
			submitResult(t, api, resultFor(g, d.Day, 2, 1))
		}
	}
	if w := doJSON(api.SeedPlayoffs, http.MethodPost, "/api/playoffs/seed", ""); w.Code != http.StatusOK {
		t.Fatalf("seeding returned %d", w.Code)
	}

	w := doJSON(api.RecordPlayoffResult, http.MethodPost, "/api/playoffs/result",
		`{"seriesId":"al-nothing-9","gameNumber":1,"homeScore":3,"awayScore":1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown series returned %d", w.Code)
	}

	w = doJSON(api.RecordPlayoffResult, http.MethodPost, "/api/playoffs/result", `{broken`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body returned %d", w.Code)
	}
}

func TestResetSeason(t *testing.T) {
	api, _ := newTestAPI()
	generateSchedule(t, api)

	w := doJSON(api.ResetSeason, http.MethodPost, "/api/season/reset", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reset returned %d", w.Code)
	}

	w = doJSON(api.GetSchedule, http.MethodGet, "/api/schedule", "")
	var daysAfter []models.ScheduleDay
	json.NewDecoder(w.Body).Decode(&daysAfter)
	if len(daysAfter) != 0 {
		t.Errorf("schedule survived reset: %d days", len(daysAfter))
	}
}

func TestLeadersRejectUnknownCategory(t *testing.T) {
	api, _ := newTestAPI()

	if w := doJSON(api.GetBattingLeaders, http.MethodGet, "/api/leaders/batting?category=vibes", ""); w.Code != http.StatusBadRequest {
		t.Errorf("unknown batting category returned %d", w.Code)
	}
	if w := doJSON(api.GetPitchingLeaders, http.MethodGet, "/api/leaders/pitching?category=vibes", ""); w.Code != http.StatusBadRequest {
		t.Errorf("unknown pitching category returned %d", w.Code)
	}
}

func TestEventsSSEStreamsEvents(t *testing.T) {
	api, _ := newTestAPI()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		api.EventsSSE(w, req)
		close(done)
	}()

	// Give the handler time to subscribe, then push an event through
	time.Sleep(50 * time.Millisecond)
	api.bus.Publish(pubsub.StandingsUpdateEvent())
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SSE handler did not exit on context cancel")
	}

	body := w.Body.String()
	if !strings.Contains(body, `"connected"`) {
		t.Errorf("missing connection message in %q", body)
	}
	if !strings.Contains(body, pubsub.EventStandingsUpdate) {
		t.Errorf("published event never reached the stream: %q", body)
	}
}
