package season

import (
	"math/rand"
	"testing"

	"github.com/sandlotsim/league-engine/internal/models"
	"github.com/sandlotsim/league-engine/internal/playoffs"
	"github.com/sandlotsim/league-engine/internal/schedule"
	"github.com/sandlotsim/league-engine/internal/standings"
)

func twoTeamState() State {
	teams := []models.Team{
		{ID: "home", Name: "home", League: models.LeagueAL, Division: "East"},
		{ID: "away", Name: "away", League: models.LeagueAL, Division: "East"},
	}
	days := []models.ScheduleDay{
		{Day: 1, Games: []models.ScheduleGame{
			{ID: "game-1-1", League: models.LeagueAL, HomeTeamID: "home", AwayTeamID: "away"},
		}},
		{Day: 2, Games: []models.ScheduleGame{
			{ID: "game-2-1", League: models.LeagueAL, HomeTeamID: "away", AwayTeamID: "home"},
		}},
	}
	return NewState(teams, days)
}

func sampleResult() models.GameResult {
	return models.GameResult{
		Day:        1,
		GameID:     "game-1-1",
		HomeTeamID: "home",
		AwayTeamID: "away",
		HomeScore:  5,
		AwayScore:  2,
		BattingLines: []models.BattingLine{
			{PlayerID: "slugger", TeamID: "home", AB: 4, H: 2, HR: 1, RBI: 3, R: 1},
		},
		PitchingLines: []models.PitchingLine{
			{PlayerID: "starter", TeamID: "home", IP: 7.0, ER: 2, SO: 8, Decision: models.DecisionWin},
		},
		StarterIDs: []string{"starter"},
	}
}

func TestApplyGameResultUpdatesEverything(t *testing.T) {
	st := twoTeamState()

	next, err := ApplyGameResult(st, sampleResult())
	if err != nil {
		t.Fatalf("ApplyGameResult failed: %v", err)
	}

	home := next.Teams["home"]
	if home.Wins != 1 || home.Losses != 0 || home.RunsScored != 5 || home.RunsAllowed != 2 {
		t.Errorf("home record = %+v", home)
	}
	away := next.Teams["away"]
	if away.Wins != 0 || away.Losses != 1 || away.RunsScored != 2 {
		t.Errorf("away record = %+v", away)
	}

	g := next.Days[0].Games[0]
	if !g.Completed || g.HomeScore == nil || *g.HomeScore != 5 || *g.AwayScore != 2 {
		t.Errorf("schedule game not settled: %+v", g)
	}

	if next.Batting["slugger"].HR != 1 {
		t.Errorf("batting not accumulated: %+v", next.Batting["slugger"])
	}
	p := next.Pitching["starter"]
	if p.W != 1 || p.GS != 1 || p.IP != 7.0 {
		t.Errorf("pitching not accumulated: %+v", p)
	}
}

func TestApplyGameResultIsPure(t *testing.T) {
	st := twoTeamState()

	if _, err := ApplyGameResult(st, sampleResult()); err != nil {
		t.Fatalf("ApplyGameResult failed: %v", err)
	}

	if st.Teams["home"].Wins != 0 {
		t.Error("input team record was mutated")
	}
	if st.Days[0].Games[0].Completed {
		t.Error("input schedule was mutated")
	}
	if len(st.Batting) != 0 {
		t.Error("input stat map was mutated")
	}
}

func TestApplyGameResultRejections(t *testing.T) {
	st := twoTeamState()

	bad := sampleResult()
	bad.GameID = "game-9-9"
	if _, err := ApplyGameResult(st, bad); err == nil {
		t.Error("expected error for unknown game id")
	}

	tied := sampleResult()
	tied.AwayScore = tied.HomeScore
	if _, err := ApplyGameResult(st, tied); err == nil {
		t.Error("expected error for tied final score")
	}

	swapped := sampleResult()
	swapped.HomeTeamID, swapped.AwayTeamID = swapped.AwayTeamID, swapped.HomeTeamID
	if _, err := ApplyGameResult(st, swapped); err == nil {
		t.Error("expected error for mismatched teams")
	}

	next, err := ApplyGameResult(st, sampleResult())
	if err != nil {
		t.Fatalf("ApplyGameResult failed: %v", err)
	}
	if _, err := ApplyGameResult(next, sampleResult()); err == nil {
		t.Error("expected error for double-applied result")
	}
}

func TestIsRegularSeasonComplete(t *testing.T) {
	st := twoTeamState()
	if IsRegularSeasonComplete(st.Days) {
		t.Error("fresh schedule reported complete")
	}
	if got := RemainingGames(st.Days); got != 2 {
		t.Errorf("RemainingGames = %d, want 2", got)
	}

	next, err := ApplyGameResult(st, sampleResult())
	if err != nil {
		t.Fatalf("ApplyGameResult failed: %v", err)
	}
	if IsRegularSeasonComplete(next.Days) {
		t.Error("half-played schedule reported complete")
	}

	second := models.GameResult{
		Day: 2, GameID: "game-2-1",
		HomeTeamID: "away", AwayTeamID: "home",
		HomeScore: 3, AwayScore: 1,
	}
	final, err := ApplyGameResult(next, second)
	if err != nil {
		t.Fatalf("ApplyGameResult failed: %v", err)
	}
	if !IsRegularSeasonComplete(final.Days) {
		t.Error("fully played schedule not reported complete")
	}
	if IsRegularSeasonComplete(nil) {
		t.Error("empty schedule reported complete")
	}
}

// TestFourTeamSeasonEndToEnd runs a small season front to back: generate a
// schedule, play every game with a fixed pecking order, and check that
// standings and playoff seeding fall out of the records.
func TestFourTeamSeasonEndToEnd(t *testing.T) {
	teams := []models.Team{
		{ID: "ace", Name: "Aces", League: models.LeagueAL, Division: "East"},
		{ID: "bay", Name: "Bays", League: models.LeagueAL, Division: "East"},
		{ID: "cap", Name: "Caps", League: models.LeagueAL, Division: "East"},
		{ID: "dug", Name: "Dugouts", League: models.LeagueAL, Division: "East"},
	}
	strength := map[string]int{"ace": 4, "bay": 3, "cap": 2, "dug": 1}

	days, err := schedule.Generate(teams, rand.New(rand.NewSource(11)),
		schedule.Config{TargetGamesPerTeam: 6, IntraDivisionWeight: 1.0})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	st := NewState(teams, days)
	for _, d := range days {
		for _, g := range d.Games {
			homeScore, awayScore := 2, 5
			if strength[g.HomeTeamID] > strength[g.AwayTeamID] {
				homeScore, awayScore = 5, 2
			}
			st, err = ApplyGameResult(st, models.GameResult{
				Day: d.Day, GameID: g.ID,
				HomeTeamID: g.HomeTeamID, AwayTeamID: g.AwayTeamID,
				HomeScore: homeScore, AwayScore: awayScore,
			})
			if err != nil {
				t.Fatalf("ApplyGameResult for %s failed: %v", g.ID, err)
			}
		}
	}

	if !IsRegularSeasonComplete(st.Days) {
		t.Fatal("season not complete after playing every game")
	}

	all := make([]models.Team, 0, len(st.Teams))
	for _, tm := range st.Teams {
		all = append(all, tm)
	}
	divisions := standings.Compute(all)
	if len(divisions) != 1 {
		t.Fatalf("expected one division, got %d", len(divisions))
	}

	order := divisions[0].Teams
	for i := 1; i < len(order); i++ {
		prev := standings.WinPct(order[i-1].Wins, order[i-1].Losses)
		cur := standings.WinPct(order[i].Wins, order[i].Losses)
		if cur > prev {
			t.Errorf("standings out of order at %d: %s above %s", i, order[i-1].ID, order[i].ID)
		}
	}
	if order[0].ID != "ace" || order[0].Wins != 6 {
		t.Errorf("division leader = %s (%d-%d), want ace at 6-0", order[0].ID, order[0].Wins, order[0].Losses)
	}

	seeds := playoffs.SeedPlayoffTeams(divisions, models.LeagueAL)
	if len(seeds) == 0 || seeds[0].TeamID != "ace" || seeds[0].Seed != 1 {
		t.Errorf("seed 1 = %+v, want ace", seeds)
	}
}
