package standings

import (
	"math"
	"testing"

	"github.com/sandlotsim/league-engine/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func team(id string, league models.LeagueID, div string, w, l, rs, ra int) models.Team {
	return models.Team{ID: id, Name: id, League: league, Division: div, Wins: w, Losses: l, RunsScored: rs, RunsAllowed: ra}
}

func TestGamesBehind(t *testing.T) {
	cases := []struct {
		leaderW, leaderL, teamW, teamL int
		want                           float64
	}{
		{10, 5, 10, 5, 0},
		{10, 5, 8, 7, 2},
		{10, 5, 9, 5, 0.5},
		{0, 0, 0, 0, 0},
	}

	for _, tc := range cases {
		got := GamesBehind(tc.leaderW, tc.leaderL, tc.teamW, tc.teamL)
		if !almostEqual(got, tc.want) {
			t.Errorf("GamesBehind(%d,%d,%d,%d) = %v, want %v",
				tc.leaderW, tc.leaderL, tc.teamW, tc.teamL, got, tc.want)
		}
	}
}

func TestPythagorean(t *testing.T) {
	if got := Pythagorean(0, 0); !almostEqual(got, 0.5) {
		t.Errorf("Pythagorean(0, 0) = %v, want 0.5", got)
	}
	if got := Pythagorean(100, 100); !almostEqual(got, 0.5) {
		t.Errorf("Pythagorean(100, 100) = %v, want 0.5", got)
	}
	// 200 scored vs 100 allowed: 40000/50000 = 0.8
	if got := Pythagorean(200, 100); !almostEqual(got, 0.8) {
		t.Errorf("Pythagorean(200, 100) = %v, want 0.8", got)
	}
}

func TestComputeSortsByTieBreakOrder(t *testing.T) {
	teams := []models.Team{
		team("runDiff", models.LeagueAL, "East", 10, 10, 100, 80),
		team("best", models.LeagueAL, "East", 12, 8, 90, 90),
		team("runsScored", models.LeagueAL, "East", 10, 10, 95, 75),
		team("worst", models.LeagueAL, "East", 5, 15, 60, 100),
	}

	divisions := Compute(teams)
	if len(divisions) != 1 {
		t.Fatalf("expected 1 division, got %d", len(divisions))
	}

	got := divisions[0].Teams
	// runDiff and runsScored tie on win pct and run differential (+20);
	// runDiff wins the final tie-break on runs scored (100 vs 95)
	wantOrder := []string{"best", "runDiff", "runsScored", "worst"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestComputeGroupsByLeagueAndDivision(t *testing.T) {
	teams := []models.Team{
		team("al-e-1", models.LeagueAL, "East", 10, 5, 80, 60),
		team("nl-w-1", models.LeagueNL, "West", 9, 6, 70, 60),
		team("al-w-1", models.LeagueAL, "West", 8, 7, 75, 70),
		team("al-e-2", models.LeagueAL, "East", 7, 8, 65, 70),
	}

	divisions := Compute(teams)
	if len(divisions) != 3 {
		t.Fatalf("expected 3 divisions, got %d", len(divisions))
	}

	if divisions[0].League != models.LeagueAL || divisions[0].Division != "East" {
		t.Errorf("division 0 = %s %s", divisions[0].League, divisions[0].Division)
	}
	if divisions[1].League != models.LeagueAL || divisions[1].Division != "West" {
		t.Errorf("division 1 = %s %s", divisions[1].League, divisions[1].Division)
	}
	if divisions[2].League != models.LeagueNL {
		t.Errorf("division 2 league = %s", divisions[2].League)
	}
	if len(divisions[0].Teams) != 2 {
		t.Errorf("AL East team count = %d", len(divisions[0].Teams))
	}
}

func TestDivisionWinnersAndWildCards(t *testing.T) {
	teams := []models.Team{
		team("e1", models.LeagueAL, "East", 12, 3, 90, 60),
		team("e2", models.LeagueAL, "East", 10, 5, 85, 70),
		team("e3", models.LeagueAL, "East", 6, 9, 60, 80),
		team("w1", models.LeagueAL, "West", 11, 4, 88, 65),
		team("w2", models.LeagueAL, "West", 9, 6, 75, 70),
		team("w3", models.LeagueAL, "West", 8, 7, 72, 71),
	}

	divisions := Compute(teams)
	winners := DivisionWinners(divisions)
	if len(winners) != 2 {
		t.Fatalf("expected 2 division winners, got %d", len(winners))
	}
	if winners[0].ID != "e1" || winners[1].ID != "w1" {
		t.Errorf("winners = %s, %s", winners[0].ID, winners[1].ID)
	}

	winnerIDs := []string{winners[0].ID, winners[1].ID}
	wild := WildCardTeams(models.LeagueAL, divisions, winnerIDs, 3)
	if len(wild) != 3 {
		t.Fatalf("expected 3 wild cards, got %d", len(wild))
	}
	// Best non-winners: e2 (.667), w2 (.600), w3 (.533)
	if wild[0].ID != "e2" || wild[1].ID != "w2" || wild[2].ID != "w3" {
		t.Errorf("wild cards = %s, %s, %s", wild[0].ID, wild[1].ID, wild[2].ID)
	}
}

func TestUpdateTeamRecord(t *testing.T) {
	before := team("t1", models.LeagueAL, "East", 3, 2, 30, 25)

	won := UpdateTeamRecord(before, true, 7, 4)
	if won.Wins != 4 || won.Losses != 2 || won.RunsScored != 37 || won.RunsAllowed != 29 {
		t.Errorf("after win: %+v", won)
	}

	lost := UpdateTeamRecord(before, false, 2, 5)
	if lost.Wins != 3 || lost.Losses != 3 {
		t.Errorf("after loss: %+v", lost)
	}

	if before.Wins != 3 || before.Losses != 2 {
		t.Error("UpdateTeamRecord mutated its input")
	}
}
