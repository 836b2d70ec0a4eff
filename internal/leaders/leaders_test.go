package leaders

import (
	"math"
	"testing"

	"github.com/sandlotsim/league-engine/internal/models"
	"github.com/sandlotsim/league-engine/internal/stats"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func batter(id, teamID string, ab, h, hr int) models.BattingStats {
	s := models.BattingStats{PlayerID: id, TeamID: teamID, AB: ab, H: h, HR: hr}
	return stats.DeriveBatting(s)
}

func TestBattingQualificationBoundary(t *testing.T) {
	// teamGames=100 requires PA >= 310
	under := models.BattingStats{AB: 300, BB: 9} // PA 309
	over := models.BattingStats{AB: 300, BB: 10} // PA 310

	if BattingQualifies(under, 100) {
		t.Error("PA=309 should not qualify at teamGames=100")
	}
	if !BattingQualifies(over, 100) {
		t.Error("PA=310 should qualify at teamGames=100")
	}
}

func TestPitchingQualificationBoundary(t *testing.T) {
	under := models.PitchingStats{IP: 99.2}
	exact := models.PitchingStats{IP: 100.0}

	if PitchingQualifies(under, 100) {
		t.Error("99.2 IP should not qualify at teamGames=100")
	}
	if !PitchingQualifies(exact, 100) {
		t.Error("100.0 IP should qualify at teamGames=100")
	}
}

func TestBattingLeadersRateCategoryFiltersUnqualified(t *testing.T) {
	players := map[string]models.BattingStats{
		// 40 hits in 100 AB with enough PA to qualify at teamGames=10
		"qualified": stats.DeriveBatting(models.BattingStats{PlayerID: "qualified", AB: 100, H: 40}),
		// A perfect 2-for-2 but nowhere near the PA threshold
		"cup-of-coffee": stats.DeriveBatting(models.BattingStats{PlayerID: "cup-of-coffee", AB: 2, H: 2}),
	}

	entries, err := BattingLeaders(players, BattingAVG, 10, 10)
	if err != nil {
		t.Fatalf("BattingLeaders failed: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 qualified leader, got %d", len(entries))
	}
	if entries[0].PlayerID != "qualified" {
		t.Errorf("leader = %s, want qualified", entries[0].PlayerID)
	}
	if entries[0].Rank != 1 {
		t.Errorf("rank = %d, want 1", entries[0].Rank)
	}
}

func TestBattingLeadersCountingCategoryNeverFilters(t *testing.T) {
	players := map[string]models.BattingStats{
		"a": batter("a", "t1", 10, 3, 5),
		"b": batter("b", "t1", 8, 2, 2),
	}

	entries, err := BattingLeaders(players, BattingHR, 162, 10)
	if err != nil {
		t.Fatalf("BattingLeaders failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("counting category filtered players: got %d entries", len(entries))
	}
	if entries[0].PlayerID != "a" || entries[0].Value != 5 {
		t.Errorf("top entry = %+v", entries[0])
	}
}

func TestPitchingLeadersERAAscending(t *testing.T) {
	players := map[string]models.PitchingStats{
		"ace":     stats.DerivePitching(models.PitchingStats{PlayerID: "ace", IP: 50.0, ER: 10}),
		"middler": stats.DerivePitching(models.PitchingStats{PlayerID: "middler", IP: 50.0, ER: 20}),
	}

	entries, err := PitchingLeaders(players, PitchingERA, 40, 10)
	if err != nil {
		t.Fatalf("PitchingLeaders failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].PlayerID != "ace" {
		t.Errorf("ERA leader = %s, want ace (lowest ERA first)", entries[0].PlayerID)
	}
}

func TestLeadersLimitAndPositionalRank(t *testing.T) {
	players := map[string]models.BattingStats{
		"a": batter("a", "t1", 10, 1, 4),
		"b": batter("b", "t1", 10, 1, 4), // identical value, rank by sort stability
		"c": batter("c", "t1", 10, 1, 3),
		"d": batter("d", "t1", 10, 1, 1),
	}

	entries, err := BattingLeaders(players, BattingHR, 162, 3)
	if err != nil {
		t.Fatalf("BattingLeaders failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("limit not applied: got %d entries", len(entries))
	}
	// a and b tie at 4 HR but receive distinct positional ranks
	if entries[0].Rank != 1 || entries[1].Rank != 2 || entries[2].Rank != 3 {
		t.Errorf("ranks = %d, %d, %d", entries[0].Rank, entries[1].Rank, entries[2].Rank)
	}
	if entries[0].PlayerID != "a" || entries[1].PlayerID != "b" {
		t.Errorf("tie order not stable: %s, %s", entries[0].PlayerID, entries[1].PlayerID)
	}
}

func TestUnknownCategory(t *testing.T) {
	if _, err := BattingLeaders(nil, "wins-above-replacement", 162, 10); err == nil {
		t.Error("expected error for unknown batting category")
	}
	if _, err := PitchingLeaders(nil, "gwrbi", 162, 10); err == nil {
		t.Error("expected error for unknown pitching category")
	}
}

func TestComputeTeamAggregateStats(t *testing.T) {
	batters := map[string]models.BattingStats{
		"b1":    stats.DeriveBatting(models.BattingStats{PlayerID: "b1", TeamID: "t1", AB: 100, H: 30, Doubles: 6, HR: 5, BB: 10}),
		"b2":    stats.DeriveBatting(models.BattingStats{PlayerID: "b2", TeamID: "t1", AB: 80, H: 20, HR: 2, BB: 8}),
		"other": stats.DeriveBatting(models.BattingStats{PlayerID: "other", TeamID: "t2", AB: 50, H: 25}),
	}
	pitchers := map[string]models.PitchingStats{
		"p1":    stats.DerivePitching(models.PitchingStats{PlayerID: "p1", TeamID: "t1", IP: 45.1, ER: 15}),
		"p2":    stats.DerivePitching(models.PitchingStats{PlayerID: "p2", TeamID: "t1", IP: 20.2, ER: 5}),
		"other": stats.DerivePitching(models.PitchingStats{PlayerID: "other", TeamID: "t2", IP: 30.0, ER: 20}),
	}

	agg := ComputeTeamAggregateStats("t1", batters, pitchers, 120, 100, 12)

	if agg.AB != 180 || agg.H != 50 || agg.HR != 7 {
		t.Errorf("batting sums: AB %d H %d HR %d", agg.AB, agg.H, agg.HR)
	}
	if !almostEqual(agg.AVG, 50.0/180.0) {
		t.Errorf("AVG = %v, want %v", agg.AVG, 50.0/180.0)
	}
	if !almostEqual(agg.IP, 66.0) { // 45.1 + 20.2 carries to 66.0
		t.Errorf("IP = %v, want 66.0", agg.IP)
	}
	if agg.ER != 20 {
		t.Errorf("ER = %d, want 20", agg.ER)
	}
	wantERA := 20.0 * 9 / 66.0
	if !almostEqual(agg.ERA, wantERA) {
		t.Errorf("ERA = %v, want %v", agg.ERA, wantERA)
	}
	// 120^2/(120^2+100^2)
	wantPyth := 14400.0 / 24400.0
	if !almostEqual(agg.PythagoreanWinPct, wantPyth) {
		t.Errorf("PythagoreanWinPct = %v, want %v", agg.PythagoreanWinPct, wantPyth)
	}
}
