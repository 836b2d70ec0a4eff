package leaders

import (
	"fmt"
	"sort"

	"github.com/sandlotsim/league-engine/internal/models"
	"github.com/sandlotsim/league-engine/internal/standings"
	"github.com/sandlotsim/league-engine/internal/stats"
)

// paPerTeamGame is the MLB qualification threshold: 3.1 plate appearances
// per team game for batters. Pitchers need one inning per team game.
const paPerTeamGame = 3.1

// BattingCategory names a batting leaderboard
type BattingCategory string

const (
	BattingAVG BattingCategory = "avg"
	BattingOBP BattingCategory = "obp"
	BattingSLG BattingCategory = "slg"
	BattingOPS BattingCategory = "ops"
	BattingHR  BattingCategory = "hr"
	BattingRBI BattingCategory = "rbi"
	BattingH   BattingCategory = "h"
	BattingR   BattingCategory = "r"
	BattingSB  BattingCategory = "sb"
	BattingBB  BattingCategory = "bb"
)

// PitchingCategory names a pitching leaderboard
type PitchingCategory string

const (
	PitchingERA  PitchingCategory = "era"
	PitchingWHIP PitchingCategory = "whip"
	PitchingW    PitchingCategory = "w"
	PitchingSV   PitchingCategory = "sv"
	PitchingSO   PitchingCategory = "so"
	PitchingK9   PitchingCategory = "k9"
	PitchingIP   PitchingCategory = "ip"
)

// battingSpec maps a category to its accessor and qualification rules.
// Rate categories filter out unqualified batters; counting categories never
// filter.
type battingSpec struct {
	value  func(models.BattingStats) float64
	isRate bool
}

var battingSpecs = map[BattingCategory]battingSpec{
	BattingAVG: {func(s models.BattingStats) float64 { return s.AVG }, true},
	BattingOBP: {func(s models.BattingStats) float64 { return s.OBP }, true},
	BattingSLG: {func(s models.BattingStats) float64 { return s.SLG }, true},
	BattingOPS: {func(s models.BattingStats) float64 { return s.OPS }, true},
	BattingHR:  {func(s models.BattingStats) float64 { return float64(s.HR) }, false},
	BattingRBI: {func(s models.BattingStats) float64 { return float64(s.RBI) }, false},
	BattingH:   {func(s models.BattingStats) float64 { return float64(s.H) }, false},
	BattingR:   {func(s models.BattingStats) float64 { return float64(s.R) }, false},
	BattingSB:  {func(s models.BattingStats) float64 { return float64(s.SB) }, false},
	BattingBB:  {func(s models.BattingStats) float64 { return float64(s.BB) }, false},
}

type pitchingSpec struct {
	value     func(models.PitchingStats) float64
	isRate    bool
	ascending bool // ERA and WHIP rank low-to-high
}

var pitchingSpecs = map[PitchingCategory]pitchingSpec{
	PitchingERA:  {func(s models.PitchingStats) float64 { return s.ERA }, true, true},
	PitchingWHIP: {func(s models.PitchingStats) float64 { return s.WHIP }, true, true},
	PitchingW:    {func(s models.PitchingStats) float64 { return float64(s.W) }, false, false},
	PitchingSV:   {func(s models.PitchingStats) float64 { return float64(s.SV) }, false, false},
	PitchingSO:   {func(s models.PitchingStats) float64 { return float64(s.SO) }, false, false},
	PitchingK9:   {func(s models.PitchingStats) float64 { return s.K9 }, false, false},
	PitchingIP:   {func(s models.PitchingStats) float64 { return stats.IPToDecimal(s.IP) }, false, false},
}

// Entry is one leaderboard row. Rank is positional over the truncated
// list; ties are not detected.
type Entry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"playerId"`
	TeamID   string  `json:"teamId"`
	Value    float64 `json:"value"`
}

// PlateAppearances computes PA = AB + BB + HBP + SF + SH
func PlateAppearances(s models.BattingStats) int {
	return s.AB + s.BB + s.HBP + s.SF + s.SH
}

// BattingQualifies reports whether a batter meets the rate-stat threshold
// for the given number of team games
func BattingQualifies(s models.BattingStats, teamGames int) bool {
	return float64(PlateAppearances(s)) >= float64(teamGames)*paPerTeamGame
}

// PitchingQualifies reports whether a pitcher meets the rate-stat
// threshold: at least one inning pitched per team game
func PitchingQualifies(s models.PitchingStats, teamGames int) bool {
	return stats.IPToDecimal(s.IP) >= float64(teamGames)
}

// BattingLeaders ranks players by the given batting category. Rate
// categories silently exclude unqualified batters.
func BattingLeaders(players map[string]models.BattingStats, category BattingCategory, teamGames, limit int) ([]Entry, error) {
	spec, ok := battingSpecs[category]
	if !ok {
		return nil, fmt.Errorf("unknown batting category %q", category)
	}

	ids := sortedKeys(players)
	var entries []Entry
	for _, id := range ids {
		s := players[id]
		if spec.isRate && !BattingQualifies(s, teamGames) {
			continue
		}
		entries = append(entries, Entry{PlayerID: s.PlayerID, TeamID: s.TeamID, Value: spec.value(s)})
	}

	rank(entries, false)
	return truncate(entries, limit), nil
}

// PitchingLeaders ranks players by the given pitching category. ERA and
// WHIP sort ascending and exclude unqualified pitchers.
func PitchingLeaders(players map[string]models.PitchingStats, category PitchingCategory, teamGames, limit int) ([]Entry, error) {
	spec, ok := pitchingSpecs[category]
	if !ok {
		return nil, fmt.Errorf("unknown pitching category %q", category)
	}

	ids := sortedKeys(players)
	var entries []Entry
	for _, id := range ids {
		s := players[id]
		if spec.isRate && !PitchingQualifies(s, teamGames) {
			continue
		}
		entries = append(entries, Entry{PlayerID: s.PlayerID, TeamID: s.TeamID, Value: spec.value(s)})
	}

	rank(entries, spec.ascending)
	return truncate(entries, limit), nil
}

// sortedKeys gives map iteration a deterministic base order so equal values
// always rank the same way across runs
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func rank(entries []Entry, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return entries[i].Value < entries[j].Value
		}
		return entries[i].Value > entries[j].Value
	})
}

func truncate(entries []Entry, limit int) []Entry {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// TeamAggregateStats sums a team's raw counting stats and recomputes the
// team-level rates from the sums
type TeamAggregateStats struct {
	TeamID      string  `json:"teamId"`
	RunsScored  int     `json:"runsScored"`
	RunsAllowed int     `json:"runsAllowed"`
	Errors      int     `json:"errors"`
	AB          int     `json:"ab"`
	H           int     `json:"h"`
	HR          int     `json:"hr"`
	BB          int     `json:"bb"`
	SO          int     `json:"so"`
	AVG         float64 `json:"avg"`
	OBP         float64 `json:"obp"`
	SLG         float64 `json:"slg"`
	IP          float64 `json:"ip"`
	ER          int     `json:"er"`
	ERA         float64 `json:"era"`

	PythagoreanWinPct float64 `json:"pythagoreanWinPct"`
}

// ComputeTeamAggregateStats sums raw counting fields across a team's
// batters and pitchers and derives team-level rates from the totals
func ComputeTeamAggregateStats(
	teamID string,
	batters map[string]models.BattingStats,
	pitchers map[string]models.PitchingStats,
	runsScored, runsAllowed, totalErrors int,
) TeamAggregateStats {
	agg := TeamAggregateStats{
		TeamID:      teamID,
		RunsScored:  runsScored,
		RunsAllowed: runsAllowed,
		Errors:      totalErrors,
	}

	var doubles, triples, hbp, sf int
	for _, id := range sortedKeys(batters) {
		s := batters[id]
		if s.TeamID != teamID {
			continue
		}
		agg.AB += s.AB
		agg.H += s.H
		agg.HR += s.HR
		agg.BB += s.BB
		agg.SO += s.SO
		doubles += s.Doubles
		triples += s.Triples
		hbp += s.HBP
		sf += s.SF
	}

	for _, id := range sortedKeys(pitchers) {
		s := pitchers[id]
		if s.TeamID != teamID {
			continue
		}
		agg.IP = stats.AddIP(agg.IP, s.IP)
		agg.ER += s.ER
	}

	agg.AVG = stats.BattingAverage(agg.H, agg.AB)
	agg.OBP = stats.OnBasePercentage(agg.H, agg.BB, hbp, agg.AB, sf)
	agg.SLG = stats.SluggingPercentage(agg.H, doubles, triples, agg.HR, agg.AB)
	agg.ERA = stats.ERA(agg.ER, agg.IP)
	agg.PythagoreanWinPct = standings.Pythagorean(runsScored, runsAllowed)

	return agg
}
