package stats

import (
	"github.com/sandlotsim/league-engine/internal/models"
)

// AccumulateBatting folds one game's batting line into a season total.
// The input is never mutated; the returned value has every derived field
// recomputed from the new counting totals.
func AccumulateBatting(season models.BattingStats, line models.BattingLine) models.BattingStats {
	s := season
	if s.PlayerID == "" {
		s.PlayerID = line.PlayerID
	}
	if s.TeamID == "" {
		s.TeamID = line.TeamID
	}

	s.G++
	s.AB += line.AB
	s.R += line.R
	s.H += line.H
	s.Doubles += line.Doubles
	s.Triples += line.Triples
	s.HR += line.HR
	s.RBI += line.RBI
	s.BB += line.BB
	s.SO += line.SO
	s.SB += line.SB
	s.CS += line.CS
	s.HBP += line.HBP
	s.SF += line.SF
	s.SH += line.SH

	return DeriveBatting(s)
}

// DeriveBatting recomputes every derived batting field from the counting
// fields. Calling it twice on the same totals yields identical output.
func DeriveBatting(s models.BattingStats) models.BattingStats {
	s.AVG = BattingAverage(s.H, s.AB)
	s.OBP = OnBasePercentage(s.H, s.BB, s.HBP, s.AB, s.SF)
	s.SLG = SluggingPercentage(s.H, s.Doubles, s.Triples, s.HR, s.AB)
	s.OPS = OPS(s.OBP, s.SLG)
	return s
}

// AccumulatePitching folds one game's pitching line into a season total.
// isStarter marks whether the line belongs to the game's starting pitcher.
func AccumulatePitching(season models.PitchingStats, line models.PitchingLine, isStarter bool) models.PitchingStats {
	s := season
	if s.PlayerID == "" {
		s.PlayerID = line.PlayerID
	}
	if s.TeamID == "" {
		s.TeamID = line.TeamID
	}

	s.G++
	if isStarter {
		s.GS++
	}

	// A line carries at most one decision
	switch line.Decision {
	case models.DecisionWin:
		s.W++
	case models.DecisionLoss:
		s.L++
	case models.DecisionSave:
		s.SV++
	case models.DecisionHold:
		s.HLD++
	case models.DecisionBlownSave:
		s.BS++
	}

	if line.CG {
		s.CG++
	}
	if line.SHO {
		s.SHO++
	}

	s.IP = AddIP(s.IP, line.IP)
	s.H += line.H
	s.R += line.R
	s.ER += line.ER
	s.BB += line.BB
	s.SO += line.SO
	s.HR += line.HR
	s.HBP += line.HBP

	return DerivePitching(s)
}

// DerivePitching recomputes every derived pitching field from the counting
// fields
func DerivePitching(s models.PitchingStats) models.PitchingStats {
	s.ERA = ERA(s.ER, s.IP)
	s.WHIP = WHIP(s.BB, s.H, s.IP)
	s.FIP = FIP(s.HR, s.BB, s.HBP, s.SO, s.IP)
	s.K9 = KPer9(s.SO, s.IP)
	s.BB9 = BBPer9(s.BB, s.IP)
	return s
}

// AccumulateGameStats folds every line from one game into fresh copies of
// both season maps. The input maps are never mutated, so callers can keep
// serving the previous snapshot while the new one is built. First-time
// players get zero-initialized entries.
func AccumulateGameStats(
	seasonBatting map[string]models.BattingStats,
	seasonPitching map[string]models.PitchingStats,
	battingLines []models.BattingLine,
	pitchingLines []models.PitchingLine,
	starterIDs []string,
) (map[string]models.BattingStats, map[string]models.PitchingStats) {
	batting := make(map[string]models.BattingStats, len(seasonBatting)+len(battingLines))
	for id, s := range seasonBatting {
		batting[id] = s
	}
	pitching := make(map[string]models.PitchingStats, len(seasonPitching)+len(pitchingLines))
	for id, s := range seasonPitching {
		pitching[id] = s
	}

	starters := make(map[string]bool, len(starterIDs))
	for _, id := range starterIDs {
		starters[id] = true
	}

	for _, line := range battingLines {
		batting[line.PlayerID] = AccumulateBatting(batting[line.PlayerID], line)
	}
	for _, line := range pitchingLines {
		pitching[line.PlayerID] = AccumulatePitching(pitching[line.PlayerID], line, starters[line.PlayerID])
	}

	return batting, pitching
}
