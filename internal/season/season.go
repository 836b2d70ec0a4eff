package season

import (
	"fmt"

	"github.com/sandlotsim/league-engine/internal/models"
	"github.com/sandlotsim/league-engine/internal/standings"
	"github.com/sandlotsim/league-engine/internal/stats"
)

// State is the full bookkeeping snapshot of a regular season. Apply
// functions treat it as immutable and return a new State.
type State struct {
	Teams    map[string]models.Team          `json:"teams"`
	Days     []models.ScheduleDay            `json:"days"`
	Batting  map[string]models.BattingStats  `json:"batting"`
	Pitching map[string]models.PitchingStats `json:"pitching"`
}

// NewState builds an empty season state over the given teams and schedule
func NewState(teams []models.Team, days []models.ScheduleDay) State {
	st := State{
		Teams:    make(map[string]models.Team, len(teams)),
		Days:     copyDays(days),
		Batting:  make(map[string]models.BattingStats),
		Pitching: make(map[string]models.PitchingStats),
	}
	for _, t := range teams {
		st.Teams[t.ID] = t
	}
	return st
}

// ApplyGameResult folds one completed game into the season: the scheduled
// game is marked complete with its final score, both team records are
// updated, and every box-score line flows through the stat accumulator.
// The input state is never mutated.
func ApplyGameResult(st State, result models.GameResult) (State, error) {
	game := findGame(st.Days, result.Day, result.GameID)
	if game == nil {
		return st, fmt.Errorf("game %q not found on day %d", result.GameID, result.Day)
	}
	if game.Completed {
		return st, fmt.Errorf("game %q on day %d already has a result", result.GameID, result.Day)
	}
	if result.HomeTeamID != game.HomeTeamID || result.AwayTeamID != game.AwayTeamID {
		return st, fmt.Errorf("game %q teams %s/%s do not match schedule %s/%s",
			result.GameID, result.HomeTeamID, result.AwayTeamID, game.HomeTeamID, game.AwayTeamID)
	}
	home, ok := st.Teams[game.HomeTeamID]
	if !ok {
		return st, fmt.Errorf("unknown home team %q", game.HomeTeamID)
	}
	away, ok := st.Teams[game.AwayTeamID]
	if !ok {
		return st, fmt.Errorf("unknown away team %q", game.AwayTeamID)
	}
	if result.HomeScore == result.AwayScore {
		return st, fmt.Errorf("game %q ended tied %d-%d", result.GameID, result.HomeScore, result.AwayScore)
	}

	next := State{
		Teams: make(map[string]models.Team, len(st.Teams)),
		Days:  copyDays(st.Days),
	}
	for id, t := range st.Teams {
		next.Teams[id] = t
	}

	homeWon := result.HomeScore > result.AwayScore
	next.Teams[home.ID] = standings.UpdateTeamRecord(home, homeWon, result.HomeScore, result.AwayScore)
	next.Teams[away.ID] = standings.UpdateTeamRecord(away, !homeWon, result.AwayScore, result.HomeScore)

	updated := findGame(next.Days, result.Day, result.GameID)
	homeScore, awayScore := result.HomeScore, result.AwayScore
	updated.HomeScore = &homeScore
	updated.AwayScore = &awayScore
	updated.Completed = true

	next.Batting, next.Pitching = stats.AccumulateGameStats(
		st.Batting, st.Pitching, result.BattingLines, result.PitchingLines, result.StarterIDs)

	return next, nil
}

// IsRegularSeasonComplete reports whether every scheduled game has a
// recorded result
func IsRegularSeasonComplete(days []models.ScheduleDay) bool {
	for _, d := range days {
		for _, g := range d.Games {
			if !g.Completed {
				return false
			}
		}
	}
	return len(days) > 0
}

// RemainingGames counts scheduled games still without a result
func RemainingGames(days []models.ScheduleDay) int {
	remaining := 0
	for _, d := range days {
		for _, g := range d.Games {
			if !g.Completed {
				remaining++
			}
		}
	}
	return remaining
}

func findGame(days []models.ScheduleDay, day int, gameID string) *models.ScheduleGame {
	for i := range days {
		if days[i].Day != day {
			continue
		}
		for j := range days[i].Games {
			if days[i].Games[j].ID == gameID {
				return &days[i].Games[j]
			}
		}
	}
	return nil
}

func copyDays(days []models.ScheduleDay) []models.ScheduleDay {
	out := make([]models.ScheduleDay, len(days))
	for i, d := range days {
		out[i] = models.ScheduleDay{Day: d.Day}
		out[i].Games = append([]models.ScheduleGame(nil), d.Games...)
	}
	return out
}
