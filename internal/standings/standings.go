package standings

import (
	"sort"

	"github.com/sandlotsim/league-engine/internal/models"
)

// WinPct returns a team's winning percentage, 0 for an unplayed record
func WinPct(wins, losses int) float64 {
	games := wins + losses
	if games == 0 {
		return 0
	}
	return float64(wins) / float64(games)
}

// GamesBehind computes the classic games-behind figure relative to the
// division leader
func GamesBehind(leaderWins, leaderLosses, teamWins, teamLosses int) float64 {
	return (float64(leaderWins-teamWins) + float64(teamLosses-leaderLosses)) / 2
}

// Pythagorean computes the expected win percentage from runs scored and
// allowed: RS^2 / (RS^2 + RA^2). A team with no runs either way sits at .500.
func Pythagorean(runsScored, runsAllowed int) float64 {
	if runsScored == 0 && runsAllowed == 0 {
		return 0.5
	}
	rs := float64(runsScored) * float64(runsScored)
	ra := float64(runsAllowed) * float64(runsAllowed)
	return rs / (rs + ra)
}

// SortByRecord orders teams in place by the standings tie-break: win
// percentage, then run differential, then runs scored, all descending. The
// sort is stable so exact ties keep input order.
func SortByRecord(teams []models.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		a, b := teams[i], teams[j]
		aPct, bPct := WinPct(a.Wins, a.Losses), WinPct(b.Wins, b.Losses)
		if aPct != bPct {
			return aPct > bPct
		}
		aDiff, bDiff := a.RunsScored-a.RunsAllowed, b.RunsScored-b.RunsAllowed
		if aDiff != bDiff {
			return aDiff > bDiff
		}
		return a.RunsScored > b.RunsScored
	})
}

// Compute groups teams by (league, division) and sorts each group by the
// standings tie-break order. Groups come back sorted by league then
// division name so output order is deterministic.
func Compute(teams []models.Team) []models.DivisionStandings {
	type key struct {
		league   models.LeagueID
		division string
	}

	groups := make(map[key][]models.Team)
	var order []key
	for _, t := range teams {
		k := key{t.League, t.Division}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], t)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].league != order[j].league {
			return order[i].league < order[j].league
		}
		return order[i].division < order[j].division
	})

	result := make([]models.DivisionStandings, 0, len(order))
	for _, k := range order {
		group := make([]models.Team, len(groups[k]))
		copy(group, groups[k])
		SortByRecord(group)
		result = append(result, models.DivisionStandings{
			League:   k.league,
			Division: k.division,
			Teams:    group,
		})
	}
	return result
}

// DivisionWinners returns the best team of each division, in the same
// order Compute emits divisions
func DivisionWinners(divisions []models.DivisionStandings) []models.Team {
	winners := make([]models.Team, 0, len(divisions))
	for _, d := range divisions {
		if len(d.Teams) > 0 {
			winners = append(winners, d.Teams[0])
		}
	}
	return winners
}

// WildCardTeams collects every non-winner in the league, applies the
// standings tie-break, and returns the top slots teams
func WildCardTeams(league models.LeagueID, divisions []models.DivisionStandings, divisionWinnerIDs []string, slots int) []models.Team {
	winners := make(map[string]bool, len(divisionWinnerIDs))
	for _, id := range divisionWinnerIDs {
		winners[id] = true
	}

	var pool []models.Team
	for _, d := range divisions {
		if d.League != league {
			continue
		}
		for _, t := range d.Teams {
			if !winners[t.ID] {
				pool = append(pool, t)
			}
		}
	}

	SortByRecord(pool)
	if len(pool) > slots {
		pool = pool[:slots]
	}
	return pool
}

// UpdateTeamRecord applies one game result to a team's cumulative record
// and returns the updated copy
func UpdateTeamRecord(team models.Team, won bool, runsScored, runsAllowed int) models.Team {
	if won {
		team.Wins++
	} else {
		team.Losses++
	}
	team.RunsScored += runsScored
	team.RunsAllowed += runsAllowed
	return team
}
