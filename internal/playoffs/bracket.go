package playoffs

import (
	"fmt"
	"strings"

	"github.com/sandlotsim/league-engine/internal/models"
	"github.com/sandlotsim/league-engine/internal/standings"
)

// maxWildCards caps the number of wild-card entrants per league
const maxWildCards = 3

// Best-of lengths per round
const (
	bestOfWildCard     = 3
	bestOfDivision     = 5
	bestOfChampionship = 7
	bestOfWorldSeries  = 7
)

// SeedPlayoffTeams seeds one league's postseason field from its standings.
// Division winners take seeds 1..D in standings tie-break order, then the
// best min(3, remaining) non-winners take the wild-card seeds.
func SeedPlayoffTeams(divisions []models.DivisionStandings, league models.LeagueID) []models.PlayoffTeamSeed {
	var leagueDivisions []models.DivisionStandings
	for _, d := range divisions {
		if d.League == league {
			leagueDivisions = append(leagueDivisions, d)
		}
	}

	winners := standings.DivisionWinners(leagueDivisions)
	winnerIDs := make([]string, 0, len(winners))
	for _, w := range winners {
		winnerIDs = append(winnerIDs, w.ID)
	}
	// Winners are seeded against each other by the same tie-break that
	// orders teams inside a division
	standings.SortByRecord(winners)

	wild := standings.WildCardTeams(league, leagueDivisions, winnerIDs, maxWildCards)

	seeds := make([]models.PlayoffTeamSeed, 0, len(winners)+len(wild))
	for _, t := range append(winners, wild...) {
		seeds = append(seeds, models.PlayoffTeamSeed{
			TeamID: t.ID,
			Seed:   len(seeds) + 1,
			Wins:   t.Wins,
			Losses: t.Losses,
		})
	}
	return seeds
}

// seriesID builds the deterministic id for a series slot, e.g.
// "al-wildcard-1" or "mlb-worldseries-1"
func seriesID(league models.LeagueID, round string, index int) string {
	return fmt.Sprintf("%s-%s-%d", strings.ToLower(string(league)), strings.ToLower(round), index)
}

func newSeries(league models.LeagueID, round string, index, bestOf int, higher, lower *models.PlayoffTeamSeed) models.PlayoffSeries {
	return models.PlayoffSeries{
		ID:         seriesID(league, round, index),
		Round:      round,
		League:     league,
		HigherSeed: higher,
		LowerSeed:  lower,
		BestOf:     bestOf,
	}
}

func seedRef(seeds []models.PlayoffTeamSeed, seed int) *models.PlayoffTeamSeed {
	for i := range seeds {
		if seeds[i].Seed == seed {
			s := seeds[i]
			return &s
		}
	}
	return nil
}

// GeneratePlayoffBracket builds one league's bracket from its standings.
// The round structure adapts to the seeded field size:
//
//	>= 6 seeds: WildCard Bo3 (3v6, 4v5) -> DivisionSeries Bo5 -> ChampionshipSeries Bo7
//	 4-5 seeds: DivisionSeries Bo5 (1v4, 2v3) -> ChampionshipSeries Bo7
//	 2-3 seeds: a single ChampionshipSeries Bo7 (1v2)
//
// Series waiting on an earlier round are created with nil seed slots and
// filled as results come in.
func GeneratePlayoffBracket(divisions []models.DivisionStandings, league models.LeagueID) (models.PlayoffBracket, error) {
	seeds := SeedPlayoffTeams(divisions, league)
	if len(seeds) < 2 {
		return models.PlayoffBracket{}, fmt.Errorf("league %s has %d playoff teams, need at least 2", league, len(seeds))
	}

	bracket := models.PlayoffBracket{League: league, Seeds: seeds}

	switch {
	case len(seeds) >= 6:
		bracket.Rounds = []models.PlayoffRound{
			{
				Name: models.RoundWildCard,
				Series: []models.PlayoffSeries{
					newSeries(league, models.RoundWildCard, 1, bestOfWildCard, seedRef(seeds, 3), seedRef(seeds, 6)),
					newSeries(league, models.RoundWildCard, 2, bestOfWildCard, seedRef(seeds, 4), seedRef(seeds, 5)),
				},
			},
			{
				Name: models.RoundDivisionSeries,
				Series: []models.PlayoffSeries{
					// Seed 1 draws the 4v5 winner, seed 2 the 3v6 winner
					newSeries(league, models.RoundDivisionSeries, 1, bestOfDivision, seedRef(seeds, 1), nil),
					newSeries(league, models.RoundDivisionSeries, 2, bestOfDivision, seedRef(seeds, 2), nil),
				},
			},
			{
				Name: models.RoundChampionshipSeries,
				Series: []models.PlayoffSeries{
					newSeries(league, models.RoundChampionshipSeries, 1, bestOfChampionship, nil, nil),
				},
			},
		}
	case len(seeds) >= 4:
		bracket.Rounds = []models.PlayoffRound{
			{
				Name: models.RoundDivisionSeries,
				Series: []models.PlayoffSeries{
					newSeries(league, models.RoundDivisionSeries, 1, bestOfDivision, seedRef(seeds, 1), seedRef(seeds, 4)),
					newSeries(league, models.RoundDivisionSeries, 2, bestOfDivision, seedRef(seeds, 2), seedRef(seeds, 3)),
				},
			},
			{
				Name: models.RoundChampionshipSeries,
				Series: []models.PlayoffSeries{
					newSeries(league, models.RoundChampionshipSeries, 1, bestOfChampionship, nil, nil),
				},
			},
		}
	default:
		bracket.Rounds = []models.PlayoffRound{
			{
				Name: models.RoundChampionshipSeries,
				Series: []models.PlayoffSeries{
					newSeries(league, models.RoundChampionshipSeries, 1, bestOfChampionship, seedRef(seeds, 1), seedRef(seeds, 2)),
				},
			},
		}
	}

	return bracket, nil
}

// BuildPostseason seeds both league brackets and the empty World Series
// shell. The World Series seed slots fill once each league crowns a champion.
func BuildPostseason(divisions []models.DivisionStandings) (models.FullPlayoffBracket, error) {
	al, err := GeneratePlayoffBracket(divisions, models.LeagueAL)
	if err != nil {
		return models.FullPlayoffBracket{}, fmt.Errorf("seeding AL bracket: %w", err)
	}
	nl, err := GeneratePlayoffBracket(divisions, models.LeagueNL)
	if err != nil {
		return models.FullPlayoffBracket{}, fmt.Errorf("seeding NL bracket: %w", err)
	}

	return models.FullPlayoffBracket{
		AL:          al,
		NL:          nl,
		WorldSeries: newSeries(models.LeagueMLB, models.RoundWorldSeries, 1, bestOfWorldSeries, nil, nil),
	}, nil
}

// HomeFieldSchedule returns the home team id per game for the fixed
// best-of patterns: Bo3 = H-A-H, Bo5 = H-A-A-H-H, Bo7 = H-A-A-H-H-A-H,
// where H is the higher seed's park.
func HomeFieldSchedule(higherSeedID, lowerSeedID string, bestOf int) ([]string, error) {
	var pattern []bool // true = higher seed hosts
	switch bestOf {
	case 3:
		pattern = []bool{true, false, true}
	case 5:
		pattern = []bool{true, false, false, true, true}
	case 7:
		pattern = []bool{true, false, false, true, true, false, true}
	default:
		return nil, fmt.Errorf("unsupported series length bestOf=%d", bestOf)
	}

	hosts := make([]string, len(pattern))
	for i, higherHosts := range pattern {
		if higherHosts {
			hosts[i] = higherSeedID
		} else {
			hosts[i] = lowerSeedID
		}
	}
	return hosts, nil
}

// WinsNeeded is the clinch threshold for a best-of series
func WinsNeeded(bestOf int) int {
	return bestOf/2 + 1
}
