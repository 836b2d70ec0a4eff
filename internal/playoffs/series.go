package playoffs

import (
	"fmt"
	"sort"

	"github.com/sandlotsim/league-engine/internal/models"
)

// NextGame describes the single next unplayed postseason game
type NextGame struct {
	SeriesID   string          `json:"seriesId"`
	Round      string          `json:"round"`
	League     models.LeagueID `json:"league"`
	GameNumber int             `json:"gameNumber"`
	HomeTeamID string          `json:"homeTeamId"`
	AwayTeamID string          `json:"awayTeamId"`
}

// RecordGameResult applies one postseason game result and returns a new
// bracket; the input is never mutated. The game is upserted by game number
// so a replayed number overwrites the earlier record. After the result
// lands, completed-series winners are propagated into any waiting seed
// slots of later rounds.
func RecordGameResult(bracket models.FullPlayoffBracket, seriesID string, gameNumber, homeScore, awayScore int) (models.FullPlayoffBracket, error) {
	if bracket.WorldSeriesChampionID != "" {
		return bracket, fmt.Errorf("postseason is complete, bracket is archival")
	}
	if homeScore == awayScore {
		return bracket, fmt.Errorf("game %d of %s has a tied score %d-%d", gameNumber, seriesID, homeScore, awayScore)
	}

	next := copyFullBracket(bracket)

	series := findSeries(&next, seriesID)
	if series == nil {
		return bracket, fmt.Errorf("unknown series %q", seriesID)
	}
	if series.HigherSeed == nil || series.LowerSeed == nil {
		return bracket, fmt.Errorf("series %s is still waiting on an earlier round", seriesID)
	}
	if series.IsComplete {
		return bracket, fmt.Errorf("series %s is already decided", seriesID)
	}
	if gameNumber < 1 || gameNumber > series.BestOf {
		return bracket, fmt.Errorf("game number %d out of range for a best-of-%d series", gameNumber, series.BestOf)
	}

	hosts, err := HomeFieldSchedule(series.HigherSeed.TeamID, series.LowerSeed.TeamID, series.BestOf)
	if err != nil {
		return bracket, err
	}

	home := hosts[gameNumber-1]
	away := series.LowerSeed.TeamID
	if home == away {
		away = series.HigherSeed.TeamID
	}

	winner := home
	if awayScore > homeScore {
		winner = away
	}

	upsertGame(series, models.PlayoffGame{
		GameNumber: gameNumber,
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		WinnerID:   winner,
	})
	settleSeries(series)

	advance(&next)
	return next, nil
}

// upsertGame replaces the record at the same game number or inserts a new
// one, keeping games ordered by game number
func upsertGame(series *models.PlayoffSeries, game models.PlayoffGame) {
	for i := range series.Games {
		if series.Games[i].GameNumber == game.GameNumber {
			series.Games[i] = game
			return
		}
	}
	series.Games = append(series.Games, game)
	sort.Slice(series.Games, func(i, j int) bool {
		return series.Games[i].GameNumber < series.Games[j].GameNumber
	})
}

// settleSeries recomputes win counts from the game records and flips the
// series to complete once a side reaches the clinch threshold. Win counts
// are always recomputed, never incremented, so corrections stay consistent.
func settleSeries(series *models.PlayoffSeries) {
	series.HigherSeedWins = 0
	series.LowerSeedWins = 0
	for _, g := range series.Games {
		if g.WinnerID == series.HigherSeed.TeamID {
			series.HigherSeedWins++
		} else {
			series.LowerSeedWins++
		}
	}

	needed := WinsNeeded(series.BestOf)
	switch {
	case series.HigherSeedWins >= needed:
		series.IsComplete = true
		series.WinnerID = series.HigherSeed.TeamID
	case series.LowerSeedWins >= needed:
		series.IsComplete = true
		series.WinnerID = series.LowerSeed.TeamID
	default:
		series.IsComplete = false
		series.WinnerID = ""
	}
}

// advance fills seed slots that are now resolvable: wild-card winners into
// the division series, round winners into the next round, league champions
// into the World Series, and finally the champion id once the World Series
// is decided.
func advance(bracket *models.FullPlayoffBracket) {
	advanceLeague(&bracket.AL)
	advanceLeague(&bracket.NL)

	alChamp := leagueChampion(bracket.AL)
	nlChamp := leagueChampion(bracket.NL)
	if alChamp != nil && nlChamp != nil && bracket.WorldSeries.HigherSeed == nil {
		// Home field goes to the better regular-season record; on a
		// dead tie the AL champion hosts.
		higher, lower := alChamp, nlChamp
		if winPct(*nlChamp) > winPct(*alChamp) {
			higher, lower = nlChamp, alChamp
		}
		bracket.WorldSeries.HigherSeed = higher
		bracket.WorldSeries.LowerSeed = lower
	}

	if bracket.WorldSeries.IsComplete {
		bracket.WorldSeriesChampionID = bracket.WorldSeries.WinnerID
	}
}

// advanceLeague wires each completed series' winner into the next round.
// Pairing within a round follows the builder's layout: with a wild-card
// round, seed 1's division series takes the 4v5 winner and seed 2's takes
// the 3v6 winner; otherwise round winners fill the next round's series in
// order, higher slot by seed number.
func advanceLeague(bracket *models.PlayoffBracket) {
	for i := 0; i < len(bracket.Rounds)-1; i++ {
		current, next := &bracket.Rounds[i], &bracket.Rounds[i+1]

		if current.Name == models.RoundWildCard && len(current.Series) == 2 && len(next.Series) == 2 {
			// Series 1 is 3v6, series 2 is 4v5
			fillSlot(&next.Series[0], winnerSeed(current.Series[1], bracket.Seeds))
			fillSlot(&next.Series[1], winnerSeed(current.Series[0], bracket.Seeds))
			continue
		}

		if len(current.Series) == 2 && len(next.Series) == 1 {
			a := winnerSeed(current.Series[0], bracket.Seeds)
			b := winnerSeed(current.Series[1], bracket.Seeds)
			fillSlot(&next.Series[0], a)
			fillSlot(&next.Series[0], b)
		}
	}
}

// leagueChampion returns the winner of the league's final round, or nil
// while the bracket is still in play
func leagueChampion(bracket models.PlayoffBracket) *models.PlayoffTeamSeed {
	if len(bracket.Rounds) == 0 {
		return nil
	}
	final := bracket.Rounds[len(bracket.Rounds)-1]
	if len(final.Series) == 0 {
		return nil
	}
	s := final.Series[0]
	if !s.IsComplete {
		return nil
	}
	return findSeed(bracket.Seeds, s.WinnerID)
}

// fillSlot places a resolved seed into an open slot of the series, keeping
// the numerically better seed in the higher slot. Filling is idempotent: a
// seed already present is never placed twice.
func fillSlot(series *models.PlayoffSeries, seed *models.PlayoffTeamSeed) {
	if seed == nil {
		return
	}
	if series.HigherSeed != nil && series.HigherSeed.TeamID == seed.TeamID {
		return
	}
	if series.LowerSeed != nil && series.LowerSeed.TeamID == seed.TeamID {
		return
	}

	if series.HigherSeed == nil {
		series.HigherSeed = seed
	} else if series.LowerSeed == nil {
		series.LowerSeed = seed
	} else {
		return
	}

	// Keep the better seed number in the higher slot once both are known
	if series.HigherSeed != nil && series.LowerSeed != nil &&
		series.LowerSeed.Seed < series.HigherSeed.Seed {
		series.HigherSeed, series.LowerSeed = series.LowerSeed, series.HigherSeed
	}
}

func winnerSeed(series models.PlayoffSeries, seeds []models.PlayoffTeamSeed) *models.PlayoffTeamSeed {
	if !series.IsComplete {
		return nil
	}
	return findSeed(seeds, series.WinnerID)
}

func findSeed(seeds []models.PlayoffTeamSeed, teamID string) *models.PlayoffTeamSeed {
	for i := range seeds {
		if seeds[i].TeamID == teamID {
			s := seeds[i]
			return &s
		}
	}
	return nil
}

// Next scans rounds and series in declaration order, AL then NL then the
// World Series, and returns the single next game to play. It returns nil
// once every series is either complete or blocked on an earlier round.
func Next(bracket models.FullPlayoffBracket) *NextGame {
	if bracket.WorldSeriesChampionID != "" {
		return nil
	}

	for _, lb := range []models.PlayoffBracket{bracket.AL, bracket.NL} {
		for _, round := range lb.Rounds {
			for _, s := range round.Series {
				if g := nextInSeries(s); g != nil {
					return g
				}
			}
		}
	}
	return nextInSeries(bracket.WorldSeries)
}

func nextInSeries(series models.PlayoffSeries) *NextGame {
	if series.IsComplete || series.HigherSeed == nil || series.LowerSeed == nil {
		return nil
	}

	gameNumber := len(series.Games) + 1
	hosts, err := HomeFieldSchedule(series.HigherSeed.TeamID, series.LowerSeed.TeamID, series.BestOf)
	if err != nil || gameNumber > len(hosts) {
		return nil
	}

	home := hosts[gameNumber-1]
	away := series.LowerSeed.TeamID
	if home == away {
		away = series.HigherSeed.TeamID
	}

	return &NextGame{
		SeriesID:   series.ID,
		Round:      series.Round,
		League:     series.League,
		GameNumber: gameNumber,
		HomeTeamID: home,
		AwayTeamID: away,
	}
}

func findSeries(bracket *models.FullPlayoffBracket, seriesID string) *models.PlayoffSeries {
	for _, lb := range []*models.PlayoffBracket{&bracket.AL, &bracket.NL} {
		for r := range lb.Rounds {
			for s := range lb.Rounds[r].Series {
				if lb.Rounds[r].Series[s].ID == seriesID {
					return &lb.Rounds[r].Series[s]
				}
			}
		}
	}
	if bracket.WorldSeries.ID == seriesID {
		return &bracket.WorldSeries
	}
	return nil
}

func copyFullBracket(b models.FullPlayoffBracket) models.FullPlayoffBracket {
	return models.FullPlayoffBracket{
		AL:                    copyBracket(b.AL),
		NL:                    copyBracket(b.NL),
		WorldSeries:           copySeries(b.WorldSeries),
		WorldSeriesChampionID: b.WorldSeriesChampionID,
	}
}

func copyBracket(b models.PlayoffBracket) models.PlayoffBracket {
	out := models.PlayoffBracket{League: b.League}
	out.Seeds = append([]models.PlayoffTeamSeed(nil), b.Seeds...)
	out.Rounds = make([]models.PlayoffRound, len(b.Rounds))
	for i, round := range b.Rounds {
		out.Rounds[i] = models.PlayoffRound{Name: round.Name}
		out.Rounds[i].Series = make([]models.PlayoffSeries, len(round.Series))
		for j, s := range round.Series {
			out.Rounds[i].Series[j] = copySeries(s)
		}
	}
	return out
}

func copySeries(s models.PlayoffSeries) models.PlayoffSeries {
	out := s
	out.Games = append([]models.PlayoffGame(nil), s.Games...)
	if s.HigherSeed != nil {
		seed := *s.HigherSeed
		out.HigherSeed = &seed
	}
	if s.LowerSeed != nil {
		seed := *s.LowerSeed
		out.LowerSeed = &seed
	}
	return out
}

func winPct(seed models.PlayoffTeamSeed) float64 {
	games := seed.Wins + seed.Losses
	if games == 0 {
		return 0
	}
	return float64(seed.Wins) / float64(games)
}
