package schedule

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/sandlotsim/league-engine/internal/models"
)

// Defaults mirror a full MLB season: 162 games per team, division rivals
// played about twice as often as cross-division opponents.
const (
	DefaultTargetGamesPerTeam  = 162
	DefaultIntraDivisionWeight = 2.0

	// MaxTargetGamesPerTeam bounds how much schedule a single request can
	// ask the generator to materialize
	MaxTargetGamesPerTeam = 1000
)

// byeTeamID is the virtual opponent inserted by the circle method when a
// league has an odd team count. Pairings against it are dropped before
// packing, so each real team simply sits out that round.
const byeTeamID = "__BYE__"

// Config controls schedule generation
type Config struct {
	TargetGamesPerTeam  int
	IntraDivisionWeight float64
}

// ValidationError is a fail-fast input error with a stable code
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrNoTeams is returned when the generator receives an empty team list
var ErrNoTeams = &ValidationError{Code: "SCHEDULE_NO_TEAMS", Message: "cannot generate a schedule with no teams"}

// ErrTargetTooLarge is returned when the requested season length exceeds
// MaxTargetGamesPerTeam
var ErrTargetTooLarge = &ValidationError{Code: "SCHEDULE_TARGET_TOO_LARGE", Message: "target games per team exceeds the supported maximum"}

// matchup is one unordered pairing with a resolved home side
type matchup struct {
	league models.LeagueID
	home   string
	away   string
}

// Generate builds the full season schedule for every league in teams.
// For a fixed RNG seed and team structure the output is identical across
// runs: matchup materialization, shuffling, and home/away flips all draw
// only from rng, and game ids derive from (day, index).
func Generate(teams []models.Team, rng *rand.Rand, cfg Config) ([]models.ScheduleDay, error) {
	if len(teams) == 0 {
		return nil, ErrNoTeams
	}
	if cfg.TargetGamesPerTeam <= 0 {
		cfg.TargetGamesPerTeam = DefaultTargetGamesPerTeam
	}
	if cfg.TargetGamesPerTeam > MaxTargetGamesPerTeam {
		return nil, ErrTargetTooLarge
	}
	if cfg.IntraDivisionWeight <= 0 {
		cfg.IntraDivisionWeight = DefaultIntraDivisionWeight
	}

	byLeague := splitByLeague(teams)

	leagues := make([]models.LeagueID, 0, len(byLeague))
	for id := range byLeague {
		leagues = append(leagues, id)
	}
	sort.Slice(leagues, func(i, j int) bool { return leagues[i] < leagues[j] })

	// Per-league matchup queues and per-day caps
	queues := make(map[models.LeagueID][]matchup, len(byLeague))
	caps := make(map[models.LeagueID]int, len(byLeague))
	for _, id := range leagues {
		leagueTeams := byLeague[id]
		q := buildLeagueMatchups(id, leagueTeams, cfg)
		rng.Shuffle(len(q), func(i, j int) { q[i], q[j] = q[j], q[i] })
		queues[id] = q
		caps[id] = len(leagueTeams) / 2
	}

	var days []models.ScheduleDay
	for dayNumber := 1; ; dayNumber++ {
		day := packDay(dayNumber, leagues, queues, caps, rng)
		if len(day.Games) == 0 {
			break
		}
		days = append(days, day)
	}

	return days, nil
}

func splitByLeague(teams []models.Team) map[models.LeagueID][]models.Team {
	byLeague := make(map[models.LeagueID][]models.Team)
	for _, t := range teams {
		byLeague[t.League] = append(byLeague[t.League], t)
	}
	return byLeague
}

// matchupCounts solves for games per opponent pair within a league.
// With multiple divisions, intra-division opponents are weighted by
// cfg.IntraDivisionWeight and inter-division games are re-derived from the
// remainder so each team lands exactly on the target.
func matchupCounts(leagueTeams []models.Team, cfg Config) (intraDivGames, interDivGames int) {
	divSizes := make(map[string]int)
	for _, t := range leagueTeams {
		divSizes[t.Division]++
	}

	total := len(leagueTeams)
	if len(divSizes) <= 1 {
		// Single division: spread the target evenly over every opponent
		opponents := total - 1
		if opponents <= 0 {
			return 0, 0
		}
		return int(math.Round(float64(cfg.TargetGamesPerTeam) / float64(opponents))), 0
	}

	// Opponent counts from the perspective of a team in the first-listed
	// division; the solver assumes roughly equal division sizes.
	divs := make([]string, 0, len(divSizes))
	for d := range divSizes {
		divs = append(divs, d)
	}
	sort.Strings(divs)

	intraOpponents := divSizes[divs[0]] - 1
	interOpponents := total - divSizes[divs[0]]
	if intraOpponents <= 0 {
		return 0, int(math.Round(float64(cfg.TargetGamesPerTeam) / float64(interOpponents)))
	}

	// targetGames = intraOpponents*intra + interOpponents*inter,
	// with intra = weight * inter
	inter := float64(cfg.TargetGamesPerTeam) /
		(float64(intraOpponents)*cfg.IntraDivisionWeight + float64(interOpponents))
	intraDivGames = int(math.Round(inter * cfg.IntraDivisionWeight))

	// Re-derive inter-division games from the remainder so the exact
	// target is hit after rounding.
	remaining := cfg.TargetGamesPerTeam - intraOpponents*intraDivGames
	interDivGames = int(math.Round(float64(remaining) / float64(interOpponents)))
	if interDivGames < 0 {
		interDivGames = 0
	}
	return intraDivGames, interDivGames
}

// buildLeagueMatchups materializes the league's matchup multiset. Pairs
// are enumerated cycle by cycle with the circle method, each full cycle
// contributing at most one meeting per pair, with home/away alternating by
// cycle index.
func buildLeagueMatchups(league models.LeagueID, leagueTeams []models.Team, cfg Config) []matchup {
	intraDivGames, interDivGames := matchupCounts(leagueTeams, cfg)

	division := make(map[string]string, len(leagueTeams))
	ids := make([]string, 0, len(leagueTeams))
	for _, t := range leagueTeams {
		division[t.ID] = t.Division
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)

	pairTarget := func(a, b string) int {
		if division[a] == division[b] {
			return intraDivGames
		}
		return interDivGames
	}

	maxMeetings := intraDivGames
	if interDivGames > maxMeetings {
		maxMeetings = interDivGames
	}

	rounds := circleRounds(ids)

	var matchups []matchup
	for cycle := 0; cycle < maxMeetings; cycle++ {
		for _, round := range rounds {
			for _, pair := range round {
				if pairTarget(pair[0], pair[1]) <= cycle {
					continue
				}
				home, away := pair[0], pair[1]
				if cycle%2 == 1 {
					home, away = away, home
				}
				matchups = append(matchups, matchup{league: league, home: home, away: away})
			}
		}
	}
	return matchups
}

// circleRounds generates round-robin pairings with the circle method: one
// team stays fixed while the rest rotate, producing n-1 rounds (even n)
// where every pair meets exactly once. Odd team counts get a virtual BYE
// entrant whose pairings are dropped.
func circleRounds(ids []string) [][][2]string {
	ring := make([]string, len(ids))
	copy(ring, ids)
	if len(ring)%2 == 1 {
		ring = append(ring, byeTeamID)
	}
	n := len(ring)
	if n < 2 {
		return nil
	}

	rounds := make([][][2]string, 0, n-1)
	for r := 0; r < n-1; r++ {
		var round [][2]string
		for i := 0; i < n/2; i++ {
			a, b := ring[i], ring[n-1-i]
			if a == byeTeamID || b == byeTeamID {
				continue
			}
			round = append(round, [2]string{a, b})
		}
		rounds = append(rounds, round)

		// Rotate everything but the first position
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return rounds
}

// packDay greedily fills one day: walk each league's remaining queue in
// order, accept a pairing when neither side is already booked that day and
// the league's per-day cap has room, and flip home/away at random.
func packDay(dayNumber int, leagues []models.LeagueID, queues map[models.LeagueID][]matchup, caps map[models.LeagueID]int, rng *rand.Rand) models.ScheduleDay {
	day := models.ScheduleDay{Day: dayNumber}
	booked := make(map[string]bool)

	for _, league := range leagues {
		queue := queues[league]
		gamesToday := 0
		var leftover []matchup

		for _, m := range queue {
			if gamesToday >= caps[league] || booked[m.home] || booked[m.away] {
				leftover = append(leftover, m)
				continue
			}

			home, away := m.home, m.away
			if rng.Intn(2) == 1 {
				home, away = away, home
			}

			day.Games = append(day.Games, models.ScheduleGame{
				ID:         fmt.Sprintf("game-%d-%d", dayNumber, len(day.Games)+1),
				League:     league,
				HomeTeamID: home,
				AwayTeamID: away,
			})
			booked[home] = true
			booked[away] = true
			gamesToday++
		}

		queues[league] = leftover
	}

	return day
}
