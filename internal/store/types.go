package store

import (
	"fmt"

	"github.com/sandlotsim/league-engine/internal/models"
)

// SeasonStore is the persistence boundary for season state. Schedule rows,
// stat rows, and the playoff bracket blob all live behind it so the engine
// core stays pure.
type SeasonStore interface {
	// Teams
	GetTeams() ([]models.Team, error)
	SaveTeams(teams []models.Team) error

	// Schedule; league "" and day 0 mean no filter
	SaveSchedule(days []models.ScheduleDay) error
	GetSchedule(league models.LeagueID, day int) ([]models.ScheduleDay, error)
	MarkGameComplete(day int, gameID string, homeScore, awayScore int) error

	// Season stats, upserted with the accumulator's output
	GetBattingStats() (map[string]models.BattingStats, error)
	GetPitchingStats() (map[string]models.PitchingStats, error)
	UpsertBattingStats(stats map[string]models.BattingStats) error
	UpsertPitchingStats(stats map[string]models.PitchingStats) error

	// Playoff bracket, stored whole; GetBracket returns nil before seeding
	SaveBracket(bracket models.FullPlayoffBracket) error
	GetBracket() (*models.FullPlayoffBracket, error)

	Reset() error
	Close() error
}

// New selects a store implementation by driver name
func New(driver, sqlitePath, postgresDSN string) (SeasonStore, error) {
	switch driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath)
	case "postgres":
		return NewPostgresStore(postgresDSN)
	default:
		return nil, fmt.Errorf("unknown DB driver %q", driver)
	}
}
