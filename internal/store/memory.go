package store

import (
	"fmt"
	"sync"

	"github.com/sandlotsim/league-engine/internal/models"
)

// MemoryStore implements SeasonStore with in-memory maps, the default for
// development and tests
type MemoryStore struct {
	mu       sync.RWMutex
	teams    []models.Team
	days     []models.ScheduleDay
	batting  map[string]models.BattingStats
	pitching map[string]models.PitchingStats
	bracket  *models.FullPlayoffBracket
}

// NewMemoryStore creates an in-memory store seeded with the default league
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teams:    defaultTeams(),
		batting:  make(map[string]models.BattingStats),
		pitching: make(map[string]models.PitchingStats),
	}
}

func (m *MemoryStore) GetTeams() ([]models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Team, len(m.teams))
	copy(out, m.teams)
	return out, nil
}

func (m *MemoryStore) SaveTeams(teams []models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byID := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	for i := range m.teams {
		if t, ok := byID[m.teams[i].ID]; ok {
			m.teams[i] = t
			delete(byID, t.ID)
		}
	}
	// Anything left is a new team
	for _, t := range teams {
		if _, ok := byID[t.ID]; ok {
			m.teams = append(m.teams, t)
		}
	}
	return nil
}

func (m *MemoryStore) SaveSchedule(days []models.ScheduleDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.days = copyDays(days)
	return nil
}

func (m *MemoryStore) GetSchedule(league models.LeagueID, day int) ([]models.ScheduleDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.ScheduleDay
	for _, d := range m.days {
		if day != 0 && d.Day != day {
			continue
		}
		filtered := models.ScheduleDay{Day: d.Day}
		for _, g := range d.Games {
			if league != "" && g.League != league {
				continue
			}
			filtered.Games = append(filtered.Games, g)
		}
		if len(filtered.Games) > 0 {
			out = append(out, filtered)
		}
	}
	return out, nil
}

func (m *MemoryStore) MarkGameComplete(day int, gameID string, homeScore, awayScore int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.days {
		if m.days[i].Day != day {
			continue
		}
		for j := range m.days[i].Games {
			g := &m.days[i].Games[j]
			if g.ID != gameID {
				continue
			}
			hs, as := homeScore, awayScore
			g.HomeScore = &hs
			g.AwayScore = &as
			g.Completed = true
			return nil
		}
	}
	return fmt.Errorf("game %q not found on day %d", gameID, day)
}

func (m *MemoryStore) GetBattingStats() (map[string]models.BattingStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]models.BattingStats, len(m.batting))
	for k, v := range m.batting {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) GetPitchingStats() (map[string]models.PitchingStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]models.PitchingStats, len(m.pitching))
	for k, v := range m.pitching {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) UpsertBattingStats(stats map[string]models.BattingStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range stats {
		m.batting[k] = v
	}
	return nil
}

func (m *MemoryStore) UpsertPitchingStats(stats map[string]models.PitchingStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range stats {
		m.pitching[k] = v
	}
	return nil
}

func (m *MemoryStore) SaveBracket(bracket models.FullPlayoffBracket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bracket = &bracket
	return nil
}

func (m *MemoryStore) GetBracket() (*models.FullPlayoffBracket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.bracket == nil {
		return nil, nil
	}
	b := *m.bracket
	return &b, nil
}

func (m *MemoryStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teams = defaultTeams()
	m.days = nil
	m.batting = make(map[string]models.BattingStats)
	m.pitching = make(map[string]models.PitchingStats)
	m.bracket = nil
	return nil
}

func (m *MemoryStore) Close() error {
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
