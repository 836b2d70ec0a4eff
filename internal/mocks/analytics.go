package mocks

import (
	"context"
	"sync"

	"github.com/sandlotsim/league-engine/internal/analytics"
	"github.com/sandlotsim/league-engine/internal/logger"
	"github.com/sandlotsim/league-engine/internal/models"
)

// MockAnalyticsSink implements analytics.Sink in memory for local
// development and tests. Summaries are computed from whatever box scores
// were inserted in this process.
type MockAnalyticsSink struct {
	mu      sync.RWMutex
	results []models.GameResult
}

// NewMockAnalyticsSink creates an in-memory analytics sink
func NewMockAnalyticsSink() *MockAnalyticsSink {
	logger.Info("Using MOCK analytics sink for local development")
	return &MockAnalyticsSink{}
}

// InsertBoxScore stores the game result in memory
func (m *MockAnalyticsSink) InsertBoxScore(_ context.Context, result models.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, result)
	return nil
}

// BattingSummary aggregates the stored batting lines for one team
func (m *MockAnalyticsSink) BattingSummary(_ context.Context, teamID string) (analytics.BattingSummaryRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row := analytics.BattingSummaryRow{TeamID: teamID}
	games := make(map[string]bool)
	for _, result := range m.results {
		counted := false
		for _, l := range result.BattingLines {
			if l.TeamID != teamID {
				continue
			}
			counted = true
			row.AB += uint64(l.AB)
			row.H += uint64(l.H)
			row.HR += uint64(l.HR)
			row.RBI += uint64(l.RBI)
		}
		if counted {
			games[result.GameID] = true
		}
	}

	row.Games = uint64(len(games))
	if row.AB > 0 {
		row.TeamAVG = float64(row.H) / float64(row.AB)
	}
	if row.Games > 0 {
		row.HRPerGame = float64(row.HR) / float64(row.Games)
	}
	return row, nil
}

// InsertedCount returns how many box scores were inserted
func (m *MockAnalyticsSink) InsertedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}

// Close is a no-op for the mock
func (m *MockAnalyticsSink) Close() error {
	return nil
}
