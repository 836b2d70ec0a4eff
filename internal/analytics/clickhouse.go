package analytics

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/sandlotsim/league-engine/internal/models"
)

// Sink receives per-game box-score lines for offline analytics. The engine
// treats it as fire-and-forget; a failed insert never blocks bookkeeping.
type Sink interface {
	InsertBoxScore(ctx context.Context, result models.GameResult) error
	BattingSummary(ctx context.Context, teamID string) (BattingSummaryRow, error)
	Close() error
}

// BattingSummaryRow is an aggregate over every batting line a team has
// produced this season
type BattingSummaryRow struct {
	TeamID    string  `json:"teamId"`
	Games     uint64  `json:"games"`
	AB        uint64  `json:"ab"`
	H         uint64  `json:"h"`
	HR        uint64  `json:"hr"`
	RBI       uint64  `json:"rbi"`
	TeamAVG   float64 `json:"teamAvg"`
	HRPerGame float64 `json:"hrPerGame"`
}

// ClickHouseSink writes box scores to ClickHouse
type ClickHouseSink struct {
	conn driver.Conn
}

// NewClickHouseSink connects to ClickHouse and ensures the box-score tables
func NewClickHouseSink(addr, database, username, password string) (*ClickHouseSink, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	s := &ClickHouseSink{conn: conn}
	if err := s.initTables(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *ClickHouseSink) initTables() error {
	ctx := context.Background()

	battingTable := `
		CREATE TABLE IF NOT EXISTS batting_lines (
			game_id String,
			day UInt32,
			player_id String,
			team_id String,
			ab UInt8,
			r UInt8,
			h UInt8,
			doubles UInt8,
			triples UInt8,
			hr UInt8,
			rbi UInt8,
			bb UInt8,
			so UInt8,
			recorded_at DateTime DEFAULT now()
		) ENGINE = MergeTree()
		ORDER BY (team_id, day, game_id)
	`
	if err := s.conn.Exec(ctx, battingTable); err != nil {
		return fmt.Errorf("failed to create batting_lines table: %w", err)
	}

	pitchingTable := `
		CREATE TABLE IF NOT EXISTS pitching_lines (
			game_id String,
			day UInt32,
			player_id String,
			team_id String,
			ip Float64,
			h UInt8,
			er UInt8,
			bb UInt8,
			so UInt8,
			hr UInt8,
			recorded_at DateTime DEFAULT now()
		) ENGINE = MergeTree()
		ORDER BY (team_id, day, game_id)
	`
	if err := s.conn.Exec(ctx, pitchingTable); err != nil {
		return fmt.Errorf("failed to create pitching_lines table: %w", err)
	}
	return nil
}

// InsertBoxScore batch-inserts every batting and pitching line of one game
func (s *ClickHouseSink) InsertBoxScore(ctx context.Context, result models.GameResult) error {
	if len(result.BattingLines) > 0 {
		batch, err := s.conn.PrepareBatch(ctx, `
			INSERT INTO batting_lines (game_id, day, player_id, team_id, ab, r, h, doubles, triples, hr, rbi, bb, so)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare batting batch: %w", err)
		}
		for _, l := range result.BattingLines {
			err := batch.Append(
				result.GameID, uint32(result.Day), l.PlayerID, l.TeamID,
				uint8(l.AB), uint8(l.R), uint8(l.H), uint8(l.Doubles), uint8(l.Triples),
				uint8(l.HR), uint8(l.RBI), uint8(l.BB), uint8(l.SO),
			)
			if err != nil {
				return fmt.Errorf("failed to append batting line: %w", err)
			}
		}
		if err := batch.Send(); err != nil {
			return fmt.Errorf("failed to send batting batch: %w", err)
		}
	}

	if len(result.PitchingLines) > 0 {
		batch, err := s.conn.PrepareBatch(ctx, `
			INSERT INTO pitching_lines (game_id, day, player_id, team_id, ip, h, er, bb, so, hr)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare pitching batch: %w", err)
		}
		for _, l := range result.PitchingLines {
			err := batch.Append(
				result.GameID, uint32(result.Day), l.PlayerID, l.TeamID,
				l.IP, uint8(l.H), uint8(l.ER), uint8(l.BB), uint8(l.SO), uint8(l.HR),
			)
			if err != nil {
				return fmt.Errorf("failed to append pitching line: %w", err)
			}
		}
		if err := batch.Send(); err != nil {
			return fmt.Errorf("failed to send pitching batch: %w", err)
		}
	}

	return nil
}

// BattingSummary aggregates a team's batting lines into season totals
func (s *ClickHouseSink) BattingSummary(ctx context.Context, teamID string) (BattingSummaryRow, error) {
	query := `
		SELECT
			countDistinct(game_id) AS games,
			sum(ab) AS ab,
			sum(h) AS h,
			sum(hr) AS hr,
			sum(rbi) AS rbi,
			if(sum(ab) > 0, sum(h) / sum(ab), 0) AS team_avg,
			if(countDistinct(game_id) > 0, sum(hr) / countDistinct(game_id), 0) AS hr_per_game
		FROM batting_lines
		WHERE team_id = $1
	`

	row := BattingSummaryRow{TeamID: teamID}
	err := s.conn.QueryRow(ctx, query, teamID).Scan(
		&row.Games, &row.AB, &row.H, &row.HR, &row.RBI, &row.TeamAVG, &row.HRPerGame,
	)
	if err != nil {
		return BattingSummaryRow{}, err
	}
	return row, nil
}

// Close closes the ClickHouse connection
func (s *ClickHouseSink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
