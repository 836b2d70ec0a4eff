package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/sandlotsim/league-engine/internal/models"
)

// PostgresStore implements SeasonStore on PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects with pooling tuned for a managed cluster,
// retries the initial ping to ride out DNS propagation in Kubernetes, then
// ensures the schema and seed data
func NewPostgresStore(connString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		league TEXT NOT NULL,
		division TEXT NOT NULL,
		wins INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		runs_scored INTEGER NOT NULL DEFAULT 0,
		runs_allowed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS schedule_games (
		game_id TEXT PRIMARY KEY,
		league_id TEXT NOT NULL,
		day_number INTEGER NOT NULL,
		home_team_id TEXT NOT NULL,
		away_team_id TEXT NOT NULL,
		home_score INTEGER,
		away_score INTEGER,
		completed BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_league_day
		ON schedule_games (league_id, day_number);

	CREATE TABLE IF NOT EXISTS batting_stats (
		player_id TEXT PRIMARY KEY,
		data JSONB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pitching_stats (
		player_id TEXT PRIMARY KEY,
		data JSONB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS brackets (
		league_id TEXT PRIMARY KEY,
		data JSONB NOT NULL
	);
	`

	if _, err := p.db.Exec(schema); err != nil {
		return err
	}

	var count int
	if err := p.db.QueryRow("SELECT COUNT(*) FROM teams").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return p.seedTeams()
	}
	return nil
}

func (p *PostgresStore) seedTeams() error {
	for _, t := range defaultTeams() {
		_, err := p.db.Exec(`
			INSERT INTO teams (id, name, league, division, wins, losses, runs_scored, runs_allowed)
			VALUES ($1, $2, $3, $4, 0, 0, 0, 0)
		`, t.ID, t.Name, string(t.League), t.Division)
		if err != nil {
			return fmt.Errorf("failed to seed team %s: %w", t.ID, err)
		}
	}
	return nil
}

func (p *PostgresStore) GetTeams() ([]models.Team, error) {
	rows, err := p.db.Query(`
		SELECT id, name, league, division, wins, losses, runs_scored, runs_allowed
		FROM teams ORDER BY league, division, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		var league string
		if err := rows.Scan(&t.ID, &t.Name, &league, &t.Division, &t.Wins, &t.Losses, &t.RunsScored, &t.RunsAllowed); err != nil {
			return nil, err
		}
		t.League = models.LeagueID(league)
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (p *PostgresStore) SaveTeams(teams []models.Team) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, t := range teams {
		_, err := tx.Exec(`
			INSERT INTO teams (id, name, league, division, wins, losses, runs_scored, runs_allowed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				wins = EXCLUDED.wins,
				losses = EXCLUDED.losses,
				runs_scored = EXCLUDED.runs_scored,
				runs_allowed = EXCLUDED.runs_allowed
		`, t.ID, t.Name, string(t.League), t.Division, t.Wins, t.Losses, t.RunsScored, t.RunsAllowed)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (p *PostgresStore) SaveSchedule(days []models.ScheduleDay) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM schedule_games"); err != nil {
		return err
	}

	for _, d := range days {
		for _, g := range d.Games {
			_, err := tx.Exec(`
				INSERT INTO schedule_games (game_id, league_id, day_number, home_team_id, away_team_id, home_score, away_score, completed)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, g.ID, string(g.League), d.Day, g.HomeTeamID, g.AwayTeamID, nullableInt(g.HomeScore), nullableInt(g.AwayScore), g.Completed)
			if err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (p *PostgresStore) GetSchedule(league models.LeagueID, day int) ([]models.ScheduleDay, error) {
	query := `
		SELECT game_id, league_id, day_number, home_team_id, away_team_id, home_score, away_score, completed
		FROM schedule_games WHERE 1=1
	`
	var args []interface{}
	if league != "" {
		args = append(args, string(league))
		query += fmt.Sprintf(" AND league_id = $%d", len(args))
	}
	if day != 0 {
		args = append(args, day)
		query += fmt.Sprintf(" AND day_number = $%d", len(args))
	}
	query += " ORDER BY day_number, game_id"

	rows, err := p.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresScheduleRows(rows)
}

func (p *PostgresStore) MarkGameComplete(day int, gameID string, homeScore, awayScore int) error {
	res, err := p.db.Exec(`
		UPDATE schedule_games SET home_score = $1, away_score = $2, completed = TRUE
		WHERE game_id = $3 AND day_number = $4
	`, homeScore, awayScore, gameID, day)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("game %q not found on day %d", gameID, day)
	}
	return nil
}

func (p *PostgresStore) GetBattingStats() (map[string]models.BattingStats, error) {
	out := make(map[string]models.BattingStats)
	err := p.readStatRows("batting_stats", func(playerID string, data []byte) error {
		var st models.BattingStats
		if err := json.Unmarshal(data, &st); err != nil {
			return err
		}
		out[playerID] = st
		return nil
	})
	return out, err
}

func (p *PostgresStore) GetPitchingStats() (map[string]models.PitchingStats, error) {
	out := make(map[string]models.PitchingStats)
	err := p.readStatRows("pitching_stats", func(playerID string, data []byte) error {
		var st models.PitchingStats
		if err := json.Unmarshal(data, &st); err != nil {
			return err
		}
		out[playerID] = st
		return nil
	})
	return out, err
}

func (p *PostgresStore) readStatRows(table string, scan func(string, []byte) error) error {
	rows, err := p.db.Query("SELECT player_id, data FROM " + table)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var playerID string
		var data []byte
		if err := rows.Scan(&playerID, &data); err != nil {
			return err
		}
		if err := scan(playerID, data); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (p *PostgresStore) UpsertBattingStats(stats map[string]models.BattingStats) error {
	rows := make(map[string][]byte, len(stats))
	for id, st := range stats {
		data, err := json.Marshal(st)
		if err != nil {
			return err
		}
		rows[id] = data
	}
	return p.upsertStatRows("batting_stats", rows)
}

func (p *PostgresStore) UpsertPitchingStats(stats map[string]models.PitchingStats) error {
	rows := make(map[string][]byte, len(stats))
	for id, st := range stats {
		data, err := json.Marshal(st)
		if err != nil {
			return err
		}
		rows[id] = data
	}
	return p.upsertStatRows("pitching_stats", rows)
}

func (p *PostgresStore) upsertStatRows(table string, statRows map[string][]byte) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO ` + table + ` (player_id, data) VALUES ($1, $2)
		ON CONFLICT (player_id) DO UPDATE SET data = EXCLUDED.data
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for playerID, data := range statRows {
		if _, err := stmt.Exec(playerID, data); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (p *PostgresStore) SaveBracket(bracket models.FullPlayoffBracket) error {
	data, err := json.Marshal(bracket)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(`
		INSERT INTO brackets (league_id, data) VALUES ($1, $2)
		ON CONFLICT (league_id) DO UPDATE SET data = EXCLUDED.data
	`, string(models.LeagueMLB), data)
	return err
}

func (p *PostgresStore) GetBracket() (*models.FullPlayoffBracket, error) {
	var data []byte
	err := p.db.QueryRow("SELECT data FROM brackets WHERE league_id = $1", string(models.LeagueMLB)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var bracket models.FullPlayoffBracket
	if err := json.Unmarshal(data, &bracket); err != nil {
		return nil, err
	}
	return &bracket, nil
}

func (p *PostgresStore) Reset() error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"teams", "schedule_games", "batting_stats", "pitching_stats", "brackets"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return p.seedTeams()
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func scanPostgresScheduleRows(rows *sql.Rows) ([]models.ScheduleDay, error) {
	var days []models.ScheduleDay
	for rows.Next() {
		var g models.ScheduleGame
		var league string
		var day int
		var homeScore, awayScore sql.NullInt64
		if err := rows.Scan(&g.ID, &league, &day, &g.HomeTeamID, &g.AwayTeamID, &homeScore, &awayScore, &g.Completed); err != nil {
			return nil, err
		}
		g.League = models.LeagueID(league)
		if homeScore.Valid {
			v := int(homeScore.Int64)
			g.HomeScore = &v
		}
		if awayScore.Valid {
			v := int(awayScore.Int64)
			g.AwayScore = &v
		}

		if len(days) == 0 || days[len(days)-1].Day != day {
			days = append(days, models.ScheduleDay{Day: day})
		}
		days[len(days)-1].Games = append(days[len(days)-1].Games, g)
	}
	return days, rows.Err()
}
