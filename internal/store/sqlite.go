package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandlotsim/league-engine/internal/models"
)

// SQLiteStore implements SeasonStore on a local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database, ensures the schema, and seeds the
// default league when the teams table is empty
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
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
		completed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS batting_stats (
		player_id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pitching_stats (
		player_id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS brackets (
		league_id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM teams").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return s.seedTeams()
	}
	return nil
}

func (s *SQLiteStore) seedTeams() error {
	for _, t := range defaultTeams() {
		_, err := s.db.Exec(`
			INSERT INTO teams (id, name, league, division, wins, losses, runs_scored, runs_allowed)
			VALUES (?, ?, ?, ?, 0, 0, 0, 0)
		`, t.ID, t.Name, string(t.League), t.Division)
		if err != nil {
			return fmt.Errorf("failed to seed team %s: %w", t.ID, err)
		}
	}
	return nil
}

func (s *SQLiteStore) GetTeams() ([]models.Team, error) {
	rows, err := s.db.Query(`
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

func (s *SQLiteStore) SaveTeams(teams []models.Team) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, t := range teams {
		_, err := tx.Exec(`
			INSERT INTO teams (id, name, league, division, wins, losses, runs_scored, runs_allowed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				wins = excluded.wins,
				losses = excluded.losses,
				runs_scored = excluded.runs_scored,
				runs_allowed = excluded.runs_allowed
		`, t.ID, t.Name, string(t.League), t.Division, t.Wins, t.Losses, t.RunsScored, t.RunsAllowed)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) SaveSchedule(days []models.ScheduleDay) error {
	tx, err := s.db.Begin()
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
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, g.ID, string(g.League), d.Day, g.HomeTeamID, g.AwayTeamID, nullableInt(g.HomeScore), nullableInt(g.AwayScore), boolToInt(g.Completed))
			if err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetSchedule(league models.LeagueID, day int) ([]models.ScheduleDay, error) {
	query := `
		SELECT game_id, league_id, day_number, home_team_id, away_team_id, home_score, away_score, completed
		FROM schedule_games WHERE 1=1
	`
	var args []interface{}
	if league != "" {
		query += " AND league_id = ?"
		args = append(args, string(league))
	}
	if day != 0 {
		query += " AND day_number = ?"
		args = append(args, day)
	}
	query += " ORDER BY day_number, game_id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScheduleRows(rows)
}

func (s *SQLiteStore) MarkGameComplete(day int, gameID string, homeScore, awayScore int) error {
	res, err := s.db.Exec(`
		UPDATE schedule_games SET home_score = ?, away_score = ?, completed = 1
		WHERE game_id = ? AND day_number = ?
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

func (s *SQLiteStore) GetBattingStats() (map[string]models.BattingStats, error) {
	out := make(map[string]models.BattingStats)
	err := s.readStatRows("batting_stats", func(playerID string, data []byte) error {
		var st models.BattingStats
		if err := json.Unmarshal(data, &st); err != nil {
			return err
		}
		out[playerID] = st
		return nil
	})
	return out, err
}

func (s *SQLiteStore) GetPitchingStats() (map[string]models.PitchingStats, error) {
	out := make(map[string]models.PitchingStats)
	err := s.readStatRows("pitching_stats", func(playerID string, data []byte) error {
		var st models.PitchingStats
		if err := json.Unmarshal(data, &st); err != nil {
			return err
		}
		out[playerID] = st
		return nil
	})
	return out, err
}

func (s *SQLiteStore) readStatRows(table string, scan func(string, []byte) error) error {
	rows, err := s.db.Query("SELECT player_id, data FROM " + table)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var playerID, data string
		if err := rows.Scan(&playerID, &data); err != nil {
			return err
		}
		if err := scan(playerID, []byte(data)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) UpsertBattingStats(stats map[string]models.BattingStats) error {
	rows := make(map[string][]byte, len(stats))
	for id, st := range stats {
		data, err := json.Marshal(st)
		if err != nil {
			return err
		}
		rows[id] = data
	}
	return s.upsertStatRows("batting_stats", rows)
}

func (s *SQLiteStore) UpsertPitchingStats(stats map[string]models.PitchingStats) error {
	rows := make(map[string][]byte, len(stats))
	for id, st := range stats {
		data, err := json.Marshal(st)
		if err != nil {
			return err
		}
		rows[id] = data
	}
	return s.upsertStatRows("pitching_stats", rows)
}

func (s *SQLiteStore) upsertStatRows(table string, statRows map[string][]byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO ` + table + ` (player_id, data) VALUES (?, ?)
		ON CONFLICT(player_id) DO UPDATE SET data = excluded.data
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for playerID, data := range statRows {
		if _, err := stmt.Exec(playerID, string(data)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) SaveBracket(bracket models.FullPlayoffBracket) error {
	data, err := json.Marshal(bracket)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO brackets (league_id, data) VALUES (?, ?)
		ON CONFLICT(league_id) DO UPDATE SET data = excluded.data
	`, string(models.LeagueMLB), string(data))
	return err
}

func (s *SQLiteStore) GetBracket() (*models.FullPlayoffBracket, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM brackets WHERE league_id = ?", string(models.LeagueMLB)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var bracket models.FullPlayoffBracket
	if err := json.Unmarshal([]byte(data), &bracket); err != nil {
		return nil, err
	}
	return &bracket, nil
}

func (s *SQLiteStore) Reset() error {
	tx, err := s.db.Begin()
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
	return s.seedTeams()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullableInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanScheduleRows groups flat schedule rows back into ScheduleDay values.
// Rows must arrive ordered by day number.
func scanScheduleRows(rows *sql.Rows) ([]models.ScheduleDay, error) {
	var days []models.ScheduleDay
	for rows.Next() {
		var g models.ScheduleGame
		var league string
		var day, completed int
		var homeScore, awayScore sql.NullInt64
		if err := rows.Scan(&g.ID, &league, &day, &g.HomeTeamID, &g.AwayTeamID, &homeScore, &awayScore, &completed); err != nil {
			return nil, err
		}
		g.League = models.LeagueID(league)
		g.Completed = completed != 0
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
