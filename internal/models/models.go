package models

// LeagueID identifies a league scope
type LeagueID string

const (
	LeagueAL  LeagueID = "AL"
	LeagueNL  LeagueID = "NL"
	LeagueMLB LeagueID = "MLB"
)

// Decision is a pitcher's single-game decision tag
type Decision string

const (
	DecisionWin       Decision = "W"
	DecisionLoss      Decision = "L"
	DecisionSave      Decision = "SV"
	DecisionHold      Decision = "HLD"
	DecisionBlownSave Decision = "BS"
)

// Team represents a league team and its cumulative season record
type Team struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	League      LeagueID `json:"league"`
	Division    string   `json:"division"`
	Wins        int      `json:"wins"`
	Losses      int      `json:"losses"`
	RunsScored  int      `json:"runsScored"`
	RunsAllowed int      `json:"runsAllowed"`
}

// ScheduleGame represents one scheduled game within a day
type ScheduleGame struct {
	ID         string   `json:"id"`
	League     LeagueID `json:"league"`
	HomeTeamID string   `json:"homeTeamId"`
	AwayTeamID string   `json:"awayTeamId"`
	HomeScore  *int     `json:"homeScore,omitempty"`
	AwayScore  *int     `json:"awayScore,omitempty"`
	Completed  bool     `json:"completed"`
	GameLogID  string   `json:"gameLogId,omitempty"`
}

// ScheduleDay is an ordered set of games for one day number.
// Day numbers are contiguous starting at 1.
type ScheduleDay struct {
	Day   int            `json:"day"`
	Games []ScheduleGame `json:"games"`
}

// BattingLine is one player's single-game batting counting stats,
// produced by the external game simulator
type BattingLine struct {
	PlayerID string `json:"playerId"`
	TeamID   string `json:"teamId"`
	AB       int    `json:"ab"`
	R        int    `json:"r"`
	H        int    `json:"h"`
	Doubles  int    `json:"doubles"`
	Triples  int    `json:"triples"`
	HR       int    `json:"hr"`
	RBI      int    `json:"rbi"`
	BB       int    `json:"bb"`
	SO       int    `json:"so"`
	SB       int    `json:"sb"`
	CS       int    `json:"cs"`
	HBP      int    `json:"hbp"`
	SF       int    `json:"sf"`
	SH       int    `json:"sh"`
	Errors   int    `json:"errors"`
}

// PitchingLine is one player's single-game pitching counting stats
type PitchingLine struct {
	PlayerID string   `json:"playerId"`
	TeamID   string   `json:"teamId"`
	IP       float64  `json:"ip"` // baseball notation: .1 = one third, .2 = two thirds
	H        int      `json:"h"`
	R        int      `json:"r"`
	ER       int      `json:"er"`
	BB       int      `json:"bb"`
	SO       int      `json:"so"`
	HR       int      `json:"hr"`
	HBP      int      `json:"hbp"`
	CG       bool     `json:"cg,omitempty"`
	SHO      bool     `json:"sho,omitempty"`
	Decision Decision `json:"decision,omitempty"`
}

// BattingStats holds season-cumulative batting counting stats plus derived
// rate stats. Derived fields are always a pure function of the counting
// fields; accumulation recomputes them, never adds to them.
type BattingStats struct {
	PlayerID string `json:"playerId"`
	TeamID   string `json:"teamId"`
	G        int    `json:"g"`
	AB       int    `json:"ab"`
	R        int    `json:"r"`
	H        int    `json:"h"`
	Doubles  int    `json:"doubles"`
	Triples  int    `json:"triples"`
	HR       int    `json:"hr"`
	RBI      int    `json:"rbi"`
	BB       int    `json:"bb"`
	SO       int    `json:"so"`
	SB       int    `json:"sb"`
	CS       int    `json:"cs"`
	HBP      int    `json:"hbp"`
	SF       int    `json:"sf"`
	SH       int    `json:"sh"`

	AVG float64 `json:"avg"`
	OBP float64 `json:"obp"`
	SLG float64 `json:"slg"`
	OPS float64 `json:"ops"`
}

// PitchingStats holds season-cumulative pitching counting stats plus
// derived rate stats
type PitchingStats struct {
	PlayerID string  `json:"playerId"`
	TeamID   string  `json:"teamId"`
	G        int     `json:"g"`
	GS       int     `json:"gs"`
	W        int     `json:"w"`
	L        int     `json:"l"`
	SV       int     `json:"sv"`
	HLD      int     `json:"hld"`
	BS       int     `json:"bs"`
	CG       int     `json:"cg"`
	SHO      int     `json:"sho"`
	IP       float64 `json:"ip"` // baseball notation, see PitchingLine
	H        int     `json:"h"`
	R        int     `json:"r"`
	ER       int     `json:"er"`
	BB       int     `json:"bb"`
	SO       int     `json:"so"`
	HR       int     `json:"hr"`
	HBP      int     `json:"hbp"`

	ERA  float64 `json:"era"`
	WHIP float64 `json:"whip"`
	FIP  float64 `json:"fip"`
	K9   float64 `json:"k9"`
	BB9  float64 `json:"bb9"`
}

// GameResult is one completed game as emitted by the external simulator
type GameResult struct {
	Day           int            `json:"day"`
	GameID        string         `json:"gameId"`
	HomeTeamID    string         `json:"homeTeamId"`
	AwayTeamID    string         `json:"awayTeamId"`
	HomeScore     int            `json:"homeScore"`
	AwayScore     int            `json:"awayScore"`
	BattingLines  []BattingLine  `json:"battingLines"`
	PitchingLines []PitchingLine `json:"pitchingLines"`
	StarterIDs    []string       `json:"starterIds"`
}

// DivisionStandings is a division's teams in standings order. It is a view
// over Team, recomputed on demand.
type DivisionStandings struct {
	League   LeagueID `json:"league"`
	Division string   `json:"division"`
	Teams    []Team   `json:"teams"`
}

// PlayoffTeamSeed is a seeded postseason entrant with its record snapshot
type PlayoffTeamSeed struct {
	TeamID string `json:"teamId"`
	Seed   int    `json:"seed"` // 1 = best
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// PlayoffGame is one recorded postseason game within a series
type PlayoffGame struct {
	GameNumber int    `json:"gameNumber"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
	WinnerID   string `json:"winnerId"`
}

// PlayoffSeries represents one best-of series. Seed slots are nil until the
// feeding round resolves them.
type PlayoffSeries struct {
	ID             string           `json:"id"`
	Round          string           `json:"round"`
	League         LeagueID         `json:"league"`
	HigherSeed     *PlayoffTeamSeed `json:"higherSeed"`
	LowerSeed      *PlayoffTeamSeed `json:"lowerSeed"`
	BestOf         int              `json:"bestOf"`
	Games          []PlayoffGame    `json:"games"`
	HigherSeedWins int              `json:"higherSeedWins"`
	LowerSeedWins  int              `json:"lowerSeedWins"`
	IsComplete     bool             `json:"isComplete"`
	WinnerID       string           `json:"winnerId,omitempty"`
}

// Round names, in play order
const (
	RoundWildCard           = "WildCard"
	RoundDivisionSeries     = "DivisionSeries"
	RoundChampionshipSeries = "ChampionshipSeries"
	RoundWorldSeries        = "WorldSeries"
)

// PlayoffRound groups the series of one named round
type PlayoffRound struct {
	Name   string          `json:"name"`
	Series []PlayoffSeries `json:"series"`
}

// PlayoffBracket is one league's postseason bracket
type PlayoffBracket struct {
	League LeagueID          `json:"league"`
	Seeds  []PlayoffTeamSeed `json:"seeds"`
	Rounds []PlayoffRound    `json:"rounds"`
}

// FullPlayoffBracket is the complete postseason: both league brackets plus
// the cross-league World Series. Once WorldSeriesChampionID is set the
// bracket is archival and never mutated again.
type FullPlayoffBracket struct {
	AL                    PlayoffBracket `json:"al"`
	NL                    PlayoffBracket `json:"nl"`
	WorldSeries           PlayoffSeries  `json:"worldSeries"`
	WorldSeriesChampionID string         `json:"worldSeriesChampionId,omitempty"`
}
