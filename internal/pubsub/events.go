package pubsub

import (
	"github.com/sandlotsim/league-engine/internal/models"
)

// Constructors for the season event payloads. Payloads stay flat
// string-keyed maps so every consumer, SSE included, can take them as
// plain JSON.

// ScheduleGeneratedEvent announces a freshly generated season schedule
func ScheduleGeneratedEvent(days, games int) Event {
	return Event{
		Type: EventScheduleGenerated,
		Payload: map[string]interface{}{
			"days":  days,
			"games": games,
		},
	}
}

// GameResultEvent announces one completed regular-season game
func GameResultEvent(result models.GameResult) Event {
	return Event{
		Type: EventGameResult,
		Payload: map[string]interface{}{
			"day":        result.Day,
			"gameId":     result.GameID,
			"homeTeamId": result.HomeTeamID,
			"awayTeamId": result.AwayTeamID,
			"homeScore":  result.HomeScore,
			"awayScore":  result.AwayScore,
		},
	}
}

// StandingsUpdateEvent signals that standings changed and should be refetched
func StandingsUpdateEvent() Event {
	return Event{Type: EventStandingsUpdate}
}

// SeasonCompleteEvent announces that every scheduled game has a result
func SeasonCompleteEvent(totalGames int) Event {
	return Event{
		Type:    EventSeasonComplete,
		Payload: map[string]interface{}{"totalGames": totalGames},
	}
}

// PlayoffsSeededEvent announces the postseason bracket with its seeded fields
func PlayoffsSeededEvent(bracket models.FullPlayoffBracket) Event {
	return Event{
		Type: EventPlayoffsSeeded,
		Payload: map[string]interface{}{
			"alSeeds": seedIDs(bracket.AL.Seeds),
			"nlSeeds": seedIDs(bracket.NL.Seeds),
		},
	}
}

// PlayoffGameEvent announces one recorded postseason game
func PlayoffGameEvent(seriesID string, gameNumber, homeScore, awayScore int) Event {
	return Event{
		Type: EventPlayoffGame,
		Payload: map[string]interface{}{
			"seriesId":   seriesID,
			"gameNumber": gameNumber,
			"homeScore":  homeScore,
			"awayScore":  awayScore,
		},
	}
}

// PlayoffChampionEvent announces the World Series champion
func PlayoffChampionEvent(teamID string) Event {
	return Event{
		Type:    EventPlayoffChampion,
		Payload: map[string]interface{}{"teamId": teamID},
	}
}

func seedIDs(seeds []models.PlayoffTeamSeed) []string {
	ids := make([]string, len(seeds))
	for i, s := range seeds {
		ids[i] = s.TeamID
	}
	return ids
}
