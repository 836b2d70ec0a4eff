package store

import "github.com/sandlotsim/league-engine/internal/models"

// defaultTeams is the stock twelve-team league: two leagues, two divisions
// each, three teams per division. Fresh stores seed from it so the engine
// is playable out of the box.
func defaultTeams() []models.Team {
	return []models.Team{
		{ID: "al-e-monarchs", Name: "Harbor Monarchs", League: models.LeagueAL, Division: "East"},
		{ID: "al-e-admirals", Name: "Bayside Admirals", League: models.LeagueAL, Division: "East"},
		{ID: "al-e-forge", Name: "Ironworks Forge", League: models.LeagueAL, Division: "East"},
		{ID: "al-w-comets", Name: "Canyon Comets", League: models.LeagueAL, Division: "West"},
		{ID: "al-w-miners", Name: "Gulch Miners", League: models.LeagueAL, Division: "West"},
		{ID: "al-w-stampede", Name: "Prairie Stampede", League: models.LeagueAL, Division: "West"},
		{ID: "nl-e-herons", Name: "Marsh Herons", League: models.LeagueNL, Division: "East"},
		{ID: "nl-e-captains", Name: "Quayside Captains", League: models.LeagueNL, Division: "East"},
		{ID: "nl-e-locomotives", Name: "Junction Locomotives", League: models.LeagueNL, Division: "East"},
		{ID: "nl-w-condors", Name: "Mesa Condors", League: models.LeagueNL, Division: "West"},
		{ID: "nl-w-rogues", Name: "River Rogues", League: models.LeagueNL, Division: "West"},
		{ID: "nl-w-sentinels", Name: "Summit Sentinels", League: models.LeagueNL, Division: "West"},
	}
}
