package scoring

import "math"

// Competition names with a dedicated base score.
const (
	CompetitionBundesliga       = "Bundesliga"
	CompetitionConferenceLeague = "Conference League"
	CompetitionDFBPokal         = "DFB Pokal"
	CompetitionEuropaLeague     = "Europa League"
	CompetitionChampionsLeague  = "Champions League"
)

// Knockout stages with a multiplier.
const (
	StageQuarterfinal = "Quarterfinal"
	StageSemifinal    = "Semifinal"
	StageFinal        = "Final"
)

const (
	defaultCompetitionBase = 0.5
	defaultStageMultiplier = 1.0
	maxCompetitionScore    = 1.0
)

var competitionBase = map[string]float64{
	CompetitionBundesliga:       0.4,
	CompetitionConferenceLeague: 0.4,
	CompetitionDFBPokal:         0.5,
	CompetitionEuropaLeague:     0.6,
	CompetitionChampionsLeague:  0.7,
}

var stageMultiplier = map[string]float64{
	StageQuarterfinal: 1.2,
	StageSemifinal:    1.3,
	StageFinal:        1.4,
}

// CompetitionInput names the competition and, for knockout games, the stage.
// An empty Stage means no stage.
type CompetitionInput struct {
	Competition string
	Stage       string
}

// ScoreCompetition scores the prestige of a competition stage, capped at 1.
func ScoreCompetition(in CompetitionInput) float64 {
	base := lookup(competitionBase, in.Competition, defaultCompetitionBase)
	multiplier := defaultStageMultiplier
	if in.Stage != "" {
		multiplier = lookup(stageMultiplier, in.Stage, defaultStageMultiplier)
	}
	return round(math.Min(base*multiplier, maxCompetitionScore), competitionPrecision)
}
