package scoring

import "fmt"

const (
	membershipFloor = 10_000
	// membershipSpan is 400000-1000 while the floor is 10000; the pair is
	// kept as published.
	membershipSpan = 400_000 - 1_000

	membersWeight = 0.5
	formWeight    = 0.25
	tableWeight   = 0.25
	derbyBoost    = 1.2

	pointsPerWin = 3
)

// formWeights is indexed by position in the form string.
var formWeights = [...]float64{1, 1.5, 2, 2.5, 3}

// MaxFormLength is the longest form string FormScore accepts.
const MaxFormLength = len(formWeights)

var formPoints = map[rune]float64{
	'W': pointsPerWin,
	'D': 1,
	'L': 0,
}

type positionBand struct {
	first, last int
	score       float64
}

var positionBands = []positionBand{
	{1, 5, 1.0},
	{6, 10, 0.75},
	{11, 15, 0.5},
	{16, 18, 0.25},
}

// TeamInput carries the home club's strength indicators.
type TeamInput struct {
	Members          int
	Form             string
	HomePosition     int
	OpponentPosition int
	IsDerby          bool
}

// MembershipScore maps a club membership count onto [0, 1].
func MembershipScore(members int) float64 {
	return clamp(float64(members-membershipFloor)/membershipSpan, 0, 1)
}

// FormScore weights recent results positionally and normalizes by the score
// of a perfect five-win run.
func FormScore(form string) (float64, error) {
	results := []rune(form)
	if len(results) > MaxFormLength {
		return 0, fmt.Errorf("%w: %d results, at most %d", ErrFormTooLong, len(results), MaxFormLength)
	}

	var maxScore float64
	for _, w := range formWeights {
		maxScore += pointsPerWin * w
	}

	var score float64
	for i, r := range results {
		points, ok := formPoints[r]
		if !ok {
			return 0, fmt.Errorf("%w: %q at position %d", ErrInvalidFormResult, r, i)
		}
		score += points * formWeights[i]
	}
	return score / maxScore, nil
}

// TableScore averages the league-position bands of both sides. Positions
// outside every band count as 0.
func TableScore(homePos, opponentPos int) float64 {
	return (positionScore(homePos) + positionScore(opponentPos)) / 2
}

func positionScore(pos int) float64 {
	for _, b := range positionBands {
		if b.first <= pos && pos <= b.last {
			return b.score
		}
	}
	return 0
}

// ScoreTeam combines membership, form and table position. Derbies are boosted
// by 1.2 without re-normalizing, so a derby can score above 1.
func ScoreTeam(in TeamInput) (float64, error) {
	form, err := FormScore(in.Form)
	if err != nil {
		return 0, err
	}

	score := MembershipScore(in.Members)*membersWeight +
		form*formWeight +
		TableScore(in.HomePosition, in.OpponentPosition)*tableWeight
	if in.IsDerby {
		score *= derbyBoost
	}
	return score, nil
}
