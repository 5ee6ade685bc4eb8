package scoring

import "math"

// Season names recognized by the season bonus table.
const (
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonFall   = "Fall"
	SeasonWinter = "Winter"
)

// Defaults substituted for missing weather fields.
const (
	DefaultTemperature   = 18.0
	DefaultPrecipitation = 0.0
	DefaultSeason        = SeasonSummer
)

const (
	comfortTemperature  = 18.0
	temperatureWindow   = 10.0
	precipitationCutoff = 100.0
	defaultSeasonBonus  = 0.7

	temperatureWeight   = 0.5
	precipitationWeight = 0.3
	seasonWeight        = 0.2
)

var seasonBonus = map[string]float64{
	SeasonSpring: 0.8,
	SeasonSummer: 1.0,
	SeasonFall:   0.9,
	SeasonWinter: 0.6,
}

// WeatherInput holds the weather attributes of an event. Nil fields are missing.
type WeatherInput struct {
	Temperature   *float64 // degrees Celsius
	Precipitation *float64 // millimetres
	Season        *string
}

// withDefaults returns the concrete temperature, precipitation and season.
func (in WeatherInput) withDefaults() (float64, float64, string) {
	temp, precip, season := DefaultTemperature, DefaultPrecipitation, DefaultSeason
	if in.Temperature != nil {
		temp = *in.Temperature
	}
	if in.Precipitation != nil {
		precip = *in.Precipitation
	}
	if in.Season != nil {
		season = *in.Season
	}
	return temp, precip, season
}

// ScoreWeather scores how comfortable the match conditions are.
// Negative precipitation is not rejected and pushes the result above 1.
func ScoreWeather(in WeatherInput) float64 {
	temp, precip, season := in.withDefaults()

	tempScore := clamp(1-math.Abs(temp-comfortTemperature)/temperatureWindow, 0, 1)
	precipScore := math.Max(0, 1-precip/precipitationCutoff)
	bonus := lookup(seasonBonus, season, defaultSeasonBonus)

	score := tempScore*temperatureWeight + precipScore*precipitationWeight + bonus*seasonWeight
	return round(score, weatherPrecision)
}
