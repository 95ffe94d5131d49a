package aero

import (
	"math"

	"rttrainer/pkg/geo"
	"rttrainer/pkg/seed"
)

// Weather is a sampled METOR for one airport.
type Weather struct {
	WindDirection int `json:"wind_direction"` // degrees true, multiple of 10
	WindSpeed     int `json:"wind_speed"`     // knots
	Pressure      int `json:"pressure"`       // QNH hPa
	Temperature   int `json:"temperature"`
	DewPoint      int `json:"dew_point"`
}

// SampleWeather draws the weather at an airport for a scenario seed.
// Prevailing wind in the UK is south westerly.
func SampleWeather(seedString, airportID string) Weather {
	key := seedString + "/" + airportID
	dir := seed.NormalDistribution(key+"/wind-dir", 240, 40)
	dirInt := int(math.Round(geo.NormalizeBearing(dir)/10)) * 10
	if dirInt == 0 {
		dirInt = 360
	}
	speed := int(math.Round(math.Abs(seed.NormalDistribution(key+"/wind-speed", 8, 4))))
	pressure := int(math.Round(seed.NormalDistribution(key+"/qnh", 1013, 8)))
	temp := int(math.Round(seed.NormalDistribution(key+"/temp", 12, 5)))
	spread := int(math.Round(math.Abs(seed.NormalDistribution(key+"/dew", 3, 1.5))))
	return Weather{
		WindDirection: dirInt,
		WindSpeed:     speed,
		Pressure:      pressure,
		Temperature:   temp,
		DewPoint:      temp - spread,
	}
}
