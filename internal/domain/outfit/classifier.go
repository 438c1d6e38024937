package outfit

import "math"

const (
	windGustThreshold  = 30.0 // mph
	windSpeedThreshold = 20.0 // mph
	rainPopThreshold   = 0.4
	uvHighThreshold    = 7.0
	rainCoolMax        = 64.0
	lightLayerLowMax   = 58.0
)

const (
	NoteWindShell  = "Add wind shell"
	NoteHatSPF     = "Hat & SPF"
	NoteLightLayer = "Light layer AM/PM"
)

// temperatureBands maps inclusive upper bounds (°F) to base presets, coldest first.
var temperatureBands = []struct {
	max    float64
	preset Preset
}{
	{10, ExtremeColdFull},
	{29, VeryColdLayered},
	{49, ColdJacket},
	{64, CoolLightLayer},
	{79, MildCasual},
	{90, WarmShortSleeve},
}

type signals struct {
	temperature float64
	windy       bool
	rainy       bool
	snowy       bool
	uvHigh      bool
}

func deriveSignals(day DayWeather) signals {
	feels := day.High
	if day.FeelsLikeHigh != nil {
		feels = *day.FeelsLikeHigh
	}
	precip := PrecipNone
	if day.PrecipType != nil {
		precip = *day.PrecipType
	}
	return signals{
		temperature: roundHalfUp(feels),
		windy:       atLeast(day.MaxGust, windGustThreshold) || atLeast(day.Wind, windSpeedThreshold),
		rainy:       precip == PrecipRain && atLeast(day.Pop, rainPopThreshold),
		snowy:       precip == PrecipSnow,
		uvHigh:      atLeast(day.UVIndex, uvHighThreshold),
	}
}

// Classify picks the outfit presets and advisory notes for a single day.
// Snow wins over rain, rain over the temperature ladder.
func Classify(day DayWeather) Recommendation {
	sig := deriveSignals(day)

	if sig.snowy {
		return Recommendation{Outfit: []Preset{SnowGear}, Notes: []string{}}
	}

	if sig.rainy {
		preset := RainWarm
		if sig.temperature <= rainCoolMax {
			preset = RainCool
		}
		notes := []string{}
		if sig.windy {
			notes = append(notes, NoteWindShell)
		}
		return Recommendation{Outfit: []Preset{preset}, Notes: notes}
	}

	base := basePreset(sig.temperature)
	outfit := []Preset{base}
	if sig.windy {
		outfit = append(outfit, WindLayerAddon)
	}

	notes := []string{}
	if sig.uvHigh {
		notes = append(notes, NoteHatSPF)
	}
	if base == MildCasual && day.Low < lightLayerLowMax {
		notes = append(notes, NoteLightLayer)
	}
	return Recommendation{Outfit: outfit, Notes: notes}
}

// ClassifyWeek applies Classify to every day; output index i matches input index i.
func ClassifyWeek(days []DayWeather) []Recommendation {
	out := make([]Recommendation, len(days))
	for i, day := range days {
		out[i] = Classify(day)
	}
	return out
}

// MergeWeek pairs days with their recommendations by index.
func MergeWeek(days []DayWeather, recs []Recommendation) []DayOutfit {
	out := make([]DayOutfit, 0, len(days))
	for i, day := range days {
		var rec Recommendation
		if i < len(recs) {
			rec = recs[i]
		}
		out = append(out, DayOutfit{DayWeather: day, Recommendation: rec})
	}
	return out
}

// basePreset walks the band ladder. A NaN temperature fails every comparison
// and lands on HotUltralight.
func basePreset(temperature float64) Preset {
	for _, band := range temperatureBands {
		if temperature <= band.max {
			return band.preset
		}
	}
	return HotUltralight
}

func atLeast(v *float64, threshold float64) bool {
	return v != nil && *v >= threshold
}

// roundHalfUp rounds .5 toward +Inf, so 64.5 -> 65 and -10.5 -> -10.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
