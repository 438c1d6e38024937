package forecast

import (
	"math"

	"github.com/yanqian/seven-day-fit/internal/domain/outfit"
)

// Normalize converts the provider's parallel daily arrays into one record per
// date, in provider order.
func Normalize(daily Daily) []outfit.DayWeather {
	days := make([]outfit.DayWeather, 0, len(daily.Time))
	for i, date := range daily.Time {
		day := outfit.DayWeather{
			DateISO:       date,
			High:          required(daily.TemperatureMax, i),
			Low:           required(daily.TemperatureMin, i),
			FeelsLikeHigh: optional(daily.ApparentTemperatureMax, i),
			Wind:          optional(daily.WindSpeedMax, i),
			MaxGust:       optional(daily.WindGustsMax, i),
			UVIndex:       optional(daily.UVIndexMax, i),
		}
		if pct := optional(daily.PrecipitationProbabilityMax, i); pct != nil {
			pop := clamp(*pct/100, 0, 1)
			day.Pop = &pop
		}
		if precip := precipType(daily, i); precip != outfit.PrecipNone {
			day.PrecipType = &precip
		}
		if code := optional(daily.WeatherCode, i); code != nil {
			if summary, ok := WeatherSummary(*code); ok {
				day.Summary = &summary
			}
		}
		days = append(days, day)
	}
	return days
}

// precipType prefers snow over rain; missing totals count as zero.
func precipType(daily Daily, i int) outfit.PrecipType {
	snow := valueOr(daily.SnowfallSum, i, 0)
	rain := valueOr(daily.PrecipitationSum, i, 0)
	switch {
	case snow > 0:
		return outfit.PrecipSnow
	case rain > 0:
		return outfit.PrecipRain
	default:
		return outfit.PrecipNone
	}
}

// required coerces without a null guard: missing or null becomes NaN.
func required(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return math.NaN()
	}
	return *values[i]
}

// optional returns nil for an absent sequence, short sequence, null or non-finite value.
func optional(values []*float64, i int) *float64 {
	if i >= len(values) || values[i] == nil {
		return nil
	}
	v := *values[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func valueOr(values []*float64, i int, fallback float64) float64 {
	if v := optional(values, i); v != nil {
		return *v
	}
	return fallback
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
