package forecast

import "math"

// WMO weather interpretation codes as used by Open-Meteo.
var weatherSummaries = map[int]string{
	0:  "clear",
	1:  "mostly clear",
	2:  "mostly clear",
	3:  "overcast",
	45: "foggy",
	48: "foggy",
	51: "drizzle",
	53: "drizzle",
	55: "drizzle",
	56: "freezing drizzle",
	57: "freezing drizzle",
	61: "rain",
	63: "rain",
	65: "rain",
	66: "freezing rain",
	67: "freezing rain",
	71: "snow",
	73: "snow",
	75: "snow",
	77: "snow grains",
	80: "showers",
	81: "showers",
	82: "showers",
	85: "snow showers",
	86: "snow showers",
	95: "thunderstorm",
	96: "thunderstorm + hail",
	99: "thunderstorm + hail",
}

// WeatherSummary maps a WMO code to a short summary. Unknown and
// non-integral codes report false.
func WeatherSummary(code float64) (string, bool) {
	if code != math.Trunc(code) || math.IsInf(code, 0) {
		return "", false
	}
	summary, ok := weatherSummaries[int(code)]
	return summary, ok
}
