package forecast

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/seven-day-fit/internal/domain/outfit"
)

func nums(values ...any) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		f := toFloat(v)
		out[i] = &f
	}
	return out
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		panic("unsupported number")
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	daily := Daily{
		Time:             []string{"2025-01-01", "2025-01-02"},
		TemperatureMax:   nums(50, nil),
		TemperatureMin:   nums(30, 20),
		SnowfallSum:      nums(0, 1),
		PrecipitationSum: nums(0, 0),
		WeatherCode:      nums(0, 71),
	}

	days := Normalize(daily)
	require.Len(t, days, 2)

	first := days[0]
	require.Equal(t, "2025-01-01", first.DateISO)
	require.Equal(t, 50.0, first.High)
	require.Equal(t, 30.0, first.Low)
	require.Nil(t, first.PrecipType)
	require.Equal(t, "clear", *first.Summary)
	require.Nil(t, first.FeelsLikeHigh)
	require.Nil(t, first.Pop)
	require.Nil(t, first.Wind)
	require.Nil(t, first.MaxGust)
	require.Nil(t, first.UVIndex)

	second := days[1]
	require.Equal(t, "2025-01-02", second.DateISO)
	require.True(t, math.IsNaN(second.High), "null high is not defended against")
	require.Equal(t, 20.0, second.Low)
	require.Equal(t, outfit.PrecipSnow, *second.PrecipType)
	require.Equal(t, "snow", *second.Summary)
}

func TestNormalizeFromProviderJSON(t *testing.T) {
	raw := `{
		"time": ["2025-06-01"],
		"temperature_2m_max": [82.4],
		"temperature_2m_min": [61.2],
		"apparent_temperature_max": [85.1],
		"precipitation_probability_max": [45],
		"windspeed_10m_max": [12.3],
		"wind_gusts_10m_max": [null],
		"uv_index_max": [8.15],
		"snowfall_sum": [0],
		"precipitation_sum": [0.12],
		"weathercode": [80]
	}`
	var daily Daily
	require.NoError(t, json.Unmarshal([]byte(raw), &daily))

	days := Normalize(daily)
	require.Len(t, days, 1)
	day := days[0]
	require.Equal(t, 82.4, day.High)
	require.Equal(t, 61.2, day.Low)
	require.Equal(t, 85.1, *day.FeelsLikeHigh)
	require.InDelta(t, 0.45, *day.Pop, 1e-9)
	require.Equal(t, 12.3, *day.Wind)
	require.Nil(t, day.MaxGust)
	require.Equal(t, 8.15, *day.UVIndex)
	require.Equal(t, outfit.PrecipRain, *day.PrecipType)
	require.Equal(t, "showers", *day.Summary)
}

func TestNormalizeClampsPop(t *testing.T) {
	daily := Daily{
		Time:                        []string{"a", "b", "c", "d"},
		TemperatureMax:              nums(1, 1, 1, 1),
		TemperatureMin:              nums(0, 0, 0, 0),
		PrecipitationProbabilityMax: nums(150, -20, 0, nil),
	}

	days := Normalize(daily)
	require.Equal(t, 1.0, *days[0].Pop)
	require.Equal(t, 0.0, *days[1].Pop)
	require.NotNil(t, days[2].Pop)
	require.Equal(t, 0.0, *days[2].Pop)
	require.Nil(t, days[3].Pop)
}

func TestNormalizePrecipitationType(t *testing.T) {
	cases := []struct {
		name string
		snow []*float64
		rain []*float64
		want *outfit.PrecipType
	}{
		{name: "snow wins over rain", snow: nums(0.5), rain: nums(2), want: ptrPrecip(outfit.PrecipSnow)},
		{name: "rain only", snow: nums(0), rain: nums(0.1), want: ptrPrecip(outfit.PrecipRain)},
		{name: "dry day is absent", snow: nums(0), rain: nums(0)},
		{name: "null totals count as zero", snow: nums(nil), rain: nums(nil)},
		{name: "missing sequences count as zero", snow: nil, rain: nil},
		{name: "missing snow sequence with rain", snow: nil, rain: nums(3), want: ptrPrecip(outfit.PrecipRain)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days := Normalize(Daily{
				Time:             []string{"2025-01-01"},
				TemperatureMax:   nums(40),
				TemperatureMin:   nums(30),
				SnowfallSum:      tc.snow,
				PrecipitationSum: tc.rain,
			})
			require.Equal(t, tc.want, days[0].PrecipType)
		})
	}
}

func TestNormalizeShortAndMissingArrays(t *testing.T) {
	daily := Daily{
		Time:           []string{"2025-01-01", "2025-01-02"},
		TemperatureMax: nums(60),
		TemperatureMin: nil,
		UVIndexMax:     nums(5),
	}

	days := Normalize(daily)
	require.Len(t, days, 2)
	require.Equal(t, 60.0, days[0].High)
	require.True(t, math.IsNaN(days[0].Low))
	require.Equal(t, 5.0, *days[0].UVIndex)
	require.True(t, math.IsNaN(days[1].High))
	require.Nil(t, days[1].UVIndex)
}

func TestNormalizeDropsNonFiniteOptionals(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	days := Normalize(Daily{
		Time:                   []string{"2025-01-01"},
		TemperatureMax:         nums(60),
		TemperatureMin:         nums(50),
		ApparentTemperatureMax: []*float64{&nan},
		WindSpeedMax:           []*float64{&inf},
		WeatherCode:            []*float64{&nan},
	})
	require.Nil(t, days[0].FeelsLikeHigh)
	require.Nil(t, days[0].Wind)
	require.Nil(t, days[0].Summary)
}

func TestNormalizeEmpty(t *testing.T) {
	require.Empty(t, Normalize(Daily{}))
}

func TestNormalizeFeedsClassifier(t *testing.T) {
	days := Normalize(Daily{
		Time:                        []string{"2025-03-01"},
		TemperatureMax:              nums(62),
		TemperatureMin:              nums(48),
		ApparentTemperatureMax:      nums(60),
		PrecipitationProbabilityMax: nums(50),
		WindGustsMax:                nums(35),
		PrecipitationSum:            nums(0.3),
		WeatherCode:                 nums(63),
	})

	rec := outfit.Classify(days[0])
	require.Equal(t, []outfit.Preset{outfit.RainCool}, rec.Outfit)
	require.Equal(t, []string{outfit.NoteWindShell}, rec.Notes)
}

func TestWeatherSummary(t *testing.T) {
	cases := map[float64]string{
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
	for code, want := range cases {
		got, ok := WeatherSummary(code)
		require.True(t, ok, "code %v", code)
		require.Equal(t, want, got, "code %v", code)
	}

	for _, code := range []float64{4, 44, 52, 70, 76, 90, 97, 100, -1, 1.5} {
		_, ok := WeatherSummary(code)
		require.False(t, ok, "code %v", code)
	}
}

func ptrPrecip(p outfit.PrecipType) *outfit.PrecipType { return &p }
