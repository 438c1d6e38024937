package forecast

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/seven-day-fit/internal/domain/outfit"
)

// Daily mirrors the Open-Meteo "daily" block: one date per index and parallel
// metric arrays. A nil slice means the metric was not requested; a nil element
// is a provider null.
type Daily struct {
	Time                        []string   `json:"time"`
	TemperatureMax              []*float64 `json:"temperature_2m_max"`
	TemperatureMin              []*float64 `json:"temperature_2m_min"`
	ApparentTemperatureMax      []*float64 `json:"apparent_temperature_max,omitempty"`
	PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max,omitempty"`
	WindSpeedMax                []*float64 `json:"windspeed_10m_max,omitempty"`
	WindGustsMax                []*float64 `json:"wind_gusts_10m_max,omitempty"`
	UVIndexMax                  []*float64 `json:"uv_index_max,omitempty"`
	SnowfallSum                 []*float64 `json:"snowfall_sum,omitempty"`
	PrecipitationSum            []*float64 `json:"precipitation_sum,omitempty"`
	WeatherCode                 []*float64 `json:"weathercode,omitempty"`
}

// Payload is what a provider client hands back to the service.
type Payload struct {
	Daily     Daily
	Timezone  string
	Source    string
	FetchedAt time.Time
	RawJSON   []byte
}

// Coordinate accepts a JSON number or a numeric string. Anything else that is
// present decodes to NaN and fails validation.
type Coordinate struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*c = Coordinate{}
		return nil
	}
	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			v = math.NaN()
		}
		*c = Coordinate{Value: v, Set: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		*c = Coordinate{Value: math.NaN(), Set: true}
		return nil
	}
	*c = Coordinate{Value: v, Set: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Set || math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// At is a convenience constructor for callers inside the process.
func At(v float64) Coordinate {
	return Coordinate{Value: v, Set: true}
}

// Request captures the payload accepted by the forecast service.
type Request struct {
	Lat Coordinate `json:"lat"`
	Lon Coordinate `json:"lon"`
}

// Response carries the normalized week.
type Response struct {
	Days []outfit.DayWeather `json:"days"`
}

// Config wires runtime knobs for the forecast domain.
type Config struct {
	// ForecastDays is how many days are requested upstream.
	ForecastDays int
	// SkipDays drops leading days (today) from the normalized sequence.
	SkipDays int
	// WindowDays caps the number of days returned after skipping.
	WindowDays int
}
