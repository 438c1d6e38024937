package outfit

import (
	"encoding/json"
	"fmt"
	"math"
)

// Preset is a discrete layering strategy recommended for a day.
type Preset string

const (
	ExtremeColdFull Preset = "EXTREME_COLD_FULL"
	VeryColdLayered Preset = "VERY_COLD_LAYERED"
	ColdJacket      Preset = "COLD_JACKET"
	CoolLightLayer  Preset = "COOL_LIGHT_LAYER"
	MildCasual      Preset = "MILD_CASUAL"
	WarmShortSleeve Preset = "WARM_SHORT_SLEEVE"
	HotUltralight   Preset = "HOT_ULTRALIGHT"
	RainCool        Preset = "RAIN_COOL"
	RainWarm        Preset = "RAIN_WARM"
	SnowGear        Preset = "SNOW_GEAR"
	// WindLayerAddon is only ever appended after a base preset.
	WindLayerAddon Preset = "WIND_LAYER_ADDON"
)

// Presets lists every preset in declaration order.
var Presets = []Preset{
	ExtremeColdFull,
	VeryColdLayered,
	ColdJacket,
	CoolLightLayer,
	MildCasual,
	WarmShortSleeve,
	HotUltralight,
	RainCool,
	RainWarm,
	SnowGear,
	WindLayerAddon,
}

// PrecipType tags the dominant precipitation of a day.
type PrecipType string

const (
	PrecipNone PrecipType = "none"
	PrecipRain PrecipType = "rain"
	PrecipSnow PrecipType = "snow"
)

// Valid reports whether p is one of the known precipitation tags.
func (p PrecipType) Valid() bool {
	switch p {
	case PrecipNone, PrecipRain, PrecipSnow:
		return true
	default:
		return false
	}
}

// DayWeather is one normalized forecast day. Nil optionals are absent.
// Temperatures are Fahrenheit, wind in mph, Pop a fraction in [0,1].
type DayWeather struct {
	DateISO       string
	High          float64
	Low           float64
	FeelsLikeHigh *float64
	PrecipType    *PrecipType
	Pop           *float64
	Wind          *float64
	MaxGust       *float64
	UVIndex       *float64
	Summary       *string
}

// Recommendation is the classifier output for one day.
type Recommendation struct {
	Outfit []Preset `json:"outfit"`
	Notes  []string `json:"notes"`
}

// DayOutfit joins a day with its recommendation for transport.
type DayOutfit struct {
	DayWeather
	Recommendation
}

type dayWeatherJSON struct {
	DateISO       string      `json:"dateISO"`
	High          *float64    `json:"high"`
	Low           *float64    `json:"low"`
	FeelsLikeHigh *float64    `json:"feelsLikeHigh,omitempty"`
	PrecipType    *PrecipType `json:"precipType,omitempty"`
	Pop           *float64    `json:"pop,omitempty"`
	Wind          *float64    `json:"wind,omitempty"`
	MaxGust       *float64    `json:"maxGust,omitempty"`
	UVIndex       *float64    `json:"uvIndex,omitempty"`
	Summary       *string     `json:"summary,omitempty"`
}

// MarshalJSON writes a non-finite high/low as null; encoding/json rejects NaN.
func (d DayWeather) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

// UnmarshalJSON maps a null or missing high/low to NaN.
func (d *DayWeather) UnmarshalJSON(data []byte) error {
	var wire dayWeatherJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	day, err := wire.day()
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// MarshalJSON flattens the day fields next to outfit and notes.
func (d DayOutfit) MarshalJSON() ([]byte, error) {
	notes := d.Notes
	if notes == nil {
		notes = []string{}
	}
	return json.Marshal(struct {
		dayWeatherJSON
		Outfit []Preset `json:"outfit"`
		Notes  []string `json:"notes"`
	}{d.DayWeather.wire(), d.Outfit, notes})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (d *DayOutfit) UnmarshalJSON(data []byte) error {
	var wire struct {
		dayWeatherJSON
		Outfit []Preset `json:"outfit"`
		Notes  []string `json:"notes"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	day, err := wire.dayWeatherJSON.day()
	if err != nil {
		return err
	}
	d.DayWeather = day
	d.Recommendation = Recommendation{Outfit: wire.Outfit, Notes: wire.Notes}
	return nil
}

func (d DayWeather) wire() dayWeatherJSON {
	return dayWeatherJSON{
		DateISO:       d.DateISO,
		High:          finiteOrNil(d.High),
		Low:           finiteOrNil(d.Low),
		FeelsLikeHigh: d.FeelsLikeHigh,
		PrecipType:    d.PrecipType,
		Pop:           d.Pop,
		Wind:          d.Wind,
		MaxGust:       d.MaxGust,
		UVIndex:       d.UVIndex,
		Summary:       d.Summary,
	}
}

func (w dayWeatherJSON) day() (DayWeather, error) {
	if w.PrecipType != nil && !w.PrecipType.Valid() {
		return DayWeather{}, fmt.Errorf("unknown precipType %q", *w.PrecipType)
	}
	return DayWeather{
		DateISO:       w.DateISO,
		High:          valueOrNaN(w.High),
		Low:           valueOrNaN(w.Low),
		FeelsLikeHigh: w.FeelsLikeHigh,
		PrecipType:    w.PrecipType,
		Pop:           w.Pop,
		Wind:          w.Wind,
		MaxGust:       w.MaxGust,
		UVIndex:       w.UVIndex,
		Summary:       w.Summary,
	}, nil
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
