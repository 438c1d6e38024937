package outfit

// Visual is the icon and label a client renders for a preset.
type Visual struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// PresetVisual pairs a preset with its visual for catalog listings.
type PresetVisual struct {
	Preset Preset `json:"preset"`
	Visual
}

var unknownVisual = Visual{Icon: "👕", Label: "unknown"}

var visuals = map[Preset]Visual{
	ExtremeColdFull: {Icon: "🥶", Label: "extreme cold bundle"},
	VeryColdLayered: {Icon: "🧥🧣", Label: "heavy layers"},
	ColdJacket:      {Icon: "🧥", Label: "jacket"},
	CoolLightLayer:  {Icon: "🧥", Label: "light layer"},
	MildCasual:      {Icon: "👕", Label: "casual"},
	WarmShortSleeve: {Icon: "☀️👕", Label: "short sleeve"},
	HotUltralight:   {Icon: "☀️🩳", Label: "ultralight"},
	RainCool:        {Icon: "🌧️🧥", Label: "rain shell + layer"},
	RainWarm:        {Icon: "🌧️", Label: "rain shell"},
	SnowGear:        {Icon: "❄️🧥", Label: "snow gear"},
	WindLayerAddon:  {Icon: "💨", Label: "wind layer"},
}

// VisualFor returns the visual of p, or a generic one for unknown presets.
func VisualFor(p Preset) Visual {
	if v, ok := visuals[p]; ok {
		return v
	}
	return unknownVisual
}

// VisualsFor maps presets to visuals, preserving order.
func VisualsFor(presets []Preset) []Visual {
	out := make([]Visual, 0, len(presets))
	for _, p := range presets {
		out = append(out, VisualFor(p))
	}
	return out
}

// Catalog lists every preset with its visual.
func Catalog() []PresetVisual {
	out := make([]PresetVisual, 0, len(Presets))
	for _, p := range Presets {
		out = append(out, PresetVisual{Preset: p, Visual: VisualFor(p)})
	}
	return out
}
