package outfit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisualForKnownPresets(t *testing.T) {
	for _, p := range Presets {
		v := VisualFor(p)
		require.NotEmpty(t, v.Icon, "preset %s", p)
		require.NotEqual(t, "unknown", v.Label, "preset %s", p)
	}
	require.Equal(t, Visual{Icon: "💨", Label: "wind layer"}, VisualFor(WindLayerAddon))
	require.Equal(t, Visual{Icon: "🧥", Label: "jacket"}, VisualFor(ColdJacket))
}

func TestVisualForUnknownPreset(t *testing.T) {
	require.Equal(t, Visual{Icon: "👕", Label: "unknown"}, VisualFor(Preset("BEACH_WEAR")))
}

func TestVisualsForPreservesOrder(t *testing.T) {
	got := VisualsFor([]Preset{MildCasual, WindLayerAddon})
	require.Equal(t, []Visual{
		{Icon: "👕", Label: "casual"},
		{Icon: "💨", Label: "wind layer"},
	}, got)
}

func TestCatalogCoversAllPresets(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 11)
	require.Equal(t, ExtremeColdFull, catalog[0].Preset)
	require.Equal(t, WindLayerAddon, catalog[10].Preset)
}
