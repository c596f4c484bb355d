package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrotram/backend/services/tram-bot/internal/locale"
	"metrotram/backend/services/tram-bot/internal/models"
)

func dests(names ...string) []models.Destination {
	out := make([]models.Destination, 0, len(names))
	for _, n := range names {
		out = append(out, models.Destination{Name: n})
	}
	return out
}

func panel(route, stop string, minutes float64, dest, updated string) models.Panel {
	return models.Panel{
		Route:                      models.ID(route),
		Stop:                       models.ID(stop),
		DestinationStopDescription: dest,
		RemainingMinutes:           minutes,
		LastUpdateFormatted:        updated,
	}
}

func TestFormatLinesSpanish(t *testing.T) {
	lines := []models.Line{{ID: "1", Destinations: dests("A", "B", "C")}}

	got, err := FormatLines(lines, locale.Spanish)

	require.NoError(t, err)
	require.Equal(t, []models.FormattedLine{{ID: "1", Name: "Línea 1", Destinations: "A - C"}}, got)
}

func TestFormatLinesDefaultLocaleAndOrder(t *testing.T) {
	lines := []models.Line{
		{ID: "2", Destinations: dests("La Cuesta", "Tíncer")},
		{ID: "1", Destinations: dests("Intercambiador")},
	}

	got, err := FormatLines(lines, locale.Parse("en"))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Line 2", got[0].Name)
	assert.Equal(t, "La Cuesta - Tíncer", got[0].Destinations)
	assert.Equal(t, "Line 1", got[1].Name)
	assert.Equal(t, "Intercambiador - Intercambiador", got[1].Destinations)
}

func TestFormatLinesEmptyDestinations(t *testing.T) {
	_, err := FormatLines([]models.Line{{ID: "1"}}, locale.Spanish)
	require.ErrorIs(t, err, models.ErrMalformedRecord)
}

func TestFormatStopsFiltersByLine(t *testing.T) {
	stops := []models.Stop{
		{ID: "s1", Name: "Uno", Lines: []models.ID{"1", "2"}},
		{ID: "s2", Name: "Dos", Lines: []models.ID{"2"}},
		{ID: "s3", Name: "Tres", Lines: []models.ID{"1"}},
	}

	got, err := FormatStops(stops, "1")
	require.NoError(t, err)
	assert.Equal(t, []models.FormattedStop{{ID: "s1", Name: "Uno"}, {ID: "s3", Name: "Tres"}}, got)

	none, err := FormatStops(stops, "9")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFormatStopsMissingID(t *testing.T) {
	_, err := FormatStops([]models.Stop{{Name: "x", Lines: []models.ID{"1"}}}, "1")
	require.ErrorIs(t, err, models.ErrMalformedRecord)
}

func TestFormatPanelsSortsAndTruncates(t *testing.T) {
	var panels []models.Panel
	for i, m := range []float64{9, 1, 5, 3, 7} {
		panels = append(panels, panel("1", "s1", m, "Trinidad", "t"+string(rune('a'+i))))
	}
	panels = append(panels, panel("2", "s1", 0, "Tíncer", "other-line"))
	panels = append(panels, panel("1", "s2", 0, "Trinidad", "other-stop"))

	got, lastUpdate, err := FormatPanels(panels, "1", "s1", locale.Default)

	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "🕓 > 1 minutes remaining", got[0].Remaining)
	assert.Equal(t, "🕓 > 3 minutes remaining", got[1].Remaining)
	assert.Equal(t, "🕓 > 5 minutes remaining", got[2].Remaining)
	assert.Equal(t, "🕓 > 7 minutes remaining", got[3].Remaining)
	assert.Equal(t, "🚇 > Trinidad", got[0].To)
	// stamp of the 7-minute panel, the last one kept
	assert.Equal(t, "te", lastUpdate)
}

func TestFormatPanelsStableForTies(t *testing.T) {
	panels := []models.Panel{
		panel("1", "s1", 3, "first", "u1"),
		panel("1", "s1", 2, "second", "u2"),
		panel("1", "s1", 3, "third", "u3"),
		panel("1", "s1", 2, "fourth", "u4"),
	}

	got, lastUpdate, err := FormatPanels(panels, "1", "s1", locale.Spanish)

	require.NoError(t, err)
	var order []string
	for _, p := range got {
		order = append(order, p.To)
	}
	assert.Equal(t, []string{"🚇 > second", "🚇 > fourth", "🚇 > first", "🚇 > third"}, order)
	assert.Equal(t, "🕓 > Faltan 2 minutos", got[0].Remaining)
	assert.Equal(t, "u3", lastUpdate)
}

func TestFormatPanelsLengthIsMinOfFourAndMatches(t *testing.T) {
	for n := 0; n <= 7; n++ {
		var panels []models.Panel
		for i := 0; i < n; i++ {
			panels = append(panels, panel("1", "s1", float64(n-i), "x", "u"))
		}
		got, _, err := FormatPanels(panels, "1", "s1", locale.Default)
		require.NoError(t, err)
		assert.Len(t, got, min(4, n))
		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, got[i-1].Remaining, got[i].Remaining)
		}
	}
}

func TestFormatPanelsEmpty(t *testing.T) {
	got, lastUpdate, err := FormatPanels([]models.Panel{panel("2", "s9", 1, "x", "u")}, "1", "s1", locale.Spanish)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "", lastUpdate)
}

func TestFormatPanelsFractionalMinutes(t *testing.T) {
	got, _, err := FormatPanels([]models.Panel{panel("1", "s1", 2.5, "x", "u")}, "1", "s1", locale.Default)

	require.NoError(t, err)
	assert.Equal(t, "🕓 > 2.5 minutes remaining", got[0].Remaining)
}

func TestFormatPanelsNegativeMinutes(t *testing.T) {
	_, _, err := FormatPanels([]models.Panel{panel("1", "s1", -1, "x", "u")}, "1", "s1", locale.Default)
	require.ErrorIs(t, err, models.ErrMalformedRecord)
}
