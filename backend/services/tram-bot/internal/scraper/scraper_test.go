package scraper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrotram/backend/services/tram-bot/internal/models"
)

const boardPage = `<!DOCTYPE html>
<html>
<head>
<script src="/js/jquery.min.js"></script>
<script>window.analytics = {};</script>
<script type="text/javascript">
    var lines = [{"id":"1","destinations":[{"name":"Intercambiador"},{"name":"Trinidad"}]},{"id":"2","destinations":[{"name":"La Cuesta"},{"name":"Tíncer"}]}];
    var stops = [{"id":"TRI","name":"Trinidad","lines":[1]},{"id":"CUE","name":"La Cuesta","lines":["1","2"]}];
    var panels = [{"route":1,"stop":"TRI","destinationStopDescription":"Intercambiador","remainingMinutes":4,"lastUpdateFormatted":"10:31:07"}];
</script>
<script>var lines_backup = "ignored";</script>
</head>
<body></body>
</html>`

func TestScriptExtractorFindsFragments(t *testing.T) {
	f, err := NewScriptExtractor().Extract(boardPage)
	require.NoError(t, err)

	assert.Equal(t, `[{"id":"1","destinations":[{"name":"Intercambiador"},{"name":"Trinidad"}]},{"id":"2","destinations":[{"name":"La Cuesta"},{"name":"Tíncer"}]}]`, f.Lines)
	assert.Equal(t, `[{"id":"TRI","name":"Trinidad","lines":[1]},{"id":"CUE","name":"La Cuesta","lines":["1","2"]}]`, f.Stops)
	assert.Equal(t, `[{"route":1,"stop":"TRI","destinationStopDescription":"Intercambiador","remainingMinutes":4,"lastUpdateFormatted":"10:31:07"}]`, f.Panels)
}

func TestSplitStatementsAnyOrderAndSpacing(t *testing.T) {
	orders := []string{
		`var panels = [3];var lines = [1];var stops = [2];`,
		"\n\tvar stops=[2] ;\n var panels =\n[3];var lines   =   [1]",
		`var lines = [1]; foo(); var stops = [2]; var panels = [3]`,
	}
	for _, script := range orders {
		f := SplitStatements(script)
		assert.Equal(t, "[1]", f.Lines, script)
		assert.Equal(t, "[2]", f.Stops, script)
		assert.Equal(t, "[3]", f.Panels, script)
	}
}

func TestExtractWithoutDataScript(t *testing.T) {
	f, err := NewScriptExtractor().Extract(`<html><script>var x = 1;</script></html>`)
	require.NoError(t, err)
	assert.Equal(t, Fragments{}, f)

	_, err = DecodeSnapshot(f)
	require.ErrorIs(t, err, models.ErrExtraction)
	require.ErrorIs(t, err, models.ErrDecode)
}

func TestMissingPanelsMarkerFailsDecode(t *testing.T) {
	f := SplitStatements(`var lines = [{"id":"1","destinations":[{"name":"A"}]}]; var stops = []`)
	assert.Empty(t, f.Panels)

	_, err := DecodeSnapshot(f)
	require.ErrorIs(t, err, models.ErrDecode)
	require.ErrorIs(t, err, models.ErrExtraction)

	var decodeErr *models.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "panels", decodeErr.Fragment)
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := DecodeStops(`[{"id":"s1",`)
	require.ErrorIs(t, err, models.ErrDecode)
	require.NotErrorIs(t, err, models.ErrExtraction)
	require.ErrorContains(t, err, "stops")
}

func TestDecodeMalformedRecords(t *testing.T) {
	cases := []struct {
		name  string
		run   func() error
		field string
	}{
		{"line without id", func() error { _, err := DecodeLines(`[{"destinations":[{"name":"A"}]}]`); return err }, "lines[0].id"},
		{"line without destinations", func() error { _, err := DecodeLines(`[{"id":"1","destinations":[]}]`); return err }, "lines[0].destinations"},
		{"destination without name", func() error {
			_, err := DecodeLines(`[{"id":"1","destinations":[{"name":"A"}]},{"id":"2","destinations":[{}]}]`)
			return err
		}, "lines[1].destinations[0].name"},
		{"stop without name", func() error { _, err := DecodeStops(`[{"id":"s1","lines":["1"]}]`); return err }, "stops[0].name"},
		{"panel without minutes", func() error {
			_, err := DecodePanels(`[{"route":"1","stop":"s1","destinationStopDescription":"A","lastUpdateFormatted":"x"}]`)
			return err
		}, "panels[0].remainingMinutes"},
		{"panel with negative minutes", func() error {
			_, err := DecodePanels(`[{"route":"1","stop":"s1","destinationStopDescription":"A","remainingMinutes":-1,"lastUpdateFormatted":"x"}]`)
			return err
		}, "panels[0].remainingMinutes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.ErrorIs(t, err, models.ErrMalformedRecord)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestDecodeZeroMinutesIsValid(t *testing.T) {
	panels, err := DecodePanels(`[{"route":"1","stop":"s1","destinationStopDescription":"A","remainingMinutes":0,"lastUpdateFormatted":"x"}]`)
	require.NoError(t, err)
	require.Len(t, panels, 1)
	assert.Equal(t, 0.0, panels[0].RemainingMinutes)
}

func TestDecodeRoundTrip(t *testing.T) {
	want := models.Snapshot{
		Lines: []models.Line{{ID: "1", Destinations: []models.Destination{{Name: "A"}, {Name: "B"}, {Name: "C"}}}},
		Stops: []models.Stop{{ID: "s1", Name: "Uno", Lines: []models.ID{"1", "2"}}},
		Panels: []models.Panel{
			{Route: "1", Stop: "s1", DestinationStopDescription: "C", RemainingMinutes: 2.5, LastUpdateFormatted: "12:00"},
		},
	}
	lines, err := json.Marshal(want.Lines)
	require.NoError(t, err)
	stops, err := json.Marshal(want.Stops)
	require.NoError(t, err)
	panels, err := json.Marshal(want.Panels)
	require.NoError(t, err)

	got, err := DecodeSnapshot(Fragments{Lines: string(lines), Stops: string(stops), Panels: string(panels)})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeFullPage(t *testing.T) {
	f, err := NewScriptExtractor().Extract(boardPage)
	require.NoError(t, err)

	snap, err := DecodeSnapshot(f)
	require.NoError(t, err)
	require.Len(t, snap.Lines, 2)
	require.Len(t, snap.Stops, 2)
	require.Len(t, snap.Panels, 1)
	assert.Equal(t, models.ID("1"), snap.Panels[0].Route)
	assert.Equal(t, []models.ID{"1"}, snap.Stops[0].Lines)
	assert.Equal(t, "Tíncer", snap.Lines[1].Destinations[1].Name)
}
