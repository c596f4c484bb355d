package service

import (
	"cmp"
	"slices"
	"strconv"

	"metrotram/backend/services/tram-bot/internal/locale"
	"metrotram/backend/services/tram-bot/internal/models"
)

// MaxPanels caps the upcoming trams shown for a stop.
const MaxPanels = 4

const panelPrefix = "🚇 > "

// FormatLines builds the display name and terminus pair of every line, in input order.
func FormatLines(lines []models.Line, loc locale.Locale) ([]models.FormattedLine, error) {
	out := make([]models.FormattedLine, 0, len(lines))
	for i, line := range lines {
		if len(line.Destinations) == 0 {
			return nil, &models.MalformedRecordError{Collection: "lines", Index: i, Field: "destinations", Reason: "empty"}
		}
		first := line.Destinations[0]
		last := line.Destinations[len(line.Destinations)-1]
		out = append(out, models.FormattedLine{
			ID:           line.ID,
			Name:         loc.LineName(line.ID.String()),
			Destinations: first.Name + " - " + last.Name,
		})
	}
	return out, nil
}

// FormatStops keeps the stops served by line, in input order.
func FormatStops(stops []models.Stop, line models.ID) ([]models.FormattedStop, error) {
	out := make([]models.FormattedStop, 0)
	for i, stop := range stops {
		if stop.ID == "" {
			return nil, &models.MalformedRecordError{Collection: "stops", Index: i, Field: "id"}
		}
		if stop.Serves(line) {
			out = append(out, models.FormattedStop{ID: stop.ID, Name: stop.Name})
		}
	}
	return out, nil
}

// FormatPanels returns the next MaxPanels trams of line at stop, soonest
// first, plus the update stamp of the last panel kept.
// TODO: lastUpdate follows the last kept panel, not the newest stamp; confirm with the board owners before changing it.
func FormatPanels(panels []models.Panel, line, stop models.ID, loc locale.Locale) ([]models.FormattedPanel, string, error) {
	matched := make([]models.Panel, 0)
	for i, p := range panels {
		if p.RemainingMinutes < 0 {
			return nil, "", &models.MalformedRecordError{Collection: "panels", Index: i, Field: "remainingMinutes", Reason: "negative"}
		}
		if p.Route == line && p.Stop == stop {
			matched = append(matched, p)
		}
	}

	slices.SortStableFunc(matched, func(a, b models.Panel) int {
		return cmp.Compare(a.RemainingMinutes, b.RemainingMinutes)
	})
	if len(matched) > MaxPanels {
		matched = matched[:MaxPanels]
	}

	out := make([]models.FormattedPanel, 0, len(matched))
	lastUpdate := ""
	for _, p := range matched {
		lastUpdate = p.LastUpdateFormatted
		out = append(out, models.FormattedPanel{
			To:        panelPrefix + p.DestinationStopDescription,
			Remaining: loc.Remaining(formatMinutes(p.RemainingMinutes)),
		})
	}
	return out, lastUpdate, nil
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
