package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a line or a stop. The board page mixes JSON strings and
// numbers for identifiers, both decode to the same textual form.
type ID string

// UnmarshalJSON accepts "1" as well as 1.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: expected string or number, got %s", string(data))
	}
	*id = ID(n.String())
	return nil
}

// String returns the raw identifier.
func (id ID) String() string {
	return string(id)
}

// Destination is one terminus name of a line.
type Destination struct {
	Name string `json:"name"`
}

// Line is a tram line with its ordered destinations.
type Line struct {
	ID           ID            `json:"id"`
	Destinations []Destination `json:"destinations"`
}

// Stop is a tram stop and the lines serving it.
type Stop struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Lines []ID   `json:"lines"`
}

// Serves reports whether line stops here.
func (s Stop) Serves(line ID) bool {
	for _, l := range s.Lines {
		if l == line {
			return true
		}
	}
	return false
}

// Panel is a single arrival prediction shown on a stop display.
type Panel struct {
	Route                      ID      `json:"route"`
	Stop                       ID      `json:"stop"`
	DestinationStopDescription string  `json:"destinationStopDescription"`
	RemainingMinutes           float64 `json:"remainingMinutes"`
	LastUpdateFormatted        string  `json:"lastUpdateFormatted"`
}

// Snapshot holds the three collections from one fetch of the board page.
type Snapshot struct {
	Lines  []Line
	Stops  []Stop
	Panels []Panel
}
