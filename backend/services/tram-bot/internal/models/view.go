package models

// FormattedLine is a line ready to be shown as a button or list entry.
type FormattedLine struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Destinations string `json:"destinations"`
}

// FormattedStop is a stop ready to be shown.
type FormattedStop struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// FormattedPanel is one upcoming tram.
type FormattedPanel struct {
	To        string `json:"to"`
	Remaining string `json:"remaining"`
}

// PanelBoard groups the upcoming trams for a stop with the upstream update stamp.
type PanelBoard struct {
	Line       ID               `json:"line"`
	Stop       FormattedStop    `json:"stop"`
	Panels     []FormattedPanel `json:"panels"`
	LastUpdate string           `json:"lastUpdate"`
}
