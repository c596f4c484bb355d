// Package locale selects between the two display languages of the bot and
// holds every user-facing string.
package locale

import (
	"fmt"
	"strings"
)

// Locale is a closed set: Spanish or the English default.
type Locale int

const (
	Default Locale = iota
	Spanish
)

// Parse maps a language code to a Locale. Only "es" selects Spanish.
func Parse(code string) Locale {
	if strings.EqualFold(strings.TrimSpace(code), "es") {
		return Spanish
	}
	return Default
}

// Code returns the language code stored in sessions.
func (l Locale) Code() string {
	if l == Spanish {
		return "es"
	}
	return "en"
}

func (l Locale) String() string {
	return l.Code()
}

// LineName renders the display name of a line.
func (l Locale) LineName(id string) string {
	if l == Spanish {
		return "Línea " + id
	}
	return "Line " + id
}

// Remaining renders the waiting time of a tram.
func (l Locale) Remaining(minutes string) string {
	if l == Spanish {
		return fmt.Sprintf("🕓 > Faltan %s minutos", minutes)
	}
	return fmt.Sprintf("🕓 > %s minutes remaining", minutes)
}

// Key names a bot message.
type Key int

const (
	MsgHelp Key = iota
	MsgChooseLine
	MsgChooseStop
	MsgOncoming
	MsgRefresh
	MsgNoStops
	MsgNoPanels
	MsgError
)

var catalog = map[Key][2]string{
	MsgHelp: {
		"Use /start to test this bot.\nUse /nexttram to get info about the next tram for each stop.",
		"Use /start para iniciar el bot.\nUse /nexttram para obtener información acerca del siguiente tranvía por cada parada.",
	},
	MsgChooseLine: {"Please choose the tram line 🚇", "Por favor, seleccione la línea de tranvía 🚇"},
	MsgChooseStop: {"Please, choose the stop from which you need info 📊", "Por favor, seleccione la parada de la que desea información 📊"},
	MsgOncoming:   {"Oncoming trams for *%s*", "Próximos tranvías en *%s*"},
	MsgRefresh:    {"Refresh", "Refrescar"},
	MsgNoStops:    {"There are no stops for this line right now 🤷", "No hay paradas para esta línea en este momento 🤷"},
	MsgNoPanels:   {"There are no upcoming trams for this stop right now 🤷", "No hay próximos tranvías para esta parada en este momento 🤷"},
	MsgError:      {"There was some error requesting tram data 🙁", "Ha ocurrido un error al solicitar los datos 🙁"},
}

// Text returns the message for key, formatted with args when given.
func (l Locale) Text(key Key, args ...any) string {
	pair, ok := catalog[key]
	if !ok {
		return ""
	}
	text := pair[0]
	if l == Spanish {
		text = pair[1]
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}
