package bot

import (
	"fmt"
	"strings"

	"metrotram/backend/services/tram-bot/internal/models"
)

// Callback actions carried in inline button data.
const (
	ActionLine = "line"
	ActionStop = "stop"
)

// Callback is a decoded inline button payload.
type Callback struct {
	Action string
	Line   models.ID
	Stop   models.ID
}

// LineCallback encodes the selection of a line: "line/<line>".
func LineCallback(line models.ID) string {
	return ActionLine + "/" + line.String()
}

// StopCallback encodes the selection of a stop on a line: "stop/<stop>/<line>".
func StopCallback(stop, line models.ID) string {
	return ActionStop + "/" + stop.String() + "/" + line.String()
}

// ParseCallback decodes button data produced by LineCallback or StopCallback.
func ParseCallback(data string) (Callback, error) {
	parts := strings.Split(data, "/")
	switch {
	case len(parts) == 2 && parts[0] == ActionLine && parts[1] != "":
		return Callback{Action: ActionLine, Line: models.ID(parts[1])}, nil
	case len(parts) == 3 && parts[0] == ActionStop && parts[1] != "" && parts[2] != "":
		return Callback{Action: ActionStop, Stop: models.ID(parts[1]), Line: models.ID(parts[2])}, nil
	default:
		return Callback{}, fmt.Errorf("bot: unknown callback data %q", data)
	}
}
