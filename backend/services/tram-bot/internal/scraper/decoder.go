package scraper

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"metrotram/backend/services/tram-bot/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so errors point at the page data.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type destinationRecord struct {
	Name *string `json:"name" validate:"required"`
}

type lineRecord struct {
	ID           *models.ID          `json:"id" validate:"required"`
	Destinations []destinationRecord `json:"destinations" validate:"required,min=1,dive"`
}

type stopRecord struct {
	ID    *models.ID  `json:"id" validate:"required"`
	Name  *string     `json:"name" validate:"required"`
	Lines []models.ID `json:"lines" validate:"required"`
}

type panelRecord struct {
	Route                      *models.ID `json:"route" validate:"required"`
	Stop                       *models.ID `json:"stop" validate:"required"`
	DestinationStopDescription *string    `json:"destinationStopDescription" validate:"required"`
	RemainingMinutes           *float64   `json:"remainingMinutes" validate:"required,gte=0"`
	LastUpdateFormatted        *string    `json:"lastUpdateFormatted" validate:"required"`
}

// Decode parses a fragment into a slice of T, reporting the fragment name on failure.
func Decode[T any](fragment, raw string) ([]T, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &models.DecodeError{Fragment: fragment, Empty: true}
	}
	var target []T
	if err := json.Unmarshal([]byte(raw), &target); err != nil {
		return nil, &models.DecodeError{Fragment: fragment, Err: err}
	}
	return target, nil
}

// DecodeLines parses and validates the lines fragment.
func DecodeLines(raw string) ([]models.Line, error) {
	records, err := Decode[lineRecord]("lines", raw)
	if err != nil {
		return nil, err
	}
	lines := make([]models.Line, 0, len(records))
	for i, rec := range records {
		if err := checkRecord("lines", i, rec); err != nil {
			return nil, err
		}
		dests := make([]models.Destination, 0, len(rec.Destinations))
		for _, d := range rec.Destinations {
			dests = append(dests, models.Destination{Name: *d.Name})
		}
		lines = append(lines, models.Line{ID: *rec.ID, Destinations: dests})
	}
	return lines, nil
}

// DecodeStops parses and validates the stops fragment.
func DecodeStops(raw string) ([]models.Stop, error) {
	records, err := Decode[stopRecord]("stops", raw)
	if err != nil {
		return nil, err
	}
	stops := make([]models.Stop, 0, len(records))
	for i, rec := range records {
		if err := checkRecord("stops", i, rec); err != nil {
			return nil, err
		}
		stops = append(stops, models.Stop{ID: *rec.ID, Name: *rec.Name, Lines: rec.Lines})
	}
	return stops, nil
}

// DecodePanels parses and validates the panels fragment.
func DecodePanels(raw string) ([]models.Panel, error) {
	records, err := Decode[panelRecord]("panels", raw)
	if err != nil {
		return nil, err
	}
	panels := make([]models.Panel, 0, len(records))
	for i, rec := range records {
		if err := checkRecord("panels", i, rec); err != nil {
			return nil, err
		}
		panels = append(panels, models.Panel{
			Route:                      *rec.Route,
			Stop:                       *rec.Stop,
			DestinationStopDescription: *rec.DestinationStopDescription,
			RemainingMinutes:           *rec.RemainingMinutes,
			LastUpdateFormatted:        *rec.LastUpdateFormatted,
		})
	}
	return panels, nil
}

// DecodeSnapshot decodes all three fragments. Lines are decoded first, then
// stops, then panels; the first failure is returned.
func DecodeSnapshot(f Fragments) (models.Snapshot, error) {
	lines, err := DecodeLines(f.Lines)
	if err != nil {
		return models.Snapshot{}, err
	}
	stops, err := DecodeStops(f.Stops)
	if err != nil {
		return models.Snapshot{}, err
	}
	panels, err := DecodePanels(f.Panels)
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.Snapshot{Lines: lines, Stops: stops, Panels: panels}, nil
}

func checkRecord(collection string, index int, rec any) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &models.MalformedRecordError{Collection: collection, Index: index, Field: "?", Reason: err.Error()}
	}
	fe := fieldErrs[0]
	reason := "missing"
	if fe.Tag() != "required" {
		reason = "violates " + fe.Tag()
	}
	return &models.MalformedRecordError{
		Collection: collection,
		Index:      index,
		Field:      fieldPath(fe.Namespace()),
		Reason:     reason,
	}
}

// fieldPath drops the struct name from a validator namespace: "lineRecord.destinations[0].name" -> "destinations[0].name".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
