package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"metrotram/backend/services/tram-bot/internal/locale"
	"metrotram/backend/services/tram-bot/internal/models"
	"metrotram/backend/services/tram-bot/internal/scraper"
)

// PageFetcher returns the raw board page.
type PageFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// BoardService runs the fetch, extract and decode chain on every call.
// Nothing fetched is kept between calls.
type BoardService struct {
	fetcher   PageFetcher
	extractor scraper.Extractor
	logger    *zap.Logger
}

// NewBoardService builds service.
func NewBoardService(fetcher PageFetcher, extractor scraper.Extractor, logger *zap.Logger) *BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{fetcher: fetcher, extractor: extractor, logger: logger}
}

// RequestData fetches the board page and decodes lines, stops and panels.
func (s *BoardService) RequestData(ctx context.Context) (models.Snapshot, error) {
	start := time.Now()
	html, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	fragments, err := s.extractor.Extract(html)
	if err != nil {
		s.logger.Error("board extraction failed", zap.Error(err))
		return models.Snapshot{}, err
	}

	snapshot, err := scraper.DecodeSnapshot(fragments)
	if err != nil {
		s.logger.Error("board decode failed", zap.Error(err))
		return models.Snapshot{}, err
	}

	s.logger.Debug("board snapshot ready",
		zap.Int("lines", len(snapshot.Lines)),
		zap.Int("stops", len(snapshot.Stops)),
		zap.Int("panels", len(snapshot.Panels)),
		zap.Duration("duration", time.Since(start)),
	)
	return snapshot, nil
}

// Lines returns the formatted lines.
func (s *BoardService) Lines(ctx context.Context, loc locale.Locale) ([]models.FormattedLine, error) {
	snapshot, err := s.RequestData(ctx)
	if err != nil {
		return nil, err
	}
	return FormatLines(snapshot.Lines, loc)
}

// Stops returns the stops served by line.
func (s *BoardService) Stops(ctx context.Context, line models.ID) ([]models.FormattedStop, error) {
	snapshot, err := s.RequestData(ctx)
	if err != nil {
		return nil, err
	}
	return FormatStops(snapshot.Stops, line)
}

// Panels returns the upcoming trams of line at stop, together with the stop name.
// The stop name is empty when the stop is not served by line.
func (s *BoardService) Panels(ctx context.Context, line, stop models.ID, loc locale.Locale) (models.PanelBoard, error) {
	snapshot, err := s.RequestData(ctx)
	if err != nil {
		return models.PanelBoard{}, err
	}

	panels, lastUpdate, err := FormatPanels(snapshot.Panels, line, stop, loc)
	if err != nil {
		return models.PanelBoard{}, err
	}
	stops, err := FormatStops(snapshot.Stops, line)
	if err != nil {
		return models.PanelBoard{}, err
	}

	board := models.PanelBoard{
		Line:       line,
		Stop:       models.FormattedStop{ID: stop},
		Panels:     panels,
		LastUpdate: lastUpdate,
	}
	for _, st := range stops {
		if st.ID == stop {
			board.Stop.Name = st.Name
		}
	}
	return board, nil
}
