package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"metrotram/backend/services/tram-bot/internal/locale"
	"metrotram/backend/services/tram-bot/internal/models"
)

// Board is the tram data served over HTTP.
type Board interface {
	Lines(ctx context.Context, loc locale.Locale) ([]models.FormattedLine, error)
	Stops(ctx context.Context, line models.ID) ([]models.FormattedStop, error)
	Panels(ctx context.Context, line, stop models.ID, loc locale.Locale) (models.PanelBoard, error)
}

// BoardHandlers exposes lines, stops and panels as JSON.
type BoardHandlers struct {
	board  Board
	logger *zap.Logger
}

// NewBoardHandlers builds board handlers.
func NewBoardHandlers(board Board, logger *zap.Logger) *BoardHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardHandlers{board: board, logger: logger}
}

// Lines handles GET /api/lines.
func (h *BoardHandlers) Lines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.board.Lines(r.Context(), RequestLocale(r))
	if err != nil {
		h.fail(w, "lines", err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// Stops handles GET /api/lines/{lineID}/stops.
func (h *BoardHandlers) Stops(w http.ResponseWriter, r *http.Request) {
	line := models.ID(chi.URLParam(r, "lineID"))
	stops, err := h.board.Stops(r.Context(), line)
	if err != nil {
		h.fail(w, "stops", err)
		return
	}
	writeJSON(w, http.StatusOK, stops)
}

// Panels handles GET /api/lines/{lineID}/stops/{stopID}/panels.
func (h *BoardHandlers) Panels(w http.ResponseWriter, r *http.Request) {
	line := models.ID(chi.URLParam(r, "lineID"))
	stop := models.ID(chi.URLParam(r, "stopID"))
	board, err := h.board.Panels(r.Context(), line, stop, RequestLocale(r))
	if err != nil {
		h.fail(w, "panels", err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *BoardHandlers) fail(w http.ResponseWriter, op string, err error) {
	status, code := ErrorCode(err)
	h.logger.Error("board request failed", zap.String("op", op), zap.String("code", code), zap.Error(err))
	writeError(w, status, code, err.Error())
}

// RequestLocale reads the ?lang= query parameter.
func RequestLocale(r *http.Request) locale.Locale {
	return locale.Parse(r.URL.Query().Get("lang"))
}
