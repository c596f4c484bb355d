package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"metrotram/backend/services/tram-bot/internal/locale"
	"metrotram/backend/services/tram-bot/internal/models"
	"metrotram/backend/services/tram-bot/internal/session"
)

// Bot commands.
const (
	CommandStart    = "start"
	CommandHelp     = "help"
	CommandNextTram = "nexttram"
)

const stopsPerRow = 2

// Board is the tram data the bot presents.
type Board interface {
	Lines(ctx context.Context, loc locale.Locale) ([]models.FormattedLine, error)
	Stops(ctx context.Context, line models.ID) ([]models.FormattedStop, error)
	Panels(ctx context.Context, line, stop models.ID, loc locale.Locale) (models.PanelBoard, error)
}

// Sender is the subset of *tgbotapi.BotAPI used to talk to Telegram.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler turns Telegram updates into board queries and replies.
type Handler struct {
	board    Board
	sessions session.Store
	sender   Sender
	logger   *zap.Logger
}

// NewHandler builds handler.
func NewHandler(board Board, sessions session.Store, sender Sender, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{board: board, sessions: sessions, sender: sender, logger: logger}
}

// Handle processes one update.
func (h *Handler) Handle(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		h.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	sess := h.rememberLanguage(ctx, msg.From)
	chatID := msg.Chat.ID

	switch msg.Command() {
	case CommandStart, CommandHelp:
		h.send(tgbotapi.NewMessage(chatID, sess.Locale.Text(locale.MsgHelp)))
	case CommandNextTram:
		h.sendLines(ctx, chatID, sess.Locale)
	default:
		h.logger.Debug("ignoring unknown command", zap.String("command", msg.Command()))
	}
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := h.sender.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		h.logger.Warn("answer callback failed", zap.Error(err))
	}

	var userID int64
	if q.From != nil {
		userID = q.From.ID
	}
	sess := h.loadSession(ctx, userID)

	chatID := userID
	if q.Message != nil && q.Message.Chat != nil {
		chatID = q.Message.Chat.ID
		if _, err := h.sender.Request(tgbotapi.NewDeleteMessage(chatID, q.Message.MessageID)); err != nil {
			h.logger.Warn("delete message failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}

	cb, err := ParseCallback(q.Data)
	if err != nil {
		h.logger.Warn("bad callback", zap.String("data", q.Data), zap.Error(err))
		h.sendError(chatID, sess.Locale)
		return
	}

	switch cb.Action {
	case ActionLine:
		h.sendStops(ctx, chatID, cb.Line, sess.Locale)
	case ActionStop:
		h.sendPanels(ctx, chatID, cb.Line, cb.Stop, sess.Locale)
	}
}

func (h *Handler) sendLines(ctx context.Context, chatID int64, loc locale.Locale) {
	lines, err := h.board.Lines(ctx, loc)
	if err != nil {
		h.logger.Error("lines request failed", zap.Error(err))
		h.sendError(chatID, loc)
		return
	}

	row := make([]tgbotapi.InlineKeyboardButton, 0, len(lines))
	for _, line := range lines {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(line.Name, LineCallback(line.ID)))
	}

	reply := tgbotapi.NewMessage(chatID, loc.Text(locale.MsgChooseLine))
	if len(row) > 0 {
		reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(row)
	}
	h.send(reply)
}

func (h *Handler) sendStops(ctx context.Context, chatID int64, line models.ID, loc locale.Locale) {
	stops, err := h.board.Stops(ctx, line)
	if err != nil {
		h.logger.Error("stops request failed", zap.String("line", line.String()), zap.Error(err))
		h.sendError(chatID, loc)
		return
	}
	if len(stops) == 0 {
		h.send(tgbotapi.NewMessage(chatID, loc.Text(locale.MsgNoStops)))
		return
	}

	reply := tgbotapi.NewMessage(chatID, loc.Text(locale.MsgChooseStop))
	reply.ReplyMarkup = stopsKeyboard(stops, line)
	h.send(reply)
}

func (h *Handler) sendPanels(ctx context.Context, chatID int64, line, stop models.ID, loc locale.Locale) {
	board, err := h.board.Panels(ctx, line, stop, loc)
	if err != nil {
		h.logger.Error("panels request failed",
			zap.String("line", line.String()),
			zap.String("stop", stop.String()),
			zap.Error(err),
		)
		h.sendError(chatID, loc)
		return
	}
	if len(board.Panels) == 0 {
		h.send(tgbotapi.NewMessage(chatID, loc.Text(locale.MsgNoPanels)))
		return
	}

	reply := tgbotapi.NewMessage(chatID, renderPanels(board, loc))
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(loc.Text(locale.MsgRefresh), StopCallback(stop, line)),
	))
	h.send(reply)
}

func stopsKeyboard(stops []models.FormattedStop, line models.ID) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(stops); i += stopsPerRow {
		end := min(i+stopsPerRow, len(stops))
		row := make([]tgbotapi.InlineKeyboardButton, 0, stopsPerRow)
		for _, stop := range stops[i:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(stop.Name, StopCallback(stop.ID, line)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func renderPanels(board models.PanelBoard, loc locale.Locale) string {
	var b strings.Builder
	b.WriteString(loc.Text(locale.MsgOncoming, escape(board.Stop.Name)))
	b.WriteString("\n\n")
	for _, p := range board.Panels {
		b.WriteString(escape(p.To))
		b.WriteString("\n")
		b.WriteString(escape(p.Remaining))
		b.WriteString("\n\n")
	}
	b.WriteString("_" + escape(board.LastUpdate) + "_ (GMT)")
	return b.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func (h *Handler) rememberLanguage(ctx context.Context, from *tgbotapi.User) session.Session {
	if from == nil {
		return session.Default(0)
	}
	sess := session.New(from.ID, from.LanguageCode)
	if err := h.sessions.Save(ctx, sess); err != nil {
		h.logger.Warn("save session failed", zap.Int64("user_id", from.ID), zap.Error(err))
	}
	return sess
}

func (h *Handler) loadSession(ctx context.Context, userID int64) session.Session {
	sess, found, err := h.sessions.Get(ctx, userID)
	if err != nil {
		h.logger.Warn("load session failed", zap.Int64("user_id", userID), zap.Error(err))
		return session.Default(userID)
	}
	if !found {
		sess = session.Default(userID)
		if err := h.sessions.Save(ctx, sess); err != nil {
			h.logger.Warn("save session failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return sess
}

func (h *Handler) sendError(chatID int64, loc locale.Locale) {
	h.send(tgbotapi.NewMessage(chatID, loc.Text(locale.MsgError)))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.sender.Send(c); err != nil {
		h.logger.Warn("telegram send failed", zap.Error(err))
	}
}
