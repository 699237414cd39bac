// Package handlers реализует диалоги бота: админ-консоль, регистрацию
// учителей и подсчёт активности в группах.
package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/madraimov/teacher-activity-bot/internal/config"
	"github.com/madraimov/teacher-activity-bot/internal/db"
	"github.com/madraimov/teacher-activity-bot/internal/metrics"
	"github.com/madraimov/teacher-activity-bot/internal/tg"
	"go.uber.org/zap"
)

type Handlers struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.Config
	teachers    *db.TeacherStore
	groups      *db.GroupStore
	assignments *db.AssignmentStore
	activity    *db.ActivityStore
	pending     *db.PendingStore
	diag        *db.Diagnostics
	log         *zap.Logger

	states *stateMap

	// точка отправки; в тестах подменяется на перехватчик
	sendFn func(tgbotapi.Chattable) (tgbotapi.Message, error)
}

func New(
	bot *tgbotapi.BotAPI,
	cfg *config.Config,
	teachers *db.TeacherStore,
	groups *db.GroupStore,
	assignments *db.AssignmentStore,
	activity *db.ActivityStore,
	pending *db.PendingStore,
	diag *db.Diagnostics,
	log *zap.Logger,
) *Handlers {
	return &Handlers{
		bot:         bot,
		cfg:         cfg,
		teachers:    teachers,
		groups:      groups,
		assignments: assignments,
		activity:    activity,
		pending:     pending,
		diag:        diag,
		log:         log,
		states:      newStateMap(),
		sendFn: func(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
			return tg.Send(bot, msg)
		},
	}
}

func (h *Handlers) isAdmin(userID int64) bool { return h.cfg.IsAdmin(userID) }

func (h *Handlers) send(msg tgbotapi.Chattable) {
	if _, err := h.sendFn(msg); err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Warn("telegram send failed", zap.Error(err))
	}
}

func (h *Handlers) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	h.send(m)
}

// ReplyUnknown — подсказка на нераспознанный ввод в личке.
func (h *Handlers) ReplyUnknown(chatID int64) {
	h.reply(chatID, "⚠️ Unknown command. Use /start.")
}

func (h *Handlers) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := tg.Request(h.bot, tgbotapi.NewCallback(cb.ID, text)); err != nil {
		metrics.HandlerErrors.Inc()
	}
}

func (h *Handlers) editText(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		edit.ReplyMarkup = markup
	}
	h.send(edit)
}
