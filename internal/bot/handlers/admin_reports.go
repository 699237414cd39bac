package handlers

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/madraimov/teacher-activity-bot/internal/export"
	"github.com/madraimov/teacher-activity-bot/internal/metrics"
	"github.com/madraimov/teacher-activity-bot/internal/report"
	"go.uber.org/zap"
)

const maxReportDays = 365

func parseDays(text string) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > maxReportDays {
		return 0, false
	}
	return n, true
}

// labels собирает подписи для отчётов одним заходом.
func (h *Handlers) labels(ctx context.Context) (map[string]string, map[int64]string, error) {
	teachers, err := h.teachers.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	groups, err := h.groups.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[string]string, len(teachers))
	for _, t := range teachers {
		names[t.ID] = t.FullName
	}
	titles := make(map[int64]string, len(groups))
	for _, g := range groups {
		titles[g.ChatID] = g.Title
	}
	return names, titles, nil
}

// ─── ENTRY POINTS

func (h *Handlers) startReportDays(cb *tgbotapi.CallbackQuery, step int, title string) {
	chatID := cb.Message.Chat.ID
	h.states.set(chatID, &chatState{Step: step, MessageID: cb.Message.MessageID})
	h.editText(chatID, cb.Message.MessageID,
		title+"\n\nFor how many days? Send a number (1–365), or /cancel.", nil)
	h.answerCallback(cb, "")
}

func (h *Handlers) showGroupPicker(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	groups, err := h.groups.List(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("list groups", zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed to load groups")
		return
	}
	if len(groups) == 0 {
		h.answerCallback(cb, "No groups yet")
		return
	}
	mk := groupListKeyboard(groups, "rg")
	h.editText(cb.Message.Chat.ID, cb.Message.MessageID, "📊 Pick a group for the report:", &mk)
	h.answerCallback(cb, "")
}

func (h *Handlers) pickReportGroup(cb *tgbotapi.CallbackQuery, chatStr string) {
	groupChatID, err := strconv.ParseInt(chatStr, 10, 64)
	if err != nil {
		h.answerCallback(cb, "")
		return
	}
	chatID := cb.Message.Chat.ID
	h.states.set(chatID, &chatState{
		Step:      stepGroupReportDays,
		MessageID: cb.Message.MessageID,
		ChatID:    groupChatID,
	})
	h.editText(chatID, cb.Message.MessageID,
		"📊 For how many days? Send a number (1–365), or /cancel.", nil)
	h.answerCallback(cb, "")
}

func (h *Handlers) startMyStat(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	t, err := h.teachers.GetByTelegramID(ctx, cb.From.ID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("mystat: lookup teacher", zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	if t == nil || !t.Active {
		h.answerCallback(cb, "⛔ You are not an active teacher")
		return
	}
	chatID := cb.Message.Chat.ID
	h.states.set(chatID, &chatState{Step: stepMyStatDays, MessageID: cb.Message.MessageID})
	h.editText(chatID, cb.Message.MessageID,
		"📊 For how many days? Send a number (1–365), or /cancel.", nil)
	h.answerCallback(cb, "")
}

// ─── STEPS

func (h *Handlers) stepRunReport(ctx context.Context, chatID int64, text string) {
	days, ok := parseDays(text)
	if !ok {
		h.reply(chatID, "❌ Send a number between 1 and 365, or /cancel.")
		return
	}
	stats, err := h.activity.AggregateRange(ctx, days)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("aggregate range", zap.Int("days", days), zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	names, titles, err := h.labels(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("report labels", zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	h.states.clear(chatID)
	h.reply(chatID, report.Overall(stats, names, titles, days))
}

func (h *Handlers) stepRunGroupReport(ctx context.Context, chatID int64, st *chatState, text string) {
	days, ok := parseDays(text)
	if !ok {
		h.reply(chatID, "❌ Send a number between 1 and 365, or /cancel.")
		return
	}
	stats, err := h.activity.AggregateRange(ctx, days)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("aggregate range", zap.Int("days", days), zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	names, titles, err := h.labels(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("report labels", zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	title := titles[st.ChatID]
	if title == "" {
		title = fmt.Sprintf("%d", st.ChatID)
	}
	h.states.clear(chatID)
	h.reply(chatID, report.Group(title, stats[st.ChatID], names, days))
}

func (h *Handlers) stepRunExcel(ctx context.Context, chatID int64, text string) {
	days, ok := parseDays(text)
	if !ok {
		h.reply(chatID, "❌ Send a number between 1 and 365, or /cancel.")
		return
	}
	stats, err := h.activity.AggregateRange(ctx, days)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("aggregate range", zap.Int("days", days), zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	if len(stats) == 0 {
		h.states.clear(chatID)
		h.reply(chatID, fmt.Sprintf("📊 No activity in the last %d days.", days))
		return
	}
	names, titles, err := h.labels(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("report labels", zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}

	to := h.activity.Today()
	from := to.AddDate(0, 0, -(days - 1))
	rows := export.BuildActivityRows(stats, names, titles, from, to)
	path, err := export.WriteActivityWorkbook(h.cfg.ExportDir, rows)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("write workbook", zap.Error(err))
		h.reply(chatID, "⚠️ Failed to build the Excel file.")
		return
	}
	h.states.clear(chatID)

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = fmt.Sprintf("📥 Activity report, last %d days", days)
	h.send(doc)
}

func (h *Handlers) stepRunMyStat(ctx context.Context, chatID, userID int64, text string) {
	days, ok := parseDays(text)
	if !ok {
		h.reply(chatID, "❌ Send a number between 1 and 365, or /cancel.")
		return
	}
	t, err := h.teachers.GetByTelegramID(ctx, userID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("mystat: lookup teacher", zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	if t == nil || !t.Active {
		h.states.clear(chatID)
		h.reply(chatID, "⛔ You are not an active teacher.")
		return
	}
	sum, err := h.activity.TeacherSummary(ctx, t.ID, days)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("teacher summary", zap.String("teacher_id", t.ID), zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	_, titles, err := h.labels(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("report labels", zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	h.states.clear(chatID)
	h.reply(chatID, report.Teacher(sum, titles, days))
}
