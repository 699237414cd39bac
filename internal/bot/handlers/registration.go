package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/madraimov/teacher-activity-bot/internal/core/validate"
	"github.com/madraimov/teacher-activity-bot/internal/metrics"
	"go.uber.org/zap"
)

// startRegistration — кнопка "Register as Teacher" в личке.
func (h *Handlers) startRegistration(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	teacherID, found, err := h.teachers.FindByTelegramID(ctx, userID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("registration: lookup teacher", zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	if found && teacherID != "" {
		h.answerCallback(cb, "You are already registered")
		return
	}
	if p, err := h.pending.Get(ctx, userID); err == nil && p != nil {
		h.answerCallback(cb, "Your request is already pending")
		return
	}

	h.states.set(chatID, &chatState{Step: stepRegName, MessageID: cb.Message.MessageID})
	h.editText(chatID, cb.Message.MessageID,
		"📝 Send your full name (at least 5 characters), or /cancel.", nil)
	h.answerCallback(cb, "")
}

// stepRegistrationName — имя получено, заявка уходит админам.
func (h *Handlers) stepRegistrationName(ctx context.Context, chatID, userID int64, text string) {
	if ok, reason := validate.FullName(text); !ok {
		h.reply(chatID, "❌ "+reason+" Try again, or /cancel.")
		return
	}
	if err := h.pending.Add(ctx, userID, text); err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("registration: queue request", zap.Int64("telegram_id", userID), zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	h.states.clear(chatID)
	h.reply(chatID, "✅ Your request has been sent. You will be notified once it is reviewed.")

	note := fmt.Sprintf("📝 *New registration request*\n\nName: %s\nTelegram: `%d`", text, userID)
	for _, adminID := range h.cfg.AdminIDs {
		m := tgbotapi.NewMessage(adminID, note)
		m.ParseMode = tgbotapi.ModeMarkdown
		m.ReplyMarkup = registrationReviewKeyboard(userID)
		h.send(m)
	}
}

// handleRegistrationReview — reg:ap:<id> / reg:rj:<id> от админа.
func (h *Handlers) handleRegistrationReview(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if !h.isAdmin(cb.From.ID) {
		h.answerCallback(cb, "⛔ Admins only")
		return
	}
	rest, found := strings.CutPrefix(cb.Data, "reg:ap:")
	approve := found
	if !found {
		rest, found = strings.CutPrefix(cb.Data, "reg:rj:")
		if !found {
			h.answerCallback(cb, "")
			return
		}
	}
	telegramID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		h.answerCallback(cb, "")
		return
	}

	p, err := h.pending.Get(ctx, telegramID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("registration: load request", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	if p == nil {
		// заявку уже рассмотрел другой админ
		h.answerCallback(cb, "Request already handled")
		h.editText(cb.Message.Chat.ID, cb.Message.MessageID, "ℹ️ Request already handled.", nil)
		return
	}

	if !approve {
		if err := h.pending.Remove(ctx, telegramID); err != nil {
			metrics.HandlerErrors.Inc()
			h.log.Error("registration: remove request", zap.Int64("telegram_id", telegramID), zap.Error(err))
			h.answerCallback(cb, "⚠️ Failed")
			return
		}
		h.answerCallback(cb, "Rejected")
		h.editText(cb.Message.Chat.ID, cb.Message.MessageID,
			fmt.Sprintf("❌ Rejected: %s (`%d`)", p.FullName, telegramID), nil)
		h.reply(telegramID, "❌ Your registration request was declined.")
		return
	}

	newID, err := h.pending.GenerateTeacherID(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("registration: generate id", zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	ok, reason, err := h.teachers.Add(ctx, newID, p.FullName, telegramID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("registration: add teacher", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	if !ok {
		h.answerCallback(cb, "⚠️ "+reason)
		return
	}
	if err := h.pending.Remove(ctx, telegramID); err != nil {
		h.log.Warn("registration: remove request after approve",
			zap.Int64("telegram_id", telegramID), zap.Error(err))
	}

	h.answerCallback(cb, "Approved")
	h.editText(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("✅ Approved: %s → `%s`", p.FullName, newID), nil)
	h.reply(telegramID, fmt.Sprintf("🎉 You are registered! Your teacher ID is *%s*.", newID))
}
