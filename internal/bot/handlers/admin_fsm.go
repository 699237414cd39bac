package handlers

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/madraimov/teacher-activity-bot/internal/core/validate"
	"github.com/madraimov/teacher-activity-bot/internal/metrics"
	"go.uber.org/zap"
)

// HandleStateText скармливает текстовое сообщение активному диалогу.
// Возвращает false, если диалога нет и сообщение нужно обработать иначе.
func (h *Handlers) HandleStateText(ctx context.Context, msg *tgbotapi.Message) bool {
	chatID := msg.Chat.ID
	st := h.states.get(chatID)
	if st == nil {
		return false
	}
	text := strings.TrimSpace(msg.Text)
	if isCancelText(text) {
		h.states.clear(chatID)
		h.reply(chatID, "🚫 Cancelled.")
		return true
	}

	switch st.Step {
	case stepAddTeacherID:
		h.stepAddID(ctx, chatID, st, text)
	case stepAddTeacherName:
		h.stepAddName(chatID, st, text)
	case stepAddTeacherTelegramID:
		h.stepAddTelegramID(ctx, chatID, st, text)
	case stepEditTeacherName:
		h.stepRenameTeacher(ctx, chatID, st, text)
	case stepEditGroupTitle:
		h.stepRenameGroup(ctx, chatID, st, text)
	case stepReportDays:
		h.stepRunReport(ctx, chatID, text)
	case stepGroupReportDays:
		h.stepRunGroupReport(ctx, chatID, st, text)
	case stepExcelDays:
		h.stepRunExcel(ctx, chatID, text)
	case stepMyStatDays:
		h.stepRunMyStat(ctx, chatID, msg.From.ID, text)
	case stepRegName:
		h.stepRegistrationName(ctx, chatID, msg.From.ID, text)
	default:
		h.states.clear(chatID)
		return false
	}
	return true
}

func isCancelText(s string) bool {
	s = strings.ToLower(s)
	return s == "/cancel" || s == "cancel"
}

// ─── ADD TEACHER

func (h *Handlers) startAddTeacher(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	h.states.set(chatID, &chatState{Step: stepAddTeacherID, MessageID: cb.Message.MessageID})
	h.editText(chatID, cb.Message.MessageID,
		"➕ *Add Teacher*\n\nSend the teacher ID (3–16 letters/digits), or /cancel.", nil)
	h.answerCallback(cb, "")
}

func (h *Handlers) stepAddID(ctx context.Context, chatID int64, st *chatState, text string) {
	// формат и занятость проверяются на этом шаге, чтобы не терять ввод
	if ok, reason := validate.TeacherID(text); !ok {
		h.reply(chatID, "❌ "+reason+". Try again, or /cancel.")
		return
	}
	existing, err := h.teachers.Get(ctx, text)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("add teacher: check id", zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	if existing != nil {
		h.reply(chatID, "❌ This ID is already taken. Send another one, or /cancel.")
		return
	}
	st.NewTeacherID = text
	st.Step = stepAddTeacherName
	h.reply(chatID, "Send the teacher's full name (at least 5 characters):")
}

func (h *Handlers) stepAddName(chatID int64, st *chatState, text string) {
	if ok, reason := validate.FullName(text); !ok {
		h.reply(chatID, "❌ "+reason+". Try again, or /cancel.")
		return
	}
	st.NewTeacherName = text
	st.Step = stepAddTeacherTelegramID
	h.reply(chatID, "Send the teacher's Telegram ID (a positive number):")
}

func (h *Handlers) stepAddTelegramID(ctx context.Context, chatID int64, st *chatState, text string) {
	tgID, err := strconv.ParseInt(text, 10, 64)
	if err != nil || tgID <= 0 {
		h.reply(chatID, "❌ Send a positive number, or /cancel.")
		return
	}
	ok, reason, err := h.teachers.Add(ctx, st.NewTeacherID, st.NewTeacherName, tgID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("add teacher", zap.String("teacher_id", st.NewTeacherID), zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	h.states.clear(chatID)
	if !ok {
		h.reply(chatID, "❌ "+reason)
		return
	}
	h.reply(chatID, "✅ Teacher *"+st.NewTeacherName+"* added with ID `"+st.NewTeacherID+"`.")
}

// ─── RENAME

func (h *Handlers) stepRenameTeacher(ctx context.Context, chatID int64, st *chatState, text string) {
	ok, reason, err := h.teachers.Rename(ctx, st.TeacherID, text)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("rename teacher", zap.String("teacher_id", st.TeacherID), zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	if !ok {
		h.reply(chatID, "❌ "+reason)
		return
	}
	h.states.clear(chatID)
	h.reply(chatID, "✅ Name updated.")
}

func (h *Handlers) stepRenameGroup(ctx context.Context, chatID int64, st *chatState, text string) {
	ok, reason, err := h.groups.Rename(ctx, st.ChatID, text)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("rename group", zap.Int64("chat_id", st.ChatID), zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	if !ok {
		h.reply(chatID, "❌ "+reason)
		return
	}
	h.states.clear(chatID)
	h.reply(chatID, "✅ Title updated.")
}
