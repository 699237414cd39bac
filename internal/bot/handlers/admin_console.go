package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/madraimov/teacher-activity-bot/internal/metrics"
	"github.com/madraimov/teacher-activity-bot/internal/report"
	"go.uber.org/zap"
)

// HandleStart — /start в личке. Админ видит консоль, учитель — свою
// статистику, остальные — кнопку регистрации.
func (h *Handlers) HandleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	h.states.clear(chatID)

	if h.isAdmin(msg.From.ID) {
		m := tgbotapi.NewMessage(chatID, "🛠 *Admin Console*")
		m.ParseMode = tgbotapi.ModeMarkdown
		m.ReplyMarkup = adminMenuKeyboard()
		h.send(m)
		return
	}

	t, err := h.teachers.GetByTelegramID(ctx, msg.From.ID)
	if err != nil {
		h.log.Error("start: lookup teacher", zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again later.")
		return
	}
	if t != nil {
		if !t.Active {
			h.reply(chatID, "⛔ Your account is deactivated. Contact the administrator.")
			return
		}
		m := tgbotapi.NewMessage(chatID, fmt.Sprintf("👋 Hello! Your teacher ID is *%s*.", t.ID))
		m.ParseMode = tgbotapi.ModeMarkdown
		m.ReplyMarkup = teacherMenuKeyboard()
		h.send(m)
		return
	}

	m := tgbotapi.NewMessage(chatID, "👋 Welcome! You are not registered yet.")
	m.ReplyMarkup = registrationKeyboard()
	h.send(m)
}

// HandleCancel — /cancel: сброс любого диалога.
func (h *Handlers) HandleCancel(_ context.Context, msg *tgbotapi.Message) {
	h.states.clear(msg.Chat.ID)
	h.reply(msg.Chat.ID, "🚫 Cancelled.")
}

// HandleCallback — единая точка входа для inline-кнопок в личке.
func (h *Handlers) HandleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data

	switch {
	case data == "start_registration":
		h.startRegistration(ctx, cb)
		return
	case strings.HasPrefix(data, "reg:"):
		h.handleRegistrationReview(ctx, cb)
		return
	case data == "m:mystat":
		h.startMyStat(ctx, cb)
		return
	}

	// всё остальное — только для админов
	if !h.isAdmin(cb.From.ID) {
		h.answerCallback(cb, "⛔ Admins only")
		return
	}

	switch {
	case data == "m:back":
		h.showAdminMenu(cb)
	case data == "m:teachers":
		h.showTeacherList(ctx, cb)
	case data == "m:groups":
		h.showGroupList(ctx, cb)
	case data == "m:add_teacher":
		h.startAddTeacher(cb)
	case data == "m:diag":
		h.showDiagnostics(ctx, cb)
	case data == "m:report":
		h.startReportDays(cb, stepReportDays, "📊 Overall report.")
	case data == "m:report_group":
		h.showGroupPicker(ctx, cb)
	case data == "m:excel":
		h.startReportDays(cb, stepExcelDays, "📥 Excel export.")
	case strings.HasPrefix(data, "rg:"):
		h.pickReportGroup(cb, data[len("rg:"):])
	case strings.HasPrefix(data, "t:"):
		h.showTeacherDetail(ctx, cb, data[len("t:"):])
	case strings.HasPrefix(data, "a:"):
		h.toggleAssignment(ctx, cb, data[len("a:"):])
	case strings.HasPrefix(data, "te:"):
		h.startEditTeacherName(cb, data[len("te:"):])
	case strings.HasPrefix(data, "ta:"):
		h.toggleTeacherActive(ctx, cb, data[len("ta:"):])
	case strings.HasPrefix(data, "tx:"):
		h.deleteTeacher(ctx, cb, data[len("tx:"):])
	case strings.HasPrefix(data, "g:"):
		h.showGroupDetail(ctx, cb, data[len("g:"):])
	case strings.HasPrefix(data, "gr:"):
		h.startEditGroupTitle(cb, data[len("gr:"):])
	case strings.HasPrefix(data, "ge:"):
		h.toggleGroupEnabled(ctx, cb, data[len("ge:"):])
	case strings.HasPrefix(data, "gx:"):
		h.deleteGroup(ctx, cb, data[len("gx:"):])
	default:
		h.answerCallback(cb, "")
	}
}

func (h *Handlers) showAdminMenu(cb *tgbotapi.CallbackQuery) {
	h.states.clear(cb.Message.Chat.ID)
	mk := adminMenuKeyboard()
	h.editText(cb.Message.Chat.ID, cb.Message.MessageID, "🛠 *Admin Console*", &mk)
	h.answerCallback(cb, "")
}

// ─── TEACHERS

func (h *Handlers) showTeacherList(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	teachers, err := h.teachers.List(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("list teachers", zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed to load teachers")
		return
	}
	text := fmt.Sprintf("👨‍🏫 *Teachers* (%d)", len(teachers))
	if len(teachers) == 0 {
		text = "👨‍🏫 No teachers yet. Use ➕ Add Teacher."
	}
	mk := teacherListKeyboard(teachers)
	h.editText(cb.Message.Chat.ID, cb.Message.MessageID, text, &mk)
	h.answerCallback(cb, "")
}

func (h *Handlers) showTeacherDetail(ctx context.Context, cb *tgbotapi.CallbackQuery, teacherID string) {
	t, err := h.teachers.Get(ctx, teacherID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("get teacher", zap.String("teacher_id", teacherID), zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed to load teacher")
		return
	}
	if t == nil {
		h.answerCallback(cb, "Teacher not found")
		h.showTeacherList(ctx, cb)
		return
	}

	groups, err := h.groups.List(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("list groups", zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed to load groups")
		return
	}
	assigned, err := h.assignments.GroupsOf(ctx, teacherID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("list assignments", zap.String("teacher_id", teacherID), zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed to load assignments")
		return
	}

	status := "🟢 active"
	if !t.Active {
		status = "🔴 inactive"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "👨‍🏫 *%s*\nID: `%s` • %s\n", t.FullName, t.ID, status)
	if t.TelegramID != 0 {
		fmt.Fprintf(&b, "Telegram: `%d`\n", t.TelegramID)
	}

	if sum, err := h.activity.TeacherSummary(ctx, t.ID, 7); err == nil && sum.Total.Total() > 0 {
		fmt.Fprintf(&b, "\n📊 Last 7 days: *%d*\n   %s\n", sum.Total.Total(), report.FormatBreakdown(sum.Total))
	}
	b.WriteString("\nToggle group assignments:")

	mk := teacherDetailKeyboard(t, groups, assigned)
	h.editText(cb.Message.Chat.ID, cb.Message.MessageID, b.String(), &mk)
	h.answerCallback(cb, "")
}

func (h *Handlers) toggleAssignment(ctx context.Context, cb *tgbotapi.CallbackQuery, payload string) {
	teacherID, chatStr, ok := strings.Cut(payload, "|")
	if !ok {
		h.answerCallback(cb, "")
		return
	}
	chatID, err := strconv.ParseInt(chatStr, 10, 64)
	if err != nil {
		h.answerCallback(cb, "")
		return
	}
	_, note, err := h.assignments.Toggle(ctx, teacherID, chatID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("toggle assignment",
			zap.String("teacher_id", teacherID), zap.Int64("chat_id", chatID), zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	h.answerCallback(cb, note)
	h.showTeacherDetail(ctx, cb, teacherID)
}

func (h *Handlers) toggleTeacherActive(ctx context.Context, cb *tgbotapi.CallbackQuery, teacherID string) {
	t, err := h.teachers.Get(ctx, teacherID)
	if err != nil || t == nil {
		h.answerCallback(cb, "Teacher not found")
		return
	}
	ok, err := h.teachers.SetActive(ctx, teacherID, !t.Active)
	if err != nil || !ok {
		metrics.HandlerErrors.Inc()
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	h.answerCallback(cb, "Updated")
	h.showTeacherDetail(ctx, cb, teacherID)
}

func (h *Handlers) deleteTeacher(ctx context.Context, cb *tgbotapi.CallbackQuery, teacherID string) {
	ok, err := h.teachers.Delete(ctx, teacherID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("delete teacher", zap.String("teacher_id", teacherID), zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	if !ok {
		h.answerCallback(cb, "Teacher not found")
	} else {
		h.answerCallback(cb, "🗑 Deleted")
	}
	h.showTeacherList(ctx, cb)
}

func (h *Handlers) startEditTeacherName(cb *tgbotapi.CallbackQuery, teacherID string) {
	chatID := cb.Message.Chat.ID
	h.states.set(chatID, &chatState{
		Step:      stepEditTeacherName,
		MessageID: cb.Message.MessageID,
		TeacherID: teacherID,
	})
	h.editText(chatID, cb.Message.MessageID,
		"✏️ Send the new full name (at least 5 characters), or /cancel.", nil)
	h.answerCallback(cb, "")
}

// ─── GROUPS

func (h *Handlers) showGroupList(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	groups, err := h.groups.List(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("list groups", zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed to load groups")
		return
	}
	text := fmt.Sprintf("📍 *Groups* (%d)", len(groups))
	if len(groups) == 0 {
		text = "📍 No groups yet. Add the bot to a group and run /confirm\\_group there."
	}
	mk := groupListKeyboard(groups, "g")
	h.editText(cb.Message.Chat.ID, cb.Message.MessageID, text, &mk)
	h.answerCallback(cb, "")
}

func (h *Handlers) showGroupDetail(ctx context.Context, cb *tgbotapi.CallbackQuery, chatStr string) {
	chatID, err := strconv.ParseInt(chatStr, 10, 64)
	if err != nil {
		h.answerCallback(cb, "")
		return
	}
	g, err := h.groups.Get(ctx, chatID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("get group", zap.Int64("chat_id", chatID), zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed to load group")
		return
	}
	if g == nil {
		h.answerCallback(cb, "Group not found")
		h.showGroupList(ctx, cb)
		return
	}
	status := "🟢 tracking enabled"
	if !g.Enabled {
		status = "🔴 tracking disabled"
	}
	text := fmt.Sprintf("📍 *%s*\nChat: `%d`\n%s", g.Title, g.ChatID, status)
	mk := groupDetailKeyboard(g)
	h.editText(cb.Message.Chat.ID, cb.Message.MessageID, text, &mk)
	h.answerCallback(cb, "")
}

func (h *Handlers) toggleGroupEnabled(ctx context.Context, cb *tgbotapi.CallbackQuery, chatStr string) {
	chatID, err := strconv.ParseInt(chatStr, 10, 64)
	if err != nil {
		h.answerCallback(cb, "")
		return
	}
	g, err := h.groups.Get(ctx, chatID)
	if err != nil || g == nil {
		h.answerCallback(cb, "Group not found")
		return
	}
	if _, err := h.groups.SetEnabled(ctx, chatID, !g.Enabled); err != nil {
		metrics.HandlerErrors.Inc()
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	h.answerCallback(cb, "Updated")
	h.showGroupDetail(ctx, cb, chatStr)
}

func (h *Handlers) deleteGroup(ctx context.Context, cb *tgbotapi.CallbackQuery, chatStr string) {
	chatID, err := strconv.ParseInt(chatStr, 10, 64)
	if err != nil {
		h.answerCallback(cb, "")
		return
	}
	ok, err := h.groups.Delete(ctx, chatID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("delete group", zap.Int64("chat_id", chatID), zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	if !ok {
		h.answerCallback(cb, "Group not found")
	} else {
		h.answerCallback(cb, "🗑 Deleted")
	}
	h.showGroupList(ctx, cb)
}

func (h *Handlers) startEditGroupTitle(cb *tgbotapi.CallbackQuery, chatStr string) {
	chatID, err := strconv.ParseInt(chatStr, 10, 64)
	if err != nil {
		h.answerCallback(cb, "")
		return
	}
	adminChat := cb.Message.Chat.ID
	h.states.set(adminChat, &chatState{
		Step:      stepEditGroupTitle,
		MessageID: cb.Message.MessageID,
		ChatID:    chatID,
	})
	h.editText(adminChat, cb.Message.MessageID,
		"✏️ Send the new group title, or /cancel.", nil)
	h.answerCallback(cb, "")
}

// ─── DIAGNOSTICS

func (h *Handlers) showDiagnostics(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	text, err := h.diagnosticsText(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("diagnostics", zap.Error(err))
		h.answerCallback(cb, "⚠️ Failed")
		return
	}
	mk := tgbotapi.NewInlineKeyboardMarkup(backToMenuRow())
	h.editText(cb.Message.Chat.ID, cb.Message.MessageID, text, &mk)
	h.answerCallback(cb, "")
}

func (h *Handlers) diagnosticsText(ctx context.Context) (string, error) {
	snap, err := h.diag.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("🩺 *Diagnostics*\n\n")
	fmt.Fprintf(&b, "👨‍🏫 Teachers: %d (%d active)\n", snap.TeachersCount, snap.ActiveTeachers)
	fmt.Fprintf(&b, "📍 Groups: %d (%d enabled)\n", snap.GroupsCount, snap.EnabledGroups)
	fmt.Fprintf(&b, "📅 Days with activity: %d\n", snap.ActivityDays)
	if len(snap.TeacherIDs) > 0 {
		fmt.Fprintf(&b, "\nIDs: `%s`", strings.Join(snap.TeacherIDs, "`, `"))
	}
	return b.String(), nil
}
