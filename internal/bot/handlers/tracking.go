package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/madraimov/teacher-activity-bot/internal/metrics"
	"github.com/madraimov/teacher-activity-bot/internal/models"
	"go.uber.org/zap"
)

// classify относит сообщение к одной категории активности.
// Стикеры, опросы и прочее не считаются.
func classify(msg *tgbotapi.Message) (models.Category, bool) {
	switch {
	case len(msg.Photo) > 0:
		return models.CategoryPhoto, true
	case msg.Video != nil, msg.VideoNote != nil:
		return models.CategoryVideo, true
	case msg.Audio != nil:
		return models.CategoryAudio, true
	case msg.Voice != nil:
		return models.CategoryVoice, true
	case msg.Document != nil:
		return models.CategoryDocument, true
	case msg.Text != "" && !strings.HasPrefix(msg.Text, "/"):
		return models.CategoryText, true
	}
	return "", false
}

// HandleTracking — сообщение в группе. Считается не больше одной единицы
// активности на сообщение, и только для назначенного активного учителя
// во включённой группе.
func (h *Handlers) HandleTracking(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.IsBot {
		return
	}
	cat, ok := classify(msg)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	g, err := h.groups.Get(ctx, chatID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("tracking: load group", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if g == nil || !g.Enabled {
		return
	}

	t, err := h.teachers.GetByTelegramID(ctx, msg.From.ID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("tracking: lookup teacher", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		return
	}
	if t == nil || !t.Active {
		return
	}

	assigned, err := h.assignments.IsAssigned(ctx, t.ID, chatID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("tracking: check assignment",
			zap.String("teacher_id", t.ID), zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if !assigned {
		return
	}

	h.activity.Increment(ctx, h.activity.Today(), chatID, t.ID, cat)
	metrics.TrackedMessages.WithLabelValues(string(cat)).Inc()
}

// HandleMyChatMember — бота выгнали из группы или добавили в неё.
func (h *Handlers) HandleMyChatMember(ctx context.Context, upd *tgbotapi.ChatMemberUpdated) {
	chatID := upd.Chat.ID
	switch upd.NewChatMember.Status {
	case "kicked", "left":
		if err := h.groups.Deactivate(ctx, chatID); err != nil {
			metrics.HandlerErrors.Inc()
			h.log.Error("deactivate group", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
		h.log.Info("bot removed from group, tracking disabled", zap.Int64("chat_id", chatID))
	case "member", "administrator":
		if upd.Chat.IsGroup() || upd.Chat.IsSuperGroup() {
			h.log.Info("bot added to group", zap.Int64("chat_id", chatID), zap.String("title", upd.Chat.Title))
			h.reply(chatID, "👋 Hi! An admin can enable activity tracking here with /confirm\\_group.")
		}
	}
}

// HandleConfirmGroup — /confirm_group в группе: регистрация чата.
func (h *Handlers) HandleConfirmGroup(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		h.reply(msg.Chat.ID, "This command only works inside a group.")
		return
	}
	if !h.isAdmin(msg.From.ID) {
		h.reply(msg.Chat.ID, "⛔ Admins only.")
		return
	}
	ok, note, err := h.groups.Add(ctx, msg.Chat.ID, msg.Chat.Title)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("confirm group", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		h.reply(msg.Chat.ID, "⚠️ Something went wrong, try again.")
		return
	}
	if !ok {
		h.reply(msg.Chat.ID, "ℹ️ "+note)
		return
	}
	h.reply(msg.Chat.ID, fmt.Sprintf("✅ Group *%s* is now tracked.", msg.Chat.Title))
}

// HandleSyncGroups — /sync_groups в личке админа: обновить названия
// и отключить группы, откуда бота убрали.
func (h *Handlers) HandleSyncGroups(ctx context.Context, msg *tgbotapi.Message) {
	if !h.isAdmin(msg.From.ID) {
		return
	}
	groups, err := h.groups.List(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("sync groups: list", zap.Error(err))
		h.reply(msg.Chat.ID, "⚠️ Something went wrong, try again.")
		return
	}

	renamed, dropped := 0, 0
	for _, g := range groups {
		chat, err := h.bot.GetChat(tgbotapi.ChatInfoConfig{
			ChatConfig: tgbotapi.ChatConfig{ChatID: g.ChatID},
		})
		if err != nil {
			// бот больше не видит чат
			if g.Enabled {
				if derr := h.groups.Deactivate(ctx, g.ChatID); derr == nil {
					dropped++
				}
			}
			continue
		}
		if chat.Title != "" && chat.Title != g.Title {
			if ok, _, rerr := h.groups.Rename(ctx, g.ChatID, chat.Title); rerr == nil && ok {
				renamed++
			}
		}
	}
	h.reply(msg.Chat.ID, fmt.Sprintf("🔄 Sync done: %d renamed, %d disabled, %d total.",
		renamed, dropped, len(groups)))
}

// HandleDiag — /diag: в личке админа — сводка по хранилищу, в группе —
// статус чата и отправителя (удобно проверять, почему сообщения не считаются).
func (h *Handlers) HandleDiag(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat.IsGroup() || msg.Chat.IsSuperGroup() {
		h.groupDiag(ctx, msg)
		return
	}
	if !h.isAdmin(msg.From.ID) {
		return
	}
	text, err := h.diagnosticsText(ctx)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("diagnostics", zap.Error(err))
		h.reply(msg.Chat.ID, "⚠️ Something went wrong, try again.")
		return
	}
	h.reply(msg.Chat.ID, text)
}

func (h *Handlers) groupDiag(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var b strings.Builder
	b.WriteString("🩺 *Chat diagnostics*\n\n")

	g, err := h.groups.Get(ctx, chatID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("diag: load group", zap.Int64("chat_id", chatID), zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	switch {
	case g == nil:
		b.WriteString("📍 Group: not registered (run /confirm\\_group)\n")
	case g.Enabled:
		fmt.Fprintf(&b, "📍 Group: *%s*, tracking enabled\n", g.Title)
	default:
		fmt.Fprintf(&b, "📍 Group: *%s*, tracking disabled\n", g.Title)
	}

	t, err := h.teachers.GetByTelegramID(ctx, msg.From.ID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		h.log.Error("diag: lookup teacher", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		h.reply(chatID, "⚠️ Something went wrong, try again.")
		return
	}
	switch {
	case t == nil:
		b.WriteString("👤 You: not a registered teacher\n")
	case !t.Active:
		fmt.Fprintf(&b, "👤 You: teacher `%s`, deactivated\n", t.ID)
	default:
		fmt.Fprintf(&b, "👤 You: teacher `%s`, active\n", t.ID)
		assigned, err := h.assignments.IsAssigned(ctx, t.ID, chatID)
		if err == nil {
			if assigned {
				b.WriteString("🔗 Assignment: assigned to this group\n")
			} else {
				b.WriteString("🔗 Assignment: not assigned to this group\n")
			}
		}
	}

	if reply := msg.ReplyToMessage; reply != nil {
		if cat, ok := classify(reply); ok {
			fmt.Fprintf(&b, "💬 Replied-to message type: `%s`\n", string(cat))
		} else {
			b.WriteString("💬 Replied-to message type: not counted\n")
		}
	}

	h.reply(chatID, b.String())
}
