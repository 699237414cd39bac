package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/madraimov/teacher-activity-bot/internal/models"
)

func adminMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👨‍🏫 Teachers", "m:teachers"),
			tgbotapi.NewInlineKeyboardButtonData("📍 Groups", "m:groups"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Report", "m:report"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Report by Group", "m:report_group"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📥 Excel Export", "m:excel"),
			tgbotapi.NewInlineKeyboardButtonData("🩺 Diagnostics", "m:diag"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add Teacher", "m:add_teacher"),
		),
	)
}

func teacherMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My Statistics", "m:mystat"),
		),
	)
}

func registrationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Register as Teacher", "start_registration"),
		),
	)
}

func backToMenuRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "m:back"),
	)
}

func teacherListKeyboard(teachers []models.Teacher) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range teachers {
		mark := "🟢"
		if !t.Active {
			mark = "🔴"
		}
		label := fmt.Sprintf("%s %s (%s)", mark, t.FullName, t.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "t:"+t.ID)))
	}
	rows = append(rows, backToMenuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// teacherDetailKeyboard: кнопки назначений по всем группам плюс действия.
func teacherDetailKeyboard(t *models.Teacher, groups []models.Group, assigned map[int64]struct{}) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, g := range groups {
		mark := "➖"
		if _, ok := assigned[g.ChatID]; ok {
			mark = "✅"
		}
		data := fmt.Sprintf("a:%s|%d", t.ID, g.ChatID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %s", mark, g.Title), data)))
	}
	activeLabel := "🔴 Deactivate"
	if !t.Active {
		activeLabel = "🟢 Activate"
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Rename", "te:"+t.ID),
			tgbotapi.NewInlineKeyboardButtonData(activeLabel, "ta:"+t.ID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", "tx:"+t.ID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "m:teachers"),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func groupListKeyboard(groups []models.Group, prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, g := range groups {
		mark := "🟢"
		if !g.Enabled {
			mark = "🔴"
		}
		label := fmt.Sprintf("%s %s", mark, g.Title)
		data := fmt.Sprintf("%s:%d", prefix, g.ChatID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	rows = append(rows, backToMenuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func groupDetailKeyboard(g *models.Group) tgbotapi.InlineKeyboardMarkup {
	enabledLabel := "🔴 Disable tracking"
	if !g.Enabled {
		enabledLabel = "🟢 Enable tracking"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Rename", fmt.Sprintf("gr:%d", g.ChatID)),
			tgbotapi.NewInlineKeyboardButtonData(enabledLabel, fmt.Sprintf("ge:%d", g.ChatID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("gx:%d", g.ChatID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "m:groups"),
		),
	)
}

func registrationReviewKeyboard(telegramID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", fmt.Sprintf("reg:ap:%d", telegramID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", fmt.Sprintf("reg:rj:%d", telegramID)),
		),
	)
}
