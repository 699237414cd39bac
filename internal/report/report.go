// Package report собирает текстовые отчёты по активности для отправки в чат.
// Порядок категорий фиксированный: text, photo, video, audio, voice, document.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/madraimov/teacher-activity-bot/internal/models"
)

const topTeachersLimit = 10

// FormatBreakdown — двухстрочная разбивка с фиксированным порядком иконок.
func FormatBreakdown(c models.CounterSet) string {
	line1 := fmt.Sprintf("📝 %d | 📸 %d | 🎥 %d", c.Text, c.Photo, c.Video)
	line2 := fmt.Sprintf("🎵 %d | 🎤 %d | 📎 %d", c.Audio, c.Voice, c.Document)
	return line1 + "\n   " + line2
}

// FormatEntityBlock — строка заголовка плюс разбивка с отступом.
func FormatEntityBlock(titleLine string, c models.CounterSet) string {
	return titleLine + "\n   " + FormatBreakdown(c)
}

type entityTotal struct {
	id    string
	title string
	c     models.CounterSet
}

// Overall — сводный отчёт за окно: топ учителей и разрез по группам.
// teacherNames/groupTitles — подписи; для неизвестных id подставляется сам id.
func Overall(stats models.RangeStats, teacherNames map[string]string, groupTitles map[int64]string, days int) string {
	if len(stats) == 0 {
		return fmt.Sprintf("📊 No activity in the last %d days.", days)
	}

	teacherTotals := make(map[string]models.CounterSet)
	groupTotals := make(map[int64]models.CounterSet)
	for chatID, byTeacher := range stats {
		for teacherID, c := range byTeacher {
			tc := teacherTotals[teacherID]
			tc.Merge(c)
			teacherTotals[teacherID] = tc

			gc := groupTotals[chatID]
			gc.Merge(c)
			groupTotals[chatID] = gc
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Report: Last %d Days*\n\n", days)

	b.WriteString("*🏆 Top Teachers:*\n")
	teachers := make([]entityTotal, 0, len(teacherTotals))
	for id, c := range teacherTotals {
		title := teacherNames[id]
		if title == "" {
			title = id
		}
		teachers = append(teachers, entityTotal{id: id, title: title, c: c})
	}
	sortByTotalDesc(teachers)
	if len(teachers) > topTeachersLimit {
		teachers = teachers[:topTeachersLimit]
	}
	for i, t := range teachers {
		label := fmt.Sprintf("👨‍🏫 %s — %d", t.title, t.c.Total())
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, FormatEntityBlock(label, t.c))
	}

	b.WriteString("\n*📍 By Group:*\n")
	groups := make([]entityTotal, 0, len(groupTotals))
	for chatID, c := range groupTotals {
		title := groupTitles[chatID]
		if title == "" {
			title = fmt.Sprintf("%d", chatID)
		}
		groups = append(groups, entityTotal{id: fmt.Sprintf("%d", chatID), title: title, c: c})
	}
	sortByTotalDesc(groups)
	for _, g := range groups {
		label := fmt.Sprintf("📍 %s %d", g.title, g.c.Total())
		fmt.Fprintf(&b, "\n%s\n", FormatEntityBlock(label, g.c))
	}
	return b.String()
}

// Group — отчёт по одной группе: активность назначенных на неё учителей.
func Group(groupTitle string, byTeacher map[string]models.CounterSet, teacherNames map[string]string, days int) string {
	if len(byTeacher) == 0 {
		return fmt.Sprintf("📊 No activity in *%s* for the last %d days.", groupTitle, days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Report by Group:* %s\n", groupTitle)
	fmt.Fprintf(&b, "📅 *Period:* Last %d days\n\n", days)
	b.WriteString("👨‍🏫 *Teachers in this group:*\n")

	teachers := make([]entityTotal, 0, len(byTeacher))
	for id, c := range byTeacher {
		title := teacherNames[id]
		if title == "" {
			title = id
		}
		teachers = append(teachers, entityTotal{id: id, title: title, c: c})
	}
	sortByTotalDesc(teachers)
	for _, t := range teachers {
		label := fmt.Sprintf("👨‍🏫 %s — %d", t.title, t.c.Total())
		fmt.Fprintf(&b, "\n%s\n", FormatEntityBlock(label, t.c))
	}
	return b.String()
}

// Teacher — личная статистика одного учителя по группам с общим итогом.
func Teacher(sum *models.TeacherSummary, groupTitles map[int64]string, days int) string {
	if sum == nil || sum.Total.Total() == 0 {
		return fmt.Sprintf("📊 No activity found for the last %d days.", days)
	}

	var b strings.Builder
	b.WriteString("📊 *My Statistics*\n")
	fmt.Fprintf(&b, "📅 *Period:* Last %d days\n\n", days)
	b.WriteString("📍 *By Group:*\n")

	groups := make([]entityTotal, 0, len(sum.Groups))
	for chatID, c := range sum.Groups {
		if c.Total() == 0 {
			continue
		}
		title := groupTitles[chatID]
		if title == "" {
			title = fmt.Sprintf("%d", chatID)
		}
		groups = append(groups, entityTotal{id: fmt.Sprintf("%d", chatID), title: title, c: c})
	}
	sortByTotalDesc(groups)
	for _, g := range groups {
		label := fmt.Sprintf("📍 %s %d", g.title, g.c.Total())
		fmt.Fprintf(&b, "\n%s\n", FormatEntityBlock(label, g.c))
	}

	fmt.Fprintf(&b, "\n🏆 *%d*", sum.Total.Total())
	return b.String()
}

func sortByTotalDesc(xs []entityTotal) {
	sort.Slice(xs, func(i, j int) bool {
		ti, tj := xs[i].c.Total(), xs[j].c.Total()
		if ti != tj {
			return ti > tj
		}
		return xs[i].id < xs[j].id // стабильный порядок при равных итогах
	})
}
