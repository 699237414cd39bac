package handlers

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/madraimov/teacher-activity-bot/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  *tgbotapi.Message
		want models.Category
		ok   bool
	}{
		{"text", &tgbotapi.Message{Text: "hello"}, models.CategoryText, true},
		{"command skipped", &tgbotapi.Message{Text: "/report"}, "", false},
		{"photo", &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{}}}, models.CategoryPhoto, true},
		{"video", &tgbotapi.Message{Video: &tgbotapi.Video{}}, models.CategoryVideo, true},
		{"video note counts as video", &tgbotapi.Message{VideoNote: &tgbotapi.VideoNote{}}, models.CategoryVideo, true},
		{"audio", &tgbotapi.Message{Audio: &tgbotapi.Audio{}}, models.CategoryAudio, true},
		{"voice", &tgbotapi.Message{Voice: &tgbotapi.Voice{}}, models.CategoryVoice, true},
		{"document", &tgbotapi.Message{Document: &tgbotapi.Document{}}, models.CategoryDocument, true},
		{"sticker skipped", &tgbotapi.Message{Sticker: &tgbotapi.Sticker{}}, "", false},
		{"empty skipped", &tgbotapi.Message{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classify(tt.msg)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// фото с подписью считается фото, не текстом
func TestClassify_PhotoWithCaption(t *testing.T) {
	msg := &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{}}, Caption: "look"}
	got, ok := classify(msg)
	assert.True(t, ok)
	assert.Equal(t, models.CategoryPhoto, got)
}
