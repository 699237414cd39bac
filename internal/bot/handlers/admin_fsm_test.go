package handlers

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentRecorder struct {
	texts []string
}

func newRecordedHandlers() (*Handlers, *sentRecorder) {
	rec := &sentRecorder{}
	h := &Handlers{log: zap.NewNop(), states: newStateMap()}
	h.sendFn = func(c tgbotapi.Chattable) (tgbotapi.Message, error) {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			rec.texts = append(rec.texts, m.Text)
		}
		return tgbotapi.Message{}, nil
	}
	return h, rec
}

func (r *sentRecorder) last() string {
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

// невалидный код отбивается на своём шаге, диалог не продвигается
func TestStepAddID_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"dash", "T-01"},
		{"too short", "ab"},
		{"cyrillic", "Т001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, rec := newRecordedHandlers()
			st := &chatState{Step: stepAddTeacherID}

			h.stepAddID(context.Background(), 1, st, tt.id)

			require.NotEmpty(t, rec.texts, "user must get a correction prompt")
			assert.Contains(t, rec.last(), "❌")
			assert.Equal(t, stepAddTeacherID, st.Step, "dialog must stay on the ID step")
			assert.Empty(t, st.NewTeacherID)
		})
	}
}

func TestStepAddName_RejectsShortName(t *testing.T) {
	h, rec := newRecordedHandlers()
	st := &chatState{Step: stepAddTeacherName, NewTeacherID: "T001"}

	h.stepAddName(1, st, "abc")

	require.NotEmpty(t, rec.texts)
	assert.Contains(t, rec.last(), "❌")
	assert.Equal(t, stepAddTeacherName, st.Step, "dialog must stay on the name step")
	assert.Empty(t, st.NewTeacherName)
}

func TestStepAddName_AdvancesOnValidName(t *testing.T) {
	h, rec := newRecordedHandlers()
	st := &chatState{Step: stepAddTeacherName, NewTeacherID: "T001"}

	h.stepAddName(1, st, "Aliyev Vali")

	require.NotEmpty(t, rec.texts)
	assert.Equal(t, stepAddTeacherTelegramID, st.Step)
	assert.Equal(t, "Aliyev Vali", st.NewTeacherName)
}
