package handlers

import "sync"

// Шаги диалогов админ-консоли и регистрации.
const (
	stepAddTeacherID = iota + 1
	stepAddTeacherName
	stepAddTeacherTelegramID
	stepEditTeacherName
	stepEditGroupTitle
	stepReportDays
	stepGroupReportDays
	stepExcelDays
	stepMyStatDays
	stepRegName
)

type chatState struct {
	Step      int
	MessageID int

	// add teacher
	NewTeacherID   string
	NewTeacherName string

	// контекст выбранной сущности
	TeacherID string
	ChatID    int64
}

// stateMap — состояние диалога по чатам. Диспетчер обрабатывает апдейты
// конкурентно, поэтому доступ под мьютексом.
type stateMap struct {
	mu sync.Mutex
	m  map[int64]*chatState
}

func newStateMap() *stateMap {
	return &stateMap{m: make(map[int64]*chatState)}
}

func (s *stateMap) get(chatID int64) *chatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[chatID]
}

func (s *stateMap) set(chatID int64, st *chatState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[chatID] = st
}

func (s *stateMap) clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, chatID)
}
