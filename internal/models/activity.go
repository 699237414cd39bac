package models

type Category string

const (
	CategoryText     Category = "text"
	CategoryPhoto    Category = "photo"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryVoice    Category = "voice"
	CategoryDocument Category = "document"
)

// Categories — закрытый набор типов сообщений; порядок фиксирован для отчётов.
var Categories = []Category{
	CategoryText, CategoryPhoto, CategoryVideo,
	CategoryAudio, CategoryVoice, CategoryDocument,
}

func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryText, CategoryPhoto, CategoryVideo, CategoryAudio, CategoryVoice, CategoryDocument:
		return Category(s), true
	}
	return "", false
}

// CounterSet — счётчики одного (день, группа, учитель)-бакета по категориям.
type CounterSet struct {
	Text     int `db:"text"`
	Photo    int `db:"photo"`
	Video    int `db:"video"`
	Audio    int `db:"audio"`
	Voice    int `db:"voice"`
	Document int `db:"document"`
}

func (c *CounterSet) Add(cat Category, n int) {
	switch cat {
	case CategoryText:
		c.Text += n
	case CategoryPhoto:
		c.Photo += n
	case CategoryVideo:
		c.Video += n
	case CategoryAudio:
		c.Audio += n
	case CategoryVoice:
		c.Voice += n
	case CategoryDocument:
		c.Document += n
	}
}

func (c *CounterSet) Merge(o CounterSet) {
	c.Text += o.Text
	c.Photo += o.Photo
	c.Video += o.Video
	c.Audio += o.Audio
	c.Voice += o.Voice
	c.Document += o.Document
}

func (c CounterSet) Get(cat Category) int {
	switch cat {
	case CategoryText:
		return c.Text
	case CategoryPhoto:
		return c.Photo
	case CategoryVideo:
		return c.Video
	case CategoryAudio:
		return c.Audio
	case CategoryVoice:
		return c.Voice
	case CategoryDocument:
		return c.Document
	}
	return 0
}

func (c CounterSet) Total() int {
	return c.Text + c.Photo + c.Video + c.Audio + c.Voice + c.Document
}

// RangeStats — результат агрегации окна: chat_id → teacher_id → счётчики.
type RangeStats map[int64]map[string]CounterSet

// TeacherSummary — срез окна по одному учителю.
type TeacherSummary struct {
	Groups map[int64]CounterSet
	Total  CounterSet
}

// DiagSnapshot — read-only сводка по хранилищу для /diag.
type DiagSnapshot struct {
	TeachersCount   int
	ActiveTeachers  int
	GroupsCount     int
	EnabledGroups   int
	ActivityDays    int
	TeacherIDs      []string
	GroupTitlesByID map[int64]string
}
