package fetcher

import (
	"errors"
	"time"
)

var (
	ErrEmptyDocument = errors.New("document has no content")
	ErrBadHTML       = errors.New("failed to parse html")
)

// RawDocument - сырой срез страницы организации: именованные поля-кандидаты
// плюс свободный текст. Дальше с ним работают парсеры, сюда ничего
// не нормализуется.
type RawDocument struct {
	ID        string
	URL       string
	FetchedAt time.Time

	Name         string
	Category     string
	Address      string
	Phone        string
	Website      string
	Rating       string
	ReviewsCount string

	ServicesText string
	ScheduleText string
	ReviewsText  string
	ContactsText string

	Telegram string
	WhatsApp string
	VK       string

	Text string
}

// Empty сообщает, что со страницы не снялось ни одного поля.
func (d *RawDocument) Empty() bool {
	return d.Name == "" && d.ServicesText == "" && d.ReviewsText == "" &&
		d.ScheduleText == "" && d.Phone == "" && d.Text == ""
}
