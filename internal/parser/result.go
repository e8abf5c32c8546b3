package parser

import (
	"github.com/avkuzmin/bizextract/internal/domain"
)

// Outcome - общая часть результата парсинга. Отсутствие данных в поле
// не ошибка: Success=false с пустыми Errors означает "в поле ничего
// не нашлось". Errors заполняются только на реально битом входе.
type Outcome struct {
	Success    bool
	Errors     []string
	Warnings   []string
	Confidence float64
}

// AddError помечает результат неуспешным.
func (o *Outcome) AddError(msg string) {
	o.Errors = append(o.Errors, msg)
	o.Success = false
}

// AddWarning добавляет предупреждение и ограничивает уверенность:
// результат с предупреждениями не может быть уверенным больше чем на 0.7.
func (o *Outcome) AddWarning(msg string) {
	o.Warnings = append(o.Warnings, msg)
	if o.Confidence > 0.7 {
		o.Confidence = 0.7
	}
}

// ServicesResult - результат парсинга блока услуг.
type ServicesResult struct {
	Outcome
	Services []domain.Service
}

// PriceResult - результат парсинга одной цены.
type PriceResult struct {
	Outcome
	Price     string
	PriceFrom string
	PriceTo   string
}

// ScheduleResult - результат парсинга графика работы.
type ScheduleResult struct {
	Outcome
	Hours domain.WorkingHours
}

// Contacts - извлечённые контакты. Email в доменной модели предприятия
// не хранится и уходит в метаданные.
type Contacts struct {
	Phone   string
	Website string
	Email   string
	Social  domain.SocialNetworks
}

// ContactsResult - результат парсинга контактного блока.
type ContactsResult struct {
	Outcome
	Contacts Contacts
}

// ReviewsResult - результат парсинга блока отзывов.
type ReviewsResult struct {
	Outcome
	Reviews []domain.Review
}
