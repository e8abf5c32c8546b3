package parser

import (
	"go.uber.org/zap"
)

// Parser - единая точка входа для всех разборов: услуги, расписание,
// контакты, отзывы.
type Parser struct {
	services *ServiceParser
	schedule *ScheduleParser
	contacts *ContactParser
	reviews  *ReviewParser
	logger   *zap.Logger
}

func New(logger *zap.Logger) *Parser {
	return &Parser{
		services: NewServiceParser(),
		schedule: NewScheduleParser(),
		contacts: NewContactParser(),
		reviews:  NewReviewParser(),
		logger:   logger,
	}
}

// ParseServices разбирает текстовый блок услуг.
func (p *Parser) ParseServices(raw string) ServicesResult {
	res := p.services.Parse(raw)
	p.logger.Debug("разбор услуг",
		zap.Int("found", len(res.Services)),
		zap.Float64("confidence", res.Confidence))
	return res
}

// ParseSchedule разбирает текст графика работы.
func (p *Parser) ParseSchedule(raw string) ScheduleResult {
	res := p.schedule.Parse(raw)
	p.logger.Debug("разбор расписания",
		zap.Bool("success", res.Success),
		zap.Float64("confidence", res.Confidence))
	return res
}

// ParseContacts разбирает контактный блок.
func (p *Parser) ParseContacts(raw RawContacts) ContactsResult {
	res := p.contacts.Parse(raw)
	p.logger.Debug("разбор контактов",
		zap.Bool("success", res.Success),
		zap.Float64("confidence", res.Confidence))
	return res
}

// ParseReviews разбирает блок отзывов.
func (p *Parser) ParseReviews(raw string) ReviewsResult {
	res := p.reviews.Parse(raw)
	p.logger.Debug("разбор отзывов",
		zap.Int("found", len(res.Reviews)),
		zap.Float64("confidence", res.Confidence))
	return res
}

// ValidateSchedule проверяет согласованность уже разобранного
// недельного расписания.
func (p *Parser) ValidateSchedule(schedule map[string]string) ScheduleConsistency {
	return p.schedule.ValidateConsistency(schedule)
}

// ParsePrice - разбор одиночной цены без полного прохода по услугам.
func (p *Parser) ParsePrice(raw string) PriceResult {
	return p.services.ParsePrice(raw)
}

// ParsePhone - нормализация одиночного телефона.
func (p *Parser) ParsePhone(raw string) string {
	return p.contacts.ParsePhone(raw)
}

// ParseDate - нормализация одиночной даты отзыва.
func (p *Parser) ParseDate(raw string) string {
	return p.reviews.ParseDate(raw)
}
