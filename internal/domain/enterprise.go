package domain

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	phoneJunkRe = regexp.MustCompile(`[^\d\s\-\+\(\)]+`)
	edgeCommaRe = regexp.MustCompile(`^[,\s]+|[,\s]+$`)
)

// Enterprise - итоговая запись о предприятии. Единственное обязательное
// поле - название; всё остальное заполняется по мере извлечения.
// Rating и ReviewsCount - указатели: ноль для обоих осмысленное значение.
type Enterprise struct {
	Name         string
	Category     string
	Address      string
	Phone        string
	Website      string
	Rating       *float64
	ReviewsCount *int
	Services     []Service
	Reviews      []Review
	Social       SocialNetworks
	WorkingHours WorkingHours
	ScrapedAt    time.Time
	Metadata     map[string]any
}

// Validate нормализует все поля и проверяет жёсткие инварианты.
// Пустое название - единственная жёсткая ошибка самого предприятия;
// сомнительные значения остальных полей обнуляются, не роняя запись.
// Вложенные услуги и отзывы валидируются отдельно при конструировании.
func (e *Enterprise) Validate() error {
	e.Name = edgePunctRe.ReplaceAllString(cleanField(e.Name), "")
	if e.Name == "" {
		return ErrEmptyName
	}
	if len([]rune(e.Name)) > 200 {
		return fmt.Errorf("%w: %d chars", ErrNameTooLong, len([]rune(e.Name)))
	}

	e.Category = cleanField(e.Category)
	if len([]rune(e.Category)) > 100 {
		return fmt.Errorf("%w: %d chars", ErrCategoryTooLong, len([]rune(e.Category)))
	}
	e.Address = edgeCommaRe.ReplaceAllString(cleanField(e.Address), "")
	if len([]rune(e.Address)) > 300 {
		return fmt.Errorf("%w: %d chars", ErrAddressTooLong, len([]rune(e.Address)))
	}
	e.Phone = normalizePhoneField(e.Phone)
	e.Website = normalizeWebsite(e.Website)

	// рейтинг вне 0..5 не исправляем, а отбрасываем
	if e.Rating != nil {
		r := math.Round(*e.Rating*10) / 10
		if r < 0.0 || r > 5.0 {
			e.Rating = nil
		} else {
			e.Rating = &r
		}
	}
	// отрицательный счётчик отзывов прижимаем к нулю
	if e.ReviewsCount != nil && *e.ReviewsCount < 0 {
		zero := 0
		e.ReviewsCount = &zero
	}

	if err := e.Social.Validate(); err != nil {
		return err
	}
	if err := e.WorkingHours.Validate(); err != nil {
		return err
	}

	if e.ScrapedAt.IsZero() {
		e.ScrapedAt = time.Now()
	}
	return nil
}

// normalizePhoneField чистит телефон, сохраняя исходное форматирование.
// Меньше семи цифр - не телефон.
func normalizePhoneField(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = phoneJunkRe.ReplaceAllString(v, "")
	v = strings.TrimSpace(spacesRe.ReplaceAllString(v, " "))
	if len(digitsOnly(v)) < 7 {
		return ""
	}
	return v
}

// normalizeWebsite дополняет схему и отбрасывает ссылки на сами карты.
func normalizeWebsite(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		v = "https://" + v
	}
	u, err := url.Parse(v)
	if err != nil || u.Host == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(u.Host), "yandex") &&
		strings.Contains(strings.ToLower(v), "maps") {
		return ""
	}
	return v
}

// ApplyDerivedMetadata дополняет метаданные версией и статистикой
// извлечения. Уже установленные ключи не перезаписываются.
func (e *Enterprise) ApplyDerivedMetadata(version string) {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	if _, ok := e.Metadata["scraper_version"]; !ok {
		e.Metadata["scraper_version"] = version
	}
	if _, ok := e.Metadata["extraction_stats"]; !ok {
		e.Metadata["extraction_stats"] = map[string]any{
			"services_extracted":  len(e.Services),
			"reviews_extracted":   len(e.Reviews),
			"has_rating":          e.Rating != nil,
			"has_phone":           e.Phone != "",
			"has_website":         e.Website != "",
			"has_social_networks": e.Social.HasAny(),
			"has_working_hours":   e.WorkingHours.HasSchedule(),
		}
	}
}

// CompletenessScore - доля заполненных полей записи, 0.0-1.0.
func (e *Enterprise) CompletenessScore() float64 {
	const totalFields = 12
	filled := 0

	if e.Name != "" {
		filled++
	}
	if !e.ScrapedAt.IsZero() {
		filled++
	}
	if e.Category != "" {
		filled++
	}
	if e.Address != "" {
		filled++
	}
	if len(e.Services) > 0 {
		filled++
	}
	if e.Website != "" {
		filled++
	}
	if e.Social.HasAny() {
		filled++
	}
	if e.Phone != "" {
		filled++
	}
	if e.WorkingHours.HasSchedule() {
		filled++
	}
	if e.Rating != nil {
		filled++
	}
	if e.ReviewsCount != nil {
		filled++
	}
	if len(e.Reviews) > 0 {
		filled++
	}

	return float64(filled) / totalFields
}

// ContactMethodsCount - телефон, сайт и каждая соцсеть по отдельности.
func (e *Enterprise) ContactMethodsCount() int {
	n := e.Social.Count()
	if e.Phone != "" {
		n++
	}
	if e.Website != "" {
		n++
	}
	return n
}

func (e *Enterprise) HasPricingInfo() bool {
	for _, s := range e.Services {
		if s.Price != "" || s.PriceFrom != "" || s.PriceTo != "" {
			return true
		}
	}
	return false
}

// AverageRatingFromReviews считает средний рейтинг по отзывам
// с оценкой. Второе значение false если таких отзывов нет.
func (e *Enterprise) AverageRatingFromReviews() (float64, bool) {
	sum, n := 0, 0
	for _, r := range e.Reviews {
		if r.HasRating() {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return math.Round(float64(sum)/float64(n)*10) / 10, true
}

// PositiveReviewsRatio - доля положительных отзывов среди отзывов
// с оценкой.
func (e *Enterprise) PositiveReviewsRatio() (float64, bool) {
	rated, positive := 0, 0
	for _, r := range e.Reviews {
		if r.HasRating() {
			rated++
			if r.IsPositive() {
				positive++
			}
		}
	}
	if rated == 0 {
		return 0, false
	}
	return float64(positive) / float64(rated), true
}

// ServicesInPriceRange фильтрует услуги по числовой цене.
// Отрицательное значение границы означает "без ограничения".
func (e *Enterprise) ServicesInPriceRange(minPrice, maxPrice float64) []Service {
	var out []Service
	for _, s := range e.Services {
		price, ok := s.PriceNumeric()
		if !ok {
			continue
		}
		if minPrice >= 0 && price < minPrice {
			continue
		}
		if maxPrice >= 0 && price > maxPrice {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ReviewsByRating - отзывы с заданной оценкой.
func (e *Enterprise) ReviewsByRating(rating int) []Review {
	var out []Review
	for _, r := range e.Reviews {
		if r.Rating == rating {
			out = append(out, r)
		}
	}
	return out
}

// Summary - краткая сводка для логов и экспорта.
func (e *Enterprise) Summary() map[string]any {
	var rating any
	if e.Rating != nil {
		rating = *e.Rating
	}
	var reviewsCount any
	if e.ReviewsCount != nil {
		reviewsCount = *e.ReviewsCount
	}
	return map[string]any{
		"name":              e.Name,
		"category":          nullable(e.Category),
		"address":           nullable(e.Address),
		"rating":            rating,
		"reviews_count":     reviewsCount,
		"services_count":    len(e.Services),
		"has_pricing":       e.HasPricingInfo(),
		"contact_methods":   e.ContactMethodsCount(),
		"data_completeness": math.Round(e.CompletenessScore()*100) / 100,
		"scraping_date":     e.ScrapedAt.Format(time.RFC3339),
	}
}

// ToMap - полное представление записи для экспорта в JSON/CSV.
func (e *Enterprise) ToMap() map[string]any {
	services := make([]map[string]any, 0, len(e.Services))
	for i := range e.Services {
		services = append(services, e.Services[i].toMap())
	}
	reviews := make([]map[string]any, 0, len(e.Reviews))
	for i := range e.Reviews {
		reviews = append(reviews, e.Reviews[i].toMap())
	}

	var rating any
	if e.Rating != nil {
		rating = *e.Rating
	}
	var reviewsCount any
	if e.ReviewsCount != nil {
		reviewsCount = *e.ReviewsCount
	}

	return map[string]any{
		"name":            e.Name,
		"category":        nullable(e.Category),
		"address":         nullable(e.Address),
		"phone":           nullable(e.Phone),
		"website":         nullable(e.Website),
		"rating":          rating,
		"reviews_count":   reviewsCount,
		"services":        services,
		"reviews":         reviews,
		"social_networks": e.Social.toMap(),
		"working_hours":   e.WorkingHours.toMap(),
		"scraping_date":   e.ScrapedAt.Format(time.RFC3339),
		"metadata":        e.Metadata,
	}
}
