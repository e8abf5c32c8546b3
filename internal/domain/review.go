package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	ellipsisRe = regexp.MustCompile(`[.]{3,}`)
	bangsRe    = regexp.MustCompile(`[!]{2,}`)
	questionRe = regexp.MustCompile(`[?]{2,}`)
)

// Review - отзыв о предприятии. Rating == 0 означает "не указан",
// валидные значения 1..5. Автор обязателен: отзыв без автора не существует.
type Review struct {
	Author       string
	Rating       int
	Date         string
	Text         string
	Response     string
	HelpfulCount int
}

// Validate нормализует поля и проверяет инварианты.
// Рейтинг вне 1..5 - жёсткая ошибка (0 допустим как "нет рейтинга").
func (r *Review) Validate() error {
	r.Author = strings.TrimSpace(spacesRe.ReplaceAllString(r.Author, " "))
	if r.Author == "" {
		return ErrEmptyAuthor
	}
	if len([]rune(r.Author)) > 100 {
		return fmt.Errorf("%w: %d chars", ErrAuthorTooLong, len([]rune(r.Author)))
	}

	if r.Rating != 0 && (r.Rating < 1 || r.Rating > 5) {
		return fmt.Errorf("%w: %d", ErrInvalidRating, r.Rating)
	}

	r.Date = cleanField(r.Date)
	r.Text = cleanReviewText(r.Text)
	r.Response = cleanReviewText(r.Response)

	if len([]rune(r.Text)) > 5000 {
		return fmt.Errorf("%w: %d chars", ErrTextTooLong, len([]rune(r.Text)))
	}
	if len([]rune(r.Response)) > 3000 {
		return fmt.Errorf("%w: %d chars", ErrResponseTooLong, len([]rune(r.Response)))
	}
	if r.HelpfulCount < 0 {
		r.HelpfulCount = 0
	}
	return nil
}

// cleanReviewText нормализует текст отзыва: HTML, пробелы,
// повторы знаков препинания.
func cleanReviewText(s string) string {
	s = cleanField(s)
	if s == "" {
		return ""
	}
	s = ellipsisRe.ReplaceAllString(s, "...")
	s = bangsRe.ReplaceAllString(s, "!")
	s = questionRe.ReplaceAllString(s, "?")
	return s
}

func (r *Review) HasRating() bool { return r.Rating >= 1 && r.Rating <= 5 }

// IsPositive: рейтинг 4-5. Без рейтинга - false, см. HasRating.
func (r *Review) IsPositive() bool { return r.HasRating() && r.Rating >= 4 }

// IsNegative: рейтинг 1-2.
func (r *Review) IsNegative() bool { return r.HasRating() && r.Rating <= 2 }

func (r *Review) HasOwnerResponse() bool { return strings.TrimSpace(r.Response) != "" }

// Stars рендерит рейтинг звёздами для сводок.
func (r *Review) Stars() string {
	if !r.HasRating() {
		return "Рейтинг не указан"
	}
	return strings.Repeat("★", r.Rating) + strings.Repeat("☆", 5-r.Rating)
}

// SentimentScore - линейная шкала -1..1 на основе рейтинга.
// Второе значение false если рейтинга нет.
func (r *Review) SentimentScore() (float64, bool) {
	if !r.HasRating() {
		return 0, false
	}
	return float64(r.Rating-3) / 2, true
}

// Preview обрезает текст до maxLen по границам слов.
func (r *Review) Preview(maxLen int) string {
	if r.Text == "" {
		return ""
	}
	runes := []rune(r.Text)
	if len(runes) <= maxLen {
		return r.Text
	}

	var b strings.Builder
	for _, word := range strings.Fields(r.Text) {
		if b.Len() > 0 && len([]rune(b.String()))+len([]rune(word))+1 > maxLen {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
	}
	return b.String() + "..."
}

func (r *Review) toMap() map[string]any {
	var rating any
	if r.HasRating() {
		rating = r.Rating
	}
	var helpful any
	if r.HelpfulCount > 0 {
		helpful = r.HelpfulCount
	}
	return map[string]any{
		"author":        r.Author,
		"rating":        rating,
		"date":          nullable(r.Date),
		"text":          nullable(r.Text),
		"response":      nullable(r.Response),
		"helpful_count": helpful,
	}
}
