package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Паттерны подозрительных названий: одни строчные/заглавные латинские
// буквы, одни цифры, одни спецсимволы.
var suspiciousNameRes = []*regexp.Regexp{
	regexp.MustCompile(`^[a-z\s]+$`),
	regexp.MustCompile(`^[A-Z\s]+$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^[^\p{L}\p{N}\s]+$`),
}

// \w в RE2 только ASCII, для кириллицы нужны юникодные классы
var nonWordRe = regexp.MustCompile(`[\p{L}\p{N}_\s]`)

// hasRepeatedRun - пять и более одинаковых символов подряд.
// RE2 не умеет backreferences, считаем вручную.
func hasRepeatedRun(s string) bool {
	var prev rune
	run := 0
	for _, c := range s {
		if c == prev {
			run++
			if run >= 5 {
				return true
			}
		} else {
			prev = c
			run = 1
		}
	}
	return false
}

// QualityReport - мягкие замечания к записи. Запись остаётся валидной,
// замечания уходят в логи и в метаданные экспорта.
type QualityReport struct {
	Warnings []string
}

func (q *QualityReport) OK() bool { return len(q.Warnings) == 0 }

func (q *QualityReport) add(format string, args ...any) {
	q.Warnings = append(q.Warnings, fmt.Sprintf(format, args...))
}

// CheckQuality прогоняет эвристики качества по всей записи.
func (e *Enterprise) CheckQuality() QualityReport {
	return e.CheckQualityWithin(DefaultPriceMin, DefaultPriceMax)
}

// CheckQualityWithin - то же с границами цен из файла правил.
func (e *Enterprise) CheckQualityWithin(priceMin, priceMax float64) QualityReport {
	var q QualityReport
	q.checkName(e.Name)
	q.checkRatingConsistency(e.Rating, e.ReviewsCount)
	q.checkContacts(e.Phone, e.Website, &e.Social)
	for i := range e.Services {
		for _, w := range e.Services[i].WarningsWithin(priceMin, priceMax) {
			q.add("service %q: %s", e.Services[i].Name, w)
		}
	}
	return q
}

func (q *QualityReport) checkName(name string) {
	if len([]rune(strings.TrimSpace(name))) < 2 {
		q.add("название слишком короткое: %q", name)
		return
	}
	for _, re := range suspiciousNameRes {
		if re.MatchString(name) {
			q.add("подозрительный паттерн в названии: %q", name)
			break
		}
	}
	special := len([]rune(nonWordRe.ReplaceAllString(name, "")))
	if total := len([]rune(name)); total > 0 && float64(special)/float64(total) > 0.3 {
		q.add("слишком много спецсимволов в названии: %q", name)
	}
	if hasRepeatedRun(name) {
		q.add("повторяющиеся символы в названии: %q", name)
	}
}

func (q *QualityReport) checkRatingConsistency(rating *float64, reviewsCount *int) {
	if rating != nil && (reviewsCount == nil || *reviewsCount == 0) {
		q.add("указан рейтинг, но нет отзывов")
	}
	if rating != nil && reviewsCount != nil && *rating >= 4.8 && *reviewsCount < 5 {
		q.add("подозрительно высокий рейтинг при %d отзывах", *reviewsCount)
	}
	if reviewsCount != nil && *reviewsCount > 10 && rating == nil {
		q.add("%d отзывов без рейтинга", *reviewsCount)
	}
}

func (q *QualityReport) checkContacts(phone, website string, sn *SocialNetworks) {
	methods := sn.Count()
	if phone != "" {
		methods++
		if !ValidPhone(phone) {
			q.add("некорректный формат телефона: %q", phone)
		}
	}
	if website != "" {
		methods++
		if u, err := url.Parse(website); err != nil || u.Host == "" {
			q.add("некорректный сайт: %q", website)
		}
	}
	switch methods {
	case 0:
		q.add("отсутствует контактная информация")
	case 1:
		q.add("только один способ связи")
	}
}

// ValidPhone - базовая проверка телефона по количеству цифр.
// Российский формат: 11 цифр с ведущей семёркой; прочие от 10 до 15.
func ValidPhone(phone string) bool {
	digits := digitsOnly(phone)
	if len(digits) < 7 || len(digits) > 15 {
		return false
	}
	if strings.HasPrefix(digits, "7") && len(digits) == 11 {
		return true
	}
	return len(digits) >= 10
}
