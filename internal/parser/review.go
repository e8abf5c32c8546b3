package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/avkuzmin/bizextract/internal/domain"
)

var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d)\s*(?:из\s*5|/5|\*|★)`),
	regexp.MustCompile(`(?i)(\d+)\s*звезд[ыа]?`),
	regexp.MustCompile(`(?i)(\d+)\s*балл[ао]в?`),
	regexp.MustCompile(`(?i)оценка:\s*(\d+)`),
}

var starsRunRe = regexp.MustCompile(`★+`)

var authorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([А-ЯЁ][а-яё]+\s+[А-ЯЁ]\.?)$`),
	regexp.MustCompile(`^([А-ЯЁ][а-яё]+)$`),
	regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z]\.?)$`),
	regexp.MustCompile(`^([A-Z][a-z]+)$`),
}

var authorWordCleanRe = regexp.MustCompile(`[^\p{L}\p{N}\s.\-]`)

// Табличные форматы дат отзывов: полные, без года, числовые,
// относительные. Первый сработавший выигрывает.
var reviewDatePatterns = []struct {
	re   *regexp.Regexp
	kind string
}{
	{regexp.MustCompile(`(?i)(\d{1,2})\s+(января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)\s+(\d{4})`), "ru_full"},
	{regexp.MustCompile(`(?i)(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{4})`), "en_full"},
	{regexp.MustCompile(`(?i)(\d{1,2})\s+(января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)`), "ru_short"},
	{regexp.MustCompile(`(?i)(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`), "en_short"},
	{regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{2,4})`), "numeric_dot"},
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{2,4})`), "numeric_slash"},
	{regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`), "iso"},
	{regexp.MustCompile(`(?i)(сегодня|вчера|позавчера)`), "relative_ru"},
	{regexp.MustCompile(`(?i)(today|yesterday)`), "relative_en"},
	{regexp.MustCompile(`(?i)(\d+)\s*(?:дней|дня|дн|days|day)\s*назад`), "days_ago"},
	{regexp.MustCompile(`(?i)(\d+)\s*(?:недель|недели|неделю|нед|weeks|week)\s*назад`), "weeks_ago"},
	{regexp.MustCompile(`(?i)(\d+)\s*(?:месяцев|месяца|месяц|мес|months|month)\s*назад`), "months_ago"},
}

// "12 человек считают отзыв полезным" и короткая форма "Полезно: 12".
var helpfulPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s+человек[а]?\s+счита[юе]т\s+(?:этот\s+)?отзыв\s+полезным`),
	regexp.MustCompile(`(?i)полезно[:\s]+(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s+(?:found this\s+)?helpful`),
}

var ownerResponseIndicators = []string{
	"ответ владельца", "ответ заведения", "от администрации",
	"owner response", "business response", "management response",
	"администратор", "менеджер", "руководство",
}

// Разделители отзывов без lookahead, в порядке приоритета.
var reviewSeparators = []*regexp.Regexp{
	regexp.MustCompile(`\n\s*[-•*]\s*`),
	regexp.MustCompile(`\n\s*\d+\.\s*`),
	regexp.MustCompile(`\n{3,}`),
}

// Начала новых отзывов: RE2 не умеет lookahead, режем по индексам.
var reviewBoundaryRes = []*regexp.Regexp{
	regexp.MustCompile(`\n[А-ЯЁ][а-яё]+\s+[А-ЯЁ]\.`),
	regexp.MustCompile(`\n\d+\s+(?:звезд|★)`),
}

// ReviewParser извлекает отзывы из свободного текста.
// Часы задаются снаружи ради детерминированных относительных дат.
type ReviewParser struct {
	now func() time.Time
}

func NewReviewParser() *ReviewParser {
	return &ReviewParser{now: time.Now}
}

// Parse разбирает блок отзывов. Отзыв без автора отбрасывается:
// автор - единственный обязательный якорь.
func (p *ReviewParser) Parse(raw string) ReviewsResult {
	var res ReviewsResult
	if strings.TrimSpace(raw) == "" {
		return res
	}

	blocks := p.splitReviews(raw)
	total := 0.0
	for _, block := range blocks {
		review, conf, ok := p.parseSingle(block)
		if !ok {
			continue
		}
		res.Reviews = append(res.Reviews, review)
		total += conf
	}

	if len(blocks) > 0 {
		res.Confidence = total / float64(len(blocks))
	}
	res.Success = len(res.Reviews) > 0
	return res
}

func (p *ReviewParser) splitReviews(text string) []string {
	for _, sep := range reviewSeparators {
		if blocks := cleanBlocks(sep.Split(text, -1)); len(blocks) > 1 {
			return blocks
		}
	}
	for _, re := range reviewBoundaryRes {
		if blocks := cleanBlocks(splitBefore(text, re)); len(blocks) > 1 {
			return blocks
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

// cleanBlocks отбрасывает куски короче минимальной длины отзыва.
func cleanBlocks(blocks []string) []string {
	var out []string
	for _, b := range blocks {
		// переносы строк нужны дальше для выделения автора
		b = strings.TrimSpace(b)
		if len([]rune(CleanText(b))) > 20 {
			out = append(out, b)
		}
	}
	return out
}

// splitBefore режет текст по началам совпадений, сами совпадения
// остаются в начале следующего куска.
func splitBefore(text string, re *regexp.Regexp) []string {
	idxs := re.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		return []string{text}
	}
	var out []string
	prev := 0
	for _, idx := range idxs {
		if idx[0] > prev {
			out = append(out, text[prev:idx[0]])
		}
		prev = idx[0]
	}
	out = append(out, text[prev:])
	return out
}

func (p *ReviewParser) parseSingle(block string) (domain.Review, float64, bool) {
	if len([]rune(strings.TrimSpace(block))) < 10 {
		return domain.Review{}, 0, false
	}

	var review domain.Review
	confidence := 0.3

	if author := p.extractAuthor(block); author != "" {
		review.Author = author
		confidence += 0.2
	}
	if rating := p.extractRating(block); rating != 0 {
		review.Rating = rating
		confidence += 0.2
	}
	if date := p.ParseDate(block); date != "" {
		review.Date = date
		confidence += 0.1
	}
	text, response := p.extractText(block)
	if text != "" || response != "" {
		review.Text = text
		review.Response = response
		confidence += 0.2
	}
	review.HelpfulCount = p.extractHelpfulCount(block)

	// без автора отзыва нет
	if review.Author == "" {
		return domain.Review{}, 0, false
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return review, confidence, true
}

// extractAuthor ищет имя в первых строках блока, потом среди
// первых слов.
func (p *ReviewParser) extractAuthor(block string) string {
	lines := strings.Split(block, "\n")
	limit := 3
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		for _, re := range authorPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				name := strings.TrimSpace(m[1])
				if n := len([]rune(name)); n >= 2 && n <= 50 {
					return name
				}
			}
		}
	}

	words := strings.Fields(block)
	limit = 5
	if len(words) < limit {
		limit = len(words)
	}
	for _, word := range words[:limit] {
		cleaned := authorWordCleanRe.ReplaceAllString(word, "")
		runes := []rune(cleaned)
		if len(runes) < 2 {
			continue
		}
		if isUpperLetter(runes[0]) && !allDigits(cleaned) {
			return cleaned
		}
	}
	return ""
}

func isUpperLetter(r rune) bool {
	return strings.ToUpper(string(r)) == string(r) && strings.ToLower(string(r)) != string(r)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// extractHelpfulCount: счётчик "полезности" отзыва, 0 если не найден.
func (p *ReviewParser) extractHelpfulCount(block string) int {
	for _, re := range helpfulPatterns {
		if m := re.FindStringSubmatch(block); m != nil {
			if v, ok := parseNumber(m[1]); ok && v >= 0 {
				return int(v)
			}
		}
	}
	return 0
}

// extractRating: табличные паттерны, затем подсчёт звёзд.
func (p *ReviewParser) extractRating(block string) int {
	for _, re := range ratingPatterns {
		if m := re.FindStringSubmatch(block); m != nil {
			if v, ok := parseNumber(m[1]); ok {
				r := int(v)
				if r >= 1 && r <= 5 {
					return r
				}
			}
		}
	}
	if m := starsRunRe.FindString(block); m != "" {
		n := len([]rune(m))
		if n >= 1 && n <= 5 {
			return n
		}
	}
	return 0
}

// ParseDate нормализует дату отзыва. Табличные форматы в приоритете,
// по остаточному принципу пробуем универсальный разбор.
func (p *ReviewParser) ParseDate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	now := p.now()

	for _, dp := range reviewDatePatterns {
		m := dp.re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		switch dp.kind {
		case "ru_full", "en_full":
			if _, ok := MonthNumber(m[2]); ok {
				return fmt.Sprintf("%s %s %s", m[1], m[2], m[3])
			}
		case "ru_short", "en_short":
			if _, ok := MonthNumber(m[2]); ok {
				return fmt.Sprintf("%s %s %d", m[1], m[2], now.Year())
			}
		case "numeric_dot":
			return fmt.Sprintf("%s.%s.%s", m[1], m[2], expandYear(m[3]))
		case "numeric_slash":
			// американский порядок: месяц/день/год
			return fmt.Sprintf("%s.%s.%s", m[2], m[1], expandYear(m[3]))
		case "iso":
			return fmt.Sprintf("%s.%s.%s", m[3], m[2], m[1])
		case "relative_ru":
			switch strings.ToLower(m[1]) {
			case "сегодня":
				return now.Format("02.01.2006")
			case "вчера":
				return now.AddDate(0, 0, -1).Format("02.01.2006")
			case "позавчера":
				return now.AddDate(0, 0, -2).Format("02.01.2006")
			}
		case "relative_en":
			switch strings.ToLower(m[1]) {
			case "today":
				return now.Format("02.01.2006")
			case "yesterday":
				return now.AddDate(0, 0, -1).Format("02.01.2006")
			}
		case "days_ago":
			if v, ok := parseNumber(m[1]); ok && v <= 365 {
				return now.AddDate(0, 0, -int(v)).Format("02.01.2006")
			}
		case "weeks_ago":
			if v, ok := parseNumber(m[1]); ok && v <= 52 {
				return now.AddDate(0, 0, -7*int(v)).Format("02.01.2006")
			}
		case "months_ago":
			if v, ok := parseNumber(m[1]); ok && v <= 12 {
				return now.AddDate(0, 0, -30*int(v)).Format("02.01.2006")
			}
		}
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return t.Format("02.01.2006")
	}
	return ""
}

func expandYear(y string) string {
	if len(y) != 2 {
		return y
	}
	if v, ok := parseNumber(y); ok && v <= 30 {
		return "20" + y
	}
	return "19" + y
}

// extractText отделяет текст отзыва от метастрок и ответа владельца.
func (p *ReviewParser) extractText(block string) (text, response string) {
	var kept []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) <= 5 {
			continue
		}
		if p.isMetaLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return "", ""
	}

	full := strings.Join(kept, " ")
	text = full

	lower := strings.ToLower(full)
	for _, ind := range ownerResponseIndicators {
		idx := strings.Index(lower, ind)
		if idx < 0 {
			continue
		}
		text = strings.TrimSpace(full[:idx])
		response = strings.TrimLeft(full[idx+len(ind):], " :,-–—")
		break
	}

	text = CleanText(text)
	response = CleanText(response)
	if len([]rune(text)) <= 10 {
		text = ""
	}
	if len([]rune(response)) <= 10 {
		response = ""
	}
	return text, response
}

// isMetaLine - строка целиком про автора, рейтинг или дату.
func (p *ReviewParser) isMetaLine(line string) bool {
	for _, re := range authorPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	for _, re := range ratingPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	for _, dp := range reviewDatePatterns {
		if dp.re.MatchString(line) {
			return true
		}
	}
	for _, re := range helpfulPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// AnalyzeSentiment - тональность по словарю, для метаданных экспорта.
func (p *ReviewParser) AnalyzeSentiment(text string) (sentiment string, confidence float64) {
	if strings.TrimSpace(text) == "" {
		return "neutral", 0.0
	}
	lower := strings.ToLower(text)

	positive := []string{
		"отлично", "прекрасно", "замечательно", "великолепно", "супер",
		"класс", "круто", "восхитительно", "превосходно", "шикарно",
		"рекомендую", "советую", "довольн", "понравил", "хорошо",
	}
	negative := []string{
		"плохо", "ужасно", "кошмар", "отвратительно", "мерзко",
		"не рекомендую", "разочарован", "расстроен", "недоволен",
		"жаль", "сожалею", "проблем", "ошибк", "неудач",
	}

	pos, neg := 0, 0
	for _, w := range positive {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negative {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return "positive", capFloat(float64(pos)/float64(pos+neg+1), 0.9)
	case neg > pos:
		return "negative", capFloat(float64(neg)/float64(pos+neg+1), 0.9)
	default:
		return "neutral", 0.5
	}
}

func capFloat(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

// Темы отзывов по ключевым словам, не больше трёх на отзыв.
var reviewTopics = []struct {
	topic    string
	keywords []string
}{
	{"service", []string{"сервис", "обслуживание", "персонал", "сотрудник", "администратор"}},
	{"quality", []string{"качество", "результат", "работа", "выполнение"}},
	{"price", []string{"цена", "стоимость", "дорого", "дешево", "деньги"}},
	{"atmosphere", []string{"атмосфера", "интерьер", "обстановка", "уют"}},
	{"cleanliness", []string{"чистота", "чисто", "грязно", "убрано"}},
	{"time", []string{"время", "быстро", "долго", "опоздание", "ожидание"}},
	{"location", []string{"место", "расположение", "парковка", "добраться"}},
}

// ExtractTopics возвращает затронутые в отзыве темы.
func (p *ReviewParser) ExtractTopics(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for _, rt := range reviewTopics {
		for _, kw := range rt.keywords {
			if strings.Contains(lower, kw) {
				found = append(found, rt.topic)
				break
			}
		}
		if len(found) == 3 {
			break
		}
	}
	return found
}
