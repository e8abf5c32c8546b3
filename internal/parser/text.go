package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	htmlTagRe  = regexp.MustCompile(`<[^>]+>`)
	spacesRe   = regexp.MustCompile(`\s+`)
	numbersRe  = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	cyrillicRe = regexp.MustCompile(`(?i)[а-яё]`)
	latinRe    = regexp.MustCompile(`(?i)[a-z]`)
)

// CleanText убирает HTML теги и нормализует пробелы.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = htmlTagRe.ReplaceAllString(s, "")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

var lineSpacesRe = regexp.MustCompile(`[ \t]+`)

// CleanTextKeepLines чистит текст, сохраняя переносы строк:
// построчные форматы (расписания, списки услуг) без них не разобрать.
func CleanTextKeepLines(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = htmlTagRe.ReplaceAllString(s, "")
	s = lineSpacesRe.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// DetectLanguage грубо определяет язык по доле кириллицы:
// "ru", "en", "mixed" или "unknown" для текста без букв.
func DetectLanguage(s string) string {
	if s == "" {
		return "unknown"
	}
	cyr := len(cyrillicRe.FindAllString(s, -1))
	lat := len(latinRe.FindAllString(s, -1))
	total := cyr + lat
	if total == 0 {
		return "unknown"
	}
	ratio := float64(cyr) / float64(total)
	switch {
	case ratio > 0.7:
		return "ru"
	case ratio < 0.3:
		return "en"
	default:
		return "mixed"
	}
}

// ExtractNumbers возвращает все числа из текста, запятая
// как десятичный разделитель допустима.
func ExtractNumbers(s string) []float64 {
	if s == "" {
		return nil
	}
	var out []float64
	for _, m := range numbersRe.FindAllString(s, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Замены валютных обозначений, порядок важен: длинные формы раньше
// коротких, иначе "руб." порежется по "р.".
var currencyReplacer = strings.NewReplacer(
	"рублей", "руб",
	"рубля", "руб",
	"руб.", "руб",
	"₽", " руб",
	"₨", " руб",
	"р.", " руб",
	"p.", " руб",
	"$", " долл",
	"€", " евро",
	"£", " фунт",
)

// NormalizeCurrency приводит валютные символы к словесной форме.
func NormalizeCurrency(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(spacesRe.ReplaceAllString(currencyReplacer.Replace(s), " "))
}

// SplitParts режет составной текст по любому из разделителей и чистит
// куски. Куски короче minLen отбрасываются.
func SplitParts(s string, seps *regexp.Regexp, minLen int) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range seps.Split(s, -1) {
		cleaned := CleanText(part)
		if len([]rune(cleaned)) > minLen {
			out = append(out, cleaned)
		}
	}
	return out
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Месяцы для распознавания дат в отзывах.
var monthNames = map[string]string{
	"января": "01", "февраля": "02", "марта": "03", "апреля": "04",
	"мая": "05", "июня": "06", "июля": "07", "августа": "08",
	"сентября": "09", "октября": "10", "ноября": "11", "декабря": "12",
	"янв": "01", "фев": "02", "мар": "03", "апр": "04",
	"май": "05", "июн": "06", "июл": "07", "авг": "08",
	"сен": "09", "окт": "10", "ноя": "11", "дек": "12",
	"january": "01", "february": "02", "march": "03", "april": "04",
	"june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
	"jan": "01", "feb": "02", "mar": "03", "apr": "04", "may": "05",
	"jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

// MonthNumber - номер месяца по русскому или английскому названию.
func MonthNumber(name string) (string, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}
