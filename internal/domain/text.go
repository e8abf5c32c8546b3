package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Общие регулярки нормализации, используются всеми моделями.
var (
	htmlTagRe   = regexp.MustCompile(`<[^>]+>`)
	spacesRe    = regexp.MustCompile(`\s+`)
	edgePunctRe = regexp.MustCompile(`^[^\p{L}\p{N}\s]+|[^\p{L}\p{N}\s]+$`)
	digitsRe    = regexp.MustCompile(`[^\d]`)
	numberRe    = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// cleanField убирает HTML теги и схлопывает пробелы.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = htmlTagRe.ReplaceAllString(s, "")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func digitsOnly(s string) string {
	return digitsRe.ReplaceAllString(s, "")
}

// firstNumber извлекает первое число из строки, запятая как десятичный
// разделитель допустима. Второе значение false если числа нет.
func firstNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
