package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Канонические ключи дней недели, в порядке отображения.
var dayOrder = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var dayNamesRu = map[string]string{
	"monday":    "понедельник",
	"tuesday":   "вторник",
	"wednesday": "среда",
	"thursday":  "четверг",
	"friday":    "пятница",
	"saturday":  "суббота",
	"sunday":    "воскресенье",
}

// Алиасы дней недели: русские полные, сокращённые и английские ключи.
// Порядок фиксирован: частичное совпадение перебирает срез, а не карту,
// иначе неоднозначный вход ("п") разрешался бы недетерминированно.
var weekdayAliasOrder = []struct{ alias, key string }{
	{"пн", "monday"}, {"понедельник", "monday"}, {"пон", "monday"},
	{"вт", "tuesday"}, {"вторник", "tuesday"}, {"втор", "tuesday"},
	{"ср", "wednesday"}, {"среда", "wednesday"}, {"сред", "wednesday"},
	{"чт", "thursday"}, {"четверг", "thursday"}, {"четв", "thursday"},
	{"пт", "friday"}, {"пятница", "friday"}, {"пят", "friday"},
	{"сб", "saturday"}, {"суббота", "saturday"}, {"суб", "saturday"},
	{"вс", "sunday"}, {"воскресенье", "sunday"}, {"воск", "sunday"},
}

var weekdayAliases = func() map[string]string {
	m := make(map[string]string, len(weekdayAliasOrder))
	for _, wa := range weekdayAliasOrder {
		m[wa.alias] = wa.key
	}
	return m
}()

var (
	hoursFullRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[-–—]\s*(\d{1,2}):(\d{2})`)
	hoursShortRe = regexp.MustCompile(`(\d{1,2})\s*[-–—]\s*(\d{1,2})`)
	hoursWordsRe = regexp.MustCompile(`(?:с|от)\s*(\d{1,2}):?(\d{0,2})\s*до\s*(\d{1,2}):?(\d{0,2})`)
	canonTimeRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})-(\d{1,2}):(\d{2})`)
)

// Служебные значения расписания.
const (
	DayClosed     = "Выходной"
	DayRoundClock = "Круглосуточно"
)

// WorkingHours - график работы. Schedule хранит канонические английские
// ключи дней, значения - либо "HH:MM-HH:MM", либо служебные константы,
// либо нераспознанный исходный текст.
type WorkingHours struct {
	CurrentStatus string
	Schedule      map[string]string
	Notes         string
}

// Validate нормализует статус, ключи и значения расписания.
// Ошибок не возвращает: нераспознанные дни отбрасываются,
// нераспознанное время сохраняется как есть.
func (w *WorkingHours) Validate() error {
	w.CurrentStatus = cleanField(w.CurrentStatus)
	w.Notes = cleanField(w.Notes)

	if len(w.Schedule) == 0 {
		w.Schedule = nil
		return nil
	}

	normalized := make(map[string]string, len(w.Schedule))
	for day, hours := range w.Schedule {
		key := NormalizeDay(day)
		if key == "" {
			continue
		}
		if h := NormalizeHours(hours); h != "" {
			normalized[key] = h
		}
	}
	if len(normalized) == 0 {
		w.Schedule = nil
		return nil
	}
	w.Schedule = normalized
	return nil
}

// NormalizeDay приводит название дня к каноническому английскому ключу.
// Пустая строка - день не распознан.
func NormalizeDay(day string) string {
	day = strings.ToLower(strings.TrimSpace(day))
	if day == "" {
		return ""
	}
	if _, ok := dayNamesRu[day]; ok {
		return day
	}
	if key, ok := weekdayAliases[day]; ok {
		return key
	}
	// частичное совпадение: "понед" -> monday
	for _, wa := range weekdayAliasOrder {
		if strings.HasPrefix(day, wa.alias) || strings.HasPrefix(wa.alias, day) {
			return wa.key
		}
	}
	return ""
}

// NormalizeHours канонизирует строку часов работы в "HH:MM-HH:MM".
// Выходные и круглосуточные значения схлопываются в константы,
// ключевые слова имеют приоритет над диапазонами времени.
// Повторный вызов над уже нормализованным значением его не меняет.
func NormalizeHours(hours string) string {
	hours = strings.TrimSpace(hours)
	if hours == "" {
		return ""
	}

	lower := strings.ToLower(hours)
	for _, p := range []string{"выходной", "закрыт", "не работает", "closed"} {
		if strings.Contains(lower, p) {
			return DayClosed
		}
	}
	for _, p := range []string{"24", "круглосуточно", "всегда"} {
		if strings.Contains(lower, p) {
			return DayRoundClock
		}
	}

	if m := hoursFullRe.FindStringSubmatch(hours); m != nil {
		if s := canonRange(m[1], m[2], m[3], m[4]); s != "" {
			return s
		}
	}
	if m := hoursWordsRe.FindStringSubmatch(hours); m != nil {
		if s := canonRange(m[1], m[2], m[3], m[4]); s != "" {
			return s
		}
	}
	if m := hoursShortRe.FindStringSubmatch(hours); m != nil {
		if s := canonRange(m[1], "", m[2], ""); s != "" {
			return s
		}
	}

	// не распарсили - отдаём как есть
	return hours
}

func canonRange(sh, sm, eh, em string) string {
	if sm == "" {
		sm = "00"
	}
	if em == "" {
		em = "00"
	}
	startH, startM := atoi(sh), atoi(sm)
	endH, endM := atoi(eh), atoi(em)
	if startH < 0 || startH > 23 || startM < 0 || startM > 59 ||
		endH < 0 || endH > 23 || endM < 0 || endM > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d-%02d:%02d", startH, startM, endH, endM)
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// IsOpenNow определяет открыто ли предприятие в момент now.
// Второе значение false когда расписание на этот день отсутствует
// или не распознано. Интервалы через полночь поддерживаются.
func (w *WorkingHours) IsOpenNow(now time.Time) (bool, bool) {
	if len(w.Schedule) == 0 {
		return false, false
	}

	key := strings.ToLower(now.Weekday().String())
	today, ok := w.Schedule[key]
	if !ok {
		return false, false
	}

	switch today {
	case DayClosed:
		return false, true
	case DayRoundClock:
		return true, true
	}

	m := canonTimeRe.FindStringSubmatch(today)
	if m == nil {
		return false, false
	}
	start := atoi(m[1])*60 + atoi(m[2])
	end := atoi(m[3])*60 + atoi(m[4])
	cur := now.Hour()*60 + now.Minute()

	if start <= end {
		return start <= cur && cur <= end, true
	}
	// работа через полночь
	return cur >= start || cur <= end, true
}

// TodayHours возвращает часы работы на сегодня.
func (w *WorkingHours) TodayHours(now time.Time) (string, bool) {
	if len(w.Schedule) == 0 {
		return "", false
	}
	h, ok := w.Schedule[strings.ToLower(now.Weekday().String())]
	return h, ok
}

// WorkingDaysCount - число рабочих дней в неделе.
func (w *WorkingHours) WorkingDaysCount() int {
	n := 0
	for _, h := range w.Schedule {
		if h != DayClosed {
			n++
		}
	}
	return n
}

func (w *WorkingHours) HasSchedule() bool {
	return len(w.Schedule) > 0 || w.CurrentStatus != ""
}

// FormatSchedule - строки расписания в порядке дней недели, по-русски.
func (w *WorkingHours) FormatSchedule() []string {
	if len(w.Schedule) == 0 {
		return nil
	}
	var lines []string
	for _, day := range dayOrder {
		if h, ok := w.Schedule[day]; ok {
			name := []rune(dayNamesRu[day])
			name[0] = []rune(strings.ToUpper(string(name[0])))[0]
			lines = append(lines, fmt.Sprintf("%s: %s", string(name), h))
		}
	}
	return lines
}

func (w *WorkingHours) toMap() map[string]any {
	m := map[string]any{
		"current_status": nullable(w.CurrentStatus),
		"notes":          nullable(w.Notes),
	}
	if len(w.Schedule) > 0 {
		sched := make(map[string]any, len(w.Schedule))
		for d, h := range w.Schedule {
			sched[d] = h
		}
		m["schedule"] = sched
	} else {
		m["schedule"] = nil
	}
	return m
}
