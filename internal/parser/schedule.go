package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avkuzmin/bizextract/internal/domain"
)

// Паттерны текущего статуса, в порядке убывания специфичности.
var statusPatterns = []struct {
	re     *regexp.Regexp
	render func(m []string) string
}{
	{
		re:     regexp.MustCompile(`открыт[оа]?\s*до\s*(\d{1,2}):?(\d{0,2})`),
		render: func(m []string) string { return "Открыто до " + clockString(m[1], m[2]) },
	},
	{
		re:     regexp.MustCompile(`открыт[оа]?\s*с\s*(\d{1,2}):?(\d{0,2})`),
		render: func(m []string) string { return "Открыто с " + clockString(m[1], m[2]) },
	},
	{
		re:     regexp.MustCompile(`закрыт[оа]?\s*до\s*(\d{1,2}):?(\d{0,2})`),
		render: func(m []string) string { return "Закрыто до " + clockString(m[1], m[2]) },
	},
	{
		re:     regexp.MustCompile(`работает\s*до\s*(\d{1,2}):?(\d{0,2})`),
		render: func(m []string) string { return "Работает до " + clockString(m[1], m[2]) },
	},
	{
		re:     regexp.MustCompile(`круглосуточно|24/7`),
		render: func(m []string) string { return "Круглосуточно" },
	},
	{
		re:     regexp.MustCompile(`открыт[оа]?`),
		render: func(m []string) string { return "Открыто" },
	},
	{
		re:     regexp.MustCompile(`закрыт[оа]?`),
		render: func(m []string) string { return "Закрыто" },
	},
}

var (
	scheduleClosedRe = regexp.MustCompile(`(?i)выходной|закрыт|не\s*работа`)
	schedule24Re     = regexp.MustCompile(`(?i)круглосуточно|24/7|24\s*часа`)

	schedTimeFullRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[-–—]\s*(\d{1,2}):(\d{2})`)
	schedTimeShortRe = regexp.MustCompile(`(\d{1,2})\s*[-–—]\s*(\d{1,2})`)
	schedTimeWordsRe = regexp.MustCompile(`с\s*(\d{1,2}):?(\d{0,2})\s*до\s*(\d{1,2}):?(\d{0,2})`)

	workdaysRangeRe = regexp.MustCompile(`(?:пн|понедельник)\s*[-–—]\s*(?:пт|пятница)\s*:?\s*([^,\n]+)`)
	weekendRangeRe  = regexp.MustCompile(`(?:сб|суббота)\s*[-–—]\s*(?:вс|воскресенье)\s*:?\s*([^,\n]+)`)
	workdaysWordRe  = regexp.MustCompile(`(?:будни|рабочие\s*дни)\s*:?\s*([^,\n]+)`)
	weekendWordRe   = regexp.MustCompile(`выходные\s*:?\s*([^,\n]+)`)

	compactDayRe = regexp.MustCompile(`([а-яa-z\-–—]+)\s*:?\s+([^,;\n]+)`)
	dayRangeRe   = regexp.MustCompile(`[-–—]`)

	noteSentenceRe = regexp.MustCompile(`[.!?]`)
)

var noteIndicators = []string{
	"примечание", "внимание", "обратите внимание", "важно", "уточнение",
	"дополнительно", "в праздничные дни", "в праздники",
	"летний режим", "зимний режим", "может изменяться", "уточняйте",
}

var workdayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
var weekendKeys = []string{"saturday", "sunday"}

// Алиасы дней для построчного формата, длинные раньше коротких:
// "вторник" должен выигрывать у "вт" в той же строке.
var weekdayLineAliases = []struct {
	alias string
	key   string
}{
	{"понедельник", "monday"},
	{"вторник", "tuesday"},
	{"среда", "wednesday"},
	{"четверг", "thursday"},
	{"пятница", "friday"},
	{"суббота", "saturday"},
	{"воскресенье", "sunday"},
	{"monday", "monday"},
	{"tuesday", "tuesday"},
	{"wednesday", "wednesday"},
	{"thursday", "thursday"},
	{"friday", "friday"},
	{"saturday", "saturday"},
	{"sunday", "sunday"},
	{"пн", "monday"},
	{"вт", "tuesday"},
	{"ср", "wednesday"},
	{"чт", "thursday"},
	{"пт", "friday"},
	{"сб", "saturday"},
	{"вс", "sunday"},
	{"mon", "monday"},
	{"tue", "tuesday"},
	{"wed", "wednesday"},
	{"thu", "thursday"},
	{"fri", "friday"},
	{"sat", "saturday"},
	{"sun", "sunday"},
}

func clockString(h, m string) string {
	if m == "" {
		m = "00"
	}
	if len(m) == 1 {
		m = "0" + m
	}
	return h + ":" + m
}

// ScheduleParser извлекает график работы из свободного текста.
type ScheduleParser struct{}

func NewScheduleParser() *ScheduleParser { return &ScheduleParser{} }

// Parse разбирает блок расписания. Статус даёт 0.3 уверенности,
// недельное расписание 0.5, заметки 0.2; результат успешен когда
// набралось больше 0.3.
func (p *ScheduleParser) Parse(raw string) ScheduleResult {
	var res ScheduleResult
	if strings.TrimSpace(raw) == "" {
		return res
	}

	clean := CleanTextKeepLines(raw)

	if status := p.parseCurrentStatus(clean); status != "" {
		res.Hours.CurrentStatus = status
		res.Confidence += 0.3
	}

	if sched := p.parseWeeklySchedule(clean); len(sched) > 0 {
		res.Hours.Schedule = sched
		res.Confidence += 0.5
	}

	if notes := p.extractNotes(clean); notes != "" {
		res.Hours.Notes = notes
		res.Confidence += 0.2
	}

	if res.Confidence > 1.0 {
		res.Confidence = 1.0
	}
	res.Success = res.Confidence > 0.3
	return res
}

func (p *ScheduleParser) parseCurrentStatus(text string) string {
	lower := strings.ToLower(text)
	for _, sp := range statusPatterns {
		if m := sp.re.FindStringSubmatch(lower); m != nil {
			return sp.render(m)
		}
	}
	return ""
}

// parseWeeklySchedule собирает расписание из трёх форматов: построчного,
// диапазонов дней и компактной записи. Поздние форматы уточняют ранние.
func (p *ScheduleParser) parseWeeklySchedule(text string) map[string]string {
	schedule := make(map[string]string)

	for _, line := range strings.Split(text, "\n") {
		for day, hours := range p.parseDailyLine(line) {
			schedule[day] = hours
		}
	}
	for day, hours := range p.parseDayRanges(text) {
		schedule[day] = hours
	}
	for day, hours := range p.parseCompact(text) {
		schedule[day] = hours
	}

	if len(schedule) == 0 {
		return nil
	}
	return schedule
}

// parseDailyLine: "Понедельник: 09:00-18:00" и подобные построчные записи.
func (p *ScheduleParser) parseDailyLine(line string) map[string]string {
	lower := strings.ToLower(strings.TrimSpace(line))
	if lower == "" {
		return nil
	}

	day := ""
	for _, wa := range weekdayLineAliases {
		if strings.Contains(lower, wa.alias) {
			day = wa.key
			break
		}
	}
	if day == "" {
		return nil
	}

	hours := p.extractHours(line)
	if hours == "" {
		return nil
	}
	return map[string]string{day: hours}
}

// parseDayRanges: "Пн-Пт: 09:00-18:00", "будни 10-19", "выходные закрыто".
func (p *ScheduleParser) parseDayRanges(text string) map[string]string {
	schedule := make(map[string]string)
	lower := strings.ToLower(text)

	for _, rng := range []struct {
		re   *regexp.Regexp
		days []string
	}{
		{workdaysRangeRe, workdayKeys},
		{workdaysWordRe, workdayKeys},
		{weekendRangeRe, weekendKeys},
		{weekendWordRe, weekendKeys},
	} {
		for _, m := range rng.re.FindAllStringSubmatch(lower, -1) {
			hours := p.extractHours(m[1])
			if hours == "" {
				continue
			}
			for _, day := range rng.days {
				schedule[day] = hours
			}
		}
	}
	return schedule
}

// parseCompact: "Пн-Ср 9:00-18:00, Сб 10:00-16:00, Вс выходной".
func (p *ScheduleParser) parseCompact(text string) map[string]string {
	schedule := make(map[string]string)

	for _, m := range compactDayRe.FindAllStringSubmatch(strings.ToLower(text), -1) {
		days := p.parseDaySpec(m[1])
		if len(days) == 0 {
			continue
		}
		hours := p.extractHours(m[2])
		if hours == "" {
			continue
		}
		for _, day := range days {
			schedule[day] = hours
		}
	}
	return schedule
}

// Точное соответствие дня для компактного формата: частичные совпадения
// здесь опасны, "с" из "с 9 до 21" не должно превращаться в субботу.
var exactDayKeys = map[string]string{
	"понедельник": "monday", "вторник": "tuesday", "среда": "wednesday",
	"четверг": "thursday", "пятница": "friday", "суббота": "saturday",
	"воскресенье": "sunday",
	"пн": "monday", "вт": "tuesday", "ср": "wednesday", "чт": "thursday",
	"пт": "friday", "сб": "saturday", "вс": "sunday",
	"monday": "monday", "tuesday": "tuesday", "wednesday": "wednesday",
	"thursday": "thursday", "friday": "friday", "saturday": "saturday",
	"sunday": "sunday",
	"mon": "monday", "tue": "tuesday", "wed": "wednesday", "thu": "thursday",
	"fri": "friday", "sat": "saturday", "sun": "sunday",
}

// parseDaySpec разворачивает "пн-пт" в список дней; диапазон через
// воскресенье ("сб-пн") тоже поддерживается.
func (p *ScheduleParser) parseDaySpec(spec string) []string {
	spec = strings.TrimSpace(spec)
	if dayRangeRe.MatchString(spec) {
		parts := dayRangeRe.Split(spec, -1)
		if len(parts) != 2 {
			return nil
		}
		start := exactDayKeys[strings.TrimSpace(parts[0])]
		end := exactDayKeys[strings.TrimSpace(parts[1])]
		if start == "" || end == "" {
			return nil
		}
		return dayRange(start, end)
	}
	if day := exactDayKeys[spec]; day != "" {
		return []string{day}
	}
	return nil
}

var scheduleDayOrder = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func dayRange(start, end string) []string {
	si, ei := -1, -1
	for i, d := range scheduleDayOrder {
		if d == start {
			si = i
		}
		if d == end {
			ei = i
		}
	}
	if si < 0 || ei < 0 {
		return nil
	}
	if si <= ei {
		return scheduleDayOrder[si : ei+1]
	}
	return append(append([]string{}, scheduleDayOrder[si:]...), scheduleDayOrder[:ei+1]...)
}

// extractHours канонизирует время работы в "HH:MM-HH:MM".
// Пустая строка - время не распознано.
func (p *ScheduleParser) extractHours(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if scheduleClosedRe.MatchString(text) {
		return domain.DayClosed
	}
	if schedule24Re.MatchString(text) {
		return domain.DayRoundClock
	}

	if m := schedTimeFullRe.FindStringSubmatch(text); m != nil {
		if s := renderHours(m[1], m[2], m[3], m[4]); s != "" {
			return s
		}
	}
	if m := schedTimeWordsRe.FindStringSubmatch(text); m != nil {
		if s := renderHours(m[1], m[2], m[3], m[4]); s != "" {
			return s
		}
	}
	if m := schedTimeShortRe.FindStringSubmatch(text); m != nil {
		if s := renderHours(m[1], "", m[2], ""); s != "" {
			return s
		}
	}
	return ""
}

func renderHours(sh, sm, eh, em string) string {
	if sm == "" {
		sm = "00"
	}
	if em == "" {
		em = "00"
	}
	nums := make([]int, 0, 4)
	for _, s := range []string{sh, sm, eh, em} {
		v, ok := parseNumber(s)
		if !ok {
			return ""
		}
		nums = append(nums, int(v))
	}
	if nums[0] > 23 || nums[1] > 59 || nums[2] > 23 || nums[3] > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d-%02d:%02d", nums[0], nums[1], nums[2], nums[3])
}

// ScheduleConsistency - итог проверки согласованности недельного
// расписания.
type ScheduleConsistency struct {
	Valid       bool
	Warnings    []string
	WorkingDays int
	TotalHours  float64
}

// ValidateConsistency считает рабочие дни и суммарные часы недели.
// Ноль рабочих дней или больше 168 часов - предупреждение.
func (p *ScheduleParser) ValidateConsistency(schedule map[string]string) ScheduleConsistency {
	res := ScheduleConsistency{Valid: true}
	if len(schedule) == 0 {
		return res
	}

	for _, hours := range schedule {
		if strings.EqualFold(hours, domain.DayClosed) || strings.EqualFold(hours, "закрыт") {
			continue
		}
		res.WorkingDays++
		if strings.EqualFold(hours, domain.DayRoundClock) {
			res.TotalHours += 24
			continue
		}
		if h, ok := dailyHours(hours); ok {
			res.TotalHours += h
		}
	}

	if res.WorkingDays == 0 {
		res.Warnings = append(res.Warnings, "Нет рабочих дней")
	}
	if res.TotalHours > 168 {
		res.Warnings = append(res.Warnings, "Слишком много рабочих часов в неделю")
	}
	res.Valid = len(res.Warnings) == 0
	return res
}

// dailyHours считает длительность интервала; работа через полночь
// учитывается.
func dailyHours(hours string) (float64, bool) {
	m := schedTimeFullRe.FindStringSubmatch(hours)
	if m == nil {
		return 0, false
	}
	nums := make([]int, 0, 4)
	for _, s := range m[1:] {
		v, ok := parseNumber(s)
		if !ok {
			return 0, false
		}
		nums = append(nums, int(v))
	}
	start := nums[0]*60 + nums[1]
	end := nums[2]*60 + nums[3]
	if end > start {
		return float64(end-start) / 60.0, true
	}
	return float64(24*60-start+end) / 60.0, true
}

// extractNotes собирает предложения с ключевыми фразами об особых
// условиях работы, не больше трёх.
func (p *ScheduleParser) extractNotes(text string) string {
	var notes []string
	for _, sentence := range noteSentenceRe.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if len([]rune(sentence)) <= 10 {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, ind := range noteIndicators {
			if strings.Contains(lower, ind) {
				notes = append(notes, sentence)
				break
			}
		}
		if len(notes) == 3 {
			break
		}
	}
	return strings.Join(notes, ". ")
}
