package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// допустимые символы в полях цены: цифры, пробелы, знаки пунктуации и рубль
var priceCharsRe = regexp.MustCompile(`^[\d\s.,₽руб\-отдо]+$`)

// Service - услуга предприятия с ценой и длительностью.
// Цены хранятся строками: источник отдаёт их в свободном формате
// ("2800", "от 1500", "1000-2000"), числовое значение извлекается по запросу.
type Service struct {
	Name        string
	Price       string
	PriceFrom   string
	PriceTo     string
	Description string
	Duration    string
}

// Validate нормализует поля и проверяет жёсткие инварианты.
// Пустое название - ошибка, некорректные символы в цене - ошибка.
// Перепутанный диапазон цен жёстким нарушением не считается, см. Warnings.
func (s *Service) Validate() error {
	s.Name = cleanField(s.Name)
	if s.Name == "" {
		return ErrEmptyServiceName
	}
	if len([]rune(s.Name)) > 200 {
		s.Name = string([]rune(s.Name)[:200])
	}

	for _, p := range []*string{&s.Price, &s.PriceFrom, &s.PriceTo} {
		*p = strings.TrimSpace(*p)
		if *p == "" {
			continue
		}
		if !priceCharsRe.MatchString(strings.ToLower(*p)) {
			return fmt.Errorf("%w: %q", ErrInvalidPrice, *p)
		}
	}

	s.Description = cleanField(s.Description)
	s.Duration = strings.TrimSpace(s.Duration)
	return nil
}

// Границы здравого смысла для цен по умолчанию; рабочие значения
// приходят из файла правил через WarningsWithin.
const (
	DefaultPriceMin = 1.0
	DefaultPriceMax = 1000000.0
)

// Warnings возвращает мягкие несоответствия: данные сохраняются,
// но помечаются для логов и QA.
func (s *Service) Warnings() []string {
	return s.WarningsWithin(DefaultPriceMin, DefaultPriceMax)
}

// WarningsWithin проверяет цены против заданных жёстких границ.
func (s *Service) WarningsWithin(priceMin, priceMax float64) []string {
	var ws []string

	from, okFrom := firstNumber(s.PriceFrom)
	to, okTo := firstNumber(s.PriceTo)
	if okFrom && okTo {
		if from > to {
			ws = append(ws, fmt.Sprintf("price_from %q exceeds price_to %q", s.PriceFrom, s.PriceTo))
		} else if from > 0 && to/from > 10 {
			ws = append(ws, fmt.Sprintf("price range %q-%q is suspiciously wide", s.PriceFrom, s.PriceTo))
		}
	}

	for _, p := range []string{s.Price, s.PriceFrom, s.PriceTo} {
		v, ok := firstNumber(p)
		if !ok {
			continue
		}
		if v < priceMin {
			ws = append(ws, fmt.Sprintf("price %q is implausibly low", p))
		} else if v > priceMax {
			ws = append(ws, fmt.Sprintf("price %q is implausibly high", p))
		}
	}

	return ws
}

// PriceNumeric возвращает числовое значение цены (price, иначе price_from).
func (s *Service) PriceNumeric() (float64, bool) {
	if v, ok := firstNumber(s.Price); ok {
		return v, true
	}
	return firstNumber(s.PriceFrom)
}

func (s *Service) HasPriceRange() bool {
	return s.PriceFrom != "" && s.PriceTo != ""
}

// DisplayPrice форматирует цену для вывода.
func (s *Service) DisplayPrice() string {
	switch {
	case s.HasPriceRange():
		return fmt.Sprintf("от %s до %s", s.PriceFrom, s.PriceTo)
	case s.Price != "":
		return s.Price
	case s.PriceFrom != "":
		return "от " + s.PriceFrom
	case s.PriceTo != "":
		return "до " + s.PriceTo
	default:
		return "Цена не указана"
	}
}

// Category подбирает категорию услуги по ключевым словам названия.
func (s *Service) Category() string {
	name := strings.ToLower(s.Name)

	categories := []struct {
		key      string
		keywords []string
	}{
		{"beauty", []string{"стрижка", "окрашивание", "укладка", "прическа", "маникюр", "педикюр", "косметолог"}},
		{"massage", []string{"массаж", "spa", "релакс"}},
		{"medical", []string{"лечение", "диагностика", "консультация", "обследование", "анализ"}},
		{"fitness", []string{"тренировка", "фитнес", "йога", "пилатес"}},
		{"education", []string{"курс", "обучение", "семинар", "мастер-класс"}},
	}

	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(name, kw) {
				return c.key
			}
		}
	}
	return "other"
}

func (s *Service) toMap() map[string]any {
	return map[string]any{
		"name":        s.Name,
		"price":       nullable(s.Price),
		"price_from":  nullable(s.PriceFrom),
		"price_to":    nullable(s.PriceTo),
		"description": nullable(s.Description),
		"duration":    nullable(s.Duration),
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
