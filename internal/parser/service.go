package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avkuzmin/bizextract/internal/domain"
)

// Разделители списка услуг, в порядке приоритета: маркеры списков,
// нумерация, двойные переносы, потом уже точка с запятой и черта.
var serviceSeparators = []*regexp.Regexp{
	regexp.MustCompile(`\n\s*[-•*]\s*`),
	regexp.MustCompile(`\n\s*\d+\.\s*`),
	regexp.MustCompile(`\n\s*\d+\)\s*`),
	regexp.MustCompile(`\n{2,}`),
	regexp.MustCompile(`;\s*`),
	regexp.MustCompile(`\|\s*`),
}

var (
	priceRangeRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*[-–—]\s*(\d+(?:[.,]\d+)?)`)
	priceFromRe  = regexp.MustCompile(`от\s*(\d+(?:[.,]\d+)?)`)
	priceToRe    = regexp.MustCompile(`до\s*(\d+(?:[.,]\d+)?)`)
	priceBareRe  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)`)
)

// Паттерны длительности, первый сработавший выигрывает.
var durationPatterns = []struct {
	re     *regexp.Regexp
	format func(m []string) string
}{
	{
		re:     regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*[-–—]\s*(\d+(?:[.,]\d+)?)\s*(?:мин|минут)`),
		format: func(m []string) string { return m[1] + "-" + m[2] + " мин" },
	},
	{
		re:     regexp.MustCompile(`(?i)(\d+)\s*(?:мин|минут|min|minutes?)`),
		format: func(m []string) string { return m[1] + " мин" },
	},
	{
		re:     regexp.MustCompile(`(?i)(\d+)\s*(?:ч|час|часов|hour|hours?)`),
		format: func(m []string) string { return m[1] + " ч" },
	},
	{
		re:     regexp.MustCompile(`(\d+):(\d+)`),
		format: func(m []string) string { return m[1] + ":" + m[2] },
	},
}

// Паттерны цен для вычистки из названия услуги. Альтернативы от
// длинных к коротким: RE2 берёт первую подошедшую, не самую длинную.
var priceStripRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*[-–—]\s*\d+(?:[.,]\d+)?\s*(?:₽|руб[а-яё]*|р\.?)`),
	regexp.MustCompile(`(?i)(?:от\s*)?\d+(?:[.,]\d+)?\s*(?:₽|руб[а-яё]*|р\.?)`),
	regexp.MustCompile(`(?i)(?:до\s*)?\d+(?:[.,]\d+)?\s*(?:₽|руб[а-яё]*|р\.?)`),
}

var durationStripRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\s*(?:минут[ыа]?|мин|minutes?|min)`),
	regexp.MustCompile(`(?i)\d+\s*(?:часов|часа|час|ч|hours?|hour)`),
	regexp.MustCompile(`\d+:\d+`),
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]`)

// Разумные границы цены на услугу: всё вне них режет уверенность.
const (
	priceSaneMin = 50
	priceSaneMax = 500000
)

// ServiceParser извлекает услуги с ценами и длительностью
// из свободного текста.
type ServiceParser struct{}

func NewServiceParser() *ServiceParser { return &ServiceParser{} }

// Parse разбирает текстовый блок услуг. Уверенность результата -
// средняя по всем распознанным фрагментам.
func (p *ServiceParser) Parse(raw string) ServicesResult {
	var res ServicesResult
	if strings.TrimSpace(raw) == "" {
		return res
	}

	items := p.splitServices(CleanTextKeepLines(raw))
	total := 0.0
	for _, item := range items {
		svc, conf, ok := p.parseSingle(item)
		if !ok {
			continue
		}
		res.Services = append(res.Services, svc)
		total += conf
	}

	if len(items) > 0 {
		res.Confidence = total / float64(len(items))
	}
	res.Success = len(res.Services) > 0
	return res
}

// splitServices пробует разделители по приоритету, первый давший
// больше одного содержательного куска выигрывает.
func (p *ServiceParser) splitServices(text string) []string {
	for _, sep := range serviceSeparators {
		if len(sep.Split(text, -1)) < 2 {
			continue
		}
		items := SplitParts(text, sep, 5)
		if len(items) > 1 {
			return items
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

func (p *ServiceParser) parseSingle(text string) (domain.Service, float64, bool) {
	if len([]rune(strings.TrimSpace(text))) < 3 {
		return domain.Service{}, 0, false
	}

	var svc domain.Service
	confidence := 0.5

	price := p.ParsePrice(text)
	if price.Success {
		svc.Price = price.Price
		svc.PriceFrom = price.PriceFrom
		svc.PriceTo = price.PriceTo
		confidence += 0.3
	}

	if d := p.parseDuration(text); d != "" {
		svc.Duration = d
		confidence += 0.1
	}

	name, desc := p.extractName(text)
	if name != "" {
		svc.Name = name
		svc.Description = desc
		confidence += 0.2
	}

	// услуга без названия бесполезна
	if svc.Name == "" {
		return domain.Service{}, 0, false
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return svc, confidence, true
}

// ParsePrice разбирает цену: диапазон, "от", "до", голое число -
// в этом порядке, с убывающей уверенностью.
func (p *ServiceParser) ParsePrice(raw string) PriceResult {
	var res PriceResult
	if strings.TrimSpace(raw) == "" {
		return res
	}

	text := NormalizeCurrency(CleanText(raw))

	if m := priceRangeRe.FindStringSubmatch(text); m != nil {
		from, okFrom := parseNumber(m[1])
		to, okTo := parseNumber(m[2])
		if okFrom && okTo && from < to {
			res.PriceFrom = fmt.Sprintf("%d", int(from))
			res.PriceTo = fmt.Sprintf("%d", int(to))
			res.Price = res.PriceFrom + "-" + res.PriceTo
			res.Confidence = 0.9
		}
	}

	if res.Price == "" {
		if m := priceFromRe.FindStringSubmatch(text); m != nil {
			if v, ok := parseNumber(m[1]); ok {
				res.PriceFrom = fmt.Sprintf("%d", int(v))
				res.Price = "от " + res.PriceFrom
				res.Confidence = 0.8
			}
		} else if m := priceToRe.FindStringSubmatch(text); m != nil {
			if v, ok := parseNumber(m[1]); ok {
				res.PriceTo = fmt.Sprintf("%d", int(v))
				res.Price = "до " + res.PriceTo
				res.Confidence = 0.8
			}
		} else if m := priceBareRe.FindStringSubmatch(text); m != nil {
			if v, ok := parseNumber(m[1]); ok {
				res.Price = fmt.Sprintf("%d", int(v))
				res.Confidence = 0.7
			}
		}
	}

	if res.Confidence > 0 {
		res.Confidence *= p.priceSanity(res)
	}
	res.Success = res.Confidence > 0
	return res
}

// priceSanity возвращает долю цен, попавших в разумный диапазон.
func (p *ServiceParser) priceSanity(res PriceResult) float64 {
	sane, total := 0, 0
	for _, s := range []string{res.Price, res.PriceFrom, res.PriceTo} {
		if s == "" {
			continue
		}
		m := priceBareRe.FindString(s)
		if m == "" {
			continue
		}
		total++
		if v, ok := parseNumber(m); ok && v >= priceSaneMin && v <= priceSaneMax {
			sane++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(sane) / float64(total)
}

func (p *ServiceParser) parseDuration(text string) string {
	for _, dp := range durationPatterns {
		if m := dp.re.FindStringSubmatch(text); m != nil {
			return dp.format(m)
		}
	}
	return ""
}

// extractName вычищает цены и длительности, берёт первое предложение
// как название и остаток как описание.
func (p *ServiceParser) extractName(text string) (name, description string) {
	for _, re := range priceStripRes {
		text = re.ReplaceAllString(text, "")
	}
	for _, re := range durationStripRes {
		text = re.ReplaceAllString(text, "")
	}

	cleaned := CleanText(text)
	sentences := sentenceSplitRe.Split(cleaned, -1)
	if len(sentences) == 0 {
		return "", ""
	}

	name = strings.Trim(sentences[0], " \t,;:-–—")
	if n := len([]rune(name)); n < 3 || n > 200 {
		return "", ""
	}

	if len(sentences) > 1 {
		rest := strings.TrimSpace(strings.Join(sentences[1:], " "))
		if len([]rune(rest)) > 10 {
			description = rest
		}
	}
	return name, description
}
