package parser

import (
	"math"
	"testing"
)

func TestServiceParserSingleService(t *testing.T) {
	p := NewServiceParser()

	res := p.Parse("Маникюр с покрытием 2800 ₽, 60 минут")
	if !res.Success {
		t.Fatalf("Parse: success=false, errors=%v", res.Errors)
	}
	if len(res.Services) != 1 {
		t.Fatalf("Parse: услуг %d, ожидалась 1", len(res.Services))
	}

	svc := res.Services[0]
	if svc.Name != "Маникюр с покрытием" {
		t.Errorf("Name = %q", svc.Name)
	}
	if svc.Price != "2800" {
		t.Errorf("Price = %q", svc.Price)
	}
	if svc.Duration != "60 мин" {
		t.Errorf("Duration = %q", svc.Duration)
	}
	if res.Confidence < 0.9 {
		t.Errorf("Confidence = %v, ожидалась не меньше 0.9", res.Confidence)
	}
}

func TestServiceParserSplitsList(t *testing.T) {
	text := "- Стрижка женская от 1500 руб\n- Окрашивание 3000-5000 руб\n- Укладка 1200 руб, 45 мин"

	res := NewServiceParser().Parse(text)
	if len(res.Services) != 3 {
		t.Fatalf("услуг %d, ожидалось 3: %+v", len(res.Services), res.Services)
	}

	if res.Services[0].Name != "Стрижка женская" {
		t.Errorf("Services[0].Name = %q", res.Services[0].Name)
	}
	if res.Services[0].PriceFrom != "1500" {
		t.Errorf("Services[0].PriceFrom = %q", res.Services[0].PriceFrom)
	}
	if res.Services[1].PriceFrom != "3000" || res.Services[1].PriceTo != "5000" {
		t.Errorf("Services[1] диапазон = %q..%q", res.Services[1].PriceFrom, res.Services[1].PriceTo)
	}
	if res.Services[2].Duration != "45 мин" {
		t.Errorf("Services[2].Duration = %q", res.Services[2].Duration)
	}
}

func TestServiceParserEmptyInput(t *testing.T) {
	res := NewServiceParser().Parse("   ")
	if res.Success {
		t.Error("пустой вход не должен давать успех")
	}
	if len(res.Services) != 0 {
		t.Errorf("услуг %d на пустом входе", len(res.Services))
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		price    string
		from     string
		to       string
		conf     float64
		success  bool
	}{
		{name: "диапазон", in: "2000-3000 руб", price: "2000-3000", from: "2000", to: "3000", conf: 0.9, success: true},
		{name: "диапазон с рублём", in: "1500 – 2500 ₽", price: "1500-2500", from: "1500", to: "2500", conf: 0.9, success: true},
		{name: "от", in: "от 1500 руб", price: "от 1500", from: "1500", conf: 0.8, success: true},
		{name: "до", in: "до 5000 руб", price: "до 5000", to: "5000", conf: 0.8, success: true},
		{name: "голое число", in: "2800 ₽", price: "2800", conf: 0.7, success: true},
		{name: "перевёрнутый диапазон падает до голого числа", in: "5000-2000 руб", price: "5000", conf: 0.7, success: true},
		{name: "подозрительно дёшево", in: "10 руб", price: "10", conf: 0, success: false},
		{name: "без цифр", in: "дорого", success: false},
		{name: "пусто", in: "", success: false},
	}

	p := NewServiceParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.ParsePrice(tt.in)
			if res.Success != tt.success {
				t.Fatalf("Success = %v, ожидалось %v", res.Success, tt.success)
			}
			if res.Price != tt.price {
				t.Errorf("Price = %q, ожидалось %q", res.Price, tt.price)
			}
			if res.PriceFrom != tt.from {
				t.Errorf("PriceFrom = %q, ожидалось %q", res.PriceFrom, tt.from)
			}
			if res.PriceTo != tt.to {
				t.Errorf("PriceTo = %q, ожидалось %q", res.PriceTo, tt.to)
			}
			if math.Abs(res.Confidence-tt.conf) > 1e-9 {
				t.Errorf("Confidence = %v, ожидалось %v", res.Confidence, tt.conf)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"процедура 60 минут", "60 мин"},
		{"30-45 мин", "30-45 мин"},
		{"2 часа", "2 ч"},
		{"сеанс 1:30", "1:30"},
		{"без времени", ""},
	}

	p := NewServiceParser()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := p.parseDuration(tt.in); got != tt.want {
				t.Errorf("parseDuration(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractNameStripsMeta(t *testing.T) {
	p := NewServiceParser()

	name, desc := p.extractName("Чистка лица 2500 рублей, 90 минут. Глубокое очищение с уходовыми средствами")
	if name != "Чистка лица" {
		t.Errorf("name = %q", name)
	}
	if desc != "Глубокое очищение с уходовыми средствами" {
		t.Errorf("description = %q", desc)
	}

	name, _ = p.extractName("2800 руб")
	if name != "" {
		t.Errorf("из одной цены не должно получаться название, got %q", name)
	}
}
