package parser

import (
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "пробелы", in: "  много   пробелов  ", want: "много пробелов"},
		{name: "html", in: "<b>жирный</b> текст<br/>", want: "жирный текст"},
		{name: "переносы схлопываются", in: "первая\nвторая", want: "первая вторая"},
		{name: "пусто", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanTextKeepLines(t *testing.T) {
	got := CleanTextKeepLines("  Пн:  9-18  \n\n  Вт:  9-18  ")
	want := "Пн: 9-18\n\nВт: 9-18"
	if got != want {
		t.Errorf("CleanTextKeepLines = %q, ожидалось %q", got, want)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"привет мир", "ru"},
		{"hello world", "en"},
		{"привет hello мир world здесь", "mixed"},
		{"12345 !!!", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.in, func(t *testing.T) {
			if got := DetectLanguage(tt.in); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractNumbers(t *testing.T) {
	got := ExtractNumbers("от 1500 до 2500.50 руб, скидка 10,5%")
	want := []float64{1500, 2500.50, 10.5}
	if len(got) != len(want) {
		t.Fatalf("чисел %d, ожидалось %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %v, ожидалось %v", i, got[i], want[i])
		}
	}

	if got := ExtractNumbers("без чисел"); got != nil {
		t.Errorf("числа в тексте без чисел: %v", got)
	}
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2800 ₽", "2800 руб"},
		{"1500 рублей", "1500 руб"},
		{"100 р.", "100 руб"},
		{"50 $", "50 долл"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeCurrency(tt.in); got != tt.want {
				t.Errorf("NormalizeCurrency(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMonthNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"марта", "03", true},
		{"Марта", "03", true},
		{"dec", "12", true},
		{"тринадцатого", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := MonthNumber(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("MonthNumber(%q) = %q, %v, ожидалось %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
