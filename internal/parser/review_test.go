package parser

import (
	"testing"
	"time"
)

func fixedNowParser() *ReviewParser {
	p := NewReviewParser()
	p.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func TestReviewParserKeepsOnlyAuthored(t *testing.T) {
	text := "Анна К.\n5 из 5\n15 марта 2024\nОтличный сервис, мастера настоящие профессионалы!\n\n\n\nв целом неплохо, но ценник показался завышенным, парковки нет"

	res := fixedNowParser().Parse(text)
	if !res.Success {
		t.Fatalf("Parse: success=false")
	}
	if len(res.Reviews) != 1 {
		t.Fatalf("отзывов %d, ожидался 1: %+v", len(res.Reviews), res.Reviews)
	}

	rev := res.Reviews[0]
	if rev.Author != "Анна К." {
		t.Errorf("Author = %q", rev.Author)
	}
	if rev.Rating != 5 {
		t.Errorf("Rating = %d", rev.Rating)
	}
	if rev.Date != "15 марта 2024" {
		t.Errorf("Date = %q", rev.Date)
	}
	if rev.Text == "" {
		t.Error("текст отзыва не извлечён")
	}
}

func TestReviewParserOwnerResponse(t *testing.T) {
	text := "Мария\n4 звезды\nХороший салон, приду ещё обязательно.\nОтвет владельца: спасибо за тёплые слова, ждём вас снова!"

	res := fixedNowParser().Parse(text)
	if len(res.Reviews) != 1 {
		t.Fatalf("отзывов %d, ожидался 1", len(res.Reviews))
	}

	rev := res.Reviews[0]
	if rev.Author != "Мария" {
		t.Errorf("Author = %q", rev.Author)
	}
	if rev.Rating != 4 {
		t.Errorf("Rating = %d", rev.Rating)
	}
	if rev.Response == "" {
		t.Error("ответ владельца не извлечён")
	}
	if rev.Text == "" {
		t.Error("текст отзыва потерян при отделении ответа")
	}
}

func TestReviewParserEmptyInput(t *testing.T) {
	res := fixedNowParser().Parse("   ")
	if res.Success {
		t.Error("пустой вход не должен давать успех")
	}
}

func TestExtractRating(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"5 из 5", 5},
		{"4/5", 4},
		{"3 звезды", 3},
		{"оценка: 2", 2},
		{"★★★★", 4},
		{"без оценки вовсе", 0},
		{"10 из 5", 0},
	}

	p := fixedNowParser()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := p.extractRating(tt.in); got != tt.want {
				t.Errorf("extractRating(%q) = %d, ожидалось %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "полная русская", in: "15 марта 2024", want: "15 марта 2024"},
		{name: "русская без года", in: "5 июня", want: "5 июня 2026"},
		{name: "числовая с точками", in: "01.02.2023", want: "01.02.2023"},
		{name: "двузначный год", in: "01.02.23", want: "01.02.2023"},
		{name: "iso", in: "2024-03-15", want: "15.03.2024"},
		{name: "сегодня", in: "сегодня", want: "31.08.2026"},
		{name: "вчера", in: "вчера", want: "30.08.2026"},
		{name: "дни назад", in: "3 дня назад", want: "28.08.2026"},
		{name: "недели назад", in: "2 недели назад", want: "17.08.2026"},
		{name: "месяцы назад", in: "1 месяц назад", want: "01.08.2026"},
		{name: "мусор", in: "когда-то давно", want: ""},
		{name: "пусто", in: "", want: ""},
	}

	p := fixedNowParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ParseDate(tt.in); got != tt.want {
				t.Errorf("ParseDate(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractAuthor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "имя с инициалом", in: "Анна К.\nотличное место", want: "Анна К."},
		{name: "одно имя", in: "Мария\nвсё понравилось", want: "Мария"},
		{name: "латиница", in: "John D.\ngreat place", want: "John D."},
		{name: "первое слово с заглавной", in: "Екатерина была у вас вчера, всё супер", want: "Екатерина"},
		{name: "без имени", in: "всё было неплохо, но дорого", want: ""},
	}

	p := fixedNowParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.extractAuthor(tt.in); got != tt.want {
				t.Errorf("extractAuthor(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "позитив", in: "Всё отлично, рекомендую всем", want: "positive"},
		{name: "негатив", in: "Ужасно, не рекомендую никому", want: "negative"},
		{name: "нейтрально", in: "Обычный салон, ничего особенного", want: "neutral"},
		{name: "пусто", in: "", want: "neutral"},
	}

	p := fixedNowParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := p.AnalyzeSentiment(tt.in); got != tt.want {
				t.Errorf("AnalyzeSentiment(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractTopics(t *testing.T) {
	p := fixedNowParser()

	topics := p.ExtractTopics("Персонал вежливый, цена адекватная, в салоне чисто")
	if len(topics) != 3 {
		t.Fatalf("тем %d, ожидалось 3: %v", len(topics), topics)
	}

	want := map[string]bool{"service": true, "price": true, "cleanliness": true}
	for _, topic := range topics {
		if !want[topic] {
			t.Errorf("неожиданная тема %q", topic)
		}
	}

	if got := p.ExtractTopics(""); got != nil {
		t.Errorf("темы на пустом входе: %v", got)
	}
}

func TestExtractHelpfulCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "полная форма", in: "12 человек считают отзыв полезным", want: 12},
		{name: "короткая форма", in: "Полезно: 3", want: 3},
		{name: "английская форма", in: "7 found this helpful", want: 7},
		{name: "нет счётчика", in: "Отличный салон, всем советую", want: 0},
	}

	p := fixedNowParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.extractHelpfulCount(tt.in); got != tt.want {
				t.Errorf("extractHelpfulCount(%q) = %d, ожидалось %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestReviewParserHelpfulCount(t *testing.T) {
	block := "Мария В.\n5 из 5\nОтличный салон, мастера настоящие профессионалы!\n12 человек считают отзыв полезным"

	res := fixedNowParser().Parse(block)
	if len(res.Reviews) != 1 {
		t.Fatalf("отзывов %d, ожидался 1", len(res.Reviews))
	}
	rev := res.Reviews[0]
	if rev.HelpfulCount != 12 {
		t.Errorf("HelpfulCount = %d, ожидалось 12", rev.HelpfulCount)
	}
	if rev.Text != "" && containsHelpfulMeta(rev.Text) {
		t.Errorf("строка счётчика попала в текст отзыва: %q", rev.Text)
	}
}

func containsHelpfulMeta(text string) bool {
	for _, re := range helpfulPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
