package parser

import (
	"math"
	"testing"
)

func TestParsePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "восьмёрка со скобками", in: "8 (999) 123-45-67", want: "+7 (999) 123-45-67"},
		{name: "плюс семь с пробелами", in: "+7 999 123 45 67", want: "+7 (999) 123-45-67"},
		{name: "дефисы", in: "8-999-123-45-67", want: "+7 (999) 123-45-67"},
		{name: "десять цифр подряд", in: "9991234567", want: "+7 (999) 123-45-67"},
		{name: "с подписью", in: "тел.: 8 (999) 123-45-67", want: "+7 (999) 123-45-67"},
		{name: "слишком короткий", in: "12345", want: ""},
		{name: "без цифр", in: "позвоните нам", want: ""},
		{name: "пусто", in: "", want: ""},
	}

	p := NewContactParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ParsePhone(tt.in); got != tt.want {
				t.Errorf("ParsePhone(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseWebsite(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "полный url", in: "https://example.com/page", want: "https://example.com/page"},
		{name: "www без схемы", in: "www.salon.ru", want: "https://www.salon.ru"},
		{name: "голый домен", in: "сайт: salon-krasoty.ru", want: "https://salon-krasoty.ru"},
		{name: "ссылка на карты отбрасывается", in: "https://yandex.ru/maps/org/12345", want: ""},
		{name: "не сайт", in: "не указан", want: ""},
		{name: "пусто", in: "", want: ""},
	}

	p := NewContactParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ParseWebsite(tt.in); got != tt.want {
				t.Errorf("ParseWebsite(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "в нижний регистр", in: "Email: Info@Example.COM", want: "info@example.com"},
		{name: "внутри текста", in: "пишите на salon@mail.ru в любое время", want: "salon@mail.ru"},
		{name: "не email", in: "нет почты", want: ""},
		{name: "пусто", in: "", want: ""},
	}

	p := NewContactParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ParseEmail(tt.in); got != tt.want {
				t.Errorf("ParseEmail(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSocialLink(t *testing.T) {
	tests := []struct {
		network string
		in      string
		want    string
	}{
		{"telegram", "https://t.me/salonchik", "https://t.me/salonchik"},
		{"telegram", "Telegram: @salonchik", "https://t.me/salonchik"},
		{"whatsapp", "https://wa.me/79991234567", "https://wa.me/79991234567"},
		{"whatsapp", "WhatsApp: +7 999 123 45 67", ""},
		{"vk", "vk.com/salon_krasoty", "https://vk.com/salon_krasoty"},
		{"vk", "ВКонтакте: salon_krasoty", "https://vk.com/salon_krasoty"},
		{"telegram", "просто текст", ""},
	}

	p := NewContactParser()
	for _, tt := range tests {
		t.Run(tt.network+"/"+tt.in, func(t *testing.T) {
			if got := p.socialLink(tt.network, tt.in); got != tt.want {
				t.Errorf("socialLink(%q, %q) = %q, ожидалось %q", tt.network, tt.in, got, tt.want)
			}
		})
	}
}

func TestContactParserParse(t *testing.T) {
	raw := RawContacts{
		Phone:   "8 (999) 123-45-67",
		Website: "www.salon.ru",
		Text:    "Telegram: @salonchik, пишите на info@salon.ru",
	}

	res := NewContactParser().Parse(raw)
	if !res.Success {
		t.Fatal("Parse: success=false")
	}
	if res.Contacts.Phone != "+7 (999) 123-45-67" {
		t.Errorf("Phone = %q", res.Contacts.Phone)
	}
	if res.Contacts.Website != "https://www.salon.ru" {
		t.Errorf("Website = %q", res.Contacts.Website)
	}
	if res.Contacts.Social.Telegram != "https://t.me/salonchik" {
		t.Errorf("Telegram = %q", res.Contacts.Social.Telegram)
	}
	if res.Contacts.Email != "info@salon.ru" {
		t.Errorf("Email = %q", res.Contacts.Email)
	}

	// телефон 0.9, сайт 0.8, telegram 0.6, email из текста 0.5
	want := (0.9 + 0.8 + 0.6 + 0.5) / 4
	if math.Abs(res.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %v, ожидалось %v", res.Confidence, want)
	}
}

func TestContactParserEmptyInput(t *testing.T) {
	res := NewContactParser().Parse(RawContacts{})
	if res.Success {
		t.Error("пустой вход не должен давать успех")
	}
	if res.Confidence != 0 {
		t.Errorf("Confidence = %v на пустом входе", res.Confidence)
	}
}

func TestContactParserAutoFillsOnlyEmpty(t *testing.T) {
	raw := RawContacts{
		Phone: "8 (999) 111-22-33",
		Text:  "звоните 8 (999) 999-99-99",
	}

	res := NewContactParser().Parse(raw)
	if res.Contacts.Phone != "+7 (999) 111-22-33" {
		t.Errorf("прямое поле перетёрто автоизвлечением: %q", res.Contacts.Phone)
	}
}
