package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	telegramURLRe = regexp.MustCompile(`(?i)^https?://(t\.me|telegram\.(me|org))/[\w_]+`)
	whatsappPhone = regexp.MustCompile(`^\+?\d{10,15}$`)
	vkURLRe       = regexp.MustCompile(`(?i)^https?://(m\.)?vk\.com/[\w.]+`)
)

// SocialNetworks - ссылки на соцсети предприятия, приведённые к полным URL.
type SocialNetworks struct {
	Telegram string
	WhatsApp string
	VK       string
}

// Validate нормализует ссылки: @username и голые номера телефонов
// разворачиваются в полные https-ссылки. Ошибок не возвращает,
// нераспознанные значения сохраняются как есть.
func (sn *SocialNetworks) Validate() error {
	sn.Telegram = normalizeTelegram(sn.Telegram)
	sn.WhatsApp = normalizeWhatsApp(sn.WhatsApp)
	sn.VK = normalizeVK(sn.VK)
	return nil
}

func normalizeTelegram(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "@") {
		return "https://t.me/" + v[1:]
	}
	if telegramURLRe.MatchString(v) {
		return v
	}
	if !strings.HasPrefix(v, "http") {
		if strings.HasPrefix(v, "t.me/") || strings.HasPrefix(v, "telegram.me/") {
			return "https://" + v
		}
		return "https://t.me/" + v
	}
	return v
}

func normalizeWhatsApp(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if whatsappPhone.MatchString(v) {
		return "https://wa.me/" + digitsOnly(v)
	}
	return v
}

func normalizeVK(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if vkURLRe.MatchString(v) {
		return v
	}
	if !strings.HasPrefix(v, "http") {
		return "https://vk.com/" + v
	}
	return v
}

// Active возвращает заполненные соцсети в виде карты network -> url.
func (sn *SocialNetworks) Active() map[string]string {
	m := make(map[string]string, 3)
	if sn.Telegram != "" {
		m["telegram"] = sn.Telegram
	}
	if sn.WhatsApp != "" {
		m["whatsapp"] = sn.WhatsApp
	}
	if sn.VK != "" {
		m["vk"] = sn.VK
	}
	return m
}

// Usernames извлекает имена пользователей из ссылок.
func (sn *SocialNetworks) Usernames() map[string]string {
	out := make(map[string]string)
	for network, link := range sn.Active() {
		u, err := url.Parse(link)
		if err != nil {
			continue
		}
		if path := strings.Trim(u.Path, "/"); path != "" {
			out[network] = path
		}
	}
	return out
}

func (sn *SocialNetworks) HasAny() bool {
	return sn.Telegram != "" || sn.WhatsApp != "" || sn.VK != ""
}

func (sn *SocialNetworks) Count() int {
	return len(sn.Active())
}

func (sn *SocialNetworks) toMap() map[string]any {
	return map[string]any{
		"telegram": nullable(sn.Telegram),
		"whatsapp": nullable(sn.WhatsApp),
		"vk":       nullable(sn.VK),
	}
}
