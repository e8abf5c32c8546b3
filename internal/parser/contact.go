package parser

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/avkuzmin/bizextract/internal/domain"
)

var (
	phoneCleanRe  = regexp.MustCompile(`[^\d\+\(\)\-\s]`)
	phoneDigitsRe = regexp.MustCompile(`[^\d]`)

	// российские форматы, потом международный, потом общий
	phoneRuRe   = regexp.MustCompile(`[78]\s*\(?(\d{3})\)?\s*(\d{3})[-\s]*(\d{2})[-\s]*(\d{2})`)
	phoneIntlRe = regexp.MustCompile(`\+(\d{1,3})\s*\(?(\d{1,4})\)?\s*(\d{1,4})[-\s]*(\d{1,4})[-\s]*(\d{0,4})`)

	websiteURLRe  = regexp.MustCompile(`(?i)https?://[-\w.]+\.[a-z]{2,}(?:/[\w._~!$&'()*+,;=:@%/-]*)?(?:\?[\w._~!$&'()*+,;=:@%/?-]*)?`)
	websiteWWWRe  = regexp.MustCompile(`(?i)www\.[-\w.]+\.[a-z]{2,}(?:/[\w._~!$&'()*+,;=:@%/-]*)?`)
	websiteBareRe = regexp.MustCompile(`(?i)[-\w]+(?:\.[-\w]+)*\.[a-z]{2,}(?:/[\w._~!$&'()*+,;=:@%/-]*)?`)

	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

// Паттерны соцсетей: ссылка, упоминание с ником, подпись с ником.
var socialPatterns = map[string][]*regexp.Regexp{
	"telegram": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:t\.me|telegram\.me|telegram\.org)/([a-zA-Z0-9_]+)`),
		regexp.MustCompile(`(?i)@([a-zA-Z0-9_]+)\s*(?:telegram|tg)`),
		regexp.MustCompile(`(?i)telegram\s*[:@]?\s*@?([a-zA-Z0-9_]+)`),
	},
	"whatsapp": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:wa\.me/|api\.whatsapp\.com/send\?phone=)(\d+)`),
		regexp.MustCompile(`(?i)whatsapp\s*[:@]\s*\+?(\d+)`),
		regexp.MustCompile(`(?i)wa\s*[:@]\s*\+?(\d+)`),
	},
	"vk": {
		regexp.MustCompile(`(?i)(?:https?://)?(?:vk\.com|m\.vk\.com)/([a-zA-Z0-9_.]+)`),
		regexp.MustCompile(`(?i)vk\s*[:@]?\s*@?([a-zA-Z0-9_.]+)`),
		regexp.MustCompile(`(?i)вконтакте\s*[:@]?\s*@?([a-zA-Z0-9_.]+)`),
	},
}

// Веса контактных полей при расчёте уверенности.
const (
	phoneWeight   = 0.9
	websiteWeight = 0.8
	emailWeight   = 0.7
	socialWeight  = 0.6
	autoWeight    = 0.5
)

// RawContacts - сырой контактный блок: именованные поля со страницы
// плюс свободный текст для автоизвлечения.
type RawContacts struct {
	Phone    string
	Website  string
	Email    string
	Telegram string
	WhatsApp string
	VK       string
	Text     string
}

func (rc RawContacts) empty() bool {
	return rc == RawContacts{}
}

// ContactParser извлекает и нормализует контактную информацию.
type ContactParser struct{}

func NewContactParser() *ContactParser { return &ContactParser{} }

// Parse разбирает контактный блок. Каждое распознанное поле вносит
// свой вес, итоговая уверенность - средняя по найденному.
func (p *ContactParser) Parse(raw RawContacts) ContactsResult {
	var res ContactsResult
	if raw.empty() {
		return res
	}

	total := 0.0
	found := 0

	if phone := p.ParsePhone(raw.Phone); phone != "" {
		res.Contacts.Phone = phone
		total += phoneWeight
		found++
	}
	if site := p.ParseWebsite(raw.Website); site != "" {
		res.Contacts.Website = site
		total += websiteWeight
		found++
	}
	if email := p.ParseEmail(raw.Email); email != "" {
		res.Contacts.Email = email
		total += emailWeight
		found++
	}

	social := p.parseSocial(raw)
	if social.Telegram != "" {
		res.Contacts.Social.Telegram = social.Telegram
		total += socialWeight
		found++
	}
	if social.WhatsApp != "" {
		res.Contacts.Social.WhatsApp = social.WhatsApp
		total += socialWeight
		found++
	}
	if social.VK != "" {
		res.Contacts.Social.VK = social.VK
		total += socialWeight
		found++
	}

	// автоизвлечение из свободного текста заполняет только пустые поля
	if raw.Text != "" {
		if res.Contacts.Phone == "" {
			if phone := p.ParsePhone(raw.Text); phone != "" {
				res.Contacts.Phone = phone
				total += autoWeight
				found++
			}
		}
		if res.Contacts.Email == "" {
			if email := p.ParseEmail(raw.Text); email != "" {
				res.Contacts.Email = email
				total += autoWeight
				found++
			}
		}
		if res.Contacts.Website == "" {
			if site := p.ParseWebsite(raw.Text); site != "" {
				res.Contacts.Website = site
				total += autoWeight
				found++
			}
		}
	}

	if found > 0 {
		res.Confidence = total / float64(found)
		if res.Confidence > 1.0 {
			res.Confidence = 1.0
		}
		res.Success = true
	}
	return res
}

// ParsePhone нормализует телефон к виду "+7 (XXX) XXX-XX-XX".
// Пустая строка - номер не распознан.
func (p *ContactParser) ParsePhone(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	clean := phoneCleanRe.ReplaceAllString(raw, "")

	if m := phoneRuRe.FindStringSubmatch(clean); m != nil {
		return fmt.Sprintf("+7 (%s) %s-%s-%s", m[1], m[2], m[3], m[4])
	}
	if m := phoneIntlRe.FindStringSubmatch(clean); m != nil {
		digits := phoneDigitsRe.ReplaceAllString(strings.Join(m[1:], ""), "")
		if strings.HasPrefix(digits, "7") && len(digits) == 11 {
			return formatRuPhone(digits[1:])
		}
		if len(digits) >= 10 {
			return "+" + digits
		}
	}

	// паттерны не сработали - пробуем по голым цифрам
	digits := phoneDigitsRe.ReplaceAllString(raw, "")
	switch {
	case len(digits) == 11 && (digits[0] == '7' || digits[0] == '8'):
		return formatRuPhone(digits[1:])
	case len(digits) == 10:
		return formatRuPhone(digits)
	}
	return ""
}

// formatRuPhone собирает номер из десяти цифр без кода страны.
func formatRuPhone(d string) string {
	return fmt.Sprintf("+7 (%s) %s-%s-%s", d[0:3], d[3:6], d[6:8], d[8:10])
}

// ParseWebsite извлекает и нормализует URL сайта. Ссылки на сами
// карты отбрасываются.
func (p *ContactParser) ParseWebsite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	for _, re := range []*regexp.Regexp{websiteURLRe, websiteWWWRe, websiteBareRe} {
		m := re.FindString(raw)
		if m == "" {
			continue
		}
		if !strings.HasPrefix(m, "http://") && !strings.HasPrefix(m, "https://") {
			m = "https://" + m
		}
		if p.validURL(m) {
			return m
		}
	}
	return ""
}

func (p *ContactParser) validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	if strings.Contains(strings.ToLower(u.Host), "yandex") &&
		strings.Contains(strings.ToLower(raw), "maps") {
		return false
	}
	return true
}

// ParseEmail извлекает и валидирует email, приводя к нижнему регистру.
func (p *ContactParser) ParseEmail(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	m := emailRe.FindString(raw)
	if m == "" {
		return ""
	}
	email := strings.ToLower(m)

	local, dom, ok := strings.Cut(email, "@")
	if !ok || len(local) < 1 || len(local) > 64 {
		return ""
	}
	if len(dom) < 1 || len(dom) > 255 || !strings.Contains(dom, ".") {
		return ""
	}
	return email
}

// parseSocial собирает соцсети из именованных полей и свободного текста.
func (p *ContactParser) parseSocial(raw RawContacts) domain.SocialNetworks {
	var sn domain.SocialNetworks

	direct := map[string]string{
		"telegram": raw.Telegram,
		"whatsapp": raw.WhatsApp,
		"vk":       raw.VK,
	}
	for network, value := range direct {
		link := p.socialLink(network, value)
		if link == "" && raw.Text != "" {
			link = p.socialLink(network, raw.Text)
		}
		switch network {
		case "telegram":
			sn.Telegram = link
		case "whatsapp":
			sn.WhatsApp = link
		case "vk":
			sn.VK = link
		}
	}
	return sn
}

// socialLink строит каноническую ссылку по первому сработавшему паттерну.
func (p *ContactParser) socialLink(network, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	for _, re := range socialPatterns[network] {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch network {
		case "telegram":
			return "https://t.me/" + m[1]
		case "whatsapp":
			digits := phoneDigitsRe.ReplaceAllString(m[1], "")
			if len(digits) >= 10 {
				return "https://wa.me/" + digits
			}
		case "vk":
			return "https://vk.com/" + m[1]
		}
	}
	return ""
}
