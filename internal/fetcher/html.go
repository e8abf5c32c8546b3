package fetcher

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Селекторы полей карточки организации, в порядке убывания специфичности:
// первый непустой результат выигрывает.
var fieldSelectors = map[string][]string{
	"name": {
		"h1.orgpage-header-view__header",
		"h1[itemprop=name]",
		".card-title-view__title",
		"h1",
	},
	"category": {
		".orgpage-categories-info-view__category",
		".business-card-title-view__category",
		"[itemprop=category]",
	},
	"address": {
		".business-contacts-view__address",
		"[itemprop=address]",
		".orgpage-header-view__address",
	},
	"phone": {
		".card-phones-view__number",
		"[itemprop=telephone]",
		"a[href^='tel:']",
	},
	"website": {
		".business-urls-view__text",
		"a[itemprop=url]",
		".business-contacts-view__website",
	},
	"rating": {
		".business-rating-badge-view__rating-text",
		"[itemprop=ratingValue]",
	},
	"reviews_count": {
		".business-rating-amount-view",
		"[itemprop=reviewCount]",
	},
}

// Селекторы секций: все совпавшие узлы склеиваются построчно.
var sectionSelectors = map[string][]string{
	"services": {
		".business-full-items-grid-view__item",
		".related-item-list-view__item",
		".business-prices-view__row",
	},
	"schedule": {
		".business-working-status-view",
		".business-working-intervals-view__item",
		".business-card-working-status-view",
	},
	"reviews": {
		".business-review-view",
		".business-reviews-card-view__review",
	},
	"contacts": {
		".business-contacts-view",
		".orgpage-phones-view",
	},
}

// ExtractDocument снимает поля-кандидаты со страницы организации.
// HTML с нераспознанной структурой не ошибка: вернётся документ
// с одним свободным текстом.
func ExtractDocument(url string, r io.Reader) (*RawDocument, error) {
	gdoc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHTML, err)
	}

	doc := &RawDocument{
		ID:        uuid.NewString(),
		URL:       url,
		FetchedAt: time.Now().UTC(),
	}

	if doc.URL == "" {
		doc.URL = canonicalURL(gdoc)
	}

	doc.Name = firstText(gdoc, fieldSelectors["name"])
	doc.Category = firstText(gdoc, fieldSelectors["category"])
	doc.Address = firstText(gdoc, fieldSelectors["address"])
	doc.Phone = firstText(gdoc, fieldSelectors["phone"])
	doc.Website = firstAttrOrText(gdoc, fieldSelectors["website"], "href")
	doc.Rating = firstText(gdoc, fieldSelectors["rating"])
	doc.ReviewsCount = firstText(gdoc, fieldSelectors["reviews_count"])

	doc.ServicesText = sectionText(gdoc, sectionSelectors["services"])
	doc.ScheduleText = sectionText(gdoc, sectionSelectors["schedule"])
	doc.ReviewsText = sectionText(gdoc, sectionSelectors["reviews"])
	doc.ContactsText = sectionText(gdoc, sectionSelectors["contacts"])

	doc.Telegram = socialHref(gdoc, "t.me", "telegram")
	doc.WhatsApp = socialHref(gdoc, "wa.me", "whatsapp")
	doc.VK = socialHref(gdoc, "vk.com")

	doc.Text = bodyText(gdoc)

	if doc.Empty() {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

func canonicalURL(gdoc *goquery.Document) string {
	if href, ok := gdoc.Find("link[rel=canonical]").Attr("href"); ok {
		return href
	}
	if content, ok := gdoc.Find("meta[property='og:url']").Attr("content"); ok {
		return content
	}
	return ""
}

// firstText - текст первого непустого узла по таблице селекторов.
func firstText(gdoc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(gdoc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttrOrText предпочитает атрибут, текст - запасной вариант.
func firstAttrOrText(gdoc *goquery.Document, selectors []string, attr string) string {
	for _, sel := range selectors {
		node := gdoc.Find(sel).First()
		if v, ok := node.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			return text
		}
	}
	return ""
}

// sectionText склеивает все узлы первого сработавшего селектора,
// каждый узел с новой строки и пустой строкой между ними: дальше
// по этим разрывам режут парсеры.
func sectionText(gdoc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		var parts []string
		gdoc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := nodeLines(s); text != "" {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, "\n\n\n")
		}
	}
	return ""
}

// nodeLines - текст узла с переносами между дочерними блоками.
func nodeLines(s *goquery.Selection) string {
	var lines []string
	s.Children().Each(func(_ int, child *goquery.Selection) {
		if text := strings.TrimSpace(child.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		return strings.TrimSpace(s.Text())
	}
	return strings.Join(lines, "\n")
}

// socialHref ищет первую ссылку, чей href содержит любой из маркеров.
func socialHref(gdoc *goquery.Document, markers ...string) string {
	found := ""
	gdoc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		lower := strings.ToLower(href)
		for _, m := range markers {
			if strings.Contains(lower, m) {
				found = href
				return false
			}
		}
		return true
	})
	return found
}

func bodyText(gdoc *goquery.Document) string {
	body := gdoc.Find("body")
	// скрипты и стили в свободный текст не нужны
	body.Find("script, style, noscript").Remove()
	return strings.TrimSpace(body.Text())
}
