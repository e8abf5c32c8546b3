package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avkuzmin/bizextract/internal/cache/memory"
	"github.com/avkuzmin/bizextract/internal/domain"
	"github.com/avkuzmin/bizextract/internal/fetcher"
	"github.com/avkuzmin/bizextract/internal/metrics"
	"github.com/avkuzmin/bizextract/internal/parser"
	"github.com/avkuzmin/bizextract/internal/ratelimit"
)

var ErrDomainNotAllowed = errors.New("source domain is not allowed")

type Options struct {
	Workers         int
	CacheTTL        time.Duration
	ScraperVersion  string
	ContinueOnError bool
	AllowedDomains  []string
	PriceMin        float64
	PriceMax        float64
}

// Extractor превращает сырые документы в валидированные карточки
// предприятий. Все коллаборанты передаются явно.
type Extractor struct {
	source  fetcher.Source
	parser  *parser.Parser
	cache   *memory.Cache[domain.Enterprise]
	limiter *ratelimit.Limiter
	metrics *metrics.Metrics
	logger  *zap.Logger
	opts    Options
}

func New(
	source fetcher.Source,
	p *parser.Parser,
	cache *memory.Cache[domain.Enterprise],
	limiter *ratelimit.Limiter,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts Options,
) *Extractor {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.ScraperVersion == "" {
		opts.ScraperVersion = "2.0"
	}
	if opts.PriceMin <= 0 {
		opts.PriceMin = domain.DefaultPriceMin
	}
	if opts.PriceMax <= 0 {
		opts.PriceMax = domain.DefaultPriceMax
	}

	return &Extractor{
		source:  source,
		parser:  p,
		cache:   cache,
		limiter: limiter,
		metrics: m,
		logger:  logger,
		opts:    opts,
	}
}

// ExtractOne обрабатывает один документ: пейсинг по домену источника,
// загрузка, проверка URL, кеш, разбор, валидация.
func (e *Extractor) ExtractOne(ctx context.Context, ref string) (*domain.Enterprise, error) {
	start := time.Now()
	e.metrics.IncDocumentsInFlight()
	defer e.metrics.DecDocumentsInFlight()

	if err := e.pace(ctx, sourceDomain(ref)); err != nil {
		return nil, err
	}

	doc, err := e.source.Fetch(ctx, ref)
	if err != nil {
		e.metrics.RecordDocument("fetch_error", time.Since(start))
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}

	if err := e.validateURL(doc.URL); err != nil {
		e.metrics.RecordDocument("rejected", time.Since(start))
		return nil, fmt.Errorf("validate url %s: %w", doc.URL, err)
	}

	if cached, ok := e.cache.Get(doc.URL); ok {
		e.metrics.RecordCacheHit()
		e.metrics.RecordDocument("cached", time.Since(start))
		return &cached, nil
	}
	e.metrics.RecordCacheMiss()

	ent, err := e.buildEnterprise(doc)
	if err != nil {
		e.metrics.RecordDocument("invalid", time.Since(start))
		return nil, err
	}

	e.cache.Set(doc.URL, *ent, e.opts.CacheTTL)
	e.metrics.RecordDocument("ok", time.Since(start))

	e.logger.Info("документ обработан",
		zap.String("url", doc.URL),
		zap.String("name", ent.Name),
		zap.Int("services", len(ent.Services)),
		zap.Int("reviews", len(ent.Reviews)),
		zap.Duration("took", time.Since(start)))
	return ent, nil
}

// pace ждёт окно лимитера для домена. Возвращает ошибку только
// по отмене контекста.
func (e *Extractor) pace(ctx context.Context, sourceDom string) error {
	for !e.limiter.Allow(sourceDom) {
		e.metrics.RecordRateLimitHit(sourceDom)

		wait := time.Until(e.limiter.ResetTime(sourceDom))
		if wait < 100*time.Millisecond {
			wait = 100 * time.Millisecond
		}
		e.logger.Debug("лимит домена исчерпан, ждём",
			zap.String("domain", sourceDom),
			zap.Duration("wait", wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// validateURL пропускает только разрешённые домены карт. Локальные
// снапшоты (не-http ссылки) не проверяются.
func (e *Extractor) validateURL(raw string) error {
	if len(e.opts.AllowedDomains) == 0 {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}

	host := strings.ToLower(u.Hostname())
	for _, d := range e.opts.AllowedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return nil
		}
	}
	return ErrDomainNotAllowed
}

// sourceDomain - ключ пейсинга. Для ссылок без хоста (файлы из
// каталога) все документы идут под одним локальным ключом.
func sourceDomain(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.Hostname() != "" {
		return strings.ToLower(u.Hostname())
	}
	return "local"
}

// buildEnterprise прогоняет документ через парсеры и собирает
// доменную карточку. Жёсткие инварианты валидации здесь фатальны,
// мягкие уходят в метаданные.
func (e *Extractor) buildEnterprise(doc *fetcher.RawDocument) (*domain.Enterprise, error) {
	ent := &domain.Enterprise{
		Name:      doc.Name,
		Category:  doc.Category,
		Address:   doc.Address,
		Phone:     doc.Phone,
		Website:   doc.Website,
		ScrapedAt: doc.FetchedAt,
	}

	if nums := parser.ExtractNumbers(doc.Rating); len(nums) > 0 {
		r := nums[0]
		ent.Rating = &r
	}
	if nums := parser.ExtractNumbers(doc.ReviewsCount); len(nums) > 0 {
		n := int(nums[0])
		ent.ReviewsCount = &n
	}

	confidence := make(map[string]float64)

	services := e.timedServices(doc.ServicesText)
	if services.Success {
		ent.Services = services.Services
		confidence["services"] = services.Confidence
	}

	schedule := e.timedSchedule(doc.ScheduleText)
	var scheduleWarnings []string
	if schedule.Success {
		ent.WorkingHours = schedule.Hours
		confidence["schedule"] = schedule.Confidence
		if c := e.parser.ValidateSchedule(schedule.Hours.Schedule); !c.Valid {
			scheduleWarnings = c.Warnings
		}
	}

	contacts := e.timedContacts(parser.RawContacts{
		Phone:    doc.Phone,
		Website:  doc.Website,
		Telegram: doc.Telegram,
		WhatsApp: doc.WhatsApp,
		VK:       doc.VK,
		Text:     doc.ContactsText,
	})
	if contacts.Success {
		if contacts.Contacts.Phone != "" {
			ent.Phone = contacts.Contacts.Phone
		}
		if contacts.Contacts.Website != "" {
			ent.Website = contacts.Contacts.Website
		}
		ent.Social = contacts.Contacts.Social
		confidence["contacts"] = contacts.Confidence
	}

	reviews := e.timedReviews(doc.ReviewsText)
	if reviews.Success {
		ent.Reviews = reviews.Reviews
		confidence["reviews"] = reviews.Confidence
	}

	meta := map[string]any{
		"document_id": doc.ID,
		"source_url":  doc.URL,
		"language":    parser.DetectLanguage(doc.Text),
	}
	if len(confidence) > 0 {
		meta["confidence"] = confidence
	}
	if contacts.Contacts.Email != "" {
		meta["email"] = contacts.Contacts.Email
	}
	if len(scheduleWarnings) > 0 {
		meta["schedule_warnings"] = scheduleWarnings
	}
	ent.Metadata = meta

	if err := ent.Validate(); err != nil {
		return nil, fmt.Errorf("validate enterprise: %w", err)
	}
	ent.ApplyDerivedMetadata(e.opts.ScraperVersion)

	if report := ent.CheckQualityWithin(e.opts.PriceMin, e.opts.PriceMax); !report.OK() {
		e.logger.Warn("замечания к качеству карточки",
			zap.String("name", ent.Name),
			zap.Strings("warnings", report.Warnings))
		ent.Metadata["quality_warnings"] = report.Warnings
	}

	return ent, nil
}

func (e *Extractor) timedServices(text string) parser.ServicesResult {
	start := time.Now()
	res := e.parser.ParseServices(text)
	e.metrics.RecordParse("services", res.Success, time.Since(start))
	return res
}

func (e *Extractor) timedSchedule(text string) parser.ScheduleResult {
	start := time.Now()
	res := e.parser.ParseSchedule(text)
	e.metrics.RecordParse("schedule", res.Success, time.Since(start))
	return res
}

func (e *Extractor) timedContacts(raw parser.RawContacts) parser.ContactsResult {
	start := time.Now()
	res := e.parser.ParseContacts(raw)
	e.metrics.RecordParse("contacts", res.Success, time.Since(start))
	return res
}

func (e *Extractor) timedReviews(text string) parser.ReviewsResult {
	start := time.Now()
	res := e.parser.ParseReviews(text)
	e.metrics.RecordParse("reviews", res.Success, time.Since(start))
	return res
}
