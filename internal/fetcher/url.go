package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// URLSource - источник из файла со списком URL, по строке на страницу.
// Пустые строки и строки с # пропускаются.
type URLSource struct {
	path    string
	client  *http.Client
	logger  *zap.Logger
	backoff []time.Duration
}

func NewURLSource(path string, timeout time.Duration, logger *zap.Logger) *URLSource {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &URLSource{
		path:    path,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		backoff: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

func (s *URLSource) List(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read urls file: %w", err)
	}

	var refs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}

	s.logger.Debug("список URL прочитан",
		zap.String("path", s.path),
		zap.Int("urls", len(refs)))
	return refs, nil
}

// Fetch скачивает страницу с повторами на 429 и 5xx.
func (s *URLSource) Fetch(ctx context.Context, ref string) (*RawDocument, error) {
	var lastErr error

	for attempt := 0; attempt <= len(s.backoff); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.backoff[attempt-1]):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("do request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			doc, err := ExtractDocument(ref, bytes.NewReader(body))
			if err != nil {
				return nil, fmt.Errorf("extract %s: %w", ref, err)
			}
			if doc.URL == "" {
				doc.URL = ref
			}
			return doc, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("fetch %s: status %d", ref, resp.StatusCode)
			s.logger.Warn("повтор запроса",
				zap.String("url", ref),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1))
		default:
			return nil, fmt.Errorf("fetch %s: status %d", ref, resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("fetch %s: retries exhausted: %w", ref, lastErr)
}
