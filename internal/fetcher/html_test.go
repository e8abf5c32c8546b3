package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <link rel="canonical" href="https://yandex.ru/maps/org/romashka/12345">
</head>
<body>
  <h1 class="orgpage-header-view__header">Салон красоты "Ромашка"</h1>
  <div class="orgpage-categories-info-view__category">Салон красоты</div>
  <div class="business-contacts-view__address">Москва, ул. Ленина, 1</div>
  <div class="card-phones-view__number">+7 (999) 123-45-67</div>
  <a class="business-urls-view__text" href="https://salon-romashka.ru">сайт</a>
  <span class="business-rating-badge-view__rating-text">4.8</span>
  <div class="business-full-items-grid-view__item">
    <div>Маникюр с покрытием</div>
    <div>2800 ₽, 60 минут</div>
  </div>
  <div class="business-full-items-grid-view__item">
    <div>Педикюр</div>
    <div>от 3200 ₽</div>
  </div>
  <div class="business-working-intervals-view__item">Пн-Пт: 09:00-18:00</div>
  <div class="business-review-view">
    <div>Анна К.</div>
    <div>5 из 5</div>
    <div>Отличный сервис, мастера настоящие профессионалы!</div>
  </div>
  <a href="https://t.me/romashka_salon">телеграм</a>
  <script>console.log("tracking")</script>
</body>
</html>`

func TestExtractDocument(t *testing.T) {
	doc, err := ExtractDocument("", strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "https://yandex.ru/maps/org/romashka/12345", doc.URL)
	assert.Equal(t, `Салон красоты "Ромашка"`, doc.Name)
	assert.Equal(t, "Салон красоты", doc.Category)
	assert.Equal(t, "Москва, ул. Ленина, 1", doc.Address)
	assert.Equal(t, "+7 (999) 123-45-67", doc.Phone)
	assert.Equal(t, "https://salon-romashka.ru", doc.Website)
	assert.Equal(t, "4.8", doc.Rating)

	assert.Contains(t, doc.ServicesText, "Маникюр с покрытием")
	assert.Contains(t, doc.ServicesText, "Педикюр")
	assert.Contains(t, doc.ScheduleText, "Пн-Пт: 09:00-18:00")
	assert.Contains(t, doc.ReviewsText, "Анна К.")
	assert.Equal(t, "https://t.me/romashka_salon", doc.Telegram)

	assert.NotContains(t, doc.Text, "tracking", "скрипты не должны попадать в свободный текст")
}

func TestExtractDocumentFallbackSelectors(t *testing.T) {
	page := `<html><body><h1>Барбершоп "Борода"</h1><p>Стрижка 1500 руб</p></body></html>`

	doc, err := ExtractDocument("https://yandex.ru/maps/org/boroda/777", strings.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, `Барбершоп "Борода"`, doc.Name)
	assert.Equal(t, "https://yandex.ru/maps/org/boroda/777", doc.URL)
	assert.Contains(t, doc.Text, "Стрижка 1500 руб")
	assert.Empty(t, doc.ServicesText)
}

func TestExtractDocumentEmpty(t *testing.T) {
	_, err := ExtractDocument("", strings.NewReader("<html><body></body></html>"))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "romashka.html"), []byte(samplePage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("не страница"), 0o644))

	src := NewDirSource(dir, zap.NewNop())

	refs, err := src.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"romashka.html"}, refs)

	doc, err := src.Fetch(context.Background(), "romashka.html")
	require.NoError(t, err)
	assert.Equal(t, `Салон красоты "Ромашка"`, doc.Name)
	assert.Equal(t, "https://yandex.ru/maps/org/romashka/12345", doc.URL)
}

func TestDirSourceMissingDir(t *testing.T) {
	src := NewDirSource("/nonexistent/path", zap.NewNop())
	_, err := src.List(context.Background())
	assert.Error(t, err)
}
