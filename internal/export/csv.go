package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/avkuzmin/bizextract/internal/domain"
)

// Колонки плоской выгрузки. Вложенные структуры сплющиваются:
// услуги и соцсети склеиваются в одну ячейку через "; ".
var csvHeader = []string{
	"name", "category", "address", "phone", "website",
	"rating", "reviews_count", "services", "services_count",
	"schedule", "working_days", "social_networks",
	"reviews_count_parsed", "avg_review_rating", "completeness",
}

type CSVExporter struct {
	dir    string
	logger *zap.Logger
}

func NewCSV(dir string, logger *zap.Logger) *CSVExporter {
	return &CSVExporter{dir: dir, logger: logger}
}

func (e *CSVExporter) Format() string { return "csv" }

func (e *CSVExporter) Export(enterprises []domain.Enterprise, name string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for i := range enterprises {
		if err := w.Write(flattenEnterprise(&enterprises[i])); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	path := filepath.Join(e.dir, name+".csv")
	if err := atomicWrite(path, buf.Bytes()); err != nil {
		return "", err
	}

	e.logger.Info("csv экспорт записан",
		zap.String("path", path),
		zap.Int("count", len(enterprises)))
	return path, nil
}

func flattenEnterprise(ent *domain.Enterprise) []string {
	rating := ""
	if ent.Rating != nil {
		rating = strconv.FormatFloat(*ent.Rating, 'f', 1, 64)
	}
	reviewsCount := ""
	if ent.ReviewsCount != nil {
		reviewsCount = strconv.Itoa(*ent.ReviewsCount)
	}

	avgRating := ""
	if avg, ok := ent.AverageRatingFromReviews(); ok {
		avgRating = strconv.FormatFloat(avg, 'f', 1, 64)
	}

	return []string{
		ent.Name,
		ent.Category,
		ent.Address,
		ent.Phone,
		ent.Website,
		rating,
		reviewsCount,
		flattenServices(ent.Services),
		strconv.Itoa(len(ent.Services)),
		strings.Join(ent.WorkingHours.FormatSchedule(), "; "),
		strconv.Itoa(ent.WorkingHours.WorkingDaysCount()),
		flattenSocial(ent.Social),
		strconv.Itoa(len(ent.Reviews)),
		avgRating,
		strconv.FormatFloat(ent.CompletenessScore(), 'f', 2, 64),
	}
}

func flattenServices(services []domain.Service) string {
	parts := make([]string, 0, len(services))
	for _, svc := range services {
		parts = append(parts, fmt.Sprintf("%s (%s)", svc.Name, svc.DisplayPrice()))
	}
	return strings.Join(parts, "; ")
}

func flattenSocial(social domain.SocialNetworks) string {
	active := social.Active()
	parts := make([]string, 0, len(active))
	// фиксированный порядок, чтобы выгрузка была детерминированной
	for _, network := range []string{"telegram", "whatsapp", "vk"} {
		if link, ok := active[network]; ok {
			parts = append(parts, network+": "+link)
		}
	}
	return strings.Join(parts, "; ")
}
