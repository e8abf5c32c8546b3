package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/avkuzmin/bizextract/internal/domain"
)

// Metadata - сайдкар экспорта: когда выгружено, сколько, контрольная
// сумма данных и сводная статистика.
type Metadata struct {
	ExportedAt time.Time      `json:"exported_at"`
	Count      int            `json:"count"`
	Checksum   string         `json:"checksum"`
	Statistics map[string]any `json:"statistics"`
}

type JSONExporter struct {
	dir    string
	logger *zap.Logger
}

func NewJSON(dir string, logger *zap.Logger) *JSONExporter {
	return &JSONExporter{dir: dir, logger: logger}
}

func (e *JSONExporter) Format() string { return "json" }

// Export пишет карточки в {name}.json и метаданные в {name}.meta.json.
// Данные пишутся атомарно: сначала во временный файл, потом rename.
func (e *JSONExporter) Export(enterprises []domain.Enterprise, name string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	records := make([]map[string]any, 0, len(enterprises))
	for _, ent := range enterprises {
		records = append(records, ent.ToMap())
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal enterprises: %w", err)
	}

	path := filepath.Join(e.dir, name+".json")
	if err := atomicWrite(path, data); err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	meta := Metadata{
		ExportedAt: time.Now().UTC(),
		Count:      len(enterprises),
		Checksum:   hex.EncodeToString(sum[:]),
		Statistics: collectStatistics(enterprises),
	}

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	if err := atomicWrite(path+".meta.json", metaData); err != nil {
		return "", err
	}

	e.logger.Info("json экспорт записан",
		zap.String("path", path),
		zap.Int("count", len(enterprises)))
	return path, nil
}

// atomicWrite защищает от недописанных файлов при падении посреди
// записи: rename в пределах каталога атомарен.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename export file: %w", err)
	}
	return nil
}

// collectStatistics - сводка по выгрузке для сайдкара.
func collectStatistics(enterprises []domain.Enterprise) map[string]any {
	stats := map[string]any{
		"total": len(enterprises),
	}
	if len(enterprises) == 0 {
		return stats
	}

	withServices, withReviews, withSchedule := 0, 0, 0
	totalCompleteness := 0.0
	for i := range enterprises {
		ent := &enterprises[i]
		if len(ent.Services) > 0 {
			withServices++
		}
		if len(ent.Reviews) > 0 {
			withReviews++
		}
		if ent.WorkingHours.HasSchedule() {
			withSchedule++
		}
		totalCompleteness += ent.CompletenessScore()
	}

	stats["with_services"] = withServices
	stats["with_reviews"] = withReviews
	stats["with_schedule"] = withSchedule
	stats["avg_completeness"] = totalCompleteness / float64(len(enterprises))
	return stats
}
