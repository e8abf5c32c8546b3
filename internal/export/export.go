package export

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/avkuzmin/bizextract/internal/domain"
	"github.com/avkuzmin/bizextract/internal/metrics"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Exporter - один формат выгрузки.
type Exporter interface {
	Export(enterprises []domain.Enterprise, name string) (string, error)
	Format() string
}

// Unified выбирает экспортёр по имени формата; "all" гонит выгрузку
// во все зарегистрированные форматы.
type Unified struct {
	exporters map[string]Exporter
	order     []string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewUnified(m *metrics.Metrics, logger *zap.Logger, exporters ...Exporter) *Unified {
	u := &Unified{
		exporters: make(map[string]Exporter),
		metrics:   m,
		logger:    logger,
	}
	for _, e := range exporters {
		if _, ok := u.exporters[e.Format()]; ok {
			continue
		}
		u.exporters[e.Format()] = e
		u.order = append(u.order, e.Format())
	}
	return u
}

// Export возвращает пути всех записанных файлов.
func (u *Unified) Export(format string, enterprises []domain.Enterprise, name string) ([]string, error) {
	formats := []string{format}
	if format == "all" {
		formats = u.order
	}

	var paths []string
	for _, f := range formats {
		exporter, ok := u.exporters[f]
		if !ok {
			return paths, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
		}

		path, err := exporter.Export(enterprises, name)
		if err != nil {
			u.metrics.RecordExport(f, "error")
			return paths, fmt.Errorf("export %s: %w", f, err)
		}
		u.metrics.RecordExport(f, "ok")
		paths = append(paths, path)
	}

	u.logger.Info("экспорт завершён",
		zap.String("format", format),
		zap.Strings("paths", paths))
	return paths, nil
}
