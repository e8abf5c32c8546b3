package fetcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Source отдаёт сырые документы по ссылке. Живой обход карт сюда
// не входит: источником может быть каталог сохранённых страниц,
// прокси к внешнему скрейперу и так далее.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, ref string) (*RawDocument, error)
}

// DirSource - источник из каталога сохранённых HTML страниц.
// Ссылка документа - имя файла относительно каталога.
type DirSource struct {
	dir    string
	logger *zap.Logger
}

func NewDirSource(dir string, logger *zap.Logger) *DirSource {
	return &DirSource{dir: dir, logger: logger}
}

// List возвращает отсортированный список html файлов каталога.
func (s *DirSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var refs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".html" && ext != ".htm" {
			continue
		}
		refs = append(refs, name)
	}

	sort.Strings(refs)
	s.logger.Debug("каталог страниц прочитан",
		zap.String("dir", s.dir),
		zap.Int("files", len(refs)))
	return refs, nil
}

func (s *DirSource) Fetch(ctx context.Context, ref string) (*RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, ref))
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", ref, err)
	}
	defer f.Close()

	doc, err := ExtractDocument("", f)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", ref, err)
	}
	if doc.URL == "" {
		doc.URL = "file://" + filepath.Join(s.dir, ref)
	}
	return doc, nil
}
