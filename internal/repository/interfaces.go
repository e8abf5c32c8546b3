package repository

import (
	"context"

	"github.com/avkuzmin/bizextract/internal/domain"
)

// EnterpriseRepository - хранилище извлечённых карточек. Save
// идемпотентен по URL источника: повторная выгрузка той же страницы
// перезаписывает карточку и её дочерние записи.
type EnterpriseRepository interface {
	Save(ctx context.Context, sourceURL string, ent *domain.Enterprise) (int64, error)
	GetBySourceURL(ctx context.Context, sourceURL string) (*domain.Enterprise, error)
	List(ctx context.Context, limit int) ([]domain.Enterprise, error)
	Count(ctx context.Context) (int, error)
}
