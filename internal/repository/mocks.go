package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/avkuzmin/bizextract/internal/domain"
)

// MockEnterpriseRepository - потокобезопасное хранилище в памяти
// для тестов сервисного слоя. Ключ - URL источника.
type MockEnterpriseRepository struct {
	mu      sync.RWMutex
	byURL   map[string]*domain.Enterprise
	ids     map[string]int64
	nextID  int64
	SaveErr error // если задан, Save возвращает его
}

func NewMockEnterpriseRepository() *MockEnterpriseRepository {
	return &MockEnterpriseRepository{
		byURL:  make(map[string]*domain.Enterprise),
		ids:    make(map[string]int64),
		nextID: 1,
	}
}

func (m *MockEnterpriseRepository) Save(ctx context.Context, sourceURL string, ent *domain.Enterprise) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return 0, m.SaveErr
	}

	id, exists := m.ids[sourceURL]
	if !exists {
		id = m.nextID
		m.nextID++
		m.ids[sourceURL] = id
	}

	clone := *ent
	m.byURL[sourceURL] = &clone
	return id, nil
}

func (m *MockEnterpriseRepository) GetBySourceURL(ctx context.Context, sourceURL string) (*domain.Enterprise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if ent, exists := m.byURL[sourceURL]; exists {
		clone := *ent
		return &clone, nil
	}
	return nil, domain.ErrNoRecord
}

func (m *MockEnterpriseRepository) List(ctx context.Context, limit int) ([]domain.Enterprise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	urls := make([]string, 0, len(m.byURL))
	for u := range m.byURL {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	var result []domain.Enterprise
	for _, u := range urls {
		result = append(result, *m.byURL[u])
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockEnterpriseRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.byURL), nil
}
