package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/avkuzmin/bizextract/internal/domain"
)

type EnterpriseRepo struct {
	db *DB
}

func NewEnterpriseRepo(db *DB) *EnterpriseRepo {
	return &EnterpriseRepo{db: db}
}

// Save перезаписывает карточку и дочерние записи в одной транзакции.
// Конфликт по source_url - это повторная выгрузка той же страницы.
func (r *EnterpriseRepo) Save(ctx context.Context, sourceURL string, ent *domain.Enterprise) (int64, error) {
	scheduleJSON, err := json.Marshal(ent.WorkingHours.Schedule)
	if err != nil {
		return 0, fmt.Errorf("marshal schedule: %w", err)
	}
	metadataJSON, err := json.Marshal(ent.Metadata)
	if err != nil {
		return 0, fmt.Errorf("marshal metadata: %w", err)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO enterprises (
            source_url, name, category, address, phone, website,
            rating, reviews_count, current_status, schedule, schedule_notes,
            scraped_at, metadata
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (source_url) DO UPDATE SET
            name = EXCLUDED.name,
            category = EXCLUDED.category,
            address = EXCLUDED.address,
            phone = EXCLUDED.phone,
            website = EXCLUDED.website,
            rating = EXCLUDED.rating,
            reviews_count = EXCLUDED.reviews_count,
            current_status = EXCLUDED.current_status,
            schedule = EXCLUDED.schedule,
            schedule_notes = EXCLUDED.schedule_notes,
            scraped_at = EXCLUDED.scraped_at,
            metadata = EXCLUDED.metadata
        RETURNING id
    `

	var id int64
	err = tx.QueryRow(ctx, query,
		sourceURL,
		ent.Name,
		ent.Category,
		ent.Address,
		ent.Phone,
		ent.Website,
		ent.Rating,
		ent.ReviewsCount,
		ent.WorkingHours.CurrentStatus,
		scheduleJSON,
		ent.WorkingHours.Notes,
		ent.ScrapedAt,
		metadataJSON,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert enterprise: %w", err)
	}

	for _, table := range []string{"services", "reviews", "social_networks"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE enterprise_id = $1`, id); err != nil {
			return 0, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, svc := range ent.Services {
		_, err := tx.Exec(ctx, `
            INSERT INTO services (enterprise_id, name, price, price_from, price_to, description, duration)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
        `, id, svc.Name, svc.Price, svc.PriceFrom, svc.PriceTo, svc.Description, svc.Duration)
		if err != nil {
			return 0, fmt.Errorf("insert service: %w", err)
		}
	}

	for _, rev := range ent.Reviews {
		_, err := tx.Exec(ctx, `
            INSERT INTO reviews (enterprise_id, author, rating, review_date, text, response, helpful_count)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
        `, id, rev.Author, rev.Rating, rev.Date, rev.Text, rev.Response, rev.HelpfulCount)
		if err != nil {
			return 0, fmt.Errorf("insert review: %w", err)
		}
	}

	for network, link := range ent.Social.Active() {
		_, err := tx.Exec(ctx, `
            INSERT INTO social_networks (enterprise_id, network, url)
            VALUES ($1, $2, $3)
        `, id, network, link)
		if err != nil {
			return 0, fmt.Errorf("insert social network: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return id, nil
}

func (r *EnterpriseRepo) GetBySourceURL(ctx context.Context, sourceURL string) (*domain.Enterprise, error) {
	query := `
        SELECT id, name, category, address, phone, website,
               rating, reviews_count, current_status, schedule, schedule_notes,
               scraped_at, metadata
        FROM enterprises
        WHERE source_url = $1
    `

	var (
		id           int64
		ent          domain.Enterprise
		scheduleJSON []byte
		metadataJSON []byte
	)
	err := r.db.Pool.QueryRow(ctx, query, sourceURL).Scan(
		&id,
		&ent.Name,
		&ent.Category,
		&ent.Address,
		&ent.Phone,
		&ent.Website,
		&ent.Rating,
		&ent.ReviewsCount,
		&ent.WorkingHours.CurrentStatus,
		&scheduleJSON,
		&ent.WorkingHours.Notes,
		&ent.ScrapedAt,
		&metadataJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoRecord
		}
		return nil, fmt.Errorf("get enterprise: %w", err)
	}

	if len(scheduleJSON) > 0 {
		if err := json.Unmarshal(scheduleJSON, &ent.WorkingHours.Schedule); err != nil {
			return nil, fmt.Errorf("unmarshal schedule: %w", err)
		}
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &ent.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	if err := r.loadChildren(ctx, id, &ent); err != nil {
		return nil, err
	}
	return &ent, nil
}

func (r *EnterpriseRepo) loadChildren(ctx context.Context, id int64, ent *domain.Enterprise) error {
	rows, err := r.db.Pool.Query(ctx, `
        SELECT name, price, price_from, price_to, description, duration
        FROM services WHERE enterprise_id = $1 ORDER BY id
    `, id)
	if err != nil {
		return fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(&svc.Name, &svc.Price, &svc.PriceFrom, &svc.PriceTo, &svc.Description, &svc.Duration); err != nil {
			return fmt.Errorf("scan service: %w", err)
		}
		ent.Services = append(ent.Services, svc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("services rows: %w", err)
	}

	revRows, err := r.db.Pool.Query(ctx, `
        SELECT author, rating, review_date, text, response, helpful_count
        FROM reviews WHERE enterprise_id = $1 ORDER BY id
    `, id)
	if err != nil {
		return fmt.Errorf("list reviews: %w", err)
	}
	defer revRows.Close()

	for revRows.Next() {
		var rev domain.Review
		if err := revRows.Scan(&rev.Author, &rev.Rating, &rev.Date, &rev.Text, &rev.Response, &rev.HelpfulCount); err != nil {
			return fmt.Errorf("scan review: %w", err)
		}
		ent.Reviews = append(ent.Reviews, rev)
	}
	if err := revRows.Err(); err != nil {
		return fmt.Errorf("reviews rows: %w", err)
	}

	socRows, err := r.db.Pool.Query(ctx, `
        SELECT network, url FROM social_networks WHERE enterprise_id = $1
    `, id)
	if err != nil {
		return fmt.Errorf("list social networks: %w", err)
	}
	defer socRows.Close()

	for socRows.Next() {
		var network, link string
		if err := socRows.Scan(&network, &link); err != nil {
			return fmt.Errorf("scan social network: %w", err)
		}
		switch network {
		case "telegram":
			ent.Social.Telegram = link
		case "whatsapp":
			ent.Social.WhatsApp = link
		case "vk":
			ent.Social.VK = link
		}
	}
	if err := socRows.Err(); err != nil {
		return fmt.Errorf("social rows: %w", err)
	}

	return nil
}

func (r *EnterpriseRepo) List(ctx context.Context, limit int) ([]domain.Enterprise, error) {
	query := `
        SELECT id, name, category, address, phone, website,
               rating, reviews_count, current_status, schedule, schedule_notes,
               scraped_at, metadata
        FROM enterprises
        ORDER BY scraped_at DESC
        LIMIT $1
    `

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list enterprises: %w", err)
	}
	defer rows.Close()

	type rec struct {
		id  int64
		ent domain.Enterprise
	}
	var recs []rec

	for rows.Next() {
		var (
			item         rec
			scheduleJSON []byte
			metadataJSON []byte
		)
		err := rows.Scan(
			&item.id,
			&item.ent.Name,
			&item.ent.Category,
			&item.ent.Address,
			&item.ent.Phone,
			&item.ent.Website,
			&item.ent.Rating,
			&item.ent.ReviewsCount,
			&item.ent.WorkingHours.CurrentStatus,
			&scheduleJSON,
			&item.ent.WorkingHours.Notes,
			&item.ent.ScrapedAt,
			&metadataJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan enterprise: %w", err)
		}
		if len(scheduleJSON) > 0 {
			if err := json.Unmarshal(scheduleJSON, &item.ent.WorkingHours.Schedule); err != nil {
				return nil, fmt.Errorf("unmarshal schedule: %w", err)
			}
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &item.ent.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		recs = append(recs, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	enterprises := make([]domain.Enterprise, 0, len(recs))
	for _, item := range recs {
		if err := r.loadChildren(ctx, item.id, &item.ent); err != nil {
			return nil, err
		}
		enterprises = append(enterprises, item.ent)
	}
	return enterprises, nil
}

func (r *EnterpriseRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM enterprises`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count enterprises: %w", err)
	}
	return count, nil
}
