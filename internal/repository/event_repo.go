package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
)

type postgresEventRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresEventRepository(db *sql.DB, logger *logrus.Logger) domain.EventRepository {
	return &postgresEventRepository{db: db, log: logger}
}

const eventColumns = `id, shop_id, name, description, category, start_date, finish_date, status,
        original_price, discount_price, stock, sold_out, images, created_at, updated_at`

func (r *postgresEventRepository) Create(event *domain.Event) (*domain.Event, error) {
	images, err := jsonbValue(event.Images)
	if err != nil {
		return nil, err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Status == "" {
		event.Status = "Running"
	}

	query := `
        INSERT INTO events (id, shop_id, name, description, category, start_date, finish_date,
                            status, original_price, discount_price, stock, images)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING created_at, updated_at`
	err = r.db.QueryRow(query, event.ID, event.ShopID, event.Name, event.Description, event.Category,
		event.StartDate, event.FinishDate, event.Status, event.OriginalPrice, event.DiscountPrice,
		event.Stock, images).
		Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to create event %s: %v", event.Name, err)
		return nil, fmt.Errorf("could not create event: %w", err)
	}

	r.log.Infof("Repository: event created with ID %s for shop %s", event.ID, event.ShopID)
	return event, nil
}

func scanEvent(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Event, error) {
	event := &domain.Event{}
	var images []byte
	err := scanner.Scan(
		&event.ID,
		&event.ShopID,
		&event.Name,
		&event.Description,
		&event.Category,
		&event.StartDate,
		&event.FinishDate,
		&event.Status,
		&event.OriginalPrice,
		&event.DiscountPrice,
		&event.Stock,
		&event.SoldOut,
		&images,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := scanJSONB(images, &event.Images); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *postgresEventRepository) GetByID(id string) (*domain.Event, error) {
	event, err := scanEvent(r.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: event not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to get event %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve event: %w", err)
	}
	return event, nil
}

func (r *postgresEventRepository) list(query string, args ...interface{}) ([]domain.Event, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Repository: failed to list events: %v", err)
		return nil, fmt.Errorf("could not retrieve events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) ListAll() ([]domain.Event, error) {
	return r.list(`SELECT ` + eventColumns + ` FROM events ORDER BY updated_at DESC, created_at DESC`)
}

func (r *postgresEventRepository) ListByShop(shopID string) ([]domain.Event, error) {
	return r.list(`SELECT `+eventColumns+` FROM events WHERE shop_id = $1 ORDER BY updated_at DESC, created_at DESC`, shopID)
}

func (r *postgresEventRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: failed to delete event %s: %v", id, err)
		return fmt.Errorf("could not delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: event not found", domain.ErrNotFound)
	}
	r.log.Infof("Repository: event %s deleted", id)
	return nil
}
