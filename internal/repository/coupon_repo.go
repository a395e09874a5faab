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

type postgresCouponRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCouponRepository(db *sql.DB, logger *logrus.Logger) domain.CouponRepository {
	return &postgresCouponRepository{db: db, log: logger}
}

const couponColumns = `id, name, value, min_amount, max_amount, shop_id, selected_product, created_at`

func (r *postgresCouponRepository) Create(coupon *domain.Coupon) (*domain.Coupon, error) {
	if coupon.ID == "" {
		coupon.ID = uuid.NewString()
	}

	query := `
        INSERT INTO coupons (id, name, value, min_amount, max_amount, shop_id, selected_product)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`
	err := r.db.QueryRow(query, coupon.ID, coupon.Name, coupon.Value, coupon.MinAmount,
		coupon.MaxAmount, coupon.ShopID, coupon.SelectedProduct).
		Scan(&coupon.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// Unique backstop for the race between pre-check and insert.
			r.log.Warnf("Repository: attempted to create duplicate coupon %s", coupon.Name)
			return nil, fmt.Errorf("%w: coupon already exists", domain.ErrBadRequest)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to create coupon %s: %v", coupon.Name, err)
		return nil, fmt.Errorf("could not create coupon: %w", err)
	}

	r.log.Infof("Repository: coupon %s created for shop %s", coupon.Name, coupon.ShopID)
	return coupon, nil
}

func (r *postgresCouponRepository) getBy(query string, arg interface{}) (*domain.Coupon, error) {
	coupon := &domain.Coupon{}
	err := r.db.QueryRow(query, arg).Scan(
		&coupon.ID,
		&coupon.Name,
		&coupon.Value,
		&coupon.MinAmount,
		&coupon.MaxAmount,
		&coupon.ShopID,
		&coupon.SelectedProduct,
		&coupon.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: coupon not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to get coupon: %v", err)
		return nil, fmt.Errorf("could not retrieve coupon: %w", err)
	}
	return coupon, nil
}

func (r *postgresCouponRepository) GetByName(name string) (*domain.Coupon, error) {
	return r.getBy(`SELECT `+couponColumns+` FROM coupons WHERE name = $1`, name)
}

func (r *postgresCouponRepository) GetByID(id string) (*domain.Coupon, error) {
	return r.getBy(`SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id)
}

func (r *postgresCouponRepository) ListByShop(shopID string) ([]domain.Coupon, error) {
	rows, err := r.db.Query(`SELECT `+couponColumns+` FROM coupons WHERE shop_id = $1 ORDER BY created_at DESC`, shopID)
	if err != nil {
		r.log.Errorf("Repository: failed to list coupons for shop %s: %v", shopID, err)
		return nil, fmt.Errorf("could not retrieve coupons: %w", err)
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var coupon domain.Coupon
		if err := rows.Scan(&coupon.ID, &coupon.Name, &coupon.Value, &coupon.MinAmount,
			&coupon.MaxAmount, &coupon.ShopID, &coupon.SelectedProduct, &coupon.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning coupon row: %w", err)
		}
		coupons = append(coupons, coupon)
	}
	return coupons, rows.Err()
}

func (r *postgresCouponRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: failed to delete coupon %s: %v", id, err)
		return fmt.Errorf("could not delete coupon: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: coupon not found", domain.ErrNotFound)
	}
	return nil
}
