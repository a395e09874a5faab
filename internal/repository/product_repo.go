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

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{db: db, log: logger}
}

const productColumns = `id, shop_id, name, description, category, tags, original_price,
        discount_price, stock, sold_out, images, ratings, created_at, updated_at`

func (r *postgresProductRepository) Create(product *domain.Product) (*domain.Product, error) {
	images, err := jsonbValue(product.Images)
	if err != nil {
		return nil, err
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	query := `
        INSERT INTO products (id, shop_id, name, description, category, tags,
                              original_price, discount_price, stock, images)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING created_at, updated_at`

	err = r.db.QueryRow(query, product.ID, product.ShopID, product.Name, product.Description,
		product.Category, product.Tags, product.OriginalPrice, product.DiscountPrice,
		product.Stock, images).
		Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			return nil, fmt.Errorf("%w: product data constraint violation: %s", domain.ErrBadRequest, pqErr.Message)
		}
		r.log.Errorf("Repository: failed to create product %s: %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}

	product.Reviews = []domain.Review{}
	r.log.Infof("Repository: product created with ID %s for shop %s", product.ID, product.ShopID)
	return product, nil
}

func scanProduct(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Product, error) {
	product := &domain.Product{}
	var images []byte
	err := scanner.Scan(
		&product.ID,
		&product.ShopID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.Tags,
		&product.OriginalPrice,
		&product.DiscountPrice,
		&product.Stock,
		&product.SoldOut,
		&images,
		&product.Ratings,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := scanJSONB(images, &product.Images); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *postgresProductRepository) GetByID(id string) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %s not found", domain.ErrNotFound, id)
		}
		r.log.Errorf("Repository: failed to get product %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve product: %w", err)
	}
	reviews, err := r.ListReviews(id)
	if err != nil {
		return nil, err
	}
	product.Reviews = reviews
	return product, nil
}

func (r *postgresProductRepository) list(query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Repository: failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning product row: %w", err)
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func (r *postgresProductRepository) ListAll() ([]domain.Product, error) {
	return r.list(`SELECT ` + productColumns + ` FROM products ORDER BY updated_at DESC, created_at DESC`)
}

func (r *postgresProductRepository) ListByShop(shopID string) ([]domain.Product, error) {
	return r.list(`SELECT `+productColumns+` FROM products WHERE shop_id = $1 ORDER BY updated_at DESC, created_at DESC`, shopID)
}

func (r *postgresProductRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: failed to delete product %s: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s not found", domain.ErrNotFound, id)
	}
	r.log.Infof("Repository: product %s deleted", id)
	return nil
}

// DeductStock keeps stock+sold_out invariant in a single guarded statement.
func (r *postgresProductRepository) DeductStock(id string, qty int) error {
	res, err := r.db.Exec(`
        UPDATE products
        SET stock = stock - $1, sold_out = sold_out + $1, updated_at = now()
        WHERE id = $2 AND stock >= $1`, qty, id)
	if err != nil {
		r.log.Errorf("Repository: failed to deduct stock for product %s: %v", id, err)
		return fmt.Errorf("could not deduct stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if exists, err := r.exists(id); err != nil {
			return err
		} else if !exists {
			return fmt.Errorf("%w: product %s not found", domain.ErrNotFound, id)
		}
		return fmt.Errorf("%w: insufficient stock for product %s", domain.ErrBadRequest, id)
	}
	return nil
}

func (r *postgresProductRepository) RestoreStock(id string, qty int) error {
	res, err := r.db.Exec(`
        UPDATE products
        SET stock = stock + $1, sold_out = sold_out - $1, updated_at = now()
        WHERE id = $2 AND sold_out >= $1`, qty, id)
	if err != nil {
		r.log.Errorf("Repository: failed to restore stock for product %s: %v", id, err)
		return fmt.Errorf("could not restore stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if exists, err := r.exists(id); err != nil {
			return err
		} else if !exists {
			return fmt.Errorf("%w: product %s not found", domain.ErrNotFound, id)
		}
		return fmt.Errorf("%w: sold count below restore quantity for product %s", domain.ErrBadRequest, id)
	}
	return nil
}

func (r *postgresProductRepository) exists(id string) (bool, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(1) FROM products WHERE id = $1`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("could not check product existence: %w", err)
	}
	return n > 0, nil
}

func (r *postgresProductRepository) UpsertReview(productID string, review domain.Review) error {
	_, err := r.db.Exec(`
        INSERT INTO product_reviews (id, product_id, user_id, user_name, rating, comment)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (product_id, user_id)
        DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, user_name = EXCLUDED.user_name`,
		uuid.NewString(), productID, review.UserID, review.UserName, review.Rating, review.Comment)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("%w: product %s not found", domain.ErrNotFound, productID)
		}
		r.log.Errorf("Repository: failed to upsert review for product %s: %v", productID, err)
		return fmt.Errorf("could not save review: %w", err)
	}
	return nil
}

func (r *postgresProductRepository) ListReviews(productID string) ([]domain.Review, error) {
	rows, err := r.db.Query(`
        SELECT user_id, user_name, rating, comment, created_at
        FROM product_reviews WHERE product_id = $1 ORDER BY created_at`, productID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(&review.UserID, &review.UserName, &review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *postgresProductRepository) SetRatings(productID string, ratings float64) error {
	res, err := r.db.Exec(`UPDATE products SET ratings = $1, updated_at = now() WHERE id = $2`, ratings, productID)
	if err != nil {
		r.log.Errorf("Repository: failed to set ratings for product %s: %v", productID, err)
		return fmt.Errorf("could not set ratings: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s not found", domain.ErrNotFound, productID)
	}
	return nil
}
