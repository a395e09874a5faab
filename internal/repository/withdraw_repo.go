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

type postgresWithdrawRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresWithdrawRepository(db *sql.DB, logger *logrus.Logger) domain.WithdrawRepository {
	return &postgresWithdrawRepository{db: db, log: logger}
}

func (r *postgresWithdrawRepository) Create(withdraw *domain.Withdraw) (*domain.Withdraw, error) {
	if withdraw.ID == "" {
		withdraw.ID = uuid.NewString()
	}
	if withdraw.Status == "" {
		withdraw.Status = domain.WithdrawPending
	}

	query := `
        INSERT INTO withdraws (id, shop_id, amount, status)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`
	err := r.db.QueryRow(query, withdraw.ID, withdraw.ShopID, withdraw.Amount, withdraw.Status).
		Scan(&withdraw.CreatedAt, &withdraw.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to create withdraw for shop %s: %v", withdraw.ShopID, err)
		return nil, fmt.Errorf("could not create withdraw: %w", err)
	}
	return withdraw, nil
}

func (r *postgresWithdrawRepository) GetByID(id string) (*domain.Withdraw, error) {
	withdraw := &domain.Withdraw{}
	err := r.db.QueryRow(`
        SELECT id, shop_id, amount, status, created_at, updated_at
        FROM withdraws WHERE id = $1`, id).
		Scan(&withdraw.ID, &withdraw.ShopID, &withdraw.Amount, &withdraw.Status, &withdraw.CreatedAt, &withdraw.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: withdraw not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to get withdraw %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve withdraw: %w", err)
	}
	return withdraw, nil
}

func (r *postgresWithdrawRepository) ListAll() ([]domain.Withdraw, error) {
	rows, err := r.db.Query(`
        SELECT id, shop_id, amount, status, created_at, updated_at
        FROM withdraws ORDER BY updated_at DESC, created_at DESC`)
	if err != nil {
		r.log.Errorf("Repository: failed to list withdraws: %v", err)
		return nil, fmt.Errorf("could not retrieve withdraws: %w", err)
	}
	defer rows.Close()

	var withdraws []domain.Withdraw
	for rows.Next() {
		var withdraw domain.Withdraw
		if err := rows.Scan(&withdraw.ID, &withdraw.ShopID, &withdraw.Amount, &withdraw.Status, &withdraw.CreatedAt, &withdraw.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning withdraw row: %w", err)
		}
		withdraws = append(withdraws, withdraw)
	}
	return withdraws, rows.Err()
}

func (r *postgresWithdrawRepository) Approve(id string) (*domain.Withdraw, error) {
	res, err := r.db.Exec(`
        UPDATE withdraws SET status = $1, updated_at = now()
        WHERE id = $2 AND status = $3`, domain.WithdrawSucceeded, id, domain.WithdrawPending)
	if err != nil {
		r.log.Errorf("Repository: failed to approve withdraw %s: %v", id, err)
		return nil, fmt.Errorf("could not update withdraw: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: withdraw request is not pending", domain.ErrBadRequest)
	}
	return r.GetByID(id)
}
