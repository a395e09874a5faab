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

type postgresShopRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresShopRepository(db *sql.DB, logger *logrus.Logger) domain.ShopRepository {
	return &postgresShopRepository{db: db, log: logger}
}

const shopColumns = `id, name, email, password_hash, description, address, phone, zip_code,
        avatar, available_balance, withdraw_method, created_at, updated_at`

func (r *postgresShopRepository) Create(shop *domain.Shop) (*domain.Shop, error) {
	avatar, err := jsonbValue(shop.Avatar)
	if err != nil {
		return nil, err
	}
	if shop.ID == "" {
		shop.ID = uuid.NewString()
	}

	query := `
        INSERT INTO shops (id, name, email, password_hash, description, address, phone, zip_code, avatar)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at, updated_at`

	err = r.db.QueryRow(query, shop.ID, shop.Name, shop.Email, shop.PasswordHash,
		shop.Description, shop.Address, shop.Phone, shop.ZipCode, avatar).
		Scan(&shop.CreatedAt, &shop.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: attempted to create shop with duplicate email: %s", shop.Email)
			return nil, fmt.Errorf("%w: shop already exists", domain.ErrBadRequest)
		}
		r.log.Errorf("Repository: failed to create shop %s: %v", shop.Email, err)
		return nil, fmt.Errorf("could not create shop: %w", err)
	}

	r.log.Infof("Repository: shop created with ID %s", shop.ID)
	return shop, nil
}

func (r *postgresShopRepository) scanShop(row *sql.Row) (*domain.Shop, error) {
	shop := &domain.Shop{}
	var avatar, withdrawMethod []byte
	err := row.Scan(
		&shop.ID,
		&shop.Name,
		&shop.Email,
		&shop.PasswordHash,
		&shop.Description,
		&shop.Address,
		&shop.Phone,
		&shop.ZipCode,
		&avatar,
		&shop.AvailableBalance,
		&withdrawMethod,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := scanJSONB(avatar, &shop.Avatar); err != nil {
		return nil, err
	}
	if len(withdrawMethod) > 0 {
		shop.WithdrawMethod = &domain.WithdrawMethod{}
		if err := scanJSONB(withdrawMethod, shop.WithdrawMethod); err != nil {
			return nil, err
		}
	}
	return shop, nil
}

func (r *postgresShopRepository) getBy(query string, arg interface{}) (*domain.Shop, error) {
	shop, err := r.scanShop(r.db.QueryRow(query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to get shop: %v", err)
		return nil, fmt.Errorf("could not retrieve shop: %w", err)
	}
	return r.attachTransactions(shop)
}

func (r *postgresShopRepository) GetByEmail(email string) (*domain.Shop, error) {
	return r.getBy(`SELECT `+shopColumns+` FROM shops WHERE email = $1`, email)
}

func (r *postgresShopRepository) GetByID(id string) (*domain.Shop, error) {
	return r.getBy(`SELECT `+shopColumns+` FROM shops WHERE id = $1`, id)
}

func (r *postgresShopRepository) attachTransactions(shop *domain.Shop) (*domain.Shop, error) {
	rows, err := r.db.Query(`
        SELECT id, amount, status, created_at, updated_at
        FROM shop_transactions WHERE shop_id = $1 ORDER BY created_at`, shop.ID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve shop transactions: %w", err)
	}
	defer rows.Close()

	shop.Transactions = []domain.Transaction{}
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(&txn.ID, &txn.Amount, &txn.Status, &txn.CreatedAt, &txn.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning shop transaction: %w", err)
		}
		shop.Transactions = append(shop.Transactions, txn)
	}
	return shop, rows.Err()
}

func (r *postgresShopRepository) UpdateInfo(shop *domain.Shop) (*domain.Shop, error) {
	query := `
        UPDATE shops
        SET name = $1, description = $2, address = $3, phone = $4, zip_code = $5, updated_at = now()
        WHERE id = $6
        RETURNING updated_at`
	err := r.db.QueryRow(query, shop.Name, shop.Description, shop.Address, shop.Phone, shop.ZipCode, shop.ID).
		Scan(&shop.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to update shop %s: %v", shop.ID, err)
		return nil, fmt.Errorf("could not update shop: %w", err)
	}
	return r.GetByID(shop.ID)
}

func (r *postgresShopRepository) UpdateAvatar(id string, avatar domain.Image) (*domain.Shop, error) {
	raw, err := jsonbValue(avatar)
	if err != nil {
		return nil, err
	}
	res, err := r.db.Exec(`UPDATE shops SET avatar = $1, updated_at = now() WHERE id = $2`, raw, id)
	if err != nil {
		r.log.Errorf("Repository: failed to update avatar for shop %s: %v", id, err)
		return nil, fmt.Errorf("could not update avatar: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
	}
	return r.GetByID(id)
}

func (r *postgresShopRepository) SetWithdrawMethod(id string, method *domain.WithdrawMethod) (*domain.Shop, error) {
	var raw interface{}
	if method != nil {
		var err error
		if raw, err = jsonbValue(method); err != nil {
			return nil, err
		}
	}
	res, err := r.db.Exec(`UPDATE shops SET withdraw_method = $1, updated_at = now() WHERE id = $2`, raw, id)
	if err != nil {
		r.log.Errorf("Repository: failed to set withdraw method for shop %s: %v", id, err)
		return nil, fmt.Errorf("could not update withdraw method: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
	}
	return r.GetByID(id)
}

// SetAvailableBalance overwrites the balance, matching the delivery payout
// semantics documented in DESIGN.md.
func (r *postgresShopRepository) SetAvailableBalance(id string, balance float64) error {
	res, err := r.db.Exec(`UPDATE shops SET available_balance = $1, updated_at = now() WHERE id = $2`, balance, id)
	if err != nil {
		r.log.Errorf("Repository: failed to set balance for shop %s: %v", id, err)
		return fmt.Errorf("could not update shop balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: shop not found", domain.ErrNotFound)
	}
	return nil
}

// DebitBalance is conditional on sufficient funds in the same statement, so
// two concurrent withdrawals cannot overdraw the balance.
func (r *postgresShopRepository) DebitBalance(id string, amount float64) error {
	res, err := r.db.Exec(`
        UPDATE shops SET available_balance = available_balance - $1, updated_at = now()
        WHERE id = $2 AND available_balance >= $1`, amount, id)
	if err != nil {
		r.log.Errorf("Repository: failed to debit shop %s: %v", id, err)
		return fmt.Errorf("could not debit shop balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: insufficient balance", domain.ErrBadRequest)
	}
	return nil
}

func (r *postgresShopRepository) CreditBalance(id string, amount float64) error {
	res, err := r.db.Exec(`
        UPDATE shops SET available_balance = available_balance + $1, updated_at = now()
        WHERE id = $2`, amount, id)
	if err != nil {
		r.log.Errorf("Repository: failed to credit shop %s: %v", id, err)
		return fmt.Errorf("could not credit shop balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: shop not found", domain.ErrNotFound)
	}
	return nil
}

func (r *postgresShopRepository) AppendTransaction(id string, txn domain.Transaction) (*domain.Shop, error) {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`
        INSERT INTO shop_transactions (id, shop_id, amount, status)
        VALUES ($1, $2, $3, $4)`, txn.ID, id, txn.Amount, txn.Status)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("%w: shop not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to append transaction for shop %s: %v", id, err)
		return nil, fmt.Errorf("could not append transaction: %w", err)
	}
	return r.GetByID(id)
}

func (r *postgresShopRepository) ListAll() ([]domain.Shop, error) {
	rows, err := r.db.Query(`SELECT ` + shopColumns + ` FROM shops ORDER BY created_at DESC`)
	if err != nil {
		r.log.Errorf("Repository: failed to list shops: %v", err)
		return nil, fmt.Errorf("could not retrieve shops: %w", err)
	}
	defer rows.Close()

	var shops []domain.Shop
	for rows.Next() {
		var shop domain.Shop
		var avatar, withdrawMethod []byte
		if err := rows.Scan(&shop.ID, &shop.Name, &shop.Email, &shop.PasswordHash, &shop.Description,
			&shop.Address, &shop.Phone, &shop.ZipCode, &avatar, &shop.AvailableBalance,
			&withdrawMethod, &shop.CreatedAt, &shop.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning shop row: %w", err)
		}
		if err := scanJSONB(avatar, &shop.Avatar); err != nil {
			return nil, err
		}
		if len(withdrawMethod) > 0 {
			shop.WithdrawMethod = &domain.WithdrawMethod{}
			if err := scanJSONB(withdrawMethod, shop.WithdrawMethod); err != nil {
				return nil, err
			}
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}

func (r *postgresShopRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: failed to delete shop %s: %v", id, err)
		return fmt.Errorf("could not delete shop: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: shop not found", domain.ErrNotFound)
	}
	r.log.Infof("Repository: shop %s deleted", id)
	return nil
}
