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

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{db: db, log: logger}
}

func (r *postgresUserRepository) Create(user *domain.User) (*domain.User, error) {
	avatar, err := jsonbValue(user.Avatar)
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	query := `
        INSERT INTO users (id, name, email, password_hash, phone, role, avatar)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`

	err = r.db.QueryRow(query, user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, user.Role, avatar).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: attempted to create user with duplicate email: %s", user.Email)
			return nil, fmt.Errorf("%w: user already exists", domain.ErrBadRequest)
		}
		r.log.Errorf("Repository: failed to create user %s: %v", user.Email, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	r.log.Infof("Repository: user created with ID %s", user.ID)
	return user, nil
}

func (r *postgresUserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var avatar []byte
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Role,
		&avatar,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := scanJSONB(avatar, &user.Avatar); err != nil {
		return nil, err
	}
	return user, nil
}

const userColumns = `id, name, email, password_hash, phone, role, avatar, created_at, updated_at`

func (r *postgresUserRepository) GetByEmail(email string) (*domain.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to get user by email %s: %v", email, err)
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}
	return r.attachAddresses(user)
}

func (r *postgresUserRepository) GetByID(id string) (*domain.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to get user by ID %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}
	return r.attachAddresses(user)
}

func (r *postgresUserRepository) attachAddresses(user *domain.User) (*domain.User, error) {
	rows, err := r.db.Query(`
        SELECT id, country, city, address1, address2, zip_code, address_type
        FROM user_addresses WHERE user_id = $1`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve user addresses: %w", err)
	}
	defer rows.Close()

	user.Addresses = []domain.Address{}
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.Country, &a.City, &a.Address1, &a.Address2, &a.ZipCode, &a.AddressType); err != nil {
			return nil, fmt.Errorf("error scanning user address: %w", err)
		}
		user.Addresses = append(user.Addresses, a)
	}
	return user, rows.Err()
}

func (r *postgresUserRepository) UpdateInfo(user *domain.User) (*domain.User, error) {
	query := `
        UPDATE users
        SET name = $1, email = $2, phone = $3, updated_at = now()
        WHERE id = $4
        RETURNING updated_at`
	err := r.db.QueryRow(query, user.Name, user.Email, user.Phone, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%w: email already in use", domain.ErrBadRequest)
		}
		r.log.Errorf("Repository: failed to update user %s: %v", user.ID, err)
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	return r.attachAddresses(user)
}

func (r *postgresUserRepository) UpdateAvatar(id string, avatar domain.Image) (*domain.User, error) {
	raw, err := jsonbValue(avatar)
	if err != nil {
		return nil, err
	}
	res, err := r.db.Exec(`UPDATE users SET avatar = $1, updated_at = now() WHERE id = $2`, raw, id)
	if err != nil {
		r.log.Errorf("Repository: failed to update avatar for user %s: %v", id, err)
		return nil, fmt.Errorf("could not update avatar: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}
	return r.GetByID(id)
}

func (r *postgresUserRepository) AddAddress(userID string, address domain.Address) (*domain.User, error) {
	if address.ID == "" {
		address.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`
        INSERT INTO user_addresses (id, user_id, country, city, address1, address2, zip_code, address_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		address.ID, userID, address.Country, address.City, address.Address1, address.Address2, address.ZipCode, address.AddressType)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to add address for user %s: %v", userID, err)
		return nil, fmt.Errorf("could not add address: %w", err)
	}
	return r.GetByID(userID)
}

func (r *postgresUserRepository) DeleteAddress(userID, addressID string) (*domain.User, error) {
	res, err := r.db.Exec(`DELETE FROM user_addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		r.log.Errorf("Repository: failed to delete address %s for user %s: %v", addressID, userID, err)
		return nil, fmt.Errorf("could not delete address: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: address not found", domain.ErrNotFound)
	}
	return r.GetByID(userID)
}

func (r *postgresUserRepository) ListAll() ([]domain.User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		r.log.Errorf("Repository: failed to list users: %v", err)
		return nil, fmt.Errorf("could not retrieve users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		var avatar []byte
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone, &user.Role,
			&avatar, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		if err := scanJSONB(avatar, &user.Avatar); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: failed to delete user %s: %v", id, err)
		return fmt.Errorf("could not delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}
	r.log.Infof("Repository: user %s deleted", id)
	return nil
}
