package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"marketplace_api/internal/domain"
)

// commitFailDriver accepts every statement but refuses to commit, so the
// order insert appears to succeed right up to the transaction boundary.
type commitFailDriver struct{}

func (commitFailDriver) Open(string) (driver.Conn, error) { return &commitFailConn{}, nil }

type commitFailConn struct{}

func (c *commitFailConn) Prepare(string) (driver.Stmt, error) { return &commitFailStmt{}, nil }
func (c *commitFailConn) Close() error                        { return nil }
func (c *commitFailConn) Begin() (driver.Tx, error)           { return commitFailTx{}, nil }

type commitFailTx struct{}

func (commitFailTx) Commit() error   { return errors.New("commit refused") }
func (commitFailTx) Rollback() error { return nil }

type commitFailStmt struct{}

func (s *commitFailStmt) Close() error  { return nil }
func (s *commitFailStmt) NumInput() int { return -1 }

func (s *commitFailStmt) Exec([]driver.Value) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}

func (s *commitFailStmt) Query([]driver.Value) (driver.Rows, error) {
	return &timestampRows{}, nil
}

type timestampRows struct{ done bool }

func (r *timestampRows) Columns() []string { return []string{"created_at", "updated_at"} }
func (r *timestampRows) Close() error      { return nil }

func (r *timestampRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	now := time.Now()
	dest[0], dest[1] = now, now
	return nil
}

func init() {
	sql.Register("commitfail", commitFailDriver{})
}

func TestCreateOrderSurfacesCommitFailure(t *testing.T) {
	db, err := sql.Open("commitfail", "")
	require.NoError(t, err)
	defer db.Close()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	repo := NewPostgresOrderRepository(db, log)

	order, err := repo.Create(&domain.Order{
		UserID:     "buyer-1",
		TotalPrice: 42,
		Cart: []domain.CartItem{
			{ProductID: "prod-1", ShopID: "shop-1", Name: "mug", Qty: 1, Price: 42},
		},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "commit")
	require.Nil(t, order)
}
