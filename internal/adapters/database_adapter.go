package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shard-legends/alchemy-service/internal/database"
	"github.com/shard-legends/alchemy-service/internal/storage"
)

// pgxQuerier - общее подмножество pgxpool.Pool и pgx.Tx
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// querier адаптирует pgxQuerier для storage.Querier
type querier struct {
	q pgxQuerier
}

// QueryRow выполняет запрос, ожидающий одну строку результата
func (a querier) QueryRow(ctx context.Context, query string, args ...interface{}) storage.Row {
	return a.q.QueryRow(ctx, query, args...)
}

// Query выполняет запрос, возвращающий множество строк
func (a querier) Query(ctx context.Context, query string, args ...interface{}) (storage.Rows, error) {
	rows, err := a.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &RowsAdapter{rows: rows}, nil
}

// Exec выполняет запрос без возврата строк
func (a querier) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := a.q.Exec(ctx, query, args...)
	return err
}

// DatabaseAdapter адаптирует database.DB для storage.DatabaseInterface
type DatabaseAdapter struct {
	querier
	db *database.DB
}

// NewDatabaseAdapter создает новый адаптер для базы данных
func NewDatabaseAdapter(db *database.DB) storage.DatabaseInterface {
	return &DatabaseAdapter{querier: querier{q: db.Pool()}, db: db}
}

// BeginTx начинает транзакцию. Commit и Rollback используют контекст начала транзакции.
func (a *DatabaseAdapter) BeginTx(ctx context.Context) (storage.Tx, error) {
	tx, err := a.db.Pool().Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &TxAdapter{querier: querier{q: tx}, tx: tx, ctx: ctx}, nil
}

// Health проверяет состояние базы данных
func (a *DatabaseAdapter) Health(ctx context.Context) error {
	return a.db.Health(ctx)
}

// RowsAdapter адаптирует pgx.Rows для storage.Rows
type RowsAdapter struct {
	rows pgx.Rows
}

// Next переходит к следующей строке
func (r *RowsAdapter) Next() bool {
	return r.rows.Next()
}

// Scan сканирует текущую строку в переданные указатели
func (r *RowsAdapter) Scan(dest ...interface{}) error {
	return r.rows.Scan(dest...)
}

// Err возвращает ошибку, возникшую во время итерации
func (r *RowsAdapter) Err() error {
	return r.rows.Err()
}

// Close закрывает rows
func (r *RowsAdapter) Close() {
	r.rows.Close()
}

// TxAdapter адаптирует pgx.Tx для storage.Tx
type TxAdapter struct {
	querier
	tx  pgx.Tx
	ctx context.Context
}

// Commit подтверждает транзакцию
func (t *TxAdapter) Commit() error {
	return t.tx.Commit(t.ctx)
}

// Rollback отменяет транзакцию. Откат уже завершенной транзакции не считается ошибкой.
func (t *TxAdapter) Rollback() error {
	err := t.tx.Rollback(context.WithoutCancel(t.ctx))
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}
