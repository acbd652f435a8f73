package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/gauntlet/internal/logger"
	"github.com/vytor/gauntlet/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const kvTable = "kv_store"

type kvRepository struct {
	db *sql.DB
}

// NewKVRepository creates a KVRepository backed by the kv_store table.
func NewKVRepository(db *sql.DB) repository.KVRepository {
	return &kvRepository{db: db}
}

func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("getting key: %s", key)

	query, args, err := sqlBuilder.Select("value").From(kvTable).Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var value []byte
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("key not found: %s", key)
			return nil, nil
		}
		log.Error("failed to get key %s: %v", key, err)
		return nil, err
	}
	log.Debug("key found: %s, bytes=%d", key, len(value))
	return value, nil
}

func (r *kvRepository) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("setting key: %s, bytes=%d", key, len(value))

	query, args, err := sqlBuilder.Insert(kvTable).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to set key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("deleting key: %s", key)

	query, args, err := sqlBuilder.Delete(kvTable).Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete key %s: %v", key, err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		log.Debug("deleted key: %s, rows=%d", key, n)
	}
	return nil
}
