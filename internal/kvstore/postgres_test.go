package kvstore_test

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/pinmap/internal/kvstore"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	getValueQuery = `
		SELECT value
		FROM kv_entries
		WHERE key = $1;
	`
	setValueQuery = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET
			value = EXCLUDED.value,
			updated_at = now();
	`
)

func TestPostgresStore_Get(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	key := "SavedLocations"

	t.Run("error - query value", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := kvstore.NewPostgresStore(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(getValueQuery)).
			WithArgs(key).
			WillReturnError(assert.AnError)

		value, err := store.Get(ctx, key)

		require.Nil(t, value)
		require.ErrorContains(t, err, "failed to query value")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - no rows", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := kvstore.NewPostgresStore(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(getValueQuery)).
			WithArgs(key).
			WillReturnError(pgx.ErrNoRows)

		value, err := store.Get(ctx, key)

		require.Nil(t, value)
		require.ErrorIs(t, err, kvstore.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - value found", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := kvstore.NewPostgresStore(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(getValueQuery)).
			WithArgs(key).
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

		value, err := store.Get(ctx, key)

		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Set(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	key := "SavedLocations"
	value := []byte(`[{"id":"x"}]`)

	t.Run("error - upsert value", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := kvstore.NewPostgresStore(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(setValueQuery)).
			WithArgs(key, value).
			WillReturnError(assert.AnError)

		err = store.Set(ctx, key, value)

		require.ErrorContains(t, err, "failed to upsert value")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - upsert value", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := kvstore.NewPostgresStore(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(setValueQuery)).
			WithArgs(key, value).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, store.Set(ctx, key, value))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("error - create table", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := kvstore.NewPostgresStore(mock, logger)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_entries").WillReturnError(assert.AnError)

		err = store.EnsureSchema(ctx)

		require.ErrorContains(t, err, "failed to create kv_entries table")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - create table", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := kvstore.NewPostgresStore(mock, logger)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_entries").
			WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

		require.NoError(t, store.EnsureSchema(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
