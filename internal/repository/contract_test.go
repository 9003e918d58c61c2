package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staff-service/internal/entity"
	"staff-service/internal/repository"
	"staff-service/internal/testutil"
)

// runUserRepositoryContract exercises the repository against a migrated
// database. Every case that writes runs in a rolled-back transaction, except
// the conflict case which needs a committed row to compare against.
func runUserRepositoryContract(t *testing.T, db *sql.DB, dialect repository.Dialect) {
	ctx := context.Background()
	pool := repository.NewUserRepository(db, dialect)

	t.Run("CreateThenGet", func(t *testing.T) {
		testutil.WithRollback(t, db, func(tx *sql.Tx) {
			repo := pool.WithTx(tx)
			want := entity.User{Username: "alice", FirstName: "Alice", LastName: "Liddell", Role: "nurse"}

			require.NoError(t, repo.Create(ctx, &want))

			got, err := repo.Get(ctx, "alice")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, want, *got)
		})
	})

	t.Run("DuplicateUsernameConflicts", func(t *testing.T) {
		testutil.SeedUser(t, db, dialect, "conflicted")
		t.Cleanup(func() { _ = pool.Delete(ctx, "conflicted") })

		before, err := pool.Get(ctx, "conflicted")
		require.NoError(t, err)
		require.NotNil(t, before)

		testutil.WithRollback(t, db, func(tx *sql.Tx) {
			dup := entity.User{Username: "conflicted", FirstName: "Other", LastName: "Person", Role: "admin"}
			err := pool.WithTx(tx).Create(ctx, &dup)
			require.Error(t, err)
			assert.ErrorIs(t, err, repository.ErrConflict)
			assert.Equal(t, repository.KindConflict, repository.KindOf(err))
		})

		after, err := pool.Get(ctx, "conflicted")
		require.NoError(t, err)
		require.NotNil(t, after)
		assert.Equal(t, *before, *after)
		assert.Equal(t, "doctor", after.Role)
	})

	t.Run("DeleteSucceedsOnce", func(t *testing.T) {
		testutil.WithRollback(t, db, func(tx *sql.Tx) {
			repo := pool.WithTx(tx)
			require.NoError(t, repo.Create(ctx, &entity.User{Username: "dave", Role: entity.DefaultRole}))

			require.NoError(t, repo.Delete(ctx, "dave"))

			err := repo.Delete(ctx, "dave")
			assert.ErrorIs(t, err, repository.ErrNotFound)
			assert.Equal(t, repository.KindNotFound, repository.KindOf(err))

			gone, err := repo.Get(ctx, "dave")
			require.NoError(t, err)
			assert.Nil(t, gone)
		})
	})

	t.Run("DeleteNeverCreated", func(t *testing.T) {
		testutil.WithRollback(t, db, func(tx *sql.Tx) {
			err := pool.WithTx(tx).Delete(ctx, "nobody")
			assert.ErrorIs(t, err, repository.ErrNotFound)

			var storageErr *repository.StorageError
			assert.False(t, errors.As(err, &storageErr))
		})
	})

	t.Run("GetMissingIsAbsent", func(t *testing.T) {
		got, err := pool.Get(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ListKeepsInsertionOrder", func(t *testing.T) {
		testutil.WithRollback(t, db, func(tx *sql.Tx) {
			testutil.TruncateUsers(t, tx, dialect)
			repo := pool.WithTx(tx)

			empty, err := repo.List(ctx)
			require.NoError(t, err)
			assert.NotNil(t, empty)
			assert.Empty(t, empty)

			want := []entity.User{
				{Username: "zed", FirstName: "Zed", Role: "user"},
				{Username: "amy", LastName: "Pond", Role: "doctor"},
				{Username: "mia", Role: "admin"},
			}
			for i := range want {
				require.NoError(t, repo.Create(ctx, &want[i]))
			}

			got, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	})

	t.Run("RolledBackWorkIsInvisible", func(t *testing.T) {
		testutil.WithRollback(t, db, func(tx *sql.Tx) {
			repo := pool.WithTx(tx)
			require.NoError(t, repo.Create(ctx, &entity.User{Username: "temp", Role: "user"}))
			got, err := repo.Get(ctx, "temp")
			require.NoError(t, err)
			require.NotNil(t, got)
		})

		got, err := pool.Get(ctx, "temp")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, pool.Ping(ctx))
	})
}
