package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"productstore/internal/config"
	"productstore/internal/database"
	"productstore/internal/errs"
	"productstore/internal/models"
	"productstore/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGORMRepo(t *testing.T) repositories.ProductRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Open(config.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return repositories.NewGORMProductRepository(db)
}

// forEachRepo runs fn against every ProductRepository implementation.
func forEachRepo(t *testing.T, fn func(t *testing.T, repo repositories.ProductRepository)) {
	t.Run("gorm", func(t *testing.T) { fn(t, newGORMRepo(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, repositories.NewMockProductRepository()) })
}

func widget(name string) *models.Product {
	return &models.Product{Name: name, Description: "A " + name, Price: 9.99, Qty: 10}
}

func TestProductRepository_CreateAssignsUniqueIDs(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		seen := map[uint]bool{}
		for i := 0; i < 5; i++ {
			p := widget(fmt.Sprintf("Widget %d", i))
			require.NoError(t, repo.Create(ctx, p))
			assert.NotZero(t, p.ID)
			assert.False(t, seen[p.ID], "id %d reused", p.ID)
			seen[p.ID] = true
		}
	})
}

func TestProductRepository_CreateIgnoresCallerID(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		first := widget("First")
		require.NoError(t, repo.Create(ctx, first))

		second := widget("Second")
		second.ID = first.ID
		require.NoError(t, repo.Create(ctx, second))
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestProductRepository_DuplicateNameConflicts(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Create(ctx, widget("Widget")))

		err := repo.Create(ctx, widget("Widget"))
		assert.ErrorIs(t, err, errs.ErrConflict)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestProductRepository_GetByIDAfterCreate(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		created := widget("Widget")
		require.NoError(t, repo.Create(ctx, created))

		fetched, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *created, *fetched)

		_, err = repo.GetByID(ctx, created.ID+100)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestProductRepository_Update(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		created := widget("Widget")
		require.NoError(t, repo.Create(ctx, created))
		require.NoError(t, repo.Create(ctx, widget("Gadget")))

		updated := &models.Product{ID: created.ID, Name: "Widget v2", Description: "", Price: -1.5, Qty: 0}
		require.NoError(t, repo.Update(ctx, updated))

		fetched, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *updated, *fetched)

		// Keeping its own name is not a conflict.
		require.NoError(t, repo.Update(ctx, &models.Product{ID: created.ID, Name: "Widget v2", Price: 1, Qty: 1}))

		// Taking another row's name is.
		err = repo.Update(ctx, &models.Product{ID: created.ID, Name: "Gadget", Price: 1, Qty: 1})
		assert.ErrorIs(t, err, errs.ErrConflict)
		fetched, err = repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget v2", fetched.Name)

		// The freed name can be reused by a new row.
		require.NoError(t, repo.Create(ctx, widget("Widget")))
	})
}

func TestProductRepository_UpdateMissing(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		err := repo.Update(ctx, &models.Product{ID: 9999, Name: "Ghost"})
		assert.ErrorIs(t, err, errs.ErrNotFound)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestProductRepository_DeleteReturnsSnapshot(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		created := widget("Widget")
		require.NoError(t, repo.Create(ctx, created))

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *created, *deleted)

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, errs.ErrNotFound)

		_, err = repo.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestProductRepository_IDsNotReusedAfterDelete(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		first := widget("First")
		require.NoError(t, repo.Create(ctx, first))
		last := widget("Last")
		require.NoError(t, repo.Create(ctx, last))

		_, err := repo.Delete(ctx, last.ID)
		require.NoError(t, err)

		next := widget("Next")
		require.NoError(t, repo.Create(ctx, next))
		assert.Greater(t, next.ID, last.ID)
	})
}

func TestProductRepository_GetAllMatchesLiveRows(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)

		var ids []uint
		for _, name := range []string{"A", "B", "C", "D"} {
			p := widget(name)
			require.NoError(t, repo.Create(ctx, p))
			ids = append(ids, p.ID)
		}
		_, err = repo.Delete(ctx, ids[1])
		require.NoError(t, err)

		all, err = repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i, p := range all {
			if i > 0 {
				assert.Less(t, all[i-1].ID, p.ID)
			}
			fetched, err := repo.GetByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, p, *fetched)
		}
	})
}

func TestProductRepository_ConcurrentCreatesSameName(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		const workers = 8

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := repo.Create(ctx, widget("Widget"))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, errs.ErrConflict):
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, workers-1, conflicts)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestProductRepository_Ping(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		assert.NoError(t, repo.Ping(context.Background()))
	})
}
