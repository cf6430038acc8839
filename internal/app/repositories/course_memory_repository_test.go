package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rifat402/courses-app/internal/app/models"
	"github.com/Rifat402/courses-app/internal/pkg/apperrors"
)

func TestMemoryCourseRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCourseRepository()

	id, err := repo.Create(ctx, models.Course{"title": "Networks", "credits": 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	course, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.Course{"id": int64(1), "title": "Networks", "credits": float64(3)}, course)

	updated, err := repo.Update(ctx, id, models.Course{"credits": 5, "room": "A1"})
	require.NoError(t, err)
	assert.Equal(t, models.Course{"id": int64(1), "title": "Networks", "credits": float64(5), "room": "A1"}, updated)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.FindByID(ctx, id)
	assert.True(t, errors.Is(err, apperrors.ErrCourseNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, id), ErrNotFound))

	_, err = repo.Update(ctx, id, models.Course{"title": "x"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryCourseRepositoryKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCourseRepository()

	for _, title := range []string{"a", "b", "c", "d"} {
		_, err := repo.Create(ctx, models.Course{"title": title})
		require.NoError(t, err)
	}
	require.NoError(t, repo.Delete(ctx, 2))

	courses, err := repo.FindAll(ctx)
	require.NoError(t, err)

	var ids []int64
	for _, c := range courses {
		id, ok := c.ID()
		require.True(t, ok)
		ids = append(ids, id)
	}
	assert.Equal(t, []int64{1, 3, 4}, ids)

	// ids are never reused after a delete
	id, err := repo.Create(ctx, models.Course{"title": "e"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestMemoryCourseRepositoryIgnoresIdentifierFields(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCourseRepository()

	id, err := repo.Create(ctx, models.Course{"id": 77, "_id": "x", "title": "t"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	course, err := repo.Update(ctx, id, models.Course{"id": 3})
	require.NoError(t, err)
	assert.Equal(t, models.Course{"id": int64(1), "title": "t"}, course)
}

func TestMemoryCourseRepositoryIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCourseRepository()

	input := models.Course{"title": "Original", "tags": []interface{}{"x"}}
	id, err := repo.Create(ctx, input)
	require.NoError(t, err)

	input["title"] = "Mutated input"
	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	got["title"] = "Mutated output"
	got["tags"].([]interface{})[0] = "y"

	again, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Original", again["title"])
	assert.Equal(t, []interface{}{"x"}, again["tags"])
}

func TestMemoryCourseRepositoryConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCourseRepository()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := repo.Create(ctx, models.Course{"n": i})
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i], "missing id %d", i)
	}
}
