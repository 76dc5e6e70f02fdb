package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuku/internal/domain"
	"kuku/internal/errors"
	"kuku/internal/testutil"
)

// Unit Tests

func TestNewSQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewSQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestEncodeImages_NilIsEmptyArray(t *testing.T) {
	s, err := encodeImages(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)
}

// Integration Tests

var baseTime = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func newProduct(id string, createdAt time.Time, available bool) domain.Product {
	return domain.Product{
		ID:          id,
		Title:       "Fresh Broiler Chicken",
		Description: "Farm raised, 1.8kg average",
		Category:    domain.CategoryBroiler,
		Price:       1200,
		Quantity:    50,
		IsAvailable: available,
		Images:      []string{"https://cdn.kuku.local/broiler-1.jpg", "https://cdn.kuku.local/broiler-2.jpg"},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestRepository_InsertAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newProduct("p-1", baseTime, true)))

	p, err := repo.FindByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Broiler Chicken", p.Title)
	assert.Equal(t, domain.CategoryBroiler, p.Category)
	assert.Equal(t, 1200.0, p.Price)
	assert.Equal(t, 50, p.Quantity)
	assert.True(t, p.IsAvailable)
	assert.Equal(t, []string{"https://cdn.kuku.local/broiler-1.jpg", "https://cdn.kuku.local/broiler-2.jpg"}, p.Images)
	assert.True(t, baseTime.Equal(p.CreatedAt))
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLRepository(db)

	p, err := repo.FindByID(context.Background(), "missing")
	assert.Nil(t, p)

	nfe, ok := errors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "product missing not found", nfe.Message)
}

func TestRepository_FindAvailable_FiltersAndOrdersNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newProduct("old", baseTime, true)))
	require.NoError(t, repo.Insert(ctx, newProduct("new", baseTime.Add(time.Hour), true)))
	require.NoError(t, repo.Insert(ctx, newProduct("hidden", baseTime.Add(2*time.Hour), false)))

	products, err := repo.FindAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "new", products[0].ID)
	assert.Equal(t, "old", products[1].ID)
}

func TestRepository_FindAvailable_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLRepository(db)

	products, err := repo.FindAvailable(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestRepository_FindByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newProduct("p-1", baseTime, true)))
	require.NoError(t, repo.Insert(ctx, newProduct("p-2", baseTime, false)))

	products, err := repo.FindByIDs(ctx, []string{"p-1", "p-2", "p-404"})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	p := newProduct("p-1", baseTime, true)
	require.NoError(t, repo.Insert(ctx, p))

	p.Title = "Kienyeji Hen"
	p.Category = domain.CategoryKienyeji
	p.Price = 1500
	p.IsAvailable = false
	p.Images = nil
	p.UpdatedAt = baseTime.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.FindByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Kienyeji Hen", got.Title)
	assert.Equal(t, 1500.0, got.Price)
	assert.False(t, got.IsAvailable)
	assert.Equal(t, []string{}, got.Images)
	assert.True(t, baseTime.Equal(got.CreatedAt))
	assert.True(t, baseTime.Add(time.Minute).Equal(got.UpdatedAt))
}

func TestRepository_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLRepository(db)

	err := repo.Update(context.Background(), newProduct("missing", baseTime, true))
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newProduct("p-1", baseTime, true)))
	require.NoError(t, repo.Delete(ctx, "p-1"))

	_, err := repo.FindByID(ctx, "p-1")
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)

	err = repo.Delete(ctx, "p-1")
	_, ok = errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestRepository_MySQL_RoundTrip(t *testing.T) {
	db := testutil.SetupMySQLDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newProduct("p-mysql", baseTime, true)))

	p, err := repo.FindByID(ctx, "p-mysql")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, p.Price)
	assert.True(t, p.IsAvailable)
	assert.Len(t, p.Images, 2)
}
