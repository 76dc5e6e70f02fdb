package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kuku/internal/domain"
	"kuku/internal/dto"
	apperrors "kuku/internal/errors"
)

type mockRepository struct {
	FindAvailableFunc func(ctx context.Context) ([]domain.Product, error)
	FindByIDsFunc     func(ctx context.Context, ids []string) ([]domain.Product, error)
	FindByIDFunc      func(ctx context.Context, id string) (*domain.Product, error)
	InsertFunc        func(ctx context.Context, p domain.Product) error
	UpdateFunc        func(ctx context.Context, p domain.Product) error
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *mockRepository) FindAvailable(ctx context.Context) ([]domain.Product, error) {
	if m.FindAvailableFunc != nil {
		return m.FindAvailableFunc(ctx)
	}
	return []domain.Product{}, nil
}

func (m *mockRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, apperrors.NewNotFoundError("product " + id + " not found")
}

func (m *mockRepository) Insert(ctx context.Context, p domain.Product) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, p)
	}
	return nil
}

func (m *mockRepository) Update(ctx context.Context, p domain.Product) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *ProductService {
	svc := NewService(repo, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func validRequest() dto.ProductRequest {
	return dto.ProductRequest{
		Title:       "Fresh Broiler Chicken",
		Description: "Farm raised",
		Category:    "Broiler",
		Price:       ptr(1200.0),
		Quantity:    ptr(50),
	}
}

func TestProductService_Create_Defaults(t *testing.T) {
	var inserted domain.Product
	repo := &mockRepository{
		InsertFunc: func(ctx context.Context, p domain.Product) error {
			inserted = p
			return nil
		},
	}

	p, err := newTestService(repo).Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Len(t, p.ID, 36)
	assert.Equal(t, "broiler", p.Category)
	assert.True(t, p.IsAvailable)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, fixedNow, p.CreatedAt)
	assert.Equal(t, fixedNow, p.UpdatedAt)
	assert.Equal(t, *p, inserted)
}

func TestProductService_Create_ExplicitUnavailable(t *testing.T) {
	req := validRequest()
	req.IsAvailable = ptr(false)
	req.Images = []string{"a.jpg"}

	p, err := newTestService(&mockRepository{}).Create(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, p.IsAvailable)
	assert.Equal(t, []string{"a.jpg"}, p.Images)
}

func TestProductService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.ProductRequest)
		field  string
	}{
		{"missing title", func(r *dto.ProductRequest) { r.Title = "  " }, "title"},
		{"missing description", func(r *dto.ProductRequest) { r.Description = "" }, "description"},
		{"missing category", func(r *dto.ProductRequest) { r.Category = "" }, "category"},
		{"missing price", func(r *dto.ProductRequest) { r.Price = nil }, "price"},
		{"zero price", func(r *dto.ProductRequest) { r.Price = ptr(0.0) }, "price"},
		{"missing quantity", func(r *dto.ProductRequest) { r.Quantity = nil }, "quantity"},
		{"negative quantity", func(r *dto.ProductRequest) { r.Quantity = ptr(-1) }, "quantity"},
		{"blank image", func(r *dto.ProductRequest) { r.Images = []string{"ok.jpg", " "} }, "images[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			repo := &mockRepository{
				InsertFunc: func(ctx context.Context, p domain.Product) error {
					called = true
					return nil
				},
			}

			req := validRequest()
			tt.mutate(&req)

			_, err := newTestService(repo).Create(context.Background(), req)
			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			require.Len(t, ve.Details, 1)
			assert.Equal(t, tt.field, ve.Details[0].Field)
			assert.False(t, called)
		})
	}
}

func TestProductService_Create_ZeroQuantityAllowed(t *testing.T) {
	req := validRequest()
	req.Quantity = ptr(0)

	p, err := newTestService(&mockRepository{}).Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.True(t, p.IsAvailable)
}

func TestProductService_Update_ReplacesRecord(t *testing.T) {
	created := fixedNow.Add(-24 * time.Hour)
	repo := &mockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Product, error) {
			return &domain.Product{
				ID: id, Title: "Old", Description: "Old", Category: "eggs",
				Price: 10, Quantity: 1, IsAvailable: false, Images: []string{"old.jpg"},
				CreatedAt: created, UpdatedAt: created,
			}, nil
		},
	}

	p, err := newTestService(repo).Update(context.Background(), "p-1", validRequest())
	require.NoError(t, err)

	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "Fresh Broiler Chicken", p.Title)
	assert.True(t, p.IsAvailable)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, fixedNow, p.UpdatedAt)
}

func TestProductService_Update_NotFound(t *testing.T) {
	_, err := newTestService(&mockRepository{}).Update(context.Background(), "missing", validRequest())
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestProductService_Update_ValidatesBeforeLookup(t *testing.T) {
	repo := &mockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Product, error) {
			t.Fatal("lookup must not happen for invalid input")
			return nil, nil
		},
	}

	req := validRequest()
	req.Price = ptr(-5.0)

	_, err := newTestService(repo).Update(context.Background(), "p-1", req)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestProductService_Delete_PropagatesNotFound(t *testing.T) {
	repo := &mockRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			return apperrors.NewNotFoundError("product " + id + " not found")
		},
	}

	err := newTestService(repo).Delete(context.Background(), "missing")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestProductService_GetByIDs_ReportsMissing(t *testing.T) {
	repo := &mockRepository{
		FindByIDsFunc: func(ctx context.Context, ids []string) ([]domain.Product, error) {
			return []domain.Product{{ID: "p-2"}}, nil
		},
	}

	found, missing, err := newTestService(repo).GetByIDs(context.Background(), []string{"p-1", "p-2", "p-3"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, []string{"p-1", "p-3"}, missing)
}

func TestProductService_GetByIDs_RepositoryError(t *testing.T) {
	repo := &mockRepository{
		FindByIDsFunc: func(ctx context.Context, ids []string) ([]domain.Product, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, _, err := newTestService(repo).GetByIDs(context.Background(), []string{"p-1"})
	assert.EqualError(t, err, "connection refused")
}
