package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kuku/internal/domain"
	"kuku/internal/dto"
	apperrors "kuku/internal/errors"
)

type Repository interface {
	FindAvailable(ctx context.Context) ([]domain.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Insert(ctx context.Context, p domain.Product) error
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error
}

type ProductService struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// List returns the storefront catalog: available products only.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAvailable(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByIDs resolves a batch of ids and reports the ones the catalog does not
// know about, in request order.
func (s *ProductService) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, []string, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[string]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}

	var notFoundIDs []string
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}

func (s *ProductService) Create(ctx context.Context, req dto.ProductRequest) (*domain.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	p := domain.Product{
		ID:        uuid.New().String(),
		CreatedAt: now,
	}
	applyRequest(&p, req, now)

	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("productId", p.ID), zap.String("category", p.Category))
	return &p, nil
}

// Update replaces the whole record. Fields absent from req take their
// defaults, exactly as on create.
func (s *ProductService) Update(ctx context.Context, id string, req dto.ProductRequest) (*domain.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := *existing
	applyRequest(&p, req, s.now())

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("productId", p.ID))
	return &p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.String("productId", id))
	return nil
}

func applyRequest(p *domain.Product, req dto.ProductRequest, now time.Time) {
	p.Title = strings.TrimSpace(req.Title)
	p.Description = strings.TrimSpace(req.Description)
	p.Category = strings.ToLower(strings.TrimSpace(req.Category))
	p.Price = *req.Price
	p.Quantity = *req.Quantity

	p.IsAvailable = true
	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
	}

	p.Images = req.Images
	if p.Images == nil {
		p.Images = []string{}
	}

	p.UpdatedAt = now
}

func validateProductRequest(req dto.ProductRequest) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.Title) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "title", Message: "title is required"})
	}

	if strings.TrimSpace(req.Description) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "description", Message: "description is required"})
	}

	if strings.TrimSpace(req.Category) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "category", Message: "category is required"})
	}

	if req.Price == nil {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price is required"})
	} else if *req.Price <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be greater than zero"})
	}

	if req.Quantity == nil {
		details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity is required"})
	} else if *req.Quantity < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity must not be negative"})
	}

	for i, img := range req.Images {
		if strings.TrimSpace(img) == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "images[" + strconv.Itoa(i) + "]",
				Message: "image must not be empty",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}
